package outbound

import "context"

type DialRequest struct {
	To     string
	CallID string
}

// CallDialerPort places the outbound call with the telephony provider and
// returns the provider's opaque call handle.
type CallDialerPort interface {
	Dial(ctx context.Context, req DialRequest) (string, error)
}
