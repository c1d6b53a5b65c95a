package inbound

import "context"

type InitiateCallParams struct {
	ContactID   string
	CampaignID  string
	PhoneNumber string
}

type InitiateCallResult struct {
	CallID         string
	ProviderCallID string
}

// CallInitiatorPort creates the durable call record, registers the live
// session and places the outbound call with the provider.
type CallInitiatorPort interface {
	Initiate(ctx context.Context, params InitiateCallParams) (*InitiateCallResult, error)
}
