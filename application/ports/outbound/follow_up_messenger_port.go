package outbound

import "context"

// FollowUpMessengerPort delivers the post-call follow-up message, e.g. over
// a WhatsApp business API. Send failures are logged by the caller and never
// affect the completed call.
type FollowUpMessengerPort interface {
	SendMessage(ctx context.Context, destination string, text string) error
}
