package outbound

import "github.com/Sameer-Bagul/ai-lead-generation-house/domain"

// CallEventPublisherPort pushes live call status to dashboard subscribers.
// Delivery is fire-and-forget; implementations must never block a turn.
type CallEventPublisherPort interface {
	Publish(event domain.CallEvent)
}
