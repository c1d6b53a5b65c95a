package outbound

import (
	"context"
	"errors"

	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

// ErrRecordNotFound is returned when a campaign or call record does not
// exist in durable storage.
var ErrRecordNotFound = errors.New("record not found")

// CallRecordUpdate carries the fields of a partial update. Nil pointers are
// left untouched.
type CallRecordUpdate struct {
	Status          *domain.CallStatus
	Phone           *string
	Email           *string
	Summary         *string
	DurationSeconds *int
	ProviderCallID  *string
}

// CallStorePort is the durable record store. It is the source of truth for
// a call; the in-memory session registry is only a cache over it.
type CallStorePort interface {
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	GetCallRecord(ctx context.Context, id string) (*domain.CallRecord, error)
	CreateCallRecord(ctx context.Context, record domain.CallRecord) error
	UpdateCallRecord(ctx context.Context, id string, update CallRecordUpdate) error
	AppendConversationMessage(ctx context.Context, callID string, role domain.TurnRole, text string) error
}
