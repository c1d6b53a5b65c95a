package services

import (
	"context"
	"errors"
	"sync"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

// ErrNotResumable means the call is unknown to both the registry and the
// durable store, or its durable record already left the active status.
// The caller must answer with an end-of-call directive.
var ErrNotResumable = errors.New("call is not resumable")

// SessionRegistry caches live call sessions keyed by call id. Webhook
// delivery is not pinned to the process that started a call, so a miss is
// normal: the registry reconstructs the session from the durable record as
// long as that record is still active. Reconstruction starts with an empty
// turn history; only the extracted fields are replayed from storage.
type SessionRegistry struct {
	logger outbound.LoggerPort
	store  outbound.CallStorePort

	mu       sync.RWMutex
	sessions map[string]*domain.CallSession

	// provider call handle -> call id, maintained for status webhooks
	// that only carry the provider's identifier.
	byProviderID map[string]string
}

func NewSessionRegistry(logger outbound.LoggerPort, store outbound.CallStorePort) *SessionRegistry {
	return &SessionRegistry{
		logger:       logger,
		store:        store,
		sessions:     make(map[string]*domain.CallSession),
		byProviderID: make(map[string]string),
	}
}

// Resolve returns the live session for callID, rebuilding it from the
// durable record on a cache miss. Returns ErrNotResumable when the record
// is missing or no longer active.
func (r *SessionRegistry) Resolve(ctx context.Context, callID string) (*domain.CallSession, error) {
	r.mu.RLock()
	session, ok := r.sessions[callID]
	r.mu.RUnlock()
	if ok {
		return session, nil
	}

	record, err := r.store.GetCallRecord(ctx, callID)
	if err != nil {
		if errors.Is(err, outbound.ErrRecordNotFound) {
			return nil, ErrNotResumable
		}
		return nil, err
	}
	if record.Status != domain.CallStatusActive {
		return nil, ErrNotResumable
	}

	rebuilt := domain.NewCallSession(record.ID, record.ContactID, record.CampaignID,
		record.PhoneNumber, record.ProviderCallID, record.StartedAt)
	rebuilt.SetFields(record.Fields)

	r.mu.Lock()
	defer r.mu.Unlock()
	// A concurrent webhook may have rebuilt the session first; keep the
	// registered one so both turns share a single history.
	if existing, ok := r.sessions[callID]; ok {
		return existing, nil
	}
	r.sessions[callID] = rebuilt
	if rebuilt.ProviderCallID != "" {
		r.byProviderID[rebuilt.ProviderCallID] = callID
	}
	r.logger.InfoWithFields("session rebuilt from durable record", map[string]interface{}{
		"call_id": callID,
	})
	return rebuilt, nil
}

func (r *SessionRegistry) Register(session *domain.CallSession) {
	r.mu.Lock()
	r.sessions[session.ID] = session
	if session.ProviderCallID != "" {
		r.byProviderID[session.ProviderCallID] = session.ID
	}
	r.mu.Unlock()
}

// Get returns the cached session without touching the durable store.
func (r *SessionRegistry) Get(callID string) (*domain.CallSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[callID]
	return session, ok
}

// LookupByProviderID maps the provider's call handle to our call id.
func (r *SessionRegistry) LookupByProviderID(providerCallID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	callID, ok := r.byProviderID[providerCallID]
	return callID, ok
}

// Remove evicts the session once the call leaves active status.
func (r *SessionRegistry) Remove(callID string) {
	r.mu.Lock()
	if session, ok := r.sessions[callID]; ok {
		delete(r.byProviderID, session.ProviderCallID)
		delete(r.sessions, callID)
	}
	r.mu.Unlock()
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
