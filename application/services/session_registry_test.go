package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

func TestSessionRegistry_ResolveCacheHit(t *testing.T) {
	store := newFakeCallStore()
	registry := NewSessionRegistry(nopLogger{}, store)

	session := domain.NewCallSession("call-1", "contact-1", "camp-1", "+15550001111", "CA123", time.Now())
	registry.Register(session)

	resolved, err := registry.Resolve(context.Background(), "call-1")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if resolved != session {
		t.Fatal("expected the registered session instance")
	}
}

func TestSessionRegistry_ResolveRebuildsFromActiveRecord(t *testing.T) {
	store := newFakeCallStore()
	store.records["call-1"] = &domain.CallRecord{
		ID:             "call-1",
		ContactID:      "contact-1",
		CampaignID:     "camp-1",
		ProviderCallID: "CA123",
		Status:         domain.CallStatusActive,
		Fields:         domain.ContactFields{Phone: "+15550001111"},
		StartedAt:      time.Now().Add(-time.Minute),
	}
	registry := NewSessionRegistry(nopLogger{}, store)

	session, err := registry.Resolve(context.Background(), "call-1")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}

	if session.CampaignID != "camp-1" {
		t.Fatal("rebuilt session lost its campaign:", session.CampaignID)
	}
	if session.TurnCount() != 0 {
		t.Fatal("rebuilt session must start with an empty history")
	}
	if session.Fields().Phone != "+15550001111" {
		t.Fatal("rebuilt session must replay captured fields")
	}

	// The rebuilt session is now registered; a second resolve reuses it.
	again, err := registry.Resolve(context.Background(), "call-1")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if again != session {
		t.Fatal("expected the rebuilt session to be cached")
	}

	callID, ok := registry.LookupByProviderID("CA123")
	if !ok || callID != "call-1" {
		t.Fatal("expected provider id mapping after rebuild")
	}
}

func TestSessionRegistry_ResolveNonActiveRecord(t *testing.T) {
	store := newFakeCallStore()
	store.records["call-1"] = &domain.CallRecord{
		ID:     "call-1",
		Status: domain.CallStatusCompleted,
	}
	registry := NewSessionRegistry(nopLogger{}, store)

	_, err := registry.Resolve(context.Background(), "call-1")
	if !errors.Is(err, ErrNotResumable) {
		t.Fatal("expected ErrNotResumable for a completed record, got:", err)
	}
}

func TestSessionRegistry_ResolveUnknownCall(t *testing.T) {
	store := newFakeCallStore()
	registry := NewSessionRegistry(nopLogger{}, store)

	_, err := registry.Resolve(context.Background(), "no-such-call")
	if !errors.Is(err, ErrNotResumable) {
		t.Fatal("expected ErrNotResumable for a missing record, got:", err)
	}
}

func TestSessionRegistry_Remove(t *testing.T) {
	store := newFakeCallStore()
	registry := NewSessionRegistry(nopLogger{}, store)

	session := domain.NewCallSession("call-1", "contact-1", "camp-1", "+15550001111", "CA123", time.Now())
	registry.Register(session)
	registry.Remove("call-1")

	if registry.Len() != 0 {
		t.Fatal("expected an empty registry after removal")
	}
	if _, ok := registry.LookupByProviderID("CA123"); ok {
		t.Fatal("provider id mapping must be cleared on removal")
	}
}
