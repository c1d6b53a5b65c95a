package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sameer-Bagul/ai-lead-generation-house/clock"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

type completerFixture struct {
	completer *callCompleter
	registry  *SessionRegistry
	store     *fakeCallStore
	generator *fakeGenerator
	messenger *fakeMessenger
	publisher *fakePublisher
	clk       *clock.ManualClock
	session   *domain.CallSession
}

func newCompleterFixture(t *testing.T) *completerFixture {
	t.Helper()

	logger := nopLogger{}
	store := newFakeCallStore()
	clk := clock.NewManualClock(time.Time{})
	registry := NewSessionRegistry(logger, store)
	generator := &fakeGenerator{summary: "Caller agreed to a follow-up and shared contact details."}
	messenger := &fakeMessenger{}
	publisher := &fakePublisher{}

	completer := NewCallCompleter(logger, registry, store, generator, messenger,
		publisher, inlineDispatcher{}, clk).(*callCompleter)

	session := domain.NewCallSession("call-1", "contact-1", "camp-1", "+15550001111", "CA123", clk.Now())
	registry.Register(session)
	store.records["call-1"] = &domain.CallRecord{
		ID:         "call-1",
		CampaignID: "camp-1",
		Status:     domain.CallStatusActive,
		StartedAt:  clk.Now(),
	}

	return &completerFixture{
		completer: completer,
		registry:  registry,
		store:     store,
		generator: generator,
		messenger: messenger,
		publisher: publisher,
		clk:       clk,
		session:   session,
	}
}

func TestCallCompleter_Complete(t *testing.T) {
	f := newCompleterFixture(t)
	f.session.AppendTurn(domain.AgentRole, "Hi, this is Dana.")
	f.session.AppendTurn(domain.CallerRole, "Reach me at jane.doe@example.com, number 555 123 4567 89")
	f.clk.Advance(90 * time.Second)

	f.completer.Complete(context.Background(), "call-1", 0)

	record := f.store.records["call-1"]
	if record.Status != domain.CallStatusCompleted {
		t.Fatal("expected completed status, got:", record.Status)
	}
	if record.Summary != f.generator.summary {
		t.Fatal("expected generated summary, got:", record.Summary)
	}
	if record.DurationSeconds != 90 {
		t.Fatalf("expected 90s duration from the clock, got %d", record.DurationSeconds)
	}
	if record.Fields.Email != "jane.doe@example.com" {
		t.Fatal("post-call extraction should capture the email, got:", record.Fields.Email)
	}

	if f.registry.Len() != 0 {
		t.Fatal("session must be evicted after completion")
	}

	if len(f.messenger.sent) != 1 || f.messenger.sent[0] != "555 123 4567 89" {
		t.Fatalf("expected one follow-up to the captured phone, got %v", f.messenger.sent)
	}
}

func TestCallCompleter_CompleteIsIdempotent(t *testing.T) {
	f := newCompleterFixture(t)
	f.session.AppendTurn(domain.CallerRole, "Sounds good.")

	f.completer.Complete(context.Background(), "call-1", 30)
	f.completer.Complete(context.Background(), "call-1", 30)

	if f.generator.summarizeCalls != 1 {
		t.Fatalf("expected a single summary generation, got %d", f.generator.summarizeCalls)
	}
	if got := f.store.updateCount(); got != 1 {
		t.Fatalf("expected a single record update, got %d", got)
	}
}

func TestCallCompleter_CompleteUntrackedCallIsNoOp(t *testing.T) {
	f := newCompleterFixture(t)

	f.completer.Complete(context.Background(), "no-such-call", 30)

	if f.generator.summarizeCalls != 0 {
		t.Fatal("no summary should be generated for an untracked call")
	}
	if got := f.store.updateCount(); got != 0 {
		t.Fatalf("no record update expected, got %d", got)
	}
}

func TestCallCompleter_SummaryFailureUsesFallback(t *testing.T) {
	f := newCompleterFixture(t)
	f.generator.summarizeErr = errors.New("model unavailable")

	f.completer.Complete(context.Background(), "call-1", 30)

	record := f.store.records["call-1"]
	if record.Status != domain.CallStatusCompleted {
		t.Fatal("summary failure must not block completion, got status:", record.Status)
	}
	if record.Summary != summaryFallback {
		t.Fatal("expected the fallback summary, got:", record.Summary)
	}
}

func TestCallCompleter_AgentEchoTriggersFollowUp(t *testing.T) {
	f := newCompleterFixture(t)
	f.session.AppendTurn(domain.CallerRole, "Five five five, one two three, four five six seven, eight nine")
	f.session.AppendTurn(domain.AgentRole, "Great, I noted 555 123 4567 89 as your number.")

	f.completer.Complete(context.Background(), "call-1", 30)

	if len(f.messenger.sent) != 1 || f.messenger.sent[0] != "555 123 4567 89" {
		t.Fatalf("a number only the agent echo carries must still trigger the follow-up, got %v", f.messenger.sent)
	}
}

func TestCallCompleter_NoFollowUpWithoutPhone(t *testing.T) {
	f := newCompleterFixture(t)
	f.session.AppendTurn(domain.CallerRole, "I would rather not share anything.")

	f.completer.Complete(context.Background(), "call-1", 30)

	if len(f.messenger.sent) != 0 {
		t.Fatalf("no follow-up expected without a captured phone, got %v", f.messenger.sent)
	}
}

func TestCallCompleter_MarkFailedSettlesRecordWithoutSession(t *testing.T) {
	f := newCompleterFixture(t)
	f.registry.Remove("call-1")

	f.completer.MarkFailed(context.Background(), "call-1", "no-answer")

	record := f.store.records["call-1"]
	if record.Status != domain.CallStatusFailed {
		t.Fatal("expected failed status, got:", record.Status)
	}
}
