package domain

import (
	"testing"
	"time"
)

func TestContactFields_Merge(t *testing.T) {
	base := ContactFields{Phone: "+15550001111"}

	merged := base.Merge(ContactFields{Phone: "+19990002222", Email: "[email protected]"})

	if merged.Phone != "+15550001111" {
		t.Fatal("an already captured field must never be overwritten, got:", merged.Phone)
	}
	if merged.Email != "[email protected]" {
		t.Fatal("expected the empty field filled, got:", merged.Email)
	}
	if !merged.Complete() {
		t.Fatal("expected both fields captured")
	}
}

func TestCallSession_RecentTurns(t *testing.T) {
	session := NewCallSession("call-1", "contact-1", "camp-1", "+15550001111", "CA123", time.Now())
	session.AppendTurn(AgentRole, "one")
	session.AppendTurn(CallerRole, "two")
	session.AppendTurn(AgentRole, "three")

	recent := session.RecentTurns(2)
	if len(recent) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(recent))
	}
	if recent[0].Text != "two" || recent[1].Text != "three" {
		t.Fatalf("expected the latest turns oldest first, got %v", recent)
	}

	all := session.RecentTurns(10)
	if len(all) != 3 {
		t.Fatalf("a window larger than the history returns everything, got %d", len(all))
	}
}

func TestCallSession_MergeFieldsReportsChange(t *testing.T) {
	session := NewCallSession("call-1", "contact-1", "camp-1", "+15550001111", "CA123", time.Now())

	if _, changed := session.MergeFields(ContactFields{Phone: "+15550001111"}); !changed {
		t.Fatal("first capture must report a change")
	}
	if _, changed := session.MergeFields(ContactFields{Phone: "+19990002222"}); changed {
		t.Fatal("a losing merge must not report a change")
	}
	if _, changed := session.MergeFields(ContactFields{}); changed {
		t.Fatal("an empty merge must not report a change")
	}
}
