package services

import (
	"testing"

	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

func TestExtractContactFields(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		wantPhone string
		wantEmail string
	}{
		{
			name:      "spaced digit groups and email in one sentence",
			text:      "Sure, it's 98765 43210 and my email is jane.doe@example.com",
			wantPhone: "98765 43210",
			wantEmail: "jane.doe@example.com",
		},
		{
			name:      "international format with separators",
			text:      "Call me on +1 (555) 123-4567 any time",
			wantPhone: "+1 (555) 123-4567",
		},
		{
			name:      "email only",
			text:      "just write to jane.doe@example.com please",
			wantEmail: "jane.doe@example.com",
		},
		{
			name: "too few digits is not a phone",
			text: "my pin is 1234 5678",
		},
		{
			name: "plain sentence yields nothing",
			text: "I am not sure I want to share that right now.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := ExtractContactFields(tc.text)
			if fields.Phone != tc.wantPhone {
				t.Fatalf("phone = %q, want %q", fields.Phone, tc.wantPhone)
			}
			if fields.Email != tc.wantEmail {
				t.Fatalf("email = %q, want %q", fields.Email, tc.wantEmail)
			}
		})
	}
}

func TestExtractFromTurns(t *testing.T) {
	turns := []domain.ConversationTurn{
		{Role: domain.CallerRole, Text: "My number is 555 123 4567 89"},
		{Role: domain.CallerRole, Text: "Use my work address, or the other number 999 999 9999 99"},
		{Role: domain.AgentRole, Text: "Got it, I have your email as jane.doe@example.com, correct?"},
	}

	fields := ExtractFromTurns(turns)

	if fields.Phone != "555 123 4567 89" {
		t.Fatal("first phone in the transcript must win; got:", fields.Phone)
	}
	if fields.Email != "jane.doe@example.com" {
		t.Fatal("values echoed only in agent turns must still be extracted; got:", fields.Email)
	}
}

func TestExtractFromTurns_AgentEchoOnly(t *testing.T) {
	turns := []domain.ConversationTurn{
		{Role: domain.CallerRole, Text: "It's lena dot reyes at proton mail dot com"},
		{Role: domain.AgentRole, Text: "Perfect, so that's lena.reyes@protonmail.com?"},
		{Role: domain.CallerRole, Text: "Yes, exactly."},
	}

	fields := ExtractFromTurns(turns)

	if fields.Email != "lena.reyes@protonmail.com" {
		t.Fatal("spelled-out values exist only in the agent echo; got:", fields.Email)
	}
}
