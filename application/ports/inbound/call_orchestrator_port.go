package inbound

import "context"

// CallOrchestratorPort drives one conversation turn per inbound webhook
// event. Both methods always return valid provider markup, even on internal
// failure: the caller hears a reply, a re-prompt or a graceful closing
// line, never silence.
type CallOrchestratorPort interface {
	// Intro produces the opening markup for a freshly answered call.
	Intro(ctx context.Context, callID string) string
	// ProcessTurn appends the caller utterance, generates and synthesizes
	// the reply and decides whether the call continues.
	ProcessTurn(ctx context.Context, callID string, utterance string) string
}
