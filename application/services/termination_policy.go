package services

import (
	"strings"

	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

// MaxTurnsBeforeClose caps how long a call runs once both contact fields
// are known.
const MaxTurnsBeforeClose = 8

var closingPhrases = []string{
	"thank you for your time",
	"goodbye",
	"have a great day",
	"talk to you soon",
}

var optOutPhrases = []string{
	"not interested",
	"hang up",
	"stop calling",
	"do not call",
	"remove me",
}

// ShouldEndCall is the termination policy, evaluated once per turn.
// An explicit opt-out from the caller always ends the call, regardless of
// how much contact information has been collected. Otherwise the call ends
// once both fields are known and either the conversation has run long
// enough or the agent's reply reads like a sign-off.
func ShouldEndCall(fields domain.ContactFields, turnCount int, reply string, utterance string) bool {
	if containsAny(utterance, optOutPhrases) {
		return true
	}
	if !fields.Complete() {
		return false
	}
	if turnCount >= MaxTurnsBeforeClose {
		return true
	}
	return containsAny(reply, closingPhrases)
}

func containsAny(text string, phrases []string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
