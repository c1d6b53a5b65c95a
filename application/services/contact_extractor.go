package services

import (
	"regexp"
	"strings"

	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

var (
	// A phone number is a run of at least 10 digits, allowing spaces,
	// dashes, dots and parentheses between them, with an optional +.
	phonePattern = regexp.MustCompile(`\+?[\d][\d\s\-.()]{8,}[\d]`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
)

// ExtractContactFields pulls the first phone-like and email-like token out
// of free text. It is pure: no I/O, no state.
func ExtractContactFields(text string) domain.ContactFields {
	var fields domain.ContactFields

	if match := phonePattern.FindString(text); match != "" && countDigits(match) >= 10 {
		fields.Phone = strings.TrimSpace(match)
	}
	if match := emailPattern.FindString(text); match != "" {
		fields.Email = match
	}

	return fields
}

// ExtractFromTurns runs extraction over the entire transcript, agent turns
// included, first-found-wins per field. Agent confirmation echoes often
// carry a cleaner rendering of a value than the recognized utterance did.
func ExtractFromTurns(turns []domain.ConversationTurn) domain.ContactFields {
	var fields domain.ContactFields
	for _, turn := range turns {
		fields = fields.Merge(ExtractContactFields(turn.Text))
		if fields.Complete() {
			break
		}
	}
	return fields
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
