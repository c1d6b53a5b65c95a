package adapters

import (
	"strings"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
)

type twilioSpeechRecognizer struct{}

// NewTwilioSpeechRecognizer normalizes the inline recognition results
// Twilio posts from a speech Gather. Twilio runs the actual transcription;
// this adapter only cleans up what arrives on the callback.
func NewTwilioSpeechRecognizer() outbound.SpeechRecognizerPort {
	return &twilioSpeechRecognizer{}
}

func (r *twilioSpeechRecognizer) Recognize(input outbound.RecognitionInput) (string, error) {
	utterance := strings.TrimSpace(input.SpeechResult)
	if utterance == "" {
		return "", outbound.ErrNoSpeech
	}
	// Collapse the double spaces Twilio occasionally inserts between
	// recognized phrases.
	utterance = strings.Join(strings.Fields(utterance), " ")
	return utterance, nil
}
