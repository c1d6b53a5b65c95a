package adapters

import (
	"errors"
	"testing"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
)

func TestTwilioSpeechRecognizer_Recognize(t *testing.T) {
	recognizer := NewTwilioSpeechRecognizer()

	utterance, err := recognizer.Recognize(outbound.RecognitionInput{
		SpeechResult: "  my number is   555 123 4567 ",
	})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if utterance != "my number is 555 123 4567" {
		t.Fatal("expected normalized utterance, got:", utterance)
	}
}

func TestTwilioSpeechRecognizer_NoSpeech(t *testing.T) {
	recognizer := NewTwilioSpeechRecognizer()

	for _, speechResult := range []string{"", "   "} {
		_, err := recognizer.Recognize(outbound.RecognitionInput{SpeechResult: speechResult})
		if !errors.Is(err, outbound.ErrNoSpeech) {
			t.Fatalf("Recognize(%q): expected ErrNoSpeech, got %v", speechResult, err)
		}
	}
}
