package outbound

import "errors"

// ErrNoSpeech signals that the provider delivered a recognition callback
// without any usable speech. The webhook layer re-prompts the caller
// instead of ending the call.
var ErrNoSpeech = errors.New("no speech detected")

// RecognitionInput carries the raw recognition payload from the provider's
// speech-collection callback.
type RecognitionInput struct {
	SpeechResult string
	Confidence   string
	Language     string
}

// SpeechRecognizerPort normalizes provider recognition results into
// utterance text.
type SpeechRecognizerPort interface {
	Recognize(input RecognitionInput) (string, error)
}
