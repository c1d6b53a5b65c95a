package outbound

import (
	"context"

	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

type SynthesizeSpeechRequest struct {
	Text          string
	VoiceID       string
	ModelID       string
	VoiceSettings domain.VoiceSettings
}

// SpeechSynthesizerPort converts reply text into playable audio bytes.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, req SynthesizeSpeechRequest) ([]byte, error)
}
