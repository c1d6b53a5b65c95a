package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/config"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

type ElevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelId       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	SpeakerBoost    bool    `json:"use_speaker_boost"`
}

type elevenLabsSynthesizer struct {
	ContentFetcher
	elevenLabsConfig *config.ElevenLabsConfig
}

func NewElevenLabsSynthesizer(contentFetcher ContentFetcher, elevenLabsConfig *config.ElevenLabsConfig) outbound.SpeechSynthesizerPort {
	return &elevenLabsSynthesizer{
		ContentFetcher:   contentFetcher,
		elevenLabsConfig: elevenLabsConfig,
	}
}

func (s *elevenLabsSynthesizer) Synthesize(ctx context.Context, synthesizeReq outbound.SynthesizeSpeechRequest) ([]byte, error) {
	req, err := s.getRequest(ctx, synthesizeReq)
	if err != nil {
		log.Error().Err(err).Str("action", "Synthesizing Speech").Str("text", synthesizeReq.Text).Msg("Failed to construct the HTTP request for speech synthesis")
		return nil, err
	}

	return s.FetchContent(req)
}

func (s *elevenLabsSynthesizer) getRequest(ctx context.Context, synthesizeReq outbound.SynthesizeSpeechRequest) (*http.Request, error) {
	modelId := synthesizeReq.ModelID
	if modelId == "" {
		modelId = s.elevenLabsConfig.ModelId
	}

	reqBody := ElevenLabsRequest{
		Text:          synthesizeReq.Text,
		ModelId:       modelId,
		VoiceSettings: s.voiceSettings(synthesizeReq.VoiceSettings),
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		log.Error().Err(err).Str("action", "Marshalling JSON").Interface("ElevenLabsRequest", reqBody).Msg("Failed to marshal the request body for ElevenLabs API")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.elevenLabsConfig.ApiUrl+"/"+synthesizeReq.VoiceID, bytes.NewBuffer(jsonPayload))
	if err != nil {
		log.Error().Err(err).Str("action", "Creating HTTP Request").Str("URL", s.elevenLabsConfig.ApiUrl+"/"+synthesizeReq.VoiceID).Msg("Failed to create the HTTP POST request")
		return nil, err
	}

	reqHeaders := map[string]string{
		"Accept":       "audio/mpeg",
		"xi-api-key":   s.elevenLabsConfig.ApiKey,
		"Content-Type": "application/json",
	}
	for key, value := range reqHeaders {
		req.Header.Add(key, value)
	}

	return req, nil
}

// voiceSettings applies config defaults wherever the campaign left its
// tuning parameters unset.
func (s *elevenLabsSynthesizer) voiceSettings(settings domain.VoiceSettings) VoiceSettings {
	out := VoiceSettings{
		Stability:       settings.Stability,
		SimilarityBoost: settings.SimilarityBoost,
		Style:           settings.Style,
		SpeakerBoost:    settings.SpeakerBoost,
	}
	if out.Stability == 0 {
		out.Stability = s.elevenLabsConfig.Stability
	}
	if out.SimilarityBoost == 0 {
		out.SimilarityBoost = s.elevenLabsConfig.SimilarityBoost
	}
	if out.Style == 0 {
		out.Style = s.elevenLabsConfig.Style
	}
	return out
}
