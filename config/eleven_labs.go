package config

import (
	"fmt"
	"os"
	"strconv"
)

type ElevenLabsConfig struct {
	ApiUrl          string
	ApiKey          string
	ModelId         string
	Stability       float64
	SimilarityBoost float64
	Style           float64
	SpeakerBoost    bool
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	apiUrl := os.Getenv("ELEVEN_LABS_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_API_URL must be set")
	}
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_API_KEY must be set")
	}
	modelId := os.Getenv("ELEVEN_LABS_MODEL_ID")
	if modelId == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_MODEL_ID must be set")
	}
	stability, err := parseFloatEnv("ELEVEN_LABS_STABILITY", 0.5)
	if err != nil {
		return nil, err
	}
	similarityBoost, err := parseFloatEnv("ELEVEN_LABS_SIMILARITY_BOOST", 0.75)
	if err != nil {
		return nil, err
	}
	style, err := parseFloatEnv("ELEVEN_LABS_STYLE", 0)
	if err != nil {
		return nil, err
	}
	speakerBoost := os.Getenv("ELEVEN_LABS_SPEAKER_BOOST") != "false"

	return &ElevenLabsConfig{
		ApiUrl:          apiUrl,
		ApiKey:          apiKey,
		ModelId:         modelId,
		Stability:       stability,
		SimilarityBoost: similarityBoost,
		Style:           style,
		SpeakerBoost:    speakerBoost,
	}, nil
}

func parseFloatEnv(name string, fallback float64) (float64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s", name)
	}
	return val, nil
}
