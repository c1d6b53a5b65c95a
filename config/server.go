package config

import (
	"fmt"
	"os"
	"strings"
)

type ServerConfig struct {
	// PublicBaseUrl is the externally reachable address Twilio calls back
	// on, e.g. https://voice.example.com
	PublicBaseUrl string
	Port          string
}

func GetServerConfig() (*ServerConfig, error) {
	baseUrl := os.Getenv("PUBLIC_BASE_URL")
	if baseUrl == "" {
		return nil, fmt.Errorf("PUBLIC_BASE_URL must be set")
	}
	baseUrl = strings.TrimRight(baseUrl, "/")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &ServerConfig{
		PublicBaseUrl: baseUrl,
		Port:          port,
	}, nil
}
