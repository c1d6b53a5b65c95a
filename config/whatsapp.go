package config

import (
	"fmt"
	"os"
)

type WhatsAppConfig struct {
	ApiUrl string
}

func GetWhatsAppConfig() (*WhatsAppConfig, error) {
	apiUrl := os.Getenv("WHATSAPP_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("WHATSAPP_API_URL must be set")
	}

	return &WhatsAppConfig{
		ApiUrl: apiUrl,
	}, nil
}
