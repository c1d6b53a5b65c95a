package config

import (
	"fmt"
	"os"
)

type TwilioConfig struct {
	AccountSid string
	AuthToken  string
	FromNumber string
}

func GetTwilioConfig() (*TwilioConfig, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	if accountSid == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID must be set")
	}
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	if authToken == "" {
		return nil, fmt.Errorf("TWILIO_AUTH_TOKEN must be set")
	}
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if fromNumber == "" {
		return nil, fmt.Errorf("TWILIO_FROM_NUMBER must be set")
	}

	return &TwilioConfig{
		AccountSid: accountSid,
		AuthToken:  authToken,
		FromNumber: fromNumber,
	}, nil
}
