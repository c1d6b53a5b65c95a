package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
)

type WhatsAppMessageRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

type whatsAppMessenger struct {
	apiUrl     string
	authorizer Authorizer
	client     *http.Client
}

// NewWhatsAppMessenger sends post-call follow-up messages through the
// WhatsApp business partner API. The send runs detached from any call, so
// the client timeout is the only bound on it.
func NewWhatsAppMessenger(apiUrl string, authorizer Authorizer) outbound.FollowUpMessengerPort {
	return &whatsAppMessenger{
		apiUrl:     apiUrl,
		authorizer: authorizer,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *whatsAppMessenger) SendMessage(ctx context.Context, destination string, text string) error {
	token, err := m.authorizer.Authorize(ctx)
	if err != nil {
		log.Err(err).Msg("Failed to authorize with messaging API")
		return err
	}

	payload, err := json.Marshal(WhatsAppMessageRequest{
		To:   destination,
		Text: text,
	})
	if err != nil {
		log.Err(err).Msg("Failed to marshal follow-up message request")
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiUrl, bytes.NewReader(payload))
	if err != nil {
		log.Err(err).Msg("Failed to create follow-up message request")
		return err
	}

	req.Header.Add("Authorization", "Bearer "+token)
	req.Header.Add("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		log.Err(err).Msg("Failed to send follow-up message request")
		return err
	}

	defer func(closer io.ReadCloser) {
		err := closer.Close()
		if err != nil {
			log.Err(err).Msg("Failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error().Msgf("Messaging API returned unexpected status code %d", resp.StatusCode)
		return fmt.Errorf("messaging API returned status %d", resp.StatusCode)
	}

	return nil
}
