package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/config"
)

type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// oauthAuthorizer fetches client-credentials tokens for the messaging
// partner API and caches them until shortly before expiry.
type oauthAuthorizer struct {
	logger outbound.LoggerPort
	conf   *config.AuthorizerConfig
	client *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewOauthAuthorizer(logger outbound.LoggerPort, conf *config.AuthorizerConfig) Authorizer {
	return &oauthAuthorizer{
		logger: logger,
		conf:   conf,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *oauthAuthorizer) Authorize(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && time.Now().Before(a.expiresAt) {
		return a.token, nil
	}

	clientCredentials := base64.StdEncoding.EncodeToString([]byte(a.conf.ClientID + ":" + a.conf.ClientSecret))

	requestBody := strings.NewReader("grant_type=client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", a.conf.TokenEndpoint, requestBody)
	if err != nil {
		a.logger.Error(err, "Failed to create the token request")
		return "", err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+clientCredentials)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error(err, "Failed to send the token request")
		return "", err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			a.logger.Error(err, "Failed to close the response body")
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Error(err, "Failed to read the token response body")
		return "", err
	}

	var tokenResponse TokenResponse
	err = json.Unmarshal(body, &tokenResponse)
	if err != nil {
		a.logger.Error(err, "Failed to unmarshal the token response body")
		return "", err
	}

	a.token = tokenResponse.AccessToken
	// renew a minute early so in-flight requests never carry a stale token
	a.expiresAt = time.Now().Add(time.Duration(tokenResponse.ExpiresIn)*time.Second - time.Minute)

	return a.token, nil
}
