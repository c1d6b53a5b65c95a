package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticAuthorizer struct {
	token string
}

func (a staticAuthorizer) Authorize(context.Context) (string, error) {
	return a.token, nil
}

func TestWhatsAppMessenger_SendMessage(t *testing.T) {
	var gotAuth string
	var gotBody WhatsAppMessageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Error("failed to decode request body:", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	messenger := NewWhatsAppMessenger(server.URL, staticAuthorizer{token: "tok-1"})

	err := messenger.SendMessage(context.Background(), "+15550001111", "Thanks for your time!")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatal("expected the bearer token, got:", gotAuth)
	}
	if gotBody.To != "+15550001111" || gotBody.Text != "Thanks for your time!" {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
}

func TestWhatsAppMessenger_RejectedSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	messenger := NewWhatsAppMessenger(server.URL, staticAuthorizer{token: "tok-1"})

	if err := messenger.SendMessage(context.Background(), "+15550001111", "hi"); err == nil {
		t.Fatal("expected an error for a rejected send")
	}
}

func TestWhatsAppMessenger_ClientHasTimeout(t *testing.T) {
	messenger := NewWhatsAppMessenger("http://unreachable.invalid", staticAuthorizer{}).(*whatsAppMessenger)

	// The send runs detached from any request context; an unbounded
	// client would pin a pool worker on a hung partner API.
	if messenger.client.Timeout <= 0 || messenger.client.Timeout > time.Minute {
		t.Fatal("expected a bounded client timeout, got:", messenger.client.Timeout)
	}
}
