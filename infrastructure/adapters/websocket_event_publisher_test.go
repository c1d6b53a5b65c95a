package adapters

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

type silentLogger struct{}

func (silentLogger) Info(string)                                           {}
func (silentLogger) InfoWithFields(string, map[string]interface{})         {}
func (silentLogger) Error(error, string)                                   {}
func (silentLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (silentLogger) Debug(string)                                          {}
func (silentLogger) DebugWithFields(string, map[string]interface{})        {}
func (silentLogger) Warn(string)                                           {}
func (silentLogger) WarnWithFields(string, map[string]interface{})         {}

var _ outbound.LoggerPort = silentLogger{}

func newSubscribedClient(t *testing.T, publisher *WebsocketEventPublisher) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := publisher.Subscribe(w, r); err != nil {
			t.Error("subscribe failed:", err)
		}
	}))
	t.Cleanup(server.Close)

	wsUrl := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsUrl, nil)
	if err != nil {
		t.Fatal("failed to dial test server:", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestWebsocketEventPublisher_ConcurrentPublish(t *testing.T) {
	publisher := NewWebsocketEventPublisher(silentLogger{})
	conn := newSubscribedClient(t, publisher)

	received := make(chan domain.CallEvent, 512)
	go func() {
		for {
			var event domain.CallEvent
			if err := conn.ReadJSON(&event); err != nil {
				close(received)
				return
			}
			received <- event
		}
	}()

	const publishers = 8
	const eventsEach = 25

	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < eventsEach; j++ {
				publisher.Publish(domain.CallEvent{CallID: "call-1", Status: "active"})
			}
		}()
	}
	wg.Wait()

	// A client that falls behind may legitimately be dropped; what must
	// hold is that every delivered frame is intact and nothing panics.
	got := 0
	deadline := time.After(2 * time.Second)
	for got < publishers*eventsEach {
		select {
		case event, ok := <-received:
			if !ok {
				if got == 0 {
					t.Fatal("client dropped before receiving anything")
				}
				return
			}
			if event.CallID != "call-1" {
				t.Fatal("corrupted event frame:", event.CallID)
			}
			got++
		case <-deadline:
			if got == 0 {
				t.Fatal("no events delivered")
			}
			return
		}
	}
}

func TestWebsocketEventPublisher_ClosedPeerIsDropped(t *testing.T) {
	publisher := NewWebsocketEventPublisher(silentLogger{})
	conn := newSubscribedClient(t, publisher)

	if publisher.ClientCount() != 1 {
		t.Fatal("expected one subscriber, got:", publisher.ClientCount())
	}

	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for publisher.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed peer was never evicted")
		}
		publisher.Publish(domain.CallEvent{CallID: "call-1"})
		time.Sleep(10 * time.Millisecond)
	}
}
