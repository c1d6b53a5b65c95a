package adapters

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard origins are enforced upstream by the ingress.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientSendBuffer bounds how far a subscriber may fall behind before it
// is dropped.
const clientSendBuffer = 16

// websocketClient owns one connection. All writes funnel through the send
// channel into a single writer goroutine; the connection allows only one
// concurrent writer.
type websocketClient struct {
	conn *websocket.Conn
	send chan domain.CallEvent
	done chan struct{}
}

// WebsocketEventPublisher fans call events out to connected dashboard
// clients. A slow or dead client is dropped rather than ever blocking a
// call's turn processing.
type WebsocketEventPublisher struct {
	logger outbound.LoggerPort

	mu      sync.Mutex
	clients map[*websocketClient]struct{}
}

func NewWebsocketEventPublisher(logger outbound.LoggerPort) *WebsocketEventPublisher {
	return &WebsocketEventPublisher{
		logger:  logger,
		clients: make(map[*websocketClient]struct{}),
	}
}

var _ outbound.CallEventPublisherPort = (*WebsocketEventPublisher)(nil)

// Subscribe upgrades the request and registers the connection until the
// peer goes away.
func (p *WebsocketEventPublisher) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Error(err, "websocket upgrade failed")
		return err
	}

	client := &websocketClient{
		conn: conn,
		send: make(chan domain.CallEvent, clientSendBuffer),
		done: make(chan struct{}),
	}

	p.mu.Lock()
	p.clients[client] = struct{}{}
	p.mu.Unlock()

	go p.writeLoop(client)
	go p.readLoop(client)

	return nil
}

// Publish enqueues the event for every subscriber. A client whose buffer
// is full is dropped instead of delaying the publishing turn.
func (p *WebsocketEventPublisher) Publish(event domain.CallEvent) {
	var stale []*websocketClient

	p.mu.Lock()
	for client := range p.clients {
		select {
		case client.send <- event:
		default:
			delete(p.clients, client)
			stale = append(stale, client)
		}
	}
	p.mu.Unlock()

	for _, client := range stale {
		p.logger.Debug("dropping slow websocket client")
		p.closeClient(client)
	}
}

// writeLoop is the only goroutine that writes to the connection.
func (p *WebsocketEventPublisher) writeLoop(client *websocketClient) {
	for {
		select {
		case event := <-client.send:
			if err := client.conn.WriteJSON(event); err != nil {
				p.drop(client)
				return
			}
		case <-client.done:
			return
		}
	}
}

// readLoop drains control frames; it ends when the peer closes.
func (p *WebsocketEventPublisher) readLoop(client *websocketClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			p.drop(client)
			return
		}
	}
}

// drop removes the client if it is still registered. Only the goroutine
// that wins the removal closes it, so done is closed exactly once.
func (p *WebsocketEventPublisher) drop(client *websocketClient) {
	p.mu.Lock()
	_, registered := p.clients[client]
	if registered {
		delete(p.clients, client)
	}
	p.mu.Unlock()

	if registered {
		p.closeClient(client)
	}
}

func (p *WebsocketEventPublisher) closeClient(client *websocketClient) {
	close(client.done)
	_ = client.conn.Close()
}

func (p *WebsocketEventPublisher) ClientCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}
