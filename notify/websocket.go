package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"boozedash/auth"
)

// WebsocketTransport websocket implementation of the push transport
type WebsocketTransport struct {
	url    string
	tokens *auth.TokenStore

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebsocketTransport creates a websocket transport for url. tokens may be
// nil for unauthenticated channels.
func NewWebsocketTransport(url string, tokens *auth.TokenStore) *WebsocketTransport {
	return &WebsocketTransport{url: url, tokens: tokens}
}

// Connect dials the backend; the handshake deadline comes from ctx
func (t *WebsocketTransport) Connect(ctx context.Context) error {
	header := http.Header{}
	if t.tokens != nil {
		if token, ok := t.tokens.Token(); ok {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	dialer := websocket.Dialer{}
	conn, _, err := dialer.DialContext(ctx, t.url, header)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}

	t.mu.Lock()
	if t.conn != nil {
		_ = t.conn.Close()
	}
	t.conn = conn
	t.mu.Unlock()
	return nil
}

// Receive reads the next message envelope from the socket
func (t *WebsocketTransport) Receive() (*Message, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return nil, fmt.Errorf("websocket not connected")
	}

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Close closes the current connection
func (t *WebsocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
