package notify

import (
	"context"
	"encoding/json"
)

// Push event kinds delivered by the backend
const (
	EventNotification       = "notification"
	EventNotificationUpdate = "notification_update"
	EventOrderStatusUpdate  = "order_status_update"
)

// Message one named push event from the backend
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Transport a bidirectional event channel with connect/receive/close
// lifecycle. Implementations must be safe to reconnect after a failed
// Connect or a Receive error.
type Transport interface {
	// Connect establishes the connection, honoring ctx for the timeout.
	Connect(ctx context.Context) error

	// Receive blocks until the next message arrives or the connection is
	// lost, in which case it returns an error.
	Receive() (*Message, error)

	// Close tears down the connection.
	Close() error
}
