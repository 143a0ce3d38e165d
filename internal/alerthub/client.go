package alerthub

import "brgyalert/backend/internal/models"

// Client is any subscriber of the live alert feed (a WebSocket connection, the
// Telegram broadcaster). The hub owns registration and closes the client when it
// is removed.
type Client interface {
	// GetID returns an identifier unique per connection, not per user.
	GetID() string
	// GetSendChannel is the channel the hub pushes events into. The hub never
	// blocks on it: a full channel gets the client dropped.
	GetSendChannel() chan<- models.AlertEvent
	// Run starts the client's pumps.
	Run()
	// Close releases the client. Called once by the hub after removal.
	Close()
}
