package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeNotification MessageType = "notification"
	MessageTypeCountdown    MessageType = "countdown"
)

// Message represents a WebSocket message
type Message struct {
	Type         MessageType          `json:"type"`
	UserID       string               `json:"userId,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
	Countdown    *models.Countdown    `json:"countdown,omitempty"`
	Timestamp    int64                `json:"timestamp"`
}

// CountdownFunc resolves the live countdown of a booking
type CountdownFunc func(ctx context.Context, bookingID string) (*models.Countdown, error)

// Hub manages WebSocket connections per user
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex

	clock     clockwork.Clock
	countdown CountdownFunc
	log       *logrus.Entry
}

// NewHub creates a new Hub. countdown may be nil, in which case clients
// only receive notifications.
func NewHub(clock clockwork.Clock, countdown CountdownFunc) *Hub {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		clock:      clock,
		countdown:  countdown,
		log:        logrus.WithField("component", "websocket"),
	}
}

// ErrHubClosed is returned by Publish once the hub has stopped
var ErrHubClosed = errors.New("websocket hub closed")

// Run starts the hub's main loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for userID, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.log.WithFields(logrus.Fields{"userId": client.userID, "total": len(h.clients[client.userID])}).Debug("Client registered")
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.log.WithError(err).Warn("Failed to marshal message")
				continue
			}

			h.mu.Lock()
			for client := range h.clients[message.UserID] {
				select {
				case client.send <- data:
				default:
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops client and closes its send channel; callers hold h.mu
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	h.log.WithFields(logrus.Fields{"userId": client.userID, "remaining": len(clients)}).Debug("Client unregistered")
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
}

// Publish pushes a notification to every connection of its user
func (h *Hub) Publish(ctx context.Context, n models.Notification) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	msg := &Message{
		Type:         MessageTypeNotification,
		UserID:       n.UserID,
		Notification: &n,
		Timestamp:    h.clock.Now().UnixMilli(),
	}
	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientCount returns the number of open connections of a user
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
