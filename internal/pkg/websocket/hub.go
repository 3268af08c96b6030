package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event type names carried on the notice feed
const (
	EventNoticePublished = "notice.published"
	EventNoticeRemoved   = "notice.removed"
)

// Event is one message pushed to notice feed subscribers
type Event struct {
	Type string `json:"type"`

	NoticeID int64 `json:"noticeId"`

	// Set for notice.published events
	Title      string    `json:"title,omitempty"`
	Body       string    `json:"body,omitempty"`
	AuthorName string    `json:"authorName,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of subscribed clients and fans events out to them
type Hub struct {
	clients map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub loop, handling registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Str("addr", client.conn.RemoteAddr().String()).
		Int("subscribers", len(h.clients)).
		Msg("Notice feed client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("addr", client.conn.RemoteAddr().String()).
			Int("subscribers", len(h.clients)).
			Msg("Notice feed client unregistered")
	}
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal notice event")
		return
	}

	h.mu.RLock()
	var slow []*Client
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Send buffer full, subscriber is slow or gone
			slow = append(slow, client)
		}
	}
	delivered := len(h.clients) - len(slow)
	h.mu.RUnlock()

	for _, client := range slow {
		h.unregisterClient(client)
	}

	h.logger.Debug().
		Str("type", event.Type).
		Int64("noticeID", event.NoticeID).
		Int("subscribers", delivered).
		Msg("Notice event broadcasted")
}

// Broadcast queues an event for delivery to all subscribers
func (h *Hub) Broadcast(event *Event) {
	h.broadcast <- event
}

// SubscriberCount returns the number of connected feed subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
