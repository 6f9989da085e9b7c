package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/teamdesk/calldesk-backend/pkg/logger"
)

const clientBuffer = 16

type wirePublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
	RealtimeChannel() string
}

// Client is one connected websocket consumer. Events are delivered on
// Send; slow consumers have events dropped rather than blocking the hub.
type Client struct {
	UserName string
	Send     chan []byte
}

// Hub fans dashboard events out to connected clients. Mutations publish
// through redis so every api instance sees every event.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	wire    wirePublisher
	logg    *logger.Logger
}

// NewHub builds the hub. wire may be nil in tests; events then only reach
// locally attached clients.
func NewHub(wire wirePublisher, logg *logger.Logger) *Hub {
	return &Hub{
		clients: map[*Client]bool{},
		wire:    wire,
		logg:    logg,
	}
}

// Register attaches a client and returns it ready to receive events.
func (h *Hub) Register(userName string) *Client {
	client := &Client{
		UserName: userName,
		Send:     make(chan []byte, clientBuffer),
	}
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	return client
}

// Unregister detaches the client and closes its channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if h.clients[client] {
		delete(h.clients, client)
		close(client.Send)
	}
	h.mu.Unlock()
}

// ClientCount reports how many consumers are attached.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishTableChange announces that a table changed. Satisfies the
// changePublisher interfaces of the domain services.
func (h *Hub) PublishTableChange(ctx context.Context, table string) {
	h.publish(ctx, Event{Type: EventTableChange, Table: table})
}

// PublishNotification sends a reminder addressed to one member.
func (h *Hub) PublishNotification(ctx context.Context, target, title, body string) {
	h.publish(ctx, Event{Type: EventNotification, Target: target, Title: title, Body: body})
}

func (h *Hub) publish(ctx context.Context, event Event) {
	if h.wire == nil {
		h.Dispatch(event)
		return
	}
	raw, err := event.Encode()
	if err != nil {
		return
	}
	if err := h.wire.Publish(ctx, h.wire.RealtimeChannel(), string(raw)); err != nil && h.logg != nil {
		h.logg.Warn(ctx, fmt.Sprintf("publishing realtime event: %v", err))
	}
}

// Dispatch fans one event out to the attached clients. Notification
// events only reach their target; table changes reach everyone. Full
// client buffers drop the event.
func (h *Hub) Dispatch(event Event) {
	raw, err := event.Encode()
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if event.Type == EventNotification && event.Target != client.UserName {
			continue
		}
		select {
		case client.Send <- raw:
		default:
		}
	}
}
