package ws

import (
	"encoding/json"
	"sync"

	"github.com/KirkDiggler/zombeers/internal/services/room"
	"go.uber.org/zap"
)

// DefaultSendBuffer is the number of frames queued per client before it is
// considered slow and dropped
const DefaultSendBuffer = 64

// HubConfig holds configuration for the hub
type HubConfig struct {
	// SendBuffer is the per-client queue size, DefaultSendBuffer when zero
	SendBuffer int

	// Logger is optional
	Logger *zap.Logger
}

// Hub tracks connected clients by session ID and delivers room events to
// them. It implements room.Notifier.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*client
	sendBuffer int
	logger     *zap.Logger
}

// NewHub creates a new hub
func NewHub(cfg *HubConfig) *Hub {
	buffer := DefaultSendBuffer
	logger := zap.NewNop()
	if cfg != nil {
		if cfg.SendBuffer > 0 {
			buffer = cfg.SendBuffer
		}
		if cfg.Logger != nil {
			logger = cfg.Logger
		}
	}

	return &Hub{
		clients:    make(map[string]*client),
		sendBuffer: buffer,
		logger:     logger,
	}
}

// Notify encodes the event once and queues it for each session. A session
// whose queue is full is closed; its read pump then disconnects it from the
// registry.
func (h *Hub) Notify(sessionIDs []string, event *room.Event) {
	if event == nil || len(sessionIDs) == 0 {
		return
	}

	data, err := json.Marshal(&outbound{Type: string(event.Type), Payload: event.Payload})
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("type", string(event.Type)), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range sessionIDs {
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		h.deliver(c, data)
	}
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// CloseAll closes every connected client
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		c.close()
	}
}

// send encodes a frame and queues it for one client
func (h *Hub) send(c *client, frame *outbound) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("failed to encode frame", zap.String("type", frame.Type), zap.Error(err))
		return
	}
	h.deliver(c, data)
}

func (h *Hub) deliver(c *client, data []byte) {
	if c.enqueue(data) || c.closed() {
		return
	}

	h.logger.Warn("dropping slow client", zap.String("session_id", c.id))
	c.close()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
	}
}
