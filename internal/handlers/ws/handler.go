package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KirkDiggler/zombeers/internal/common/uuid"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"github.com/KirkDiggler/zombeers/internal/services/room"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Config holds configuration for the websocket handler
type Config struct {
	// RoomService applies requests to rooms
	RoomService room.Service

	// Hub delivers frames to connected clients. It must be the notifier the
	// room service was built with.
	Hub *Hub

	// MessagingService renders protocol errors
	MessagingService messaging.Service

	// UUIDGenerator creates session IDs
	UUIDGenerator uuid.UUID

	// CheckOrigin is passed to the upgrader. All origins are allowed when nil.
	CheckOrigin func(r *http.Request) bool

	// Logger is optional
	Logger *zap.Logger
}

// Handler upgrades requests to websocket sessions
type Handler struct {
	roomService      room.Service
	hub              *Hub
	messagingService messaging.Service
	uuidGenerator    uuid.UUID
	upgrader         websocket.Upgrader
	logger           *zap.Logger
}

// NewHandler creates a new websocket handler
func NewHandler(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RoomService == nil {
		return nil, errors.New("room service cannot be nil")
	}

	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	if cfg.UUIDGenerator == nil {
		return nil, errors.New("UUID generator cannot be nil")
	}

	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		roomService:      cfg.RoomService,
		hub:              cfg.Hub,
		messagingService: cfg.MessagingService,
		uuidGenerator:    cfg.UUIDGenerator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}, nil
}

// ServeHTTP handles GET /ws
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(h.uuidGenerator.NewUUID(), conn, h.hub.sendBuffer)
	h.hub.register(c)

	h.logger.Info("session connected", zap.String("session_id", c.id), zap.String("remote_addr", r.RemoteAddr))

	h.hub.send(c, &outbound{Type: typeConnected, Payload: &connectedPayload{SessionID: c.id}})

	ctx := context.WithoutCancel(r.Context())

	go h.writePump(c)
	go h.readPump(ctx, c)
}

// readPump processes the frames of one client in arrival order
func (h *Handler) readPump(ctx context.Context, c *client) {
	defer func() {
		h.hub.unregister(c)
		c.close()

		out, err := h.roomService.Disconnect(ctx, &room.DisconnectInput{SessionID: c.id})
		if err != nil {
			h.logger.Error("failed to disconnect session", zap.String("session_id", c.id), zap.Error(err))
			return
		}
		h.logger.Info("session disconnected",
			zap.String("session_id", c.id),
			zap.Strings("left_rooms", out.LeftRooms),
			zap.Strings("deleted_rooms", out.DeletedRooms))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", zap.String("session_id", c.id), zap.Error(err))
			}
			return
		}

		if messageType != websocket.TextMessage {
			h.sendError(ctx, c, messaging.ReasonInvalidMessage, "")
			continue
		}

		h.dispatch(ctx, c, data)
	}
}

// writePump drains the send queue and keeps the connection alive with pings
func (h *Handler) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Debug("websocket write failed", zap.String("session_id", c.id), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
