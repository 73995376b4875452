package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/KirkDiggler/zombeers/internal/common/clock"
	"github.com/KirkDiggler/zombeers/internal/services/room"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// DefaultQRSize is the edge length in pixels of room QR codes
const DefaultQRSize = 320

// SessionCounter reports the number of connected websocket sessions
type SessionCounter interface {
	Count() int
}

// Config holds configuration for the HTTP router
type Config struct {
	// RoomService answers room lookups
	RoomService room.Service

	// Sessions counts connected websocket sessions for the health check
	Sessions SessionCounter

	// WebSocket serves GET /ws
	WebSocket http.Handler

	// Clock is used for elapsed game times
	Clock clock.Clock

	// PublicURL is the base URL encoded in join QR codes. When empty it is
	// derived from the request.
	PublicURL string

	// StaticDir is served under / when set
	StaticDir string

	// QRSize is the QR code edge length, DefaultQRSize when zero
	QRSize int

	// Logger is optional
	Logger *zap.Logger
}

type api struct {
	roomService room.Service
	sessions    SessionCounter
	clock       clock.Clock
	publicURL   string
	qrSize      int
	logger      *zap.Logger
}

// NewRouter creates the HTTP surface of the server
func NewRouter(cfg *Config) (*httprouter.Router, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RoomService == nil {
		return nil, errors.New("room service cannot be nil")
	}

	if cfg.Sessions == nil {
		return nil, errors.New("session counter cannot be nil")
	}

	if cfg.WebSocket == nil {
		return nil, errors.New("websocket handler cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	qrSize := cfg.QRSize
	if qrSize <= 0 {
		qrSize = DefaultQRSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &api{
		roomService: cfg.RoomService,
		sessions:    cfg.Sessions,
		clock:       cfg.Clock,
		publicURL:   strings.TrimSuffix(cfg.PublicURL, "/"),
		qrSize:      qrSize,
		logger:      logger,
	}

	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		logger.Error("panic serving request", zap.String("path", r.URL.Path), zap.Any("panic", v))
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "internal server error"})
	}

	mux.Handler(http.MethodGet, "/ws", cfg.WebSocket)
	mux.GET("/healthz", a.serveHealthCheck)
	mux.GET("/rooms/:code", a.serveRoom)
	mux.GET("/rooms/:code/qr.png", a.serveRoomQR)

	if cfg.StaticDir != "" {
		mux.NotFound = http.FileServer(http.Dir(cfg.StaticDir))
	}

	return mux, nil
}
