package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/KirkDiggler/zombeers/internal/common/clock"
	"github.com/KirkDiggler/zombeers/internal/common/roomcode"
	"github.com/KirkDiggler/zombeers/internal/common/uuid"
	"github.com/KirkDiggler/zombeers/internal/config"
	"github.com/KirkDiggler/zombeers/internal/handlers/httpapi"
	"github.com/KirkDiggler/zombeers/internal/handlers/ws"
	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"github.com/KirkDiggler/zombeers/internal/services/room"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the room relay server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := newServer(a.cfg, a.logger)
			if err != nil {
				return err
			}

			listener, err := net.Listen("tcp", a.cfg.Addr())
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", a.cfg.Addr(), err)
			}

			return srv.serve(cmd.Context(), listener)
		},
	}

	config.RegisterServeFlags(cmd.Flags(), a.cfg)

	return cmd
}

// server is the relay server with the components it shuts down
type server struct {
	http            *http.Server
	hub             *ws.Hub
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

func newServer(cfg *config.Config, logger *zap.Logger) (*server, error) {
	wallClock := clock.New()
	uuidGenerator := uuid.New()

	messagingService, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging service: %w", err)
	}

	gameService, err := game.New(&game.Config{
		Clock:            wallClock,
		UUIDGenerator:    uuidGenerator,
		MessagingService: messagingService,
		Logger:           logger.Named("game"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game service: %w", err)
	}

	hub := ws.NewHub(&ws.HubConfig{
		SendBuffer: cfg.SendBuffer,
		Logger:     logger.Named("hub"),
	})

	registry, err := room.New(&room.Config{
		GameService:      gameService,
		MessagingService: messagingService,
		CodeGenerator:    roomcode.New(&roomcode.Config{}),
		Notifier:         hub,
		Logger:           logger.Named("rooms"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room registry: %w", err)
	}

	wsHandler, err := ws.NewHandler(&ws.Config{
		RoomService:      registry,
		Hub:              hub,
		MessagingService: messagingService,
		UUIDGenerator:    uuidGenerator,
		Logger:           logger.Named("ws"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create websocket handler: %w", err)
	}

	router, err := httpapi.NewRouter(&httpapi.Config{
		RoomService: registry,
		Sessions:    hub,
		WebSocket:   wsHandler,
		Clock:       wallClock,
		PublicURL:   cfg.PublicURL,
		StaticDir:   cfg.StaticDir,
		QRSize:      cfg.QRSize,
		Logger:      logger.Named("http"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	return &server{
		http: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		hub:             hub,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}, nil
}

// serve accepts connections until ctx is done, then shuts down gracefully
func (s *server) serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", listener.Addr().String()))
		errCh <- s.http.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", s.shutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown
	s.hub.CloseAll()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
