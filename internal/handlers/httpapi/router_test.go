package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/zombeers/internal/common/clock/mocks"
	"github.com/KirkDiggler/zombeers/internal/common/roomcode"
	"github.com/KirkDiggler/zombeers/internal/common/uuid"
	"github.com/KirkDiggler/zombeers/internal/handlers/ws"
	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"github.com/KirkDiggler/zombeers/internal/services/room"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RouterTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	gameClock   *mocks.MockClock
	routerClock *mocks.MockClock
	registry    room.Service
	sessions    *sessionCount
	ctx         context.Context

	// Test data
	startTime time.Time
	staticDir string
}

func (s *RouterTestSuite) SetupTest() {
	s.sessions = &sessionCount{}
	s.mockCtrl = gomock.NewController(s.T())
	s.gameClock = mocks.NewMockClock(s.mockCtrl)
	s.routerClock = mocks.NewMockClock(s.mockCtrl)
	s.ctx = context.Background()

	s.startTime = time.Date(2025, 4, 19, 20, 0, 0, 0, time.UTC)
	s.gameClock.EXPECT().Now().Return(s.startTime).AnyTimes()
	s.routerClock.EXPECT().Now().Return(s.startTime.Add(65 * time.Second)).AnyTimes()

	s.staticDir = s.T().TempDir()
	s.Require().NoError(os.WriteFile(filepath.Join(s.staticDir, "index.html"), []byte("<h1>Zombeers</h1>"), 0o644))

	messagingService, err := messaging.NewService(&messaging.ServiceConfig{})
	s.Require().NoError(err)

	gameService, err := game.New(&game.Config{
		Clock:            s.gameClock,
		UUIDGenerator:    uuid.New(),
		MessagingService: messagingService,
	})
	s.Require().NoError(err)

	registry, err := room.New(&room.Config{
		GameService:      gameService,
		MessagingService: messagingService,
		CodeGenerator:    roomcode.New(&roomcode.Config{Seed: 3}),
		Notifier:         ws.NewHub(nil),
	})
	s.Require().NoError(err)
	s.registry = registry
}

// sessionCount is a fixed connected-session count
type sessionCount struct {
	n int
}

func (c *sessionCount) Count() int {
	return c.n
}

func (s *RouterTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) newRouter(publicURL string) *httprouter.Router {
	router, err := NewRouter(&Config{
		RoomService: s.registry,
		Sessions:    s.sessions,
		WebSocket: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
		Clock:     s.routerClock,
		PublicURL: publicURL,
		StaticDir: s.staticDir,
	})
	s.Require().NoError(err)
	return router
}

func (s *RouterTestSuite) get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// startRoom creates a room with two players and a running game
func (s *RouterTestSuite) startRoom() string {
	created, err := s.registry.CreateRoom(s.ctx, &room.CreateRoomInput{SessionID: "host"})
	s.Require().NoError(err)

	for _, name := range []string{"Alice", "Bob"} {
		s.Require().NoError(s.registry.AddPlayer(s.ctx, &room.AddPlayerInput{SessionID: "host", RoomCode: created.RoomCode, Name: name}))
	}
	s.Require().NoError(s.registry.StartGame(s.ctx, &room.StartGameInput{SessionID: "host", RoomCode: created.RoomCode}))

	state, err := s.registry.RequestState(s.ctx, &room.RequestStateInput{SessionID: "host", RoomCode: created.RoomCode})
	s.Require().NoError(err)
	s.Require().NoError(s.registry.PlayerAction(s.ctx, &room.PlayerActionInput{
		SessionID: "host",
		RoomCode:  created.RoomCode,
		PlayerID:  state.State.Players[1].ID,
		Action:    "beer",
	}))

	return created.RoomCode
}

func (s *RouterTestSuite) TestNewRouter_Validation() {
	_, err := NewRouter(nil)
	s.Error(err)

	_, err = NewRouter(&Config{Sessions: s.sessions, WebSocket: http.NotFoundHandler(), Clock: s.routerClock})
	s.Error(err)

	_, err = NewRouter(&Config{RoomService: s.registry, WebSocket: http.NotFoundHandler(), Clock: s.routerClock})
	s.Error(err)

	_, err = NewRouter(&Config{RoomService: s.registry, Sessions: s.sessions, Clock: s.routerClock})
	s.Error(err)

	_, err = NewRouter(&Config{RoomService: s.registry, Sessions: s.sessions, WebSocket: http.NotFoundHandler()})
	s.Error(err)
}

func (s *RouterTestSuite) TestHealthCheck() {
	router := s.newRouter("")

	w := s.get(router, "/healthz")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok","rooms":0,"members":0,"sessions":0}`, w.Body.String())

	// Connected sessions count whether or not they joined a room
	s.sessions.n = 3
	s.startRoom()

	w = s.get(router, "/healthz")
	s.JSONEq(`{"status":"ok","rooms":1,"members":1,"sessions":3}`, w.Body.String())
}

func (s *RouterTestSuite) TestRoomSummary() {
	router := s.newRouter("https://zombeers.example/")
	code := s.startRoom()

	w := s.get(router, "/rooms/"+strings.ToLower(code))
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var resp roomResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(code, resp.RoomCode)
	s.True(resp.GameActive)
	s.Equal("00:01:05", resp.Elapsed)
	s.Equal(1, resp.Members)
	s.Equal("https://zombeers.example/?room="+code, resp.JoinURL)

	// Sorted by points
	s.Require().Len(resp.Players, 2)
	s.Equal("Bob", resp.Players[0].Name)
	s.Equal(2500, resp.Players[0].Points)
	s.Equal("Alice", resp.Players[1].Name)
}

func (s *RouterTestSuite) TestRoomSummary_NotFound() {
	router := s.newRouter("")

	w := s.get(router, "/rooms/ZZZZ")
	s.Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"error":"Room not found."}`, w.Body.String())

	w = s.get(router, "/rooms/ZZZZ/qr.png")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterTestSuite) TestRoomQR() {
	router := s.newRouter("")
	code := s.startRoom()

	w := s.get(router, "/rooms/"+code+"/qr.png")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("image/png", w.Header().Get("Content-Type"))
	s.True(strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func (s *RouterTestSuite) TestJoinURL_FromRequest() {
	a := &api{}

	req := httptest.NewRequest(http.MethodGet, "/rooms/AB12/qr.png", nil)
	req.Host = "party.local:8080"
	s.Equal("http://party.local:8080/?room=AB12", a.joinURL(req, "AB12"))

	req.Header.Set("X-Forwarded-Proto", "https")
	s.Equal("https://party.local:8080/?room=AB12", a.joinURL(req, "AB12"))
}

func (s *RouterTestSuite) TestWebSocketAndStaticRoutes() {
	router := s.newRouter("")

	s.Equal(http.StatusTeapot, s.get(router, "/ws").Code)

	w := s.get(router, "/")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "Zombeers")
}
