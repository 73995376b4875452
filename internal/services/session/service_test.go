package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/zombeers/internal/common/clock"
	"github.com/KirkDiggler/zombeers/internal/common/clock/mocks"
	uuidMocks "github.com/KirkDiggler/zombeers/internal/common/uuid/mocks"
	"github.com/KirkDiggler/zombeers/internal/models"
	sessionrepo "github.com/KirkDiggler/zombeers/internal/repositories/session"
	repoMocks "github.com/KirkDiggler/zombeers/internal/repositories/session/mocks"
	"github.com/KirkDiggler/zombeers/internal/services/game"
	"github.com/KirkDiggler/zombeers/internal/services/messaging"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SessionServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockClock        *mocks.MockClock
	mockUUID         *uuidMocks.MockUUID
	mockRepo         *repoMocks.MockRepository
	gameService      game.Service
	messagingService messaging.Service
	ctx              context.Context

	// Test data
	testTime  time.Time
	idCounter int
	dir       string
}

func (s *SessionServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.mockRepo = repoMocks.NewMockRepository(s.mockCtrl)
	s.ctx = context.Background()
	s.dir = s.T().TempDir()

	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.idCounter = 0

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		s.idCounter++
		return fmt.Sprintf("player-%d", s.idCounter)
	}).AnyTimes()

	messagingService, err := messaging.NewService(&messaging.ServiceConfig{})
	s.Require().NoError(err)
	s.messagingService = messagingService

	gameService, err := game.New(&game.Config{
		Clock:            s.mockClock,
		UUIDGenerator:    s.mockUUID,
		MessagingService: messagingService,
	})
	s.Require().NoError(err)
	s.gameService = gameService
}

func (s *SessionServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}

// newService builds a session over the given repository
func (s *SessionServiceTestSuite) newService(repo sessionrepo.Repository) Service {
	svc, err := New(&Config{
		Repository:       repo,
		GameService:      s.gameService,
		MessagingService: s.messagingService,
		Clock:            s.mockClock,
	})
	s.Require().NoError(err)
	return svc
}

// newFileService builds a session over a file repository in the suite dir
func (s *SessionServiceTestSuite) newFileService() Service {
	repo, err := sessionrepo.NewFile(&sessionrepo.FileConfig{Dir: s.dir})
	s.Require().NoError(err)
	return s.newService(repo)
}

func (s *SessionServiceTestSuite) snapshotPath() string {
	return filepath.Join(s.dir, sessionrepo.DefaultKey+".json")
}

func (s *SessionServiceTestSuite) TestNew_Validation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{GameService: s.gameService, MessagingService: s.messagingService, Clock: s.mockClock})
	s.ErrorIs(err, ErrNilRepository)

	_, err = New(&Config{Repository: s.mockRepo, MessagingService: s.messagingService, Clock: s.mockClock})
	s.ErrorIs(err, ErrNilGameService)

	_, err = New(&Config{Repository: s.mockRepo, GameService: s.gameService, Clock: s.mockClock})
	s.ErrorIs(err, ErrNilMessagingService)

	_, err = New(&Config{Repository: s.mockRepo, GameService: s.gameService, MessagingService: s.messagingService})
	s.ErrorIs(err, ErrNilClock)
}

func (s *SessionServiceTestSuite) TestLoad_NoSnapshot() {
	svc := s.newFileService()

	out, err := svc.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.False(out.Restored)
	s.Equal(models.NewRoomState(), out.State)
}

func (s *SessionServiceTestSuite) TestSnapshotRoundTrip() {
	svc := s.newFileService()

	alice, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Alice"})
	s.Require().NoError(err)
	_, err = svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Bob"})
	s.Require().NoError(err)

	_, err = svc.StartGame(s.ctx, &StartGameInput{})
	s.Require().NoError(err)

	_, err = svc.ApplyAction(s.ctx, &ApplyActionInput{PlayerID: alice.Player.ID, Action: models.ActionBeer})
	s.Require().NoError(err)

	before, err := svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)

	// A second session over the same storage sees the same state
	reloaded := s.newFileService()
	out, err := reloaded.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.True(out.Restored)
	s.Equal(before.Session.State, out.State)
	s.Equal(2500, out.State.Players[0].Points)
	s.Len(out.State.History, 1)
}

func (s *SessionServiceTestSuite) TestLastGameStats_NeverPersisted() {
	svc := s.newFileService()

	_, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Alice"})
	s.Require().NoError(err)
	_, err = svc.StartGame(s.ctx, &StartGameInput{})
	s.Require().NoError(err)

	ended, err := svc.EndGame(s.ctx, &EndGameInput{})
	s.Require().NoError(err)
	s.Equal("00:00:00", ended.Stats.Duration)

	got, err := svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.Require().NotNil(got.Session.LastGameStats)
	s.False(got.Session.State.GameActive)

	data, err := os.ReadFile(s.snapshotPath())
	s.Require().NoError(err)
	s.NotContains(string(data), "lastGameStats")
	s.NotContains(string(data), "totalPointsEarned")

	// Loading resets the transient stats
	_, err = svc.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	got, err = svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.Nil(got.Session.LastGameStats)
}

func (s *SessionServiceTestSuite) TestLoad_CorruptSnapshot() {
	s.Require().NoError(os.WriteFile(s.snapshotPath(), []byte(`{"players": [`), 0o644))
	svc := s.newFileService()

	out, err := svc.Load(s.ctx, &LoadInput{})
	s.Require().Error(err)
	s.Equal(game.KindPersistence, game.KindOf(err))
	s.ErrorIs(err, ErrDiscardedSnapshot)
	s.ErrorIs(err, sessionrepo.ErrCorruptSnapshot)
	s.Equal("Saved game state was corrupt and has been reset.", err.Error())

	s.False(out.Restored)
	s.Equal(models.NewRoomState(), out.State)
	s.NoFileExists(s.snapshotPath())
}

func (s *SessionServiceTestSuite) TestLoad_RepositoryUnavailable() {
	s.mockRepo.EXPECT().GetSnapshot(gomock.Any(), &sessionrepo.GetSnapshotInput{Key: sessionrepo.DefaultKey}).
		Return(nil, errors.New("connection refused"))
	svc := s.newService(s.mockRepo)

	out, err := svc.Load(s.ctx, &LoadInput{})
	s.Require().Error(err)
	s.ErrorIs(err, ErrLoadFailed)
	s.Equal(game.KindPersistence, game.KindOf(err))
	s.Equal(models.NewRoomState(), out.State)
}

func (s *SessionServiceTestSuite) TestSaveFailure_KeepsSessionUsable() {
	s.mockRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).Times(2)
	svc := s.newService(s.mockRepo)

	out, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Alice"})
	s.Require().Error(err)
	s.Equal(game.KindPersistence, game.KindOf(err))
	s.ErrorIs(err, ErrSaveFailed)
	s.Equal("Could not save game state. Storage might be full or unavailable.", err.Error())
	s.Require().NotNil(out)
	s.Equal("Alice", out.Player.Name)

	// The in-memory session kept the mutation
	got, err := svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.Len(got.Session.State.Players, 1)

	_, err = svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Bob"})
	s.Equal(game.KindPersistence, game.KindOf(err))
}

func (s *SessionServiceTestSuite) TestRejectedOperations_DoNotPersist() {
	// No SaveSnapshot expectation: any write fails the test
	svc := s.newService(s.mockRepo)

	_, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "  "})
	s.Equal(game.KindValidation, game.KindOf(err))

	_, err = svc.StartGame(s.ctx, &StartGameInput{})
	s.ErrorIs(err, game.ErrNoPlayers)

	_, err = svc.EndGame(s.ctx, &EndGameInput{})
	s.ErrorIs(err, game.ErrGameNotActive)

	_, err = svc.RemovePlayer(s.ctx, &RemovePlayerInput{PlayerID: "nobody"})
	s.Equal(game.KindNotFound, game.KindOf(err))

	out, err := svc.UpdateSettings(s.ctx, &UpdateSettingsInput{Settings: map[string]any{"shotLimit": "lots"}})
	s.Require().NoError(err)
	s.Empty(out.Applied)
	s.Len(out.Rejected, 1)
}

func (s *SessionServiceTestSuite) TestUpdateSettings_Persists() {
	svc := s.newFileService()

	out, err := svc.UpdateSettings(s.ctx, &UpdateSettingsInput{Settings: map[string]any{
		models.SettingPointsPerBeer: float64(3000),
		models.SettingShotLimit:     float64(-1),
	}})
	s.Require().NoError(err)
	s.Equal([]string{models.SettingPointsPerBeer}, out.Applied)
	s.Require().Len(out.Rejected, 1)
	s.Equal("Invalid value for shotLimit. Must be a non-negative number.", out.Rejected[0].Message)

	loaded, err := s.newFileService().Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(3000, loaded.State.Settings.PointsPerBeer)
	s.Equal(3, loaded.State.Settings.ShotLimit)
}

func (s *SessionServiceTestSuite) TestUpdatePlayer() {
	svc := s.newFileService()

	alice, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Alice"})
	s.Require().NoError(err)

	points := 700
	beers := 2
	out, err := svc.UpdatePlayer(s.ctx, &UpdatePlayerInput{PlayerID: alice.Player.ID, Points: &points, Beers: &beers})
	s.Require().NoError(err)
	s.Equal(700, out.Player.Points)
	s.Equal(2, out.Player.Beers)
	s.Equal(0, out.Player.Shots)

	negative := -1
	_, err = svc.UpdatePlayer(s.ctx, &UpdatePlayerInput{PlayerID: alice.Player.ID, Shots: &negative})
	s.ErrorIs(err, ErrNegativeCount)
	s.Equal(game.KindValidation, game.KindOf(err))

	_, err = svc.UpdatePlayer(s.ctx, &UpdatePlayerInput{PlayerID: "nobody", Points: &points})
	s.Equal(game.KindNotFound, game.KindOf(err))
	s.Equal("Player not found.", err.Error())
}

func (s *SessionServiceTestSuite) TestSetActive() {
	svc := s.newFileService()

	s.Require().NoError(svc.SetActive(s.ctx, &SetActiveInput{Active: true}))
	got, err := svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.True(got.Session.State.GameActive)
	s.Require().NotNil(got.Session.State.StartTime)
	s.Equal(clock.Millis(s.testTime), *got.Session.State.StartTime)

	s.Require().NoError(svc.SetActive(s.ctx, &SetActiveInput{Active: false, StartTime: got.Session.State.StartTime}))
	got, err = svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.False(got.Session.State.GameActive)
	s.Nil(got.Session.State.StartTime)
}

func (s *SessionServiceTestSuite) TestAppendHistory_Caps() {
	svc := s.newFileService()

	for i := 0; i < models.MaxHistory+5; i++ {
		s.Require().NoError(svc.AppendHistory(s.ctx, &AppendHistoryInput{Entry: &models.HistoryEntry{Change: i}}))
	}

	loaded, err := s.newFileService().Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Len(loaded.State.History, models.MaxHistory)
	s.Equal(5, loaded.State.History[0].Change)
}

func (s *SessionServiceTestSuite) TestResetAll_KeepsSettingsAndClearsStorage() {
	svc := s.newFileService()

	_, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Alice"})
	s.Require().NoError(err)
	_, err = svc.UpdateSettings(s.ctx, &UpdateSettingsInput{Settings: map[string]any{models.SettingShotLimit: float64(6)}})
	s.Require().NoError(err)
	_, err = svc.StartGame(s.ctx, &StartGameInput{})
	s.Require().NoError(err)
	s.FileExists(s.snapshotPath())

	s.Require().NoError(svc.ResetAll(s.ctx, &ResetAllInput{}))

	got, err := svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.Empty(got.Session.State.Players)
	s.Empty(got.Session.State.History)
	s.False(got.Session.State.GameActive)
	s.Equal(6, got.Session.State.Settings.ShotLimit)
	s.NoFileExists(s.snapshotPath())
}

func (s *SessionServiceTestSuite) TestStartFresh() {
	svc := s.newFileService()

	alice, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Alice"})
	s.Require().NoError(err)
	_, err = svc.StartGame(s.ctx, &StartGameInput{})
	s.Require().NoError(err)
	_, err = svc.EndGame(s.ctx, &EndGameInput{})
	s.Require().NoError(err)

	s.Require().NoError(svc.StartFresh(s.ctx, &StartFreshInput{WinnerID: alice.Player.ID}))

	got, err := svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.Empty(got.Session.State.Players)
	s.Nil(got.Session.LastGameStats)
}

func (s *SessionServiceTestSuite) TestResetGame() {
	svc := s.newFileService()

	alice, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Alice"})
	s.Require().NoError(err)
	_, err = svc.StartGame(s.ctx, &StartGameInput{})
	s.Require().NoError(err)
	_, err = svc.ApplyAction(s.ctx, &ApplyActionInput{PlayerID: alice.Player.ID, Action: models.ActionShot})
	s.Require().NoError(err)

	s.Require().NoError(svc.ResetGame(s.ctx, &ResetGameInput{}))

	loaded, err := s.newFileService().Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Require().Len(loaded.State.Players, 1)
	s.Equal(0, loaded.State.Players[0].Shots)
	s.Empty(loaded.State.History)
	s.False(loaded.State.GameActive)
}

func (s *SessionServiceTestSuite) TestSetRoomCode() {
	svc := s.newService(s.mockRepo)

	code := " ab12 "
	s.Require().NoError(svc.SetRoomCode(s.ctx, &SetRoomCodeInput{RoomCode: &code}))
	got, err := svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.Require().NotNil(got.Session.RoomCode)
	s.Equal("AB12", *got.Session.RoomCode)

	s.Require().NoError(svc.SetRoomCode(s.ctx, &SetRoomCodeInput{}))
	got, err = svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.Nil(got.Session.RoomCode)
}

func (s *SessionServiceTestSuite) TestGetState_ReturnsCopy() {
	svc := s.newFileService()

	_, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Alice"})
	s.Require().NoError(err)

	got, err := svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	got.Session.State.Players[0].Points = 9999

	again, err := svc.GetState(s.ctx, &GetStateInput{})
	s.Require().NoError(err)
	s.Equal(0, again.Session.State.Players[0].Points)
}
