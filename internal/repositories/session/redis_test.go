package session

import (
	"context"
	"errors"
	"testing"

	"github.com/KirkDiggler/zombeers/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
	ctx    context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestNewRedis_Validation() {
	_, err := NewRedis(nil)
	s.Error(err)

	_, err = NewRedis(&Config{})
	s.Error(err)
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetSnapshot() {
	start := int64(1713528000000)
	state := models.NewRoomState()
	state.GameActive = true
	state.StartTime = &start
	state.Players = append(state.Players, &models.Player{ID: "p1", Name: "Alice", Points: 2500, Beers: 1})

	err := s.repo.SaveSnapshot(s.ctx, &SaveSnapshotInput{State: state})
	s.Require().NoError(err)

	// Stored under the prefixed default key
	s.True(s.mr.Exists("zombeers:snapshot:" + DefaultKey))

	loaded, err := s.repo.GetSnapshot(s.ctx, &GetSnapshotInput{})
	s.Require().NoError(err)
	s.Equal(state, loaded)
}

func (s *RedisRepositoryTestSuite) TestGetSnapshot_NotFound() {
	_, err := s.repo.GetSnapshot(s.ctx, &GetSnapshotInput{Key: "missing"})
	s.ErrorIs(err, ErrSnapshotNotFound)
}

func (s *RedisRepositoryTestSuite) TestGetSnapshot_Corrupt() {
	s.Require().NoError(s.mr.Set("zombeers:snapshot:broken", "{not json"))

	_, err := s.repo.GetSnapshot(s.ctx, &GetSnapshotInput{Key: "broken"})
	s.ErrorIs(err, ErrCorruptSnapshot)
}

func (s *RedisRepositoryTestSuite) TestDeleteSnapshot() {
	err := s.repo.SaveSnapshot(s.ctx, &SaveSnapshotInput{Key: "k", State: models.NewRoomState()})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.DeleteSnapshot(s.ctx, &DeleteSnapshotInput{Key: "k"}))
	s.False(s.mr.Exists("zombeers:snapshot:k"))

	// Deleting again is fine
	s.NoError(s.repo.DeleteSnapshot(s.ctx, &DeleteSnapshotInput{Key: "k"}))
}

func (s *RedisRepositoryTestSuite) TestSaveSnapshot_ConnectionLost() {
	s.mr.Close()

	err := s.repo.SaveSnapshot(s.ctx, &SaveSnapshotInput{State: models.NewRoomState()})
	s.Error(err)
	s.False(errors.Is(err, ErrSnapshotNotFound))
}

func (s *RedisRepositoryTestSuite) TestSaveSnapshot_NilState() {
	s.Error(s.repo.SaveSnapshot(s.ctx, &SaveSnapshotInput{}))
	s.Error(s.repo.SaveSnapshot(s.ctx, nil))
}
