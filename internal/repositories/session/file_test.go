package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/KirkDiggler/zombeers/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile_Validation(t *testing.T) {
	_, err := NewFile(nil)
	assert.Error(t, err)

	_, err = NewFile(&FileConfig{Dir: " "})
	assert.Error(t, err)
}

func TestFileRepository_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	repo, err := NewFile(&FileConfig{Dir: dir})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.GetSnapshot(ctx, &GetSnapshotInput{})
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	state := models.NewRoomState()
	state.Settings.ShotLimit = 5
	state.Players = append(state.Players, &models.Player{ID: "p1", Name: "Bob"})

	require.NoError(t, repo.SaveSnapshot(ctx, &SaveSnapshotInput{State: state}))
	assert.FileExists(t, filepath.Join(dir, DefaultKey+".json"))

	loaded, err := repo.GetSnapshot(ctx, &GetSnapshotInput{})
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	// No temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, repo.DeleteSnapshot(ctx, &DeleteSnapshotInput{}))
	assert.NoFileExists(t, filepath.Join(dir, DefaultKey+".json"))
	assert.NoError(t, repo.DeleteSnapshot(ctx, &DeleteSnapshotInput{}))
}

func TestFileRepository_Corrupt(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFile(&FileConfig{Dir: dir})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("nope"), 0o644))

	_, err = repo.GetSnapshot(context.Background(), &GetSnapshotInput{Key: "bad"})
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestFileRepository_KeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFile(&FileConfig{Dir: dir})
	require.NoError(t, err)

	require.NoError(t, repo.SaveSnapshot(context.Background(), &SaveSnapshotInput{
		Key:   "../escape",
		State: models.NewRoomState(),
	}))
	assert.FileExists(t, filepath.Join(dir, "escape.json"))
}
