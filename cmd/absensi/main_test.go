package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/snapshot"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	"github.com/noah-isme/absensi-sd-api/pkg/config"
)

func TestInitialStateCorruptFileFallsBackToSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{definitely not json}"), 0o644))

	fs, err := snapshot.NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Sync.DefaultEndpoint = "https://example.com/sync"

	snap := initialState(fs, cfg, zap.NewNop())
	require.Len(t, snap.Students, len(store.Seed().Students))
	require.Equal(t, "https://example.com/sync", snap.RemoteEndpoint)
}

func TestInitialStateMissingFileFallsBackToSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")

	fs, err := snapshot.NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	snap := initialState(fs, &config.Config{}, zap.NewNop())
	require.NotEmpty(t, snap.Students)
	require.Empty(t, snap.RemoteEndpoint)
}

func TestInitialStateKeepsExistingSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")

	fs, err := snapshot.NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, fs.Save(models.Snapshot{
		Students:       []models.Student{{ID: "s9", Name: "Zahra", Active: true}},
		RemoteEndpoint: "https://school.example/api",
	}))

	cfg := &config.Config{}
	cfg.Sync.DefaultEndpoint = "https://other.example/sync"

	snap := initialState(fs, cfg, zap.NewNop())
	require.Len(t, snap.Students, 1)
	require.Equal(t, "s9", snap.Students[0].ID)
	// the configured default never overrides a persisted endpoint
	require.Equal(t, "https://school.example/api", snap.RemoteEndpoint)
}
