package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/store"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absensi.json")
	fs, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	state := store.Seed()
	state.Attendance = []models.AttendanceRecord{{
		ID: models.AttendanceID("s1", "2024-05-20"), StudentID: "s1", Date: "2024-05-20",
		Status: models.AttendanceStatusHadir, AcademicYear: "2023/2024",
	}}
	state.RemoteEndpoint = "https://example.com/exec"
	state.LastSyncTimestamp = "2024-05-20T10:00:00Z"

	require.NoError(t, fs.Save(state))

	loaded, ok, err := fs.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state, loaded)
}

func TestLoadAbsent(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())
	require.NoError(t, err)

	_, ok, err := fs.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absensi.json")
	fs, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, ok, err := fs.Load()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSaveOverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absensi.json")
	fs, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, fs.Save(store.Seed()))
	require.NoError(t, fs.Save(models.Snapshot{Headmaster: models.Headmaster{Name: "X", NIP: "1"}}))

	loaded, ok, err := fs.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, loaded.Students)
	assert.Equal(t, "X", loaded.Headmaster.Name)
}

func TestObserverWritesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absensi.json")
	fs, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	st := store.New(store.Seed(), zap.NewNop())
	writes := 0
	st.OnChange(fs.Observer(func(err error) {
		require.NoError(t, err)
		writes++
	}))

	st.AddHoliday(models.Holiday{ID: "h9", Date: "2024-12-25", Description: "Natal"})
	assert.Equal(t, 1, writes)

	loaded, ok, err := fs.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, loaded.Holidays, 3)
	assert.Equal(t, "Natal", loaded.Holidays[2].Description)
}
