package syncer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/store"
)

func TestPushSendsFullDocument(t *testing.T) {
	var captured map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		_, _ = w.Write([]byte(`{"status":"ok","message":"written"}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), zap.NewNop())
	err := c.Push(context.Background(), srv.URL, store.Seed())
	require.NoError(t, err)

	assert.JSONEq(t, `"write"`, string(captured["action"]))

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(captured["data"], &data))
	for _, name := range []string{"Students", "Teachers", "Attendance", "Alumni", "Holidays", "AcademicYears", "Headmaster"} {
		assert.Contains(t, data, name)
	}

	var headmasters []models.Headmaster
	require.NoError(t, json.Unmarshal(data["Headmaster"], &headmasters))
	require.Len(t, headmasters, 1)
	assert.Equal(t, "Drs. H. Ahmad Fauzi, M.Pd", headmasters[0].Name)
}

func TestPushIgnoresRemoteConfirmation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("remote exploded"))
	}))
	defer srv.Close()

	c := New(srv.Client(), zap.NewNop())
	// Fire-and-forget: a reachable remote counts as success no matter what it says.
	assert.NoError(t, c.Push(context.Background(), srv.URL, store.Seed()))
}

func TestPushTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(nil, zap.NewNop())
	assert.Error(t, c.Push(context.Background(), srv.URL, store.Seed()))
}

func TestPushWithoutEndpoint(t *testing.T) {
	c := New(nil, zap.NewNop())
	assert.Error(t, c.Push(context.Background(), "", store.Seed()))
}

func TestPullDecodesAndCoerces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "read", req["action"])

		_, _ = w.Write([]byte(`{
			"Students": [
				{"id": "s1", "nisn": 12345678, "name": "Ahmad Dani", "gender": "L", "classId": 1, "isActive": "TRUE"},
				{"id": "s9", "nisn": "0012349999", "name": "Remote Only", "gender": "P", "classId": "3", "isActive": true}
			],
			"Teachers": [{"id": "t1", "name": "Budi", "nip": 198501, "classId": 1}],
			"Attendance": [{"studentId": "s1", "date": "2024-05-20T00:00:00.000Z", "status": "H", "academicYear": "2023/2024"}],
			"Holidays": [{"id": "h1", "date": "2024-08-17", "description": "Kemerdekaan RI"}],
			"AcademicYears": [{"id": 1, "name": "2023/2024", "isActive": 1}],
			"Headmaster": [{"name": "Kepala", "nip": 197001}]
		}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), zap.NewNop())
	remote, err := c.Pull(context.Background(), srv.URL)
	require.NoError(t, err)

	require.NotNil(t, remote.Students)
	students := *remote.Students
	require.Len(t, students, 2)
	assert.Equal(t, "12345678", students[0].NISN)
	assert.Equal(t, "1", students[0].ClassID)
	assert.True(t, students[0].Active)

	require.NotNil(t, remote.Teachers)
	assert.Equal(t, "198501", (*remote.Teachers)[0].NIP)

	require.NotNil(t, remote.Attendance)
	rec := (*remote.Attendance)[0]
	assert.Equal(t, "2024-05-20", rec.Date)
	assert.Equal(t, models.AttendanceID("s1", "2024-05-20"), rec.ID)
	assert.Equal(t, models.AttendanceStatusHadir, rec.Status)

	require.NotNil(t, remote.AcademicYears)
	assert.True(t, (*remote.AcademicYears)[0].Active)

	require.NotNil(t, remote.Headmaster)
	assert.Equal(t, "197001", remote.Headmaster.NIP)

	// Alumni was absent from the response.
	assert.Nil(t, remote.Alumni)
}

func TestPullRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.Client(), zap.NewNop())
	_, err := c.Pull(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestApplyToReplacesPresentCollectionsOnly(t *testing.T) {
	snap := store.Seed()
	localAlumni := []models.Alumni{{ID: "a1", Name: "Lulusan Lama"}}
	snap.Alumni = localAlumni
	snap.RemoteEndpoint = "https://example.com/exec"

	students := []models.Student{{ID: "r1", Name: "Remote Only", Active: true}}
	empty := []models.Holiday{}
	remote := &RemoteData{Students: &students, Holidays: &empty}

	remote.ApplyTo(&snap)

	// Present collections replace wholesale, even with an empty list.
	require.Len(t, snap.Students, 1)
	assert.Equal(t, "r1", snap.Students[0].ID)
	assert.Empty(t, snap.Holidays)
	// Absent collections and sync metadata stay untouched.
	assert.Equal(t, localAlumni, snap.Alumni)
	assert.Len(t, snap.Teachers, 3)
	assert.Equal(t, "https://example.com/exec", snap.RemoteEndpoint)
}

func TestPullIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Students": [{"id": "s1", "nisn": "1", "name": "A", "gender": "L", "classId": "1", "isActive": true}]}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), zap.NewNop())

	snap := store.Seed()
	for i := 0; i < 2; i++ {
		remote, err := c.Pull(context.Background(), srv.URL)
		require.NoError(t, err)
		remote.ApplyTo(&snap)
	}
	first := snap

	remote, err := c.Pull(context.Background(), srv.URL)
	require.NoError(t, err)
	remote.ApplyTo(&snap)
	assert.Equal(t, first, snap)
}
