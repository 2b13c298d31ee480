package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	"github.com/noah-isme/absensi-sd-api/internal/syncer"
)

type fakeSyncClient struct {
	mu        sync.Mutex
	pushErr   error
	pullErr   error
	pulled    *syncer.RemoteData
	pushCount int
	lastSnap  models.Snapshot
	lastURL   string
}

func (f *fakeSyncClient) Push(ctx context.Context, endpoint string, snap models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushCount++
	f.lastSnap = snap
	f.lastURL = endpoint
	return f.pushErr
}

func (f *fakeSyncClient) Pull(ctx context.Context, endpoint string) (*syncer.RemoteData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastURL = endpoint
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return f.pulled, nil
}

func (f *fakeSyncClient) pushes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushCount
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.Seed(), nil)
}

func TestSyncServicePushSendsCurrentSnapshot(t *testing.T) {
	st := newTestStore(t)
	st.SetRemoteEndpoint("https://script.example/exec")
	client := &fakeSyncClient{}
	svc := NewSyncService(st, client, nil, nil, 4)

	ok := svc.Push(context.Background())

	require.True(t, ok)
	assert.Equal(t, 1, client.pushes())
	assert.Equal(t, "https://script.example/exec", client.lastURL)
	assert.Len(t, client.lastSnap.Students, len(st.Students()))
	assert.NotEmpty(t, st.LastSync())
}

func TestSyncServicePushWithoutEndpointIsNoop(t *testing.T) {
	st := newTestStore(t)
	st.SetRemoteEndpoint("")
	client := &fakeSyncClient{}
	svc := NewSyncService(st, client, nil, nil, 4)

	assert.False(t, svc.Push(context.Background()))
	assert.Zero(t, client.pushes())
}

func TestSyncServicePushFailureLeavesStateUntouched(t *testing.T) {
	st := newTestStore(t)
	st.SetRemoteEndpoint("https://script.example/exec")
	client := &fakeSyncClient{pushErr: errors.New("remote unreachable")}
	svc := NewSyncService(st, client, nil, nil, 4)

	before := st.Snapshot()
	assert.False(t, svc.Push(context.Background()))
	assert.Equal(t, before.Students, st.Students())
	assert.Empty(t, st.LastSync())
}

func TestSyncServiceTriggerPushRunsInBackground(t *testing.T) {
	st := newTestStore(t)
	st.SetRemoteEndpoint("https://script.example/exec")
	client := &fakeSyncClient{}
	svc := NewSyncService(st, client, nil, nil, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	svc.TriggerPush()

	require.Eventually(t, func() bool {
		return client.pushes() == 1
	}, 2*time.Second, 10*time.Millisecond)
	svc.Stop()
}

func TestSyncServiceTriggerPushWithoutEndpointEnqueuesNothing(t *testing.T) {
	st := newTestStore(t)
	st.SetRemoteEndpoint("")
	client := &fakeSyncClient{}
	svc := NewSyncService(st, client, nil, nil, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	svc.TriggerPush()
	time.Sleep(50 * time.Millisecond)
	svc.Stop()

	assert.Zero(t, client.pushes())
}

func TestSyncServicePullReplacesPresentCollections(t *testing.T) {
	st := newTestStore(t)
	st.SetRemoteEndpoint("https://script.example/exec")
	students := []models.Student{{ID: "r1", NISN: "999", Name: "Remote Siswa", Gender: "L", ClassID: "1", Active: true}}
	client := &fakeSyncClient{pulled: &syncer.RemoteData{Students: &students}}
	svc := NewSyncService(st, client, nil, nil, 4)

	teachersBefore := st.Teachers()
	require.True(t, svc.Pull(context.Background()))

	got := st.Students()
	require.Len(t, got, 1)
	assert.Equal(t, "Remote Siswa", got[0].Name)
	// collections absent from the response stay local
	assert.Equal(t, teachersBefore, st.Teachers())
	assert.NotEmpty(t, st.LastSync())
}

func TestSyncServicePullFailureKeepsLocalState(t *testing.T) {
	st := newTestStore(t)
	st.SetRemoteEndpoint("https://script.example/exec")
	client := &fakeSyncClient{pullErr: errors.New("parse error")}
	svc := NewSyncService(st, client, nil, nil, 4)

	before := st.Snapshot()
	assert.False(t, svc.Pull(context.Background()))
	assert.Equal(t, before.Students, st.Students())
	assert.Empty(t, st.LastSync())
}

func TestSyncServiceStatus(t *testing.T) {
	st := newTestStore(t)
	st.SetRemoteEndpoint("https://script.example/exec")
	svc := NewSyncService(st, &fakeSyncClient{}, nil, nil, 4)

	status := svc.Status()
	assert.Equal(t, "https://script.example/exec", status.Endpoint)
	assert.False(t, status.Syncing)
	assert.Empty(t, status.LastSync)

	require.True(t, svc.Push(context.Background()))
	assert.NotEmpty(t, svc.Status().LastSync)
}

func TestSyncServiceSetEndpointPersistsInDocument(t *testing.T) {
	st := newTestStore(t)
	svc := NewSyncService(st, &fakeSyncClient{}, nil, nil, 4)

	svc.SetEndpoint("https://other.example/exec")
	assert.Equal(t, "https://other.example/exec", st.Snapshot().RemoteEndpoint)
}
