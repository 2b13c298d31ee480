package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	"github.com/noah-isme/absensi-sd-api/internal/syncer"
	"github.com/noah-isme/absensi-sd-api/pkg/jobs"
)

type syncClient interface {
	Push(ctx context.Context, endpoint string, snap models.Snapshot) error
	Pull(ctx context.Context, endpoint string) (*syncer.RemoteData, error)
}

// SyncStatus reports sync state to the UI.
type SyncStatus struct {
	Endpoint string `json:"endpoint"`
	LastSync string `json:"last_sync,omitempty"`
	Syncing  bool   `json:"syncing"`
}

// SyncService orchestrates full-snapshot push/pull against the remote. Pushes
// triggered after mutations run on a background queue whose handler reads the
// live store state at execution time, so rapid successive mutations are never
// pushed from a stale capture.
type SyncService struct {
	store    *store.Store
	client   syncClient
	queue    *jobs.Queue
	metrics  *MetricsService
	logger   *zap.Logger
	inFlight atomic.Int32
}

// NewSyncService wires the sync orchestrator and its push queue.
func NewSyncService(st *store.Store, client syncClient, metrics *MetricsService, logger *zap.Logger, queueBuffer int) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SyncService{store: st, client: client, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue("sync-push", s.handlePushJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: queueBuffer,
		MaxRetries: 1,
		Logger:     logger,
	})
	return s
}

// Start launches the background push worker.
func (s *SyncService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the push worker.
func (s *SyncService) Stop() {
	s.queue.Stop()
}

// TriggerPush schedules a background push. Best-effort: a full queue is
// logged and dropped since a later push transmits the same full state anyway.
func (s *SyncService) TriggerPush() {
	if s.store.RemoteEndpoint() == "" {
		return
	}
	err := s.queue.TryEnqueue(jobs.Job{ID: uuid.NewString(), Type: "push"})
	if err != nil {
		s.logger.Warn("push trigger dropped", zap.Error(err))
	}
}

// handlePushJob always returns nil: a failed push is logged and counted but
// never retried, per the protocol's no-retry semantics.
func (s *SyncService) handlePushJob(ctx context.Context, _ jobs.Job) error {
	s.Push(ctx)
	return nil
}

// Push serializes the entire current state and replaces the remote contents.
// Returns false on transport failure; local state is unaffected either way.
func (s *SyncService) Push(ctx context.Context) bool {
	endpoint := s.store.RemoteEndpoint()
	if endpoint == "" {
		return false
	}
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	start := time.Now()
	err := s.client.Push(ctx, endpoint, s.store.Snapshot())
	if s.metrics != nil {
		s.metrics.ObserveSync("push", err == nil, time.Since(start))
	}
	if err != nil {
		s.logger.Warn("push failed", zap.Error(err))
		return false
	}
	s.store.TouchLastSync(time.Now())
	s.logger.Info("push completed", zap.Duration("took", time.Since(start)))
	return true
}

// Pull fetches the remote's full contents and replaces every local collection
// present in the response, discarding local-only changes. Returns false on
// failure, leaving local state authoritative.
func (s *SyncService) Pull(ctx context.Context) bool {
	endpoint := s.store.RemoteEndpoint()
	if endpoint == "" {
		return false
	}
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	start := time.Now()
	remote, err := s.client.Pull(ctx, endpoint)
	if s.metrics != nil {
		s.metrics.ObserveSync("pull", err == nil, time.Since(start))
	}
	if err != nil {
		s.logger.Warn("pull failed", zap.Error(err))
		return false
	}

	snap := s.store.Snapshot()
	remote.ApplyTo(&snap)
	s.store.Replace(snap)
	s.store.TouchLastSync(time.Now())
	s.logger.Info("pull completed", zap.Duration("took", time.Since(start)))
	return true
}

// SetEndpoint stores the remote endpoint inside the persisted document.
func (s *SyncService) SetEndpoint(url string) {
	s.store.SetRemoteEndpoint(url)
}

// Status reports the current sync indicator state.
func (s *SyncService) Status() SyncStatus {
	return SyncStatus{
		Endpoint: s.store.RemoteEndpoint(),
		LastSync: s.store.LastSync(),
		Syncing:  s.inFlight.Load() > 0,
	}
}
