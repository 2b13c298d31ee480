package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	_ "github.com/noah-isme/absensi-sd-api/api/swagger"
	"github.com/noah-isme/absensi-sd-api/internal/handler"
	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/service"
	"github.com/noah-isme/absensi-sd-api/internal/snapshot"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	"github.com/noah-isme/absensi-sd-api/internal/syncer"
	"github.com/noah-isme/absensi-sd-api/pkg/config"
	"github.com/noah-isme/absensi-sd-api/pkg/logger"
)

// @title Absensi SD API
// @version 0.1.0
// @description Local-first attendance server for primary schools with full-snapshot remote sync
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	fileStore, err := snapshot.NewFileStore(cfg.Snapshot.Path, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to init snapshot store", "error", err)
	}

	st := store.New(initialState(fileStore, cfg, logr), logr)
	metrics := service.NewMetricsService()
	st.OnChange(fileStore.Observer(metrics.ObserveSnapshotWrite))

	syncSvc := service.NewSyncService(st, syncer.New(nil, logr), metrics, logr, cfg.Sync.QueueBuffer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	syncSvc.Start(ctx)
	defer syncSvc.Stop()

	if cfg.Sync.PullOnStartup && st.RemoteEndpoint() != "" {
		if !syncSvc.Pull(ctx) {
			logr.Warn("startup pull failed, continuing with local state")
		}
	}

	authSvc := service.NewAuthService(st, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	r := handler.NewRouter(cfg, logr, handler.Services{
		Auth:       authSvc,
		Attendance: service.NewAttendanceService(st, syncSvc, nil, logr),
		Student:    service.NewStudentService(st, syncSvc, nil, logr),
		Teacher:    service.NewTeacherService(st, syncSvc, nil, logr),
		Calendar:   service.NewCalendarService(st, syncSvc, nil, logr),
		Report:     service.NewReportService(st, cfg.School.Name, logr),
		Message:    service.NewMessageService(st, cfg.School.Name, logr),
		Sync:       syncSvc,
		Metrics:    metrics,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "snapshot", fileStore.Path())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// initialState loads the on-disk snapshot. An absent or malformed file falls
// back to built-in seed data; local state problems never stop startup.
func initialState(fileStore *snapshot.FileStore, cfg *config.Config, logr *zap.Logger) models.Snapshot {
	initial, found, err := fileStore.Load()
	if err != nil {
		logr.Warn("snapshot file is unreadable, starting from seed data",
			zap.String("path", fileStore.Path()), zap.Error(err))
	} else if !found {
		logr.Info("no snapshot on disk, starting from seed data", zap.String("path", fileStore.Path()))
	}
	if err != nil || !found {
		initial = store.Seed()
		if cfg.Sync.DefaultEndpoint != "" {
			initial.RemoteEndpoint = cfg.Sync.DefaultEndpoint
		}
	}
	return initial
}
