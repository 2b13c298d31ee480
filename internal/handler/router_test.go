package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/service"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	"github.com/noah-isme/absensi-sd-api/internal/syncer"
	"github.com/noah-isme/absensi-sd-api/pkg/config"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
)

type stubSyncClient struct {
	pushErr error
	pullErr error
}

func (c *stubSyncClient) Push(ctx context.Context, endpoint string, snap models.Snapshot) error {
	return c.pushErr
}

func (c *stubSyncClient) Pull(ctx context.Context, endpoint string) (*syncer.RemoteData, error) {
	if c.pullErr != nil {
		return nil, c.pullErr
	}
	return &syncer.RemoteData{}, nil
}

func newTestRouter(t *testing.T, client *stubSyncClient) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(store.Seed(), nil)
	syncSvc := service.NewSyncService(st, client, nil, nil, 4)

	cfg := &config.Config{APIPrefix: "/api/v1"}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = time.Hour
	cfg.JWT.Issuer = "absensi-sd-api"

	authSvc := service.NewAuthService(st, nil, nil, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	r := NewRouter(cfg, zap.NewNop(), Services{
		Auth:       authSvc,
		Attendance: service.NewAttendanceService(st, syncSvc, nil, nil),
		Student:    service.NewStudentService(st, syncSvc, nil, nil),
		Teacher:    service.NewTeacherService(st, syncSvc, nil, nil),
		Calendar:   service.NewCalendarService(st, syncSvc, nil, nil),
		Report:     service.NewReportService(st, "SDN 1 Contoh", nil),
		Message:    service.NewMessageService(st, "SDN 1 Contoh", nil),
		Sync:       syncSvc,
		Metrics:    service.NewMetricsService(),
	})
	return r, st
}

func doJSON(r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, r *gin.Engine, role models.Role, username, password string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Role:     string(role),
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error.Code
}

func TestRouterMarkAttendanceGatedDate(t *testing.T) {
	r, _ := newTestRouter(t, &stubSyncClient{})
	token := loginToken(t, r, models.RoleWaliKelas, "guru1", "123")

	// 2024-08-17 is a declared holiday in the seed data
	w := doJSON(r, http.MethodPost, "/api/v1/attendance", token, service.MarkAttendanceRequest{
		Date:    "2024-08-17",
		Entries: []service.MarkEntry{{StudentID: "s1", Status: "H"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, appErrors.ErrDayOff.Code, errorCode(t, w))
}

func TestRouterMarkAttendanceSchoolDay(t *testing.T) {
	r, _ := newTestRouter(t, &stubSyncClient{})
	token := loginToken(t, r, models.RoleWaliKelas, "guru1", "123")

	w := doJSON(r, http.MethodPost, "/api/v1/attendance", token, service.MarkAttendanceRequest{
		Date:    "2024-05-20",
		Entries: []service.MarkEntry{{StudentID: "s1", Status: "H"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data["marked"])
}

func TestRouterSyncPushFailureMapsToBadGateway(t *testing.T) {
	client := &stubSyncClient{pushErr: assert.AnError}
	r, st := newTestRouter(t, client)
	st.SetRemoteEndpoint("https://remote.example/sync")
	token := loginToken(t, r, models.RoleAdmin, "admin", "admin")

	w := doJSON(r, http.MethodPost, "/api/v1/sync/push", token, nil)
	require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
	assert.Equal(t, appErrors.ErrSyncFailed.Code, errorCode(t, w))
}

func TestRouterSyncPullFailureMapsToBadGateway(t *testing.T) {
	client := &stubSyncClient{pullErr: assert.AnError}
	r, st := newTestRouter(t, client)
	st.SetRemoteEndpoint("https://remote.example/sync")
	token := loginToken(t, r, models.RoleAdmin, "admin", "admin")

	w := doJSON(r, http.MethodPost, "/api/v1/sync/pull", token, nil)
	require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
	assert.Equal(t, appErrors.ErrSyncFailed.Code, errorCode(t, w))
}

func TestRouterRosterRequiresToken(t *testing.T) {
	r, _ := newTestRouter(t, &stubSyncClient{})

	w := doJSON(r, http.MethodGet, "/api/v1/students", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(t, w))
}

func TestRouterParentCannotListRoster(t *testing.T) {
	r, _ := newTestRouter(t, &stubSyncClient{})
	token := loginToken(t, r, models.RoleOrangTua, "0012345678", "")

	w := doJSON(r, http.MethodGet, "/api/v1/students", token, nil)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.Equal(t, appErrors.ErrForbidden.Code, errorCode(t, w))
}

func TestRouterParentSeesOwnChildOnly(t *testing.T) {
	r, _ := newTestRouter(t, &stubSyncClient{})
	// NISN 0012345678 belongs to student s1
	token := loginToken(t, r, models.RoleOrangTua, "0012345678", "")

	own := doJSON(r, http.MethodGet, "/api/v1/students/s1", token, nil)
	require.Equal(t, http.StatusOK, own.Code, own.Body.String())

	other := doJSON(r, http.MethodGet, "/api/v1/students/s2", token, nil)
	require.Equal(t, http.StatusForbidden, other.Code)
}

func TestRouterTeacherCannotManageTeachers(t *testing.T) {
	r, _ := newTestRouter(t, &stubSyncClient{})
	token := loginToken(t, r, models.RoleWaliKelas, "guru1", "123")

	w := doJSON(r, http.MethodGet, "/api/v1/teachers", token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterStudentListCarriesPagination(t *testing.T) {
	r, _ := newTestRouter(t, &stubSyncClient{})
	token := loginToken(t, r, models.RoleAdmin, "admin", "admin")

	w := doJSON(r, http.MethodGet, "/api/v1/students?page=1&limit=3", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data       []models.Student   `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 3)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 4, envelope.Pagination.TotalCount)
}

func TestRouterMonthlyReportQueryParsing(t *testing.T) {
	r, _ := newTestRouter(t, &stubSyncClient{})
	token := loginToken(t, r, models.RoleWaliKelas, "guru1", "123")

	ok := doJSON(r, http.MethodGet, "/api/v1/reports/monthly?class_id=1&year=2024&month=5", token, nil)
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())

	bad := doJSON(r, http.MethodGet, "/api/v1/reports/monthly?class_id=1&year=2024&month=abc", token, nil)
	require.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, bad))
}
