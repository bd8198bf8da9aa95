package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/userindex/internal/mocks"
	"github.com/dtroode/userindex/internal/model"
	"github.com/dtroode/userindex/internal/testutil"
)

type adminDeps struct {
	upgrades *mocks.UpgradeService
	backups  *mocks.BackupService
	fleet    *mocks.RegistryService
}

func newTestRouter(t *testing.T) (http.Handler, adminDeps) {
	t.Helper()
	deps := adminDeps{
		upgrades: mocks.NewUpgradeService(t),
		backups:  mocks.NewBackupService(t),
		fleet:    mocks.NewRegistryService(t),
	}
	return NewRouter(deps.upgrades, deps.backups, deps.fleet, testutil.MakeNoopLogger()), deps
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t)

	rec, body := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_UpgradeStatus(t *testing.T) {
	h, deps := newTestRouter(t)
	deps.upgrades.On("Status", mock.Anything).Return(model.UpgradeStatus{
		Version:         8,
		LastRunAt:       time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		Mode:            model.InstallModeUpgrade,
		Failed:          []model.SweepFailure{{Principal: "p-2", Handle: "c-2", Context: "upgrade to version 8", Error: "out of cycles"}},
		SuccessfulCount: 2,
	}, nil).Once()

	rec, body := get(t, h, "/v1/status/upgrade")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 8, body["version"])
	assert.Equal(t, "2026-05-04T10:00:00Z", body["last_run_at"])
	assert.EqualValues(t, 2, body["successful_count"])

	failed, ok := body["failed"].([]any)
	require.True(t, ok)
	require.Len(t, failed, 1)
	assert.Equal(t, "out of cycles", failed[0].(map[string]any)["error"])
}

func TestRouter_BackupStatusNeverRun(t *testing.T) {
	h, deps := newTestRouter(t)
	deps.backups.On("Status", mock.Anything).Return(model.BackupStatus{}, nil).Once()

	rec, body := get(t, h, "/v1/status/backup")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body, "last_run_at")
	assert.Equal(t, []any{}, body["failed"])
}

func TestRouter_FleetSize(t *testing.T) {
	h, deps := newTestRouter(t)
	deps.fleet.On("Count", mock.Anything).Return(uint64(12), nil).Once()

	rec, body := get(t, h, "/v1/fleet/size")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 12, body["size"])
}

func TestRouter_HidesStoreErrors(t *testing.T) {
	h, deps := newTestRouter(t)
	deps.fleet.On("Count", mock.Anything).Return(uint64(0), errors.New("pq: connection refused")).Once()

	rec, body := get(t, h, "/v1/fleet/size")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["error"])
}

func TestServer_StartStop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", "127.0.0.1:0").Return(ln, nil).Once()

	deps := adminDeps{
		upgrades: mocks.NewUpgradeService(t),
		backups:  mocks.NewBackupService(t),
		fleet:    mocks.NewRegistryService(t),
	}
	s := NewServer("127.0.0.1:0", deps.upgrades, deps.backups, deps.fleet, testutil.MakeNoopLogger())
	assert.Equal(t, "127.0.0.1:0", s.Address())

	served := make(chan error, 1)
	go func() { served <- s.Start(sec) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	assert.NoError(t, <-served)
}
