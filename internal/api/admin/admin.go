// Package admin serves the read-only HTTP status surface of the index.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
)

// UpgradeStatusSource reports the last completed upgrade run.
type UpgradeStatusSource interface {
	Status(ctx context.Context) (model.UpgradeStatus, error)
}

// BackupStatusSource reports the last completed backup run.
type BackupStatusSource interface {
	Status(ctx context.Context) (model.BackupStatus, error)
}

// FleetCounter reports the number of registered instances.
type FleetCounter interface {
	Count(ctx context.Context) (uint64, error)
}

const readHeaderTimeout = 5 * time.Second

var _ model.Server = (*Server)(nil)

// Server is the admin HTTP server.
type Server struct {
	server *http.Server
	logger *logger.Logger
}

// NewServer creates an admin Server listening on addr.
func NewServer(addr string, upgrades UpgradeStatusSource, backups BackupStatusSource, fleet FleetCounter, logger *logger.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(upgrades, backups, fleet, logger),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}
}

// NewRouter builds the chi router of the admin surface.
func NewRouter(upgrades UpgradeStatusSource, backups BackupStatusSource, fleet FleetCounter, logger *logger.Logger) http.Handler {
	h := &handlers{upgrades: upgrades, backups: backups, fleet: fleet, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(api chi.Router) {
		api.Get("/status/upgrade", h.upgradeStatus)
		api.Get("/status/backup", h.backupStatus)
		api.Get("/fleet/size", h.fleetSize)
	})

	return r
}

// Start serves on the configured address using the provided security layer.
func (s *Server) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.server.Addr
}

type handlers struct {
	upgrades UpgradeStatusSource
	backups  BackupStatusSource
	fleet    FleetCounter
	logger   *logger.Logger
}

type sweepFailure struct {
	Principal string `json:"principal"`
	Handle    string `json:"handle"`
	Context   string `json:"context"`
	Error     string `json:"error"`
}

type upgradeStatusResponse struct {
	Version         uint64         `json:"version"`
	LastRunAt       *time.Time     `json:"last_run_at,omitempty"`
	Mode            string         `json:"mode,omitempty"`
	Failed          []sweepFailure `json:"failed"`
	SuccessfulCount uint64         `json:"successful_count"`
}

type backupStatusResponse struct {
	Run             uint64         `json:"run"`
	RunID           string         `json:"run_id,omitempty"`
	LastRunAt       *time.Time     `json:"last_run_at,omitempty"`
	Failed          []sweepFailure `json:"failed"`
	SuccessfulCount uint64         `json:"successful_count"`
}

func (h *handlers) upgradeStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.upgrades.Status(r.Context())
	if err != nil {
		h.fail(w, r, "upgrade status", err)
		return
	}
	writeJSON(w, http.StatusOK, upgradeStatusResponse{
		Version:         st.Version,
		LastRunAt:       optionalTime(st.LastRunAt),
		Mode:            string(st.Mode),
		Failed:          failures(st.Failed),
		SuccessfulCount: st.SuccessfulCount,
	})
}

func (h *handlers) backupStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.backups.Status(r.Context())
	if err != nil {
		h.fail(w, r, "backup status", err)
		return
	}
	writeJSON(w, http.StatusOK, backupStatusResponse{
		Run:             st.Run,
		RunID:           st.RunID,
		LastRunAt:       optionalTime(st.LastRunAt),
		Failed:          failures(st.Failed),
		SuccessfulCount: st.SuccessfulCount,
	})
}

func (h *handlers) fleetSize(w http.ResponseWriter, r *http.Request) {
	size, err := h.fleet.Count(r.Context())
	if err != nil {
		h.fail(w, r, "fleet size", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"size": size})
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	h.logger.Error("Admin handler: request failed",
		"what", what, "request_id", middleware.GetReqID(r.Context()), "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func failures(failed []model.SweepFailure) []sweepFailure {
	out := make([]sweepFailure, 0, len(failed))
	for _, f := range failed {
		out = append(out, sweepFailure{
			Principal: f.Principal.String(),
			Handle:    f.Handle.String(),
			Context:   f.Context,
			Error:     f.Error,
		})
	}
	return out
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
