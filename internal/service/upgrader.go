package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
)

// UpgradeState is the orchestrator's run state.
type UpgradeState int

const (
	UpgradeIdle UpgradeState = iota
	UpgradeRunning
	UpgradeCompleted
)

func (s UpgradeState) String() string {
	switch s {
	case UpgradeIdle:
		return "idle"
	case UpgradeRunning:
		return "running"
	case UpgradeCompleted:
		return "completed"
	default:
		return fmt.Sprintf("UpgradeState(%d)", int(s))
	}
}

// UpgradeOneSuccess is returned by UpgradeOne when the install succeeded.
const UpgradeOneSuccess = "Success"

// DefaultSweepConcurrency bounds per-instance calls in flight during a sweep.
const DefaultSweepConcurrency = 16

// Upgrader pushes code to every registered instance and records the outcome.
type Upgrader struct {
	registry    *Registry
	statuses    model.StatusStore
	deployer    model.Deployer
	authority   *Authority
	concurrency int
	logger      *logger.Logger
	now         func() time.Time

	mu    sync.Mutex
	state UpgradeState

	runs *background
}

func NewUpgrader(
	registry *Registry,
	statuses model.StatusStore,
	deployer model.Deployer,
	authority *Authority,
	concurrency int,
	logger *logger.Logger,
) *Upgrader {
	if concurrency <= 0 {
		concurrency = DefaultSweepConcurrency
	}
	return &Upgrader{
		registry:    registry,
		statuses:    statuses,
		deployer:    deployer,
		authority:   authority,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
		runs:        newBackground(),
	}
}

func (u *Upgrader) State() UpgradeState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Status returns the outcome of the last completed run.
func (u *Upgrader) Status(ctx context.Context) (model.UpgradeStatus, error) {
	status, err := u.statuses.GetUpgradeStatus(ctx)
	if err != nil {
		return model.UpgradeStatus{}, fmt.Errorf("failed to get upgrade status: %w", err)
	}
	return status, nil
}

// Start begins a run in the background and returns once it is claimed.
func (u *Upgrader) Start(mode model.InstallMode) error {
	previous, ok := u.begin()
	if !ok {
		return model.ErrUpgradeInProgress
	}

	u.runs.Go(func(ctx context.Context) {
		status, err := u.run(ctx, mode)
		u.end(previous, err == nil)
		if err != nil {
			u.logger.Error("upgrade run aborted", "mode", mode, "error", err)
			return
		}
		u.logger.Info("upgrade run completed", "version", status.Version,
			"successful", status.SuccessfulCount, "failed", len(status.Failed))
	})
	return nil
}

// Run upgrades the whole fleet and stores the new status. Per-instance
// failures are recorded, not returned. An error means nothing was stored.
func (u *Upgrader) Run(ctx context.Context, mode model.InstallMode) (model.UpgradeStatus, error) {
	previous, ok := u.begin()
	if !ok {
		return model.UpgradeStatus{}, model.ErrUpgradeInProgress
	}

	status, err := u.run(ctx, mode)
	u.end(previous, err == nil)
	return status, err
}

// Close cancels background runs and waits for them.
func (u *Upgrader) Close() {
	u.runs.Close()
}

func (u *Upgrader) begin() (UpgradeState, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == UpgradeRunning {
		return u.state, false
	}
	previous := u.state
	u.state = UpgradeRunning
	return previous, true
}

func (u *Upgrader) end(previous UpgradeState, completed bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if completed {
		u.state = UpgradeCompleted
	} else {
		u.state = previous
	}
}

func (u *Upgrader) run(ctx context.Context, mode model.InstallMode) (model.UpgradeStatus, error) {
	previous, err := u.statuses.GetUpgradeStatus(ctx)
	if err != nil {
		return model.UpgradeStatus{}, fmt.Errorf("failed to get upgrade status: %w", err)
	}

	entries, err := u.registry.Snapshot(ctx)
	if err != nil {
		return model.UpgradeStatus{}, err
	}

	version := previous.Version + 1
	known := u.authority.KnownPrincipals()
	tally := newSweepTally(len(entries))

	u.logger.Info("upgrade run started", "mode", mode, "version", version, "instances", len(entries))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			err := u.deployer.InstallCode(ctx, model.InstallRequest{
				Handle:          entry.Handle,
				Owner:           entry.Principal,
				Mode:            mode,
				Version:         version,
				KnownPrincipals: known,
			})
			if err != nil {
				u.logger.Warn("instance upgrade failed",
					"principal", entry.Principal, "handle", entry.Handle, "error", err)
				tally.fail(i, model.SweepFailure{
					Principal: entry.Principal,
					Handle:    entry.Handle,
					Context:   fmt.Sprintf("%s to version %d", mode, version),
					Error:     err.Error(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return model.UpgradeStatus{}, fmt.Errorf("upgrade run interrupted: %w", err)
	}

	failed, successful := tally.result()
	status := model.UpgradeStatus{
		Version:         version,
		LastRunAt:       u.now().UTC(),
		Mode:            mode,
		Failed:          failed,
		SuccessfulCount: successful,
	}
	if err := u.statuses.SaveUpgradeStatus(ctx, status); err != nil {
		return model.UpgradeStatus{}, fmt.Errorf("failed to save upgrade status: %w", err)
	}

	return status, nil
}

// UpgradeOne installs code on a single instance and reports the outcome as
// text. It leaves the stored status untouched.
func (u *Upgrader) UpgradeOne(ctx context.Context, owner model.Principal, handle model.InstanceHandle, mode model.InstallMode) string {
	registered, ok, err := u.registry.Lookup(ctx, owner)
	if err != nil {
		return err.Error()
	}
	if !ok {
		return model.ErrUserCanisterEntryDoesNotExist.Error()
	}
	if registered != handle {
		return model.ErrHandleMismatch.Error()
	}

	current, err := u.statuses.GetUpgradeStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get upgrade status: %w", err).Error()
	}

	err = u.deployer.InstallCode(ctx, model.InstallRequest{
		Handle:          handle,
		Owner:           owner,
		Mode:            mode,
		Version:         current.Version,
		KnownPrincipals: u.authority.KnownPrincipals(),
	})
	if err != nil {
		u.logger.Warn("single instance upgrade failed", "principal", owner, "handle", handle, "mode", mode, "error", err)
		return err.Error()
	}

	u.logger.Info("single instance upgraded", "principal", owner, "handle", handle, "mode", mode)
	return UpgradeOneSuccess
}
