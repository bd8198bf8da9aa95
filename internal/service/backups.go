package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/userindex/internal/archive"
	"github.com/dtroode/userindex/internal/logger"
	"github.com/dtroode/userindex/internal/model"
)

// maxArchiveSize bounds archives read back from storage.
const maxArchiveSize = 1 << 30

// Backups moves instance state to and from the archive bucket.
type Backups struct {
	registry    *Registry
	statuses    model.StatusStore
	instances   model.InstanceClient
	storage     model.Storage
	authority   *Authority
	concurrency int
	logger      *logger.Logger
	now         func() time.Time
	newRunID    func() string

	running atomic.Bool
	runs    *background
}

func NewBackups(
	registry *Registry,
	statuses model.StatusStore,
	instances model.InstanceClient,
	storage model.Storage,
	authority *Authority,
	concurrency int,
	logger *logger.Logger,
) *Backups {
	if concurrency <= 0 {
		concurrency = DefaultSweepConcurrency
	}
	return &Backups{
		registry:    registry,
		statuses:    statuses,
		instances:   instances,
		storage:     storage,
		authority:   authority,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
		newRunID:    uuid.NewString,
		runs:        newBackground(),
	}
}

// Status returns the outcome of the last completed backup run.
func (b *Backups) Status(ctx context.Context) (model.BackupStatus, error) {
	status, err := b.statuses.GetBackupStatus(ctx)
	if err != nil {
		return model.BackupStatus{}, fmt.Errorf("failed to get backup status: %w", err)
	}
	return status, nil
}

// Start validates configuration and runs BackupAll in the background.
func (b *Backups) Start() error {
	if _, err := b.authority.RequireKnown(model.KnownCanisterIDDataBackup); err != nil {
		return err
	}
	if !b.running.CompareAndSwap(false, true) {
		return model.ErrBackupInProgress
	}

	b.runs.Go(func(ctx context.Context) {
		defer b.running.Store(false)

		status, err := b.backupAll(ctx)
		if err != nil {
			b.logger.Error("backup run aborted", "error", err)
			return
		}
		b.logger.Info("backup run completed", "run", status.Run, "run_id", status.RunID,
			"successful", status.SuccessfulCount, "failed", len(status.Failed))
	})
	return nil
}

// BackupAll archives the state of every registered instance. Per-instance
// failures are recorded in the stored status, not returned.
func (b *Backups) BackupAll(ctx context.Context) (model.BackupStatus, error) {
	if _, err := b.authority.RequireKnown(model.KnownCanisterIDDataBackup); err != nil {
		return model.BackupStatus{}, err
	}
	if !b.running.CompareAndSwap(false, true) {
		return model.BackupStatus{}, model.ErrBackupInProgress
	}
	defer b.running.Store(false)

	return b.backupAll(ctx)
}

// Close cancels background runs and waits for them.
func (b *Backups) Close() {
	b.runs.Close()
}

func (b *Backups) backupAll(ctx context.Context) (model.BackupStatus, error) {
	previous, err := b.statuses.GetBackupStatus(ctx)
	if err != nil {
		return model.BackupStatus{}, fmt.Errorf("failed to get backup status: %w", err)
	}

	entries, err := b.registry.Snapshot(ctx)
	if err != nil {
		return model.BackupStatus{}, err
	}

	runID := b.newRunID()
	tally := newSweepTally(len(entries))

	b.logger.Info("backup run started", "run_id", runID, "instances", len(entries))

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if stage, err := b.backupOne(ctx, runID, entry); err != nil {
				b.logger.Warn("instance backup failed",
					"principal", entry.Principal, "handle", entry.Handle, "stage", stage, "error", err)
				tally.fail(i, model.SweepFailure{
					Principal: entry.Principal,
					Handle:    entry.Handle,
					Context:   stage,
					Error:     err.Error(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return model.BackupStatus{}, fmt.Errorf("backup run interrupted: %w", err)
	}

	failed, successful := tally.result()
	status := model.BackupStatus{
		Run:             previous.Run + 1,
		RunID:           runID,
		LastRunAt:       b.now().UTC(),
		Failed:          failed,
		SuccessfulCount: successful,
	}
	if err := b.statuses.SaveBackupStatus(ctx, status); err != nil {
		return model.BackupStatus{}, fmt.Errorf("failed to save backup status: %w", err)
	}

	return status, nil
}

// backupOne returns the stage that failed along with the error.
func (b *Backups) backupOne(ctx context.Context, runID string, entry model.IdentityEntry) (string, error) {
	state, err := b.instances.ExportState(ctx, entry.Handle)
	if err != nil {
		return "export state", err
	}

	sealed, err := archive.Seal(archive.Header{
		RunID:   runID,
		Owner:   entry.Principal,
		Handle:  entry.Handle,
		TakenAt: b.now().UTC(),
	}, state)
	if err != nil {
		return "seal archive", err
	}

	key := archive.Key(runID, entry.Principal)
	if err := b.storage.Upload(ctx, key, bytes.NewReader(sealed), int64(len(sealed))); err != nil {
		return "upload archive", err
	}

	return "", nil
}

// ReceiveAndRestore forwards payload to owner's instance if source is the
// configured backup service.
func (b *Backups) ReceiveAndRestore(ctx context.Context, source model.Principal, owner model.Principal, payload []byte) error {
	expected, err := b.authority.RequireKnown(model.KnownCanisterIDDataBackup)
	if err != nil {
		return err
	}
	if source != expected {
		b.logger.Warn("restore from unknown backup source rejected", "source", source, "owner", owner)
		return model.ErrBackupSourceMismatch
	}

	handle, ok, err := b.registry.Lookup(ctx, owner)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("owner %s: %w", owner, model.ErrNotFound)
	}

	if err := b.instances.RestoreState(ctx, handle, payload); err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}

	b.logger.Info("instance restored from backup service", "owner", owner, "handle", handle, "bytes", len(payload))
	return nil
}

// RestoreFromArchive restores owner's instance from the archive written by
// backup run runID.
func (b *Backups) RestoreFromArchive(ctx context.Context, owner model.Principal, runID string) error {
	if _, err := uuid.Parse(runID); err != nil {
		return fmt.Errorf("%w: %q", model.ErrInvalidRunID, runID)
	}

	handle, ok, err := b.registry.Lookup(ctx, owner)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("owner %s: %w", owner, model.ErrNotFound)
	}

	key := archive.Key(runID, owner)
	rc, err := b.storage.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to download archive: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxArchiveSize+1))
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if len(data) > maxArchiveSize {
		return fmt.Errorf("archive %s exceeds %d bytes", key, maxArchiveSize)
	}

	header, state, err := archive.Open(data)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", key, err)
	}
	if header.Owner != owner {
		return fmt.Errorf("archive %s belongs to %s: %w", key, header.Owner, archive.ErrCorrupt)
	}

	if err := b.instances.RestoreState(ctx, handle, state); err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}

	b.logger.Info("instance restored from archive", "owner", owner, "handle", handle, "run_id", runID, "bytes", len(state))
	return nil
}
