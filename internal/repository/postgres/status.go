package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/userindex/internal/model"
)

var _ model.StatusStore = (*StatusRepository)(nil)

const (
	kindUpgrade = "upgrade"
	kindBackup  = "backup"
)

// StatusRepository stores one row per sweep kind plus that run's failures.
type StatusRepository struct {
	db *Connection
}

func NewStatusRepository(db *Connection) *StatusRepository {
	return &StatusRepository{db: db}
}

type sweepRow struct {
	run             uint64
	runID           string
	mode            string
	lastRunAt       time.Time
	successfulCount uint64
	failed          []model.SweepFailure
}

func (r *StatusRepository) GetUpgradeStatus(ctx context.Context) (model.UpgradeStatus, error) {
	row, err := r.load(ctx, kindUpgrade)
	if err != nil {
		return model.UpgradeStatus{}, err
	}
	return model.UpgradeStatus{
		Version:         row.run,
		LastRunAt:       row.lastRunAt,
		Mode:            model.InstallMode(row.mode),
		Failed:          row.failed,
		SuccessfulCount: row.successfulCount,
	}, nil
}

func (r *StatusRepository) SaveUpgradeStatus(ctx context.Context, status model.UpgradeStatus) error {
	return r.save(ctx, kindUpgrade, sweepRow{
		run:             status.Version,
		mode:            string(status.Mode),
		lastRunAt:       status.LastRunAt,
		successfulCount: status.SuccessfulCount,
		failed:          status.Failed,
	})
}

func (r *StatusRepository) GetBackupStatus(ctx context.Context) (model.BackupStatus, error) {
	row, err := r.load(ctx, kindBackup)
	if err != nil {
		return model.BackupStatus{}, err
	}
	return model.BackupStatus{
		Run:             row.run,
		RunID:           row.runID,
		LastRunAt:       row.lastRunAt,
		Failed:          row.failed,
		SuccessfulCount: row.successfulCount,
	}, nil
}

func (r *StatusRepository) SaveBackupStatus(ctx context.Context, status model.BackupStatus) error {
	return r.save(ctx, kindBackup, sweepRow{
		run:             status.Run,
		runID:           status.RunID,
		lastRunAt:       status.LastRunAt,
		successfulCount: status.SuccessfulCount,
		failed:          status.Failed,
	})
}

// load returns a zero row when the sweep has never completed.
func (r *StatusRepository) load(ctx context.Context, kind string) (sweepRow, error) {
	var (
		row          sweepRow
		run, okCount int64
	)
	err := r.db.QueryRow(ctx,
		`SELECT run, run_id, mode, last_run_at, successful_count FROM sweep_status WHERE kind = $1`,
		kind,
	).Scan(&run, &row.runID, &row.mode, &row.lastRunAt, &okCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return sweepRow{}, nil
	}
	if err != nil {
		return sweepRow{}, fmt.Errorf("failed to get %s status: %w", kind, err)
	}
	row.run = uint64(run)
	row.successfulCount = uint64(okCount)

	rows, err := r.db.Query(ctx,
		`SELECT principal, handle, context, error FROM sweep_failures WHERE kind = $1 ORDER BY position`,
		kind,
	)
	if err != nil {
		return sweepRow{}, fmt.Errorf("failed to get %s failures: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			f                 model.SweepFailure
			principal, handle string
		)
		if err := rows.Scan(&principal, &handle, &f.Context, &f.Error); err != nil {
			return sweepRow{}, fmt.Errorf("failed to scan %s failure: %w", kind, err)
		}
		f.Principal = model.Principal(principal)
		f.Handle = model.InstanceHandle(handle)
		row.failed = append(row.failed, f)
	}
	if err := rows.Err(); err != nil {
		return sweepRow{}, fmt.Errorf("failed to iterate %s failures: %w", kind, err)
	}

	return row, nil
}

// save replaces the status row and its failures in one transaction.
func (r *StatusRepository) save(ctx context.Context, kind string, row sweepRow) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO sweep_status (kind, run, run_id, mode, last_run_at, successful_count)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (kind) DO UPDATE SET
			     run = EXCLUDED.run,
			     run_id = EXCLUDED.run_id,
			     mode = EXCLUDED.mode,
			     last_run_at = EXCLUDED.last_run_at,
			     successful_count = EXCLUDED.successful_count`,
			kind, int64(row.run), row.runID, row.mode, row.lastRunAt, int64(row.successfulCount),
		)
		if err != nil {
			return fmt.Errorf("failed to save %s status: %w", kind, err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM sweep_failures WHERE kind = $1`, kind); err != nil {
			return fmt.Errorf("failed to clear %s failures: %w", kind, err)
		}

		if len(row.failed) == 0 {
			return nil
		}
		records := make([][]any, 0, len(row.failed))
		for i, f := range row.failed {
			records = append(records, []any{kind, int32(i), string(f.Principal), string(f.Handle), f.Context, f.Error})
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"sweep_failures"},
			[]string{"kind", "position", "principal", "handle", "context", "error"},
			pgx.CopyFromRows(records),
		); err != nil {
			return fmt.Errorf("failed to save %s failures: %w", kind, err)
		}

		return nil
	})
}
