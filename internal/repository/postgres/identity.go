package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/userindex/internal/model"
)

var _ model.IdentityStore = (*IdentityRepository)(nil)

type IdentityRepository struct {
	db *Connection
}

func NewIdentityRepository(db *Connection) *IdentityRepository {
	return &IdentityRepository{
		db: db,
	}
}

func (r *IdentityRepository) GetByPrincipal(ctx context.Context, principal model.Principal) (model.IdentityEntry, error) {
	query := `SELECT principal, handle, referrer, created_at
			  FROM identities WHERE principal = $1`

	entry, err := scanIdentity(r.db.QueryRow(ctx, query, string(principal)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.IdentityEntry{}, model.ErrNotFound
		}
		return model.IdentityEntry{}, fmt.Errorf("failed to get identity by principal: %w", err)
	}

	return entry, nil
}

func (r *IdentityRepository) Create(ctx context.Context, entry model.IdentityEntry) (model.IdentityEntry, error) {
	query := `INSERT INTO identities (principal, handle, referrer, created_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT DO NOTHING
			  RETURNING principal, handle, referrer, created_at`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	var referrer *string
	if entry.Referrer != nil {
		s := string(*entry.Referrer)
		referrer = &s
	}

	saved, err := scanIdentity(r.db.QueryRow(ctx, query,
		string(entry.Principal), string(entry.Handle), referrer, entry.CreatedAt,
	))
	if err == nil {
		if _, err := r.db.Exec(ctx, `DELETE FROM pending_instances WHERE principal = $1`, string(entry.Principal)); err != nil {
			return model.IdentityEntry{}, fmt.Errorf("failed to clear pending instance: %w", err)
		}
		return saved, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.IdentityEntry{}, fmt.Errorf("failed to create identity: %w", err)
	}

	existing, err := r.GetByPrincipal(ctx, entry.Principal)
	if errors.Is(err, model.ErrNotFound) {
		// the handle, not the principal, collided
		return model.IdentityEntry{}, model.ErrAlreadyExists
	}
	if err != nil {
		return model.IdentityEntry{}, err
	}

	return existing, model.ErrAlreadyExists
}

func (r *IdentityRepository) SavePending(ctx context.Context, principal model.Principal, handle model.InstanceHandle) error {
	query := `INSERT INTO pending_instances (principal, handle, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (principal) DO UPDATE SET handle = EXCLUDED.handle`

	if _, err := r.db.Exec(ctx, query, string(principal), string(handle), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save pending instance: %w", err)
	}
	return nil
}

func (r *IdentityRepository) GetPending(ctx context.Context, principal model.Principal) (model.InstanceHandle, error) {
	var handle string
	err := r.db.QueryRow(ctx, `SELECT handle FROM pending_instances WHERE principal = $1`, string(principal)).Scan(&handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get pending instance: %w", err)
	}
	return model.InstanceHandle(handle), nil
}

func (r *IdentityRepository) Count(ctx context.Context) (uint64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM identities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count identities: %w", err)
	}
	return uint64(count), nil
}

// List returns every identity in insertion order within one snapshot.
func (r *IdentityRepository) List(ctx context.Context) ([]model.IdentityEntry, error) {
	query := `SELECT principal, handle, referrer, created_at
			  FROM identities ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer rows.Close()

	var entries []model.IdentityEntry
	for rows.Next() {
		entry, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate identities: %w", err)
	}

	return entries, nil
}

func scanIdentity(row pgx.Row) (model.IdentityEntry, error) {
	var (
		principal, handle string
		referrer          *string
		entry             model.IdentityEntry
	)
	if err := row.Scan(&principal, &handle, &referrer, &entry.CreatedAt); err != nil {
		return model.IdentityEntry{}, err
	}
	entry.Principal = model.Principal(principal)
	entry.Handle = model.InstanceHandle(handle)
	if referrer != nil {
		p := model.Principal(*referrer)
		entry.Referrer = &p
	}
	return entry, nil
}
