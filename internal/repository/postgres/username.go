package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/userindex/internal/model"
)

var _ model.UsernameStore = (*UsernameRepository)(nil)

type UsernameRepository struct {
	db *Connection
}

func NewUsernameRepository(db *Connection) *UsernameRepository {
	return &UsernameRepository{
		db: db,
	}
}

func (r *UsernameRepository) GetByUsername(ctx context.Context, username string) (model.UsernameEntry, error) {
	query := `SELECT username, principal, updated_at FROM usernames WHERE username = $1`
	return r.get(ctx, query, username)
}

func (r *UsernameRepository) GetByOwner(ctx context.Context, owner model.Principal) (model.UsernameEntry, error) {
	query := `SELECT username, principal, updated_at FROM usernames WHERE principal = $1`
	return r.get(ctx, query, string(owner))
}

func (r *UsernameRepository) get(ctx context.Context, query string, arg string) (model.UsernameEntry, error) {
	var (
		entry     model.UsernameEntry
		principal string
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(&entry.Username, &principal, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UsernameEntry{}, model.ErrNotFound
		}
		return model.UsernameEntry{}, fmt.Errorf("failed to get username: %w", err)
	}
	entry.Principal = model.Principal(principal)

	return entry, nil
}

// Claim releases the principal's previous name and binds the new one in a
// single transaction. A concurrent claim of the same name blocks on the
// primary key and then observes the conflict.
func (r *UsernameRepository) Claim(ctx context.Context, entry model.UsernameEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var holder string
		err := tx.QueryRow(ctx,
			`SELECT principal FROM usernames WHERE username = $1 FOR UPDATE`,
			entry.Username,
		).Scan(&holder)
		switch {
		case err == nil && model.Principal(holder) == entry.Principal:
			return nil
		case err == nil:
			return model.ErrUsernameAlreadyTaken
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("failed to lock username: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM usernames WHERE principal = $1`,
			string(entry.Principal),
		); err != nil {
			return fmt.Errorf("failed to release previous username: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`INSERT INTO usernames (username, principal, updated_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (username) DO NOTHING`,
			entry.Username, string(entry.Principal), entry.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to claim username: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrUsernameAlreadyTaken
		}

		return nil
	})
}
