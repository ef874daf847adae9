package usage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"roam/internal/types"
)

// Store handles lookup_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseLookup atomically checks the monthly quota and deducts one lookup.
// It resets the counter to DefaultLookups when last_reset_month is behind
// the current month. Returns ErrInsufficientLookups when 0 rows are updated
// (quota exhausted or session absent).
func (s *Store) UseLookup(ctx context.Context, sid types.ID) error {
	now := time.Now().Format("2006-01")

	tag, err := s.db.Exec(ctx, `
		UPDATE lookup_usage SET
			lookups_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE lookups_remaining - 1 END,
			last_reset_month = $1
		WHERE session_id = $3 AND (last_reset_month < $1 OR lookups_remaining > 0)
	`, now, DefaultLookups, string(sid))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientLookups
	}
	return nil
}

// EnsureSession inserts a new lookup_usage row for sid with the default
// allowance. If the row already exists the insert is silently skipped.
func (s *Store) EnsureSession(ctx context.Context, sid types.ID) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO lookup_usage (session_id, lookups_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO NOTHING
	`, string(sid), DefaultLookups, time.Now().Format("2006-01"))
	return err
}
