package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Moderation log actions.
const (
	LogActionRestrict   = "restrict"
	LogActionUnrestrict = "unrestrict"
	LogActionSilence    = "silence"
	LogActionUnsilence  = "unsilence"
	LogActionNote       = "note"
)

// LogRepository appends moderation audit rows.
type LogRepository struct {
	pool *pgxpool.Pool
}

// NewLogRepository creates a new LogRepository.
func NewLogRepository(pool *pgxpool.Pool) *LogRepository {
	return &LogRepository{pool: pool}
}

// Insert records one moderation action.
func (r *LogRepository) Insert(ctx context.Context, from, to int32, action, msg string) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO logs ("from", "to", action, msg, time) VALUES ($1, $2, $3, $4, $5)`,
		from, to, action, msg, time.Now().Unix()); err != nil {
		return fmt.Errorf("inserting %s log %d->%d: %w", action, from, to, err)
	}
	return nil
}
