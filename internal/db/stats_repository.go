package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRow is one row of the per-mode stats table.
type StatsRow struct {
	UserID      int32
	Mode        uint8
	TotalScore  int64
	RankedScore int64
	PP          int16
	Plays       int32
	Accuracy    float32
	MaxCombo    int32
}

// StatsRepository manages the stats table.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// LoadByUserID loads every mode row for a user.
func (r *StatsRepository) LoadByUserID(ctx context.Context, userID int32) ([]StatsRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, mode, total_score, ranked_score, pp, plays, acc, max_combo
		 FROM stats WHERE user_id = $1 ORDER BY mode`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying stats for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]StatsRow, 0, 4)
	for rows.Next() {
		var s StatsRow
		if err := rows.Scan(&s.UserID, &s.Mode, &s.TotalScore, &s.RankedScore,
			&s.PP, &s.Plays, &s.Accuracy, &s.MaxCombo); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stats rows: %w", err)
	}
	return out, nil
}

// EnsureRows inserts missing mode rows for a user.
func (r *StatsRepository) EnsureRows(ctx context.Context, userID int32, numModes int) error {
	for mode := range numModes {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO stats (user_id, mode) VALUES ($1, $2)
			 ON CONFLICT (user_id, mode) DO NOTHING`, userID, mode); err != nil {
			return fmt.Errorf("ensuring stats row for user %d mode %d: %w", userID, mode, err)
		}
	}
	return nil
}
