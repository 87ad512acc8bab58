package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MailRow is one offline message.
type MailRow struct {
	ID       int32
	FromID   int32
	FromName string
	ToID     int32
	Msg      string
	Time     int64
	Read     bool
}

// MailRepository manages offline mail.
type MailRepository struct {
	pool *pgxpool.Pool
}

// NewMailRepository creates a new MailRepository.
func NewMailRepository(pool *pgxpool.Pool) *MailRepository {
	return &MailRepository{pool: pool}
}

// Insert stores a message for an offline recipient.
func (r *MailRepository) Insert(ctx context.Context, fromID, toID int32, msg string) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO mail (from_id, to_id, msg, time) VALUES ($1, $2, $3, $4)`,
		fromID, toID, msg, time.Now().Unix()); err != nil {
		return fmt.Errorf("inserting mail %d->%d: %w", fromID, toID, err)
	}
	return nil
}

// UnreadByUserID returns the user's unread mail with sender names resolved.
func (r *MailRepository) UnreadByUserID(ctx context.Context, userID int32) ([]MailRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.from_id, u.name, m.to_id, m.msg, m.time, m.read
		 FROM mail m JOIN users u ON u.id = m.from_id
		 WHERE m.to_id = $1 AND NOT m.read ORDER BY m.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying unread mail for user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []MailRow
	for rows.Next() {
		var m MailRow
		if err := rows.Scan(&m.ID, &m.FromID, &m.FromName, &m.ToID, &m.Msg, &m.Time, &m.Read); err != nil {
			return nil, fmt.Errorf("scanning mail row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mail rows: %w", err)
	}
	return out, nil
}

// MarkRead marks all mail to the user as read.
func (r *MailRepository) MarkRead(ctx context.Context, userID int32) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE mail SET read = TRUE WHERE to_id = $1 AND NOT read`, userID); err != nil {
		return fmt.Errorf("marking mail read for user %d: %w", userID, err)
	}
	return nil
}
