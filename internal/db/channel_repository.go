package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChannelRow is one static channel definition.
type ChannelRow struct {
	Name      string
	Topic     string
	ReadPriv  int32
	WritePriv int32
	AutoJoin  bool
}

// ChannelRepository loads the static channel set.
type ChannelRepository struct {
	pool *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository.
func NewChannelRepository(pool *pgxpool.Pool) *ChannelRepository {
	return &ChannelRepository{pool: pool}
}

// LoadAll returns every static channel, loaded once at startup.
func (r *ChannelRepository) LoadAll(ctx context.Context) ([]ChannelRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, topic, read_priv, write_priv, auto_join FROM channels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying channels: %w", err)
	}
	defer rows.Close()

	var out []ChannelRow
	for rows.Next() {
		var c ChannelRow
		if err := rows.Scan(&c.Name, &c.Topic, &c.ReadPriv, &c.WritePriv, &c.AutoJoin); err != nil {
			return nil, fmt.Errorf("scanning channel row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating channel rows: %w", err)
	}
	return out, nil
}
