package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TourneyPool is one named mappool.
type TourneyPool struct {
	ID        int32
	Name      string
	CreatedBy int32
	CreatedAt int64
}

// TourneyPoolMap is one pool entry keyed by (mods, slot).
type TourneyPoolMap struct {
	PoolID int32
	MapID  int32
	Mods   int32
	Slot   int16
}

// PoolRepository manages tournament mappools.
type PoolRepository struct {
	pool *pgxpool.Pool
}

// NewPoolRepository creates a new PoolRepository.
func NewPoolRepository(pool *pgxpool.Pool) *PoolRepository {
	return &PoolRepository{pool: pool}
}

// Create inserts a named pool and returns it.
func (r *PoolRepository) Create(ctx context.Context, name string, createdBy int32) (*TourneyPool, error) {
	p := TourneyPool{Name: name, CreatedBy: createdBy, CreatedAt: time.Now().Unix()}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tourney_pools (name, created_by, created_at)
		 VALUES ($1, $2, $3) RETURNING id`,
		p.Name, p.CreatedBy, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("creating pool %q: %w", name, err)
	}
	return &p, nil
}

// GetByName returns the pool with the given name, or nil, nil.
func (r *PoolRepository) GetByName(ctx context.Context, name string) (*TourneyPool, error) {
	var p TourneyPool
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_by, created_at FROM tourney_pools WHERE name = $1`,
		name).Scan(&p.ID, &p.Name, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying pool %q: %w", name, err)
	}
	return &p, nil
}

// List returns every pool.
func (r *PoolRepository) List(ctx context.Context) ([]TourneyPool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_by, created_at FROM tourney_pools ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying pools: %w", err)
	}
	defer rows.Close()

	var out []TourneyPool
	for rows.Next() {
		var p TourneyPool
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning pool row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pool rows: %w", err)
	}
	return out, nil
}

// Delete removes a pool and its maps.
func (r *PoolRepository) Delete(ctx context.Context, poolID int32) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM tourney_pools WHERE id = $1`, poolID); err != nil {
		return fmt.Errorf("deleting pool %d: %w", poolID, err)
	}
	return nil
}

// AssignMap binds a map to a (mods, slot) key in the pool.
func (r *PoolRepository) AssignMap(ctx context.Context, m TourneyPoolMap) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO tourney_pool_maps (pool_id, map_id, mods, slot)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (pool_id, mods, slot) DO UPDATE SET map_id = $2`,
		m.PoolID, m.MapID, m.Mods, m.Slot); err != nil {
		return fmt.Errorf("assigning map %d to pool %d: %w", m.MapID, m.PoolID, err)
	}
	return nil
}

// UnassignMap removes the (mods, slot) key from the pool.
func (r *PoolRepository) UnassignMap(ctx context.Context, poolID int32, mods int32, slot int16) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM tourney_pool_maps WHERE pool_id = $1 AND mods = $2 AND slot = $3`,
		poolID, mods, slot); err != nil {
		return fmt.Errorf("unassigning slot from pool %d: %w", poolID, err)
	}
	return nil
}

// LoadMaps returns every entry of the pool.
func (r *PoolRepository) LoadMaps(ctx context.Context, poolID int32) ([]TourneyPoolMap, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT pool_id, map_id, mods, slot FROM tourney_pool_maps
		 WHERE pool_id = $1 ORDER BY mods, slot`, poolID)
	if err != nil {
		return nil, fmt.Errorf("querying maps for pool %d: %w", poolID, err)
	}
	defer rows.Close()

	var out []TourneyPoolMap
	for rows.Next() {
		var m TourneyPoolMap
		if err := rows.Scan(&m.PoolID, &m.MapID, &m.Mods, &m.Slot); err != nil {
			return nil, fmt.Errorf("scanning pool map row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pool map rows: %w", err)
	}
	return out, nil
}
