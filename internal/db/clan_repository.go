package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Clan privilege levels stored on users.clan_priv.
const (
	ClanPrivMember  int16 = 1
	ClanPrivOfficer int16 = 2
	ClanPrivOwner   int16 = 3
)

// ClanRow is one clan.
type ClanRow struct {
	ID        int32
	Name      string
	Tag       string
	Owner     int32
	CreatedAt int64
}

// ClanRepository manages the clans table.
type ClanRepository struct {
	pool *pgxpool.Pool
}

// NewClanRepository creates a new ClanRepository.
func NewClanRepository(pool *pgxpool.Pool) *ClanRepository {
	return &ClanRepository{pool: pool}
}

// Create inserts a clan and returns it.
func (r *ClanRepository) Create(ctx context.Context, name, tag string, owner int32) (*ClanRow, error) {
	c := ClanRow{Name: name, Tag: tag, Owner: owner, CreatedAt: time.Now().Unix()}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO clans (name, tag, owner, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.Tag, c.Owner, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("creating clan %q: %w", name, err)
	}
	return &c, nil
}

// GetByTag returns the clan with the given tag, or nil, nil.
func (r *ClanRepository) GetByTag(ctx context.Context, tag string) (*ClanRow, error) {
	return r.get(ctx, `SELECT id, name, tag, owner, created_at FROM clans WHERE tag = $1`, tag)
}

// GetByID returns the clan with the given id, or nil, nil.
func (r *ClanRepository) GetByID(ctx context.Context, id int32) (*ClanRow, error) {
	return r.get(ctx, `SELECT id, name, tag, owner, created_at FROM clans WHERE id = $1`, id)
}

func (r *ClanRepository) get(ctx context.Context, query string, arg any) (*ClanRow, error) {
	var c ClanRow
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&c.ID, &c.Name, &c.Tag, &c.Owner, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying clan: %w", err)
	}
	return &c, nil
}

// List returns every clan.
func (r *ClanRepository) List(ctx context.Context) ([]ClanRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, tag, owner, created_at FROM clans ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying clans: %w", err)
	}
	defer rows.Close()

	var out []ClanRow
	for rows.Next() {
		var c ClanRow
		if err := rows.Scan(&c.ID, &c.Name, &c.Tag, &c.Owner, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning clan row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clan rows: %w", err)
	}
	return out, nil
}

// Delete removes a clan and detaches its members.
func (r *ClanRepository) Delete(ctx context.Context, clanID int32) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning clan delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE users SET clan_id = 0, clan_priv = 0 WHERE clan_id = $1`, clanID); err != nil {
		return fmt.Errorf("detaching clan %d members: %w", clanID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM clans WHERE id = $1`, clanID); err != nil {
		return fmt.Errorf("deleting clan %d: %w", clanID, err)
	}
	return tx.Commit(ctx)
}

// MemberCount returns how many users belong to the clan.
func (r *ClanRepository) MemberCount(ctx context.Context, clanID int32) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE clan_id = $1`, clanID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting clan %d members: %w", clanID, err)
	}
	return n, nil
}
