package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRow is one row of the users table. Silence/donor ends and activity
// are unix timestamps.
type UserRow struct {
	ID             int32
	Name           string
	SafeName       string
	PwBcrypt       []byte
	Priv           int32
	Country        string
	SilenceEnd     int64
	DonorEnd       int64
	ClanID         int32
	ClanPriv       int16
	APIKey         *string
	LatestActivity int64
}

// UserRepository manages the users table.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, safe_name, pw_bcrypt, priv, country,
	silence_end, donor_end, clan_id, clan_priv, api_key, latest_activity`

func scanUser(row pgx.Row) (*UserRow, error) {
	var u UserRow
	err := row.Scan(&u.ID, &u.Name, &u.SafeName, &u.PwBcrypt, &u.Priv,
		&u.Country, &u.SilenceEnd, &u.DonorEnd, &u.ClanID, &u.ClanPriv,
		&u.APIKey, &u.LatestActivity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetBySafeName returns the user with the given safe name, or nil, nil.
func (r *UserRepository) GetBySafeName(ctx context.Context, safeName string) (*UserRow, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE safe_name = $1`, safeName))
	if err != nil {
		return nil, fmt.Errorf("querying user %q: %w", safeName, err)
	}
	return u, nil
}

// GetByID returns the user with the given id, or nil, nil.
func (r *UserRepository) GetByID(ctx context.Context, id int32) (*UserRow, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("querying user %d: %w", id, err)
	}
	return u, nil
}

// FirstUserID returns the lowest user id above excludeID (the bot).
// The numerically-first real account is granted full staff privileges
// on its first login.
func (r *UserRepository) FirstUserID(ctx context.Context, excludeID int32) (int32, error) {
	var id int32
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MIN(id), 0) FROM users WHERE id <> $1`, excludeID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("querying first user id: %w", err)
	}
	return id, nil
}

// UpdatePrivileges replaces a user's privilege bitset.
func (r *UserRepository) UpdatePrivileges(ctx context.Context, id int32, priv int32) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE users SET priv = $1 WHERE id = $2`, priv, id); err != nil {
		return fmt.Errorf("updating privileges for user %d: %w", id, err)
	}
	return nil
}

// UpdateCountry backfills a resolved country over the "xx" sentinel.
func (r *UserRepository) UpdateCountry(ctx context.Context, id int32, country string) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE users SET country = $1 WHERE id = $2`, country, id); err != nil {
		return fmt.Errorf("updating country for user %d: %w", id, err)
	}
	return nil
}

// UpdateSilenceEnd sets the silence end timestamp.
func (r *UserRepository) UpdateSilenceEnd(ctx context.Context, id int32, end time.Time) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE users SET silence_end = $1 WHERE id = $2`, end.Unix(), id); err != nil {
		return fmt.Errorf("updating silence end for user %d: %w", id, err)
	}
	return nil
}

// UpdateLatestActivity bumps the activity timestamp.
func (r *UserRepository) UpdateLatestActivity(ctx context.Context, id int32) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE users SET latest_activity = $1 WHERE id = $2`, time.Now().Unix(), id); err != nil {
		return fmt.Errorf("updating latest activity for user %d: %w", id, err)
	}
	return nil
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int32, pwBcrypt []byte) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE users SET pw_bcrypt = $1 WHERE id = $2`, pwBcrypt, id); err != nil {
		return fmt.Errorf("updating password for user %d: %w", id, err)
	}
	return nil
}

// UpdateClan sets the user's clan membership.
func (r *UserRepository) UpdateClan(ctx context.Context, id, clanID int32, clanPriv int16) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE users SET clan_id = $1, clan_priv = $2 WHERE id = $3`,
		clanID, clanPriv, id); err != nil {
		return fmt.Errorf("updating clan for user %d: %w", id, err)
	}
	return nil
}

// ExpiredDonors returns users whose donor perks ran out but who still
// carry donor bits in priv.
func (r *UserRepository) ExpiredDonors(ctx context.Context, donorMask int32, now time.Time) ([]*UserRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE donor_end < $1 AND priv & $2 <> 0`, now.Unix(), donorMask)
	if err != nil {
		return nil, fmt.Errorf("querying expired donors: %w", err)
	}
	defer rows.Close()

	var out []*UserRow
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expired donor: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expired donors: %w", err)
	}
	return out, nil
}

// ResetDonor strips donor bits and clears the donor end timestamp.
func (r *UserRepository) ResetDonor(ctx context.Context, id int32, donorMask int32) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE users SET priv = priv & ~$1::integer, donor_end = 0 WHERE id = $2`,
		donorMask, id); err != nil {
		return fmt.Errorf("resetting donor for user %d: %w", id, err)
	}
	return nil
}
