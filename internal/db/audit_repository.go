package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientHashes is one hardware fingerprint set from a login.
type ClientHashes struct {
	OsuPath     string
	Adapters    string
	UninstallID string
	DiskSerial  string
}

// AuditRepository records login attempts and hardware fingerprints.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// InsertLogin records one login attempt.
func (r *AuditRepository) InsertLogin(ctx context.Context, userID int32, ip, osuVer, stream string) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO ingame_logins (userid, ip, osu_ver, osu_stream, datetime)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, ip, osuVer, stream, time.Now().Unix()); err != nil {
		return fmt.Errorf("inserting login audit for user %d: %w", userID, err)
	}
	return nil
}

// UpsertHashes records a hardware fingerprint occurrence.
func (r *AuditRepository) UpsertHashes(ctx context.Context, userID int32, h ClientHashes) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO client_hashes (userid, osupath, adapters, uninstall_id, disk_serial, latest_time)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (userid, osupath, adapters, uninstall_id, disk_serial)
		 DO UPDATE SET latest_time = $6, occurrences = client_hashes.occurrences + 1`,
		userID, h.OsuPath, h.Adapters, h.UninstallID, h.DiskSerial, time.Now().Unix()); err != nil {
		return fmt.Errorf("upserting client hashes for user %d: %w", userID, err)
	}
	return nil
}

// MatchingHardware returns ids and privileges of other users sharing any of
// the fingerprint components. ignoredDiskSerial is skipped entirely; it is
// the well-known value virtual machines report for every guest.
func (r *AuditRepository) MatchingHardware(ctx context.Context, userID int32, h ClientHashes, ignoredDiskSerial string) ([]UserRow, error) {
	query := `SELECT DISTINCT u.id, u.name, u.safe_name, u.pw_bcrypt, u.priv, u.country,
			u.silence_end, u.donor_end, u.clan_id, u.clan_priv, u.api_key, u.latest_activity
		 FROM client_hashes ch JOIN users u ON u.id = ch.userid
		 WHERE ch.userid <> $1
		   AND (ch.adapters = $2 OR ch.uninstall_id = $3
		        OR (ch.disk_serial = $4 AND ch.disk_serial <> $5))`

	rows, err := r.pool.Query(ctx, query,
		userID, h.Adapters, h.UninstallID, h.DiskSerial, ignoredDiskSerial)
	if err != nil {
		return nil, fmt.Errorf("querying hardware matches for user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []UserRow
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning hardware match: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hardware matches: %w", err)
	}
	return out, nil
}
