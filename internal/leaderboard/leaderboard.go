// Package leaderboard reads and maintains the Redis sorted-set
// leaderboards (score = pp, member = user id).
package leaderboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Store wraps the Redis client for leaderboard operations.
type Store struct {
	rdb *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr string, db int) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return &Store{rdb: rdb}, nil
}

// NewFromClient wraps an existing client (tests).
func NewFromClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func globalKey(mode uint8) string {
	return fmt.Sprintf("leaderboard:%d", mode)
}

func countryKey(mode uint8, country string) string {
	return fmt.Sprintf("leaderboard:%d:%s", mode, country)
}

// GlobalRank returns the 1-based global rank of userID for mode,
// or 0 when the user is not ranked.
func (s *Store) GlobalRank(ctx context.Context, mode uint8, userID int32) (int32, error) {
	rank, err := s.rdb.ZRevRank(ctx, globalKey(mode), strconv.FormatInt(int64(userID), 10)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading global rank for user %d: %w", userID, err)
	}
	return int32(rank) + 1, nil
}

// UpdatePP writes the user's pp into the global and country sets.
func (s *Store) UpdatePP(ctx context.Context, mode uint8, country string, userID int32, pp float64) error {
	member := redis.Z{Score: pp, Member: strconv.FormatInt(int64(userID), 10)}
	if err := s.rdb.ZAdd(ctx, globalKey(mode), member).Err(); err != nil {
		return fmt.Errorf("updating global leaderboard: %w", err)
	}
	if err := s.rdb.ZAdd(ctx, countryKey(mode, country), member).Err(); err != nil {
		return fmt.Errorf("updating country leaderboard: %w", err)
	}
	return nil
}

// RemoveUser drops the user from every leaderboard for mode.
// Used when an account is restricted.
func (s *Store) RemoveUser(ctx context.Context, mode uint8, country string, userID int32) error {
	id := strconv.FormatInt(int64(userID), 10)
	if err := s.rdb.ZRem(ctx, globalKey(mode), id).Err(); err != nil {
		return fmt.Errorf("removing user %d from global leaderboard: %w", userID, err)
	}
	if err := s.rdb.ZRem(ctx, countryKey(mode, country), id).Err(); err != nil {
		return fmt.Errorf("removing user %d from country leaderboard: %w", userID, err)
	}
	return nil
}
