package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Relationship types as stored in the relationships table.
const (
	RelationFriend = "friend"
	RelationBlock  = "block"
)

// RelationshipRepository manages friend and block relations.
type RelationshipRepository struct {
	pool *pgxpool.Pool
}

// NewRelationshipRepository creates a new RelationshipRepository.
func NewRelationshipRepository(pool *pgxpool.Pool) *RelationshipRepository {
	return &RelationshipRepository{pool: pool}
}

// LoadByUserID returns the user's friend ids and block ids.
func (r *RelationshipRepository) LoadByUserID(ctx context.Context, userID int32) (friends, blocks []int32, err error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user2, type FROM relationships WHERE user1 = $1 ORDER BY user2`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying relationships for user %d: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int32
		var typ string
		if err := rows.Scan(&id, &typ); err != nil {
			return nil, nil, fmt.Errorf("scanning relationship row: %w", err)
		}
		switch typ {
		case RelationFriend:
			friends = append(friends, id)
		case RelationBlock:
			blocks = append(blocks, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating relationship rows: %w", err)
	}
	return friends, blocks, nil
}

// Upsert sets the relation from user1 to user2 (friend and block are
// mutually exclusive by the primary key).
func (r *RelationshipRepository) Upsert(ctx context.Context, user1, user2 int32, typ string) error {
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO relationships (user1, user2, type) VALUES ($1, $2, $3)
		 ON CONFLICT (user1, user2) DO UPDATE SET type = $3`,
		user1, user2, typ); err != nil {
		return fmt.Errorf("upserting %s %d->%d: %w", typ, user1, user2, err)
	}
	return nil
}

// Delete removes any relation from user1 to user2.
func (r *RelationshipRepository) Delete(ctx context.Context, user1, user2 int32) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM relationships WHERE user1 = $1 AND user2 = $2`,
		user1, user2); err != nil {
		return fmt.Errorf("deleting relationship %d->%d: %w", user1, user2, err)
	}
	return nil
}
