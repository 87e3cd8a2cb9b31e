package store

import (
	"context"
	"fmt"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FriendStore struct {
	db *pgxpool.Pool
}

func NewFriendStore(db *pgxpool.Pool) *FriendStore {
	return &FriendStore{db: db}
}

// CreateFriend inserts one accepted edge. The symmetric unique index makes
// a repeated add (in either direction) a no-op; created reports whether a
// row was actually inserted.
func (r *FriendStore) CreateFriend(ctx context.Context, requesterId, recipientId string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        INSERT INTO friends (requester_id, recipient_id, status)
        VALUES ($1, $2, 'accepted')
        ON CONFLICT DO NOTHING
    `, requesterId, recipientId)
	if err != nil {
		return false, fmt.Errorf("could not create friend edge: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListFriends returns the union of edges where the account is requester or
// recipient, joined to users for display names.
func (r *FriendStore) ListFriends(ctx context.Context, userId string) ([]models.FriendSummary, error) {
	rows, err := r.db.Query(ctx, `
        SELECT u.user_id, u.name
        FROM friends f
        JOIN users u
          ON u.user_id = CASE WHEN f.requester_id = $1 THEN f.recipient_id ELSE f.requester_id END
        WHERE f.requester_id = $1 OR f.recipient_id = $1
        ORDER BY u.name
    `, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []models.FriendSummary{}
	for rows.Next() {
		var f models.FriendSummary
		if err := rows.Scan(&f.UserId, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan friend row: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading friend rows: %w", err)
	}

	return friends, nil
}
