package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (r *UserStore) CreateUser(ctx context.Context, user models.User) (string, error) {
	var userId string

	query := `
        INSERT INTO users (user_id, google_sub, name, avatar)
        VALUES ($1, $2, $3, $4)
        RETURNING user_id;
    `

	err := r.db.QueryRow(ctx, query, user.UserId, user.GoogleSub, user.Name, user.Avatar).Scan(&userId)
	if err != nil {
		return "", fmt.Errorf("could not create user: %w", err)
	}

	return userId, nil
}

func (r *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
        SELECT user_id, google_sub, name, COALESCE(avatar, ''), COALESCE(socket_id, ''), created_at, updated_at
        FROM users
        WHERE user_id = $1
    `, id)

	u := &models.User{}
	err := row.Scan(
		&u.UserId,
		&u.GoogleSub,
		&u.Name,
		&u.Avatar,
		&u.SocketId,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // user not found
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return u, nil
}

func (r *UserStore) GetByGoogleSub(ctx context.Context, sub string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
        SELECT user_id, google_sub, name, COALESCE(avatar, ''), COALESCE(socket_id, ''), created_at, updated_at
        FROM users
        WHERE google_sub = $1
    `, sub)

	u := &models.User{}
	err := row.Scan(
		&u.UserId,
		&u.GoogleSub,
		&u.Name,
		&u.Avatar,
		&u.SocketId,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by google sub: %w", err)
	}

	return u, nil
}

func (r *UserStore) UpdateName(ctx context.Context, id string, name string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE users SET name = $2, updated_at = now() WHERE user_id = $1
    `, id, name)
	if err != nil {
		return fmt.Errorf("could not update user name: %w", err)
	}
	return nil
}

// SetSocket records the last known live connection for the account so
// server pushes know the account is reachable.
func (r *UserStore) SetSocket(ctx context.Context, id string, socketId string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE users SET socket_id = $2, updated_at = now() WHERE user_id = $1
    `, id, socketId)
	if err != nil {
		return fmt.Errorf("could not set user socket: %w", err)
	}
	return nil
}

// ClearSocket marks the account offline.
func (r *UserStore) ClearSocket(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
        UPDATE users SET socket_id = NULL, updated_at = now() WHERE user_id = $1
    `, id)
	if err != nil {
		return fmt.Errorf("could not clear user socket: %w", err)
	}
	return nil
}
