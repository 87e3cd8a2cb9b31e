package store

import (
	"context"
	"fmt"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ScoreStore struct {
	db *pgxpool.Pool
}

func NewScoreStore(db *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{db: db}
}

func (r *ScoreStore) CreateScore(ctx context.Context, s models.Score) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO scores (user_id, name, score, mode)
        VALUES ($1, $2, $3, $4)
    `, s.UserId, s.Name, s.Score, s.Mode)
	if err != nil {
		return fmt.Errorf("could not create score: %w", err)
	}
	return nil
}

// IncrementWins upserts the per-account multiplayer win counter.
func (r *ScoreStore) IncrementWins(ctx context.Context, userId string) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO wins (user_id, wins)
        VALUES ($1, 1)
        ON CONFLICT (user_id) DO UPDATE SET wins = wins.wins + 1
    `, userId)
	if err != nil {
		return fmt.Errorf("could not increment wins: %w", err)
	}
	return nil
}

// TopScores returns the best single-player rounds, highest first.
func (r *ScoreStore) TopScores(ctx context.Context, mode string, limit int) ([]models.Score, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, user_id, name, score, mode, created_at
        FROM scores
        WHERE mode = $1
        ORDER BY score DESC, created_at ASC
        LIMIT $2
    `, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top scores: %w", err)
	}
	defer rows.Close()

	scores := []models.Score{}
	for rows.Next() {
		var s models.Score
		if err := rows.Scan(&s.ID, &s.UserId, &s.Name, &s.Score, &s.Mode, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading score rows: %w", err)
	}

	return scores, nil
}

// TopWins returns accounts with at least one multiplayer win, most first.
func (r *ScoreStore) TopWins(ctx context.Context, limit int) ([]models.WinCount, error) {
	rows, err := r.db.Query(ctx, `
        SELECT w.user_id, u.name, w.wins
        FROM wins w
        JOIN users u ON u.user_id = w.user_id
        WHERE w.wins >= 1
        ORDER BY w.wins DESC, u.name ASC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top wins: %w", err)
	}
	defer rows.Close()

	wins := []models.WinCount{}
	for rows.Next() {
		var w models.WinCount
		if err := rows.Scan(&w.UserId, &w.Name, &w.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan win row: %w", err)
		}
		wins = append(wins, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading win rows: %w", err)
	}

	return wins, nil
}
