package service

import (
	"context"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/arenasvc/store"
)

// leaderboardLimit is the fixed size of both leaderboards.
const leaderboardLimit = 10

// ScoreService records round outcomes and serves the leaderboards.
type ScoreService struct {
	scoreStore *store.ScoreStore
}

func NewScoreService(scoreStore *store.ScoreStore) *ScoreService {
	return &ScoreService{
		scoreStore: scoreStore,
	}
}

func (s *ScoreService) RecordScore(ctx context.Context, score models.Score) error {
	return s.scoreStore.CreateScore(ctx, score)
}

func (s *ScoreService) AddWin(ctx context.Context, userId string) error {
	return s.scoreStore.IncrementWins(ctx, userId)
}

// Leaderboards returns the top single-player scores and multiplayer win
// counts. Empty tables yield empty lists, never an error.
func (s *ScoreService) Leaderboards(ctx context.Context) ([]models.Score, []models.WinCount, error) {
	scores, err := s.scoreStore.TopScores(ctx, models.ModeSingle, leaderboardLimit)
	if err != nil {
		return nil, nil, err
	}

	wins, err := s.scoreStore.TopWins(ctx, leaderboardLimit)
	if err != nil {
		return nil, nil, err
	}

	return scores, wins, nil
}
