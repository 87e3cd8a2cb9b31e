package service

import (
	"context"
	"fmt"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/arenasvc/store"

	"github.com/google/uuid"
)

// UserService struct represents the user service layer
type UserService struct {
	userStore *store.UserStore
}

// NewUserService creates a new UserService instance
func NewUserService(userStore *store.UserStore) *UserService {
	return &UserService{
		userStore: userStore,
	}
}

// GetOrCreateBySub resolves a verified Google subject to an account,
// creating the account on first login.
func (s *UserService) GetOrCreateBySub(ctx context.Context, sub, name, avatar string) (*models.User, error) {
	existing, err := s.userStore.GetByGoogleSub(ctx, sub)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	user := models.User{
		UserId:    uuid.New().String(),
		GoogleSub: sub,
		Name:      name,
		Avatar:    avatar,
	}
	if _, err := s.userStore.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userStore.GetByID(ctx, id)
}

func (s *UserService) UpdateName(ctx context.Context, id string, name string) error {
	return s.userStore.UpdateName(ctx, id, name)
}

func (s *UserService) SetSocket(ctx context.Context, id string, socketId string) error {
	return s.userStore.SetSocket(ctx, id, socketId)
}

func (s *UserService) ClearSocket(ctx context.Context, id string) error {
	return s.userStore.ClearSocket(ctx, id)
}
