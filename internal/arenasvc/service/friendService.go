package service

import (
	"context"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/arenasvc/store"
)

// FriendService is the query/write layer over the persisted friend graph.
type FriendService struct {
	friendStore *store.FriendStore
	userStore   *store.UserStore
}

func NewFriendService(friendStore *store.FriendStore, userStore *store.UserStore) *FriendService {
	return &FriendService{
		friendStore: friendStore,
		userStore:   userStore,
	}
}

func (s *FriendService) ListFriends(ctx context.Context, userId string) ([]models.FriendSummary, error) {
	return s.friendStore.ListFriends(ctx, userId)
}

// AddFriend inserts one accepted edge and returns the recipient's public
// summary. Returns nil when the recipient account does not exist or the
// edge was already present.
func (s *FriendService) AddFriend(ctx context.Context, requesterId, recipientId string) (*models.FriendSummary, error) {
	recipient, err := s.userStore.GetByID(ctx, recipientId)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, nil
	}

	created, err := s.friendStore.CreateFriend(ctx, requesterId, recipientId)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}

	return &models.FriendSummary{UserId: recipient.UserId, Name: recipient.Name}, nil
}
