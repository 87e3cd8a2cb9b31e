package hub

import (
	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/comm"
	log "github.com/sirupsen/logrus"
)

// handleRequestInitialData pushes the friends list plus which of those
// friends are online right now. Guests have no persisted graph and get an
// empty list.
func (h *Hub) handleRequestInitialData(socketId string) {
	user, ok := h.online[socketId]
	if !ok {
		return
	}

	friends := []models.FriendSummary{}
	if !user.Guest {
		ctx, cancel := storeCtx()
		defer cancel()

		var err error
		friends, err = h.friends.ListFriends(ctx, user.UserId)
		if err != nil {
			log.Errorf("failed to list friends for %s: %v", user.UserId, err)
			friends = []models.FriendSummary{}
		}
	}

	onlineIds := []string{}
	for _, f := range friends {
		if h.lookupByAccount(f.UserId) != nil {
			onlineIds = append(onlineIds, f.UserId)
		}
	}

	h.push(socketId, comm.TypeFriendsList, comm.FriendsList{
		Friends:         friends,
		OnlineFriendIds: onlineIds,
	})
}

// handleAddFriend inserts one accepted edge. Self-adds, guest requesters
// and unknown recipients are silent no-ops. The requester is notified
// immediately, the recipient only when online.
func (h *Hub) handleAddFriend(socketId string, payload comm.AddFriend) {
	user, ok := h.online[socketId]
	if !ok || user.Guest || payload.UserId == "" || payload.UserId == user.UserId {
		return
	}

	ctx, cancel := storeCtx()
	defer cancel()

	recipient, err := h.friends.AddFriend(ctx, user.UserId, payload.UserId)
	if err != nil {
		log.Errorf("failed to add friend %s -> %s: %v", user.UserId, payload.UserId, err)
		return
	}
	if recipient == nil {
		return
	}

	h.push(socketId, comm.TypeFriendAdded, recipient)

	if other := h.lookupByAccount(payload.UserId); other != nil {
		h.push(other.SocketId, comm.TypeFriendAdded, models.FriendSummary{
			UserId: user.UserId,
			Name:   user.Name,
		})
	}
}
