package hub

import (
	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/comm"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// handleConnect registers an authenticated account as online. Sockets with
// no session stay unregistered until they ask for guest status.
func (h *Hub) handleConnect(socketId string, account *models.User) {
	if account == nil {
		log.Debugf("socket %s connected without a session", socketId)
		return
	}

	h.register(&models.OnlineUser{
		SocketId: socketId,
		UserId:   account.UserId,
		Name:     account.Name,
		Guest:    false,
	})

	h.push(socketId, comm.TypeLoginSuccess, comm.AccountSummary{
		UserId: account.UserId,
		Name:   account.Name,
		Avatar: account.Avatar,
		Guest:  false,
	})
}

// register inserts the online record for a connection. A live connection
// already representing the same registered account is evicted first, so
// lookupByAccount never has two candidates.
func (h *Hub) register(user *models.OnlineUser) {
	if !user.Guest {
		if prev := h.lookupByAccount(user.UserId); prev != nil && prev.SocketId != user.SocketId {
			log.Infof("evicting socket %s, account %s reconnected on %s", prev.SocketId, user.UserId, user.SocketId)
			h.push(prev.SocketId, comm.TypeSessionReplaced, struct{}{})
			delete(h.online, prev.SocketId)
			h.sender.Close(prev.SocketId)
		}
	}

	h.online[user.SocketId] = user

	if !user.Guest {
		ctx, cancel := storeCtx()
		defer cancel()
		if err := h.users.SetSocket(ctx, user.UserId, user.SocketId); err != nil {
			log.Errorf("failed to persist socket marker for %s: %v", user.UserId, err)
		}
	}

	log.Infof("user %s (%s) online on socket %s", user.Name, user.UserId, user.SocketId)
}

// handleGuestLogin gives the connection an ephemeral identity. Nothing is
// persisted; the account id is valid only for the connection's lifetime.
func (h *Hub) handleGuestLogin(socketId string, payload comm.GuestLogin) {
	name := payload.Name
	if name == "" {
		name = "Guest-" + uuid.New().String()[:8]
	}

	guest := &models.OnlineUser{
		SocketId: socketId,
		UserId:   "guest:" + uuid.New().String(),
		Name:     name,
		Guest:    true,
	}
	h.register(guest)

	h.push(socketId, comm.TypeLoginSuccess, comm.AccountSummary{
		UserId: guest.UserId,
		Name:   guest.Name,
		Guest:  true,
	})
}

// handleSetUsername renames the connection's user. Unknown connections are
// a silent no-op; guest renames live only in the registry.
func (h *Hub) handleSetUsername(socketId string, payload comm.SetUsername) {
	user, ok := h.online[socketId]
	if !ok || payload.Name == "" {
		return
	}

	user.Name = payload.Name

	if !user.Guest {
		ctx, cancel := storeCtx()
		defer cancel()
		if err := h.users.UpdateName(ctx, user.UserId, payload.Name); err != nil {
			log.Errorf("failed to persist rename for %s: %v", user.UserId, err)
		}
	}
}

// lookupByConnection returns the online record for a socket, or nil.
func (h *Hub) lookupByConnection(socketId string) *models.OnlineUser {
	return h.online[socketId]
}

// lookupByAccount scans all online users for the account. Registered
// accounts have at most one record by the register invariant.
func (h *Hub) lookupByAccount(userId string) *models.OnlineUser {
	for _, user := range h.online {
		if user.UserId == userId {
			return user
		}
	}
	return nil
}

// handleDisconnect drops the online record, clears the persisted socket
// marker and cancels any negotiation or match the leaver was part of.
func (h *Hub) handleDisconnect(socketId string) {
	user, ok := h.online[socketId]
	if !ok {
		return
	}

	delete(h.online, socketId)

	if !user.Guest {
		ctx, cancel := storeCtx()
		defer cancel()
		if err := h.users.ClearSocket(ctx, user.UserId); err != nil {
			log.Errorf("failed to clear socket marker for %s: %v", user.UserId, err)
		}
	}

	h.cancelGamesFor(user.UserId)

	log.Infof("user %s (%s) offline, socket %s", user.Name, user.UserId, socketId)
}
