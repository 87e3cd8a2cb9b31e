package hub

import (
	"time"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/comm"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Slot is one side of a pending game.
type Slot struct {
	UserId   string
	SocketId string
	Name     string
	Choice   *models.Difficulty
}

// PendingGame tracks an accepted pairing from invite acceptance until both
// difficulty choices are in. It lives only in the hub goroutine.
type PendingGame struct {
	GameId    string
	Players   [2]Slot
	CreatedAt time.Time
}

// slotSocket resolves a slot to its owner's current connection, so a
// reconnect mid-negotiation still reaches the player.
func (h *Hub) slotSocket(s Slot) string {
	if user := h.lookupByAccount(s.UserId); user != nil {
		return user.SocketId
	}
	return s.SocketId
}

// handleSendInvite pushes a fire-once invite notification to the target's
// connection. Nothing is recorded server-side; a missing sender or target
// silently drops the invite.
func (h *Hub) handleSendInvite(socketId string, payload comm.SendInvite) {
	sender, ok := h.online[socketId]
	if !ok {
		return
	}

	target := h.lookupByAccount(payload.ToUserId)
	if target == nil {
		log.Debugf("invite from %s dropped, target %s not online", sender.UserId, payload.ToUserId)
		return
	}

	h.push(target.SocketId, comm.TypeInviteReceived, comm.InviteReceived{
		FromId:   sender.UserId,
		FromName: sender.Name,
	})
}

// handleAcceptInvite pairs the accepter with the inviter under a fresh
// game id and asks both sides for a difficulty.
func (h *Hub) handleAcceptInvite(socketId string, payload comm.AcceptInvite) {
	accepter, ok := h.online[socketId]
	if !ok {
		return
	}

	inviter := h.lookupByAccount(payload.FromUserId)
	if inviter == nil || inviter.UserId == accepter.UserId {
		return
	}

	gameId := uuid.New().String()
	h.pending[gameId] = &PendingGame{
		GameId: gameId,
		Players: [2]Slot{
			{UserId: inviter.UserId, SocketId: inviter.SocketId, Name: inviter.Name},
			{UserId: accepter.UserId, SocketId: accepter.SocketId, Name: accepter.Name},
		},
		CreatedAt: h.now(),
	}

	notice := comm.ShowDifficultySelect{GameId: gameId}
	h.push(inviter.SocketId, comm.TypeShowDifficultySelect, notice)
	h.push(accepter.SocketId, comm.TypeShowDifficultySelect, notice)

	log.Infof("game %s pending: %s vs %s", gameId, inviter.UserId, accepter.UserId)
}

// handleDifficultySelected records one side's choice and mirrors the
// current state of both choices to both sides. The slot is found by
// account id, not socket id, so a reconnected chooser still lands in the
// right slot. When both choices are in, each side gets gameStart with its
// OWN difficulty (the two may differ, deliberately) and the pending game
// is removed.
func (h *Hub) handleDifficultySelected(socketId string, payload comm.DifficultySelected) {
	if !payload.Difficulty.Valid() {
		log.Warnf("socket %s sent invalid difficulty %q", socketId, payload.Difficulty)
		return
	}

	chooser, ok := h.online[socketId]
	if !ok {
		return
	}

	game, ok := h.pending[payload.GameId]
	if !ok {
		return
	}

	slot := -1
	for i := range game.Players {
		if game.Players[i].UserId == chooser.UserId {
			slot = i
			break
		}
	}
	if slot < 0 {
		return
	}

	choice := payload.Difficulty
	game.Players[slot].Choice = &choice

	for i := range game.Players {
		me, opp := game.Players[i], game.Players[1-i]
		h.push(h.slotSocket(me), comm.TypeUpdateDifficultyChoices, comm.UpdateDifficultyChoices{
			MyChoice:       me.Choice,
			OpponentChoice: opp.Choice,
			OpponentName:   opp.Name,
		})
	}

	if game.Players[0].Choice == nil || game.Players[1].Choice == nil {
		return
	}

	h.startMatch(game)
	delete(h.pending, game.GameId)
}

// startMatch creates the active-match record and broadcasts gameStart.
func (h *Hub) startMatch(game *PendingGame) {
	h.matches[game.GameId] = &ActiveMatch{
		GameId: game.GameId,
		Players: [2]matchSlot{
			{UserId: game.Players[0].UserId, Name: game.Players[0].Name},
			{UserId: game.Players[1].UserId, Name: game.Players[1].Name},
		},
		StartedAt: h.now(),
	}

	for i := range game.Players {
		me, opp := game.Players[i], game.Players[1-i]
		h.push(h.slotSocket(me), comm.TypeGameStart, comm.GameStart{
			GameId:       game.GameId,
			OpponentName: opp.Name,
			Difficulty:   *me.Choice,
		})
	}

	log.Infof("game %s started: %s vs %s", game.GameId, game.Players[0].UserId, game.Players[1].UserId)
}

// sweepPending expires negotiations where a side never chose, so the
// pending table cannot grow without bound.
func (h *Hub) sweepPending() {
	cutoff := h.now().Add(-h.pendingTTL)

	for gameId, game := range h.pending {
		if game.CreatedAt.After(cutoff) {
			continue
		}

		delete(h.pending, gameId)
		cancel := comm.MatchCancelled{GameId: gameId, Reason: "expired"}
		for i := range game.Players {
			h.push(h.slotSocket(game.Players[i]), comm.TypeMatchCancelled, cancel)
		}

		log.Infof("game %s expired before both difficulties were chosen", gameId)
	}
}

// cancelGamesFor tears down any pending game or active match the account
// is part of and tells the other side.
func (h *Hub) cancelGamesFor(userId string) {
	for gameId, game := range h.pending {
		for i := range game.Players {
			if game.Players[i].UserId != userId {
				continue
			}
			delete(h.pending, gameId)
			other := game.Players[1-i]
			h.push(h.slotSocket(other), comm.TypeMatchCancelled, comm.MatchCancelled{
				GameId: gameId,
				Reason: "disconnect",
			})
			break
		}
	}

	for gameId, match := range h.matches {
		for i := range match.Players {
			if match.Players[i].UserId != userId {
				continue
			}
			delete(h.matches, gameId)
			if other := h.lookupByAccount(match.Players[1-i].UserId); other != nil {
				h.push(other.SocketId, comm.TypeMatchCancelled, comm.MatchCancelled{
					GameId: gameId,
					Reason: "disconnect",
				})
			}
			break
		}
	}
}
