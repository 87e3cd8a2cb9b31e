package hub

import (
	"time"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/comm"
	log "github.com/sirupsen/logrus"
)

type matchSlot struct {
	UserId string
	Name   string
	Done   bool
}

// ActiveMatch is the lightweight record kept while two players exchange
// live scores, created at gameStart and removed once both sides have
// reported their outcome (or one disconnects).
type ActiveMatch struct {
	GameId    string
	Players   [2]matchSlot
	StartedAt time.Time
}

// findMatchFor locates the active match containing the account.
func (h *Hub) findMatchFor(userId string) (*ActiveMatch, int) {
	for _, match := range h.matches {
		for i := range match.Players {
			if match.Players[i].UserId == userId {
				return match, i
			}
		}
	}
	return nil, 0
}

// handleScoreUpdate forwards an in-progress score to the opponent's
// current connection only. Reporters outside any active match are ignored.
func (h *Hub) handleScoreUpdate(socketId string, payload comm.ScoreUpdate) {
	reporter, ok := h.online[socketId]
	if !ok {
		return
	}

	match, idx := h.findMatchFor(reporter.UserId)
	if match == nil {
		return
	}

	opponent := h.lookupByAccount(match.Players[1-idx].UserId)
	if opponent == nil {
		return
	}

	h.push(opponent.SocketId, comm.TypeOpponentScoreUpdate, comm.OpponentScoreUpdate{
		Score: payload.Score,
	})
}

// handleGameOver persists the outcome a client reports for itself. Single
// player rounds append a score record; multiplayer wins bump the win
// counter. Each side reports independently; the server does not referee
// (observed behavior, kept). Guests are not leaderboard-eligible and skip
// persistence entirely.
func (h *Hub) handleGameOver(socketId string, payload comm.GameOver) {
	reporter, ok := h.online[socketId]
	if !ok {
		return
	}

	switch payload.Mode {
	case models.ModeSingle:
		if !reporter.Guest {
			ctx, cancel := storeCtx()
			defer cancel()
			err := h.scores.RecordScore(ctx, models.Score{
				UserId: reporter.UserId,
				Name:   reporter.Name,
				Score:  payload.Score,
				Mode:   models.ModeSingle,
			})
			if err != nil {
				log.Errorf("failed to record score for %s: %v", reporter.UserId, err)
			}
		}
	case models.ModeMulti:
		if payload.Won && !reporter.Guest {
			ctx, cancel := storeCtx()
			defer cancel()
			if err := h.scores.AddWin(ctx, reporter.UserId); err != nil {
				log.Errorf("failed to add win for %s: %v", reporter.UserId, err)
			}
		}

		match, idx := h.findMatchFor(reporter.UserId)
		if match != nil {
			match.Players[idx].Done = true
			if match.Players[0].Done && match.Players[1].Done {
				delete(h.matches, match.GameId)
				log.Infof("game %s finished", match.GameId)
			}
		}
	default:
		log.Warnf("socket %s reported unknown game mode %q", socketId, payload.Mode)
	}
}

// handleGetLeaderboards serves the fixed-size leaderboards to any
// connection on demand; no online record is required to look.
func (h *Hub) handleGetLeaderboards(socketId string) {
	ctx, cancel := storeCtx()
	defer cancel()

	scores, wins, err := h.scores.Leaderboards(ctx)
	if err != nil {
		log.Errorf("failed to load leaderboards: %v", err)
		return
	}

	h.push(socketId, comm.TypeLeaderboards, comm.Leaderboards{
		SinglePlayer: scores,
		MultiPlayer:  wins,
	})
}
