package hub

import (
	"testing"
	"time"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/comm"
	"github.com/stretchr/testify/require"
)

func TestSendInviteToOfflineAccountNotifiesNobody(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.sender.reset()

	env.hub.handleSendInvite("s1", comm.SendInvite{ToUserId: "u2"})

	require.Empty(t, env.sender.sent)
}

func TestSendInviteReachesTargetOnly(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.connect(t, "s2", "u2", "Grace")
	env.connect(t, "s3", "u3", "Edsger")
	env.sender.reset()

	env.hub.handleSendInvite("s1", comm.SendInvite{ToUserId: "u2"})

	require.Len(t, env.sender.sent, 1)
	require.Equal(t, "s2", env.sender.sent[0].SocketId)

	var invite comm.InviteReceived
	decodePayload(t, env.sender.sent[0].Msg, &invite)
	require.Equal(t, "u1", invite.FromId)
	require.Equal(t, "Ada", invite.FromName)
}

func TestAcceptInviteCreatesPendingGame(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.connect(t, "s2", "u2", "Grace")
	env.sender.reset()

	env.hub.handleAcceptInvite("s2", comm.AcceptInvite{FromUserId: "u1"})

	require.Len(t, env.hub.pending, 1)

	selects := env.sender.ofType(comm.TypeShowDifficultySelect)
	require.Len(t, selects, 2)

	var first, second comm.ShowDifficultySelect
	decodePayload(t, selects[0].Msg, &first)
	decodePayload(t, selects[1].Msg, &second)
	require.Equal(t, first.GameId, second.GameId)

	game := env.hub.pending[first.GameId]
	require.NotNil(t, game)
	require.Nil(t, game.Players[0].Choice)
	require.Nil(t, game.Players[1].Choice)
	require.Equal(t, "u1", game.Players[0].UserId)
	require.Equal(t, "u2", game.Players[1].UserId)
}

func TestAcceptInviteFromSelfIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.sender.reset()

	env.hub.handleAcceptInvite("s1", comm.AcceptInvite{FromUserId: "u1"})

	require.Empty(t, env.hub.pending)
	require.Empty(t, env.sender.sent)
}

func TestAcceptInviteWithOfflineInviterIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s2", "u2", "Grace")
	env.sender.reset()

	env.hub.handleAcceptInvite("s2", comm.AcceptInvite{FromUserId: "u1"})

	require.Empty(t, env.hub.pending)
	require.Empty(t, env.sender.sent)
}

func TestChooseDifficultyForUnknownGameIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.sender.reset()

	env.hub.handleDifficultySelected("s1", comm.DifficultySelected{
		GameId:     "no-such-game",
		Difficulty: models.DifficultyEasy,
	})

	require.Empty(t, env.sender.sent)
	require.Empty(t, env.hub.pending)
	require.Empty(t, env.hub.matches)
}

func TestChooseDifficultyRejectsValuesOutsideEnum(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.connect(t, "s2", "u2", "Grace")
	gameId := env.pairUp(t, "s1", "u1", "s2")
	env.sender.reset()

	env.hub.handleDifficultySelected("s1", comm.DifficultySelected{
		GameId:     gameId,
		Difficulty: "nightmare",
	})

	require.Empty(t, env.sender.sent)
	require.Nil(t, env.hub.pending[gameId].Players[0].Choice)
}

// Full scenario: invite, accept, staggered choices, per-side gameStart.
func TestMatchmakingFullFlow(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.connect(t, "s2", "u2", "Grace")
	gameId := env.pairUp(t, "s1", "u1", "s2")
	env.sender.reset()

	// inviter picks easy: both sides see the half-chosen state, mirrored
	env.hub.handleDifficultySelected("s1", comm.DifficultySelected{
		GameId:     gameId,
		Difficulty: models.DifficultyEasy,
	})

	updates := env.sender.ofType(comm.TypeUpdateDifficultyChoices)
	require.Len(t, updates, 2)
	for _, u := range updates {
		var state comm.UpdateDifficultyChoices
		decodePayload(t, u.Msg, &state)
		switch u.SocketId {
		case "s1":
			require.NotNil(t, state.MyChoice)
			require.Equal(t, models.DifficultyEasy, *state.MyChoice)
			require.Nil(t, state.OpponentChoice)
			require.Equal(t, "Grace", state.OpponentName)
		case "s2":
			require.Nil(t, state.MyChoice)
			require.NotNil(t, state.OpponentChoice)
			require.Equal(t, models.DifficultyEasy, *state.OpponentChoice)
			require.Equal(t, "Ada", state.OpponentName)
		default:
			t.Fatalf("unexpected recipient %s", u.SocketId)
		}
	}

	require.Empty(t, env.sender.ofType(comm.TypeGameStart))
	env.sender.reset()

	// accepter picks hard: both get gameStart with their OWN difficulty
	env.hub.handleDifficultySelected("s2", comm.DifficultySelected{
		GameId:     gameId,
		Difficulty: models.DifficultyHard,
	})

	starts := env.sender.ofType(comm.TypeGameStart)
	require.Len(t, starts, 2)
	for _, s := range starts {
		var start comm.GameStart
		decodePayload(t, s.Msg, &start)
		require.Equal(t, gameId, start.GameId)
		switch s.SocketId {
		case "s1":
			require.Equal(t, models.DifficultyEasy, start.Difficulty)
			require.Equal(t, "Grace", start.OpponentName)
		case "s2":
			require.Equal(t, models.DifficultyHard, start.Difficulty)
			require.Equal(t, "Ada", start.OpponentName)
		default:
			t.Fatalf("unexpected recipient %s", s.SocketId)
		}
	}

	// pending game is gone, active match exists
	require.NotContains(t, env.hub.pending, gameId)
	require.Contains(t, env.hub.matches, gameId)

	// a third submission for the same game behaves like an unknown game
	env.sender.reset()
	env.hub.handleDifficultySelected("s1", comm.DifficultySelected{
		GameId:     gameId,
		Difficulty: models.DifficultyMedium,
	})
	require.Empty(t, env.sender.sent)
}

func TestChooseDifficultyResolvesSlotByAccountAfterReconnect(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.connect(t, "s2", "u2", "Grace")
	gameId := env.pairUp(t, "s1", "u1", "s2")

	// inviter reconnects mid-negotiation on a fresh socket
	env.hub.handleConnect("s9", env.dir.users["u1"])
	env.sender.reset()

	env.hub.handleDifficultySelected("s9", comm.DifficultySelected{
		GameId:     gameId,
		Difficulty: models.DifficultyMedium,
	})

	game := env.hub.pending[gameId]
	require.NotNil(t, game.Players[0].Choice)
	require.Equal(t, models.DifficultyMedium, *game.Players[0].Choice)

	// the mirrored update lands on the new socket, not the stale one
	updates := env.sender.ofType(comm.TypeUpdateDifficultyChoices)
	require.Len(t, updates, 2)
	recipients := []string{updates[0].SocketId, updates[1].SocketId}
	require.Contains(t, recipients, "s9")
	require.NotContains(t, recipients, "s1")
}

func TestSweepExpiresStalePendingGames(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.connect(t, "s2", "u2", "Grace")
	gameId := env.pairUp(t, "s1", "u1", "s2")
	env.sender.reset()

	// nothing expires before the TTL
	env.hub.sweepPending()
	require.Contains(t, env.hub.pending, gameId)

	env.hub.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	env.hub.sweepPending()

	require.NotContains(t, env.hub.pending, gameId)

	cancels := env.sender.ofType(comm.TypeMatchCancelled)
	require.Len(t, cancels, 2)

	var cancel comm.MatchCancelled
	decodePayload(t, cancels[0].Msg, &cancel)
	require.Equal(t, gameId, cancel.GameId)
	require.Equal(t, "expired", cancel.Reason)
}

func TestDisconnectCancelsPendingGameAndNotifiesPeer(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.connect(t, "s2", "u2", "Grace")
	gameId := env.pairUp(t, "s1", "u1", "s2")
	env.sender.reset()

	env.hub.handleDisconnect("s1")

	require.NotContains(t, env.hub.pending, gameId)

	cancels := env.sender.ofType(comm.TypeMatchCancelled)
	require.Len(t, cancels, 1)
	require.Equal(t, "s2", cancels[0].SocketId)

	var cancel comm.MatchCancelled
	decodePayload(t, cancels[0].Msg, &cancel)
	require.Equal(t, "disconnect", cancel.Reason)
}
