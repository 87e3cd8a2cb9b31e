package hub

import (
	"testing"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/comm"
	"github.com/stretchr/testify/require"
)

func TestLookupByConnectionFollowsRegisterUnregister(t *testing.T) {
	env := newTestEnv(t)

	require.Nil(t, env.hub.lookupByConnection("s1"))

	env.connect(t, "s1", "u1", "Ada")
	got := env.hub.lookupByConnection("s1")
	require.NotNil(t, got)
	require.Equal(t, "u1", got.UserId)

	// re-register on the same socket overwrites in place
	env.hub.register(&models.OnlineUser{SocketId: "s1", UserId: "u1", Name: "Ada L."})
	require.Equal(t, "Ada L.", env.hub.lookupByConnection("s1").Name)

	env.hub.handleDisconnect("s1")
	require.Nil(t, env.hub.lookupByConnection("s1"))
}

func TestConnectPushesLoginSuccessAndPersistsSocket(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")

	logins := env.sender.ofType(comm.TypeLoginSuccess)
	require.Len(t, logins, 1)

	var summary comm.AccountSummary
	decodePayload(t, logins[0].Msg, &summary)
	require.Equal(t, "u1", summary.UserId)
	require.False(t, summary.Guest)

	require.Equal(t, "s1", env.dir.sockets["u1"])
}

func TestConnectWithoutSessionStaysUnregistered(t *testing.T) {
	env := newTestEnv(t)

	env.hub.handleConnect("s1", nil)

	require.Nil(t, env.hub.lookupByConnection("s1"))
	require.Empty(t, env.sender.sent)
}

func TestRegisterEvictsDuplicateAccount(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.sender.reset()

	// same account reconnects on a new socket
	env.hub.handleConnect("s2", env.dir.users["u1"])

	require.Nil(t, env.hub.lookupByConnection("s1"))
	require.NotNil(t, env.hub.lookupByConnection("s2"))
	require.Equal(t, []string{"s1"}, env.sender.closed)

	replaced := env.sender.ofType(comm.TypeSessionReplaced)
	require.Len(t, replaced, 1)
	require.Equal(t, "s1", replaced[0].SocketId)

	// exactly one online record for the account
	require.Equal(t, "s2", env.hub.lookupByAccount("u1").SocketId)
	require.Equal(t, "s2", env.dir.sockets["u1"])
}

func TestGuestLoginCreatesEphemeralIdentity(t *testing.T) {
	env := newTestEnv(t)

	env.hub.handleConnect("s1", nil)
	env.hub.handleGuestLogin("s1", comm.GuestLogin{Name: "Birdie"})

	guest := env.hub.lookupByConnection("s1")
	require.NotNil(t, guest)
	require.True(t, guest.Guest)
	require.Equal(t, "Birdie", guest.Name)
	require.Contains(t, guest.UserId, "guest:")

	// nothing persisted for guests
	require.Empty(t, env.dir.sockets)

	logins := env.sender.ofType(comm.TypeLoginSuccess)
	require.Len(t, logins, 1)
}

func TestSetUsernamePersistsOnlyForAccounts(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.hub.handleGuestLogin("s2", comm.GuestLogin{Name: "Birdie"})

	env.hub.handleSetUsername("s1", comm.SetUsername{Name: "Countess"})
	env.hub.handleSetUsername("s2", comm.SetUsername{Name: "Early"})

	require.Equal(t, "Countess", env.hub.lookupByConnection("s1").Name)
	require.Equal(t, "Countess", env.dir.renames["u1"])

	require.Equal(t, "Early", env.hub.lookupByConnection("s2").Name)
	require.Len(t, env.dir.renames, 1)
}

func TestSetUsernameUnknownConnectionIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	env.hub.handleSetUsername("nope", comm.SetUsername{Name: "Ghost"})

	require.Empty(t, env.sender.sent)
	require.Empty(t, env.dir.renames)
}

func TestDisconnectClearsSocketMarker(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	require.Equal(t, "s1", env.dir.sockets["u1"])

	env.hub.handleDisconnect("s1")

	_, stillMarked := env.dir.sockets["u1"]
	require.False(t, stillMarked)
}
