package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/comm"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	SocketId string
	Msg      *comm.WSMessage
}

type fakeSender struct {
	sent   []sentMessage
	closed []string
}

func (f *fakeSender) Send(socketId string, msg *comm.WSMessage) {
	f.sent = append(f.sent, sentMessage{SocketId: socketId, Msg: msg})
}

func (f *fakeSender) Close(socketId string) {
	f.closed = append(f.closed, socketId)
}

// ofType returns every push of one message type, keyed by socket id.
func (f *fakeSender) ofType(msgType string) []sentMessage {
	out := []sentMessage{}
	for _, m := range f.sent {
		if m.Msg.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) reset() {
	f.sent = nil
	f.closed = nil
}

type fakeDirectory struct {
	users   map[string]*models.User
	sockets map[string]string
	renames map[string]string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:   map[string]*models.User{},
		sockets: map[string]string{},
		renames: map[string]string{},
	}
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeDirectory) UpdateName(_ context.Context, id string, name string) error {
	f.renames[id] = name
	return nil
}

func (f *fakeDirectory) SetSocket(_ context.Context, id string, socketId string) error {
	f.sockets[id] = socketId
	return nil
}

func (f *fakeDirectory) ClearSocket(_ context.Context, id string) error {
	delete(f.sockets, id)
	return nil
}

type fakeGraph struct {
	accounts map[string]string // userId -> name, recipients that exist
	edges    map[[2]string]bool
	byUser   map[string][]models.FriendSummary
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		accounts: map[string]string{},
		edges:    map[[2]string]bool{},
		byUser:   map[string][]models.FriendSummary{},
	}
}

func (f *fakeGraph) ListFriends(_ context.Context, userId string) ([]models.FriendSummary, error) {
	friends := f.byUser[userId]
	if friends == nil {
		friends = []models.FriendSummary{}
	}
	return friends, nil
}

func (f *fakeGraph) AddFriend(_ context.Context, requesterId, recipientId string) (*models.FriendSummary, error) {
	name, exists := f.accounts[recipientId]
	if !exists {
		return nil, nil
	}

	pair := [2]string{requesterId, recipientId}
	if requesterId > recipientId {
		pair = [2]string{recipientId, requesterId}
	}
	if f.edges[pair] {
		return nil, nil // deduplicated
	}
	f.edges[pair] = true

	f.byUser[requesterId] = append(f.byUser[requesterId], models.FriendSummary{UserId: recipientId, Name: name})
	f.byUser[recipientId] = append(f.byUser[recipientId], models.FriendSummary{UserId: requesterId, Name: f.accounts[requesterId]})

	return &models.FriendSummary{UserId: recipientId, Name: name}, nil
}

type fakeScores struct {
	scores []models.Score
	wins   map[string]int
}

func newFakeScores() *fakeScores {
	return &fakeScores{wins: map[string]int{}}
}

func (f *fakeScores) RecordScore(_ context.Context, score models.Score) error {
	f.scores = append(f.scores, score)
	return nil
}

func (f *fakeScores) AddWin(_ context.Context, userId string) error {
	f.wins[userId]++
	return nil
}

func (f *fakeScores) Leaderboards(_ context.Context) ([]models.Score, []models.WinCount, error) {
	scores := []models.Score{}
	scores = append(scores, f.scores...)

	wins := []models.WinCount{}
	for userId, n := range f.wins {
		wins = append(wins, models.WinCount{UserId: userId, Wins: n})
	}
	return scores, wins, nil
}

type testEnv struct {
	hub    *Hub
	sender *fakeSender
	dir    *fakeDirectory
	graph  *fakeGraph
	scores *fakeScores
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sender := &fakeSender{}
	dir := newFakeDirectory()
	graph := newFakeGraph()
	scores := newFakeScores()

	return &testEnv{
		hub:    NewHub(sender, dir, graph, scores, 5*time.Minute),
		sender: sender,
		dir:    dir,
		graph:  graph,
		scores: scores,
	}
}

// connect registers a non-guest account as online on the given socket.
func (e *testEnv) connect(t *testing.T, socketId, userId, name string) {
	t.Helper()
	e.dir.users[userId] = &models.User{UserId: userId, Name: name}
	e.graph.accounts[userId] = name
	e.hub.handleConnect(socketId, e.dir.users[userId])
}

func decodePayload(t *testing.T, msg *comm.WSMessage, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(msg.Data, out))
}

// pairUp drives two online users through invite + accept and returns the
// pending game id.
func (e *testEnv) pairUp(t *testing.T, inviterSocket, inviterId, accepterSocket string) string {
	t.Helper()

	e.hub.handleSendInvite(inviterSocket, comm.SendInvite{ToUserId: e.hub.online[accepterSocket].UserId})
	e.hub.handleAcceptInvite(accepterSocket, comm.AcceptInvite{FromUserId: inviterId})

	selects := e.sender.ofType(comm.TypeShowDifficultySelect)
	require.Len(t, selects, 2)

	var notice comm.ShowDifficultySelect
	decodePayload(t, selects[0].Msg, &notice)
	return notice.GameId
}

func TestDispatchUnknownTypeIsDropped(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.sender.reset()

	env.hub.handleMessage("s1", &comm.WSMessage{Type: "warpDrive", Data: json.RawMessage(`{}`)})

	require.Empty(t, env.sender.sent)
	require.Empty(t, env.hub.pending)
}

func TestMalformedPayloadIsDropped(t *testing.T) {
	env := newTestEnv(t)
	env.connect(t, "s1", "u1", "Ada")
	env.sender.reset()

	env.hub.handleMessage("s1", &comm.WSMessage{Type: comm.TypeSendInvite, Data: json.RawMessage(`"not an object"`)})

	require.Empty(t, env.sender.sent)
}
