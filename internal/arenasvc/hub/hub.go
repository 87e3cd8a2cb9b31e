package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/comm"
	log "github.com/sirupsen/logrus"
)

// Sender pushes messages to live sockets. Implemented by the ws package.
type Sender interface {
	Send(socketId string, msg *comm.WSMessage)
	Close(socketId string)
}

// UserDirectory is the slice of the account layer the hub needs.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, id string, name string) error
	SetSocket(ctx context.Context, id string, socketId string) error
	ClearSocket(ctx context.Context, id string) error
}

// FriendGraph is the persisted friend-edge layer.
type FriendGraph interface {
	ListFriends(ctx context.Context, userId string) ([]models.FriendSummary, error)
	AddFriend(ctx context.Context, requesterId, recipientId string) (*models.FriendSummary, error)
}

// ScoreKeeper records outcomes and serves leaderboards.
type ScoreKeeper interface {
	RecordScore(ctx context.Context, score models.Score) error
	AddWin(ctx context.Context, userId string) error
	Leaderboards(ctx context.Context) ([]models.Score, []models.WinCount, error)
}

const (
	eventConnect    = "connect"
	eventDisconnect = "disconnect"
	eventMessage    = "message"
)

type event struct {
	kind     string
	socketId string
	account  *models.User // connect only, nil for unauthenticated
	msg      *comm.WSMessage
}

// Hub owns every piece of mutable realtime state: the presence registry,
// the pending-game table and the active-match table. All of it is touched
// only from the Run goroutine, so none of it is locked. Handlers must not
// hand in-memory state across a blocking call: a pending game is read,
// mutated and re-checked within a single handleEvent invocation.
type Hub struct {
	sender  Sender
	users   UserDirectory
	friends FriendGraph
	scores  ScoreKeeper

	events chan event

	online  map[string]*models.OnlineUser // socketId -> record
	pending map[string]*PendingGame       // gameId -> negotiation state
	matches map[string]*ActiveMatch       // gameId -> live match

	pendingTTL    time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

func NewHub(sender Sender, users UserDirectory, friends FriendGraph, scores ScoreKeeper, pendingTTL time.Duration) *Hub {
	return &Hub{
		sender:        sender,
		users:         users,
		friends:       friends,
		scores:        scores,
		events:        make(chan event, 256),
		online:        make(map[string]*models.OnlineUser),
		pending:       make(map[string]*PendingGame),
		matches:       make(map[string]*ActiveMatch),
		pendingTTL:    pendingTTL,
		sweepInterval: time.Minute,
		now:           time.Now,
	}
}

// Run processes events until ctx is cancelled. It is the only goroutine
// that touches hub state.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.events:
			h.handleEvent(ev)
		case <-ticker.C:
			h.sweepPending()
		}
	}
}

// Connect is called once per accepted socket, after the identity bridge
// resolved the session cookie. account is nil for unauthenticated
// connections, which stay invisible until an explicit guestLogin.
func (h *Hub) Connect(socketId string, account *models.User) {
	h.events <- event{kind: eventConnect, socketId: socketId, account: account}
}

func (h *Hub) Disconnect(socketId string) {
	h.events <- event{kind: eventDisconnect, socketId: socketId}
}

// Dispatch feeds one inbound client message into the event loop.
func (h *Hub) Dispatch(socketId string, msg *comm.WSMessage) {
	h.events <- event{kind: eventMessage, socketId: socketId, msg: msg}
}

func (h *Hub) handleEvent(ev event) {
	switch ev.kind {
	case eventConnect:
		h.handleConnect(ev.socketId, ev.account)
	case eventDisconnect:
		h.handleDisconnect(ev.socketId)
	case eventMessage:
		h.handleMessage(ev.socketId, ev.msg)
	}
}

// handleMessage routes one client message. Absent entities and malformed
// payloads are logged and dropped; the client never gets a negative ack.
func (h *Hub) handleMessage(socketId string, msg *comm.WSMessage) {
	switch msg.Type {
	case comm.TypeGuestLogin:
		payload := comm.GuestLogin{}
		if !h.decode(socketId, msg, &payload) {
			return
		}
		h.handleGuestLogin(socketId, payload)
	case comm.TypeSetUsername:
		payload := comm.SetUsername{}
		if !h.decode(socketId, msg, &payload) {
			return
		}
		h.handleSetUsername(socketId, payload)
	case comm.TypeRequestInitialData:
		h.handleRequestInitialData(socketId)
	case comm.TypeAddFriend:
		payload := comm.AddFriend{}
		if !h.decode(socketId, msg, &payload) {
			return
		}
		h.handleAddFriend(socketId, payload)
	case comm.TypeSendInvite:
		payload := comm.SendInvite{}
		if !h.decode(socketId, msg, &payload) {
			return
		}
		h.handleSendInvite(socketId, payload)
	case comm.TypeAcceptInvite:
		payload := comm.AcceptInvite{}
		if !h.decode(socketId, msg, &payload) {
			return
		}
		h.handleAcceptInvite(socketId, payload)
	case comm.TypeDifficultySelected:
		payload := comm.DifficultySelected{}
		if !h.decode(socketId, msg, &payload) {
			return
		}
		h.handleDifficultySelected(socketId, payload)
	case comm.TypeScoreUpdate:
		payload := comm.ScoreUpdate{}
		if !h.decode(socketId, msg, &payload) {
			return
		}
		h.handleScoreUpdate(socketId, payload)
	case comm.TypeGameOver:
		payload := comm.GameOver{}
		if !h.decode(socketId, msg, &payload) {
			return
		}
		h.handleGameOver(socketId, payload)
	case comm.TypeGetLeaderboards:
		h.handleGetLeaderboards(socketId)
	default:
		log.Warnf("unknown event received: %s", msg.Type)
	}
}

func (h *Hub) decode(socketId string, msg *comm.WSMessage, out interface{}) bool {
	if err := json.Unmarshal(msg.Data, out); err != nil {
		log.Errorf("malformed %s payload from socket %s: %v", msg.Type, socketId, err)
		return false
	}
	return true
}

// push marshals a payload and sends it to one socket.
func (h *Hub) push(socketId string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("unable to marshal %s payload: %v", msgType, err)
		return
	}

	h.sender.Send(socketId, &comm.WSMessage{
		Type: msgType,
		Data: data,
	})
}

// storeCtx bounds every storage call made from the event loop.
func storeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
