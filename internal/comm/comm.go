package comm

import (
	"encoding/json"

	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
)

// WSMessage is the envelope for every realtime message, both directions.
type WSMessage struct {
	Type string          `json:"type"` // e.g. "sendInvite", "gameStart"
	Data json.RawMessage `json:"data,omitempty"`
}

// client -> server message types
const (
	TypeGuestLogin         = "guestLogin"
	TypeSetUsername        = "setUsername"
	TypeRequestInitialData = "requestInitialData"
	TypeAddFriend          = "addFriend"
	TypeSendInvite         = "sendInvite"
	TypeAcceptInvite       = "acceptInvite"
	TypeDifficultySelected = "difficultySelected"
	TypeScoreUpdate        = "scoreUpdate"
	TypeGameOver           = "gameOver"
	TypeGetLeaderboards    = "getLeaderboards"
)

// server -> client message types
const (
	TypeLoginSuccess            = "loginSuccess"
	TypeFriendsList             = "friendsList"
	TypeFriendAdded             = "friendAdded"
	TypeInviteReceived          = "inviteReceived"
	TypeShowDifficultySelect    = "showDifficultySelect"
	TypeUpdateDifficultyChoices = "updateDifficultyChoices"
	TypeGameStart               = "gameStart"
	TypeOpponentScoreUpdate     = "opponentScoreUpdate"
	TypeLeaderboards            = "leaderboards"
	TypeMatchCancelled          = "matchCancelled"
	TypeSessionReplaced         = "sessionReplaced"
)

type GuestLogin struct {
	Name string `json:"name"`
}

type SetUsername struct {
	Name string `json:"name"`
}

type AddFriend struct {
	UserId string `json:"user_id"`
}

type SendInvite struct {
	ToUserId string `json:"toUserId"`
}

type AcceptInvite struct {
	FromUserId string `json:"fromUserId"`
}

type DifficultySelected struct {
	GameId     string            `json:"gameId"`
	Difficulty models.Difficulty `json:"difficulty"`
}

type ScoreUpdate struct {
	Score int `json:"score"`
}

type GameOver struct {
	Score int    `json:"score"`
	Mode  string `json:"mode"` // "single" or "multi"
	Won   bool   `json:"won"`
}

// AccountSummary is pushed on loginSuccess and returned by the auth endpoint.
type AccountSummary struct {
	UserId string `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Guest  bool   `json:"guest"`
}

type FriendsList struct {
	Friends         []models.FriendSummary `json:"friends"`
	OnlineFriendIds []string               `json:"onlineFriendIds"`
}

type InviteReceived struct {
	FromId   string `json:"fromId"`
	FromName string `json:"fromName"`
}

type ShowDifficultySelect struct {
	GameId string `json:"gameId"`
}

// UpdateDifficultyChoices is per-recipient: MyChoice is the recipient's own
// selection, which shows up as OpponentChoice in the mirrored push.
type UpdateDifficultyChoices struct {
	MyChoice       *models.Difficulty `json:"myChoice"`
	OpponentChoice *models.Difficulty `json:"opponentChoice"`
	OpponentName   string             `json:"opponentName"`
}

// GameStart carries the recipient's own chosen difficulty; the two payloads
// for the same gameId may carry different difficulties.
type GameStart struct {
	GameId       string            `json:"gameId"`
	OpponentName string            `json:"opponentName"`
	Difficulty   models.Difficulty `json:"difficulty"`
}

type OpponentScoreUpdate struct {
	Score int `json:"score"`
}

type Leaderboards struct {
	SinglePlayer []models.Score    `json:"singlePlayer"`
	MultiPlayer  []models.WinCount `json:"multiPlayer"`
}

type MatchCancelled struct {
	GameId string `json:"gameId"`
	Reason string `json:"reason"` // "disconnect" or "expired"
}
