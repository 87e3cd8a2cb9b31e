package models

import (
	"time"
)

const (
	ModeSingle = "single"
	ModeMulti  = "multi"
)

// Score represents one single-player round in the scores table.
type Score struct {
	ID        int64     `json:"id"`
	UserId    string    `json:"user_id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"createdAt"`
}

// WinCount is one row of the multiplayer leaderboard.
type WinCount struct {
	UserId string `json:"user_id"`
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
}
