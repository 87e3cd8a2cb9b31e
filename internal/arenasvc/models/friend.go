package models

import (
	"time"
)

// Friend represents one edge in the friends table. Friendship is stored
// directionally but queried symmetrically: either side sees the other.
type Friend struct {
	ID          int64     `json:"id"`
	RequesterId string    `json:"requester_id"`
	RecipientId string    `json:"recipient_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FriendSummary is the public shape pushed to clients.
type FriendSummary struct {
	UserId string `json:"user_id"`
	Name   string `json:"name"`
}
