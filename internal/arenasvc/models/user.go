package models

import (
	"time"
)

// User represents the users table in the database.
type User struct {
	UserId    string    `json:"user_id"`
	GoogleSub string    `json:"-"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	SocketId  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
