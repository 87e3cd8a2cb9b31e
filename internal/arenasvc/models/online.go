package models

// OnlineUser is the ephemeral record for one live websocket connection.
// SocketId is the map key in the presence registry; UserId is stable for
// registered accounts and synthetic ("guest:<uuid>") for guests.
type OnlineUser struct {
	SocketId string `json:"socket_id"`
	UserId   string `json:"user_id"`
	Name     string `json:"name"`
	Guest    bool   `json:"guest"`
}
