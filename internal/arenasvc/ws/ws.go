package ws

import (
	"sync"

	"github.com/flappyduel/flappy-services/internal/comm"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Ws keeps track of live socket connections by socketId. Connections are
// stored from the accept path and read from the hub goroutine, so a
// sync.Map does the bookkeeping.
type Ws struct {
	connMap sync.Map
}

func NewWs() *Ws {
	return &Ws{}
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

func (s *Ws) RemoveConnection(socketId string) {
	s.connMap.Delete(socketId)
}

// Send pushes one message to the socket, dropping it with a log line when
// the connection is gone or the write fails.
func (s *Ws) Send(socketId string, msg *comm.WSMessage) {
	conn, ok := s.GetConnection(socketId)
	if !ok {
		log.Debugf("send skipped, no connection for socket %s", socketId)
		return
	}

	if err := conn.WriteJSON(msg); err != nil {
		log.Errorf("failed to write to socket %s: %v", socketId, err)
	}
}

// Close tears the socket down; the read loop notices and runs disconnect
// cleanup.
func (s *Ws) Close(socketId string) {
	conn, ok := s.GetConnection(socketId)
	if !ok {
		return
	}
	if err := conn.Close(); err != nil {
		log.Debugf("close of socket %s: %v", socketId, err)
	}
}
