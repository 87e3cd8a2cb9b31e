package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/flappyduel/flappy-services/internal/arenasvc/auth"
	"github.com/flappyduel/flappy-services/internal/arenasvc/hub"
	"github.com/flappyduel/flappy-services/internal/arenasvc/models"
	"github.com/flappyduel/flappy-services/internal/arenasvc/ws"
	"github.com/flappyduel/flappy-services/internal/comm"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// AccountResolver is the slice of the user service the handlers need.
type AccountResolver interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetOrCreateBySub(ctx context.Context, sub, name, avatar string) (*models.User, error)
}

type Handler struct {
	upgrader websocket.Upgrader
	ws       *ws.Ws
	hub      *hub.Hub
	users    AccountResolver
	session  *auth.Session
	google   auth.GoogleVerifier
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func NewHandler(s *ws.Ws, h *hub.Hub, users AccountResolver, session *auth.Session, google auth.GoogleVerifier) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ws:      s,
		hub:     h,
		users:   users,
		session: session,
		google:  google,
	}
}

// HandleWebSocket upgrades the connection and bridges the cookie session
// to the realtime identity: a valid session resolves to an account, any
// failure leaves the connection unauthenticated.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	var account *models.User
	if userId := auth.UserIdFromContext(r.Context()); userId != "" {
		resolved, err := h.users.GetByID(r.Context(), userId)
		if err != nil {
			log.Errorf("failed to resolve session account %s: %v", userId, err)
		}
		account = resolved // nil when the account no longer exists
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	socketId := uuid.New().String()
	h.ws.StoreConnection(socketId, conn)
	h.hub.Connect(socketId, account)

	log.Infof("New WebSocket connection established: %s", socketId)

	go h.handleConnection(conn, socketId)
}

func (h *Handler) handleConnection(conn *websocket.Conn, socketId string) {
	defer func() {
		log.Infof("Closing WebSocket connection: %s", socketId)
		conn.Close()
		h.ws.RemoveConnection(socketId)
		h.hub.Disconnect(socketId)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", socketId, err)
			} else {
				log.Infof("WebSocket connection closed normally for socket: %s", socketId)
			}
			break
		}

		message := &comm.WSMessage{}
		if err := json.Unmarshal(raw, &message); err != nil {
			log.Errorf("Failed to unmarshal message from socket %s: %v", socketId, err)
			continue
		}

		log.Debugf("Received message from socket %s: type=%s", socketId, message.Type)

		h.hub.Dispatch(socketId, message)
	}
}

// GoogleLoginHandler validates a Google ID token the browser obtained,
// upserts the account and mints the session cookie the websocket upgrade
// later reads.
func (h *Handler) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IdToken string `json:"id_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.IdToken == "" {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "id_token required"})
		return
	}

	profile, err := h.google.Verify(r.Context(), payload.IdToken)
	if err != nil {
		log.Errorf("google token verification failed: %v", err)
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "invalid token"})
		return
	}

	user, err := h.users.GetOrCreateBySub(r.Context(), profile.Sub, profile.Name, profile.Picture)
	if err != nil {
		log.Errorf("failed to resolve account for sub %s: %v", profile.Sub, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "account lookup failed"})
		return
	}

	if err := h.session.IssueCookie(w, user.UserId); err != nil {
		log.Errorf("failed to issue session cookie: %v", err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "session failed"})
		return
	}

	h.CreateResponse(w, Response{
		Message: "login ok",
		Code:    http.StatusOK,
		Data: comm.AccountSummary{
			UserId: user.UserId,
			Name:   user.Name,
			Avatar: user.Avatar,
		},
	})
}

// MeHandler returns the authenticated account as JSON; the Authenticator
// middleware already turned missing sessions into 401s.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userId := auth.UserIdFromContext(r.Context())

	user, err := h.users.GetByID(r.Context(), userId)
	if err != nil {
		log.Errorf("failed to load account %s: %v", userId, err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "account lookup failed"})
		return
	}
	if user == nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "no such account"})
		return
	}

	h.CreateResponse(w, Response{
		Message: "ok",
		Code:    http.StatusOK,
		Data: comm.AccountSummary{
			UserId: user.UserId,
			Name:   user.Name,
			Avatar: user.Avatar,
		},
	})
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.session.ClearCookie(w)
	h.CreateResponse(w, Response{Message: "logged out", Code: http.StatusOK})
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "arena service is running at port " + os.Getenv("SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode health response: %v", err)
	}
}
