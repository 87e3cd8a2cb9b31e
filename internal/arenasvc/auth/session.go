package auth

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/jwtauth"
)

const sessionCookie = "jwt" // jwtauth.TokenFromCookie reads this name

// Session mints and verifies the cookie-backed session carried between the
// HTTP login step and the realtime connection.
type Session struct {
	tokenAuth *jwtauth.JWTAuth
	ttl       time.Duration
}

func NewSession() *Session {
	jwtKey := os.Getenv("JWT_SECRET_KEY")
	return &Session{
		tokenAuth: jwtauth.New("HS256", []byte(jwtKey), nil),
		ttl:       7 * 24 * time.Hour,
	}
}

func (s *Session) TokenAuth() *jwtauth.JWTAuth {
	return s.tokenAuth
}

// IssueCookie mints a session token for the account and sets it on the
// response.
func (s *Session) IssueCookie(w http.ResponseWriter, userId string) error {
	_, tokenString, err := s.tokenAuth.Encode(map[string]interface{}{
		"user_id": userId,
		"exp":     time.Now().Add(s.ttl).Unix(),
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    tokenString,
		Path:     "/",
		Expires:  time.Now().Add(s.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Session) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserIdFromContext pulls the authenticated account id out of the request
// context populated by jwtauth.Verifier. Returns "" when the request
// carries no valid session.
func UserIdFromContext(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return ""
	}
	userId, ok := claims["user_id"].(string)
	if !ok {
		return ""
	}
	return userId
}
