package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleProfile is the subset of the ID token claims the service uses.
type GoogleProfile struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Email   string `json:"email"`
	Aud     string `json:"aud"`
}

// GoogleVerifier validates a Google-issued ID token and returns the
// profile it asserts.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleProfile, error)
}

// TokenInfoVerifier checks ID tokens against Google's tokeninfo endpoint.
type TokenInfoVerifier struct {
	client   *http.Client
	clientId string
	baseURL  string
}

func NewTokenInfoVerifier() *TokenInfoVerifier {
	return &TokenInfoVerifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		clientId: os.Getenv("GOOGLE_CLIENT_ID"),
		baseURL:  tokenInfoURL,
	}
}

func (v *TokenInfoVerifier) Verify(ctx context.Context, idToken string) (*GoogleProfile, error) {
	u := v.baseURL + "?id_token=" + url.QueryEscape(idToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo rejected token: status %d", resp.StatusCode)
	}

	profile := &GoogleProfile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("tokeninfo response malformed: %w", err)
	}

	// The token must have been issued for this application.
	if v.clientId != "" && profile.Aud != v.clientId {
		return nil, fmt.Errorf("tokeninfo audience mismatch")
	}

	return profile, nil
}
