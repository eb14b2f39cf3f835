package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/uli/backend/internal/config"
	"github.com/uli/backend/pkg/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile is the identity data returned by Google after a successful
// handshake.
type Profile struct {
	GoogleID string
	Email    string
	Name     string
}

type GoogleOAuthService struct {
	oauth *oauth2.Config
}

func NewGoogleOAuthService(cfg config.GoogleConfig) *GoogleOAuthService {
	return &GoogleOAuthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// GenerateState returns a random nonce tying the consent redirect to the
// callback that follows it.
func (s *GoogleOAuthService) GenerateState() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(nonce), nil
}

func (s *GoogleOAuthService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

func (s *GoogleOAuthService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		logger.Warn("oauth_exchange_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: code exchange failed", ErrUpstreamAuth)
	}
	return token, nil
}

func (s *GoogleOAuthService) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := s.oauth.Client(ctx, token)

	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: google api returned status %d: %s", ErrUpstreamAuth, resp.StatusCode, string(body))
	}

	var data struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamAuth, err)
	}
	if data.ID == "" {
		return nil, fmt.Errorf("%w: profile has no subject id", ErrUpstreamAuth)
	}

	return &Profile{
		GoogleID: data.ID,
		Email:    data.Email,
		Name:     data.Name,
	}, nil
}
