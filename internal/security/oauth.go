package security

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/atomiccms/atomic-service/internal/config"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the Google userinfo response the service
// needs to create or link an account.
type GoogleProfile struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleVerifier fetches profiles for client-supplied Google access tokens.
type GoogleVerifier struct {
	oauthConfig *oauth2.Config
	userinfoURL string
}

// NewGoogleVerifier builds a verifier from the configured client credentials.
func NewGoogleVerifier(cfg *config.Config) *GoogleVerifier {
	return &GoogleVerifier{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userinfoURL: googleUserinfoURL,
	}
}

// Profile resolves an access token to the Google profile it belongs to.
func (g *GoogleVerifier) Profile(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	client := g.oauthConfig.Client(ctx, &oauth2.Token{AccessToken: accessToken})
	resp, err := client.Get(g.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode google profile: %w", err)
	}
	// Some responses use "id" instead of "sub".
	if profile.Sub == "" {
		profile.Sub = profile.ID
	}
	return &profile, nil
}
