package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"

	"lucerna/internal/domain/user"
	"lucerna/internal/shared/config"
)

const spotifyUserURL = "https://api.spotify.com/v1/me"

// SpotifyProvider implements Provider for Spotify OAuth2.
type SpotifyProvider struct {
	config *oauth2.Config
}

// NewSpotifyProvider creates a Spotify OAuth provider.
func NewSpotifyProvider(cfg *config.OAuthClientConfig) *SpotifyProvider {
	return &SpotifyProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"user-read-email", "user-read-private"},
			Endpoint:     spotify.Endpoint,
		},
	}
}

func (p *SpotifyProvider) Type() user.ProviderType {
	return user.ProviderSpotify
}

func (p *SpotifyProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// FetchUser exchanges the code and retrieves the Spotify profile.
func (p *SpotifyProvider) FetchUser(ctx context.Context, code string) (*user.ProviderUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange spotify code: %w", err)
	}

	var info struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
	}
	if err := fetchJSON(ctx, p.config, token, spotifyUserURL, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch spotify user: %w", err)
	}

	return &user.ProviderUser{
		ID:    info.ID,
		Type:  user.ProviderSpotify,
		Name:  info.DisplayName,
		Email: info.Email,
	}, nil
}
