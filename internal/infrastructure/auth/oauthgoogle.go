package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"lucerna/internal/domain/user"
	"lucerna/internal/shared/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider implements Provider for Google OAuth2.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a Google OAuth provider.
func NewGoogleProvider(cfg *config.OAuthClientConfig) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (p *GoogleProvider) Type() user.ProviderType {
	return user.ProviderGoogle
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// FetchUser exchanges the code and retrieves the Google profile.
func (p *GoogleProvider) FetchUser(ctx context.Context, code string) (*user.ProviderUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange google code: %w", err)
	}

	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := fetchJSON(ctx, p.config, token, googleUserInfoURL, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch google user: %w", err)
	}

	return &user.ProviderUser{
		ID:    info.ID,
		Type:  user.ProviderGoogle,
		Name:  info.Name,
		Email: info.Email,
	}, nil
}
