package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"lucerna/internal/domain/user"
	"lucerna/internal/shared/config"
)

const facebookUserURL = "https://graph.facebook.com/me?fields=id,name,email"

// FacebookProvider implements Provider for Facebook Login.
type FacebookProvider struct {
	config *oauth2.Config
}

// NewFacebookProvider creates a Facebook OAuth provider.
func NewFacebookProvider(cfg *config.OAuthClientConfig) *FacebookProvider {
	return &FacebookProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
	}
}

func (p *FacebookProvider) Type() user.ProviderType {
	return user.ProviderFacebook
}

func (p *FacebookProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// FetchUser exchanges the code and retrieves the profile from the Graph API.
func (p *FacebookProvider) FetchUser(ctx context.Context, code string) (*user.ProviderUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange facebook code: %w", err)
	}

	var info struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := fetchJSON(ctx, p.config, token, facebookUserURL, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch facebook user: %w", err)
	}

	return &user.ProviderUser{
		ID:    info.ID,
		Type:  user.ProviderFacebook,
		Name:  info.Name,
		Email: info.Email,
	}, nil
}
