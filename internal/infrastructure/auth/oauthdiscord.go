package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"lucerna/internal/domain/user"
	"lucerna/internal/shared/config"
)

const discordUserURL = "https://discord.com/api/users/@me"

// discordEndpoint is not shipped with x/oauth2, so it is spelled out here.
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// DiscordProvider implements Provider for Discord OAuth2.
type DiscordProvider struct {
	config *oauth2.Config
}

// NewDiscordProvider creates a Discord OAuth provider.
func NewDiscordProvider(cfg *config.OAuthClientConfig) *DiscordProvider {
	return &DiscordProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint:     discordEndpoint,
		},
	}
}

func (p *DiscordProvider) Type() user.ProviderType {
	return user.ProviderDiscord
}

func (p *DiscordProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// FetchUser exchanges the code and retrieves the Discord profile.
func (p *DiscordProvider) FetchUser(ctx context.Context, code string) (*user.ProviderUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange discord code: %w", err)
	}

	var info struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
		Email      string `json:"email"`
	}
	if err := fetchJSON(ctx, p.config, token, discordUserURL, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch discord user: %w", err)
	}

	name := info.GlobalName
	if name == "" {
		name = info.Username
	}

	return &user.ProviderUser{
		ID:    info.ID,
		Type:  user.ProviderDiscord,
		Name:  name,
		Email: info.Email,
	}, nil
}
