package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"lucerna/internal/domain/user"
	"lucerna/internal/shared/config"
	"lucerna/internal/shared/errors"
)

// Provider abstracts one OAuth identity provider. Implementations exchange
// an authorization code and normalize the provider profile into a
// user.ProviderUser.
type Provider interface {
	Type() user.ProviderType
	AuthCodeURL(state string) string
	FetchUser(ctx context.Context, code string) (*user.ProviderUser, error)
}

// Registry holds the configured providers keyed by type. Providers without
// credentials in the configuration are simply absent.
type Registry struct {
	providers map[user.ProviderType]Provider
}

// NewRegistry builds the provider registry from configuration. Only
// providers with a client ID and secret are registered.
func NewRegistry(cfg *config.OAuthConfig) *Registry {
	r := &Registry{providers: make(map[user.ProviderType]Provider)}

	if cfg.Google.IsConfigured() {
		r.register(NewGoogleProvider(&cfg.Google))
	}
	if cfg.GitHub.IsConfigured() {
		r.register(NewGitHubProvider(&cfg.GitHub))
	}
	if cfg.Discord.IsConfigured() {
		r.register(NewDiscordProvider(&cfg.Discord))
	}
	if cfg.Facebook.IsConfigured() {
		r.register(NewFacebookProvider(&cfg.Facebook))
	}
	if cfg.Spotify.IsConfigured() {
		r.register(NewSpotifyProvider(&cfg.Spotify))
	}
	if cfg.Apple.IsConfigured() {
		r.register(NewAppleProvider(&cfg.Apple))
	}

	return r
}

func (r *Registry) register(p Provider) {
	r.providers[p.Type()] = p
}

// Get returns the provider for the given type, or a NotFound error when it
// is unknown or not configured.
func (r *Registry) Get(providerType user.ProviderType) (Provider, error) {
	p, ok := r.providers[providerType]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("Provider %s not configured", providerType))
	}
	return p, nil
}

// Types lists the configured provider types.
func (r *Registry) Types() []user.ProviderType {
	types := make([]user.ProviderType, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	return types
}

// fetchJSON performs an authenticated GET against a provider API and decodes
// the JSON body into target.
func fetchJSON(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, url string, target interface{}) error {
	client := cfg.Client(ctx, token)
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
