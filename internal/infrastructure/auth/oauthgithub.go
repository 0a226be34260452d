package auth

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"lucerna/internal/domain/user"
	"lucerna/internal/shared/config"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

// GitHubProvider implements Provider for GitHub OAuth2.
type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider creates a GitHub OAuth provider.
func NewGitHubProvider(cfg *config.OAuthClientConfig) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *GitHubProvider) Type() user.ProviderType {
	return user.ProviderGitHub
}

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// FetchUser exchanges the code and retrieves the GitHub profile. GitHub
// omits the email from /user when it is private, so the primary address is
// recovered from /user/emails.
func (p *GitHubProvider) FetchUser(ctx context.Context, code string) (*user.ProviderUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange github code: %w", err)
	}

	var info struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := fetchJSON(ctx, p.config, token, githubUserURL, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch github user: %w", err)
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}

	email := info.Email
	if email == "" {
		email, err = p.fetchPrimaryEmail(ctx, token)
		if err != nil {
			return nil, err
		}
	}

	return &user.ProviderUser{
		ID:    strconv.FormatInt(info.ID, 10),
		Type:  user.ProviderGitHub,
		Name:  name,
		Email: email,
	}, nil
}

func (p *GitHubProvider) fetchPrimaryEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := fetchJSON(ctx, p.config, token, githubEmailsURL, &emails); err != nil {
		return "", fmt.Errorf("failed to fetch github emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("github account has no verified email")
}
