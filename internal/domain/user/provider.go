package user

import "fmt"

// ProviderType identifies an external OAuth identity provider.
type ProviderType string

const (
	ProviderGoogle   ProviderType = "google"
	ProviderGitHub   ProviderType = "github"
	ProviderDiscord  ProviderType = "discord"
	ProviderFacebook ProviderType = "facebook"
	ProviderSpotify  ProviderType = "spotify"
	ProviderApple    ProviderType = "apple"
)

// AllProviderTypes lists every supported provider, in registration order.
var AllProviderTypes = []ProviderType{
	ProviderGoogle,
	ProviderGitHub,
	ProviderDiscord,
	ProviderFacebook,
	ProviderSpotify,
	ProviderApple,
}

func (p ProviderType) String() string {
	return string(p)
}

func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderGitHub, ProviderDiscord, ProviderFacebook, ProviderSpotify, ProviderApple:
		return true
	}
	return false
}

// ParseProviderType validates a provider name from the request path.
func ParseProviderType(s string) (ProviderType, error) {
	p := ProviderType(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unsupported oauth provider: %q", s)
	}
	return p, nil
}

// ProviderUser is the normalized profile returned by every provider adapter.
// Once a profile reaches this shape the rest of the system treats all six
// providers identically.
type ProviderUser struct {
	ID    string
	Type  ProviderType
	Name  string
	Email string
}
