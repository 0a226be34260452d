package user

import (
	"context"
	"fmt"
)

// Authorisation links an external provider identity to a local user. Rows
// are created when a provider is linked or an OAuth signup happens, deleted
// when unlinked, and never updated in place.
type Authorisation struct {
	ProviderType   ProviderType
	ProviderUserID string
	UserID         uint
}

func NewAuthorisation(userID uint, providerType ProviderType, providerUserID string) (*Authorisation, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !providerType.IsValid() {
		return nil, fmt.Errorf("invalid provider type: %q", providerType)
	}
	if providerUserID == "" {
		return nil, fmt.Errorf("provider user ID is required")
	}
	return &Authorisation{
		ProviderType:   providerType,
		ProviderUserID: providerUserID,
		UserID:         userID,
	}, nil
}

// LoginMethods summarizes how a user can currently authenticate. Total is
// the link count plus one when a local password exists; the account-linking
// invariant is that Total never drops below one.
type LoginMethods struct {
	HasLocal  bool
	LinkCount int64
}

func (m LoginMethods) Total() int64 {
	if m.HasLocal {
		return m.LinkCount + 1
	}
	return m.LinkCount
}

// AuthorisationRepository persists provider links. Implementations must
// resolve the ambient transaction from the context so multi-row operations
// stay atomic.
type AuthorisationRepository interface {
	Create(ctx context.Context, authorisation *Authorisation) error
	GetByProviderIdentity(ctx context.Context, providerType ProviderType, providerUserID string) (*Authorisation, error)
	ListByUserID(ctx context.Context, userID uint) ([]*Authorisation, error)
	// DeleteByUserAndProvider removes the link for (userID, providerType)
	// and reports how many rows matched.
	DeleteByUserAndProvider(ctx context.Context, userID uint, providerType ProviderType) (int64, error)
	// CountLoginMethods computes the user's remaining login methods with a
	// single LEFT JOIN query. Returns nil when the user does not exist.
	CountLoginMethods(ctx context.Context, userID uint) (*LoginMethods, error)
}
