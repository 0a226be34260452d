package user

import "context"

// ListFilter narrows and orders user listings. OrderBy is validated against
// a column whitelist by the repository.
type ListFilter struct {
	Email    string
	OrderBy  string
	Order    string
	Page     int
	PageSize int
}

// Repository persists users. GetByID and GetByEmail return (nil, nil) when
// no row matches; absence is a domain condition, not an error.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByProviderIdentity resolves a user through an authorisation row
	// with an inner join.
	GetByProviderIdentity(ctx context.Context, providerType ProviderType, providerUserID string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
}

// PasswordHasher is the one-way hash primitive. Verify returns an error for
// any mismatch, including malformed hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}
