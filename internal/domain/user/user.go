// Package user contains the user aggregate and the repository contracts for
// users and their provider links.
package user

import (
	"fmt"

	vo "lucerna/internal/domain/user/valueobjects"
	"lucerna/internal/shared/authorization"
)

// User is the aggregate root. A user authenticates either with a local
// password (passwordHash set) or through linked providers; the presence of
// the hash is the sole signal that a local login exists.
type User struct {
	id            uint
	name          *string
	email         vo.Email
	passwordHash  *string
	emailVerified bool
	role          authorization.UserRole
}

// NewLocalUser creates a user registering with email and password. The
// password is set separately through SetPassword so hashing failures stay
// distinguishable from construction failures.
func NewLocalUser(email vo.Email, name *string) (*User, error) {
	if email.IsZero() {
		return nil, fmt.Errorf("email is required")
	}
	return &User{
		name:          name,
		email:         email,
		emailVerified: false,
		role:          authorization.RoleUser,
	}, nil
}

// NewOAuthUser creates a user signing up through an identity provider. The
// provider already vouched for the email, so it is verified from the start
// and no local password exists.
func NewOAuthUser(email vo.Email, name *string) (*User, error) {
	if email.IsZero() {
		return nil, fmt.Errorf("email is required")
	}
	return &User{
		name:          name,
		email:         email,
		emailVerified: true,
		role:          authorization.RoleUser,
	}, nil
}

// Reconstruct rebuilds a user from persistence.
func Reconstruct(id uint, email vo.Email, name *string, passwordHash *string, emailVerified bool, role authorization.UserRole) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if email.IsZero() {
		return nil, fmt.Errorf("email is required")
	}
	return &User{
		id:            id,
		name:          name,
		email:         email,
		passwordHash:  passwordHash,
		emailVerified: emailVerified,
		role:          role,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) Name() *string {
	return u.name
}

func (u *User) Email() vo.Email {
	return u.email
}

func (u *User) PasswordHash() *string {
	return u.passwordHash
}

func (u *User) IsEmailVerified() bool {
	return u.emailVerified
}

func (u *User) Role() authorization.UserRole {
	return u.role
}

// HasLocalLogin reports whether the user can authenticate with a password.
func (u *User) HasLocalLogin() bool {
	return u.passwordHash != nil
}

// SetID sets the user ID (only for persistence layer use).
func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// SetPassword hashes and stores a new password.
func (u *User) SetPassword(plaintext string, hasher PasswordHasher) error {
	if plaintext == "" {
		return fmt.Errorf("password is required")
	}
	hash, err := hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.passwordHash = &hash
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func (u *User) VerifyPassword(plaintext string, hasher PasswordHasher) error {
	if u.passwordHash == nil {
		return fmt.Errorf("no local password set")
	}
	return hasher.Verify(plaintext, *u.passwordHash)
}

// MarkEmailVerified flips the verification flag.
func (u *User) MarkEmailVerified() {
	u.emailVerified = true
}

// UpdateName replaces the display name.
func (u *User) UpdateName(name *string) {
	u.name = name
}

// UpdateEmail replaces the email address. Verification status is reset since
// the new address has not been vouched for.
func (u *User) UpdateEmail(email vo.Email) error {
	if email.IsZero() {
		return fmt.Errorf("email is required")
	}
	if u.email.Equals(email) {
		return nil
	}
	u.email = email
	u.emailVerified = false
	return nil
}

// SetRole assigns a role; invalid values are rejected.
func (u *User) SetRole(role authorization.UserRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	u.role = role
	return nil
}
