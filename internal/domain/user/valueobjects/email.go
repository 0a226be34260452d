// Package valueobjects contains immutable value types for the user domain.
package valueobjects

import (
	"fmt"
	"net/mail"
	"strings"
)

// Email is a validated, lower-cased email address. The relational schema
// compares emails case-sensitively, so normalization must happen here before
// any write or lookup.
type Email struct {
	value string
}

func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return Email{}, fmt.Errorf("invalid email address: %q", raw)
	}
	return Email{value: normalized}, nil
}

func (e Email) String() string {
	return e.value
}

func (e Email) IsZero() bool {
	return e.value == ""
}

func (e Email) Equals(other Email) bool {
	return e.value == other.value
}
