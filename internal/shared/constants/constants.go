// Package constants holds cross-cutting constant values.
package constants

// Context keys set by the auth middleware.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Pagination defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Table names. The singular names mirror the relational schema.
const (
	TableUser          = "user"
	TableAuthorisation = "authorisation"
)
