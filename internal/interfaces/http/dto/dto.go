// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"lucerna/internal/domain/user"
	"lucerna/internal/infrastructure/auth"
)

type RegisterRequest struct {
	Name     *string `json:"name"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokensRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,password"`
}

type LinkProviderRequest struct {
	Code string `json:"code" binding:"required"`
}

type CreateUserRequest struct {
	Name     *string `json:"name"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,password"`
	Role     string  `json:"role" binding:"omitempty,oneof=user admin"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,password"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
}

// UserResponse is the public projection of a user. The password hash never
// crosses this boundary.
type UserResponse struct {
	ID              uint    `json:"id"`
	Name            *string `json:"name"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	IsEmailVerified bool    `json:"isEmailVerified"`
}

// NewUserResponse projects a domain user into its API shape.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:              u.ID(),
		Name:            u.Name(),
		Email:           u.Email().String(),
		Role:            u.Role().String(),
		IsEmailVerified: u.IsEmailVerified(),
	}
}

// AuthResponse is returned by every flow that establishes a session.
type AuthResponse struct {
	User   UserResponse     `json:"user"`
	Tokens *auth.AuthTokens `json:"tokens"`
}

// UserListResponse is the paginated user listing.
type UserListResponse struct {
	Results      []UserResponse `json:"results"`
	Page         int            `json:"page"`
	PageSize     int            `json:"pageSize"`
	TotalPages   int64          `json:"totalPages"`
	TotalResults int64          `json:"totalResults"`
}
