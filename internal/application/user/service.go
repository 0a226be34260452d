// Package user implements the administrative user management use cases.
package user

import (
	"context"

	"lucerna/internal/domain/user"
	vo "lucerna/internal/domain/user/valueobjects"
	"lucerna/internal/shared/authorization"
	"lucerna/internal/shared/errors"
	"lucerna/internal/shared/logger"
)

// Service exposes CRUD over user accounts for administrators.
type Service struct {
	users  user.Repository
	hasher user.PasswordHasher
	logger logger.Interface
}

// NewService creates the user management service.
func NewService(users user.Repository, hasher user.PasswordHasher, logger logger.Interface) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// CreateCommand carries the input for administrative user creation. Unlike
// self-registration, any role may be assigned.
type CreateCommand struct {
	Name     *string
	Email    string
	Password string
	Role     string
}

// Create creates a user with the given role.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*user.User, error) {
	emailVO, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid email address")
	}

	newUser, err := user.NewLocalUser(emailVO, cmd.Name)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	if err := newUser.SetPassword(cmd.Password, s.hasher); err != nil {
		return nil, err
	}

	if cmd.Role != "" {
		role := authorization.UserRole(cmd.Role)
		if err := newUser.SetRole(role); err != nil {
			return nil, errors.NewBadRequestError("Invalid role")
		}
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewBadRequestError("User already exists")
		}
		return nil, err
	}

	s.logger.Infow("user created by admin", "user_id", newUser.ID(), "role", newUser.Role().String())
	return newUser, nil
}

// GetByID retrieves a single user.
func (s *Service) GetByID(ctx context.Context, id uint) (*user.User, error) {
	account, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.NewNotFoundError("User not found")
	}
	return account, nil
}

// ListQuery narrows and pages a user listing.
type ListQuery struct {
	Email    string
	OrderBy  string
	Order    string
	Page     int
	PageSize int
}

// List returns a page of users and the total count.
func (s *Service) List(ctx context.Context, q ListQuery) ([]*user.User, int64, error) {
	return s.users.List(ctx, user.ListFilter{
		Email:    q.Email,
		OrderBy:  q.OrderBy,
		Order:    q.Order,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
}

// UpdateCommand carries the partial update for a user. Nil fields are left
// untouched.
type UpdateCommand struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// UpdateByID applies a partial update. A new email resets the verification
// flag; a new password is rehashed; an email collision reads as BadRequest.
func (s *Service) UpdateByID(ctx context.Context, id uint, cmd UpdateCommand) (*user.User, error) {
	account, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.NewNotFoundError("User not found")
	}

	if cmd.Name != nil {
		account.UpdateName(cmd.Name)
	}
	if cmd.Email != nil {
		emailVO, err := vo.NewEmail(*cmd.Email)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid email address")
		}
		if err := account.UpdateEmail(emailVO); err != nil {
			return nil, errors.NewBadRequestError(err.Error())
		}
	}
	if cmd.Password != nil {
		if err := account.SetPassword(*cmd.Password, s.hasher); err != nil {
			return nil, err
		}
	}
	if cmd.Role != nil {
		if err := account.SetRole(authorization.UserRole(*cmd.Role)); err != nil {
			return nil, errors.NewBadRequestError("Invalid role")
		}
	}

	if err := s.users.Update(ctx, account); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewBadRequestError("User already exists")
		}
		return nil, err
	}

	s.logger.Infow("user updated by admin", "user_id", id)
	return account, nil
}

// DeleteByID removes a user account.
func (s *Service) DeleteByID(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("user deleted by admin", "user_id", id)
	return nil
}
