// Package auth implements the authentication use cases: registration, local
// login, token refresh, password reset, email verification and account
// linking with external providers.
package auth

import (
	"context"
	"fmt"

	"lucerna/internal/domain/user"
	vo "lucerna/internal/domain/user/valueobjects"
	infraauth "lucerna/internal/infrastructure/auth"
	"lucerna/internal/infrastructure/email"
	"lucerna/internal/shared/db"
	"lucerna/internal/shared/errors"
	"lucerna/internal/shared/logger"
)

// Service orchestrates the authentication flows. All failures on the token
// paths collapse into a single Unauthorized message per path so callers
// learn nothing about which step failed.
type Service struct {
	users       user.Repository
	links       user.AuthorisationRepository
	hasher      user.PasswordHasher
	jwtService  infraauth.JWTService
	emailSender email.Sender
	txManager   db.Manager
	logger      logger.Interface
}

// NewService creates the authentication service.
func NewService(
	users user.Repository,
	links user.AuthorisationRepository,
	hasher user.PasswordHasher,
	jwtService infraauth.JWTService,
	emailSender email.Sender,
	txManager db.Manager,
	logger logger.Interface,
) *Service {
	return &Service{
		users:       users,
		links:       links,
		hasher:      hasher,
		jwtService:  jwtService,
		emailSender: emailSender,
		txManager:   txManager,
		logger:      logger,
	}
}

// RegisterCommand carries the input for local registration.
type RegisterCommand struct {
	Name     *string
	Email    string
	Password string
}

// Result is the outcome of any flow that establishes a session.
type Result struct {
	User   *user.User
	Tokens *infraauth.AuthTokens
}

// Register creates a local account and opens a session. The unique email
// index settles registration races; a duplicate surfaces as BadRequest.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*Result, error) {
	emailVO, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid email address")
	}

	newUser, err := user.NewLocalUser(emailVO, cmd.Name)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	if err := newUser.SetPassword(cmd.Password, s.hasher); err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewBadRequestError("User already exists")
		}
		return nil, err
	}

	tokens, err := s.jwtService.GenerateAuthTokens(newUser.ID(), newUser.Role())
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user registered", "user_id", newUser.ID())
	return &Result{User: newUser, Tokens: tokens}, nil
}

// LoginCommand carries the input for local login.
type LoginCommand struct {
	Email    string
	Password string
}

// Login authenticates with email and password. An account that exists but
// has no local password gets a distinct message pointing at social login;
// every other failure reads the same.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (*Result, error) {
	emailVO, err := vo.NewEmail(cmd.Email)
	if err != nil {
		return nil, errors.NewUnauthorizedError("Incorrect email or password")
	}

	account, err := s.users.GetByEmail(ctx, emailVO.String())
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.NewUnauthorizedError("Incorrect email or password")
	}

	if !account.HasLocalLogin() {
		return nil, errors.NewUnauthorizedError("Please login with your social account")
	}

	if err := account.VerifyPassword(cmd.Password, s.hasher); err != nil {
		return nil, errors.NewUnauthorizedError("Incorrect email or password")
	}

	tokens, err := s.jwtService.GenerateAuthTokens(account.ID(), account.Role())
	if err != nil {
		return nil, err
	}

	return &Result{User: account, Tokens: tokens}, nil
}

// RefreshAuth exchanges a valid refresh token for a fresh token pair. Every
// failure collapses to the same Unauthorized response.
func (s *Service) RefreshAuth(ctx context.Context, refreshToken string) (*infraauth.AuthTokens, error) {
	claims, err := s.jwtService.Verify(refreshToken, infraauth.TokenTypeRefresh)
	if err != nil {
		return nil, errors.NewUnauthorizedError("Please authenticate")
	}

	userID, err := claims.SubjectUserID()
	if err != nil {
		return nil, errors.NewUnauthorizedError("Please authenticate")
	}

	account, err := s.users.GetByID(ctx, userID)
	if err != nil || account == nil {
		return nil, errors.NewUnauthorizedError("Please authenticate")
	}

	return s.jwtService.GenerateAuthTokens(account.ID(), account.Role())
}

// ForgotPassword issues a reset token and mails the reset link.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailVO, err := vo.NewEmail(emailAddr)
	if err != nil {
		return errors.NewNotFoundError("No users found with this email")
	}

	account, err := s.users.GetByEmail(ctx, emailVO.String())
	if err != nil {
		return err
	}
	if account == nil {
		return errors.NewNotFoundError("No users found with this email")
	}

	token, err := s.jwtService.GenerateResetPasswordToken(account.ID())
	if err != nil {
		return err
	}

	return s.emailSender.SendPasswordResetEmail(account.Email().String(), token)
}

// ResetPassword consumes a reset token and stores a new password. Every
// failure collapses to the same Unauthorized response.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.jwtService.Verify(token, infraauth.TokenTypeResetPassword)
	if err != nil {
		return errors.NewUnauthorizedError("Password reset failed")
	}

	userID, err := claims.SubjectUserID()
	if err != nil {
		return errors.NewUnauthorizedError("Password reset failed")
	}

	account, err := s.users.GetByID(ctx, userID)
	if err != nil || account == nil {
		return errors.NewUnauthorizedError("Password reset failed")
	}

	if err := account.SetPassword(newPassword, s.hasher); err != nil {
		return errors.NewUnauthorizedError("Password reset failed")
	}
	if err := s.users.Update(ctx, account); err != nil {
		return errors.NewUnauthorizedError("Password reset failed")
	}

	s.logger.Infow("password reset", "user_id", userID)
	return nil
}

// SendVerificationEmail issues a verification token for the authenticated
// user and mails the verification link.
func (s *Service) SendVerificationEmail(ctx context.Context, userID uint) error {
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if account == nil {
		return errors.NewUnauthorizedError("Please authenticate")
	}

	token, err := s.jwtService.GenerateVerifyEmailToken(account.ID())
	if err != nil {
		return err
	}

	return s.emailSender.SendVerificationEmail(account.Email().String(), token)
}

// VerifyEmail consumes a verification token and marks the email verified.
// Every failure collapses to the same Unauthorized response.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwtService.Verify(token, infraauth.TokenTypeVerifyEmail)
	if err != nil {
		return errors.NewUnauthorizedError("Email verification failed")
	}

	userID, err := claims.SubjectUserID()
	if err != nil {
		return errors.NewUnauthorizedError("Email verification failed")
	}

	account, err := s.users.GetByID(ctx, userID)
	if err != nil || account == nil {
		return errors.NewUnauthorizedError("Email verification failed")
	}

	account.MarkEmailVerified()
	if err := s.users.Update(ctx, account); err != nil {
		return errors.NewUnauthorizedError("Email verification failed")
	}

	s.logger.Infow("email verified", "user_id", userID)
	return nil
}

// LoginWithProvider opens a session for a provider identity, creating the
// account on first contact. Signup collides with an existing email because
// the unique index fires inside the transaction; that surfaces as Forbidden
// since the caller holds a valid provider identity but cannot claim the
// address.
func (s *Service) LoginWithProvider(ctx context.Context, profile *user.ProviderUser) (*Result, error) {
	account, err := s.users.GetByProviderIdentity(ctx, profile.Type, profile.ID)
	if err != nil {
		return nil, err
	}

	if account == nil {
		account, err = s.createProviderUser(ctx, profile)
		if err != nil {
			return nil, err
		}
	}

	tokens, err := s.jwtService.GenerateAuthTokens(account.ID(), account.Role())
	if err != nil {
		return nil, err
	}

	return &Result{User: account, Tokens: tokens}, nil
}

func (s *Service) createProviderUser(ctx context.Context, profile *user.ProviderUser) (*user.User, error) {
	emailVO, err := vo.NewEmail(profile.Email)
	if err != nil {
		return nil, errors.NewForbiddenError(
			fmt.Sprintf("Cannot signup with %s, user already exists with that email", profile.Type))
	}

	var name *string
	if profile.Name != "" {
		n := profile.Name
		name = &n
	}

	newUser, err := user.NewOAuthUser(emailVO, name)
	if err != nil {
		return nil, err
	}

	txErr := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, newUser); err != nil {
			return err
		}
		link, err := user.NewAuthorisation(newUser.ID(), profile.Type, profile.ID)
		if err != nil {
			return err
		}
		return s.links.Create(txCtx, link)
	})
	if txErr != nil {
		s.logger.Warnw("oauth signup failed",
			"provider", profile.Type.String(), "error", txErr)
		return nil, errors.NewForbiddenError(
			fmt.Sprintf("Cannot signup with %s, user already exists with that email", profile.Type))
	}

	s.logger.Infow("oauth user created",
		"user_id", newUser.ID(), "provider", profile.Type.String())
	return newUser, nil
}

// LinkProvider attaches a provider identity to an existing account. A
// missing account reads as an authentication failure; a provider identity
// already linked elsewhere propagates as an internal failure.
func (s *Service) LinkProvider(ctx context.Context, userID uint, profile *user.ProviderUser) error {
	return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.users.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		if account == nil {
			return errors.NewUnauthorizedError("Please authenticate")
		}

		link, err := user.NewAuthorisation(account.ID(), profile.Type, profile.ID)
		if err != nil {
			return err
		}
		if err := s.links.Create(txCtx, link); err != nil {
			return err
		}

		s.logger.Infow("provider linked",
			"user_id", userID, "provider", profile.Type.String())
		return nil
	})
}

// UnlinkProvider removes a provider link. The login-method count and the
// delete run in one transaction so the last remaining method can never be
// removed by concurrent unlinks.
func (s *Service) UnlinkProvider(ctx context.Context, userID uint, providerType user.ProviderType) error {
	return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		methods, err := s.links.CountLoginMethods(txCtx, userID)
		if err != nil {
			return err
		}
		if methods == nil {
			return errors.NewBadRequestError("Account not linked")
		}
		if methods.Total() <= 1 {
			return errors.NewBadRequestError("Cannot unlink last login method")
		}

		rows, err := s.links.DeleteByUserAndProvider(txCtx, userID, providerType)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errors.NewBadRequestError("Account not linked")
		}

		s.logger.Infow("provider unlinked",
			"user_id", userID, "provider", providerType.String())
		return nil
	})
}
