package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lucerna/internal/shared/authorization"
	"lucerna/internal/shared/config"
)

// TokenType distinguishes the purposes a signed token may serve. Each
// verification path demands its own type so a refresh token can never pass
// as an access token, nor a reset token as anything else.
type TokenType string

const (
	TokenTypeAccess        TokenType = "access"
	TokenTypeRefresh       TokenType = "refresh"
	TokenTypeResetPassword TokenType = "reset_password"
	TokenTypeVerifyEmail   TokenType = "verify_email"
)

// Sentinel errors returned by Verify. Callers are expected to collapse them
// into a uniform response; the distinction exists for logging.
var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrWrongTokenType = errors.New("token type mismatch")
)

// Claims is the payload carried by every token this service signs.
type Claims struct {
	Role      string    `json:"role,omitempty"`
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenDetail pairs a signed token with its expiry for API responses.
type TokenDetail struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthTokens is the access/refresh pair issued on login and refresh.
type AuthTokens struct {
	Access  TokenDetail `json:"access"`
	Refresh TokenDetail `json:"refresh"`
}

// JWTService issues and verifies the signed tokens used for sessions,
// password resets and email verification.
type JWTService interface {
	GenerateAuthTokens(userID uint, role authorization.UserRole) (*AuthTokens, error)
	GenerateResetPasswordToken(userID uint) (string, error)
	GenerateVerifyEmailToken(userID uint) (string, error)
	Verify(token string, expected TokenType) (*Claims, error)
}

type jwtService struct {
	secret            []byte
	accessExpiry      time.Duration
	refreshExpiry     time.Duration
	resetPwdExpiry    time.Duration
	verifyEmailExpiry time.Duration
}

// NewJWTService creates a JWT service from the auth configuration.
func NewJWTService(cfg *config.JWTConfig) JWTService {
	return &jwtService{
		secret:            []byte(cfg.Secret),
		accessExpiry:      time.Duration(cfg.AccessExpMinutes) * time.Minute,
		refreshExpiry:     time.Duration(cfg.RefreshExpDays) * 24 * time.Hour,
		resetPwdExpiry:    time.Duration(cfg.ResetPasswordExpMinutes) * time.Minute,
		verifyEmailExpiry: time.Duration(cfg.VerifyEmailExpMinutes) * time.Minute,
	}
}

func (s *jwtService) sign(userID uint, role string, tokenType TokenType, expiry time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiry)

	claims := Claims{
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// GenerateAuthTokens issues the access/refresh pair for a session.
func (s *jwtService) GenerateAuthTokens(userID uint, role authorization.UserRole) (*AuthTokens, error) {
	access, accessExp, err := s.sign(userID, role.String(), TokenTypeAccess, s.accessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.sign(userID, role.String(), TokenTypeRefresh, s.refreshExpiry)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{
		Access:  TokenDetail{Token: access, ExpiresAt: accessExp},
		Refresh: TokenDetail{Token: refresh, ExpiresAt: refreshExp},
	}, nil
}

// GenerateResetPasswordToken issues a short-lived token for the reset link.
func (s *jwtService) GenerateResetPasswordToken(userID uint) (string, error) {
	token, _, err := s.sign(userID, "", TokenTypeResetPassword, s.resetPwdExpiry)
	return token, err
}

// GenerateVerifyEmailToken issues a short-lived token for the verification link.
func (s *jwtService) GenerateVerifyEmailToken(userID uint) (string, error) {
	token, _, err := s.sign(userID, "", TokenTypeVerifyEmail, s.verifyEmailExpiry)
	return token, err
}

// Verify parses and validates a token, then checks it carries the expected
// type. Only HMAC-signed tokens are accepted.
func (s *jwtService) Verify(tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != expected {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// SubjectUserID extracts the numeric user ID from verified claims.
func (c *Claims) SubjectUserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}
