// Package handlers contains the gin HTTP handlers.
package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "lucerna/internal/application/auth"
	"lucerna/internal/domain/user"
	infraauth "lucerna/internal/infrastructure/auth"
	"lucerna/internal/interfaces/http/dto"
	"lucerna/internal/interfaces/http/middleware"
	"lucerna/internal/shared/errors"
	"lucerna/internal/shared/logger"
	"lucerna/internal/shared/utils"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authService *appauth.Service
	providers   *infraauth.Registry
	logger      logger.Interface
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(authService *appauth.Service, providers *infraauth.Registry, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		providers:   providers,
		logger:      logger,
	}
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), appauth.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, dto.AuthResponse{
		User:   dto.NewUserResponse(result.User),
		Tokens: result.Tokens,
	})
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appauth.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, dto.AuthResponse{
		User:   dto.NewUserResponse(result.User),
		Tokens: result.Tokens,
	})
}

// RefreshTokens handles POST /v1/auth/refresh-tokens.
func (h *AuthHandler) RefreshTokens(c *gin.Context) {
	var req dto.RefreshTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	tokens, err := h.authService.RefreshAuth(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"tokens": tokens})
}

// ForgotPassword handles POST /v1/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ResetPassword handles POST /v1/auth/reset-password?token=...
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Token is required")
		return
	}

	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// SendVerificationEmail handles POST /v1/auth/send-verification-email.
func (h *AuthHandler) SendVerificationEmail(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Please authenticate")
		return
	}

	if err := h.authService.SendVerificationEmail(c.Request.Context(), userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// VerifyEmail handles POST /v1/auth/verify-email?token=...
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Token is required")
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), token); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ProviderRedirect handles GET /v1/auth/:provider/redirect and sends the
// caller to the provider's consent page.
func (h *AuthHandler) ProviderRedirect(c *gin.Context) {
	provider, err := h.resolveProvider(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	state := c.Query("state")
	if state == "" {
		state = randomState()
	}

	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// ProviderCallback handles GET /v1/auth/:provider/callback and logs the
// caller in, creating the account on first contact.
func (h *AuthHandler) ProviderCallback(c *gin.Context) {
	provider, err := h.resolveProvider(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Code is required")
		return
	}

	profile, err := provider.FetchUser(c.Request.Context(), code)
	if err != nil {
		h.logger.Warnw("provider profile fetch failed",
			"provider", provider.Type().String(), "error", err)
		utils.ErrorResponse(c, http.StatusUnauthorized, "Please authenticate")
		return
	}

	result, err := h.authService.LoginWithProvider(c.Request.Context(), profile)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, dto.AuthResponse{
		User:   dto.NewUserResponse(result.User),
		Tokens: result.Tokens,
	})
}

// LinkProvider handles POST /v1/auth/:provider/link for an authenticated
// user holding a fresh authorization code.
func (h *AuthHandler) LinkProvider(c *gin.Context) {
	provider, err := h.resolveProvider(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Please authenticate")
		return
	}

	var req dto.LinkProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := provider.FetchUser(c.Request.Context(), req.Code)
	if err != nil {
		h.logger.Warnw("provider profile fetch failed",
			"provider", provider.Type().String(), "error", err)
		utils.ErrorResponse(c, http.StatusUnauthorized, "Please authenticate")
		return
	}

	if err := h.authService.LinkProvider(c.Request.Context(), userID, profile); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// UnlinkProvider handles DELETE /v1/auth/:provider/unlink.
func (h *AuthHandler) UnlinkProvider(c *gin.Context) {
	providerType, err := user.ParseProviderType(c.Param("provider"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Unsupported provider")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Please authenticate")
		return
	}

	if err := h.authService.UnlinkProvider(c.Request.Context(), userID, providerType); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// randomState produces an opaque value for the OAuth state parameter.
func randomState() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "state"
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func (h *AuthHandler) resolveProvider(c *gin.Context) (infraauth.Provider, error) {
	providerType, err := user.ParseProviderType(c.Param("provider"))
	if err != nil {
		return nil, errors.NewNotFoundError("Unsupported provider")
	}
	return h.providers.Get(providerType)
}
