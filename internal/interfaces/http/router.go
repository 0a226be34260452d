// Package http wires the gin engine, routes and middleware.
package http

import (
	"github.com/gin-gonic/gin"

	"lucerna/internal/infrastructure/auth"
	"lucerna/internal/interfaces/http/handlers"
	"lucerna/internal/interfaces/http/middleware"
	"lucerna/internal/shared/config"
	"lucerna/internal/shared/utils"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	ServerConfig *config.ServerConfig
	JWTService   auth.JWTService
	AuthHandler  *handlers.AuthHandler
	UserHandler  *handlers.UserHandler
	// RateLimiter is optional; nil disables throttling.
	RateLimiter *middleware.RateLimiter
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.ServerConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(deps.ServerConfig.AllowedOrigins))

	engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, 200, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(deps.JWTService)

	v1 := engine.Group("/v1")

	authGroup := v1.Group("/auth")
	if deps.RateLimiter != nil {
		authGroup.Use(deps.RateLimiter.Middleware())
	}
	{
		authGroup.POST("/register", deps.AuthHandler.Register)
		authGroup.POST("/login", deps.AuthHandler.Login)
		authGroup.POST("/refresh-tokens", deps.AuthHandler.RefreshTokens)
		authGroup.POST("/forgot-password", deps.AuthHandler.ForgotPassword)
		authGroup.POST("/reset-password", deps.AuthHandler.ResetPassword)
		authGroup.POST("/send-verification-email", requireAuth, deps.AuthHandler.SendVerificationEmail)
		authGroup.POST("/verify-email", deps.AuthHandler.VerifyEmail)

		authGroup.GET("/:provider/redirect", deps.AuthHandler.ProviderRedirect)
		authGroup.GET("/:provider/callback", deps.AuthHandler.ProviderCallback)
		authGroup.POST("/:provider/link", requireAuth, deps.AuthHandler.LinkProvider)
		authGroup.DELETE("/:provider/unlink", requireAuth, deps.AuthHandler.UnlinkProvider)
	}

	userGroup := v1.Group("/users", requireAuth)
	{
		userGroup.POST("", middleware.RequireAdmin(), deps.UserHandler.Create)
		userGroup.GET("", middleware.RequireAdmin(), deps.UserHandler.List)
		userGroup.GET("/:id", deps.UserHandler.Get)
		userGroup.PATCH("/:id", deps.UserHandler.Update)
		userGroup.DELETE("/:id", deps.UserHandler.Delete)
	}

	return engine
}
