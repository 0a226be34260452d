package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lucerna/internal/infrastructure/auth"
	"lucerna/internal/shared/authorization"
	"lucerna/internal/shared/config"
)

func newTestJWTService() auth.JWTService {
	return auth.NewJWTService(&config.JWTConfig{
		Secret:           "test-secret",
		AccessExpMinutes: 30,
		RefreshExpDays:   30,
	})
}

func newTestRouter(jwtService auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	chain := append([]gin.HandlerFunc{RequireAuth(jwtService)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	engine.GET("/protected", chain...)
	return engine
}

func doRequest(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	jwtService := newTestJWTService()
	engine := newTestRouter(jwtService)

	tokens, err := jwtService.GenerateAuthTokens(42, authorization.RoleUser)
	require.NoError(t, err)

	rec := doRequest(engine, "Bearer "+tokens.Access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "42")
}

func TestRequireAuthRejections(t *testing.T) {
	jwtService := newTestJWTService()
	engine := newTestRouter(jwtService)

	tokens, err := jwtService.GenerateAuthTokens(42, authorization.RoleUser)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage token":  "Bearer not-a-token",
		// Refresh tokens must not open protected routes.
		"refresh token": "Bearer " + tokens.Refresh.Token,
	}
	for name, header := range cases {
		rec := doRequest(engine, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Contains(t, rec.Body.String(), "Please authenticate", name)
	}
}

func TestRequireAdmin(t *testing.T) {
	jwtService := newTestJWTService()
	engine := newTestRouter(jwtService, RequireAdmin())

	adminTokens, err := jwtService.GenerateAuthTokens(1, authorization.RoleAdmin)
	require.NoError(t, err)
	userTokens, err := jwtService.GenerateAuthTokens(2, authorization.RoleUser)
	require.NoError(t, err)

	rec := doRequest(engine, "Bearer "+adminTokens.Access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(engine, "Bearer "+userTokens.Access.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
