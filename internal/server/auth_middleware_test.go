package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lumagram/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthMiddlewareApp(t *testing.T, s *Server) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	s := &Server{config: &config.Config{JWTSecret: "test_secret"}}
	app := newAuthMiddlewareApp(t, s)

	t.Run("Valid Token", func(t *testing.T) {
		tokenString, err := s.generateToken(42, "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Query Parameter Token", func(t *testing.T) {
		tokenString, err := s.generateToken(42, "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected?token="+tokenString, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Missing Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Wrong Issuer", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "42",
			"iss": "someone-else",
			"aud": "lumagram-client",
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test_secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Tampered Signature", func(t *testing.T) {
		tokenString, err := s.generateToken(42, "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString+"x")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthRequired_RevokedJTI(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	s := &Server{
		config: &config.Config{JWTSecret: "test_secret"},
		redis:  rdb,
	}
	app := newAuthMiddlewareApp(t, s)

	tokenString, err := s.generateToken(42, "alice")
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	require.NoError(t, err)
	jti := parsed.Claims.(jwt.MapClaims)["jti"].(string)
	require.NoError(t, mr.Set("blacklist:"+jti, "1"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
