package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bakery-backoffice/internal/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_NoneReadsHeaderIdentity(t *testing.T) {
	mw, err := AuthMiddleware(config.AuthModeNone, "", nil)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "user-1")
	req.Header.Set(HeaderUserEmail, "baker@example.test")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got bool
	h := mw(func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		got = ok
		assert.Equal(t, "user-1", id.Subject)
		assert.Equal(t, "baker@example.test", id.Email)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.True(t, got)
}

func TestAuthMiddleware_APIKey(t *testing.T) {
	mw, err := AuthMiddleware(config.AuthModeAPIKey, "secret", nil)
	require.NoError(t, err)

	e := echo.New()
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderAPIKey, "wrong")
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderAPIKey, "secret")
	rec = httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.True(t, called)
}

func TestAuthMiddleware_APIKeyRequiresKey(t *testing.T) {
	mw, err := AuthMiddleware(config.AuthModeAPIKey, "", nil)
	assert.Nil(t, mw)
	assert.Error(t, err)
}

func TestAuthMiddleware_Cognito(t *testing.T) {
	cognitoCalled := false
	mockCognito := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cognitoCalled = true
			return next(c)
		}
	}

	mw, err := AuthMiddleware(config.AuthModeCognito, "", mockCognito)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.True(t, cognitoCalled)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	mw, err := AuthMiddleware(config.AuthMode("invalid"), "", nil)
	assert.Nil(t, mw)
	assert.Error(t, err)

	mw, err = AuthMiddleware(config.AuthModeCognito, "", nil)
	assert.Nil(t, mw)
	assert.Error(t, err)
}

func TestRequireIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h := RequireIdentity(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
