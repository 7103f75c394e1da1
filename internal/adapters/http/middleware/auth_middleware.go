package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"bakery-backoffice/internal/config"
	"bakery-backoffice/internal/domain"

	"github.com/labstack/echo/v4"
)

// Echo context keys written by the authentication layer.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextName   = "name"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderAPIKey    = "X-API-Key"
)

// AuthMiddleware authenticates the caller according to mode. In none and
// api_key modes the subject comes from X-User-ID; cognito mode delegates to
// the JWT middleware.
func AuthMiddleware(mode config.AuthMode, apiKey string, cognito echo.MiddlewareFunc) (echo.MiddlewareFunc, error) {
	switch mode {
	case config.AuthModeNone:
	case config.AuthModeAPIKey:
		if apiKey == "" {
			return nil, errors.New("API_KEY is required when AUTH_MODE=api_key")
		}
	case config.AuthModeCognito:
		if cognito == nil {
			return nil, errors.New("cognito middleware is required when AUTH_MODE=cognito")
		}
	default:
		return nil, errors.New("invalid auth mode")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch mode {
			case config.AuthModeNone:
				setHeaderIdentity(c)
				return next(c)
			case config.AuthModeAPIKey:
				got := c.Request().Header.Get(HeaderAPIKey)
				if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
				}
				setHeaderIdentity(c)
				return next(c)
			default:
				return cognito(next)(c)
			}
		}
	}, nil
}

func setHeaderIdentity(c echo.Context) {
	h := c.Request().Header
	if id := strings.TrimSpace(h.Get(HeaderUserID)); id != "" {
		c.Set(ContextUserID, id)
		c.Set(ContextEmail, strings.TrimSpace(h.Get(HeaderUserEmail)))
	}
}

// IdentityFrom returns the authenticated identity, if any.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	sub, _ := c.Get(ContextUserID).(string)
	if sub == "" {
		return domain.Identity{}, false
	}
	email, _ := c.Get(ContextEmail).(string)
	name, _ := c.Get(ContextName).(string)
	return domain.Identity{Subject: sub, Email: email, DisplayName: name}, true
}

// RequireIdentity rejects requests that reached it without an identity.
func RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := IdentityFrom(c); !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
		return next(c)
	}
}
