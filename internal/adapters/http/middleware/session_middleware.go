package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/labstack/echo/v4"
)

const ContextSession = "session"

// RetryAfterSeconds is advertised while a principal lookup is still pending.
const RetryAfterSeconds = 1

type PrincipalResolver interface {
	Resolve(ctx context.Context, subject string) (domain.Principal, error)
}

// SessionMiddleware loads the principal behind the authenticated identity.
// A lookup that misses its deadline yields a pending session, which route
// gates answer with a wait response instead of a denial.
func SessionMiddleware(resolver PrincipalResolver, timeout time.Duration, logger ports.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				c.Set(ContextSession, domain.Session{})
				return next(c)
			}
			parent := c.Request().Context()
			ctx, cancel := context.WithTimeout(parent, timeout)
			p, err := resolver.Resolve(ctx, id.Subject)
			cancel()
			switch {
			case err == nil:
				c.Set(ContextSession, domain.ResolvedSession(p))
			case errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil:
				logger.Warn(parent, "principal lookup timed out", "principal_id", id.Subject, "timeout", timeout.String())
				c.Set(ContextSession, domain.PendingSession())
			case errors.Is(err, domain.ErrNotFound):
				return c.JSON(http.StatusForbidden, map[string]string{"error": "account not registered"})
			case errors.Is(err, domain.ErrInactiveAccount):
				return c.JSON(http.StatusForbidden, map[string]string{"error": domain.ErrInactiveAccount.Error(), "status": string(p.Status)})
			default:
				logger.Error(parent, "principal lookup failed", "principal_id", id.Subject, "error", err.Error())
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by SessionMiddleware. Requests that
// never passed through it read as absent.
func SessionFrom(c echo.Context) domain.Session {
	s, _ := c.Get(ContextSession).(domain.Session)
	return s
}

// PrincipalFrom returns the resolved principal, if any.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	s := SessionFrom(c)
	if s.State != domain.SessionResolved {
		return domain.Principal{}, false
	}
	return s.Principal, true
}

// WriteWait answers a request whose session is still being resolved.
func WriteWait(c echo.Context) error {
	c.Response().Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	return c.JSON(http.StatusAccepted, map[string]string{"status": "loading"})
}
