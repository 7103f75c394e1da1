package middleware

import (
	"net/http"

	"bakery-backoffice/internal/domain"

	"github.com/labstack/echo/v4"
)

type RouteDecider interface {
	Decide(path string, session domain.Session) domain.Decision
}

// RoleGate guards a group of endpoints with the access decision of the view
// they back. Denials redirect (303) to the decision's location; pending
// sessions get 202 with Retry-After.
func RoleGate(decider RouteDecider, viewPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := decider.Decide(viewPath, SessionFrom(c))
			switch decision.Kind {
			case domain.DecisionRender:
				return next(c)
			case domain.DecisionWait:
				return WriteWait(c)
			default:
				c.Response().Header().Set(echo.HeaderLocation, decision.Location)
				return c.JSON(http.StatusSeeOther, map[string]string{
					"error":    domain.ErrPermissionDeny.Error(),
					"redirect": decision.Location,
				})
			}
		}
	}
}
