package http

import (
	"errors"
	stdhttp "net/http"
	"time"

	"bakery-backoffice/internal/adapters/http/middleware"
	"bakery-backoffice/internal/application"
	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/labstack/echo/v4"
)

func handleError(c echo.Context, logger ports.Logger, err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(stdhttp.StatusBadRequest, map[string]any{"error": domain.ErrInvalidInput.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrPermissionDeny), errors.Is(err, domain.ErrInactiveAccount):
		return c.JSON(stdhttp.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(stdhttp.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.JSON(stdhttp.StatusConflict, map[string]string{"error": err.Error()})
	default:
		logger.Error(c.Request().Context(), "request failed", "path", c.Path(), "error", err.Error())
		return c.JSON(stdhttp.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// actor returns the resolved principal; gated routes only run with one.
func actor(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrPermissionDeny
	}
	return p, nil
}

// dateParam parses an optional YYYY-MM-DD query parameter. When endOfDay is
// set the result is the start of the following day, for half-open windows.
func dateParam(c echo.Context, name string, endOfDay bool) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

type SessionHandler struct {
	service *application.PrincipalService
	logger  ports.Logger
}

func NewSessionHandler(service *application.PrincipalService, logger ports.Logger) *SessionHandler {
	return &SessionHandler{service: service, logger: logger}
}

// SignIn registers or refreshes the caller's principal.
func (h *SessionHandler) SignIn(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(stdhttp.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}
	p, err := h.service.SignIn(c.Request().Context(), id)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, p)
}

func (h *SessionHandler) Current(c echo.Context) error {
	s := middleware.SessionFrom(c)
	switch s.State {
	case domain.SessionResolved:
		return c.JSON(stdhttp.StatusOK, map[string]any{"status": "resolved", "principal": s.Principal})
	case domain.SessionPending:
		return middleware.WriteWait(c)
	default:
		return c.JSON(stdhttp.StatusUnauthorized, map[string]string{"status": "absent"})
	}
}

type UsersHandler struct {
	service *application.PrincipalService
	logger  ports.Logger
}

func NewUsersHandler(service *application.PrincipalService, logger ports.Logger) *UsersHandler {
	return &UsersHandler{service: service, logger: logger}
}

func (h *UsersHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, users)
}

func (h *UsersHandler) Update(c echo.Context) error {
	var req struct {
		Role       *string `json:"role"`
		Status     *string `json:"status" validate:"omitempty,oneof=pending active inactive"`
		CustomName *string `json:"custom_name" validate:"omitempty,max=80"`
	}
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	var patch application.PrincipalPatch
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return handleError(c, h.logger, err)
		}
		patch.Role = &role
	}
	if req.Status != nil {
		status, err := domain.ParsePrincipalStatus(*req.Status)
		if err != nil {
			return handleError(c, h.logger, err)
		}
		patch.Status = &status
	}
	patch.CustomName = req.CustomName
	who, err := actor(c)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	p, err := h.service.Update(c.Request().Context(), who, c.Param("id"), patch)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, p)
}

type NavigationHandler struct {
	service *application.NavigationService
}

func NewNavigationHandler(service *application.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: service}
}

// Menu lists the views the session may open.
func (h *NavigationHandler) Menu(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]any{"routes": h.service.Menu(middleware.SessionFrom(c))})
}

func (h *NavigationHandler) Decide(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "path is required"})
	}
	d := h.service.Decide(path, middleware.SessionFrom(c))
	body := map[string]any{"decision": d.Kind.String()}
	if d.Kind == domain.DecisionRedirect {
		body["location"] = d.Location
		body["replace"] = d.Replace()
	}
	return c.JSON(stdhttp.StatusOK, body)
}

type CustomersHandler struct {
	service *application.CustomerService
	logger  ports.Logger
}

func NewCustomersHandler(service *application.CustomerService, logger ports.Logger) *CustomersHandler {
	return &CustomersHandler{service: service, logger: logger}
}

type customerRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"max=300"`
	Note    string `json:"note" validate:"max=500"`
}

func (r customerRequest) toDomain(id string) domain.Customer {
	return domain.Customer{ID: id, Name: r.Name, Phone: r.Phone, Address: r.Address, Note: r.Note}
}

func (h *CustomersHandler) Create(c echo.Context) error {
	var req customerRequest
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	customer, err := h.service.Create(c.Request().Context(), req.toDomain(""))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, customer)
}

func (h *CustomersHandler) Update(c echo.Context) error {
	var req customerRequest
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	if err := h.service.Update(c.Request().Context(), req.toDomain(c.Param("id"))); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusOK)
}

func (h *CustomersHandler) Get(c echo.Context) error {
	customer, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, customer)
}

func (h *CustomersHandler) List(c echo.Context) error {
	customers, err := h.service.List(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, customers)
}

func (h *CustomersHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}

type DestinationsHandler struct {
	service *application.DestinationService
	logger  ports.Logger
}

func NewDestinationsHandler(service *application.DestinationService, logger ports.Logger) *DestinationsHandler {
	return &DestinationsHandler{service: service, logger: logger}
}

func (h *DestinationsHandler) Register(c echo.Context) error {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	d, err := h.service.Register(c.Request().Context(), req.Token)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, map[string]string{"id": d.ID})
}
