package http

import (
	stdhttp "net/http"

	"bakery-backoffice/internal/application"
	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/labstack/echo/v4"
)

type IngredientsHandler struct {
	service *application.InventoryService
	logger  ports.Logger
}

func NewIngredientsHandler(service *application.InventoryService, logger ports.Logger) *IngredientsHandler {
	return &IngredientsHandler{service: service, logger: logger}
}

type ingredientRequest struct {
	Name            string  `json:"name" validate:"required,max=120"`
	Type            string  `json:"type"`
	InitialQuantity float64 `json:"initial_quantity" validate:"gte=0"`
	Unit            string  `json:"unit"`
}

func (r ingredientRequest) toDomain(id string) domain.Ingredient {
	return domain.Ingredient{
		ID:              id,
		Name:            r.Name,
		Type:            domain.IngredientType(r.Type),
		InitialQuantity: r.InitialQuantity,
		Unit:            domain.Unit(r.Unit),
	}
}

func (h *IngredientsHandler) Create(c echo.Context) error {
	var req ingredientRequest
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	ing, err := h.service.Create(c.Request().Context(), req.toDomain(""))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, ing)
}

func (h *IngredientsHandler) Update(c echo.Context) error {
	var req ingredientRequest
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	if err := h.service.Update(c.Request().Context(), req.toDomain(c.Param("id"))); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusOK)
}

func (h *IngredientsHandler) Get(c echo.Context) error {
	ing, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, ing)
}

func (h *IngredientsHandler) List(c echo.Context) error {
	ings, err := h.service.List(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, ings)
}

func (h *IngredientsHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}

func (h *IngredientsHandler) AppendHistory(c echo.Context) error {
	var req struct {
		Type           string  `json:"type" validate:"omitempty,oneof=IMPORT EXPORT ADJUSTMENT import export adjustment"`
		ImportQuantity float64 `json:"import_quantity"`
		Unit           string  `json:"unit"`
		Note           string  `json:"note" validate:"max=500"`
		Price          float64 `json:"price" validate:"gte=0"`
		SupplierID     string  `json:"supplier_id"`
		SupplierName   string  `json:"supplier_name"`
	}
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	entry, err := h.service.AppendHistory(c.Request().Context(), c.Param("id"), domain.IngredientHistoryEntry{
		Type:           domain.HistoryType(req.Type),
		ImportQuantity: req.ImportQuantity,
		Unit:           domain.Unit(req.Unit),
		Note:           req.Note,
		Price:          req.Price,
		SupplierID:     req.SupplierID,
		SupplierName:   req.SupplierName,
	})
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusCreated, entry)
}

// History is the consumption report across every ingredient.
func (h *IngredientsHandler) History(c echo.Context) error {
	from, err := dateParam(c, "from", false)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	to, err := dateParam(c, "to", true)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	filter := domain.HistoryFilter{From: from, To: to}
	if t := c.QueryParam("type"); t != "" {
		filter.Type = domain.NormalizeHistoryType(t)
	}
	report, err := h.service.ConsumptionReport(c.Request().Context(), filter)
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, report)
}
