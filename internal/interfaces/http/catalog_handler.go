package http

import (
	stdhttp "net/http"

	"bakery-backoffice/internal/application"
	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	service *application.CatalogService
	logger  ports.Logger
}

func NewCatalogHandler(service *application.CatalogService, logger ports.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

type productRequest struct {
	Name        string                   `json:"name" validate:"required,max=120"`
	Price       float64                  `json:"price" validate:"gte=0"`
	Image       string                   `json:"image" validate:"omitempty,url"`
	Category    string                   `json:"category"`
	Description string                   `json:"description"`
	Status      string                   `json:"status" validate:"omitempty,oneof=active inactive"`
	Recipes     []domain.ProductRecipe   `json:"recipes"`
	Materials   []domain.ProductMaterial `json:"materials"`
}

func (r productRequest) toDomain(id string) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        r.Name,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.Category,
		Description: r.Description,
		Status:      domain.ProductStatus(r.Status),
		Recipes:     r.Recipes,
		Materials:   r.Materials,
	}
}

type recipeRequest struct {
	Name           string                    `json:"name" validate:"required,max=120"`
	Description    string                    `json:"description"`
	Ingredients    []domain.RecipeIngredient `json:"ingredients"`
	Instructions   string                    `json:"instructions"`
	Yield          float64                   `json:"yield" validate:"gte=0"`
	YieldUnit      string                    `json:"yield_unit"`
	OutputQuantity float64                   `json:"output_quantity" validate:"gte=0"`
	WasteRate      float64                   `json:"waste_rate" validate:"gte=0,lte=1"`
}

func (r recipeRequest) toDomain(id string) domain.Recipe {
	return domain.Recipe{
		ID:             id,
		Name:           r.Name,
		Description:    r.Description,
		Ingredients:    r.Ingredients,
		Instructions:   r.Instructions,
		Yield:          r.Yield,
		YieldUnit:      r.YieldUnit,
		OutputQuantity: r.OutputQuantity,
		WasteRate:      r.WasteRate,
	}
}

func (h *CatalogHandler) saveProduct(c echo.Context, id string, status int) error {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	p, err := h.service.SaveProduct(c.Request().Context(), req.toDomain(id))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(status, p)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	return h.saveProduct(c, "", stdhttp.StatusCreated)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	return h.saveProduct(c, c.Param("id"), stdhttp.StatusOK)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	p, err := h.service.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, p)
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, products)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	if err := h.service.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}

func (h *CatalogHandler) saveRecipe(c echo.Context, id string, status int) error {
	var req recipeRequest
	if err := bind(c, &req); err != nil {
		return handleError(c, h.logger, err)
	}
	r, err := h.service.SaveRecipe(c.Request().Context(), req.toDomain(id))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(status, r)
}

func (h *CatalogHandler) CreateRecipe(c echo.Context) error {
	return h.saveRecipe(c, "", stdhttp.StatusCreated)
}

func (h *CatalogHandler) UpdateRecipe(c echo.Context) error {
	return h.saveRecipe(c, c.Param("id"), stdhttp.StatusOK)
}

func (h *CatalogHandler) GetRecipe(c echo.Context) error {
	r, err := h.service.GetRecipe(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, r)
}

func (h *CatalogHandler) ListRecipes(c echo.Context) error {
	recipes, err := h.service.ListRecipes(c.Request().Context())
	if err != nil {
		return handleError(c, h.logger, err)
	}
	return c.JSON(stdhttp.StatusOK, recipes)
}

func (h *CatalogHandler) DeleteRecipe(c echo.Context) error {
	if err := h.service.DeleteRecipe(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, h.logger, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}
