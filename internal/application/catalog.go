package application

import (
	"context"
	"strings"
	"time"

	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/google/uuid"
)

type CatalogService struct {
	products ports.ProductRepository
	recipes  ports.RecipeRepository
	logger   ports.Logger
}

func NewCatalogService(products ports.ProductRepository, recipes ports.RecipeRepository, logger ports.Logger) *CatalogService {
	return &CatalogService{products: products, recipes: recipes, logger: logger}
}

func validProduct(p domain.Product) bool {
	if strings.TrimSpace(p.Name) == "" || p.Price < 0 {
		return false
	}
	for _, r := range p.Recipes {
		if r.RecipeID == "" || r.Quantity <= 0 {
			return false
		}
	}
	for _, m := range p.Materials {
		if m.MaterialID == "" || m.Quantity <= 0 {
			return false
		}
	}
	return p.Status == domain.ProductActive || p.Status == domain.ProductInactive
}

// SaveProduct creates the product when ID is empty and replaces it otherwise.
func (s *CatalogService) SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.Status == "" {
		p.Status = domain.ProductActive
	}
	if !validProduct(p) {
		return domain.Product{}, domain.ErrInvalidInput
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = time.Now().UTC()
	} else {
		existing, err := s.products.GetByID(ctx, p.ID)
		if err != nil {
			return domain.Product{}, err
		}
		p.CreatedAt = existing.CreatedAt
	}
	if err := s.products.Put(ctx, p); err != nil {
		return domain.Product{}, err
	}
	s.logger.Info(ctx, "product saved", "product_id", p.ID)
	return p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, domain.ErrInvalidInput
	}
	return s.products.GetByID(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) SaveRecipe(ctx context.Context, r domain.Recipe) (domain.Recipe, error) {
	if strings.TrimSpace(r.Name) == "" || r.WasteRate < 0 || r.WasteRate > 1 {
		return domain.Recipe{}, domain.ErrInvalidInput
	}
	for i, ing := range r.Ingredients {
		if ing.IngredientID == "" || ing.Quantity <= 0 {
			return domain.Recipe{}, domain.ErrInvalidInput
		}
		r.Ingredients[i].Unit = domain.NormalizeUnit(string(ing.Unit))
	}
	now := time.Now().UTC()
	if r.ID == "" {
		r.ID = uuid.NewString()
		r.CreatedAt = now
	} else {
		existing, err := s.recipes.GetByID(ctx, r.ID)
		if err != nil {
			return domain.Recipe{}, err
		}
		r.CreatedAt = existing.CreatedAt
	}
	r.UpdatedAt = now
	if err := s.recipes.Put(ctx, r); err != nil {
		return domain.Recipe{}, err
	}
	s.logger.Info(ctx, "recipe saved", "recipe_id", r.ID)
	return r, nil
}

func (s *CatalogService) GetRecipe(ctx context.Context, id string) (domain.Recipe, error) {
	if id == "" {
		return domain.Recipe{}, domain.ErrInvalidInput
	}
	return s.recipes.GetByID(ctx, id)
}

func (s *CatalogService) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	return s.recipes.List(ctx)
}

func (s *CatalogService) DeleteRecipe(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.recipes.Delete(ctx, id)
}
