package application

import (
	"context"
	"strings"
	"time"

	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/google/uuid"
)

type InventoryService struct {
	repo   ports.IngredientRepository
	logger ports.Logger
}

func NewInventoryService(repo ports.IngredientRepository, logger ports.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger}
}

func (s *InventoryService) Create(ctx context.Context, ing domain.Ingredient) (domain.Ingredient, error) {
	ing.Name = strings.TrimSpace(ing.Name)
	if ing.Name == "" || ing.InitialQuantity < 0 {
		return domain.Ingredient{}, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	ing.ID = uuid.NewString()
	ing.Type = domain.NormalizeIngredientType(string(ing.Type))
	ing.Unit = domain.NormalizeUnit(string(ing.Unit))
	if ing.History == nil {
		ing.History = []domain.IngredientHistoryEntry{}
	}
	ing.CreatedAt = now
	ing.UpdatedAt = now
	if err := s.repo.Create(ctx, ing); err != nil {
		return domain.Ingredient{}, err
	}
	s.logger.Info(ctx, "ingredient created", "ingredient_id", ing.ID, "type", ing.Type)
	return ing, nil
}

// Update replaces name, type, unit and initial quantity. History is only
// changed through AppendHistory.
func (s *InventoryService) Update(ctx context.Context, ing domain.Ingredient) error {
	ing.Name = strings.TrimSpace(ing.Name)
	if ing.ID == "" || ing.Name == "" || ing.InitialQuantity < 0 {
		return domain.ErrInvalidInput
	}
	ing.Type = domain.NormalizeIngredientType(string(ing.Type))
	ing.Unit = domain.NormalizeUnit(string(ing.Unit))
	ing.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, ing)
}

func (s *InventoryService) GetByID(ctx context.Context, id string) (domain.Ingredient, error) {
	if id == "" {
		return domain.Ingredient{}, domain.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *InventoryService) List(ctx context.Context) ([]domain.Ingredient, error) {
	return s.repo.List(ctx)
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// AppendHistory records a stock movement; FromQuantity is the stock level
// before the movement.
func (s *InventoryService) AppendHistory(ctx context.Context, id string, entry domain.IngredientHistoryEntry) (domain.IngredientHistoryEntry, error) {
	if entry.Type == "" {
		entry.Type = domain.HistoryImport
	}
	entry.Type = domain.NormalizeHistoryType(string(entry.Type))
	if entry.Type != domain.HistoryAdjustment && entry.ImportQuantity <= 0 {
		return domain.IngredientHistoryEntry{}, domain.ErrInvalidInput
	}
	ing, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.IngredientHistoryEntry{}, err
	}
	entry.ID = uuid.NewString()
	entry.FromQuantity = ing.CurrentQuantity()
	if entry.Unit == "" {
		entry.Unit = ing.Unit
	}
	entry.Unit = domain.NormalizeUnit(string(entry.Unit))
	entry.CreatedAt = time.Now().UTC()
	if err := s.repo.AppendHistory(ctx, id, entry); err != nil {
		return domain.IngredientHistoryEntry{}, err
	}
	s.logger.Info(ctx, "ingredient history appended", "ingredient_id", id, "type", entry.Type, "quantity", entry.ImportQuantity)
	return entry, nil
}

func (s *InventoryService) ConsumptionReport(ctx context.Context, filter domain.HistoryFilter) (domain.ConsumptionReport, error) {
	ingredients, err := s.repo.List(ctx)
	if err != nil {
		return domain.ConsumptionReport{}, err
	}
	return domain.BuildConsumptionReport(ingredients, filter), nil
}
