package ports

import (
	"context"
	"time"

	"bakery-backoffice/internal/domain"
)

type PrincipalRepository interface {
	Create(ctx context.Context, p domain.Principal) error
	GetByID(ctx context.Context, id string) (domain.Principal, error)
	List(ctx context.Context) ([]domain.Principal, error)
	Update(ctx context.Context, p domain.Principal) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

type OrderRepository interface {
	NextOrderNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id string) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer) error
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) error
	Delete(ctx context.Context, id string) error
}

type IngredientRepository interface {
	Create(ctx context.Context, ing domain.Ingredient) error
	GetByID(ctx context.Context, id string) (domain.Ingredient, error)
	List(ctx context.Context) ([]domain.Ingredient, error)
	Update(ctx context.Context, ing domain.Ingredient) error
	AppendHistory(ctx context.Context, id string, entry domain.IngredientHistoryEntry) error
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	Put(ctx context.Context, p domain.Product) error
	GetByID(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type RecipeRepository interface {
	Put(ctx context.Context, r domain.Recipe) error
	GetByID(ctx context.Context, id string) (domain.Recipe, error)
	List(ctx context.Context) ([]domain.Recipe, error)
	Delete(ctx context.Context, id string) error
}

// DestinationRepository is the push-destination registry. ListAll is an
// unfiltered scan of every registered destination.
type DestinationRepository interface {
	Add(ctx context.Context, d domain.NotificationDestination) error
	ListAll(ctx context.Context) ([]domain.NotificationDestination, error)
}
