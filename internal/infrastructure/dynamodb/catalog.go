package dynamodb

import (
	"context"

	"bakery-backoffice/internal/domain"
)

type productRecord struct {
	PK          string                   `dynamodbav:"PK"`
	SK          string                   `dynamodbav:"SK"`
	EntityType  string                   `dynamodbav:"EntityType"`
	ID          string                   `dynamodbav:"ID"`
	Name        string                   `dynamodbav:"Name"`
	Price       float64                  `dynamodbav:"Price"`
	Image       string                   `dynamodbav:"Image,omitempty"`
	Category    string                   `dynamodbav:"Category"`
	Description string                   `dynamodbav:"Description,omitempty"`
	Status      string                   `dynamodbav:"Status"`
	Recipes     []domain.ProductRecipe   `dynamodbav:"Recipes,omitempty"`
	Materials   []domain.ProductMaterial `dynamodbav:"Materials,omitempty"`
	CreatedAt   string                   `dynamodbav:"CreatedAt"`
}

type recipeRecord struct {
	PK             string                    `dynamodbav:"PK"`
	SK             string                    `dynamodbav:"SK"`
	EntityType     string                    `dynamodbav:"EntityType"`
	ID             string                    `dynamodbav:"ID"`
	Name           string                    `dynamodbav:"Name"`
	Description    string                    `dynamodbav:"Description,omitempty"`
	Ingredients    []domain.RecipeIngredient `dynamodbav:"Ingredients"`
	Instructions   string                    `dynamodbav:"Instructions,omitempty"`
	Yield          float64                   `dynamodbav:"Yield,omitempty"`
	YieldUnit      string                    `dynamodbav:"YieldUnit,omitempty"`
	OutputQuantity float64                   `dynamodbav:"OutputQuantity,omitempty"`
	WasteRate      float64                   `dynamodbav:"WasteRate,omitempty"`
	CreatedAt      string                    `dynamodbav:"CreatedAt"`
	UpdatedAt      string                    `dynamodbav:"UpdatedAt"`
}

func productToRecord(p domain.Product) productRecord {
	return productRecord{
		PK:          productPK(p.ID),
		SK:          metaSK,
		EntityType:  entityProduct,
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		Status:      string(p.Status),
		Recipes:     p.Recipes,
		Materials:   p.Materials,
		CreatedAt:   formatTime(p.CreatedAt),
	}
}

func productFromRecord(r productRecord) domain.Product {
	status := domain.ProductStatus(r.Status)
	if status != domain.ProductInactive {
		status = domain.ProductActive
	}
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.Category,
		Description: r.Description,
		Status:      status,
		Recipes:     r.Recipes,
		Materials:   r.Materials,
		CreatedAt:   parseTime(r.CreatedAt),
	}
}

func recipeToRecord(r domain.Recipe) recipeRecord {
	return recipeRecord{
		PK:             recipePK(r.ID),
		SK:             metaSK,
		EntityType:     entityRecipe,
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Ingredients:    r.Ingredients,
		Instructions:   r.Instructions,
		Yield:          r.Yield,
		YieldUnit:      r.YieldUnit,
		OutputQuantity: r.OutputQuantity,
		WasteRate:      r.WasteRate,
		CreatedAt:      formatTime(r.CreatedAt),
		UpdatedAt:      formatTime(r.UpdatedAt),
	}
}

func recipeFromRecord(r recipeRecord) domain.Recipe {
	for i := range r.Ingredients {
		r.Ingredients[i].Unit = domain.NormalizeUnit(string(r.Ingredients[i].Unit))
	}
	return domain.Recipe{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Ingredients:    r.Ingredients,
		Instructions:   r.Instructions,
		Yield:          r.Yield,
		YieldUnit:      r.YieldUnit,
		OutputQuantity: r.OutputQuantity,
		WasteRate:      r.WasteRate,
		CreatedAt:      parseTime(r.CreatedAt),
		UpdatedAt:      parseTime(r.UpdatedAt),
	}
}

type ProductRepository struct{ client *Client }

func NewProductRepository(client *Client) *ProductRepository {
	return &ProductRepository{client: client}
}

func (r *ProductRepository) Put(ctx context.Context, p domain.Product) error {
	return r.client.put(ctx, "DynamoDB.PutProduct", productToRecord(p), false)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (domain.Product, error) {
	var rec productRecord
	if err := r.client.get(ctx, "DynamoDB.GetProduct", productPK(id), metaSK, &rec); err != nil {
		return domain.Product{}, err
	}
	return productFromRecord(rec), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	items, err := r.client.queryEntity(ctx, "DynamoDB.QueryProducts", entityProduct)
	if err != nil {
		return nil, err
	}
	return unmarshalAll(items, productFromRecord)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.client.delete(ctx, "DynamoDB.DeleteProduct", productPK(id), metaSK)
}

type RecipeRepository struct{ client *Client }

func NewRecipeRepository(client *Client) *RecipeRepository {
	return &RecipeRepository{client: client}
}

func (r *RecipeRepository) Put(ctx context.Context, recipe domain.Recipe) error {
	return r.client.put(ctx, "DynamoDB.PutRecipe", recipeToRecord(recipe), false)
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (domain.Recipe, error) {
	var rec recipeRecord
	if err := r.client.get(ctx, "DynamoDB.GetRecipe", recipePK(id), metaSK, &rec); err != nil {
		return domain.Recipe{}, err
	}
	return recipeFromRecord(rec), nil
}

func (r *RecipeRepository) List(ctx context.Context) ([]domain.Recipe, error) {
	items, err := r.client.queryEntity(ctx, "DynamoDB.QueryRecipes", entityRecipe)
	if err != nil {
		return nil, err
	}
	return unmarshalAll(items, recipeFromRecord)
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	return r.client.delete(ctx, "DynamoDB.DeleteRecipe", recipePK(id), metaSK)
}
