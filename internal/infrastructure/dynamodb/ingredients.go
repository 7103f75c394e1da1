package dynamodb

import (
	"context"
	"time"

	"bakery-backoffice/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-xray-sdk-go/xray"
)

type ingredientRecord struct {
	PK              string                   `dynamodbav:"PK"`
	SK              string                   `dynamodbav:"SK"`
	EntityType      string                   `dynamodbav:"EntityType"`
	ID              string                   `dynamodbav:"ID"`
	Name            string                   `dynamodbav:"Name"`
	Type            string                   `dynamodbav:"Type"`
	InitialQuantity float64                  `dynamodbav:"InitialQuantity"`
	Unit            string                   `dynamodbav:"Unit"`
	History         []domain.RawHistoryEntry `dynamodbav:"History"`
	CreatedAt       string                   `dynamodbav:"CreatedAt"`
	UpdatedAt       string                   `dynamodbav:"UpdatedAt"`
}

func historyToRaw(e domain.IngredientHistoryEntry) domain.RawHistoryEntry {
	return domain.RawHistoryEntry{
		ID:             e.ID,
		Type:           string(e.Type),
		FromQuantity:   aws.Float64(e.FromQuantity),
		ImportQuantity: aws.Float64(e.ImportQuantity),
		Unit:           string(e.Unit),
		Note:           e.Note,
		Price:          aws.Float64(e.Price),
		SupplierID:     e.SupplierID,
		SupplierName:   e.SupplierName,
		CreatedAt:      formatTime(e.CreatedAt),
	}
}

func ingredientToRecord(i domain.Ingredient) ingredientRecord {
	history := make([]domain.RawHistoryEntry, 0, len(i.History))
	for _, h := range i.History {
		history = append(history, historyToRaw(h))
	}
	return ingredientRecord{
		PK:              ingredientPK(i.ID),
		SK:              metaSK,
		EntityType:      entityIngredient,
		ID:              i.ID,
		Name:            i.Name,
		Type:            string(i.Type),
		InitialQuantity: i.InitialQuantity,
		Unit:            string(i.Unit),
		History:         history,
		CreatedAt:       formatTime(i.CreatedAt),
		UpdatedAt:       formatTime(i.UpdatedAt),
	}
}

// ingredientFromRecord normalizes history written by older clients.
func ingredientFromRecord(r ingredientRecord) domain.Ingredient {
	now := time.Now().UTC()
	history := make([]domain.IngredientHistoryEntry, 0, len(r.History))
	for _, raw := range r.History {
		history = append(history, domain.NormalizeHistoryEntry(r.ID, raw, now))
	}
	return domain.Ingredient{
		ID:              r.ID,
		Name:            r.Name,
		Type:            domain.NormalizeIngredientType(r.Type),
		InitialQuantity: r.InitialQuantity,
		Unit:            domain.NormalizeUnit(r.Unit),
		History:         history,
		CreatedAt:       parseTime(r.CreatedAt),
		UpdatedAt:       parseTime(r.UpdatedAt),
	}
}

type IngredientRepository struct{ client *Client }

func NewIngredientRepository(client *Client) *IngredientRepository {
	return &IngredientRepository{client: client}
}

func (r *IngredientRepository) Create(ctx context.Context, ing domain.Ingredient) error {
	return r.client.putNew(ctx, "DynamoDB.PutIngredient", ingredientToRecord(ing))
}

func (r *IngredientRepository) GetByID(ctx context.Context, id string) (domain.Ingredient, error) {
	var rec ingredientRecord
	if err := r.client.get(ctx, "DynamoDB.GetIngredient", ingredientPK(id), metaSK, &rec); err != nil {
		return domain.Ingredient{}, err
	}
	return ingredientFromRecord(rec), nil
}

func (r *IngredientRepository) List(ctx context.Context) ([]domain.Ingredient, error) {
	items, err := r.client.queryEntity(ctx, "DynamoDB.QueryIngredients", entityIngredient)
	if err != nil {
		return nil, err
	}
	return unmarshalAll(items, ingredientFromRecord)
}

// Update rewrites the descriptive fields and leaves History untouched.
func (r *IngredientRepository) Update(ctx context.Context, ing domain.Ingredient) error {
	return xray.Capture(ctx, "DynamoDB.UpdateIngredient", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName:        aws.String(r.client.tableName),
			Key:              key(ingredientPK(ing.ID), metaSK),
			UpdateExpression: aws.String("SET #n = :n, #t = :t, InitialQuantity = :q, #u = :u, UpdatedAt = :at"),
			ExpressionAttributeNames: map[string]string{
				"#n": "Name",
				"#t": "Type",
				"#u": "Unit",
			},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":n":  &awsv2types.AttributeValueMemberS{Value: ing.Name},
				":t":  &awsv2types.AttributeValueMemberS{Value: string(ing.Type)},
				":q":  &awsv2types.AttributeValueMemberN{Value: formatNumber(ing.InitialQuantity)},
				":u":  &awsv2types.AttributeValueMemberS{Value: string(ing.Unit)},
				":at": &awsv2types.AttributeValueMemberS{Value: formatTime(ing.UpdatedAt)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

// AppendHistory adds one entry to the end of the ingredient's history list.
func (r *IngredientRepository) AppendHistory(ctx context.Context, id string, entry domain.IngredientHistoryEntry) error {
	av, err := attributevalue.Marshal([]domain.RawHistoryEntry{historyToRaw(entry)})
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.AppendIngredientHistory", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName:        aws.String(r.client.tableName),
			Key:              key(ingredientPK(id), metaSK),
			UpdateExpression:         aws.String("SET #h = list_append(if_not_exists(#h, :empty), :h), UpdatedAt = :at"),
			ExpressionAttributeNames: map[string]string{"#h": "History"},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":h":     av,
				":empty": &awsv2types.AttributeValueMemberL{Value: []awsv2types.AttributeValue{}},
				":at":    &awsv2types.AttributeValueMemberS{Value: formatTime(entry.CreatedAt)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *IngredientRepository) Delete(ctx context.Context, id string) error {
	return r.client.delete(ctx, "DynamoDB.DeleteIngredient", ingredientPK(id), metaSK)
}
