package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"bakery-backoffice/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-xray-sdk-go/xray"
)

// OrderEntityType marks order items; the notifier stream filter matches it.
const OrderEntityType = entityOrder

type orderRecord struct {
	PK             string             `dynamodbav:"PK"`
	SK             string             `dynamodbav:"SK"`
	EntityType     string             `dynamodbav:"EntityType"`
	ID             string             `dynamodbav:"ID"`
	OrderNumber    string             `dynamodbav:"OrderNumber"`
	Customer       domain.Customer    `dynamodbav:"Customer"`
	Items          []domain.OrderItem `dynamodbav:"Items"`
	Total          float64            `dynamodbav:"Total"`
	ShippingCost   float64            `dynamodbav:"ShippingCost"`
	Status         string             `dynamodbav:"Status"`
	PaymentStatus  string             `dynamodbav:"PaymentStatus"`
	PaymentMethod  string             `dynamodbav:"PaymentMethod"`
	DeliveryDate   string             `dynamodbav:"DeliveryDate,omitempty"`
	DeliveryTime   string             `dynamodbav:"DeliveryTime,omitempty"`
	TrackingNumber string             `dynamodbav:"TrackingNumber,omitempty"`
	Note           string             `dynamodbav:"Note,omitempty"`
	CreatedBy      string             `dynamodbav:"CreatedBy,omitempty"`
	UpdatedBy      string             `dynamodbav:"UpdatedBy,omitempty"`
	CreatedAt      string             `dynamodbav:"CreatedAt"`
	UpdatedAt      string             `dynamodbav:"UpdatedAt"`
}

func orderToRecord(o domain.Order) orderRecord {
	return orderRecord{
		PK:             orderPK(o.ID),
		SK:             metaSK,
		EntityType:     entityOrder,
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		Customer:       o.Customer,
		Items:          o.Items,
		Total:          o.Total,
		ShippingCost:   o.ShippingCost,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		PaymentMethod:  string(o.PaymentMethod),
		DeliveryDate:   o.DeliveryDate,
		DeliveryTime:   o.DeliveryTime,
		TrackingNumber: o.TrackingNumber,
		Note:           o.Note,
		CreatedBy:      o.CreatedBy,
		UpdatedBy:      o.UpdatedBy,
		CreatedAt:      formatTime(o.CreatedAt),
		UpdatedAt:      formatTime(o.UpdatedAt),
	}
}

func orderFromRecord(r orderRecord) domain.Order {
	return domain.Order{
		ID:             r.ID,
		OrderNumber:    r.OrderNumber,
		Customer:       r.Customer,
		Items:          r.Items,
		Total:          r.Total,
		ShippingCost:   r.ShippingCost,
		Status:         domain.OrderStatus(r.Status),
		PaymentStatus:  domain.PaymentStatus(r.PaymentStatus),
		PaymentMethod:  domain.PaymentMethod(r.PaymentMethod),
		DeliveryDate:   r.DeliveryDate,
		DeliveryTime:   r.DeliveryTime,
		TrackingNumber: r.TrackingNumber,
		Note:           r.Note,
		CreatedBy:      r.CreatedBy,
		UpdatedBy:      r.UpdatedBy,
		CreatedAt:      parseTime(r.CreatedAt),
		UpdatedAt:      parseTime(r.UpdatedAt),
	}
}

// DecodeOrder converts a stored order item, such as a stream NewImage, into
// an order. Items of any other entity type are rejected.
func DecodeOrder(item map[string]awsv2types.AttributeValue) (domain.Order, error) {
	var rec orderRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.Order{}, err
	}
	if rec.EntityType != entityOrder {
		return domain.Order{}, fmt.Errorf("entity type %q is not an order: %w", rec.EntityType, domain.ErrInvalidInput)
	}
	return orderFromRecord(rec), nil
}

type OrderRepository struct{ client *Client }

func NewOrderRepository(client *Client) *OrderRepository {
	return &OrderRepository{client: client}
}

// NextOrderNumber atomically increments the order counter and returns the
// new value. The first call returns 1.
func (r *OrderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	var out *awsv2dynamodb.UpdateItemOutput
	err := xray.Capture(ctx, "DynamoDB.NextOrderNumber", func(ctx context.Context) error {
		var e error
		out, e = r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName:                aws.String(r.client.tableName),
			Key:                      key(counterPK, orderCounterSK),
			UpdateExpression:         aws.String("ADD #v :one SET EntityType = :t"),
			ExpressionAttributeNames: map[string]string{"#v": "Value"},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":one": &awsv2types.AttributeValueMemberN{Value: "1"},
				":t":   &awsv2types.AttributeValueMemberS{Value: entityCounter},
			},
			ReturnValues: awsv2types.ReturnValueUpdatedNew,
		})
		return e
	})
	if err != nil {
		return 0, err
	}
	n, ok := out.Attributes["Value"].(*awsv2types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("order counter returned no value")
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) error {
	return r.client.putNew(ctx, "DynamoDB.PutOrder", orderToRecord(order))
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	var rec orderRecord
	if err := r.client.get(ctx, "DynamoDB.GetOrder", orderPK(id), metaSK, &rec); err != nil {
		return domain.Order{}, err
	}
	return orderFromRecord(rec), nil
}

func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	items, err := r.client.queryEntity(ctx, "DynamoDB.QueryOrders", entityOrder)
	if err != nil {
		return nil, err
	}
	return unmarshalAll(items, orderFromRecord)
}

func (r *OrderRepository) Update(ctx context.Context, order domain.Order) error {
	return r.client.put(ctx, "DynamoDB.UpdateOrder", orderToRecord(order), true)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.client.delete(ctx, "DynamoDB.DeleteOrder", orderPK(id), metaSK)
}
