package dynamodb

import (
	"context"
	"errors"
	"strconv"
	"time"

	"bakery-backoffice/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awsv2xray "github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"
)

// EntityIndex is the GSI keyed by EntityType (partition) and CreatedAt (sort)
// that backs every List operation.
const EntityIndex = "EntityTypeIndex"

const (
	entityPrincipal   = "USER"
	entityOrder       = "ORDER"
	entityCounter     = "COUNTER"
	entityCustomer    = "CUSTOMER"
	entityIngredient  = "INGREDIENT"
	entityProduct     = "PRODUCT"
	entityRecipe      = "RECIPE"
	entityDestination = "DESTINATION"
)

// API is the subset of the DynamoDB client the repositories use.
type API interface {
	PutItem(ctx context.Context, in *awsv2dynamodb.PutItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *awsv2dynamodb.GetItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *awsv2dynamodb.UpdateItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *awsv2dynamodb.DeleteItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *awsv2dynamodb.QueryInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *awsv2dynamodb.ScanInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.ScanOutput, error)
}

type Client struct {
	db        API
	tableName string
}

func NewClient(ctx context.Context, region, tableName string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	awsv2xray.AWSV2Instrumentor(&cfg.APIOptions)
	return NewClientWithAPI(awsv2dynamodb.NewFromConfig(cfg), tableName), nil
}

func NewClientWithAPI(db API, tableName string) *Client {
	return &Client{db: db, tableName: tableName}
}

func principalPK(id string) string   { return "USER#" + id }
func orderPK(id string) string       { return "ORDER#" + id }
func customerPK(id string) string    { return "CUSTOMER#" + id }
func ingredientPK(id string) string  { return "INGREDIENT#" + id }
func productPK(id string) string     { return "PRODUCT#" + id }
func recipePK(id string) string      { return "RECIPE#" + id }
func destinationPK(id string) string { return "DEST#" + id }

const (
	metaSK         = "META"
	counterPK      = "COUNTER"
	orderCounterSK = "ORDER"
)

func key(pk, sk string) map[string]awsv2types.AttributeValue {
	return map[string]awsv2types.AttributeValue{
		"PK": &awsv2types.AttributeValueMemberS{Value: pk},
		"SK": &awsv2types.AttributeValueMemberS{Value: sk},
	}
}

func isConditionalCheckFailure(err error) bool {
	var condErr *awsv2types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseTime(raw string) time.Time {
	t, _ := time.Parse(time.RFC3339, raw)
	return t
}

// putNew writes item only if its key does not exist yet.
func (c *Client) putNew(ctx context.Context, segment string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, segment, func(ctx context.Context) error {
		_, err := c.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName:           aws.String(c.tableName),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrConflict
		}
		return err
	})
}

// put writes item. When mustExist is set, a missing key is ErrNotFound.
func (c *Client) put(ctx context.Context, segment string, item any, mustExist bool) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	in := &awsv2dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      av,
	}
	if mustExist {
		in.ConditionExpression = aws.String("attribute_exists(PK)")
	}
	return xray.Capture(ctx, segment, func(ctx context.Context) error {
		_, err := c.db.PutItem(ctx, in)
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (c *Client) get(ctx context.Context, segment, pk, sk string, out any) error {
	var res *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, segment, func(ctx context.Context) error {
		var e error
		res, e = c.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName: aws.String(c.tableName),
			Key:       key(pk, sk),
		})
		return e
	})
	if err != nil {
		return err
	}
	if res.Item == nil {
		return domain.ErrNotFound
	}
	return attributevalue.UnmarshalMap(res.Item, out)
}

func (c *Client) delete(ctx context.Context, segment, pk, sk string) error {
	return xray.Capture(ctx, segment, func(ctx context.Context) error {
		_, err := c.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName:           aws.String(c.tableName),
			Key:                 key(pk, sk),
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

// queryEntity returns every item of one entity type, newest first.
func (c *Client) queryEntity(ctx context.Context, segment, entityType string) ([]map[string]awsv2types.AttributeValue, error) {
	var items []map[string]awsv2types.AttributeValue
	err := xray.Capture(ctx, segment, func(ctx context.Context) error {
		p := awsv2dynamodb.NewQueryPaginator(c.db, &awsv2dynamodb.QueryInput{
			TableName:              aws.String(c.tableName),
			IndexName:              aws.String(EntityIndex),
			KeyConditionExpression: aws.String("EntityType = :t"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":t": &awsv2types.AttributeValueMemberS{Value: entityType},
			},
			ScanIndexForward: aws.Bool(false),
		})
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return err
			}
			items = append(items, page.Items...)
		}
		return nil
	})
	return items, err
}

// scanEntity reads the whole table filtered to one entity type.
func (c *Client) scanEntity(ctx context.Context, segment, entityType string) ([]map[string]awsv2types.AttributeValue, error) {
	var items []map[string]awsv2types.AttributeValue
	err := xray.Capture(ctx, segment, func(ctx context.Context) error {
		p := awsv2dynamodb.NewScanPaginator(c.db, &awsv2dynamodb.ScanInput{
			TableName:        aws.String(c.tableName),
			FilterExpression: aws.String("EntityType = :t"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":t": &awsv2types.AttributeValueMemberS{Value: entityType},
			},
		})
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return err
			}
			items = append(items, page.Items...)
		}
		return nil
	})
	return items, err
}

func unmarshalAll[R any, T any](items []map[string]awsv2types.AttributeValue, convert func(R) T) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		var rec R
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, err
		}
		out = append(out, convert(rec))
	}
	return out, nil
}
