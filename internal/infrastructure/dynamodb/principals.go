package dynamodb

import (
	"context"
	"time"

	"bakery-backoffice/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-xray-sdk-go/xray"
)

type principalRecord struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	EntityType  string `dynamodbav:"EntityType"`
	ID          string `dynamodbav:"ID"`
	Email       string `dynamodbav:"Email"`
	DisplayName string `dynamodbav:"DisplayName"`
	CustomName  string `dynamodbav:"CustomName,omitempty"`
	Role        string `dynamodbav:"Role"`
	Status      string `dynamodbav:"Status"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	LastLoginAt string `dynamodbav:"LastLoginAt"`
}

func principalToRecord(p domain.Principal) principalRecord {
	return principalRecord{
		PK:          principalPK(p.ID),
		SK:          metaSK,
		EntityType:  entityPrincipal,
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		CustomName:  p.CustomName,
		Role:        string(p.Role),
		Status:      string(p.Status),
		CreatedAt:   formatTime(p.CreatedAt),
		LastLoginAt: formatTime(p.LastLoginAt),
	}
}

// principalFromRecord tolerates legacy role spellings and unknown statuses;
// anything unrecognised becomes a pending collaborator.
func principalFromRecord(r principalRecord) domain.Principal {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		role = domain.RoleCollaborator
	}
	status, err := domain.ParsePrincipalStatus(r.Status)
	if err != nil {
		status = domain.StatusPending
	}
	return domain.Principal{
		ID:          r.ID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		CustomName:  r.CustomName,
		Role:        role,
		Status:      status,
		CreatedAt:   parseTime(r.CreatedAt),
		LastLoginAt: parseTime(r.LastLoginAt),
	}
}

type PrincipalRepository struct{ client *Client }

func NewPrincipalRepository(client *Client) *PrincipalRepository {
	return &PrincipalRepository{client: client}
}

func (r *PrincipalRepository) Create(ctx context.Context, p domain.Principal) error {
	return r.client.putNew(ctx, "DynamoDB.PutPrincipal", principalToRecord(p))
}

func (r *PrincipalRepository) GetByID(ctx context.Context, id string) (domain.Principal, error) {
	var rec principalRecord
	if err := r.client.get(ctx, "DynamoDB.GetPrincipal", principalPK(id), metaSK, &rec); err != nil {
		return domain.Principal{}, err
	}
	return principalFromRecord(rec), nil
}

func (r *PrincipalRepository) List(ctx context.Context) ([]domain.Principal, error) {
	items, err := r.client.queryEntity(ctx, "DynamoDB.QueryPrincipals", entityPrincipal)
	if err != nil {
		return nil, err
	}
	return unmarshalAll(items, principalFromRecord)
}

func (r *PrincipalRepository) Update(ctx context.Context, p domain.Principal) error {
	return xray.Capture(ctx, "DynamoDB.UpdatePrincipal", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName:        aws.String(r.client.tableName),
			Key:              key(principalPK(p.ID), metaSK),
			UpdateExpression: aws.String("SET #r = :r, #s = :s, CustomName = :n"),
			ExpressionAttributeNames: map[string]string{
				"#r": "Role",
				"#s": "Status",
			},
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":r": &awsv2types.AttributeValueMemberS{Value: string(p.Role)},
				":s": &awsv2types.AttributeValueMemberS{Value: string(p.Status)},
				":n": &awsv2types.AttributeValueMemberS{Value: p.CustomName},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}

func (r *PrincipalRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	return xray.Capture(ctx, "DynamoDB.TouchPrincipal", func(ctx context.Context) error {
		_, err := r.client.db.UpdateItem(ctx, &awsv2dynamodb.UpdateItemInput{
			TableName:        aws.String(r.client.tableName),
			Key:              key(principalPK(id), metaSK),
			UpdateExpression: aws.String("SET LastLoginAt = :t"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":t": &awsv2types.AttributeValueMemberS{Value: formatTime(at)},
			},
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return domain.ErrNotFound
		}
		return err
	})
}
