package dynamodb

import (
	"context"

	"bakery-backoffice/internal/domain"
)

type destinationRecord struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ID         string `dynamodbav:"ID"`
	Token      string `dynamodbav:"Token"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func destinationFromRecord(r destinationRecord) domain.NotificationDestination {
	return domain.NotificationDestination{ID: r.ID, Token: r.Token, CreatedAt: parseTime(r.CreatedAt)}
}

// DestinationRepository stores push destinations. Tokens are not
// deduplicated or expired.
type DestinationRepository struct{ client *Client }

func NewDestinationRepository(client *Client) *DestinationRepository {
	return &DestinationRepository{client: client}
}

func (r *DestinationRepository) Add(ctx context.Context, d domain.NotificationDestination) error {
	return r.client.putNew(ctx, "DynamoDB.PutDestination", destinationRecord{
		PK:         destinationPK(d.ID),
		SK:         metaSK,
		EntityType: entityDestination,
		ID:         d.ID,
		Token:      d.Token,
		CreatedAt:  formatTime(d.CreatedAt),
	})
}

// ListAll scans the table for every destination, following pagination.
func (r *DestinationRepository) ListAll(ctx context.Context) ([]domain.NotificationDestination, error) {
	items, err := r.client.scanEntity(ctx, "DynamoDB.ScanDestinations", entityDestination)
	if err != nil {
		return nil, err
	}
	return unmarshalAll(items, destinationFromRecord)
}
