package dynamodb

import (
	"context"

	"bakery-backoffice/internal/domain"
)

type customerRecord struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ID         string `dynamodbav:"ID"`
	Name       string `dynamodbav:"Name"`
	Phone      string `dynamodbav:"Phone"`
	Address    string `dynamodbav:"Address,omitempty"`
	Note       string `dynamodbav:"Note,omitempty"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func customerToRecord(c domain.Customer) customerRecord {
	return customerRecord{
		PK:         customerPK(c.ID),
		SK:         metaSK,
		EntityType: entityCustomer,
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		Address:    c.Address,
		Note:       c.Note,
		CreatedAt:  formatTime(c.CreatedAt),
	}
}

func customerFromRecord(r customerRecord) domain.Customer {
	return domain.Customer{
		ID:        r.ID,
		Name:      r.Name,
		Phone:     r.Phone,
		Address:   r.Address,
		Note:      r.Note,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

type CustomerRepository struct{ client *Client }

func NewCustomerRepository(client *Client) *CustomerRepository {
	return &CustomerRepository{client: client}
}

func (r *CustomerRepository) Create(ctx context.Context, c domain.Customer) error {
	return r.client.putNew(ctx, "DynamoDB.PutCustomer", customerToRecord(c))
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	var rec customerRecord
	if err := r.client.get(ctx, "DynamoDB.GetCustomer", customerPK(id), metaSK, &rec); err != nil {
		return domain.Customer{}, err
	}
	return customerFromRecord(rec), nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	items, err := r.client.queryEntity(ctx, "DynamoDB.QueryCustomers", entityCustomer)
	if err != nil {
		return nil, err
	}
	return unmarshalAll(items, customerFromRecord)
}

// Update keeps the stored CreatedAt.
func (r *CustomerRepository) Update(ctx context.Context, c domain.Customer) error {
	current, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt = current.CreatedAt
	return r.client.put(ctx, "DynamoDB.UpdateCustomer", customerToRecord(c), true)
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	return r.client.delete(ctx, "DynamoDB.DeleteCustomer", customerPK(id), metaSK)
}
