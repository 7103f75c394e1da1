package application

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"

	"github.com/google/uuid"
)

const orderNumberPrefix = "ORD-"

func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("%s%06d", orderNumberPrefix, n)
}

type OrderService struct {
	repo   ports.OrderRepository
	logger ports.Logger
}

func NewOrderService(repo ports.OrderRepository, logger ports.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

func validateItems(items []domain.OrderItem) error {
	if len(items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" || item.Quantity <= 0 || item.Price < 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// Create persists a new order. Persisting it is what fires the order-created
// notification downstream.
func (s *OrderService) Create(ctx context.Context, actor domain.Principal, order domain.Order) (domain.Order, error) {
	if err := validateItems(order.Items); err != nil {
		return domain.Order{}, err
	}
	if order.ShippingCost < 0 || strings.TrimSpace(order.Customer.Name) == "" {
		return domain.Order{}, domain.ErrInvalidInput
	}
	seq, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("allocate order number: %w", err)
	}
	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.OrderNumber = FormatOrderNumber(seq)
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.NewString()
		}
	}
	order.Total = order.ComputeTotal()
	if order.Status == "" {
		order.Status = domain.OrderPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentUnpaid
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = domain.PaymentCash
	}
	order.CreatedBy = actor.Label()
	order.UpdatedBy = actor.Label()
	order.CreatedAt = now
	order.UpdatedAt = now
	if err := s.repo.Create(ctx, order); err != nil {
		return domain.Order{}, err
	}
	s.logger.Info(ctx, "order created", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total)
	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, id string) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, domain.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// List returns matching orders, newest first.
func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if filter.Match(o) {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b domain.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

type OrderUpdate struct {
	Status         *domain.OrderStatus
	PaymentStatus  *domain.PaymentStatus
	PaymentMethod  *domain.PaymentMethod
	Items          []domain.OrderItem
	ShippingCost   *float64
	DeliveryDate   *string
	DeliveryTime   *string
	TrackingNumber *string
	Note           *string
}

func (s *OrderService) Update(ctx context.Context, actor domain.Principal, id string, upd OrderUpdate) (domain.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if upd.Items != nil {
		if err := validateItems(upd.Items); err != nil {
			return domain.Order{}, err
		}
		order.Items = upd.Items
	}
	if upd.ShippingCost != nil {
		if *upd.ShippingCost < 0 {
			return domain.Order{}, domain.ErrInvalidInput
		}
		order.ShippingCost = *upd.ShippingCost
	}
	setIf(&order.Status, upd.Status)
	setIf(&order.PaymentStatus, upd.PaymentStatus)
	setIf(&order.PaymentMethod, upd.PaymentMethod)
	setIf(&order.DeliveryDate, upd.DeliveryDate)
	setIf(&order.DeliveryTime, upd.DeliveryTime)
	setIf(&order.TrackingNumber, upd.TrackingNumber)
	setIf(&order.Note, upd.Note)
	order.Total = order.ComputeTotal()
	order.UpdatedBy = actor.Label()
	order.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, order); err != nil {
		return domain.Order{}, err
	}
	s.logger.Info(ctx, "order updated", "order_id", order.ID, "status", order.Status, "payment_status", order.PaymentStatus)
	return order, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "order deleted", "order_id", id)
	return nil
}

type TransactionSummary struct {
	Orders  []domain.Order `json:"orders"`
	Count   int            `json:"count"`
	Revenue float64        `json:"revenue"`
}

// Transactions lists paid orders in the window with their revenue.
func (s *OrderService) Transactions(ctx context.Context, from, to time.Time) (TransactionSummary, error) {
	orders, err := s.List(ctx, domain.OrderFilter{PaymentStatus: domain.PaymentPaid, From: from, To: to})
	if err != nil {
		return TransactionSummary{}, err
	}
	summary := TransactionSummary{Orders: orders, Count: len(orders)}
	for _, o := range orders {
		summary.Revenue += o.Total
	}
	return summary, nil
}

type ExportRange string

const (
	ExportMonth  ExportRange = "month"
	ExportAll    ExportRange = "all"
	ExportCustom ExportRange = "custom"
)

const dateLayout = "2006-01-02"

// ExportWindow turns an export range into a half-open [from, to) window.
// Custom ranges take inclusive YYYY-MM-DD dates.
func ExportWindow(r ExportRange, start, end string, now time.Time) (time.Time, time.Time, error) {
	switch r {
	case ExportAll:
		return time.Time{}, time.Time{}, nil
	case ExportMonth, "":
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return from, from.AddDate(0, 1, 0), nil
	case ExportCustom:
		from, err := time.ParseInLocation(dateLayout, start, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		to, err := time.ParseInLocation(dateLayout, end, now.Location())
		if err != nil || to.Before(from) {
			return time.Time{}, time.Time{}, domain.ErrInvalidInput
		}
		return from, to.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
}

func (s *OrderService) Export(ctx context.Context, r ExportRange, start, end string) ([]domain.Order, error) {
	from, to, err := ExportWindow(r, start, end, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.List(ctx, domain.OrderFilter{From: from, To: to})
}
