package application

import (
	"context"
	"fmt"

	"bakery-backoffice/internal/domain"
	"bakery-backoffice/internal/ports"
)

const (
	DefaultNotifyTitle      = "Tiệm bánh Cúc Quy"
	DefaultNotifyLink       = "https://cucquy.vercel.app/orders"
	orderBodyFormat         = "Có đơn hàng mới: %s"
	missingOrderNumberLabel = "Không có số đơn"
)

// OrderCreatedEvent is one order-creation delivery from the store. Order is
// nil when the payload was absent or could not be decoded.
type OrderCreatedEvent struct {
	EventID string
	Order   *domain.Order
}

type DispatchSummary struct {
	Skipped      bool                 `json:"skipped"`
	SkipReason   string               `json:"skip_reason,omitempty"`
	TokenCount   int                  `json:"token_count"`
	SuccessCount int                  `json:"success_count"`
	FailureCount int                  `json:"failure_count"`
	Failures     []ports.PushResponse `json:"-"`
}

type NotifierConfig struct {
	Title string
	Link  string
}

// OrderNotifier fans a single push notification out to every registered
// destination when an order is created. Delivery is best effort: failed
// tokens are logged and never fail the invocation.
type OrderNotifier struct {
	destinations ports.DestinationRepository
	sender       ports.PushSender
	logger       ports.Logger
	cfg          NotifierConfig
}

func NewOrderNotifier(destinations ports.DestinationRepository, sender ports.PushSender, logger ports.Logger, cfg NotifierConfig) *OrderNotifier {
	if cfg.Title == "" {
		cfg.Title = DefaultNotifyTitle
	}
	if cfg.Link == "" {
		cfg.Link = DefaultNotifyLink
	}
	return &OrderNotifier{destinations: destinations, sender: sender, logger: logger, cfg: cfg}
}

func (n *OrderNotifier) BuildMessage(order domain.Order, tokens []string) ports.PushMessage {
	number := order.OrderNumber
	if number == "" {
		number = missingOrderNumberLabel
	}
	return ports.PushMessage{
		Notification: ports.PushNotification{
			Title: n.cfg.Title,
			Body:  fmt.Sprintf(orderBodyFormat, number),
		},
		Link:   n.cfg.Link,
		Tokens: tokens,
	}
}

func usableTokens(destinations []domain.NotificationDestination) []string {
	tokens := make([]string, 0, len(destinations))
	for _, d := range destinations {
		if d.Token != "" {
			tokens = append(tokens, d.Token)
		}
	}
	return tokens
}

// HandleOrderCreated errors only when the registry read or the send call
// itself fails; those are left to the hosting platform's retry policy.
func (n *OrderNotifier) HandleOrderCreated(ctx context.Context, event OrderCreatedEvent) (DispatchSummary, error) {
	if event.Order == nil {
		n.logger.Warn(ctx, "order event without payload, skipping", "event_id", event.EventID)
		return DispatchSummary{Skipped: true, SkipReason: "missing payload"}, nil
	}
	order := *event.Order

	destinations, err := n.destinations.ListAll(ctx)
	if err != nil {
		return DispatchSummary{}, fmt.Errorf("list push destinations: %w", err)
	}
	tokens := usableTokens(destinations)
	if len(tokens) == 0 {
		n.logger.Warn(ctx, "no push destinations registered, skipping",
			"event_id", event.EventID, "order_id", order.ID, "destinations", len(destinations))
		return DispatchSummary{Skipped: true, SkipReason: "no destinations"}, nil
	}

	result, err := n.sender.SendMulticast(ctx, n.BuildMessage(order, tokens))
	if err != nil {
		return DispatchSummary{}, fmt.Errorf("send order notification: %w", err)
	}

	summary := DispatchSummary{TokenCount: len(tokens), SuccessCount: result.SuccessCount}
	for _, r := range result.Responses {
		if !r.Success {
			summary.Failures = append(summary.Failures, r)
		}
	}
	summary.FailureCount = len(summary.Failures)

	n.logger.Info(ctx, "order notification sent",
		"event_id", event.EventID, "order_number", order.OrderNumber,
		"tokens", len(tokens), "success_count", summary.SuccessCount)
	for _, f := range summary.Failures {
		n.logger.Error(ctx, "push delivery failed",
			"event_id", event.EventID, "token", maskToken(f.Token), "error", errString(f.Err))
	}
	return summary, nil
}

func maskToken(token string) string {
	const keep = 8
	if len(token) <= keep {
		return token
	}
	return "…" + token[len(token)-keep:]
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
