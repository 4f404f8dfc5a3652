package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pizza-store/internal/connections/rabbitmq"
	"pizza-store/internal/domain"
)

const Exchange = "orders_topic"

// Publisher pushes order lifecycle events to interested consumers (kitchen
// displays, notification bots). Publishing is best effort from the ordering
// session's point of view: callers log failures but the order stands.
type Publisher interface {
	OrderPlaced(ctx context.Context, o domain.Order, lines []domain.OrderLine) error
	OrderStatusChanged(ctx context.Context, orderID int64, status string) error
}

type placedMessage struct {
	OrderID    int64              `json:"order_id"`
	Login      string             `json:"login"`
	StoreID    int                `json:"store_id"`
	TotalPrice string             `json:"total_price"`
	Status     string             `json:"status"`
	Timestamp  time.Time          `json:"timestamp"`
	Lines      []domain.OrderLine `json:"lines"`
}

type statusMessage struct {
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type amqpPublisher struct {
	client *rabbitmq.Client
}

// NewAMQP declares the topic exchange and returns a publisher bound to it.
func NewAMQP(client *rabbitmq.Client) (Publisher, error) {
	if err := client.ExchangeDeclare(Exchange, "topic"); err != nil {
		return nil, fmt.Errorf("declare %s: %w", Exchange, err)
	}
	return &amqpPublisher{client: client}, nil
}

func (p *amqpPublisher) OrderPlaced(ctx context.Context, o domain.Order, lines []domain.OrderLine) error {
	body, err := json.Marshal(placedMessage{
		OrderID:    o.OrderID,
		Login:      o.Login,
		StoreID:    o.StoreID,
		TotalPrice: o.TotalPrice.StringFixed(2),
		Status:     o.Status,
		Timestamp:  o.OrderTime,
		Lines:      lines,
	})
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}
	return p.client.Publish(ctx, Exchange, "order.placed", body)
}

func (p *amqpPublisher) OrderStatusChanged(ctx context.Context, orderID int64, status string) error {
	body, err := json.Marshal(statusMessage{
		OrderID:   orderID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	return p.client.Publish(ctx, Exchange, "order.status_changed", body)
}

// Noop stands in when no broker is configured.
type Noop struct{}

func (Noop) OrderPlaced(context.Context, domain.Order, []domain.OrderLine) error {
	return nil
}

func (Noop) OrderStatusChanged(context.Context, int64, string) error {
	return nil
}
