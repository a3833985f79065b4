package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_ordering/internal/domain"
	"github.com/segmentio/kafka-go"
)

// PaidPublisher announces fully-paid orders to downstream consumers
// (fulfilment, email).
type PaidPublisher struct {
	writer *kafka.Writer
}

func NewPaidPublisher(brokers ...string) *PaidPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-paid",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &PaidPublisher{writer: w}
}

func (p *PaidPublisher) PublishOrderPaid(ctx context.Context, order *domain.Order) error {
	payload := map[string]any{
		"order_id":        order.ID,
		"order_reference": order.OrderReference,
		"customer_id":     order.CustomerID,
		"amount":          order.Amount,
		"items":           order.Items,
		"paid_at":         time.Now().UTC(),
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal order-paid payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: payloadJSON,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order-paid event: %w", err)
	}
	return nil
}

func (p *PaidPublisher) Close() error {
	return p.writer.Close()
}
