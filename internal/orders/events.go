package orders

import (
	"context"
	"encoding/json"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/serhattastan/foodfleet/pkg/db/models"
)

const eventOrderPlaced = "order.placed"

// EventPublisher emits order lifecycle events. Publishing is best effort;
// checkout never fails because an event did not go out.
type EventPublisher interface {
	Publish(ctx context.Context, payload []byte, attributes map[string]string) error
}

// orderPlacedEvent is the wire payload for the order.placed event.
type orderPlacedEvent struct {
	OrderID    string    `json:"order_id"`
	Owner      string    `json:"owner"`
	TotalPrice int64     `json:"total_price"`
	CouponCode string    `json:"coupon_code"`
	LineCount  int       `json:"line_count"`
	PlacedAt   time.Time `json:"placed_at"`
}

func encodeOrderPlaced(record models.OrderRecord) ([]byte, map[string]string, error) {
	payload, err := json.Marshal(orderPlacedEvent{
		OrderID:    record.ID.String(),
		Owner:      record.Owner,
		TotalPrice: record.TotalPrice,
		CouponCode: record.CouponCode,
		LineCount:  len(record.Lines),
		PlacedAt:   record.PlacedAt,
	})
	if err != nil {
		return nil, nil, err
	}
	attrs := map[string]string{"event": eventOrderPlaced}
	return payload, attrs, nil
}

// TopicPublisher adapts a Pub/Sub publisher handle to EventPublisher.
type TopicPublisher struct {
	publisher *pubsub.Publisher
}

// NewTopicPublisher wraps the given publisher handle.
func NewTopicPublisher(publisher *pubsub.Publisher) *TopicPublisher {
	return &TopicPublisher{publisher: publisher}
}

// Publish sends the message and waits for the server acknowledgement.
func (t *TopicPublisher) Publish(ctx context.Context, payload []byte, attributes map[string]string) error {
	if t == nil || t.publisher == nil {
		return nil
	}
	result := t.publisher.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: attributes,
	})
	_, err := result.Get(ctx)
	return err
}
