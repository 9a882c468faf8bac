package kafka

import (
	"context"
	"fmt"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/order"
	"github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/encoding/avro"
)

// publisher is the slice of the producer the notifier needs.
type publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// OrderNotifier encodes placed orders as Avro and hands them to the
// producer. It implements the checkout notifier port.
type OrderNotifier struct {
	producer publisher
	encoder  *avro.Encoder
}

func NewOrderNotifier(producer *OrderEventProducer) (*OrderNotifier, error) {
	encoder, err := avro.NewEncoder(avro.OrderPlacedSchema)
	if err != nil {
		return nil, err
	}
	return &OrderNotifier{producer: producer, encoder: encoder}, nil
}

func (n *OrderNotifier) OrderPlaced(ctx context.Context, req *order.Request, res *order.Result) error {
	payload, err := n.encoder.EncodeNative(avro.OrderPlacedNative(req, res))
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	return n.producer.Publish(ctx, res.OrderID, payload)
}
