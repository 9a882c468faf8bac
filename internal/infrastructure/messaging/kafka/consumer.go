package kafka

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Visionary-Advance/xoco-coffee/internal/config"
	"github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/encoding/avro"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"
)

// EventHandler receives each decoded order event in consumption order.
type EventHandler interface {
	HandleOrderPlaced(ctx context.Context, event *avro.OrderPlaced) error
}

// OrderEventConsumer reads terminal order events from Kafka and feeds them
// to the handler. Malformed records are logged and skipped so one bad
// message cannot wedge the worker.
type OrderEventConsumer struct {
	reader  *kafkago.Reader
	encoder *avro.Encoder
	handler EventHandler
	logger  logger.Logger
}

func NewOrderEventConsumer(cfg config.KafkaConfig, handler EventHandler, log logger.Logger) (*OrderEventConsumer, error) {
	encoder, err := avro.NewEncoder(avro.OrderPlacedSchema)
	if err != nil {
		return nil, err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    cfg.OrderTopic,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})

	return &OrderEventConsumer{
		reader:  reader,
		encoder: encoder,
		handler: handler,
		logger:  log,
	}, nil
}

func (c *OrderEventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		native, err := c.encoder.DecodeNative(msg.Value)
		if err != nil {
			c.logger.Warn("skipping undecodable order event",
				logger.String("key", string(msg.Key)),
				logger.Error(err),
			)
			continue
		}

		event, err := avro.OrderPlacedFromNative(native)
		if err != nil {
			c.logger.Warn("skipping malformed order event",
				logger.String("key", string(msg.Key)),
				logger.Error(err),
			)
			continue
		}

		if err := c.handler.HandleOrderPlaced(ctx, event); err != nil {
			return fmt.Errorf("handle order event %s: %w", event.OrderID, err)
		}
	}
}

func (c *OrderEventConsumer) Close() {
	_ = c.reader.Close()
}
