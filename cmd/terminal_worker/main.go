package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/Visionary-Advance/xoco-coffee/internal/config"
	"github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/encoding/avro"
	kafkainfra "github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/messaging/kafka"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"
)

// terminalHandler surfaces each placed order to the in-store terminal log.
type terminalHandler struct {
	log logger.Logger
}

func (h *terminalHandler) HandleOrderPlaced(ctx context.Context, event *avro.OrderPlaced) error {
	h.log.Info("NEW ORDER",
		logger.String("order_id", event.OrderID),
		logger.String("customer", event.CustomerName),
		logger.String("payment", event.PaymentMethod),
		logger.String("summary", event.Summary),
		logger.Int64("total_cents", event.TotalCents),
	)
	for _, line := range event.Lines {
		h.log.Info("  line",
			logger.String("name", line.Name),
			logger.Int64("quantity", line.Quantity),
			logger.String("note", line.Note),
		)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	zlog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("create logger failed: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := kafkainfra.NewOrderEventConsumer(cfg.Kafka, &terminalHandler{log: zlog}, zlog)
	if err != nil {
		zlog.Fatal("create consumer failed", logger.Error(err))
	}
	defer consumer.Close()

	zlog.Info("terminal worker listening",
		logger.String("topic", cfg.Kafka.OrderTopic),
		logger.String("group", cfg.Kafka.ConsumerGroup),
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Fatal("consumer stopped", logger.Error(err))
	}
}
