package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/order"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLogger is a mock for the logger.Logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields ...logger.Field) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithContext(ctx context.Context) logger.Logger {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields ...logger.Field) logger.Logger {
	args := m.Called(fields)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) Sync() error {
	args := m.Called()
	return args.Error(0)
}

func TestOrderEventProducer_Publish_EmptyPayload(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)
	producer := &OrderEventProducer{
		topic:  "storefront_orders",
		logger: mockLog,
	}

	// Act
	err := producer.Publish(context.Background(), "ORDER-1", []byte{})

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "payload is empty")
}

func TestOrderEventProducer_Close(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)
	producer := &OrderEventProducer{
		topic:  "storefront_orders",
		logger: mockLog,
	}

	mockLog.On("Info", "Closing Kafka producer", mock.Anything).Return()

	// Act
	err := producer.Close(context.Background())

	// Assert
	assert.NoError(t, err)
	mockLog.AssertExpectations(t)
}

type capturingPublisher struct {
	key     string
	payload []byte
	err     error
}

func (p *capturingPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	p.key = key
	p.payload = payload
	return p.err
}

func TestOrderNotifier_OrderPlaced(t *testing.T) {
	// Arrange
	notifier, err := NewOrderNotifier(nil)
	require.NoError(t, err)
	captured := &capturingPublisher{}
	notifier.producer = captured

	req := &order.Request{
		CustomerName: "Ada",
		Method:       order.PayInStore,
		Lines: []order.LineItem{
			{Name: "Drip Coffee", Quantity: 1, UnitPrice: 3.00},
		},
		Subtotal: 3.00,
	}
	res := &order.Result{
		OrderID:      "ORDER-1",
		Status:       "OPEN",
		TotalCents:   300,
		Currency:     "USD",
		Summary:      "1x Drip Coffee",
		CustomerName: "Ada",
		CreatedAt:    time.Now(),
	}

	// Act
	err = notifier.OrderPlaced(context.Background(), req, res)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", captured.key)
	assert.NotEmpty(t, captured.payload)
}
