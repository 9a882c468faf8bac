package square

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Visionary-Advance/xoco-coffee/internal/config"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/order"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing
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
		return m
	}
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields ...logger.Field) logger.Logger {
	args := m.Called(fields)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) Sync() error {
	args := m.Called()
	return args.Error(0)
}

// newTestClient shortens retry backoff so failure paths do not stall the
// test run.
func newTestClient(cfg config.SquareConfig, log logger.Logger) *Client {
	return &Client{
		cfg:       cfg,
		transport: newTransport(transportConfig{RetryBackoff: 5 * time.Millisecond}),
		log:       log,
	}
}

func testConfig(baseURL string) config.SquareConfig {
	return config.SquareConfig{
		Environment: "sandbox",
		AccessToken: "test-access-token",
		LocationID:  "LOC-1",
		BaseURL:     baseURL,
		AuthBaseURL: baseURL,
		Version:     "2023-10-18",
	}
}

func TestClient_ListCatalog_Success(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2023-10-18", r.Header.Get("Square-Version"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"objects": [
				{"type": "CATEGORY", "id": "CAT-1", "category_data": {"name": "Espresso Drinks"}},
				{"type": "IMAGE", "id": "IMG-1", "image_data": {"url": "https://cdn.example.com/latte.jpg"}},
				{"type": "MODIFIER_LIST", "id": "ML-TEMP", "modifier_list_data": {
					"name": "Temperature",
					"modifiers": [
						{"type": "MODIFIER", "id": "MOD-HOT", "modifier_data": {"name": "Hot"}},
						{"type": "MODIFIER", "id": "MOD-ICED", "modifier_data": {"name": "Iced", "price_money": {"amount": 50, "currency": "USD"}}}
					]
				}},
				{"type": "ITEM", "id": "ITEM-LATTE", "item_data": {
					"name": "Latte",
					"description": "Espresso with steamed milk",
					"category_id": "CAT-1",
					"image_ids": ["IMG-1"],
					"variations": [
						{"type": "ITEM_VARIATION", "id": "VAR-12", "item_variation_data": {"name": "12oz", "price_money": {"amount": 450, "currency": "USD"}}},
						{"type": "ITEM_VARIATION", "id": "VAR-16", "item_variation_data": {"name": "16oz", "price_money": {"amount": 525, "currency": "USD"}}}
					],
					"modifier_list_info": [{"modifier_list_id": "ML-TEMP"}]
				}}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(testConfig(server.URL), mockLog)

	mockLog.On("Info", mock.Anything, mock.Anything).Return()

	// Act
	items, err := client.ListCatalog(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, items, 1)

	latte := items[0]
	assert.Equal(t, "ITEM-LATTE", latte.ID)
	assert.Equal(t, "Latte", latte.Name)
	assert.Equal(t, "Espresso Drinks", latte.Category)
	assert.Equal(t, "https://cdn.example.com/latte.jpg", latte.Image)
	assert.Equal(t, 4.50, latte.Price)
	require.Len(t, latte.Variations, 2)
	assert.Equal(t, "12oz", latte.Variations[0].Name)
	assert.Equal(t, 5.25, *latte.Variations[1].Price)

	require.Len(t, latte.Modifiers, 1)
	temp := latte.Modifiers[0]
	assert.True(t, temp.IsTemperature())
	require.Len(t, temp.Modifiers, 2)
	assert.Equal(t, 0.50, temp.Modifiers[1].Price)

	mockLog.AssertExpectations(t)
}

func TestClient_ListCatalog_Pagination(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)
	calls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("cursor") == "" {
			w.Write([]byte(`{
				"objects": [{"type": "ITEM", "id": "ITEM-1", "item_data": {"name": "Drip Coffee"}}],
				"cursor": "page-2"
			}`))
			return
		}
		assert.Equal(t, "page-2", r.URL.Query().Get("cursor"))
		w.Write([]byte(`{
			"objects": [{"type": "ITEM", "id": "ITEM-2", "item_data": {"name": "Cold Brew"}}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(testConfig(server.URL), mockLog)

	mockLog.On("Info", mock.Anything, mock.Anything).Return()

	// Act
	items, err := client.ListCatalog(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, items, 2)
	assert.Equal(t, "Drip Coffee", items[0].Name)
	assert.Equal(t, "Cold Brew", items[1].Name)
	mockLog.AssertExpectations(t)
}

func TestClient_ListCatalog_EmptyAccessToken(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)
	cfg := testConfig("https://connect.squareupsandbox.com")
	cfg.AccessToken = ""

	client := newTestClient(cfg, mockLog)

	// Act
	items, err := client.ListCatalog(context.Background())

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "access token is empty")
	assert.Nil(t, items)
}

func submitRequest() *order.Request {
	return &order.Request{
		IdempotencyKey: "idem-123",
		CustomerName:   "Ada",
		LocationID:     "LOC-1",
		Method:         order.PayOnline,
		SourceID:       "cnon:card-nonce",
		Lines: []order.LineItem{
			{Name: "16oz Iced Latte", Quantity: 2, UnitPrice: 5.75, Note: "Size: 16oz | Temp: Iced", VariationName: "16oz"},
		},
		Subtotal: 11.50,
		Tip:      1.73,
		Total:    13.23,
	}
}

func TestClient_CreateOrder_Online(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)

	var captured createOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"order": {"id": "ORDER-1", "state": "OPEN", "created_at": "2026-03-01T17:04:05Z",
				"total_money": {"amount": 1323, "currency": "USD"}}
		}`))
	}))
	defer server.Close()

	client := newTestClient(testConfig(server.URL), mockLog)

	// Act
	created, err := client.CreateOrder(context.Background(), submitRequest())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", created.ID)
	assert.Equal(t, "OPEN", created.Status)
	assert.Equal(t, int64(1323), created.TotalCents)
	assert.Equal(t, 2026, created.CreatedAt.Year())

	assert.Equal(t, "idem-123", captured.IdempotencyKey)
	assert.Equal(t, "LOC-1", captured.Order.LocationID)
	require.Len(t, captured.Order.LineItems, 1)
	assert.Equal(t, "16oz Iced Latte", captured.Order.LineItems[0].Name)
	assert.Equal(t, "2", captured.Order.LineItems[0].Quantity)
	assert.Equal(t, int64(575), captured.Order.LineItems[0].BasePriceMoney.Amount)
	assert.Nil(t, captured.Order.Source)
	assert.Empty(t, captured.Order.Fulfillments)
}

func TestClient_CreateOrder_PayInStore(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)

	var captured createOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order": {"id": "ORDER-2", "state": "OPEN", "total_money": {"amount": 1150, "currency": "USD"}}}`))
	}))
	defer server.Close()

	client := newTestClient(testConfig(server.URL), mockLog)

	req := submitRequest()
	req.Method = order.PayInStore
	req.SourceID = ""

	// Act
	created, err := client.CreateOrder(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ORDER-2", created.ID)

	require.NotNil(t, captured.Order.Source)
	assert.Equal(t, "OPEN", captured.Order.State)
	require.Len(t, captured.Order.Fulfillments, 1)
	fulfillment := captured.Order.Fulfillments[0]
	assert.Equal(t, "PICKUP", fulfillment.Type)
	assert.Equal(t, "PROPOSED", fulfillment.State)
	require.NotNil(t, fulfillment.PickupDetails)
	assert.Equal(t, "Ada", fulfillment.PickupDetails.Recipient.DisplayName)
	assert.Equal(t, "UNPAID", captured.Order.Metadata["paymentStatus"])
	assert.Contains(t, captured.Order.Note, "PAY IN STORE")
}

func TestClient_CreateOrder_Rejected(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": [{"category": "INVALID_REQUEST_ERROR", "code": "VALUE_TOO_LOW", "detail": "order total must be positive"}]}`))
	}))
	defer server.Close()

	client := newTestClient(testConfig(server.URL), mockLog)

	// Act
	created, err := client.CreateOrder(context.Background(), submitRequest())

	// Assert
	assert.Nil(t, created)
	var provErr *order.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadRequest, provErr.Status)
	assert.Contains(t, provErr.Detail, "order total must be positive")
}

func TestClient_CreatePayment_Card(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)

	var captured createPaymentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/payments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"payment": {"id": "PAY-1", "status": "COMPLETED", "receipt_url": "https://squareup.com/receipt/PAY-1",
				"amount_money": {"amount": 1323, "currency": "USD"}, "created_at": "2026-03-01T17:04:06Z"}
		}`))
	}))
	defer server.Close()

	client := newTestClient(testConfig(server.URL), mockLog)

	// Act
	payment, err := client.CreatePayment(context.Background(), order.PaymentRequest{
		IdempotencyKey: "idem-123-pay",
		SourceID:       "cnon:card-nonce",
		OrderID:        "ORDER-1",
		AmountCents:    1323,
		ReferenceID:    "Ada",
		Note:           "Order: 2x 16oz Iced Latte",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", payment.ID)
	assert.Equal(t, "COMPLETED", payment.Status)
	assert.Equal(t, int64(1323), payment.AmountCents)
	assert.Equal(t, "https://squareup.com/receipt/PAY-1", payment.ReceiptURL)

	assert.Equal(t, "idem-123-pay", captured.IdempotencyKey)
	assert.Equal(t, "cnon:card-nonce", captured.SourceID)
	assert.Equal(t, "ORDER-1", captured.OrderID)
	assert.Equal(t, "LOC-1", captured.LocationID)
	assert.Nil(t, captured.ExternalDetails)
}

func TestClient_CreatePayment_ExternalPending(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)

	var captured createPaymentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"payment": {"id": "PAY-2", "status": "PENDING", "amount_money": {"amount": 1150, "currency": "USD"}}}`))
	}))
	defer server.Close()

	client := newTestClient(testConfig(server.URL), mockLog)

	// Act
	payment, err := client.CreatePayment(context.Background(), order.PaymentRequest{
		IdempotencyKey: "idem-123-pending",
		OrderID:        "ORDER-2",
		AmountCents:    1150,
		External:       true,
		CustomerName:   "Ada",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "PENDING", payment.Status)

	assert.Equal(t, "EXTERNAL", captured.SourceID)
	require.NotNil(t, captured.ExternalDetails)
	assert.Equal(t, "OTHER", captured.ExternalDetails.Type)
	assert.Equal(t, "instore-ORDER-2", captured.ExternalDetails.SourceID)
}

func TestClient_CreatePayment_Declined(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"errors": [{"category": "PAYMENT_METHOD_ERROR", "code": "CARD_DECLINED", "detail": "card was declined"}]}`))
	}))
	defer server.Close()

	client := newTestClient(testConfig(server.URL), mockLog)

	// Act
	payment, err := client.CreatePayment(context.Background(), order.PaymentRequest{
		IdempotencyKey: "idem-123-pay",
		SourceID:       "cnon:card-nonce",
		OrderID:        "ORDER-1",
		AmountCents:    1323,
	})

	// Assert
	assert.Nil(t, payment)
	var provErr *order.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Detail, "card was declined")
}

func TestClient_ExchangeCode_Success(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)

	var captured map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth2/token", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "sq0atp-token",
			"refresh_token": "sq0rtp-token",
			"merchant_id": "MERCHANT-1",
			"expires_at": "2026-04-01T00:00:00Z"
		}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.ApplicationID = "app-id"
	cfg.ApplicationSecret = "app-secret"
	client := newTestClient(cfg, mockLog)

	// Act
	grant, err := client.ExchangeCode(context.Background(), "auth-code", "https://xococoffee.com/api/square/callback")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sq0atp-token", grant.AccessToken)
	assert.Equal(t, "sq0rtp-token", grant.RefreshToken)
	assert.Equal(t, "MERCHANT-1", grant.MerchantID)
	assert.Equal(t, 2026, grant.ExpiresAt.Year())

	assert.Equal(t, "authorization_code", captured["grant_type"])
	assert.Equal(t, "auth-code", captured["code"])
	assert.Equal(t, "app-id", captured["client_id"])
}

func TestClient_ExchangeCode_Rejected(t *testing.T) {
	// Arrange
	mockLog := new(MockLogger)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid_grant", "error_description": "authorization code expired"}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.ApplicationID = "app-id"
	cfg.ApplicationSecret = "app-secret"
	client := newTestClient(cfg, mockLog)

	// Act
	grant, err := client.ExchangeCode(context.Background(), "stale-code", "https://xococoffee.com/api/square/callback")

	// Assert
	assert.Nil(t, grant)
	var provErr *order.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Detail, "authorization code expired")
}
