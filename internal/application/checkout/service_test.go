package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/cart"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/order"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/pricing"
	"github.com/Visionary-Advance/xoco-coffee/internal/infrastructure/persistence/memory"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...logger.Field) {}
func (nopLogger) Info(string, ...logger.Field)  {}
func (nopLogger) Warn(string, ...logger.Field)  {}
func (nopLogger) Error(string, ...logger.Field) {}
func (nopLogger) Fatal(string, ...logger.Field) {}

func (n nopLogger) WithContext(context.Context) logger.Logger { return n }
func (n nopLogger) WithFields(...logger.Field) logger.Logger  { return n }
func (nopLogger) Sync() error                                 { return nil }

type fakeCarts struct {
	lines   cart.Lines
	cleared bool
}

func (f *fakeCarts) Get(ctx context.Context, key string) (cart.Lines, error) {
	return f.lines, nil
}

func (f *fakeCarts) Clear(ctx context.Context, key string) error {
	f.cleared = true
	f.lines = nil
	return nil
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateOrder(ctx context.Context, req *order.Request) (*order.Confirmation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Confirmation), args.Error(1)
}

func (m *mockProvider) CreatePayment(ctx context.Context, req order.PaymentRequest) (*order.PaymentConfirmation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.PaymentConfirmation), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) OrderPlaced(ctx context.Context, req *order.Request, res *order.Result) error {
	args := m.Called(ctx, req, res)
	return args.Error(0)
}

func checkoutCart() cart.Lines {
	return cart.Lines{
		{
			CartID: "line-1",
			ItemID: "ITEM-LATTE",
			Name:   "Latte",
			Size:   cart.SizeRef{ID: "VAR-16", Name: "16oz"},
			Selections: []cart.Selection{
				{ID: "MOD-ICED", Name: "Iced", GroupName: "Temperature"},
				{ID: "MOD-OAT", Name: "Oat Milk", Price: 0.50, GroupName: "Milk Options"},
			},
			SpecialInstructions: "light ice",
			Quantity:            2,
			UnitPrice:           5.75,
		},
		{
			CartID:    "line-2",
			ItemID:    "ITEM-COOKIE",
			Name:      "Chocolate Chip Cookie",
			Quantity:  1,
			UnitPrice: 3.00,
		},
	}
}

// Monday noon and Monday 6am against the default weekly hours.
var (
	openTime   = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	closedTime = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
)

func newCheckout(carts Carts, provider order.Provider, notifier Notifier) (*Service, *memory.IdempotencyRegistry) {
	registry := memory.NewIdempotencyRegistry()
	svc := NewService(carts, provider, registry, nil, notifier, "LOC-1", nopLogger{})
	svc.now = func() time.Time { return openTime }
	return svc, registry
}

func TestService_BuildOrder_Online(t *testing.T) {
	carts := &fakeCarts{lines: checkoutCart()}
	svc, _ := newCheckout(carts, new(mockProvider), nil)

	req, err := svc.BuildOrder(context.Background(), BuildParams{
		CartKey:      "session-1",
		CustomerName: "  Ada  ",
		Method:       order.PayOnline,
		SourceID:     "cnon:card-nonce",
		Tip:          pricing.TipSpec{Percent: 15},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, req.IdempotencyKey)
	assert.Equal(t, "Ada", req.CustomerName)
	assert.Equal(t, "LOC-1", req.LocationID)

	// 2 x 5.75 + 3.00 = 14.50; 15% tip = 2.18 rounded to the cent.
	assert.InDelta(t, 14.50, req.Subtotal, 1e-9)
	assert.InDelta(t, 2.18, req.Tip, 1e-9)
	assert.InDelta(t, 16.68, req.Total, 1e-9)

	require.Len(t, req.Lines, 3)
	assert.Equal(t, "16oz Iced Latte (Oat Milk, Note: light ice)", req.Lines[0].Name)
	assert.Equal(t, "Size: 16oz | Temp: Iced | Extras: Oat Milk | Instructions: light ice", req.Lines[0].Note)
	assert.Equal(t, "16oz", req.Lines[0].VariationName)
	assert.Equal(t, "Chocolate Chip Cookie", req.Lines[1].Name)
	assert.Empty(t, req.Lines[1].Note)

	tip := req.Lines[2]
	assert.Equal(t, "Tip", tip.Name)
	assert.Equal(t, 1, tip.Quantity)
	assert.InDelta(t, 2.18, tip.UnitPrice, 1e-9)
}

func TestService_BuildOrder_InStoreIgnoresTip(t *testing.T) {
	carts := &fakeCarts{lines: checkoutCart()}
	svc, _ := newCheckout(carts, new(mockProvider), nil)

	req, err := svc.BuildOrder(context.Background(), BuildParams{
		CartKey:      "session-1",
		CustomerName: "Ada",
		Method:       order.PayInStore,
		Tip:          pricing.TipSpec{Percent: 20},
	})

	require.NoError(t, err)
	assert.Zero(t, req.Tip)
	assert.Len(t, req.Lines, 2)
	assert.InDelta(t, 14.50, req.Total, 1e-9)
}

func TestService_BuildOrder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		lines  cart.Lines
		params BuildParams
		field  string
	}{
		{
			name:   "name too short",
			lines:  checkoutCart(),
			params: BuildParams{CustomerName: " A ", Method: order.PayInStore},
			field:  "customer_name",
		},
		{
			name:   "empty cart",
			lines:  nil,
			params: BuildParams{CustomerName: "Ada", Method: order.PayInStore},
			field:  "cart",
		},
		{
			name:   "online without card token",
			lines:  checkoutCart(),
			params: BuildParams{CustomerName: "Ada", Method: order.PayOnline},
			field:  "source_id",
		},
		{
			name:   "unknown payment method",
			lines:  checkoutCart(),
			params: BuildParams{CustomerName: "Ada", Method: "carrier-pigeon"},
			field:  "payment_method",
		},
		{
			name: "zero priced line",
			lines: cart.Lines{
				{CartID: "line-1", ItemID: "ITEM-X", Name: "Mystery", Quantity: 1, UnitPrice: 0},
			},
			params: BuildParams{CustomerName: "Ada", Method: order.PayInStore},
			field:  "unit_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newCheckout(&fakeCarts{lines: tt.lines}, new(mockProvider), nil)

			_, err := svc.BuildOrder(context.Background(), tt.params)

			var vErr *order.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestService_Submit_RefusedWhenClosed(t *testing.T) {
	provider := new(mockProvider)
	carts := &fakeCarts{lines: checkoutCart()}
	svc, _ := newCheckout(carts, provider, nil)

	req, err := svc.BuildOrder(context.Background(), BuildParams{
		CartKey: "session-1", CustomerName: "Ada", Method: order.PayInStore,
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return closedTime }

	res, err := svc.Submit(context.Background(), req, "session-1")

	assert.Nil(t, res)
	var closedErr *order.ClosedError
	assert.ErrorAs(t, err, &closedErr)
	provider.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	assert.False(t, carts.cleared)
}

func TestService_Submit_Online(t *testing.T) {
	provider := new(mockProvider)
	carts := &fakeCarts{lines: checkoutCart()}
	svc, _ := newCheckout(carts, provider, nil)

	req, err := svc.BuildOrder(context.Background(), BuildParams{
		CartKey:      "session-1",
		CustomerName: "Ada",
		Method:       order.PayOnline,
		SourceID:     "cnon:card-nonce",
		Tip:          pricing.TipSpec{Percent: 15},
	})
	require.NoError(t, err)

	provider.On("CreateOrder", mock.Anything, req).Return(&order.Confirmation{
		ID: "ORDER-1", Status: "OPEN", TotalCents: 1668, Currency: "USD",
	}, nil)
	provider.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p order.PaymentRequest) bool {
		return p.IdempotencyKey == req.IdempotencyKey+"-pay" &&
			p.SourceID == "cnon:card-nonce" &&
			p.OrderID == "ORDER-1" &&
			p.AmountCents == 1668 &&
			!p.External
	})).Return(&order.PaymentConfirmation{
		ID: "PAY-1", Status: "COMPLETED", AmountCents: 1668, Currency: "USD",
		ReceiptURL: "https://squareup.com/receipt/PAY-1",
	}, nil)

	res, err := svc.Submit(context.Background(), req, "session-1")

	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", res.OrderID)
	assert.Equal(t, "PAY-1", res.PaymentID)
	assert.Equal(t, "COMPLETED", res.Status)
	assert.Equal(t, "https://squareup.com/receipt/PAY-1", res.ReceiptURL)
	assert.Contains(t, res.Summary, "2x 16oz Iced Latte")
	assert.NotContains(t, res.Summary, "Tip")
	assert.True(t, carts.cleared)
	provider.AssertExpectations(t)
}

func TestService_Submit_DuplicateRefused(t *testing.T) {
	provider := new(mockProvider)
	carts := &fakeCarts{lines: checkoutCart()}
	svc, _ := newCheckout(carts, provider, nil)

	req, err := svc.BuildOrder(context.Background(), BuildParams{
		CartKey: "session-1", CustomerName: "Ada", Method: order.PayInStore,
	})
	require.NoError(t, err)

	provider.On("CreateOrder", mock.Anything, req).Return(&order.Confirmation{
		ID: "ORDER-1", Status: "OPEN", TotalCents: 1450, Currency: "USD",
	}, nil).Once()
	provider.On("CreatePayment", mock.Anything, mock.Anything).Return(&order.PaymentConfirmation{
		ID: "PAY-PENDING", Status: "PENDING",
	}, nil).Once()

	_, err = svc.Submit(context.Background(), req, "session-1")
	require.NoError(t, err)

	res, err := svc.Submit(context.Background(), req, "session-1")

	assert.Nil(t, res)
	assert.ErrorIs(t, err, order.ErrDuplicate)
	provider.AssertNumberOfCalls(t, "CreateOrder", 1)
}

func TestService_Submit_ProviderFailureKeepsCartAndAllowsRetry(t *testing.T) {
	provider := new(mockProvider)
	carts := &fakeCarts{lines: checkoutCart()}
	svc, _ := newCheckout(carts, provider, nil)

	req, err := svc.BuildOrder(context.Background(), BuildParams{
		CartKey: "session-1", CustomerName: "Ada", Method: order.PayInStore,
	})
	require.NoError(t, err)

	provider.On("CreateOrder", mock.Anything, req).Return(nil, &order.ProviderError{
		Status: 503, Kind: "order creation failed", Detail: "service unavailable",
	}).Once()

	_, err = svc.Submit(context.Background(), req, "session-1")

	var provErr *order.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.False(t, carts.cleared)
	assert.NotEmpty(t, carts.lines)

	// The claim was released, so resubmitting the same request works.
	provider.On("CreateOrder", mock.Anything, req).Return(&order.Confirmation{
		ID: "ORDER-1", Status: "OPEN", TotalCents: 1450, Currency: "USD",
	}, nil).Once()
	provider.On("CreatePayment", mock.Anything, mock.Anything).Return(&order.PaymentConfirmation{
		ID: "PAY-PENDING", Status: "PENDING",
	}, nil).Once()

	res, err := svc.Submit(context.Background(), req, "session-1")

	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", res.OrderID)
	assert.True(t, carts.cleared)
}

func TestService_Submit_InStorePendingPayment(t *testing.T) {
	provider := new(mockProvider)
	carts := &fakeCarts{lines: checkoutCart()}
	svc, _ := newCheckout(carts, provider, nil)

	req, err := svc.BuildOrder(context.Background(), BuildParams{
		CartKey: "session-1", CustomerName: "Ada", Method: order.PayInStore,
	})
	require.NoError(t, err)

	provider.On("CreateOrder", mock.Anything, req).Return(&order.Confirmation{
		ID: "ORDER-2", Status: "OPEN", TotalCents: 1450, Currency: "USD",
	}, nil)
	provider.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p order.PaymentRequest) bool {
		return p.IdempotencyKey == req.IdempotencyKey+"-pending" && p.External
	})).Return(&order.PaymentConfirmation{ID: "PAY-PENDING", Status: "PENDING"}, nil)

	res, err := svc.Submit(context.Background(), req, "session-1")

	require.NoError(t, err)
	assert.Equal(t, "PAY-PENDING", res.PaymentID)
	assert.Equal(t, "OPEN", res.Status)
	assert.Contains(t, res.Message, "pay at the counter")
	provider.AssertExpectations(t)
}

func TestService_Submit_PendingPaymentFailureNotFatal(t *testing.T) {
	provider := new(mockProvider)
	carts := &fakeCarts{lines: checkoutCart()}
	svc, _ := newCheckout(carts, provider, nil)

	req, err := svc.BuildOrder(context.Background(), BuildParams{
		CartKey: "session-1", CustomerName: "Ada", Method: order.PayInStore,
	})
	require.NoError(t, err)

	provider.On("CreateOrder", mock.Anything, req).Return(&order.Confirmation{
		ID: "ORDER-2", Status: "OPEN", TotalCents: 1450, Currency: "USD",
	}, nil)
	provider.On("CreatePayment", mock.Anything, mock.Anything).Return(nil, &order.ProviderError{
		Status: 500, Kind: "payment failed",
	})

	res, err := svc.Submit(context.Background(), req, "session-1")

	require.NoError(t, err)
	assert.Equal(t, "ORDER-2", res.OrderID)
	assert.Empty(t, res.PaymentID)
	assert.True(t, carts.cleared)
}

func TestService_Submit_NotifierFailureNotFatal(t *testing.T) {
	provider := new(mockProvider)
	notifier := new(mockNotifier)
	carts := &fakeCarts{lines: checkoutCart()}
	svc, _ := newCheckout(carts, provider, notifier)

	req, err := svc.BuildOrder(context.Background(), BuildParams{
		CartKey: "session-1", CustomerName: "Ada", Method: order.PayInStore,
	})
	require.NoError(t, err)

	provider.On("CreateOrder", mock.Anything, req).Return(&order.Confirmation{
		ID: "ORDER-3", Status: "OPEN", TotalCents: 1450, Currency: "USD",
	}, nil)
	provider.On("CreatePayment", mock.Anything, mock.Anything).Return(&order.PaymentConfirmation{
		ID: "PAY-PENDING", Status: "PENDING",
	}, nil)
	notifier.On("OrderPlaced", mock.Anything, req, mock.Anything).Return(assert.AnError)

	res, err := svc.Submit(context.Background(), req, "session-1")

	require.NoError(t, err)
	assert.Equal(t, "ORDER-3", res.OrderID)
	notifier.AssertExpectations(t)
}
