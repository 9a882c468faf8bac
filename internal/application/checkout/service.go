package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/cart"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/order"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/pricing"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/repository"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/schedule"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"
)

// Carts is the slice of the cart service the checkout flow needs.
type Carts interface {
	Get(ctx context.Context, key string) (cart.Lines, error)
	Clear(ctx context.Context, key string) error
}

// Notifier pushes a placed order to the in-store terminal. Failures are
// logged and swallowed; an order is never lost because the alert was.
type Notifier interface {
	OrderPlaced(ctx context.Context, req *order.Request, res *order.Result) error
}

// Service builds and submits orders. BuildOrder prices and validates a cart
// into an order.Request; Submit sends one Request to the provider. The two
// are split so a Request can be retried as a whole, idempotency key
// included.
type Service struct {
	carts       Carts
	provider    order.Provider
	idempotency repository.IdempotencyRegistry
	hours       schedule.Weekly
	notifier    Notifier
	locationID  string
	log         logger.Logger
	now         func() time.Time
}

func NewService(
	carts Carts,
	provider order.Provider,
	idempotency repository.IdempotencyRegistry,
	hours schedule.Weekly,
	notifier Notifier,
	locationID string,
	log logger.Logger,
) *Service {
	if hours == nil {
		hours = schedule.Default
	}
	return &Service{
		carts:       carts,
		provider:    provider,
		idempotency: idempotency,
		hours:       hours,
		notifier:    notifier,
		locationID:  locationID,
		log:         log,
		now:         time.Now,
	}
}

// BuildParams is the checkout form input for one submission.
type BuildParams struct {
	CartKey      string
	CustomerName string
	Method       order.PaymentMethod
	// SourceID is the tokenized card, required for the pay-online path.
	SourceID string
	Tip      pricing.TipSpec
}

// BuildOrder validates the cart and checkout form and produces a fully
// priced order.Request. The idempotency key is minted here, once; callers
// retry by resubmitting the same Request, never by rebuilding it.
func (s *Service) BuildOrder(ctx context.Context, params BuildParams) (*order.Request, error) {
	name := strings.TrimSpace(params.CustomerName)
	if len(name) < 2 {
		return nil, &order.ValidationError{Field: "customer_name", Reason: "must be at least 2 characters"}
	}
	if params.Method != order.PayOnline && params.Method != order.PayInStore {
		return nil, &order.ValidationError{Field: "payment_method", Reason: "must be online or instore"}
	}
	if params.Method == order.PayOnline && params.SourceID == "" {
		return nil, &order.ValidationError{Field: "source_id", Reason: "card token is required to pay online"}
	}

	lines, err := s.carts.Get(ctx, params.CartKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, &order.ValidationError{Field: "cart", Reason: "cart is empty"}
	}

	items := make([]order.LineItem, 0, len(lines)+1)
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, &order.ValidationError{Field: "quantity", Reason: fmt.Sprintf("invalid quantity for %q", l.Name)}
		}
		if l.UnitPrice <= 0 {
			return nil, &order.ValidationError{Field: "unit_price", Reason: fmt.Sprintf("invalid price for %q", l.Name)}
		}
		items = append(items, order.LineItem{
			Name:          composeLineName(l),
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Note:          composeLineNote(l),
			VariationName: l.Size.Name,
		})
	}

	subtotal := lines.Subtotal()

	// Tips never apply to pay-in-store orders.
	tip := 0.0
	if params.Method == order.PayOnline {
		tip = pricing.Tip(subtotal, params.Tip)
	}
	if tip > 0 {
		items = append(items, order.LineItem{
			Name:      "Tip",
			Quantity:  1,
			UnitPrice: tip,
		})
	}

	return &order.Request{
		IdempotencyKey: uuid.NewString(),
		CustomerName:   name,
		LocationID:     s.locationID,
		Method:         params.Method,
		SourceID:       params.SourceID,
		Lines:          items,
		Subtotal:       subtotal,
		Tip:            tip,
		Total:          pricing.Total(subtotal, tip),
	}, nil
}

// Submit sends a built Request to the provider. The business-hours gate
// and the idempotency claim both run before any provider call. On any
// provider failure the claim is released and the cart stays intact, so the
// same Request can be resubmitted.
func (s *Service) Submit(ctx context.Context, req *order.Request, cartKey string) (*order.Result, error) {
	if !s.hours.IsOpen(s.now()) {
		return nil, &order.ClosedError{}
	}

	claimed, err := s.idempotency.Register(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("claim idempotency key: %w", err)
	}
	if !claimed {
		return nil, order.ErrDuplicate
	}

	confirmation, err := s.provider.CreateOrder(ctx, req)
	if err != nil {
		s.release(ctx, req.IdempotencyKey)
		return nil, err
	}

	summary := orderSummary(req)
	result := &order.Result{
		OrderID:      confirmation.ID,
		Status:       confirmation.Status,
		TotalCents:   confirmation.TotalCents,
		Currency:     confirmation.Currency,
		Summary:      summary,
		CustomerName: req.CustomerName,
		CreatedAt:    confirmation.CreatedAt,
	}

	switch req.Method {
	case order.PayOnline:
		payment, err := s.provider.CreatePayment(ctx, order.PaymentRequest{
			// Derived from the request key so a resubmission replays the
			// same payment instead of charging twice.
			IdempotencyKey: req.IdempotencyKey + "-pay",
			SourceID:       req.SourceID,
			OrderID:        confirmation.ID,
			AmountCents:    confirmation.TotalCents,
			Currency:       confirmation.Currency,
			ReferenceID:    req.CustomerName,
			Note:           "Order: " + summary,
		})
		if err != nil {
			s.release(ctx, req.IdempotencyKey)
			return nil, err
		}
		result.PaymentID = payment.ID
		result.Status = payment.Status
		result.ReceiptURL = payment.ReceiptURL
		result.Message = "Payment successful!"

	case order.PayInStore:
		// Best effort: a pending cash payment makes the unpaid total
		// visible on the register, but the order stands without it.
		payment, err := s.provider.CreatePayment(ctx, order.PaymentRequest{
			IdempotencyKey: req.IdempotencyKey + "-pending",
			OrderID:        confirmation.ID,
			AmountCents:    confirmation.TotalCents,
			Currency:       confirmation.Currency,
			ReferenceID:    req.CustomerName,
			External:       true,
			CustomerName:   req.CustomerName,
		})
		if err != nil {
			s.log.Warn("pending cash payment not recorded",
				logger.String("order_id", confirmation.ID),
				logger.Error(err),
			)
		} else {
			result.PaymentID = payment.ID
		}
		result.Message = "Order placed! Please pay at the counter when you pick up."
	}

	if err := s.carts.Clear(ctx, cartKey); err != nil {
		s.log.Warn("cart not cleared after submission",
			logger.String("order_id", confirmation.ID),
			logger.Error(err),
		)
	}

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, req, result); err != nil {
			s.log.Warn("terminal notification failed",
				logger.String("order_id", confirmation.ID),
				logger.Error(&order.NotificationError{Err: err}),
			)
		}
	}

	s.log.Info("order submitted",
		logger.String("order_id", confirmation.ID),
		logger.String("method", string(req.Method)),
		logger.Int64("total_cents", confirmation.TotalCents),
	)
	return result, nil
}

func (s *Service) release(ctx context.Context, key string) {
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.log.Warn("idempotency key not released", logger.String("key", key), logger.Error(err))
	}
}

// composeLineName renders a cart line the way the POS displays it:
// "Large Iced Latte (Oat Milk, Note: no foam)".
func composeLineName(l cart.Line) string {
	parts := make([]string, 0, 3)
	if l.Size.Name != "" {
		parts = append(parts, l.Size.Name)
	}
	if temp := l.Temperature(); temp != "" {
		parts = append(parts, temp)
	}
	parts = append(parts, l.Name)
	name := strings.Join(parts, " ")

	var extras []string
	for _, sel := range l.Selections {
		if !strings.Contains(strings.ToLower(sel.GroupName), "temperature") {
			extras = append(extras, sel.Name)
		}
	}
	if l.SpecialInstructions != "" {
		extras = append(extras, "Note: "+l.SpecialInstructions)
	}
	if len(extras) > 0 {
		name += " (" + strings.Join(extras, ", ") + ")"
	}
	return name
}

// composeLineNote renders the structured note shown on receipts:
// "Size: Large | Temp: Iced | Extras: Oat Milk | Instructions: no foam".
func composeLineNote(l cart.Line) string {
	var segments []string
	if l.Size.Name != "" {
		segments = append(segments, "Size: "+l.Size.Name)
	}
	if temp := l.Temperature(); temp != "" {
		segments = append(segments, "Temp: "+temp)
	}
	var extras []string
	for _, sel := range l.Selections {
		if !strings.Contains(strings.ToLower(sel.GroupName), "temperature") {
			extras = append(extras, sel.Name)
		}
	}
	if len(extras) > 0 {
		segments = append(segments, "Extras: "+strings.Join(extras, ", "))
	}
	if l.SpecialInstructions != "" {
		segments = append(segments, "Instructions: "+l.SpecialInstructions)
	}
	return strings.Join(segments, " | ")
}

// orderSummary is the short human line used in payment notes and the
// confirmation screen: "2x 16oz Iced Latte, 1x Mocha".
func orderSummary(req *order.Request) string {
	parts := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.Name == "Tip" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
	}
	return strings.Join(parts, ", ")
}
