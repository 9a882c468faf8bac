package order

import (
	"context"
	"time"
)

// Confirmation is the provider's acknowledgement of a created order.
type Confirmation struct {
	ID         string
	Status     string
	TotalCents int64
	Currency   string
	CreatedAt  time.Time
}

// PaymentRequest describes one payment creation call against the provider.
type PaymentRequest struct {
	IdempotencyKey string
	SourceID       string
	OrderID        string
	AmountCents    int64
	Currency       string
	Note           string
	ReferenceID    string
	// External records a pending "pay at the counter" payment instead of
	// charging a card token.
	External     bool
	CustomerName string
}

// PaymentConfirmation is the provider's acknowledgement of a payment.
type PaymentConfirmation struct {
	ID          string
	Status      string
	AmountCents int64
	Currency    string
	ReceiptURL  string
	CreatedAt   time.Time
}

// Provider is the point-of-sale backend orders and payments are submitted
// to. Implemented by the Square client.
type Provider interface {
	CreateOrder(ctx context.Context, req *Request) (*Confirmation, error)
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentConfirmation, error)
}
