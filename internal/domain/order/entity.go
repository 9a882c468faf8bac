package order

import "time"

// PaymentMethod distinguishes the two checkout paths.
type PaymentMethod string

const (
	// PayOnline charges a card token immediately and may carry a tip.
	PayOnline PaymentMethod = "online"
	// PayInStore creates the order unpaid; the customer pays at pickup.
	// Tips never apply on this path.
	PayInStore PaymentMethod = "instore"
)

// LineItem is one provider-facing order line. Name already folds in the
// size/temperature prefix, the modifier names and the instructions note,
// the way the POS expects to display it.
type LineItem struct {
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Note          string  `json:"note,omitempty"`
	VariationName string  `json:"variation_name,omitempty"`
}

// Request is one fully built, priced submission. The idempotency key is
// minted exactly once, when the request is built; retrying Submit with the
// same Request reuses it, which is what makes retries safe.
type Request struct {
	IdempotencyKey string        `json:"idempotency_key"`
	CustomerName   string        `json:"customer_name"`
	LocationID     string        `json:"location_id"`
	Method         PaymentMethod `json:"payment_method"`
	SourceID       string        `json:"source_id,omitempty"`
	Lines          []LineItem    `json:"lines"`
	Subtotal       float64       `json:"subtotal"`
	Tip            float64       `json:"tip"`
	Total          float64       `json:"total"`
}

// Result is the application-level outcome of a submission.
type Result struct {
	OrderID      string    `json:"order_id"`
	PaymentID    string    `json:"payment_id,omitempty"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"total_cents"`
	Currency     string    `json:"currency"`
	ReceiptURL   string    `json:"receipt_url,omitempty"`
	Summary      string    `json:"order_summary"`
	Message      string    `json:"message,omitempty"`
	CustomerName string    `json:"customer_name"`
	CreatedAt    time.Time `json:"created_at"`
}
