package square

import (
	"strings"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/order"
)

// Request shapes, snake_case per the Square API.

type createOrderRequest struct {
	IdempotencyKey string    `json:"idempotency_key"`
	Order          wireOrder `json:"order"`
}

type wireOrder struct {
	LocationID   string            `json:"location_id"`
	Source       *wireSource       `json:"source,omitempty"`
	State        string            `json:"state,omitempty"`
	Fulfillments []wireFulfillment `json:"fulfillments,omitempty"`
	LineItems    []wireLineItem    `json:"line_items"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Note         string            `json:"note,omitempty"`
}

type wireSource struct {
	Name string `json:"name"`
}

type wireFulfillment struct {
	Type          string             `json:"type"`
	State         string             `json:"state"`
	PickupDetails *wirePickupDetails `json:"pickup_details,omitempty"`
}

type wirePickupDetails struct {
	Recipient    wireRecipient `json:"recipient"`
	Note         string        `json:"note,omitempty"`
	ScheduleType string        `json:"schedule_type,omitempty"`
}

type wireRecipient struct {
	DisplayName string `json:"display_name"`
}

type wireLineItem struct {
	Name           string    `json:"name"`
	Quantity       string    `json:"quantity"`
	ItemType       string    `json:"item_type,omitempty"`
	BasePriceMoney wireMoney `json:"base_price_money"`
	Note           string    `json:"note,omitempty"`
	VariationName  string    `json:"variation_name,omitempty"`
}

type wireMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type createPaymentRequest struct {
	IdempotencyKey  string               `json:"idempotency_key"`
	SourceID        string               `json:"source_id"`
	LocationID      string               `json:"location_id,omitempty"`
	OrderID         string               `json:"order_id,omitempty"`
	ReferenceID     string               `json:"reference_id,omitempty"`
	AmountMoney     wireMoney            `json:"amount_money"`
	Note            string               `json:"note,omitempty"`
	ExternalDetails *wireExternalDetails `json:"external_details,omitempty"`
}

type wireExternalDetails struct {
	Type     string `json:"type"`
	Source   string `json:"source"`
	SourceID string `json:"source_id,omitempty"`
}

// Response shapes.

type wireCreatedOrder struct {
	ID         string    `json:"id"`
	State      string    `json:"state"`
	CreatedAt  string    `json:"created_at"`
	TotalMoney wireMoney `json:"total_money"`
}

type wirePayment struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	AmountMoney wireMoney `json:"amount_money"`
	ReceiptURL  string    `json:"receipt_url"`
	CreatedAt   string    `json:"created_at"`
}

type wireError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

func wireErrorsToProvider(status int, kind string, errs []wireError) *order.ProviderError {
	details := make([]string, 0, len(errs))
	for _, e := range errs {
		d := e.Detail
		if d == "" {
			d = e.Code
		}
		details = append(details, d)
	}
	return &order.ProviderError{
		Status: status,
		Kind:   kind,
		Detail: strings.Join(details, "; "),
	}
}
