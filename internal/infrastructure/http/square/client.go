package square

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Visionary-Advance/xoco-coffee/internal/config"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/auth"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/catalog"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/order"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/pricing"
	"github.com/Visionary-Advance/xoco-coffee/pkg/logger"
)

// catalogTypes lists every catalog object type the menu mapping needs.
const catalogTypes = "ITEM,IMAGE,CATEGORY,MODIFIER_LIST,MODIFIER"

// Client talks to the Square REST API: catalog reads, order and payment
// creation, and the OAuth code exchange.
type Client struct {
	cfg       config.SquareConfig
	transport *transport
	log       logger.Logger
}

func NewClient(cfg config.SquareConfig, log logger.Logger) *Client {
	return &Client{
		cfg:       cfg,
		transport: newTransport(transportConfig{}),
		log:       log,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization":  "Bearer " + c.cfg.AccessToken,
		"Square-Version": c.cfg.Version,
		"Content-Type":   "application/json",
		"Accept":         "application/json",
	}
}

// ListCatalog fetches the full catalog, following cursor pagination, and
// maps it into menu items.
func (c *Client) ListCatalog(ctx context.Context) ([]catalog.Item, error) {
	if c.cfg.AccessToken == "" {
		return nil, fmt.Errorf("square access token is empty")
	}

	var objects []catalogObject
	cursor := ""

	for {
		u := fmt.Sprintf("%s/v2/catalog/list?types=%s", c.cfg.APIBaseURL(), url.QueryEscape(catalogTypes))
		if cursor != "" {
			u += "&cursor=" + url.QueryEscape(cursor)
		}

		resp, err := c.transport.do(ctx, http.MethodGet, u, c.headers(), nil)
		if err != nil {
			return nil, fmt.Errorf("call square catalog: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, c.providerError(resp, "catalog list rejected")
		}

		var body struct {
			Objects []catalogObject `json:"objects"`
			Cursor  string          `json:"cursor"`
		}
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			return nil, fmt.Errorf("decode catalog response: %w", err)
		}

		objects = append(objects, body.Objects...)
		if body.Cursor == "" {
			break
		}
		cursor = body.Cursor
	}

	items := mapCatalog(objects)
	c.log.Info("fetched square catalog",
		logger.Int("objects", len(objects)),
		logger.Int("items", len(items)),
	)
	return items, nil
}

// CreateOrder creates the order on Square. The pay-in-store path carries a
// pickup fulfillment and UNPAID metadata so staff see it on the POS; the
// pay-now path is a bare order the payment attaches to.
func (c *Client) CreateOrder(ctx context.Context, req *order.Request) (*order.Confirmation, error) {
	if c.cfg.AccessToken == "" {
		return nil, fmt.Errorf("square access token is empty")
	}

	lineItems := make([]wireLineItem, 0, len(req.Lines))
	for _, l := range req.Lines {
		lineItems = append(lineItems, wireLineItem{
			Name:     l.Name,
			Quantity: strconv.Itoa(l.Quantity),
			ItemType: "ITEM",
			BasePriceMoney: wireMoney{
				Amount:   pricing.Cents(l.UnitPrice),
				Currency: "USD",
			},
			Note:          l.Note,
			VariationName: l.VariationName,
		})
	}

	wire := wireOrder{
		LocationID: req.LocationID,
		LineItems:  lineItems,
	}
	if req.Method == order.PayInStore {
		wire.Source = &wireSource{Name: "**Pay In Store - Website"}
		wire.State = "OPEN"
		wire.Fulfillments = []wireFulfillment{{
			Type:  "PICKUP",
			State: "PROPOSED",
			PickupDetails: &wirePickupDetails{
				Recipient:    wireRecipient{DisplayName: req.CustomerName},
				Note:         fmt.Sprintf("Customer: %s - Pay in store on pickup", req.CustomerName),
				ScheduleType: "ASAP",
			},
		}}
		wire.Metadata = map[string]string{
			"source":        "website",
			"orderType":     "pickup",
			"paymentMethod": string(order.PayInStore),
			"customerName":  req.CustomerName,
			"paymentStatus": "UNPAID",
		}
		wire.Note = fmt.Sprintf("PAY IN STORE - Customer: %s", req.CustomerName)
	}

	payload, err := json.Marshal(createOrderRequest{
		IdempotencyKey: req.IdempotencyKey,
		Order:          wire,
	})
	if err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}

	resp, err := c.transport.do(ctx, http.MethodPost, c.cfg.APIBaseURL()+"/v2/orders", c.headers(), payload)
	if err != nil {
		return nil, fmt.Errorf("call square orders: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.providerError(resp, "order creation failed")
	}

	var body struct {
		Order  *wireCreatedOrder `json:"order"`
		Errors []wireError       `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	if len(body.Errors) > 0 {
		return nil, wireErrorsToProvider(resp.StatusCode, "order creation failed", body.Errors)
	}
	if body.Order == nil || body.Order.ID == "" {
		return nil, &order.ProviderError{Status: resp.StatusCode, Kind: "order creation failed", Detail: "no order in response"}
	}

	return &order.Confirmation{
		ID:         body.Order.ID,
		Status:     body.Order.State,
		TotalCents: body.Order.TotalMoney.Amount,
		Currency:   orDefault(body.Order.TotalMoney.Currency, "USD"),
		CreatedAt:  parseRFC3339(body.Order.CreatedAt),
	}, nil
}

// CreatePayment charges a card token, or records a pending external payment
// when params.External is set.
func (c *Client) CreatePayment(ctx context.Context, params order.PaymentRequest) (*order.PaymentConfirmation, error) {
	if c.cfg.AccessToken == "" {
		return nil, fmt.Errorf("square access token is empty")
	}

	wire := createPaymentRequest{
		IdempotencyKey: params.IdempotencyKey,
		SourceID:       params.SourceID,
		LocationID:     c.cfg.LocationID,
		OrderID:        params.OrderID,
		ReferenceID:    params.ReferenceID,
		AmountMoney: wireMoney{
			Amount:   params.AmountCents,
			Currency: orDefault(params.Currency, "USD"),
		},
		Note: params.Note,
	}
	if params.External {
		wire.SourceID = "EXTERNAL"
		wire.ExternalDetails = &wireExternalDetails{
			Type:     "OTHER",
			Source:   "In-store cash payment",
			SourceID: "instore-" + params.OrderID,
		}
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}

	resp, err := c.transport.do(ctx, http.MethodPost, c.cfg.APIBaseURL()+"/v2/payments", c.headers(), payload)
	if err != nil {
		return nil, fmt.Errorf("call square payments: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.providerError(resp, "payment failed")
	}

	var body struct {
		Payment *wirePayment `json:"payment"`
		Errors  []wireError  `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if len(body.Errors) > 0 {
		return nil, wireErrorsToProvider(resp.StatusCode, "payment failed", body.Errors)
	}
	if body.Payment == nil {
		return nil, &order.ProviderError{Status: resp.StatusCode, Kind: "payment failed", Detail: "no payment in response"}
	}

	return &order.PaymentConfirmation{
		ID:          body.Payment.ID,
		Status:      body.Payment.Status,
		AmountCents: body.Payment.AmountMoney.Amount,
		Currency:    orDefault(body.Payment.AmountMoney.Currency, "USD"),
		ReceiptURL:  body.Payment.ReceiptURL,
		CreatedAt:   parseRFC3339(body.Payment.CreatedAt),
	}, nil
}

// ExchangeCode swaps an OAuth authorization code for merchant tokens.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*auth.TokenGrant, error) {
	if c.cfg.ApplicationID == "" || c.cfg.ApplicationSecret == "" {
		return nil, fmt.Errorf("square application credentials are not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"client_id":     c.cfg.ApplicationID,
		"client_secret": c.cfg.ApplicationSecret,
		"code":          code,
		"grant_type":    "authorization_code",
		"redirect_uri":  redirectURI,
	})
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	headers := map[string]string{
		"Content-Type":   "application/json",
		"Square-Version": c.cfg.Version,
		"Accept":         "application/json",
	}
	resp, err := c.transport.do(ctx, http.MethodPost, c.cfg.OAuthBaseURL()+"/oauth2/token", headers, payload)
	if err != nil {
		return nil, fmt.Errorf("call square oauth: %w", err)
	}

	var body struct {
		AccessToken      string `json:"access_token"`
		RefreshToken     string `json:"refresh_token"`
		MerchantID       string `json:"merchant_id"`
		ExpiresAt        string `json:"expires_at"`
		ErrorCode        string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.AccessToken == "" {
		detail := body.ErrorDescription
		if detail == "" {
			detail = orDefault(body.ErrorCode, "token exchange failed")
		}
		return nil, &order.ProviderError{Status: resp.StatusCode, Kind: "token exchange failed", Detail: detail}
	}

	return &auth.TokenGrant{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		MerchantID:   body.MerchantID,
		ExpiresAt:    parseRFC3339(body.ExpiresAt),
	}, nil
}

// providerError maps a non-200 response body into a ProviderError, keeping
// Square's detail strings for the user-facing error panel.
func (c *Client) providerError(resp *response, kind string) error {
	var body struct {
		Errors []wireError `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil && len(body.Errors) > 0 {
		return wireErrorsToProvider(resp.StatusCode, kind, body.Errors)
	}
	return &order.ProviderError{Status: resp.StatusCode, Kind: kind, Detail: string(resp.Body)}
}

func parseRFC3339(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
