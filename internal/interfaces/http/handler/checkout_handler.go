package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/Visionary-Advance/xoco-coffee/internal/application/checkout"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/order"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/pricing"
)

type CheckoutHandler struct {
	svc *app.Service
}

func NewCheckoutHandler(svc *app.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// submitRequest is the checkout form payload. IdempotencyKey is optional:
// clients that retry a failed submission send the key from their first
// attempt so the retry stays the same logical submission.
type submitRequest struct {
	CartKey        string  `json:"cart_key" binding:"required"`
	CustomerName   string  `json:"customer_name"`
	SourceID       string  `json:"source_id"`
	TipPercent     int     `json:"tip_percent"`
	CustomTip      float64 `json:"custom_tip"`
	IdempotencyKey string  `json:"idempotency_key"`
}

// SubmitOrder places a pay-in-store pickup order.
func (h *CheckoutHandler) SubmitOrder(c *gin.Context) {
	h.submit(c, order.PayInStore)
}

// SubmitPayment places an order and charges the card token immediately.
func (h *CheckoutHandler) SubmitPayment(c *gin.Context) {
	h.submit(c, order.PayOnline)
}

func (h *CheckoutHandler) submit(c *gin.Context, method order.PaymentMethod) {
	var body submitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.svc.BuildOrder(c.Request.Context(), app.BuildParams{
		CartKey:      body.CartKey,
		CustomerName: body.CustomerName,
		Method:       method,
		SourceID:     body.SourceID,
		Tip:          pricing.TipSpec{Percent: body.TipPercent, Custom: body.CustomTip},
	})
	if err != nil {
		respondSubmitError(c, err)
		return
	}
	if body.IdempotencyKey != "" {
		req.IdempotencyKey = body.IdempotencyKey
	}

	result, err := h.svc.Submit(c.Request.Context(), req, body.CartKey)
	if err != nil {
		respondSubmitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"idempotency_key": req.IdempotencyKey,
		"result":          result,
	})
}

func respondSubmitError(c *gin.Context, err error) {
	var vErr *order.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
		return
	}

	var closedErr *order.ClosedError
	if errors.As(err, &closedErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": closedErr.Error(), "type": "closed"})
		return
	}

	if errors.Is(err, order.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var provErr *order.ProviderError
	if errors.As(err, &provErr) {
		status := http.StatusBadGateway
		if provErr.Status >= 400 && provErr.Status < 500 {
			status = provErr.Status
		}
		c.JSON(status, gin.H{"error": provErr.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "order submission failed"})
}
