package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/Visionary-Advance/xoco-coffee/internal/application/cart"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/cart"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/catalog"
)

// itemLookup resolves catalog items for server-side line configuration.
type itemLookup interface {
	Item(ctx context.Context, id string) (*catalog.Item, error)
}

type CartHandler struct {
	svc     *app.Service
	catalog itemLookup
}

func NewCartHandler(svc *app.Service, catalog itemLookup) *CartHandler {
	return &CartHandler{svc: svc, catalog: catalog}
}

func cartResponse(lines cart.Lines) gin.H {
	if lines == nil {
		lines = cart.Lines{}
	}
	return gin.H{
		"lines":    lines,
		"subtotal": lines.Subtotal(),
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	lines, err := h.svc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart is unavailable"})
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *CartHandler) AddLine(c *gin.Context) {
	var line cart.Line
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := h.svc.AddLine(c.Request.Context(), c.Param("key"), line)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart is unavailable"})
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

// configureLineRequest is the item modal's full state. The server resolves
// the item, prices the configuration and builds the line itself, so stale
// client-side prices never reach the cart.
type configureLineRequest struct {
	ItemID       string   `json:"item_id" binding:"required"`
	VariationID  string   `json:"variation_id"`
	ModifierIDs  []string `json:"modifier_ids"`
	Instructions string   `json:"instructions"`
	Quantity     int      `json:"quantity"`
	CartID       string   `json:"cart_id"`
}

// ConfigureLine builds a cart line from an item configuration and adds it,
// or rebuilds an existing line when cart_id is present.
func (h *CartHandler) ConfigureLine(c *gin.Context) {
	var req configureLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.catalog.Item(c.Request.Context(), req.ItemID)
	if errors.Is(err, catalog.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "menu is temporarily unavailable"})
		return
	}

	lines, err := h.svc.Configure(c.Request.Context(), c.Param("key"), *item, app.ConfigureInput{
		CartID:       req.CartID,
		VariationID:  req.VariationID,
		ModifierIDs:  req.ModifierIDs,
		Instructions: req.Instructions,
		Quantity:     req.Quantity,
	})
	switch {
	case errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "line not found"})
	case errors.Is(err, cart.ErrSizeRequired),
		errors.Is(err, cart.ErrTemperatureRequired),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrUnknownModifier):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart is unavailable"})
	default:
		c.JSON(http.StatusOK, cartResponse(lines))
	}
}

// updateLineRequest mirrors app.Patch; absent fields leave the line as-is.
type updateLineRequest struct {
	Quantity            *int             `json:"quantity"`
	Size                *cart.SizeRef    `json:"size"`
	Selections          []cart.Selection `json:"selections"`
	SpecialInstructions *string          `json:"special_instructions"`
	UnitPrice           *float64         `json:"unit_price"`
}

func (h *CartHandler) UpdateLine(c *gin.Context) {
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := h.svc.UpdateLine(c.Request.Context(), c.Param("key"), c.Param("lineId"), app.Patch{
		Quantity:            req.Quantity,
		Size:                req.Size,
		Selections:          req.Selections,
		SpecialInstructions: req.SpecialInstructions,
		UnitPrice:           req.UnitPrice,
	})
	if errors.Is(err, cart.ErrLineNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "line not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart is unavailable"})
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	lines, err := h.svc.RemoveLine(c.Request.Context(), c.Param("key"), c.Param("lineId"), c.Query("size"))
	if errors.Is(err, cart.ErrLineNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "line not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart is unavailable"})
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), c.Param("key")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart is unavailable"})
		return
	}
	c.JSON(http.StatusOK, cartResponse(nil))
}
