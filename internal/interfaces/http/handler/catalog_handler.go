package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/Visionary-Advance/xoco-coffee/internal/application/catalog"
	"github.com/Visionary-Advance/xoco-coffee/internal/domain/catalog"
)

type CatalogHandler struct {
	svc *app.Service
}

func NewCatalogHandler(svc *app.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListItems(c *gin.Context) {
	items, err := h.svc.Items(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "menu is temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *CatalogHandler) GetItem(c *gin.Context) {
	item, err := h.svc.Item(c.Request.Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "menu is temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, item)
}
