package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/Visionary-Advance/xoco-coffee/internal/application/auth"
)

type AuthHandler struct {
	svc *app.Service
	// redirectURI must match the value registered with Square.
	redirectURI string
}

func NewAuthHandler(svc *app.Service, redirectURI string) *AuthHandler {
	return &AuthHandler{svc: svc, redirectURI: redirectURI}
}

// Callback completes the Square OAuth flow for the merchant account.
func (h *AuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "authorization was denied: " + errParam,
		})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	creds, err := h.svc.HandleCallback(c.Request.Context(), code, h.redirectURI)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "authorization could not be completed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"merchant_id": creds.MerchantID,
	})
}
