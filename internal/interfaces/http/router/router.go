package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Visionary-Advance/xoco-coffee/internal/interfaces/http/handler"
)

func RegisterRoutes(
	r *gin.Engine,
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	hoursHandler *handler.HoursHandler,
	authHandler *handler.AuthHandler,
) {
	api := r.Group("/api")
	{
		api.GET("/items", catalogHandler.ListItems)
		api.GET("/items/:id", catalogHandler.GetItem)

		api.GET("/cart/:key", cartHandler.GetCart)
		api.POST("/cart/:key/lines", cartHandler.AddLine)
		api.POST("/cart/:key/configure", cartHandler.ConfigureLine)
		api.PATCH("/cart/:key/lines/:lineId", cartHandler.UpdateLine)
		api.DELETE("/cart/:key/lines/:lineId", cartHandler.RemoveLine)
		api.DELETE("/cart/:key", cartHandler.ClearCart)

		api.POST("/submit-order", checkoutHandler.SubmitOrder)
		api.POST("/submit-payment", checkoutHandler.SubmitPayment)

		api.GET("/hours", hoursHandler.GetHours)

		api.GET("/square/callback", authHandler.Callback)
	}
}
