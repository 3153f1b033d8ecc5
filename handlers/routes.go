package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the terminal API on router.
func RegisterRoutes(router *gin.Engine, sessions *SessionHandler, checkouts *CheckoutHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/catalog", sessions.GetCatalog)
	router.POST("/catalog/reload", sessions.ReloadCatalog)

	router.GET("/session", sessions.GetSession)
	router.PUT("/session/customer", sessions.SelectCustomer)
	router.PUT("/session/item", sessions.SelectItem)
	router.PUT("/session/quantity", sessions.SetQuantity)
	router.PUT("/session/discount", sessions.SetDiscount)
	router.PUT("/session/tax", sessions.SetTax)
	router.GET("/session/totals", sessions.GetTotals)

	router.POST("/cart/add", sessions.AddSelected)
	router.POST("/cart/lines", sessions.AddLine)
	router.POST("/cart/lines/:itemId/increment", sessions.Increment)
	router.POST("/cart/lines/:itemId/decrement", sessions.Decrement)
	router.DELETE("/cart/lines/:itemId", sessions.RemoveLine)

	router.POST("/orders", checkouts.PlaceOrder)
	router.GET("/orders", checkouts.ListOrders)
}
