package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ramosjarod04-creator/DejaBrew/internal/auth"
	"github.com/ramosjarod04-creator/DejaBrew/internal/cart"
	"github.com/ramosjarod04-creator/DejaBrew/internal/forecast"
	"github.com/ramosjarod04-creator/DejaBrew/internal/menu"
	"github.com/ramosjarod04-creator/DejaBrew/internal/middleware"
)

// Handlers collects the terminal's HTTP handlers for route wiring.
type Handlers struct {
	Auth     *auth.Handler
	Menu     *menu.Handler
	Cart     *cart.Handler
	Forecast *forecast.Handler
}

func New(h Handlers) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/auth/verify-admin", h.Auth.VerifyAdmin)

	r.GET("/api/products", h.Menu.ListProducts)
	r.GET("/api/addons", h.Menu.ListAddOns)
	r.GET("/api/ingredients", h.Menu.ListIngredients)
	r.POST("/api/refresh", h.Menu.Refresh)

	sessions := r.Group("/api/cart/sessions")
	{
		sessions.POST("", h.Cart.CreateSession)
		sessions.GET("/:id", h.Cart.GetSession)
		sessions.DELETE("/:id", h.Cart.ClearSession)

		sessions.POST("/:id/items", h.Cart.AddItem)
		sessions.PATCH("/:id/items/:productId", h.Cart.AdjustItem)
		sessions.PUT("/:id/items/:productId", h.Cart.SetItemQuantity)
		sessions.PUT("/:id/items/:productId/addons", h.Cart.SetAddOns)

		sessions.POST("/:id/checkout", h.Cart.Checkout)
	}

	// Voiding an item and applying a discount require an admin token.
	gated := r.Group("/api/cart/sessions")
	gated.Use(
		middleware.AuthMiddleware(),
		middleware.RequireAdmin(),
	)
	{
		gated.DELETE("/:id/items/:productId", h.Cart.VoidItem)
		gated.POST("/:id/discount", h.Cart.ApplyDiscount)
		gated.PUT("/:id/discount/percent", h.Cart.SetDiscountPercent)
	}

	r.POST("/api/payments/:promptId/confirm", h.Cart.ConfirmPayment)
	r.POST("/api/payments/:promptId/cancel", h.Cart.CancelPayment)

	r.GET("/api/forecast", h.Forecast.Predict)

	return r
}
