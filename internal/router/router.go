package router

import (
	"net/http"

	"rasoi/internal/auth"
	"rasoi/internal/cart"
	"rasoi/internal/catalog"
	"rasoi/internal/inventory"
	"rasoi/internal/kitchen"
	"rasoi/internal/middleware"
	"rasoi/internal/orders"
	"rasoi/internal/payment"
	"rasoi/internal/reports"
	"rasoi/internal/tables"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers collects every feature handler the router mounts.
type Handlers struct {
	Auth      *auth.Handler
	Catalog   *catalog.Handler
	Cart      *cart.Handler
	Orders    *orders.Handler
	Payments  *payment.Handler
	Inventory *inventory.Handler
	Kitchen   *kitchen.Handler
	Reports   *reports.Handler
	Tables    *tables.Handler
}

// New builds the full route tree. Everything except health and login
// sits behind JWT auth; write access is gated per role.
func New(h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Terminal-ID", "Idempotency-Key"},
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
	}

	api := r.Group("/")
	api.Use(middleware.AuthMiddleware())

	manager := middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)

	// Menu catalog: everyone reads, managers write.
	menu := api.Group("/menu")
	{
		menu.GET("/categories", h.Catalog.ListCategories)
		menu.POST("/categories", manager, h.Catalog.CreateCategory)
		menu.GET("/items", h.Catalog.ListItems)
		menu.POST("/items", manager, h.Catalog.CreateItem)
		menu.PATCH("/items/:id/availability", manager, h.Catalog.ToggleAvailability)
		menu.GET("/items/:id/modifiers", h.Catalog.ListModifiers)
		menu.POST("/items/:id/modifiers", manager, h.Catalog.AddModifier)
		menu.POST("/items/:id/image", manager, h.Catalog.UploadItemImage)
	}

	cartRoutes := api.Group("/cart")
	{
		cartRoutes.GET("", h.Cart.Get)
		cartRoutes.DELETE("", h.Cart.Clear)
		cartRoutes.POST("/lines", h.Cart.AddLine)
		cartRoutes.PATCH("/lines/:lineId", h.Cart.SetLineQuantity)
		cartRoutes.DELETE("/lines/:lineId", h.Cart.RemoveLine)
		cartRoutes.POST("/discount", h.Cart.ApplyDiscount)
		cartRoutes.DELETE("/discount", h.Cart.RemoveDiscount)
	}

	orderRoutes := api.Group("/orders")
	{
		orderRoutes.POST("", h.Orders.Create)
		orderRoutes.GET("", h.Orders.List)
		orderRoutes.GET("/:id", h.Orders.Get)
		orderRoutes.POST("/:id/transition", h.Orders.Transition)
		orderRoutes.POST("/:id/lines", h.Orders.AddLine)
		orderRoutes.PATCH("/:id/lines/:lineId", h.Orders.SetLineQuantity)
		orderRoutes.POST("/:id/split", h.Orders.Split)
		orderRoutes.POST("/:id/merge", h.Orders.Merge)
		orderRoutes.POST("/:id/transfer", h.Orders.Transfer)

		orderRoutes.POST("/:id/payments", h.Payments.Pay)
		orderRoutes.GET("/:id/payments", h.Payments.ListByOrder)
	}

	paymentRoutes := api.Group("/payments")
	{
		paymentRoutes.GET("/:id", h.Payments.Get)
		paymentRoutes.GET("/:id/receipt", h.Payments.Receipt)
		paymentRoutes.POST("/:id/refund", manager, h.Payments.Refund)
	}

	// Inventory: kitchen reads, managers mutate.
	inv := api.Group("/inventory")
	{
		inv.GET("/items", h.Inventory.ListItems)
		inv.GET("/items/:id", h.Inventory.GetItem)
		inv.POST("/items", manager, h.Inventory.CreateItem)
		inv.DELETE("/items/:id", manager, h.Inventory.DeleteItem)
		inv.POST("/items/:id/restock", manager, h.Inventory.AddStock)
		inv.POST("/items/:id/waste", manager, h.Inventory.RecordWaste)
		inv.POST("/items/:id/adjust", manager, h.Inventory.AdjustStock)
		inv.GET("/movements", h.Inventory.ListMovements)
		inv.GET("/low-stock", h.Inventory.LowStock)
		inv.GET("/reorder-suggestions", h.Inventory.ReorderSuggestions)
		inv.GET("/expiring", h.Inventory.Expiring)
		inv.GET("/valuation", manager, h.Inventory.Valuation)
		inv.PUT("/recipes/:menuItemId", manager, h.Inventory.SetRecipe)
		inv.GET("/recipes/:menuItemId", h.Inventory.GetRecipe)
		inv.POST("/suppliers", manager, h.Inventory.CreateSupplier)
		inv.GET("/suppliers", h.Inventory.ListSuppliers)
	}

	kitchenRoutes := api.Group("/kitchen")
	{
		kitchenRoutes.GET("/tickets", h.Kitchen.List)
		kitchenRoutes.POST("/tickets/:id/start", h.Kitchen.Start)
		kitchenRoutes.POST("/tickets/:id/items/:lineId/done", h.Kitchen.CompleteItem)
		kitchenRoutes.POST("/tickets/:id/complete", h.Kitchen.CompleteTicket)
	}

	reportRoutes := api.Group("/reports", manager)
	{
		reportRoutes.GET("/summary", h.Reports.Summary)
		reportRoutes.GET("/top-items", h.Reports.TopItems)
		reportRoutes.GET("/breakdown", h.Reports.Breakdown)
		reportRoutes.GET("/trend", h.Reports.Trend)
	}

	tableRoutes := api.Group("/tables")
	{
		tableRoutes.GET("", h.Tables.List)
		tableRoutes.GET("/:id", h.Tables.Get)
		tableRoutes.POST("", manager, h.Tables.Create)
		tableRoutes.DELETE("/:id", manager, h.Tables.Delete)
		tableRoutes.PATCH("/:id/state", h.Tables.SetState)
	}

	admin := api.Group("/admin", middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/staff", h.Auth.ListStaff)
	}

	return r
}
