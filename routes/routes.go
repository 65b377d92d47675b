package routes

import (
	"time"

	"github.com/SokThavireak/sushi-store/firebase"
	"github.com/SokThavireak/sushi-store/handlers"
	"github.com/SokThavireak/sushi-store/middleware"
	"github.com/SokThavireak/sushi-store/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes wires every endpoint. Route groups carry the policy guards;
// handlers only deal with scope and ownership.
func SetupRoutes(r *gin.Engine, db *gorm.DB, storage firebase.StorageClient) {
	authHandler := &handlers.AuthHandler{DB: db}
	cartHandler := &handlers.CartHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db}
	orderItemHandler := &handlers.OrderItemHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db, Storage: storage}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	locationHandler := &handlers.LocationHandler{DB: db}
	stockItemHandler := &handlers.StockItemHandler{DB: db, Storage: storage}
	stockRequestHandler := &handlers.StockRequestHandler{DB: db}
	dailyStockHandler := handlers.NewDailyStockHandler(db)
	userHandler := &handlers.UserHandler{DB: db}
	dashboardHandler := &handlers.DashboardHandler{DB: db}

	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")

	// Public
	auth := api.Group("/auth")
	auth.POST("/register", authLimiter.Middleware(), authHandler.Register)
	auth.POST("/login", authLimiter.Middleware(), authHandler.Login)

	api.GET("/products", productHandler.GetProducts)
	api.GET("/products/offers", productHandler.GetOffers)
	api.GET("/products/:id", productHandler.GetProduct)
	api.GET("/categories", categoryHandler.GetCategories)
	api.GET("/locations", locationHandler.GetLocations)
	api.GET("/locations/:id", locationHandler.GetLocation)

	// Authenticated
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware())

	authed.GET("/auth/profile", authHandler.GetProfile)
	authed.PUT("/auth/profile", authHandler.UpdateProfile)
	authed.DELETE("/auth/profile", authHandler.DeleteAccount)

	authed.GET("/cart", cartHandler.GetCart)
	authed.POST("/cart", cartHandler.AddToCart)
	authed.PATCH("/cart/:id", cartHandler.UpdateCartItem)
	authed.DELETE("/cart/:id", cartHandler.RemoveFromCart)
	authed.DELETE("/cart", cartHandler.ClearCart)

	authed.POST("/orders", orderHandler.CreateOrder)
	authed.GET("/orders", orderHandler.GetMyOrders)
	authed.POST("/orders/:id/request-cancel", orderHandler.RequestCancel)
	authed.POST("/orders/:id/request-refund", orderHandler.RequestRefund)
	authed.GET("/payment/:id", orderHandler.GetPayment)
	authed.POST("/payment/confirm/:id", orderHandler.ConfirmPayment)

	// Order management
	orderAdmin := authed.Group("/admin/orders")
	orderAdmin.Use(middleware.RequirePolicy(models.Policy.CanManageOrders))
	orderAdmin.GET("", orderHandler.GetOrders)
	orderAdmin.GET("/:id", orderHandler.GetOrder)
	orderAdmin.POST("/:id/status", orderHandler.UpdateOrderStatus)
	orderAdmin.PUT("/:id", orderHandler.UpdateOrder)
	orderAdmin.PUT("/items/:itemId", orderItemHandler.UpdateQuantity)
	orderAdmin.DELETE("/items/:itemId", orderItemHandler.DeleteItem)
	orderAdmin.POST("/handle-request/:id",
		middleware.RequirePolicy(models.Policy.CanApproveOrderRequests),
		orderHandler.ResolveRequest)
	orderAdmin.DELETE("/:id",
		middleware.RequirePolicy(models.Policy.CanDeleteOrders),
		orderHandler.DeleteOrder)

	// Catalog management
	catalog := authed.Group("/admin")
	catalog.Use(middleware.RequirePolicy(models.Policy.CanManageCatalog))
	catalog.POST("/products", productHandler.CreateProduct)
	catalog.PUT("/products/:id", productHandler.UpdateProduct)
	catalog.DELETE("/products/:id", productHandler.DeleteProduct)
	catalog.POST("/categories", categoryHandler.CreateCategory)
	catalog.PUT("/categories/:id", categoryHandler.UpdateCategory)
	catalog.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	// Locations
	locations := authed.Group("/admin/locations")
	locations.Use(middleware.RequirePolicy(models.Policy.CanManageLocations))
	locations.POST("", locationHandler.CreateLocation)
	locations.PUT("/:id", locationHandler.UpdateLocation)
	locations.DELETE("/:id",
		middleware.RequirePolicy(models.Policy.CanDeleteLocations),
		locationHandler.DeleteLocation)

	// Master stock items
	stockItems := authed.Group("/admin/stock/items")
	stockItems.Use(middleware.RequirePolicy(models.Policy.CanManageStockItems))
	stockItems.GET("", stockItemHandler.GetStockItems)
	stockItems.POST("", stockItemHandler.CreateStockItem)
	stockItems.PUT("/:id", stockItemHandler.UpdateStockItem)
	stockItems.DELETE("/:id", stockItemHandler.DeleteStockItem)

	// Stock requests
	stockRequests := authed.Group("/admin/stock/requests")
	stockRequests.Use(middleware.RequirePolicy(models.Policy.CanCreateStockRequests))
	stockRequests.GET("", stockRequestHandler.GetStockRequests)
	stockRequests.GET("/:id", stockRequestHandler.GetStockRequest)
	stockRequests.POST("", stockRequestHandler.CreateStockRequest)
	stockRequests.POST("/:id/resolve",
		middleware.RequirePolicy(models.Policy.CanResolveStockRequests),
		stockRequestHandler.ResolveStockRequest)

	// Daily stock counts
	dailyStock := authed.Group("/manager/daily-stock")
	dailyStock.Use(middleware.RequirePolicy(models.Policy.CanSubmitDailyCounts))
	dailyStock.POST("", dailyStockHandler.Submit)
	dailyStock.GET("/history", dailyStockHandler.History)
	dailyStock.GET("/:id", dailyStockHandler.View)
	dailyStock.PUT("/:id", dailyStockHandler.Edit)
	dailyStock.DELETE("/:id", dailyStockHandler.Delete)
	dailyStock.POST("/:id/lock",
		middleware.RequirePolicy(models.Policy.CanOverrideDailyLock),
		dailyStockHandler.ToggleLock)

	// User administration
	users := authed.Group("/admin/users")
	users.GET("", middleware.RequirePolicy(models.Policy.CanManageUsers), userHandler.GetUsers)
	users.PUT("/:id", middleware.RequirePolicy(models.Policy.CanManageUsers), userHandler.UpdateUser)
	users.DELETE("/:id", middleware.RequirePolicy(models.Policy.CanManageUsers), userHandler.DeleteUser)
	users.POST("", middleware.RequirePolicy(models.Policy.CanCreateStaffAccounts), userHandler.CreateStaff)

	// Dashboard
	dashboard := authed.Group("/admin")
	dashboard.Use(middleware.RequirePolicy(models.Policy.CanViewDashboard))
	dashboard.GET("/dashboard", dashboardHandler.GetDashboard)
	dashboard.GET("/reports", dashboardHandler.GetReports)
}
