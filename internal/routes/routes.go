package routes

import (
	"github.com/gin-gonic/gin"

	pa "vitrine_back_end/internal/handlers/payement"
	"vitrine_back_end/internal/handlers/product"
	"vitrine_back_end/internal/handlers/store"
	"vitrine_back_end/internal/handlers/user"
	"vitrine_back_end/internal/handlers/ws"
	"vitrine_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Auth
	api.POST("/auth/register", middleware.LoginRateLimit(), user.Register)
	api.POST("/auth/login", middleware.LoginRateLimit(), user.Login)
	api.GET("/auth/:provider", user.BeginAuth)
	api.GET("/auth/:provider/callback", user.CallbackAuth)
	api.POST("/auth/logout", user.Logout)

	// Webhook Stripe (signé, pas de JWT)
	api.POST("/stripe/webhook", pa.StripeWebhook)

	// Catalogue public
	api.GET("/products", product.GetAllProducts)
	api.GET("/products/search", product.SearchProducts)
	api.GET("/products/:productId", product.GetProduct)
	api.GET("/categories", product.GetCategories)
	api.GET("/stores/:storeId", store.GetStore)
	api.GET("/shipping/options", pa.GetShippingOptions)

	// Espace utilisateur connecté
	auth := api.Group("")
	auth.Use(middleware.AuthRequired(), middleware.APIRateLimit())
	{
		auth.GET("/me", user.Me)

		auth.GET("/cart", user.GetCart)
		auth.POST("/cart", user.AddToCart)
		auth.PUT("/cart", user.UpdateCartItem)
		auth.DELETE("/cart", user.ClearCart)

		auth.GET("/addresses", user.GetMyAddresses)
		auth.POST("/addresses", user.CreateAddress)
		auth.DELETE("/addresses/:addressId", user.DeleteAddress)

		auth.GET("/orders", user.GetMyOrders)
		auth.GET("/orders/:orderId", user.GetOrderByID)
		auth.POST("/checkout", pa.Checkout)

		auth.POST("/returns", pa.RequestReturn)
		auth.GET("/returns/order/:orderId", pa.GetOrderReturns)

		auth.POST("/stores", store.CreateStore)
	}

	// Réconciliation remboursements (admin plateforme)
	reconcile := api.Group("")
	reconcile.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		reconcile.GET("/transactions", pa.GetTransactions)
		reconcile.GET("/transactions/stripe/list", pa.GetStripeTransactions)
		reconcile.GET("/refunds/order/:orderId", pa.GetOrderRefunds)
		reconcile.POST("/refunds/:orderId", pa.CreateRefund)
	}

	// Espace admin boutique
	storeAdmin := api.Group("/store")
	storeAdmin.Use(middleware.AuthRequired(), middleware.StoreAdminRequired())
	{
		storeAdmin.GET("/me", store.GetMyStore)
		storeAdmin.PUT("/me", store.UpdateStore)

		storeAdmin.POST("/products", product.CreateProduct)
		storeAdmin.PUT("/products/:productId", product.UpdateProduct)
		storeAdmin.DELETE("/products/:productId", product.DeleteProduct)
		storeAdmin.POST("/products/:productId/images", product.UploadProductImage)
		storeAdmin.PUT("/products/:productId/stock", product.UpdateStock)
		storeAdmin.GET("/products/low-stock", product.GetLowStockProducts)

		storeAdmin.POST("/withdrawals", store.RequestWithdrawal)
		storeAdmin.GET("/withdrawals", store.GetStoreWithdrawals)
	}

	// Espace admin plateforme
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		admin.GET("/orders", pa.GetAllOrders)
		admin.GET("/orders/recent", pa.GetRecentOrders)
		admin.GET("/orders/:orderId", pa.GetOrderDetail)
		admin.PUT("/orders/:orderId/status", pa.UpdateOrderStatus)

		admin.GET("/refunds", pa.GetAllRefunds)

		admin.GET("/returns", pa.GetAllReturns)
		admin.PUT("/returns/:returnId", pa.ProcessReturn)

		admin.GET("/dashboard/stats", pa.GetDashboardStats)
		admin.GET("/dashboard/top-products", pa.GetTopProducts)

		admin.GET("/stores", store.GetAllStores)
		admin.PUT("/stores/:storeId/status", store.ApproveStore)
		admin.PUT("/withdrawals/:withdrawalId", store.ProcessWithdrawal)

		admin.POST("/categories", product.CreateCategory)
		admin.DELETE("/categories/:categoryId", product.DeleteCategory)

		admin.GET("/images/presign", product.GetPresignedImageURL)

		admin.GET("/ws/refresh", ws.HandleRefreshSocket)
	}
}
