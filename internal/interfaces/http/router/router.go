package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/interfaces/http/handler"
	"github.com/shoemarket/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Review       *handler.ReviewHandler
	Notification *handler.NotificationHandler
	User         *handler.UserHandler
	System       *handler.SystemHandler
}

// Config holds router dependencies
type Config struct {
	Handlers     Handlers
	JWT          middleware.JWTMiddlewareConfig
	CORS         middleware.CORSConfig
	MaxBodyBytes int64
}

// Setup registers every route on the engine under /api/v1. Public catalog
// and review reads run with optional authentication so sellers and admins
// see their inactive listings; everything else requires a valid token.
func Setup(engine *gin.Engine, cfg Config) {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	engine.GET("/health", cfg.Handlers.System.Health)

	requireAuth := middleware.RequireAuth(cfg.JWT)
	optionalAuth := middleware.OptionalAuth(cfg.JWT)
	adminOnly := middleware.RequireRole(identity.RoleAdmin)
	sellerOrAdmin := middleware.RequireRole(identity.RoleSeller, identity.RoleAdmin)

	api := engine.Group("/api/v1")

	api.GET("/system/info", cfg.Handlers.System.Info)

	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.Handlers.Auth.Register)
		auth.POST("/register/seller", cfg.Handlers.Auth.RegisterSeller)
		auth.POST("/login", cfg.Handlers.Auth.Login)
		auth.POST("/refresh", cfg.Handlers.Auth.Refresh)

		auth.POST("/logout", requireAuth, cfg.Handlers.Auth.Logout)
		auth.GET("/profile", requireAuth, cfg.Handlers.Auth.Profile)
		auth.PUT("/profile", requireAuth, cfg.Handlers.Auth.UpdateProfile)
		auth.PUT("/password", requireAuth, cfg.Handlers.Auth.ChangePassword)
	}

	products := api.Group("/products")
	{
		products.GET("", optionalAuth, cfg.Handlers.Product.List)
		products.GET("/:id", optionalAuth, cfg.Handlers.Product.Get)
		products.GET("/slug/:slug", optionalAuth, cfg.Handlers.Product.GetBySlug)
		products.GET("/:id/reviews", cfg.Handlers.Review.ListByProduct)

		products.POST("", requireAuth, sellerOrAdmin, cfg.Handlers.Product.Create)
		products.PUT("/:id", requireAuth, sellerOrAdmin, cfg.Handlers.Product.Update)
		products.DELETE("/:id", requireAuth, sellerOrAdmin, cfg.Handlers.Product.Delete)
		products.POST("/:id/variants", requireAuth, sellerOrAdmin, cfg.Handlers.Product.AddVariant)
		products.PUT("/:id/variants/:sku", requireAuth, sellerOrAdmin, cfg.Handlers.Product.UpdateVariant)
		products.DELETE("/:id/variants/:sku", requireAuth, sellerOrAdmin, cfg.Handlers.Product.RemoveVariant)
	}

	api.GET("/seller/products", requireAuth, sellerOrAdmin, cfg.Handlers.Product.ListMine)

	cart := api.Group("/cart", requireAuth)
	{
		cart.GET("", cfg.Handlers.Cart.Get)
		cart.DELETE("", cfg.Handlers.Cart.Clear)
		cart.POST("/items", cfg.Handlers.Cart.AddItem)
		cart.PUT("/items/:id", cfg.Handlers.Cart.UpdateItem)
		cart.DELETE("/items/:id", cfg.Handlers.Cart.RemoveItem)
	}

	orders := api.Group("/orders", requireAuth)
	{
		orders.POST("", cfg.Handlers.Order.Create)
		orders.GET("", cfg.Handlers.Order.List)
		orders.GET("/:id", cfg.Handlers.Order.Get)
		orders.PATCH("/:id/status", cfg.Handlers.Order.UpdateStatus)
		orders.POST("/:id/cancel", cfg.Handlers.Order.Cancel)
	}

	reviews := api.Group("/reviews", requireAuth)
	{
		reviews.POST("", cfg.Handlers.Review.Create)
		reviews.GET("/mine", cfg.Handlers.Review.ListMine)
		reviews.PUT("/:id", cfg.Handlers.Review.Update)
		reviews.DELETE("/:id", cfg.Handlers.Review.Delete)
	}

	notifications := api.Group("/notifications", requireAuth)
	{
		notifications.GET("", cfg.Handlers.Notification.List)
		notifications.GET("/unread-count", cfg.Handlers.Notification.UnreadCount)
		notifications.PATCH("/read-all", cfg.Handlers.Notification.MarkAllRead)
		notifications.PATCH("/:id/read", cfg.Handlers.Notification.MarkRead)
		notifications.PATCH("/:id/archive", cfg.Handlers.Notification.Archive)
		notifications.DELETE("/:id", cfg.Handlers.Notification.Delete)
	}

	admin := api.Group("/admin", requireAuth, adminOnly)
	{
		admin.GET("/users", cfg.Handlers.User.List)
		admin.GET("/users/:id", cfg.Handlers.User.Get)
		admin.PUT("/users/:id/suspend", cfg.Handlers.User.Suspend)
		admin.PUT("/users/:id/activate", cfg.Handlers.User.Activate)
		admin.PUT("/reviews/:id/moderate", cfg.Handlers.Review.Moderate)
	}
}
