package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	cartapp "github.com/shoemarket/backend/internal/application/cart"
	catalogapp "github.com/shoemarket/backend/internal/application/catalog"
	identityapp "github.com/shoemarket/backend/internal/application/identity"
	notificationapp "github.com/shoemarket/backend/internal/application/notification"
	orderapp "github.com/shoemarket/backend/internal/application/order"
	reviewapp "github.com/shoemarket/backend/internal/application/review"
	"github.com/shoemarket/backend/internal/infrastructure/auth"
	"github.com/shoemarket/backend/internal/infrastructure/cache"
	"github.com/shoemarket/backend/internal/infrastructure/config"
	"github.com/shoemarket/backend/internal/infrastructure/logger"
	"github.com/shoemarket/backend/internal/infrastructure/persistence"
	"github.com/shoemarket/backend/internal/interfaces/http/handler"
	"github.com/shoemarket/backend/internal/interfaces/http/middleware"
	"github.com/shoemarket/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shoe market backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	orderScope := persistence.NewGormTransactionScope(db.DB)

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := auth.NewRedisTokenBlacklist(redisClient)

	// View counting is best-effort and flushed to the product table in the
	// background
	viewCounter := cache.NewRedisViewCounter(redisClient, productRepo, log)

	pricing, err := checkoutPricing(cfg.Order)
	if err != nil {
		log.Fatal("Invalid order pricing configuration", zap.Error(err))
	}

	// Application services
	notificationService := notificationapp.NewNotificationService(notificationRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	productService := catalogapp.NewProductService(productRepo, userRepo, viewCounter, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	orderService := orderapp.NewOrderService(orderScope, orderRepo, cartRepo, notificationService, pricing, log)
	reviewService := reviewapp.NewReviewService(reviewRepo, orderRepo, productRepo, log)

	// Background housekeeping
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go viewCounter.Run(bgCtx, time.Minute)
	go purgeExpiredNotifications(bgCtx, notificationService, cfg.Notification.PurgeInterval, log)

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	// request IDs must be assigned before the request logger reads them
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	router.Setup(engine, router.Config{
		Handlers: router.Handlers{
			Auth:         handler.NewAuthHandler(authService),
			Product:      handler.NewProductHandler(productService),
			Cart:         handler.NewCartHandler(cartService),
			Order:        handler.NewOrderHandler(orderService),
			Review:       handler.NewReviewHandler(reviewService),
			Notification: handler.NewNotificationHandler(notificationService),
			User:         handler.NewUserHandler(userService),
			System:       handler.NewSystemHandler(db, redisClient, version),
		},
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: tokenBlacklist,
			Logger:         log,
		},
		CORS:         corsConfig,
		MaxBodyBytes: cfg.HTTP.MaxBodySize,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// checkoutPricing parses the configured decimal strings once at startup
func checkoutPricing(cfg config.OrderConfig) (orderapp.Pricing, error) {
	shippingFee, err := decimal.NewFromString(cfg.ShippingFee)
	if err != nil {
		return orderapp.Pricing{}, err
	}
	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return orderapp.Pricing{}, err
	}

	pricing := orderapp.Pricing{
		ShippingFee: shippingFee,
		TaxRate:     taxRate,
	}
	if cfg.FreeShippingAbove != "" {
		threshold, err := decimal.NewFromString(cfg.FreeShippingAbove)
		if err != nil {
			return orderapp.Pricing{}, err
		}
		pricing.FreeShippingAbove = &threshold
	}
	return pricing, nil
}

// purgeExpiredNotifications deletes expired notifications on a fixed
// interval until ctx is cancelled
func purgeExpiredNotifications(ctx context.Context, svc *notificationapp.NotificationService, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := svc.PurgeExpired(ctx)
			if err != nil {
				log.Warn("Notification purge failed", zap.Error(err))
				continue
			}
			if purged > 0 {
				log.Info("Purged expired notifications", zap.Int64("count", purged))
			}
		}
	}
}
