package main

import (
	"log"
	"time"

	"marketplace_platform/internal/config"
	"marketplace_platform/internal/database"
	"marketplace_platform/internal/handlers"
	"marketplace_platform/internal/migrations"
	"marketplace_platform/internal/redis"
	"marketplace_platform/internal/repository"
	"marketplace_platform/internal/services"
	"marketplace_platform/pkg/notify"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis balance cache
	cache, err := redis.Initialize(cfg.RedisURL, time.Duration(cfg.BalanceCacheTTL)*time.Second)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize notification gateway client
	notifier := notify.NewClient(cfg.NotifyAPIURL, cfg.NotifyUsername, cfg.NotifyPassword)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderLineRepo := repository.NewOrderLineRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo)
	vendorService := services.NewVendorService(
		vendorRepo, commissionRepo, productRepo, userRepo, auditRepo, cache,
		decimal.NewFromFloat(cfg.DefaultCommissionRate), cfg.DefaultCurrency)
	commissionService := services.NewCommissionService(commissionRepo, auditRepo, cache)
	orderService := services.NewOrderService(
		orderRepo, orderLineRepo, productRepo, vendorRepo, auditRepo, commissionService, notifier)
	payoutService := services.NewPayoutService(db, vendorRepo, commissionRepo, payoutRepo, auditRepo, cache)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(userService, vendorService, orderService, payoutService)
	adminHandler := handlers.NewAdminHandler(vendorService, orderService, commissionService, payoutService, auditRepo)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		// Vendor portal
		api.POST("/marketplace/register", apiHandler.RegisterVendor)
		api.GET("/marketplace/dashboard/:vendor_id", apiHandler.VendorDashboard)
		api.GET("/vendors/:id/balance", apiHandler.GetVendorBalance)
		api.GET("/vendors/:id/products", apiHandler.GetVendorProducts)
		api.GET("/vendors/:id/payouts", apiHandler.GetVendorPayouts)
		api.POST("/payouts", apiHandler.RequestPayout)

		// Catalog and orders (host-platform surface)
		api.POST("/products", apiHandler.CreateProduct)
		api.POST("/orders", apiHandler.CreateOrder)
		api.POST("/orders/:id/lines", apiHandler.AddOrderLine)
		api.GET("/orders/:id", apiHandler.GetOrder)

		// Admin
		admin := api.Group("/admin")
		{
			admin.GET("/vendors/pending", adminHandler.GetPendingVendors)
			admin.POST("/vendors/:id/approve", adminHandler.ApproveVendor)
			admin.POST("/vendors/:id/reject", adminHandler.RejectVendor)
			admin.POST("/vendors/:id/suspend", adminHandler.SuspendVendor)
			admin.POST("/orders/:id/confirm", adminHandler.ConfirmOrder)
			admin.POST("/commissions/backfill", adminHandler.BackfillCommissions)
			admin.POST("/commissions/:id/void", adminHandler.VoidCommission)
			admin.POST("/payouts/:id/validate", adminHandler.ValidatePayout)
			admin.POST("/payouts/:id/pay", adminHandler.PayPayout)
			admin.POST("/payouts/:id/reject", adminHandler.RejectPayout)
			admin.GET("/audit/:entity/:id", adminHandler.GetAuditTrail)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
