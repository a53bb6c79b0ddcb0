package main

import (
	"log"
	"time"

	"order_ledger/internal/config"
	"order_ledger/internal/database"
	"order_ledger/internal/handlers"
	"order_ledger/internal/migrations"
	"order_ledger/internal/redis"
	"order_ledger/internal/repository"
	"order_ledger/internal/services"

	"github.com/gin-gonic/gin"
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
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize Redis; the menu cache is optional, so a dead redis only
	// costs cache hits, never correctness.
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Redis unavailable, menu cache disabled: %v", err)
		redisClient = nil
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	cashierRepo := repository.NewCashierRepository(db)

	// Initialize services
	catalogService := services.NewCatalogService(menuRepo, redisClient, time.Duration(cfg.MenuCacheTTL)*time.Second)
	orderService := services.NewOrderService(orderRepo, settingRepo, catalogService, cfg.OrderNumberRetries)
	shiftService := services.NewShiftService(shiftRepo, cashierRepo)
	syncService := services.NewSyncService(orderService, shiftService, catalogService)

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(orderService, shiftService)
	shiftHandler := handlers.NewShiftHandler(shiftService)
	syncHandler := handlers.NewSyncHandler(syncService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/orders", orderHandler.CreateOrder)
		api.GET("/orders", orderHandler.ListOrders)
		api.GET("/orders/:id", orderHandler.GetOrder)
		api.PUT("/orders/:id", orderHandler.UpdateOrder)
		api.POST("/orders/:id/items", orderHandler.AddItem)
		api.PUT("/orders/:id/items/:item_id", orderHandler.UpdateItem)
		api.DELETE("/orders/:id/items/:item_id", orderHandler.RemoveItem)
		api.GET("/orders/:id/modifications", orderHandler.ListModifications)

		api.POST("/sync/orders", syncHandler.SyncOrders)

		api.POST("/shifts", shiftHandler.OpenShift)
		api.GET("/shifts/:id", shiftHandler.GetShift)
		api.PUT("/shifts/:id/close", shiftHandler.CloseShift)
		api.GET("/shifts/:id/summary", shiftHandler.ShiftSummary)
		api.GET("/cashiers/:cashier_id/shift", shiftHandler.CurrentShift)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
