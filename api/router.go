package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"supermarket_api/internal/auth"
	"supermarket_api/internal/checkout"
	"supermarket_api/internal/config"
	"supermarket_api/internal/inventory"
	"supermarket_api/internal/ledger"
	"supermarket_api/internal/report"
	"supermarket_api/internal/storage/csvfile"
	"supermarket_api/internal/storage/sqlite"
)

// InitRoutes assembles the storage backend, the core services and the
// handlers, then binds each HTTP method and path on the given Gin engine.
//
// Cashiers can add items and sell; every other operation sits behind the
// manager role.
func InitRoutes(e *gin.Engine, cfg config.Config, logger *zap.Logger) error {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	invStorage, ledStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}

	inventoryService, err := inventory.NewService(invStorage, logger)
	if err != nil {
		return err
	}
	ledgerService, err := ledger.NewService(ledStorage, logger)
	if err != nil {
		return err
	}
	checkoutService := checkout.NewService(inventoryService, ledgerService, logger)
	reportService := report.NewService(inventoryService, ledgerService)

	users, err := auth.LoadUsers(cfg.UsersFile)
	if err != nil {
		return err
	}
	authService := auth.NewService(users, []byte(cfg.JWTSecret), cfg.TokenTTL, logger)

	h := newAPIHandler(inventoryService, checkoutService, reportService, authService, cfg, logger)

	e.POST("/login", h.handleLogin)
	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authorized := e.Group("", authRequired(authService))
	authorized.POST("/items", h.handleCreateItem)
	authorized.POST("/checkout", h.handleCheckout)

	manager := authorized.Group("", requireManager())
	manager.GET("/items", h.handleListItems)
	manager.GET("/items/alerts", h.handleAlerts)
	manager.PATCH("/items/:id", h.handleUpdateItem)
	manager.DELETE("/items/:id", h.handleDeleteItem)
	manager.GET("/reports/daily", h.handleDailyReport)
	manager.GET("/reports/summary", h.handleSummary)
	manager.GET("/reports/history", h.handleHistory)

	return nil
}

// openStorage picks the persistence backend from configuration.
func openStorage(cfg config.Config) (inventory.Storage, ledger.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return inventory.NewLocalStorage(), ledger.NewLocalStorage(), nil
	case config.BackendCSV:
		store, err := csvfile.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open csv storage: %w", err)
		}
		return store, store, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
