package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-terminal/catalogsvc"
	"pos-terminal/config"
	"pos-terminal/logging"
	"pos-terminal/middleware"
)

func main() {
	cfg := config.LoadConfig("8080")

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Prices go out as JSON numbers, like the original backend.
	decimal.MarshalJSONWithoutQuotes = true

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store := catalogsvc.NewStore()
	if cfg.SeedDemoData {
		catalogsvc.SeedDemoData(store, logger)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS())
	catalogsvc.NewHandler(store, logger).RegisterRoutes(router)

	logger.Info("starting catalog service", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
