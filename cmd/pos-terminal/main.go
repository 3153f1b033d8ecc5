package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-terminal/catalog"
	"pos-terminal/checkout"
	"pos-terminal/clients"
	"pos-terminal/config"
	"pos-terminal/handlers"
	"pos-terminal/logging"
	"pos-terminal/middleware"
	"pos-terminal/rabbitmq"
	"pos-terminal/sequencer"
)

func main() {
	cfg := config.LoadConfig("8081")

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting pos terminal",
		zap.String("port", cfg.Port),
		zap.String("catalog_service_url", cfg.CatalogServiceURL))

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	catalogClient := clients.NewCatalogClient(cfg.CatalogServiceURL, cfg.RequestTimeout)
	cache := catalog.NewCache(catalogClient, logger)

	// The terminal still starts when the service is down; the operator can
	// reload the catalog later.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	if err := cache.Load(ctx); err != nil {
		logger.Warn("initial catalog load failed", zap.Error(err))
	}
	cancel()

	var events checkout.EventPublisher
	if cfg.RabbitMQURL != "" {
		channelPool, err := rabbitmq.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize, logger)
		if err != nil {
			logger.Fatal("failed to create rabbitmq channel pool", zap.Error(err))
		}
		defer channelPool.Close()
		events = rabbitmq.NewPublisher(channelPool, cfg.RabbitMQQueue, logger)
	} else {
		logger.Info("RABBITMQ_URL not set, order events disabled")
	}

	seq := sequencer.New(cfg.OrderSeqStart)
	session := checkout.NewSession(cache, seq, logger)
	workflow := checkout.NewWorkflow(session, catalogClient, events, logger)
	workflow.OnTransition(func(from, to checkout.State) {
		logger.Info("order workflow", zap.Stringer("from", from), zap.Stringer("to", to))
	})

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS())
	handlers.RegisterRoutes(router,
		handlers.NewSessionHandler(session, workflow, cache, logger),
		handlers.NewCheckoutHandler(session, workflow, logger))

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
