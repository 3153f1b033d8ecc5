package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"pos-terminal/config"
	"pos-terminal/ledger"
	"pos-terminal/logging"
)

func main() {
	cfg := config.LoadConfig("")

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if cfg.RabbitMQURL == "" {
		logger.Fatal("RABBITMQ_URL is required")
	}

	logger.Info("starting sales ledger", zap.Int("workers", cfg.NumWorkers), zap.String("queue", cfg.RabbitMQQueue))

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("failed to open a channel", zap.Error(err))
	}
	_, err = ch.QueueDeclare(
		cfg.RabbitMQQueue, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		logger.Fatal("failed to declare queue", zap.Error(err))
	}
	ch.Close()

	tracker := ledger.NewSalesTracker()

	var wg sync.WaitGroup
	var workers []*ledger.Worker
	for i := 1; i <= max(cfg.NumWorkers, 1); i++ {
		worker, err := ledger.NewWorker(i, conn, cfg.RabbitMQQueue, tracker, logger)
		if err != nil {
			logger.Fatal("failed to create worker", zap.Int("worker", i), zap.Error(err))
		}
		workers = append(workers, worker)
		wg.Add(1)
		go worker.Start(&wg)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutdown signal received, stopping workers")

	for _, worker := range workers {
		worker.Stop()
	}
	wg.Wait()

	tracker.PrintSummary(os.Stdout)
	logger.Info("sales ledger shut down")
}
