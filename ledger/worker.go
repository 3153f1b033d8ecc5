package ledger

import (
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"pos-terminal/models"
)

// Worker consumes order events on its own channel, one message at a time.
type Worker struct {
	workerID  int
	channel   *amqp.Channel
	queueName string
	tracker   *SalesTracker
	logger    *zap.Logger
}

func NewWorker(workerID int, conn *amqp.Connection, queueName string, tracker *SalesTracker, logger *zap.Logger) (*Worker, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for worker %d: %w", workerID, err)
	}

	err = ch.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set QoS for worker %d: %w", workerID, err)
	}

	return &Worker{
		workerID:  workerID,
		channel:   ch,
		queueName: queueName,
		tracker:   tracker,
		logger:    logger.With(zap.Int("worker", workerID)),
	}, nil
}

// Start consumes until the channel or connection closes.
func (w *Worker) Start(wg *sync.WaitGroup) {
	defer wg.Done()
	defer w.channel.Close()

	msgs, err := w.channel.Consume(
		w.queueName,                          // queue
		fmt.Sprintf("ledger-%d", w.workerID), // consumer tag
		false,                                // auto-ack
		false,                                // exclusive
		false,                                // no-local
		false,                                // no-wait
		nil,                                  // args
	)
	if err != nil {
		w.logger.Error("failed to register consumer", zap.Error(err))
		return
	}

	w.logger.Info("worker waiting for orders")
	w.consume(msgs)
	w.logger.Info("worker stopped")
}

func (w *Worker) consume(msgs <-chan amqp.Delivery) {
	for msg := range msgs {
		w.processMessage(msg)
	}
}

// processMessage acks counted and duplicate orders alike; malformed bodies
// are dropped without requeue.
func (w *Worker) processMessage(msg amqp.Delivery) {
	var order models.OrderRecord
	if err := json.Unmarshal(msg.Body, &order); err != nil {
		w.logger.Warn("dropping malformed order event", zap.Error(err))
		if err := msg.Nack(false, false); err != nil {
			w.logger.Error("failed to nack message", zap.Error(err))
		}
		return
	}

	if !w.tracker.RecordOrder(order) {
		w.logger.Info("duplicate order event ignored",
			zap.String("order_id", order.DisplayOrderID), zap.String("record_id", order.ID))
	}

	if err := msg.Ack(false); err != nil {
		w.logger.Error("failed to acknowledge message", zap.String("order_id", order.DisplayOrderID), zap.Error(err))
		return
	}
	w.logger.Debug("order recorded", zap.String("order_id", order.DisplayOrderID))
}

// Stop closes the worker's channel, which ends Start.
func (w *Worker) Stop() {
	if w.channel != nil {
		w.channel.Close()
	}
}
