package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"pos-terminal/models"
)

const publishTimeout = 5 * time.Second

// Publisher sends order-placed events to the ledger queue.
type Publisher struct {
	pool      *ChannelPool
	queueName string
	logger    *zap.Logger
}

func NewPublisher(pool *ChannelPool, queueName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		pool:      pool,
		queueName: queueName,
		logger:    logger,
	}
}

// PublishOrder publishes order as a persistent JSON message. The record ID
// doubles as the message ID so consumers can drop redeliveries.
func (p *Publisher) PublishOrder(order models.OrderRecord) error {
	ch, err := p.pool.GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.ReturnChannel(ch)

	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    order.ID,
			Timestamp:    order.PlacedAt,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish order: %w", err)
	}

	p.logger.Info("published order event", zap.String("order_id", order.DisplayOrderID), zap.String("queue", p.queueName))
	return nil
}
