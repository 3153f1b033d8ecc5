package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var ErrPoolExhausted = errors.New("no channels available in pool")

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// ChannelPool keeps a fixed set of open channels on one connection, each with
// the order queue declared.
type ChannelPool struct {
	conn      *amqp.Connection
	open      func() (Channel, error)
	channels  chan Channel
	mu        sync.Mutex
	closed    bool
	queueName string
	logger    *zap.Logger
}

// NewChannelPool dials RabbitMQ and pre-creates size channels.
func NewChannelPool(rabbitmqURL, queueName string, size int, logger *zap.Logger) (*ChannelPool, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	open := func() (Channel, error) { return conn.Channel() }
	pool, err := newChannelPool(open, queueName, size, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	pool.conn = conn
	return pool, nil
}

func newChannelPool(open func() (Channel, error), queueName string, size int, logger *zap.Logger) (*ChannelPool, error) {
	size = max(size, 1)
	pool := &ChannelPool{
		open:      open,
		channels:  make(chan Channel, size),
		queueName: queueName,
		logger:    logger,
	}

	for i := 0; i < size; i++ {
		ch, err := pool.createChannel()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create channel %d: %w", i, err)
		}
		pool.channels <- ch
	}

	logger.Info("rabbitmq channel pool ready", zap.Int("channels", size), zap.String("queue", queueName))
	return pool, nil
}

func (p *ChannelPool) createChannel() (Channel, error) {
	ch, err := p.open()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return ch, nil
}

// GetChannel takes a channel without waiting. A channel the broker closed is
// replaced by a fresh one.
func (p *ChannelPool) GetChannel() (Channel, error) {
	select {
	case ch, ok := <-p.channels:
		if !ok {
			return nil, errors.New("channel pool is closed")
		}
		if ch.IsClosed() {
			p.logger.Warn("replacing closed rabbitmq channel")
			return p.createChannel()
		}
		return ch, nil
	default:
		return nil, ErrPoolExhausted
	}
}

// ReturnChannel gives ch back; it is closed instead when the pool is full or shut.
func (p *ChannelPool) ReturnChannel(ch Channel) {
	if ch == nil || ch.IsClosed() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		ch.Close()
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

// Close closes every pooled channel and the connection. Safe to call twice.
func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	p.logger.Info("rabbitmq channel pool closed")
}
