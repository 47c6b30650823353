// Package mq wraps the AMQP connection used for the booking event stream.
package mq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/config"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

const (
	dialAttempts    = 10
	initialBackoff  = 1 * time.Second
	maxBackoff      = 30 * time.Second
	publishTimeout  = 5 * time.Second
	prefetchPerConn = 10
)

// RabbitMQ holds one connection and one channel. The broker is assumed to
// be supervised externally; the wrapper retries the initial dial but does
// not reconnect mid-flight.
type RabbitMQ struct {
	url    string
	log    *logger.Logger
	mu     sync.RWMutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewRabbitMQ dials the broker, backing off between attempts until ctx is
// cancelled or the attempt budget runs out.
func NewRabbitMQ(ctx context.Context, cfg config.MQConfig, log *logger.Logger) (*RabbitMQ, error) {
	mq := &RabbitMQ{url: cfg.AMQPURL(), log: log}

	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		err := mq.dial()
		if err == nil {
			log.Info(logger.Entry{
				Action:  "rabbitmq_connected",
				Message: fmt.Sprintf("connected to %s:%d", cfg.Host, cfg.Port),
			})
			return mq, nil
		}

		log.Warn(logger.Entry{
			Action:  "rabbitmq_dial_failed",
			Message: err.Error(),
			Additional: map[string]any{
				"attempt": attempt,
				"backoff": backoff.String(),
			},
		})
		if attempt >= dialAttempts {
			return nil, fmt.Errorf("connect to rabbitmq after %d attempts: %w", dialAttempts, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(time.Duration(float64(backoff)*1.5), maxBackoff)
	}
}

func (mq *RabbitMQ) dial() error {
	conn, err := amqp.Dial(mq.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Qos(prefetchPerConn, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos: %w", err)
	}

	mq.mu.Lock()
	mq.conn = conn
	mq.ch = ch
	mq.mu.Unlock()
	return nil
}

// Channel returns the active channel, nil when not connected.
func (mq *RabbitMQ) Channel() *amqp.Channel {
	mq.mu.RLock()
	defer mq.mu.RUnlock()
	return mq.ch
}

// Publish sends a persistent JSON message to an exchange.
func (mq *RabbitMQ) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return ch.PublishWithContext(publishCtx, exchange, routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

// Consume drains a queue into handler on a background goroutine until ctx
// is cancelled. Ack/nack is the handler's responsibility.
func (mq *RabbitMQ) Consume(ctx context.Context, queue, consumer string, handler func(amqp.Delivery)) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	deliveries, err := ch.Consume(queue, consumer,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming %s: %w", queue, err)
	}

	mq.log.Info(logger.Entry{
		Action:  "consumer_started",
		Message: queue,
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					mq.log.Info(logger.Entry{
						Action:  "consumer_stopped",
						Message: queue,
					})
					return
				}
				handler(d)
			}
		}
	}()
	return nil
}

// Close shuts down the channel and connection once.
func (mq *RabbitMQ) Close() {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return
	}
	mq.closed = true

	if mq.ch != nil {
		_ = mq.ch.Close()
	}
	if mq.conn != nil {
		_ = mq.conn.Close()
	}
	mq.log.Info(logger.Entry{Action: "rabbitmq_closed", Message: "connection closed"})
}
