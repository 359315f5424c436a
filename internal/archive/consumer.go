package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/config"
	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/events"
)

// Consumer archives operation.posted events from RabbitMQ.
// Delivery is at-least-once: a message is acked only after it has been stored.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
	store   OperationStore
	logger  logrus.FieldLogger
}

// NewConsumer connects to RabbitMQ and declares and binds the archive queue.
func NewConsumer(cfg config.RabbitMQConfig, store OperationStore, logger logrus.FieldLogger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	closeAll := func() {
		channel.Close()
		conn.Close()
	}

	if err := channel.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := channel.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.QueueBind(queue.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	// At most one unacked message per consumer.
	if err := channel.Qos(1, 0, false); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"exchange":    cfg.Exchange,
		"queue":       cfg.Queue,
		"routing_key": cfg.RoutingKey,
	}).Info("RabbitMQ consumer initialized")

	return &Consumer{
		conn:    conn,
		channel: channel,
		config:  cfg,
		store:   store,
		logger:  logger,
	}, nil
}

// Start consumes messages until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.config.Queue, // queue
		"",             // consumer tag (auto-generated)
		false,          // auto-ack (we'll ack manually)
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.WithField("queue", c.config.Queue).Info("RabbitMQ consumer started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("context cancelled, stopping RabbitMQ consumer")
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.deliver(ctx, msg)
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, msg amqp.Delivery) {
	err := c.handleMessage(ctx, msg.Body)
	switch {
	case err == nil:
		if ackErr := msg.Ack(false); ackErr != nil {
			c.logger.WithError(ackErr).Warn("failed to ack message")
		}
	case isPoison(err):
		// Malformed events are dropped, not requeued.
		c.logger.WithError(err).WithField("message_id", msg.MessageId).Error("dropping invalid event")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.WithError(nackErr).Warn("failed to nack message")
		}
	default:
		c.logger.WithError(err).WithField("message_id", msg.MessageId).Warn("failed to archive event, requeueing")
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.logger.WithError(nackErr).Warn("failed to nack message")
		}
	}
}

// poisonError marks a message that can never be processed.
type poisonError struct{ err error }

func (e *poisonError) Error() string { return e.err.Error() }
func (e *poisonError) Unwrap() error { return e.err }

func isPoison(err error) bool {
	var p *poisonError
	return errors.As(err, &p)
}

// handleMessage decodes, validates and stores a single event.
func (c *Consumer) handleMessage(ctx context.Context, body []byte) error {
	var event events.OperationPostedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return &poisonError{fmt.Errorf("failed to unmarshal event: %w", err)}
	}
	if err := event.Validate(); err != nil {
		return &poisonError{fmt.Errorf("invalid event: %w", err)}
	}

	op, err := toOperation(&event)
	if err != nil {
		return &poisonError{err}
	}

	if err := c.store.InsertOperation(ctx, op); err != nil {
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"event_id":     event.EventID,
		"operation_id": event.OperationID,
		"account_id":   event.AccountID,
	}).Debug("archived operation")
	return nil
}

func toOperation(e *events.OperationPostedEvent) (*Operation, error) {
	value, err := decimal.NewFromString(e.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}
	balance, err := decimal.NewFromString(e.BalanceAfter)
	if err != nil {
		return nil, fmt.Errorf("invalid balance after: %w", err)
	}
	postedAt, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return &Operation{
		OperationID:   e.OperationID,
		AccountID:     e.AccountID,
		TypeOperation: uint8(e.TypeOperation),
		TypeName:      e.TypeName,
		Value:         value,
		BalanceAfter:  balance,
		Employee:      e.Employee,
		PostedAt:      postedAt,
		EventID:       e.EventID,
	}, nil
}

// Close closes the RabbitMQ connection and channel
func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.WithError(err).Warn("error closing channel")
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
