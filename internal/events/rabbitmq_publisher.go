package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/domain"
)

const publishTimeout = 5 * time.Second

// RabbitMQPublisher implements domain.EventPublisher on a topic exchange.
type RabbitMQPublisher struct {
	conn       *amqp.Connection
	mu         sync.Mutex // amqp channels are not safe for concurrent publishing
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     logrus.FieldLogger
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the exchange.
func NewRabbitMQPublisher(url, exchange, routingKey string, logger logrus.FieldLogger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"exchange":    exchange,
		"routing_key": routingKey,
	}).Info("RabbitMQ publisher initialized")

	return &RabbitMQPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

// PublishOperationPosted publishes an operation.posted event for a committed operation.
// Failures are logged and returned.
func (p *RabbitMQPublisher) PublishOperationPosted(ctx context.Context, op *domain.Operation) error {
	event := NewOperationPostedEvent(op, time.Now())
	log := p.logger.WithFields(logrus.Fields{
		"event_id":     event.EventID,
		"operation_id": event.OperationID,
		"account_id":   event.AccountID,
	})

	body, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("failed to marshal operation.posted event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Type:         event.EventType,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	p.mu.Unlock()
	if err != nil {
		log.WithError(err).Warn("failed to publish operation.posted event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug("published operation.posted event")
	return nil
}

// Close closes the RabbitMQ connection and channel
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.WithError(err).Warn("error closing channel")
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
