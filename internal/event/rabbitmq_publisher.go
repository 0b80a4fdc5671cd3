package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	routingKeyLoanApproved      = "loan.approved"
	routingKeyLoanRejected      = "loan.rejected"
	routingKeyRepaymentRecorded = "repayment.recorded"
	routingKeyLoanOverdue       = "loan.overdue"
	publisherAppID              = "easytap"
)

// Publisher emits domain events. Publishing is best-effort everywhere: a
// failed publish is logged by the caller and never fails the business
// operation that produced the event.
type Publisher interface {
	PublishLoanApproved(ctx context.Context, e LoanApprovedEvent) error
	PublishLoanRejected(ctx context.Context, e LoanRejectedEvent) error
	PublishRepaymentRecorded(ctx context.Context, e RepaymentRecordedEvent) error
	PublishLoanOverdue(ctx context.Context, e LoanOverdueEvent) error
}

type RabbitMQPublisher struct {
	conn         *amqp.Connection
	exchangeName string
	logger       *slog.Logger
}

func NewRabbitMQPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}

	tempCh, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	err = tempCh.ExchangeDeclare(
		exchangeName,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &RabbitMQPublisher{
		conn:         conn,
		exchangeName: exchangeName,
		logger:       logger.With("component", "RabbitMQPublisher", "exchange", exchangeName),
	}, nil
}

func (p *RabbitMQPublisher) PublishLoanApproved(ctx context.Context, e LoanApprovedEvent) error {
	return p.publish(ctx, routingKeyLoanApproved, e)
}

func (p *RabbitMQPublisher) PublishLoanRejected(ctx context.Context, e LoanRejectedEvent) error {
	return p.publish(ctx, routingKeyLoanRejected, e)
}

func (p *RabbitMQPublisher) PublishRepaymentRecorded(ctx context.Context, e RepaymentRecordedEvent) error {
	return p.publish(ctx, routingKeyRepaymentRecorded, e)
}

func (p *RabbitMQPublisher) PublishLoanOverdue(ctx context.Context, e LoanOverdueEvent) error {
	return p.publish(ctx, routingKeyLoanOverdue, e)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, payload interface{}) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey))

	channel, err := p.conn.Channel()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = channel.PublishWithContext(
		ctx,
		p.exchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			AppId:        publisherAppID,
		},
	)

	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logCtx.DebugContext(ctx, "Published message", "bodySize", len(body))
	return nil
}

// NoopPublisher is used when event publishing is disabled in configuration.
type NoopPublisher struct{}

func (NoopPublisher) PublishLoanApproved(context.Context, LoanApprovedEvent) error { return nil }

func (NoopPublisher) PublishLoanRejected(context.Context, LoanRejectedEvent) error { return nil }

func (NoopPublisher) PublishRepaymentRecorded(context.Context, RepaymentRecordedEvent) error {
	return nil
}

func (NoopPublisher) PublishLoanOverdue(context.Context, LoanOverdueEvent) error { return nil }
