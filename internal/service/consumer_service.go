package service

import (
	"context"

	"returns-assistant-be/internal/metrics"
	"returns-assistant-be/internal/pkg/logger"
	"returns-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder ships an event to an external bus.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	auditLogger logger.ILogger
	forwarder   EventForwarder
	metrics     *metrics.Metrics
	logger      logger.ILogger
}

// NewConsumerService builds the audit consumer. forwarder may be nil when no
// external bus is configured.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	auditLogger logger.ILogger,
	forwarder EventForwarder,
	m *metrics.Metrics,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		auditLogger: auditLogger,
		forwarder:   forwarder,
		metrics:     m,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: the audit line is written once, and
// forwarding is best effort.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := events.DecodeQueryAnswered(msg.Payload)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.auditLogger.Info("AUDIT", "query answered", event.Payload())

	if cs.forwarder == nil {
		return
	}
	err = cs.forwarder.Publish(ctx, event)
	if cs.metrics != nil {
		cs.metrics.EventForwarded(err)
	}
	if err != nil {
		cs.logger.Warn("ConsumerService", "Failed to forward event", map[string]interface{}{
			"request_id": event.RequestID,
			"error":      err.Error(),
		})
	}
}
