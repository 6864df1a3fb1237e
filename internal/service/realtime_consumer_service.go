package service

import (
	"context"
	"encoding/json"

	"bioez-be/internal/pkg/logger"
	"bioez-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// FrameDelivery pushes a frame to a workspace's open sockets. The websocket
// hub implements it.
type FrameDelivery interface {
	Send(workspaceID, eventType string, data interface{})
}

type IRealtimeConsumer interface {
	// Consume blocks until ctx is cancelled.
	Consume(ctx context.Context) error
}

type realtimeConsumer struct {
	subscriber message.Subscriber
	topic      string
	delivery   FrameDelivery
	logger     logger.ILogger
}

func NewRealtimeConsumer(sub message.Subscriber, topic string, delivery FrameDelivery, log logger.ILogger) IRealtimeConsumer {
	return &realtimeConsumer{subscriber: sub, topic: topic, delivery: delivery, logger: log}
}

func (c *realtimeConsumer) Consume(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		return err
	}
	c.logger.Info("REALTIME", "Realtime consumer started", map[string]interface{}{"topic": c.topic})

	for msg := range messages {
		c.processMessage(msg)
	}
	return nil
}

func (c *realtimeConsumer) processMessage(msg *message.Message) {
	// undecodable messages are acked so they are not redelivered forever
	defer msg.Ack()

	event, err := events.Decode(msg.Payload)
	if err != nil {
		c.logger.Warn("REALTIME", "Dropping malformed event", map[string]interface{}{"error": err})
		return
	}

	workspaceID := events.WorkspaceID(event)
	if workspaceID == "" {
		return
	}

	var data json.RawMessage
	if raw, err := json.Marshal(event.Payload()[events.KeyData]); err == nil {
		data = raw
	}
	c.delivery.Send(workspaceID, event.EventType(), data)
}
