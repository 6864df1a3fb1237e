package service

import (
	"context"

	"bioez-be/internal/pkg/logger"
	"bioez-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const RealtimeTopic = "workspace.events"

type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ExternalPublisher forwards selected events outside the process (NATS).
type ExternalPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type eventPublisher struct {
	publisher message.Publisher
	topic     string
	external  ExternalPublisher
	forward   map[string]bool
	logger    logger.ILogger
}

// NewEventPublisher puts every event on the in-process bus and forwards the
// listed event types to external, when one is configured.
func NewEventPublisher(pub message.Publisher, topic string, external ExternalPublisher, forward []string, log logger.ILogger) IEventPublisher {
	f := make(map[string]bool, len(forward))
	for _, t := range forward {
		f[t] = true
	}
	return &eventPublisher{publisher: pub, topic: topic, external: external, forward: f, logger: log}
}

func (p *eventPublisher) Publish(ctx context.Context, event events.Event) error {
	data, err := events.Encode(event)
	if err != nil {
		p.logger.Error("EVENTS", "Failed to encode event", map[string]interface{}{"type": event.EventType(), "error": err})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("type", event.EventType())
	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("EVENTS", "Failed to publish event", map[string]interface{}{"type": event.EventType(), "error": err})
		return err
	}

	if p.external != nil && p.forward[event.EventType()] {
		if err := p.external.Publish(ctx, event); err != nil {
			p.logger.Warn("EVENTS", "Failed to forward event", map[string]interface{}{"type": event.EventType(), "error": err})
		}
	}
	return nil
}

type nopEventPublisher struct{}

// NewNopEventPublisher drops every event. Used when realtime updates are disabled.
func NewNopEventPublisher() IEventPublisher { return nopEventPublisher{} }

func (nopEventPublisher) Publish(context.Context, events.Event) error { return nil }
