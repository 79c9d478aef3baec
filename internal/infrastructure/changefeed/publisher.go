package changefeed

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	TopicFixturesChanged = "fixtures.changed"

	metadataFixtureID = "fixture_id"
	metadataStatus    = "status"
	metadataSource    = "source"
)

// Publisher puts fixture changes on the feed. Calls go through a circuit
// breaker so an unavailable broker fails fast.
type Publisher struct {
	pub     message.Publisher
	ids     id.Generator
	breaker *resilience.CircuitBreaker
	topic   string
	source  string
	logger  *logging.Logger
}

type PublisherConfig struct {
	Topic  string
	Source string
}

func NewPublisher(
	pub message.Publisher,
	ids id.Generator,
	breaker *resilience.CircuitBreaker,
	cfg PublisherConfig,
	logger *logging.Logger,
) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewTimeOrderedGenerator()
	}
	if cfg.Topic == "" {
		cfg.Topic = TopicFixturesChanged
	}
	if cfg.Source == "" {
		cfg.Source = "inprocess"
	}

	return &Publisher{
		pub:     pub,
		ids:     ids,
		breaker: breaker,
		topic:   cfg.Topic,
		source:  cfg.Source,
		logger:  logger,
	}
}

func (p *Publisher) PublishFixtureChange(ctx context.Context, change fixture.Change) error {
	payload, err := EncodeChange(change)
	if err != nil {
		return err
	}

	msgID, err := p.ids.NewID()
	if err != nil {
		return fmt.Errorf("new message id: %w", err)
	}

	msg := message.NewMessage(msgID, payload)
	msg.SetContext(ctx)
	middleware.SetCorrelationID(msgID, msg)
	msg.Metadata.Set(metadataFixtureID, change.After.ID)
	msg.Metadata.Set(metadataStatus, change.After.Status)
	msg.Metadata.Set(metadataSource, p.source)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("changefeed.topic", p.topic),
			attribute.String("changefeed.message_id", msgID),
			attribute.String("fixture.id", change.After.ID),
		)
	}

	if err := p.breaker.Execute(func() error {
		return p.pub.Publish(p.topic, msg)
	}); err != nil {
		return fmt.Errorf("publish fixture change fixture=%s: %w", change.After.ID, err)
	}

	p.logger.DebugContext(ctx, "fixture change published",
		"message_id", msgID,
		"fixture_id", change.After.ID,
		"status", change.After.Status,
		"source", p.source,
	)
	return nil
}
