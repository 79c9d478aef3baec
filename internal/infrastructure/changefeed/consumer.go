package changefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const finalizationHandlerName = "finalization.fixtures_changed"

// HandlerFunc processes one decoded fixture change. Returning an error makes
// the message eligible for redelivery.
type HandlerFunc func(ctx context.Context, change fixture.Change) error

type ConsumerConfig struct {
	Topic           string
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Consumer runs a watermill router with a single handler on the fixture
// change topic. Messages that still fail after the retry budget are logged
// and acked; a scoring rerun picks them up later.
type Consumer struct {
	router *message.Router
	handle HandlerFunc
	logger *logging.Logger
}

func NewConsumer(sub message.Subscriber, handle HandlerFunc, cfg ConsumerConfig, logger *logging.Logger) (*Consumer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Topic == "" {
		cfg.Topic = TopicFixturesChanged
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, NewLoggerAdapter(logger.Named("watermill")))
	if err != nil {
		return nil, fmt.Errorf("create change feed router: %w", err)
	}

	c := &Consumer{router: router, handle: handle, logger: logger}
	router.AddMiddleware(
		c.ackExhausted,
		middleware.Retry{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: cfg.InitialInterval,
			MaxInterval:     cfg.MaxInterval,
			Multiplier:      2,
			Logger:          NewLoggerAdapter(logger),
		}.Middleware,
		middleware.Recoverer,
	)
	router.AddNoPublisherHandler(finalizationHandlerName, cfg.Topic, sub, c.consume)

	return c, nil
}

// Run blocks until ctx is cancelled or the router is closed.
func (c *Consumer) Run(ctx context.Context) error {
	return c.router.Run(ctx)
}

// Running is closed once the router has subscribed its handlers.
func (c *Consumer) Running() chan struct{} {
	return c.router.Running()
}

func (c *Consumer) Close() error {
	return c.router.Close()
}

func (c *Consumer) consume(msg *message.Message) error {
	change, err := DecodeChange(msg.Payload)
	if err != nil {
		c.logger.WarnContext(msg.Context(), "dropping malformed fixture change",
			"message_id", msg.UUID,
			"error", err,
		)
		return nil
	}

	return c.handle(msg.Context(), change)
}

func (c *Consumer) ackExhausted(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		produced, err := h(msg)
		if err == nil {
			return produced, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		c.logger.ErrorContext(msg.Context(), "fixture change failed after retries",
			"message_id", msg.UUID,
			"fixture_id", msg.Metadata.Get(metadataFixtureID),
			"correlation_id", middleware.MessageCorrelationID(msg),
			"error", err,
		)
		return nil, nil
	}
}
