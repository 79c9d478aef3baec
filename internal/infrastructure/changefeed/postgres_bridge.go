package changefeed

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const DefaultNotifyChannel = "fixture_changes"

type changePublisher interface {
	PublishFixtureChange(ctx context.Context, change fixture.Change) error
}

type notificationSource interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

type BridgeConfig struct {
	Channel      string
	PingInterval time.Duration
}

// PostgresBridge forwards NOTIFY payloads from the fixtures trigger onto the
// change feed. Notifications sent while the listener is reconnecting are lost,
// so a reconnect is logged as a hint to run a rerun.
type PostgresBridge struct {
	listener  notificationSource
	publisher changePublisher
	channel   string
	ping      time.Duration
	logger    *logging.Logger
}

func NewPostgresBridge(dsn string, publisher changePublisher, cfg BridgeConfig, logger *logging.Logger) *PostgresBridge {
	if logger == nil {
		logger = logging.Default()
	}
	listener := pq.NewListener(dsn, time.Second, time.Minute, func(event pq.ListenerEventType, err error) {
		switch event {
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Warn("postgres listener connection attempt failed", "error", err)
		case pq.ListenerEventDisconnected:
			logger.Warn("postgres listener disconnected", "error", err)
		case pq.ListenerEventReconnected:
			logger.Warn("postgres listener reconnected, changes during the gap need a scoring rerun")
		}
	})
	return newPostgresBridge(listener, publisher, cfg, logger)
}

func newPostgresBridge(listener notificationSource, publisher changePublisher, cfg BridgeConfig, logger *logging.Logger) *PostgresBridge {
	if cfg.Channel == "" {
		cfg.Channel = DefaultNotifyChannel
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 90 * time.Second
	}
	return &PostgresBridge{
		listener:  listener,
		publisher: publisher,
		channel:   cfg.Channel,
		ping:      cfg.PingInterval,
		logger:    logger,
	}
}

func (b *PostgresBridge) Run(ctx context.Context) error {
	if err := b.listener.Listen(b.channel); err != nil {
		_ = b.listener.Close()
		return err
	}
	b.logger.InfoContext(ctx, "listening for fixture changes", "channel", b.channel)

	ticker := time.NewTicker(b.ping)
	defer ticker.Stop()

	notifications := b.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			_ = b.listener.Close()
			return nil
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			if n == nil {
				continue
			}
			b.forward(ctx, n.Extra)
		case <-ticker.C:
			if err := b.listener.Ping(); err != nil {
				b.logger.WarnContext(ctx, "postgres listener ping failed", "error", err)
			}
		}
	}
}

func (b *PostgresBridge) forward(ctx context.Context, payload string) {
	change, err := DecodeChange([]byte(payload))
	if err != nil {
		b.logger.WarnContext(ctx, "dropping undecodable fixture notification", "error", err)
		return
	}
	if err := b.publisher.PublishFixtureChange(ctx, change); err != nil {
		b.logger.ErrorContext(ctx, "forward fixture notification failed",
			"fixture_id", change.After.ID,
			"error", err,
		)
	}
}
