package changefeed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/stretchr/testify/require"
)

func sampleChange() fixture.Change {
	kickoff := time.Date(2026, 8, 16, 14, 0, 0, 0, time.UTC)
	before := fixture.Fixture{
		ID:                 fixture.BuildID(1, "ARS", "CHE"),
		Gameweek:           1,
		HomeTeam:           "ARS",
		AwayTeam:           "CHE",
		KickoffAt:          kickoff,
		PredictionDeadline: fixture.DeadlineFor(kickoff),
		Status:             fixture.StatusUpcoming,
		UpdatedAt:          kickoff.Add(-time.Hour),
	}
	after := before.Clone()
	home, away := 2, 1
	finishedAt := kickoff.Add(2 * time.Hour)
	after.Status = fixture.StatusFinished
	after.HomeScore = &home
	after.AwayScore = &away
	after.FinishedAt = &finishedAt
	after.UpdatedAt = finishedAt
	return fixture.Change{Before: &before, After: after}
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	in := sampleChange()
	raw, err := EncodeChange(in)
	require.NoError(t, err)

	out, err := DecodeChange(raw)
	require.NoError(t, err)
	require.NotNil(t, out.Before)
	require.Equal(t, in.Before.ID, out.Before.ID)
	require.Nil(t, out.Before.HomeScore)
	require.Equal(t, fixture.StatusFinished, out.After.Status)
	require.Equal(t, 2, *out.After.HomeScore)
	require.Equal(t, 1, *out.After.AwayScore)
	require.True(t, out.After.FinishedAt.Equal(*in.After.FinishedAt))
}

func TestCodec_DecodesTriggerRow(t *testing.T) {
	t.Parallel()

	raw := `{"before": null, "after": {"id": "GW3-LIV-MUN", "gameweek": 3, "home_team": "LIV", "away_team": "MUN",
		"kickoff_at": "2026-08-30T15:00:00+00:00", "prediction_deadline": "2026-08-30T14:00:00+00:00",
		"status": "upcoming", "home_score": null, "away_score": null, "finished_at": null,
		"schedule_history": [], "created_at": "2026-08-01T10:00:00.123456+00:00", "updated_at": "2026-08-01T10:00:00.123456+00:00"}}`

	change, err := DecodeChange([]byte(raw))
	require.NoError(t, err)
	require.Nil(t, change.Before)
	require.Equal(t, "GW3-LIV-MUN", change.After.ID)
	require.Equal(t, 3, change.After.Gameweek)
	require.False(t, change.After.HasScore())
	require.True(t, change.After.PredictionDeadline.Equal(time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)))
}

func TestCodec_RejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{``, `{`, `{"before": null}`, `{"after": {"id": ""}}`} {
		_, err := DecodeChange([]byte(raw))
		require.ErrorIs(t, err, ErrMalformedEvent, "payload %q", raw)
	}
}

type recordedCall struct {
	change fixture.Change
}

func startFeed(t *testing.T, maxRetries int, handle HandlerFunc) *Publisher {
	t.Helper()

	logger := logging.NewNop()
	pubsub := NewGoChannel(16, logger)
	consumer, err := NewConsumer(pubsub, handle, ConsumerConfig{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = pubsub.Close()
	})

	select {
	case <-consumer.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not start")
	}

	return NewPublisher(pubsub, nil, nil, PublisherConfig{}, logger)
}

func TestFeed_DeliversPublishedChange(t *testing.T) {
	t.Parallel()

	calls := make(chan recordedCall, 1)
	publisher := startFeed(t, 0, func(_ context.Context, change fixture.Change) error {
		calls <- recordedCall{change: change}
		return nil
	})

	require.NoError(t, publisher.PublishFixtureChange(context.Background(), sampleChange()))

	select {
	case call := <-calls:
		require.Equal(t, fixture.StatusFinished, call.change.After.Status)
		require.NotNil(t, call.change.Before)
	case <-time.After(5 * time.Second):
		t.Fatal("change was not delivered")
	}
}

func TestFeed_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	done := make(chan struct{})
	publisher := startFeed(t, 3, func(context.Context, fixture.Change) error {
		if attempts.Add(1) < 3 {
			return errors.New("store unavailable")
		}
		close(done)
		return nil
	})

	require.NoError(t, publisher.PublishFixtureChange(context.Background(), sampleChange()))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("handler attempts=%d", attempts.Load())
	}
	require.Equal(t, int32(3), attempts.Load())
}

func TestFeed_AcksAfterRetriesExhausted(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		attempts = map[string]int{}
	)
	exhausted := make(chan struct{})
	delivered := make(chan struct{})
	failingID := sampleChange().After.ID
	publisher := startFeed(t, 2, func(_ context.Context, change fixture.Change) error {
		mu.Lock()
		defer mu.Unlock()
		attempts[change.After.ID]++
		if change.After.ID == "next" {
			close(delivered)
			return nil
		}
		if attempts[change.After.ID] == 3 {
			close(exhausted)
		}
		return errors.New("always failing")
	})

	ctx := context.Background()
	require.NoError(t, publisher.PublishFixtureChange(ctx, sampleChange()))

	select {
	case <-exhausted:
	case <-time.After(5 * time.Second):
		t.Fatal("failing message did not use its retry budget")
	}

	// Published only once the failing message is on its last attempt, so the
	// assertion does not depend on delivery order.
	next := sampleChange()
	next.After.ID = "next"
	require.NoError(t, publisher.PublishFixtureChange(ctx, next))

	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("feed stalled after a message exhausted its retries")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 3, attempts[failingID])
	require.Equal(t, 1, attempts["next"])
}

type failingPublisher struct {
	calls atomic.Int32
}

func (p *failingPublisher) Publish(string, ...*message.Message) error {
	p.calls.Add(1)
	return errors.New("broker down")
}

func (p *failingPublisher) Close() error { return nil }

func TestPublisher_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	pub := &failingPublisher{}
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Hour,
	})
	publisher := NewPublisher(pub, nil, breaker, PublisherConfig{}, logging.NewNop())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		require.Error(t, publisher.PublishFixtureChange(ctx, sampleChange()))
	}
	err := publisher.PublishFixtureChange(ctx, sampleChange())
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	require.Equal(t, int32(2), pub.calls.Load())
}

type fakeListener struct {
	ch       chan *pq.Notification
	listened string
	closed   atomic.Bool
}

func (l *fakeListener) Listen(channel string) error {
	l.listened = channel
	return nil
}

func (l *fakeListener) NotificationChannel() <-chan *pq.Notification { return l.ch }
func (l *fakeListener) Ping() error                                  { return nil }

func (l *fakeListener) Close() error {
	l.closed.Store(true)
	return nil
}

type capturePublisher struct {
	changes chan fixture.Change
}

func (p *capturePublisher) PublishFixtureChange(_ context.Context, change fixture.Change) error {
	p.changes <- change
	return nil
}

func TestPostgresBridge_ForwardsNotifications(t *testing.T) {
	t.Parallel()

	listener := &fakeListener{ch: make(chan *pq.Notification, 4)}
	publisher := &capturePublisher{changes: make(chan fixture.Change, 4)}
	bridge := newPostgresBridge(listener, publisher, BridgeConfig{}, logging.NewNop())

	raw, err := EncodeChange(sampleChange())
	require.NoError(t, err)
	listener.ch <- nil
	listener.ch <- &pq.Notification{Channel: DefaultNotifyChannel, Extra: "not json"}
	listener.ch <- &pq.Notification{Channel: DefaultNotifyChannel, Extra: string(raw)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bridge.Run(ctx) }()

	select {
	case change := <-publisher.changes:
		require.Equal(t, fixture.StatusFinished, change.After.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("notification was not forwarded")
	}

	cancel()
	require.NoError(t, <-done)
	require.Equal(t, DefaultNotifyChannel, listener.listened)
	require.True(t, listener.closed.Load())
	require.Empty(t, publisher.changes)
}
