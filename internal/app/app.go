package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/changefeed"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/prediction-league/internal/observability"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Repositories is the storage surface every usecase is built from.
type Repositories struct {
	Teams       team.Repository
	Fixtures    fixture.Repository
	Predictions prediction.Repository
	UserStats   userstats.Repository
	Scoring     scoring.Repository
}

// App owns the HTTP server, the change-feed consumer and, for the postgres
// feed, the LISTEN bridge.
type App struct {
	Server *http.Server

	cfg      config.Config
	logger   *logging.Logger
	db       *sqlx.DB
	pubsub   *gochannel.GoChannel
	consumer *changefeed.Consumer
	bridge   *changefeed.PostgresBridge
	metrics  *observability.Metrics
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{cfg: cfg, logger: logger, metrics: observability.NewMetrics()}

	repos, err := a.openRepositories(ctx)
	if err != nil {
		return nil, err
	}

	var leaderboardCache *basecache.Store
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheSize, cfg.CacheTTL)
		repos.Teams = cache.NewTeamRepository(repos.Teams, store)
		repos.Fixtures = cache.NewFixtureRepository(repos.Fixtures, store)
		leaderboardCache = basecache.NewStore(cfg.CacheSize, cfg.CacheTTL)
	}

	aggregation := usecase.NewAggregationService(
		repos.Scoring,
		usecase.AggregationConfig{BatchMaxOps: cfg.ScoringBatchMaxOps},
		a.metrics,
		logger.Named("aggregation"),
	)
	finalization := usecase.NewFinalizationService(repos.Predictions, aggregation, a.metrics, logger.Named("finalization"))
	leaderboard := usecase.NewLeaderboardService(repos.UserStats, leaderboardCache)

	a.pubsub = changefeed.NewGoChannel(int64(cfg.ChangeFeedBuffer), logger)
	publisher := changefeed.NewPublisher(
		a.pubsub,
		id.NewTimeOrderedGenerator(),
		resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Enabled:          cfg.ChangeFeedCircuitEnabled,
			FailureThreshold: cfg.ChangeFeedCircuitFailures,
			OpenTimeout:      cfg.ChangeFeedCircuitOpenAfter,
			OnStateChange: func(from, to resilience.CircuitState) {
				logger.Warn("change feed circuit changed state", "from", from, "to", to)
			},
		}),
		changefeed.PublisherConfig{Topic: changefeed.TopicFixturesChanged, Source: cfg.ChangeFeedSource},
		logger.Named("changefeed"),
	)

	var resultPublisher usecase.FixtureChangePublisher = publisher
	if cfg.ChangeFeedSource == config.FeedPostgres {
		// The fixtures trigger emits the change; publishing it here too
		// would deliver it twice.
		resultPublisher = usecase.NopFixtureChangePublisher{}
		a.bridge = changefeed.NewPostgresBridge(
			postgresDSN(cfg),
			publisher,
			changefeed.BridgeConfig{Channel: changefeed.DefaultNotifyChannel},
			logger.Named("pgbridge"),
		)
	}

	a.consumer, err = changefeed.NewConsumer(
		a.pubsub,
		func(ctx context.Context, change fixture.Change) error {
			result, err := finalization.HandleFixtureChange(ctx, change)
			if err != nil {
				return err
			}
			if result.Triggered {
				leaderboard.Invalidate(ctx)
			}
			return nil
		},
		changefeed.ConsumerConfig{
			Topic:           changefeed.TopicFixturesChanged,
			MaxRetries:      cfg.ChangeFeedMaxRetries,
			InitialInterval: cfg.ChangeFeedRetryInterval,
		},
		logger.Named("consumer"),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	handler := httpapi.NewHandler(
		usecase.NewFixtureService(repos.Fixtures, repos.Teams),
		usecase.NewPredictionService(repos.Fixtures, repos.Predictions, logger.Named("prediction")),
		usecase.NewProfileService(repos.UserStats),
		leaderboard,
		usecase.NewDashboardService(repos.UserStats, repos.Fixtures, repos.Predictions),
		usecase.NewResultService(repos.Fixtures, resultPublisher, logger.Named("result")),
		usecase.NewIngestionService(repos.Teams, repos.Fixtures, repos.Predictions, repos.UserStats, logger.Named("ingestion")),
		usecase.NewRescoreService(repos.Fixtures, finalization, cfg.ScoringRerunWorkers, logger.Named("rescore")),
		logger,
	)

	routerCfg := httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		Observer:           a.metrics,
		Readiness:          a.readinessChecks(),
	}
	if cfg.MetricsEnabled {
		routerCfg.Metrics = a.metrics.Handler()
	}

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, routerCfg, logger.Named("http")),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Run starts the consumer, waits for its subscription, then serves HTTP
// until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.consumer.Run(gctx)
	})

	select {
	case <-a.consumer.Running():
	case <-gctx.Done():
		return g.Wait()
	}

	if a.bridge != nil {
		g.Go(func() error {
			return a.bridge.Run(gctx)
		})
	}

	g.Go(func() error {
		a.logger.Info("http server starting",
			"addr", a.Server.Addr,
			"storage", a.cfg.StorageDriver,
			"change_feed", a.cfg.ChangeFeedSource,
		)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		a.logger.Info("http server stopped")
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the feed and the database. It is safe after a failed New.
func (a *App) Close() {
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Warn("close change feed consumer", "error", err)
		}
	}
	if a.pubsub != nil {
		if err := a.pubsub.Close(); err != nil {
			a.logger.Warn("close change feed", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close database", "error", err)
		}
	}
}

func (a *App) openRepositories(ctx context.Context) (Repositories, error) {
	if a.cfg.StorageDriver != config.StoragePostgres {
		repos := memory.NewSeededStore(time.Now().UTC()).Repositories()
		return Repositories{
			Teams:       repos.Teams,
			Fixtures:    repos.Fixtures,
			Predictions: repos.Predictions,
			UserStats:   repos.UserStats,
			Scoring:     repos.Scoring,
		}, nil
	}

	db, err := OpenDatabase(a.cfg)
	if err != nil {
		return Repositories{}, err
	}
	a.db = db

	if err := postgres.BootstrapSeed(ctx, db, time.Now().UTC()); err != nil {
		a.Close()
		return Repositories{}, fmt.Errorf("bootstrap seed data: %w", err)
	}

	return Repositories{
		Teams:       postgres.NewTeamRepository(db),
		Fixtures:    postgres.NewFixtureRepository(db),
		Predictions: postgres.NewPredictionRepository(db),
		UserStats:   postgres.NewUserStatsRepository(db),
		Scoring:     postgres.NewScoringRepository(db),
	}, nil
}

func (a *App) readinessChecks() map[string]httpapi.ReadinessCheck {
	checks := map[string]httpapi.ReadinessCheck{
		"changefeed": func(context.Context) error {
			select {
			case <-a.consumer.Running():
				return nil
			default:
				return errors.New("consumer not subscribed")
			}
		},
	}
	if a.db != nil {
		checks["postgres"] = a.db.PingContext
	}
	return checks
}
