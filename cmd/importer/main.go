package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/prediction-league/internal/app"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// importer loads a JSON array of teams, fixtures or predictions into the
// configured postgres database.
func main() {
	kind := flag.String("kind", "", "payload kind: teams, fixtures or predictions")
	file := flag.String("file", "", "path to a JSON array, - for stdin")
	flag.Parse()

	logger := logging.New(logging.Options{Level: logging.LevelInfo, Format: logging.FormatConsole, Service: "importer"})
	if err := run(*kind, *file, logger); err != nil {
		logger.Error("import failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(kind, file string, logger *logging.Logger) error {
	if strings.TrimSpace(file) == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.StorageDriver != config.StoragePostgres {
		return fmt.Errorf("importer needs STORAGE_DRIVER=postgres")
	}

	reader, closeReader, err := openInput(file)
	if err != nil {
		return err
	}
	defer closeReader()

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	svc := usecase.NewIngestionService(
		postgres.NewTeamRepository(db),
		postgres.NewFixtureRepository(db),
		postgres.NewPredictionRepository(db),
		postgres.NewUserStatsRepository(db),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := importKind(ctx, svc, strings.ToLower(strings.TrimSpace(kind)), reader)
	if err != nil {
		return err
	}

	logger.Info("import finished",
		"kind", result.Kind,
		"received", result.Received,
		"imported", result.Imported,
		"rejected", result.Rejected,
	)
	for _, msg := range result.Errors {
		logger.Warn("rejected item", "reason", msg)
	}
	return nil
}

func importKind(ctx context.Context, svc *usecase.IngestionService, kind string, r io.Reader) (usecase.ImportResult, error) {
	switch kind {
	case "teams":
		var items []usecase.ImportTeamInput
		if err := decode(r, &items); err != nil {
			return usecase.ImportResult{}, err
		}
		return svc.ImportTeams(ctx, items)
	case "fixtures":
		var items []usecase.ImportFixtureInput
		if err := decode(r, &items); err != nil {
			return usecase.ImportResult{}, err
		}
		return svc.ImportFixtures(ctx, items)
	case "predictions":
		var items []usecase.ImportPredictionInput
		if err := decode(r, &items); err != nil {
			return usecase.ImportResult{}, err
		}
		return svc.ImportPredictions(ctx, items)
	default:
		return usecase.ImportResult{}, fmt.Errorf("unknown -kind %q: valid values are teams, fixtures, predictions", kind)
	}
}

func decode(r io.Reader, dst any) error {
	if err := sonic.ConfigDefault.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
