package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	LogLevel                   logging.Level
	StorageDriver              string
	DBURL                      string
	DBDisablePreparedBinary    bool
	DBMaxOpenConns             int
	ChangeFeedSource           string
	ChangeFeedBuffer           int
	ChangeFeedMaxRetries       int
	ChangeFeedRetryInterval    time.Duration
	ChangeFeedCircuitEnabled   bool
	ChangeFeedCircuitFailures  int
	ChangeFeedCircuitOpenAfter time.Duration
	ScoringBatchMaxOps         int
	ScoringRerunWorkers        int
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CacheSize                  int
	CORSAllowedOrigins         []string
	InternalJobToken           string
	MetricsEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	FeedInProcess = "inprocess"
	FeedPostgres  = "postgres"
)

// Load reads the environment. A .env file in the working directory is
// applied first when present; variables already set win.
func Load() (Config, error) {
	_ = godotenv.Load()

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:           appEnv,
		ServiceName:      getEnv("APP_SERVICE_NAME", "prediction-league-api"),
		ServiceVersion:   getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:         getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:         logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:            strings.TrimSpace(getEnv("DB_URL", "")),
		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
	}

	cfg.ReadTimeout, err = parsePositiveDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	cfg.WriteTimeout, err = parsePositiveDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	storageDefault := StorageMemory
	if cfg.DBURL != "" {
		storageDefault = StoragePostgres
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", storageDefault)))
	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}

	cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxOpenConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}

	cfg.ChangeFeedSource = strings.ToLower(strings.TrimSpace(getEnv("CHANGE_FEED_SOURCE", FeedInProcess)))
	switch cfg.ChangeFeedSource {
	case FeedInProcess:
	case FeedPostgres:
		if cfg.StorageDriver != StoragePostgres {
			return Config{}, fmt.Errorf("CHANGE_FEED_SOURCE=postgres requires STORAGE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid CHANGE_FEED_SOURCE %q: valid values are %s, %s", cfg.ChangeFeedSource, FeedInProcess, FeedPostgres)
	}
	cfg.ChangeFeedBuffer, err = getEnvAsInt("CHANGE_FEED_BUFFER", 256)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHANGE_FEED_BUFFER: %w", err)
	}
	if cfg.ChangeFeedBuffer <= 0 {
		return Config{}, fmt.Errorf("CHANGE_FEED_BUFFER must be > 0")
	}
	cfg.ChangeFeedMaxRetries, err = getEnvAsInt("CHANGE_FEED_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHANGE_FEED_MAX_RETRIES: %w", err)
	}
	if cfg.ChangeFeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("CHANGE_FEED_MAX_RETRIES must be >= 0")
	}
	cfg.ChangeFeedRetryInterval, err = parsePositiveDuration("CHANGE_FEED_RETRY_INTERVAL", "200ms")
	if err != nil {
		return Config{}, err
	}
	cfg.ChangeFeedCircuitEnabled, err = strconv.ParseBool(getEnv("CHANGE_FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CHANGE_FEED_CIRCUIT_ENABLED: %w", err)
	}
	cfg.ChangeFeedCircuitFailures, err = getEnvAsInt("CHANGE_FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHANGE_FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ChangeFeedCircuitFailures < 1 {
		return Config{}, fmt.Errorf("CHANGE_FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.ChangeFeedCircuitOpenAfter, err = parsePositiveDuration("CHANGE_FEED_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg.ScoringBatchMaxOps, err = getEnvAsInt("SCORING_BATCH_MAX_OPS", 500)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_BATCH_MAX_OPS: %w", err)
	}
	if cfg.ScoringBatchMaxOps < 2 {
		return Config{}, fmt.Errorf("SCORING_BATCH_MAX_OPS must be >= 2")
	}
	cfg.ScoringRerunWorkers, err = getEnvAsInt("SCORING_RERUN_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_RERUN_WORKERS: %w", err)
	}
	if cfg.ScoringRerunWorkers <= 0 {
		return Config{}, fmt.Errorf("SCORING_RERUN_WORKERS must be > 0")
	}

	cfg.CacheEnabled, err = strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cfg.CacheTTL, err = parsePositiveDuration("CACHE_TTL", "30s")
	if err != nil {
		return Config{}, err
	}
	cfg.CacheSize, err = getEnvAsInt("CACHE_SIZE", 4096)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize <= 0 {
		return Config{}, fmt.Errorf("CACHE_SIZE must be > 0")
	}

	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	cfg.MetricsEnabled, err = strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ""))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		cfg.PprofAddr = ":6060"
	}

	cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	cfg.UptraceLogsEnabled, err = strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeUploadRate, err = parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
