package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/prediction-league/internal/config"
)

const (
	dbPingTimeout      = 5 * time.Second
	maxTracedStatement = 512
	preparedBinaryKey  = "disable_prepared_binary_result"
)

// OpenDatabase opens a traced postgres pool and verifies it with a ping.
func OpenDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := postgresDSN(cfg)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(databaseName(dsn)),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(compactStatement),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// postgresDSN adds disable_prepared_binary_result=yes to URL-style DSNs when
// configured, leaving an explicit value alone. Pooled connections behind
// pgbouncer need it.
func postgresDSN(cfg config.Config) string {
	raw := strings.TrimSpace(cfg.DBURL)
	if !cfg.DBDisablePreparedBinary {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}
	query := parsed.Query()
	if query.Has(preparedBinaryKey) {
		return raw
	}
	query.Set(preparedBinaryKey, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// databaseName reads the database from a URL path or a key=value dbname.
func databaseName(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if parsed, err := url.Parse(dsn); err == nil && parsed.Scheme != "" {
		return strings.Trim(parsed.Path, "/ ")
	}

	for _, field := range strings.Fields(dsn) {
		if name, ok := strings.CutPrefix(field, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

// compactStatement collapses whitespace so multi-line queries read as one
// span attribute, and caps their length.
func compactStatement(query string) string {
	compact := strings.Join(strings.Fields(query), " ")
	if len(compact) <= maxTracedStatement {
		return compact
	}
	return compact[:maxTracedStatement] + "..."
}
