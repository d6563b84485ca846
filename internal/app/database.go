package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/hr-admin/internal/config"
)

const (
	maxTracedQueryLength = 512
	dbPingTimeout        = 5 * time.Second
)

var (
	queryWhitespace = regexp.MustCompile(`\s+`)
	// Single-quoted literals, '' escapes included.
	queryLiteral = regexp.MustCompile(`'(?:[^']|'')*'`)
)

func (a *App) openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbName := dbNameFromURL(cfg.DBURL)
	db, err := otelsqlx.Open("postgres", postgresDSN(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.name", dbName),
		),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	a.onClose(func(context.Context) error { return db.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping postgres %s: %w", dbName, err)
	}
	a.logger.InfoContext(ctx, "postgres connected", "db", dbName)
	return db, nil
}

// formatDBQueryForTrace collapses whitespace and masks string literals so
// employee contact data never lands in span attributes.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespace.ReplaceAllString(queryLiteral.ReplaceAllString(query, "'?'"), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}

// postgresDSN adds disable_prepared_binary_result=yes unless the url already
// sets it. Key/value DSNs are returned untouched.
func postgresDSN(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		return strings.TrimPrefix(parsed.Path, "/")
	}
	for _, token := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}
