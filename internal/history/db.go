// Package history records completed scan invocations for diagnostics and
// export. The pipeline itself stays stateless; recording is opt-in and
// done by callers.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	source     TEXT NOT NULL,
	success    INTEGER NOT NULL,
	message    TEXT NOT NULL,
	raw_text   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS scan_items (
	scan_id    TEXT NOT NULL,
	position   INTEGER NOT NULL,
	name       TEXT NOT NULL,
	quantity   TEXT NOT NULL,
	price      REAL,
	category   TEXT NOT NULL,
	confidence TEXT NOT NULL,
	PRIMARY KEY (scan_id, position)
);
`

// Dialect names the SQL flavor behind the store; the repository uses it
// to pick the placeholder style.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "pgx"
)

// Open connects the scan-history store and ensures the schema exists.
// Postgres DSNs go through the pgx stdlib driver; anything else is
// treated as a sqlite file path.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*sql.DB, Dialect, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dialect := DialectSQLite
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialect = DialectPostgres
	}
	logger.Info("history.open", "driver", string(dialect))

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, dialect, fmt.Errorf("open history store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dialect, fmt.Errorf("ping history store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, dialect, fmt.Errorf("ensure history schema: %w", err)
	}
	return db, dialect, nil
}
