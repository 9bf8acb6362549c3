package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Initialize the place cache schema for the given SQL dialect.
func InitSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	var statements []string
	switch dialect {
	case DialectPostgres:
		statements = []string{`
	CREATE TABLE IF NOT EXISTS place_cache (
        query_key TEXT PRIMARY KEY,
        places JSONB NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`}
	case DialectSQLite:
		statements = []string{`
	CREATE TABLE IF NOT EXISTS place_cache (
        query_key TEXT PRIMARY KEY,
        places TEXT NOT NULL,
        created_at INTEGER NOT NULL
    );
	`}
	default:
		return fmt.Errorf("init schema: unknown dialect %q", dialect)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
