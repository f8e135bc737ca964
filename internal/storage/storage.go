package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-content-bot/internal/conversation"
	"github.com/goliatone/go-content-bot/records"
)

// Supported relational providers.
const (
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
)

var (
	// ErrUnsupportedProvider is returned for providers without a bun dialect.
	ErrUnsupportedProvider = errors.New("storage: unsupported provider")
	// ErrDSNRequired is returned when a relational provider has no DSN.
	ErrDSNRequired = errors.New("storage: dsn required")
)

// Config selects the database behind the bun repositories.
type Config struct {
	Provider string
	DSN      string
}

// Open connects to the configured database and returns a bun handle.
func Open(cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderSQLite, "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		// sqlite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case ProviderPostgres, "postgresql", "pg":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}

// Models lists the tables Bootstrap creates.
func Models() []any {
	return []any{
		(*records.Record)(nil),
		(*conversation.StoredContext)(nil),
	}
}

// Bootstrap creates the records and conversation tables when missing.
func Bootstrap(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("storage: db is nil")
	}
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	if _, err := db.NewCreateIndex().
		Model((*records.Record)(nil)).
		Index("records_content_type_scope_idx").
		Column("content_type", "scope").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("storage: create records index: %w", err)
	}
	return nil
}
