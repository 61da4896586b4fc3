// Package postgres is the relational store backend.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/joao-fontenele/aurana-storefront/internal/store"
	"github.com/joao-fontenele/aurana-storefront/internal/telemetry"
)

type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Open connects through the traced driver, checks the connection and applies
// any pending migrations.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := telemetry.OpenDB("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(dsn, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db, logger), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
