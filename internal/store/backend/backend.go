// Package backend opens the store implementation selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joao-fontenele/aurana-storefront/internal/config"
	"github.com/joao-fontenele/aurana-storefront/internal/store"
	"github.com/joao-fontenele/aurana-storefront/internal/store/filestore"
	"github.com/joao-fontenele/aurana-storefront/internal/store/memory"
	"github.com/joao-fontenele/aurana-storefront/internal/store/postgres"
)

func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	logger = logger.With("backend", cfg.StoreBackend)

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		s, err := postgres.Open(ctx, cfg.PostgresURL, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendFile:
		s, err := filestore.New(cfg.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return s, nil
	case config.BackendMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownBackend, cfg.StoreBackend)
	}
}
