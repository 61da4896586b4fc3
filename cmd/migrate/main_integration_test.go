//go:build integration

package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/aurana-storefront/internal/config"
	"github.com/joao-fontenele/aurana-storefront/internal/logging"
	"github.com/joao-fontenele/aurana-storefront/internal/testsupport"
)

func TestRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := &config.Config{
		PostgresURL:    testsupport.StartPostgres(ctx, t),
		MigrationsPath: testsupport.MigrationsURL(),
	}
	logger := logging.Discard()

	require.NoError(t, run(logger, cfg, []string{"version"}))
	require.NoError(t, run(logger, cfg, []string{"up"}))
	require.NoError(t, run(logger, cfg, []string{"up"}))
	require.NoError(t, run(logger, cfg, []string{"down", "2"}))
	require.NoError(t, run(logger, cfg, []string{"force", "1"}))

	assert.Error(t, run(logger, cfg, []string{"down", "zero"}))
	assert.Error(t, run(logger, cfg, []string{"sideways"}))
}
