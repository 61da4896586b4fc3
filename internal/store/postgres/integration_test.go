//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/aurana-storefront/internal/domain"
	"github.com/joao-fontenele/aurana-storefront/internal/logging"
	"github.com/joao-fontenele/aurana-storefront/internal/store"
	"github.com/joao-fontenele/aurana-storefront/internal/store/storetest"
	"github.com/joao-fontenele/aurana-storefront/internal/testsupport"
)

func TestStore_Postgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := testsupport.StartPostgres(ctx, t)
	logger := logging.Discard()

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(ctx, dsn, logger)
		require.NoError(t, err)
		_, err = s.db.ExecContext(ctx, `TRUNCATE customers, orders`)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestOpen_CreatesSchemaOnEmptyDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := testsupport.StartPostgres(ctx, t)
	logger := logging.Discard()

	s, err := Open(ctx, dsn, logger)
	require.NoError(t, err)

	exists, err := s.CodeExists(ctx, "A1234")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.UpsertCustomer(ctx, "A1234", "Anna", "tg:anna")
	require.NoError(t, err)
	order := &domain.Order{CustomerCode: "A1234", Items: []domain.LineItem{{ProductID: "A01", Quantity: 1, Price: 1500}}}
	require.NoError(t, s.AppendOrder(ctx, order))

	var (
		version int
		dirty   bool
	)
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty))
	assert.Equal(t, 2, version)
	assert.False(t, dirty)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, dsn, logger)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	orders, err := reopened.ListOrders(ctx, "A1234")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}
