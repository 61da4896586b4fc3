// Package storetest holds the behaviour every store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/aurana-storefront/internal/domain"
	"github.com/joao-fontenele/aurana-storefront/internal/store"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("customers", func(t *testing.T) { testCustomers(t, newStore) })
	t.Run("codes", func(t *testing.T) { testCodes(t, newStore) })
	t.Run("orders", func(t *testing.T) { testOrders(t, newStore) })
}

func open(t *testing.T, newStore Factory) store.Store {
	t.Helper()
	s := newStore(t)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testCustomers(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("unknown code is absent, not an error", func(t *testing.T) {
		s := open(t, newStore)

		c, err := s.FindCustomer(ctx, "A1234")
		require.NoError(t, err)
		assert.Nil(t, c)

		c, err = s.TouchVisit(ctx, "A1234")
		require.NoError(t, err)
		assert.Nil(t, c)

		c, err = s.RegisterName(ctx, "A1234", "Anna")
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("upsert creates a registered customer", func(t *testing.T) {
		s := open(t, newStore)

		created, err := s.UpsertCustomer(ctx, "A1111", "Anna", "tg:anna")
		require.NoError(t, err)
		require.NotNil(t, created)

		found, err := s.FindCustomer(ctx, "A1111")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "A1111", found.Code)
		assert.Equal(t, "Anna", found.Name)
		assert.Equal(t, "tg:anna", found.Contact)
		assert.True(t, found.Registered)
		require.NotNil(t, found.FirstVisit)
		require.NotNil(t, found.LastVisit)
		require.NotNil(t, found.RegistrationDate)
		assert.WithinDuration(t, *found.FirstVisit, *found.LastVisit, time.Millisecond)
		assert.WithinDuration(t, *found.FirstVisit, *found.RegistrationDate, time.Millisecond)
	})

	t.Run("upsert updates name and contact but keeps first visit", func(t *testing.T) {
		s := open(t, newStore)

		_, err := s.UpsertCustomer(ctx, "A2222", "Anna", "tg:anna")
		require.NoError(t, err)
		before, err := s.FindCustomer(ctx, "A2222")
		require.NoError(t, err)

		_, err = s.UpsertCustomer(ctx, "A2222", "Anna K", "+7 900 000 00 00")
		require.NoError(t, err)
		after, err := s.FindCustomer(ctx, "A2222")
		require.NoError(t, err)

		assert.Equal(t, "Anna K", after.Name)
		assert.Equal(t, "+7 900 000 00 00", after.Contact)
		assert.True(t, before.FirstVisit.Equal(*after.FirstVisit))
		assert.True(t, before.RegistrationDate.Equal(*after.RegistrationDate))
		assert.False(t, after.LastVisit.Before(*before.LastVisit))
	})

	t.Run("touch visit only moves last visit", func(t *testing.T) {
		s := open(t, newStore)

		_, err := s.UpsertCustomer(ctx, "A3333", "Boris", "boris@example.com")
		require.NoError(t, err)
		before, err := s.FindCustomer(ctx, "A3333")
		require.NoError(t, err)

		first, err := s.TouchVisit(ctx, "A3333")
		require.NoError(t, err)
		require.NotNil(t, first)
		second, err := s.TouchVisit(ctx, "A3333")
		require.NoError(t, err)
		require.NotNil(t, second)

		after, err := s.FindCustomer(ctx, "A3333")
		require.NoError(t, err)
		assert.Equal(t, before.Name, after.Name)
		assert.Equal(t, before.Contact, after.Contact)
		assert.Equal(t, before.Registered, after.Registered)
		assert.True(t, before.FirstVisit.Equal(*after.FirstVisit))
		assert.True(t, before.RegistrationDate.Equal(*after.RegistrationDate))
		assert.False(t, after.LastVisit.Before(*first.LastVisit))
		assert.False(t, first.LastVisit.Before(*before.LastVisit))
	})

	t.Run("touch visit sets first visit of an issued code", func(t *testing.T) {
		s := open(t, newStore)
		require.NoError(t, s.IssueCode(ctx, "A4444"))

		issued, err := s.FindCustomer(ctx, "A4444")
		require.NoError(t, err)
		require.NotNil(t, issued)
		assert.False(t, issued.Registered)
		assert.Nil(t, issued.FirstVisit)
		assert.Nil(t, issued.RegistrationDate)

		touched, err := s.TouchVisit(ctx, "A4444")
		require.NoError(t, err)
		require.NotNil(t, touched.FirstVisit)
		require.NotNil(t, touched.LastVisit)
		assert.False(t, touched.Registered)
	})

	t.Run("register name of an issued code", func(t *testing.T) {
		s := open(t, newStore)
		require.NoError(t, s.IssueCode(ctx, "A5555"))

		c, err := s.RegisterName(ctx, "A5555", "Vera")
		require.NoError(t, err)
		require.NotNil(t, c)

		found, err := s.FindCustomer(ctx, "A5555")
		require.NoError(t, err)
		assert.Equal(t, "Vera", found.Name)
		assert.True(t, found.Registered)
		assert.NotNil(t, found.RegistrationDate)
		assert.NotNil(t, found.FirstVisit)
	})

	t.Run("upsert of an issued code fills dates", func(t *testing.T) {
		s := open(t, newStore)
		require.NoError(t, s.IssueCode(ctx, "A6666"))

		_, err := s.UpsertCustomer(ctx, "A6666", "Gleb", "tg:gleb")
		require.NoError(t, err)

		found, err := s.FindCustomer(ctx, "A6666")
		require.NoError(t, err)
		assert.True(t, found.Registered)
		assert.NotNil(t, found.FirstVisit)
		assert.NotNil(t, found.RegistrationDate)
	})
}

func testCodes(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := open(t, newStore)

	exists, err := s.CodeExists(ctx, "A7001")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.IssueCode(ctx, "A7002"))
	require.NoError(t, s.IssueCode(ctx, "A7001"))
	_, err = s.UpsertCustomer(ctx, "A1500", "Dina", "tg:dina")
	require.NoError(t, err)

	err = s.IssueCode(ctx, "A7001")
	assert.ErrorIs(t, err, store.ErrCodeTaken)
	err = s.IssueCode(ctx, "A1500")
	assert.ErrorIs(t, err, store.ErrCodeTaken)

	exists, err = s.CodeExists(ctx, "A7001")
	require.NoError(t, err)
	assert.True(t, exists)

	codes, err := s.ListCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1500", "A7001", "A7002"}, codes)

	dina, err := s.FindCustomer(ctx, "A1500")
	require.NoError(t, err)
	assert.Equal(t, "Dina", dina.Name)
}

func testOrders(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("append and list round trip", func(t *testing.T) {
		s := open(t, newStore)
		items := []domain.LineItem{
			{ProductID: "A01", Name: "Тёмный шоколад 70%", Quantity: 1, Price: 1500},
			{ProductID: "A03", Name: "Белый шоколад с малиной", Quantity: 2, Price: 1400},
		}

		order := &domain.Order{CustomerCode: "A1234", Items: items}
		require.NoError(t, s.AppendOrder(ctx, order))
		assert.NotEmpty(t, order.ID)
		assert.Equal(t, domain.OrderStatusNew, order.Status)
		assert.False(t, order.CreatedAt.IsZero())

		orders, err := s.ListOrders(ctx, "A1234")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)
		assert.Equal(t, "A1234", orders[0].CustomerCode)
		assert.Equal(t, items, orders[0].Items)
		assert.Equal(t, domain.OrderStatusNew, orders[0].Status)
		assert.WithinDuration(t, order.CreatedAt, orders[0].CreatedAt, time.Millisecond)
	})

	t.Run("lists most recent first and only for the customer", func(t *testing.T) {
		s := open(t, newStore)
		base := time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)
		item := []domain.LineItem{{ProductID: "A02", Quantity: 1, Price: 1300}}

		older := &domain.Order{CustomerCode: "A1000", Items: item, CreatedAt: base}
		newer := &domain.Order{CustomerCode: "A1000", Items: item, CreatedAt: base.Add(time.Hour)}
		other := &domain.Order{CustomerCode: "A2000", Items: item, CreatedAt: base.Add(2 * time.Hour)}
		middle := &domain.Order{CustomerCode: "A1000", Items: item, CreatedAt: base.Add(30 * time.Minute), Status: domain.OrderStatusConfirmed}
		for _, o := range []*domain.Order{older, newer, other, middle} {
			require.NoError(t, s.AppendOrder(ctx, o))
		}

		orders, err := s.ListOrders(ctx, "A1000")
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, []string{newer.ID, middle.ID, older.ID}, []string{orders[0].ID, orders[1].ID, orders[2].ID})
		assert.Equal(t, domain.OrderStatusConfirmed, orders[1].Status)
		assert.NotEqual(t, orders[0].ID, orders[2].ID)

		none, err := s.ListOrders(ctx, "A9999")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("rejects orders without items", func(t *testing.T) {
		s := open(t, newStore)

		err := s.AppendOrder(ctx, &domain.Order{CustomerCode: "A1234"})
		assert.ErrorIs(t, err, domain.ErrNoItems)

		orders, err := s.ListOrders(ctx, "A1234")
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("updates status", func(t *testing.T) {
		s := open(t, newStore)
		order := &domain.Order{CustomerCode: "A1234", Items: []domain.LineItem{{ProductID: "A01", Quantity: 1, Price: 1500}}}
		require.NoError(t, s.AppendOrder(ctx, order))

		updated, err := s.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusCompleted)
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, domain.OrderStatusCompleted, updated.Status)
		assert.Equal(t, order.Items, updated.Items)

		orders, err := s.ListOrders(ctx, "A1234")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, domain.OrderStatusCompleted, orders[0].Status)

		missing, err := s.UpdateOrderStatus(ctx, uuid.NewString(), domain.OrderStatusCompleted)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}
