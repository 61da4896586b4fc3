package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsRoundTrip(t *testing.T) {
	items := []LineItem{
		{ProductID: "A01", Quantity: 1, Price: 1500},
		{ProductID: "A03", Name: "Белый шоколад с малиной", Quantity: 3, Price: 1400},
	}

	raw, err := EncodeItems(items)
	require.NoError(t, err)

	decoded, err := DecodeItems(raw)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)
}

func TestDecodeItems(t *testing.T) {
	t.Run("accepts the browser cart payload", func(t *testing.T) {
		raw := `[
  {"id": "A02", "name": "Молочный шоколад с фундуком", "qty": 2, "price": 1300, "total": 2600}
]`
		items, err := DecodeItems(raw)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "A02", items[0].ProductID)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, int64(2600), items[0].Subtotal())
	})

	t.Run("degrades corrupt payload to placeholder", func(t *testing.T) {
		items, err := DecodeItems(`{not json`)
		assert.Error(t, err)
		assert.Equal(t, []LineItem{PlaceholderItem}, items)
	})

	t.Run("degrades empty list to placeholder", func(t *testing.T) {
		items, err := DecodeItems(`[]`)
		assert.ErrorIs(t, err, ErrNoItems)
		assert.Equal(t, []LineItem{PlaceholderItem}, items)
	})
}

func TestEncodeItemsRejectsEmptyList(t *testing.T) {
	_, err := EncodeItems(nil)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestOrderTotal(t *testing.T) {
	order := Order{Items: []LineItem{
		{ProductID: "A01", Quantity: 2, Price: 1500},
		{ProductID: "A02", Quantity: 1, Price: 1300},
	}}
	assert.Equal(t, int64(4300), order.Total())
}

func TestCatalog(t *testing.T) {
	products := Catalog()
	require.Len(t, products, 3)

	products[0].Price = 1
	p, ok := FindProduct("A01")
	require.True(t, ok)
	assert.Equal(t, int64(1500), p.Price)

	_, ok = FindProduct("B99")
	assert.False(t, ok)
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusNew.Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
}
