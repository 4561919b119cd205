package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	t.Run("creates empty cart", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := NewCart(uuid.Nil)
		require.Error(t, err)
	})
}

func TestCartAddItem(t *testing.T) {
	productID := uuid.New()
	sellerID := uuid.New()
	price := decimal.RequireFromString("49.90")

	t.Run("appends a new line", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)
		item, err := c.AddItem(productID, sellerID, "SKU-1", 2, price)
		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, c.ID, item.CartID)
		require.Len(t, c.Items, 1)
	})

	t.Run("merges quantity into an existing line and refreshes price", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)
		_, err = c.AddItem(productID, sellerID, "SKU-1", 2, price)
		require.NoError(t, err)

		newPrice := decimal.RequireFromString("44.90")
		item, err := c.AddItem(productID, sellerID, "SKU-1", 3, newPrice)
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
		assert.True(t, item.PriceAtAdd.Equal(newPrice))
		require.Len(t, c.Items, 1)
	})

	t.Run("same product with different SKU gets its own line", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)
		_, err = c.AddItem(productID, sellerID, "SKU-1", 1, price)
		require.NoError(t, err)
		_, err = c.AddItem(productID, sellerID, "SKU-2", 1, price)
		require.NoError(t, err)
		require.Len(t, c.Items, 2)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		c, err := NewCart(uuid.New())
		require.NoError(t, err)
		_, err = c.AddItem(productID, sellerID, "SKU-1", 0, price)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestCartUpdateItemQuantity(t *testing.T) {
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	item, err := c.AddItem(uuid.New(), uuid.New(), "SKU-1", 1, decimal.RequireFromString("10"))
	require.NoError(t, err)

	t.Run("replaces the quantity", func(t *testing.T) {
		require.NoError(t, c.UpdateItemQuantity(item.ID, 4))
		assert.Equal(t, 4, c.FindItem(item.ID).Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		assert.ErrorIs(t, c.UpdateItemQuantity(item.ID, 0), shared.ErrInvalidQuantity)
	})

	t.Run("unknown item", func(t *testing.T) {
		require.Error(t, c.UpdateItemQuantity(uuid.New(), 1))
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	item, err := c.AddItem(uuid.New(), uuid.New(), "SKU-1", 1, decimal.RequireFromString("10"))
	require.NoError(t, err)
	_, err = c.AddItem(uuid.New(), uuid.New(), "SKU-2", 1, decimal.RequireFromString("20"))
	require.NoError(t, err)

	require.NoError(t, c.RemoveItem(item.ID))
	require.Len(t, c.Items, 1)
	require.Error(t, c.RemoveItem(item.ID))

	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestCartSubtotal(t *testing.T) {
	c, err := NewCart(uuid.New())
	require.NoError(t, err)
	_, err = c.AddItem(uuid.New(), uuid.New(), "SKU-1", 2, decimal.RequireFromString("10.50"))
	require.NoError(t, err)
	_, err = c.AddItem(uuid.New(), uuid.New(), "SKU-2", 1, decimal.RequireFromString("5.00"))
	require.NoError(t, err)

	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("26.00")))
}
