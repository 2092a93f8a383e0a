package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLine(price string, qty int) LineItem {
	p, _ := decimal.NewFromString(price)
	return LineItem{
		ProductID: uuid.New(),
		Name:      "Nitrile Gloves",
		Price:     p,
		Quantity:  qty,
	}
}

func TestStoreAddIncrementsExistingLine(t *testing.T) {
	store := NewStore()
	token := NewToken()
	line := testLine("12.50", 1)

	qty := store.Add(token, line)
	assert.Equal(t, 1, qty)

	line.Quantity = 2
	qty = store.Add(token, line)
	assert.Equal(t, 3, qty)

	items := store.Items(token)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, store.ItemCount(token))
}

func TestStoreSetQuantityZeroRemovesLine(t *testing.T) {
	store := NewStore()
	token := NewToken()
	line := testLine("9.99", 2)
	store.Add(token, line)

	ok := store.SetQuantity(token, line.ProductID, 0)
	require.True(t, ok)
	assert.Empty(t, store.Items(token))
	assert.Equal(t, 0, store.ItemCount(token))

	ok = store.SetQuantity(token, line.ProductID, 1)
	assert.False(t, ok)
}

func TestStoreTotalIsExact(t *testing.T) {
	store := NewStore()
	token := NewToken()

	store.Add(token, testLine("79.99", 2))
	store.Add(token, testLine("0.10", 3))

	// 79.99*2 + 0.10*3 = 160.28 with no float drift
	assert.Equal(t, "160.28", store.Total(token).StringFixed(2))
}

func TestStoreCartsAreIsolatedByToken(t *testing.T) {
	store := NewStore()
	tokenA := NewToken()
	tokenB := NewToken()

	store.Add(tokenA, testLine("5.00", 1))

	assert.Len(t, store.Items(tokenA), 1)
	assert.Empty(t, store.Items(tokenB))

	store.Clear(tokenA)
	assert.Empty(t, store.Items(tokenA))
}

func TestStoreRemoveUnknownProduct(t *testing.T) {
	store := NewStore()
	token := NewToken()
	store.Add(token, testLine("5.00", 1))

	assert.False(t, store.Remove(token, uuid.New()))
	assert.Len(t, store.Items(token), 1)
}
