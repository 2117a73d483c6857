package cart

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boozedash/model"
	"boozedash/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	m, err := NewManager(s)
	require.NoError(t, err)
	return m, s
}

func product(id string, regular float64) model.Product {
	return model.Product{
		ProductID: id,
		Name:      "Product " + id,
		Price:     model.Price{Regular: regular},
		Store:     model.StoreRef("store-1"),
	}
}

func TestAddToCartIdempotentKey(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.AddToCart(product("p1", 10), 1))
	require.NoError(t, m.AddToCart(product("p1", 10), 1))

	lines := m.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartCountAndTotal(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.AddToCart(product("p1", 10), 1))
	require.NoError(t, m.AddToCart(product("p1", 10), 2))

	assert.Equal(t, 3, m.CartCount())
	assert.Equal(t, 30.0, m.CartTotal())
}

func TestCartTotalPrefersSalePrice(t *testing.T) {
	m, _ := newTestManager(t)

	p := product("p1", 20)
	p.Price.Sale = 15
	require.NoError(t, m.AddToCart(p, 2))

	assert.Equal(t, 30.0, m.CartTotal())
}

func TestUpdateQuantityFloor(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
	}{
		{name: "zero removes the line", quantity: 0},
		{name: "negative removes the line", quantity: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			require.NoError(t, m.AddToCart(product("p1", 10), 2))

			require.NoError(t, m.UpdateQuantity("p1", tt.quantity))

			assert.False(t, m.IsInCart("p1"))
			assert.Equal(t, 0, m.ItemQuantity("p1"))
		})
	}
}

func TestUpdateQuantitySets(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddToCart(product("p1", 10), 2))

	require.NoError(t, m.UpdateQuantity("p1", 7))
	assert.Equal(t, 7, m.ItemQuantity("p1"))
}

func TestRemoveFromCartAbsentIsNoop(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.RemoveFromCart("ghost"))
	assert.Equal(t, 0, m.CartCount())
}

func TestClearCart(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.AddToCart(product("p1", 10), 1))
	require.NoError(t, m.AddToCart(product("p2", 5), 1))

	require.NoError(t, m.ClearCart())

	assert.Equal(t, 0, m.CartCount())
	assert.Empty(t, m.Lines())
}

func TestCartPersistenceRoundTrip(t *testing.T) {
	s := newTestStore(t)

	m, err := NewManager(s)
	require.NoError(t, err)
	require.NoError(t, m.AddToCart(product("p1", 10), 3))

	// Simulate a reload: a fresh manager over the same store
	reloaded, err := NewManager(s)
	require.NoError(t, err)

	assert.Equal(t, 3, reloaded.ItemQuantity("p1"))
	assert.Equal(t, 30.0, reloaded.CartTotal())
}

func TestCartLoadMigratesNestedStoreObject(t *testing.T) {
	s := newTestStore(t)

	// A record persisted by an older client version: nested store object
	// instead of a plain id, plus a duplicate line and a dead zero-qty line.
	raw := `[
		{"product_id": "p1", "name": "Gin", "price": {"regular": 30}, "store": {"_id": "store-9", "name": "Downtown"}, "quantity": 1},
		{"product_id": "p1", "name": "Gin", "price": {"regular": 30}, "store": "store-9", "quantity": 2},
		{"product_id": "p2", "name": "Rum", "price": {"regular": 18}, "store": "store-9", "quantity": 0}
	]`
	require.NoError(t, s.Put(StorageKey, []byte(raw)))

	m, err := NewManager(s)
	require.NoError(t, err)

	lines := m.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, model.StoreRef("store-9"), lines[0].Store)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCartSubscriberNotifiedSynchronously(t *testing.T) {
	m, _ := newTestManager(t)

	notified := 0
	unsubscribe := m.Subscribe(func() { notified++ })

	require.NoError(t, m.AddToCart(product("p1", 10), 1))
	assert.Equal(t, 1, notified)

	require.NoError(t, m.UpdateQuantity("p1", 5))
	assert.Equal(t, 2, notified)

	unsubscribe()
	require.NoError(t, m.ClearCart())
	assert.Equal(t, 2, notified)
}
