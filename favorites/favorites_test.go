package favorites

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boozedash/model"
	"boozedash/store"
)

type recordingAlerter struct {
	alerts []string
}

func (a *recordingAlerter) Alert(title, message string) {
	a.alerts = append(a.alerts, title)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func product(id string) model.Product {
	return model.Product{ProductID: id, Name: "Product " + id}
}

func TestAddToFavoritesSetSemantics(t *testing.T) {
	m, err := NewManager(newTestStore(t), nil)
	require.NoError(t, err)

	require.NoError(t, m.AddToFavorites(product("p1")))
	require.NoError(t, m.AddToFavorites(product("p1")))

	assert.Equal(t, 1, m.Count())
	assert.True(t, m.IsFavorite("p1"))
}

func TestToggleFavoriteInvolution(t *testing.T) {
	alerter := &recordingAlerter{}
	m, err := NewManager(newTestStore(t), alerter)
	require.NoError(t, err)

	added, err := m.ToggleFavorite(product("p1"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, m.IsFavorite("p1"))

	added, err = m.ToggleFavorite(product("p1"))
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, m.IsFavorite("p1"))
	assert.Equal(t, 0, m.Count())

	// The confirmation distinguishes the two outcomes
	require.Len(t, alerter.alerts, 2)
	assert.Equal(t, "Added to favorites", alerter.alerts[0])
	assert.Equal(t, "Removed from favorites", alerter.alerts[1])
}

func TestRemoveFromFavoritesAbsentIsNoop(t *testing.T) {
	m, err := NewManager(newTestStore(t), nil)
	require.NoError(t, err)

	require.NoError(t, m.RemoveFromFavorites("ghost"))
	assert.Equal(t, 0, m.Count())
}

func TestClearFavorites(t *testing.T) {
	m, err := NewManager(newTestStore(t), nil)
	require.NoError(t, err)

	require.NoError(t, m.AddToFavorites(product("p1")))
	require.NoError(t, m.AddToFavorites(product("p2")))
	require.NoError(t, m.ClearFavorites())

	assert.Equal(t, 0, m.Count())
}

func TestFavoritesPersistenceRoundTrip(t *testing.T) {
	s := newTestStore(t)

	m, err := NewManager(s, nil)
	require.NoError(t, err)
	require.NoError(t, m.AddToFavorites(product("p1")))

	reloaded, err := NewManager(s, nil)
	require.NoError(t, err)
	assert.True(t, reloaded.IsFavorite("p1"))
	assert.Equal(t, 1, reloaded.Count())
}

func TestFavoritesLoadDropsDuplicates(t *testing.T) {
	s := newTestStore(t)

	raw := `[
		{"product_id": "p1", "product": {"product_id": "p1", "name": "Gin"}},
		{"product_id": "p1", "product": {"product_id": "p1", "name": "Gin"}},
		{"product_id": "", "product": {}}
	]`
	require.NoError(t, s.Put(StorageKey, []byte(raw)))

	m, err := NewManager(s, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())
}

func TestFavoritesSubscriberNotified(t *testing.T) {
	m, err := NewManager(newTestStore(t), nil)
	require.NoError(t, err)

	notified := 0
	m.Subscribe(func() { notified++ })

	require.NoError(t, m.AddToFavorites(product("p1")))
	assert.Equal(t, 1, notified)

	// No-op add does not notify
	require.NoError(t, m.AddToFavorites(product("p1")))
	assert.Equal(t, 1, notified)
}
