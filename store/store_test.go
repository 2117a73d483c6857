package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestCollectionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	coll := s.Collection("cart", nil)

	type line struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	saved := []line{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}
	require.NoError(t, coll.Save(saved))

	var loaded []line
	require.NoError(t, coll.Load(&loaded))
	assert.Equal(t, saved, loaded)
}

func TestCollectionLoadMissingKey(t *testing.T) {
	s := newTestStore(t)
	coll := s.Collection("never_written", nil)

	var loaded []string
	require.NoError(t, coll.Load(&loaded))
	assert.Empty(t, loaded)
}

func TestCollectionLoadCorruptData(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Put("cart", []byte("{not valid json")))

	coll := s.Collection("cart", nil)
	var loaded []string
	require.NoError(t, coll.Load(&loaded))
	// Corrupt data behaves like an empty collection, not an error
	assert.Empty(t, loaded)
}

func TestCollectionMigrateAppliedOnLoad(t *testing.T) {
	s := newTestStore(t)
	coll := s.Collection("numbers", func(v interface{}) {
		nums := v.(*[]int)
		healed := make([]int, 0, len(*nums))
		for _, n := range *nums {
			if n > 0 {
				healed = append(healed, n)
			}
		}
		*nums = healed
	})

	require.NoError(t, s.Put("numbers", []byte("[3, -1, 5, 0]")))

	var loaded []int
	require.NoError(t, coll.Load(&loaded))
	assert.Equal(t, []int{3, 5}, loaded)
}

func TestCollectionClear(t *testing.T) {
	s := newTestStore(t)
	coll := s.Collection("cart", nil)

	require.NoError(t, coll.Save([]string{"a"}))
	require.NoError(t, coll.Clear())

	var loaded []string
	require.NoError(t, coll.Load(&loaded))
	assert.Empty(t, loaded)
}
