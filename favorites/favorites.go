package favorites

import (
	"sync"

	"boozedash/model"
	"boozedash/pkg/log"
	"boozedash/store"
)

// StorageKey key the favorites collection is persisted under
const StorageKey = "favorites"

// Alerter receives user-facing confirmation messages
type Alerter interface {
	Alert(title, message string)
}

// Manager unique-set product collection with the same persistence discipline
// as the cart: mutate, persist synchronously, notify subscribers.
type Manager struct {
	mu      sync.RWMutex
	entries []model.FavoriteEntry
	coll    *store.Collection
	alerter Alerter

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewManager creates a favorites manager and loads the persisted set.
// The alerter may be nil, in which case toggle confirmations are dropped.
func NewManager(s *store.Store, alerter Alerter) (*Manager, error) {
	m := &Manager{alerter: alerter, subs: make(map[int]func())}
	m.coll = s.Collection(StorageKey, m.migrateEntries)

	if err := m.coll.Load(&m.entries); err != nil {
		return nil, err
	}
	return m, nil
}

// migrateEntries drops malformed entries and enforces set semantics on load
func (m *Manager) migrateEntries(v interface{}) {
	entries, ok := v.(*[]model.FavoriteEntry)
	if !ok {
		return
	}

	seen := make(map[string]bool)
	healed := make([]model.FavoriteEntry, 0, len(*entries))
	for _, e := range *entries {
		if e.ProductID == "" || seen[e.ProductID] {
			continue
		}
		seen[e.ProductID] = true
		healed = append(healed, e)
	}
	*entries = healed
}

// Subscribe registers fn to be called synchronously after every mutation.
// The returned function removes the subscription.
func (m *Manager) Subscribe(fn func()) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) notify() {
	m.subMu.Lock()
	fns := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (m *Manager) persist() error {
	if err := m.coll.Save(m.entries); err != nil {
		log.WithError(err).Error("Failed to persist favorites")
		return err
	}
	return nil
}

func (m *Manager) indexOf(productID string) int {
	for i := range m.entries {
		if m.entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddToFavorites adds the product; no-op when already present
func (m *Manager) AddToFavorites(p model.Product) error {
	m.mu.Lock()
	if m.indexOf(p.ProductID) >= 0 {
		m.mu.Unlock()
		return nil
	}
	m.entries = append(m.entries, model.FavoriteEntry{ProductID: p.ProductID, Product: p})
	err := m.persist()
	m.mu.Unlock()

	m.notify()
	return err
}

// RemoveFromFavorites removes the entry for productID; no-op when absent
func (m *Manager) RemoveFromFavorites(productID string) error {
	m.mu.Lock()
	idx := m.indexOf(productID)
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	err := m.persist()
	m.mu.Unlock()

	m.notify()
	return err
}

// ToggleFavorite adds the product when absent and removes it when present,
// confirming the outcome through the alerter. Returns true when the product
// ended up favorited.
func (m *Manager) ToggleFavorite(p model.Product) (bool, error) {
	m.mu.Lock()
	idx := m.indexOf(p.ProductID)
	added := idx < 0
	if added {
		m.entries = append(m.entries, model.FavoriteEntry{ProductID: p.ProductID, Product: p})
	} else {
		m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	}
	err := m.persist()
	m.mu.Unlock()

	m.notify()

	if m.alerter != nil {
		if added {
			m.alerter.Alert("Added to favorites", p.Name)
		} else {
			m.alerter.Alert("Removed from favorites", p.Name)
		}
	}
	return added, err
}

// ClearFavorites empties the collection
func (m *Manager) ClearFavorites() error {
	m.mu.Lock()
	m.entries = nil
	err := m.persist()
	m.mu.Unlock()

	m.notify()
	return err
}

// IsFavorite reports whether productID is in the set
func (m *Manager) IsFavorite(productID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOf(productID) >= 0
}

// Count returns the number of favorited products
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Entries returns a copy of the current favorite entries
func (m *Manager) Entries() []model.FavoriteEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.FavoriteEntry(nil), m.entries...)
}
