package cart

import (
	"sync"

	"boozedash/model"
	"boozedash/pkg/log"
	"boozedash/store"
)

// StorageKey key the cart collection is persisted under
const StorageKey = "cart"

// Manager quantity-tracked product collection keyed by product id
//
// Every mutation updates the in-memory lines, persists them synchronously,
// and then notifies subscribers before returning, so a restart can never
// observe the in-memory state without its persisted record or vice versa.
// Cart sync with the backend is the caller's responsibility.
type Manager struct {
	mu    sync.RWMutex
	lines []model.CartLine
	coll  *store.Collection

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewManager creates a cart manager and loads the persisted cart
func NewManager(s *store.Store) (*Manager, error) {
	m := &Manager{subs: make(map[int]func())}
	m.coll = s.Collection(StorageKey, m.migrateLines)

	if err := m.coll.Load(&m.lines); err != nil {
		return nil, err
	}
	return m, nil
}

// migrateLines heals previously persisted cart records: drops empty or
// zero-quantity lines and merges duplicate product ids. Nested store objects
// are normalized to plain ids by the StoreRef decoder.
func (m *Manager) migrateLines(v interface{}) {
	lines, ok := v.(*[]model.CartLine)
	if !ok {
		return
	}

	seen := make(map[string]int)
	healed := make([]model.CartLine, 0, len(*lines))
	for _, line := range *lines {
		if line.ProductID == "" || line.Quantity < 1 {
			continue
		}
		if idx, ok := seen[line.ProductID]; ok {
			healed[idx].Quantity += line.Quantity
			continue
		}
		seen[line.ProductID] = len(healed)
		healed = append(healed, line)
	}
	*lines = healed
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

// persist writes the current lines; called with the write lock held
func (m *Manager) persist() error {
	if err := m.coll.Save(m.lines); err != nil {
		log.WithError(err).Error("Failed to persist cart")
		return err
	}
	return nil
}

// AddToCart adds quantity of product, incrementing the existing line when the
// product is already carted. Quantity below 1 is treated as 1.
func (m *Manager) AddToCart(p model.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	found := false
	for i := range m.lines {
		if m.lines[i].ProductID == p.ProductID {
			m.lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		m.lines = append(m.lines, model.NewCartLine(p, quantity))
	}
	err := m.persist()
	m.mu.Unlock()

	m.notify()
	return err
}

// RemoveFromCart deletes the line for productID; no-op when absent
func (m *Manager) RemoveFromCart(productID string) error {
	m.mu.Lock()
	changed := false
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			changed = true
			break
		}
	}
	var err error
	if changed {
		err = m.persist()
	}
	m.mu.Unlock()

	if changed {
		m.notify()
	}
	return err
}

// UpdateQuantity sets the quantity for productID; a quantity of zero or less
// removes the line.
func (m *Manager) UpdateQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return m.RemoveFromCart(productID)
	}

	m.mu.Lock()
	changed := false
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Quantity = quantity
			changed = true
			break
		}
	}
	var err error
	if changed {
		err = m.persist()
	}
	m.mu.Unlock()

	if changed {
		m.notify()
	}
	return err
}

// ClearCart empties the collection
func (m *Manager) ClearCart() error {
	m.mu.Lock()
	m.lines = nil
	err := m.persist()
	m.mu.Unlock()

	m.notify()
	return err
}

// Lines returns a copy of the current cart lines in insertion order
func (m *Manager) Lines() []model.CartLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.CartLine(nil), m.lines...)
}

// CartTotal sum over lines of effective price times quantity
func (m *Manager) CartTotal() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0.0
	for _, line := range m.lines {
		total += line.LineTotal()
	}
	return total
}

// CartCount sum of quantities, not line count
func (m *Manager) CartCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, line := range m.lines {
		count += line.Quantity
	}
	return count
}

// IsInCart reports whether a line exists for productID
func (m *Manager) IsInCart(productID string) bool {
	return m.ItemQuantity(productID) > 0
}

// ItemQuantity returns the carted quantity for productID, zero when absent
func (m *Manager) ItemQuantity(productID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, line := range m.lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}
