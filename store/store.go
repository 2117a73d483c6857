package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"boozedash/pkg/log"
)

const stateBucket = "client_state"

// Store durable local key-value storage backed by a bbolt file
//
// Each key holds one JSON-serialized collection. The file survives process
// restarts, which stands in for the browser origin storage of the web client.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the store file at path
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create state bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the raw value stored under key, nil when absent
func (s *Store) Get(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(stateBucket)).Get([]byte(key))
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

// Put stores the raw value under key
func (s *Store) Put(key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(stateBucket)).Put([]byte(key), value)
	})
}

// Delete removes the value stored under key
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(stateBucket)).Delete([]byte(key))
	})
}

// MigrateFunc heals a freshly loaded collection before it is used. Applied on
// every load so records persisted by older client versions are upgraded in
// place on the next save.
type MigrateFunc func(v interface{})

// Collection a named, JSON-serialized collection within the store
type Collection struct {
	store   *Store
	key     string
	migrate MigrateFunc
}

// Collection returns a handle for the collection stored under key. The
// migrate function may be nil.
func (s *Store) Collection(key string, migrate MigrateFunc) *Collection {
	return &Collection{store: s, key: key, migrate: migrate}
}

// Key returns the storage key of the collection
func (c *Collection) Key() string {
	return c.key
}

// Load decodes the stored collection into out. Missing or corrupt data leaves
// out untouched (the caller's empty collection) instead of failing.
func (c *Collection) Load(out interface{}) error {
	raw, err := c.store.Get(c.key)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	if raw == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		log.WithFields(map[string]interface{}{
			"key": c.key,
		}).WithError(err).Warn("Corrupt persisted data, starting from empty collection")
		return nil
	}

	if c.migrate != nil {
		c.migrate(out)
	}
	return nil
}

// Save serializes in and writes it under the collection key
func (c *Collection) Save(in interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", c.key, err)
	}
	if err := c.store.Put(c.key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.key, err)
	}
	return nil
}

// Clear removes the persisted collection
func (c *Collection) Clear() error {
	return c.store.Delete(c.key)
}
