package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"github.com/allegro/bigcache/v3"

	"boozedash/config"
	"boozedash/model"
	"boozedash/pkg/log"
	"boozedash/store"
)

// RecentSearchesKey key the recent-searches list is persisted under
const RecentSearchesKey = "recent_searches"

// ProductQuery one search/listing request class; requests with the same key
// supersede each other.
type ProductQuery struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	StoreID  string `json:"store_id,omitempty"`
	Page     int    `json:"page,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// Key canonical cache/supersession key for the query
func (q ProductQuery) Key() string {
	return q.Query + "|" + q.Category + "|" + q.StoreID + "|" + strconv.Itoa(q.Page) + "|" + strconv.Itoa(q.Size)
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	v.Set("q", q.Query)
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.StoreID != "" {
		v.Set("store", q.StoreID)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

type inflightCall struct {
	cancel context.CancelFunc
}

// SearchClient product search/listing client
//
// A new request cancels any in-flight request with the same query key so a
// stale response can never overwrite fresher state. Responses are cached
// briefly and successful queries are recorded in the persisted
// recent-searches list.
type SearchClient struct {
	client    *Client
	cache     *bigcache.BigCache
	recent    *store.Collection
	recentMax int

	mu       sync.Mutex
	inflight map[string]*inflightCall
}

// NewSearchClient creates a search client backed by the REST client
func NewSearchClient(c *Client, s *store.Store, cfg config.APIConfig) (*SearchClient, error) {
	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(cfg.SearchCacheTTL))
	if err != nil {
		return nil, err
	}

	return &SearchClient{
		client:    c,
		cache:     cache,
		recent:    s.Collection(RecentSearchesKey, nil),
		recentMax: cfg.RecentSearchMax,
		inflight:  make(map[string]*inflightCall),
	}, nil
}

// SearchProducts runs a product search. A superseded call returns
// ErrSuperseded and its response is discarded.
func (s *SearchClient) SearchProducts(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	key := q.Key()

	if raw, err := s.cache.Get(key); err == nil {
		var products []model.Product
		if err := json.Unmarshal(raw, &products); err == nil {
			s.client.metrics.RecordSearchCache("hit")
			return products, nil
		}
	}
	s.client.metrics.RecordSearchCache("miss")

	callCtx, cancel := context.WithCancel(ctx)
	call := &inflightCall{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
	}
	s.inflight[key] = call
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.inflight[key] == call {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
		cancel()
	}()

	var products []model.Product
	err := s.client.Get(callCtx, "/products/search?"+q.values().Encode(), &products)
	if err != nil {
		if errors.Is(callCtx.Err(), context.Canceled) && ctx.Err() == nil {
			return nil, ErrSuperseded
		}
		return nil, err
	}

	if raw, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(key, raw)
	}
	if q.Query != "" {
		s.recordRecent(q.Query)
	}
	return products, nil
}

// RecentSearches returns the persisted recent search queries, newest first
func (s *SearchClient) RecentSearches() []string {
	var recent []string
	if err := s.recent.Load(&recent); err != nil {
		log.WithError(err).Warn("Failed to load recent searches")
	}
	return recent
}

// recordRecent prepends query to the recent list, deduped and capped
func (s *SearchClient) recordRecent(query string) {
	recent := s.RecentSearches()

	updated := []string{query}
	for _, q := range recent {
		if q == query {
			continue
		}
		updated = append(updated, q)
		if len(updated) >= s.recentMax {
			break
		}
	}

	if err := s.recent.Save(updated); err != nil {
		log.WithError(err).Warn("Failed to persist recent searches")
	}
}
