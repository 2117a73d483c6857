package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"boozedash/config"
	"boozedash/model"
	"boozedash/monitor"
	"boozedash/pkg/log"
)

// Sink receives dispatched analytics events
type Sink interface {
	TrackEvent(ctx context.Context, event model.AnalyticsEvent) error
}

// CredentialSource reports whether a usable credential is present. Tracking
// is a logged-in-only feature; without a credential every track call is a
// silent no-op.
type CredentialSource interface {
	Token() (string, bool)
}

// PerformanceSource supplies client timing measurements when the embedding
// surface can provide them.
type PerformanceSource interface {
	Performance() model.PerformanceInfo
}

const dispatchTimeout = 10 * time.Second

// Dispatcher captures client-observable events and forwards them to the sink
// through a FIFO queue drained by a single worker with a minimum spacing
// between dispatches. Failed dispatches are logged and discarded.
type Dispatcher struct {
	sink    Sink
	creds   CredentialSource
	perf    PerformanceSource
	metrics *monitor.MetricsCollector

	enabled   bool
	sessionID string
	device    model.DeviceInfo
	queue     *dispatchQueue

	mu     sync.RWMutex
	page   model.PageInfo
	closed bool

	done chan struct{}
}

// NewDispatcher creates a dispatcher and starts its worker. perf and metrics
// may be nil; userAgent describes the embedding client surface.
func NewDispatcher(sink Sink, creds CredentialSource, perf PerformanceSource, metrics *monitor.MetricsCollector, cfg config.AnalyticsConfig, userAgent string) *Dispatcher {
	d := &Dispatcher{
		sink:      sink,
		creds:     creds,
		perf:      perf,
		metrics:   metrics,
		enabled:   cfg.Enabled,
		sessionID: uuid.NewString(),
		device:    ParseUserAgent(userAgent),
		queue:     newDispatchQueue(cfg.QueueSize),
		done:      make(chan struct{}),
	}

	go d.worker(cfg.DispatchInterval)
	return d
}

// SessionID returns the stable per-session identifier
func (d *Dispatcher) SessionID() string {
	return d.sessionID
}

// SetPage records the page subsequent events are attributed to
func (d *Dispatcher) SetPage(page model.PageInfo) {
	d.mu.Lock()
	d.page = page
	d.mu.Unlock()
}

// worker drains the queue sequentially, spacing dispatch starts by interval
func (d *Dispatcher) worker(interval time.Duration) {
	defer close(d.done)

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	for ev := range d.queue.Events() {
		if err := limiter.Wait(context.Background()); err != nil {
			return
		}

		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		err := d.sink.TrackEvent(ctx, ev)
		cancel()

		if err != nil {
			d.metrics.RecordAnalyticsDispatched(ev.EventType, "failed", time.Since(start))
			log.WithFields(map[string]interface{}{
				"event_type": ev.EventType,
			}).WithError(err).Warn("Analytics dispatch failed, event discarded")
			continue
		}
		d.metrics.RecordAnalyticsDispatched(ev.EventType, "ok", time.Since(start))
	}
}

// Close stops accepting events and waits for the worker to drain the queue
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.queue.Close()
	<-d.done
}

// TrackEvent enqueues one event. Without a stored credential this is a
// silent no-op; a full queue drops the event with a warning.
func (d *Dispatcher) TrackEvent(eventType string, data map[string]interface{}) {
	if !d.enabled {
		return
	}
	if _, ok := d.creds.Token(); !ok {
		return
	}

	d.mu.RLock()
	page := d.page
	d.mu.RUnlock()

	ev := model.AnalyticsEvent{
		EventType: eventType,
		SessionID: d.sessionID,
		Device:    d.device,
		Page:      page,
		Timestamp: time.Now(),
		EventData: data,
	}
	if d.perf != nil {
		ev.Performance = d.perf.Performance()
	}

	if err := d.queue.Enqueue(ev); err != nil {
		reason := "closed"
		if errors.Is(err, ErrQueueFull) {
			reason = "queue_full"
		}
		d.metrics.RecordAnalyticsDropped(reason)
		log.WithFields(map[string]interface{}{
			"event_type": eventType,
			"reason":     reason,
		}).Warn("Analytics event dropped")
		return
	}
	d.metrics.RecordAnalyticsEnqueued(eventType)
}

// TrackPageView records a page view and makes page current
func (d *Dispatcher) TrackPageView(page model.PageInfo) {
	d.SetPage(page)
	d.TrackEvent(model.EventPageView, map[string]interface{}{
		"url":  page.URL,
		"path": page.Path,
	})
}

// TrackProductView records a product detail view
func (d *Dispatcher) TrackProductView(p model.Product) {
	d.TrackEvent(model.EventProductView, map[string]interface{}{
		"product_id": p.ProductID,
		"name":       p.Name,
		"price":      p.Price.Effective(),
		"store":      string(p.Store),
	})
}

// TrackAddToCart records an add-to-cart interaction
func (d *Dispatcher) TrackAddToCart(p model.Product, quantity int) {
	d.TrackEvent(model.EventAddToCart, map[string]interface{}{
		"product_id": p.ProductID,
		"quantity":   quantity,
		"price":      p.Price.Effective(),
	})
}

// TrackPurchase records a completed purchase
func (d *Dispatcher) TrackPurchase(orderID string, total float64, itemCount int) {
	d.TrackEvent(model.EventPurchase, map[string]interface{}{
		"order_id":   orderID,
		"total":      total,
		"item_count": itemCount,
	})
}

// TrackSearch records a search interaction
func (d *Dispatcher) TrackSearch(query string, resultCount int) {
	d.TrackEvent(model.EventSearch, map[string]interface{}{
		"query":        query,
		"result_count": resultCount,
	})
}

// TrackLogin records a successful login
func (d *Dispatcher) TrackLogin(method string) {
	d.TrackEvent(model.EventLogin, map[string]interface{}{
		"method": method,
	})
}

// TrackError records a client-observed error
func (d *Dispatcher) TrackError(source string, err error) {
	d.TrackEvent(model.EventError, map[string]interface{}{
		"source":  source,
		"message": fmt.Sprintf("%v", err),
	})
}
