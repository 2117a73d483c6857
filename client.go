// Package boozedash is the client core of the booze delivery platform:
// local cart/favorites state with durable persistence, the live notification
// channel, and the throttled analytics dispatch pipeline. Construct one
// Client at application start and inject it into consumers.
package boozedash

import (
	"context"
	"fmt"

	"boozedash/analytics"
	"boozedash/api"
	"boozedash/auth"
	"boozedash/cart"
	"boozedash/config"
	"boozedash/favorites"
	"boozedash/monitor"
	"boozedash/notify"
	"boozedash/pkg/log"
	"boozedash/store"
)

// Alerter receives user-facing alerts and confirmations; the embedding UI
// renders them as toasts or system notifications.
type Alerter interface {
	Alert(title, message string)
}

// Options optional collaborators supplied by the embedding application
type Options struct {
	// Alerter for toggle confirmations and notification alerts; nil drops them.
	Alerter Alerter
	// UserAgent of the embedding surface, used for device classification.
	UserAgent string
	// Performance source for client timing metrics; nil means all unknown.
	Performance analytics.PerformanceSource
}

// Client the assembled client core
type Client struct {
	Tokens        *auth.TokenStore
	API           *api.Client
	Search        *api.SearchClient
	Cart          *cart.Manager
	Favorites     *favorites.Manager
	Notifications *notify.Channel
	Analytics     *analytics.Dispatcher

	storage *store.Store
	tracer  *monitor.Tracer
}

// New assembles the client core from configuration. The notification channel
// is created but not connected; call Client.Notifications.Start to open it.
func New(cfg *config.Config, opts Options) (*Client, error) {
	if err := log.Init(log.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		return nil, fmt.Errorf("failed to init logging: %w", err)
	}

	tracer, err := monitor.NewTracer(&monitor.TracerConfig{
		ServiceName:    cfg.Tracing.ServiceName,
		Environment:    config.GetEnv("BOOZEDASH_ENV", "dev"),
		JaegerEndpoint: cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		return nil, err
	}

	storage, err := store.Open(cfg.Storage.Path)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, err
	}

	metrics := monitor.Default()
	tokens := auth.NewTokenStore()
	restClient := api.NewClient(cfg.API, tokens, tracer, metrics)

	teardown := func() {
		_ = tracer.Shutdown(context.Background())
		_ = storage.Close()
	}

	search, err := api.NewSearchClient(restClient, storage, cfg.API)
	if err != nil {
		teardown()
		return nil, err
	}

	cartMgr, err := cart.NewManager(storage)
	if err != nil {
		teardown()
		return nil, err
	}

	favMgr, err := favorites.NewManager(storage, opts.Alerter)
	if err != nil {
		teardown()
		return nil, err
	}

	transport := notify.NewWebsocketTransport(cfg.Socket.URL, tokens)
	channel, err := notify.NewChannel(transport, restClient, storage, opts.Alerter, metrics, cfg.Socket, cfg.Notifications)
	if err != nil {
		teardown()
		return nil, err
	}

	dispatcher := analytics.NewDispatcher(restClient, tokens, opts.Performance, metrics, cfg.Analytics, opts.UserAgent)

	return &Client{
		Tokens:        tokens,
		API:           restClient,
		Search:        search,
		Cart:          cartMgr,
		Favorites:     favMgr,
		Notifications: channel,
		Analytics:     dispatcher,
		storage:       storage,
		tracer:        tracer,
	}, nil
}

// Close releases the socket, drains the analytics queue, flushes tracing,
// and closes the local store.
func (c *Client) Close() error {
	c.Notifications.Stop()
	c.Analytics.Close()
	if err := c.tracer.Shutdown(context.Background()); err != nil {
		log.WithError(err).Warn("Failed to shut down tracer")
	}
	return c.storage.Close()
}
