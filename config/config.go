package config

import (
	"fmt"
	"time"
)

// Config represents the client configuration
type Config struct {
	API           APIConfig           `mapstructure:"api"`
	Socket        SocketConfig        `mapstructure:"socket"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Analytics     AnalyticsConfig     `mapstructure:"analytics"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Log           LogConfig           `mapstructure:"log"`
	Tracing       TracingConfig       `mapstructure:"tracing"`
}

// APIConfig backend REST API configuration
type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	SearchCacheTTL  time.Duration `mapstructure:"search_cache_ttl"`
	RecentSearchMax int           `mapstructure:"recent_search_max"`
}

// SocketConfig push transport configuration
type SocketConfig struct {
	URL                  string        `mapstructure:"url"`
	ConnectTimeout       time.Duration `mapstructure:"connect_timeout"`
	ReconnectDelay       time.Duration `mapstructure:"reconnect_delay"`
	MaxReconnectAttempts int           `mapstructure:"max_reconnect_attempts"`
}

// StorageConfig durable local storage configuration
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// AnalyticsConfig analytics dispatch configuration
type AnalyticsConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	QueueSize        int           `mapstructure:"queue_size"`
	DispatchInterval time.Duration `mapstructure:"dispatch_interval"`
}

// NotificationsConfig notification channel configuration
type NotificationsConfig struct {
	AlertThrottle time.Duration `mapstructure:"alert_throttle"`
}

// LogConfig logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// TracingConfig tracing configuration
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// SetDefaults fills unset fields with working defaults
func (c *Config) SetDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = 15 * time.Second
	}
	if c.API.SearchCacheTTL == 0 {
		c.API.SearchCacheTTL = time.Minute
	}
	if c.API.RecentSearchMax == 0 {
		c.API.RecentSearchMax = 10
	}
	if c.Socket.ConnectTimeout == 0 {
		c.Socket.ConnectTimeout = 10 * time.Second
	}
	if c.Socket.ReconnectDelay == 0 {
		c.Socket.ReconnectDelay = 5 * time.Second
	}
	if c.Socket.MaxReconnectAttempts == 0 {
		c.Socket.MaxReconnectAttempts = 5
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "boozedash.db"
	}
	if c.Analytics.QueueSize == 0 {
		c.Analytics.QueueSize = 100
	}
	if c.Analytics.DispatchInterval == 0 {
		c.Analytics.DispatchInterval = 2 * time.Second
	}
	if c.Notifications.AlertThrottle == 0 {
		c.Notifications.AlertThrottle = 2 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "boozedash-client"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 0.1
	}
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Socket.MaxReconnectAttempts < 0 {
		return fmt.Errorf("socket.max_reconnect_attempts must not be negative")
	}
	if c.Analytics.QueueSize < 1 {
		return fmt.Errorf("analytics.queue_size must be at least 1")
	}
	if c.Analytics.DispatchInterval < 0 {
		return fmt.Errorf("analytics.dispatch_interval must not be negative")
	}
	return nil
}
