package model

import (
	"encoding/json"
	"time"
)

// Analytics event type const
const (
	EventPageView    = "page_view"
	EventProductView = "product_view"
	EventAddToCart   = "add_to_cart"
	EventPurchase    = "purchase"
	EventSearch      = "search"
	EventLogin       = "login"
	EventError       = "error"
)

// Metric a best-effort client measurement
//
// Unavailable metrics are carried as an explicit "unknown" on the wire rather
// than omitted, so the sink can distinguish "not measured" from zero.
type Metric struct {
	Value float64
	Known bool
}

// KnownMetric builds a measured metric
func KnownMetric(v float64) Metric {
	return Metric{Value: v, Known: true}
}

// MarshalJSON implement json.Marshaler interface
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Known {
		return json.Marshal("unknown")
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON implement json.Unmarshaler interface
func (m *Metric) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*m = Metric{Value: v, Known: true}
		return nil
	}
	*m = Metric{}
	return nil
}

// DeviceInfo best-effort device/browser/OS classification
//
// Derived from the user-agent string by substring matching; values default to
// "unknown" when classification fails. Not authoritative.
type DeviceInfo struct {
	DeviceType     string `json:"device_type"` // desktop, mobile, tablet, unknown
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version"`
	OS             string `json:"os"`
	UserAgent      string `json:"user_agent"`
	Language       string `json:"language,omitempty"`
	ScreenWidth    int    `json:"screen_width,omitempty"`
	ScreenHeight   int    `json:"screen_height,omitempty"`
}

// PageInfo page the event was observed on
type PageInfo struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Title    string `json:"title,omitempty"`
	Referrer string `json:"referrer,omitempty"`
}

// PerformanceInfo client-side timing measurements when obtainable
type PerformanceInfo struct {
	PageLoadTime         Metric `json:"page_load_time"`
	DOMContentLoaded     Metric `json:"dom_content_loaded"`
	FirstPaint           Metric `json:"first_paint"`
	FirstContentfulPaint Metric `json:"first_contentful_paint"`
	LayoutShift          Metric `json:"layout_shift"`
	FirstInputDelay      Metric `json:"first_input_delay"`
}

// AnalyticsEvent one tracked client interaction forwarded to the backend sink
//
// Fire-and-forget: never mutated and never persisted locally; loss after a
// failed dispatch is accepted.
type AnalyticsEvent struct {
	EventType   string                 `json:"event_type"`
	SessionID   string                 `json:"session_id"`
	Device      DeviceInfo             `json:"device_info"`
	Page        PageInfo               `json:"page_info"`
	Performance PerformanceInfo        `json:"performance"`
	Timestamp   time.Time              `json:"timestamp"`
	EventData   map[string]interface{} `json:"event_data,omitempty"`
}
