package model

import (
	"encoding/json"
	"time"
)

// NotificationType notification type const
const (
	NotificationTypeOrder     = "order"
	NotificationTypeDelivery  = "delivery"
	NotificationTypePromotion = "promotion"
	NotificationTypePayment   = "payment"
	NotificationTypeSystem    = "system"
	NotificationTypeRefund    = "refund"
)

// NotificationCategory notification category const
const (
	CategoryInfo    = "info"
	CategoryWarning = "warning"
	CategoryError   = "error"
	CategorySuccess = "success"
)

// NotificationPriority notification priority const
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// NotificationRecord one user-facing alert/event record
//
// Invariant: id is unique within the in-memory collection.
type NotificationRecord struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Category  string                 `json:"category"`
	Priority  string                 `json:"priority"`
	Read      bool                   `json:"read"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"` // opaque navigation payload
}

// notificationWire wire shape of a pushed notification; the timestamp arrives
// as an arbitrary string and may be unparseable.
type notificationWire struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Category  string                 `json:"category"`
	Priority  string                 `json:"priority"`
	Read      bool                   `json:"read"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// UnmarshalJSON implement json.Unmarshaler interface
//
// A malformed or missing timestamp is substituted with the receipt time
// instead of rejecting the record.
func (n *NotificationRecord) UnmarshalJSON(data []byte) error {
	var w notificationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*n = NotificationRecord{
		ID:        w.ID,
		Type:      w.Type,
		Title:     w.Title,
		Message:   w.Message,
		Category:  w.Category,
		Priority:  w.Priority,
		Read:      w.Read,
		Timestamp: ParseTimestamp(w.Timestamp),
		Data:      w.Data,
	}
	return nil
}

// ParseTimestamp parses a wire timestamp, falling back to the current time
// when the value is empty or unparseable.
func ParseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Now()
}

// NotificationSettings user notification preferences
type NotificationSettings struct {
	PushEnabled     bool `json:"push_enabled"`
	EmailEnabled    bool `json:"email_enabled"`
	OrderUpdates    bool `json:"order_updates"`
	Promotions      bool `json:"promotions"`
	DeliveryUpdates bool `json:"delivery_updates"`
	PaymentUpdates  bool `json:"payment_updates"`
	SystemMessages  bool `json:"system_messages"`
}

// DefaultNotificationSettings settings applied before the user changes any
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		PushEnabled:     true,
		EmailEnabled:    true,
		OrderUpdates:    true,
		Promotions:      true,
		DeliveryUpdates: true,
		PaymentUpdates:  true,
		SystemMessages:  true,
	}
}

// SettingsPatch partial settings update; nil fields are left unchanged
type SettingsPatch struct {
	PushEnabled     *bool `json:"push_enabled,omitempty"`
	EmailEnabled    *bool `json:"email_enabled,omitempty"`
	OrderUpdates    *bool `json:"order_updates,omitempty"`
	Promotions      *bool `json:"promotions,omitempty"`
	DeliveryUpdates *bool `json:"delivery_updates,omitempty"`
	PaymentUpdates  *bool `json:"payment_updates,omitempty"`
	SystemMessages  *bool `json:"system_messages,omitempty"`
}

// Apply merges the patch into settings
func (p SettingsPatch) Apply(s *NotificationSettings) {
	if p.PushEnabled != nil {
		s.PushEnabled = *p.PushEnabled
	}
	if p.EmailEnabled != nil {
		s.EmailEnabled = *p.EmailEnabled
	}
	if p.OrderUpdates != nil {
		s.OrderUpdates = *p.OrderUpdates
	}
	if p.Promotions != nil {
		s.Promotions = *p.Promotions
	}
	if p.DeliveryUpdates != nil {
		s.DeliveryUpdates = *p.DeliveryUpdates
	}
	if p.PaymentUpdates != nil {
		s.PaymentUpdates = *p.PaymentUpdates
	}
	if p.SystemMessages != nil {
		s.SystemMessages = *p.SystemMessages
	}
}
