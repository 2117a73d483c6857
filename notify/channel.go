package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"boozedash/api"
	"boozedash/config"
	"boozedash/model"
	"boozedash/monitor"
	"boozedash/pkg/log"
	"boozedash/store"
)

// SettingsKey key the notification settings are persisted under
const SettingsKey = "notification_settings"

// ConnectionState state of the push channel connection
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
)

// ErrReconnectExhausted persistent error surfaced once every reconnect attempt
// has been spent; the only transport condition shown to the user.
var ErrReconnectExhausted = errors.New("notification channel reconnect attempts exhausted")

// Backend the notification REST operations the channel depends on
type Backend interface {
	FetchNotifications(ctx context.Context) (*api.NotificationList, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
	UpdateNotificationSettings(ctx context.Context, patch model.SettingsPatch) (*model.NotificationSettings, error)
}

// Alerter receives user-facing alerts for incoming notifications
type Alerter interface {
	Alert(title, message string)
}

// Channel maintains the live event stream and the local notification state
//
// Server-pushed events merge into the in-memory list (most-recent-first);
// read/delete operations update local state first and treat the backend call
// as fire-and-forget, so local state may run ahead of the backend on failure.
type Channel struct {
	transport Transport
	backend   Backend
	alerter   Alerter
	metrics   *monitor.MetricsCollector
	cfg       config.SocketConfig
	throttle  time.Duration

	mu        sync.RWMutex
	started   bool
	state     ConnectionState
	connErr   error
	records   []model.NotificationRecord
	unread    int
	settings  model.NotificationSettings
	lastAlert time.Time

	settingsColl *store.Collection

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int

	runCtx    context.Context
	cancelRun context.CancelFunc
	done      chan struct{}
}

// NewChannel creates a notification channel. alerter and metrics may be nil.
func NewChannel(transport Transport, backend Backend, s *store.Store, alerter Alerter, metrics *monitor.MetricsCollector, socketCfg config.SocketConfig, notifCfg config.NotificationsConfig) (*Channel, error) {
	ch := &Channel{
		transport: transport,
		backend:   backend,
		alerter:   alerter,
		metrics:   metrics,
		cfg:       socketCfg,
		throttle:  notifCfg.AlertThrottle,
		state:     StateDisconnected,
		settings:  model.DefaultNotificationSettings(),
		subs:      make(map[int]func()),
	}

	ch.settingsColl = s.Collection(SettingsKey, nil)
	if err := ch.settingsColl.Load(&ch.settings); err != nil {
		return nil, err
	}
	return ch, nil
}

// Subscribe registers fn to be called synchronously after every state change.
// The returned function removes the subscription.
func (ch *Channel) Subscribe(fn func()) func() {
	ch.subMu.Lock()
	defer ch.subMu.Unlock()

	id := ch.nextID
	ch.nextID++
	ch.subs[id] = fn

	return func() {
		ch.subMu.Lock()
		defer ch.subMu.Unlock()
		delete(ch.subs, id)
	}
}

func (ch *Channel) notify() {
	ch.subMu.Lock()
	fns := make([]func(), 0, len(ch.subs))
	for _, fn := range ch.subs {
		fns = append(fns, fn)
	}
	ch.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Start launches the connection loop. Starting an already-started channel is
// a no-op; call Stop before starting again.
func (ch *Channel) Start() {
	ch.mu.Lock()
	if ch.started {
		ch.mu.Unlock()
		return
	}
	ch.started = true
	ch.runCtx, ch.cancelRun = context.WithCancel(context.Background())
	ch.done = make(chan struct{})
	ch.mu.Unlock()

	go ch.run()
}

// Stop tears down the connection loop and the transport; safe to call on a
// channel that was never started.
func (ch *Channel) Stop() {
	ch.mu.Lock()
	if !ch.started {
		ch.mu.Unlock()
		return
	}
	cancel := ch.cancelRun
	done := ch.done
	ch.mu.Unlock()

	cancel()
	_ = ch.transport.Close()
	<-done

	ch.mu.Lock()
	ch.started = false
	ch.mu.Unlock()
}

func (ch *Channel) setState(state ConnectionState) {
	ch.mu.Lock()
	ch.state = state
	ch.mu.Unlock()
	ch.notify()
}

// run drives the state machine: disconnected -> connecting -> connected, with
// a bounded fixed-delay reconnect policy.
func (ch *Channel) run() {
	defer close(ch.done)

	attempts := 0
	for {
		if ch.runCtx.Err() != nil {
			return
		}

		ch.setState(StateConnecting)
		connectCtx, cancel := context.WithTimeout(ch.runCtx, ch.cfg.ConnectTimeout)
		err := ch.transport.Connect(connectCtx)
		cancel()

		if err != nil {
			if ch.runCtx.Err() != nil {
				return
			}
			attempts++
			ch.metrics.RecordSocketReconnect()
			log.WithFields(map[string]interface{}{
				"attempt": attempts,
				"max":     ch.cfg.MaxReconnectAttempts,
			}).WithError(err).Warn("Notification channel connect failed")

			if attempts >= ch.cfg.MaxReconnectAttempts {
				ch.metrics.RecordSocketExhausted()
				ch.mu.Lock()
				ch.connErr = ErrReconnectExhausted
				ch.state = StateDisconnected
				ch.mu.Unlock()
				ch.notify()
				return
			}

			ch.setState(StateDisconnected)
			select {
			case <-time.After(ch.cfg.ReconnectDelay):
			case <-ch.runCtx.Done():
				return
			}
			continue
		}

		attempts = 0
		ch.mu.Lock()
		ch.connErr = nil
		ch.state = StateConnected
		ch.mu.Unlock()
		ch.notify()

		ch.readLoop()
		if ch.runCtx.Err() != nil {
			return
		}
		ch.setState(StateDisconnected)
	}
}

func (ch *Channel) readLoop() {
	for {
		msg, err := ch.transport.Receive()
		if err != nil {
			if ch.runCtx.Err() == nil {
				log.WithError(err).Warn("Notification channel disconnected")
			}
			return
		}
		ch.HandleMessage(msg)
	}
}

// HandleMessage merges one push event into local state
func (ch *Channel) HandleMessage(msg *Message) {
	switch msg.Event {
	case EventNotification:
		var rec model.NotificationRecord
		if err := json.Unmarshal(msg.Data, &rec); err != nil {
			log.WithError(err).Warn("Dropping malformed notification payload")
			return
		}
		ch.ingest(rec)

	case EventNotificationUpdate:
		var patch recordPatch
		if err := json.Unmarshal(msg.Data, &patch); err != nil {
			log.WithError(err).Warn("Dropping malformed notification update")
			return
		}
		ch.applyPatch(patch)

	case EventOrderStatusUpdate:
		var update orderStatusUpdate
		if err := json.Unmarshal(msg.Data, &update); err != nil {
			log.WithError(err).Warn("Dropping malformed order status update")
			return
		}
		ch.ingest(update.toRecord())

	default:
		log.WithField("event", msg.Event).Debug("Ignoring unknown push event")
	}
}

// recordPatch partial update merged by id
type recordPatch struct {
	ID       string                 `json:"id"`
	Read     *bool                  `json:"read,omitempty"`
	Title    *string                `json:"title,omitempty"`
	Message  *string                `json:"message,omitempty"`
	Category *string                `json:"category,omitempty"`
	Priority *string                `json:"priority,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// orderStatusUpdate wire shape of an order status push, synthesized locally
// into an order notification.
type orderStatusUpdate struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (u orderStatusUpdate) toRecord() model.NotificationRecord {
	message := u.Message
	if message == "" {
		message = "Your order status is now " + u.Status
	}
	return model.NotificationRecord{
		ID:        uuid.NewString(),
		Type:      model.NotificationTypeOrder,
		Title:     "Order update",
		Message:   message,
		Category:  model.CategoryInfo,
		Priority:  model.PriorityMedium,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"order_id": u.OrderID,
			"status":   u.Status,
		},
	}
}

// indexOf returns the position of the record with id; called with mu held
func (ch *Channel) indexOf(id string) int {
	for i := range ch.records {
		if ch.records[i].ID == id {
			return i
		}
	}
	return -1
}

// ingest prepends a new record, bumps the unread counter, and raises a
// throttled user-facing alert when the push preference is enabled.
// A record whose id is already present (a re-delivery after a reconnect)
// replaces the existing record in place without alerting, keeping ids unique
// and the unread count consistent.
func (ch *Channel) ingest(rec model.NotificationRecord) {
	ch.metrics.RecordNotificationReceived(rec.Type)

	ch.mu.Lock()
	if rec.ID != "" {
		if idx := ch.indexOf(rec.ID); idx >= 0 {
			prev := ch.records[idx]
			if prev.Read != rec.Read {
				if rec.Read {
					ch.unread--
				} else {
					ch.unread++
				}
			}
			ch.records[idx] = rec
			ch.mu.Unlock()

			ch.notify()
			return
		}
	}
	ch.records = append([]model.NotificationRecord{rec}, ch.records...)
	if !rec.Read {
		ch.unread++
	}
	pushEnabled := ch.settings.PushEnabled
	alertNow := false
	if pushEnabled {
		now := time.Now()
		if now.Sub(ch.lastAlert) >= ch.throttle {
			ch.lastAlert = now
			alertNow = true
		}
	}
	ch.mu.Unlock()

	ch.notify()

	if pushEnabled && ch.alerter != nil {
		if alertNow {
			ch.alerter.Alert(rec.Title, rec.Message)
		} else {
			ch.metrics.RecordAlertThrottled()
		}
	}
}

func (ch *Channel) applyPatch(patch recordPatch) {
	ch.mu.Lock()
	changed := false
	for i := range ch.records {
		if ch.records[i].ID != patch.ID {
			continue
		}
		rec := &ch.records[i]
		if patch.Read != nil && *patch.Read != rec.Read {
			if *patch.Read {
				ch.unread--
			} else {
				ch.unread++
			}
			rec.Read = *patch.Read
		}
		if patch.Title != nil {
			rec.Title = *patch.Title
		}
		if patch.Message != nil {
			rec.Message = *patch.Message
		}
		if patch.Category != nil {
			rec.Category = *patch.Category
		}
		if patch.Priority != nil {
			rec.Priority = *patch.Priority
		}
		if patch.Data != nil {
			rec.Data = patch.Data
		}
		changed = true
		break
	}
	ch.mu.Unlock()

	if changed {
		ch.notify()
	}
}

// FetchNotifications refreshes local state from the backend, replacing the
// list and the unread count wholesale.
func (ch *Channel) FetchNotifications(ctx context.Context) error {
	list, err := ch.backend.FetchNotifications(ctx)
	if err != nil {
		return err
	}

	ch.mu.Lock()
	ch.records = list.Notifications
	ch.unread = list.UnreadCount
	ch.mu.Unlock()

	ch.notify()
	return nil
}

// MarkAsRead flips one record to read locally and fires the backend call;
// failures are logged, never surfaced.
func (ch *Channel) MarkAsRead(ctx context.Context, id string) {
	ch.mu.Lock()
	changed := false
	for i := range ch.records {
		if ch.records[i].ID == id && !ch.records[i].Read {
			ch.records[i].Read = true
			ch.unread--
			changed = true
			break
		}
	}
	ch.mu.Unlock()

	if changed {
		ch.notify()
	}

	if err := ch.backend.MarkNotificationRead(ctx, id); err != nil {
		log.WithField("id", id).WithError(err).Warn("Failed to mark notification read on backend")
	}
}

// MarkAllAsRead flips every record to read locally and fires the backend call
func (ch *Channel) MarkAllAsRead(ctx context.Context) {
	ch.mu.Lock()
	for i := range ch.records {
		ch.records[i].Read = true
	}
	ch.unread = 0
	ch.mu.Unlock()

	ch.notify()

	if err := ch.backend.MarkAllNotificationsRead(ctx); err != nil {
		log.WithError(err).Warn("Failed to mark all notifications read on backend")
	}
}

// DeleteNotification removes the record locally and fires the backend delete.
// On backend failure local state stays ahead of the backend; the discrepancy
// is logged and the user sees a toast.
func (ch *Channel) DeleteNotification(ctx context.Context, id string) {
	ch.mu.Lock()
	changed := false
	for i := range ch.records {
		if ch.records[i].ID == id {
			if !ch.records[i].Read {
				ch.unread--
			}
			ch.records = append(ch.records[:i], ch.records[i+1:]...)
			changed = true
			break
		}
	}
	ch.mu.Unlock()

	if changed {
		ch.notify()
	}

	if err := ch.backend.DeleteNotification(ctx, id); err != nil {
		log.WithField("id", id).WithError(err).Warn("Failed to delete notification on backend")
		if ch.alerter != nil {
			ch.alerter.Alert("Delete failed", "The notification could not be deleted on the server")
		}
	}
}

// ClearAllNotifications deletes every record against the backend individually
// and then empties local state.
func (ch *Channel) ClearAllNotifications(ctx context.Context) {
	ch.mu.RLock()
	ids := make([]string, 0, len(ch.records))
	for _, rec := range ch.records {
		ids = append(ids, rec.ID)
	}
	ch.mu.RUnlock()

	for _, id := range ids {
		if err := ch.backend.DeleteNotification(ctx, id); err != nil {
			log.WithField("id", id).WithError(err).Warn("Failed to delete notification on backend")
		}
	}

	ch.mu.Lock()
	ch.records = nil
	ch.unread = 0
	ch.mu.Unlock()

	ch.notify()
}

// UpdateSettings merges the patch into local settings, persists them, and
// pushes the change to the backend; a remote failure is logged only.
func (ch *Channel) UpdateSettings(ctx context.Context, patch model.SettingsPatch) error {
	ch.mu.Lock()
	patch.Apply(&ch.settings)
	settings := ch.settings
	ch.mu.Unlock()

	if err := ch.settingsColl.Save(settings); err != nil {
		return err
	}
	ch.notify()

	if _, err := ch.backend.UpdateNotificationSettings(ctx, patch); err != nil {
		log.WithError(err).Warn("Failed to update notification settings on backend")
	}
	return nil
}

// Records returns a copy of the notification list, most recent first
func (ch *Channel) Records() []model.NotificationRecord {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return append([]model.NotificationRecord(nil), ch.records...)
}

// UnreadCount returns the number of unread records
func (ch *Channel) UnreadCount() int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.unread
}

// State returns the current connection state
func (ch *Channel) State() ConnectionState {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.state
}

// Err returns the persistent error state, nil unless reconnection has been
// exhausted.
func (ch *Channel) Err() error {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.connErr
}

// Settings returns the current notification settings
func (ch *Channel) Settings() model.NotificationSettings {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.settings
}
