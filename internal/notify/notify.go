// Package notify carries save/load outcome notifications to the user.
// Notifications are advisory: failures to deliver them never fail the
// operation they describe.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Severity classifies a notification for display.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
)

// Notifier is the outbound sink the services publish outcomes to.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Slog logs notifications through the structured logger. Used when no UI is
// attached, e.g. in the worker.
type Slog struct {
	Logger *slog.Logger
}

func (s Slog) Notify(message string, severity Severity) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	switch severity {
	case Error:
		logger.Error(message, "severity", severity)
	default:
		logger.Info(message, "severity", severity)
	}
}

// Notification is one entry in the Hub with its expiry.
type Notification struct {
	ID       int64     `json:"id"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Expires  time.Time `json:"expires"`
}

// DefaultTTL matches the auto-dismiss delay of the original banner.
const DefaultTTL = 3 * time.Second

// Hub buffers notifications for polling clients and expires them
// automatically. The zero value is not usable; call NewHub.
type Hub struct {
	mu      sync.Mutex
	ttl     time.Duration
	nextID  int64
	entries []Notification
	now     func() time.Time
}

func NewHub(ttl time.Duration) *Hub {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Hub{ttl: ttl, now: time.Now}
}

// SetClock overrides the expiry clock, for tests.
func (h *Hub) SetClock(now func() time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.now = now
}

func (h *Hub) Notify(message string, severity Severity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.entries = append(h.entries, Notification{
		ID:       h.nextID,
		Message:  message,
		Severity: severity,
		Expires:  h.now().Add(h.ttl),
	})
}

// Active returns the notifications that have not expired yet and drops the
// rest, oldest first.
func (h *Hub) Active() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	live := h.entries[:0]
	for _, n := range h.entries {
		if now.Before(n.Expires) {
			live = append(live, n)
		}
	}
	h.entries = live
	return append([]Notification(nil), live...)
}

// Dismiss removes one notification by id before it expires.
func (h *Hub) Dismiss(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, n := range h.entries {
		if n.ID == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Multi fans a notification out to several sinks.
type Multi []Notifier

func (m Multi) Notify(message string, severity Severity) {
	for _, n := range m {
		n.Notify(message, severity)
	}
}
