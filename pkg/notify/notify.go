package notify

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultTTL is how long a notification stays visible unless dismissed.
const DefaultTTL = 5 * time.Second

// Notification is a visible, dismissible message.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notifier displays messages to the user.
type Notifier interface {
	Show(message string, kind Kind) Notification
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string, kind Kind) Notification

// Show implements Notifier.
func (fn NotifierFunc) Show(message string, kind Kind) Notification {
	return fn(message, kind)
}

type entry struct {
	notification Notification
	timer        *time.Timer
}

// Center keeps the active notifications for one page. Each notification
// expires after the configured TTL and can be dismissed earlier.
type Center struct {
	mu      sync.Mutex
	items   map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	closed  bool
	onEvict func(Notification)
}

// Option configures a Center.
type Option func(*Center)

// WithTTL overrides DefaultTTL. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects the time source used to stamp notifications.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Center) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEvictHook is called after a notification expires or is dismissed.
func WithEvictHook(fn func(Notification)) Option {
	return func(c *Center) {
		c.onEvict = fn
	}
}

// NewCenter constructs an empty Center.
func NewCenter(options ...Option) *Center {
	c := &Center{
		items:  make(map[string]*entry),
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Show publishes a message. Markup is stripped; unknown kinds fall back to
// info. Once the center is closed, notifications are returned but not kept.
func (c *Center) Show(message string, kind Kind) Notification {
	now := c.now()
	n := Notification{
		ID:        uuid.NewString(),
		Message:   PlainText(message),
		Kind:      normalizeKind(kind),
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return n
	}
	id := n.ID
	c.items[id] = &entry{
		notification: n,
		timer:        time.AfterFunc(c.ttl, func() { c.expire(id) }),
	}
	c.logger.Debug("notification shown",
		zap.String("id", id),
		zap.String("kind", string(n.Kind)))
	return n
}

// Dismiss removes a notification before it expires. It reports whether the
// notification was still active.
func (c *Center) Dismiss(id string) bool {
	return c.remove(id, "dismissed")
}

// Active returns visible notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item.notification)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Close stops every pending expiry timer and drops active notifications.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, item := range c.items {
		item.timer.Stop()
		delete(c.items, id)
	}
	c.closed = true
}

func (c *Center) expire(id string) {
	c.remove(id, "expired")
}

func (c *Center) remove(id, reason string) bool {
	c.mu.Lock()
	item, ok := c.items[id]
	if ok {
		item.timer.Stop()
		delete(c.items, id)
	}
	hook := c.onEvict
	c.mu.Unlock()

	if !ok {
		return false
	}
	c.logger.Debug("notification removed",
		zap.String("id", id),
		zap.String("reason", reason))
	if hook != nil {
		hook(item.notification)
	}
	return true
}

func normalizeKind(kind Kind) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(string(kind)))) {
	case KindSuccess:
		return KindSuccess
	case KindError:
		return KindError
	default:
		return KindInfo
	}
}
