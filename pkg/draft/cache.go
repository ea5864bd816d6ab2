package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// KeyPrefix is prepended to the form id to build the storage key.
const KeyPrefix = "form-data-"

// Cache loads, saves and clears form drafts.
type Cache struct {
	store     Store
	namespace string
	logger    *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithNamespace scopes keys, e.g. per visitor session.
func WithNamespace(namespace string) Option {
	return func(c *Cache) {
		c.namespace = strings.TrimSpace(namespace)
	}
}

// WithLogger attaches a logger used for corrupt-data warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Cache over store. A nil store falls back to memory.
func New(store Store, options ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{store: store, logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Scoped returns a Cache sharing the store under another namespace.
func (c *Cache) Scoped(namespace string) *Cache {
	return &Cache{
		store:     c.store,
		namespace: strings.TrimSpace(namespace),
		logger:    c.logger,
	}
}

// Key returns the storage key for a form.
func (c *Cache) Key(formID string) string {
	key := KeyPrefix + strings.TrimSpace(formID)
	if c.namespace == "" {
		return key
	}
	return c.namespace + ":" + key
}

// Load returns the cached values for a form. Absent, unreadable and corrupt
// entries all report false; the latter two are logged.
func (c *Cache) Load(ctx context.Context, formID string) (map[string]string, bool) {
	key := c.Key(formID)
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("draft load failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	values, err := decode(raw)
	if err != nil {
		c.logger.Warn("failed to restore form data", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return values, true
}

// Save overwrites the cached values for a form.
func (c *Cache) Save(ctx context.Context, formID string, values map[string]string) error {
	if values == nil {
		values = map[string]string{}
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("draft: encode %q: %w", formID, err)
	}
	if err := c.store.Set(ctx, c.Key(formID), payload); err != nil {
		return fmt.Errorf("draft: save %q: %w", formID, err)
	}
	return nil
}

// Clear removes the cached values for a form.
func (c *Cache) Clear(ctx context.Context, formID string) error {
	if err := c.store.Delete(ctx, c.Key(formID)); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("draft: clear %q: %w", formID, err)
	}
	return nil
}

// decode accepts any JSON object; scalar values are stringified the way an
// input control would coerce them.
func decode(raw []byte) (map[string]string, error) {
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	if generic == nil {
		return nil, errors.New("draft: payload is not an object")
	}
	out := make(map[string]string, len(generic))
	for key, value := range generic {
		switch typed := value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = typed
		case float64, bool:
			out[key] = fmt.Sprint(typed)
		default:
			return nil, fmt.Errorf("draft: field %q holds a non-scalar value", key)
		}
	}
	return out, nil
}
