package theme

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// DefaultKey is the preference key the dark mode flag is stored under.
const DefaultKey = "darkMode"

// Store persists string preferences.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Context carries the dark mode preference for one visitor. It is passed
// explicitly to whatever renders the page.
type Context struct {
	store Store
	key   string
}

// New returns a Context reading and writing key in store. An empty key
// uses DefaultKey.
func New(store Store, key string) *Context {
	if key == "" {
		key = DefaultKey
	}
	return &Context{store: store, key: key}
}

// VisitorKey namespaces DefaultKey for one visitor.
func VisitorKey(visitorID string) string {
	if visitorID == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + visitorID
}

// Key returns the preference key this Context uses.
func (c *Context) Key() string { return c.key }

// DarkMode reports the effective mode: the stored flag when one exists,
// otherwise the system preference. Any stored value other than "true" is
// light mode.
func (c *Context) DarkMode(ctx context.Context, systemPrefersDark bool) (bool, error) {
	value, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return systemPrefersDark, fmt.Errorf("read theme preference: %w", err)
	}
	if !ok {
		return systemPrefersDark, nil
	}
	return value == "true", nil
}

// Toggle flips the effective mode and stores the result. It returns the
// new mode.
func (c *Context) Toggle(ctx context.Context, systemPrefersDark bool) (bool, error) {
	current, err := c.DarkMode(ctx, systemPrefersDark)
	if err != nil {
		return current, err
	}
	next := !current
	if err := c.store.Set(ctx, c.key, strconv.FormatBool(next)); err != nil {
		return current, fmt.Errorf("write theme preference: %w", err)
	}
	return next, nil
}

// SystemPrefersDark reads the Sec-CH-Prefers-Color-Scheme client hint.
func SystemPrefersDark(r *http.Request) bool {
	hint := strings.Trim(r.Header.Get("Sec-CH-Prefers-Color-Scheme"), `" `)
	return strings.EqualFold(hint, "dark")
}

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
