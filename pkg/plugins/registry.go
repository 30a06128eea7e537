package plugins

import (
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry is a thread-safe, lazily-populated cache of plugin
// instances for one extension point. The first lookup triggers a
// discovery pass; EnsureLoaded(true) forces a fresh one. A single
// mutex guards the name→instance map, so lookups may block briefly
// behind a concurrent discovery instead of returning stale data.
//
// Plugin instances are created once per unique name and shared by all
// callers for the process lifetime; the registry is the sole mutator
// of the map.
type Registry struct {
	namespace Kind
	loader    *Loader
	log       *logrus.Logger
	metrics   *Metrics

	mu sync.Mutex
	// entries is nil until the first load; nil ("not yet loaded") is
	// distinct from an empty loaded map. Every load builds a fresh map
	// and swaps it in whole, so a map handed out as a snapshot is
	// never mutated afterwards.
	entries map[string]any
}

// RegistryOption configures a Registry at construction time.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for discovery events.
func WithLogger(log *logrus.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = log
	}
}

// WithMetrics instruments the registry with Prometheus metrics.
func WithMetrics(m *Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// NewRegistry creates a registry for the given extension point,
// backed by the loader. Nothing is discovered until first use.
func NewRegistry(namespace Kind, loader *Loader, opts ...RegistryOption) *Registry {
	r := &Registry{
		namespace: namespace,
		loader:    loader,
		log:       loader.log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Namespace returns the extension point this registry serves.
func (r *Registry) Namespace() Kind {
	return r.namespace
}

// EnsureLoaded populates the registry if it has not been loaded yet.
// With force it unconditionally replaces the state with a fresh
// discovery result. Safe under concurrent invocation: callers observe
// either the previous snapshot or the fully-populated new one.
func (r *Registry) EnsureLoaded(force bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(force)
}

// ensureLocked is the lock-free core of EnsureLoaded; r.mu must be
// held. Get/Has/List/Iterate nest the lazy load through this instead
// of re-acquiring the mutex.
func (r *Registry) ensureLocked(force bool) {
	if r.entries != nil {
		if !force {
			return
		}
		r.log.WithField("namespace", string(r.namespace)).Debug("forcing registry reload")
	}
	instances, conflicts := r.loader.Discover(r.namespace)
	r.metrics.observeDiscovery(r.namespace, len(instances), len(conflicts))
	r.entries = instances
}

// Get returns the plugin registered under name, loading the registry
// first if needed. A miss after loading is a *NoSuchPluginError
// carrying the name and namespace.
//
// Callers wanting get-or-fail atomically should prefer Get over
// Has-then-Get: two calls are not atomic with respect to a concurrent
// forced reload.
func (r *Registry) Get(name string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(false)

	plugin, ok := r.entries[name]
	if !ok {
		r.metrics.observeMiss(r.namespace)
		return nil, &NoSuchPluginError{Name: name, Namespace: r.namespace}
	}
	return plugin, nil
}

// Has reports whether a plugin with the given name is registered,
// loading the registry first if needed.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(false)

	_, ok := r.entries[name]
	return ok
}

// Len returns the number of loaded plugins.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(false)

	return len(r.entries)
}

// List returns the loaded plugin names, sorted so the order is stable
// for a single snapshot.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(false)

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Iterate returns a lazy sequence of (name, instance) pairs over the
// snapshot in effect when iteration begins. A forced reload during
// consumption does not affect an iteration already underway.
func (r *Registry) Iterate() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		r.mu.Lock()
		r.ensureLocked(false)
		snapshot := r.entries
		r.mu.Unlock()

		for name, plugin := range snapshot {
			if !yield(name, plugin) {
				return
			}
		}
	}
}

// ProtocolRegistry is the protocol extension point's registry. Get
// asserts instances to ProtocolPlugin so callers never type-switch.
type ProtocolRegistry struct {
	*Registry
}

// NewProtocolRegistry creates the registry for KindProtocol.
func NewProtocolRegistry(loader *Loader, opts ...RegistryOption) *ProtocolRegistry {
	return &ProtocolRegistry{Registry: NewRegistry(KindProtocol, loader, opts...)}
}

// Get returns the protocol plugin registered under name.
func (r *ProtocolRegistry) Get(name string) (ProtocolPlugin, error) {
	plugin, err := r.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	p, ok := plugin.(ProtocolPlugin)
	if !ok {
		return nil, fmt.Errorf("plugin %q under namespace %q does not implement ProtocolPlugin", name, r.namespace)
	}
	return p, nil
}

// CompressionRegistry is the compression extension point's registry.
type CompressionRegistry struct {
	*Registry
}

// NewCompressionRegistry creates the registry for KindCompression.
func NewCompressionRegistry(loader *Loader, opts ...RegistryOption) *CompressionRegistry {
	return &CompressionRegistry{Registry: NewRegistry(KindCompression, loader, opts...)}
}

// Get returns the compression plugin registered under name.
func (r *CompressionRegistry) Get(name string) (CompressionPlugin, error) {
	plugin, err := r.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	c, ok := plugin.(CompressionPlugin)
	if !ok {
		return nil, fmt.Errorf("plugin %q under namespace %q does not implement CompressionPlugin", name, r.namespace)
	}
	return c, nil
}
