package simconf

import (
	"fmt"
	"sort"
	"sync"
)

// Registry keeps named resolved configurations, each isolated from the
// others. A failed resolution never touches the stored state.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]Config
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]Config),
	}
}

// Apply resolves a raw mapping and stores the result under the given
// name, replacing any previous configuration. It reports whether the
// name was created rather than replaced.
func (r *Registry) Apply(name string, raw map[string]any) (Config, bool, error) {
	cfg, err := FromMap(raw)
	if err != nil {
		return Config{}, false, err
	}
	return cfg, r.Store(name, cfg), nil
}

// Store saves an already-resolved configuration under the given name,
// replacing any previous one. It reports whether the name was created.
func (r *Registry) Store(name string, cfg Config) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.configs[name]
	r.configs[name] = cfg
	return !exists
}

// Get retrieves a configuration by name
// Returns the configuration and a boolean indicating if it was found
func (r *Registry) Get(name string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, exists := r.configs[name]
	return cfg, exists
}

// Delete removes a configuration by name
// Returns an error if the configuration doesn't exist
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[name]; !exists {
		return fmt.Errorf("configuration with name %s does not exist", name)
	}

	delete(r.configs, name)
	return nil
}

// List returns the stored configuration names in lexical order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
