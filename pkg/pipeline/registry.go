package pipeline

import (
	"sync"

	"github.com/modkit-ci/modkit/pkg/manifest"
)

// Registry tracks which compiled modules the process considers loaded.
// Compiled script code cannot be unloaded from a Go process, so load
// state is explicit bookkeeping: tests run in fresh subprocesses and
// the registry only records what Clean must forget.
type Registry struct {
	mu     sync.Mutex
	loaded map[string]LoadedModule
}

// LoadedModule records one registered module instance.
type LoadedModule struct {
	Name    string
	Path    string
	Version manifest.Version
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{loaded: make(map[string]LoadedModule)}
}

// Load registers a compiled module as loaded.
func (r *Registry) Load(name, path string, version manifest.Version) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded[name] = LoadedModule{Name: name, Path: path, Version: version}
}

// Unload deregisters a module. Unloading a module that was never loaded
// is a no-op.
func (r *Registry) Unload(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loaded, name)
}

// IsLoaded reports whether a module is currently registered.
func (r *Registry) IsLoaded(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.loaded[name]
	return ok
}
