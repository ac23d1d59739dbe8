// Package router decides which pipeline stage runs next. Routers are pure
// functions over the request state, registered by name in a Registry that is
// populated during startup and read-only under load.
package router

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/zen-systems/waypoint/pkg/state"
)

// Func maps current pipeline state to the name of the next stage.
type Func func(*state.State) string

// Registry holds named router functions. Registration happens at startup,
// before any request traffic, so reads need no locking.
type Registry struct {
	routers map[string]Func
	logger  *zap.Logger
}

// NewRegistry creates an empty router registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		routers: make(map[string]Func),
		logger:  logger,
	}
}

// Register stores a router under name. Overwriting an existing name is
// allowed but logged, since it usually means two stages claimed the same
// router name.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return fmt.Errorf("router name is required")
	}
	if fn == nil {
		return fmt.Errorf("router %q: function is required", name)
	}
	if _, exists := r.routers[name]; exists {
		r.logger.Warn("overwriting registered router", zap.String("router", name))
	}
	r.routers[name] = fn
	return nil
}

// Get returns the router registered under name. A missing router is a
// configuration error and should be surfaced at graph construction time,
// not at request time.
func (r *Registry) Get(name string) (Func, error) {
	fn, ok := r.routers[name]
	if !ok {
		return nil, fmt.Errorf("router not found: %s", name)
	}
	return fn, nil
}

// Has reports whether a router is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.routers[name]
	return ok
}

// Names returns all registered router names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.routers))
	for name := range r.routers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
