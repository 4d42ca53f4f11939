// Package component implements the component runtime: tracked state with
// copy-on-write change recording, lifecycle hooks, a batching update
// scheduler and delegated event dispatch. A Registry holds the live
// instances for one runtime and serves as the reconciler's component
// host.
package component

import (
	"context"
	"strconv"
	"sync"

	"github.com/vellum-ui/vellum/internal/diff"
	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/errors"
	"github.com/vellum-ui/vellum/internal/logging"
)

// Registry is the per-runtime component table: registered type
// definitions plus the live instance lookup. Instance ids are minted
// from a monotonically increasing counter prefixed with "c", partitioning
// the id space per runtime.
type Registry struct {
	mu sync.RWMutex

	runtimeID string
	doc       *dom.Document
	scheduler *Scheduler
	logger    logging.Logger

	seq        int
	types      map[string]*Definition
	components map[string]*Component
}

// NewRegistry creates a registry bound to one runtime's document.
func NewRegistry(runtimeID string, doc *dom.Document, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Registry{
		runtimeID:  runtimeID,
		doc:        doc,
		scheduler:  NewScheduler(),
		logger:     logger.WithComponent("component-registry"),
		types:      make(map[string]*Definition),
		components: make(map[string]*Component),
	}
}

// Scheduler returns the registry's update scheduler.
func (r *Registry) Scheduler() *Scheduler { return r.scheduler }

// Document returns the live document this registry renders into.
func (r *Registry) Document() *dom.Document { return r.doc }

// RuntimeID returns the runtime identifier instance ids and event
// metadata are namespaced by.
func (r *Registry) RuntimeID() string { return r.runtimeID }

// RegisterType associates a type name with a definition. Later
// registration for the same name silently replaces it.
func (r *Registry) RegisterType(name string, def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = def
	r.logger.Debug(context.Background(), "component type registered", "type", name)
}

// Definition returns a registered type definition.
func (r *Registry) Definition(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.types[name]
	return def, ok
}

// TypeNames returns the registered type names.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	return out
}

// Create instantiates a component of a registered type. With id == "" a
// fresh per-runtime id is minted. The onCreate hook runs before the
// instance becomes visible to lookup.
func (r *Registry) Create(typeName, id string, input map[string]interface{}) (*Component, error) {
	r.mu.Lock()
	def, ok := r.types[typeName]
	if !ok {
		r.mu.Unlock()
		return nil, errors.ErrComponentNotFound(typeName)
	}
	if id == "" {
		r.seq++
		id = "c" + strconv.Itoa(r.seq)
	}
	r.mu.Unlock()

	c := newComponent(id, typeName, def, r, input)
	if def.Hooks.OnCreate != nil {
		def.Hooks.OnCreate(c, input)
	}

	r.mu.Lock()
	r.components[id] = c
	r.mu.Unlock()

	r.logger.Debug(context.Background(), "component created",
		"type", typeName, "id", id)
	return c, nil
}

// Component returns a live instance by id.
func (r *Registry) Component(id string) (*Component, bool) {
	return r.lookup(id)
}

// Instance adapts lookup to the reconciler's host surface.
func (r *Registry) Instance(id string) (diff.Instance, bool) {
	c, ok := r.lookup(id)
	if !ok {
		return nil, false
	}
	return c, true
}

// Mount fires the mount lifecycle for an instance, once.
func (r *Registry) Mount(id string) {
	if c, ok := r.lookup(id); ok {
		c.mount()
	}
}

// Flush drains the scheduler's deferred task queue, running any pending
// unbatched update flush.
func (r *Registry) Flush() {
	r.scheduler.Tick()
}

// Len reports the number of live instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}

func (r *Registry) lookup(id string) (*Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[id]
	return c, ok
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.components, id)
	r.mu.Unlock()
	r.logger.Debug(context.Background(), "component removed", "id", id)
}

// destroyDescendants tears down every live component owning a node in the
// subtree below root, excluding the id of the component driving the
// teardown.
func (r *Registry) destroyDescendants(root *dom.Node, excludeID string) {
	for _, child := range root.ChildNodes() {
		if id, ok := r.doc.ComponentID(child); ok && id != excludeID {
			if c, live := r.lookup(id); live && !c.Destroyed() {
				c.Destroy()
				continue
			}
		}
		r.destroyDescendants(child, excludeID)
	}
}

var _ diff.Host = (*Registry)(nil)
