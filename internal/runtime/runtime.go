// Package runtime ties the subsystems into one explicit context object: a
// module registry, a live document, the component registry and the event
// delegation table, all partitioned by a runtime id. Multiple runtimes
// coexist on one process; nothing in the package is module-level global
// state.
package runtime

import (
	"context"

	"github.com/vellum-ui/vellum/internal/component"
	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/logging"
	"github.com/vellum-ui/vellum/internal/resolver"
)

// Runtime is one isolated page runtime.
type Runtime struct {
	id     string
	logger logging.Logger

	modules    *resolver.Registry
	doc        *dom.Document
	components *component.Registry
	delegation *component.Delegation
}

// New creates a runtime. The id namespaces fragment boundary markers and
// delegated event metadata; two runtimes with distinct ids ignore each
// other's markup annotations.
func New(id string, logger logging.Logger) *Runtime {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With("runtime", id)

	doc := dom.NewDocument(id)
	components := component.NewRegistry(id, doc, logger)

	rt := &Runtime{
		id:         id,
		logger:     logger,
		modules:    resolver.NewRegistry(logger),
		doc:        doc,
		components: components,
		delegation: component.NewDelegation(components),
	}
	logger.Debug(context.Background(), "runtime created")
	return rt
}

// ID returns the runtime identifier.
func (rt *Runtime) ID() string { return rt.id }

// Modules exposes the module registry: define, require, run queue.
func (rt *Runtime) Modules() *resolver.Registry { return rt.modules }

// Document returns the runtime's live document.
func (rt *Runtime) Document() *dom.Document { return rt.doc }

// Components returns the component registry.
func (rt *Runtime) Components() *component.Registry { return rt.components }

// Delegation returns the delegated event dispatch table.
func (rt *Runtime) Delegation() *component.Delegation { return rt.delegation }

// RegisterComponent associates a type name with a component definition.
func (rt *Runtime) RegisterComponent(typeName string, def *component.Definition) {
	rt.components.RegisterType(typeName, def)
}

// Update drains the scheduler's deferred queue, flushing any pending
// batched component updates.
func (rt *Runtime) Update() {
	rt.components.Flush()
}

// Render instantiates a component of a registered type and renders it
// into a detached fragment root. The result is attached with one of the
// RenderResult placement methods.
func (rt *Runtime) Render(typeName string, input map[string]interface{}) (*RenderResult, error) {
	c, err := rt.components.Create(typeName, "", input)
	if err != nil {
		return nil, err
	}

	root := rt.doc.CreateFragment(c.ID())
	rt.doc.SetComponentID(root, c.ID())
	c.SetRootNode(root)
	c.Rerender()
	c.State().Commit()

	return &RenderResult{rt: rt, component: c, node: root}, nil
}
