package component

import (
	"strings"

	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/errors"
)

// Event is a dispatched DOM-style event. Propagation is halted with an
// explicit flag rather than by overriding dispatch behavior on the event
// itself.
type Event struct {
	Type   string
	Target *dom.Node

	halted bool
}

// StopPropagation halts the upward dispatch walk after the current
// handler returns.
func (e *Event) StopPropagation() { e.halted = true }

// PropagationStopped reports whether a handler halted the walk.
func (e *Event) PropagationStopped() bool { return e.halted }

// Delegation dispatches DOM events to component methods by walking from
// the event target toward the root, reading declarative metadata encoded
// in runtime-namespaced data attributes. One delegated entry per event
// type is installed lazily, the first time any component declares
// interest in that type.
type Delegation struct {
	registry  *Registry
	runtimeID string
	installed map[string]bool
}

// NewDelegation creates the delegation table for one runtime.
func NewDelegation(registry *Registry) *Delegation {
	return &Delegation{
		registry:  registry,
		runtimeID: registry.RuntimeID(),
		installed: make(map[string]bool),
	}
}

// AttrName returns the data attribute carrying metadata for an event
// type, namespaced by the runtime id so independent runtimes on one page
// do not read each other's bindings.
func (d *Delegation) AttrName(eventType string) string {
	return "data-" + d.runtimeID + "-on" + eventType
}

// EnsureType installs the delegated entry for an event type. Idempotent.
func (d *Delegation) EnsureType(eventType string) {
	d.installed[eventType] = true
}

// Installed reports whether an event type has a delegated entry.
func (d *Delegation) Installed(eventType string) bool {
	return d.installed[eventType]
}

// Bind writes event metadata onto a live element:
// method|componentID[|once[|argsKey]]. It also installs the delegated
// entry for the type.
func (d *Delegation) Bind(n *dom.Node, eventType, method, componentID string, once bool, argsKey string) {
	d.EnsureType(eventType)

	meta := method + "|" + componentID
	if once || argsKey != "" {
		if once {
			meta += "|1"
		} else {
			meta += "|"
		}
		if argsKey != "" {
			meta += "|" + argsKey
		}
	}
	n.SetAttr(d.AttrName(eventType), meta)
}

// Dispatch routes one event: the target's ancestor chain is walked toward
// the root, invoking the bound component method wherever metadata for the
// event type is present. Once bindings delete their metadata before the
// method runs. A handler calling StopPropagation ends the walk after it
// returns. Dispatch on a type with no delegated entry is a no-op.
func (d *Delegation) Dispatch(eventType string, target *dom.Node) error {
	if !d.installed[eventType] {
		return nil
	}

	event := &Event{Type: eventType, Target: target}
	attr := d.AttrName(eventType)

	for n := target; n != nil; n = n.Parent {
		if n.Type != dom.ElementNode {
			continue
		}
		meta, ok := n.Attr(attr)
		if !ok {
			continue
		}

		if err := d.invoke(meta, attr, event, n); err != nil {
			return err
		}
		if event.halted {
			return nil
		}
	}
	return nil
}

// invoke parses one metadata entry and calls the bound method.
func (d *Delegation) invoke(meta, attr string, event *Event, n *dom.Node) error {
	parts := strings.Split(meta, "|")
	if len(parts) < 2 {
		return errors.ErrMethodNotFound(meta, "")
	}
	method, componentID := parts[0], parts[1]
	once := len(parts) > 2 && parts[2] == "1"

	c, ok := d.registry.Component(componentID)
	if !ok {
		return errors.ErrComponentNotFound(componentID)
	}
	handler, ok := c.def.Handlers[method]
	if !ok {
		return errors.ErrMethodNotFound(method, componentID)
	}

	if once {
		n.RemoveAttr(attr)
	}

	var args []interface{}
	if len(parts) > 3 && parts[3] != "" {
		args = c.EventArgs(parts[3])
	}

	handler(c, event, n, args...)
	return nil
}
