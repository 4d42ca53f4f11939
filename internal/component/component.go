package component

import (
	"reflect"

	"github.com/vellum-ui/vellum/internal/diff"
	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/errors"
	"github.com/vellum-ui/vellum/internal/vdom"
)

// Renderer builds a component's virtual subtree from its current input
// and state. The returned node is the reconciliation container for the
// component's fragment root; its children become the component's DOM.
type Renderer func(c *Component) *vdom.VNode

// HandlerFunc is a component method invokable from delegated DOM events
// and custom bubbling events. Dispatch passes any bound extra arguments
// first, then the event and the element the metadata was found on (nil
// for custom events).
type HandlerFunc func(c *Component, event *Event, node *dom.Node, args ...interface{})

// UpdateHandlerFunc handles one changed state key directly against the
// DOM, bypassing a full re-render.
type UpdateHandlerFunc func(c *Component, value, old interface{})

// Hooks are the optional lifecycle callbacks of a component definition.
type Hooks struct {
	OnCreate  func(c *Component, input map[string]interface{})
	OnInput   func(c *Component, input, old map[string]interface{})
	OnMount   func(c *Component)
	OnUpdate  func(c *Component)
	OnDestroy func(c *Component)
}

// Definition describes a component type: how to render it, its lifecycle
// hooks, its dispatchable methods and its per-state-key update handlers.
type Definition struct {
	Renderer       Renderer
	Hooks          Hooks
	Handlers       map[string]HandlerFunc
	UpdateHandlers map[string]UpdateHandlerFunc
	InitialState   map[string]interface{}
}

// customBinding routes one declarative bubbling event to a method on a
// target component.
type customBinding struct {
	targetID string
	method   string
	once     bool
	args     []interface{}
}

// Component is one live instance. It implements the reconciler's Instance
// surface; the registry that created it implements Host.
type Component struct {
	id       string
	typeName string
	def      *Definition
	owner    *Registry

	input map[string]interface{}
	state *State

	root  *dom.Node
	keyed map[string]*dom.Node

	emitter      *EventEmitter
	customEvents map[string]customBinding
	eventArgs    map[string][]interface{}
	subs         []*subscription

	mounted      bool
	destroyed    bool
	settingInput bool
}

// subscription tracks a listener registered through SubscribeTo so
// Destroy can unsubscribe it.
type subscription struct {
	target *EventEmitter
	event  string
	reg    *registration
}

func newComponent(id, typeName string, def *Definition, owner *Registry, input map[string]interface{}) *Component {
	c := &Component{
		id:       id,
		typeName: typeName,
		def:      def,
		owner:    owner,
		input:    input,
		state:    NewState(cloneValues(def.InitialState)),
		keyed:    make(map[string]*dom.Node),
		emitter:  NewEventEmitter(),
	}
	c.state.onDirty = c.enqueue
	return c
}

func cloneValues(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ID returns the component's page-unique identifier.
func (c *Component) ID() string { return c.id }

// TypeName returns the registered type this instance was created from.
func (c *Component) TypeName() string { return c.typeName }

// Input returns the last applied input map.
func (c *Component) Input() map[string]interface{} { return c.input }

// State returns the component's tracked state store.
func (c *Component) State() *State { return c.state }

// Emitter exposes the lifecycle/custom event emitter.
func (c *Component) Emitter() *EventEmitter { return c.emitter }

// RootNode returns the component's live fragment root, nil before the
// first render.
func (c *Component) RootNode() *dom.Node { return c.root }

// SetRootNode records the live fragment root.
func (c *Component) SetRootNode(n *dom.Node) { c.root = n }

// KeyedElement looks up a live node in the component's keyed table.
func (c *Component) KeyedElement(key string) (*dom.Node, bool) {
	n, ok := c.keyed[key]
	return n, ok
}

// SetKeyedElement records a live node under a resolved key.
func (c *Component) SetKeyedElement(key string, n *dom.Node) {
	c.keyed[key] = n
}

// Destroyed reports whether Destroy has run.
func (c *Component) Destroyed() bool { return c.destroyed }

// SetState assigns one state key and schedules an update.
func (c *Component) SetState(key string, value interface{}) error {
	return c.state.Set(key, value)
}

// ReplaceState swaps the whole state map and schedules an update.
func (c *Component) ReplaceState(values map[string]interface{}) {
	c.state.Replace(values)
}

// ForceUpdate schedules a full re-render regardless of tracked changes.
func (c *Component) ForceUpdate() {
	c.state.ForceUpdate()
}

// SetInput applies a new input map. Reference-identical input is ignored
// without inspection; otherwise a shallow key-by-key comparison decides
// whether anything changed. The onInput hook runs under a reentrancy
// guard so a hook assigning input again does not recurse.
func (c *Component) SetInput(input map[string]interface{}) {
	if c.destroyed || c.settingInput {
		return
	}
	if sameInput(c.input, input) {
		return
	}

	old := c.input
	c.input = input
	if c.def.Hooks.OnInput != nil {
		c.settingInput = true
		c.def.Hooks.OnInput(c, input, old)
		c.settingInput = false
	}
	c.state.ForceUpdate()
}

// sameInput reports whether two input maps are reference-identical or
// shallowly equal.
func sameInput(a, b map[string]interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer() {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !stateEqual(av, bv) {
			return false
		}
	}
	return true
}

// enqueue joins the owner's scheduler on the idle-to-dirty transition.
// The dirty flag itself is the deduplication: repeated mutations before
// the flush do not enqueue again.
func (c *Component) enqueue() {
	if c.destroyed || c.owner == nil {
		return
	}
	c.owner.scheduler.Enqueue(c)
}

// update runs one update cycle: per-key handlers when they cover every
// changed key, a full re-render otherwise.
func (c *Component) update() {
	if c.destroyed || !c.state.Dirty() {
		return
	}

	changed := c.state.Changed()
	if !c.state.Forced() && c.handlersCover(changed) {
		for key, old := range changed {
			value, _ := c.state.Get(key)
			c.def.UpdateHandlers[key](c, value, old)
		}
	} else {
		c.rerender()
	}

	c.state.Commit()
	if c.def.Hooks.OnUpdate != nil {
		c.def.Hooks.OnUpdate(c)
	}
	c.emitter.Emit("update")
}

func (c *Component) handlersCover(changed map[string]interface{}) bool {
	if len(changed) == 0 || len(c.def.UpdateHandlers) == 0 {
		return false
	}
	for key := range changed {
		if _, ok := c.def.UpdateHandlers[key]; !ok {
			return false
		}
	}
	return true
}

// RenderBody builds the component's virtual subtree from current input
// and state without reconciling it. Nil when the type has no renderer.
func (c *Component) RenderBody() *vdom.VNode {
	if c.def.Renderer == nil {
		return nil
	}
	return c.def.Renderer(c).WithOwner(c.id)
}

// rerender builds a fresh virtual subtree and reconciles it against the
// component's live root.
func (c *Component) rerender() {
	if c.root == nil || c.owner == nil {
		return
	}
	body := c.RenderBody()
	if body == nil {
		return
	}

	ctx := diff.NewContext(c.owner.doc, c.owner)
	ctx.Rendered[c.id] = true
	diff.Reconcile(ctx, c.root, body)
}

// Rerender synchronously rebuilds the component's virtual subtree and
// reconciles it against the live root, outside the scheduler. The
// attachment path uses it for the initial render.
func (c *Component) Rerender() {
	c.rerender()
}

// AdoptState installs server-provided state without marking the component
// dirty. Hydration uses it before the first client-side render so the
// adopted values do not schedule an update.
func (c *Component) AdoptState(values map[string]interface{}) {
	if values == nil {
		return
	}
	c.state = NewState(values)
	c.state.onDirty = c.enqueue
}

// mount fires the mount lifecycle exactly once, on first DOM attachment.
func (c *Component) mount() {
	if c.mounted || c.destroyed {
		return
	}
	c.mounted = true
	if c.def.Hooks.OnMount != nil {
		c.def.Hooks.OnMount(c)
	}
	c.emitter.Emit("mount")
}

// SubscribeTo registers a listener on another emitter and tracks it so
// Destroy unsubscribes it.
func (c *Component) SubscribeTo(target *EventEmitter, event string, fn Listener) error {
	reg, err := target.on(event, fn, false)
	if err != nil {
		return err
	}
	c.subs = append(c.subs, &subscription{target: target, event: event, reg: reg})
	return nil
}

// BindCustomEvent routes a declarative bubbling event to a method on a
// target component, optionally firing once and carrying bound arguments.
func (c *Component) BindCustomEvent(event, targetID, method string, once bool, args ...interface{}) {
	if c.customEvents == nil {
		c.customEvents = make(map[string]customBinding)
	}
	c.customEvents[event] = customBinding{targetID: targetID, method: method, once: once, args: args}
}

// EmitEvent fires a custom bubbling event: the routing table entry, if
// any, dispatches to the bound target method; local emitter listeners
// fire regardless. Once bindings delete their entry before invoking the
// target.
func (c *Component) EmitEvent(event string, args ...interface{}) error {
	if binding, ok := c.customEvents[event]; ok {
		if binding.once {
			delete(c.customEvents, event)
		}

		target, ok := c.owner.lookup(binding.targetID)
		if !ok {
			return errors.ErrComponentNotFound(binding.targetID)
		}
		handler, ok := target.def.Handlers[binding.method]
		if !ok {
			return errors.ErrMethodNotFound(binding.method, binding.targetID)
		}

		merged := append(append([]interface{}{}, binding.args...), args...)
		handler(target, nil, nil, merged...)
	}

	c.emitter.Emit(event, args...)
	return nil
}

// SetEventArgs stores bound extra arguments for delegated DOM events
// under an opaque key referenced from event metadata.
func (c *Component) SetEventArgs(key string, args []interface{}) {
	if c.eventArgs == nil {
		c.eventArgs = make(map[string][]interface{})
	}
	c.eventArgs[key] = args
}

// EventArgs returns bound arguments stored under a key.
func (c *Component) EventArgs(key string) []interface{} {
	return c.eventArgs[key]
}

// Destroy tears the component down: destroy lifecycle, tracked listener
// unsubscription, recursive teardown of descendant components found in
// the root subtree, DOM detachment and registry removal. Idempotent.
func (c *Component) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true

	if c.def.Hooks.OnDestroy != nil {
		c.def.Hooks.OnDestroy(c)
	}
	c.emitter.Emit("destroy")
	c.emitter.Off("")

	for _, sub := range c.subs {
		sub.target.removeRegistration(sub.event, sub.reg)
	}
	c.subs = nil

	if c.root != nil && c.owner != nil {
		c.owner.destroyDescendants(c.root, c.id)
		if c.root.Parent != nil {
			c.root.Detach()
		}
		c.owner.doc.ForgetSubtree(c.root)
	}

	if c.owner != nil {
		c.owner.remove(c.id)
	}
}

var _ diff.Instance = (*Component)(nil)
