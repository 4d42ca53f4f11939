// Package diff implements the reconciliation engine: it walks a live tree
// and a virtual tree in lock-step and mutates the live tree in place to
// match, matching nodes by position or by explicit key, morphing
// attributes against the previous render's virtual snapshot and driving
// component teardown for nodes that fall out of the tree.
package diff

import (
	"strconv"

	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/vdom"
)

// Instance is the surface the reconciler needs from a live component.
type Instance interface {
	ID() string
	RootNode() *dom.Node
	SetRootNode(n *dom.Node)
	KeyedElement(key string) (*dom.Node, bool)
	SetKeyedElement(key string, n *dom.Node)
	Destroyed() bool
	Destroy()
}

// Host looks up live component instances by id.
type Host interface {
	Instance(id string) (Instance, bool)
}

// emptyHost backs reconciliation passes with no component system in play.
type emptyHost struct{}

func (emptyHost) Instance(string) (Instance, bool) { return nil, false }

// Context carries the state of one reconciliation pass. Create a fresh
// Context per pass: key deduplication and the detached-node queue do not
// survive across passes.
type Context struct {
	Doc  *dom.Document
	Host Host

	// Rendered is the set of component ids that produced output this
	// pass. An existing component encountered out of position that was
	// not rendered this pass is stale: it is torn down instead of moved.
	Rendered map[string]bool

	// Preserved is the set of component ids whose subtrees must not be
	// re-reconciled or torn down this pass.
	Preserved map[string]bool

	// Hydrate virtualizes existing live nodes on demand instead of
	// assuming a previous virtual snapshot exists.
	Hydrate bool

	// OnRemove, when set, runs before a detached node is removed from
	// the tree. Returning false keeps the DOM node in place; the
	// associated component is still destroyed and ownership of the node
	// passes to the hook's caller.
	OnRemove func(n *dom.Node) bool

	// Keyed is the keyed-element table used for nodes with no owning
	// component. Callers reconciling outside the component system carry
	// it across passes; component-owned nodes use the owning instance's
	// table instead.
	Keyed map[string]*dom.Node

	keySeq    map[string]int
	detached  []*dom.Node
	reclaimed map[*dom.Node]bool
}

// NewContext creates a reconciliation context for one pass.
func NewContext(doc *dom.Document, host Host) *Context {
	if host == nil {
		host = emptyHost{}
	}

	return &Context{
		Doc:       doc,
		Host:      host,
		Rendered:  make(map[string]bool),
		Preserved: make(map[string]bool),
		Keyed:     make(map[string]*dom.Node),
		keySeq:    make(map[string]int),
		reclaimed: make(map[*dom.Node]bool),
	}
}

// resolveKey computes the scope-qualified key name for a keyed virtual
// node and applies per-scope deduplication: the first occurrence of a key
// is unsuffixed, collisions within the same pass get _1, _2, ...
//
// Explicit "@"-prefixed keys scope to the owning component; other keys
// scope to the reconciliation scope they appear in.
func (ctx *Context) resolveKey(v *vdom.VNode, scopeID string) string {
	key := v.Key
	scope := scopeID
	if len(key) > 0 && key[0] == '@' {
		scope = v.OwnerID
	}

	seqKey := scope + "/" + key
	n := ctx.keySeq[seqKey]
	ctx.keySeq[seqKey] = n + 1
	if n > 0 {
		key += "_" + strconv.Itoa(n)
	}

	return scope + "|" + key
}

// keyedOwner selects whose keyed-element table a keyed node belongs to,
// mirroring resolveKey's scope choice: "@"-prefixed keys use the node's
// explicit owner, all others the reconciliation scope. Renderers stamp
// the owner only on the body root, so keyed children inside a component
// re-render reach the component's table through the scope.
func keyedOwner(v *vdom.VNode, scope string) string {
	if len(v.Key) > 0 && v.Key[0] == '@' {
		return v.OwnerID
	}
	return scope
}

// keyedLookup finds a previously-rendered live node for a resolved key in
// the owning component's keyed-element table.
func (ctx *Context) keyedLookup(ownerID, resolvedKey string) (*dom.Node, bool) {
	if inst, ok := ctx.Host.Instance(ownerID); ok {
		return inst.KeyedElement(resolvedKey)
	}
	n, ok := ctx.Keyed[resolvedKey]
	return n, ok
}

// keyedStore records a live node under a resolved key.
func (ctx *Context) keyedStore(ownerID, resolvedKey string, n *dom.Node) {
	if inst, ok := ctx.Host.Instance(ownerID); ok {
		inst.SetKeyedElement(resolvedKey, n)
		return
	}
	ctx.Keyed[resolvedKey] = n
}
