package diff

import (
	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/vdom"
)

// Reconcile mutates liveParent's children in place to match vParent's
// children, then runs the detach second pass tearing down components
// whose nodes fell out of the tree.
func Reconcile(ctx *Context, liveParent *dom.Node, vParent *vdom.VNode) {
	ctx.markRendered(vParent)
	ctx.morphChildren(liveParent, vParent, vParent.OwnerID)
	ctx.finish()
}

// markRendered records every component placeholder in the new virtual
// tree as rendered this pass. Presence in the tree is what rendered
// means: a live instance whose placeholder appears out of position must
// be moved, never torn down as stale.
func (ctx *Context) markRendered(v *vdom.VNode) {
	if v.Kind == vdom.KindComponent {
		ctx.Rendered[v.ComponentID] = true
	}
	for _, c := range v.Children() {
		ctx.markRendered(c)
	}
}

// morphChildren walks live children and virtual children in parallel
// using two cursors. scope identifies the component whose reconciliation
// scope un-prefixed keys resolve in.
func (ctx *Context) morphChildren(liveParent *dom.Node, vParent *vdom.VNode, scope string) {
	children := vParent.Children()

	// Keys resolve in child order so collision suffixes are stable; the
	// wanted set lets the keyed walk drop live nodes whose keys no
	// longer appear at this level without disturbing the rest.
	resolved := make([]string, len(children))
	wanted := make(map[string]bool)
	for i, vc := range children {
		if vc.Kind != vdom.KindComponent && vc.Key != "" {
			resolved[i] = ctx.resolveKey(vc, scope)
			wanted[resolved[i]] = true
		}
	}

	cur := liveParent.FirstChild
	for i, vc := range children {
		switch {
		case vc.Kind == vdom.KindComponent:
			cur = ctx.morphComponent(liveParent, cur, vc)
		case resolved[i] != "":
			cur = ctx.morphKeyed(liveParent, cur, vc, resolved[i], wanted, scope)
		default:
			cur = ctx.morphUnkeyed(liveParent, cur, vc, scope)
		}
	}

	// Remaining live children are leftovers from the previous render.
	for cur != nil {
		next := cur.NextSibling
		ctx.detachNode(cur)
		cur = next
	}
}

// morphComponent reconciles a component placeholder at the cursor
// position and returns the new cursor.
func (ctx *Context) morphComponent(parent, cur *dom.Node, vc *vdom.VNode) *dom.Node {
	id := vc.ComponentID
	inst, known := ctx.Host.Instance(id)

	var root *dom.Node
	if known {
		root = inst.RootNode()
	}

	if root == nil {
		// First render: insert a detached fragment root at the cursor
		// and reconcile the component's subtree against it.
		root = ctx.Doc.CreateFragment(id)
		parent.InsertBefore(root, cur)
		ctx.Doc.SetComponentID(root, id)
		if known {
			inst.SetRootNode(root)
		}
		ctx.morphChildren(root, vc, id)
		return cur
	}

	if ctx.Preserved[id] || vc.Preserved() {
		// Position only; the subtree is explicitly preserved.
		if root == cur {
			return cur.NextSibling
		}
		ctx.reclaim(root)
		root.Detach()
		parent.InsertBefore(root, cur)
		return cur
	}

	if root == cur {
		ctx.morphChildren(root, vc, id)
		return cur.NextSibling
	}

	if ctx.Rendered[id] && !inst.Destroyed() {
		// Rendered this pass but positioned elsewhere: move into place.
		ctx.reclaim(root)
		root.Detach()
		parent.InsertBefore(root, cur)
		ctx.morphChildren(root, vc, id)
		return cur
	}

	// The existing instance is stale: destroyed between passes with its
	// old root still in the tree. Tear it down and build the
	// placeholder's subtree fresh.
	if !inst.Destroyed() {
		inst.Destroy()
	}
	if root.Parent != nil {
		root.Detach()
	}
	ctx.Doc.ForgetSubtree(root)

	fresh := ctx.Doc.CreateFragment(id)
	parent.InsertBefore(fresh, cur)
	ctx.Doc.SetComponentID(fresh, id)
	ctx.morphChildren(fresh, vc, id)
	return cur
}

// morphKeyed reconciles one keyed virtual child.
func (ctx *Context) morphKeyed(parent, cur *dom.Node, vc *vdom.VNode, resolvedKey string, wanted map[string]bool, scope string) *dom.Node {
	// Live nodes whose keys no longer appear at this level are dropped
	// before matching.
	for cur != nil {
		curKey, hasKey := ctx.Doc.KeyFor(cur)
		if !hasKey || wanted[curKey] {
			break
		}
		next := cur.NextSibling
		ctx.detachNode(cur)
		cur = next
	}

	owner := keyedOwner(vc, scope)

	if cur != nil {
		if curKey, ok := ctx.Doc.KeyFor(cur); ok && curKey == resolvedKey {
			if sameShape(cur, vc) {
				ctx.morphInPlace(cur, vc, scope)
				ctx.keyedStore(owner, resolvedKey, cur)
				return cur.NextSibling
			}
			// Same key, incompatible node: detach-and-replace.
			next := cur.NextSibling
			fresh := ctx.buildLive(vc, scope, resolvedKey)
			parent.InsertBefore(fresh, cur)
			ctx.detachNode(cur)
			return next
		}
	}

	if existing, ok := ctx.keyedLookup(owner, resolvedKey); ok && existing.Parent != nil {
		// Relocate; this covers both the swap-adjacent and the general
		// move case.
		ctx.reclaim(existing)
		existing.Detach()
		parent.InsertBefore(existing, cur)
		if sameShape(existing, vc) {
			ctx.morphInPlace(existing, vc, scope)
			ctx.keyedStore(owner, resolvedKey, existing)
		} else {
			fresh := ctx.buildLive(vc, scope, resolvedKey)
			parent.InsertBefore(fresh, existing)
			ctx.detachNode(existing)
		}
		return cur
	}

	fresh := ctx.buildLive(vc, scope, resolvedKey)
	parent.InsertBefore(fresh, cur)
	return cur
}

// morphUnkeyed scans forward through remaining live siblings for the
// first node whose type and tag match; skipped nodes are detached.
func (ctx *Context) morphUnkeyed(parent, cur *dom.Node, vc *vdom.VNode, scope string) *dom.Node {
	scan := cur
	for scan != nil && !ctx.unkeyedMatch(scan, vc) {
		scan = scan.NextSibling
	}

	if scan == nil {
		fresh := ctx.buildLive(vc, scope, "")
		parent.InsertBefore(fresh, cur)
		return cur
	}

	for cur != scan {
		next := cur.NextSibling
		ctx.detachNode(cur)
		cur = next
	}

	ctx.morphInPlace(scan, vc, scope)
	return scan.NextSibling
}

// unkeyedMatch reports whether a live node may serve an unkeyed virtual
// child: shape-compatible, not keyed and not a component root.
func (ctx *Context) unkeyedMatch(live *dom.Node, vc *vdom.VNode) bool {
	if !sameShape(live, vc) {
		return false
	}
	if _, keyed := ctx.Doc.KeyFor(live); keyed {
		return false
	}
	if _, owned := ctx.Doc.ComponentID(live); owned && live.Type == dom.FragmentNode {
		return false
	}
	return true
}

// sameShape reports whether a live node and a virtual node are the same
// kind of node (and, for elements, the same tag).
func sameShape(live *dom.Node, vc *vdom.VNode) bool {
	switch vc.Kind {
	case vdom.KindText:
		return live.Type == dom.TextNode
	case vdom.KindComment:
		return live.Type == dom.CommentNode
	case vdom.KindElement:
		return live.Type == dom.ElementNode && live.Tag == vc.Tag
	case vdom.KindFragment:
		return live.Type == dom.FragmentNode
	default:
		return false
	}
}

// morphInPlace updates a matched live node to reflect vc.
func (ctx *Context) morphInPlace(live *dom.Node, vc *vdom.VNode, scope string) {
	switch vc.Kind {
	case vdom.KindText, vdom.KindComment:
		if live.Data != vc.Text {
			live.Data = vc.Text
		}

	case vdom.KindFragment:
		ctx.morphChildren(live, vc, scope)

	case vdom.KindElement:
		prev, _ := ctx.Doc.Snapshot(live)

		// Author-asserted immutability: identical identity tokens skip
		// the whole subtree.
		if vc.ConstID != nil && prev != nil && prev.ConstID == vc.ConstID {
			ctx.Doc.SetSnapshot(live, vc)
			return
		}

		if prev == nil && ctx.Hydrate {
			prev = Virtualize(live)
		}

		ctx.morphAttrs(live, vc, prev)
		ctx.Doc.SetSnapshot(live, vc)
		if vc.OwnerID != "" {
			ctx.Doc.SetComponentID(live, vc.OwnerID)
		}

		ctx.morphChildren(live, vc, scope)

		if handler, ok := tagHandlers[live.Tag]; ok {
			handler(live, vc)
		}
	}
}

// buildLive constructs a brand-new live subtree for vc.
func (ctx *Context) buildLive(vc *vdom.VNode, scope, resolvedKey string) *dom.Node {
	var n *dom.Node

	switch vc.Kind {
	case vdom.KindText:
		n = ctx.Doc.CreateText(vc.Text)
	case vdom.KindComment:
		n = ctx.Doc.CreateComment(vc.Text)
	case vdom.KindFragment:
		id := resolvedKey
		if id == "" {
			id = vc.Key
		}
		n = ctx.Doc.CreateFragment(id)
	default:
		n = ctx.Doc.CreateElement(vc.Tag)
		applyAttrs(n, vc.Attrs)
		ctx.Doc.SetSnapshot(n, vc)
	}

	if vc.OwnerID != "" && vc.Kind != vdom.KindText && vc.Kind != vdom.KindComment {
		ctx.Doc.SetComponentID(n, vc.OwnerID)
	}
	if resolvedKey != "" {
		ctx.Doc.SetKey(n, resolvedKey)
		ctx.keyedStore(keyedOwner(vc, scope), resolvedKey, n)
	}

	if vc.Kind == vdom.KindElement || vc.Kind == vdom.KindFragment {
		ctx.morphChildren(n, vc, scope)
		if handler, ok := tagHandlers[n.Tag]; ok {
			handler(n, vc)
		}
	}

	return n
}

// detachNode disposes of a live node that has no match in the new tree.
// Text and comment nodes are removed immediately; element and fragment
// nodes are queued for the second pass so their associated components can
// be torn down before the node is removed.
func (ctx *Context) detachNode(n *dom.Node) {
	switch n.Type {
	case dom.TextNode, dom.CommentNode:
		n.Detach()
		ctx.Doc.ForgetNode(n)
	default:
		delete(ctx.reclaimed, n)
		ctx.detached = append(ctx.detached, n)
	}
}

// reclaim marks a previously-queued node as back in use. The forward scan
// queues every node it skips over, but a component root or keyed node
// skipped there may be moved into place later in the same pass; the second
// pass must leave such nodes alone.
func (ctx *Context) reclaim(n *dom.Node) {
	ctx.reclaimed[n] = true
}

// finish runs the detach second pass.
func (ctx *Context) finish() {
	detached := ctx.detached
	ctx.detached = nil

	for _, n := range detached {
		if ctx.reclaimed[n] {
			continue
		}
		if id, owned := ctx.Doc.ComponentID(n); owned && ctx.Preserved[id] {
			continue
		}

		ctx.destroyComponents(n)

		if ctx.OnRemove != nil && !ctx.OnRemove(n) {
			// The hook vetoed removal: the node stays put and ownership
			// passes to the hook's caller.
			continue
		}

		if n.Parent != nil {
			n.Detach()
		}
		ctx.Doc.ForgetSubtree(n)
	}
}

// destroyComponents tears down the component owning n and every component
// found in the subtree below it.
func (ctx *Context) destroyComponents(n *dom.Node) {
	if id, owned := ctx.Doc.ComponentID(n); owned && !ctx.Preserved[id] {
		if inst, ok := ctx.Host.Instance(id); ok && !inst.Destroyed() {
			inst.Destroy()
		}
	}
	for _, c := range n.ChildNodes() {
		ctx.destroyComponents(c)
	}
}
