package runtime

import (
	"strings"

	"github.com/vellum-ui/vellum/internal/component"
	"github.com/vellum-ui/vellum/internal/dom"
)

// RenderResult is the handle returned by Render. Placement methods attach
// the rendered subtree to the live document and fire mount lifecycles;
// accessors expose the produced component and markup.
type RenderResult struct {
	rt        *Runtime
	component *component.Component
	node      *dom.Node
}

// Component returns the root component of the render.
func (r *RenderResult) Component() *component.Component { return r.component }

// Node returns the live fragment root.
func (r *RenderResult) Node() *dom.Node { return r.node }

// HTML serializes the rendered subtree, fragment markers included.
func (r *RenderResult) HTML() string {
	return r.rt.doc.OuterHTML(r.node)
}

// String implements fmt.Stringer as an alias for HTML.
func (r *RenderResult) String() string { return r.HTML() }

// Components returns components in the rendered subtree matching a
// selector: "" matches all, "#id" matches by instance id, anything else
// matches by registered type name.
func (r *RenderResult) Components(selector string) []*component.Component {
	var out []*component.Component
	r.collect(r.node, selector, &out)
	return out
}

func (r *RenderResult) collect(n *dom.Node, selector string, out *[]*component.Component) {
	if id, ok := r.rt.doc.ComponentID(n); ok {
		if c, live := r.rt.components.Component(id); live && matchSelector(c, selector) {
			*out = append(*out, c)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		r.collect(child, selector, out)
	}
}

func matchSelector(c *component.Component, selector string) bool {
	switch {
	case selector == "":
		return true
	case strings.HasPrefix(selector, "#"):
		return c.ID() == selector[1:]
	default:
		return c.TypeName() == selector
	}
}

// AppendTo attaches the subtree as the target's last child.
func (r *RenderResult) AppendTo(target *dom.Node) *RenderResult {
	target.AppendChild(r.node)
	return r.mounted()
}

// PrependTo attaches the subtree as the target's first child.
func (r *RenderResult) PrependTo(target *dom.Node) *RenderResult {
	target.InsertBefore(r.node, target.FirstChild)
	return r.mounted()
}

// InsertBeforeNode attaches the subtree immediately before a reference
// node.
func (r *RenderResult) InsertBeforeNode(ref *dom.Node) *RenderResult {
	ref.Parent.InsertBefore(r.node, ref)
	return r.mounted()
}

// InsertAfterNode attaches the subtree immediately after a reference
// node.
func (r *RenderResult) InsertAfterNode(ref *dom.Node) *RenderResult {
	ref.Parent.InsertBefore(r.node, ref.NextSibling)
	return r.mounted()
}

// Replace swaps a reference node for the subtree, destroying any
// components owned by the replaced node.
func (r *RenderResult) Replace(ref *dom.Node) *RenderResult {
	ref.Parent.InsertBefore(r.node, ref)
	r.teardown(ref)
	ref.Detach()
	r.rt.doc.ForgetSubtree(ref)
	return r.mounted()
}

// ReplaceChildrenOf removes the target's existing children and attaches
// the subtree in their place.
func (r *RenderResult) ReplaceChildrenOf(target *dom.Node) *RenderResult {
	for _, child := range target.ChildNodes() {
		r.teardown(child)
		// Destroying a component root detaches it already.
		child.Detach()
		r.rt.doc.ForgetSubtree(child)
	}
	target.AppendChild(r.node)
	return r.mounted()
}

// teardown destroys components owned by nodes in a subtree being
// displaced.
func (r *RenderResult) teardown(n *dom.Node) {
	if id, ok := r.rt.doc.ComponentID(n); ok {
		if c, live := r.rt.components.Component(id); live && !c.Destroyed() {
			c.Destroy()
			return
		}
	}
	for _, child := range n.ChildNodes() {
		r.teardown(child)
	}
}

// mounted fires mount lifecycles for every component in the attached
// subtree, depth-first, root last.
func (r *RenderResult) mounted() *RenderResult {
	r.mountSubtree(r.node)
	return r
}

func (r *RenderResult) mountSubtree(n *dom.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		r.mountSubtree(child)
	}
	if id, ok := r.rt.doc.ComponentID(n); ok {
		r.rt.components.Mount(id)
	}
}
