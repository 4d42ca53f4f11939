package diff

import (
	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/vdom"
)

// Virtualize infers a virtual node shape from a live node's real
// attributes. Hydration passes use it in place of the previous virtual
// snapshot when attaching behavior to markup produced by a prior server
// render.
func Virtualize(n *dom.Node) *vdom.VNode {
	switch n.Type {
	case dom.TextNode:
		return vdom.NewText(n.Data)
	case dom.CommentNode:
		return vdom.NewComment(n.Data)
	case dom.FragmentNode:
		return vdom.NewFragment(n.Data)
	default:
		attrs := make(vdom.AttrMap, len(n.Attrs))
		for name, value := range n.Attrs {
			attrs[name] = value
		}
		return vdom.NewElement(n.Tag, attrs, -1)
	}
}

// FindFragment locates the fragment container with the given id within a
// subtree. Hydration uses it to adopt server-rendered component roots
// identified by boundary comment markers.
func FindFragment(root *dom.Node, id string) *dom.Node {
	if root.Type == dom.FragmentNode && root.Data == id {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := FindFragment(c, id); found != nil {
			return found
		}
	}
	return nil
}
