package diff

import (
	"fmt"

	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/vdom"
)

// attrString converts a virtual attribute value to its serialized form.
// The second return reports presence: nil and false mean the attribute is
// absent, true renders the bare attribute.
func attrString(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case bool:
		return "", v
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// applyAttrs writes every present attribute onto a freshly-created node.
func applyAttrs(n *dom.Node, attrs vdom.AttrMap) {
	for name, raw := range attrs {
		if value, present := attrString(raw); present {
			n.SetAttr(name, value)
		}
	}
}

// morphAttrs diffs the new virtual attribute map against the previous
// virtual snapshot's map (never against the live DOM's current
// attributes) and applies the difference to the live node. When both maps
// are the identical object reference the comparison is skipped entirely.
func (ctx *Context) morphAttrs(live *dom.Node, vc *vdom.VNode, prev *vdom.VNode) {
	var prevAttrs vdom.AttrMap
	if prev != nil {
		prevAttrs = prev.Attrs
	}

	if vdom.SameAttrs(prevAttrs, vc.Attrs) {
		return
	}

	if !vc.PreserveAttrs() && morphCommonAttrs(live, vc.Attrs, prevAttrs) {
		return
	}

	for name, raw := range vc.Attrs {
		value, present := attrString(raw)
		if !present {
			live.RemoveAttr(name)
			continue
		}
		if old, ok := live.Attr(name); !ok || old != value {
			live.SetAttr(name, value)
		}
	}

	// Old-not-new removal. Skipped for nodes whose existing attributes
	// are authoritative (keyed matches adopting pre-existing DOM).
	if vc.PreserveAttrs() {
		return
	}
	for name := range prevAttrs {
		if _, ok := vc.Attrs[name]; !ok {
			live.RemoveAttr(name)
		}
	}
}

var commonTriad = [3]string{"class", "id", "style"}

// morphCommonAttrs is the compact fast path for attribute maps containing
// only the common class/id/style triad. Returns false when any other
// attribute is involved, deferring to the general diff.
func morphCommonAttrs(live *dom.Node, next, prev vdom.AttrMap) bool {
	if len(next) > 3 || len(prev) > 3 {
		return false
	}
	for name := range next {
		if name != "class" && name != "id" && name != "style" {
			return false
		}
	}
	for name := range prev {
		if name != "class" && name != "id" && name != "style" {
			return false
		}
	}

	for _, name := range commonTriad {
		raw, ok := next[name]
		if !ok {
			if _, had := prev[name]; had {
				live.RemoveAttr(name)
			}
			continue
		}
		value, present := attrString(raw)
		if !present {
			live.RemoveAttr(name)
			continue
		}
		if old, ok := live.Attr(name); !ok || old != value {
			live.SetAttr(name, value)
		}
	}

	return true
}
