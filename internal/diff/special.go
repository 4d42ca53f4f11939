package diff

import (
	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/vdom"
)

// tagHandlers fixes up DOM quirks for form elements after generic
// attribute diffing: serialized boolean attributes are normalized to
// presence form and value-like state is synchronized from the virtual
// attributes rather than left to drift.
var tagHandlers = map[string]func(live *dom.Node, vc *vdom.VNode){
	"select":   syncSelect,
	"input":    syncInput,
	"textarea": syncTextarea,
	"option":   syncOption,
	"button":   syncButton,
}

func syncBool(live *dom.Node, attrs vdom.AttrMap, name string) {
	raw, ok := attrs[name]
	if !ok {
		live.RemoveAttr(name)
		return
	}
	if _, present := attrString(raw); present {
		live.SetAttr(name, "")
	} else {
		live.RemoveAttr(name)
	}
}

func syncInput(live *dom.Node, vc *vdom.VNode) {
	if raw, ok := vc.Attrs["value"]; ok {
		if value, present := attrString(raw); present {
			live.SetAttr("value", value)
		} else {
			live.RemoveAttr("value")
		}
	}
	syncBool(live, vc.Attrs, "checked")
	syncBool(live, vc.Attrs, "disabled")
}

// syncTextarea mirrors the value attribute into the element's text
// content, which is where a textarea actually keeps its value.
func syncTextarea(live *dom.Node, vc *vdom.VNode) {
	raw, ok := vc.Attrs["value"]
	if !ok {
		syncBool(live, vc.Attrs, "disabled")
		return
	}
	value, _ := attrString(raw)

	for _, c := range live.ChildNodes() {
		live.RemoveChild(c)
	}
	live.AppendChild(&dom.Node{Type: dom.TextNode, Data: value})
	syncBool(live, vc.Attrs, "disabled")
}

func syncOption(live *dom.Node, vc *vdom.VNode) {
	syncBool(live, vc.Attrs, "selected")
	syncBool(live, vc.Attrs, "disabled")
}

func syncButton(live *dom.Node, vc *vdom.VNode) {
	syncBool(live, vc.Attrs, "disabled")
}

// syncSelect synchronizes the selected option with the select's value
// attribute. Without an explicit value, a single-select keeps only the
// last selected option, matching browser selectedIndex behavior.
func syncSelect(live *dom.Node, vc *vdom.VNode) {
	_, multiple := live.Attr("multiple")

	if raw, ok := vc.Attrs["value"]; ok {
		want, _ := attrString(raw)
		for _, opt := range optionChildren(live) {
			value, _ := opt.Attr("value")
			if value == want {
				opt.SetAttr("selected", "")
			} else {
				opt.RemoveAttr("selected")
			}
		}
		return
	}

	if multiple {
		return
	}

	options := optionChildren(live)
	last := -1
	for i, opt := range options {
		if _, ok := opt.Attr("selected"); ok {
			last = i
		}
	}
	if last < 0 {
		return
	}
	for i, opt := range options {
		if i != last {
			opt.RemoveAttr("selected")
		}
	}
}

func optionChildren(sel *dom.Node) []*dom.Node {
	var out []*dom.Node
	for c := sel.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == dom.ElementNode && c.Tag == "option" {
			out = append(out, c)
		}
		// optgroup nesting
		if c.Type == dom.ElementNode && c.Tag == "optgroup" {
			for g := c.FirstChild; g != nil; g = g.NextSibling {
				if g.Type == dom.ElementNode && g.Tag == "option" {
					out = append(out, g)
				}
			}
		}
	}
	return out
}
