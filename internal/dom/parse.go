package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vellum-ui/vellum/internal/errors"
)

// Fragment boundary markers are comments embedded in server-rendered
// markup. The runtime identifier namespaces them so that multiple
// runtimes can coexist on one page.
const (
	fragStartPrefix = "F^"
	fragEndPrefix   = "F/"
)

// FragmentMarkers returns the boundary comment payloads delimiting a
// fragment with the given id.
func (d *Document) FragmentMarkers(id string) (start, end string) {
	return fragStartPrefix + d.runtimeID + "|" + id, fragEndPrefix + d.runtimeID
}

// ParseBody parses server-rendered markup and replaces the document root's
// children with the result. Boundary comment markers carrying this
// document's runtime identifier are folded into fragment containers.
func (d *Document) ParseBody(r io.Reader) error {
	d.Root = &Node{Type: ElementNode, Tag: "body"}
	return d.ParseInto(d.Root, r)
}

// ParseInto parses markup and appends the resulting nodes to parent.
func (d *Document) ParseInto(parent *Node, r io.Reader) error {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	parsed, err := html.ParseFragment(r, ctx)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeInternalError, "parse markup", err)
	}

	startPrefix, endMarker := d.FragmentMarkers("")
	conv := &converter{doc: d, startPrefix: startPrefix, endMarker: endMarker}
	conv.convertList(parent, parsed)

	return nil
}

type converter struct {
	doc         *Document
	startPrefix string
	endMarker   string
}

// convertList converts a sibling list, folding fragment boundary comments
// into FragmentNode containers. Markers never span element boundaries, so
// each element starts a fresh folding scope for its own children.
func (c *converter) convertList(dst *Node, srcs []*html.Node) {
	stack := []*Node{dst}

	for _, src := range srcs {
		top := stack[len(stack)-1]

		switch src.Type {
		case html.CommentNode:
			if strings.HasPrefix(src.Data, c.startPrefix) {
				frag := c.doc.CreateFragment(strings.TrimPrefix(src.Data, c.startPrefix))
				top.AppendChild(frag)
				stack = append(stack, frag)
				continue
			}
			if src.Data == c.endMarker {
				if len(stack) > 1 {
					stack = stack[:len(stack)-1]
				}
				continue
			}
			top.AppendChild(&Node{Type: CommentNode, Data: src.Data})

		case html.TextNode:
			top.AppendChild(&Node{Type: TextNode, Data: src.Data})

		case html.ElementNode:
			el := &Node{Type: ElementNode, Tag: src.Data}
			for _, attr := range src.Attr {
				el.SetAttr(attr.Key, attr.Val)
			}
			top.AppendChild(el)
			c.convertList(el, childList(src))
		}
	}
}

func childList(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}
