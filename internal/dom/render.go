package dom

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Void elements are serialized without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Raw-text elements whose contents are not entity-escaped.
var rawTextElements = map[string]bool{
	"script": true, "style": true,
}

// Render serializes the document root's children.
func (d *Document) Render(w io.Writer) error {
	for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
		if err := d.RenderNode(w, c); err != nil {
			return err
		}
	}
	return nil
}

// RenderNode serializes one node. Fragment containers are emitted as
// their children delimited by boundary comment markers.
func (d *Document) RenderNode(w io.Writer, n *Node) error {
	switch n.Type {
	case TextNode:
		if n.Parent != nil && rawTextElements[n.Parent.Tag] {
			_, err := io.WriteString(w, n.Data)
			return err
		}
		_, err := io.WriteString(w, html.EscapeString(n.Data))
		return err

	case CommentNode:
		_, err := io.WriteString(w, "<!--"+n.Data+"-->")
		return err

	case FragmentNode:
		start, end := d.FragmentMarkers(n.Data)
		if _, err := io.WriteString(w, "<!--"+start+"-->"); err != nil {
			return err
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := d.RenderNode(w, c); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "<!--"+end+"-->")
		return err

	case ElementNode:
		if _, err := io.WriteString(w, "<"+n.Tag); err != nil {
			return err
		}
		for _, name := range sortedAttrNames(n.Attrs) {
			value := n.Attrs[name]
			if value == "" {
				if _, err := io.WriteString(w, " "+name); err != nil {
					return err
				}
				continue
			}
			if _, err := io.WriteString(w, " "+name+`="`+html.EscapeString(value)+`"`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if voidElements[n.Tag] {
			return nil
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := d.RenderNode(w, c); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+n.Tag+">")
		return err
	}

	return nil
}

// HTML serializes the document root's children to a string.
func (d *Document) HTML() string {
	var sb strings.Builder
	_ = d.Render(&sb)
	return sb.String()
}

// OuterHTML serializes one node to a string.
func (d *Document) OuterHTML(n *Node) string {
	var sb strings.Builder
	_ = d.RenderNode(&sb, n)
	return sb.String()
}

func sortedAttrNames(attrs map[string]string) []string {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
