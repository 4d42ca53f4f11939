package dom

import (
	"github.com/vellum-ui/vellum/internal/vdom"
)

// Document owns a live tree and the side tables mapping nodes to their
// runtime state: the component an element belongs to, its resolved key
// and the previous-render virtual snapshot the diff engine compares new
// attribute maps against.
type Document struct {
	Root *Node

	runtimeID string

	components map[*Node]string
	keys       map[*Node]string
	snapshots  map[*Node]*vdom.VNode
}

// NewDocument creates an empty document whose fragment boundary markers
// are namespaced by runtimeID.
func NewDocument(runtimeID string) *Document {
	return &Document{
		Root:       &Node{Type: ElementNode, Tag: "body"},
		runtimeID:  runtimeID,
		components: make(map[*Node]string),
		keys:       make(map[*Node]string),
		snapshots:  make(map[*Node]*vdom.VNode),
	}
}

// RuntimeID returns the runtime identifier embedded in boundary markers.
func (d *Document) RuntimeID() string {
	return d.runtimeID
}

// CreateElement creates a detached element node.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: tag}
}

// CreateText creates a detached text node.
func (d *Document) CreateText(value string) *Node {
	return &Node{Type: TextNode, Data: value}
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(value string) *Node {
	return &Node{Type: CommentNode, Data: value}
}

// CreateFragment creates a detached fragment container identified by id.
func (d *Document) CreateFragment(id string) *Node {
	return &Node{Type: FragmentNode, Data: id}
}

// SetComponentID records the component owning a node.
func (d *Document) SetComponentID(n *Node, id string) {
	d.components[n] = id
}

// ComponentID returns the component owning a node, if any.
func (d *Document) ComponentID(n *Node) (string, bool) {
	id, ok := d.components[n]
	return id, ok
}

// SetKey records a node's resolved key.
func (d *Document) SetKey(n *Node, key string) {
	d.keys[n] = key
}

// KeyFor returns a node's resolved key, if any.
func (d *Document) KeyFor(n *Node) (string, bool) {
	key, ok := d.keys[n]
	return key, ok
}

// SetSnapshot records the virtual node a live node was last reconciled
// against.
func (d *Document) SetSnapshot(n *Node, v *vdom.VNode) {
	d.snapshots[n] = v
}

// Snapshot returns the virtual node a live node was last reconciled
// against, if any.
func (d *Document) Snapshot(n *Node) (*vdom.VNode, bool) {
	v, ok := d.snapshots[n]
	return v, ok
}

// ForgetNode drops all side-table state for a node. Called when a node is
// permanently detached; descendants must be forgotten by the caller.
func (d *Document) ForgetNode(n *Node) {
	delete(d.components, n)
	delete(d.keys, n)
	delete(d.snapshots, n)
}

// ForgetSubtree drops side-table state for a node and every descendant.
func (d *Document) ForgetSubtree(n *Node) {
	d.ForgetNode(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.ForgetSubtree(c)
	}
}
