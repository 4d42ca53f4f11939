// Package vdom defines the virtual node tree handed to the reconciliation
// engine. A virtual tree is built fresh each render pass and is a
// disposable comparison input: the diff engine never mutates it, all
// mutation lands on the live DOM counterpart.
package vdom

import "reflect"

// Kind tags the virtual node variants.
type Kind uint8

const (
	KindElement Kind = iota
	KindText
	KindComment
	KindFragment
	KindComponent
)

// String returns the string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindFragment:
		return "fragment"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// AttrMap holds element attributes. Values may be strings, bools (true
// renders the bare attribute, false removes it), nil (removes it) or any
// value with a string form. Passing the identical map reference across
// two renders lets the diff engine skip attribute comparison entirely.
type AttrMap map[string]interface{}

// Node flags.
const (
	// FlagPreserve marks a subtree that must not be re-reconciled this
	// pass; the existing live subtree is kept as-is.
	FlagPreserve uint32 = 1 << iota
	// FlagPreserveAttrs marks the existing live attributes as
	// authoritative; old-not-new attribute removal is skipped.
	FlagPreserveAttrs
)

// VNode is one virtual node. Only the fields relevant to its Kind are
// populated.
type VNode struct {
	Kind Kind

	// Element fields.
	Tag     string
	Attrs   AttrMap
	Flags   uint32
	ConstID interface{}

	// Key is the explicit identity used to match across renders
	// independent of position. "@"-prefixed keys scope to the owning
	// component; other keys scope to the nearest non-owning ancestor.
	Key string

	// OwnerID is the id of the component that rendered this node.
	OwnerID string

	// ComponentID is the live component instance wrapped by a
	// KindComponent placeholder.
	ComponentID string

	// Text carries the value of text and comment nodes.
	Text string

	expected int
	children []*VNode
}

// NewElement creates an element node expecting childCount children. Pass
// a negative childCount when the child list length is not known up front.
func NewElement(tag string, attrs AttrMap, childCount int) *VNode {
	return &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Attrs:    attrs,
		expected: childCount,
	}
}

// NewText creates a text node.
func NewText(value string) *VNode {
	return &VNode{Kind: KindText, Text: value, expected: 0}
}

// NewComment creates a comment node.
func NewComment(value string) *VNode {
	return &VNode{Kind: KindComment, Text: value, expected: 0}
}

// NewFragment creates a keyed logical grouping. In the live tree a
// fragment is delimited by sentinel boundary markers.
func NewFragment(key string) *VNode {
	return &VNode{Kind: KindFragment, Key: key, expected: -1}
}

// NewComponentNode creates a placeholder wrapping a live component
// instance.
func NewComponentNode(componentID, key string) *VNode {
	return &VNode{
		Kind:        KindComponent,
		ComponentID: componentID,
		Key:         key,
		expected:    -1,
	}
}

// WithKey sets the node's explicit key.
func (n *VNode) WithKey(key string) *VNode {
	n.Key = key
	return n
}

// WithOwner records the component that rendered this node.
func (n *VNode) WithOwner(componentID string) *VNode {
	n.OwnerID = componentID
	return n
}

// WithConstID attaches an opaque identity token asserting the subtree is
// immutable: when the previous virtual element carried the same token the
// diff engine skips the subtree entirely.
func (n *VNode) WithConstID(id interface{}) *VNode {
	n.ConstID = id
	return n
}

// WithFlags sets node flags.
func (n *VNode) WithFlags(flags uint32) *VNode {
	n.Flags = flags
	return n
}

// Preserved reports whether the subtree is marked preserved.
func (n *VNode) Preserved() bool {
	return n.Flags&FlagPreserve != 0
}

// PreserveAttrs reports whether existing live attributes are
// authoritative for this node.
func (n *VNode) PreserveAttrs() bool {
	return n.Flags&FlagPreserveAttrs != 0
}

// AppendChild appends a child and returns the parent for chaining.
func (n *VNode) AppendChild(child *VNode) *VNode {
	n.children = append(n.children, child)
	return n
}

// Children returns the node's child list.
func (n *VNode) Children() []*VNode {
	return n.children
}

// ChildCount returns the actual number of children appended so far.
func (n *VNode) ChildCount() int {
	return len(n.children)
}

// Complete reports whether the declared child list is complete. Nodes
// built with an unknown child count are always complete.
func (n *VNode) Complete() bool {
	return n.expected < 0 || len(n.children) >= n.expected
}

// SameAttrs reports whether two attribute maps are the identical object
// reference. This is the fast path for statically-constant attribute
// sets; equal-but-distinct maps report false.
func SameAttrs(a, b AttrMap) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
