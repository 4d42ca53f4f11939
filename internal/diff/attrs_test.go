package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-ui/vellum/internal/vdom"
)

// countingValue counts how many times it is serialized.
type countingValue struct {
	calls int
	value string
}

func (c *countingValue) String() string {
	c.calls++
	return c.value
}

func divWith(attrs vdom.AttrMap) *vdom.VNode {
	parent := vdom.NewElement("ul", nil, 1)
	parent.AppendChild(vdom.NewElement("div", attrs, 0))
	return parent
}

func TestAttrs_IdenticalMapSkipsSerialization(t *testing.T) {
	h := newHarness()
	counter := &countingValue{value: "v1"}
	attrs := vdom.AttrMap{"title": counter}

	h.pass(divWith(attrs), nil)
	assert.Equal(t, 1, counter.calls, "applied once on build")

	// Same map object: the diff is skipped without touching values.
	h.pass(divWith(attrs), nil)
	assert.Equal(t, 1, counter.calls)

	// Equal but distinct map: serialized again, applied as no-op.
	h.pass(divWith(vdom.AttrMap{"title": counter}), nil)
	assert.Equal(t, 2, counter.calls)

	div := h.parent.FirstChild
	got, ok := div.Attr("title")
	require.True(t, ok)
	assert.Equal(t, "v1", got)
}

func TestAttrs_SetChangeRemove(t *testing.T) {
	h := newHarness()
	h.pass(divWith(vdom.AttrMap{"title": "a", "data-x": "1"}), nil)

	h.pass(divWith(vdom.AttrMap{"title": "b"}), nil)

	div := h.parent.FirstChild
	title, _ := div.Attr("title")
	assert.Equal(t, "b", title)
	_, ok := div.Attr("data-x")
	assert.False(t, ok, "old-not-new attribute removed")
}

func TestAttrs_BoolValues(t *testing.T) {
	h := newHarness()
	h.pass(divWith(vdom.AttrMap{"hidden": true, "draggable": false, "title": nil}), nil)

	div := h.parent.FirstChild
	v, ok := div.Attr("hidden")
	require.True(t, ok)
	assert.Equal(t, "", v, "true renders the bare attribute")
	_, ok = div.Attr("draggable")
	assert.False(t, ok)
	_, ok = div.Attr("title")
	assert.False(t, ok)
}

func TestAttrs_TriadFastPath(t *testing.T) {
	h := newHarness()
	h.pass(divWith(vdom.AttrMap{"class": "one", "id": "x"}), nil)

	h.pass(divWith(vdom.AttrMap{"class": "two"}), nil)

	div := h.parent.FirstChild
	class, _ := div.Attr("class")
	assert.Equal(t, "two", class)
	_, ok := div.Attr("id")
	assert.False(t, ok)
}

func TestAttrs_PreserveAttrsSkipsRemoval(t *testing.T) {
	h := newHarness()
	h.pass(divWith(vdom.AttrMap{"class": "keep", "data-live": "yes"}), nil)

	parent := vdom.NewElement("ul", nil, 1)
	next := vdom.NewElement("div", vdom.AttrMap{"class": "keep2"}, 0).
		WithFlags(vdom.FlagPreserveAttrs)
	parent.AppendChild(next)
	h.pass(parent, nil)

	div := h.parent.FirstChild
	class, _ := div.Attr("class")
	assert.Equal(t, "keep2", class, "new values still applied")
	live, ok := div.Attr("data-live")
	require.True(t, ok, "existing attribute survives")
	assert.Equal(t, "yes", live)
}

func TestAttrs_NonStringValuesFormatted(t *testing.T) {
	h := newHarness()
	h.pass(divWith(vdom.AttrMap{"tabindex": 3}), nil)

	div := h.parent.FirstChild
	v, _ := div.Attr("tabindex")
	assert.Equal(t, "3", v)
}
