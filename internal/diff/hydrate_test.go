package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/vdom"
)

func TestVirtualize_Shapes(t *testing.T) {
	text := &dom.Node{Type: dom.TextNode, Data: "hi"}
	v := Virtualize(text)
	assert.Equal(t, vdom.KindText, v.Kind)
	assert.Equal(t, "hi", v.Text)

	el := &dom.Node{Type: dom.ElementNode, Tag: "a", Attrs: map[string]string{"href": "/x"}}
	v = Virtualize(el)
	assert.Equal(t, vdom.KindElement, v.Kind)
	assert.Equal(t, "a", v.Tag)
	assert.Equal(t, "/x", v.Attrs["href"])

	frag := &dom.Node{Type: dom.FragmentNode, Data: "c3"}
	v = Virtualize(frag)
	assert.Equal(t, vdom.KindFragment, v.Kind)
}

func TestFindFragment(t *testing.T) {
	doc := dom.NewDocument("r0")
	outer := doc.CreateElement("div")
	frag := doc.CreateFragment("c7")
	frag.AppendChild(doc.CreateElement("span"))
	outer.AppendChild(frag)
	doc.Root.AppendChild(outer)

	found := FindFragment(doc.Root, "c7")
	require.NotNil(t, found)
	assert.Same(t, frag, found)

	assert.Nil(t, FindFragment(doc.Root, "c8"))
}

// Hydration diffs against the live node's actual attributes when no prior
// virtual snapshot exists, so server-rendered markup is corrected instead
// of blindly trusted.
func TestHydrate_DiffsAgainstLiveAttributes(t *testing.T) {
	h := newHarness()

	served := h.doc.CreateElement("div")
	served.SetAttr("class", "server")
	served.SetAttr("data-ssr", "1")
	h.parent.AppendChild(served)

	v := wrap(vdom.NewElement("div", vdom.AttrMap{"class": "client"}, 0))
	h.pass(v, func(ctx *Context) { ctx.Hydrate = true })

	assert.Same(t, served, h.parent.FirstChild, "existing node adopted")
	class, _ := served.Attr("class")
	assert.Equal(t, "client", class)
	_, ok := served.Attr("data-ssr")
	assert.False(t, ok, "attribute unknown to the new render removed")
}

func TestHydrate_WithoutFlagLeavesUnknownAttributes(t *testing.T) {
	h := newHarness()

	served := h.doc.CreateElement("div")
	served.SetAttr("data-ssr", "1")
	h.parent.AppendChild(served)

	v := wrap(vdom.NewElement("div", vdom.AttrMap{"class": "client"}, 0))
	h.pass(v, nil)

	// No snapshot and no hydrate mode: the previous attribute set is
	// unknown, so nothing is removed.
	_, ok := served.Attr("data-ssr")
	assert.True(t, ok)
	class, _ := served.Attr("class")
	assert.Equal(t, "client", class)
}
