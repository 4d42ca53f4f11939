package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-ui/vellum/internal/vdom"
)

func TestAppendRemoveChild(t *testing.T) {
	d := NewDocument("r0")
	parent := d.CreateElement("ul")
	a := d.CreateElement("li")
	b := d.CreateElement("li")
	c := d.CreateElement("li")

	parent.AppendChild(a)
	parent.AppendChild(b)
	parent.AppendChild(c)

	assert.Equal(t, []*Node{a, b, c}, parent.ChildNodes())
	assert.Equal(t, parent, a.Parent)
	assert.Equal(t, b, a.NextSibling)
	assert.Equal(t, b, c.PrevSibling)

	parent.RemoveChild(b)
	assert.Equal(t, []*Node{a, c}, parent.ChildNodes())
	assert.Nil(t, b.Parent)
	assert.Equal(t, c, a.NextSibling)
	assert.Equal(t, a, c.PrevSibling)
}

func TestInsertBefore(t *testing.T) {
	d := NewDocument("r0")
	parent := d.CreateElement("div")
	a := d.CreateText("a")
	c := d.CreateText("c")
	parent.AppendChild(a)
	parent.AppendChild(c)

	b := d.CreateText("b")
	parent.InsertBefore(b, c)
	assert.Equal(t, []*Node{a, b, c}, parent.ChildNodes())

	// nil reference appends.
	end := d.CreateText("d")
	parent.InsertBefore(end, nil)
	assert.Equal(t, end, parent.LastChild)
}

func TestAppendChild_PanicsOnAttached(t *testing.T) {
	d := NewDocument("r0")
	p1 := d.CreateElement("div")
	p2 := d.CreateElement("div")
	child := d.CreateText("x")
	p1.AppendChild(child)

	assert.Panics(t, func() { p2.AppendChild(child) })
}

func TestContains(t *testing.T) {
	d := NewDocument("r0")
	outer := d.CreateElement("div")
	inner := d.CreateElement("span")
	outer.AppendChild(inner)

	assert.True(t, outer.Contains(inner))
	assert.True(t, outer.Contains(outer))
	assert.False(t, inner.Contains(outer))
}

func TestSideTables(t *testing.T) {
	d := NewDocument("r0")
	n := d.CreateElement("div")

	d.SetComponentID(n, "c1")
	d.SetKey(n, "@row")
	snap := vdom.NewElement("div", nil, 0)
	d.SetSnapshot(n, snap)

	id, ok := d.ComponentID(n)
	assert.True(t, ok)
	assert.Equal(t, "c1", id)

	key, ok := d.KeyFor(n)
	assert.True(t, ok)
	assert.Equal(t, "@row", key)

	got, ok := d.Snapshot(n)
	assert.True(t, ok)
	assert.Equal(t, snap, got)

	d.ForgetNode(n)
	_, ok = d.ComponentID(n)
	assert.False(t, ok)
}

func TestForgetSubtree(t *testing.T) {
	d := NewDocument("r0")
	parent := d.CreateElement("div")
	child := d.CreateElement("span")
	parent.AppendChild(child)
	d.SetKey(parent, "a")
	d.SetKey(child, "b")

	d.ForgetSubtree(parent)

	_, ok := d.KeyFor(child)
	assert.False(t, ok)
}

func TestRender_EscapesAndVoids(t *testing.T) {
	d := NewDocument("r0")
	div := d.CreateElement("div")
	div.SetAttr("title", `say "hi" & <bye>`)
	div.AppendChild(d.CreateText("a < b"))
	div.AppendChild(d.CreateElement("br"))
	d.Root.AppendChild(div)

	got := d.HTML()
	assert.Contains(t, got, "a &lt; b")
	assert.Contains(t, got, "<br>")
	assert.NotContains(t, got, "</br>")
	assert.Contains(t, got, "&#34;hi&#34;")
}

func TestRender_BareAttribute(t *testing.T) {
	d := NewDocument("r0")
	input := d.CreateElement("input")
	input.SetAttr("disabled", "")
	d.Root.AppendChild(input)

	assert.Equal(t, "<input disabled>", d.HTML())
}

func TestRender_FragmentMarkers(t *testing.T) {
	d := NewDocument("r7")
	frag := d.CreateFragment("c3")
	frag.AppendChild(d.CreateText("inside"))
	d.Root.AppendChild(frag)

	got := d.HTML()
	assert.Equal(t, "<!--F^r7|c3-->inside<!--F/r7-->", got)
}

func TestParseBody_RoundTrip(t *testing.T) {
	d := NewDocument("r0")
	markup := `<div class="card"><span>hello</span><!--note--></div>`

	require.NoError(t, d.ParseBody(strings.NewReader(markup)))

	assert.Equal(t, markup, d.HTML())
}

func TestParseBody_FoldsFragmentMarkers(t *testing.T) {
	d := NewDocument("r7")
	markup := `<div><!--F^r7|c3--><span>in frag</span><!--F/r7--></div>`

	require.NoError(t, d.ParseBody(strings.NewReader(markup)))

	div := d.Root.FirstChild
	require.NotNil(t, div)
	frag := div.FirstChild
	require.NotNil(t, frag)
	assert.Equal(t, FragmentNode, frag.Type)
	assert.Equal(t, "c3", frag.Data)
	assert.Equal(t, "span", frag.FirstChild.Tag)

	// Serialization restores the markers.
	assert.Equal(t, markup, d.HTML())
}

func TestParseBody_ForeignMarkersUntouched(t *testing.T) {
	d := NewDocument("r0")
	markup := `<!--F^r9|c1-->x<!--F/r9-->`

	require.NoError(t, d.ParseBody(strings.NewReader(markup)))

	// Another runtime's markers stay ordinary comments.
	first := d.Root.FirstChild
	assert.Equal(t, CommentNode, first.Type)
}

func TestParseBody_NestedFragments(t *testing.T) {
	d := NewDocument("r0")
	markup := `<!--F^r0|outer--><p>a</p><!--F^r0|inner--><p>b</p><!--F/r0--><!--F/r0-->`

	require.NoError(t, d.ParseBody(strings.NewReader(markup)))

	outer := d.Root.FirstChild
	require.Equal(t, FragmentNode, outer.Type)
	assert.Equal(t, "outer", outer.Data)

	inner := outer.FirstChild.NextSibling
	require.NotNil(t, inner)
	assert.Equal(t, FragmentNode, inner.Type)
	assert.Equal(t, "inner", inner.Data)

	assert.Equal(t, markup, d.HTML())
}

func TestRawTextElements(t *testing.T) {
	d := NewDocument("r0")
	script := d.CreateElement("script")
	script.AppendChild(d.CreateText(`if (a < b) {}`))
	d.Root.AppendChild(script)

	assert.Equal(t, `<script>if (a < b) {}</script>`, d.HTML())
}
