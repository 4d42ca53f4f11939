package runtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-ui/vellum/internal/component"
	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/vdom"
)

// greetingDef renders <div class="greeting">{state.msg}</div>.
func greetingDef() *component.Definition {
	return &component.Definition{
		Renderer: func(c *component.Component) *vdom.VNode {
			msg, _ := c.State().Get("msg")
			body := vdom.NewFragment("")
			div := vdom.NewElement("div", vdom.AttrMap{"class": "greeting"}, 1)
			div.AppendChild(vdom.NewText(msg.(string)))
			body.AppendChild(div)
			return body
		},
		InitialState: map[string]interface{}{"msg": "hello"},
	}
}

func TestRuntime_RenderProducesMarkedFragment(t *testing.T) {
	rt := New("rt", nil)
	rt.RegisterComponent("greeting", greetingDef())

	res, err := rt.Render("greeting", nil)
	require.NoError(t, err)

	html := res.HTML()
	assert.Contains(t, html, "<!--F^rt|"+res.Component().ID()+"-->")
	assert.Contains(t, html, "<!--F/rt-->")
	assert.Contains(t, html, `<div class="greeting">hello</div>`)
	assert.Equal(t, html, res.String())
}

func TestRuntime_UnknownTypeFails(t *testing.T) {
	rt := New("rt", nil)
	_, err := rt.Render("missing", nil)
	assert.Error(t, err)
}

func TestRenderResult_AppendToMounts(t *testing.T) {
	rt := New("rt", nil)
	def := greetingDef()
	mounts := 0
	def.Hooks.OnMount = func(c *component.Component) { mounts++ }
	rt.RegisterComponent("greeting", def)

	res, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, mounts, "not mounted while detached")

	res.AppendTo(rt.Document().Root)

	assert.Equal(t, 1, mounts)
	assert.Same(t, res.Node(), rt.Document().Root.FirstChild)
}

func TestRenderResult_PlacementOrder(t *testing.T) {
	rt := New("rt", nil)
	rt.RegisterComponent("greeting", greetingDef())
	body := rt.Document().Root

	anchor := rt.Document().CreateElement("hr")
	body.AppendChild(anchor)

	first, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	first.PrependTo(body)

	before, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	before.InsertBeforeNode(anchor)

	after, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	after.InsertAfterNode(anchor)

	children := body.ChildNodes()
	require.Len(t, children, 4)
	assert.Same(t, first.Node(), children[0])
	assert.Same(t, before.Node(), children[1])
	assert.Same(t, anchor, children[2])
	assert.Same(t, after.Node(), children[3])
}

func TestRenderResult_ReplaceDestroysDisplaced(t *testing.T) {
	rt := New("rt", nil)
	rt.RegisterComponent("greeting", greetingDef())
	body := rt.Document().Root

	old, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	old.AppendTo(body)

	next, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	next.Replace(old.Node())

	assert.True(t, old.Component().Destroyed())
	children := body.ChildNodes()
	require.Len(t, children, 1)
	assert.Same(t, next.Node(), children[0])
}

func TestRenderResult_ReplaceChildrenOf(t *testing.T) {
	rt := New("rt", nil)
	rt.RegisterComponent("greeting", greetingDef())
	body := rt.Document().Root

	body.AppendChild(rt.Document().CreateElement("p"))
	old, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	old.AppendTo(body)

	next, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	next.ReplaceChildrenOf(body)

	assert.True(t, old.Component().Destroyed())
	children := body.ChildNodes()
	require.Len(t, children, 1)
	assert.Same(t, next.Node(), children[0])
}

func TestRenderResult_ComponentsSelector(t *testing.T) {
	rt := New("rt", nil)
	rt.RegisterComponent("greeting", greetingDef())

	res, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	id := res.Component().ID()

	all := res.Components("")
	require.Len(t, all, 1)
	assert.Same(t, res.Component(), all[0])

	assert.Len(t, res.Components("greeting"), 1)
	assert.Len(t, res.Components("#"+id), 1)
	assert.Empty(t, res.Components("other"))
	assert.Empty(t, res.Components("#nope"))
}

func TestRuntime_StateUpdateMorphsAttachedDOM(t *testing.T) {
	rt := New("rt", nil)
	rt.RegisterComponent("greeting", greetingDef())

	res, err := rt.Render("greeting", nil)
	require.NoError(t, err)
	res.AppendTo(rt.Document().Root)

	div := res.Node().FirstChild
	require.NoError(t, res.Component().SetState("msg", "updated"))
	rt.Update()

	assert.Same(t, div, res.Node().FirstChild, "node morphed, not rebuilt")
	assert.Equal(t, "updated", div.FirstChild.Data)
	assert.True(t, strings.Contains(rt.Document().HTML(), "updated"))
}

func TestRuntime_KeyedReorderRelocatesNodes(t *testing.T) {
	rt := New("rt", nil)
	rt.RegisterComponent("list", &component.Definition{
		Renderer: func(c *component.Component) *vdom.VNode {
			order, _ := c.State().Get("order")
			keys := order.([]interface{})

			body := vdom.NewFragment("")
			ul := vdom.NewElement("ul", nil, len(keys))
			for _, k := range keys {
				li := vdom.NewElement("li", nil, 1).WithKey(k.(string))
				li.AppendChild(vdom.NewText(k.(string)))
				ul.AppendChild(li)
			}
			body.AppendChild(ul)
			return body
		},
		InitialState: map[string]interface{}{
			"order": []interface{}{"a", "b"},
		},
	})

	res, err := rt.Render("list", nil)
	require.NoError(t, err)
	res.AppendTo(rt.Document().Root)

	ul := res.Node().FirstChild
	require.Equal(t, "ul", ul.Tag)
	lis := ul.ChildNodes()
	require.Len(t, lis, 2)
	a, b := lis[0], lis[1]

	require.NoError(t, res.Component().SetState("order", []interface{}{"b", "a"}))
	rt.Update()

	got := ul.ChildNodes()
	require.Len(t, got, 2)
	assert.Same(t, b, got[0], "b relocated, not rebuilt")
	assert.Same(t, a, got[1])
	assert.Equal(t, "b", got[0].FirstChild.Data)
	assert.Equal(t, "a", got[1].FirstChild.Data)
}

func TestRuntime_RepositionedChildMovedNotDestroyed(t *testing.T) {
	rt := New("rt", nil)
	rt.RegisterComponent("badge", &component.Definition{})
	child, err := rt.Components().Create("badge", "", nil)
	require.NoError(t, err)

	rt.RegisterComponent("holder", &component.Definition{
		Renderer: func(c *component.Component) *vdom.VNode {
			childFirst, _ := c.State().Get("childFirst")

			comp := vdom.NewComponentNode(child.ID(), "")
			comp.AppendChild(vdom.NewElement("div", vdom.AttrMap{"class": "badge"}, 0).WithOwner(child.ID()))
			p := vdom.NewElement("p", nil, 0)

			body := vdom.NewFragment("")
			if childFirst.(bool) {
				body.AppendChild(comp)
				body.AppendChild(p)
			} else {
				body.AppendChild(p)
				body.AppendChild(comp)
			}
			return body
		},
		InitialState: map[string]interface{}{"childFirst": true},
	})

	res, err := rt.Render("holder", nil)
	require.NoError(t, err)
	res.AppendTo(rt.Document().Root)

	kids := res.Node().ChildNodes()
	require.Len(t, kids, 2)
	childRoot := kids[0]
	require.Equal(t, dom.FragmentNode, childRoot.Type)
	require.Same(t, childRoot, child.RootNode())

	require.NoError(t, res.Component().SetState("childFirst", false))
	rt.Update()

	got := res.Node().ChildNodes()
	require.Len(t, got, 2)
	assert.Equal(t, "p", got[0].Tag)
	assert.Same(t, childRoot, got[1], "child root moved, not rebuilt")
	assert.False(t, child.Destroyed())
}

func TestRuntime_IsolatedInstances(t *testing.T) {
	a := New("a", nil)
	b := New("b", nil)
	a.RegisterComponent("greeting", greetingDef())

	_, err := b.Render("greeting", nil)
	assert.Error(t, err, "registration does not leak across runtimes")
	assert.NotEqual(t, a.Document(), b.Document())
}
