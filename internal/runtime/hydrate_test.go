package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-ui/vellum/internal/component"
	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/errors"
)

// serverMarkup renders one greeting component on a throwaway runtime and
// returns its markup plus the instance id embedded in the markers.
func serverMarkup(t *testing.T, msg string) (string, string) {
	t.Helper()
	server := New("rt", nil)
	def := greetingDef()
	def.InitialState = map[string]interface{}{"msg": msg}
	server.RegisterComponent("greeting", def)

	res, err := server.Render("greeting", nil)
	require.NoError(t, err)
	return res.HTML(), res.Component().ID()
}

func TestHydrate_AdoptsServedMarkup(t *testing.T) {
	markup, id := serverMarkup(t, "from-server")

	rt := New("rt", nil)
	rt.RegisterComponent("greeting", greetingDef())

	payload := []byte(`{
		"r": "rt",
		"t": ["greeting"],
		"w": [{"id": "` + id + `", "type": 0,
		       "extra": {"s": {"msg": "from-server"}}}]
	}`)
	require.NoError(t, rt.Hydrate(payload, markup))

	c, ok := rt.Components().Component(id)
	require.True(t, ok)
	require.NotNil(t, c.RootNode())

	// The served DOM was adopted, not rebuilt, and already agrees with
	// the renderer's output.
	assert.Equal(t, markup, rt.Document().OuterHTML(c.RootNode()))
	assert.False(t, c.State().Dirty(), "adopted state schedules nothing")

	msg, _ := c.State().Get("msg")
	assert.Equal(t, "from-server", msg)
}

func TestHydrate_ComponentStaysLiveAfterUpdate(t *testing.T) {
	markup, id := serverMarkup(t, "v1")

	rt := New("rt", nil)
	rt.RegisterComponent("greeting", greetingDef())
	payload := []byte(`{"r":"rt","t":["greeting"],"w":[{"id":"` + id + `","type":0,"extra":{"s":{"msg":"v1"}}}]}`)
	require.NoError(t, rt.Hydrate(payload, markup))

	c, _ := rt.Components().Component(id)
	adopted := c.RootNode().FirstChild
	require.NotNil(t, adopted)

	require.NoError(t, c.SetState("msg", "v2"))
	rt.Update()

	assert.Same(t, adopted, c.RootNode().FirstChild, "adopted node morphed in place")
	assert.Equal(t, "v2", adopted.FirstChild.Data)
}

func TestHydrate_MountFires(t *testing.T) {
	markup, id := serverMarkup(t, "x")

	rt := New("rt", nil)
	def := greetingDef()
	def.InitialState = map[string]interface{}{"msg": "x"}
	mounts := 0
	def.Hooks.OnMount = func(c *component.Component) { mounts++ }
	rt.RegisterComponent("greeting", def)

	payload := []byte(`{"r":"rt","t":["greeting"],"w":[{"id":"` + id + `","type":0}]}`)
	require.NoError(t, rt.Hydrate(payload, markup))
	assert.Equal(t, 1, mounts)
}

func TestHydrate_BindingsInstalled(t *testing.T) {
	markup, id := serverMarkup(t, "x")

	rt := New("rt", nil)
	def := greetingDef()
	def.InitialState = map[string]interface{}{"msg": "x"}
	def.Handlers = map[string]component.HandlerFunc{
		"dismiss": func(c *component.Component, e *component.Event, n *dom.Node, args ...interface{}) {},
	}
	rt.RegisterComponent("greeting", def)

	payload := []byte(`{
		"r": "rt", "t": ["greeting"],
		"w": [{"id": "` + id + `", "type": 0, "extra": {
			"e": [{"event": "close", "target": "` + id + `", "method": "dismiss"}],
			"d": [{"event": "click", "argsKey": "k1", "args": [5]}]
		}}]
	}`)
	require.NoError(t, rt.Hydrate(payload, markup))

	assert.True(t, rt.Delegation().Installed("click"))
	c, _ := rt.Components().Component(id)
	assert.Equal(t, []interface{}{float64(5)}, c.EventArgs("k1"))
	require.NoError(t, c.EmitEvent("close"))
}

func TestHydrate_Errors(t *testing.T) {
	rt := New("rt", nil)
	rt.RegisterComponent("greeting", greetingDef())

	var ve *errors.VellumError

	err := rt.Hydrate([]byte("{"), "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, errors.ErrorTypeHydration, ve.Type)

	err = rt.Hydrate([]byte(`{"r":"other","t":[],"w":[]}`), "")
	require.ErrorAs(t, err, &ve)

	err = rt.Hydrate([]byte(`{"r":"rt","t":["greeting"],"w":[{"id":"c1","type":3}]}`), "")
	require.ErrorAs(t, err, &ve)

	// Valid entry, no markers in the document.
	err = rt.Hydrate([]byte(`{"r":"rt","t":["greeting"],"w":[{"id":"c9","type":0}]}`), "<p></p>")
	require.ErrorAs(t, err, &ve)
}
