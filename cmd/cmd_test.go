package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellum-ui/vellum/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{Runtime: config.RuntimeConfig{ID: "rt"}}
}

func TestBuildRuntime_RegistersSamples(t *testing.T) {
	rt := buildRuntime(testConfig(), nil)

	names := rt.Components().TypeNames()
	assert.Contains(t, names, "greeting")
	assert.Contains(t, names, "counter")
	assert.Contains(t, names, "todo-list")
}

func TestBuildRuntime_AppliesBuiltins(t *testing.T) {
	cfg := testConfig()
	cfg.Runtime.Builtins = map[string]string{"legacy": samplesPackage}

	rt := buildRuntime(cfg, nil)
	resolved, _, err := rt.Modules().Resolve("legacy", "/")
	require.NoError(t, err)
	assert.Equal(t, samplesPackage+"/index", resolved)
}

func TestSamples_GreetingRendersInput(t *testing.T) {
	rt := buildRuntime(testConfig(), nil)

	res, err := rt.Render("greeting", map[string]interface{}{"name": "Ada"})
	require.NoError(t, err)
	defer res.Component().Destroy()

	assert.Contains(t, res.HTML(), "Hello, Ada!")
}

func TestSamples_CounterIncrements(t *testing.T) {
	rt := buildRuntime(testConfig(), nil)

	res, err := rt.Render("counter", nil)
	require.NoError(t, err)
	defer res.Component().Destroy()
	assert.Contains(t, res.HTML(), `<span class="count">0</span>`)

	def, ok := rt.Components().Definition("counter")
	require.True(t, ok)
	def.Handlers["increment"](res.Component(), nil, nil)
	rt.Update()

	assert.Contains(t, res.HTML(), `<span class="count">1</span>`)
}

func TestSamples_IndexModuleExportsDefinitions(t *testing.T) {
	rt := buildRuntime(testConfig(), nil)

	resolved, _, err := rt.Modules().Resolve("samples", "/")
	require.NoError(t, err)
	assert.Equal(t, samplesPackage+"/index", resolved)

	exports, err := rt.Modules().Require("samples", "/")
	require.NoError(t, err)

	m, ok := exports.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, m, 3)
	assert.Contains(t, m, "counter")
}

func TestRenderInput(t *testing.T) {
	renderJSON = `{"title":"Groceries","count":2}`
	renderInputs = []string{"title=Chores", "owner=Ada"}
	defer func() {
		renderJSON = ""
		renderInputs = nil
	}()

	input, err := renderInput()
	require.NoError(t, err)
	assert.Equal(t, "Chores", input["title"])
	assert.Equal(t, "Ada", input["owner"])
	assert.Equal(t, float64(2), input["count"])
}

func TestRenderInput_RejectsBadPair(t *testing.T) {
	renderJSON = ""
	renderInputs = []string{"no-equals"}
	defer func() { renderInputs = nil }()

	_, err := renderInput()
	assert.Error(t, err)
}
