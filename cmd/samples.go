package cmd

import (
	"fmt"

	"github.com/vellum-ui/vellum/internal/component"
	"github.com/vellum-ui/vellum/internal/config"
	"github.com/vellum-ui/vellum/internal/dom"
	"github.com/vellum-ui/vellum/internal/logging"
	"github.com/vellum-ui/vellum/internal/resolver"
	"github.com/vellum-ui/vellum/internal/runtime"
	"github.com/vellum-ui/vellum/internal/vdom"
)

// samplesPackage is the canonical versioned module path the sample
// components are published under in every CLI runtime.
const samplesPackage = "/samples$0.1.0"

// buildRuntime creates a runtime from configuration: module search paths
// and builtin aliases are applied, and the sample component types are
// registered so render, list and serve have content out of the box.
func buildRuntime(cfg *config.Config, logger logging.Logger) *runtime.Runtime {
	rt := runtime.New(cfg.Runtime.ID, logger)

	for _, prefix := range cfg.Runtime.SearchPaths {
		rt.Modules().AddSearchPath(prefix)
	}
	for name, target := range cfg.Runtime.Builtins {
		rt.Modules().Builtin(name, target)
	}

	registerSamples(rt)
	return rt
}

// registerSamples registers the built-in sample components, both as
// component types and as modules under the samples package so the
// resolution commands have real paths to work against.
func registerSamples(rt *runtime.Runtime) {
	defs := map[string]*component.Definition{
		"greeting":  greetingDefinition(),
		"counter":   counterDefinition(),
		"todo-list": todoListDefinition(),
	}
	for name, def := range defs {
		rt.RegisterComponent(name, def)
		rt.Modules().DefineValue(samplesPackage+"/"+name, def)
	}

	rt.Modules().DefineFactory(samplesPackage+"/index", func(ctx *resolver.ModuleContext) error {
		for name := range defs {
			exports, err := ctx.Require("./" + name)
			if err != nil {
				return err
			}
			ctx.Exports[name] = exports
		}
		return nil
	})
	rt.Modules().RegisterMain(samplesPackage, "index")
	rt.Modules().Builtin("samples", samplesPackage)
}

// greetingDefinition renders a salutation from its input.
func greetingDefinition() *component.Definition {
	return &component.Definition{
		Renderer: func(c *component.Component) *vdom.VNode {
			name, _ := c.Input()["name"].(string)
			if name == "" {
				name = "world"
			}
			body := vdom.NewFragment("")
			div := vdom.NewElement("div", vdom.AttrMap{"class": "greeting"}, 1)
			div.AppendChild(vdom.NewText(fmt.Sprintf("Hello, %s!", name)))
			body.AppendChild(div)
			return body
		},
	}
}

// counterDefinition keeps an integer count in state with increment and
// decrement methods dispatchable from events.
func counterDefinition() *component.Definition {
	adjust := func(c *component.Component, delta int) {
		count, _ := c.State().Get("count")
		n, _ := count.(int)
		c.SetState("count", n+delta)
	}

	return &component.Definition{
		Renderer: func(c *component.Component) *vdom.VNode {
			count, _ := c.State().Get("count")

			body := vdom.NewFragment("")
			div := vdom.NewElement("div", vdom.AttrMap{"class": "counter"}, 1)
			span := vdom.NewElement("span", vdom.AttrMap{"class": "count"}, 1)
			span.AppendChild(vdom.NewText(fmt.Sprintf("%v", count)))
			div.AppendChild(span)
			body.AppendChild(div)
			return body
		},
		InitialState: map[string]interface{}{"count": 0},
		Handlers: map[string]component.HandlerFunc{
			"increment": func(c *component.Component, _ *component.Event, _ *dom.Node, _ ...interface{}) {
				adjust(c, 1)
			},
			"decrement": func(c *component.Component, _ *component.Event, _ *dom.Node, _ ...interface{}) {
				adjust(c, -1)
			},
		},
	}
}

// todoListDefinition renders a keyed list of items from state, titled
// from its input.
func todoListDefinition() *component.Definition {
	return &component.Definition{
		Renderer: func(c *component.Component) *vdom.VNode {
			title, _ := c.Input()["title"].(string)
			if title == "" {
				title = "Todo"
			}
			items, _ := c.State().Get("items")
			list, _ := items.([]interface{})

			body := vdom.NewFragment("")
			h2 := vdom.NewElement("h2", nil, 1)
			h2.AppendChild(vdom.NewText(title))
			body.AppendChild(h2)

			ul := vdom.NewElement("ul", vdom.AttrMap{"class": "todo"}, len(list))
			for _, item := range list {
				text := fmt.Sprintf("%v", item)
				li := vdom.NewElement("li", nil, 1).WithKey(text)
				li.AppendChild(vdom.NewText(text))
				ul.AppendChild(li)
			}
			body.AppendChild(ul)
			return body
		},
		InitialState: map[string]interface{}{
			"items": []interface{}{"write spec", "ship it"},
		},
	}
}
