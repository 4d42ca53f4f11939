package runtime

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/vellum-ui/vellum/internal/diff"
	"github.com/vellum-ui/vellum/internal/errors"
)

// Payload is the serialized hydration structure embedded alongside
// server-rendered markup: the runtime id the markup was produced under, a
// shared type-name table and one entry per server-rendered component.
type Payload struct {
	RuntimeID  string           `json:"r"`
	Types      []string         `json:"t"`
	Components []ComponentEntry `json:"w"`
}

// ComponentEntry describes one server-rendered component instance.
type ComponentEntry struct {
	ID    string                 `json:"id"`
	Type  int                    `json:"type"`
	Input map[string]interface{} `json:"input,omitempty"`
	Extra *ComponentExtra        `json:"extra,omitempty"`
}

// ComponentExtra carries the optional per-component hydration record.
type ComponentExtra struct {
	Flags        []string               `json:"f,omitempty"`
	State        map[string]interface{} `json:"s,omitempty"`
	CustomEvents []CustomEventBinding   `json:"e,omitempty"`
	DOMEvents    []DOMEventBinding      `json:"d,omitempty"`
}

// CustomEventBinding routes a declarative bubbling event to a method on a
// target component.
type CustomEventBinding struct {
	Event    string        `json:"event"`
	TargetID string        `json:"target"`
	Method   string        `json:"method"`
	Once     bool          `json:"once,omitempty"`
	Args     []interface{} `json:"args,omitempty"`
}

// DOMEventBinding declares a delegated DOM event the component listens
// for. The metadata itself is already encoded in the served markup; the
// binding installs the delegated entry and, when ArgsKey is set, the
// bound extra arguments it references.
type DOMEventBinding struct {
	Event   string        `json:"event"`
	ArgsKey string        `json:"argsKey,omitempty"`
	Args    []interface{} `json:"args,omitempty"`
}

// Hydrate attaches live components to server-rendered markup. The markup
// is parsed into the runtime's document (pass "" to hydrate markup
// already parsed), each payload entry is instantiated against the
// fragment root its boundary markers delimit, and a hydration-mode
// reconciliation pass adopts the served DOM instead of rebuilding it.
func (rt *Runtime) Hydrate(payload []byte, markup string) error {
	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return errors.NewHydrationError("malformed hydration payload", err)
	}
	if p.RuntimeID != rt.id {
		return errors.NewHydrationError("payload runtime id "+p.RuntimeID+" does not match "+rt.id, nil)
	}

	if markup != "" {
		if err := rt.doc.ParseBody(strings.NewReader(markup)); err != nil {
			return errors.NewHydrationError("malformed server markup", err)
		}
	}

	for _, entry := range p.Components {
		if err := rt.hydrateComponent(&p, &entry); err != nil {
			return err
		}
	}

	rt.logger.Debug(context.Background(), "hydration complete",
		"components", len(p.Components))
	return nil
}

func (rt *Runtime) hydrateComponent(p *Payload, entry *ComponentEntry) error {
	if entry.Type < 0 || entry.Type >= len(p.Types) {
		return errors.NewHydrationError("type index out of range for component "+entry.ID, nil)
	}
	typeName := p.Types[entry.Type]

	c, err := rt.components.Create(typeName, entry.ID, entry.Input)
	if err != nil {
		return errors.NewHydrationError("unregistered component type "+typeName, err)
	}

	root := diff.FindFragment(rt.doc.Root, entry.ID)
	if root == nil {
		return errors.NewHydrationError("no fragment markers for component "+entry.ID, nil)
	}
	rt.doc.SetComponentID(root, entry.ID)
	c.SetRootNode(root)

	if entry.Extra != nil {
		c.AdoptState(entry.Extra.State)
		for _, b := range entry.Extra.CustomEvents {
			c.BindCustomEvent(b.Event, b.TargetID, b.Method, b.Once, b.Args...)
		}
		for _, b := range entry.Extra.DOMEvents {
			rt.delegation.EnsureType(b.Event)
			if b.ArgsKey != "" {
				c.SetEventArgs(b.ArgsKey, b.Args)
			}
		}
	}

	// Adopt the served subtree: hydration mode virtualizes live nodes on
	// demand, so the pass corrects drift instead of rebuilding.
	if body := c.RenderBody(); body != nil {
		ctx := diff.NewContext(rt.doc, rt.components)
		ctx.Hydrate = true
		ctx.Rendered[c.ID()] = true
		diff.Reconcile(ctx, root, body)
		c.State().Commit()
	}

	rt.components.Mount(entry.ID)
	return nil
}
