package resolver

import (
	"context"

	"github.com/vellum-ui/vellum/internal/errors"
	"github.com/vellum-ui/vellum/internal/modpath"
)

// Require resolves target against the requiring module path, instantiates
// the definition if needed and returns its exports. Repeated requires of
// the same resolved path return the identical exports value.
func (r *Registry) Require(target, from string) (interface{}, error) {
	if target == "" {
		return nil, errors.ErrEmptyTarget(from)
	}

	dir := modpath.Dir(from)

	// Per-directory second-level cache. Purely a lookup shortcut:
	// directories are never reused across different resolved packages.
	r.mu.RLock()
	if byTarget, ok := r.dirCache[dir]; ok {
		if exports, hit := byTarget[target]; hit {
			r.mu.RUnlock()
			return exports, nil
		}
	}
	r.mu.RUnlock()

	path, def, err := r.Resolve(target, from)
	if err != nil {
		return nil, err
	}

	exports, err := r.instantiate(path, def)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	byTarget, ok := r.dirCache[dir]
	if !ok {
		byTarget = make(map[string]interface{})
		r.dirCache[dir] = byTarget
	}
	byTarget[target] = exports
	r.mu.Unlock()

	return exports, nil
}

// instantiate returns the cached instance's exports for path, creating
// and executing the definition on a miss. The instance is inserted into
// the cache before the factory runs so that circular requires observe the
// in-progress exports object instead of recursing infinitely.
func (r *Registry) instantiate(path string, def *Definition) (interface{}, error) {
	// Globally-pinned modules are checked through a separate presence
	// test: a module intentionally exposed as a global is never
	// instantiated twice even if its instance cache entry went away.
	r.mu.RLock()
	if exports, pinned := r.globals[path]; pinned {
		r.mu.RUnlock()
		return exports, nil
	}
	if m, cached := r.instances[path]; cached {
		r.mu.RUnlock()
		return m.Exports, nil
	}
	r.mu.RUnlock()

	m := &Module{ID: path, Filename: path}

	// A definition that is not a factory is a literal exports value.
	if def.Factory == nil {
		m.Exports = def.Value
		m.Loaded = true

		r.mu.Lock()
		r.instances[path] = m
		r.pinGlobals(path, def, m)
		r.mu.Unlock()

		return m.Exports, nil
	}

	exports := make(map[string]interface{})
	m.Exports = exports

	r.mu.Lock()
	r.instances[path] = m
	r.mu.Unlock()

	mctx := &ModuleContext{
		Module:  m,
		Exports: exports,
		Require: func(target string) (interface{}, error) {
			return r.Require(target, path)
		},
		Resolve: func(target string) (string, error) {
			if target == "" {
				return "", errors.ErrEmptyTarget(path)
			}
			resolved, _, err := r.Resolve(target, path)
			if err != nil {
				return "", err
			}
			return resolved, nil
		},
	}

	if err := def.Factory(mctx); err != nil {
		r.mu.Lock()
		delete(r.instances, path)
		r.mu.Unlock()

		return nil, errors.NewInternalError(errors.ErrCodeInternalError,
			"module factory failed: "+path, err)
	}

	m.Loaded = true

	r.mu.Lock()
	r.pinGlobals(path, def, m)
	r.mu.Unlock()

	r.logger.Debug(context.Background(), "module instantiated", "path", path)

	return m.Exports, nil
}

// pinGlobals records the module's exports in the global cache, once.
// Callers hold the write lock.
func (r *Registry) pinGlobals(path string, def *Definition, m *Module) {
	if len(def.Globals) == 0 {
		return
	}
	if _, pinned := r.globals[path]; !pinned {
		r.globals[path] = m.Exports
	}
}

// GlobalNames returns the global names pinned for path, if the path is
// registered with globals.
func (r *Registry) GlobalNames(path string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if def, ok := r.definitions[path]; ok {
		return def.Globals
	}

	return nil
}
