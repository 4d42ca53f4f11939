// Package resolver implements the module definition registry and the
// resolution rules for versioned module paths: relative and absolute
// specifiers, bare specifiers resolved through search paths, installed
// dependency versions and builtin aliases, directory main files and path
// remaps. It also hosts the instance cache and the readiness-gated run
// queue used by bundle entry points.
package resolver

import (
	"sort"
	"strings"
	"sync"

	"github.com/vellum-ui/vellum/internal/errors"
	"github.com/vellum-ui/vellum/internal/logging"
	"github.com/vellum-ui/vellum/internal/modpath"
)

// Factory instantiates a module. The factory populates ctx.Exports (or
// replaces ctx.Module.Exports wholesale) and may require further modules
// through ctx.Require.
type Factory func(ctx *ModuleContext) error

// Definition is a registered module: either a factory or a literal
// exports value. Globals lists the global names the module's exports are
// pinned under; a non-empty list gives the module singleton semantics
// across the registry's lifetime.
type Definition struct {
	Factory Factory
	Value   interface{}
	Globals []string
}

// Module is one instantiated module. Identity is the resolved path.
type Module struct {
	ID       string
	Filename string
	Loaded   bool
	Exports  interface{}
}

// ModuleContext is handed to a factory while it executes.
type ModuleContext struct {
	// Require resolves and instantiates a target relative to this module.
	Require func(target string) (interface{}, error)
	// Resolve performs path resolution without instantiation. It fails
	// the same way Require does on an empty or unresolvable target.
	Resolve func(target string) (string, error)
	Module  *Module
	Exports map[string]interface{}
}

// queuedRun is one deferred entry point awaiting readiness.
type queuedRun struct {
	path string
	opts RunOptions
}

// Registry holds module definitions and all resolution metadata for one
// runtime. Registration methods are safe for concurrent use; Require and
// Run follow the runtime's single-goroutine cooperative execution model.
type Registry struct {
	mu     sync.RWMutex
	logger logging.Logger

	definitions map[string]*Definition
	mains       map[string]string
	remaps      map[string]string
	builtins    map[string]string
	installed   map[string]string
	searchPaths []string

	instances map[string]*Module
	globals   map[string]interface{}
	dirCache  map[string]map[string]interface{}

	runQueue []queuedRun
	ready    bool
	pending  int
}

// NewRegistry creates an empty registry.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Registry{
		logger:      logger.WithComponent("resolver"),
		definitions: make(map[string]*Definition),
		mains:       make(map[string]string),
		remaps:      make(map[string]string),
		builtins:    make(map[string]string),
		installed:   make(map[string]string),
		instances:   make(map[string]*Module),
		globals:     make(map[string]interface{}),
		dirCache:    make(map[string]map[string]interface{}),
	}
}

// Define registers a module definition for a path. A later registration
// for the same path silently replaces the earlier one.
func (r *Registry) Define(path string, def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.definitions[path] = def
}

// DefineFactory registers a factory-backed module definition.
func (r *Registry) DefineFactory(path string, factory Factory, globals ...string) {
	r.Define(path, &Definition{Factory: factory, Globals: globals})
}

// DefineValue registers a literal exports value. No factory is invoked.
func (r *Registry) DefineValue(path string, value interface{}) {
	r.Define(path, &Definition{Value: value})
}

// RegisterMain maps a directory path to its relative entry file. An empty
// relative path defaults to "index" at resolution time.
func (r *Registry) RegisterMain(dir, relativeMain string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mains[dir] = relativeMain
}

// Remap registers a one-level path indirection, applied once after
// main-file resolution.
func (r *Registry) Remap(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.remaps[from] = to
}

// Builtin registers a bare specifier alias to a fully resolved path. It
// is consulted as the final fallback of installed-dependency lookup.
func (r *Registry) Builtin(name, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.builtins[name] = target
}

// RegisterInstalled records that parentPath depends on name at version.
func (r *Registry) RegisterInstalled(parentPath, name, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.installed[parentPath+"/"+name] = version
}

// AddSearchPath registers a path prefix tried first for bare specifiers.
func (r *Registry) AddSearchPath(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.searchPaths = append(r.searchPaths, prefix)
}

// DefinedPaths returns every registered definition path, sorted. Used by
// the CLI listing surface.
func (r *Registry) DefinedPaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.definitions))
	for path := range r.definitions {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return paths
}

// Resolve resolves target against the requiring module path and returns
// the resolved path together with its definition.
//
// The two failure modes are distinct: a resolution-path failure returns
// an empty path (the specifier could not be mapped to any candidate
// path), while definition-not-found returns the computed path alongside
// the error (a path was computed but nothing is registered there).
func (r *Registry) Resolve(target, from string) (string, *Definition, error) {
	if target == "" {
		return "", nil, errors.ErrEmptyTarget(from)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.resolveLocked(target, from)
}

func (r *Registry) resolveLocked(target, from string) (string, *Definition, error) {
	switch {
	case modpath.IsRelative(target):
		resolved := modpath.Join(modpath.Dir(from), target)
		return r.lookupDefinition(resolved, target, from)

	case modpath.IsAbsolute(target):
		resolved := modpath.Normalize(target)
		return r.lookupDefinition(resolved, target, from)

	default:
		return r.resolveBare(target, from)
	}
}

// resolveBare resolves a bare specifier: registered search-path prefixes
// first, then installed-dependency lookup scoped to the requesting
// module's package, with builtins as the final fallback inside that
// lookup.
func (r *Registry) resolveBare(target, from string) (string, *Definition, error) {
	// Tolerance for malformed external input.
	target = strings.TrimSuffix(target, "/")
	if target == "" {
		return "", nil, errors.ErrEmptyTarget(from)
	}

	for _, prefix := range r.searchPaths {
		candidate := modpath.Join(prefix, "./"+target)
		if path, def, err := r.lookupDefinition(candidate, target, from); err == nil {
			return path, def, nil
		}
	}

	pkgID, _ := modpath.SplitPackage(from)
	name, subpath := splitBare(target)

	if version, ok := r.installed[pkgID+"/"+name]; ok {
		resolved := modpath.Versioned(name, version, subpath)
		return r.lookupDefinition(resolved, target, from)
	}

	if builtin, ok := r.builtins[target]; ok {
		return r.lookupDefinition(builtin, target, from)
	}

	return "", nil, errors.ErrModuleNotFound(target, from)
}

// splitBare splits a bare specifier into its package name and subpath.
// Scoped names consume two segments.
func splitBare(target string) (name, subpath string) {
	segments := strings.Split(target, "/")
	take := 1
	if strings.HasPrefix(segments[0], "@") && len(segments) > 1 {
		take = 2
	}

	name = strings.Join(segments[:take], "/")
	if len(segments) > take {
		subpath = "/" + strings.Join(segments[take:], "/")
	}

	return name, subpath
}

// lookupDefinition applies at most one directory-main substitution, then
// at most one remap, then looks up a definition, retrying once with the
// file extension stripped.
func (r *Registry) lookupDefinition(resolved, target, from string) (string, *Definition, error) {
	if main, ok := r.mains[resolved]; ok {
		if main == "" {
			main = "index"
		}
		resolved = modpath.Join(resolved, "./"+main)
	}

	if to, ok := r.remaps[resolved]; ok {
		resolved = to
	}

	if def, ok := r.definitions[resolved]; ok {
		return resolved, def, nil
	}

	if stripped := modpath.StripExt(resolved); stripped != resolved {
		if def, ok := r.definitions[stripped]; ok {
			return stripped, def, nil
		}
	}

	return resolved, nil, errors.ErrModuleNotFound(target, from).
		WithContext("resolvedPath", resolved)
}
