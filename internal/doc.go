// Package internal contains the core implementation packages for vellum.
//
// The packages are organized by functional domain:
//
//   - modpath: module path normalization and versioned-path helpers
//   - resolver: module registry, require/instantiation, run queue
//   - vdom: virtual node trees with streaming construction
//   - dom: server-side document and node model, parsing, serialization
//   - diff: reconciliation of virtual trees against live nodes
//   - component: component definitions, instances, state and scheduling
//   - runtime: per-page runtime contexts, attachment and hydration
//   - server: preview HTTP server with websocket update push
//   - watcher: file system monitoring with debouncing
//   - config: configuration loading and validation
//   - errors: the structured error taxonomy shared by all packages
//   - logging: structured logging built on slog
//
// The runtime packages communicate through narrow interfaces: the diff
// package sees components only as Instance/Host, the component package
// drives re-renders through the scheduler, and the runtime package wires
// one resolver registry, document and component registry together per
// page.
package internal
