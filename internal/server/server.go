// Package server implements the vellum preview server: registered
// component types are rendered to HTML on demand, and a websocket
// endpoint pushes component update notifications to connected pages.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/vellum-ui/vellum/internal/config"
	"github.com/vellum-ui/vellum/internal/logging"
	"github.com/vellum-ui/vellum/internal/runtime"
)

// PreviewServer serves rendered components from one runtime.
type PreviewServer struct {
	config *config.Config
	logger logging.Logger
	hub    *Hub

	mu      sync.RWMutex
	runtime *runtime.Runtime

	httpServer *http.Server
}

// New creates a preview server around a runtime.
func New(cfg *config.Config, rt *runtime.Runtime, logger logging.Logger) *PreviewServer {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("server")

	s := &PreviewServer{
		config:  cfg,
		logger:  logger,
		runtime: rt,
		hub:     NewHub(cfg.Server.AllowedOrigins, logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/render/", s.handleRender)
	mux.HandleFunc("/ws", s.hub.HandleWS)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Hub returns the websocket broadcast hub, for wiring update sources.
func (s *PreviewServer) Hub() *Hub { return s.hub }

// SetRuntime swaps the runtime served to clients. The serve command uses
// it after re-hydrating on a watched file change.
func (s *PreviewServer) SetRuntime(rt *runtime.Runtime) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runtime = rt
}

func (s *PreviewServer) rt() *runtime.Runtime {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runtime
}

// Start serves until the context is cancelled, then shuts down
// gracefully.
func (s *PreviewServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "preview server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.CloseAll()
	return s.httpServer.Shutdown(shutdownCtx)
}

// handleIndex lists registered component types.
func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	names := s.rt().Components().TypeNames()
	sort.Strings(names)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<!doctype html><title>vellum preview</title><h1>Components</h1><ul>")
	for _, name := range names {
		fmt.Fprintf(w, `<li><a href="/render/%s">%s</a></li>`, name, name)
	}
	fmt.Fprint(w, "</ul>")
}

// handleRender renders one component type with input taken from query
// parameters.
func (s *PreviewServer) handleRender(w http.ResponseWriter, r *http.Request) {
	typeName := r.URL.Path[len("/render/"):]
	if typeName == "" {
		http.Error(w, "missing component type", http.StatusBadRequest)
		return
	}

	input := make(map[string]interface{})
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			input[key] = values[0]
		}
	}

	res, err := s.rt().Render(typeName, input)
	if err != nil {
		s.logger.Warn(r.Context(), err, "render failed", "type", typeName)
		http.Error(w, "unknown component type: "+typeName, http.StatusNotFound)
		return
	}
	defer res.Component().Destroy()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, res.HTML())
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	rt := s.rt()
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "ok",
		"runtime":    rt.ID(),
		"components": rt.Components().Len(),
	})
}
