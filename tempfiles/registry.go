// Package tempfiles owns every temporary path created during one pipeline
// run. Nothing deletes a tracked path except Cleanup, which runs exactly once
// after the final encode: video decoders read their inputs lazily, and an
// early delete silently degrades a looping background to a frozen frame.
package tempfiles

import (
	"log"
	"os"
	"sync"
)

// Registry collects temp paths for one run. Append-only while the run is in
// flight; drained once at the end.
type Registry struct {
	mu      sync.Mutex
	paths   []string
	cleaned bool
}

// NewRegistry creates an empty registry for a single run.
func NewRegistry() *Registry {
	return &Registry{}
}

// Track registers a path for end-of-run deletion and returns it unchanged.
func (r *Registry) Track(path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if path != "" {
		r.paths = append(r.paths, path)
	}
	return path
}

// Tracked returns a snapshot of the registered paths.
func (r *Registry) Tracked() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Cleanup deletes every tracked path, best-effort. Individual deletion
// errors are swallowed. Subsequent calls are no-ops.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cleaned {
		return
	}
	r.cleaned = true

	removed := 0
	for _, p := range r.paths {
		if err := os.Remove(p); err == nil {
			removed++
		}
	}
	log.Printf("[tempfiles] cleaned %d/%d tracked files", removed, len(r.paths))
	r.paths = nil
}
