package api

import (
	"sync"
	"time"

	"reelsmith/types"
)

// RunStatus is the lifecycle of one composition run.
type RunStatus string

const (
	RunQueued  RunStatus = "queued"
	RunRunning RunStatus = "running"
	RunDone    RunStatus = "done"
	RunFailed  RunStatus = "failed"
)

// Run is one tracked composition, safe to snapshot while the pipeline works.
type Run struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	Progress   float64    `json:"progress"`
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
	OutputPath string     `json:"output_path,omitempty"`
	Duration   float64    `json:"duration,omitempty"`
	Title      string     `json:"title,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Tracker holds run state with thread-safe access.
type Tracker struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

func NewTracker() *Tracker {
	return &Tracker{runs: make(map[string]*Run)}
}

// Create registers a queued run.
func (t *Tracker) Create(id, title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs[id] = &Run{
		ID:        id,
		Status:    RunQueued,
		Title:     title,
		StartedAt: time.Now(),
	}
}

// SetProgress records a progress update for a running run.
func (t *Tracker) SetProgress(id string, frac float64, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if run, ok := t.runs[id]; ok {
		run.Status = RunRunning
		run.Progress = frac
		run.Message = msg
	}
}

// Finish marks a run complete with its result.
func (t *Tracker) Finish(id string, result types.RenderResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if run, ok := t.runs[id]; ok {
		now := time.Now()
		run.Status = RunDone
		run.Progress = 1.0
		run.OutputPath = result.Path
		run.Duration = result.Duration
		run.FinishedAt = &now
	}
}

// Fail marks a run failed.
func (t *Tracker) Fail(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if run, ok := t.runs[id]; ok {
		now := time.Now()
		run.Status = RunFailed
		run.Error = err.Error()
		run.FinishedAt = &now
	}
}

// Get returns a snapshot of one run.
func (t *Tracker) Get(id string) (Run, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	run, ok := t.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

// List returns snapshots of every tracked run.
func (t *Tracker) List() []Run {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Run, 0, len(t.runs))
	for _, run := range t.runs {
		out = append(out, *run)
	}
	return out
}
