package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"reelsmith/pipeline"
	"reelsmith/types"
)

type stubCreator struct {
	result   types.RenderResult
	err      error
	progress pipeline.Progress
}

func (s *stubCreator) CreateReel(_ context.Context, _ types.Script) (types.RenderResult, error) {
	if s.progress != nil {
		s.progress(0.5, "halfway")
	}
	return s.result, s.err
}

func testRouter(creator *stubCreator) (*gin.Engine, *Tracker) {
	gin.SetMode(gin.TestMode)
	runs := NewTracker()
	factory := func(progress pipeline.Progress) ReelCreator {
		creator.progress = progress
		return creator
	}
	return newRouterWith(factory, runs), runs
}

func postScript(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/reels", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func waitForRun(t *testing.T, runs *Tracker, id string) Run {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if run, ok := runs.Get(id); ok && (run.Status == RunDone || run.Status == RunFailed) {
			return run
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run %s never finished", id)
	return Run{}
}

const validScript = `{"title":"t","slides":[{"type":"hook","narration":"hi","display_text":"hi"}]}`

func TestCreateReelAccepted(t *testing.T) {
	creator := &stubCreator{result: types.RenderResult{Path: "/out/reel.mp4", Duration: 10.5}}
	r, runs := testRouter(creator)

	w := postScript(t, r, validScript)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status %d; want 202", w.Code)
	}

	var resp struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RunID == "" {
		t.Fatal("no run_id in response")
	}

	run := waitForRun(t, runs, resp.RunID)
	if run.Status != RunDone {
		t.Fatalf("run status %s; want done (%s)", run.Status, run.Error)
	}
	if run.OutputPath != "/out/reel.mp4" || run.Duration != 10.5 {
		t.Errorf("run result not recorded: %+v", run)
	}
	if run.Progress != 1.0 {
		t.Errorf("finished run progress %v; want 1.0", run.Progress)
	}
}

func TestCreateReelRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"no slides", `{"title":"t","slides":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := testRouter(&stubCreator{})
			if w := postScript(t, r, tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status %d; want 400", w.Code)
			}
		})
	}
}

func TestCreateReelFailureRecorded(t *testing.T) {
	creator := &stubCreator{err: fmt.Errorf("encoder exploded")}
	r, runs := testRouter(creator)

	w := postScript(t, r, validScript)
	var resp struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	run := waitForRun(t, runs, resp.RunID)
	if run.Status != RunFailed {
		t.Fatalf("run status %s; want failed", run.Status)
	}
	if !strings.Contains(run.Error, "encoder exploded") {
		t.Errorf("run error %q missing cause", run.Error)
	}
}

func TestGetUnknownRun(t *testing.T) {
	r, _ := testRouter(&stubCreator{})
	req := httptest.NewRequest(http.MethodGet, "/api/reels/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d; want 404", w.Code)
	}
}

func TestGetRunStatus(t *testing.T) {
	r, runs := testRouter(&stubCreator{})
	runs.Create("abc", "my reel")
	runs.SetProgress("abc", 0.4, "rendering slide 2/5")

	req := httptest.NewRequest(http.MethodGet, "/api/reels/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d; want 200", w.Code)
	}

	var run Run
	if err := json.Unmarshal(w.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}
	if run.Status != RunRunning || run.Progress != 0.4 || run.Title != "my reel" {
		t.Errorf("unexpected run snapshot %+v", run)
	}
}

func TestHealth(t *testing.T) {
	r, _ := testRouter(&stubCreator{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d; want 200", w.Code)
	}
}
