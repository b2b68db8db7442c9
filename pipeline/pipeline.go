// Package pipeline orchestrates a full reel composition run: narration,
// overlays, media sourcing, per-slide segment rendering, and final assembly.
// Each run works in its own temp directory and cleans it up on the way out,
// keeping at most one slide's intermediates alive at a time.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"reelsmith/config"
	"reelsmith/media"
	"reelsmith/narration"
	"reelsmith/render"
	"reelsmith/scene"
	"reelsmith/sfx"
	"reelsmith/tempfiles"
	"reelsmith/timeline"
	"reelsmith/types"
)

// Sourcer resolves a slide's media hint to a downloaded asset. It degrades
// internally and never fails; a dry run returns a MediaNone asset.
type Sourcer interface {
	Acquire(ctx context.Context, query string, preferred types.MediaKind) types.MediaAsset
}

// OverlayRenderer produces the PNG overlay (display text, slide chrome) for
// one slide. A nil renderer means slides ship without overlays.
type OverlayRenderer interface {
	RenderOverlay(slide types.Slide, index, total int) ([]byte, error)
}

// Progress receives phase updates as a fraction of completion plus a short
// human-readable message.
type Progress func(frac float64, msg string)

// Pipeline composes reels. Zero-value collaborators get sensible defaults:
// a nil Source becomes a fresh provider chain per run (so URL dedup state
// lives exactly one run), a nil Synth becomes the edge-tts CLI.
type Pipeline struct {
	Opts     config.Options
	Keys     config.Keys
	Source   Sourcer
	Synth    narration.Synthesizer
	Overlays OverlayRenderer
	Progress Progress
}

func New(opts config.Options) *Pipeline {
	return &Pipeline{
		Opts:  opts,
		Keys:  config.LoadKeys(),
		Synth: narration.NewEdgeTTS(),
	}
}

func (p *Pipeline) report(frac float64, msg string) {
	log.Printf("[pipeline] %3.0f%% %s", frac*100, msg)
	if p.Progress != nil {
		p.Progress(frac, msg)
	}
}

// CreateReel runs the whole composition for one script. The only fatal
// precondition is an empty script; everything else degrades per stage.
// The final MP4 lands in Opts.OutputDir and survives run cleanup.
func (p *Pipeline) CreateReel(ctx context.Context, script types.Script) (types.RenderResult, error) {
	if len(script.Slides) == 0 {
		return types.RenderResult{}, fmt.Errorf("script has no slides")
	}

	runID := uuid.NewString()[:8]
	runDir, err := os.MkdirTemp("", "reelsmith_"+runID+"_")
	if err != nil {
		return types.RenderResult{}, fmt.Errorf("create run dir: %w", err)
	}
	reg := tempfiles.NewRegistry()
	defer func() {
		reg.Cleanup()
		os.RemoveAll(runDir)
	}()

	src := p.Source
	if src == nil {
		src = media.NewChain(p.Keys)
	}
	synth := p.Synth
	if synth == nil {
		synth = narration.NewEdgeTTS()
	}

	if err := os.MkdirAll(p.Opts.OutputDir, 0755); err != nil {
		return types.RenderResult{}, fmt.Errorf("create output dir: %w", err)
	}
	// Narration is part of the deliverable: it lives under the output dir,
	// outside the temp registry, so the returned paths outlive the run.
	narDir := filepath.Join(p.Opts.OutputDir, "narration", runID)
	if err := os.MkdirAll(narDir, 0755); err != nil {
		return types.RenderResult{}, fmt.Errorf("create narration dir: %w", err)
	}

	total := len(script.Slides)
	p.report(0.05, fmt.Sprintf("run %s: synthesizing narration for %d slides", runID, total))
	narrations := narration.GenerateAll(ctx, synth, script.Slides, narDir, p.Opts.Voice)

	durations := make([]float64, total)
	for i, n := range narrations {
		durations[i] = n.Duration + config.SlidePadding
	}

	overlays := p.renderOverlays(script.Slides, runDir, reg)

	var sfxPath string
	if p.Opts.TransitionSFX {
		path, err := sfx.Generate(sfx.KindWhoosh, filepath.Join(runDir, "whoosh.wav"))
		if err != nil {
			log.Printf("[pipeline] transition sound generation failed, continuing without: %v", err)
		} else {
			sfxPath = reg.Track(path)
		}
	}

	segments := make([]string, 0, total+2)
	if p.Opts.IncludeIntro && p.Opts.IntroPath != "" {
		out := filepath.Join(runDir, "intro_seg.mp4")
		if err := render.FixedSegment(p.Opts.IntroPath, out); err != nil {
			log.Printf("[pipeline] intro unavailable, skipping: %v", err)
		} else {
			segments = append(segments, reg.Track(out))
		}
	}

	builder := scene.NewBuilder(runDir, p.Opts.Layout, reg)
	for i, slide := range script.Slides {
		p.report(0.15+0.65*float64(i)/float64(total), fmt.Sprintf("rendering slide %d/%d", i+1, total))

		asset := types.MediaAsset{Kind: types.MediaNone}
		if slide.Type != types.SlideClosing {
			asset = src.Acquire(ctx, slide.MediaQuery, types.ParseMediaKind(slide.MediaType))
		}

		sc := builder.Build(asset, overlays[i], durations[i])
		segPath := filepath.Join(runDir, fmt.Sprintf("segment_%03d.mp4", i))
		if err := render.Segment(sc, narrations[i].Path, sfxPath, segPath); err != nil {
			// A slide is never dropped: one retry on the flat background
			// keeps the timeline aligned with the narration order.
			log.Printf("[pipeline] slide %d render failed, retrying on flat background: %v", i, err)
			flat := scene.Flat(overlays[i], p.Opts.Layout, durations[i])
			if err := render.Segment(flat, narrations[i].Path, sfxPath, segPath); err != nil {
				return types.RenderResult{}, fmt.Errorf("render slide %d: %w", i, err)
			}
		}
		segments = append(segments, reg.Track(segPath))
	}

	if p.Opts.IncludeBumper && p.Opts.BumperPath != "" {
		out := filepath.Join(runDir, "bumper_seg.mp4")
		if err := render.FixedSegment(p.Opts.BumperPath, out); err != nil {
			log.Printf("[pipeline] bumper unavailable, skipping: %v", err)
		} else {
			segments = append(segments, reg.Track(out))
		}
	}

	p.report(0.9, "assembling timeline")
	finalPath := filepath.Join(p.Opts.OutputDir, fmt.Sprintf("reel_%s.mp4", runID))
	if err := timeline.Assemble(segments, finalPath, reg); err != nil {
		return types.RenderResult{}, fmt.Errorf("assemble timeline: %w", err)
	}

	result := types.RenderResult{Path: finalPath}
	for _, n := range narrations {
		if n.Path != "" {
			result.NarrationPaths = append(result.NarrationPaths, n.Path)
		}
	}
	if d, err := render.Duration(finalPath); err == nil {
		result.Duration = d
	} else {
		for _, dur := range durations {
			result.Duration += dur
		}
	}
	if data, err := os.ReadFile(finalPath); err == nil {
		result.Bytes = data
	}

	p.report(1.0, fmt.Sprintf("done: %s (%.1fs)", finalPath, result.Duration))
	return result, nil
}

// renderOverlays writes each slide's overlay PNG under the run dir. The
// returned slice always has one entry per slide; a failed or absent overlay
// leaves an empty path and the slide renders without it.
func (p *Pipeline) renderOverlays(slides []types.Slide, runDir string, reg *tempfiles.Registry) []string {
	overlays := make([]string, len(slides))
	if p.Overlays == nil {
		return overlays
	}
	for i, slide := range slides {
		png, err := p.Overlays.RenderOverlay(slide, i, len(slides))
		if err != nil || len(png) == 0 {
			log.Printf("[pipeline] overlay for slide %d unavailable: %v", i, err)
			continue
		}
		path := filepath.Join(runDir, fmt.Sprintf("overlay_%03d.png", i))
		if err := os.WriteFile(path, png, 0644); err != nil {
			log.Printf("[pipeline] write overlay %d: %v", i, err)
			continue
		}
		overlays[i] = reg.Track(path)
	}
	return overlays
}
