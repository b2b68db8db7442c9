package narration

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"reelsmith/config"
	"reelsmith/types"
)

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration reads an audio file's duration in seconds. Any failure
// (missing path, unreadable file, malformed probe output) yields the default
// rather than an error: a broken narration must never abort a render.
func ProbeDuration(path string) float64 {
	if path == "" {
		return config.DefaultNarrationDuration
	}
	if _, err := os.Stat(path); err != nil {
		return config.DefaultNarrationDuration
	}

	out, err := ffmpeg.Probe(path)
	if err != nil {
		log.Printf("[narration] probe failed for %s: %v", filepath.Base(path), err)
		return config.DefaultNarrationDuration
	}

	var pf probeFormat
	if err := json.Unmarshal([]byte(out), &pf); err != nil {
		return config.DefaultNarrationDuration
	}
	dur, err := strconv.ParseFloat(pf.Format.Duration, 64)
	if err != nil || dur <= 0 {
		return config.DefaultNarrationDuration
	}
	return dur
}

// GenerateAll synthesizes narration for every slide into dir. The files are
// part of the deliverable and outlive the run; they are not temp-registered.
// Synthesis failures are logged and the slide falls back to no narration;
// the returned list always has one entry per slide, in slide order, with a
// usable duration.
func GenerateAll(ctx context.Context, synth Synthesizer, slides []types.Slide, dir, voiceID string) []types.NarrationAsset {
	if voiceID == "" {
		voiceID = DefaultVoice
	}

	assets := make([]types.NarrationAsset, 0, len(slides))
	for i, slide := range slides {
		if PreprocessText(slide.Narration) == "" {
			assets = append(assets, types.NarrationAsset{Duration: config.DefaultNarrationDuration})
			continue
		}

		out := filepath.Join(dir, fmt.Sprintf("narration_%d.mp3", i))
		if err := synth.Synthesize(ctx, slide.Narration, voiceID, out); err != nil {
			log.Printf("[narration] synthesis failed for slide %d: %v", i, err)
			assets = append(assets, types.NarrationAsset{Duration: config.DefaultNarrationDuration})
			continue
		}
		assets = append(assets, types.NarrationAsset{Path: out, Duration: ProbeDuration(out)})
		log.Printf("[narration] slide %d: %.2fs → %s", i, assets[i].Duration, filepath.Base(out))
	}
	return assets
}
