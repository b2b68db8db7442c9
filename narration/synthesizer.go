// Package narration wraps text-to-speech synthesis and exposes the audio
// durations that drive each slide's on-screen time.
package narration

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// Voices maps display names to edge-tts voice identifiers.
var Voices = map[string]string{
	"여성 (선히)": "ko-KR-SunHiNeural",
	"남성 (현수)": "ko-KR-HyunsuMultilingualNeural",
	"남성 (인준)": "ko-KR-InJoonNeural",
}

// DefaultVoice is used when a run specifies no voice.
const DefaultVoice = "ko-KR-HyunsuMultilingualNeural"

type voicePreset struct {
	Rate  string
	Pitch string
}

// Per-voice rate/pitch tuning for natural-sounding delivery.
var voicePresets = map[string]voicePreset{
	"ko-KR-SunHiNeural":              {Rate: "-8%", Pitch: "+5Hz"},
	"ko-KR-HyunsuMultilingualNeural": {Rate: "-5%", Pitch: "+0Hz"},
	"ko-KR-InJoonNeural":             {Rate: "-5%", Pitch: "+0Hz"},
}

// Synthesizer produces one narration audio file per call.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID, outPath string) error
}

var (
	emojiPattern      = regexp.MustCompile(`[\x{1F600}-\x{1F9FF}\x{2702}-\x{27B0}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{26FF}\x{FE00}-\x{FE0F}\x{1FA00}-\x{1FAFF}]+`)
	laughterPattern   = regexp.MustCompile(`[ㅋㅎㄷㅠㅜ]{2,}`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// PreprocessText strips glyphs that read aloud unnaturally: emoji, Korean
// laughter/keysmash runs, and redundant whitespace.
func PreprocessText(text string) string {
	text = emojiPattern.ReplaceAllString(text, "")
	text = laughterPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// EdgeTTS synthesizes narration via the edge-tts CLI.
type EdgeTTS struct {
	// Command overrides the binary name, mainly for tests.
	Command string
}

// NewEdgeTTS returns a synthesizer using the edge-tts binary on PATH.
func NewEdgeTTS() *EdgeTTS {
	return &EdgeTTS{Command: "edge-tts"}
}

// Synthesize writes narration audio for text to outPath, retrying transient
// failures up to three times.
func (e *EdgeTTS) Synthesize(ctx context.Context, text, voiceID, outPath string) error {
	text = PreprocessText(text)
	if text == "" {
		return fmt.Errorf("empty narration after preprocessing")
	}

	preset, ok := voicePresets[voiceID]
	if !ok {
		preset = voicePreset{Rate: "-5%", Pitch: "+0Hz"}
	}

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		cmd := exec.CommandContext(ctx, e.Command,
			"--voice", voiceID,
			"--rate", preset.Rate,
			"--pitch", preset.Pitch,
			"--text", text,
			"--write-media", outPath,
		)
		if err = cmd.Run(); err == nil {
			return nil
		}
		log.Printf("[narration] TTS attempt %d failed: %v", attempt, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return fmt.Errorf("edge-tts failed after 3 attempts: %w", err)
}
