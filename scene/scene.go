// Package scene turns one slide's acquired media, overlay, and duration into
// a renderable scene: a materialized background file plus the ffmpeg filter
// graph that fills the 1080x1920 frame for exactly the slide's duration.
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"reelsmith/config"
	"reelsmith/tempfiles"
	"reelsmith/types"
)

// Scene is a fully resolved slide background ready for segment rendering.
// MediaPath is empty when Kind is MediaNone, in which case the frame is the
// flat brand color.
type Scene struct {
	Kind        types.MediaKind
	MediaPath   string
	OverlayPath string
	Layout      string
	Duration    float64

	// NativeDuration and LoopRepeats only matter for gif/video backgrounds:
	// the source is replayed LoopRepeats extra times and, if still short,
	// frozen on its last frame to cover Duration.
	NativeDuration float64
	LoopRepeats    int
}

// Flat returns a brand-color scene with the given overlay. Used both for
// slides that never had media and as the fallback when a downloaded asset
// turns out to be unrenderable.
func Flat(overlayPath, layout string, duration float64) Scene {
	return Scene{
		Kind:        types.MediaNone,
		OverlayPath: overlayPath,
		Layout:      layout,
		Duration:    duration,
	}
}

// Builder materializes media assets under a run directory, registering every
// file it writes with the run's temp registry.
type Builder struct {
	Dir      string
	Layout   string
	Registry *tempfiles.Registry
}

func NewBuilder(dir, layout string, reg *tempfiles.Registry) *Builder {
	return &Builder{Dir: dir, Layout: layout, Registry: reg}
}

// Build produces a Scene for one slide. It never fails: an empty asset, a
// write error, or an unprobeable file all degrade to the flat brand-color
// scene with the overlay kept.
func (b *Builder) Build(asset types.MediaAsset, overlayPath string, duration float64) Scene {
	flat := Scene{
		Kind:        types.MediaNone,
		OverlayPath: overlayPath,
		Layout:      b.Layout,
		Duration:    duration,
	}
	if asset.Kind == types.MediaNone || len(asset.Bytes) == 0 {
		return flat
	}

	path, err := b.materialize(asset)
	if err != nil {
		log.Printf("[scene] materialize failed, using flat background: %v", err)
		return flat
	}

	s := Scene{
		Kind:        asset.Kind,
		MediaPath:   path,
		OverlayPath: overlayPath,
		Layout:      b.Layout,
		Duration:    duration,
	}
	if asset.Kind == types.MediaImage {
		return s
	}

	native, err := probeDuration(path)
	if err != nil || native <= 0 {
		log.Printf("[scene] probe failed for %s, using flat background: %v", filepath.Base(path), err)
		return flat
	}
	s.NativeDuration = native
	s.LoopRepeats = loopRepeats(native, duration)
	return s
}

// loopRepeats is how many extra times a clip of the given native length must
// replay to cover the scene duration, capped so a very short clip does not
// strobe. Whatever the cap leaves uncovered is frozen instead.
func loopRepeats(native, duration float64) int {
	if native <= 0 || native >= duration {
		return 0
	}
	repeats := int(math.Ceil(duration/native)) - 1
	if repeats > config.MaxLoopRepeats {
		repeats = config.MaxLoopRepeats
	}
	return repeats
}

func (b *Builder) materialize(asset types.MediaAsset) (string, error) {
	name := fmt.Sprintf("bg_%s%s", uuid.NewString()[:8], sniffExt(asset))
	path := filepath.Join(b.Dir, name)
	if err := os.WriteFile(path, asset.Bytes, 0644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return b.Registry.Track(path), nil
}

// sniffExt picks a file suffix from the asset's leading bytes. Providers
// labelled "gif" often hand back MP4 renditions, so the content wins over
// the declared kind.
func sniffExt(asset types.MediaAsset) string {
	data := asset.Bytes
	switch {
	case len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")):
		return ".mp4"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return ".gif"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return ".jpg"
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}):
		return ".png"
	case bytes.HasPrefix(data, []byte("RIFF")) && len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")):
		return ".webp"
	}
	switch asset.Kind {
	case types.MediaVideo:
		return ".mp4"
	case types.MediaImage:
		return ".jpg"
	default:
		return ".gif"
	}
}

func probeDuration(path string) (float64, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}
	var info struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return 0, fmt.Errorf("parse probe output: %w", err)
	}
	d, err := strconv.ParseFloat(info.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", info.Format.Duration, err)
	}
	return d, nil
}

// VideoStream assembles the scene's video filter graph: background fill,
// frame-rate normalization, loop padding, layout, and overlay composite.
// The result is ready to pair with an audio stream in the segment output.
func (s Scene) VideoStream() *ffmpeg.Stream {
	bg := s.backgroundStream()
	if s.Layout == config.LayoutMediaTop && s.Kind != types.MediaNone {
		bg = s.mediaTopComposite(bg)
	}
	if s.OverlayPath != "" {
		ov := ffmpeg.Input(s.OverlayPath).
			Filter("scale", ffmpeg.Args{filterSize(config.FrameWidth, config.FrameHeight)})
		bg = ffmpeg.Filter([]*ffmpeg.Stream{bg, ov}, "overlay", ffmpeg.Args{"0:0"},
			ffmpeg.KwArgs{"format": "auto"})
	}
	return bg.Filter("setsar", ffmpeg.Args{"1"})
}

func (s Scene) backgroundStream() *ffmpeg.Stream {
	w, h := config.FrameWidth, config.FrameHeight
	if s.Layout == config.LayoutMediaTop && s.Kind != types.MediaNone {
		h = mediaBandHeight()
	}

	switch s.Kind {
	case types.MediaNone:
		return flatColorInput(s.Duration)

	case types.MediaImage:
		in := ffmpeg.Input(s.MediaPath, ffmpeg.KwArgs{
			"loop":      1,
			"t":         formatSeconds(s.Duration),
			"framerate": config.FrameRate,
		})
		// The media band stays static: a single center-crop fill, no pan.
		if s.Layout == config.LayoutMediaTop {
			return in.
				Filter("scale", ffmpeg.Args{filterSize(w, h)},
					ffmpeg.KwArgs{"force_original_aspect_ratio": "increase"}).
				Filter("crop", ffmpeg.Args{filterSize(w, h)})
		}
		frames := int(math.Ceil(s.Duration * config.FrameRate))
		return in.
			Filter("scale", ffmpeg.Args{filterSize(w*2, h*2)},
				ffmpeg.KwArgs{"force_original_aspect_ratio": "increase"}).
			Filter("crop", ffmpeg.Args{filterSize(w*2, h*2)}).
			Filter("zoompan", ffmpeg.Args{}, ffmpeg.KwArgs{
				"z":   fmt.Sprintf("min(zoom+0.0005,%g)", config.KenBurnsZoom),
				"x":   "iw/2-(iw/zoom/2)",
				"y":   "ih/2-(ih/zoom/2)",
				"d":   frames,
				"s":   pixelSize(w, h),
				"fps": config.FrameRate,
			})

	default: // gif, video
		in := ffmpeg.KwArgs{}
		if s.LoopRepeats > 0 {
			in["stream_loop"] = s.LoopRepeats
		}
		stream := ffmpeg.Input(s.MediaPath, in).
			Filter("scale", ffmpeg.Args{filterSize(w, h)},
				ffmpeg.KwArgs{"force_original_aspect_ratio": "increase"}).
			Filter("crop", ffmpeg.Args{filterSize(w, h)}).
			Filter("fps", ffmpeg.Args{strconv.Itoa(config.FrameRate)})
		if pad := s.freezePadding(); pad > 0 {
			stream = stream.Filter("tpad", ffmpeg.Args{}, ffmpeg.KwArgs{
				"stop_mode":     "clone",
				"stop_duration": formatSeconds(pad),
			})
		}
		return stream
	}
}

// freezePadding is how long the last frame must be held once the loop cap
// is exhausted.
func (s Scene) freezePadding() float64 {
	if s.NativeDuration <= 0 {
		return 0
	}
	covered := s.NativeDuration * float64(s.LoopRepeats+1)
	if covered >= s.Duration {
		return 0
	}
	return s.Duration - covered
}

// mediaTopComposite places the media band over a brand-color canvas, leaving
// the lower portion of the frame as a solid caption area.
func (s Scene) mediaTopComposite(media *ffmpeg.Stream) *ffmpeg.Stream {
	canvas := flatColorInput(s.Duration)
	return ffmpeg.Filter([]*ffmpeg.Stream{canvas, media}, "overlay", ffmpeg.Args{"0:0"},
		ffmpeg.KwArgs{"shortest": 1})
}

func flatColorInput(duration float64) *ffmpeg.Stream {
	src := fmt.Sprintf("color=c=%s:s=%s:r=%d",
		config.BrandBlue, pixelSize(config.FrameWidth, config.FrameHeight), config.FrameRate)
	return ffmpeg.Input(src, ffmpeg.KwArgs{"f": "lavfi", "t": formatSeconds(duration)})
}

func mediaBandHeight() int {
	h := int(math.Round(float64(config.FrameHeight) * config.MediaTopRatio))
	if h%2 != 0 {
		h++
	}
	return h
}

// filterSize is the "w:h" form scale/crop expect; pixelSize is the "WxH"
// form lavfi sources and zoompan expect.
func filterSize(w, h int) string { return fmt.Sprintf("%d:%d", w, h) }
func pixelSize(w, h int) string  { return fmt.Sprintf("%dx%d", w, h) }

func formatSeconds(d float64) string { return strconv.FormatFloat(d, 'f', 3, 64) }
