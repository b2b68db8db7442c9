package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"reelsmith/config"
)

// clipInfo is what FixedSegment needs to know about a source clip before
// normalizing it.
type clipInfo struct {
	Duration float64
	Width    int
	Height   int
	HasAudio bool
}

func probeClip(path string) (clipInfo, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return clipInfo{}, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}
	var out struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return clipInfo{}, fmt.Errorf("parse probe output: %w", err)
	}

	info := clipInfo{}
	info.Duration, _ = strconv.ParseFloat(out.Format.Duration, 64)
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if info.Width == 0 {
				info.Width, info.Height = s.Width, s.Height
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if info.Width == 0 || info.Height == 0 {
		return clipInfo{}, fmt.Errorf("no video stream in %s", filepath.Base(path))
	}
	if info.Duration <= 0 {
		return clipInfo{}, fmt.Errorf("no duration for %s", filepath.Base(path))
	}
	return info, nil
}

// Duration reports a media file's container duration.
func Duration(path string) (float64, error) {
	info, err := probeClip(path)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

// fitFrame fills the 1080x1920 frame from a source clip. Landscape sources
// are scaled down and letterboxed on brand color; portrait sources with a
// mismatched ratio are center-cropped instead.
func fitFrame(in *ffmpeg.Stream, landscape bool) *ffmpeg.Stream {
	size := fmt.Sprintf("%d:%d", config.FrameWidth, config.FrameHeight)
	if landscape {
		return in.
			Filter("scale", ffmpeg.Args{size},
				ffmpeg.KwArgs{"force_original_aspect_ratio": "decrease"}).
			Filter("pad", ffmpeg.Args{}, ffmpeg.KwArgs{
				"w":     config.FrameWidth,
				"h":     config.FrameHeight,
				"x":     "(ow-iw)/2",
				"y":     "(oh-ih)/2",
				"color": config.BrandBlue,
			})
	}
	return in.
		Filter("scale", ffmpeg.Args{size},
			ffmpeg.KwArgs{"force_original_aspect_ratio": "increase"}).
		Filter("crop", ffmpeg.Args{size})
}

// FixedSegment re-encodes an intro or bumper clip into the segment format.
// Landscape clips are letterboxed rather than cropped, so nothing of a wide
// intro is lost; the clip's own audio is kept when present.
func FixedSegment(srcPath, outPath string) error {
	if _, err := os.Stat(srcPath); err != nil {
		return fmt.Errorf("fixed clip %s: %w", filepath.Base(srcPath), err)
	}
	info, err := probeClip(srcPath)
	if err != nil {
		return err
	}

	in := ffmpeg.Input(srcPath)
	video := fitFrame(in, info.Width > info.Height).
		Filter("fps", ffmpeg.Args{strconv.Itoa(config.FrameRate)}).
		Filter("setsar", ffmpeg.Args{"1"})

	var audio *ffmpeg.Stream
	if info.HasAudio {
		audio = in.Audio()
	} else {
		audio = silentAudio(info.Duration)
	}

	err = ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outPath, outputArgs(info.Duration)).
		OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("normalize %s: %w", filepath.Base(srcPath), err)
	}
	return nil
}
