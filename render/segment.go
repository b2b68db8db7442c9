// Package render encodes individual video segments: one per slide, plus
// normalized intro/bumper segments. Every segment shares the same codecs,
// frame size, frame rate, and audio parameters so the final assembly can
// stream-copy them together.
package render

import (
	"fmt"
	"log"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"reelsmith/config"
	"reelsmith/scene"
)

// outputArgs are the shared encoder settings for every segment.
func outputArgs(duration float64) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{
		"c:v":      config.VideoCodec,
		"preset":   config.VideoPreset,
		"c:a":      config.AudioCodec,
		"b:a":      config.AudioBitrate,
		"ar":       config.AudioSampleRate,
		"ac":       2,
		"r":        config.FrameRate,
		"pix_fmt":  "yuv420p",
		"threads":  config.EncoderThreads,
		"movflags": "+faststart",
	}
	if duration > 0 {
		args["t"] = fmt.Sprintf("%.3f", duration)
	}
	return args
}

// Segment renders one scene and its audio into outPath. narrationPath and
// sfxPath may each be empty; the segment always carries an audio track so
// stream-copy concatenation stays valid.
func Segment(sc scene.Scene, narrationPath, sfxPath, outPath string) error {
	video := sc.VideoStream()
	if sc.Duration >= config.MinFadeDuration {
		video = video.
			Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{
				"t": "in", "st": 0, "d": config.FadeDuration,
			}).
			Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{
				"t":  "out",
				"st": fmt.Sprintf("%.3f", sc.Duration-config.FadeDuration),
				"d":  config.FadeDuration,
			})
	}

	audio := audioStream(narrationPath, sfxPath, sc.Duration)

	err := ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outPath, outputArgs(sc.Duration)).
		OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("render segment %s: %w", filepath.Base(outPath), err)
	}
	log.Printf("[render] segment %s (%.2fs, %s background)", filepath.Base(outPath), sc.Duration, sc.Kind)
	return nil
}

// audioStream builds the segment's audio graph. Narration is padded with
// silence out to the slide duration; a transition sound, when present, is
// mixed on top.
func audioStream(narrationPath, sfxPath string, duration float64) *ffmpeg.Stream {
	switch {
	case narrationPath != "" && sfxPath != "":
		nar := ffmpeg.Input(narrationPath).
			Filter("apad", ffmpeg.Args{}, ffmpeg.KwArgs{"whole_dur": fmt.Sprintf("%.3f", duration)})
		sfx := ffmpeg.Input(sfxPath)
		return ffmpeg.Filter([]*ffmpeg.Stream{nar, sfx}, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
			"inputs":             2,
			"duration":           "first",
			"dropout_transition": 0,
		})

	case narrationPath != "":
		return ffmpeg.Input(narrationPath).
			Filter("apad", ffmpeg.Args{}, ffmpeg.KwArgs{"whole_dur": fmt.Sprintf("%.3f", duration)})

	case sfxPath != "":
		silence := silentAudio(duration)
		sound := ffmpeg.Input(sfxPath)
		return ffmpeg.Filter([]*ffmpeg.Stream{silence, sound}, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
			"inputs":             2,
			"duration":           "first",
			"dropout_transition": 0,
		})

	default:
		return silentAudio(duration)
	}
}

// silentAudio is a lavfi stereo silence source. Slides without narration
// still ship an AAC track matching the narrated ones.
func silentAudio(duration float64) *ffmpeg.Stream {
	src := fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", config.AudioSampleRate)
	return ffmpeg.Input(src, ffmpeg.KwArgs{"f": "lavfi", "t": fmt.Sprintf("%.3f", duration)})
}
