package config

import "time"

// Frame Constants
const (
	// FrameWidth is the output video width (9:16 aspect ratio)
	FrameWidth = 1080

	// FrameHeight is the output video height (9:16 aspect ratio)
	FrameHeight = 1920

	// FrameRate is the output frame rate
	FrameRate = 30

	// MediaTopRatio is the share of frame height the media region occupies
	// in the media-on-top layout; the rest is a brand-color text band
	MediaTopRatio = 0.55
)

// Timing Constants
const (
	// SlidePadding is the on-screen time appended after each slide's narration
	SlidePadding = 0.5

	// DefaultNarrationDuration governs slides whose narration is missing or unreadable
	DefaultNarrationDuration = 3.0

	// FadeDuration is the per-segment fade in/out length in seconds
	FadeDuration = 0.3

	// MinFadeDuration is the shortest slide that still gets fades
	MinFadeDuration = 1.0

	// MaxLoopRepeats caps whole-clip repetition for GIF/video sources shorter
	// than their slide; remaining time is filled by freezing the last frame
	MaxLoopRepeats = 3

	// KenBurnsZoom is the pre-scale factor for the still-image zoom effect
	KenBurnsZoom = 1.15
)

// Encoding Constants
const (
	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// AudioSampleRate keeps every segment's audio track concat-compatible
	AudioSampleRate = 44100

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"

	// EncoderThreads bounds ffmpeg's thread usage per encode
	EncoderThreads = 4
)

// Network Constants
const (
	// SearchTimeout bounds one provider search request
	SearchTimeout = 10 * time.Second

	// DownloadTimeout bounds one media download
	DownloadTimeout = 30 * time.Second
)

// Brand Constants
const (
	// BrandBlue is the fallback/letterbox background color (#2B5BE0)
	BrandBlue = "0x2B5BE0"
)
