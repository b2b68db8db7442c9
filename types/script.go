package types

import (
	"encoding/json"
	"fmt"
)

// SlideType tags a slide's role in the script. The composition pipeline
// treats all non-closing slides uniformly; closing slides skip media sourcing.
type SlideType string

const (
	SlideHook    SlideType = "hook"
	SlideContent SlideType = "content"
	SlideClosing SlideType = "closing"
)

// Slide is one narrated unit of the script. Slide order in the script is the
// temporal order of the final video; nothing downstream reorders.
type Slide struct {
	Type        SlideType `json:"type"`
	Narration   string    `json:"narration"`
	DisplayText string    `json:"display_text"`
	MediaType   string    `json:"media_type,omitempty"`
	MediaQuery  string    `json:"media_query,omitempty"`
}

// Script is the complete video blueprint, produced by the script-generation
// collaborator. Read-only to the pipeline.
type Script struct {
	Title       string   `json:"title"`
	Slides      []Slide  `json:"slides"`
	Hashtags    []string `json:"hashtags,omitempty"`
	Description string   `json:"description,omitempty"`
}

// ParseScript decodes and validates a script JSON document.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	if len(s.Slides) == 0 {
		return Script{}, fmt.Errorf("script has no slides")
	}
	for i, slide := range s.Slides {
		switch slide.Type {
		case SlideHook, SlideContent, SlideClosing:
		default:
			return Script{}, fmt.Errorf("slide %d: unknown type %q", i, slide.Type)
		}
	}
	return s, nil
}

// MediaKind is the tagged-union discriminator for sourced media.
type MediaKind string

const (
	MediaGIF   MediaKind = "gif"
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "image"
	MediaNone  MediaKind = "none"
)

// ParseMediaKind maps a slide's media_type hint to a MediaKind,
// defaulting to gif for unknown or missing hints.
func ParseMediaKind(s string) MediaKind {
	switch s {
	case "video":
		return MediaVideo
	case "image":
		return MediaImage
	case "gif", "":
		return MediaGIF
	default:
		return MediaGIF
	}
}

// MediaAsset is the result of sourcing one slide's background media.
// Created once per slide, consumed once by the scene builder, never mutated.
type MediaAsset struct {
	Kind   MediaKind `json:"kind"`
	Bytes  []byte    `json:"-"`
	Source string    `json:"source,omitempty"`
	URL    string    `json:"url,omitempty"`
}

// NarrationAsset is one slide's synthesized narration. Path is empty when
// synthesis was skipped or failed; Duration always carries a usable value.
type NarrationAsset struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
}

// RenderResult is the pipeline's output: the final MP4 on disk, its raw
// bytes, and the measured duration in seconds.
type RenderResult struct {
	Path           string   `json:"path"`
	Bytes          []byte   `json:"-"`
	Duration       float64  `json:"duration"`
	NarrationPaths []string `json:"narration_paths,omitempty"`
}
