package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Frame layouts. LayoutFull covers the whole frame with media; LayoutMediaTop
// keeps media in the upper band and leaves a solid caption area below.
const (
	LayoutFull     = "full"
	LayoutMediaTop = "media_top"
)

// Options holds per-run composition settings, loadable from a YAML file.
type Options struct {
	Voice         string `yaml:"voice"`
	Layout        string `yaml:"layout"` // "full" or "media_top"
	IncludeIntro  bool   `yaml:"include_intro"`
	IncludeBumper bool   `yaml:"include_bumper"`
	IntroPath     string `yaml:"intro_path"`
	BumperPath    string `yaml:"bumper_path"`
	TransitionSFX bool   `yaml:"transition_sfx"`
	OutputDir     string `yaml:"output_dir"`
}

// DefaultOptions returns the settings used when no config file is given.
func DefaultOptions() Options {
	return Options{
		Voice:         "ko-KR-HyunsuMultilingualNeural",
		Layout:        LayoutFull,
		IncludeIntro:  true,
		IncludeBumper: true,
		IntroPath:     "assets/INTRO.mp4",
		BumperPath:    "assets/BUMPER.mov",
		TransitionSFX: true,
		OutputDir:     "output",
	}
}

// Load reads an options YAML file, applying defaults for absent fields.
func Load(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// Keys holds provider credentials read from the environment.
// A missing key disables that provider; the sourcing chain degrades past it.
type Keys struct {
	Tenor    string
	Giphy    string
	Pexels   string
	Unsplash string
}

// LoadKeys reads provider API keys, loading .env first if present
// (local dev only; deployments set real environment variables).
func LoadKeys() Keys {
	_ = godotenv.Load()
	return Keys{
		Tenor:    os.Getenv("TENOR_API_KEY"),
		Giphy:    os.Getenv("GIPHY_API_KEY"),
		Pexels:   os.Getenv("PEXELS_API_KEY"),
		Unsplash: os.Getenv("UNSPLASH_ACCESS_KEY"),
	}
}
