package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Layout != LayoutFull {
		t.Errorf("default layout = %q; want %q", opts.Layout, LayoutFull)
	}
	if opts.Voice == "" || opts.OutputDir == "" {
		t.Errorf("defaults incomplete: %+v", opts)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	data := []byte("layout: media_top\ninclude_intro: false\noutput_dir: /tmp/reels\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Layout != LayoutMediaTop {
		t.Errorf("layout = %q; want media_top", opts.Layout)
	}
	if opts.IncludeIntro {
		t.Error("include_intro not overridden")
	}
	if opts.OutputDir != "/tmp/reels" {
		t.Errorf("output_dir = %q", opts.OutputDir)
	}
	// Fields absent from the file keep their defaults.
	if opts.Voice != DefaultOptions().Voice {
		t.Errorf("voice = %q; want default", opts.Voice)
	}
	if !opts.IncludeBumper {
		t.Error("include_bumper lost its default")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file loaded without error")
	}
}
