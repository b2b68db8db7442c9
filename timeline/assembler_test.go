package timeline

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"reelsmith/tempfiles"
)

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	seg1 := filepath.Join(dir, "seg_000.mp4")
	seg2 := filepath.Join(dir, "it's.mp4")

	manifest, err := writeManifest([]string{seg1, seg2}, dir)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("manifest has %d lines; want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "file '") || !strings.Contains(lines[0], "seg_000.mp4") {
		t.Errorf("bad manifest line %q", lines[0])
	}
	if !strings.Contains(lines[1], `'\''`) {
		t.Errorf("single quote not escaped in %q", lines[1])
	}
}

func TestAssembleNoSegments(t *testing.T) {
	reg := tempfiles.NewRegistry()
	if err := Assemble(nil, filepath.Join(t.TempDir(), "out.mp4"), reg); err == nil {
		t.Fatal("empty assembly succeeded; want error")
	}
}

func TestAssembleFallsBackToFirstSegment(t *testing.T) {
	dir := t.TempDir()
	reg := tempfiles.NewRegistry()

	// Garbage segments make the concat demuxer fail regardless of whether
	// ffmpeg is installed; the first file must be copied through verbatim.
	seg1 := filepath.Join(dir, "seg_000.mp4")
	seg2 := filepath.Join(dir, "seg_001.mp4")
	if err := os.WriteFile(seg1, []byte("first segment bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(seg2, []byte("second segment bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "final.mp4")
	if err := Assemble([]string{seg1, seg2}, out, reg); err != nil {
		t.Fatalf("assemble with fallback: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "first segment bytes" {
		t.Errorf("fallback output = %q; want the first segment", got)
	}

	var sawManifest bool
	for _, p := range reg.Tracked() {
		if filepath.Base(p) == "concat_list.txt" {
			sawManifest = true
		}
	}
	if !sawManifest {
		t.Error("concat manifest not registered for cleanup")
	}
}

func TestAssembleConcatenatesRealSegments(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	dir := t.TempDir()
	reg := tempfiles.NewRegistry()

	var segs []string
	for i := 0; i < 2; i++ {
		seg := filepath.Join(dir, "seg.mp4")
		if i == 1 {
			seg = filepath.Join(dir, "seg2.mp4")
		}
		cmd := exec.Command("ffmpeg", "-y",
			"-f", "lavfi", "-i", "color=c=black:s=320x240:r=30:d=0.5",
			"-f", "lavfi", "-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
			"-t", "0.5", "-c:v", "libx264", "-c:a", "aac", "-pix_fmt", "yuv420p", seg)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("build fixture: %v\n%s", err, out)
		}
		segs = append(segs, seg)
	}

	out := filepath.Join(dir, "final.mp4")
	if err := Assemble(segs, out, reg); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("final video not written: %v", err)
	}
}
