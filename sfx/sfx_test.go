package sfx

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func readWAV(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	return data
}

func TestGenerateKinds(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		kind    string
		wantLen float64 // seconds
	}{
		{"whoosh", 0.35},
		{"pop", 0.15},
		{"ding", 0.5},
	}

	for _, c := range cases {
		t.Run(c.kind, func(t *testing.T) {
			path := filepath.Join(dir, c.kind+".wav")
			got, err := Generate(c.kind, path)
			if err != nil {
				t.Fatalf("Generate(%q) error: %v", c.kind, err)
			}
			if got != path {
				t.Fatalf("Generate returned %q; want %q", got, path)
			}

			data := readWAV(t, path)
			if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
				t.Fatalf("not a WAV file: %q %q", data[0:4], data[8:12])
			}
			dataLen := binary.LittleEndian.Uint32(data[40:44])
			wantSamples := int(SampleRate * c.wantLen)
			if int(dataLen) != wantSamples*2 {
				t.Errorf("data chunk = %d bytes; want %d", dataLen, wantSamples*2)
			}
			if len(data) != 44+int(dataLen) {
				t.Errorf("file size = %d; want %d", len(data), 44+dataLen)
			}
		})
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	if _, err := Generate("explosion", filepath.Join(t.TempDir(), "x.wav")); err == nil {
		t.Fatal("Generate with unknown kind succeeded; want error")
	}
}

func TestWhooshIsNotSilence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.wav")
	if _, err := Whoosh(0.2, path); err != nil {
		t.Fatal(err)
	}
	data := readWAV(t, path)

	nonZero := 0
	for i := 44; i+1 < len(data); i += 2 {
		if int16(binary.LittleEndian.Uint16(data[i:])) != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Fatal("whoosh produced pure silence")
	}
}
