// Package sfx synthesizes short transition sound effects locally, with no
// external assets: a frequency-swept noise whoosh for swipes, a pop for text
// reveals, and a ding for emphasis.
package sfx

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// SampleRate is fixed for all generated effects (mono, 16-bit PCM).
const SampleRate = 44100

// Whoosh writes a swipe-transition effect: white noise plus a 200→2000→200Hz
// sine sweep under a sin² envelope.
func Whoosh(duration float64, path string) (string, error) {
	n := int(SampleRate * duration)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / SampleRate
		noise := rand.NormFloat64() * 0.3
		freq := 200 + 1800*math.Sin(math.Pi*t/duration)
		sweep := math.Sin(2*math.Pi*freq*t) * 0.15
		env := math.Pow(math.Sin(math.Pi*t/duration), 2)
		samples[i] = (noise + sweep) * env * 0.4
	}
	return path, writeWAV(samples, path)
}

// Pop writes a text-reveal effect: a decaying 800→400Hz sine.
func Pop(duration float64, path string) (string, error) {
	n := int(SampleRate * duration)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / SampleRate
		freq := 800 - 400*t/duration
		env := math.Exp(-t * 20)
		samples[i] = math.Sin(2*math.Pi*freq*t) * env * 0.5
	}
	return path, writeWAV(samples, path)
}

// Ding writes an emphasis effect: 2kHz + 3kHz harmonics with exponential decay.
func Ding(duration float64, path string) (string, error) {
	n := int(SampleRate * duration)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / SampleRate
		bell := math.Sin(2*math.Pi*2000*t)*0.4 + math.Sin(2*math.Pi*3000*t)*0.2
		env := math.Exp(-t * 5)
		samples[i] = bell * env * 0.4
	}
	return path, writeWAV(samples, path)
}

// Effect names accepted by Generate.
const (
	KindWhoosh = "whoosh"
	KindPop    = "pop"
	KindDing   = "ding"
)

// Generate dispatches by effect name with each effect's default length.
func Generate(kind string, path string) (string, error) {
	switch kind {
	case KindWhoosh:
		return Whoosh(0.35, path)
	case KindPop:
		return Pop(0.15, path)
	case KindDing:
		return Ding(0.5, path)
	default:
		return "", fmt.Errorf("unknown sfx kind: %q", kind)
	}
}

// writeWAV clips samples to [-1, 1] and writes a mono 16-bit PCM WAV file.
func writeWAV(samples []float64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer f.Close()

	dataLen := uint32(len(samples) * 2)
	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataLen)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(header[24:28], SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], SampleRate*2) // byte rate
	binary.LittleEndian.PutUint16(header[32:34], 2)            // block align
	binary.LittleEndian.PutUint16(header[34:36], 16)           // bits per sample
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataLen)

	if _, err := f.Write(header[:]); err != nil {
		return err
	}

	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(s*32767)))
	}
	if _, err := f.Write(pcm); err != nil {
		return err
	}
	return nil
}
