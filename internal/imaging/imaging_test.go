package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func encode(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	for _, format := range []string{"png", "jpeg", "gif"} {
		t.Run(format, func(t *testing.T) {
			info, err := Probe(encode(t, format, 64, 48))
			if err != nil {
				t.Fatalf("Probe() error: %v", err)
			}
			if info.Format != format || info.Width != 64 || info.Height != 48 {
				t.Errorf("Probe() = %+v, want %s 64x48", info, format)
			}
		})
	}
}

func TestProbeRejectsGarbage(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":         nil,
		"text":          []byte("not an image"),
		"truncated png": []byte("\x89PNG\r\n\x1a\n\x00\x00"),
	} {
		if _, err := Probe(data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestProbeTooLarge(t *testing.T) {
	// A PNG header claiming 20000x10 pixels is enough; pixel data is never read.
	data := encode(t, "png", 1, 1)
	// IHDR width lives at bytes 16..19; its CRC covers bytes 12..28.
	binary.BigEndian.PutUint32(data[16:20], 20000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	_, err := Probe(data)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Probe() error = %v, want ErrTooLarge", err)
	}
}

func TestProbeable(t *testing.T) {
	tests := map[string]bool{
		"image/png":     true,
		"image/jpeg":    true,
		"image/gif":     true,
		"image/webp":    true,
		"image/svg+xml": false,
		"text/plain":    false,
	}
	for ct, want := range tests {
		if got := Probeable(ct); got != want {
			t.Errorf("Probeable(%q) = %v, want %v", ct, got, want)
		}
	}
}
