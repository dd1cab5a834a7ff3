// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging inspects raster images before they are stored. It reads
// only the image header, so probing large photos stays cheap.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	_ "golang.org/x/image/webp" // register WebP decoder
)

// Limits for accepted images.
const (
	MaxDimension = 12000 // pixels per side
	MaxPixels    = 80_000_000
)

// ErrTooLarge is returned for images exceeding MaxDimension or MaxPixels.
var ErrTooLarge = errors.New("imaging: image too large")

// Info describes a probed image.
type Info struct {
	Format string // "png", "jpeg", "gif" or "webp"
	Width  int
	Height int
}

// Probe decodes the image header in data and checks its dimensions.
func Probe(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("imaging: probe failed: %w", err)
	}
	info := Info{Format: format, Width: cfg.Width, Height: cfg.Height}

	if info.Width <= 0 || info.Height <= 0 {
		return info, fmt.Errorf("imaging: invalid dimensions %dx%d", info.Width, info.Height)
	}
	if info.Width > MaxDimension || info.Height > MaxDimension || info.Width*info.Height > MaxPixels {
		return info, fmt.Errorf("%w: %dx%d", ErrTooLarge, info.Width, info.Height)
	}
	return info, nil
}

// Probeable reports whether Probe understands contentType. Vector images
// have no pixel header and are not probed.
func Probeable(contentType string) bool {
	switch contentType {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	}
	return false
}
