// Package media prepares and stores profile photos.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	// PhotoSize is the longest side of a stored profile photo.
	PhotoSize    = 512
	photoQuality = 80

	// MaxUploadBytes bounds the raw upload read into memory.
	MaxUploadBytes = 8 << 20
)

var ErrUnsupportedImage = errors.New("media: unsupported image")

// ProcessPhoto decodes a JPEG, PNG or WebP image, scales it down so the
// longest side is at most PhotoSize and re-encodes it as WebP.
func ProcessPhoto(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	dst := Fit(src, PhotoSize)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: photoQuality}); err != nil {
		return nil, fmt.Errorf("media: encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// Fit scales src so neither side exceeds limit, keeping the aspect ratio.
// Smaller images are returned as RGBA copies without upscaling.
func Fit(src image.Image, limit int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if w > limit || h > limit {
		if w >= h {
			h = h * limit / w
			w = limit
		} else {
			w = w * limit / h
			h = limit
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
