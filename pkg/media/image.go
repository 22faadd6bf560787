// Package media normalises uploaded images and sniffs upload content types.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedImage is returned for uploads that are not a supported raster image.
var ErrUnsupportedImage = errors.New("unsupported image format")

// ImageMIMETypes lists the accepted image attachment types.
var ImageMIMETypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ImageOptions bounds the stored image size and quality.
type ImageOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// ProcessedImage is an image re-encoded as WebP.
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

// ProcessImage decodes data, shrinks it to fit the configured box keeping
// the aspect ratio and re-encodes it as WebP.
func ProcessImage(data []byte, opts ImageOptions) (*ProcessedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedImage)
	}
	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), ImageMIMETypes...) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, detected.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	if opts.MaxWidth > 0 || opts.MaxHeight > 0 {
		img = fit(img, opts.MaxWidth, opts.MaxHeight)
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 82
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	bounds := img.Bounds()
	return &ProcessedImage{
		Data:        buf.Bytes(),
		ContentType: "image/webp",
		Extension:   ".webp",
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

func fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	if maxW <= 0 {
		maxW = b.Dx()
	}
	if maxH <= 0 {
		maxH = b.Dy()
	}
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}

// Sniff detects the content type of r from its leading bytes and rewinds r.
func Sniff(r io.ReadSeeker) (string, error) {
	detected, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return detected.String(), nil
}

// Matches reports whether contentType equals any of allowed, ignoring parameters.
func Matches(contentType string, allowed ...string) bool {
	return mimetype.EqualsAny(contentType, allowed...)
}
