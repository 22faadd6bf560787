package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessImageResizesAndEncodesWebP(t *testing.T) {
	out, err := ProcessImage(encodePNG(t, 400, 200), ImageOptions{MaxWidth: 100, MaxHeight: 100, Quality: 80})
	require.NoError(t, err)

	assert.Equal(t, 100, out.Width)
	assert.Equal(t, 50, out.Height)
	assert.Equal(t, ".webp", out.Extension)
	assert.Equal(t, "image/webp", mimetype.Detect(out.Data).String())
}

func TestProcessImageKeepsSmallImages(t *testing.T) {
	out, err := ProcessImage(encodePNG(t, 40, 30), ImageOptions{MaxWidth: 100, MaxHeight: 100})
	require.NoError(t, err)
	assert.Equal(t, 40, out.Width)
	assert.Equal(t, 30, out.Height)
}

func TestProcessImageRejectsNonImages(t *testing.T) {
	_, err := ProcessImage([]byte("%PDF-1.4 not an image"), ImageOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = ProcessImage(nil, ImageOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestSniffRewinds(t *testing.T) {
	r := bytes.NewReader(encodePNG(t, 2, 2))
	contentType, err := Sniff(r)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	pos, err := r.Seek(0, 1)
	require.NoError(t, err)
	assert.Zero(t, pos)
	assert.True(t, Matches("image/png", ImageMIMETypes...))
}
