package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func TestPrepareKeepsSmallImage(t *testing.T) {
	data := pngBytes(t, 40, 30)
	f, err := Prepare("stone.png", data, Options{MaxDimension: 100})
	require.NoError(t, err)
	assert.Equal(t, "stone.png", f.Name)
	assert.Equal(t, "image/png", f.MimeType)
	assert.Equal(t, data, f.Data)
	assert.Equal(t, 40, f.Width)
	assert.Equal(t, 30, f.Height)
	assert.False(t, f.Resized)
}

func TestPrepareDownscalesToJPEG(t *testing.T) {
	f, err := Prepare("stone.png", pngBytes(t, 300, 150), Options{MaxDimension: 100, Quality: 80})
	require.NoError(t, err)
	assert.True(t, f.Resized)
	assert.Equal(t, "stone.jpg", f.Name)
	assert.Equal(t, "image/jpeg", f.MimeType)
	assert.Equal(t, 100, f.Width)
	assert.Equal(t, 50, f.Height)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(f.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
}

func TestPrepareWebP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, webp.Encode(&buf, testImage(200, 100), &webp.Options{Lossless: true}))

	f, err := Prepare("stone.webp", buf.Bytes(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "image/webp", f.MimeType)
	assert.Equal(t, 200, f.Width)

	f, err = Prepare("stone.webp", buf.Bytes(), Options{MaxDimension: 50})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", f.MimeType)
	assert.Equal(t, 50, f.Width)
	assert.Equal(t, 25, f.Height)
}

func TestPrepareRejectsNonImages(t *testing.T) {
	_, err := Prepare("notes.txt", []byte("hello"), Options{})
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = Prepare("broken.jpg", []byte{0xff, 0xd8, 0xff, 0x00}, Options{})
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = Prepare("empty.png", nil, Options{})
	assert.Error(t, err)
}

func TestLoadAndStagedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elbaite.png")
	data := pngBytes(t, 10, 10)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	f, err := Load(path, Options{})
	require.NoError(t, err)
	in := f.StagedInput()
	assert.Equal(t, "elbaite.png", in.Filename)
	assert.Equal(t, "image/png", in.MimeType)
	assert.Equal(t, "IMAGE", in.Resource)
	assert.Equal(t, "PUT", in.HTTPMethod)
	assert.Equal(t, strconv.Itoa(len(data)), in.FileSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"), Options{})
	assert.Error(t, err)
}
