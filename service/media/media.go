// Package media prepares local image files for a staged upload.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	productEntity "shopify.GO/model/entity/product"
)

const DefaultQuality = 90

var ErrNotImage = errors.New("not an image")

// Options controls preparation. A zero MaxDimension keeps the original bytes.
type Options struct {
	MaxDimension int
	Quality      int
}

// File is an image ready to be staged.
type File struct {
	Name     string
	MimeType string
	Data     []byte
	Width    int
	Height   int
	// Resized is set when Data was re-encoded.
	Resized bool
}

// Load reads path and prepares it.
func Load(path string, opts Options) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return Prepare(filepath.Base(path), data, opts)
}

// Prepare validates that data is a decodable image and downscales it when it
// exceeds opts.MaxDimension on either side.
func Prepare(name string, data []byte, opts Options) (*File, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	mimeType := sniff(name, data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%s: %w (%s)", name, ErrNotImage, mimeType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", name, ErrNotImage, err)
	}

	f := &File{Name: name, MimeType: mimeType, Data: data, Width: cfg.Width, Height: cfg.Height}
	if opts.MaxDimension <= 0 || (cfg.Width <= opts.MaxDimension && cfg.Height <= opts.MaxDimension) {
		return f, nil
	}

	img, err := decode(mimeType, data)
	if err != nil {
		return nil, fmt.Errorf("%s: decode: %w", name, err)
	}
	img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%s: encode: %w", name, err)
	}
	bounds := img.Bounds()
	f.Name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	f.MimeType = "image/jpeg"
	f.Data = buf.Bytes()
	f.Width, f.Height = bounds.Dx(), bounds.Dy()
	f.Resized = true
	return f, nil
}

// StagedInput is the stagedUploadsCreate descriptor for f.
func (f *File) StagedInput() productEntity.StagedUploadInput {
	return productEntity.StagedUploadInput{
		Filename:   f.Name,
		MimeType:   f.MimeType,
		Resource:   "IMAGE",
		HTTPMethod: http.MethodPut,
		FileSize:   strconv.Itoa(len(f.Data)),
	}
}

func decode(mimeType string, data []byte) (image.Image, error) {
	if mimeType == "image/webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

// sniff prefers the content over the file extension.
func sniff(name string, data []byte) string {
	detected := http.DetectContentType(data)
	if strings.HasPrefix(detected, "image/") {
		return detected
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		if i := strings.IndexByte(byExt, ';'); i >= 0 {
			byExt = byExt[:i]
		}
		if strings.HasPrefix(byExt, "image/") {
			return byExt
		}
	}
	return detected
}
