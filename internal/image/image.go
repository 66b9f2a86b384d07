// Package image provides base image loading, overlay raster decoding, and the
// drawing surface the compositor renders into.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNoImage is returned when there are no bytes to decode.
	ErrNoImage = errors.New("no image data")

	// ErrUndecodable is returned when the bytes are not a supported image.
	ErrUndecodable = errors.New("undecodable image")
)

// MaxPixels bounds the decoded size of any image, checked against the
// header before pixels are allocated.
const MaxPixels = 64 << 20

// checkDimensions rejects empty or oversized images.
func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty bounds", ErrUndecodable)
	}
	if w > MaxPixels/h {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUndecodable, w, h, MaxPixels)
	}
	return nil
}

// BaseImage is a decoded raster the overlay is composited onto.
type BaseImage struct {
	Path   string      // Original file path, empty for in-memory data
	Format string      // Format name reported by the decoder ("png", "svg", ...)
	Image  image.Image // Decoded pixels
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (*BaseImage, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}

	if IsSVG(data) {
		img, err := RasterizeSVG(data, 0)
		if err != nil {
			return nil, err
		}
		return &BaseImage{Format: "svg", Image: img}, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w: empty bounds", ErrUndecodable)
	}
	return &BaseImage{Format: format, Image: img}, nil
}

// Load loads an image from the specified path.
func Load(path string) (*BaseImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	img.Path = path
	return img, nil
}

// Width returns the image width in pixels.
func (b *BaseImage) Width() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (b *BaseImage) Height() int {
	if b == nil || b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp", ".svg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// FileFilter returns a file filter string for use in file dialogs.
func FileFilter() string {
	return "Image Files (*" + strings.Join(SupportedFormats(), ", *") + ")"
}
