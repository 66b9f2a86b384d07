package image

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"emojioverlay/pkg/geometry"

	xdraw "golang.org/x/image/draw"
)

// Surface is the fixed-size pixel buffer the compositor draws into and
// exports from.
type Surface struct {
	img *image.RGBA
}

// NewSurface creates a transparent surface with the specified dimensions.
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Size returns the surface dimensions.
func (s *Surface) Size() geometry.Size {
	b := s.img.Bounds()
	return geometry.NewSize(b.Dx(), b.Dy())
}

// Image returns the underlying pixels. The caller must not retain it across
// draws.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Clear resets every pixel to transparent black.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// DrawFitted scales src to cover the whole surface and draws it at the origin.
func (s *Surface) DrawFitted(src image.Image) {
	if src == nil {
		return
	}
	xdraw.CatmullRom.Scale(s.img, s.img.Bounds(), src, src.Bounds(), xdraw.Over, nil)
}

// DrawScaled scales src into r and alpha-composites it over the surface.
// Parts of r outside the surface are clipped.
func (s *Surface) DrawScaled(src image.Image, r image.Rectangle) {
	if src == nil || r.Empty() {
		return
	}
	xdraw.CatmullRom.Scale(s.img, r, src, src.Bounds(), xdraw.Over, nil)
}

// EncodePNG encodes the surface. The output is a pure function of the pixels.
func (s *Surface) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FitSurface computes the drawing surface size. With a base image the width
// is min(viewportWidth, maxWidth) and the height follows the image's aspect
// ratio; without one the fallback size is used.
func FitSurface(viewportWidth, maxWidth int, base *BaseImage, fallback geometry.Size) geometry.Size {
	if base.Width() == 0 || base.Height() == 0 {
		return fallback
	}
	width := min(viewportWidth, maxWidth)
	return geometry.FitWidth(base.Width(), base.Height(), width)
}
