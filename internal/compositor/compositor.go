// Package compositor owns one editing session: the base image, the overlay
// placed on it, and the PNG export regenerated after every change.
package compositor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	ovimage "emojioverlay/internal/image"
	"emojioverlay/internal/overlay"
	"emojioverlay/pkg/colorutil"
	"emojioverlay/pkg/geometry"
)

const (
	// MinOverlaySize is the smallest overlay edge length in pixels.
	MinOverlaySize = 10

	// DefaultMaxSize bounds the overlay size before any image is loaded.
	DefaultMaxSize = 100

	// MaxSurfaceWidth caps the drawing surface width.
	MaxSurfaceWidth = 600

	// ExportFilename is the name offered for the downloaded artifact.
	ExportFilename = "emoji_image.png"
)

// DefaultSurface is the surface size used while no image is loaded.
var DefaultSurface = geometry.NewSize(600, 400)

// ErrSurfaceUnavailable is returned by Render before the surface is mounted.
var ErrSurfaceUnavailable = errors.New("drawing surface unavailable")

// GlyphDrawer draws text overlays.
type GlyphDrawer interface {
	DrawString(dst draw.Image, s string, x, y, size float64, c color.Color) error
}

// RasterFetcher retrieves remote overlay rasters.
type RasterFetcher interface {
	Fetch(ctx context.Context, id overlay.Identity) (image.Image, error)
}

// Overlay is the overlay's identity, surface-local position and edge length.
type Overlay struct {
	Identity overlay.Identity
	Position geometry.Point2D
	Size     int
}

// Artifact is the encoded snapshot of the surface offered for download.
type Artifact struct {
	PNG      []byte
	Image    *image.RGBA // decoded pixels of PNG, for display
	Width    int
	Height   int
	Filename string
}

// Empty reports whether nothing has been rendered yet.
func (a Artifact) Empty() bool {
	return len(a.PNG) == 0
}

// WriteTo writes the PNG bytes to w.
func (a Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.PNG)
	return int64(n), err
}

// Save writes the artifact into dir under its filename and returns the path.
func (a Artifact) Save(dir string) (string, error) {
	if a.Empty() {
		return "", fmt.Errorf("nothing rendered")
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.PNG, 0o644); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", a.Filename, err)
	}
	return path, nil
}

// DefaultOverlay returns the overlay a session starts with.
func DefaultOverlay() Overlay {
	return Overlay{
		Identity: overlay.DefaultOptions()[0].Value,
		Position: geometry.NewPoint2D(50, 50),
		Size:     50,
	}
}

// Options configures a Compositor. Zero values select the defaults above.
type Options struct {
	MaxSurfaceWidth int
	DefaultSurface  geometry.Size
	DefaultMaxSize  int
	ViewportWidth   int      // initial viewport; 0 means MaxSurfaceWidth
	Overlay         *Overlay // nil selects DefaultOverlay; its Position is always used as given
	GlyphColor      color.Color
	Filename        string
	Glyphs          GlyphDrawer
	Fetcher         RasterFetcher // nil disables remote overlays
	Logger          *slog.Logger
}

// Compositor holds the state of one session. All methods are safe for
// concurrent use; image decodes and overlay fetches complete on background
// goroutines and are applied only if no newer request superseded them.
type Compositor struct {
	opts Options
	log  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	base          *ovimage.BaseImage
	overlay       Overlay
	maxSize       int
	viewportWidth int
	surface       *ovimage.Surface
	raster        image.Image // fetched raster for a remote overlay identity
	imageGen      uint64
	rasterGen     uint64
	artifact      Artifact

	listenersMu sync.RWMutex
	listeners   map[EventType][]EventListener
}

// New creates a Compositor and renders the initial surface.
func New(opts Options) *Compositor {
	if opts.MaxSurfaceWidth <= 0 {
		opts.MaxSurfaceWidth = MaxSurfaceWidth
	}
	if opts.DefaultSurface.Empty() {
		opts.DefaultSurface = DefaultSurface
	}
	if opts.DefaultMaxSize <= 0 {
		opts.DefaultMaxSize = DefaultMaxSize
	}
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = opts.MaxSurfaceWidth
	}
	ov := DefaultOverlay()
	if opts.Overlay != nil {
		ov.Position = opts.Overlay.Position
		if opts.Overlay.Identity != "" {
			ov.Identity = opts.Overlay.Identity
		}
		if opts.Overlay.Size != 0 {
			ov.Size = opts.Overlay.Size
		}
	}
	opts.Overlay = &ov
	if opts.GlyphColor == nil {
		opts.GlyphColor = colorutil.Black
	}
	if opts.Filename == "" {
		opts.Filename = ExportFilename
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Compositor{
		opts:          opts,
		log:           opts.Logger,
		ctx:           ctx,
		cancel:        cancel,
		maxSize:       opts.DefaultMaxSize,
		viewportWidth: opts.ViewportWidth,
		listeners:     make(map[EventType][]EventListener),
	}
	c.overlay = Overlay{
		Position: opts.Overlay.Position,
		Size:     clampSize(opts.Overlay.Size, c.maxSize),
	}
	c.SetOverlayIdentity(opts.Overlay.Identity)
	return c
}

// Close cancels outstanding fetches and waits for background work to stop.
func (c *Compositor) Close() {
	c.cancel()
	c.wg.Wait()
}

// Wait blocks until all pending decodes and fetches have been applied or
// dropped.
func (c *Compositor) Wait() {
	c.wg.Wait()
}

// clampSize limits px to [MinOverlaySize, maxSize].
func clampSize(px, maxSize int) int {
	return max(MinOverlaySize, min(px, maxSize))
}

// LoadImage decodes data and makes it the base image. Absent or undecodable
// input leaves the session unchanged. On success the size bound becomes the
// image height and the overlay size is re-clamped into the new range.
func (c *Compositor) LoadImage(data []byte) error {
	if len(data) == 0 {
		return ovimage.ErrNoImage
	}
	gen := c.beginImageLoad()
	img, err := ovimage.DecodeBytes(data)
	c.finishImageLoad(gen, img, err)
	return err
}

// LoadBaseImage makes an already decoded image the base image, with the same
// size bound and re-clamp as LoadImage.
func (c *Compositor) LoadBaseImage(img *ovimage.BaseImage) error {
	if img == nil || img.Image == nil {
		return ovimage.ErrNoImage
	}
	c.finishImageLoad(c.beginImageLoad(), img, nil)
	return nil
}

// LoadImageAsync decodes data on a background goroutine. If another load is
// started before this one finishes, this result is discarded, even when the
// newer load later fails to decode. done, if non-nil, reports whether the
// image was applied.
func (c *Compositor) LoadImageAsync(data []byte, done func(applied bool, err error)) {
	if len(data) == 0 {
		if done != nil {
			done(false, ovimage.ErrNoImage)
		}
		return
	}
	gen := c.beginImageLoad()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		img, err := ovimage.DecodeBytes(data)
		applied := c.finishImageLoad(gen, img, err)
		if done != nil {
			done(applied, err)
		}
	}()
}

// beginImageLoad tags a new load request.
func (c *Compositor) beginImageLoad() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageGen++
	return c.imageGen
}

// finishImageLoad applies a decoded image if gen is still current.
func (c *Compositor) finishImageLoad(gen uint64, img *ovimage.BaseImage, err error) bool {
	if err != nil {
		c.log.Debug("image load ignored", "generation", gen, "error", err)
		return false
	}

	c.mu.Lock()
	if current := c.imageGen; gen != current {
		c.mu.Unlock()
		c.log.Debug("stale image load dropped", "generation", gen, "current", current)
		return false
	}
	c.base = img
	c.maxSize = max(img.Height(), MinOverlaySize)
	c.overlay.Size = clampSize(c.overlay.Size, c.maxSize)
	art, rerr := c.renderLocked()
	c.mu.Unlock()

	c.log.Info("image loaded",
		"path", img.Path,
		"format", img.Format,
		"width", img.Width(),
		"height", img.Height())
	c.emit(EventImageLoaded, img)
	c.afterRender(art, rerr)
	return true
}

// SetOverlayIdentity replaces the overlay glyph or raster reference. Remote
// identities are fetched in the background; until the fetch completes the
// overlay is left out of the rendered surface.
func (c *Compositor) SetOverlayIdentity(id overlay.Identity) {
	c.mu.Lock()
	if id == c.overlay.Identity && (c.raster != nil || !id.IsRemote()) {
		art, err := c.renderLocked()
		c.mu.Unlock()
		c.afterRender(art, err)
		return
	}
	c.overlay.Identity = id
	c.raster = nil
	c.rasterGen++
	gen := c.rasterGen
	if id.IsRemote() && c.opts.Fetcher != nil {
		c.wg.Add(1)
		go c.fetchRaster(gen, id)
	}
	art, err := c.renderLocked()
	c.mu.Unlock()
	c.afterRender(art, err)
}

// fetchRaster retrieves a remote overlay and applies it if gen is current.
func (c *Compositor) fetchRaster(gen uint64, id overlay.Identity) {
	defer c.wg.Done()

	img, err := c.opts.Fetcher.Fetch(c.ctx, id)
	if err != nil {
		c.mu.Lock()
		current := gen == c.rasterGen
		c.mu.Unlock()
		if !current {
			c.log.Debug("stale overlay fetch failure ignored", "url", id.String(), "error", err)
			return
		}
		c.log.Warn("overlay fetch failed", "url", id.String(), "error", err)
		c.emit(EventFetchFailed, err)
		return
	}

	c.mu.Lock()
	if gen != c.rasterGen {
		c.mu.Unlock()
		c.log.Debug("stale overlay fetch dropped", "url", id.String())
		return
	}
	c.raster = img
	art, rerr := c.renderLocked()
	c.mu.Unlock()

	c.emit(EventOverlayFetched, id)
	c.afterRender(art, rerr)
}

// SetOverlayPosition moves the overlay to surface-local (x, y).
func (c *Compositor) SetOverlayPosition(x, y float64) {
	c.mu.Lock()
	c.overlay.Position = geometry.NewPoint2D(x, y)
	art, err := c.renderLocked()
	c.mu.Unlock()
	c.afterRender(art, err)
}

// SetOverlaySize sets the overlay edge length, clamped to [10, MaxSize()].
func (c *Compositor) SetOverlaySize(px int) {
	c.mu.Lock()
	c.overlay.Size = clampSize(px, c.maxSize)
	art, err := c.renderLocked()
	c.mu.Unlock()
	c.afterRender(art, err)
}

// SetViewportWidth records the width available to the surface. A width of
// zero or less unmounts the surface.
func (c *Compositor) SetViewportWidth(w int) {
	c.mu.Lock()
	c.viewportWidth = w
	art, err := c.renderLocked()
	c.mu.Unlock()
	c.afterRender(art, err)
}

// Overlay returns the current overlay state.
func (c *Compositor) Overlay() Overlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlay
}

// MaxSize returns the current upper bound for the overlay size.
func (c *Compositor) MaxSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSize
}

// BaseImage returns the current base image, or nil.
func (c *Compositor) BaseImage() *ovimage.BaseImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base
}

// SurfaceSize returns the dimensions the next render will use.
func (c *Compositor) SurfaceSize() geometry.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surfaceSizeLocked()
}

// Artifact returns the most recent export.
func (c *Compositor) Artifact() Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.artifact
}

// OverlayReady reports whether the overlay will appear in the next render.
// Text glyphs are always ready; remote rasters once fetched.
func (c *Compositor) OverlayReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.overlay.Identity.IsRemote() || c.raster != nil
}

// Render redraws the surface from the current state and stores the result as
// the current artifact. With unchanged state the PNG bytes are identical.
func (c *Compositor) Render() (Artifact, error) {
	c.mu.Lock()
	art, err := c.renderLocked()
	c.mu.Unlock()
	c.afterRender(art, err)
	return art, err
}

func (c *Compositor) surfaceSizeLocked() geometry.Size {
	return ovimage.FitSurface(c.viewportWidth, c.opts.MaxSurfaceWidth, c.base, c.opts.DefaultSurface)
}

// renderLocked draws base image and overlay, then encodes. c.mu must be held.
func (c *Compositor) renderLocked() (Artifact, error) {
	if c.viewportWidth <= 0 {
		return Artifact{}, ErrSurfaceUnavailable
	}

	size := c.surfaceSizeLocked()
	if size.Empty() {
		return Artifact{}, ErrSurfaceUnavailable
	}
	if c.surface == nil || c.surface.Size() != size {
		c.surface = ovimage.NewSurface(size.Width, size.Height)
	}
	c.surface.Clear()

	if c.base != nil {
		c.surface.DrawFitted(c.base.Image)
	}

	ov := c.overlay
	if ov.Identity.IsRemote() {
		if c.raster != nil {
			r := geometry.NewRect(ov.Position.X, ov.Position.Y, float64(ov.Size), float64(ov.Size))
			c.surface.DrawScaled(c.raster, r.ImageRect())
		}
	} else if c.opts.Glyphs != nil {
		err := c.opts.Glyphs.DrawString(c.surface.Image(), ov.Identity.String(),
			ov.Position.X, ov.Position.Y, float64(ov.Size), c.opts.GlyphColor)
		if err != nil {
			return Artifact{}, fmt.Errorf("failed to draw glyph: %w", err)
		}
	}

	data, err := c.surface.EncodePNG()
	if err != nil {
		return Artifact{}, err
	}
	pix := image.NewRGBA(c.surface.Image().Bounds())
	copy(pix.Pix, c.surface.Image().Pix)

	c.artifact = Artifact{
		PNG:      data,
		Image:    pix,
		Width:    size.Width,
		Height:   size.Height,
		Filename: c.opts.Filename,
	}
	return c.artifact, nil
}

// afterRender logs failures and notifies listeners. Must not hold c.mu.
func (c *Compositor) afterRender(art Artifact, err error) {
	switch {
	case errors.Is(err, ErrSurfaceUnavailable):
		c.log.Debug("render skipped", "reason", err)
	case err != nil:
		c.log.Error("render failed", "error", err)
	default:
		c.emit(EventRendered, art)
	}
}
