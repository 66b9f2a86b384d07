package overlay

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ovimage "emojioverlay/internal/image"
)

// ErrFetch is wrapped by every failure to retrieve a remote overlay.
var ErrFetch = errors.New("overlay fetch failed")

// Fetcher retrieves remote overlay rasters. There are no retries; a failed
// fetch is reported once and the caller keeps its previous state.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64 // Response bodies larger than this are rejected
	SVGEdge  int   // Edge length SVG overlays are rasterised at
	Logger   *slog.Logger
}

// NewFetcher creates a Fetcher with the given request timeout and body limit.
func NewFetcher(timeout time.Duration, maxBytes int64, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: maxBytes,
		SVGEdge:  256,
		Logger:   logger,
	}
}

// Fetch downloads and decodes the raster referenced by id.
func (f *Fetcher) Fetch(ctx context.Context, id Identity) (image.Image, error) {
	if !id.IsRemote() {
		return nil, fmt.Errorf("%w: %q is not a remote identity", ErrFetch, id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, id, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = 4 << 20
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFetch, id, limit)
	}

	var img image.Image
	if isSVGResponse(resp, id, data) {
		img, err = ovimage.RasterizeSVG(data, f.SVGEdge)
	} else {
		var base *ovimage.BaseImage
		base, err = ovimage.DecodeBytes(data)
		if base != nil {
			img = base.Image
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	f.Logger.Debug("overlay fetched",
		"url", string(id),
		"bytes", len(data),
		"elapsed", time.Since(start))
	return img, nil
}

func isSVGResponse(resp *http.Response, id Identity, data []byte) bool {
	if strings.Contains(resp.Header.Get("Content-Type"), "svg") {
		return true
	}
	if strings.HasSuffix(strings.ToLower(finalPath(resp, id)), ".svg") {
		return true
	}
	return ovimage.IsSVG(data)
}

// finalPath returns the request path after redirects.
func finalPath(resp *http.Response, id Identity) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.Path
	}
	return string(id)
}
