// Package app wires configuration, logging and the compositor into a session
// that the front-ends drive.
package app

import (
	"io"
	"log/slog"

	"emojioverlay/internal/compositor"
	"emojioverlay/internal/config"
	"emojioverlay/internal/glyph"
	"emojioverlay/internal/overlay"
	"emojioverlay/pkg/geometry"
)

// Session is one editing session: a compositor, the dragger feeding it, and
// the configuration both were built from.
type Session struct {
	Config     *config.Config
	Compositor *compositor.Compositor
	Dragger    *compositor.Dragger
	Logger     *slog.Logger

	glyphs *glyph.Renderer
}

// NewSession builds a session from cfg. viewportWidth is the width available
// to the drawing surface; 0 means the configured maximum.
func NewSession(cfg *config.Config, viewportWidth int, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	glyphs, err := glyph.LoadRenderer(cfg.Font.Path)
	if err != nil {
		return nil, err
	}

	x, y := cfg.OverlayPosition()
	fetcher := overlay.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.MaxBytes, logger.With("component", "fetch"))

	c := compositor.New(compositor.Options{
		MaxSurfaceWidth: cfg.Surface.MaxWidth,
		DefaultSurface:  geometry.NewSize(cfg.Surface.DefaultWidth, cfg.Surface.DefaultHeight),
		DefaultMaxSize:  cfg.Overlay.DefaultMaxSize,
		ViewportWidth:   viewportWidth,
		Overlay: &compositor.Overlay{
			Identity: cfg.Overlay.DefaultIdentity,
			Position: geometry.NewPoint2D(x, y),
			Size:     cfg.Overlay.DefaultSize,
		},
		GlyphColor: cfg.GlyphColor(),
		Filename:   cfg.Export.Filename,
		Glyphs:     glyphs,
		Fetcher:    fetcher,
		Logger:     logger.With("component", "compositor"),
	})

	return &Session{
		Config:     cfg,
		Compositor: c,
		Dragger:    compositor.NewDragger(c),
		Logger:     logger,
		glyphs:     glyphs,
	}, nil
}

// Close stops background work and releases font faces.
func (s *Session) Close() {
	s.Compositor.Close()
	s.glyphs.Close()
}

// NewLogger returns a text logger writing to w at the configured level.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, err := cfg.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
