// Command emojicompose places an overlay on an image without a window and
// writes the composited PNG.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"emojioverlay/internal/app"
	"emojioverlay/internal/compositor"
	"emojioverlay/internal/config"
	ovimage "emojioverlay/internal/image"
	"emojioverlay/internal/overlay"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("emojicompose", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPath := fs.String("in", "", "Base image: "+ovimage.FileFilter())
	emoji := fs.String("emoji", "", "Overlay glyph or image URL (default from config)")
	x := fs.Float64("x", 0, "Overlay x in surface pixels")
	y := fs.Float64("y", 0, "Overlay y (glyph baseline) in surface pixels")
	size := fs.Int("size", 0, "Overlay size in pixels")
	viewport := fs.Int("viewport", compositor.MaxSurfaceWidth, "Available width for the surface")
	outPath := fs.String("out", "", "Output PNG path, or a directory to save the configured filename in")
	configPath := fs.String("config", "", "Path to YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if set["emoji"] {
		cfg.Overlay.DefaultIdentity = overlay.Identity(*emoji)
	}

	session, err := app.NewSession(cfg, *viewport, app.NewLogger(cfg, stderr))
	if err != nil {
		fmt.Fprintf(stderr, "Failed to start: %v\n", err)
		return 1
	}
	defer session.Close()
	c := session.Compositor

	if *inPath != "" {
		base, err := ovimage.Load(*inPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load image: %v\n", err)
			return 1
		}
		if err := c.LoadBaseImage(base); err != nil {
			fmt.Fprintf(stderr, "Failed to load image: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Loaded %s image: %dx%d pixels\n", base.Format, base.Width(), base.Height())
	}

	if set["x"] || set["y"] {
		pos := c.Overlay().Position
		if set["x"] {
			pos.X = *x
		}
		if set["y"] {
			pos.Y = *y
		}
		c.SetOverlayPosition(pos.X, pos.Y)
	}

	// Size is applied after the load so it clamps against the image height
	if set["size"] {
		c.SetOverlaySize(*size)
	}

	// Remote overlays finish fetching before the final render
	c.Wait()
	if !c.OverlayReady() {
		fmt.Fprintf(stderr, "Overlay %s unavailable, rendering without it\n", c.Overlay().Identity)
	}

	art, err := c.Render()
	if errors.Is(err, compositor.ErrSurfaceUnavailable) {
		fmt.Fprintf(stderr, "Viewport width must be positive\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Render failed: %v\n", err)
		return 1
	}

	out, err := writeArtifact(art, *outPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to write output: %v\n", err)
		return 1
	}

	ov := c.Overlay()
	fmt.Fprintf(stdout, "Overlay %s at (%.0f, %.0f) size %d\n", ov.Identity, ov.Position.X, ov.Position.Y, ov.Size)
	fmt.Fprintf(stdout, "Wrote %dx%d PNG to %s\n", art.Width, art.Height, out)
	return 0
}

// writeArtifact saves art at path. An empty path or a directory receives the
// artifact under its own filename.
func writeArtifact(art compositor.Artifact, path string) (string, error) {
	if path == "" {
		path = "."
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return art.Save(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := art.WriteTo(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
