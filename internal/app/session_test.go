package app

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"emojioverlay/internal/config"
	"emojioverlay/internal/overlay"
	"emojioverlay/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionFromConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
overlay:
  default_identity: "X"
  default_x: 20
  default_y: 30
  default_size: 40
export:
  filename: out.png
`))
	require.NoError(t, err)

	s, err := NewSession(cfg, 0, nil)
	require.NoError(t, err)
	defer s.Close()

	ov := s.Compositor.Overlay()
	assert.Equal(t, overlay.Identity("X"), ov.Identity)
	assert.Equal(t, geometry.NewPoint2D(20, 30), ov.Position)
	assert.Equal(t, 40, ov.Size)

	art := s.Compositor.Artifact()
	assert.Equal(t, "out.png", art.Filename)
	assert.Equal(t, 600, art.Width)
}

func TestNewSessionOriginPosition(t *testing.T) {
	cfg, err := config.Parse([]byte("overlay:\n  default_x: 0\n  default_y: 0\n"))
	require.NoError(t, err)

	s, err := NewSession(cfg, 0, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, geometry.NewPoint2D(0, 0), s.Compositor.Overlay().Position)
}

func TestNewSessionBadFont(t *testing.T) {
	cfg := config.Default()
	cfg.Font.Path = filepath.Join(t.TempDir(), "missing.ttf")
	_, err := NewSession(cfg, 0, nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := NewLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, "key=value")
}
