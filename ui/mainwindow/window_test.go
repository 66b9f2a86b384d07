package mainwindow

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"emojioverlay/internal/app"
	"emojioverlay/internal/config"
	"emojioverlay/internal/overlay"
	"emojioverlay/ui/prefs"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(t *testing.T, p *prefs.Prefs) *MainWindow {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	s, err := app.NewSession(config.Default(), 0, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return New(a, s, p)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestInitialControls(t *testing.T) {
	mw := newTestWindow(t, prefs.LoadFrom(t.TempDir()))

	assert.Equal(t, "😁", mw.emoji.Selected)
	assert.Len(t, mw.emoji.Options, len(overlay.DefaultOptions()))
	assert.Equal(t, 10.0, mw.size.Min)
	assert.Equal(t, 100.0, mw.size.Max)
	assert.Equal(t, 50.0, mw.size.Value)
	assert.Equal(t, "50 px", mw.sizeLabel.Text)
}

func TestSelectOverlayUpdatesCompositorAndPrefs(t *testing.T) {
	p := prefs.LoadFrom(t.TempDir())
	mw := newTestWindow(t, p)

	mw.emoji.SetSelected("🥺")
	assert.Equal(t, overlay.Identity("🥺"), mw.session.Compositor.Overlay().Identity)
	assert.Equal(t, "🥺", p.String(prefs.KeyLastOverlay))
}

func TestRestoreLastOverlay(t *testing.T) {
	p := prefs.LoadFrom(t.TempDir())
	p.SetString(prefs.KeyLastOverlay, "😡")
	p.SetInt(prefs.KeyLastSize, 80)
	mw := newTestWindow(t, p)

	assert.Equal(t, "😡", mw.emoji.Selected)
	ov := mw.session.Compositor.Overlay()
	assert.Equal(t, overlay.Identity("😡"), ov.Identity)
	assert.Equal(t, 80, ov.Size)
	assert.Equal(t, "80 px", mw.sizeLabel.Text)
}

func TestSliderFollowsImageHeight(t *testing.T) {
	mw := newTestWindow(t, prefs.LoadFrom(t.TempDir()))
	c := mw.session.Compositor

	require.NoError(t, c.LoadImage(pngBytes(t, 300, 200)))
	assert.Equal(t, 200.0, mw.size.Max)

	mw.size.SetValue(150)
	assert.Equal(t, 150, c.Overlay().Size)

	// A shorter image re-clamps the size and the slider follows
	require.NoError(t, c.LoadImage(pngBytes(t, 120, 40)))
	assert.Equal(t, 40.0, mw.size.Max)
	assert.Equal(t, 40.0, mw.size.Value)
	assert.Equal(t, "40 px", mw.sizeLabel.Text)
}

func TestUndecodableImageKeepsState(t *testing.T) {
	mw := newTestWindow(t, prefs.LoadFrom(t.TempDir()))
	c := mw.session.Compositor

	assert.Error(t, c.LoadImage([]byte("not an image")))
	assert.Nil(t, c.BaseImage())
	assert.Equal(t, 100.0, mw.size.Max)
}
