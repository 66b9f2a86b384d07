package canvas

import (
	"testing"

	"emojioverlay/internal/compositor"
	"emojioverlay/internal/glyph"
	"emojioverlay/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestView(t *testing.T) (*SurfaceView, *compositor.Compositor) {
	t.Helper()
	test.NewApp()

	r, err := glyph.NewRenderer(nil)
	require.NoError(t, err)
	c := compositor.New(compositor.Options{Glyphs: r})
	t.Cleanup(c.Close)

	v := NewSurfaceView(compositor.NewDragger(c))
	v.origin = func() fyne.Position { return fyne.NewPos(100, 50) }
	c.On(compositor.EventRendered, func(data interface{}) {
		v.SetArtifact(data.(compositor.Artifact))
	})
	return v, c
}

func at(x, y float32) fyne.PointEvent {
	return fyne.PointEvent{AbsolutePosition: fyne.NewPos(x, y)}
}

func TestMouseDrag(t *testing.T) {
	v, c := newTestView(t)

	v.MouseDown(&desktop.MouseEvent{PointEvent: at(110, 60), Button: desktop.MouseButtonPrimary})
	v.Dragged(&fyne.DragEvent{PointEvent: at(110, 60)})
	assert.Equal(t, geometry.NewPoint2D(10, 10), c.Overlay().Position)

	v.Dragged(&fyne.DragEvent{PointEvent: at(130, 90)})
	assert.Equal(t, geometry.NewPoint2D(30, 40), c.Overlay().Position)

	v.DragEnd()
	v.MouseUp(&desktop.MouseEvent{PointEvent: at(130, 90), Button: desktop.MouseButtonPrimary})
	v.Dragged(&fyne.DragEvent{PointEvent: at(300, 300)})
	assert.Equal(t, geometry.NewPoint2D(30, 40), c.Overlay().Position)
}

func TestSecondaryButtonDoesNotDrag(t *testing.T) {
	v, c := newTestView(t)

	v.MouseDown(&desktop.MouseEvent{PointEvent: at(110, 60), Button: desktop.MouseButtonSecondary})
	v.Dragged(&fyne.DragEvent{PointEvent: at(150, 150)})
	assert.Equal(t, geometry.NewPoint2D(50, 50), c.Overlay().Position)
}

func TestTouchDrag(t *testing.T) {
	v, c := newTestView(t)

	v.TouchDown(&mobile.TouchEvent{PointEvent: at(100, 50)})
	v.Dragged(&fyne.DragEvent{PointEvent: at(170, 130)})
	assert.Equal(t, geometry.NewPoint2D(70, 80), c.Overlay().Position)

	v.TouchUp(&mobile.TouchEvent{PointEvent: at(170, 130)})
	v.Dragged(&fyne.DragEvent{PointEvent: at(0, 0)})
	assert.Equal(t, geometry.NewPoint2D(70, 80), c.Overlay().Position)
}

func TestSetArtifactResizesView(t *testing.T) {
	v, c := newTestView(t)
	w := test.NewWindow(v)
	defer w.Close()

	c.SetOverlaySize(60)
	assert.Equal(t, fyne.NewSize(600, 400), v.MinSize())
	assert.Same(t, c.Artifact().Image, v.image.Image)

	v.SetArtifact(compositor.Artifact{})
	assert.Equal(t, fyne.NewSize(600, 400), v.MinSize(), "empty artifacts are ignored")
}
