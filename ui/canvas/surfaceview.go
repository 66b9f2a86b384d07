// Package canvas provides the widget that displays the composited surface and
// turns pointer input into overlay drags.
package canvas

import (
	"image"

	"emojioverlay/internal/compositor"
	"emojioverlay/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// SurfaceView shows the latest rendered artifact at surface size. Mouse and
// touch drags over it reposition the overlay.
type SurfaceView struct {
	widget.BaseWidget

	dragger *compositor.Dragger
	image   *fynecanvas.Image
	size    fyne.Size

	// Device that started the current fyne drag
	active compositor.Device

	// origin returns the view's absolute top-left; replaced in tests
	origin func() fyne.Position
}

var (
	_ desktop.Mouseable = (*SurfaceView)(nil)
	_ fyne.Draggable    = (*SurfaceView)(nil)
	_ mobile.Touchable  = (*SurfaceView)(nil)
)

// NewSurfaceView creates a view that forwards pointer input to dragger.
func NewSurfaceView(dragger *compositor.Dragger) *SurfaceView {
	v := &SurfaceView{
		dragger: dragger,
		image:   fynecanvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1))),
		size:    fyne.NewSize(float32(compositor.DefaultSurface.Width), float32(compositor.DefaultSurface.Height)),
	}
	v.image.FillMode = fynecanvas.ImageFillStretch
	v.image.ScaleMode = fynecanvas.ImageScalePixels
	v.origin = func() fyne.Position {
		return fyne.CurrentApp().Driver().AbsolutePositionForObject(v)
	}
	v.ExtendBaseWidget(v)
	return v
}

// SetArtifact displays a newly rendered artifact.
func (v *SurfaceView) SetArtifact(a compositor.Artifact) {
	if a.Image == nil {
		return
	}
	v.image.Image = a.Image
	v.size = fyne.NewSize(float32(a.Width), float32(a.Height))
	v.image.SetMinSize(v.size)
	v.image.Refresh()
	v.Refresh()
}

// MinSize keeps the view at exactly the surface size so pointer offsets map
// one-to-one onto surface pixels.
func (v *SurfaceView) MinSize() fyne.Size {
	return v.size
}

// CreateRenderer implements fyne.Widget.
func (v *SurfaceView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.image)
}

// MouseDown starts a mouse drag on primary button press.
func (v *SurfaceView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	v.active = compositor.DeviceMouse
	v.dragger.PointerDown(compositor.DeviceMouse)
}

// MouseUp ends a mouse drag.
func (v *SurfaceView) MouseUp(ev *desktop.MouseEvent) {
	v.dragger.PointerUp(compositor.DeviceMouse)
}

// TouchDown starts a touch drag.
func (v *SurfaceView) TouchDown(ev *mobile.TouchEvent) {
	v.active = compositor.DeviceTouch
	v.dragger.PointerDown(compositor.DeviceTouch)
}

// TouchUp ends a touch drag.
func (v *SurfaceView) TouchUp(ev *mobile.TouchEvent) {
	v.dragger.PointerUp(compositor.DeviceTouch)
}

// TouchCancel ends a touch drag.
func (v *SurfaceView) TouchCancel(ev *mobile.TouchEvent) {
	v.dragger.PointerUp(compositor.DeviceTouch)
}

// Dragged moves the overlay to the pointer. fyne delivers moves for both
// mouse and touch here.
func (v *SurfaceView) Dragged(ev *fyne.DragEvent) {
	screen := geometry.NewPoint2D(float64(ev.AbsolutePosition.X), float64(ev.AbsolutePosition.Y))
	o := v.origin()
	v.dragger.PointerMove(v.active, screen, geometry.NewPoint2D(float64(o.X), float64(o.Y)))
}

// DragEnd ends the drag of whichever device started it.
func (v *SurfaceView) DragEnd() {
	v.dragger.PointerUp(v.active)
}
