package mainwindow

import (
	"emojioverlay/internal/compositor"

	"fyne.io/fyne/v2"
)

// viewportLayout places the surface view at its minimum size in the top-left
// corner and reports the available width to the compositor.
type viewportLayout struct {
	compositor *compositor.Compositor
	lastWidth  int
}

// Layout implements fyne.Layout.
func (l *viewportLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if w := int(size.Width); w != l.lastWidth {
		l.lastWidth = w
		l.compositor.SetViewportWidth(w)
	}
	for _, o := range objects {
		o.Resize(o.MinSize())
		o.Move(fyne.NewPos(0, 0))
	}
}

// MinSize implements fyne.Layout. Only the height is taken from the view so
// the window can shrink the surface below its current width.
func (l *viewportLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var h float32
	for _, o := range objects {
		h = max(h, o.MinSize().Height)
	}
	return fyne.NewSize(compositor.MinOverlaySize, h)
}
