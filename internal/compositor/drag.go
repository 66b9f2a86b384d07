package compositor

import (
	"sync"

	"emojioverlay/pkg/geometry"
)

// Device identifies a pointer source. Each device drags independently.
type Device int

const (
	DeviceMouse Device = iota
	DeviceTouch
)

func (d Device) String() string {
	switch d {
	case DeviceMouse:
		return "Mouse"
	case DeviceTouch:
		return "Touch"
	default:
		return "Unknown"
	}
}

// DragState is the per-device drag state.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "Dragging"
	}
	return "Idle"
}

// Positioner receives overlay positions in surface-local coordinates.
type Positioner interface {
	SetOverlayPosition(x, y float64)
}

// Dragger implements drag-to-reposition: pointer-down over the surface starts
// a drag, every move while dragging places the overlay at the pointer, and
// pointer-up ends it. Positions are absolute, never deltas.
type Dragger struct {
	target Positioner

	mu     sync.Mutex
	states map[Device]DragState
}

// NewDragger creates a Dragger that moves target's overlay.
func NewDragger(target Positioner) *Dragger {
	return &Dragger{
		target: target,
		states: make(map[Device]DragState),
	}
}

// State returns the drag state of dev.
func (d *Dragger) State(dev Device) DragState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.states[dev]
}

// PointerDown starts dragging with dev. The overlay does not move until the
// first PointerMove.
func (d *Dragger) PointerDown(dev Device) {
	d.mu.Lock()
	d.states[dev] = Dragging
	d.mu.Unlock()
}

// PointerMove repositions the overlay to screen minus the surface's
// screen-space origin if dev is dragging. It reports whether the overlay
// moved.
func (d *Dragger) PointerMove(dev Device, screen, origin geometry.Point2D) bool {
	d.mu.Lock()
	dragging := d.states[dev] == Dragging
	d.mu.Unlock()
	if !dragging {
		return false
	}

	local := screen.Sub(origin)
	d.target.SetOverlayPosition(local.X, local.Y)
	return true
}

// PointerUp ends any drag by dev.
func (d *Dragger) PointerUp(dev Device) {
	d.mu.Lock()
	d.states[dev] = Idle
	d.mu.Unlock()
}
