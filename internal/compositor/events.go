package compositor

// EventType identifies compositor events.
type EventType int

const (
	EventRendered       EventType = iota // data: Artifact
	EventImageLoaded                     // data: *image.BaseImage
	EventOverlayFetched                  // data: overlay.Identity
	EventFetchFailed                     // data: error
)

func (e EventType) String() string {
	switch e {
	case EventRendered:
		return "Rendered"
	case EventImageLoaded:
		return "ImageLoaded"
	case EventOverlayFetched:
		return "OverlayFetched"
	case EventFetchFailed:
		return "FetchFailed"
	default:
		return "Unknown"
	}
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// On registers an event listener for the specified event type.
// Listeners run on the goroutine that caused the event, after the
// compositor's lock has been released.
func (c *Compositor) On(event EventType, listener EventListener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners[event] = append(c.listeners[event], listener)
}

// emit triggers all listeners for the specified event type.
func (c *Compositor) emit(event EventType, data interface{}) {
	c.listenersMu.RLock()
	listeners := c.listeners[event]
	c.listenersMu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
