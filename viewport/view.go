// Package viewport routes window input events to views: rectangular regions
// of a window, each with its own pixel resolution and event handler. One
// view at a time is active and receives keyboard and drag events; mouse
// presses activate the view under the cursor. The package carries no
// rendering or platform code, only the routing logic.
package viewport

import (
	"image"

	"github.com/golang/geo/r2"
)

// EventType identifies a view lifecycle event delivered through
// Handler.OnEvent.
type EventType uint8

// Lifecycle events a view can receive.
const (
	EventViewActivated EventType = iota + 1
	EventViewDeactivated
)

// Handler receives the events routed to a view. Mouse positions are in the
// view's own pixel coordinates.
type Handler interface {
	OnEvent(e EventType)
	OnKeyDown(key int)
	OnKeyUp(key int)
	OnMouseDown(pos image.Point, button int)
	OnMouseUp(pos image.Point, button int)
	OnMouseMove(pos image.Point)
	OnResize(size image.Point)
}

// View is a rectangular region of a window. Its bounds are normalized window
// coordinates with the origin at the bottom left; its pixel size defines the
// view-local coordinates handed to the handler.
type View struct {
	id        int
	bounds    r2.Rect
	pixelSize image.Point
	handler   Handler
}

// NewView creates a view with the given pixel resolution and handler. The
// handler may be nil; events routed to the view are then dropped. Bounds are
// assigned when the view is connected to a window.
func NewView(pixelSize image.Point, handler Handler) *View {
	return &View{pixelSize: pixelSize, handler: handler}
}

// ID returns the id assigned by the window the view is connected to.
func (v *View) ID() int {
	return v.id
}

// Bounds returns the normalized bounding box within the window.
func (v *View) Bounds() r2.Rect {
	return v.bounds
}

// PixelSize returns the view's pixel resolution.
func (v *View) PixelSize() image.Point {
	return v.pixelSize
}

// Handler returns the view's event handler.
func (v *View) Handler() Handler {
	return v.handler
}
