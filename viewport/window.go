package viewport

import (
	"image"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
)

// Window owns the view registry and the active-view slot, and routes raw
// window input to view handlers. Window pixel coordinates have the origin at
// the top left; view bounds are normalized with the origin at the bottom
// left, so lookups flip the y axis.
type Window struct {
	size   image.Point
	logger golog.Logger
	nextID int
	views  []*View
	active *View
}

// NewWindow creates a window of the given pixel size with no views.
func NewWindow(size image.Point, logger golog.Logger) *Window {
	return &Window{size: size, logger: logger}
}

// Size returns the window's pixel size.
func (w *Window) Size() image.Point {
	return w.size
}

// ConnectView registers a view at the given normalized bounds and assigns it
// an id. Views are looked up in connection order; overlapping bounds resolve
// to the earliest connected view.
func (w *Window) ConnectView(v *View, bounds r2.Rect) {
	v.bounds = bounds
	v.id = w.nextID
	w.nextID++
	w.views = append(w.views, v)
	w.logger.Debugw("connected view", "id", v.id, "bounds", bounds)
}

// ViewAt returns the view whose bounds contain the given window pixel, along
// with the position converted to that view's pixel coordinates, or nil if no
// view contains it.
func (w *Window) ViewAt(wp image.Point) (*View, image.Point) {
	rel := w.normalize(wp)
	for _, v := range w.views {
		if v.bounds.ContainsPoint(rel) {
			return v, viewPixel(v, rel)
		}
	}
	return nil, image.Point{}
}

// ViewCoords converts a window pixel into the given view's pixel
// coordinates, whether or not the point lies inside the view.
func (w *Window) ViewCoords(v *View, wp image.Point) image.Point {
	return viewPixel(v, w.normalize(wp))
}

// SetActiveView changes which view receives keyboard and drag events,
// notifying the outgoing and incoming handlers.
func (w *Window) SetActiveView(v *View) {
	if w.active != nil && w.active.handler != nil {
		w.active.handler.OnEvent(EventViewDeactivated)
	}
	w.active = v
	if w.active != nil && w.active.handler != nil {
		w.active.handler.OnEvent(EventViewActivated)
	}
}

// ActiveView returns the view currently receiving events, or nil.
func (w *Window) ActiveView() *View {
	return w.active
}

// KeyDown routes a key press to the active view.
func (w *Window) KeyDown(key int) {
	if w.active != nil && w.active.handler != nil {
		w.active.handler.OnKeyDown(key)
	}
}

// KeyUp routes a key release to the active view.
func (w *Window) KeyUp(key int) {
	if w.active != nil && w.active.handler != nil {
		w.active.handler.OnKeyUp(key)
	}
}

// MouseDown activates the view under the cursor, then routes the press to it
// in view coordinates. Presses outside every view are dropped.
func (w *Window) MouseDown(wp image.Point, button int) {
	v, vp := w.ViewAt(wp)
	if v == nil {
		w.logger.Debugw("mouse press outside all views", "pos", wp)
		return
	}
	if v != w.active {
		w.SetActiveView(v)
	}
	if v.handler != nil {
		v.handler.OnMouseDown(vp, button)
	}
}

// MouseUp routes a release to the active view, wherever the cursor is.
func (w *Window) MouseUp(wp image.Point, button int) {
	if w.active != nil && w.active.handler != nil {
		w.active.handler.OnMouseUp(w.ViewCoords(w.active, wp), button)
	}
}

// MouseMove routes cursor movement to the active view.
func (w *Window) MouseMove(wp image.Point) {
	if w.active != nil && w.active.handler != nil {
		w.active.handler.OnMouseMove(w.ViewCoords(w.active, wp))
	}
}

// Resize records the new window size and notifies the active view.
func (w *Window) Resize(size image.Point) {
	w.size = size
	if w.active != nil && w.active.handler != nil {
		w.active.handler.OnResize(size)
	}
}

// normalize converts a window pixel into normalized coordinates, flipping y
// so the origin is at the bottom left.
func (w *Window) normalize(wp image.Point) r2.Point {
	return r2.Point{
		X: float64(wp.X) / float64(w.size.X),
		Y: 1 - float64(wp.Y)/float64(w.size.Y),
	}
}

// viewPixel converts a normalized window position into a view's pixel
// coordinates.
func viewPixel(v *View, rel r2.Point) image.Point {
	return image.Point{
		X: int((rel.X - v.bounds.X.Lo) / (v.bounds.X.Hi - v.bounds.X.Lo) * float64(v.pixelSize.X)),
		Y: int((rel.Y - v.bounds.Y.Lo) / (v.bounds.Y.Hi - v.bounds.Y.Lo) * float64(v.pixelSize.Y)),
	}
}
