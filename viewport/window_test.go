package viewport

import (
	"image"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

type recordedEvent struct {
	kind   string
	event  EventType
	key    int
	pos    image.Point
	button int
}

// recordingHandler keeps every routed event in order.
type recordingHandler struct {
	events []recordedEvent
}

func (h *recordingHandler) OnEvent(e EventType) {
	h.events = append(h.events, recordedEvent{kind: "event", event: e})
}

func (h *recordingHandler) OnKeyDown(key int) {
	h.events = append(h.events, recordedEvent{kind: "keydown", key: key})
}

func (h *recordingHandler) OnKeyUp(key int) {
	h.events = append(h.events, recordedEvent{kind: "keyup", key: key})
}

func (h *recordingHandler) OnMouseDown(pos image.Point, button int) {
	h.events = append(h.events, recordedEvent{kind: "mousedown", pos: pos, button: button})
}

func (h *recordingHandler) OnMouseUp(pos image.Point, button int) {
	h.events = append(h.events, recordedEvent{kind: "mouseup", pos: pos, button: button})
}

func (h *recordingHandler) OnMouseMove(pos image.Point) {
	h.events = append(h.events, recordedEvent{kind: "mousemove", pos: pos})
}

func (h *recordingHandler) OnResize(size image.Point) {
	h.events = append(h.events, recordedEvent{kind: "resize", pos: size})
}

func (h *recordingHandler) last() recordedEvent {
	return h.events[len(h.events)-1]
}

func splitWindow(t *testing.T) (*Window, *View, *View, *recordingHandler, *recordingHandler) {
	t.Helper()
	logger := golog.NewTestLogger(t)
	w := NewWindow(image.Point{X: 640, Y: 480}, logger)

	leftHandler := &recordingHandler{}
	rightHandler := &recordingHandler{}
	left := NewView(image.Point{X: 320, Y: 240}, leftHandler)
	right := NewView(image.Point{X: 320, Y: 240}, rightHandler)

	w.ConnectView(left, r2.Rect{X: r1.Interval{Lo: 0, Hi: 0.5}, Y: r1.Interval{Lo: 0, Hi: 1}})
	w.ConnectView(right, r2.Rect{X: r1.Interval{Lo: 0.5, Hi: 1}, Y: r1.Interval{Lo: 0, Hi: 1}})
	return w, left, right, leftHandler, rightHandler
}

func TestConnectViewAssignsIDs(t *testing.T) {
	_, left, right, _, _ := splitWindow(t)
	test.That(t, left.ID(), test.ShouldEqual, 0)
	test.That(t, right.ID(), test.ShouldEqual, 1)
	test.That(t, left.PixelSize(), test.ShouldResemble, image.Point{X: 320, Y: 240})
	test.That(t, left.Bounds().X.Hi, test.ShouldEqual, 0.5)
}

func TestViewAtFlipsY(t *testing.T) {
	w, left, right, _, _ := splitWindow(t)

	// window upper-left quadrant lands in the left view
	v, vp := w.ViewAt(image.Point{X: 160, Y: 120})
	test.That(t, v, test.ShouldEqual, left)
	test.That(t, vp.X, test.ShouldEqual, 160)
	// y = 120 from the top is 3/4 of the way up the view
	test.That(t, vp.Y, test.ShouldEqual, 180)

	v, _ = w.ViewAt(image.Point{X: 480, Y: 400})
	test.That(t, v, test.ShouldEqual, right)

	v, _ = w.ViewAt(image.Point{X: 700, Y: 120})
	test.That(t, v, test.ShouldBeNil)
}

func TestViewAtOverlapPrefersFirstConnected(t *testing.T) {
	w, left, _, _, _ := splitWindow(t)
	// the shared edge belongs to both closed intervals
	v, _ := w.ViewAt(image.Point{X: 320, Y: 240})
	test.That(t, v, test.ShouldEqual, left)
}

func TestSetActiveViewNotifiesHandlers(t *testing.T) {
	w, left, right, leftHandler, rightHandler := splitWindow(t)
	test.That(t, w.ActiveView(), test.ShouldBeNil)

	w.SetActiveView(left)
	test.That(t, w.ActiveView(), test.ShouldEqual, left)
	test.That(t, leftHandler.last(), test.ShouldResemble, recordedEvent{kind: "event", event: EventViewActivated})
	test.That(t, rightHandler.events, test.ShouldBeEmpty)

	w.SetActiveView(right)
	test.That(t, w.ActiveView(), test.ShouldEqual, right)
	test.That(t, leftHandler.last(), test.ShouldResemble, recordedEvent{kind: "event", event: EventViewDeactivated})
	test.That(t, rightHandler.last(), test.ShouldResemble, recordedEvent{kind: "event", event: EventViewActivated})
}

func TestMouseDownActivatesViewUnderCursor(t *testing.T) {
	w, _, right, leftHandler, rightHandler := splitWindow(t)

	w.MouseDown(image.Point{X: 480, Y: 240}, 1)
	test.That(t, w.ActiveView(), test.ShouldEqual, right)
	test.That(t, rightHandler.events[0].kind, test.ShouldEqual, "event")
	test.That(t, rightHandler.events[0].event, test.ShouldEqual, EventViewActivated)
	test.That(t, rightHandler.last().kind, test.ShouldEqual, "mousedown")
	test.That(t, rightHandler.last().button, test.ShouldEqual, 1)
	test.That(t, rightHandler.last().pos, test.ShouldResemble, image.Point{X: 160, Y: 120})

	// a press in the already-active view does not re-activate
	n := len(rightHandler.events)
	w.MouseDown(image.Point{X: 500, Y: 100}, 1)
	test.That(t, len(rightHandler.events), test.ShouldEqual, n+1)
	test.That(t, rightHandler.last().kind, test.ShouldEqual, "mousedown")

	test.That(t, leftHandler.events, test.ShouldBeEmpty)
}

func TestMouseDownOutsideViewsIsDropped(t *testing.T) {
	w, _, _, leftHandler, rightHandler := splitWindow(t)
	w.MouseDown(image.Point{X: 1000, Y: 1000}, 1)
	test.That(t, w.ActiveView(), test.ShouldBeNil)
	test.That(t, leftHandler.events, test.ShouldBeEmpty)
	test.That(t, rightHandler.events, test.ShouldBeEmpty)
}

func TestKeysRouteToActiveView(t *testing.T) {
	w, left, _, leftHandler, rightHandler := splitWindow(t)

	// no active view, keys go nowhere
	w.KeyDown(42)
	test.That(t, leftHandler.events, test.ShouldBeEmpty)

	w.SetActiveView(left)
	w.KeyDown(42)
	test.That(t, leftHandler.last(), test.ShouldResemble, recordedEvent{kind: "keydown", key: 42})
	w.KeyUp(42)
	test.That(t, leftHandler.last(), test.ShouldResemble, recordedEvent{kind: "keyup", key: 42})
	test.That(t, rightHandler.events, test.ShouldBeEmpty)
}

func TestDragFollowsActiveView(t *testing.T) {
	w, left, _, leftHandler, _ := splitWindow(t)
	w.MouseDown(image.Point{X: 160, Y: 240}, 1)
	test.That(t, w.ActiveView(), test.ShouldEqual, left)

	// a drag that leaves the view keeps reporting in its coordinates
	w.MouseMove(image.Point{X: 480, Y: 240})
	test.That(t, leftHandler.last().kind, test.ShouldEqual, "mousemove")
	test.That(t, leftHandler.last().pos, test.ShouldResemble, image.Point{X: 480, Y: 120})

	w.MouseUp(image.Point{X: 480, Y: 240}, 1)
	test.That(t, leftHandler.last().kind, test.ShouldEqual, "mouseup")
	test.That(t, leftHandler.last().pos, test.ShouldResemble, image.Point{X: 480, Y: 120})
}

func TestResizeNotifiesActiveView(t *testing.T) {
	w, left, _, leftHandler, _ := splitWindow(t)
	w.Resize(image.Point{X: 800, Y: 600})
	test.That(t, w.Size(), test.ShouldResemble, image.Point{X: 800, Y: 600})
	test.That(t, leftHandler.events, test.ShouldBeEmpty)

	w.SetActiveView(left)
	w.Resize(image.Point{X: 1024, Y: 768})
	test.That(t, leftHandler.last(), test.ShouldResemble, recordedEvent{kind: "resize", pos: image.Point{X: 1024, Y: 768}})

	// lookups use the new size
	v, _ := w.ViewAt(image.Point{X: 500, Y: 100})
	test.That(t, v, test.ShouldEqual, left)
}

func TestNilHandlerViewDropsEvents(t *testing.T) {
	logger := golog.NewTestLogger(t)
	w := NewWindow(image.Point{X: 100, Y: 100}, logger)
	v := NewView(image.Point{X: 100, Y: 100}, nil)
	w.ConnectView(v, r2.Rect{X: r1.Interval{Lo: 0, Hi: 1}, Y: r1.Interval{Lo: 0, Hi: 1}})

	w.MouseDown(image.Point{X: 50, Y: 50}, 1)
	test.That(t, w.ActiveView(), test.ShouldEqual, v)
	w.KeyDown(1)
	w.MouseMove(image.Point{X: 60, Y: 60})
	w.MouseUp(image.Point{X: 60, Y: 60}, 1)
	w.Resize(image.Point{X: 200, Y: 200})
	w.SetActiveView(nil)
	test.That(t, w.ActiveView(), test.ShouldBeNil)
}
