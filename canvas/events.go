package canvas

import (
	"image"

	"github.com/bodgit/a78paint/displaymode"
	"github.com/bodgit/a78paint/palette"
)

// Behavior tags whether a change came from the user or from the editor
// itself, such as an undo restoring a checkpoint.
type Behavior uint8

// Behaviors.
const (
	User Behavior = iota
	Internal
)

func (b Behavior) String() string {
	switch b {
	case User:
		return "user"
	case Internal:
		return "internal"
	default:
		panic(unreachable("behavior", int(b)))
	}
}

// Event is emitted to subscribers whenever the canvas changes. The set of
// events is closed; every implementation is listed below.
type Event interface {
	event()
}

// PixelEvent reports a single committed pixel.
type PixelEvent struct {
	Point    image.Point
	Pixel    Pixel
	Behavior Behavior
}

// PixelsEvent reports a batch of committed pixels.
type PixelsEvent struct {
	Points   []image.Point
	Behavior Behavior
}

// GridEvent reports that the whole grid was replaced.
type GridEvent struct {
	Behavior Behavior
}

// DrawStateEvent reports a change of draw state or selection.
type DrawStateEvent struct {
	State     DrawState
	Selection image.Rectangle
}

// DrawModeEvent reports a change of tool.
type DrawModeEvent struct {
	Mode DrawMode
}

// HoverEvent reports the pixel under the pointer.
type HoverEvent struct {
	Point  image.Point
	Inside bool
}

// DimensionsEvent reports new canvas dimensions.
type DimensionsEvent struct {
	Width, Height int
	Behavior      Behavior
}

// DisplayModeEvent reports a new display mode.
type DisplayModeEvent struct {
	Mode displaymode.Mode
}

// PaletteEvent reports a new palette, palette set or kangaroo mode.
type PaletteEvent struct {
	Set      *palette.Set
	Palette  *palette.Palette
	Kangaroo bool
}

// ColorEvent reports a new active colour.
type ColorEvent struct {
	Color Pixel
}

// CheckpointEvent is emitted before and after operations whose state should
// be recorded immediately, such as the start of a gesture or a crop.
type CheckpointEvent struct {
	Reason string
}

func (PixelEvent) event()       {}
func (PixelsEvent) event()      {}
func (GridEvent) event()        {}
func (DrawStateEvent) event()   {}
func (DrawModeEvent) event()    {}
func (HoverEvent) event()       {}
func (DimensionsEvent) event()  {}
func (DisplayModeEvent) event() {}
func (PaletteEvent) event()     {}
func (ColorEvent) event()       {}
func (CheckpointEvent) event()  {}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to receive every event. Call the returned function
// to unsubscribe.
func (c *Canvas) Subscribe(fn func(Event)) func() {
	c.nextSub++
	id := c.nextSub
	c.subscribers = append(c.subscribers, subscriber{id, fn})
	return func() {
		subs := make([]subscriber, 0, len(c.subscribers))
		for _, s := range c.subscribers {
			if s.id != id {
				subs = append(subs, s)
			}
		}
		c.subscribers = subs
	}
}

func (c *Canvas) emit(e Event) {
	for _, s := range c.subscribers {
		s.fn(e)
	}
}

func (c *Canvas) emitPoints(points []image.Point, b Behavior) {
	if len(points) == 0 {
		return
	}
	c.emit(PixelsEvent{Points: points, Behavior: b})
}
