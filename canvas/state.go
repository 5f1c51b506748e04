package canvas

import (
	"fmt"
	"image"
)

// DrawState is the state of the interactive drawing state machine.
type DrawState uint8

// Draw states.
const (
	Idle DrawState = iota
	Drawing
	Selecting
	Selected
	Moving
)

func (s DrawState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Selecting:
		return "selecting"
	case Selected:
		return "selected"
	case Moving:
		return "moving"
	default:
		panic(unreachable("draw state", int(s)))
	}
}

// DrawMode is the active tool.
type DrawMode uint8

// Tools.
const (
	Draw DrawMode = iota
	Erase
	Fill
	Line
	Rect
	RectFilled
	Ellipse
	EllipseFilled
	Select
	Move
	Dropper
)

var drawModeNames = [...]string{
	Draw:          "draw",
	Erase:         "erase",
	Fill:          "fill",
	Line:          "line",
	Rect:          "rect",
	RectFilled:    "rect-filled",
	Ellipse:       "ellipse",
	EllipseFilled: "ellipse-filled",
	Select:        "select",
	Move:          "move",
	Dropper:       "dropper",
}

func (m DrawMode) String() string {
	if int(m) >= len(drawModeNames) {
		panic(unreachable("draw mode", int(m)))
	}
	return drawModeNames[m]
}

// ParseDrawMode returns the tool with the given name.
func ParseDrawMode(name string) (DrawMode, error) {
	for i, n := range drawModeNames {
		if n == name {
			return DrawMode(i), nil
		}
	}
	return Draw, fmt.Errorf("canvas: unknown draw mode %q", name)
}

// isShape reports whether the tool rasterises a shape into the transient
// overlay
func (m DrawMode) isShape() bool {
	switch m {
	case Line, Rect, RectFilled, Ellipse, EllipseFilled:
		return true
	}
	return false
}

// Modifiers qualify a pointer-down gesture.
type Modifiers struct {
	// Erase turns a draw, fill or shape gesture into an erasing one,
	// typically the secondary mouse button
	Erase bool
}

type drawContext struct {
	state       DrawState
	selection   image.Rectangle
	moved       *Grid
	origin      image.Point
	offset      image.Point
	eraseOnMove bool
	erasing     bool

	// last pixel processed during the current gesture
	last    image.Point
	hasLast bool
}

func newDrawContext() drawContext {
	return drawContext{eraseOnMove: true}
}

func unreachable(what string, v int) error {
	return fmt.Errorf("canvas: unreachable %s %d", what, v)
}
