/*
Package canvas implements the pixel canvas engine of the editor.

A Canvas owns a grid of mode colour indices together with the display mode
and palette that give them meaning. Pointer gestures drive a small state
machine:

	idle -> drawing | selecting | moving -> idle | selected
	selected -> moving -> selected

Freehand tools commit directly to the grid, shapes and moved selections are
drawn into a transient overlay and only committed when the gesture or the
selection ends. Every change is published to subscribers as an Event.

A Canvas is not safe for concurrent use.
*/
package canvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/a78paint/displaymode"
	"github.com/bodgit/a78paint/palette"
)

var (
	// ErrBadDimensions is returned for a non-positive width or height
	ErrBadDimensions = errors.New("canvas: dimensions must be positive")

	// ErrModeMismatch is returned when pasting between canvases with
	// different display modes
	ErrModeMismatch = errors.New("canvas: clipboard display mode does not match canvas")

	// ErrColorOutOfRange is returned when selecting a colour the display
	// mode doesn't have
	ErrColorOutOfRange = errors.New("canvas: color index out of range")
)

// Config describes a new canvas.
type Config struct {
	ID   string
	Name string

	// Width and Height are ignored if Grid is set
	Width, Height int
	Grid          *Grid

	// PixelWidth and PixelHeight are the on-screen size of one pixel and
	// are ignored by display modes with a fixed pixel size
	PixelWidth, PixelHeight int

	Mode       displaymode.Mode
	PaletteSet *palette.Set
	Palette    *palette.Palette
	Kangaroo   bool
	Color      Pixel
}

// Canvas is a pixel canvas and its interactive drawing state.
type Canvas struct {
	id, name string

	grid    *Grid
	overlay *layer

	pixelWidth, pixelHeight int

	mode     displaymode.Mode
	set      *palette.Set
	pal      *palette.Palette
	kangaroo bool
	color    Pixel

	drawMode DrawMode
	ctx      drawContext

	hover    image.Point
	hovering bool

	subscribers []subscriber
	nextSub     int
}

// New returns a new canvas.
func New(cfg Config) (*Canvas, error) {
	grid := cfg.Grid
	if grid == nil {
		if cfg.Width <= 0 || cfg.Height <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, cfg.Width, cfg.Height)
		}
		grid = NewGrid(cfg.Width, cfg.Height)
	}

	if cfg.PaletteSet == nil {
		return nil, palette.ErrPaletteNotFound
	}
	pal := cfg.Palette
	if pal == nil && len(cfg.PaletteSet.Palettes) > 0 {
		pal = cfg.PaletteSet.Palettes[0]
	}

	c := &Canvas{
		id:          cfg.ID,
		name:        cfg.Name,
		grid:        grid,
		overlay:     newLayer(grid.Width(), grid.Height()),
		pixelWidth:  cfg.PixelWidth,
		pixelHeight: cfg.PixelHeight,
		mode:        cfg.Mode,
		set:         cfg.PaletteSet,
		pal:         pal,
		kangaroo:    cfg.Kangaroo,
		color:       cfg.Color,
		ctx:         newDrawContext(),
	}
	c.fixPixelSize()

	colors, err := c.Colors()
	if err != nil {
		return nil, err
	}
	if int(c.color) >= len(colors) || c.color < 0 {
		c.color = 0
	}

	return c, nil
}

func (c *Canvas) fixPixelSize() {
	if c.mode.IsFixedPixelSize() {
		c.pixelWidth, c.pixelHeight = 2, 1
	}
	if c.pixelWidth <= 0 {
		c.pixelWidth = 1
	}
	if c.pixelHeight <= 0 {
		c.pixelHeight = 1
	}
}

// ID returns the canvas identity used to key undo history.
func (c *Canvas) ID() string { return c.id }

// Name returns the canvas name.
func (c *Canvas) Name() string { return c.name }

// SetName renames the canvas.
func (c *Canvas) SetName(name string) { c.name = name }

// Width returns the width in pixels.
func (c *Canvas) Width() int { return c.grid.Width() }

// Height returns the height in pixels.
func (c *Canvas) Height() int { return c.grid.Height() }

// Bounds returns the rectangle covering every pixel.
func (c *Canvas) Bounds() image.Rectangle { return c.grid.Bounds() }

// PixelSize returns the on-screen size of one pixel.
func (c *Canvas) PixelSize() (width, height int) {
	return c.pixelWidth, c.pixelHeight
}

// SetPixelSize changes the on-screen pixel size. Display modes with a fixed
// pixel size ignore it.
func (c *Canvas) SetPixelSize(width, height int) {
	c.pixelWidth, c.pixelHeight = width, height
	c.fixPixelSize()
	c.emit(DimensionsEvent{c.Width(), c.Height(), Internal})
}

// Mode returns the display mode.
func (c *Canvas) Mode() displaymode.Mode { return c.mode }

// PaletteSet returns the palette set.
func (c *Canvas) PaletteSet() *palette.Set { return c.set }

// Palette returns the active palette.
func (c *Canvas) Palette() *palette.Palette { return c.pal }

// PaletteIndex returns the index of the active palette within its set.
func (c *Canvas) PaletteIndex() (int, error) {
	return c.set.Index(c.pal)
}

// Kangaroo reports whether kangaroo mode is enabled.
func (c *Canvas) Kangaroo() bool { return c.kangaroo }

// Color returns the active colour.
func (c *Canvas) Color() Pixel { return c.color }

// DrawMode returns the active tool.
func (c *Canvas) DrawMode() DrawMode { return c.drawMode }

// State returns the draw state.
func (c *Canvas) State() DrawState { return c.ctx.state }

// Selection returns the selected rectangle, empty if there is no selection.
func (c *Canvas) Selection() image.Rectangle { return c.ctx.selection }

// Hover returns the pixel under the pointer.
func (c *Canvas) Hover() (image.Point, bool) { return c.hover, c.hovering }

// Pixel returns the committed pixel at pt.
func (c *Canvas) Pixel(pt image.Point) Pixel { return c.grid.At(pt.X, pt.Y) }

// Transient returns the uncommitted pixel drawn over pt, ok is false if
// nothing is.
func (c *Canvas) Transient(pt image.Point) (Pixel, bool) { return c.overlay.at(pt) }

// Grid returns a copy of the committed pixels.
func (c *Canvas) Grid() *Grid { return c.grid.Clone() }

// Colors returns the colours selectable with the current display mode,
// palette and kangaroo setting, indexed by mode colour index.
func (c *Canvas) Colors() ([]displaymode.Value, error) {
	return c.mode.Colors(c.set, c.pal, c.kangaroo)
}

// SetColor changes the active colour.
func (c *Canvas) SetColor(p Pixel) error {
	colors, err := c.Colors()
	if err != nil {
		return err
	}
	if p < 0 || int(p) >= len(colors) {
		return fmt.Errorf("%w: %d", ErrColorOutOfRange, p)
	}
	if p != c.color {
		c.color = p
		c.emit(ColorEvent{p})
	}
	return nil
}

// SetDisplayMode changes the display mode. Pixels keep their indices; it is
// up to the caller to remap them if needed.
func (c *Canvas) SetDisplayMode(m displaymode.Mode) error {
	if _, err := m.Colors(c.set, c.pal, c.kangaroo); err != nil {
		return err
	}
	c.ResetDrawContext()
	c.mode = m
	c.fixPixelSize()
	c.emit(DisplayModeEvent{m})
	c.clampColor()
	return nil
}

// SetPalette changes the palette set and active palette.
func (c *Canvas) SetPalette(set *palette.Set, pal *palette.Palette) error {
	if _, err := c.mode.Colors(set, pal, c.kangaroo); err != nil {
		return err
	}
	c.set, c.pal = set, pal
	c.emit(PaletteEvent{set, pal, c.kangaroo})
	c.clampColor()
	return nil
}

// SetKangaroo toggles kangaroo mode.
func (c *Canvas) SetKangaroo(kangaroo bool) {
	if kangaroo == c.kangaroo {
		return
	}
	c.kangaroo = kangaroo
	c.emit(PaletteEvent{c.set, c.pal, kangaroo})
}

func (c *Canvas) clampColor() {
	colors, err := c.Colors()
	if err != nil {
		return
	}
	if int(c.color) >= len(colors) {
		c.color = 0
		c.emit(ColorEvent{0})
	}
}

// SetDrawMode changes the active tool. Leaving the move tool commits any
// moved pixels while keeping the selection.
func (c *Canvas) SetDrawMode(m DrawMode) {
	if m == c.drawMode {
		return
	}
	c.finishGesture()
	if c.drawMode == Move {
		c.commitMove()
	}
	c.drawMode = m
	c.emit(DrawModeEvent{m})
}

// SetEraseOnMove controls whether moving a selection clears its original
// location. Turning it off duplicates the selection instead.
func (c *Canvas) SetEraseOnMove(erase bool) {
	c.ctx.eraseOnMove = erase
}

// Resize changes the canvas dimensions keeping the overlapping pixels.
func (c *Canvas) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	c.ResetDrawContext()
	c.emit(CheckpointEvent{"resize"})
	c.replaceGrid(c.grid.Resize(width, height), User)
	return nil
}

// Clear empties every pixel.
func (c *Canvas) Clear() {
	c.ResetDrawContext()
	c.emit(CheckpointEvent{"clear"})
	c.grid.Fill(c.grid.Bounds(), Empty)
	c.emit(GridEvent{User})
	c.emit(CheckpointEvent{"clear"})
}

// Load replaces every pixel with a copy of g, taking its dimensions.
func (c *Canvas) Load(g *Grid) {
	c.ResetDrawContext()
	c.emit(CheckpointEvent{"load"})
	c.replaceGrid(g.Clone(), User)
	c.emit(CheckpointEvent{"load"})
}

// SetPixel sets a single committed pixel outside of any gesture.
func (c *Canvas) SetPixel(pt image.Point, p Pixel, b Behavior) {
	if !pt.In(c.Bounds()) || c.grid.At(pt.X, pt.Y) == p {
		return
	}
	c.grid.Set(pt.X, pt.Y, p)
	c.emit(PixelEvent{pt, p, b})
}

func (c *Canvas) replaceGrid(g *Grid, b Behavior) {
	resized := g.Width() != c.grid.Width() || g.Height() != c.grid.Height()
	c.grid = g
	if resized || c.overlay == nil {
		c.overlay = newLayer(g.Width(), g.Height())
	} else {
		c.overlay.clear()
	}
	if resized {
		c.emit(DimensionsEvent{g.Width(), g.Height(), b})
	}
	c.emit(GridEvent{b})
}
