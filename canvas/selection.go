package canvas

import (
	"fmt"
	"image"

	"github.com/bodgit/a78paint/displaymode"
)

// Clipboard is a single slot copy buffer shared between canvases. It only
// ever holds copies so canvases never share pixels.
type Clipboard struct {
	data *Grid
	mode displaymode.Mode
}

// Empty reports whether nothing has been copied.
func (cb *Clipboard) Empty() bool {
	return cb.data == nil
}

// Mode returns the display mode of the canvas the pixels were copied from.
func (cb *Clipboard) Mode() displaymode.Mode {
	return cb.mode
}

// Data returns a copy of the clipboard contents, nil if it is empty.
func (cb *Clipboard) Data() *Grid {
	if cb.data == nil {
		return nil
	}
	return cb.data.Clone()
}

// selected returns the pixels under the selection, from the moved pixels
// if the selection is being moved
func (c *Canvas) selected() *Grid {
	if c.ctx.moved != nil {
		return c.ctx.moved
	}
	return c.grid.Sub(c.ctx.selection)
}

func (c *Canvas) hasSelection() bool {
	return c.ctx.state == Selected && !c.ctx.selection.Empty()
}

// SelectAll selects the whole canvas.
func (c *Canvas) SelectAll() {
	c.ResetDrawContext()
	c.ctx.selection = c.Bounds()
	c.setState(Selected)
}

// Deselect commits any moved pixels and drops the selection.
func (c *Canvas) Deselect() {
	c.ResetDrawContext()
}

// Copy copies the selected pixels to the clipboard replacing its contents.
// It returns false if there is no selection.
func (c *Canvas) Copy(cb *Clipboard) bool {
	c.finishGesture()
	if !c.hasSelection() {
		return false
	}
	cb.data = c.selected().Clone()
	cb.mode = c.mode
	return true
}

// paste returns the clipboard contents clipped to the canvas
func (cb *Clipboard) paste(c *Canvas) (*Grid, error) {
	if cb.Empty() {
		return nil, nil
	}
	if cb.mode != c.mode {
		return nil, fmt.Errorf("%w: %s into %s", ErrModeMismatch, cb.mode, c.mode)
	}
	r := cb.data.Bounds().Intersect(c.Bounds())
	return cb.data.Sub(r), nil
}

// Paste places the clipboard contents at the top-left corner of the canvas,
// clipped to its size, and switches to the move tool so it can be
// positioned. It returns false if the clipboard is empty and
// ErrModeMismatch if it was copied from a different display mode.
func (c *Canvas) Paste(cb *Clipboard) (bool, error) {
	data, err := cb.paste(c)
	if data == nil || err != nil {
		return false, err
	}

	c.ResetDrawContext()
	c.emit(CheckpointEvent{"paste"})
	c.SetDrawMode(Move)
	c.ctx.selection = data.Bounds()
	c.ctx.moved = data
	c.ctx.eraseOnMove = false
	c.redrawMoved()
	c.setState(Selected)
	return true, nil
}

// Crop replaces the canvas with the selected pixels. The width is rounded up
// to a whole number of bytes. It returns false if there is no selection.
func (c *Canvas) Crop() bool {
	c.finishGesture()
	if !c.hasSelection() {
		return false
	}
	c.commitMove()
	r := c.ctx.selection.Intersect(c.Bounds())
	if r.Empty() {
		return false
	}

	c.emit(CheckpointEvent{"crop"})

	width := r.Dx()
	if ppb := c.mode.PixelsPerByte(); width%ppb != 0 {
		width += ppb - width%ppb
	}
	g := NewGrid(width, r.Dy())
	g.Blit(c.grid.Sub(r), image.Point{})

	c.ctx = newDrawContext()
	c.replaceGrid(g, User)
	c.ctx.selection = g.Bounds()
	c.setState(Selected)

	c.emit(CheckpointEvent{"crop"})
	return true
}

// EraseSelection empties the selected pixels. It returns false if there is
// no selection.
func (c *Canvas) EraseSelection() bool {
	c.finishGesture()
	if !c.hasSelection() {
		return false
	}
	if c.ctx.moved != nil {
		c.ctx.moved.Fill(c.ctx.moved.Bounds(), Empty)
		c.redrawMoved()
		c.emit(DrawStateEvent{c.ctx.state, c.ctx.selection})
		return true
	}
	c.emitPoints(c.grid.Fill(c.ctx.selection, Empty), User)
	return true
}

// FlipHorizontal mirrors the selection left to right, remapping each
// pixel so its parts are mirrored too. It returns false if there is no
// selection or it is a single column, and ErrUnsupportedOperation from the
// displaymode package if the display mode can't be flipped.
func (c *Canvas) FlipHorizontal() (bool, error) {
	c.finishGesture()
	if !c.hasSelection() {
		return false, nil
	}
	mapping, err := c.mode.ReflectedColorMapping()
	if err != nil {
		return false, err
	}
	return c.flip(func(g *Grid, r image.Rectangle) {
		g.flipHorizontal(r, mapping)
	}, c.ctx.selection.Dx()), nil
}

// FlipVertical mirrors the selection top to bottom. It returns false if
// there is no selection or it is a single row.
func (c *Canvas) FlipVertical() bool {
	c.finishGesture()
	if !c.hasSelection() {
		return false
	}
	return c.flip(func(g *Grid, r image.Rectangle) {
		g.flipVertical(r)
	}, c.ctx.selection.Dy())
}

func (c *Canvas) flip(fn func(*Grid, image.Rectangle), n int) bool {
	if n < 2 {
		return false
	}
	if c.ctx.moved != nil {
		fn(c.ctx.moved, c.ctx.moved.Bounds())
		c.redrawMoved()
		c.emit(DrawStateEvent{c.ctx.state, c.ctx.selection})
		return true
	}

	// Flip a copy so a selection hanging off the canvas mirrors around
	// its own centre
	r := c.ctx.selection
	g := c.grid.Sub(r)
	fn(g, g.Bounds())
	c.emitPoints(c.grid.Blit(g, r.Min), User)
	return true
}

func (g *Grid) flipHorizontal(r image.Rectangle, mapping displaymode.Mapping) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for i, j := r.Min.X, r.Max.X-1; i <= j; i, j = i+1, j-1 {
			a, b := g.At(i, y), g.At(j, y)
			g.Set(i, y, reflect(b, mapping))
			if i != j {
				g.Set(j, y, reflect(a, mapping))
			}
		}
	}
}

func (g *Grid) flipVertical(r image.Rectangle) {
	for x := r.Min.X; x < r.Max.X; x++ {
		for i, j := r.Min.Y, r.Max.Y-1; i < j; i, j = i+1, j-1 {
			a, b := g.At(x, i), g.At(x, j)
			g.Set(x, i, b)
			g.Set(x, j, a)
		}
	}
}

func reflect(p Pixel, mapping displaymode.Mapping) Pixel {
	if i, ok := p.Index(); ok {
		return Pixel(mapping.Map(i))
	}
	return p
}
