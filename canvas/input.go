package canvas

import "image"

func (c *Canvas) setState(s DrawState) {
	c.ctx.state = s
	c.emit(DrawStateEvent{s, c.ctx.selection})
}

// PointerDown starts a gesture at pixel pt with the active tool. A gesture
// still pending from a lost pointer-up is finished first.
func (c *Canvas) PointerDown(pt image.Point, mods Modifiers) {
	c.finishGesture()
	c.setHover(pt)

	// Every tool but move drops the selection, which resets the context
	if c.drawMode != Move {
		c.deselect()
	}
	c.ctx.origin = pt
	c.ctx.offset = image.Point{}
	c.ctx.hasLast = false

	switch c.drawMode {
	case Select:
		c.ctx.selection = c.selectionRect(pt, pt)
		c.setState(Selecting)
	case Move:
		if c.ctx.state != Selected || c.ctx.selection.Empty() {
			return
		}
		if c.ctx.moved == nil {
			c.emit(CheckpointEvent{"move"})
		}
		c.ctx.last, c.ctx.hasLast = pt, true
		c.setState(Moving)
	case Draw, Erase, Fill, Line, Rect, RectFilled, Ellipse, EllipseFilled, Dropper:
		c.emit(CheckpointEvent{"gesture"})
		c.ctx.erasing = c.drawMode == Erase || mods.Erase
		c.setState(Drawing)
		c.apply(pt)
	default:
		panic(unreachable("draw mode", int(c.drawMode)))
	}
}

// PointerMove continues the current gesture at pixel pt.
func (c *Canvas) PointerMove(pt image.Point) {
	c.setHover(pt)

	switch c.ctx.state {
	case Drawing:
		c.apply(pt)
	case Selecting:
		r := c.selectionRect(c.ctx.origin, pt)
		if r != c.ctx.selection {
			c.ctx.selection = r
			c.emit(DrawStateEvent{Selecting, r})
		}
	case Moving:
		c.move(pt)
	case Idle, Selected:
	default:
		panic(unreachable("draw state", int(c.ctx.state)))
	}
}

// PointerUp ends the current gesture.
func (c *Canvas) PointerUp() {
	c.finishGesture()
}

// PointerLeave reports the pointer has left the canvas.
func (c *Canvas) PointerLeave() {
	if c.hovering {
		c.hovering = false
		c.emit(HoverEvent{c.hover, false})
	}
}

// ResetDrawContext finishes any gesture, commits moved pixels and returns
// to the idle state.
func (c *Canvas) ResetDrawContext() {
	c.finishGesture()
	c.deselect()
	if c.ctx.state != Idle {
		c.setState(Idle)
	}
}

func (c *Canvas) setHover(pt image.Point) {
	inside := pt.In(c.Bounds())
	if pt != c.hover || inside != c.hovering {
		c.hover, c.hovering = pt, inside
		c.emit(HoverEvent{pt, inside})
	}
}

// finishGesture ends an in-flight drawing, selecting or moving gesture
func (c *Canvas) finishGesture() {
	switch c.ctx.state {
	case Drawing:
		if c.drawMode.isShape() {
			c.emitPoints(c.overlay.commit(c.grid), User)
		}
		c.ctx = newDrawContext()
		c.setState(Idle)
	case Selecting:
		if c.ctx.selection.Empty() {
			c.ctx.selection = image.Rectangle{}
			c.setState(Idle)
			return
		}
		c.setState(Selected)
	case Moving:
		c.setState(Selected)
	case Idle, Selected:
	default:
		panic(unreachable("draw state", int(c.ctx.state)))
	}
}

// deselect commits any moved pixels and drops the selection
func (c *Canvas) deselect() {
	if c.ctx.state != Selected {
		return
	}
	c.commitMove()
	c.ctx = newDrawContext()
	c.setState(Idle)
}

// commitMove copies the moved pixels back into the grid at the current
// selection, handing them back from the overlay to the canonical grid
func (c *Canvas) commitMove() {
	if c.ctx.moved == nil {
		return
	}
	c.overlay.clear()
	points := c.grid.Blit(c.ctx.moved, c.ctx.selection.Min)
	c.ctx.moved = nil
	c.ctx.eraseOnMove = true
	c.emitPoints(points, User)
}

func (c *Canvas) selectionRect(a, b image.Point) image.Rectangle {
	r := image.Rect(a.X, a.Y, b.X, b.Y)
	r.Max = r.Max.Add(image.Point{1, 1})
	return r.Intersect(c.Bounds())
}

// apply runs the drawing tool at pt
func (c *Canvas) apply(pt image.Point) {
	if c.ctx.hasLast && c.ctx.last == pt {
		return
	}
	c.ctx.last, c.ctx.hasLast = pt, true

	p := c.color
	if c.ctx.erasing {
		p = Empty
	}

	switch c.drawMode {
	case Draw, Erase:
		c.SetPixel(pt, p, User)
	case Fill:
		if pt.In(c.Bounds()) {
			c.emitPoints(c.grid.floodFill(pt, p), User)
		}
	case Line, Rect, RectFilled, Ellipse, EllipseFilled:
		c.overlay.clear()
		rasterize(c.drawMode, c.ctx.origin, pt, c.Bounds(), func(q image.Point) {
			c.overlay.set(q, p)
		})
		c.emit(DrawStateEvent{Drawing, image.Rectangle{}})
	case Dropper:
		// Pixels left over from another display mode may hold indices
		// the current one doesn't have
		if v := c.grid.At(pt.X, pt.Y); v != Empty && v != c.color {
			if colors, err := c.Colors(); err == nil && int(v) < len(colors) {
				c.color = v
				c.emit(ColorEvent{v})
			}
		}
	case Select, Move:
	default:
		panic(unreachable("draw mode", int(c.drawMode)))
	}
}

// move translates the selection so its offset from where the gesture
// started matches the pointer
func (c *Canvas) move(pt image.Point) {
	if c.ctx.hasLast && c.ctx.last == pt {
		return
	}
	delta := pt.Sub(c.ctx.last)
	c.ctx.last, c.ctx.hasLast = pt, true
	c.ctx.offset = pt.Sub(c.ctx.origin)

	if c.ctx.moved == nil {
		c.ctx.moved = c.grid.Sub(c.ctx.selection)
		if c.ctx.eraseOnMove {
			c.emitPoints(c.grid.Fill(c.ctx.selection, Empty), User)
		}
	}

	c.ctx.selection = c.ctx.selection.Add(delta)
	c.redrawMoved()
	c.emit(DrawStateEvent{Moving, c.ctx.selection})
}

func (c *Canvas) redrawMoved() {
	c.overlay.clear()
	if c.ctx.moved != nil {
		c.overlay.blit(c.ctx.moved, c.ctx.selection.Min)
	}
}
