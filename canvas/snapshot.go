package canvas

// Snapshot is a copy of the committed pixels and dimensions of a canvas,
// used as an undo checkpoint.
type Snapshot struct {
	grid *Grid
	hash uint32
}

// Snapshot returns a checkpoint of the committed pixels. Transient pixels
// are not included.
func (c *Canvas) Snapshot() *Snapshot {
	return &Snapshot{
		grid: c.grid.Clone(),
		hash: c.grid.Hash(),
	}
}

// Hash returns a hash of the content and dimensions.
func (s *Snapshot) Hash() uint32 { return s.hash }

// Equal reports whether both checkpoints hold the same pixels and
// dimensions. Matching hashes alone don't prove that.
func (s *Snapshot) Equal(o *Snapshot) bool {
	return s.hash == o.hash && s.grid.Equal(o.grid)
}

// Width returns the width of the checkpoint.
func (s *Snapshot) Width() int { return s.grid.Width() }

// Height returns the height of the checkpoint.
func (s *Snapshot) Height() int { return s.grid.Height() }

// Restore replaces the canvas pixels and dimensions with the checkpoint.
// Any transient state is discarded rather than committed.
func (c *Canvas) Restore(s *Snapshot) {
	c.overlay.clear()
	state := c.ctx.state
	c.ctx = newDrawContext()
	if state != Idle {
		c.setState(Idle)
	}
	c.replaceGrid(s.grid.Clone(), Internal)
}
