/*
Package undo keeps per-canvas checkpoint histories.

Each canvas has a bounded list of snapshots and a pointer to the one the
canvas currently shows. Pushing a snapshot discards anything after the
pointer, so making a change after undoing loses the redo branch. Pushes of
a snapshot identical to the current one are ignored.

Freehand drawing emits many small changes; rather than record each one the
controller can Schedule a push which only happens once the canvas has been
left alone for a short while.
*/
package undo

import (
	"sync"
	"time"

	"github.com/bodgit/a78paint/canvas"
)

const (
	// DefaultLimit is the number of snapshots kept per canvas
	DefaultLimit = 250

	// DefaultDelay is how long a scheduled push waits for the canvas to
	// settle
	DefaultDelay = 250 * time.Millisecond
)

// Direction is the way Apply moves through the history.
type Direction int

// Directions.
const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	switch d {
	case Backward:
		return "undo"
	case Forward:
		return "redo"
	default:
		return "unknown"
	}
}

// Canvas is what the controller needs from a canvas.
type Canvas interface {
	ID() string
	Snapshot() *canvas.Snapshot
	Restore(*canvas.Snapshot)
}

// Dispatcher runs fn on the goroutine that owns the canvases. Scheduled
// pushes fire on a timer goroutine and are handed to the dispatcher.
type Dispatcher func(fn func())

func direct(fn func()) {
	fn()
}

type history struct {
	canvas     Canvas
	snapshots  []*canvas.Snapshot
	pointer    int
	timer      *time.Timer
	generation uint64
}

func (h *history) stop() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.generation++
}

func (h *history) current() *canvas.Snapshot {
	if h.pointer < 0 || h.pointer >= len(h.snapshots) {
		return nil
	}
	return h.snapshots[h.pointer]
}

// Controller records and replays snapshots for any number of canvases,
// keyed by canvas ID.
type Controller struct {
	mu       sync.Mutex
	limit    int
	delay    time.Duration
	dispatch Dispatcher
	contexts map[string]*history
}

// Option configures a Controller.
type Option func(*Controller)

// WithLimit sets the number of snapshots kept per canvas.
func WithLimit(n int) Option {
	return func(u *Controller) {
		if n > 0 {
			u.limit = n
		}
	}
}

// WithDelay sets how long a scheduled push waits.
func WithDelay(d time.Duration) Option {
	return func(u *Controller) {
		u.delay = d
	}
}

// WithDispatcher sets the function used to run scheduled pushes. Without
// one they run directly on the timer goroutine, which is only safe if
// nothing else touches the canvas at the same time.
func WithDispatcher(d Dispatcher) Option {
	return func(u *Controller) {
		if d != nil {
			u.dispatch = d
		}
	}
}

// New returns a new Controller.
func New(options ...Option) *Controller {
	u := &Controller{
		limit:    DefaultLimit,
		delay:    DefaultDelay,
		dispatch: direct,
		contexts: make(map[string]*history),
	}
	for _, o := range options {
		o(u)
	}
	return u
}

func (u *Controller) context(c Canvas) *history {
	h, ok := u.contexts[c.ID()]
	if !ok {
		h = &history{canvas: c, pointer: -1}
		u.contexts[c.ID()] = h
	}
	h.canvas = c
	return h
}

// push must be called with the lock held
func (u *Controller) push(h *history) {
	h.stop()

	s := h.canvas.Snapshot()
	if cur := h.current(); cur != nil && cur.Equal(s) {
		// Nothing changed but any redo branch is still dropped
		h.snapshots = h.snapshots[:h.pointer+1]
		return
	}

	h.snapshots = append(h.snapshots[:h.pointer+1], s)
	if n := len(h.snapshots) - u.limit; n > 0 {
		h.snapshots = append(h.snapshots[:0], h.snapshots[n:]...)
	}
	h.pointer = len(h.snapshots) - 1
}

// Push records the current state of c straight away, cancelling any
// scheduled push.
func (u *Controller) Push(c Canvas) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.push(u.context(c))
}

// Schedule records the current state of c once it has gone unchanged for
// the configured delay. Scheduling again before then restarts the wait.
func (u *Controller) Schedule(c Canvas) {
	u.mu.Lock()
	defer u.mu.Unlock()

	h := u.context(c)
	h.stop()
	generation := h.generation
	h.timer = time.AfterFunc(u.delay, func() {
		u.dispatch(func() {
			u.mu.Lock()
			defer u.mu.Unlock()

			if h.generation != generation {
				return
			}
			h.timer = nil
			u.push(h)
		})
	})
}

// Flush performs every scheduled push now.
func (u *Controller) Flush() {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, h := range u.contexts {
		if h.timer != nil {
			u.push(h)
		}
	}
}

// Apply moves one step through the history of c in direction d and
// restores that snapshot. A scheduled push is performed first so the most
// recent changes can be undone. It returns false if there is nothing to
// move to.
func (u *Controller) Apply(c Canvas, d Direction) bool {
	u.mu.Lock()
	h := u.context(c)
	if h.timer != nil {
		u.push(h)
	}

	pointer := h.pointer
	switch d {
	case Backward:
		pointer--
	case Forward:
		pointer++
	default:
		u.mu.Unlock()
		return false
	}
	if pointer < 0 || pointer >= len(h.snapshots) {
		u.mu.Unlock()
		return false
	}
	h.pointer = pointer
	s := h.snapshots[pointer]
	u.mu.Unlock()

	// Restore outside the lock as it notifies subscribers
	c.Restore(s)
	return true
}

// Undo restores the previous snapshot of c.
func (u *Controller) Undo(c Canvas) bool {
	return u.Apply(c, Backward)
}

// Redo restores the next snapshot of c.
func (u *Controller) Redo(c Canvas) bool {
	return u.Apply(c, Forward)
}

// CanUndo reports whether Undo would succeed without pushing first.
func (u *Controller) CanUndo(id string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	h, ok := u.contexts[id]
	return ok && h.pointer > 0
}

// CanRedo reports whether Redo would succeed.
func (u *Controller) CanRedo(id string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	h, ok := u.contexts[id]
	return ok && h.pointer < len(h.snapshots)-1
}

// Len returns the number of snapshots held for the canvas with the given
// ID.
func (u *Controller) Len(id string) int {
	u.mu.Lock()
	defer u.mu.Unlock()

	if h, ok := u.contexts[id]; ok {
		return len(h.snapshots)
	}
	return 0
}

// Forget drops the history of the canvas with the given ID.
func (u *Controller) Forget(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if h, ok := u.contexts[id]; ok {
		h.stop()
		delete(u.contexts, id)
	}
}

// Clear drops every history and cancels scheduled pushes.
func (u *Controller) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()

	for id, h := range u.contexts {
		h.stop()
		delete(u.contexts, id)
	}
}

// Attach records c automatically. Checkpoint events push straight away
// and pixel changes made by the user schedule a push. Changes the canvas
// makes itself, such as restoring a snapshot, are ignored so they don't
// clobber the redo branch. Call the returned function to detach.
func (u *Controller) Attach(c *canvas.Canvas) func() {
	return c.Subscribe(func(e canvas.Event) {
		var b canvas.Behavior
		switch e := e.(type) {
		case canvas.CheckpointEvent:
			u.Push(c)
			return
		case canvas.PixelEvent:
			b = e.Behavior
		case canvas.PixelsEvent:
			b = e.Behavior
		case canvas.GridEvent:
			b = e.Behavior
		case canvas.DimensionsEvent:
			b = e.Behavior
		default:
			return
		}
		if b == canvas.User {
			u.Schedule(c)
		}
	})
}
