package undo

import (
	"image"
	"testing"
	"time"

	"github.com/bodgit/a78paint/canvas"
	"github.com/bodgit/a78paint/displaymode"
	"github.com/bodgit/a78paint/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCanvas(t *testing.T, id string) *canvas.Canvas {
	t.Helper()
	set := palette.Default()
	c, err := canvas.New(canvas.Config{
		ID:         id,
		Width:      4,
		Height:     1,
		Mode:       displaymode.Mode160A,
		PaletteSet: set,
	})
	require.NoError(t, err)
	return c
}

func row(c *canvas.Canvas) []int {
	return c.Grid().Row(0)
}

func set(c *canvas.Canvas, x int, p canvas.Pixel) {
	c.SetPixel(image.Point{x, 0}, p, canvas.User)
}

func TestPushUndoRedo(t *testing.T) {
	c := newCanvas(t, "a")
	u := New()

	assert.False(t, u.Undo(c))

	u.Push(c)
	set(c, 0, 1)
	u.Push(c)
	set(c, 1, 2)
	u.Push(c)
	assert.Equal(t, 3, u.Len("a"))

	require.True(t, u.Undo(c))
	assert.Equal(t, []int{1, -1, -1, -1}, row(c))
	require.True(t, u.Undo(c))
	assert.Equal(t, []int{-1, -1, -1, -1}, row(c))
	assert.False(t, u.Undo(c))
	assert.False(t, u.CanUndo("a"))

	require.True(t, u.Redo(c))
	assert.Equal(t, []int{1, -1, -1, -1}, row(c))
	assert.True(t, u.CanRedo("a"))

	// A new change drops the redo branch
	set(c, 3, 3)
	u.Push(c)
	assert.Equal(t, 3, u.Len("a"))
	assert.False(t, u.Redo(c))
	assert.False(t, u.CanRedo("a"))

	require.True(t, u.Undo(c))
	assert.Equal(t, []int{1, -1, -1, -1}, row(c))
}

func TestPushIdentical(t *testing.T) {
	c := newCanvas(t, "a")
	u := New()

	u.Push(c)
	u.Push(c)
	assert.Equal(t, 1, u.Len("a"))

	set(c, 0, 1)
	u.Push(c)
	require.True(t, u.Undo(c))

	// Pushing the state being shown keeps the history but loses redo
	u.Push(c)
	assert.Equal(t, 1, u.Len("a"))
	assert.False(t, u.Redo(c))
}

func TestPushSameHash(t *testing.T) {
	c := newCanvas(t, "a")
	u := New()

	// Different pixels with the same CRC-32
	rows := [2][]int{
		{1, 0, 2, 0, -1, -1, 3, -1, -1, -1, 0, 0, 0, 1, 0, -1},
		{3, 1, 0, 1, -1, 1, 3, 1, 0, -1, 1, 2, 2, 2, -1, 3},
	}
	for _, r := range rows {
		g := canvas.NewGrid(len(r), 1)
		for x, v := range r {
			g.Set(x, 0, canvas.Pixel(v))
		}
		c.Load(g)
		u.Push(c)
	}
	assert.Equal(t, 2, u.Len("a"))

	require.True(t, u.Undo(c))
	assert.Equal(t, rows[0], row(c))
}

func TestLimit(t *testing.T) {
	c := newCanvas(t, "a")
	u := New(WithLimit(3))

	for i := 0; i < 5; i++ {
		set(c, 0, canvas.Pixel(i%4))
		set(c, 1, canvas.Pixel(i/4))
		u.Push(c)
	}
	assert.Equal(t, 3, u.Len("a"))
	assert.True(t, u.Undo(c))
	assert.True(t, u.Undo(c))
	assert.False(t, u.Undo(c))
	assert.Equal(t, []int{2, 0, -1, -1}, row(c))
}

func TestDefaultLimit(t *testing.T) {
	c := newCanvas(t, "a")
	u := New()

	for i := 0; i < DefaultLimit+10; i++ {
		set(c, 0, canvas.Pixel(i%4))
		set(c, 1, canvas.Pixel(i/4%4))
		set(c, 2, canvas.Pixel(i/16%4))
		set(c, 3, canvas.Pixel(i/64%4))
		u.Push(c)
	}
	assert.Equal(t, DefaultLimit, u.Len("a"))
}

func TestSeparateHistories(t *testing.T) {
	a, b := newCanvas(t, "a"), newCanvas(t, "b")
	u := New()

	u.Push(a)
	set(a, 0, 1)
	u.Push(a)
	u.Push(b)

	assert.Equal(t, 2, u.Len("a"))
	assert.Equal(t, 1, u.Len("b"))
	assert.False(t, u.Undo(b))
	assert.True(t, u.Undo(a))

	u.Forget("a")
	assert.Equal(t, 0, u.Len("a"))
	assert.Equal(t, 1, u.Len("b"))

	u.Clear()
	assert.Equal(t, 0, u.Len("b"))
}

func TestAttachGesture(t *testing.T) {
	c := newCanvas(t, "a")
	u := New(WithDelay(time.Hour))
	detach := u.Attach(c)
	defer detach()

	require.NoError(t, c.SetColor(2))
	c.PointerDown(image.Point{0, 0}, canvas.Modifiers{})
	c.PointerMove(image.Point{2, 0})
	c.PointerUp()
	assert.Equal(t, 1, u.Len("a"))

	// The pending push happens before undoing
	require.True(t, u.Undo(c))
	assert.Equal(t, []int{-1, -1, -1, -1}, row(c))
	assert.Equal(t, 2, u.Len("a"))

	// Restoring doesn't schedule anything that would clobber redo
	u.Flush()
	require.True(t, u.Redo(c))
	assert.Equal(t, []int{2, -1, 2, -1}, row(c))
}

func TestAttachResize(t *testing.T) {
	c := newCanvas(t, "a")
	u := New(WithDelay(time.Hour))
	u.Attach(c)

	set(c, 0, 3)
	require.NoError(t, c.Resize(8, 2))
	require.True(t, u.Undo(c))
	assert.Equal(t, 4, c.Width())
	assert.Equal(t, 1, c.Height())
	assert.Equal(t, []int{3, -1, -1, -1}, row(c))

	require.True(t, u.Redo(c))
	assert.Equal(t, 8, c.Width())
	assert.Equal(t, 2, c.Height())
}

func TestDetach(t *testing.T) {
	c := newCanvas(t, "a")
	u := New(WithDelay(time.Hour))
	detach := u.Attach(c)
	detach()

	c.Clear()
	assert.Equal(t, 0, u.Len("a"))
}

func TestScheduleDispatcher(t *testing.T) {
	c := newCanvas(t, "a")
	queue := make(chan func(), 8)
	u := New(WithDelay(time.Millisecond), WithDispatcher(func(fn func()) {
		queue <- fn
	}))
	u.Attach(c)
	u.Push(c)

	set(c, 0, 1)
	select {
	case fn := <-queue:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled push never dispatched")
	}
	assert.Equal(t, 2, u.Len("a"))
}

func TestScheduleCancelled(t *testing.T) {
	c := newCanvas(t, "a")
	queue := make(chan func(), 8)
	u := New(WithDelay(10*time.Millisecond), WithDispatcher(func(fn func()) {
		queue <- fn
	}))

	u.Schedule(c)
	u.Push(c)
	set(c, 0, 1)

	// A callback that fired before being cancelled must be ignored
	select {
	case fn := <-queue:
		fn()
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, 1, u.Len("a"))
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "undo", Backward.String())
	assert.Equal(t, "redo", Forward.String())
}
