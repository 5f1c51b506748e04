package main

import (
	"fmt"
	"image"
	"io"
	"log"
	"strings"

	"github.com/bodgit/a78paint"
	"github.com/bodgit/a78paint/canvas"
	"github.com/bodgit/a78paint/render"
	"github.com/bodgit/a78paint/undo"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const editHelp = `Left button draws, right button erases.

Tools: d draw, e erase, f fill, l line, r rect, R filled rect, o ellipse,
O filled ellipse, s select, m move, i dropper.

[ and ] change colour, u undo, y redo, a select all, c copy, v paste,
x erase selection, k crop, h flip across, j flip down, K kangaroo,
Esc deselect, w save, q quit.`

var toolKeys = map[rune]canvas.DrawMode{
	'd': canvas.Draw,
	'e': canvas.Erase,
	'f': canvas.Fill,
	'l': canvas.Line,
	'r': canvas.Rect,
	'R': canvas.RectFilled,
	'o': canvas.Ellipse,
	'O': canvas.EllipseFilled,
	's': canvas.Select,
	'm': canvas.Move,
	'i': canvas.Dropper,
}

type editor struct {
	file    string
	project *a78paint.Project
	canvas  *canvas.Canvas

	undo     *undo.Controller
	renderer *render.Renderer
	logger   *log.Logger

	app      *tview.Application
	view     *canvasView
	status   *tview.TextView
	messages *tview.TextView
}

// canvasView draws the canvas two image rows per terminal cell using the
// upper half block
type canvasView struct {
	*tview.Box
	ed       *editor
	dragging bool
}

func toColor(r, g, b uint8) tcell.Color {
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (v *canvasView) Draw(screen tcell.Screen) {
	v.Box.DrawForSubclass(screen, v)
	x, y, width, height := v.GetInnerRect()

	img, err := v.ed.renderer.Render(v.ed.canvas)
	if err != nil {
		v.ed.logger.Printf("Render: %v\n", err)
		return
	}
	b := img.Bounds()

	for cy := 0; cy < height; cy++ {
		for cx := 0; cx < width; cx++ {
			top, bottom := image.Pt(cx, cy*2), image.Pt(cx, cy*2+1)
			if !top.In(b) {
				continue
			}
			style := tcell.StyleDefault
			t := img.RGBAAt(top.X, top.Y)
			style = style.Foreground(toColor(t.R, t.G, t.B))
			if bottom.In(b) {
				u := img.RGBAAt(bottom.X, bottom.Y)
				style = style.Background(toColor(u.R, u.G, u.B))
			}
			screen.SetContent(x+cx, y+cy, '▀', nil, style)
		}
	}
}

// pixel returns the canvas pixel under the terminal position
func (v *canvasView) pixel(event *tcell.EventMouse) image.Point {
	mx, my := event.Position()
	x, y, _, _ := v.GetInnerRect()
	return v.ed.renderer.PointAt(v.ed.canvas, image.Pt(mx-x, (my-y)*2))
}

func (v *canvasView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
	return v.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
		c := v.ed.canvas
		inside := v.InRect(event.Position())
		if !inside && !v.dragging {
			c.PointerLeave()
			return false, nil
		}
		defer v.ed.refresh()

		switch action {
		case tview.MouseLeftDown, tview.MouseRightDown:
			setFocus(v)
			c.PointerDown(v.pixel(event), canvas.Modifiers{Erase: action == tview.MouseRightDown})
			v.dragging = true
			return true, v
		case tview.MouseMove:
			c.PointerMove(v.pixel(event))
			if v.dragging {
				return true, v
			}
			return true, nil
		case tview.MouseLeftUp, tview.MouseRightUp:
			c.PointerUp()
			v.dragging = false
			return true, nil
		}
		return false, nil
	})
}

func (v *canvasView) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return v.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		defer v.ed.refresh()
		if event.Key() == tcell.KeyEsc {
			v.ed.canvas.Deselect()
			return
		}
		if event.Key() == tcell.KeyRune {
			v.ed.key(event.Rune())
		}
	})
}

func (ed *editor) cycleColor(delta int) {
	colors, err := ed.canvas.Colors()
	if err != nil || len(colors) == 0 {
		return
	}
	n := len(colors)
	next := (int(ed.canvas.Color()) + delta + n) % n
	if err := ed.canvas.SetColor(canvas.Pixel(next)); err != nil {
		ed.logger.Printf("Colour: %v\n", err)
	}
}

func (ed *editor) save() {
	ed.undo.Flush()
	if err := ed.project.Save(ed.file); err != nil {
		ed.logger.Printf("Save: %v\n", err)
		return
	}
	ed.logger.Printf("Saved \"%s\"\n", ed.file)
}

func (ed *editor) key(r rune) {
	c := ed.canvas
	if m, ok := toolKeys[r]; ok {
		c.SetDrawMode(m)
		return
	}

	switch r {
	case '[':
		ed.cycleColor(-1)
	case ']':
		ed.cycleColor(1)
	case 'u':
		if !ed.undo.Undo(c) {
			ed.logger.Println("Nothing to undo")
		}
	case 'y':
		if !ed.undo.Redo(c) {
			ed.logger.Println("Nothing to redo")
		}
	case 'a':
		c.SelectAll()
	case 'c':
		if !c.Copy(&ed.project.Clipboard) {
			ed.logger.Println("Nothing selected")
		}
	case 'v':
		if _, err := c.Paste(&ed.project.Clipboard); err != nil {
			ed.logger.Printf("Paste: %v\n", err)
		}
	case 'x':
		c.EraseSelection()
	case 'k':
		c.Crop()
	case 'h':
		if _, err := c.FlipHorizontal(); err != nil {
			ed.logger.Printf("Flip: %v\n", err)
		}
	case 'j':
		c.FlipVertical()
	case 'K':
		c.SetKangaroo(!c.Kangaroo())
	case 'w':
		ed.save()
	case 'q':
		ed.app.Stop()
	}
}

func (ed *editor) refresh() {
	c := ed.canvas
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %dx%d %s  tool %s  state %s", c.Name(), c.Width(), c.Height(), c.Mode(), c.DrawMode(), c.State())
	if colors, err := c.Colors(); err == nil && int(c.Color()) < len(colors) {
		fmt.Fprintf(&b, "  colour %d %s", c.Color(), colors[c.Color()].Label())
	}
	if pt, ok := c.Hover(); ok {
		fmt.Fprintf(&b, "  at %d,%d", pt.X, pt.Y)
	}
	if s := c.Selection(); !s.Empty() {
		fmt.Fprintf(&b, "  selection %dx%d", s.Dx(), s.Dy())
	}
	if ed.undo.CanUndo(c.ID()) {
		b.WriteString("  [undo]")
	}
	if ed.undo.CanRedo(c.ID()) {
		b.WriteString("  [redo]")
	}

	ed.status.SetText(b.String())
}

func edit(file, id string, logger *log.Logger) error {
	p, err := a78paint.LoadProject(file)
	if err != nil {
		return err
	}
	c, err := p.Canvas(id)
	if err != nil {
		return err
	}

	ed := &editor{
		file:     file,
		project:  p,
		canvas:   c,
		logger:   logger,
		app:      tview.NewApplication(),
		status: tview.NewTextView().
			SetWrap(false),
		messages: tview.NewTextView().
			SetMaxLines(100),
	}
	opts := render.DefaultOptions()
	opts.Zoom = 1
	ed.renderer = render.New(opts)

	if logger.Writer() != io.Discard {
		logger.SetOutput(ed.messages)
	}

	ed.undo = undo.New(undo.WithDispatcher(func(fn func()) {
		ed.app.QueueUpdateDraw(func() {
			fn()
			ed.refresh()
		})
	}))
	detach := ed.undo.Attach(c)
	defer detach()
	ed.undo.Push(c)

	ed.view = &canvasView{Box: tview.NewBox(), ed: ed}
	ed.view.SetBorder(true).SetTitle(" " + c.Name() + " ")
	ed.status.SetBackgroundColor(tcell.ColorDarkBlue)

	rows := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ed.view, 0, 1, true).
		AddItem(ed.status, 1, 0, false).
		AddItem(ed.messages, 3, 0, false)

	ed.refresh()
	ed.app.EnableMouse(true)
	return ed.app.SetRoot(rows, true).Run()
}
