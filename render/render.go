/*
Package render draws a canvas into an RGBA image.

The output is built from stacked surfaces: a checkerboard showing through
transparent pixels, the committed pixels with any transient pixels drawn
over them, optional grid lines, the selection outline and the hovered
pixel.
*/
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/a78paint/canvas"
	"github.com/bodgit/a78paint/displaymode"
	xdraw "golang.org/x/image/draw"
)

// Options control how a canvas is drawn.
type Options struct {
	// Zoom multiplies the on-screen pixel size of the canvas
	Zoom int

	// Grid draws lines between pixels once a pixel is at least this many
	// screen pixels wide and high, zero disables them
	Grid int

	CheckerLight, CheckerDark color.RGBA
	GridColor                 color.RGBA
	HoverColor                color.RGBA
	SelectionColor            color.RGBA
}

// DefaultOptions returns the options used by the editor.
func DefaultOptions() Options {
	return Options{
		Zoom:           8,
		Grid:           6,
		CheckerLight:   color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
		CheckerDark:    color.RGBA{0x99, 0x99, 0x99, 0xff},
		GridColor:      color.RGBA{0x40, 0x40, 0x40, 0x80},
		HoverColor:     color.RGBA{0xff, 0xff, 0xff, 0xc0},
		SelectionColor: color.RGBA{0xff, 0xff, 0x00, 0xff},
	}
}

type checkerKey struct {
	zoom, width, height int
}

// Renderer draws canvases. The checkerboard for each pixel size is built
// once and reused. A Renderer is not safe for concurrent use.
type Renderer struct {
	opts    Options
	checker map[checkerKey]*image.RGBA
}

// New returns a new Renderer.
func New(opts Options) *Renderer {
	if opts.Zoom < 1 {
		opts.Zoom = 1
	}
	return &Renderer{
		opts:    opts,
		checker: make(map[checkerKey]*image.RGBA),
	}
}

// Cell returns the size on screen of one canvas pixel.
func (r *Renderer) Cell(c *canvas.Canvas) image.Point {
	pw, ph := c.PixelSize()
	return image.Point{pw * r.opts.Zoom, ph * r.opts.Zoom}
}

// PointAt maps a screen position within a rendered image to the canvas
// pixel under it.
func (r *Renderer) PointAt(c *canvas.Canvas, p image.Point) image.Point {
	cell := r.Cell(c)
	return image.Point{floorDiv(p.X, cell.X), floorDiv(p.Y, cell.Y)}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// checkerboard returns a single cell of the background with each quarter
// alternating between the light and dark colours
func (r *Renderer) checkerboard(cell image.Point) *image.RGBA {
	key := checkerKey{r.opts.Zoom, cell.X, cell.Y}
	if img, ok := r.checker[key]; ok {
		return img
	}

	img := image.NewRGBA(image.Rectangle{Max: cell})
	hx, hy := max(cell.X/2, 1), max(cell.Y/2, 1)
	for y := 0; y < cell.Y; y++ {
		for x := 0; x < cell.X; x++ {
			if (x/hx+y/hy)%2 == 0 {
				img.SetRGBA(x, y, r.opts.CheckerLight)
			} else {
				img.SetRGBA(x, y, r.opts.CheckerDark)
			}
		}
	}
	r.checker[key] = img
	return img
}

// Render draws the canvas at the configured zoom.
func (r *Renderer) Render(c *canvas.Canvas) (*image.RGBA, error) {
	cell := r.Cell(c)
	bounds := image.Rect(0, 0, c.Width()*cell.X, c.Height()*cell.Y)
	dst := image.NewRGBA(bounds)

	r.drawBackground(dst, c, cell)

	pixels, err := hardware(c, true)
	if err != nil {
		return nil, err
	}
	xdraw.NearestNeighbor.Scale(dst, bounds, pixels, pixels.Bounds(), draw.Over, nil)

	if r.opts.Grid > 0 && cell.X >= r.opts.Grid && cell.Y >= r.opts.Grid {
		r.drawGrid(dst, c, cell)
	}
	r.drawSelection(dst, c, cell)
	r.drawHover(dst, c, cell)

	return dst, nil
}

func (r *Renderer) drawBackground(dst *image.RGBA, c *canvas.Canvas, cell image.Point) {
	tile := r.checkerboard(cell)
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			min := image.Point{x * cell.X, y * cell.Y}
			draw.Draw(dst, image.Rectangle{Min: min, Max: min.Add(cell)}, tile, image.Point{}, draw.Src)
		}
	}
}

func (r *Renderer) drawGrid(dst *image.RGBA, c *canvas.Canvas, cell image.Point) {
	line := image.NewUniform(r.opts.GridColor)
	b := dst.Bounds()
	for x := 1; x < c.Width(); x++ {
		draw.Draw(dst, image.Rect(x*cell.X, b.Min.Y, x*cell.X+1, b.Max.Y), line, image.Point{}, draw.Over)
	}
	for y := 1; y < c.Height(); y++ {
		draw.Draw(dst, image.Rect(b.Min.X, y*cell.Y, b.Max.X, y*cell.Y+1), line, image.Point{}, draw.Over)
	}
}

func outline(dst *image.RGBA, rect image.Rectangle, src image.Image, dashed bool) {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	plot := func(x, y int) {
		if dashed && (x+y)/2%2 != 0 {
			return
		}
		draw.Draw(dst, image.Rect(x, y, x+1, y+1), src, image.Point{}, draw.Over)
	}
	for x := rect.Min.X; x < rect.Max.X; x++ {
		plot(x, rect.Min.Y)
		plot(x, rect.Max.Y-1)
	}
	for y := rect.Min.Y + 1; y < rect.Max.Y-1; y++ {
		plot(rect.Min.X, y)
		plot(rect.Max.X-1, y)
	}
}

func (r *Renderer) drawSelection(dst *image.RGBA, c *canvas.Canvas, cell image.Point) {
	sel := c.Selection()
	if sel.Empty() {
		return
	}
	rect := image.Rect(sel.Min.X*cell.X, sel.Min.Y*cell.Y, sel.Max.X*cell.X, sel.Max.Y*cell.Y)
	outline(dst, rect, image.NewUniform(r.opts.SelectionColor), true)
}

func (r *Renderer) drawHover(dst *image.RGBA, c *canvas.Canvas, cell image.Point) {
	pt, ok := c.Hover()
	if !ok {
		return
	}
	min := image.Point{pt.X * cell.X, pt.Y * cell.Y}
	outline(dst, image.Rectangle{Min: min, Max: min.Add(cell)}, image.NewUniform(r.opts.HoverColor), false)
}

// Image draws the committed pixels at the resolution of the hardware, one
// image pixel per part. Transparent parts are left fully transparent.
func Image(c *canvas.Canvas) (*image.RGBA, error) {
	return hardware(c, false)
}

func hardware(c *canvas.Canvas, transient bool) (*image.RGBA, error) {
	colors, err := c.Colors()
	if err != nil {
		return nil, err
	}
	set := c.PaletteSet()
	parts := c.Mode().PartsPerPixel()

	rgba := make([]color.RGBA, len(colors)*parts)
	opaque := make([]bool, len(rgba))
	for i, v := range colors {
		for k, part := range v.Parts {
			if rgb, ok := part.RGB(set); ok {
				rgba[i*parts+k] = color.RGBA{rgb.R, rgb.G, rgb.B, 0xff}
				opaque[i*parts+k] = true
			}
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, c.Width()*parts, c.Height()))
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			pt := image.Point{x, y}
			p := c.Pixel(pt)
			if transient {
				if q, ok := c.Transient(pt); ok {
					p = q
				}
			}
			i, ok := p.Index()
			if !ok || i >= len(colors) {
				continue
			}
			for k := 0; k < parts; k++ {
				if opaque[i*parts+k] {
					img.SetRGBA(x*parts+k, y, rgba[i*parts+k])
				}
			}
		}
	}
	return img, nil
}

// Scale returns img enlarged with each pixel repeated sx times across and
// sy times down.
func Scale(img image.Image, sx, sy int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*sx, b.Dy()*sy))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Aspect returns the horizontal and vertical repeat that gives an image
// from Image the proportions of the television picture at the given
// scale. The 160 modes have pixels twice as wide as the 320 modes.
func Aspect(m displaymode.Mode, scale int) (sx, sy int) {
	if scale < 1 {
		scale = 1
	}
	if m != displaymode.None && m.PartsPerPixel() == 1 {
		return 2 * scale, scale
	}
	return scale, scale
}
