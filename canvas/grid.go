package canvas

import (
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
)

// Pixel holds a mode colour index. Its meaning depends on the display mode
// and palette of the canvas it belongs to.
type Pixel int16

// Empty is an uncoloured pixel.
const Empty Pixel = -1

// Index returns the mode colour index, ok is false for an empty pixel.
func (p Pixel) Index() (int, bool) {
	if p < 0 {
		return 0, false
	}
	return int(p), true
}

type jsonPixel struct {
	ModeColorIndex *int `json:"modeColorIndex"`
}

// MarshalJSON encodes the pixel as {"modeColorIndex": n} or
// {"modeColorIndex": null}.
func (p Pixel) MarshalJSON() ([]byte, error) {
	var j jsonPixel
	if i, ok := p.Index(); ok {
		j.ModeColorIndex = &i
	}
	return json.Marshal(j)
}

// Grid is a rectangular matrix of pixels stored row-major in a single
// backing slice.
type Grid struct {
	width, height int
	cells         []Pixel
}

// NewGrid returns a width by height grid of empty pixels. It panics if
// either dimension isn't positive.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		panic(ErrBadDimensions)
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Pixel, width*height),
	}
	for i := range g.cells {
		g.cells[i] = Empty
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Bounds returns the rectangle covering every cell.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

func (g *Grid) offset(x, y int) int {
	return y*g.width + x
}

// At returns the pixel at (x, y), or Empty outside the grid.
func (g *Grid) At(x, y int) Pixel {
	if !(image.Point{x, y}).In(g.Bounds()) {
		return Empty
	}
	return g.cells[g.offset(x, y)]
}

// Set stores the pixel at (x, y), ignoring points outside the grid.
func (g *Grid) Set(x, y int, p Pixel) {
	if !(image.Point{x, y}).In(g.Bounds()) {
		return
	}
	g.cells[g.offset(x, y)] = p
}

// Row returns the mode colour indices of row y with empty pixels as -1.
func (g *Grid) Row(y int) []int {
	row := make([]int, g.width)
	for x := range row {
		row[x] = int(g.cells[g.offset(x, y)])
	}
	return row
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	dup := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make([]Pixel, len(g.cells)),
	}
	copy(dup.cells, g.cells)
	return dup
}

// Resize returns a copy of the grid with new dimensions. The overlapping
// region is kept and new cells are empty.
func (g *Grid) Resize(width, height int) *Grid {
	dup := NewGrid(width, height)
	dup.Blit(g, image.Point{})
	return dup
}

// Sub returns a copy of the cells within r. Parts of r outside the grid are
// empty. It returns nil if r is empty.
func (g *Grid) Sub(r image.Rectangle) *Grid {
	if r.Empty() {
		return nil
	}
	dup := NewGrid(r.Dx(), r.Dy())
	for y := 0; y < dup.height; y++ {
		for x := 0; x < dup.width; x++ {
			dup.cells[dup.offset(x, y)] = g.At(r.Min.X+x, r.Min.Y+y)
		}
	}
	return dup
}

// Blit copies src into the grid with its top-left corner at pt, clipped to
// the grid. It returns the points written.
func (g *Grid) Blit(src *Grid, pt image.Point) []image.Point {
	r := src.Bounds().Add(pt).Intersect(g.Bounds())
	points := make([]image.Point, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.cells[g.offset(x, y)] = src.cells[src.offset(x-pt.X, y-pt.Y)]
			points = append(points, image.Point{x, y})
		}
	}
	return points
}

// Fill sets every cell within r to p and returns the points written.
func (g *Grid) Fill(r image.Rectangle, p Pixel) []image.Point {
	r = r.Intersect(g.Bounds())
	points := make([]image.Point, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.cells[g.offset(x, y)] = p
			points = append(points, image.Point{x, y})
		}
	}
	return points
}

// Equal reports whether both grids have the same dimensions and content.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Hash returns a CRC-32 of the dimensions and content.
func (g *Grid) Hash() uint32 {
	h := crc32.NewIEEE()
	var tmp [8]byte
	binary.LittleEndian.PutUint32(tmp[0:], uint32(g.width))
	binary.LittleEndian.PutUint32(tmp[4:], uint32(g.height))
	h.Write(tmp[:])
	b := make([]byte, 2*len(g.cells))
	for i, p := range g.cells {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(p))
	}
	h.Write(b)
	return h.Sum32()
}

// layer is a transient overlay the size of the canvas. Only cells that have
// been set are drawn over the canonical grid.
type layer struct {
	grid   *Grid
	mask   []bool
	points []image.Point
}

func newLayer(width, height int) *layer {
	return &layer{
		grid: NewGrid(width, height),
		mask: make([]bool, width*height),
	}
}

func (l *layer) set(pt image.Point, p Pixel) {
	if !pt.In(l.grid.Bounds()) {
		return
	}
	i := l.grid.offset(pt.X, pt.Y)
	if !l.mask[i] {
		l.mask[i] = true
		l.points = append(l.points, pt)
	}
	l.grid.cells[i] = p
}

func (l *layer) at(pt image.Point) (Pixel, bool) {
	if !pt.In(l.grid.Bounds()) {
		return Empty, false
	}
	i := l.grid.offset(pt.X, pt.Y)
	return l.grid.cells[i], l.mask[i]
}

func (l *layer) blit(src *Grid, pt image.Point) {
	r := src.Bounds().Add(pt).Intersect(l.grid.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			l.set(image.Point{x, y}, src.cells[src.offset(x-pt.X, y-pt.Y)])
		}
	}
}

func (l *layer) clear() {
	for _, pt := range l.points {
		i := l.grid.offset(pt.X, pt.Y)
		l.mask[i] = false
		l.grid.cells[i] = Empty
	}
	l.points = l.points[:0]
}

// commit copies every set cell into g and clears the layer. It returns the
// points written.
func (l *layer) commit(g *Grid) []image.Point {
	points := make([]image.Point, 0, len(l.points))
	for _, pt := range l.points {
		if pt.In(g.Bounds()) {
			g.Set(pt.X, pt.Y, l.grid.cells[l.grid.offset(pt.X, pt.Y)])
			points = append(points, pt)
		}
	}
	l.clear()
	return points
}
