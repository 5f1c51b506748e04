package canvas

import (
	"image"
	"math"
)

// box returns the inclusive bounding box of two corners
func box(a, b image.Point) (min, max image.Point) {
	min, max = a, b
	if min.X > max.X {
		min.X, max.X = max.X, min.X
	}
	if min.Y > max.Y {
		min.Y, max.Y = max.Y, min.Y
	}
	return
}

// ellipseDistance returns (dx²/rx²)+(dy²/ry²) for p relative to the centre
// of the box. grow is added to both radii.
func ellipseDistance(min, max, p image.Point, grow float64) float64 {
	cx := float64(min.X+max.X) / 2
	cy := float64(min.Y+max.Y) / 2
	rx := float64(max.X-min.X)/2 + grow
	ry := float64(max.Y-min.Y)/2 + grow
	dx := float64(p.X) - cx
	dy := float64(p.Y) - cy
	return dx*dx/(rx*rx) + dy*dy/(ry*ry)
}

// onLine reports whether p lies on the line from a to b. Shallow lines are
// parameterised by x and steep ones by y so there are no gaps.
func onLine(a, b, p image.Point) bool {
	if a.X == b.X {
		return p.X == a.X
	}
	slope := float64(b.Y-a.Y) / float64(b.X-a.X)
	if math.Abs(slope) <= 1 {
		y := float64(a.Y) + slope*float64(p.X-a.X)
		return int(math.Round(y)) == p.Y
	}
	x := float64(a.X) + float64(p.Y-a.Y)/slope
	return int(math.Round(x)) == p.X
}

func inShape(m DrawMode, a, b, p image.Point) bool {
	min, max := box(a, b)
	switch m {
	case Line:
		return onLine(a, b, p)
	case Rect:
		return p.X == min.X || p.X == max.X || p.Y == min.Y || p.Y == max.Y
	case RectFilled:
		return true
	case Ellipse:
		if min.X == max.X || min.Y == max.Y {
			return true
		}
		// The ring passes through the centres of the border pixels;
		// scaling by three before rounding keeps it one pixel thick
		return math.Round(ellipseDistance(min, max, p, 0)*3) == 3
	case EllipseFilled:
		// Radii reach the outer edges of the border pixels
		return ellipseDistance(min, max, p, 0.5) < 1
	default:
		panic(unreachable("shape", int(m)))
	}
}

// rasterize calls fn for every pixel of the shape dragged from a to b that
// falls within bounds
func rasterize(m DrawMode, a, b image.Point, bounds image.Rectangle, fn func(image.Point)) {
	min, max := box(a, b)
	r := image.Rectangle{Min: min, Max: max.Add(image.Point{1, 1})}.Intersect(bounds)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := image.Point{x, y}
			if inShape(m, a, b, p) {
				fn(p)
			}
		}
	}
}

// floodFill replaces the 4-connected region of pixels matching the pixel
// at start with p. The stack never holds more entries than the grid has
// cells as each is marked visited before being pushed.
func (g *Grid) floodFill(start image.Point, p Pixel) []image.Point {
	target := g.At(start.X, start.Y)
	if target == p || !start.In(g.Bounds()) {
		return nil
	}

	visited := make([]bool, len(g.cells))
	stack := make([]image.Point, 0, 64)
	visited[g.offset(start.X, start.Y)] = true
	stack = append(stack, start)

	var points []image.Point
	neighbours := [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		g.cells[g.offset(pt.X, pt.Y)] = p
		points = append(points, pt)

		for _, d := range neighbours {
			n := pt.Add(d)
			if !n.In(g.Bounds()) {
				continue
			}
			i := g.offset(n.X, n.Y)
			if visited[i] || g.cells[i] != target {
				continue
			}
			visited[i] = true
			stack = append(stack, n)
		}
	}

	return points
}
