package convert

import (
	"image"
	"image/color"
)

// opaque reports whether c is solid enough to count as a colour
func opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a >= 0x8000
}

// key returns c as a comparable colour with alpha flattened
func key(c color.Color) color.RGBA {
	if !opaque(c) {
		return color.RGBA{}
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff}
}

func countColors(m image.Image, r image.Rectangle) map[color.RGBA]int {
	colors := make(map[color.RGBA]int)
	r = r.Intersect(m.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if c := m.At(x, y); opaque(c) {
				colors[key(c)]++
			}
		}
	}
	return colors
}

func uniqueColors(m image.Image, r image.Rectangle) color.Palette {
	h := countColors(m, r)
	p := make(color.Palette, 0, len(h))
	for c := range h {
		p = append(p, c)
	}
	sortPalette(p)
	return p
}

// sortPalette orders p by packed RGB so results don't depend on map order
func sortPalette(p color.Palette) {
	less := func(a, b color.Color) bool {
		ka, kb := key(a), key(b)
		return uint32(ka.R)<<16|uint32(ka.G)<<8|uint32(ka.B) < uint32(kb.R)<<16|uint32(kb.G)<<8|uint32(kb.B)
	}
	for i := 1; i < len(p); i++ {
		for j := i; j > 0 && less(p[j], p[j-1]); j-- {
			p[j], p[j-1] = p[j-1], p[j]
		}
	}
}

// Copied from color.sqDiff
func sqDiff(x, y uint32) uint32 {
	d := x - y
	return (d * d) >> 2
}

func distance(c1, c2 color.Color) uint32 {
	r1, g1, b1, _ := c1.RGBA()
	r2, g2, b2, _ := c2.RGBA()
	return sqDiff(r1, r2) + sqDiff(g1, g2) + sqDiff(b1, b2)
}

// Return the two closest colors in a given palette
func closestColors(p color.Palette) (color.Color, color.Color) {
	var rc1, rc2 color.Color
	bestSum := uint32(1<<32 - 1)
	for i, c1 := range p {
		for j, c2 := range p {
			if i != j { // Ignore comparing ourselves
				if sum := distance(c1, c2); sum < bestSum {
					bestSum, rc1, rc2 = sum, c1, c2
				}
			}
		}
	}
	return rc1, rc2
}

// Replace all occurrences of one color within r with another
func replaceColor(m *image.RGBA, r image.Rectangle, o, n color.Color) {
	ko, kn := key(o), key(n)
	r = r.Intersect(m.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if c := m.RGBAAt(x, y); opaque(c) && key(c) == ko {
				m.SetRGBA(x, y, kn)
			}
		}
	}
}

// Colors in p2 but not in p1
func paletteDifference(p1, p2 color.Palette) (d color.Palette) {
	m := make(map[color.RGBA]struct{})
	for _, c := range p1 {
		m[key(c)] = struct{}{}
	}
	for _, c := range p2 {
		if _, ok := m[key(c)]; !ok {
			d = append(d, c)
		}
	}
	return
}
