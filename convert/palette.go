package convert

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/bodgit/a78paint/palette"
)

const (
	colorsPerPalette = palette.ColorsPerPalette
	maxPalettes      = palette.HardwarePalettes
)

type paletteMap struct {
	palette color.Palette
	zones   []int
}

type byPaletteSize []paletteMap

func (p byPaletteSize) Len() int {
	return len(p)
}

func (p byPaletteSize) Swap(i, j int) {
	p[i], p[j] = p[j], p[i]
}

func (p byPaletteSize) Less(i, j int) bool {
	return len(p[i].palette) < len(p[j].palette)
}

// Variation of bin-packing problem; maxPalettes number of bins each with
// capacity of colorsPerPalette. Based on First Fit Decreasing algorithm;
// relies on the incoming palettes being sorted in decreasing size
func packPalette(in, out []paletteMap) ([]paletteMap, bool) {
	switch {
	case len(in) == 0: // Finished, is it using few enough palettes?
		return out, len(out) <= maxPalettes
	case len(out) == 0: // First step, use the first (biggest) palette
		return packPalette(in[1:], append(out, in[0]))
	case len(out) > maxPalettes:
		return out, false
	default:
		// Loop over each current bin (palette)
		for i := range out {
			d := paletteDifference(out[i].palette, in[0].palette)

			// Either the candidate palette is a subset or the
			// difference can fit in the current palette
			if len(d) == 0 || len(d)+len(out[i].palette) <= colorsPerPalette {
				dup := append(out[:0:0], out...)
				p, z := dup[i].palette, dup[i].zones
				dup[i].palette = append(p[:len(p):len(p)], d...)
				dup[i].zones = append(z[:len(z):len(z)], in[0].zones...)
				if ret, ok := packPalette(in[1:], dup); ok {
					return ret, true
				}
			}
		}
		// Last resort, start a new bin (palette)
		return packPalette(in[1:], append(out[:len(out):len(out)], in[0]))
	}
}

// background returns the most frequent colour
func background(m image.Image) (color.RGBA, bool) {
	var bg color.RGBA
	best := 0
	counts := countColors(m, m.Bounds())
	for _, c := range uniqueColors(m, m.Bounds()) {
		k := key(c)
		if n := counts[k]; n > best {
			bg, best = k, n
		}
	}
	return bg, best > 0
}

func without(p color.Palette, c color.RGBA) color.Palette {
	out := make(color.Palette, 0, len(p))
	for _, q := range p {
		if key(q) != c {
			out = append(out, q)
		}
	}
	return out
}

// reduceZones limits every zone of m to colorsPerPalette colours besides
// the background and tries to pack the zone palettes into maxPalettes
func reduceZones(m *image.RGBA, zoneHeight int, bg color.RGBA) ([]paletteMap, bool) {
	b := m.Bounds()
	global := countColors(m, b)

	var palettes []paletteMap
	for z, y := 0, b.Min.Y; y < b.Max.Y; z, y = z+1, y+zoneHeight {
		r := image.Rect(b.Min.X, y, b.Max.X, y+zoneHeight)
		p := without(uniqueColors(m, r), bg)
		for len(p) > colorsPerPalette {
			// Find the two closest colors
			c1, c2 := closestColors(p)

			// Keep whichever color appears more frequently in the
			// image and replace any occurrence of the other color
			// within the zone
			var c color.Color
			if global[key(c1)] > global[key(c2)] {
				replaceColor(m, r, c2, c1)
				c = c2
			} else {
				replaceColor(m, r, c1, c2)
				c = c1
			}

			// Forget the less frequent color
			i := p.Index(c)
			p = append(p[:i], p[i+1:]...)
		}
		palettes = append(palettes, paletteMap{
			palette: p,
			zones:   []int{z},
		})
	}

	// Sort with biggest palettes first
	sort.Stable(sort.Reverse(byPaletteSize(palettes)))

	return packPalette(palettes, []paletteMap{})
}

// SuggestPalettes builds a palette set able to show m where each zone of
// zoneHeight rows uses one palette. The most frequent colour becomes the
// background. It returns the set and the palette index of every zone.
func SuggestPalettes(m image.Image, zoneHeight int) (*palette.Set, []int, error) {
	b := m.Bounds()
	if b.Empty() {
		return nil, nil, errEmptyImage
	}
	if zoneHeight < 1 {
		zoneHeight = b.Dy()
	}

	src := image.NewRGBA(b.Sub(b.Min))
	draw.Draw(src, src.Bounds(), m, b.Min, draw.Src)

	n := len(countColors(src, src.Bounds()))
	if n == 0 {
		return nil, nil, errEmptyImage
	}
	if limit := 1 + maxPalettes*colorsPerPalette; n > limit {
		n = limit
	}

	// Keep reducing the colors until the palettes can be packed
	for i := n; i >= 1; i-- {
		tmp := image.NewRGBA(src.Bounds())
		copy(tmp.Pix, src.Pix)
		reduce(tmp, i)

		bg, _ := background(tmp)
		packed, ok := reduceZones(tmp, zoneHeight, bg)
		if !ok {
			continue
		}

		zones := make([]int, (src.Bounds().Dy()+zoneHeight-1)/zoneHeight)
		set := &palette.Set{
			ID:         "imported",
			Name:       "Imported",
			Background: palette.Color{R: bg.R, G: bg.G, B: bg.B},
		}
		for i := 0; i < maxPalettes; i++ {
			p := &palette.Palette{
				ID:     fmt.Sprintf("%s-%d", set.ID, i),
				Colors: make([]palette.Color, colorsPerPalette),
			}
			if i < len(packed) {
				for j, c := range packed[i].palette {
					k := key(c)
					p.Colors[j] = palette.Color{R: k.R, G: k.G, B: k.B}
				}
				for _, z := range packed[i].zones {
					zones[z] = i
				}
			}
			set.Palettes = append(set.Palettes, p)
		}
		return set, zones, nil
	}

	return nil, nil, errEmptyImage
}
