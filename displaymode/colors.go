package displaymode

import (
	"fmt"
	"strings"

	"github.com/bodgit/a78paint/palette"
)

// PartKind says where the colour of a part comes from.
type PartKind uint8

// Kinds of part.
const (
	Transparent PartKind = iota
	Background
	PaletteColor
)

// Part is the colour of one hardware pixel.
type Part struct {
	Kind    PartKind
	Palette int // palette index within the set
	Color   int // colour index within the palette
}

var (
	transparentPart = Part{Kind: Transparent}
	backgroundPart  = Part{Kind: Background}
)

func colorPart(p, c int) Part {
	return Part{Kind: PaletteColor, Palette: p, Color: c}
}

// Label returns a short symbolic name used in generated code comments.
func (p Part) Label() string {
	switch p.Kind {
	case Transparent:
		return "T"
	case Background:
		return "BG"
	case PaletteColor:
		return fmt.Sprintf("P%dC%d", p.Palette, p.Color+1)
	default:
		panic(fmt.Errorf("displaymode: unreachable part kind %d", p.Kind))
	}
}

// RGB resolves the part against a palette set. ok is false for transparent
// parts or if the palette colour doesn't exist.
func (p Part) RGB(set *palette.Set) (c palette.Color, ok bool) {
	switch p.Kind {
	case Transparent:
		return c, false
	case Background:
		return set.Background, true
	case PaletteColor:
		pal, err := set.Palette(p.Palette)
		if err != nil {
			return c, false
		}
		return pal.Color(p.Color)
	default:
		panic(fmt.Errorf("displaymode: unreachable part kind %d", p.Kind))
	}
}

// Value is one selectable colour of a display mode, made of one part per
// hardware pixel.
type Value struct {
	Parts []Part
}

func value(parts ...Part) Value {
	return Value{Parts: parts}
}

// Label joins the labels of each part.
func (v Value) Label() string {
	labels := make([]string, len(v.Parts))
	for i, p := range v.Parts {
		labels[i] = p.Label()
	}
	return strings.Join(labels, "|")
}

// Colors returns the ordered list of colours selectable in this mode for the
// given palette. The position within the list is the mode colour index
// stored in each pixel.
func (m Mode) Colors(set *palette.Set, pal *palette.Palette, kangaroo bool) ([]Value, error) {
	p, err := set.Index(pal)
	if err != nil {
		return nil, err
	}

	if m != None {
		if err := set.CheckHardware(); err != nil {
			return nil, err
		}
	}

	zero := transparentPart
	if kangaroo {
		zero = backgroundPart
	}
	bank := p & 0b100

	switch m {
	case None:
		colors := []Value{value(transparentPart), value(backgroundPart)}
		for i, q := range set.Palettes {
			for j := range q.Colors {
				colors = append(colors, value(colorPart(i, j)))
			}
		}
		return colors, nil
	case Mode160A:
		return []Value{
			value(zero),
			value(colorPart(p, 0)),
			value(colorPart(p, 1)),
			value(colorPart(p, 2)),
		}, nil
	case Mode160B:
		colors := []Value{value(zero)}
		for q := 0; q < 4; q++ {
			for c := 0; c < palette.ColorsPerPalette; c++ {
				colors = append(colors, value(colorPart(bank|q, c)))
			}
		}
		return colors, nil
	case Mode320A:
		on := colorPart(p, 1)
		return []Value{
			value(zero, zero),
			value(zero, on),
			value(on, zero),
			value(on, on),
		}, nil
	case Mode320B:
		colors := make([]Value, 0, 16)
		for hi := 0; hi < 4; hi++ {
			for lo := 0; lo < 4; lo++ {
				colors = append(colors, pair(hi, lo, bank, zero))
			}
		}
		return colors, nil
	case Mode320C:
		colors := []Value{value(zero, zero)}
		for q := 0; q < 4; q++ {
			on := colorPart(bank|q, 1)
			colors = append(colors,
				value(zero, on),
				value(on, zero),
				value(on, on),
			)
		}
		return colors, nil
	case Mode320D:
		// The low palette bits supply the second bit of each pixel,
		// P1 for the left pixel of a pair and P0 for the right
		p1, p0 := p>>1&1, p&1
		colors := make([]Value, 0, 4)
		for dl := 0; dl < 2; dl++ {
			for dr := 0; dr < 2; dr++ {
				colors = append(colors, pair(dl<<1|p1, dr<<1|p0, bank, zero))
			}
		}
		return colors, nil
	default:
		panic(unreachable(m))
	}
}

// pair builds the two parts of a 320B/320D pixel pair from their 2-bit
// colour codes
func pair(left, right, bank int, zero Part) Value {
	return value(code(left, right, bank, zero), code(right, left, bank, zero))
}

func code(c, other, bank int, zero Part) Part {
	switch {
	case c != 0:
		return colorPart(bank, c-1)
	case other == 0:
		return zero
	default:
		return backgroundPart
	}
}

// Mapping is a permutation of mode colour indices.
type Mapping []int

// Map returns the image of i. Indices outside the mapping map to
// themselves.
func (m Mapping) Map(i int) int {
	if i < 0 || i >= len(m) {
		return i
	}
	return m[i]
}

func identity(n int) Mapping {
	m := make(Mapping, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// ReflectedColorMapping returns the permutation that mirrors the parts of a
// pixel, used when flipping horizontally. 320D can't be flipped as the
// colour of each part depends on its position within the pair.
func (m Mode) ReflectedColorMapping() (Mapping, error) {
	switch m {
	case None:
		return nil, nil
	case Mode160A, Mode160B:
		return identity(m.NumColors()), nil
	case Mode320A:
		return Mapping{0, 2, 1, 3}, nil
	case Mode320B:
		mapping := make(Mapping, 16)
		for i := range mapping {
			mapping[i] = (i&0x3)<<2 | i>>2
		}
		return mapping, nil
	case Mode320C:
		return Mapping{0, 2, 1, 3, 5, 4, 6, 8, 7, 9, 11, 10, 12}, nil
	case Mode320D:
		return nil, fmt.Errorf("%w: horizontal flip in %s", ErrUnsupportedOperation, m)
	default:
		panic(unreachable(m))
	}
}
