/*
Package palette implements the colour palettes used by the Atari 7800 pixel
editor.

A palette is an ordered, fixed-length list of RGB colours. The MARIA chip has
eight palettes of three colours each plus a single background colour, so a
Set groups an ordered list of palettes with one background colour. Hardware
display modes address palettes with a 3-bit index which is why a Set used
with them must contain at least eight palettes.
*/
package palette

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
)

const (
	// ColorsPerPalette is the number of colours in each MARIA palette
	ColorsPerPalette = 3

	// HardwarePalettes is the minimum number of palettes required by the
	// hardware display modes
	HardwarePalettes = 8
)

var (
	// ErrPaletteNotFound is returned when a palette is not a member of
	// the set it is looked up in
	ErrPaletteNotFound = errors.New("palette: palette not found")

	// ErrTooFewPalettes is returned when a set has fewer palettes than a
	// display mode can address
	ErrTooFewPalettes = errors.New("palette: not enough palettes in set")

	errBadColor = errors.New("palette: invalid color")
)

// Color is a concrete 24-bit RGB colour. It implements color.Color.
type Color struct {
	R, G, B uint8
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{c.R, c.G, c.B, 0xff}.RGBA()
}

// Hex returns the colour formatted as #rrggbb
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses a colour in #rrggbb form
func ParseHex(s string) (Color, error) {
	var c Color
	if len(s) != 7 || s[0] != '#' {
		return c, errBadColor
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, errBadColor
	}
	return c, nil
}

// MarshalJSON encodes the colour as a #rrggbb string.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

// UnmarshalJSON decodes a #rrggbb string.
func (c *Color) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseHex(s)
	if err != nil {
		return fmt.Errorf("%w: %q", err, s)
	}
	*c = v
	return nil
}

// Palette is an ordered list of colours with a stable id.
type Palette struct {
	ID     string  `json:"id"`
	Colors []Color `json:"colors"`
}

// Color returns the colour at index i, ok is false if there isn't one.
func (p *Palette) Color(i int) (Color, bool) {
	if i < 0 || i >= len(p.Colors) {
		return Color{}, false
	}
	return p.Colors[i], true
}

// Set is an ordered list of palettes plus one background colour.
type Set struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Background Color      `json:"backgroundColor"`
	Palettes   []*Palette `json:"palettes"`
}

// Index returns the position of p within the set.
func (s *Set) Index(p *Palette) (int, error) {
	for i, q := range s.Palettes {
		if q == p || (p != nil && q.ID == p.ID) {
			return i, nil
		}
	}
	return -1, ErrPaletteNotFound
}

// Palette returns the palette at index i.
func (s *Set) Palette(i int) (*Palette, error) {
	if i < 0 || i >= len(s.Palettes) {
		return nil, ErrPaletteNotFound
	}
	return s.Palettes[i], nil
}

// Find returns the palette with the given id.
func (s *Set) Find(id string) (*Palette, bool) {
	for _, p := range s.Palettes {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// CheckHardware returns ErrTooFewPalettes if the set cannot be used with
// the hardware display modes.
func (s *Set) CheckHardware() error {
	if len(s.Palettes) < HardwarePalettes {
		return fmt.Errorf("%w: have %d, need %d", ErrTooFewPalettes, len(s.Palettes), HardwarePalettes)
	}
	return nil
}

// Resolve looks up the palette with the given id across sets. If it can't be
// found the first palette of the first set is returned with found set to
// false.
func Resolve(sets []*Set, id string) (set *Set, p *Palette, found bool) {
	for _, s := range sets {
		if p, ok := s.Find(id); ok {
			return s, p, true
		}
	}
	if len(sets) > 0 && len(sets[0].Palettes) > 0 {
		return sets[0], sets[0].Palettes[0], false
	}
	return nil, nil, false
}
