package palette

import "fmt"

// Rough NTSC approximations of the hue/luminance values commonly used as
// MARIA start-up palettes
var defaultColors = [HardwarePalettes][ColorsPerPalette]Color{
	{{0x84, 0x84, 0x84}, {0xbb, 0xbb, 0xbb}, {0xec, 0xec, 0xec}},
	{{0xa0, 0x34, 0x00}, {0xd8, 0x6c, 0x10}, {0xfc, 0xbc, 0x74}},
	{{0x1c, 0x20, 0x9c}, {0x48, 0x48, 0xe0}, {0x8c, 0x8c, 0xfc}},
	{{0x00, 0x70, 0x00}, {0x2c, 0xb0, 0x28}, {0x7c, 0xe0, 0x70}},
	{{0xb0, 0x24, 0x44}, {0xe8, 0x5c, 0x80}, {0xfc, 0xa0, 0xc0}},
	{{0x6c, 0x00, 0x90}, {0xa0, 0x38, 0xcc}, {0xd4, 0x84, 0xfc}},
	{{0x84, 0x68, 0x00}, {0xb8, 0x9c, 0x24}, {0xe8, 0xd0, 0x60}},
	{{0x00, 0x60, 0x64}, {0x24, 0x98, 0x98}, {0x68, 0xd0, 0xcc}},
}

// Default returns a new palette set of eight palettes suitable for every
// display mode.
func Default() *Set {
	s := &Set{
		ID:         "default",
		Name:       "Default",
		Background: Color{0x00, 0x00, 0x00},
	}
	for i, colors := range defaultColors {
		p := &Palette{
			ID:     fmt.Sprintf("default-%d", i),
			Colors: make([]Color, ColorsPerPalette),
		}
		copy(p.Colors, colors[:])
		s.Palettes = append(s.Palettes, p)
	}
	return s
}
