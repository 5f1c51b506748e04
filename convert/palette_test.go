package convert

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/a78paint/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	red     = color.RGBA{0xff, 0x00, 0x00, 0xff}
	green   = color.RGBA{0x00, 0xff, 0x00, 0xff}
	blue    = color.RGBA{0x00, 0x00, 0xff, 0xff}
	cyan    = color.RGBA{0x00, 0xff, 0xff, 0xff}
	magenta = color.RGBA{0xff, 0x00, 0xff, 0xff}
	yellow  = color.RGBA{0xff, 0xff, 0x00, 0xff}
)

// zones returns a 8 pixel wide image with one band of zoneHeight rows per
// entry, each band painted white apart from one pixel of each colour
func zones(zoneHeight int, bands ...[]color.RGBA) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, 8, zoneHeight*len(bands)))
	for y := 0; y < m.Bounds().Dy(); y++ {
		for x := 0; x < 8; x++ {
			m.SetRGBA(x, y, white)
		}
	}
	for i, band := range bands {
		for x, c := range band {
			m.SetRGBA(x, i*zoneHeight, c)
		}
	}
	return m
}

func colors(p *palette.Palette) []color.RGBA {
	out := make([]color.RGBA, len(p.Colors))
	for i, c := range p.Colors {
		out[i] = color.RGBA{c.R, c.G, c.B, 0xff}
	}
	return out
}

func TestSuggestPalettes(t *testing.T) {
	m := zones(4,
		[]color.RGBA{red, green, blue},
		[]color.RGBA{cyan, magenta, yellow},
		[]color.RGBA{green, red},
	)

	set, z, err := SuggestPalettes(m, 4)
	require.NoError(t, err)
	require.NoError(t, set.CheckHardware())
	assert.Equal(t, palette.Color{R: 0xff, G: 0xff, B: 0xff}, set.Background)
	require.Len(t, z, 3)

	assert.NotEqual(t, z[0], z[1])
	assert.Equal(t, z[0], z[2])
	assert.ElementsMatch(t, []color.RGBA{red, green, blue}, colors(set.Palettes[z[0]]))
	assert.ElementsMatch(t, []color.RGBA{cyan, magenta, yellow}, colors(set.Palettes[z[1]]))
}

func TestSuggestPalettesReducesZone(t *testing.T) {
	m := zones(2, []color.RGBA{red, green, blue, cyan, magenta})

	set, z, err := SuggestPalettes(m, 2)
	require.NoError(t, err)
	require.Len(t, z, 1)

	// Every colour kept is one of the originals
	used := colors(set.Palettes[z[0]])
	for _, c := range used {
		assert.Contains(t, []color.RGBA{red, green, blue, cyan, magenta}, c)
	}
}

func TestSuggestPalettesTooManyZones(t *testing.T) {
	// Ten zones each needing three colours of their own can't fit in
	// eight palettes so the colours get reduced until they do
	var bands [][]color.RGBA
	for i := 0; i < 10; i++ {
		v := uint8(i * 20)
		bands = append(bands, []color.RGBA{{v, 0, 0, 0xff}, {0, v, 0x10, 0xff}, {0x10, 0x10, v, 0xff}})
	}
	m := zones(1, bands...)

	set, z, err := SuggestPalettes(m, 1)
	require.NoError(t, err)
	assert.Len(t, set.Palettes, palette.HardwarePalettes)
	assert.Len(t, z, 10)
	for _, i := range z {
		assert.True(t, i >= 0 && i < palette.HardwarePalettes)
	}
}

func TestSuggestPalettesEmpty(t *testing.T) {
	_, _, err := SuggestPalettes(image.NewRGBA(image.Rect(0, 0, 4, 4)), 1)
	assert.Error(t, err)
}

func TestPackPalette(t *testing.T) {
	in := []paletteMap{
		{palette: color.Palette{red, green, blue}, zones: []int{0}},
		{palette: color.Palette{cyan, yellow}, zones: []int{1}},
		{palette: color.Palette{green}, zones: []int{2}},
		{palette: color.Palette{magenta}, zones: []int{3}},
	}

	out, ok := packPalette(in, []paletteMap{})
	require.True(t, ok)
	require.Len(t, out, 2)
	assert.Equal(t, []int{0, 2}, out[0].zones)
	assert.Equal(t, []int{1, 3}, out[1].zones)
	assert.Len(t, out[1].palette, 3)

	// The input is left untouched
	assert.Len(t, in[1].palette, 2)
}
