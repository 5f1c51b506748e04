package convert

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/bodgit/a78paint/canvas"
	"github.com/bodgit/a78paint/displaymode"
	"github.com/bodgit/a78paint/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func target(mode displaymode.Mode, kangaroo bool) Target {
	set := palette.Default()
	return Target{
		Mode:     mode,
		Set:      set,
		Palette:  set.Palettes[0],
		Kangaroo: kangaroo,
	}
}

func rgba(c palette.Color) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 0xff}
}

func strip(colors ...color.RGBA) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, len(colors), 1))
	for x, c := range colors {
		m.SetRGBA(x, 0, c)
	}
	return m
}

func TestConvert160A(t *testing.T) {
	tgt := target(displaymode.Mode160A, false)
	pal := tgt.Palette.Colors
	m := strip(rgba(pal[0]), rgba(pal[2]), color.RGBA{}, rgba(pal[1]))

	g, err := Convert(m, tgt, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, -1, 2}, g.Row(0))
}

func TestConvert320A(t *testing.T) {
	tgt := target(displaymode.Mode320A, false)
	on := rgba(tgt.Palette.Colors[1])
	off := color.RGBA{}
	m := strip(off, on, on, off, on, on, off, off)

	g, err := Convert(m, tgt, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, g.Width())
	assert.Equal(t, []int{1, 2, 3, -1}, g.Row(0))
}

func TestConvertKangaroo(t *testing.T) {
	tgt := target(displaymode.Mode160A, true)
	m := strip(color.RGBA{1, 1, 1, 0xff}, rgba(tgt.Palette.Colors[2]), color.RGBA{}, color.RGBA{0, 0, 0, 0xff})

	g, err := Convert(m, tgt, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, -1, 0}, g.Row(0))
}

func TestConvertSize(t *testing.T) {
	tgt := target(displaymode.Mode160A, false)
	m := image.NewRGBA(image.Rect(10, 10, 15, 13))

	g, err := Convert(m, tgt, Options{})
	require.NoError(t, err)
	assert.Equal(t, 8, g.Width())
	assert.Equal(t, 3, g.Height())

	g, err = Convert(m, tgt, Options{Width: 12, Height: 6})
	require.NoError(t, err)
	assert.Equal(t, 12, g.Width())
	assert.Equal(t, 6, g.Height())

	_, err = Convert(m, tgt, Options{Width: -1})
	assert.ErrorIs(t, err, ErrBadSize)

	_, err = Convert(image.NewRGBA(image.Rectangle{}), tgt, Options{})
	assert.Error(t, err)
}

func TestConvertPadding(t *testing.T) {
	tgt := target(displaymode.Mode160A, false)
	pal := tgt.Palette.Colors
	m := strip(rgba(pal[0]), rgba(pal[2]))

	g, err := Convert(m, tgt, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, -1, -1}, g.Row(0))

	// An explicit width still stretches the image
	g, err = Convert(m, tgt, Options{Width: 4})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 3, 3}, g.Row(0))

	tgt = target(displaymode.Mode320A, false)
	on := rgba(tgt.Palette.Colors[1])
	g, err = Convert(strip(on, on, on, color.RGBA{}, on, on), tgt, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 3, -1}, g.Row(0))
}

func TestConvertQuantizes(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 64, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			m.SetRGBA(x, y, color.RGBA{uint8(x * 4), uint8(y * 16), 0x80, 0xff})
		}
	}

	for _, mode := range displaymode.All() {
		tgt := target(mode, false)
		g, err := Convert(m, tgt, Options{})
		require.NoError(t, err, mode.String())

		colors, err := mode.Colors(tgt.Set, tgt.Palette, false)
		require.NoError(t, err)
		for y := 0; y < g.Height(); y++ {
			for _, v := range g.Row(y) {
				assert.True(t, v >= 0 && v < len(colors), "%s: %d", mode, v)
			}
		}
	}
}

func TestImport(t *testing.T) {
	set := palette.Default()
	c, err := canvas.New(canvas.Config{
		ID:         "test",
		Width:      4,
		Height:     4,
		Mode:       displaymode.Mode160A,
		PaletteSet: set,
	})
	require.NoError(t, err)

	var checkpoints int
	c.Subscribe(func(e canvas.Event) {
		if _, ok := e.(canvas.CheckpointEvent); ok {
			checkpoints++
		}
	})

	m := strip(rgba(set.Palettes[0].Colors[1]), rgba(set.Palettes[0].Colors[1]))
	require.NoError(t, Import(c, m, Options{}))
	assert.Equal(t, 4, c.Width())
	assert.Equal(t, 1, c.Height())
	assert.Equal(t, []int{2, 2, -1, -1}, c.Grid().Row(0))
	assert.Equal(t, 2, checkpoints)
}

func TestDecode(t *testing.T) {
	m := strip(color.RGBA{0xff, 0, 0, 0xff}, color.RGBA{0, 0xff, 0, 0xff})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
	d, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, m.Bounds(), d.Bounds())

	buf.Reset()
	require.NoError(t, bmp.Encode(&buf, m))
	d, format, err = Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, key(m.At(1, 0)), key(d.At(1, 0)))

	_, _, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestClosestColors(t *testing.T) {
	p := color.Palette{
		color.RGBA{0, 0, 0, 0xff},
		color.RGBA{0xff, 0xff, 0xff, 0xff},
		color.RGBA{0xf0, 0xf0, 0xf0, 0xff},
	}
	c1, c2 := closestColors(p)
	assert.ElementsMatch(t, []color.Color{p[1], p[2]}, []color.Color{c1, c2})
}

func TestPaletteDifference(t *testing.T) {
	red, green, blue := color.RGBA{0xff, 0, 0, 0xff}, color.RGBA{0, 0xff, 0, 0xff}, color.RGBA{0, 0, 0xff, 0xff}
	d := paletteDifference(color.Palette{red, green}, color.Palette{green, blue})
	assert.Equal(t, color.Palette{blue}, d)
}
