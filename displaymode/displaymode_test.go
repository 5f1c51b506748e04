package displaymode

import (
	"testing"

	"github.com/bodgit/a78paint/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, m := range All() {
		got, err := Parse(m.Name())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := Parse("320c")
	require.NoError(t, err)
	assert.Equal(t, Mode320C, got)

	_, err = Parse("640A")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestUnreachable(t *testing.T) {
	assert.Panics(t, func() { Mode(42).PixelsPerByte() })
}

func TestColorsMatchNumColors(t *testing.T) {
	set := palette.Default()
	for _, m := range All() {
		for i, pal := range set.Palettes {
			for _, kangaroo := range []bool{false, true} {
				colors, err := m.Colors(set, pal, kangaroo)
				require.NoError(t, err)
				if m == None {
					assert.Len(t, colors, 2+palette.HardwarePalettes*palette.ColorsPerPalette)
					continue
				}
				assert.Len(t, colors, m.NumColors(), "%s palette %d", m, i)
				for _, c := range colors {
					assert.Len(t, c.Parts, m.PartsPerPixel())
				}
			}
		}
	}
}

func TestColors160AKangaroo(t *testing.T) {
	set := palette.Default()

	colors, err := Mode160A.Colors(set, set.Palettes[2], false)
	require.NoError(t, err)
	assert.Equal(t, Transparent, colors[0].Parts[0].Kind)
	assert.Equal(t, colorPart(2, 0), colors[1].Parts[0])

	colors, err = Mode160A.Colors(set, set.Palettes[2], true)
	require.NoError(t, err)
	assert.Equal(t, Background, colors[0].Parts[0].Kind)
}

func TestColorsErrors(t *testing.T) {
	set := palette.Default()

	_, err := Mode160A.Colors(set, &palette.Palette{ID: "stray"}, false)
	assert.ErrorIs(t, err, palette.ErrPaletteNotFound)

	small := palette.Default()
	small.Palettes = small.Palettes[:2]
	_, err = Mode160B.Colors(small, small.Palettes[0], false)
	assert.ErrorIs(t, err, palette.ErrTooFewPalettes)

	_, err = None.Colors(small, small.Palettes[1], false)
	assert.NoError(t, err)
}

func TestColors160BBank(t *testing.T) {
	set := palette.Default()
	colors, err := Mode160B.Colors(set, set.Palettes[6], false)
	require.NoError(t, err)
	assert.Equal(t, colorPart(4, 0), colors[1].Parts[0])
	assert.Equal(t, colorPart(7, 2), colors[12].Parts[0])
}

func TestColors320BPairRule(t *testing.T) {
	set := palette.Default()
	colors, err := Mode320B.Colors(set, set.Palettes[1], false)
	require.NoError(t, err)

	assert.Equal(t, value(transparentPart, transparentPart), colors[0])
	assert.Equal(t, value(backgroundPart, colorPart(0, 0)), colors[1])
	assert.Equal(t, value(colorPart(0, 2), backgroundPart), colors[3<<2])
	assert.Equal(t, value(colorPart(0, 1), colorPart(0, 2)), colors[2<<2|3])

	colors, err = Mode320B.Colors(set, set.Palettes[1], true)
	require.NoError(t, err)
	assert.Equal(t, value(backgroundPart, backgroundPart), colors[0])
}

func TestColors320DBanks(t *testing.T) {
	set := palette.Default()
	tables := []struct {
		palette int
		want    []Value
	}{
		{0, []Value{
			value(transparentPart, transparentPart),
			value(backgroundPart, colorPart(0, 1)),
			value(colorPart(0, 1), backgroundPart),
			value(colorPart(0, 1), colorPart(0, 1)),
		}},
		{5, []Value{
			value(backgroundPart, colorPart(4, 0)),
			value(backgroundPart, colorPart(4, 2)),
			value(colorPart(4, 1), colorPart(4, 0)),
			value(colorPart(4, 1), colorPart(4, 2)),
		}},
		{2, []Value{
			value(colorPart(0, 0), backgroundPart),
			value(colorPart(0, 0), colorPart(0, 1)),
			value(colorPart(0, 2), backgroundPart),
			value(colorPart(0, 2), colorPart(0, 1)),
		}},
		{7, []Value{
			value(colorPart(4, 0), colorPart(4, 0)),
			value(colorPart(4, 0), colorPart(4, 2)),
			value(colorPart(4, 2), colorPart(4, 0)),
			value(colorPart(4, 2), colorPart(4, 2)),
		}},
	}

	for _, table := range tables {
		colors, err := Mode320D.Colors(set, set.Palettes[table.palette], false)
		require.NoError(t, err)
		assert.Equal(t, table.want, colors, "palette %d", table.palette)
	}
}

func TestReflectedColorMappingInvolution(t *testing.T) {
	for _, m := range []Mode{Mode160A, Mode160B, Mode320A, Mode320B, Mode320C} {
		mapping, err := m.ReflectedColorMapping()
		require.NoError(t, err)
		require.Len(t, mapping, m.NumColors())
		for i := 0; i < m.NumColors(); i++ {
			assert.Equal(t, i, mapping.Map(mapping.Map(i)), "%s index %d", m, i)
		}
	}

	mapping, err := None.ReflectedColorMapping()
	require.NoError(t, err)
	assert.Equal(t, 17, mapping.Map(17))

	_, err = Mode320D.ReflectedColorMapping()
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

// Reflecting the index must reflect the colours of its parts
func TestReflectedColorMappingMirrorsParts(t *testing.T) {
	set := palette.Default()
	for _, m := range []Mode{Mode320A, Mode320B, Mode320C} {
		colors, err := m.Colors(set, set.Palettes[3], false)
		require.NoError(t, err)
		mapping, err := m.ReflectedColorMapping()
		require.NoError(t, err)
		for i, c := range colors {
			r := colors[mapping.Map(i)]
			assert.Equal(t, c.Parts[0], r.Parts[1], "%s index %d", m, i)
			assert.Equal(t, c.Parts[1], r.Parts[0], "%s index %d", m, i)
		}
	}
}

func TestPaletteWidthByte(t *testing.T) {
	tables := []struct {
		palette, width int
		want           byte
	}{
		{0, 1, 0x1f},
		{0, 32, 0x00},
		{2, 4, 0x5c},
		{7, 16, 0xf0},
	}
	for _, table := range tables {
		b, err := PaletteWidthByte(table.palette, table.width)
		require.NoError(t, err)
		assert.Equal(t, table.want, b)
	}

	_, err := PaletteWidthByte(8, 1)
	assert.Error(t, err)
	_, err = PaletteWidthByte(0, 33)
	assert.Error(t, err)
}

func TestModeByte(t *testing.T) {
	assert.Equal(t, byte(0x40), Mode160A.ModeByte())
	assert.Equal(t, byte(0xc0), Mode160B.ModeByte())
	assert.Equal(t, byte(0x03), Mode320C.CtrlReadMode())
}
