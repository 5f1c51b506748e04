package canvas

import (
	"bytes"
	"testing"

	"github.com/bodgit/a78paint/displaymode"
	"github.com/bodgit/a78paint/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSprite(t *testing.T, mode displaymode.Mode, width int, rows [][]int) *Canvas {
	t.Helper()
	set := palette.Default()
	c, err := New(Config{
		ID:         "sprite",
		Name:       "my sprite!",
		Width:      width,
		Height:     len(rows),
		Mode:       mode,
		PaletteSet: set,
		Palette:    set.Palettes[2],
	})
	require.NoError(t, err)
	load(c, rows)
	return c
}

func TestLabel(t *testing.T) {
	tables := map[string]string{
		"hero":       "hero",
		"my sprite!": "my_sprite_",
		"2up":        "_2up",
		"":           "_",
		"café":       "caf_",
	}
	for name, want := range tables {
		assert.Equal(t, want, Label(name), name)
	}
}

func TestGenerateByteLineChunks(t *testing.T) {
	c := newSprite(t, displaymode.Mode160A, 8, [][]int{
		{1, 2, 3, 0, 0, 0, 0, 0},
		{-1, -1, -1, -1, 3, 3, 3, 3},
	})

	lines, err := c.GenerateByteLineChunks(CodeOptions{Comments: true, PaddingRows: 1})
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, 0, lines[0].Row)
	assert.Equal(t, []byte{0x6c, 0x00}, lines[0].Bytes)
	assert.Equal(t, []string{"P2C1 P2C2 P2C3 T", "T T T T"}, lines[0].Comments)
	assert.Equal(t, []byte{0x00, 0xff}, lines[1].Bytes)
	assert.Equal(t, "- - - -", lines[1].Comments[0])
	assert.Equal(t, -1, lines[2].Row)
	assert.Equal(t, []byte{0x00, 0x00}, lines[2].Bytes)

	lines, err = c.GenerateByteLineChunks(CodeOptions{PaddingRows: 1, Reversed: true})
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 1, 0}, []int{lines[0].Row, lines[1].Row, lines[2].Row})
	assert.Nil(t, lines[0].Comments)
}

func TestGenerateByteLineChunksBadWidth(t *testing.T) {
	c := newSprite(t, displaymode.Mode160A, 3, [][]int{{1, 2, 3}})
	_, err := c.GenerateByteLineChunks(CodeOptions{})
	assert.ErrorIs(t, err, displaymode.ErrWidthNotMultiple)

	_, err = c.HeaderBytes(CodeOptions{})
	assert.ErrorIs(t, err, displaymode.ErrWidthNotMultiple)
}

func TestHeaderBytes(t *testing.T) {
	tables := []struct {
		mode  displaymode.Mode
		width int
		opts  CodeOptions
		want  []byte
	}{
		{displaymode.Mode160A, 8, CodeOptions{HPos: 10}, []byte{0x00, 0x40, 0x00, 0x5e, 0x0a}},
		{displaymode.Mode160B, 8, CodeOptions{HPos: 0x20}, []byte{0x00, 0xc0, 0x00, 0x5c, 0x20}},
		{displaymode.Mode320A, 4, CodeOptions{Short: true, HPos: 1}, []byte{0x00, 0x5f, 0x00, 0x01}},
	}

	for _, table := range tables {
		row := make([]int, table.width)
		c := newSprite(t, table.mode, table.width, [][]int{row})
		h, err := c.HeaderBytes(table.opts)
		require.NoError(t, err)
		assert.Equal(t, table.want, h, table.mode.String())
	}

	c := newSprite(t, displaymode.None, 4, [][]int{{0, 0, 0, 0}})
	_, err := c.HeaderBytes(CodeOptions{})
	assert.ErrorIs(t, err, displaymode.ErrUnsupportedOperation)
}

func TestGenerateHeaderCode(t *testing.T) {
	c := newSprite(t, displaymode.Mode160A, 8, [][]int{make([]int, 8)})

	s, err := c.GenerateHeaderCode(CodeOptions{HPos: 10})
	require.NoError(t, err)
	assert.Equal(t, "\t.byte <my_sprite_, $40, >my_sprite_, $5e, $0a", s)

	s, err = c.GenerateHeaderCode(CodeOptions{Label: "hero", Short: true, HPos: 10})
	require.NoError(t, err)
	assert.Equal(t, "\t.byte <hero, $5e, >hero, $0a", s)
}

func TestWriteASM(t *testing.T) {
	c := newSprite(t, displaymode.Mode160A, 8, [][]int{
		{1, 2, 3, 0, 0, 0, 0, 0},
		{-1, -1, -1, -1, 3, 3, 3, 3},
	})

	var buf bytes.Buffer
	require.NoError(t, c.WriteASM(&buf, CodeOptions{HPos: 10}))
	assert.Equal(t, "; my sprite!: 8x2 160A, palette 2\n"+
		"; CTRL read mode 0\n"+
		"my_sprite__header\n"+
		"\t.byte <my_sprite_, $40, >my_sprite_, $5e, $0a\n"+
		"my_sprite_\n"+
		"\t.byte %01101100, %00000000\n"+
		"\t.byte %00000000, %11111111\n", buf.String())

	buf.Reset()
	c.SetKangaroo(true)
	require.NoError(t, c.WriteASM(&buf, CodeOptions{Label: "hero", Comments: true}))
	assert.Contains(t, buf.String(), ", kangaroo\n")
	assert.Contains(t, buf.String(), "\t.byte %01101100, %00000000 ; P2C1 P2C2 P2C3 BG / BG BG BG BG\n")
}
