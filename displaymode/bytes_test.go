package displaymode

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelsToBytes(t *testing.T) {
	tables := []struct {
		mode Mode
		row  []int
		want []byte
	}{
		{None, []int{0, 5, 25, -1}, []byte{0, 5, 25, 0}},
		{Mode160A, []int{1, 2, 3, 0}, []byte{0x6c}},
		{Mode160A, []int{3, 3, 3, 3, -1, 1, -1, 1}, []byte{0xff, 0x11}},
		{Mode320A, []int{2, 0, 1, 3}, []byte{0x87}},
		{Mode320D, []int{0, 1, 2, 3}, []byte{0x1b}},
		// colour 1 palette 0, colour 3 palette 3
		{Mode160B, []int{1, 12}, []byte{0x73}},
		// colour 2 palette 1, transparent
		{Mode160B, []int{5, 0}, []byte{0x84}},
		{Mode320C, []int{3, 10}, []byte{0xd3}},
		// 320B packs each pixel's hi and lo bits literally, so all 16
		// colour slots are kept even though kangaroo mode can't reach
		// some of them. A=1 B=2 C=3 D=0
		{Mode320B, []int{1<<2 | 2, 3<<2 | 0}, []byte{0x6a}},
		{Mode320B, []int{15, 15}, []byte{0xff}},
	}

	for _, table := range tables {
		b, err := table.mode.PixelsToBytes(table.row)
		require.NoError(t, err, "%s %v", table.mode, table.row)
		assert.Equal(t, table.want, b, "%s %v", table.mode, table.row)
	}
}

func TestPixelsToBytesErrors(t *testing.T) {
	_, err := Mode160A.PixelsToBytes([]int{1, 2, 3})
	assert.ErrorIs(t, err, ErrWidthNotMultiple)

	_, err = Mode160A.PixelsToBytes([]int{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrColorOutOfRange)

	_, err = Mode160B.PixelsToBytes([]int{13, 0})
	assert.ErrorIs(t, err, ErrColorOutOfRange)

	_, err = None.PixelsToBytes([]int{256})
	assert.ErrorIs(t, err, ErrColorOutOfRange)
}

func TestPixelsRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, m := range All() {
		n := m.NumColors()
		if m == None {
			n = 0x100
		}
		for i := 0; i < 100; i++ {
			row := make([]int, m.PixelsPerByte()*8)
			for x := range row {
				row[x] = r.Intn(n)
			}
			b, err := m.PixelsToBytes(row)
			require.NoError(t, err)
			got, err := m.BytesToPixels(b)
			require.NoError(t, err)
			assert.Equal(t, row, got, "%s", m)
		}
	}
}

// wellFormed reports whether every byte is one PixelsToBytes can produce;
// 160B and 320C transparent pixels always carry palette bits 00
func wellFormed(m Mode, v byte) bool {
	if m != Mode160B && m != Mode320C {
		return true
	}
	if v>>6&0x03 == 0 && v>>2&0x03 != 0 {
		return false
	}
	if v>>4&0x03 == 0 && v&0x03 != 0 {
		return false
	}
	return true
}

func TestBytesRoundTrip(t *testing.T) {
	for _, m := range All() {
		for v := 0; v < 0x100; v++ {
			if !wellFormed(m, byte(v)) {
				continue
			}
			row, err := m.BytesToPixels([]byte{byte(v)})
			require.NoError(t, err)
			b, err := m.PixelsToBytes(row)
			require.NoError(t, err)
			assert.Equal(t, []byte{byte(v)}, b, "%s %#02x", m, v)
		}
	}
}
