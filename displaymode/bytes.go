package displaymode

import "fmt"

func (m Mode) checkRow(row []int) error {
	if len(row)%m.PixelsPerByte() != 0 {
		return fmt.Errorf("%w: %d pixels in %s", ErrWidthNotMultiple, len(row), m)
	}
	max := m.NumColors()
	if m == None {
		max = 0x100
	}
	for x, v := range row {
		if v >= max {
			return fmt.Errorf("%w: %d at x=%d in %s", ErrColorOutOfRange, v, x, m)
		}
	}
	return nil
}

// clamp maps uncoloured (negative) pixels to zero
func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// splitIndex decomposes a 160B/320C index into the colour (or pixel
// pattern) and palette bits. Index 0 is transparent whatever the palette so
// the remaining indices start at three to skip the unused slots.
func splitIndex(v int) (c, p byte) {
	if v == 0 {
		return 0, 0
	}
	j := v + 2
	return byte(j%3 + 1), byte(j/3 - 1)
}

func joinIndex(c, p byte) int {
	if c == 0 {
		return 0
	}
	return int(p)*3 + int(c)
}

// PixelsToBytes packs a row of mode colour indices into bytes laid out the
// way MARIA expects them in memory. Negative indices are uncoloured and
// pack as zero.
func (m Mode) PixelsToBytes(row []int) ([]byte, error) {
	if err := m.checkRow(row); err != nil {
		return nil, err
	}

	ppb := m.PixelsPerByte()
	b := make([]byte, len(row)/ppb)
	for i := range b {
		chunk := row[i*ppb : i*ppb+ppb]
		switch m {
		case None:
			b[i] = byte(clamp(chunk[0]))
		case Mode160A, Mode320A, Mode320D:
			for _, v := range chunk {
				b[i] = b[i]<<2 | byte(clamp(v))&0x03
			}
		case Mode160B, Mode320C:
			// D7D6 colour A, D5D4 colour B, D3D2 palette A, D1D0 palette B
			cA, pA := splitIndex(clamp(chunk[0]))
			cB, pB := splitIndex(clamp(chunk[1]))
			b[i] = cA<<6 | cB<<4 | pA<<2 | pB
		case Mode320B:
			// Four hardware pixels, high bits in D7-D4 and low bits
			// in D3-D0
			for k, v := range chunk {
				v = clamp(v)
				for h, c := range [2]int{v >> 2, v & 0x03} {
					shift := 2*k + h
					b[i] |= byte(c>>1)<<(7-shift) | byte(c&1)<<(3-shift)
				}
			}
		default:
			panic(unreachable(m))
		}
	}

	return b, nil
}

// BytesToPixels is the inverse of PixelsToBytes.
func (m Mode) BytesToPixels(b []byte) ([]int, error) {
	ppb := m.PixelsPerByte()
	row := make([]int, 0, len(b)*ppb)
	for _, v := range b {
		switch m {
		case None:
			row = append(row, int(v))
		case Mode160A, Mode320A, Mode320D:
			for shift := 6; shift >= 0; shift -= 2 {
				row = append(row, int(v>>shift&0x03))
			}
		case Mode160B, Mode320C:
			row = append(row,
				joinIndex(v>>6&0x03, v>>2&0x03),
				joinIndex(v>>4&0x03, v&0x03),
			)
		case Mode320B:
			for k := 0; k < 2; k++ {
				var codes [2]int
				for h := range codes {
					shift := 2*k + h
					codes[h] = int(v>>(7-shift)&1)<<1 | int(v>>(3-shift)&1)
				}
				row = append(row, codes[0]<<2|codes[1])
			}
		default:
			panic(unreachable(m))
		}
	}

	if err := m.checkRow(row); err != nil {
		return nil, err
	}
	return row, nil
}
