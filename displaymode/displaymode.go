/*
Package displaymode implements the Atari 7800 MARIA display modes supported
by the pixel editor.

Each pixel of a canvas stores a mode colour index. What that index means
depends on the display mode, the active palette and whether kangaroo mode is
enabled; this package derives the list of selectable colours for that
combination and packs rows of indices into the bytes MARIA reads from
memory.

The editor works at 160 pixel resolution so in the 320 modes every editor
pixel is made of two hardware pixels, or parts. The modes are:

	mode  bytes/px  read  write  parts  colours
	none  1         -     -      1      transparent, background, every palette colour
	160A  1/4       0     0      1      3 from one palette
	160B  1/2       0     1      1      12 from four palettes
	320A  1/4       3     0      2      1 from one palette
	320B  1/2       2     1      2      3 from one palette
	320C  1/2       3     1      2      1 from each of four palettes
	320D  1/4       2     0      2      up to 3 from one palette, chosen by palette number

In 320B and 320D a zero pixel is only transparent when the other pixel of
its pair is also zero, otherwise it shows the background colour.
*/
package displaymode

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is a display mode.
type Mode uint8

// The supported display modes.
const (
	None Mode = iota
	Mode160A
	Mode160B
	Mode320A
	Mode320B
	Mode320C
	Mode320D
)

var (
	// ErrUnknownMode is returned when parsing an unrecognised mode name
	ErrUnknownMode = errors.New("displaymode: unknown display mode")

	// ErrUnsupportedOperation is returned for operations a mode can't
	// perform, such as flipping a 320D image
	ErrUnsupportedOperation = errors.New("displaymode: unsupported operation")

	// ErrWidthNotMultiple is returned when a row isn't a whole number of
	// bytes wide
	ErrWidthNotMultiple = errors.New("displaymode: width is not a multiple of pixels per byte")

	// ErrColorOutOfRange is returned when a pixel holds an index the mode
	// can't encode
	ErrColorOutOfRange = errors.New("displaymode: color index out of range")

	errBadHeader = errors.New("displaymode: invalid header value")
)

// maxWidthBytes is the most bytes a single display list entry can describe;
// the width field is five bits with zero meaning 32.
const maxWidthBytes = 32

type params struct {
	name           string
	pixelsPerByte  int
	readMode       int
	writeMode      int
	partsPerPixel  int
	singlePalette  bool
	fixedPixelSize bool
	horizontalFlip bool
	numColors      int
}

func unreachable(m Mode) error {
	return fmt.Errorf("displaymode: unreachable mode %d", uint8(m))
}

func (m Mode) params() params {
	switch m {
	case None:
		return params{"none", 1, 0, 0, 1, false, false, true, 0}
	case Mode160A:
		return params{"160A", 4, 0, 0, 1, true, true, true, 4}
	case Mode160B:
		return params{"160B", 2, 0, 1, 1, false, true, true, 13}
	case Mode320A:
		return params{"320A", 4, 3, 0, 2, true, true, true, 4}
	case Mode320B:
		return params{"320B", 2, 2, 1, 2, true, true, true, 16}
	case Mode320C:
		return params{"320C", 2, 3, 1, 2, false, true, true, 13}
	case Mode320D:
		return params{"320D", 4, 2, 0, 2, true, true, false, 4}
	default:
		panic(unreachable(m))
	}
}

// All returns every display mode in order.
func All() []Mode {
	return []Mode{None, Mode160A, Mode160B, Mode320A, Mode320B, Mode320C, Mode320D}
}

// Parse returns the display mode with the given name.
func Parse(name string) (Mode, error) {
	for _, m := range All() {
		if strings.EqualFold(m.Name(), name) {
			return m, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Name returns the mode name, such as "160A".
func (m Mode) Name() string { return m.params().name }

func (m Mode) String() string { return m.Name() }

// PixelsPerByte returns how many editor pixels are packed into each byte.
func (m Mode) PixelsPerByte() int { return m.params().pixelsPerByte }

// ReadMode returns the value of the CTRL register read mode bits.
func (m Mode) ReadMode() int { return m.params().readMode }

// WriteMode returns the display list write mode bit.
func (m Mode) WriteMode() int { return m.params().writeMode }

// PartsPerPixel returns how many hardware pixels make up an editor pixel.
func (m Mode) PartsPerPixel() int { return m.params().partsPerPixel }

// MaxWidth returns the widest row, in editor pixels, that one display list
// entry can describe. Zero means unbounded.
func (m Mode) MaxWidth() int {
	if m == None {
		return 0
	}
	return maxWidthBytes * m.PixelsPerByte()
}

// HasSinglePalette reports whether every pixel uses the same palette.
func (m Mode) HasSinglePalette() bool { return m.params().singlePalette }

// IsFixedPixelSize reports whether the on-screen pixel aspect is dictated
// by the hardware.
func (m Mode) IsFixedPixelSize() bool { return m.params().fixedPixelSize }

// SupportsHorizontalFlip reports whether ReflectedColorMapping will succeed.
func (m Mode) SupportsHorizontalFlip() bool { return m.params().horizontalFlip }

// NumColors returns the number of selectable colours. For None this depends
// on the palette set and zero is returned.
func (m Mode) NumColors() int { return m.params().numColors }

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// CtrlReadMode returns the read mode bits positioned for the CTRL register.
func (m Mode) CtrlReadMode() byte {
	return byte(m.ReadMode() & 0x03)
}

// ModeByte returns the second byte of an extended display list header, the
// write mode in bit 7 and bit 6 set to flag the five byte form.
func (m Mode) ModeByte() byte {
	return byte(m.WriteMode()<<7 | 0x40)
}

// PaletteWidthByte returns the palette/width byte of a display list header.
// The palette occupies the top three bits and the width is stored as the
// two's complement of the width in bytes in the bottom five.
func PaletteWidthByte(paletteIndex, widthBytes int) (byte, error) {
	if paletteIndex < 0 || paletteIndex > 7 {
		return 0, fmt.Errorf("%w: palette %d", errBadHeader, paletteIndex)
	}
	if widthBytes < 1 || widthBytes > maxWidthBytes {
		return 0, fmt.Errorf("%w: width %d bytes", errBadHeader, widthBytes)
	}
	return byte(paletteIndex<<5 | -widthBytes&0x1f), nil
}
