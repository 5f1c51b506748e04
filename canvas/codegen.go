package canvas

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bodgit/a78paint/displaymode"
)

// CodeOptions control assembly generation.
type CodeOptions struct {
	// Label names the graphics data, defaults to the canvas name
	Label string

	// Comments annotates every byte with the colours it encodes
	Comments bool

	// PaddingRows appends rows of zero bytes
	PaddingRows int

	// Reversed emits the bottom row first, the order MARIA reads zones in
	Reversed bool

	// HPos is the horizontal position written to the display list header
	HPos int

	// Short writes the four byte display list header instead of the five
	// byte extended form
	Short bool
}

// ByteLine is one row of packed graphics bytes.
type ByteLine struct {
	Row      int // -1 for padding
	Bytes    []byte
	Comments []string // one per byte, nil unless requested
}

// Label returns a label safe for an assembler derived from name.
func Label(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" || unicode.IsDigit(rune(s[0])) {
		s = "_" + s
	}
	return s
}

func (o CodeOptions) label(c *Canvas) string {
	if o.Label != "" {
		return o.Label
	}
	return Label(c.name)
}

// GenerateByteLineChunks packs every row of the canvas into bytes.
func (c *Canvas) GenerateByteLineChunks(opts CodeOptions) ([]ByteLine, error) {
	var colors []displaymode.Value
	if opts.Comments {
		var err error
		if colors, err = c.Colors(); err != nil {
			return nil, err
		}
	}

	ppb := c.mode.PixelsPerByte()
	lines := make([]ByteLine, 0, c.Height()+opts.PaddingRows)
	for y := 0; y < c.Height(); y++ {
		row := c.grid.Row(y)
		b, err := c.mode.PixelsToBytes(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		line := ByteLine{Row: y, Bytes: b}
		if opts.Comments {
			line.Comments = make([]string, len(b))
			for i := range b {
				labels := make([]string, ppb)
				for k, v := range row[i*ppb : i*ppb+ppb] {
					if v < 0 || v >= len(colors) {
						labels[k] = "-"
						continue
					}
					labels[k] = colors[v].Label()
				}
				line.Comments[i] = strings.Join(labels, " ")
			}
		}
		lines = append(lines, line)
	}

	for i := 0; i < opts.PaddingRows; i++ {
		line := ByteLine{Row: -1, Bytes: make([]byte, c.Width()/ppb)}
		if opts.Comments {
			line.Comments = make([]string, len(line.Bytes))
			for k := range line.Comments {
				line.Comments[k] = "padding"
			}
		}
		lines = append(lines, line)
	}

	if opts.Reversed {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}

	return lines, nil
}

// HeaderBytes returns the display list header describing the canvas. The
// address bytes are left as zero for the assembler to fill in.
func (c *Canvas) HeaderBytes(opts CodeOptions) ([]byte, error) {
	if c.mode == displaymode.None {
		return nil, fmt.Errorf("%w: header for %s", displaymode.ErrUnsupportedOperation, c.mode)
	}
	ppb := c.mode.PixelsPerByte()
	if c.Width()%ppb != 0 {
		return nil, fmt.Errorf("%w: %d pixels in %s", displaymode.ErrWidthNotMultiple, c.Width(), c.mode)
	}
	p, err := c.PaletteIndex()
	if err != nil {
		return nil, err
	}
	pw, err := displaymode.PaletteWidthByte(p&0x07, c.Width()/ppb)
	if err != nil {
		return nil, err
	}
	if opts.Short {
		return []byte{0, pw, 0, byte(opts.HPos)}, nil
	}
	return []byte{0, c.mode.ModeByte(), 0, pw, byte(opts.HPos)}, nil
}

// GenerateHeaderCode returns the display list header as an assembler
// directive.
func (c *Canvas) GenerateHeaderCode(opts CodeOptions) (string, error) {
	h, err := c.HeaderBytes(opts)
	if err != nil {
		return "", err
	}
	label := opts.label(c)
	if opts.Short {
		return fmt.Sprintf("\t.byte <%s, $%02x, >%s, $%02x", label, h[1], label, h[3]), nil
	}
	return fmt.Sprintf("\t.byte <%s, $%02x, >%s, $%02x, $%02x", label, h[1], label, h[3], h[4]), nil
}

// WriteASM writes the display list header and graphics data as assembly.
func (c *Canvas) WriteASM(w io.Writer, opts CodeOptions) error {
	lines, err := c.GenerateByteLineChunks(opts)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	label := opts.label(c)
	p, _ := c.PaletteIndex()

	fmt.Fprintf(bw, "; %s: %dx%d %s, palette %d", c.name, c.Width(), c.Height(), c.mode, p)
	if c.kangaroo {
		bw.WriteString(", kangaroo")
	}
	bw.WriteString("\n")

	if c.mode != displaymode.None {
		fmt.Fprintf(bw, "; CTRL read mode %d\n", c.mode.CtrlReadMode())
		header, err := c.GenerateHeaderCode(opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s_header\n%s\n", label, header)
	}

	fmt.Fprintf(bw, "%s\n", label)
	for _, line := range lines {
		parts := make([]string, len(line.Bytes))
		for i, b := range line.Bytes {
			parts[i] = fmt.Sprintf("%%%08b", b)
		}
		bw.WriteString("\t.byte " + strings.Join(parts, ", "))
		if line.Comments != nil {
			bw.WriteString(" ; " + strings.Join(line.Comments, " / "))
		}
		bw.WriteString("\n")
	}

	return bw.Flush()
}
