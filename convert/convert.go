/*
Package convert turns ordinary images into canvas pixels.

An image is scaled to the hardware resolution of the target display mode,
reduced to at most as many colours as the mode can show with the median
cut quantizer and then each canvas pixel is matched to the mode colour
whose parts are closest to the image pixels it covers.

SuggestPalettes works the other way round and builds a palette set for an
image, packing the colours used by each zone of the picture into the eight
hardware palettes.
*/
package convert

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	"github.com/bodgit/a78paint/canvas"
	"github.com/bodgit/a78paint/displaymode"
	"github.com/bodgit/a78paint/palette"
	"github.com/ericpauley/go-quantize/quantize"
	_ "golang.org/x/image/bmp" // register BMP decoder
	xdraw "golang.org/x/image/draw"
)

var (
	// ErrBadSize is returned for a target size that isn't positive
	ErrBadSize = errors.New("convert: bad target size")

	errEmptyImage = errors.New("convert: image is empty")
)

// Options control the conversion.
type Options struct {
	// Width and Height are the canvas size in pixels. Zero derives them
	// from the image, the width being rounded up to a whole number of
	// bytes.
	Width, Height int

	// Scaler resizes the image, defaults to nearest neighbour which suits
	// pixel art
	Scaler xdraw.Scaler
}

// Target describes the colours available to the converted pixels.
type Target struct {
	Mode     displaymode.Mode
	Set      *palette.Set
	Palette  *palette.Palette
	Kangaroo bool
}

// Decode reads a PNG, GIF, JPEG or BMP image.
func Decode(r io.Reader) (image.Image, string, error) {
	m, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("convert: %w", err)
	}
	return m, format, nil
}

func (t Target) size(b image.Rectangle, opts Options) (int, int, error) {
	if b.Empty() {
		return 0, 0, errEmptyImage
	}
	w, h := opts.Width, opts.Height
	if w < 0 || h < 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrBadSize, w, h)
	}
	if w == 0 {
		parts := t.Mode.PartsPerPixel()
		w = (b.Dx() + parts - 1) / parts
		if ppb := t.Mode.PixelsPerByte(); w%ppb != 0 {
			w += ppb - w%ppb
		}
	}
	if h == 0 {
		h = b.Dy()
	}
	return w, h, nil
}

// candidate is a mode colour resolved to RGB, transparent parts have a
// zero alpha
type candidate struct {
	index int
	parts []color.RGBA
}

func candidates(t Target) ([]candidate, error) {
	colors, err := t.Mode.Colors(t.Set, t.Palette, t.Kangaroo)
	if err != nil {
		return nil, err
	}
	out := make([]candidate, len(colors))
	for i, v := range colors {
		out[i] = candidate{index: i, parts: make([]color.RGBA, len(v.Parts))}
		for k, p := range v.Parts {
			if c, ok := p.RGB(t.Set); ok {
				out[i].parts[k] = color.RGBA{c.R, c.G, c.B, 0xff}
			}
		}
	}
	return out, nil
}

// reduce quantizes m in place to no more than n colours
func reduce(m *image.RGBA, n int) {
	b := m.Bounds()
	if n < 1 || len(countColors(m, b)) <= n {
		return
	}

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if opaque(m.RGBAAt(x, y)) {
				m.Set(x, y, pm.At(x, y))
			}
		}
	}
}

// cost sums the distance between each part and the image pixel under it.
// A transparent part only matches a transparent pixel.
func (c candidate) cost(m *image.RGBA, x, y int) uint64 {
	const mismatch = 1 << 40
	var sum uint64
	for k, part := range c.parts {
		px := m.RGBAAt(x*len(c.parts)+k, y)
		switch {
		case !opaque(px) && part.A == 0:
		case !opaque(px) || part.A == 0:
			sum += mismatch
		default:
			sum += uint64(distance(px, part))
		}
	}
	return sum
}

// Convert returns the pixels of m drawn with the colours of t.
func Convert(m image.Image, t Target, opts Options) (*canvas.Grid, error) {
	w, h, err := t.size(m.Bounds(), opts)
	if err != nil {
		return nil, err
	}
	cands, err := candidates(t)
	if err != nil {
		return nil, err
	}
	parts := t.Mode.PartsPerPixel()

	scaler := opts.Scaler
	if scaler == nil {
		scaler = xdraw.NearestNeighbor
	}
	// A derived width only pads the image out to whole bytes, the padding
	// stays empty rather than stretching the picture
	sw := w
	if opts.Width == 0 {
		sw = (m.Bounds().Dx() + parts - 1) / parts
	}
	hw := image.NewRGBA(image.Rect(0, 0, w*parts, h))
	scaler.Scale(hw, image.Rect(0, 0, sw*parts, h), m, m.Bounds(), draw.Src, nil)

	distinct := make(map[color.RGBA]struct{})
	for _, c := range cands {
		for _, p := range c.parts {
			if p.A != 0 {
				distinct[p] = struct{}{}
			}
		}
	}
	reduce(hw, len(distinct))

	g := canvas.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			empty := true
			for k := 0; k < parts; k++ {
				if opaque(hw.RGBAAt(x*parts+k, y)) {
					empty = false
					break
				}
			}
			if empty {
				continue
			}

			best, bestCost := -1, uint64(1<<64-1)
			for _, c := range cands {
				if cost := c.cost(hw, x, y); cost < bestCost {
					best, bestCost = c.index, cost
				}
			}
			if best >= 0 {
				g.Set(x, y, canvas.Pixel(best))
			}
		}
	}
	return g, nil
}

// Import converts m with the colours of c and loads the result into c,
// resizing it to fit.
func Import(c *canvas.Canvas, m image.Image, opts Options) error {
	g, err := Convert(m, Target{
		Mode:     c.Mode(),
		Set:      c.PaletteSet(),
		Palette:  c.Palette(),
		Kangaroo: c.Kangaroo(),
	}, opts)
	if err != nil {
		return err
	}
	c.Load(g)
	return nil
}
