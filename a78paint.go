/*
Package a78paint is a library for drawing Atari 7800 graphics and turning
them into assembly for the MARIA graphics chip.

Drawings are kept in projects, a JSON document holding palette sets and any
number of canvases. Projects can be stored in a SQLite database which also
caches the assembly generated for each canvas.
*/
package a78paint

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/bodgit/a78paint/canvas"
	"github.com/bodgit/a78paint/convert"
	"github.com/bodgit/a78paint/render"
)

// App ties projects to the database and logger.
type App struct {
	db     *ProjectDB
	logger *log.Logger
}

// New returns an App. The database is optional.
func New(db *ProjectDB, logger *log.Logger) *App {
	return &App{
		db:     db,
		logger: logger,
	}
}

// ImportOptions control how an image becomes a canvas.
type ImportOptions struct {
	convert.Options

	// SuggestPalettes replaces the palettes of a new palette set with ones
	// derived from the image
	SuggestPalettes bool

	// ZoneHeight is the number of rows sharing one palette when suggesting
	// palettes, zero treats the whole image as one zone
	ZoneHeight int
}

// ImportImage decodes the image in file and adds it to p as a new canvas
// described by cfg. Width and height in cfg are ignored.
func (a *App) ImportImage(p *Project, file string, cfg canvas.Config, opts ImportOptions) (*canvas.Canvas, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, format, err := convert.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	a.logger.Printf("Decoded \"%s\" as %s, %dx%d\n", file, format, m.Bounds().Dx(), m.Bounds().Dy())

	if opts.SuggestPalettes {
		set, zones, err := convert.SuggestPalettes(m, opts.ZoneHeight)
		if err != nil {
			return nil, err
		}
		if _, ok := findSet(p, set.ID); ok {
			set.ID = fmt.Sprintf("%s-%d", set.ID, len(p.PaletteSets))
			for i, pal := range set.Palettes {
				pal.ID = fmt.Sprintf("%s-%d", set.ID, i)
			}
		}
		p.PaletteSets = append(p.PaletteSets, set)
		cfg.PaletteSet = set
		cfg.Palette = set.Palettes[zones[0]]
		a.logger.Printf("Suggested palette set \"%s\" for %d zones\n", set.ID, len(zones))
	}

	if cfg.PaletteSet == nil && len(p.PaletteSets) > 0 {
		cfg.PaletteSet = p.PaletteSets[0]
	}
	if cfg.Palette == nil && cfg.PaletteSet != nil && len(cfg.PaletteSet.Palettes) > 0 {
		cfg.Palette = cfg.PaletteSet.Palettes[0]
	}
	if cfg.PaletteSet == nil {
		return nil, fmt.Errorf("a78paint: project has no palette sets")
	}

	g, err := convert.Convert(m, convert.Target{
		Mode:     cfg.Mode,
		Set:      cfg.PaletteSet,
		Palette:  cfg.Palette,
		Kangaroo: cfg.Kangaroo,
	}, opts.Options)
	if err != nil {
		return nil, err
	}
	cfg.Grid = g

	return p.AddCanvas(cfg)
}

func findSet(p *Project, id string) (int, bool) {
	for i, s := range p.PaletteSets {
		if s.ID == id {
			return i, true
		}
	}
	return 0, false
}

// RenderPNG writes the canvas as a PNG at hardware resolution, corrected for
// the display mode aspect and scaled by scale.
func RenderPNG(w io.Writer, c *canvas.Canvas, scale int) error {
	m, err := render.Image(c)
	if err != nil {
		return err
	}
	if scale < 1 {
		scale = 1
	}
	sx, sy := render.Aspect(c.Mode(), scale)

	var out image.Image = m
	if sx != 1 || sy != 1 {
		out = render.Scale(m, sx, sy)
	}
	return png.Encode(w, out)
}
