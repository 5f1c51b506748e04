package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/bodgit/a78paint/displaymode"
	"github.com/bodgit/a78paint/palette"
)

// FieldError is returned when decoding a canvas whose JSON doesn't have the
// expected shape.
type FieldError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("canvas: field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

var errNoPaletteSets = errors.New("canvas: no palette sets to resolve palette against")

type jsonCanvas struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Width           *int                `json:"width"`
	Height          *int                `json:"height"`
	PixelWidth      int                 `json:"pixelWidth"`
	PixelHeight     int                 `json:"pixelHeight"`
	DisplayModeName *string             `json:"displayModeName"`
	PaletteID       string              `json:"paletteId"`
	ColorIndex      int                 `json:"colorIndex"`
	Kangaroo        bool                `json:"kangarooMode"`
	Data            [][]json.RawMessage `json:"data"`
}

// MarshalJSON encodes the canvas with its committed pixels.
func (c *Canvas) MarshalJSON() ([]byte, error) {
	width, height := c.Width(), c.Height()
	name := c.mode.Name()
	j := struct {
		jsonCanvas
		Data [][]Pixel `json:"data"`
	}{
		jsonCanvas: jsonCanvas{
			ID:              c.id,
			Name:            c.name,
			Width:           &width,
			Height:          &height,
			PixelWidth:      c.pixelWidth,
			PixelHeight:     c.pixelHeight,
			DisplayModeName: &name,
			PaletteID:       c.pal.ID,
			ColorIndex:      int(c.color),
			Kangaroo:        c.kangaroo,
		},
		Data: make([][]Pixel, height),
	}
	for y := range j.Data {
		j.Data[y] = make([]Pixel, width)
		for x := range j.Data[y] {
			j.Data[y][x] = c.grid.At(x, y)
		}
	}
	return json.Marshal(j)
}

func describe(raw json.RawMessage) string {
	if len(raw) > 32 {
		return string(raw[:32]) + "..."
	}
	return string(raw)
}

// decodePixel accepts {"modeColorIndex": n}, {"modeColorIndex": null} and
// the legacy {"modeColorIndex": "transparent"}
func decodePixel(raw json.RawMessage, field string) (Pixel, error) {
	var cell map[string]json.RawMessage
	if err := json.Unmarshal(raw, &cell); err != nil || cell == nil {
		return Empty, &FieldError{field, "object", describe(raw)}
	}
	v, ok := cell["modeColorIndex"]
	if !ok {
		return Empty, &FieldError{field + ".modeColorIndex", "integer or null", "missing"}
	}

	var i interface{}
	if err := json.Unmarshal(v, &i); err != nil {
		return Empty, &FieldError{field + ".modeColorIndex", "integer or null", describe(v)}
	}
	switch i := i.(type) {
	case nil:
		return Empty, nil
	case string:
		if i == "transparent" {
			return Empty, nil
		}
	case float64:
		if i >= 0 && i <= math.MaxInt16 && i == math.Trunc(i) {
			return Pixel(i), nil
		}
	}
	return Empty, &FieldError{field + ".modeColorIndex", "integer or null", describe(v)}
}

// Decode decodes a canvas encoded by MarshalJSON. The palette id is
// resolved against sets, falling back to the first palette of the first set.
func Decode(b []byte, sets []*palette.Set) (*Canvas, error) {
	var j jsonCanvas
	if err := json.Unmarshal(b, &j); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return nil, &FieldError{te.Field, te.Type.String(), te.Value}
		}
		return nil, fmt.Errorf("canvas: %w", err)
	}

	if j.ID == "" {
		return nil, &FieldError{"id", "non-empty string", `""`}
	}
	if j.Width == nil {
		return nil, &FieldError{"width", "positive integer", "missing"}
	}
	if *j.Width <= 0 {
		return nil, &FieldError{"width", "positive integer", fmt.Sprint(*j.Width)}
	}
	if j.Height == nil {
		return nil, &FieldError{"height", "positive integer", "missing"}
	}
	if *j.Height <= 0 {
		return nil, &FieldError{"height", "positive integer", fmt.Sprint(*j.Height)}
	}
	if j.DisplayModeName == nil {
		return nil, &FieldError{"displayModeName", "display mode name", "missing"}
	}
	name := *j.DisplayModeName
	if name == "transparent" {
		// Older files called the unconstrained mode "transparent"
		name = displaymode.None.Name()
	}
	mode, err := displaymode.Parse(name)
	if err != nil {
		return nil, &FieldError{"displayModeName", "display mode name", fmt.Sprintf("%q", name)}
	}

	width, height := *j.Width, *j.Height
	if len(j.Data) != height {
		return nil, &FieldError{"data", fmt.Sprintf("%d rows", height), fmt.Sprintf("%d rows", len(j.Data))}
	}
	for y, row := range j.Data {
		if len(row) != width {
			return nil, &FieldError{fmt.Sprintf("data[%d]", y), fmt.Sprintf("%d cells", width), fmt.Sprintf("%d cells", len(row))}
		}
	}

	// Only allocate once the data has proved the dimensions
	grid := NewGrid(width, height)
	for y, row := range j.Data {
		for x, raw := range row {
			p, err := decodePixel(raw, fmt.Sprintf("data[%d][%d]", y, x))
			if err != nil {
				return nil, err
			}
			grid.Set(x, y, p)
		}
	}

	set, pal, _ := palette.Resolve(sets, j.PaletteID)
	if pal == nil {
		return nil, errNoPaletteSets
	}

	return New(Config{
		ID:          j.ID,
		Name:        j.Name,
		Grid:        grid,
		PixelWidth:  j.PixelWidth,
		PixelHeight: j.PixelHeight,
		Mode:        mode,
		PaletteSet:  set,
		Palette:     pal,
		Kangaroo:    j.Kangaroo,
		Color:       Pixel(j.ColorIndex),
	})
}
