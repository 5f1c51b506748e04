package a78paint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bodgit/a78paint/canvas"
	"github.com/bodgit/a78paint/palette"
)

const projectVersion = 1

var (
	// ErrCanvasNotFound is returned when a project has no canvas with the
	// requested ID
	ErrCanvasNotFound = errors.New("a78paint: canvas not found")

	// ErrDuplicateCanvas is returned when adding a canvas whose ID is
	// already in use
	ErrDuplicateCanvas = errors.New("a78paint: duplicate canvas id")

	errBadVersion = errors.New("a78paint: unsupported project version")
)

// Project is a collection of canvases sharing palette sets and a single
// clipboard.
type Project struct {
	Name        string
	PaletteSets []*palette.Set
	Canvases    []*canvas.Canvas
	Clipboard   canvas.Clipboard

	next int
}

type jsonProject struct {
	Version     int               `json:"version"`
	Name        string            `json:"name"`
	PaletteSets []*palette.Set    `json:"paletteSets"`
	Canvases    []json.RawMessage `json:"canvases"`
}

// NewProject returns an empty project with the default palette set.
func NewProject(name string) *Project {
	return &Project{
		Name:        name,
		PaletteSets: []*palette.Set{palette.Default()},
	}
}

// Canvas returns the canvas with the given ID.
func (p *Project) Canvas(id string) (*canvas.Canvas, error) {
	for _, c := range p.Canvases {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrCanvasNotFound, id)
}

func (p *Project) nextID() string {
	for {
		p.next++
		id := fmt.Sprintf("canvas-%d", p.next)
		if _, err := p.Canvas(id); err != nil {
			return id
		}
	}
}

// AddCanvas creates a canvas and appends it to the project. An empty ID is
// replaced with a generated one and a missing palette set defaults to the
// first one in the project.
func (p *Project) AddCanvas(cfg canvas.Config) (*canvas.Canvas, error) {
	if cfg.ID == "" {
		cfg.ID = p.nextID()
	} else if _, err := p.Canvas(cfg.ID); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateCanvas, cfg.ID)
	}
	if cfg.PaletteSet == nil && len(p.PaletteSets) > 0 {
		cfg.PaletteSet = p.PaletteSets[0]
	}
	if cfg.Name == "" {
		cfg.Name = cfg.ID
	}

	c, err := canvas.New(cfg)
	if err != nil {
		return nil, err
	}
	p.Canvases = append(p.Canvases, c)
	return c, nil
}

// RemoveCanvas removes the canvas with the given ID.
func (p *Project) RemoveCanvas(id string) error {
	for i, c := range p.Canvases {
		if c.ID() == id {
			p.Canvases = append(p.Canvases[:i], p.Canvases[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrCanvasNotFound, id)
}

// MarshalJSON encodes the project. The clipboard isn't saved.
func (p *Project) MarshalJSON() ([]byte, error) {
	j := jsonProject{
		Version:     projectVersion,
		Name:        p.Name,
		PaletteSets: p.PaletteSets,
		Canvases:    make([]json.RawMessage, 0, len(p.Canvases)),
	}
	for _, c := range p.Canvases {
		b, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		j.Canvases = append(j.Canvases, b)
	}
	return json.Marshal(j)
}

// DecodeProject decodes a project encoded by MarshalJSON.
func DecodeProject(b []byte) (*Project, error) {
	var j jsonProject
	if err := json.Unmarshal(b, &j); err != nil {
		return nil, fmt.Errorf("a78paint: %w", err)
	}
	if j.Version > projectVersion {
		return nil, fmt.Errorf("%w: %d", errBadVersion, j.Version)
	}

	p := &Project{
		Name:        j.Name,
		PaletteSets: j.PaletteSets,
	}
	if len(p.PaletteSets) == 0 {
		p.PaletteSets = []*palette.Set{palette.Default()}
	}

	for i, raw := range j.Canvases {
		c, err := canvas.Decode(raw, p.PaletteSets)
		if err != nil {
			return nil, fmt.Errorf("canvas %d: %w", i, err)
		}
		if _, err := p.Canvas(c.ID()); err == nil {
			return nil, fmt.Errorf("canvas %d: %w: %q", i, ErrDuplicateCanvas, c.ID())
		}
		p.Canvases = append(p.Canvases, c)
	}

	return p, nil
}

// LoadProject reads a project file.
func LoadProject(file string) (*Project, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	p, err := DecodeProject(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return p, nil
}

// Save writes the project to file, replacing it atomically.
func (p *Project) Save(file string) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), file)
}
