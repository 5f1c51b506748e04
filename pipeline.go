package a78paint

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bodgit/a78paint/canvas"
)

const exportWorkers = 10

// ExportFile returns the file name the canvas is exported to.
func ExportFile(c *canvas.Canvas) string {
	name := c.Name()
	if name == "" {
		name = c.ID()
	}
	return canvas.Label(name) + ".asm"
}

func exportKey(c *canvas.Canvas, opts canvas.CodeOptions) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	h := sha1.New()
	h.Write(b)
	fmt.Fprintf(h, "%+v", opts)
	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

func (a *App) findCanvases(ctx context.Context, p *Project) (<-chan *canvas.Canvas, <-chan error, error) {
	seen := make(map[string]string, len(p.Canvases))
	for _, c := range p.Canvases {
		file := ExportFile(c)
		if id, ok := seen[file]; ok {
			return nil, nil, fmt.Errorf("a78paint: canvases %q and %q both export to %s", id, c.ID(), file)
		}
		seen[file] = c.ID()
	}

	out := make(chan *canvas.Canvas)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, c := range p.Canvases {
			select {
			case out <- c:
			case <-ctx.Done():
				errc <- errors.New("export cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

// generate returns the assembly for c, using the cache if there is one
func (a *App) generate(c *canvas.Canvas, opts canvas.CodeOptions) ([]byte, error) {
	if a.db == nil {
		b := new(bytes.Buffer)
		if err := c.WriteASM(b, opts); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	}

	key, err := exportKey(c, opts)
	if err != nil {
		return nil, err
	}

	asm, err := a.db.FindExport(key)
	if err != nil {
		return nil, err
	}
	if asm != nil {
		a.logger.Printf("Cached \"%s\", with key \"%s\"\n", c.ID(), key)
		return asm, nil
	}

	b := new(bytes.Buffer)
	if err := c.WriteASM(b, opts); err != nil {
		return nil, err
	}
	if err := a.db.AddExport(key, b.Bytes()); err != nil {
		return nil, err
	}
	a.logger.Printf("Generated \"%s\", with key \"%s\"\n", c.ID(), key)

	return b.Bytes(), nil
}

func (a *App) exportWorker(ctx context.Context, dir string, opts canvas.CodeOptions, in <-chan *canvas.Canvas) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for c := range in {
			asm, err := a.generate(c, opts)
			if err != nil {
				errc <- fmt.Errorf("%s: %w", c.ID(), err)
				return
			}

			file := filepath.Join(dir, ExportFile(c))
			if err := os.WriteFile(file, asm, 0o644); err != nil {
				errc <- err
				return
			}
			a.logger.Printf("Wrote \"%s\"\n", file)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Export writes one assembly file per canvas of p into dir. The label option
// is ignored so every canvas is labelled after its own name.
func (a *App) Export(ctx context.Context, p *Project, dir string, opts canvas.CodeOptions) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	opts.Label = ""

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	canvases, errc, err := a.findCanvases(ctx, p)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < exportWorkers; i++ {
		errc, err := a.exportWorker(ctx, dir, opts, canvases)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
