package a78paint

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bodgit/a78paint/canvas"
	"github.com/howeyc/fsnotify"
)

const watchDelay = 100 * time.Millisecond

// Watch exports the project in file to dir and then again every time the
// file changes, until ctx is cancelled. Errors loading or exporting a changed
// project are logged and the watch carries on.
func (a *App) Watch(ctx context.Context, file, dir string, opts canvas.CodeOptions) error {
	file, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		return err
	}

	run := time.After(time.Millisecond)
	for {
		select {
		case <-run:
			a.logger.Printf("Exporting \"%s\"\n", file)
			if err := a.exportFile(ctx, file, dir, opts); err != nil {
				a.logger.Printf("Export failed: %v\n", err)
			}
		case ev := <-watcher.Event:
			// Saving replaces the file so renames count as well
			if ev.Name == file && !ev.IsAttrib() {
				run = time.After(watchDelay)
			}
		case err := <-watcher.Error:
			a.logger.Printf("Watcher: %v\n", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *App) exportFile(ctx context.Context, file, dir string, opts canvas.CodeOptions) error {
	p, err := LoadProject(file)
	if err != nil {
		return err
	}
	if a.db != nil {
		if p.Name == "" {
			if _, err := a.db.ImportFile(file); err != nil {
				return err
			}
		} else if err := a.db.Store(p); err != nil {
			return err
		}
	}
	return a.Export(ctx, p, dir, opts)
}
