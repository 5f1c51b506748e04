package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bodgit/a78paint"
	"github.com/bodgit/a78paint/canvas"
	"github.com/bodgit/a78paint/convert"
	"github.com/bodgit/a78paint/displaymode"
	"github.com/bodgit/a78paint/palette"
	"github.com/urfave/cli/v2"
)

const defaultDB = "a78paint.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// newApp returns an App using the database and a function closing it
func newApp(c *cli.Context) (*a78paint.App, func(), error) {
	db, err := a78paint.NewProjectDB(c.String("db"))
	if err != nil {
		return nil, nil, err
	}
	return a78paint.New(db, newLogger(c)), func() { db.Close() }, nil
}

func codeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "dir",
			Value: ".",
			Usage: "output directory",
		},
		&cli.BoolFlag{
			Name:  "comments",
			Usage: "annotate every byte with its colours",
		},
		&cli.BoolFlag{
			Name:  "reversed",
			Usage: "emit the bottom row first",
		},
		&cli.IntFlag{
			Name:  "padding",
			Usage: "append `ROWS` of zero bytes",
		},
		&cli.IntFlag{
			Name:  "hpos",
			Usage: "horizontal position in the display list header",
		},
		&cli.BoolFlag{
			Name:  "short",
			Usage: "write the four byte display list header",
		},
	}
}

func codeOptions(c *cli.Context) canvas.CodeOptions {
	return canvas.CodeOptions{
		Comments:    c.Bool("comments"),
		PaddingRows: c.Int("padding"),
		Reversed:    c.Bool("reversed"),
		HPos:        c.Int("hpos"),
		Short:       c.Bool("short"),
	}
}

// canvasConfig builds a canvas description from the common flags
func canvasConfig(c *cli.Context, p *a78paint.Project) (canvas.Config, error) {
	mode, err := displaymode.Parse(c.String("mode"))
	if err != nil {
		return canvas.Config{}, err
	}
	cfg := canvas.Config{
		ID:          c.String("id"),
		Name:        c.String("name"),
		Width:       c.Int("width"),
		Height:      c.Int("height"),
		PixelWidth:  c.Int("pixel-width"),
		PixelHeight: c.Int("pixel-height"),
		Mode:        mode,
		Kangaroo:    c.Bool("kangaroo"),
	}
	if id := c.String("palette"); id != "" {
		set, pal, ok := palette.Resolve(p.PaletteSets, id)
		if !ok {
			return canvas.Config{}, fmt.Errorf("%w: %q", palette.ErrPaletteNotFound, id)
		}
		cfg.PaletteSet, cfg.Palette = set, pal
	}
	return cfg, nil
}

func canvasFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "canvas `ID`, generated if empty",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "canvas name, used for labels and file names",
		},
		&cli.StringFlag{
			Name:  "mode",
			Value: displaymode.Mode160A.Name(),
			Usage: "display `MODE`",
		},
		&cli.StringFlag{
			Name:  "palette",
			Usage: "palette `ID`, defaults to the first palette",
		},
		&cli.BoolFlag{
			Name:  "kangaroo",
			Usage: "enable kangaroo mode",
		},
		&cli.IntFlag{
			Name:  "pixel-width",
			Value: 1,
			Usage: "on-screen pixel width for modes without a fixed size",
		},
		&cli.IntFlag{
			Name:  "pixel-height",
			Value: 1,
			Usage: "on-screen pixel height for modes without a fixed size",
		},
	}
}

// loadOrCreate loads the project in file, or returns a new one if the file
// doesn't exist yet
func loadOrCreate(file string) (*a78paint.Project, error) {
	p, err := a78paint.LoadProject(file)
	if errors.Is(err, os.ErrNotExist) {
		name := filepath.Base(file)
		return a78paint.NewProject(name[:len(name)-len(filepath.Ext(name))]), nil
	}
	return p, err
}

func main() {
	app := cli.NewApp()

	app.Name = "a78paint"
	app.Usage = "Atari 7800 graphics editor and assembler generator"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"A78PAINT_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "new",
			Usage:       "Add a blank canvas to a project",
			Description: "The project file is created if it doesn't exist.",
			ArgsUsage:   "PROJECT",
			Flags: append(canvasFlags(),
				&cli.IntFlag{
					Name:  "width",
					Value: 16,
					Usage: "width in pixels",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 16,
					Usage: "height in pixels",
				},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := loadOrCreate(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				cfg, err := canvasConfig(c, p)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				cv, err := p.AddCanvas(cfg)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				newLogger(c).Printf("Added canvas \"%s\"\n", cv.ID())

				if err := p.Save(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Convert an image into a new canvas",
			Description: "",
			ArgsUsage:   "PROJECT IMAGE",
			Flags: append(canvasFlags(),
				&cli.IntFlag{
					Name:  "width",
					Usage: "width in pixels, derived from the image if zero",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "height in pixels, derived from the image if zero",
				},
				&cli.BoolFlag{
					Name:  "suggest-palettes",
					Usage: "derive a new palette set from the image",
				},
				&cli.IntFlag{
					Name:  "zone-height",
					Usage: "rows sharing one palette when suggesting palettes",
				},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a := a78paint.New(nil, newLogger(c))

				p, err := loadOrCreate(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				cfg, err := canvasConfig(c, p)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				opts := a78paint.ImportOptions{
					Options: convert.Options{
						Width:  c.Int("width"),
						Height: c.Int("height"),
					},
					SuggestPalettes: c.Bool("suggest-palettes"),
					ZoneHeight:      c.Int("zone-height"),
				}
				if _, err := a.ImportImage(p, c.Args().Get(1), cfg, opts); err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := p.Save(c.Args().Get(0)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Generate assembly for every canvas in a project",
			Description: "Generated assembly is cached in the database.",
			ArgsUsage:   "PROJECT",
			Flags:       codeFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a, done, err := newApp(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				p, err := a78paint.LoadProject(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := a.Export(c.Context, p, c.String("dir"), codeOptions(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "png",
			Usage:       "Render a canvas as a PNG image",
			Description: "",
			ArgsUsage:   "PROJECT CANVAS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "output, o",
					Usage: "output `FILE`, defaults to standard output",
				},
				&cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "scale factor",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := a78paint.LoadProject(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				cv, err := p.Canvas(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				var w io.Writer = os.Stdout
				if file := c.String("output"); file != "" {
					f, err := os.Create(file)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					defer f.Close()
					w = f
				}

				bw := bufio.NewWriter(w)
				if err := a78paint.RenderPNG(bw, cv, c.Int("scale")); err != nil {
					return cli.NewExitError(err, 1)
				}
				if err := bw.Flush(); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "watch",
			Usage:       "Export a project every time it changes",
			Description: "",
			ArgsUsage:   "PROJECT",
			Flags:       codeFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				a, done, err := newApp(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
				defer stop()

				if err := a.Watch(ctx, c.Args().First(), c.String("dir"), codeOptions(c)); err != nil && !errors.Is(err, context.Canceled) {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "edit",
			Usage:       "Edit a canvas in the terminal",
			Description: editHelp,
			ArgsUsage:   "PROJECT CANVAS",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := edit(c.Args().Get(0), c.Args().Get(1), newLogger(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "db",
			Usage: "Manage projects stored in the database",
			Subcommands: []*cli.Command{
				{
					Name:      "import",
					Usage:     "Store project files",
					ArgsUsage: "FILE...",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						db, err := a78paint.NewProjectDB(c.String("db"))
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer db.Close()

						logger := newLogger(c)
						for _, file := range c.Args().Slice() {
							name, err := db.ImportFile(file)
							if err != nil {
								return cli.NewExitError(err, 1)
							}
							logger.Printf("Imported \"%s\" as \"%s\"\n", file, name)
						}

						return nil
					},
				},
				{
					Name:  "list",
					Usage: "List stored projects",
					Action: func(c *cli.Context) error {
						db, err := a78paint.NewProjectDB(c.String("db"))
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer db.Close()

						names, err := db.Projects()
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						for _, name := range names {
							fmt.Println(name)
						}

						return nil
					},
				},
				{
					Name:      "export",
					Usage:     "Generate assembly for a stored project",
					ArgsUsage: "NAME",
					Flags:     codeFlags(),
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						db, err := a78paint.NewProjectDB(c.String("db"))
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer db.Close()

						p, err := db.Load(c.Args().First())
						if err != nil {
							return cli.NewExitError(err, 1)
						}

						a := a78paint.New(db, newLogger(c))
						if err := a.Export(c.Context, p, c.String("dir"), codeOptions(c)); err != nil {
							return cli.NewExitError(err, 1)
						}

						return nil
					},
				},
				{
					Name:      "remove",
					Usage:     "Delete a stored project",
					ArgsUsage: "NAME",
					Action: func(c *cli.Context) error {
						if c.NArg() < 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						db, err := a78paint.NewProjectDB(c.String("db"))
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer db.Close()

						if err := db.Remove(c.Args().First()); err != nil {
							return cli.NewExitError(err, 1)
						}

						return nil
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
