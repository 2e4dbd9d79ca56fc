package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/woodale/indexpal"
)

const defaultDB = "indexpal.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func convertFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "colors",
			Value: 256,
			Usage: "target palette size including the transparent entry",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Value: "octree",
			Usage: "quantizer: octree, histogram or mediancut",
		},
		&cli.BoolFlag{
			Name:  "alpha",
			Usage: "track alpha while quantizing",
		},
		&cli.BoolFlag{
			Name:  "dither",
			Usage: "apply ordered dithering",
		},
		&cli.IntFlag{
			Name:  "matrix",
			Value: 8,
			Usage: "Bayer matrix size: 2, 4 or 8",
		},
		&cli.BoolFlag{
			Name:  "background",
			Usage: "flatten transparency instead of reserving a mask entry",
		},
		&cli.IntFlag{
			Name:  "scale",
			Value: 1,
			Usage: "nearest-neighbor upscale factor for the output",
		},
	}
}

func options(c *cli.Context) (indexpal.ConvertOptions, error) {
	strategy, err := indexpal.ParseStrategy(c.String("strategy"))
	if err != nil {
		return indexpal.ConvertOptions{}, err
	}
	return indexpal.ConvertOptions{
		Colors:     c.Int("colors"),
		Strategy:   strategy,
		TrackAlpha: c.Bool("alpha"),
		Dither:     c.Bool("dither"),
		MatrixSize: c.Int("matrix"),
		Background: c.Bool("background"),
		Scale:      c.Int("scale"),
	}, nil
}

func newIndexPal(c *cli.Context) (*indexpal.IndexPal, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	db, err := indexpal.OpenPaletteDB(c.String("db"))
	if err != nil {
		return nil, err
	}

	return indexpal.New(db, logger), nil
}

func main() {
	app := cli.NewApp()

	app.Name = "indexpal"
	app.Usage = "Indexed-color conversion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"INDEXPAL_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to the palette cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert an image or animation to indexed color",
			ArgsUsage: "SOURCE DESTINATION",
			Flags:     convertFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				ip, err := newIndexPal(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := ip.ConvertFile(c.Args().Get(0), c.Args().Get(1), opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "batch",
			Usage:     "Convert every image under a directory",
			ArgsUsage: "DIRECTORY",
			Flags:     convertFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				ip, err := newIndexPal(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := ip.Batch(c.Args().First(), opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "palette",
			Usage:     "Print the generated palette for an image",
			ArgsUsage: "SOURCE",
			Flags:     convertFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := options(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				ip, err := newIndexPal(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				pal, err := ip.Palette(c.Args().First(), opts)
				if err != nil {
					return cli.Exit(err, 1)
				}

				for i := 0; i < pal.Size(); i++ {
					col := pal.Color(i)
					mask := ""
					if i == pal.MaskIndex() {
						mask = " (mask)"
					}
					fmt.Printf("%3d: #%02x%02x%02x a=%02x%s\n", i, col.R(), col.G(), col.B(), col.A(), mask)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
