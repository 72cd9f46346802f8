// Package main is the allrgb command: it grows a square image in which every
// palette color appears exactly once, then writes it to disk.
package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"

	"go.viam.com/allrgb/generator"
	"go.viam.com/allrgb/grid"
	"go.viam.com/allrgb/raster"
)

func main() {
	logger := golog.NewDevelopmentLogger("allrgb")

	app := &cli.App{
		Name:  "allrgb",
		Usage: "generate an image containing every RGB color exactly once",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "size",
				Value: 4096,
				Usage: "side length of the square output image",
			},
			&cli.IntFlag{
				Name:  "pixels",
				Usage: "number of pixels to place (default: size squared)",
			},
			&cli.StringFlag{
				Name:  "out",
				Value: "output/snapshot-final.png",
				Usage: "final image path (.png, .ppm, or .qoi)",
			},
			&cli.StringFlag{
				Name:  "snapshot-dir",
				Value: "output",
				Usage: "directory for periodic snapshots (empty disables)",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "png",
				Usage: "snapshot format: png, ppm, or qoi",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "palette shuffle seed (default: current time)",
			},
			&cli.BoolFlag{
				Name:  "diagonal",
				Usage: "grow across diagonal neighbors too",
			},
			&cli.IntFlag{
				Name:  "preview",
				Usage: "also write a downscaled preview of this width",
			},
		},
		Action: func(ctx *cli.Context) error {
			return run(ctx, logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

func run(ctx *cli.Context, logger golog.Logger) error {
	size := ctx.Int("size")
	pixels := ctx.Int("pixels")
	if pixels == 0 {
		pixels = size * size
	}
	seed := ctx.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	conn := grid.Connect4
	if ctx.Bool("diagonal") {
		conn = grid.Connect8
	}

	gen, err := generator.New(generator.Config{
		Size:           size,
		Connectivity:   conn,
		SnapshotDir:    ctx.String("snapshot-dir"),
		SnapshotFormat: ctx.String("format"),
	}, logger)
	if err != nil {
		return err
	}

	gen.ShuffleColors(rand.New(rand.NewSource(seed)))

	if err := gen.Seed(size/2, size/2, 0); err != nil {
		return err
	}
	if err := gen.SimulateTo(pixels); err != nil {
		return err
	}

	out := ctx.String("out")
	if err := gen.Write(out); err != nil {
		return err
	}
	logger.Infof("wrote %s", out)

	if width := ctx.Int("preview"); width > 0 {
		preview := raster.Preview(gen.Image(), width)
		path := strings.TrimSuffix(out, filepath.Ext(out)) + "-preview.png"
		if err := raster.WriteFile(path, preview); err != nil {
			return err
		}
		logger.Infof("wrote %s", path)
	}

	if err := gen.Close(); err != nil {
		logger.Errorw("snapshot writes failed", "error", err)
	}
	return nil
}
