// Package generator runs the placement loop: it owns the shuffled palette,
// the position grid, the image buffer, and the frontier index, and grows the
// image outward from its seed pixels one palette entry at a time.
package generator

import (
	"image"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/allrgb/grid"
	"go.viam.com/allrgb/octree"
	"go.viam.com/allrgb/palette"
	"go.viam.com/allrgb/raster"
)

// Config configures a generator.
type Config struct {
	// Size is the side length of the square output image.
	Size int
	// Connectivity selects 4- or 8-connected growth.
	Connectivity grid.Connectivity
	// SnapshotDir enables periodic background snapshots when non-empty.
	SnapshotDir string
	// SnapshotFormat is the snapshot encoding; defaults to png.
	SnapshotFormat string
	// Clock drives progress-rate measurement; defaults to the wall clock.
	Clock clock.Clock
}

// Generator places every palette color onto its own pixel so that neighboring
// pixels hold nearby colors. Not safe for concurrent use.
type Generator struct {
	logger golog.Logger
	clck   clock.Clock

	size    int
	colors  *palette.Palette
	grid    *grid.Grid
	img     *image.NRGBA
	tree    *octree.Octree
	snaps   *raster.Snapshotter
	current int

	// progress bookkeeping
	progressEvery int
	snapshotEvery int
	lastTick      time.Time
	rates         []float64

	neighbors []*grid.Position
}

// New builds a generator for the configured size.
func New(cfg Config, logger golog.Logger) (*Generator, error) {
	colors, err := palette.New(cfg.Size)
	if err != nil {
		return nil, err
	}
	positions, err := grid.New(cfg.Size, cfg.Connectivity)
	if err != nil {
		return nil, err
	}

	var snaps *raster.Snapshotter
	if cfg.SnapshotDir != "" {
		format := cfg.SnapshotFormat
		if format == "" {
			format = "png"
		}
		snaps, err = raster.NewSnapshotter(cfg.SnapshotDir, format, logger)
		if err != nil {
			return nil, err
		}
	}

	clck := cfg.Clock
	if clck == nil {
		clck = clock.New()
	}

	return &Generator{
		logger:        logger,
		clck:          clck,
		size:          cfg.Size,
		colors:        colors,
		grid:          positions,
		img:           image.NewNRGBA(image.Rect(0, 0, cfg.Size, cfg.Size)),
		tree:          octree.New(),
		snaps:         snaps,
		progressEvery: 16 * cfg.Size,
		snapshotEvery: 256 * cfg.Size,
		lastTick:      clck.Now(),
		neighbors:     make([]*grid.Position, 0, 8),
	}, nil
}

// Palette exposes the palette, shuffled or not.
func (g *Generator) Palette() *palette.Palette {
	return g.colors
}

// Image returns the live image buffer. Callers must not mutate it.
func (g *Generator) Image() image.Image {
	return g.img
}

// Placed returns how many pixels have been placed so far.
func (g *Generator) Placed() int {
	return g.current
}

// ShuffleColors permutes the palette with the caller's source.
func (g *Generator) ShuffleColors(r *rand.Rand) {
	g.logger.Info("doing the color shuffle")
	g.colors.Shuffle(r)
}

// Seed writes the palette entry at paletteIndex to (x, y), moving it to the
// front of the remaining sequence, and opens the pixel's unwritten neighbors
// as frontier points.
func (g *Generator) Seed(x, y, paletteIndex int) error {
	if !g.grid.In(x, y) {
		return errors.Errorf("seeding out of bounds at (%d,%d)", x, y)
	}
	if paletteIndex < 0 || paletteIndex >= g.colors.Len() {
		return errors.Errorf("seed palette index %d out of range", paletteIndex)
	}

	pos := g.grid.At(x, y)
	if g.grid.Written(pos) {
		return errors.Errorf("seeding already written position (%d,%d)", x, y)
	}

	g.colors.Swap(g.current, paletteIndex)
	c := g.colors.At(g.current)

	g.setPixel(pos, c)
	g.grid.MarkWritten(pos)
	g.openNeighbors(pos, c)
	g.current++
	return nil
}

// SeedColor seeds (x, y) with a specific color, wherever it currently sits in
// the shuffled palette.
func (g *Generator) SeedColor(x, y int, c palette.Color) error {
	idx := g.colors.IndexOf(c)
	if idx < 0 {
		return errors.Errorf("seed color %s is not in the palette", c)
	}
	return g.Seed(x, y, idx)
}

// SimulateTo places palette entries up to (but not including) step n. At
// least one seed must have been placed first.
func (g *Generator) SimulateTo(n int) error {
	if g.current == 0 {
		return errors.New("no seed point")
	}
	if n > g.colors.Len() {
		return errors.Errorf("cannot place %d pixels with a %d-color palette", n, g.colors.Len())
	}

	for c := g.current; c < n; c++ {
		if c%g.progressEvery == 0 {
			g.trackProgress(c)
		}
		if g.snaps != nil && c%g.snapshotEvery == 0 {
			g.snaps.Snapshot(g.cloneImage())
		}

		at := g.colors.At(c)

		next, err := g.tree.FindNearest(at)
		if err != nil {
			return errors.Wrapf(err, "placing pixel %d", c)
		}

		g.setPixel(next.Pos, at)
		if g.grid.MarkWritten(next.Pos) {
			return errors.Errorf("frontier returned already written position %s", next.Pos)
		}
		g.openNeighbors(next.Pos, at)

		if err := g.tree.Remove(next); err != nil {
			return errors.Wrapf(err, "placing pixel %d", c)
		}
		g.tree.Recycle(next)
		g.current = c + 1
	}
	return nil
}

// Write encodes the current image to path, creating parent directories.
func (g *Generator) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating output directory %s", dir)
		}
	}
	return raster.WriteFile(path, g.img)
}

// Close waits for outstanding snapshots and logs a placement-rate summary.
func (g *Generator) Close() error {
	var err error
	if g.snaps != nil {
		err = multierr.Combine(err, g.snaps.Close())
	}

	if len(g.rates) > 0 {
		median, medianErr := stats.Median(g.rates)
		mean, meanErr := stats.Mean(g.rates)
		peak, peakErr := stats.Max(g.rates)
		if summaryErr := multierr.Combine(medianErr, meanErr, peakErr); summaryErr == nil {
			g.logger.Infow("placement rate summary",
				"median_px_per_sec", median,
				"mean_px_per_sec", mean,
				"peak_px_per_sec", peak,
			)
		}
	}
	return err
}

func (g *Generator) setPixel(pos *grid.Position, c palette.Color) {
	i := g.img.PixOffset(pos.X, pos.Y)
	g.img.Pix[i] = c.R
	g.img.Pix[i+1] = c.G
	g.img.Pix[i+2] = c.B
	g.img.Pix[i+3] = 0xff
}

// openNeighbors inserts a frontier point for every unwritten neighbor of a
// freshly written pixel, candidate color being the color just written.
func (g *Generator) openNeighbors(pos *grid.Position, c palette.Color) {
	g.neighbors = g.grid.Neighbors(pos, g.neighbors[:0])
	for _, nb := range g.neighbors {
		if !g.grid.Written(nb) {
			g.tree.Insert(nb, c)
		}
	}
}

func (g *Generator) trackProgress(c int) {
	now := g.clck.Now()
	dt := now.Sub(g.lastTick).Seconds()
	g.lastTick = now

	open := g.tree.Open()
	pps := 0.0
	if dt > 0 {
		pps = float64(g.progressEvery) / dt
		g.rates = append(g.rates, pps)
	}
	ppso := 0.0
	if open > 1 {
		ppso = pps / math.Log(float64(open))
	}

	g.logger.Infof("at row %d have %d open   %.2f sec %.0f px/sec %.0f px/sec/ln(open)",
		c/g.size, open, dt, pps, ppso)
}

func (g *Generator) cloneImage() *image.NRGBA {
	dup := image.NewNRGBA(g.img.Rect)
	copy(dup.Pix, g.img.Pix)
	return dup
}
