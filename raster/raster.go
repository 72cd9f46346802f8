// Package raster writes the generated image to disk: final output, downscaled
// previews, and background snapshots taken while the placement loop runs.
package raster

import (
	"bufio"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
	goutils "go.viam.com/utils"
)

// Encode writes img to w in the given format ("png", "ppm", or "qoi").
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "ppm":
		// the PPM encoder only accepts RGBA images
		rgba, ok := img.(*image.RGBA)
		if !ok {
			b := img.Bounds()
			rgba = image.NewRGBA(b)
			draw.Draw(rgba, b, img, b.Min, draw.Src)
		}
		return ppm.Encode(w, rgba)
	case "qoi":
		return qoi.Encode(w, img)
	default:
		return errors.Errorf("unknown image format %q", format)
	}
}

// WriteFile writes img to path, picking the encoder from the file extension.
func WriteFile(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		format = "png"
	}

	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	w := bufio.NewWriter(f)
	if err := Encode(w, img, format); err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	return w.Flush()
}

// Preview returns a Lanczos-downscaled copy of img with the given width,
// preserving aspect ratio.
func Preview(img image.Image, width int) *image.NRGBA {
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}
