package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func testImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(x * 16)
			img.Pix[i+1] = uint8(y * 16)
			img.Pix[i+2] = 128
			img.Pix[i+3] = 0xff
		}
	}
	return img
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	img := testImage(16)

	t.Run("png round trips", func(t *testing.T) {
		path := filepath.Join(dir, "out.png")
		test.That(t, WriteFile(path, img), test.ShouldBeNil)

		//nolint:gosec
		f, err := os.Open(path)
		test.That(t, err, test.ShouldBeNil)
		defer func() {
			test.That(t, f.Close(), test.ShouldBeNil)
		}()
		decoded, err := png.Decode(f)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, decoded.Bounds(), test.ShouldResemble, img.Bounds())
	})

	t.Run("ppm and qoi encode", func(t *testing.T) {
		for _, ext := range []string{"ppm", "qoi"} {
			path := filepath.Join(dir, "out."+ext)
			test.That(t, WriteFile(path, img), test.ShouldBeNil)
			info, err := os.Stat(path)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
		}
	})

	t.Run("unknown extension fails", func(t *testing.T) {
		err := WriteFile(filepath.Join(dir, "out.gif"), img)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestPreview(t *testing.T) {
	small := Preview(testImage(16), 8)
	test.That(t, small.Bounds().Dx(), test.ShouldEqual, 8)
	test.That(t, small.Bounds().Dy(), test.ShouldEqual, 8)
}

func TestSnapshotter(t *testing.T) {
	logger := golog.NewTestLogger(t)

	t.Run("rejects unknown formats", func(t *testing.T) {
		_, err := NewSnapshotter(t.TempDir(), "gif", logger)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("writes monotone indices", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "snaps")
		s, err := NewSnapshotter(dir, "png", logger)
		test.That(t, err, test.ShouldBeNil)

		for i := 0; i < 3; i++ {
			s.Snapshot(testImage(8))
		}
		test.That(t, s.Close(), test.ShouldBeNil)
		test.That(t, s.InFlight(), test.ShouldEqual, 0)

		for i := 0; i < 3; i++ {
			_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("snapshot-%d.png", i)))
			test.That(t, err, test.ShouldBeNil)
		}
	})

	t.Run("collects write failures without aborting", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewSnapshotter(dir, "png", logger)
		test.That(t, err, test.ShouldBeNil)

		// make the directory unusable so the background write fails
		test.That(t, os.RemoveAll(dir), test.ShouldBeNil)
		test.That(t, os.WriteFile(dir, []byte{}, 0o600), test.ShouldBeNil)

		s.Snapshot(testImage(8))
		test.That(t, s.Close(), test.ShouldNotBeNil)
	})
}
