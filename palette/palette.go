package palette

import (
	"math/rand"

	"github.com/pkg/errors"
)

const cubeSize = 1 << 24

// Palette is the fixed sequence of colors to place, one per pixel of a
// size x size image. Entry i is consumed at placement step i.
//
// For size 4096 the palette is the full 24-bit RGB cube (16,777,216 distinct
// colors). Smaller sizes stride the cube evenly so entries stay distinct.
type Palette struct {
	colors []Color
}

// New builds the palette for a square image with the given side length.
func New(size int) (*Palette, error) {
	if size < 2 {
		return nil, errors.Errorf("palette needs a side length of at least 2, got %d", size)
	}
	n := size * size
	if n > cubeSize {
		return nil, errors.Errorf("side length %d needs %d colors, more than the RGB cube holds", size, n)
	}

	colors := make([]Color, n)
	for i := range colors {
		colors[i] = colorAtCubeIndex(i * (cubeSize / n))
	}
	return &Palette{colors: colors}, nil
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.colors)
}

// At returns the color at the given step.
func (p *Palette) At(i int) Color {
	return p.colors[i]
}

// Swap exchanges two palette entries. The driver uses this to move seed colors
// to the front of the sequence.
func (p *Palette) Swap(i, j int) {
	p.colors[i], p.colors[j] = p.colors[j], p.colors[i]
}

// Shuffle permutes the palette uniformly with the caller's source, so runs are
// reproducible from a seed.
func (p *Palette) Shuffle(r *rand.Rand) {
	r.Shuffle(len(p.colors), p.Swap)
}

// IndexOf returns the current position of the given color, or -1 if the
// palette does not contain it. Linear; meant for one-off seed lookup.
func (p *Palette) IndexOf(c Color) int {
	for i, have := range p.colors {
		if have == c {
			return i
		}
	}
	return -1
}
