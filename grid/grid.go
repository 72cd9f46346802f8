// Package grid tracks the pixel positions of the output image and which of
// them have already been written.
package grid

import (
	"fmt"

	"github.com/pkg/errors"
)

// Connectivity selects which neighbors a position exposes to the growth loop.
type Connectivity int

const (
	// Connect4 exposes the left, right, up, down neighbors.
	Connect4 Connectivity = iota
	// Connect8 additionally exposes the four diagonal neighbors.
	Connect8
)

// Position is one pixel location. Positions are minted once by New and
// referenced by pointer for the rest of the run.
type Position struct {
	X, Y int
	hash uint32
}

// Hash uniquely identifies the position as y*size + x.
func (p *Position) Hash() uint32 {
	return p.hash
}

func (p *Position) String() string {
	return fmt.Sprintf("Space<%d,%d>", p.X, p.Y)
}

// Grid owns every position of a size x size image plus the written bitmap.
type Grid struct {
	size    int
	conn    Connectivity
	cells   []Position
	written []uint64
}

// New creates the position grid for a square image with the given side length.
func New(size int, conn Connectivity) (*Grid, error) {
	if size < 2 {
		return nil, errors.Errorf("grid needs a side length of at least 2, got %d", size)
	}

	g := &Grid{
		size:    size,
		conn:    conn,
		cells:   make([]Position, size*size),
		written: make([]uint64, (size*size+63)/64),
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			at := &g.cells[y*size+x]
			at.X = x
			at.Y = y
			at.hash = uint32(y*size + x)
		}
	}
	return g, nil
}

// Size returns the side length.
func (g *Grid) Size() int {
	return g.size
}

// In reports whether the coordinates are on the grid.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

// At returns the position at (x, y). Coordinates must be on the grid.
func (g *Grid) At(x, y int) *Position {
	return &g.cells[y*g.size+x]
}

// Written reports whether the position has been written.
func (g *Grid) Written(p *Position) bool {
	return g.written[p.hash>>6]&(1<<(p.hash&63)) != 0
}

// MarkWritten sets the position's written flag and reports whether it was
// already set, so double writes surface at the call site.
func (g *Grid) MarkWritten(p *Position) bool {
	word, bit := p.hash>>6, uint64(1)<<(p.hash&63)
	was := g.written[word]&bit != 0
	g.written[word] |= bit
	return was
}

// WrittenCount returns how many positions have been written.
func (g *Grid) WrittenCount() int {
	n := 0
	for _, w := range g.written {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}

// Neighbors appends p's in-bounds neighbors to buf and returns it. Enumeration
// order is fixed: left, right, up, down, then (for Connect8) up-left, up-right,
// down-left, down-right.
func (g *Grid) Neighbors(p *Position, buf []*Position) []*Position {
	x, y, max := p.X, p.Y, g.size-1

	if x > 0 {
		buf = append(buf, g.At(x-1, y))
	}
	if x < max {
		buf = append(buf, g.At(x+1, y))
	}
	if y > 0 {
		buf = append(buf, g.At(x, y-1))
	}
	if y < max {
		buf = append(buf, g.At(x, y+1))
	}

	if g.conn == Connect8 {
		if x > 0 && y > 0 {
			buf = append(buf, g.At(x-1, y-1))
		}
		if x < max && y > 0 {
			buf = append(buf, g.At(x+1, y-1))
		}
		if x > 0 && y < max {
			buf = append(buf, g.At(x-1, y+1))
		}
		if x < max && y < max {
			buf = append(buf, g.At(x+1, y+1))
		}
	}

	return buf
}
