package octree

import (
	"fmt"

	"go.viam.com/allrgb/grid"
	"go.viam.com/allrgb/palette"
)

// Point is a frontier point: an unwritten pixel position paired with the
// candidate color it inherited from a written neighbor. Points are pooled;
// hold them only between Insert/FindNearest and Remove/Recycle.
type Point struct {
	Pos   *grid.Position
	Color palette.Color
}

func (p *Point) String() string {
	return fmt.Sprintf("Point<%d,%d # %d,%d,%d>", p.Pos.X, p.Pos.Y, p.Color.R, p.Color.G, p.Color.B)
}

// bucket groups every live frontier point that shares one grid position
// within one node's sub-cube.
type bucket struct {
	points []*Point
}

// pointPool recycles frontier points. It grows to the run's peak frontier and
// never shrinks; not safe for concurrent use, matching the strictly serial
// placement loop.
type pointPool struct {
	free []*Point
}

func (pp *pointPool) acquire() *Point {
	if n := len(pp.free); n > 0 {
		p := pp.free[n-1]
		pp.free = pp.free[:n-1]
		p.Pos = nil
		p.Color = palette.Color{}
		return p
	}
	return &Point{}
}

func (pp *pointPool) release(p *Point) {
	pp.free = append(pp.free, p)
}

// bucketPool recycles buckets, keeping their backing arrays.
type bucketPool struct {
	free []*bucket
}

func (bp *bucketPool) acquire() *bucket {
	if n := len(bp.free); n > 0 {
		b := bp.free[n-1]
		bp.free = bp.free[:n-1]
		b.points = b.points[:0]
		return b
	}
	return &bucket{points: make([]*Point, 0, 8)}
}

func (bp *bucketPool) release(b *bucket) {
	for i := range b.points {
		b.points[i] = nil
	}
	b.points = b.points[:0]
	bp.free = append(bp.free, b)
}
