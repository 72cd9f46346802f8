// Package octree implements the incremental nearest-neighbor index over
// frontier points used by the placement loop. The tree is a bounded-depth
// octree over RGB space; every node along a point's root-to-leaf path stores
// the point, grouped into per-position buckets, so removal by position can
// retire every candidate for a pixel in one shot.
package octree

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/allrgb/grid"
	"go.viam.com/allrgb/palette"
)

const (
	// maxTreeDepth is the depth of the leaf layer; leaves cover 16^3 sub-cubes.
	maxTreeDepth = 4
	// nodeScanThreshold is the bucket count at or below which a node is scanned
	// linearly instead of descending further.
	nodeScanThreshold = 64
)

// Octree is the frontier index. It owns the node tree plus the point and
// bucket pools. Not safe for concurrent use; placement is strictly serial.
type Octree struct {
	root    *node
	points  pointPool
	buckets bucketPool
	size    int

	// scratch keeps Remove allocation-free while it holds the doomed
	// bucket's points across the recursive removal.
	scratch []*Point
}

type node struct {
	parent   *node
	depth    int
	coord    uint32
	bounds   BoundingBox
	radius   int
	children [8]*node

	// pts holds one bucket per open position whose candidate colors fall in
	// this sub-cube; pointHash maps a position hash to its index in pts.
	pts       []*bucket
	pointHash map[uint32]int
}

// search carries the state of an expanding nearest-neighbor search that has
// escaped its starting sub-cube.
type search struct {
	candidate  *Point
	source     palette.Color
	bestDistSq int
	bounds     BoundingBox
}

// New creates an empty index over the full RGB cube.
func New() *Octree {
	return &Octree{
		root: newNode(nil, 0, 0, NewBoundingBox(0, 0, 0, 255, 255, 255)),
	}
}

func newNode(parent *node, depth int, coord uint32, bounds BoundingBox) *node {
	return &node{
		parent:    parent,
		depth:     depth,
		coord:     coord,
		bounds:    bounds,
		radius:    128 >> depth,
		pointHash: map[uint32]int{},
	}
}

// Len returns the number of frontier points in the index.
func (t *Octree) Len() int {
	return t.size
}

// Open returns the number of open positions (buckets at the root).
func (t *Octree) Open() int {
	return len(t.root.pts)
}

// Has reports whether any frontier point exists for the given position hash.
func (t *Octree) Has(hash uint32) bool {
	_, ok := t.root.pointHash[hash]
	return ok
}

// Insert adds a frontier point for the position with the given candidate
// color. The point is drawn from the pool and indexed along its whole
// root-to-leaf path.
func (t *Octree) Insert(pos *grid.Position, c palette.Color) {
	p := t.points.acquire()
	p.Pos = pos
	p.Color = c
	t.root.add(p, t)
	t.size++
}

// Remove retires every frontier point stored for p's position, releasing the
// buckets and the sibling points back to their pools. The caller keeps p and
// recycles it separately once done with it.
func (t *Octree) Remove(p *Point) error {
	idx, ok := t.root.pointHash[p.Pos.Hash()]
	if !ok {
		return errors.Errorf("removing unknown position hash %d at root", p.Pos.Hash())
	}
	t.scratch = append(t.scratch[:0], t.root.pts[idx].points...)
	if err := t.root.remove(p, t); err != nil {
		return err
	}
	for _, q := range t.scratch {
		if q != p {
			t.points.release(q)
		}
	}
	t.size -= len(t.scratch)
	return nil
}

// Recycle returns a point obtained from FindNearest to the pool after the
// caller has finished with it and removed it from the index.
func (t *Octree) Recycle(p *Point) {
	t.points.release(p)
}

// FindNearest returns a frontier point whose candidate color minimizes the
// squared distance to c over the whole index.
func (t *Octree) FindNearest(c palette.Color) (*Point, error) {
	n := t.root
	if len(n.pts) == 0 {
		return nil, errors.New("find nearest on an empty index")
	}

	// Descend toward c while nodes are too big to scan and the routed child
	// has anything to offer.
	for len(n.pts) > nodeScanThreshold && n.depth < maxTreeDepth {
		child := n.children[n.addr(c)]
		if child == nil || len(child.pts) == 0 {
			break
		}
		n = child
	}

	best, bestDistSq := n.nearestInUs(c)
	if best == nil {
		return nil, errors.Errorf("node %d at depth %d has buckets but no points", n.coord, n.depth)
	}

	// If the box of half-side sqrt(bestDistSq) around c pokes out of this
	// node's sub-cube, a sibling sub-cube may hold something closer.
	var around BoundingBox
	around.SetAround(c, isqrt(bestDistSq))
	if n.depth > 0 && !n.bounds.Contains(around) {
		s := &search{
			candidate:  best,
			source:     c,
			bestDistSq: bestDistSq,
			bounds:     around,
		}
		if err := n.parent.nnSearchUp(s, n); err != nil {
			return nil, err
		}
		return s.candidate, nil
	}

	return best, nil
}

// addr returns the octant index of c at this node's depth: the bit of each
// channel that splits this sub-cube.
func (n *node) addr(c palette.Color) int {
	mask := n.radius
	over := 7 - n.depth
	raddr := (int(c.R) & mask) >> over
	gaddr := (int(c.G) & mask) >> over
	baddr := (int(c.B) & mask) >> over
	return raddr<<2 | gaddr<<1 | baddr
}

func (n *node) getOrCreateChild(c palette.Color) *node {
	caddr := n.addr(c)
	if n.children[caddr] == nil {
		n.children[caddr] = newNode(
			n,
			n.depth+1,
			n.coord|uint32(caddr)<<(18-3*n.depth),
			n.bounds.SubForIndex(caddr, n.radius),
		)
	}
	return n.children[caddr]
}

func (n *node) add(p *Point, t *Octree) {
	if n.depth < maxTreeDepth {
		n.getOrCreateChild(p.Color).add(p, t)
	}

	h := p.Pos.Hash()
	if idx, ok := n.pointHash[h]; ok {
		n.pts[idx].points = append(n.pts[idx].points, p)
		return
	}
	b := t.buckets.acquire()
	b.points = append(b.points, p)
	n.pointHash[h] = len(n.pts)
	n.pts = append(n.pts, b)
}

func (n *node) remove(p *Point, t *Octree) error {
	h := p.Pos.Hash()
	idx, ok := n.pointHash[h]
	if !ok {
		return errors.Errorf("removing unknown position hash %d from node %d at depth %d", h, n.coord, n.depth)
	}
	if len(n.pts) == 0 {
		return errors.Errorf("removing from empty node %d at depth %d", n.coord, n.depth)
	}
	removing := n.pts[idx]

	// A position may have arrived several times with colors routing to
	// different children; tell each affected child exactly once.
	if n.depth < maxTreeDepth {
		var seen uint8
		for _, q := range removing.points {
			a := n.addr(q.Color)
			bit := uint8(1) << a
			if seen&bit != 0 {
				continue
			}
			seen |= bit
			child := n.children[a]
			if child == nil {
				return errors.Errorf("position hash %d routes to a missing child %d of node %d at depth %d", h, a, n.coord, n.depth)
			}
			if err := child.remove(p, t); err != nil {
				return err
			}
		}
	}

	last := len(n.pts) - 1
	tail := n.pts[last]
	if len(tail.points) == 0 {
		return errors.Errorf("empty tail bucket in node %d at depth %d", n.coord, n.depth)
	}

	if tail.points[0].Pos.Hash() != h {
		n.pts[idx], n.pts[last] = n.pts[last], n.pts[idx]
		n.pointHash[tail.points[0].Pos.Hash()] = idx
	}

	t.buckets.release(n.pts[last])
	n.pts = n.pts[:last]
	delete(n.pointHash, h)
	return nil
}

// nearestInUs linearly scans every point of every bucket at this node and
// returns the closest to c. First-found wins ties.
func (n *node) nearestInUs(c palette.Color) (*Point, int) {
	var best *Point
	bestDistSq := math.MaxInt
	for _, b := range n.pts {
		for _, q := range b.points {
			if d := c.DistanceSq(q.Color); d < bestDistSq {
				best = q
				bestDistSq = d
			}
		}
	}
	return best, bestDistSq
}

func (n *node) nnSearchUp(s *search, from *node) error {
	if !s.bounds.Intersects(n.bounds) {
		return errors.Errorf("searching up a non-intersecting node %d at depth %d", n.coord, n.depth)
	}

	for _, child := range &n.children {
		if child != nil && child != from {
			child.nnSearchDown(s)
		}
	}

	// Climb while part of the search space still lies outside us.
	if n.depth > 0 && !n.bounds.Contains(s.bounds) {
		return n.parent.nnSearchUp(s, n)
	}
	return nil
}

func (n *node) nnSearchDown(s *search) {
	if !s.bounds.Intersects(n.bounds) {
		return
	}
	if len(n.pts) == 0 {
		return
	}

	if len(n.pts) <= nodeScanThreshold || n.depth == maxTreeDepth {
		q, d := n.nearestInUs(s.source)
		if q != nil && d < s.bestDistSq {
			s.candidate = q
			s.bestDistSq = d
			s.bounds.SetAround(s.source, isqrt(d))
		}
		return
	}

	for _, child := range &n.children {
		if child != nil {
			child.nnSearchDown(s)
		}
	}
}

func isqrt(distSq int) int {
	return int(math.Sqrt(float64(distSq)))
}
