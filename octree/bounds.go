package octree

import (
	"fmt"

	"go.viam.com/allrgb/palette"
)

// BoundingBox is an axis-aligned box in RGB space with inclusive integer
// bounds. Search boxes deliberately run outside [0,255]; nothing clamps.
type BoundingBox struct {
	LR, LG, LB int
	UR, UG, UB int
}

// NewBoundingBox creates a box from its lower and upper corners.
func NewBoundingBox(lr, lg, lb, ur, ug, ub int) BoundingBox {
	return BoundingBox{LR: lr, LG: lg, LB: lb, UR: ur, UG: ug, UB: ub}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("Bounds< R in [%d, %d] G in [%d, %d] B in [%d, %d] >",
		b.LR, b.UR, b.LG, b.UG, b.LB, b.UB)
}

// Intersects reports whether the interval overlap with other is non-empty on
// all three axes.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.UR < other.LR || other.UR < b.LR ||
		b.UG < other.LG || other.UG < b.LG ||
		b.UB < other.LB || other.UB < b.LB)
}

// Contains reports whether other lies entirely within b.
func (b BoundingBox) Contains(other BoundingBox) bool {
	return other.UR <= b.UR && other.LR >= b.LR &&
		other.UG <= b.UG && other.LG >= b.LG &&
		other.UB <= b.UB && other.LB >= b.LB
}

// ContainsColor reports whether the color lies within b.
func (b BoundingBox) ContainsColor(c palette.Color) bool {
	return int(c.R) >= b.LR && int(c.R) <= b.UR &&
		int(c.G) >= b.LG && int(c.G) <= b.UG &&
		int(c.B) >= b.LB && int(c.B) <= b.UB
}

// SetAround replaces the box with [center-radius, center+radius] on each axis.
func (b *BoundingBox) SetAround(center palette.Color, radius int) {
	b.LR = int(center.R) - radius
	b.UR = int(center.R) + radius
	b.LG = int(center.G) - radius
	b.UG = int(center.G) + radius
	b.LB = int(center.B) - radius
	b.UB = int(center.B) + radius
}

// SubForIndex derives the child box for an octant index, splitting the parent
// at its midpoint on each axis. Octant packing is RGB ---, --+, -+-, -++, +--,
// +-+, ++-, +++.
func (b BoundingBox) SubForIndex(index, radius int) BoundingBox {
	sub := b
	if index&0b100 != 0 {
		sub.LR += radius
	} else {
		sub.UR -= radius
	}
	if index&0b010 != 0 {
		sub.LG += radius
	} else {
		sub.UG -= radius
	}
	if index&0b001 != 0 {
		sub.LB += radius
	} else {
		sub.UB -= radius
	}
	return sub
}
