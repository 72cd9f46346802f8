package octree

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/allrgb/palette"
)

func TestBoundingBoxIntersects(t *testing.T) {
	a := NewBoundingBox(0, 0, 0, 100, 100, 100)

	test.That(t, a.Intersects(NewBoundingBox(50, 50, 50, 150, 150, 150)), test.ShouldBeTrue)
	test.That(t, a.Intersects(a), test.ShouldBeTrue)
	// touching faces still intersect with inclusive bounds
	test.That(t, a.Intersects(NewBoundingBox(100, 0, 0, 200, 100, 100)), test.ShouldBeTrue)
	test.That(t, a.Intersects(NewBoundingBox(101, 0, 0, 200, 100, 100)), test.ShouldBeFalse)
	// overlap must be non-empty on every axis
	test.That(t, a.Intersects(NewBoundingBox(0, 101, 0, 100, 200, 100)), test.ShouldBeFalse)
}

func TestBoundingBoxContains(t *testing.T) {
	a := NewBoundingBox(0, 0, 0, 100, 100, 100)

	test.That(t, a.Contains(NewBoundingBox(10, 10, 10, 90, 90, 90)), test.ShouldBeTrue)
	test.That(t, a.Contains(a), test.ShouldBeTrue)
	test.That(t, a.Contains(NewBoundingBox(10, 10, 10, 101, 90, 90)), test.ShouldBeFalse)
	test.That(t, a.Contains(NewBoundingBox(-1, 10, 10, 90, 90, 90)), test.ShouldBeFalse)
}

func TestBoundingBoxContainsColor(t *testing.T) {
	b := NewBoundingBox(10, 10, 10, 20, 20, 20)

	test.That(t, b.ContainsColor(palette.NewColor(10, 20, 15)), test.ShouldBeTrue)
	test.That(t, b.ContainsColor(palette.NewColor(9, 15, 15)), test.ShouldBeFalse)
	test.That(t, b.ContainsColor(palette.NewColor(15, 21, 15)), test.ShouldBeFalse)
}

func TestBoundingBoxSetAround(t *testing.T) {
	var b BoundingBox
	b.SetAround(palette.NewColor(5, 128, 250), 10)

	// no clamping on either end
	test.That(t, b, test.ShouldResemble, NewBoundingBox(-5, 118, 240, 15, 138, 260))
}

func TestBoundingBoxSubForIndex(t *testing.T) {
	root := NewBoundingBox(0, 0, 0, 255, 255, 255)

	// Octant packing is RGB ---, --+, -+-, -++, +--, +-+, ++-, +++.
	test.That(t, root.SubForIndex(0, 128), test.ShouldResemble, NewBoundingBox(0, 0, 0, 127, 127, 127))
	test.That(t, root.SubForIndex(7, 128), test.ShouldResemble, NewBoundingBox(128, 128, 128, 255, 255, 255))
	test.That(t, root.SubForIndex(0b100, 128), test.ShouldResemble, NewBoundingBox(128, 0, 0, 255, 127, 127))
	test.That(t, root.SubForIndex(0b001, 128), test.ShouldResemble, NewBoundingBox(0, 0, 128, 127, 127, 255))

	// second level subdivides the child's halves
	child := root.SubForIndex(7, 128)
	test.That(t, child.SubForIndex(0, 64), test.ShouldResemble, NewBoundingBox(128, 128, 128, 191, 191, 191))
	test.That(t, child.SubForIndex(7, 64), test.ShouldResemble, NewBoundingBox(192, 192, 192, 255, 255, 255))
}

func TestNodeBoundsContainCorners(t *testing.T) {
	// every corner color should land in a child whose box contains it
	tree := New()
	corners := []palette.Color{
		palette.NewColor(0, 0, 0),
		palette.NewColor(255, 255, 255),
		palette.NewColor(0, 0, 255),
		palette.NewColor(0, 255, 0),
		palette.NewColor(0, 255, 255),
		palette.NewColor(255, 0, 0),
		palette.NewColor(255, 0, 255),
		palette.NewColor(255, 255, 0),
	}
	for _, c := range corners {
		child := tree.root.getOrCreateChild(c)
		test.That(t, child.bounds.ContainsColor(c), test.ShouldBeTrue)
	}
}
