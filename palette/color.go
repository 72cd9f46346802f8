// Package palette holds the color primitive and the shuffled sequence of colors
// consumed by the placement loop.
package palette

import (
	"fmt"
)

// Color is a 24-bit RGB triple. Immutable once created.
type Color struct {
	R, G, B uint8
}

// NewColor creates a color from its channel values.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

func (c Color) String() string {
	return c.Hex()
}

// Hex returns the #rrggbb form of the color.
func (c Color) Hex() string {
	return fmt.Sprintf("#%.2x%.2x%.2x", c.R, c.G, c.B)
}

// DistanceSq returns the squared Euclidean distance to another color.
func (c Color) DistanceSq(other Color) int {
	dr := int(c.R) - int(other.R)
	dg := int(c.G) - int(other.G)
	db := int(c.B) - int(other.B)
	return dr*dr + dg*dg + db*db
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 0xffff
	return
}

// colorAtCubeIndex unpacks a 24-bit cube coordinate, r in the high byte.
func colorAtCubeIndex(idx int) Color {
	return Color{
		R: uint8(idx >> 16),
		G: uint8(idx >> 8),
		B: uint8(idx),
	}
}
