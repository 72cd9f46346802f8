package palette

import (
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestColor(t *testing.T) {
	t.Run("distance is squared euclidean", func(t *testing.T) {
		a := NewColor(0, 0, 0)
		b := NewColor(1, 2, 3)
		test.That(t, a.DistanceSq(b), test.ShouldEqual, 1+4+9)
		test.That(t, b.DistanceSq(a), test.ShouldEqual, 1+4+9)
		test.That(t, a.DistanceSq(a), test.ShouldEqual, 0)
	})

	t.Run("hex", func(t *testing.T) {
		test.That(t, NewColor(255, 0, 16).Hex(), test.ShouldEqual, "#ff0010")
	})

	t.Run("implements color.Color", func(t *testing.T) {
		r, g, b, a := NewColor(255, 0, 128).RGBA()
		test.That(t, r, test.ShouldEqual, uint32(0xffff))
		test.That(t, g, test.ShouldEqual, uint32(0))
		test.That(t, b, test.ShouldEqual, uint32(0x8080))
		test.That(t, a, test.ShouldEqual, uint32(0xffff))
	})
}

func TestNew(t *testing.T) {
	t.Run("rejects tiny sizes", func(t *testing.T) {
		_, err := New(1)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("entries are distinct", func(t *testing.T) {
		p, err := New(16)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p.Len(), test.ShouldEqual, 256)

		seen := map[Color]bool{}
		for i := 0; i < p.Len(); i++ {
			seen[p.At(i)] = true
		}
		test.That(t, len(seen), test.ShouldEqual, 256)
	})

	t.Run("entry zero is black", func(t *testing.T) {
		p, err := New(16)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p.At(0), test.ShouldResemble, NewColor(0, 0, 0))
	})
}

func TestShuffle(t *testing.T) {
	t.Run("same seed gives same order", func(t *testing.T) {
		a, err := New(16)
		test.That(t, err, test.ShouldBeNil)
		b, err := New(16)
		test.That(t, err, test.ShouldBeNil)

		a.Shuffle(rand.New(rand.NewSource(42)))
		b.Shuffle(rand.New(rand.NewSource(42)))
		for i := 0; i < a.Len(); i++ {
			test.That(t, a.At(i), test.ShouldResemble, b.At(i))
		}
	})

	t.Run("shuffle permutes, not mutates", func(t *testing.T) {
		p, err := New(16)
		test.That(t, err, test.ShouldBeNil)
		p.Shuffle(rand.New(rand.NewSource(1)))

		seen := map[Color]bool{}
		for i := 0; i < p.Len(); i++ {
			seen[p.At(i)] = true
		}
		test.That(t, len(seen), test.ShouldEqual, 256)
	})
}

func TestSwapAndIndexOf(t *testing.T) {
	p, err := New(16)
	test.That(t, err, test.ShouldBeNil)

	c := p.At(37)
	test.That(t, p.IndexOf(c), test.ShouldEqual, 37)

	p.Swap(0, 37)
	test.That(t, p.IndexOf(c), test.ShouldEqual, 0)
	test.That(t, p.At(0), test.ShouldResemble, c)

	test.That(t, p.IndexOf(NewColor(1, 2, 3)), test.ShouldEqual, -1)
}
