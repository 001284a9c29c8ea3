package chunk

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAt(t *testing.T) {
	g := Grid{}

	assert.Equal(t, Coord{0, 0}, g.At(0, 0))
	assert.Equal(t, Coord{0, 0}, g.At(7.99, 7.99))
	assert.Equal(t, Coord{1, 2}, g.At(8, 16))
	assert.Equal(t, Coord{-1, -1}, g.At(-0.5, -8))
}

func TestAtClampsFarCoordinates(t *testing.T) {
	g := Grid{}
	edge := MaxCoord / DefaultSize

	assert.Equal(t, Coord{edge, 0}, g.At(math.Ldexp(1, 64), 4))
	assert.Equal(t, Coord{-edge, 0}, g.At(math.Inf(-1), math.NaN()))
	assert.Equal(t, image.Rect(edge*8, 0, edge*8+8, 8), g.Rect(g.At(1e300, 0)))
}

func TestRect(t *testing.T) {
	assert.Equal(t, image.Rect(8, 16, 16, 24), Grid{}.Rect(Coord{1, 2}))
	assert.Equal(t, image.Rect(-4, 0, 0, 4), Grid{Size: 4}.Rect(Coord{-1, 0}))
}

func TestCoveredScenario(t *testing.T) {
	// Radius 8 at (32, 32): only the four chunks around the point have centers within reach.
	got := Grid{}.Covered(32, 32, 8)

	assert.Equal(t, []Coord{{3, 3}, {4, 3}, {3, 4}, {4, 4}}, got.Sorted())
}

func TestCoveredMatchesDistanceRule(t *testing.T) {
	g := Grid{}
	x, y, r := 37.0, 21.0, 19.0

	got := g.Covered(x, y, r)

	for cx := -5; cx < 15; cx++ {
		for cy := -5; cy < 15; cy++ {
			c := Coord{cx, cy}
			mx, my := g.Center(c)
			want := math.Hypot(mx-x, my-y) <= r || c == g.At(x, y)
			assert.Equal(t, want, got.Has(c), "chunk %v", c)
		}
	}
}

func TestCoveredZeroRadius(t *testing.T) {
	for _, r := range []float64{0, 0.001, -3, math.NaN()} {
		got := Grid{}.Covered(13, 2, r)
		assert.Equal(t, []Coord{{1, 0}}, got.Sorted(), "radius %v", r)
	}
}

func TestCoveredMonotonic(t *testing.T) {
	g := Grid{}
	prev := g.Covered(50.5, 41.2, 0)

	for r := 0.5; r < 64; r += 0.5 {
		cur := g.Covered(50.5, 41.2, r)
		assert.True(t, cur.Contains(prev), "radius %v shrank the footprint", r)
		prev = cur
	}
}

func TestBetweenEndpoints(t *testing.T) {
	g := Grid{}
	cases := []struct {
		x0, y0, x1, y1, r float64
	}{
		{0, 0, 63, 63, 4},
		{10.3, 90.1, 11.7, 2.2, 12},
		{-20, 5, 300, 7, 0},
		{0.1, 0.2, 0.3, 0.4, 30},
	}

	for _, c := range cases {
		got := g.Between(c.x0, c.y0, c.x1, c.y1, c.r)
		assert.True(t, got.Contains(g.Covered(c.x0, c.y0, c.r)), "%+v: start", c)
		assert.True(t, got.Contains(g.Covered(c.x1, c.y1, c.r)), "%+v: end", c)
	}
}

func TestBetweenDegenerate(t *testing.T) {
	g := Grid{}

	assert.True(t, g.Between(17, 40, 17, 40, 9).Equal(g.Covered(17, 40, 9)))
}

func TestBetweenDiagonalHasNoGaps(t *testing.T) {
	got := Grid{}.Between(0, 0, 63, 63, 4)

	for k := 0; k < 8; k++ {
		assert.True(t, got.Has(Coord{k, k}), "chunk %d,%d", k, k)
	}
}

func TestBetweenFastMotion(t *testing.T) {
	// A single pointer move across the whole row must still cover every chunk on it.
	got := Grid{}.Between(0, 4, 1000, 4, 0)

	for x := 0; x < 125; x++ {
		assert.True(t, got.Has(Coord{x, 0}), "chunk %d missing", x)
	}
}

func TestBetweenFarEndpoint(t *testing.T) {
	g := Grid{}

	got := g.Between(4, 4, 1e300, 4, 0)

	assert.True(t, got.Has(Coord{0, 0}))
	assert.True(t, got.Contains(g.Covered(4, 4, 0)))
	assert.True(t, got.Contains(g.Covered(1e300, 4, 0)))
	assert.Equal(t, MaxCoord/DefaultSize+1, got.Len())
}

// within keeps the chunks of s that overlap r.
func within(g Grid, s Set, r image.Rectangle) Set {
	in := make(Set)
	for c := range s {
		if g.Rect(c).Overlaps(r) {
			in.Add(c)
		}
	}
	return in
}

func TestCoveredIn(t *testing.T) {
	g := Grid{}
	bounds := image.Rect(0, 0, 16, 16)

	for _, c := range []struct{ x, y, r float64 }{
		{-3, -3, 10},
		{8, 8, 0},
		{15.5, 20, 9},
		{-40, 8, 30},
	} {
		want := within(g, g.Covered(c.x, c.y, c.r), bounds)
		assert.True(t, want.Equal(g.CoveredIn(c.x, c.y, c.r, bounds)), "%+v", c)
	}

	// Too far to reach the bounds, however the chunk math wraps.
	assert.Zero(t, g.CoveredIn(math.Ldexp(1, 64), 4, 0, bounds).Len())
	assert.Zero(t, g.CoveredIn(-1e18, -1e18, 100, bounds).Len())

	// A radius far bigger than the bounds costs no more than the bounds.
	assert.Equal(t, []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, g.CoveredIn(8, 8, 20000, bounds).Sorted())
	assert.Equal(t, 4, g.CoveredIn(8, 8, math.Inf(1), bounds).Len())

	assert.Zero(t, g.CoveredIn(8, 8, 8, image.Rectangle{}).Len())
}

func TestBetweenIn(t *testing.T) {
	g := Grid{}
	bounds := image.Rect(0, 0, 16, 16)

	// Segments inside the bounds sample exactly like Between.
	inside := image.Rect(0, 0, 64, 64)
	assert.True(t, g.Between(0, 0, 63, 63, 4).Equal(g.BetweenIn(0, 0, 63, 63, 4, inside)))

	// Far off endpoints only sample the part of the line near the bounds.
	assert.Equal(t, []Coord{{0, 0}, {1, 0}}, g.BetweenIn(4, 4, 4e6, 4, 0, bounds).Sorted())
	assert.Equal(t, []Coord{{0, 0}, {1, 0}}, g.BetweenIn(1e300, 4, 4, 4, 0, bounds).Sorted())
	assert.Equal(t, []Coord{{1, 0}, {1, 1}}, g.BetweenIn(12, -1e9, 12, 1e9, 0, bounds).Sorted())

	// Passing by without reaching.
	assert.Zero(t, g.BetweenIn(-100, -30, 100, -30, 10, bounds).Len())

	// A huge brush dragged far away still covers everything.
	assert.Equal(t, 4, g.BetweenIn(4e6, -4e6, 5e6, 4e6, 1e9, bounds).Len())
}

func TestSetSorted(t *testing.T) {
	s := make(Set)
	s.Add(Coord{2, 1})
	s.Add(Coord{0, 1})
	s.Add(Coord{5, 0})
	s.Add(Coord{2, 1})

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []Coord{{5, 0}, {0, 1}, {2, 1}}, s.Sorted())
}
