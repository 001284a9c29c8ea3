// Package chunk quantizes brush geometry to a grid of square cells.
//
// A chunk is the smallest unit that can be painted: a brush either covers a
// whole chunk or none of it.
package chunk

import (
	"image"
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DefaultSize is the side length of a chunk, in pixels.
const DefaultSize = 8

// Coord identifies a chunk. Chunk (0, 0) covers pixels [0, Size) on both axes.
type Coord struct {
	X, Y int
}

// Grid maps pixel space onto chunks.
type Grid struct {
	// Size is the chunk side length in pixels. Zero means DefaultSize.
	Size int
}

func (g Grid) size() int {
	if g.Size <= 0 {
		return DefaultSize
	}
	return g.Size
}

// MaxCoord bounds the pixel coordinates chunk math works with. Coordinates further
// out, infinities included, are clamped to ±MaxCoord and NaN counts as 0.
const MaxCoord = 1 << 20

// At returns the chunk containing the point.
func (g Grid) At(x, y float64) Coord {
	c := float64(g.size())
	return Coord{
		X: int(math.Floor(clampCoord(x) / c)),
		Y: int(math.Floor(clampCoord(y) / c)),
	}
}

// Rect returns the pixels covered by a chunk.
func (g Grid) Rect(c Coord) image.Rectangle {
	s := g.size()
	return image.Rect(c.X*s, c.Y*s, (c.X+1)*s, (c.Y+1)*s)
}

// Center returns the center point of a chunk.
func (g Grid) Center(c Coord) (x, y float64) {
	s := float64(g.size())
	return (float64(c.X) + 0.5) * s, (float64(c.Y) + 0.5) * s
}

// Covered returns the chunks a round brush of radius r centered on (x, y) covers.
// A chunk is covered if its center is within r of the brush center.
// The chunk containing (x, y) is always covered, even for a zero radius.
//
// The result grows with the square of r, CoveredIn keeps it to a region.
func (g Grid) Covered(x, y, r float64) Set {
	set := make(Set)
	g.cover(set, x, y, r, nil)
	return set
}

// CoveredIn is Covered restricted to the chunks overlapping bounds. The work done
// is bounded by the size of bounds, whatever the radius or position.
func (g Grid) CoveredIn(x, y, r float64, bounds image.Rectangle) Set {
	set := make(Set)
	if win, ok := g.spanOf(bounds); ok {
		g.cover(set, x, y, r, &win)
	}
	return set
}

// Between returns the chunks swept by a brush of radius r moving in a straight line
// from (x0, y0) to (x1, y1). Samples are taken at most half a chunk apart, so the
// trail never has gaps however far apart the points are.
func (g Grid) Between(x0, y0, x1, y1, r float64) Set {
	set := make(Set)
	g.sweep(set, clampCoord(x0), clampCoord(y0), clampCoord(x1), clampCoord(y1), r, nil)
	return set
}

// BetweenIn is Between restricted to the chunks overlapping bounds. Only the part
// of the line close enough to bounds to reach it is sampled.
func (g Grid) BetweenIn(x0, y0, x1, y1, r float64, bounds image.Rectangle) Set {
	set := make(Set)
	win, ok := g.spanOf(bounds)
	if !ok {
		return set
	}

	x0, y0, x1, y1, r = clampCoord(x0), clampCoord(y0), clampCoord(x1), clampCoord(y1), clampRadius(r)

	// No chunk overlapping bounds has its center further than half a chunk out.
	m := r + float64(g.size())
	t0, t1, ok := clipLine(x0, y0, x1, y1,
		float64(bounds.Min.X)-m, float64(bounds.Min.Y)-m,
		float64(bounds.Max.X)+m, float64(bounds.Max.Y)+m)
	if !ok {
		return set
	}

	dx, dy := x1-x0, y1-y0
	if t1 < 1 {
		x1, y1 = x0+dx*t1, y0+dy*t1
	}
	if t0 > 0 {
		x0, y0 = x0+dx*t0, y0+dy*t0
	}

	g.sweep(set, x0, y0, x1, y1, r, &win)
	return set
}

// cover adds the chunks covered by the brush at (x, y) to set, keeping to win if
// it isn't nil.
func (g Grid) cover(set Set, x, y, r float64, win *span) {
	x, y, r = clampCoord(x), clampCoord(y), clampRadius(r)

	c := float64(g.size())
	search := span{
		lo: Coord{int(math.Floor((x - r) / c)), int(math.Floor((y - r) / c))},
		hi: Coord{int(math.Floor((x + r) / c)), int(math.Floor((y + r) / c))},
	}

	center := g.At(x, y)
	if win == nil || win.has(center) {
		set.Add(center)
	}
	if win != nil {
		search = search.intersect(*win)
	}

	for cy := search.lo.Y; cy <= search.hi.Y; cy++ {
		for cx := search.lo.X; cx <= search.hi.X; cx++ {
			cc := Coord{cx, cy}
			mx, my := g.Center(cc)
			if math.Hypot(mx-x, my-y) <= r {
				set.Add(cc)
			}
		}
	}
}

func (g Grid) sweep(set Set, x0, y0, x1, y1, r float64, win *span) {
	dist := math.Hypot(x1-x0, y1-y0)
	steps := int(math.Ceil(dist / (float64(g.size()) / 2)))

	full := -1
	if win != nil {
		full = win.area()
	}

	for i := 0; i <= steps; i++ {
		x, y := x1, y1
		if i < steps {
			t := float64(i) / float64(steps)
			x = x0 + (x1-x0)*t
			y = y0 + (y1-y0)*t
		}
		g.cover(set, x, y, r, win)
		if set.Len() == full {
			return
		}
	}
}

// spanOf returns the chunks overlapping a rectangle.
func (g Grid) spanOf(r image.Rectangle) (span, bool) {
	if r.Empty() {
		return span{}, false
	}
	s := g.size()
	return span{
		lo: Coord{floorDiv(r.Min.X, s), floorDiv(r.Min.Y, s)},
		hi: Coord{floorDiv(r.Max.X-1, s), floorDiv(r.Max.Y-1, s)},
	}, true
}

// span is an inclusive range of chunks.
type span struct {
	lo, hi Coord
}

func (s span) has(c Coord) bool {
	return c.X >= s.lo.X && c.X <= s.hi.X && c.Y >= s.lo.Y && c.Y <= s.hi.Y
}

func (s span) intersect(o span) span {
	return span{
		lo: Coord{max(s.lo.X, o.lo.X), max(s.lo.Y, o.lo.Y)},
		hi: Coord{min(s.hi.X, o.hi.X), min(s.hi.Y, o.hi.Y)},
	}
}

func (s span) area() int {
	if s.hi.X < s.lo.X || s.hi.Y < s.lo.Y {
		return 0
	}
	return (s.hi.X - s.lo.X + 1) * (s.hi.Y - s.lo.Y + 1)
}

// clipLine clips the segment from (x0, y0) to (x1, y1) to a rectangle, returning
// the part inside as a range of the segment's parameter.
func clipLine(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (t0, t1 float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 = 0, 1

	for _, e := range [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			// Parallel to this edge.
			if q < 0 {
				return 0, 0, false
			}
			continue
		}

		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, false
			}
			t1 = min(t1, t)
		}
	}

	return t0, t1, true
}

func clampCoord(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < -MaxCoord:
		return -MaxCoord
	case v > MaxCoord:
		return MaxCoord
	}
	return v
}

// clampRadius treats negative and NaN radii as 0, and caps the rest to what can
// reach across the whole coordinate range.
func clampRadius(r float64) float64 {
	if !(r > 0) {
		return 0
	}
	return min(r, 4*MaxCoord)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Set is an unordered set of chunks.
type Set map[Coord]struct{}

func (s Set) Add(c Coord) {
	s[c] = struct{}{}
}

func (s Set) Has(c Coord) bool {
	_, ok := s[c]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Union adds every chunk of o to s.
func (s Set) Union(o Set) {
	for c := range o {
		s[c] = struct{}{}
	}
}

// Contains reports whether every chunk of o is in s.
func (s Set) Contains(o Set) bool {
	for c := range o {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

func (s Set) Equal(o Set) bool {
	return len(s) == len(o) && s.Contains(o)
}

// Sorted returns the chunks in row-major order.
func (s Set) Sorted() []Coord {
	coords := maps.Keys(s)
	slices.SortFunc(coords, func(a, b Coord) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return coords
}
