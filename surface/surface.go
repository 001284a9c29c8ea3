// Package surface holds the raster a mask is painted on, and its undo history.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/colornames"

	"go.afab.re/maskbrush/chunk"
	"go.afab.re/maskbrush/monochrome"
)

var (
	// ErrInvalidSize is returned for surfaces with a zero or negative dimension.
	ErrInvalidSize = errors.New("invalid surface size")
	// ErrMaskSize is returned when loading a mask that doesn't match the surface.
	ErrMaskSize = errors.New("mask size doesn't match surface")
)

// DefaultBrush is the color painted pixels are stored as.
var DefaultBrush = color.NRGBA{R: colornames.Blue.R, G: colornames.Blue.G, B: colornames.Blue.B, A: 255}

type Options struct {
	// Grid the brush is quantized to.
	Grid chunk.Grid
	// Brush is the color of painted pixels, always drawn opaque.
	// Black can't be told apart from unpainted and means DefaultBrush.
	Brush color.NRGBA
}

// Surface is a raster where every pixel is either painted with the brush color,
// or transparent.
//
// History holds one snapshot per stroke, taken when the stroke began, on top of
// the state the session started from.
type Surface struct {
	grid  chunk.Grid
	brush *image.Uniform

	pix     *image.NRGBA
	history []*image.NRGBA

	drawing bool
	// Last sample of the current stroke, valid if hasLast.
	lastX, lastY float64
	hasLast      bool
}

// New returns a blank surface of the given size.
func New(width, height int, opts Options) (*Surface, error) {
	brush := opts.Brush
	if brush.R == 0 && brush.G == 0 && brush.B == 0 {
		brush = DefaultBrush
	}
	brush.A = 255

	s := &Surface{
		grid:  opts.Grid,
		brush: image.NewUniform(brush),
	}
	if err := s.Reset(width, height); err != nil {
		return nil, err
	}

	return s, nil
}

// Reset discards everything and starts over with a blank surface of the given size.
// The surface is left untouched if the size is invalid.
func (s *Surface) Reset(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	s.pix = image.NewNRGBA(image.Rect(0, 0, width, height))
	s.history = []*image.NRGBA{clone(s.pix)}
	s.EndStroke()

	return nil
}

// Clear erases everything, including the history.
func (s *Surface) Clear() {
	// The current size was already validated, Reset can't fail.
	_ = s.Reset(s.pix.Rect.Dx(), s.pix.Rect.Dy())
}

// Load replaces the surface with a mask. The mask becomes the only history entry,
// so it can't be undone.
func (s *Surface) Load(m *monochrome.Image) error {
	if m.Bounds().Size() != s.pix.Rect.Size() {
		return fmt.Errorf("%w: got %v, want %v", ErrMaskSize, m.Bounds().Size(), s.pix.Rect.Size())
	}

	pix := image.NewNRGBA(s.pix.Rect)
	brush := s.brush.C.(color.NRGBA)
	off := m.Bounds().Min
	for y := 0; y < pix.Rect.Dy(); y++ {
		for x := 0; x < pix.Rect.Dx(); x++ {
			if m.PaintedAt(off.X+x, off.Y+y) {
				pix.SetNRGBA(x, y, brush)
			}
		}
	}

	s.pix = pix
	s.history = []*image.NRGBA{clone(pix)}
	s.EndStroke()

	return nil
}

// BeginStroke checkpoints the surface. A stroke is undone as a whole.
func (s *Surface) BeginStroke() {
	s.history = append(s.history, clone(s.pix))
	s.drawing = true
	s.hasLast = false
}

// EndStroke ends the current stroke, if any.
func (s *Surface) EndStroke() {
	s.drawing = false
	s.hasLast = false
}

// Drawing reports whether a stroke is in progress.
func (s *Surface) Drawing() bool {
	return s.drawing
}

// PaintAt paints the chunks covered by the brush at a point.
// It returns the chunks painted, nil outside a stroke. Only chunks overlapping the
// surface are considered, so points far off the surface paint nothing and huge
// radii cost no more than filling the surface.
func (s *Surface) PaintAt(x, y, radius float64) chunk.Set {
	if !s.drawing || !finite(x, y) {
		return nil
	}

	chunks := s.grid.CoveredIn(x, y, radius, s.pix.Rect)
	s.fill(chunks)
	return chunks
}

// PaintBetween paints the chunks swept by the brush between two points.
func (s *Surface) PaintBetween(x0, y0, x1, y1, radius float64) chunk.Set {
	if !s.drawing || !finite(x0, y0, x1, y1) {
		return nil
	}

	chunks := s.grid.BetweenIn(x0, y0, x1, y1, radius, s.pix.Rect)
	s.fill(chunks)
	return chunks
}

// Sample continues the current stroke to a point: the first sample of a stroke paints
// a single brush footprint, later ones the path from the previous sample.
func (s *Surface) Sample(x, y, radius float64) chunk.Set {
	if !s.drawing || !finite(x, y) {
		return nil
	}

	var chunks chunk.Set
	if s.hasLast {
		chunks = s.PaintBetween(s.lastX, s.lastY, x, y, radius)
	} else {
		chunks = s.PaintAt(x, y, radius)
	}

	s.lastX, s.lastY, s.hasLast = x, y, true
	return chunks
}

// Undo reverts the most recent stroke, ending it first if it is still in progress.
// It reports false if there is nothing left to undo.
func (s *Surface) Undo() bool {
	s.EndStroke()

	if len(s.history) <= 1 {
		return false
	}

	top := len(s.history) - 1
	s.pix = s.history[top]
	s.history[top] = nil
	s.history = s.history[:top]

	return true
}

// Depth is the number of snapshots in the history, including the initial one.
func (s *Surface) Depth() int {
	return len(s.history)
}

func (s *Surface) Bounds() image.Rectangle {
	return s.pix.Rect
}

func (s *Surface) Grid() chunk.Grid {
	return s.grid
}

// Image returns the current raster. It must not be modified, and is only valid until
// the next call that changes the surface.
func (s *Surface) Image() *image.NRGBA {
	return s.pix
}

// Painted reports whether a pixel is painted. Pixels outside the surface never are.
func (s *Surface) Painted(x, y int) bool {
	if !image.Pt(x, y).In(s.pix.Rect) {
		return false
	}
	return painted(s.pix.NRGBAAt(x, y))
}

// Mask encodes the surface as a black and white mask.
func (s *Surface) Mask() *monochrome.Image {
	m := monochrome.New(s.pix.Rect)
	for y := s.pix.Rect.Min.Y; y < s.pix.Rect.Max.Y; y++ {
		for x := s.pix.Rect.Min.X; x < s.pix.Rect.Max.X; x++ {
			m.SetPainted(x, y, painted(s.pix.NRGBAAt(x, y)))
		}
	}
	return m
}

func (s *Surface) fill(chunks chunk.Set) {
	for c := range chunks {
		// Edge chunks of surfaces that aren't a whole number of chunks hang off.
		r := s.grid.Rect(c).Intersect(s.pix.Rect)
		if r.Empty() {
			continue
		}
		draw.Draw(s.pix, r, s.brush, image.Point{}, draw.Src)
	}
}

func painted(c color.NRGBA) bool {
	return c.A != 0 && (c.R != 0 || c.G != 0 || c.B != 0)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func clone(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
