// Package display renders a surface for the screen. Nothing in here feeds back into
// the surface: what gets shown never affects the mask or its history.
package display

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"go.afab.re/maskbrush/chunk"
	"go.afab.re/maskbrush/surface"
)

type Style struct {
	// Opacity of the paint over the base image, from 0 to 1. Zero means 0.5.
	Opacity float64
	// Outline is the color of the hover outline. Nil means black.
	Outline color.Color
	// OutlineWidth in surface pixels. Zero means 2.
	OutlineWidth int
}

func (s Style) opacity() uint8 {
	switch {
	case s.Opacity <= 0:
		return 0x80
	case s.Opacity >= 1:
		return 0xff
	default:
		return uint8(s.Opacity*0xff + 0.5)
	}
}

func (s Style) outline() color.Color {
	if s.Outline == nil {
		return color.Black
	}
	return s.Outline
}

func (s Style) outlineWidth() int {
	if s.OutlineWidth <= 0 {
		return 2
	}
	return s.OutlineWidth
}

// Compose draws the surface over the base image, with the hover chunks outlined.
// The result is the size of the surface. base may be nil.
func Compose(base image.Image, s *surface.Surface, hover chunk.Set, style Style) *image.NRGBA {
	dst := image.NewNRGBA(s.Bounds())
	if base != nil {
		draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Src)
	}

	alpha := image.NewUniform(color.Alpha{A: style.opacity()})
	draw.DrawMask(dst, dst.Bounds(), s.Image(), s.Bounds().Min, alpha, image.Point{}, draw.Over)

	outline := image.NewUniform(style.outline())
	for _, c := range hover.Sorted() {
		strokeRect(dst, s.Grid().Rect(c), style.outlineWidth(), outline)
	}

	return dst
}

// Blit scales src to fill dst. Nearest neighbour keeps chunk edges sharp at any zoom.
func Blit(dst draw.Image, src image.Image) {
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}

// strokeRect draws the outline of r, centered on its edges.
func strokeRect(dst draw.Image, r image.Rectangle, width int, src image.Image) {
	in := width / 2
	out := width - in
	outer := r.Inset(-out)
	inner := r.Inset(in)

	bars := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, inner.Min.Y),
		image.Rect(outer.Min.X, inner.Max.Y, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y),
		image.Rect(inner.Max.X, inner.Min.Y, outer.Max.X, inner.Max.Y),
	}
	for _, b := range bars {
		draw.Draw(dst, b.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}
