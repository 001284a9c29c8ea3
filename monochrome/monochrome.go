package monochrome

import (
	"image"
	"image/color"
	"image/draw"
)

func Model() color.Palette {
	return color.Palette{color.Black, color.White}
}

// Image is a binary mask: white where painted, black everywhere else.
// Both colors are fully opaque.
type Image struct {
	// A bitmap would do, but the png encoder only writes 1 bit images for paletted input.
	p *image.Paletted
}

// Make sure we implement PalettedImage - some encoders like png,
// handle PalettedImages with two colors and encode them as 1 bit images.
var _ image.PalettedImage = &Image{}

// New returns an all black mask.
func New(r image.Rectangle) *Image {
	return &Image{
		p: image.NewPaletted(r, Model()),
	}
}

func (m *Image) ColorModel() color.Model {
	return m.p.ColorModel()
}

func (m *Image) Bounds() image.Rectangle {
	return m.p.Bounds()
}

func (m *Image) At(x, y int) color.Color {
	return m.p.At(x, y)
}

func (m *Image) ColorIndexAt(x, y int) uint8 {
	return m.p.ColorIndexAt(x, y)
}

func (m *Image) PaintedAt(x, y int) bool {
	return m.p.ColorIndexAt(x, y) == 1
}

func (m *Image) SetPainted(x, y int, painted bool) {
	if painted {
		m.p.SetColorIndex(x, y, 1)
	} else {
		m.p.SetColorIndex(x, y, 0)
	}
}

// From converts an image to a mask. Any pixel that isn't pure black counts as
// painted, there are no shades in between.
func From(img image.Image) *Image {
	switch i := img.(type) {
	case *Image:
		return i
	case *image.Gray:
		mono := New(i.Bounds())
		for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
			for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
				mono.SetPainted(x, y, i.GrayAt(x, y).Y != 0)
			}
		}
		return mono
	}

	// Fold alpha in first, a transparent pixel reads as black like it would on a canvas.
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	mono := New(rgba.Bounds())
	for y := rgba.Bounds().Min.Y; y < rgba.Bounds().Max.Y; y++ {
		for x := rgba.Bounds().Min.X; x < rgba.Bounds().Max.X; x++ {
			c := rgba.RGBAAt(x, y)
			mono.SetPainted(x, y, c.R != 0 || c.G != 0 || c.B != 0)
		}
	}

	return mono
}

// Count returns the number of painted pixels.
func Count(m *Image) int {
	var n int
	for _, i := range m.p.Pix {
		if i == 1 {
			n++
		}
	}
	return n
}
