package display

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type CaptionOpts struct {
	// Height of the caption band, in pixels. Zero means 16.
	Height int
	// Font defaults to Go Regular.
	Font *opentype.Font
	DPI  int
}

var (
	goRegularOnce sync.Once
	goRegular     *opentype.Font
	goRegularErr  error
)

func defaultFont() (*opentype.Font, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	return goRegular, goRegularErr
}

// Caption writes a line of text in a white band along the bottom of dst.
// Text that doesn't fit is cut off.
func Caption(dst draw.Image, text string, opts CaptionOpts) error {
	height := opts.Height
	if height <= 0 {
		height = 16
	}
	if height > dst.Bounds().Dy() {
		height = dst.Bounds().Dy()
	}

	ft := opts.Font
	if ft == nil {
		var err error
		if ft, err = defaultFont(); err != nil {
			return err
		}
	}

	dpi := opts.DPI
	if dpi <= 0 {
		dpi = 72
	}

	face, err := face(height, ft, dpi)
	if err != nil {
		return err
	}
	if face == nil {
		// Too small for any text at all.
		return nil
	}
	defer face.Close()

	band := image.Rect(dst.Bounds().Min.X, dst.Bounds().Max.Y-height, dst.Bounds().Max.X, dst.Bounds().Max.Y)
	draw.Draw(dst, band, &image.Uniform{color.White}, image.Point{}, draw.Src)

	// Center the font, not this particular text, vertically in the band.
	m := face.Metrics()
	margin := height - (m.Ascent.Ceil() + m.Descent.Ceil())
	baseline := band.Min.Y + margin/2 + m.Ascent.Ceil()

	d := font.Drawer{
		Dst:  clip{dst, band},
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(band.Min.X+2, baseline),
	}
	d.DrawString(text)

	return nil
}

// Find the biggest font that fits in a given height.
func face(height int, ft *opentype.Font, dpi int) (font.Face, error) {
	var best font.Face

	for i := float64(1); ; i++ {
		face, err := opentype.NewFace(ft, &opentype.FaceOptions{
			Size:    i,
			DPI:     float64(dpi),
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, err
		}

		if face.Metrics().Height.Ceil() > height {
			face.Close()
			return best, nil
		}

		if best != nil {
			best.Close()
		}
		best = face
	}
}

// clip restricts drawing to a rectangle of the underlying image.
type clip struct {
	draw.Image
	r image.Rectangle
}

func (c clip) Bounds() image.Rectangle {
	return c.r
}

func (c clip) Set(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.r) {
		c.Image.Set(x, y, col)
	}
}
