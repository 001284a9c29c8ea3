package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"go.afab.re/maskbrush"
	"go.afab.re/maskbrush/monochrome"
)

func TestReplay(t *testing.T) {
	e, err := maskbrush.New(64, 64, maskbrush.Options{})
	require.NoError(t, err)

	err = replay(e, strings.NewReader(`
# A tap, then a drag that gets undone.
down 32 32
up

radius 2
down 0 60
move 60 60
leave
undo
`))
	require.NoError(t, err)

	m := e.Mask()
	assert.Equal(t, 16*16, monochrome.Count(m))
	assert.True(t, m.PaintedAt(24, 24))
	assert.False(t, m.PaintedAt(30, 60))
	assert.Equal(t, float64(2), e.BrushRadius())
}

func TestReplayBrushAndView(t *testing.T) {
	e, err := maskbrush.New(32, 32, maskbrush.Options{Radius: 0.5})
	require.NoError(t, err)

	err = replay(e, strings.NewReader(`
brush off
down 4 4
up
brush on
view 0 0 16 16
down 10 10
up
`))
	require.NoError(t, err)

	m := e.Mask()
	assert.False(t, m.PaintedAt(4, 4))
	assert.True(t, m.PaintedAt(20, 20))
	assert.Equal(t, 64, monochrome.Count(m))
}

func TestReplayErrors(t *testing.T) {
	for _, script := range []string{
		"down 1",
		"move a b",
		"up 3",
		"radius",
		"brush maybe",
		"view 1 2 3",
		"paint 1 2",
	} {
		e, err := maskbrush.New(8, 8, maskbrush.Options{})
		require.NoError(t, err)

		err = replay(e, strings.NewReader("clear\n"+script))
		assert.ErrorContains(t, err, "line 2", script)
	}
}

func TestPaint(t *testing.T) {
	dir := t.TempDir()

	photo := image.NewRGBA(image.Rect(0, 0, 40, 24))
	for i := range photo.Pix {
		photo.Pix[i] = 0xff
	}
	imgPath := filepath.Join(dir, "photo.png")
	writePNG(t, imgPath, photo)

	// Start from an existing mask, stored as base64 like the web app does.
	existing := monochrome.New(photo.Bounds())
	existing.SetPainted(39, 23, true)
	b64, err := monochrome.EncodeBase64(existing)
	require.NoError(t, err)
	maskPath := filepath.Join(dir, "mask.txt")
	require.NoError(t, os.WriteFile(maskPath, []byte(b64), 0o644))

	outPath := filepath.Join(dir, "out.png")
	previewPath := filepath.Join(dir, "preview.png")

	err = paint(strings.NewReader("radius 0\ndown 2 2\nup\n"), flags{
		img:     imgPath,
		mask:    maskPath,
		out:     outPath,
		preview: previewPath,
	})
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	got, err := monochrome.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, photo.Bounds(), got.Bounds())
	assert.True(t, got.PaintedAt(39, 23))
	assert.True(t, got.PaintedAt(7, 7))
	assert.Equal(t, 8*8+1, monochrome.Count(got))

	pf, err := os.Open(previewPath)
	require.NoError(t, err)
	defer pf.Close()
	preview, err := png.Decode(pf)
	require.NoError(t, err)
	assert.Equal(t, photo.Bounds(), preview.Bounds())
}

func TestPaintRadiusFlag(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "photo.png")
	writePNG(t, imgPath, image.NewGray(image.Rect(0, 0, 64, 64)))

	for _, c := range []struct {
		radius float64
		want   int
	}{
		// A zero radius is a real brush size, not "unset".
		{0, 8 * 8},
		{maskbrush.DefaultRadius, 16 * 16},
	} {
		outPath := filepath.Join(dir, "out.png")
		err := paint(strings.NewReader("down 32 32\nup\n"), flags{img: imgPath, radius: c.radius, out: outPath})
		require.NoError(t, err)

		f, err := os.Open(outPath)
		require.NoError(t, err)
		got, err := monochrome.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, c.want, monochrome.Count(got), "radius %v", c.radius)
	}
}

func TestIsBase64(t *testing.T) {
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, monochrome.New(image.Rect(0, 0, 4, 4))))
	b64, err := monochrome.EncodeBase64(monochrome.New(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)

	assert.True(t, isBase64(b64))
	assert.True(t, isBase64(b64+"\n"))
	assert.True(t, isBase64(maskbrush.DataURI(b64)))
	assert.False(t, isBase64(raw.String()))
}

func TestPaintMaskFromPNG(t *testing.T) {
	dir := t.TempDir()

	photo := image.NewGray(image.Rect(0, 0, 8, 8))
	imgPath := filepath.Join(dir, "photo.png")
	writePNG(t, imgPath, photo)

	mask := image.NewRGBA(image.Rect(0, 0, 8, 8))
	mask.Set(1, 1, colornames.White)
	maskPath := filepath.Join(dir, "mask.png")
	writePNG(t, maskPath, mask)

	e, err := maskbrush.New(8, 8, maskbrush.Options{})
	require.NoError(t, err)
	require.NoError(t, loadMask(e, maskPath))
	assert.Equal(t, 1, monochrome.Count(e.Mask()))
}

func TestPaintWrongMaskSize(t *testing.T) {
	dir := t.TempDir()

	imgPath := filepath.Join(dir, "photo.png")
	writePNG(t, imgPath, image.NewGray(image.Rect(0, 0, 8, 8)))
	maskPath := filepath.Join(dir, "mask.png")
	writePNG(t, maskPath, monochrome.New(image.Rect(0, 0, 16, 16)))

	err := paint(strings.NewReader(""), flags{img: imgPath, mask: maskPath})
	assert.Error(t, err)
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}
