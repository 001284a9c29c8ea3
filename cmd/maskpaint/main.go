package main

import (
	"bytes"
	"encoding/base64"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strings"

	_ "golang.org/x/image/webp"

	"go.afab.re/maskbrush"
	"go.afab.re/maskbrush/display"
	"go.afab.re/maskbrush/monochrome"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `%s [options] -image photo.png < script

Paint an inpainting mask for an image by replaying pointer events from stdin, one per line:
down X Y, move X Y, up, leave, radius R, undo, clear, brush on|off, view LEFT TOP WIDTH HEIGHT.

`, os.Args[0])
		flag.PrintDefaults()
	}

	var (
		img     = flag.String("image", "", "Image (PNG/GIF/JPEG/WebP) being masked. Sets the mask size.")
		mask    = flag.String("mask", "", "Existing mask to start from, as an image or a file of base64 text.")
		chunk   = flag.Int("chunk", 0, "Chunk size in pixels (default 8).")
		radius  = flag.Float64("radius", maskbrush.DefaultRadius, "Initial brush radius in pixels, 0 paints single chunks.")
		out     = flag.String("out", "", "Write the mask as a PNG to filename, - for stdout.")
		b64     = flag.Bool("b64", false, "Print the mask as base64 encoded PNG.")
		preview = flag.String("preview", "", "Write the mask over the image as a PNG to filename.")
		verbose = flag.Bool("v", false, "Log strokes to stderr.")
	)
	flag.Parse()

	if flag.NArg() != 0 || *img == "" {
		flag.Usage()
		os.Exit(-1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	maskbrush.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := paint(os.Stdin, flags{
		img:     *img,
		mask:    *mask,
		chunk:   *chunk,
		radius:  *radius,
		out:     *out,
		b64:     *b64,
		preview: *preview,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(-1)
	}
}

type flags struct {
	img     string
	mask    string
	chunk   int
	radius  float64
	out     string
	b64     bool
	preview string
}

func paint(script io.Reader, flags flags) error {
	base, err := readImage(flags.img)
	if err != nil {
		return err
	}

	e, err := maskbrush.New(base.Bounds().Dx(), base.Bounds().Dy(), maskbrush.Options{
		ChunkSize: flags.chunk,
	})
	if err != nil {
		return err
	}
	// Options treats a zero radius as unset.
	e.SetBrushRadius(flags.radius)

	if flags.mask != "" {
		if err := loadMask(e, flags.mask); err != nil {
			return err
		}
	}

	if err := replay(e, script); err != nil {
		return err
	}

	if flags.preview != "" {
		if err := writePreview(e, base, flags.preview); err != nil {
			return err
		}
	}

	if flags.out != "" {
		if err := writeMask(e.Mask(), flags.out); err != nil {
			return err
		}
	}

	if flags.b64 {
		s, err := e.MaskBase64()
		if err != nil {
			return err
		}
		fmt.Println(s)
	}

	return nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return img, nil
}

func loadMask(e *maskbrush.Editor, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if isBase64(string(raw)) {
		return e.LoadMaskBase64(string(raw))
	}
	return e.LoadMask(bytes.NewReader(raw))
}

// isBase64 reports whether s looks like a base64 payload or data URI rather than
// raw image bytes.
func isBase64(s string) bool {
	if strings.HasPrefix(s, "data:") {
		return true
	}
	_, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	return err == nil
}

func writeMask(m *monochrome.Image, path string) error {
	if path == "-" {
		if isTerminal(os.Stdout.Fd()) {
			return fmt.Errorf("refusing to write a PNG to a terminal, redirect stdout or use -b64")
		}
		return monochrome.Encode(os.Stdout, m)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := monochrome.Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePreview(e *maskbrush.Editor, base image.Image, path string) error {
	dst := image.NewNRGBA(e.Surface().Bounds())
	e.Render(dst, base)

	status := fmt.Sprintf("radius %g  undo %d  painted %d px", e.BrushRadius(), e.Surface().Depth()-1, monochrome.Count(e.Mask()))
	if err := display.Caption(dst, status, display.CaptionOpts{}); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(f, dst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
