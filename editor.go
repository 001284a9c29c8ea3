// Package maskbrush paints binary inpainting masks with a chunky round brush.
//
// An Editor owns one editing session: the surface being painted, its undo history
// and the pointer state. Hosts feed it pointer and key events, and read the mask
// back as a black and white PNG.
//
// Editors aren't safe for concurrent use. Events must be delivered one at a time,
// in the order they happened.
package maskbrush

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"go.afab.re/maskbrush/chunk"
	"go.afab.re/maskbrush/display"
	"go.afab.re/maskbrush/monochrome"
	"go.afab.re/maskbrush/surface"
)

// DefaultRadius is the brush radius of a new editor, in surface pixels.
const DefaultRadius = 8

type Options struct {
	// ChunkSize is the side of a chunk in pixels. Zero means chunk.DefaultSize.
	ChunkSize int
	// Radius of the brush. Zero means DefaultRadius, so a session with a zero
	// radius brush starts with SetBrushRadius(0).
	Radius float64
	// Surface options. The grid is set from ChunkSize.
	Surface surface.Options
	// Style used by Render.
	Style display.Style
}

// Editor is a mask editing session.
type Editor struct {
	id     uuid.UUID
	log    *slog.Logger
	s      *surface.Surface
	style  display.Style
	radius float64

	brushing bool
	view     Viewport

	// Chunks under the pointer while it hovers without drawing.
	hover chunk.Set
	// Chunks painted by the current stroke, for logging.
	stroked chunk.Set
}

// New starts a session on a blank surface of the given size.
func New(width, height int, opts Options) (*Editor, error) {
	sopts := opts.Surface
	sopts.Grid = chunk.Grid{Size: opts.ChunkSize}

	s, err := surface.New(width, height, sopts)
	if err != nil {
		return nil, err
	}

	radius := opts.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}

	e := &Editor{
		id:       uuid.New(),
		s:        s,
		style:    opts.Style,
		radius:   radius,
		brushing: true,
	}
	e.log = Logger().With(slog.String("session", e.id.String()))
	e.log.Info("session started", slog.Int("width", width), slog.Int("height", height))

	return e, nil
}

// ID identifies the session in logs.
func (e *Editor) ID() uuid.UUID {
	return e.id
}

// Surface returns the surface being painted.
func (e *Editor) Surface() *surface.Surface {
	return e.s
}

// LoadMask replaces the surface with a previously saved mask, in any supported image
// format. The mask must be the size of the surface. On error nothing changes, and
// it's up to the caller to carry on with a blank surface or give up.
func (e *Editor) LoadMask(r io.Reader) error {
	m, err := monochrome.Decode(r)
	if err != nil {
		e.log.Warn("mask rejected", slog.Any("err", err))
		return fmt.Errorf("load mask: %w", err)
	}

	return e.load(m)
}

// LoadMaskBase64 is LoadMask for a base64 encoded image, or a data URI.
func (e *Editor) LoadMaskBase64(s string) error {
	m, err := monochrome.DecodeBase64(s)
	if err != nil {
		e.log.Warn("mask rejected", slog.Any("err", err))
		return fmt.Errorf("load mask: %w", err)
	}

	return e.load(m)
}

func (e *Editor) load(m *monochrome.Image) error {
	if err := e.s.Load(m); err != nil {
		e.log.Warn("mask rejected", slog.Any("err", err))
		return fmt.Errorf("load mask: %w", err)
	}
	e.stroked = nil

	e.log.Info("mask loaded", slog.Int("painted", monochrome.Count(m)))
	return nil
}

// Resize starts over with a blank surface of a new size, for when the image being
// masked changes. On error the session is left as it was.
func (e *Editor) Resize(width, height int) error {
	if err := e.s.Reset(width, height); err != nil {
		return err
	}
	e.hover = nil
	e.stroked = nil

	e.log.Info("session resized", slog.Int("width", width), slog.Int("height", height))
	return nil
}

// StartBrushing lets pointer presses start strokes. Editors start out brushing.
func (e *Editor) StartBrushing() {
	e.brushing = true
}

// StopBrushing ignores pointer presses until StartBrushing. A stroke in progress
// carries on until the pointer is released.
func (e *Editor) StopBrushing() {
	e.brushing = false
}

// SetBrushRadius changes the brush radius. It applies from the next paint operation,
// even in the middle of a stroke.
func (e *Editor) SetBrushRadius(r float64) {
	if r < 0 {
		r = 0
	}
	e.radius = r
}

func (e *Editor) BrushRadius() float64 {
	return e.radius
}

// SetViewport sets where the surface is displayed, in pointer coordinates.
func (e *Editor) SetViewport(v Viewport) {
	e.view = v
}

// HandlePointer processes a pointer event.
func (e *Editor) HandlePointer(ev PointerEvent) {
	b := e.s.Bounds()
	x, y := e.view.toSurface(ev.X, ev.Y, b.Dx(), b.Dy())

	switch ev.Kind {
	case Down:
		if !e.brushing {
			return
		}
		if e.s.Drawing() {
			// A press without a release, the release happened somewhere we couldn't see.
			e.endStroke()
		}
		e.s.BeginStroke()
		e.hover = nil
		e.stroked = make(chunk.Set)
		e.log.Debug("stroke started", slog.Int("undo", e.s.Depth()-1))
		e.sample(x, y)

	case Move:
		if e.s.Drawing() {
			e.sample(x, y)
			return
		}
		e.hover = e.s.Grid().CoveredIn(x, y, e.radius, e.s.Bounds())

	case Up, Leave, Cancel:
		if ev.Kind != Up {
			e.hover = nil
		}
		e.endStroke()
	}
}

func (e *Editor) sample(x, y float64) {
	if e.stroked == nil {
		// The stroke was begun on the surface directly.
		e.stroked = make(chunk.Set)
	}
	e.stroked.Union(e.s.Sample(x, y, e.radius))
}

func (e *Editor) endStroke() {
	if !e.s.Drawing() {
		return
	}
	e.s.EndStroke()
	e.log.Debug("stroke ended", slog.Int("chunks", e.stroked.Len()))
	e.stroked = nil
}

// HandleKey runs the command bound to a key, if any, and reports whether there was one.
func (e *Editor) HandleKey(k Key) bool {
	if k.isUndo() {
		e.Undo()
		return true
	}
	return false
}

// Undo reverts the last stroke. It does nothing if there are no strokes left to undo.
func (e *Editor) Undo() {
	e.stroked = nil
	if e.s.Undo() {
		e.log.Debug("undo", slog.Int("undo", e.s.Depth()-1))
	}
}

// Clear erases the surface and forgets the undo history.
func (e *Editor) Clear() {
	e.stroked = nil
	e.s.Clear()
	e.log.Info("cleared")
}

// Hover returns the chunks the brush would paint at the pointer, while it isn't
// drawing.
func (e *Editor) Hover() chunk.Set {
	return e.hover
}

// Mask returns the current mask.
func (e *Editor) Mask() *monochrome.Image {
	return e.s.Mask()
}

// MaskBase64 returns the current mask as a base64 encoded PNG.
func (e *Editor) MaskBase64() (string, error) {
	return monochrome.EncodeBase64(e.s.Mask())
}

// MaskDataURI returns the current mask as a PNG data URI.
func (e *Editor) MaskDataURI() (string, error) {
	b64, err := e.MaskBase64()
	if err != nil {
		return "", err
	}
	return DataURI(b64), nil
}

// Render draws the surface over base, and the hover outline, scaled to fill dst.
// base is the image being masked, and may be nil.
func (e *Editor) Render(dst draw.Image, base image.Image) {
	display.Blit(dst, display.Compose(base, e.s, e.hover, e.style))
}

// DataURI wraps a base64 encoded PNG as a data URI.
func DataURI(b64 string) string {
	return "data:image/png;base64," + b64
}
