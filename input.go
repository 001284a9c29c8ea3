package maskbrush

import "strings"

type PointerKind int

const (
	// Down is a mouse button press or a touch start.
	Down PointerKind = iota
	// Move is mouse or touch motion, whether or not a button is held.
	Move
	// Up is a mouse button release or a touch end.
	Up
	// Leave is the pointer leaving the surface.
	Leave
	// Cancel is a touch cancelled by the platform.
	Cancel
)

func (k PointerKind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Leave:
		return "leave"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// PointerEvent is a mouse or touch event, in host coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

// Viewport is where the surface is shown in host coordinates. It is usually a scaled
// version of the surface, so pointer coordinates have to be mapped back.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// toSurface maps host coordinates to surface pixels. An empty viewport is the
// identity.
func (v Viewport) toSurface(x, y float64, width, height int) (float64, float64) {
	sx, sy := 1.0, 1.0
	if v.Width > 0 {
		sx = float64(width) / v.Width
	}
	if v.Height > 0 {
		sy = float64(height) / v.Height
	}
	return (x - v.Left) * sx, (y - v.Top) * sy
}

// Key is a key press.
type Key struct {
	// Name of the key, as the host reports it ("z", "Z", "Escape").
	Name  string
	Ctrl  bool
	Meta  bool
	Shift bool
}

// isUndo reports whether the key is the platform undo shortcut: Ctrl+Z, or Cmd+Z on macOS.
func (k Key) isUndo() bool {
	return (k.Ctrl || k.Meta) && !k.Shift && strings.EqualFold(k.Name, "z")
}
