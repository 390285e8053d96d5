// Package viewport implements the interactive camera and pointer state
// machine for a diagram: pan, clamped zoom, hit-testing, and component
// dragging with grid-snapped commits.
//
// View is an immutable value. Every transition returns a new View, which
// keeps the package free of locks and lets UI layers treat camera state
// like any other model field.
package viewport

import (
	"github.com/voltlab/sldraw/pkg/geom"
	"github.com/voltlab/sldraw/pkg/sld"
)

// Zoom limits. Scale is screen pixels per world pixel.
const (
	MinScale     = 0.1
	MaxScale     = 4.0
	DefaultScale = 1.0
)

// Mode is the pointer interaction state.
type Mode int

const (
	// ModeIdle means no pointer button is held.
	ModeIdle Mode = iota
	// ModePanning means the pointer went down on empty canvas and now
	// moves the camera.
	ModePanning
	// ModeDragging means the pointer went down on a component and now
	// moves it.
	ModeDragging
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePanning:
		return "panning"
	case ModeDragging:
		return "dragging"
	}
	return "unknown"
}

// Reposition is a committed or provisional component move in world
// coordinates. It is the viewport's only output besides camera state;
// applying it to the document (and recording history) is the caller's
// job.
type Reposition struct {
	ID   string
	X, Y float64
}

// View is the camera plus interaction state. The zero value is not
// usable; start from [New].
type View struct {
	// Scale and Translate define the world→screen transform:
	// screen = world*Scale + Translate.
	Scale     float64
	Translate geom.Point

	// Grid is the snap grid applied when a drag commits. Non-positive
	// disables snapping.
	Grid float64

	// Selected is the id of the last component the pointer went down on,
	// empty after a press on open canvas.
	Selected string

	mode        Mode
	dragID      string
	grabOffset  geom.Point // world offset from pointer to dragged center
	panOrigin   geom.Point // Translate at the moment panning started
	pressScreen geom.Point
}

// New returns an idle view at identity pan and default zoom, committing
// drags to the given grid.
func New(grid float64) View {
	return View{Scale: DefaultScale, Grid: grid}
}

// Mode returns the current interaction state.
func (v View) Mode() Mode { return v.mode }

// WorldFromScreen converts a screen point to world coordinates under the
// current transform.
func (v View) WorldFromScreen(s geom.Point) geom.Point {
	return geom.Point{
		X: (s.X - v.Translate.X) / v.Scale,
		Y: (s.Y - v.Translate.Y) / v.Scale,
	}
}

// ScreenFromWorld converts a world point to screen coordinates under the
// current transform.
func (v View) ScreenFromWorld(w geom.Point) geom.Point {
	return geom.Point{
		X: w.X*v.Scale + v.Translate.X,
		Y: w.Y*v.Scale + v.Translate.Y,
	}
}

// Zoom multiplies the scale by factor, clamped to [MinScale, MaxScale].
// The translate offset is unchanged: zoom is anchored at the canvas
// origin, not the cursor. Out-of-range factors clamp silently.
func (v View) Zoom(factor float64) View {
	next := v.Scale * factor
	if next < MinScale {
		next = MinScale
	}
	if next > MaxScale {
		next = MaxScale
	}
	v.Scale = next
	return v
}

// Reset returns the view to identity pan and default zoom, dropping any
// in-flight gesture.
func (v View) Reset() View {
	return View{Scale: DefaultScale, Grid: v.Grid}
}

// HitTest returns the id of the topmost component whose box contains the
// world point. Later components draw on top, so the slice is scanned in
// reverse.
func HitTest(placed []sld.Component, world geom.Point) (string, bool) {
	for i := len(placed) - 1; i >= 0; i-- {
		c := &placed[i]
		if !c.Positioned() {
			continue
		}
		if geom.NodeBox(geom.Point{X: *c.X, Y: *c.Y}).Contains(world) {
			return c.ID, true
		}
	}
	return "", false
}

// PointerDown starts a gesture. A press on a component begins a drag and
// selects it; a press on open canvas begins a pan and clears the
// selection.
func (v View) PointerDown(screen geom.Point, placed []sld.Component) View {
	world := v.WorldFromScreen(screen)
	if id, ok := HitTest(placed, world); ok {
		c := find(placed, id)
		v.mode = ModeDragging
		v.dragID = id
		v.Selected = id
		v.grabOffset = world.Sub(geom.Point{X: *c.X, Y: *c.Y})
		return v
	}
	v.mode = ModePanning
	v.Selected = ""
	v.panOrigin = v.Translate
	v.pressScreen = screen
	return v
}

// PointerMove advances an active gesture. While panning it shifts the
// camera by the screen-space delta since the press; while dragging it
// returns the dragged component's provisional, snapped position so the
// UI can draw it under the pointer. The provisional position is visual
// only; nothing is committed until [View.PointerUp]. Idle moves are
// ignored.
func (v View) PointerMove(screen geom.Point) (View, *Reposition) {
	switch v.mode {
	case ModePanning:
		delta := screen.Sub(v.pressScreen)
		v.Translate = v.panOrigin.Add(delta)
		return v, nil
	case ModeDragging:
		center := v.WorldFromScreen(screen).Sub(v.grabOffset)
		return v, &Reposition{
			ID: v.dragID,
			X:  geom.Snap(center.X, v.Grid),
			Y:  geom.Snap(center.Y, v.Grid),
		}
	}
	return v, nil
}

// PointerUp ends the gesture and returns to idle. Releasing a drag
// commits the component at its grid-snapped position; releasing a pan
// commits nothing.
func (v View) PointerUp(screen geom.Point) (View, *Reposition) {
	mode, dragID := v.mode, v.dragID
	grab := v.grabOffset
	v.mode = ModeIdle
	v.dragID = ""
	v.grabOffset = geom.Point{}

	if mode != ModeDragging {
		return v, nil
	}
	center := v.WorldFromScreen(screen).Sub(grab)
	return v, &Reposition{
		ID: dragID,
		X:  geom.Snap(center.X, v.Grid),
		Y:  geom.Snap(center.Y, v.Grid),
	}
}

func find(placed []sld.Component, id string) *sld.Component {
	for i := range placed {
		if placed[i].ID == id {
			return &placed[i]
		}
	}
	return nil
}
