// Package debugdraw renders read-only overlays for a running simulation:
// velocity and acceleration arrows for every simulated body, and a Dear
// ImGui stats panel. Nothing in this package mutates simulation state.
package debugdraw

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/rigid/world"
)

var (
	velocityColor     = color.RGBA{R: 166, A: 255}
	accelerationColor = color.RGBA{B: 166, A: 255}
)

// Camera maps world space onto the screen with an orthographic projection
// of the XY plane. World +Y points up, screen +Y points down.
type Camera struct {
	// Center is the world point shown at the middle of the screen.
	Center mgl32.Vec3

	// Scale is pixels per world unit.
	Scale float32

	ScreenW, ScreenH int
}

// Project returns the screen coordinates of a world point.
func (c Camera) Project(p mgl32.Vec3) (x, y float32) {
	x = float32(c.ScreenW)/2 + (p.X()-c.Center.X())*c.Scale
	y = float32(c.ScreenH)/2 - (p.Y()-c.Center.Y())*c.Scale
	return x, y
}

// Arrows draws a velocity arrow (red) and an acceleration arrow (blue)
// for every simulated body. Zero-length vectors are skipped.
type Arrows struct {
	Camera Camera

	// StrokeWidth in pixels; zero means 2.
	StrokeWidth float32
}

// Draw renders the overlay onto dst. It only reads from the world.
func (a *Arrows) Draw(dst *ebiten.Image, w *world.World) {
	w.EachSimulated(func(id world.BodyID) bool {
		pos := w.Position(id)

		if vel := w.Velocity(id); vel.Len() > 0 {
			a.arrow(dst, pos, pos.Add(vel), velocityColor)
		}
		if acc := w.AcceleratorOf(id); acc.Len() > 0 {
			a.arrow(dst, pos, pos.Add(acc), accelerationColor)
		}
		return true
	})
}

const headAngle = 2.6 // radians off the shaft direction

func (a *Arrows) arrow(dst *ebiten.Image, from, to mgl32.Vec3, clr color.Color) {
	width := a.StrokeWidth
	if width == 0 {
		width = 2
	}

	x0, y0 := a.Camera.Project(from)
	x1, y1 := a.Camera.Project(to)
	vector.StrokeLine(dst, x0, y0, x1, y1, width, clr, true)

	dx, dy := float64(x1-x0), float64(y1-y0)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	head := float32(math.Min(10, length/3))
	angle := math.Atan2(dy, dx)

	for _, side := range []float64{headAngle, -headAngle} {
		hx := x1 + head*float32(math.Cos(angle+side))
		hy := y1 + head*float32(math.Sin(angle+side))
		vector.StrokeLine(dst, x1, y1, hx, hy, width, clr, true)
	}
}
