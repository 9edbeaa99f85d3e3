package vars

import "math"

// Transitionable is the constraint Ease requires of a target value type
// (spec.md §4.G): given a destination value and a 0..1 (or overshooting)
// step, produce the interpolated value. Implemented here for the common
// numeric and angle cases; a host application can implement it for its
// own value types (colors, transforms, ...).
type Transitionable[T any] interface {
	Lerp(to T, step EasingStep) T
}

// Float64 is a plain linear-interpolation Transitionable.
type Float64 float64

func (a Float64) Lerp(b Float64, step EasingStep) Float64 {
	return a + Float64(step)*(b-a)
}

// Float32 is Float64's single-precision counterpart.
type Float32 float32

func (a Float32) Lerp(b Float32, step EasingStep) Float32 {
	return a + Float32(step)*(b-a)
}

// Angle is a degree value that interpolates along the shortest arc rather
// than linearly (spec.md §4.G "slerp for angle-like types") — animating
// from 350° to 10° crosses through 0°/360°, not back down through 180°.
type Angle float64

func (a Angle) Lerp(b Angle, step EasingStep) Angle {
	diff := math.Mod(float64(b-a)+540, 360) - 180
	return Angle(math.Mod(float64(a)+diff*float64(step)+360, 360))
}

// Color is a straightforward component-wise-lerped RGBA value in 0..1
// per channel.
type Color struct {
	R, G, B, A float64
}

func (a Color) Lerp(b Color, step EasingStep) Color {
	s := float64(step)
	return Color{
		R: a.R + s*(b.R-a.R),
		G: a.G + s*(b.G-a.G),
		B: a.B + s*(b.B-a.B),
		A: a.A + s*(b.A-a.A),
	}
}

// Point2D is a 2D coordinate, lerped component-wise.
type Point2D struct{ X, Y float64 }

func (a Point2D) Lerp(b Point2D, step EasingStep) Point2D {
	s := float64(step)
	return Point2D{X: a.X + s*(b.X-a.X), Y: a.Y + s*(b.Y-a.Y)}
}
