package vars

import "math"

// EasingTime is a clamped 0..1 progress factor (spec.md §4.G, mirrored
// from original_source/crates/zng-var/src/animation/easing.rs's
// EasingTime). Kept as a distinct type rather than a bare float64 so
// composing modifiers (Reverse(Reverse(f))) can't silently be handed an
// out-of-range elapsed fraction.
type EasingTime float64

// NewEasingTime clamps f into [0, 1].
func NewEasingTime(f float64) EasingTime {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return EasingTime(f)
}

func (t EasingTime) Fct() float64 { return float64(t) }

// EasingStep is an easing function's output. Unlike EasingTime it is not
// clamped: back/elastic/bounce legitimately overshoot past 0 or 1, and
// callers (Lerp implementations) are expected to extrapolate rather than
// clamp, matching the original's behavior.
type EasingStep float64

// EasingFunc maps progress (0..1 elapsed) to a step (usually 0..1, with
// overshoot for some curves).
type EasingFunc func(t EasingTime) EasingStep

// Linear is the identity easing function.
func Linear(t EasingTime) EasingStep { return EasingStep(t.Fct()) }

func Quad(t EasingTime) EasingStep {
	f := t.Fct()
	return EasingStep(f * f)
}

func Cubic(t EasingTime) EasingStep {
	f := t.Fct()
	return EasingStep(f * f * f)
}

func Quart(t EasingTime) EasingStep {
	f := t.Fct()
	return EasingStep(f * f * f * f)
}

func Quint(t EasingTime) EasingStep {
	f := t.Fct()
	return EasingStep(f * f * f * f * f)
}

func Sine(t EasingTime) EasingStep {
	f := t.Fct()
	return EasingStep(1.0 - math.Cos(f*math.Pi/2.0))
}

func Expo(t EasingTime) EasingStep {
	f := t.Fct()
	if f == 0 {
		return 0
	}
	return EasingStep(math.Pow(2, 10*f-10))
}

func Circ(t EasingTime) EasingStep {
	f := t.Fct()
	return EasingStep(1.0 - math.Sqrt(1.0-f*f))
}

func Back(t EasingTime) EasingStep {
	f := t.Fct()
	return EasingStep(f * f * (2.70158*f - 1.70158))
}

func Elastic(t EasingTime) EasingStep {
	const c4 = 2 * math.Pi / 3.0
	f := t.Fct()
	if f == 0 || f == 1 {
		return EasingStep(f)
	}
	s := -math.Pow(2, 10*f-10) * math.Sin((f*10-10.75)*c4)
	return EasingStep(s)
}

func Bounce(t EasingTime) EasingStep {
	const n1 = 7.5625
	const d1 = 2.75
	f := 1.0 - t.Fct()
	var out float64
	switch {
	case f < 1/d1:
		out = n1 * f * f
	case f < 2/d1:
		f -= 1.5 / d1
		out = n1*f*f + 0.75
	case f < 2.5/d1:
		f -= 2.25 / d1
		out = n1*f*f + 0.9375
	default:
		f -= 2.625 / d1
		out = n1*f*f + 0.984375
	}
	return EasingStep(1.0 - out)
}

// None jumps straight to the end value: it returns 1 for every progress
// value, including 0 (useful for discrete/stepped states).
func None(t EasingTime) EasingStep {
	return 1
}

// StepCeil produces a step function with the given number of steps,
// always rounding progress up to the next step boundary.
func StepCeil(steps int) EasingFunc {
	return func(t EasingTime) EasingStep {
		if steps <= 0 {
			return EasingStep(t.Fct())
		}
		n := float64(steps)
		return EasingStep(math.Ceil(t.Fct()*n) / n)
	}
}

// StepFloor produces a step function that rounds progress down to the
// previous step boundary.
func StepFloor(steps int) EasingFunc {
	return func(t EasingTime) EasingStep {
		if steps <= 0 {
			return EasingStep(t.Fct())
		}
		n := float64(steps)
		return EasingStep(math.Floor(t.Fct()*n) / n)
	}
}

// CubicBezier builds an easing function from a cubic bezier curve's two
// control points, the same parameterization CSS's cubic-bezier() timing
// function uses. Solved numerically via bisection since the bezier's x(t)
// has no closed-form inverse in general.
func CubicBezier(x1, y1, x2, y2 float64) EasingFunc {
	bezierX := func(t float64) float64 {
		u := 1 - t
		return 3*u*u*t*x1 + 3*u*t*t*x2 + t*t*t
	}
	bezierY := func(t float64) float64 {
		u := 1 - t
		return 3*u*u*t*y1 + 3*u*t*t*y2 + t*t*t
	}
	return func(et EasingTime) EasingStep {
		target := et.Fct()
		lo, hi := 0.0, 1.0
		for i := 0; i < 32; i++ {
			mid := (lo + hi) / 2
			if bezierX(mid) < target {
				lo = mid
			} else {
				hi = mid
			}
		}
		return EasingStep(bezierY((lo + hi) / 2))
	}
}

// EaseIn returns f unmodified: every function above is already defined as
// its "ease in" variant (slow start), matching easing.rs's convention.
func EaseIn(f EasingFunc) EasingFunc { return f }

// EaseOut flips f to accelerate out of the start and ease into the end.
func EaseOut(f EasingFunc) EasingFunc {
	return func(t EasingTime) EasingStep {
		return 1 - f(NewEasingTime(1-t.Fct()))
	}
}

// EaseInOut eases in for the first half of the duration and out for the
// second half.
func EaseInOut(f EasingFunc) EasingFunc {
	return func(t EasingTime) EasingStep {
		fct := t.Fct()
		if fct < 0.5 {
			return EasingStep(float64(f(NewEasingTime(fct*2))) / 2)
		}
		return EasingStep(1 - float64(f(NewEasingTime((1-fct)*2)))/2)
	}
}

// EaseOutIn is the mirror of EaseInOut: eases out for the first half, in
// for the second.
func EaseOutIn(f EasingFunc) EasingFunc {
	return func(t EasingTime) EasingStep {
		fct := t.Fct()
		out := EaseOut(f)
		in := EaseIn(f)
		if fct < 0.5 {
			return EasingStep(float64(out(NewEasingTime(fct*2))) / 2)
		}
		return EasingStep(0.5 + float64(in(NewEasingTime((fct-0.5)*2)))/2)
	}
}

// Reverse runs f backward: progress 0 starts where f(1) would land and
// progress 1 lands where f(0) would.
func Reverse(f EasingFunc) EasingFunc {
	return func(t EasingTime) EasingStep {
		return f(NewEasingTime(1 - t.Fct()))
	}
}

// ReverseOut composes Reverse and EaseOut.
func ReverseOut(f EasingFunc) EasingFunc {
	return Reverse(EaseOut(f))
}
