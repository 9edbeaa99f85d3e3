package vars

import (
	"math"
	"testing"
)

func closeTo(a, b EasingStep) bool {
	return math.Abs(float64(a-b)) < 1e-9
}

func TestLinearEasingIsIdentity(t *testing.T) {
	if got := Linear(NewEasingTime(0)); got != 0 {
		t.Fatalf("Linear(0) = %v, want 0", got)
	}
	if got := Linear(NewEasingTime(1)); got != 1 {
		t.Fatalf("Linear(1) = %v, want 1", got)
	}
	if got := Linear(NewEasingTime(0.5)); got != 0.5 {
		t.Fatalf("Linear(0.5) = %v, want 0.5", got)
	}
}

func TestEasingTimeClampsOutOfRange(t *testing.T) {
	if got := NewEasingTime(-5); got != 0 {
		t.Fatalf("NewEasingTime(-5) = %v, want 0", got)
	}
	if got := NewEasingTime(5); got != 1 {
		t.Fatalf("NewEasingTime(5) = %v, want 1", got)
	}
}

func TestEveryNamedCurveStartsAtZeroAndEndsAtOne(t *testing.T) {
	curves := map[string]EasingFunc{
		"Quad": Quad, "Cubic": Cubic, "Quart": Quart, "Quint": Quint,
		"Sine": Sine, "Expo": Expo, "Circ": Circ,
	}
	for name, f := range curves {
		if got := f(NewEasingTime(0)); !closeTo(got, 0) {
			t.Errorf("%s(0) = %v, want ~0", name, got)
		}
		if got := f(NewEasingTime(1)); !closeTo(got, 1) {
			t.Errorf("%s(1) = %v, want ~1", name, got)
		}
	}
}

func TestBackOvershootsBelowZeroNearStart(t *testing.T) {
	if got := Back(NewEasingTime(0.1)); got >= 0 {
		t.Fatalf("Back(0.1) = %v, want < 0 (back eases dip below the start before rising)", got)
	}
}

func TestBounceEndsAtOne(t *testing.T) {
	if got := Bounce(NewEasingTime(1)); !closeTo(got, 1) {
		t.Fatalf("Bounce(1) = %v, want ~1", got)
	}
	if got := Bounce(NewEasingTime(0)); !closeTo(got, 0) {
		t.Fatalf("Bounce(0) = %v, want ~0", got)
	}
}

func TestNoneHoldsAtOneThroughout(t *testing.T) {
	if got := None(NewEasingTime(0)); got != 1 {
		t.Fatalf("None(0) = %v, want 1", got)
	}
	if got := None(NewEasingTime(1)); got != 1 {
		t.Fatalf("None(1) = %v, want 1", got)
	}
}

func TestStepCeilRoundsUpToNextBoundary(t *testing.T) {
	step := StepCeil(4)
	if got := step(NewEasingTime(0.1)); !closeTo(got, 0.25) {
		t.Fatalf("StepCeil(4)(0.1) = %v, want 0.25", got)
	}
	if got := step(NewEasingTime(0.26)); !closeTo(got, 0.5) {
		t.Fatalf("StepCeil(4)(0.26) = %v, want 0.5", got)
	}
}

func TestStepFloorRoundsDownToPreviousBoundary(t *testing.T) {
	step := StepFloor(4)
	if got := step(NewEasingTime(0.26)); !closeTo(got, 0.25) {
		t.Fatalf("StepFloor(4)(0.26) = %v, want 0.25", got)
	}
}

func TestEaseOutMirrorsEaseIn(t *testing.T) {
	out := EaseOut(Quad)
	// Quad eases in slowly from 0; its ease-out mirror should rise quickly
	// from the start, finishing above the matching ease-in value midway.
	if out(NewEasingTime(0.25)) <= Quad(NewEasingTime(0.25)) {
		t.Fatalf("EaseOut(Quad)(0.25) should be greater than Quad(0.25)")
	}
	if got := out(NewEasingTime(0)); !closeTo(got, 0) {
		t.Fatalf("EaseOut(Quad)(0) = %v, want ~0", got)
	}
	if got := out(NewEasingTime(1)); !closeTo(got, 1) {
		t.Fatalf("EaseOut(Quad)(1) = %v, want ~1", got)
	}
}

func TestReverseFlipsProgress(t *testing.T) {
	rev := Reverse(Linear)
	if got := rev(NewEasingTime(0)); !closeTo(got, 1) {
		t.Fatalf("Reverse(Linear)(0) = %v, want 1", got)
	}
	if got := rev(NewEasingTime(1)); !closeTo(got, 0) {
		t.Fatalf("Reverse(Linear)(1) = %v, want 0", got)
	}
}

func TestCubicBezierEndpointsMatchLinear(t *testing.T) {
	f := CubicBezier(0.25, 0.1, 0.25, 1.0)
	if got := f(NewEasingTime(0)); !closeTo(got, 0) {
		t.Fatalf("CubicBezier(0) = %v, want ~0", got)
	}
	if got := f(NewEasingTime(1)); !closeTo(got, 1) {
		t.Fatalf("CubicBezier(1) = %v, want ~1", got)
	}
}
