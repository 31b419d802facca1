package curve

import (
	"math"
	"math/rand"
	"testing"
)

// TestParseValue_Fixed tests parsing of plain numeric values
func TestParseValue_Fixed(t *testing.T) {
	min, max, frames, interp := ParseValue("1500")
	if min != 1500 || max != 1500 {
		t.Errorf("Fixed value: got min=%v max=%v, want 1500/1500", min, max)
	}
	if frames != nil {
		t.Errorf("Fixed value should have no keyframes, got %v", frames)
	}
	if interp != "" {
		t.Errorf("Fixed value should have no interpolation, got %q", interp)
	}
}

// TestParseValue_Range tests parsing of "[min max]" range values
func TestParseValue_Range(t *testing.T) {
	min, max, frames, _ := ParseValue("[0.7 0.9]")
	if min != 0.7 || max != 0.9 {
		t.Errorf("Range: got min=%v max=%v, want 0.7/0.9", min, max)
	}
	if frames != nil {
		t.Errorf("Range should have no keyframes, got %v", frames)
	}
}

// TestParseValue_RangeSwapped tests that inverted range bounds are normalized
func TestParseValue_RangeSwapped(t *testing.T) {
	min, max, _, _ := ParseValue("[5 2]")
	if min != 2 || max != 5 {
		t.Errorf("Swapped range: got min=%v max=%v, want 2/5", min, max)
	}
}

// TestParseValue_SingleBracket tests the "[value]" single value form
func TestParseValue_SingleBracket(t *testing.T) {
	min, max, _, _ := ParseValue("[3.5]")
	if min != 3.5 || max != 3.5 {
		t.Errorf("Single bracket: got min=%v max=%v, want 3.5/3.5", min, max)
	}
}

// TestParseValue_Keyframes tests parsing of "time,value" pair lists
func TestParseValue_Keyframes(t *testing.T) {
	_, _, frames, interp := ParseValue("0,1 0.5,0.2 1,0")
	if len(frames) != 3 {
		t.Fatalf("Expected 3 keyframes, got %d", len(frames))
	}
	if frames[0].Time != 0 || frames[0].Value != 1 {
		t.Errorf("First keyframe: got %+v, want {0 1}", frames[0])
	}
	if frames[2].Time != 1 || frames[2].Value != 0 {
		t.Errorf("Last keyframe: got %+v, want {1 0}", frames[2])
	}
	if interp != "" {
		t.Errorf("Expected linear interpolation, got %q", interp)
	}
}

// TestParseValue_InterpolationKeyword tests keyframes with an easing keyword
func TestParseValue_InterpolationKeyword(t *testing.T) {
	_, _, frames, interp := ParseValue("EaseOut 0,0 1,1")
	if interp != "EaseOut" {
		t.Errorf("Interpolation: got %q, want EaseOut", interp)
	}
	if len(frames) != 2 {
		t.Errorf("Expected 2 keyframes, got %d", len(frames))
	}
}

// TestParseValue_Empty tests that empty and malformed input return the zero form
func TestParseValue_Empty(t *testing.T) {
	for _, s := range []string{"", "   ", "abc", "[x y]"} {
		min, max, frames, _ := ParseValue(s)
		if min != 0 || max != 0 || frames != nil {
			t.Errorf("ParseValue(%q): got min=%v max=%v frames=%v, want zero form", s, min, max, frames)
		}
	}
}

// TestEvaluateKeyframes_Linear tests linear interpolation between keyframes
func TestEvaluateKeyframes_Linear(t *testing.T) {
	frames := []Keyframe{{Time: 0, Value: 0}, {Time: 1, Value: 10}}

	cases := []struct {
		t    float64
		want float64
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.5, 10}, // clamped past the end
		{-1, 0},   // clamped before the start
	}
	for _, c := range cases {
		got := EvaluateKeyframes(frames, c.t, "")
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("EvaluateKeyframes(t=%v): got %v, want %v", c.t, got, c.want)
		}
	}
}

// TestEvaluateKeyframes_BeforeFirst tests clamping before the first keyframe
func TestEvaluateKeyframes_BeforeFirst(t *testing.T) {
	frames := []Keyframe{{Time: 0.5, Value: 7}, {Time: 1, Value: 9}}
	if got := EvaluateKeyframes(frames, 0.2, ""); got != 7 {
		t.Errorf("Before first keyframe: got %v, want 7", got)
	}
}

// TestEvaluateKeyframes_EaseIn tests quadratic ease-in interpolation
func TestEvaluateKeyframes_EaseIn(t *testing.T) {
	frames := []Keyframe{{Time: 0, Value: 0}, {Time: 1, Value: 100}}
	got := EvaluateKeyframes(frames, 0.5, "EaseIn")
	if math.Abs(got-25) > 1e-9 {
		t.Errorf("EaseIn at 0.5: got %v, want 25", got)
	}
}

// TestEvaluateKeyframes_SingleFrame tests that a one-frame curve is constant
func TestEvaluateKeyframes_SingleFrame(t *testing.T) {
	frames := []Keyframe{{Time: 0.3, Value: 4}}
	for _, tt := range []float64{0, 0.3, 1} {
		if got := EvaluateKeyframes(frames, tt, ""); got != 4 {
			t.Errorf("Single frame at t=%v: got %v, want 4", tt, got)
		}
	}
}

// TestRamp tests the easing ramp endpoints and fallback
func TestRamp(t *testing.T) {
	for _, interp := range []string{"", "Linear", "EaseIn", "EaseOut", "FastInOutWeak", "Bogus"} {
		if got := Ramp(0, interp); got != 0 {
			t.Errorf("Ramp(0, %q) = %v, want 0", interp, got)
		}
		if got := Ramp(1, interp); got != 1 {
			t.Errorf("Ramp(1, %q) = %v, want 1", interp, got)
		}
	}
}

// TestRandomInRange tests range bounds and the degenerate case
func TestRandomInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := RandomInRange(rng, 2, 5)
		if v < 2 || v > 5 {
			t.Fatalf("RandomInRange out of bounds: %v", v)
		}
	}
	if v := RandomInRange(rng, 3, 3); v != 3 {
		t.Errorf("Degenerate range: got %v, want 3", v)
	}
	if v := RandomInRange(rng, 5, 2); v != 5 {
		t.Errorf("Inverted range returns min: got %v, want 5", v)
	}
}
