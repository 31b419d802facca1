// Package curve provides scalar keyframe curves and the compact
// value-string notation used by effect presets.
//
// A value string describes either a fixed value, a random range, or a
// keyframed curve over normalized time:
//   - Fixed value: "1500"
//   - Range: "[0.7 0.9]" (random value between min and max)
//   - Keyframes: "0,1 0.5,0.2 1,0" (time,value pairs, time in 0-1)
//   - Interpolation keyword: "EaseOut 0,1 1,0"
//
// These strings are parsed once at preset load time; evaluation per
// frame works on the parsed form only.
package curve

import (
	"math/rand"
	"strconv"
	"strings"
)

// Keyframe is a single point on an animation curve.
type Keyframe struct {
	Time  float64 // normalized time (0-1)
	Value float64 // value at this keyframe
}

// Interpolation keywords accepted in value strings. An empty string
// means linear.
var interpolationKeywords = []string{"Linear", "EaseIn", "EaseOut", "FastInOutWeak"}

// ParseValue parses a value string.
//
// Returns:
//   - min, max: range bounds (equal for fixed values) when the string
//     is not a keyframe curve
//   - frames: parsed keyframes, nil for fixed/range forms
//   - interp: interpolation keyword, "" for linear
//
// Malformed input yields the zero form (0, 0, nil, ""); presets treat
// that as "attribute not configured" rather than an error.
func ParseValue(s string) (min, max float64, frames []Keyframe, interp string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil, ""
	}

	// Range format: "[min max]" or single-value "[value]".
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		parts := strings.Fields(inner)
		switch len(parts) {
		case 2:
			min, _ = strconv.ParseFloat(parts[0], 64)
			max, _ = strconv.ParseFloat(parts[1], 64)
			if max < min {
				min, max = max, min
			}
			return min, max, nil, ""
		case 1:
			if v, err := strconv.ParseFloat(parts[0], 64); err == nil {
				return v, v, nil, ""
			}
		}
		return 0, 0, nil, ""
	}

	// Strip a leading interpolation keyword, if any.
	for _, keyword := range interpolationKeywords {
		if strings.Contains(s, keyword) {
			interp = keyword
			s = strings.TrimSpace(strings.ReplaceAll(s, keyword, ""))
			break
		}
	}

	// Keyframe format: space-separated "time,value" pairs.
	if strings.Contains(s, ",") {
		parts := strings.Fields(s)
		frames = make([]Keyframe, 0, len(parts))
		for _, part := range parts {
			pair := strings.Split(part, ",")
			if len(pair) != 2 {
				continue
			}
			t, err1 := strconv.ParseFloat(pair[0], 64)
			v, err2 := strconv.ParseFloat(pair[1], 64)
			if err1 == nil && err2 == nil {
				frames = append(frames, Keyframe{Time: t, Value: v})
			}
		}
		if len(frames) > 0 {
			return 0, 0, frames, interp
		}
		return 0, 0, nil, ""
	}

	// Fixed value.
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, v, nil, interp
	}
	return 0, 0, nil, ""
}

// EvaluateKeyframes returns the interpolated value of the curve at
// time t. Values before the first keyframe clamp to the
// first, values after the last clamp to the last. frames must be
// sorted by Time.
func EvaluateKeyframes(frames []Keyframe, t float64, interp string) float64 {
	if len(frames) == 0 {
		return 0
	}
	if len(frames) == 1 {
		return frames[0].Value
	}

	if t < frames[0].Time {
		return frames[0].Value
	}

	for i := 0; i < len(frames)-1; i++ {
		k0, k1 := frames[i], frames[i+1]
		if t >= k0.Time && t <= k1.Time {
			duration := k1.Time - k0.Time
			if duration <= 0 {
				return k0.Value
			}
			ratio := Ramp((t-k0.Time)/duration, interp)
			return k0.Value + ratio*(k1.Value-k0.Value)
		}
	}
	return frames[len(frames)-1].Value
}

// Ramp applies the named easing to a 0-1 interpolation ratio.
// Unknown keywords fall back to linear.
func Ramp(ratio float64, interp string) float64 {
	switch interp {
	case "EaseIn":
		return ratio * ratio
	case "EaseOut":
		return 1 - (1-ratio)*(1-ratio)
	case "FastInOutWeak":
		return ratio * ratio * (3 - 2*ratio)
	default:
		return ratio
	}
}

// RandomInRange returns a uniformly distributed float64 in [min, max]
// using the provided source. A nil rng falls back to the shared
// package-level source.
func RandomInRange(rng *rand.Rand, min, max float64) float64 {
	if min >= max {
		return min
	}
	if rng == nil {
		return min + rand.Float64()*(max-min)
	}
	return min + rng.Float64()*(max-min)
}
