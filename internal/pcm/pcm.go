// Package pcm defines the sample types the resampler operates on and the
// conversions between raw PCM amplitudes and the float64 working domain.
//
// All interpolation and filtering happens in float64. Integer formats are
// converted on the way in with a plain widening conversion and on the way
// out with round-half-away-from-zero and full-scale clamping, so that a
// filtered int16 stream can never wrap around.
package pcm

import "math"

// Sample is the type constraint for supported PCM sample representations.
// The sample type is fixed for the lifetime of a resampler instance.
type Sample interface {
	int16 | int32 | float32 | float64
}

// Clamp limits for integer PCM formats.
const (
	maxInt16 = math.MaxInt16
	minInt16 = math.MinInt16
	maxInt32 = math.MaxInt32
	minInt32 = math.MinInt32
)

// ToFloat64 widens a sample to the float64 working domain.
// Integer amplitudes are kept as-is (not normalized to [-1, 1]).
func ToFloat64[S Sample](v S) float64 {
	return float64(v)
}

// FromFloat64 narrows a float64 working value back to the sample type.
// Integer formats are rounded half away from zero and clamped to full
// scale. Float formats are converted directly.
func FromFloat64[S Sample](v float64) S {
	var zero S
	switch any(zero).(type) {
	case int16:
		r := math.Round(v)
		if r > maxInt16 {
			r = maxInt16
		} else if r < minInt16 {
			r = minInt16
		}
		return S(r)
	case int32:
		r := math.Round(v)
		if r > maxInt32 {
			r = maxInt32
		} else if r < minInt32 {
			r = minInt32
		}
		return S(r)
	default:
		return S(v)
	}
}

// Lerp interpolates linearly between two working-domain values.
// frac is the fractional position in [0, 1).
func Lerp(x0, x1, frac float64) float64 {
	return x0 + (x1-x0)*frac
}
