// Package testutil holds assertion and signal helpers shared by the
// resampler test suites.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Sine returns n samples of a sine at freq Hz sampled at rate Hz.
func Sine(n int, freq, amplitude, rate float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return s
}

// RMS returns the root mean square of the samples.
func RMS(s []float64) float64 {
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}

// AssertSymmetric verifies that a slice is symmetric (s[i] == s[n-1-i]),
// the linear-phase property of a windowed-sinc kernel.
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"not symmetric: s[%d]=%f != s[%d]=%f", i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no element is NaN or infinite.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertDCGain verifies that the coefficients sum to the expected gain.
func AssertDCGain(t *testing.T, coeffs []float64, expectedGain, tolerance float64) bool {
	t.Helper()
	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	return assert.InDelta(t, expectedGain, sum, tolerance,
		"DC gain = %f, want %f", sum, expectedGain)
}

// AssertCenterIsMax verifies that the center element dominates the
// slice, as it must for a low-pass impulse response.
func AssertCenterIsMax(t *testing.T, s []float64) bool {
	t.Helper()
	if len(s) == 0 {
		return assert.Fail(t, "empty slice")
	}
	center := s[len(s)/2]
	for i, v := range s {
		if v > center {
			return assert.Fail(t, "center is not max",
				"s[%d]=%f > center %f", i, v, center)
		}
	}
	return true
}
