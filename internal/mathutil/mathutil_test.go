package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBesselI0KnownValues(t *testing.T) {
	assert.InDelta(t, 1.0, BesselI0(0), 1e-12)
	assert.InDelta(t, 1.2660658777520084, BesselI0(1), 1e-7, "I0(1) reference value")
	assert.InDelta(t, 2.2795853023360673, BesselI0(2), 1e-6, "I0(2) reference value")
}

func TestBesselI0LargeArgumentRegime(t *testing.T) {
	// For large x, I0(x) approaches exp(x)/sqrt(2*pi*x).
	for _, x := range []float64{10, 20, 50} {
		approx := math.Exp(x) / math.Sqrt(2*math.Pi*x)
		ratio := BesselI0(x) / approx
		assert.InDelta(t, 1.0, ratio, 0.03, "x=%v", x)
	}
}

func TestBesselI0IsMonotonic(t *testing.T) {
	prev := BesselI0(0)
	for x := 0.5; x < 30; x += 0.5 {
		cur := BesselI0(x)
		assert.Greater(t, cur, prev, "x=%v", x)
		prev = cur
	}
}

func TestKaiserBetaRegimes(t *testing.T) {
	assert.Zero(t, KaiserBeta(10), "Below 21 dB the rectangular window suffices")
	assert.InDelta(t, 2.1166, KaiserBeta(30), 1e-3, "Mid regime")
	assert.InDelta(t, 0.1102*(60-8.7), KaiserBeta(60), 1e-12, "High attenuation regime")
	assert.Greater(t, KaiserBeta(120), KaiserBeta(80), "Beta grows with attenuation")
}

func TestEstimateFilterLength(t *testing.T) {
	n := EstimateFilterLength(80, 0.05)
	assert.Equal(t, 1, n%2, "Length must be odd for a symmetric kernel")
	assert.GreaterOrEqual(t, n, 3)

	assert.Greater(t, EstimateFilterLength(120, 0.05), EstimateFilterLength(60, 0.05),
		"More attenuation needs a longer filter")
	assert.Greater(t, EstimateFilterLength(80, 0.01), EstimateFilterLength(80, 0.1),
		"A narrower transition band needs a longer filter")
}

func TestGCD(t *testing.T) {
	assert.Equal(t, uint32(300), GCD(44100, 48000))
	assert.Equal(t, uint32(22050), GCD(44100, 22050))
	assert.Equal(t, uint32(1), GCD(7, 13))
	assert.Equal(t, uint32(5), GCD(0, 5))
	assert.Equal(t, uint32(5), GCD(5, 0))
}
