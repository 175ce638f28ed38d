package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagnitudeResponseOfAverager(t *testing.T) {
	// A 4-point moving average has unit gain at DC and a null at 0.25.
	coeffs := []float64{0.25, 0.25, 0.25, 0.25}
	resp := MagnitudeResponse(coeffs, 256)

	require.NotEmpty(t, resp.Magnitude)
	assert.InDelta(t, 1.0, resp.Magnitude[0], 1e-12, "Unit gain at DC")
	assert.InDelta(t, 0.0, resp.Frequencies[0], 1e-12)
	assert.InDelta(t, 0.5, resp.Frequencies[len(resp.Frequencies)-1], 1e-9, "Grid ends at Nyquist")

	// Find the grid point nearest 0.25 and check the null.
	for i, f := range resp.Frequencies {
		if f == 0.25 {
			assert.Less(t, resp.Magnitude[i], 1e-10, "Null at f=0.25")
			break
		}
	}
}

func TestMagnitudeDB(t *testing.T) {
	assert.InDelta(t, 0.0, MagnitudeDB(1.0), 1e-12)
	assert.InDelta(t, -20.0, MagnitudeDB(0.1), 1e-9)
	assert.InDelta(t, -240.0, MagnitudeDB(0), 1e-9, "Zero magnitude floors instead of -Inf")
}

func TestStopbandPeakMeetsDesignTarget(t *testing.T) {
	coeffs, err := DesignLowPassFIR(FIRParams{NumTaps: 511, CutoffFreq: 0.1, Attenuation: 100, Gain: 1})
	require.NoError(t, err)

	resp := MagnitudeResponse(coeffs, 2048)
	peak := StopbandPeakDB(resp, 0.13)
	assert.Less(t, peak, -90.0, "A 100 dB design should come close to its target past the transition")
}
