package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-stream-resampler/internal/testutil"
)

func TestKaiserWindowShape(t *testing.T) {
	w := KaiserWindow(101, 8.6)
	testutil.AssertSymmetric(t, w, 1e-12)
	testutil.AssertCenterIsMax(t, w)
	testutil.AssertNoNaNOrInf(t, w)
	assert.InDelta(t, 1.0, w[50], 1e-12, "Center of an odd window is exactly 1")
	assert.Less(t, w[0], 0.01, "High beta pushes the edges toward zero")
}

func TestKaiserWindowZeroBetaIsRectangular(t *testing.T) {
	for _, v := range KaiserWindow(64, 0) {
		assert.InDelta(t, 1.0, v, 1e-12)
	}
}

func TestKaiserWindowDegenerateLengths(t *testing.T) {
	assert.Empty(t, KaiserWindow(0, 5))
	assert.Equal(t, []float64{1}, KaiserWindow(1, 5))
}

func TestFIRParamsValidate(t *testing.T) {
	good := FIRParams{NumTaps: 101, CutoffFreq: 0.2, Attenuation: 80, Gain: 1}
	require.NoError(t, good.Validate())

	cases := []FIRParams{
		{NumTaps: 2, CutoffFreq: 0.2, Attenuation: 80, Gain: 1},
		{NumTaps: 70000, CutoffFreq: 0.2, Attenuation: 80, Gain: 1},
		{NumTaps: 101, CutoffFreq: 0, Attenuation: 80, Gain: 1},
		{NumTaps: 101, CutoffFreq: 0.5, Attenuation: 80, Gain: 1},
		{NumTaps: 101, CutoffFreq: 0.2, Attenuation: -1, Gain: 1},
		{NumTaps: 101, CutoffFreq: 0.2, Attenuation: 80, Gain: 0},
	}
	for _, p := range cases {
		assert.Error(t, p.Validate(), "%+v", p)
	}
}

func TestDesignLowPassFIR(t *testing.T) {
	coeffs, err := DesignLowPassFIR(FIRParams{NumTaps: 255, CutoffFreq: 0.1, Attenuation: 80, Gain: 1})
	require.NoError(t, err)
	require.Len(t, coeffs, 255)

	testutil.AssertSymmetric(t, coeffs, 1e-12)
	testutil.AssertCenterIsMax(t, coeffs)
	testutil.AssertNoNaNOrInf(t, coeffs)
	testutil.AssertDCGain(t, coeffs, 1.0, 1e-9)

	resp := MagnitudeResponse(coeffs, 1024)
	assert.Less(t, StopbandPeakDB(resp, 0.15), -70.0,
		"An 80 dB design should deliver most of its attenuation past the transition band")
	assert.InDelta(t, 0.0, MagnitudeDB(resp.Magnitude[0]), 0.01, "Unity gain at DC")
}

func TestDesignLowPassFIRCustomGain(t *testing.T) {
	coeffs, err := DesignLowPassFIR(FIRParams{NumTaps: 101, CutoffFreq: 0.05, Attenuation: 60, Gain: 4})
	require.NoError(t, err)
	testutil.AssertDCGain(t, coeffs, 4.0, 1e-9)
}
