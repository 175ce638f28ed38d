package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"

	"github.com/tphakala/go-stream-resampler/internal/mathutil"
)

const (
	minFIRTaps = 3
	maxFIRTaps = 65535

	sincZeroThreshold = 1e-10
)

// KaiserWindow generates a Kaiser window of the given length and β.
// The window is symmetric: w[i] == w[length-1-i].
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	// w[n] = I0(β·sqrt(1 - ((n-α)/α)²)) / I0(β), α = (N-1)/2
	alpha := float64(length-1) / 2
	i0Beta := mathutil.BesselI0(beta)

	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(1-x*x)) / i0Beta
	}

	return window
}

// FIRParams holds windowed-sinc design parameters.
type FIRParams struct {
	// NumTaps is the filter length; odd lengths give a symmetric
	// linear-phase design with an integer group delay.
	NumTaps int

	// CutoffFreq is the normalized cutoff in cycles/sample, in (0, 0.5).
	CutoffFreq float64

	// Attenuation is the target stopband attenuation in dB.
	Attenuation float64

	// Gain is the DC gain the coefficients are normalized to.
	Gain float64
}

// Validate checks the design parameters.
func (p *FIRParams) Validate() error {
	if p.NumTaps < minFIRTaps {
		return fmt.Errorf("filter too short: %d taps (minimum %d)", p.NumTaps, minFIRTaps)
	}
	if p.NumTaps > maxFIRTaps {
		return fmt.Errorf("filter too long: %d taps (maximum %d)", p.NumTaps, maxFIRTaps)
	}
	if p.CutoffFreq <= 0 || p.CutoffFreq >= 0.5 {
		return fmt.Errorf("invalid cutoff frequency: %f (must be in (0, 0.5))", p.CutoffFreq)
	}
	if p.Attenuation < 0 {
		return fmt.Errorf("invalid attenuation: %f dB (must be positive)", p.Attenuation)
	}
	if p.Gain <= 0 {
		return fmt.Errorf("invalid gain: %f (must be positive)", p.Gain)
	}
	return nil
}

// DesignLowPassFIR designs a windowed-sinc low-pass FIR filter using the
// Kaiser window method: ideal sinc, truncated, windowed, and normalized
// to the requested DC gain.
func DesignLowPassFIR(params FIRParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	beta := mathutil.KaiserBeta(params.Attenuation)
	window := KaiserWindow(params.NumTaps, beta)

	coeffs := make([]float64, params.NumTaps)
	center := float64(params.NumTaps-1) / 2

	for n := range params.NumTaps {
		x := float64(n) - center

		// sinc: sin(2πfc·x) / (πx), with the L'Hôpital limit 2fc at x=0.
		var sinc float64
		if math.Abs(x) < sincZeroThreshold {
			sinc = 2 * params.CutoffFreq
		} else {
			sinc = math.Sin(2*math.Pi*params.CutoffFreq*x) / (math.Pi * x)
		}

		coeffs[n] = sinc * window[n]
	}

	sum := f64.Sum(coeffs)
	if math.Abs(sum) > sincZeroThreshold {
		f64.Scale(coeffs, coeffs, params.Gain/sum)
	}

	return coeffs, nil
}
