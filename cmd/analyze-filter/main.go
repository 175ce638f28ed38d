// Command analyze-filter prints the frequency response of the
// windowed-sinc prototype the band-limited algorithm would use for a
// given rate pair, or of an explicit design. Useful to sanity-check
// attenuation and transition bandwidth before committing to a quality
// level.
//
// Usage:
//
//	analyze-filter -in 48000 -out 44100 -attenuation 100
//	analyze-filter -taps 255 -cutoff 0.1 -attenuation 100
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tphakala/go-stream-resampler/internal/filter"
	"github.com/tphakala/go-stream-resampler/internal/mathutil"
)

func main() {
	rateIn := flag.Uint("in", 48000, "Input sample rate in Hz")
	rateOut := flag.Uint("out", 44100, "Output sample rate in Hz")
	taps := flag.Int("taps", 0, "Explicit tap count (overrides rate-derived design)")
	cutoff := flag.Float64("cutoff", 0.2, "Normalized cutoff for explicit designs")
	attenuation := flag.Float64("attenuation", 100, "Stopband attenuation target in dB")
	points := flag.Int("points", 64, "Response table rows")
	flag.Parse()

	var coeffs []float64
	var err error
	if *taps > 0 {
		coeffs, err = filter.DesignLowPassFIR(filter.FIRParams{
			NumTaps:     *taps,
			CutoffFreq:  *cutoff,
			Attenuation: *attenuation,
			Gain:        1,
		})
	} else {
		coeffs, err = prototypeForRates(uint32(*rateIn), uint32(*rateOut), *attenuation)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "design failed:", err)
		os.Exit(1)
	}

	resp := filter.MagnitudeResponse(coeffs, *points)
	fmt.Printf("taps: %d\n", len(coeffs))
	fmt.Printf("stopband peak past 1.3x cutoff: %.1f dB\n",
		filter.StopbandPeakDB(resp, effectiveCutoff(*taps, *cutoff, uint32(*rateIn), uint32(*rateOut))*1.3))
	fmt.Println()
	fmt.Println("  freq (cyc/sample)   gain (dB)")
	step := len(resp.Frequencies) / *points
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(resp.Frequencies); i += step {
		fmt.Printf("  %8.5f          %9.2f\n",
			resp.Frequencies[i], filter.MagnitudeDB(resp.Magnitude[i]))
	}
}

// prototypeForRates designs the anti-alias prototype the resampler
// would use for the given rate pair, flattened to a plain FIR on the
// input-rate grid, with the length sized from the attenuation target
// and the transition band the cutoff leaves free.
func prototypeForRates(rateIn, rateOut uint32, attenuation float64) ([]float64, error) {
	cutoff := effectiveCutoff(0, 0, rateIn, rateOut)
	transition := 0.5 - cutoff
	if rateOut < rateIn {
		transition = cutoff/0.95 - cutoff
	}
	return filter.DesignLowPassFIR(filter.FIRParams{
		NumTaps:     mathutil.EstimateFilterLength(attenuation, transition),
		CutoffFreq:  cutoff,
		Attenuation: attenuation,
		Gain:        1,
	})
}

// effectiveCutoff returns the normalized cutoff under analysis: the
// explicit one for explicit designs, otherwise the rate-derived cutoff
// the resampler would use.
func effectiveCutoff(taps int, cutoff float64, rateIn, rateOut uint32) float64 {
	if taps > 0 {
		return cutoff
	}
	c := 0.5 * 0.95
	if rateOut < rateIn {
		c *= float64(rateOut) / float64(rateIn)
	}
	return c
}
