package filter

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Response holds the magnitude response of an FIR filter on a uniform
// frequency grid from DC to Nyquist.
type Response struct {
	// Frequencies in cycles/sample, 0 to 0.5.
	Frequencies []float64

	// Magnitude on a linear scale.
	Magnitude []float64
}

// defaultResponsePoints is the grid size used when the caller passes 0.
const defaultResponsePoints = 512

// MagnitudeResponse computes an FIR filter's magnitude response by
// zero-padded FFT. points controls the resolution of the half-spectrum
// grid; the FFT length is the next power of two covering both the
// coefficients and the requested grid.
func MagnitudeResponse(coeffs []float64, points int) Response {
	if points <= 0 {
		points = defaultResponsePoints
	}

	n := 1
	for n < len(coeffs) || n < 2*points {
		n <<= 1
	}

	buf := make([]float64, n)
	copy(buf, coeffs)

	fft := fourier.NewFFT(n)
	spectrum := fft.Coefficients(nil, buf)

	resp := Response{
		Frequencies: make([]float64, len(spectrum)),
		Magnitude:   make([]float64, len(spectrum)),
	}
	for i, c := range spectrum {
		resp.Frequencies[i] = float64(i) / float64(n)
		resp.Magnitude[i] = cmplx.Abs(c)
	}
	return resp
}

// MagnitudeDB converts a linear magnitude to decibels, flooring tiny
// values to avoid log(0).
func MagnitudeDB(magnitude float64) float64 {
	const minMagnitude = 1e-12
	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return 20 * math.Log10(magnitude)
}

// StopbandPeakDB returns the worst-case magnitude in dB at and above the
// given normalized frequency. Used to verify a design actually meets its
// attenuation target.
func StopbandPeakDB(resp Response, stopbandBegin float64) float64 {
	peak := 0.0
	for i, f := range resp.Frequencies {
		if f >= stopbandBegin && resp.Magnitude[i] > peak {
			peak = resp.Magnitude[i]
		}
	}
	return MagnitudeDB(peak)
}
