// Package mathutil provides the numeric helpers shared by the filter
// design and fixed-point stepping code: the modified Bessel function I0
// for Kaiser windows, Kaiser's empirical design formulas, and integer
// rate arithmetic.
package mathutil

import "math"

// Bessel approximation constants (Chebyshev polynomial coefficients from
// Abramowitz & Stegun, "Handbook of Mathematical Functions").
const (
	besselSmallArgThreshold = 3.75

	besselI0Coeff1 = 3.5156229
	besselI0Coeff2 = 3.0899424
	besselI0Coeff3 = 1.2067492
	besselI0Coeff4 = 0.2659732
	besselI0Coeff5 = 0.360768e-1
	besselI0Coeff6 = 0.45813e-2

	besselI0AsympCoeff0 = 0.39894228
	besselI0AsympCoeff1 = 0.1328592e-1
	besselI0AsympCoeff2 = 0.225319e-2
	besselI0AsympCoeff3 = -0.157565e-2
	besselI0AsympCoeff4 = 0.916281e-2
	besselI0AsympCoeff5 = -0.2057706e-1
	besselI0AsympCoeff6 = 0.2635537e-1
	besselI0AsympCoeff7 = -0.1647633e-1
	besselI0AsympCoeff8 = 0.392377e-2
)

// Kaiser window formula constants (Kaiser & Schafer's empirical fits).
const (
	kaiserAttHigh   = 50.0
	kaiserAttMedium = 21.0

	kaiserBetaHighCoeff1 = 0.1102
	kaiserBetaHighOffset = 8.7

	kaiserBetaMediumCoeff1 = 0.5842
	kaiserBetaMediumPower  = 0.4
	kaiserBetaMediumCoeff2 = 0.07886
)

// Filter length estimation constants.
const (
	// Kaiser's length formula: N ≈ (att - 8) / (2.285 * 2π * Δf)
	kaiserFilterLengthOffset     = 8.0
	kaiserFilterLengthMultiplier = 2.285

	minFilterLength = 3
	maxFilterLength = 65535

	defaultTransitionBW = 0.01
)

// BesselI0 computes the modified Bessel function of the first kind,
// order zero: I0(x). Used by the Kaiser window calculation.
//
// Accuracy is ~15 digits, sufficient for audio filter design.
func BesselI0(x float64) float64 {
	ax := math.Abs(x)

	if ax < besselSmallArgThreshold {
		t := x / besselSmallArgThreshold
		t *= t
		return 1.0 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	// Asymptotic expansion: I0(x) ≈ (e^x / sqrt(x)) * P(3.75/x)
	t := besselSmallArgThreshold / ax
	result := besselI0AsympCoeff0 + t*(besselI0AsympCoeff1+t*(besselI0AsympCoeff2+
		t*(besselI0AsympCoeff3+t*(besselI0AsympCoeff4+t*(besselI0AsympCoeff5+
			t*(besselI0AsympCoeff6+t*(besselI0AsympCoeff7+t*besselI0AsympCoeff8)))))))

	return math.Exp(ax) * result / math.Sqrt(ax)
}

// KaiserBeta returns the Kaiser window β parameter for the given stopband
// attenuation in dB, using Kaiser's empirical formula.
func KaiserBeta(attenuationDB float64) float64 {
	switch {
	case attenuationDB > kaiserAttHigh:
		return kaiserBetaHighCoeff1 * (attenuationDB - kaiserBetaHighOffset)
	case attenuationDB >= kaiserAttMedium:
		d := attenuationDB - kaiserAttMedium
		return kaiserBetaMediumCoeff1*math.Pow(d, kaiserBetaMediumPower) +
			kaiserBetaMediumCoeff2*d
	default:
		// Below 21 dB the rectangular window already suffices.
		return 0
	}
}

// EstimateFilterLength returns the FIR length required to reach the given
// stopband attenuation (dB) across the normalized transition bandwidth
// (cycles/sample). The result is forced odd for a symmetric linear-phase
// design.
func EstimateFilterLength(attenuationDB, transitionBW float64) int {
	if transitionBW <= 0 {
		transitionBW = defaultTransitionBW
	}

	n := int(math.Ceil((attenuationDB - kaiserFilterLengthOffset) /
		(kaiserFilterLengthMultiplier * 2 * math.Pi * transitionBW)))

	if n < minFilterLength {
		n = minFilterLength
	}
	if n > maxFilterLength {
		n = maxFilterLength
	}
	if n%2 == 0 {
		n++
	}
	return n
}

// GCD returns the greatest common divisor of two positive integers.
func GCD(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
