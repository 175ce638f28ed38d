package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

// PolyphaseBank is a windowed-sinc interpolation filter split into
// per-phase coefficient rows. Row r holds the taps for a fractional
// input position of r/Phases. Phases+1 rows are stored so that callers
// can always interpolate between row r and row r+1; the final row is
// the first row shifted by one whole input frame.
type PolyphaseBank struct {
	// Taps is the number of input frames each output frame reads.
	Taps int

	// Phases is the number of fractional positions per input frame.
	Phases int

	rows [][]float64
}

// DesignPolyphaseBank builds a bank from a Kaiser windowed-sinc
// prototype of length Taps*Phases+1.
//
// cutoff is the normalized cutoff at the input rate in cycles/sample
// (0.5 = Nyquist); attenuation is the stopband target in dB. Each row is
// normalized to a DC gain of exactly 1, which removes the small
// phase-to-phase DC ripple the raw prototype decimation leaves behind.
func DesignPolyphaseBank(taps, phases int, cutoff, attenuation float64) (*PolyphaseBank, error) {
	if taps < 4 || taps%2 != 0 {
		return nil, fmt.Errorf("taps must be even and at least 4, got %d", taps)
	}
	if phases < 2 {
		return nil, fmt.Errorf("phases must be at least 2, got %d", phases)
	}
	if cutoff <= 0 || cutoff > 0.5 {
		return nil, fmt.Errorf("cutoff %f out of range (0, 0.5]", cutoff)
	}

	length := taps*phases + 1
	proto, err := DesignLowPassFIR(FIRParams{
		NumTaps: length,
		// The prototype lives on a grid oversampled by Phases.
		CutoffFreq:  cutoff / float64(phases),
		Attenuation: attenuation,
		Gain:        float64(phases),
	})
	if err != nil {
		return nil, fmt.Errorf("prototype design failed: %w", err)
	}

	bank := &PolyphaseBank{
		Taps:   taps,
		Phases: phases,
		rows:   make([][]float64, phases+1),
	}

	// The prototype center sits at index taps/2*phases, so row r tap k
	// samples the impulse response at offset (k+1-taps/2) - r/phases
	// input frames from the interpolation point.
	for r := 0; r <= phases; r++ {
		row := make([]float64, taps)
		for k := range taps {
			row[k] = proto[(k+1)*phases-r]
		}
		if sum := f64.Sum(row); math.Abs(sum) > sincZeroThreshold {
			f64.Scale(row, row, 1/sum)
		}
		bank.rows[r] = row
	}

	return bank, nil
}

// Row returns the coefficient row for phase index r in [0, Phases].
func (b *PolyphaseBank) Row(r int) []float64 {
	return b.rows[r]
}

// Memory returns the approximate size of the coefficient table in bytes.
func (b *PolyphaseBank) Memory() int64 {
	const bytesPerFloat64 = 8
	return int64(len(b.rows)) * int64(b.Taps) * bytesPerFloat64
}
