// Package stepper implements the fixed-point fractional read position
// shared by the resampling algorithms.
//
// The position within the input stream is held as an exact rational:
// a whole-frame part plus frac/den, where den is the reduced output rate.
// Each output frame advances the position by advInt + advFrac/den, the
// reduced rate ratio. Integer accumulation never drifts, so the position
// stays exact across arbitrarily many Process calls; float accumulation
// would drift audibly on long streams.
//
// Rather than tracking the absolute position, the stepper tracks rel: the
// number of whole input frames that still have to be read before the
// frame at floor(position) becomes the newest frame in the caller's
// cache/history window (offset by the algorithm's fixed lookahead). This
// makes consumed-frame accounting across call boundaries exact.
package stepper

import (
	"math"
	"math/bits"

	"github.com/tphakala/go-stream-resampler/internal/mathutil"
)

// ratioDenominator is the fixed denominator used when converting a float
// rate ratio to an integer rate pair.
const ratioDenominator = 1000

// Stepper holds the fixed-point position and advance state.
type Stepper struct {
	rateIn  uint32
	rateOut uint32

	den     uint64 // fraction denominator: reduced output rate
	advInt  uint64 // whole-frame advance per output frame
	advFrac uint64 // fractional advance numerator, < den

	rel  int64  // whole frames still to read for the current position
	frac uint64 // fractional position numerator, in [0, den)

	// fracLookahead marks algorithms (linear interpolation) that need one
	// extra input frame whenever the fractional position is nonzero.
	fracLookahead bool
}

// New returns a stepper positioned at the start of the input stream.
// lookahead is the number of frames past floor(position) the algorithm's
// window extends; fracLookahead adds one conditional frame when the
// fractional position is nonzero.
func New(rateIn, rateOut uint32, lookahead uint64, fracLookahead bool) *Stepper {
	s := &Stepper{
		den:           1,
		rel:           int64(lookahead) + 1,
		fracLookahead: fracLookahead,
	}
	s.setRate(rateIn, rateOut)
	return s
}

// setRate installs a new rate pair. Rates must already be validated as
// nonzero. The fractional position is rescaled to the new denominator;
// the whole-frame offset is untouched, so cached frames and filter
// history remain valid across the change.
func (s *Stepper) setRate(rateIn, rateOut uint32) {
	g := mathutil.GCD(rateIn, rateOut)
	num := uint64(rateIn / g)
	den := uint64(rateOut / g)

	// frac/oldDen -> frac'/newDen, rounding down. frac < oldDen keeps the
	// 128-bit quotient below newDen, so Div64 cannot trap.
	if den != s.den {
		hi, lo := bits.Mul64(s.frac, den)
		q, _ := bits.Div64(hi, lo, s.den)
		s.frac = q
	}

	s.rateIn = rateIn
	s.rateOut = rateOut
	s.den = den
	s.advInt = num / den
	s.advFrac = num % den
}

// SetRate updates the rate pair without resetting position state.
func (s *Stepper) SetRate(rateIn, rateOut uint32) {
	s.setRate(rateIn, rateOut)
}

// RateIn returns the configured input sample rate.
func (s *Stepper) RateIn() uint32 { return s.rateIn }

// RateOut returns the configured output sample rate.
func (s *Stepper) RateOut() uint32 { return s.rateOut }

// NeedRead reports whether another input frame must be read before the
// current position's window is complete.
func (s *Stepper) NeedRead() bool { return s.rel > 0 }

// DidRead records that one input frame was shifted into the window.
func (s *Stepper) DidRead() { s.rel-- }

// FracNonzero reports whether the position has a fractional component.
func (s *Stepper) FracNonzero() bool { return s.frac > 0 }

// Frac returns the fractional position as numerator and denominator.
func (s *Stepper) Frac() (num, den uint64) { return s.frac, s.den }

// FracFloat returns the fractional position in [0, 1).
func (s *Stepper) FracFloat() float64 {
	return float64(s.frac) / float64(s.den)
}

// Rel returns the whole-frame read offset (negative means the window
// already extends past the current position).
func (s *Stepper) Rel() int64 { return s.rel }

// Advance steps the position forward by one output frame.
func (s *Stepper) Advance() {
	s.frac += s.advFrac
	if s.frac >= s.den {
		s.frac -= s.den
		s.rel++
	}
	s.rel += int64(s.advInt)
}

// RequiredInput returns the number of additional input frames that must
// be read to produce n more output frames from the current position.
// Cached frames are already accounted for by rel. Saturates at
// math.MaxUint64 when the count does not fit.
func (s *Stepper) RequiredInput(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	k := n - 1

	// fracEnd = frac + k*advFrac, split into carry*den + rem.
	hi, lo := bits.Mul64(k, s.advFrac)
	var c uint64
	lo, c = bits.Add64(lo, s.frac, 0)
	hi += c
	if hi >= s.den {
		return math.MaxUint64
	}
	carry, rem := bits.Div64(hi, lo, s.den)

	whi, wlo := bits.Mul64(k, s.advInt)
	if whi != 0 {
		return math.MaxUint64
	}
	total, c := bits.Add64(wlo, carry, 0)
	if c != 0 {
		return math.MaxUint64
	}
	if s.fracLookahead && rem > 0 {
		total, c = bits.Add64(total, 1, 0)
		if c != 0 {
			return math.MaxUint64
		}
	}

	if s.rel >= 0 {
		total, c = bits.Add64(total, uint64(s.rel), 0)
		if c != 0 {
			return math.MaxUint64
		}
		return total
	}
	neg := uint64(-s.rel)
	if total < neg {
		return 0
	}
	return total - neg
}

// ExpectedOutput returns the number of output frames produced if n more
// input frames are read and fully consumed: the largest m for which
// RequiredInput(m) <= n. RequiredInput is nondecreasing in m, so a
// binary search is exact.
func (s *Stepper) ExpectedOutput(n uint64) uint64 {
	// Every output frame advances the position by at least 1/den, so no
	// more than (n+3)*den outputs can ever fit in n input frames.
	hi := uint64(math.MaxUint64)
	if n <= math.MaxUint64-3 {
		if h, l := bits.Mul64(n+3, s.den); h == 0 {
			hi = l
		}
	}

	var lo uint64
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if s.RequiredInput(mid) <= n {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Clone returns an independent copy of the stepper state.
func (s *Stepper) Clone() *Stepper {
	c := *s
	return &c
}

// RatesFromRatio converts a ratio expressed as rateIn/rateOut into an
// integer rate pair on a /1000 denominator. Ratios that are not finite
// and positive, or too small to represent, yield ok=false.
func RatesFromRatio(ratio float32) (rateIn, rateOut uint32, ok bool) {
	r := float64(ratio)
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return 0, 0, false
	}
	scaled := math.Round(r * ratioDenominator)
	if scaled < 1 || scaled > math.MaxUint32 {
		return 0, 0, false
	}
	return uint32(scaled), ratioDenominator, true
}
