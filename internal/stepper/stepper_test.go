package stepper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simulate runs the read/emit cycle the algorithms drive and returns the
// number of input frames read while producing n output frames.
func simulate(s *Stepper, n uint64) uint64 {
	var reads uint64
	for produced := uint64(0); produced < n; produced++ {
		for s.NeedRead() {
			s.DidRead()
			reads++
		}
		if s.fracLookahead && s.FracNonzero() && s.Rel() == 0 {
			s.DidRead()
			reads++
		}
		s.Advance()
	}
	return reads
}

func TestRequiredInputMatchesSimulation(t *testing.T) {
	cases := []struct {
		rateIn, rateOut uint32
		fracLookahead   bool
		lookahead       uint64
	}{
		{44100, 48000, true, 0},
		{48000, 44100, true, 0},
		{44100, 22050, true, 0},
		{8000, 192000, true, 0},
		{44100, 48000, false, 12},
		{96000, 7350, false, 24},
	}
	for _, tc := range cases {
		for _, n := range []uint64{1, 2, 3, 7, 100, 999} {
			s := New(tc.rateIn, tc.rateOut, tc.lookahead, tc.fracLookahead)
			predicted := s.RequiredInput(n)
			actual := simulate(s, n)
			assert.Equal(t, predicted, actual,
				"%d->%d lookahead=%d fracLA=%v n=%d", tc.rateIn, tc.rateOut, tc.lookahead, tc.fracLookahead, n)
		}
	}
}

func TestRequiredInputIsExactOverFullCycles(t *testing.T) {
	// 44100/48000 reduces to 147/160: every 160 outputs consume exactly
	// 147 inputs once the stream is rolling, with no cumulative drift.
	s := New(44100, 48000, 0, true)
	for _, k := range []uint64{1, 10, 1000, 1000000} {
		assert.Equal(t, 147*k+1, s.RequiredInput(160*k+1), "cycles=%d", k)
	}
}

func TestExpectedOutputIsAdjointOfRequiredInput(t *testing.T) {
	pairs := []struct{ in, out uint32 }{
		{44100, 48000}, {48000, 44100}, {44100, 44100}, {1, 192000}, {192000, 1},
	}
	for _, p := range pairs {
		s := New(p.in, p.out, 0, true)
		for _, n := range []uint64{0, 1, 5, 147, 10000} {
			m := s.ExpectedOutput(n)
			assert.LessOrEqual(t, s.RequiredInput(m), n,
				"%d->%d: ExpectedOutput(%d)=%d must be reachable", p.in, p.out, n, m)
			assert.Greater(t, s.RequiredInput(m+1), n,
				"%d->%d: ExpectedOutput(%d)=%d must be maximal", p.in, p.out, n, m)
		}
	}
}

func TestRequiredInputZeroIsZero(t *testing.T) {
	s := New(44100, 48000, 0, true)
	assert.Zero(t, s.RequiredInput(0))
}

func TestRequiredInputSaturates(t *testing.T) {
	s := New(math.MaxUint32, 1, 0, true)
	assert.Equal(t, uint64(math.MaxUint64), s.RequiredInput(math.MaxUint64),
		"Counts beyond uint64 must saturate, not wrap")
}

func TestSetRatePreservesFractionalPosition(t *testing.T) {
	s := New(44100, 48000, 0, true)
	simulate(s, 13) // land on a nonzero fractional position
	require.True(t, s.FracNonzero())
	before := s.FracFloat()
	relBefore := s.Rel()

	s.SetRate(44100, 32000)
	// Rescaling to the new denominator rounds down by at most one step.
	assert.InDelta(t, before, s.FracFloat(), 1.0/320+1e-12)
	assert.LessOrEqual(t, s.FracFloat(), before)
	assert.Equal(t, relBefore, s.Rel(), "Whole-frame offset must survive a rate change")
}

func TestSetRateReducesByGCD(t *testing.T) {
	s := New(44100, 48000, 0, true)
	_, den := s.Frac()
	assert.Equal(t, uint64(160), den, "44100/48000 reduces to 147/160")

	s.SetRate(44100, 22050)
	_, den = s.Frac()
	assert.Equal(t, uint64(1), den, "2:1 needs no fractional denominator")
}

func TestRatesFromRatio(t *testing.T) {
	rateIn, rateOut, ok := RatesFromRatio(1.0)
	require.True(t, ok)
	assert.Equal(t, uint32(1000), rateIn)
	assert.Equal(t, uint32(1000), rateOut)

	rateIn, rateOut, ok = RatesFromRatio(0.5)
	require.True(t, ok)
	assert.Equal(t, uint32(500), rateIn)
	assert.Equal(t, uint32(1000), rateOut)

	for _, bad := range []float32{0, -2, float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1)), 1e-9, 1e32} {
		_, _, ok := RatesFromRatio(bad)
		assert.False(t, ok, "ratio %v must be rejected", bad)
	}
}
