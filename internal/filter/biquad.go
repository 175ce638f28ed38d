// Package filter provides the filter machinery behind the resampling
// algorithms: the Butterworth low-pass cascade used by the linear
// algorithm, Kaiser windowed-sinc design, the polyphase coefficient bank
// used by the band-limited algorithm, and frequency-response analysis.
package filter

import (
	"fmt"
	"math"
)

// MaxLowPassOrder is the highest supported low-pass filter order.
const MaxLowPassOrder = 8

// biquadSection holds the normalized coefficients of one second-order
// low-pass section (RBJ cookbook form).
type biquadSection struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// LowPass is a Butterworth low-pass cascade of order 1..8: order/2
// biquad sections plus a first-order section when the order is odd.
// State is kept per channel so interleaved frames filter independently.
//
// SetCutoff recomputes coefficients without touching the delay
// registers, which is what allows mid-stream rate changes to be
// glitch-minimized.
type LowPass struct {
	order    int
	channels int

	sections []biquadSection
	// Direct form II transposed registers: [section][channel].
	z1, z2 [][]float64

	hasOnePole bool
	onePoleB   float64   // y = y1 + b*(x - y1)
	onePoleZ   []float64 // per-channel register
}

// NewLowPass builds a low-pass cascade. Order 0 is rejected here; the
// caller disables filtering by not constructing one.
func NewLowPass(order, channels int, cutoffHz, sampleRateHz float64) (*LowPass, error) {
	if order < 1 || order > MaxLowPassOrder {
		return nil, fmt.Errorf("low-pass order %d out of range [1, %d]", order, MaxLowPassOrder)
	}
	if channels < 1 {
		return nil, fmt.Errorf("channel count %d must be positive", channels)
	}

	lp := &LowPass{
		order:      order,
		channels:   channels,
		hasOnePole: order%2 == 1,
	}

	numBiquads := order / 2
	lp.sections = make([]biquadSection, numBiquads)
	lp.z1 = make([][]float64, numBiquads)
	lp.z2 = make([][]float64, numBiquads)
	for i := range numBiquads {
		lp.z1[i] = make([]float64, channels)
		lp.z2[i] = make([]float64, channels)
	}
	if lp.hasOnePole {
		lp.onePoleZ = make([]float64, channels)
	}

	lp.SetCutoff(cutoffHz, sampleRateHz)
	return lp, nil
}

// SetCutoff recomputes the cascade coefficients for a new cutoff and
// operating rate, preserving all delay registers.
func (lp *LowPass) SetCutoff(cutoffHz, sampleRateHz float64) {
	nyquist := sampleRateHz / 2
	if cutoffHz > nyquist {
		cutoffHz = nyquist
	}
	if cutoffHz < 0 {
		cutoffHz = 0
	}
	omega := 2 * math.Pi * cutoffHz / sampleRateHz

	if lp.hasOnePole {
		lp.onePoleB = 1 - math.Exp(-omega)
	}

	cosw := math.Cos(omega)
	sinw := math.Sin(omega)
	n := lp.order
	for i := range lp.sections {
		// Butterworth pole-pair angle from the negative real axis.
		var theta float64
		if lp.hasOnePole {
			theta = float64(i+1) * math.Pi / float64(n)
		} else {
			theta = float64(2*i+1) * math.Pi / float64(2*n)
		}
		q := 1 / (2 * math.Cos(theta))

		alpha := sinw / (2 * q)
		a0 := 1 + alpha
		lp.sections[i] = biquadSection{
			b0: (1 - cosw) / 2 / a0,
			b1: (1 - cosw) / a0,
			b2: (1 - cosw) / 2 / a0,
			a1: -2 * cosw / a0,
			a2: (1 - alpha) / a0,
		}
	}
}

// Apply filters one sample on the given channel.
func (lp *LowPass) Apply(x float64, channel int) float64 {
	y := x
	if lp.hasOnePole {
		lp.onePoleZ[channel] += lp.onePoleB * (y - lp.onePoleZ[channel])
		y = lp.onePoleZ[channel]
	}
	for i := range lp.sections {
		s := &lp.sections[i]
		out := s.b0*y + lp.z1[i][channel]
		lp.z1[i][channel] = s.b1*y - s.a1*out + lp.z2[i][channel]
		lp.z2[i][channel] = s.b2*y - s.a2*out
		y = out
	}
	return y
}

// Latency returns the cascade's approximate group delay in frames at the
// operating rate: two frames per biquad plus one for the odd section.
func (lp *LowPass) Latency() uint64 {
	latency := uint64(len(lp.sections)) * 2
	if lp.hasOnePole {
		latency++
	}
	return latency
}

// Clone returns an independent deep copy, delay registers included.
func (lp *LowPass) Clone() *LowPass {
	c := &LowPass{
		order:      lp.order,
		channels:   lp.channels,
		hasOnePole: lp.hasOnePole,
		onePoleB:   lp.onePoleB,
		sections:   append([]biquadSection(nil), lp.sections...),
		z1:         make([][]float64, len(lp.z1)),
		z2:         make([][]float64, len(lp.z2)),
	}
	for i := range lp.z1 {
		c.z1[i] = append([]float64(nil), lp.z1[i]...)
		c.z2[i] = append([]float64(nil), lp.z2[i]...)
	}
	if lp.onePoleZ != nil {
		c.onePoleZ = append([]float64(nil), lp.onePoleZ...)
	}
	return c
}

// Release drops the delay-line allocations. The filter must not be used
// afterwards.
func (lp *LowPass) Release() {
	lp.sections = nil
	lp.z1 = nil
	lp.z2 = nil
	lp.onePoleZ = nil
}
