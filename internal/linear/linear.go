// Package linear implements the default low-latency resampling
// algorithm: fixed-point fractional-position stepping with two-point
// interpolation and an optional Butterworth low-pass stage.
//
// The algorithm caches the two input frames surrounding the current read
// position, so call boundaries are lossless: a stream split across any
// number of Process calls produces exactly the same samples as one call
// over the whole stream.
package linear

import (
	"fmt"

	"github.com/tphakala/go-stream-resampler/internal/filter"
	"github.com/tphakala/go-stream-resampler/internal/pcm"
	"github.com/tphakala/go-stream-resampler/internal/stepper"
)

// Config holds the validated parameters the linear algorithm needs.
type Config struct {
	RateIn   uint32
	RateOut  uint32
	Channels int

	// LPFOrder is the low-pass filter order; 0 disables filtering.
	LPFOrder uint32

	// LPFNyquistFactor scales the cutoff relative to half the lower of
	// the two rates, in (0, 1].
	LPFNyquistFactor float64
}

// Resampler is the linear algorithm state for sample type S.
type Resampler[S pcm.Sample] struct {
	cfg  Config
	step *stepper.Stepper

	// Cached frames around the read position: x1 is the newest frame
	// read, x0 the one before it. The raw copies serve the exact
	// passthrough path; the float copies are the working domain (and
	// hold filtered values when the filter runs on the input side).
	x0, x1       []float64
	x0raw, x1raw []S

	lpf        *filter.LowPass
	lpfOnInput bool

	closed bool
}

// New builds a fully initialized linear resampler. The configuration
// must already be validated (positive rates, channels >= 1, order within
// range, nyquist factor in (0, 1]).
func New[S pcm.Sample](cfg Config) (*Resampler[S], error) {
	r := &Resampler[S]{
		cfg:   cfg,
		step:  stepper.New(cfg.RateIn, cfg.RateOut, 0, true),
		x0:    make([]float64, cfg.Channels),
		x1:    make([]float64, cfg.Channels),
		x0raw: make([]S, cfg.Channels),
		x1raw: make([]S, cfg.Channels),
	}

	if cfg.LPFOrder > 0 {
		lpf, err := filter.NewLowPass(int(cfg.LPFOrder), cfg.Channels,
			lpfCutoffHz(cfg.RateIn, cfg.RateOut, cfg.LPFNyquistFactor),
			lpfRateHz(cfg.RateIn, cfg.RateOut))
		if err != nil {
			return nil, fmt.Errorf("low-pass setup failed: %w", err)
		}
		r.lpf = lpf
		r.lpfOnInput = cfg.RateIn > cfg.RateOut
	}

	return r, nil
}

// lpfCutoffHz derives the anti-alias cutoff from the lower of the two
// rates and the nyquist factor.
func lpfCutoffHz(rateIn, rateOut uint32, nyquistFactor float64) float64 {
	lower := rateIn
	if rateOut < lower {
		lower = rateOut
	}
	return float64(lower) * nyquistFactor / 2
}

// lpfRateHz returns the rate the filter operates at: the higher side,
// which is the input when downsampling and the output otherwise.
func lpfRateHz(rateIn, rateOut uint32) float64 {
	if rateIn > rateOut {
		return float64(rateIn)
	}
	return float64(rateOut)
}

// Process consumes up to len(input)/channels frames and produces up to
// len(output)/channels frames, returning exactly how many of each were
// used. Input frames the advance has stepped past are read (and cached)
// even when the output buffer is already full, so the reported consumed
// count always reflects the true stream position.
func (r *Resampler[S]) Process(output, input []S) (consumed, produced uint64, err error) {
	ch := r.cfg.Channels
	inFrames := len(input) / ch
	outCap := len(output) / ch

	var inPos, outPos int
	for {
		if outPos >= outCap {
			// Output is full. Frames strictly below the fractional
			// position are already stepped past: consume and cache them
			// so the reported count matches the true position. The frame
			// at a whole-frame position stays unconsumed, which keeps
			// equal-rate processing at consumed == produced.
			for inPos < inFrames && r.steppedPast() {
				r.shiftIn(input[inPos*ch : (inPos+1)*ch])
				inPos++
				r.step.DidRead()
			}
			break
		}
		// Read until the frame at floor(position) is the newest cached one.
		for r.step.NeedRead() && inPos < inFrames {
			r.shiftIn(input[inPos*ch : (inPos+1)*ch])
			inPos++
			r.step.DidRead()
		}
		if r.step.NeedRead() {
			break // input exhausted mid-step; resume here next call
		}
		// A fractional position interpolates toward the next frame,
		// which must be cached before emitting.
		if r.step.FracNonzero() && r.step.Rel() == 0 {
			if inPos >= inFrames {
				break
			}
			r.shiftIn(input[inPos*ch : (inPos+1)*ch])
			inPos++
			r.step.DidRead()
		}

		r.emit(output[outPos*ch : (outPos+1)*ch])
		outPos++
		r.step.Advance()
	}

	return uint64(inPos), uint64(outPos), nil
}

// steppedPast reports whether the next unread input frame lies strictly
// below the current fractional position.
func (r *Resampler[S]) steppedPast() bool {
	rel := r.step.Rel()
	return rel > 1 || (rel == 1 && r.step.FracNonzero())
}

// shiftIn moves the cached window forward by one input frame, filtering
// on the way in when the filter runs on the input side.
func (r *Resampler[S]) shiftIn(frame []S) {
	copy(r.x0, r.x1)
	copy(r.x0raw, r.x1raw)
	for c, s := range frame {
		v := pcm.ToFloat64(s)
		if r.lpf != nil && r.lpfOnInput {
			v = r.lpf.Apply(v, c)
		}
		r.x1[c] = v
		r.x1raw[c] = s
	}
}

// emit writes one output frame at the current fractional position.
func (r *Resampler[S]) emit(dst []S) {
	fracNum, den := r.step.Frac()

	if fracNum == 0 {
		src, srcRaw := r.x1, r.x1raw
		if r.step.Rel() == -1 {
			src, srcRaw = r.x0, r.x0raw
		}
		if r.lpf == nil {
			// Whole-frame position without filtering passes the input
			// through bit-identically.
			copy(dst, srcRaw)
			return
		}
		for c := range dst {
			v := src[c]
			if !r.lpfOnInput {
				v = r.lpf.Apply(v, c)
			}
			dst[c] = pcm.FromFloat64[S](v)
		}
		return
	}

	frac := float64(fracNum) / float64(den)
	for c := range dst {
		v := pcm.Lerp(r.x0[c], r.x1[c], frac)
		if r.lpf != nil && !r.lpfOnInput {
			v = r.lpf.Apply(v, c)
		}
		dst[c] = pcm.FromFloat64[S](v)
	}
}

// SetRate updates the rate ratio in place. The fractional position and
// the filter's delay registers persist; only the advance step and the
// filter cutoff change.
func (r *Resampler[S]) SetRate(rateIn, rateOut uint32) error {
	r.step.SetRate(rateIn, rateOut)
	r.cfg.RateIn = rateIn
	r.cfg.RateOut = rateOut

	if r.lpf != nil {
		r.lpf.SetCutoff(
			lpfCutoffHz(rateIn, rateOut, r.cfg.LPFNyquistFactor),
			lpfRateHz(rateIn, rateOut))
		r.lpfOnInput = rateIn > rateOut
	}
	return nil
}

// RequiredInput returns the additional input frames needed to produce n
// output frames from the current position.
func (r *Resampler[S]) RequiredInput(n uint64) uint64 {
	return r.step.RequiredInput(n)
}

// ExpectedOutput returns the output frames produced if n more input
// frames are fully consumed.
func (r *Resampler[S]) ExpectedOutput(n uint64) uint64 {
	return r.step.ExpectedOutput(n)
}

// InputLatency returns the algorithm delay in input frames: one frame of
// interpolation cache plus the filter group delay.
func (r *Resampler[S]) InputLatency() uint64 {
	latency := uint64(1)
	if r.lpf != nil {
		latency += r.lpf.Latency()
	}
	return latency
}

// OutputLatency returns the delay expressed in output frames.
func (r *Resampler[S]) OutputLatency() uint64 {
	return r.InputLatency() * uint64(r.cfg.RateOut) / uint64(r.cfg.RateIn)
}

// Snapshot returns a deep copy carrying the full streaming state:
// position, cached frames, and filter history.
func (r *Resampler[S]) Snapshot() *Resampler[S] {
	c := &Resampler[S]{
		cfg:        r.cfg,
		step:       r.step.Clone(),
		x0:         append([]float64(nil), r.x0...),
		x1:         append([]float64(nil), r.x1...),
		x0raw:      append([]S(nil), r.x0raw...),
		x1raw:      append([]S(nil), r.x1raw...),
		lpfOnInput: r.lpfOnInput,
	}
	if r.lpf != nil {
		c.lpf = r.lpf.Clone()
	}
	return c
}

// Close releases the cached frames and filter delay lines. Safe to call
// more than once.
func (r *Resampler[S]) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.x0, r.x1 = nil, nil
	r.x0raw, r.x1raw = nil, nil
	if r.lpf != nil {
		r.lpf.Release()
		r.lpf = nil
	}
	return nil
}
