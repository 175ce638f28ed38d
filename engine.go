package resampler

import (
	"fmt"

	"github.com/tphakala/go-stream-resampler/internal/bandlimited"
	"github.com/tphakala/go-stream-resampler/internal/linear"
	"github.com/tphakala/go-stream-resampler/internal/stepper"
)

// algorithm is the contract both backends satisfy. The engine owns
// lifecycle and buffer validation; everything stream-related delegates.
type algorithm[S Sample] interface {
	Process(output, input []S) (consumed, produced uint64, err error)
	SetRate(rateIn, rateOut uint32) error
	RequiredInput(outputFrames uint64) uint64
	ExpectedOutput(inputFrames uint64) uint64
	InputLatency() uint64
	OutputLatency() uint64
	Close() error
}

// Resampler converts interleaved PCM between two sample rates as a
// stream: input may arrive in chunks of any size and the conversion is
// identical to processing the whole stream at once.
//
// A Resampler is owned by one goroutine at a time. Calls must be
// strictly sequential; there is no internal locking.
type Resampler[S Sample] struct {
	cfg    Config
	algo   algorithm[S]
	closed bool
}

// New builds a resampler for the given configuration. The configuration
// is validated up front and copied; later mutation of cfg has no effect
// on the returned resampler. On error nothing is left allocated.
func New[S Sample](cfg *Config) (*Resampler[S], error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, err
	}

	want := formatOf[S]()
	if c.Format == FormatUnknown {
		c.Format = want
	} else if c.Format != want {
		return nil, fmt.Errorf("%w: format %s does not match sample type %s", ErrInvalidConfig, c.Format, want)
	}
	c.Linear.LPFNyquistFactor = c.nyquistFactor()
	c.BandLimited.Quality = bandlimited.ClampQuality(c.BandLimited.Quality)

	algo, err := newAlgorithm[S](&c)
	if err != nil {
		return nil, err
	}
	return &Resampler[S]{cfg: c, algo: algo}, nil
}

func newAlgorithm[S Sample](c *Config) (algorithm[S], error) {
	switch c.Algorithm {
	case AlgorithmBandLimited:
		return bandlimited.New[S](bandlimited.Config{
			RateIn:   c.RateIn,
			RateOut:  c.RateOut,
			Channels: c.Channels,
			Quality:  c.BandLimited.Quality,
		})
	default:
		return linear.New[S](linear.Config{
			RateIn:           c.RateIn,
			RateOut:          c.RateOut,
			Channels:         c.Channels,
			LPFOrder:         c.Linear.LPFOrder,
			LPFNyquistFactor: c.Linear.LPFNyquistFactor,
		})
	}
}

// Process reads whole frames from input and writes whole frames to
// output, returning how many frames of each were consumed and produced.
// It stops when the next output frame would need input that is not
// there, or when output is full; input frames the position has already
// stepped past are consumed (and buffered internally) even when the
// output buffer fills first, so consumed always reflects the true
// stream position. Empty buffers are fine: a full output or empty input
// simply bounds the corresponding count at zero.
func (r *Resampler[S]) Process(output, input []S) (consumed, produced uint64, err error) {
	if r.closed {
		return 0, 0, ErrClosed
	}
	if len(input)%r.cfg.Channels != 0 {
		return 0, 0, fmt.Errorf("%w: input length %d, %d channels", ErrUnalignedBuffer, len(input), r.cfg.Channels)
	}
	if len(output)%r.cfg.Channels != 0 {
		return 0, 0, fmt.Errorf("%w: output length %d, %d channels", ErrUnalignedBuffer, len(output), r.cfg.Channels)
	}
	return r.algo.Process(output, input)
}

// SetRate changes the conversion ratio mid-stream. Buffered input and
// the fractional stream position carry over, so audio keeps flowing
// without a glitch at the switch point.
func (r *Resampler[S]) SetRate(rateIn, rateOut uint32) error {
	if r.closed {
		return ErrClosed
	}
	if rateIn == 0 || rateOut == 0 {
		return fmt.Errorf("%w: rates must be positive (got %d -> %d)", ErrInvalidRate, rateIn, rateOut)
	}
	if err := r.algo.SetRate(rateIn, rateOut); err != nil {
		return err
	}
	r.cfg.RateIn = rateIn
	r.cfg.RateOut = rateOut
	return nil
}

// SetRateRatio changes the conversion ratio expressed as rateIn/rateOut.
// The ratio is snapped to a rational rate pair on a fixed denominator,
// so extremely small or non-finite ratios are rejected.
func (r *Resampler[S]) SetRateRatio(ratio float32) error {
	if r.closed {
		return ErrClosed
	}
	rateIn, rateOut, ok := stepper.RatesFromRatio(ratio)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}
	return r.SetRate(rateIn, rateOut)
}

// RequiredInputFrames returns how many more input frames must be
// supplied, from the current stream position, for Process to produce
// outputFrames output frames.
func (r *Resampler[S]) RequiredInputFrames(outputFrames uint64) (uint64, error) {
	if r.closed {
		return 0, ErrClosed
	}
	return r.algo.RequiredInput(outputFrames), nil
}

// ExpectedOutputFrames returns how many output frames Process will
// produce if inputFrames more input frames are fully consumed from the
// current stream position.
func (r *Resampler[S]) ExpectedOutputFrames(inputFrames uint64) (uint64, error) {
	if r.closed {
		return 0, ErrClosed
	}
	return r.algo.ExpectedOutput(inputFrames), nil
}

// InputLatency returns the algorithm delay in input frames. After
// Close it returns 0; do not size buffers from a closed resampler.
func (r *Resampler[S]) InputLatency() uint64 {
	if r.closed {
		return 0
	}
	return r.algo.InputLatency()
}

// OutputLatency returns the algorithm delay in output frames. After
// Close it returns 0, like InputLatency.
func (r *Resampler[S]) OutputLatency() uint64 {
	if r.closed {
		return 0
	}
	return r.algo.OutputLatency()
}

// Config returns a copy of the effective configuration. Rates reflect
// SetRate and SetRateRatio calls made since construction.
func (r *Resampler[S]) Config() Config {
	return r.cfg
}

// Clone builds a fresh resampler from the receiver's current
// configuration. The clone starts from a clean stream position; it does
// not inherit buffered frames or filter history. Use Snapshot for a
// stateful copy.
func (r *Resampler[S]) Clone() (*Resampler[S], error) {
	if r.closed {
		return nil, ErrClosed
	}
	cfg := r.cfg
	return New[S](&cfg)
}

// Snapshot returns a deep copy carrying the full streaming state. The
// copy and the original then evolve independently: feeding both the
// same input produces identical output from each.
func (r *Resampler[S]) Snapshot() (*Resampler[S], error) {
	if r.closed {
		return nil, ErrClosed
	}
	c := &Resampler[S]{cfg: r.cfg}
	switch a := r.algo.(type) {
	case *linear.Resampler[S]:
		c.algo = a.Snapshot()
	case *bandlimited.Resampler[S]:
		c.algo = a.Snapshot()
	default:
		return nil, fmt.Errorf("%w: unknown algorithm state", ErrInvalidConfig)
	}
	return c, nil
}

// Close releases the resampler's buffers. It is idempotent; after the
// first call every other operation returns ErrClosed.
func (r *Resampler[S]) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.algo.Close()
	r.algo = nil
	return err
}
