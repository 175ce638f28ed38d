package resampler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid resampler configuration")

	// ErrInvalidRate indicates a zero or otherwise unusable sample rate.
	ErrInvalidRate = errors.New("invalid sample rate")

	// ErrInvalidRatio indicates a rate ratio that cannot be represented
	// as a pair of positive integer rates.
	ErrInvalidRatio = errors.New("invalid rate ratio")

	// ErrUnalignedBuffer indicates a buffer whose length is not a whole
	// number of frames.
	ErrUnalignedBuffer = errors.New("buffer length not a multiple of channel count")

	// ErrClosed indicates use of a resampler after Close.
	ErrClosed = errors.New("resampler is closed")
)

// Algorithm selects the resampling engine backend.
type Algorithm int

const (
	// AlgorithmLinear is two-point interpolation with an optional
	// Butterworth anti-alias filter. Lowest latency, default.
	AlgorithmLinear Algorithm = iota

	// AlgorithmBandLimited is Kaiser windowed-sinc polyphase
	// interpolation. Higher quality, higher latency, tunable via the
	// Quality knob.
	AlgorithmBandLimited
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmLinear:
		return "linear"
	case AlgorithmBandLimited:
		return "band-limited"
	default:
		return "unknown"
	}
}

// LinearConfig tunes the linear algorithm.
type LinearConfig struct {
	// LPFOrder is the Butterworth anti-alias filter order, 0 to
	// MaxLPFOrder. 0 disables filtering entirely, which also enables
	// the bit-exact passthrough at equal rates.
	LPFOrder uint32

	// LPFNyquistFactor scales the filter cutoff relative to half the
	// lower sample rate, in (0, 1]. The zero value means 1.0.
	LPFNyquistFactor float64
}

// BandLimitedConfig tunes the band-limited algorithm.
type BandLimitedConfig struct {
	// Quality trades fidelity for CPU and latency, 0 (fastest) to 10
	// (best). Out-of-range values are clamped, never rejected.
	Quality int
}

// Config holds the full resampler configuration. NewConfig returns one
// with all defaults filled in; a zero-value Config is also usable once
// rates and channels are set, with zero-valued knobs meaning defaults
// where a default exists (LPFNyquistFactor) and literal zero elsewhere
// (LPFOrder, Quality).
type Config struct {
	// Format optionally pins the PCM sample format. The zero value is
	// derived from the engine's sample type parameter; a non-zero value
	// that contradicts the type parameter is a configuration error.
	Format Format

	// Channels is the number of interleaved channels per frame.
	Channels int

	// RateIn and RateOut are the sample rates in Hz. Both must be
	// positive; any positive pair is accepted.
	RateIn  uint32
	RateOut uint32

	// Algorithm selects the backend. Defaults to AlgorithmLinear.
	Algorithm Algorithm

	// Linear applies when Algorithm is AlgorithmLinear.
	Linear LinearConfig

	// BandLimited applies when Algorithm is AlgorithmBandLimited.
	BandLimited BandLimitedConfig
}

// NewConfig returns a Config with the library defaults: linear algorithm
// with a 4th order anti-alias filter at the full Nyquist cutoff, and
// band-limited quality 3 should the algorithm be switched.
func NewConfig(rateIn, rateOut uint32, channels int) *Config {
	return &Config{
		Channels:  channels,
		RateIn:    rateIn,
		RateOut:   rateOut,
		Algorithm: AlgorithmLinear,
		Linear: LinearConfig{
			LPFOrder:         DefaultLPFOrder,
			LPFNyquistFactor: DefaultNyquistFactor,
		},
		BandLimited: BandLimitedConfig{
			Quality: DefaultQuality,
		},
	}
}

// Validate reports whether the configuration can build a resampler.
func (c *Config) Validate() error {
	if c.RateIn == 0 || c.RateOut == 0 {
		return fmt.Errorf("%w: sample rates must be positive", ErrInvalidConfig)
	}
	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}
	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}
	switch c.Algorithm {
	case AlgorithmLinear, AlgorithmBandLimited:
	default:
		return fmt.Errorf("%w: unknown algorithm %d", ErrInvalidConfig, c.Algorithm)
	}
	if c.Linear.LPFOrder > MaxLPFOrder {
		return fmt.Errorf("%w: LPF order %d exceeds max %d", ErrInvalidConfig, c.Linear.LPFOrder, MaxLPFOrder)
	}
	if nf := c.Linear.LPFNyquistFactor; nf < 0 || nf > 1 {
		return fmt.Errorf("%w: LPF nyquist factor must be in (0, 1]", ErrInvalidConfig)
	}
	return nil
}

// nyquistFactor resolves the zero value to the default.
func (c *Config) nyquistFactor() float64 {
	if c.Linear.LPFNyquistFactor == 0 {
		return DefaultNyquistFactor
	}
	return c.Linear.LPFNyquistFactor
}
