package resampler

const (
	// MaxLPFOrder is the highest Butterworth order the linear algorithm
	// accepts. Higher orders are rejected rather than clamped because
	// the cascade decomposition is only tabulated this far.
	MaxLPFOrder = 8

	// DefaultLPFOrder balances alias suppression against group delay
	// for the linear algorithm.
	DefaultLPFOrder = 4

	// DefaultNyquistFactor places the anti-alias cutoff exactly at the
	// lower Nyquist frequency.
	DefaultNyquistFactor = 1.0

	// DefaultQuality is the band-limited algorithm's default knob,
	// roughly 16-bit stopband performance.
	DefaultQuality = 3

	// maxChannels bounds per-channel state allocation.
	maxChannels = 64
)
