package resampler

import "fmt"

// NewLinear builds a linear resampler with the default anti-alias
// filter. Shorthand for New with NewConfig defaults.
func NewLinear[S Sample](rateIn, rateOut uint32, channels int) (*Resampler[S], error) {
	return New[S](NewConfig(rateIn, rateOut, channels))
}

// NewBandLimited builds a band-limited resampler at the given quality.
func NewBandLimited[S Sample](rateIn, rateOut uint32, channels int, quality int) (*Resampler[S], error) {
	cfg := NewConfig(rateIn, rateOut, channels)
	cfg.Algorithm = AlgorithmBandLimited
	cfg.BandLimited.Quality = quality
	return New[S](cfg)
}

// Resample converts a complete interleaved buffer in one shot using the
// default linear configuration. The returned slice holds exactly the
// frames the input yields; trailing frames still inside the algorithm
// latency are not flushed.
func Resample[S Sample](input []S, rateIn, rateOut uint32, channels int) ([]S, error) {
	r, err := NewLinear[S](rateIn, rateOut, channels)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if len(input)%channels != 0 {
		return nil, fmt.Errorf("%w: input length %d, %d channels", ErrUnalignedBuffer, len(input), channels)
	}
	inFrames := uint64(len(input) / channels)
	expected, err := r.ExpectedOutputFrames(inFrames)
	if err != nil {
		return nil, err
	}

	output := make([]S, expected*uint64(channels))
	consumed, produced, err := r.Process(output, input)
	if err != nil {
		return nil, err
	}
	if consumed != inFrames {
		return nil, fmt.Errorf("short consume: %d of %d frames", consumed, inFrames)
	}
	return output[:produced*uint64(channels)], nil
}
