// Package resampler provides streaming PCM sample rate conversion in
// pure Go.
//
// The engine converts interleaved multi-channel audio between any pair
// of positive integer sample rates. It is built for streams: input
// arrives in chunks of arbitrary size, the conversion carries its state
// across calls, and the result is sample-identical to converting the
// whole stream in one call.
//
// # Features
//
//   - Two algorithms behind one interface: low-latency linear
//     interpolation with an optional Butterworth anti-alias filter, and
//     high-quality Kaiser windowed-sinc polyphase interpolation
//   - Exact fixed-point stream position, so long streams never drift
//   - Native int16, int32, float32 and float64 sample types via
//     generics, with no intermediate format conversion on the
//     passthrough path
//   - Frame accounting primitives (RequiredInputFrames,
//     ExpectedOutputFrames) for sizing buffers ahead of time
//   - Mid-stream rate changes without glitches, including ratios
//     snapped from floating point via SetRateRatio
//   - Optional SIMD acceleration (AVX2/SSE) via github.com/tphakala/simd
//   - Pure Go, no CGO
//
// # Quick start
//
// One-shot conversion of a complete buffer:
//
//	output, err := resampler.Resample(input, 44100, 48000, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Streaming conversion with explicit control:
//
//	cfg := resampler.NewConfig(44100, 48000, 2)
//	r, err := resampler.New[float32](cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	out := make([]float32, 4096)
//	for chunk := range chunks {
//	    consumed, produced, err := r.Process(out, chunk)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    play(out[:produced*2])
//	    _ = consumed // frames of chunk actually read
//	}
//
// # Consumption contract
//
// Process returns how many frames it consumed and produced. Input
// frames the stream position has stepped past are consumed and buffered
// even when the output buffer fills first, so the consumed count always
// reflects the true position; feeding the unconsumed tail of a chunk
// again is never necessary and never harmful to skip.
//
// # Choosing an algorithm
//
// AlgorithmLinear (the default) adds one frame of latency plus the
// filter group delay and is cheap enough for many channels in real
// time. AlgorithmBandLimited trades latency and CPU for a flat passband
// and a deep stopband; its Quality knob ranges 0 to 10.
//
// A Resampler must be owned by one goroutine at a time. Run one
// instance per stream; instances are independent.
package resampler
