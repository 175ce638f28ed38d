package main

// widenSamples copies decoder ints into the engine's int32 domain.
// go-audio decodes 16- and 24-bit PCM into int without scaling, so the
// values always fit.
func widenSamples(dst []int32, src []int) {
	for i, v := range src {
		dst[i] = int32(v)
	}
}

// narrowSamples copies engine output back into the encoder's int slice.
func narrowSamples(dst []int, src []int32) {
	for i, v := range src {
		dst[i] = int(v)
	}
}
