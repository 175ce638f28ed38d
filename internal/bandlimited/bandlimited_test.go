package bandlimited

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualityIsClampedNotRejected(t *testing.T) {
	assert.Equal(t, 0, ClampQuality(-5))
	assert.Equal(t, 10, ClampQuality(99))
	assert.Equal(t, 7, ClampQuality(7))

	r, err := New[float32](Config{RateIn: 44100, RateOut: 48000, Channels: 1, Quality: 99})
	require.NoError(t, err, "Out-of-range quality must clamp, not fail")
	defer r.Close()
	assert.Equal(t, 10, r.Quality())
	assert.Equal(t, tapsForQuality(10), r.KernelTaps())
}

func TestDCIsPreserved(t *testing.T) {
	r, err := New[float64](Config{RateIn: 44100, RateOut: 48000, Channels: 1, Quality: 5})
	require.NoError(t, err)
	defer r.Close()

	const frames = 500
	input := make([]float64, frames)
	for i := range input {
		input[i] = 0.25
	}
	output := make([]float64, 2*frames)

	_, produced, err := r.Process(output, input)
	require.NoError(t, err)
	require.Greater(t, int(produced), 2*r.KernelTaps())

	// Skip the warm-up region where the window still holds zeros.
	for i := r.KernelTaps(); i < int(produced)-r.KernelTaps(); i++ {
		assert.InDelta(t, 0.25, output[i], 1e-9, "DC must pass with unit gain at frame %d", i)
	}
}

func TestSineSurvivesDownsampling(t *testing.T) {
	const (
		rateIn  = 48000
		rateOut = 44100
		freq    = 1000.0
		frames  = 9600
	)
	r, err := New[float64](Config{RateIn: rateIn, RateOut: rateOut, Channels: 1, Quality: 8})
	require.NoError(t, err)
	defer r.Close()

	input := make([]float64, frames)
	for i := range input {
		input[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/rateIn)
	}
	output := make([]float64, 2*frames)

	_, produced, err := r.Process(output, input)
	require.NoError(t, err)

	// Project the steady-state region onto a sine/cosine pair at the
	// test frequency; whatever is left over is distortion plus aliasing.
	skip := 4 * r.KernelTaps()
	region := output[skip : int(produced)-skip]
	var ss, sc, cc, sy, cy float64
	for i, y := range region {
		ph := 2 * math.Pi * freq * float64(i) / rateOut
		s, c := math.Sin(ph), math.Cos(ph)
		ss += s * s
		cc += c * c
		sc += s * c
		sy += s * y
		cy += c * y
	}
	det := ss*cc - sc*sc
	require.NotZero(t, det)
	a := (sy*cc - cy*sc) / det
	b := (cy*ss - sy*sc) / det

	var signal, residual float64
	for i, y := range region {
		ph := 2 * math.Pi * freq * float64(i) / rateOut
		fit := a*math.Sin(ph) + b*math.Cos(ph)
		signal += fit * fit
		residual += (y - fit) * (y - fit)
	}
	require.NotZero(t, residual)
	snr := 10 * math.Log10(signal/residual)
	assert.Greater(t, snr, 60.0, "1 kHz tone should survive 48k->44.1k nearly untouched")
	assert.InDelta(t, 0.5, math.Hypot(a, b), 0.01, "Passband gain should be close to unity")
}

func TestRequiredInputSufficesForRequestedOutput(t *testing.T) {
	r, err := New[float64](Config{RateIn: 48000, RateOut: 24000, Channels: 1, Quality: 0})
	require.NoError(t, err)
	defer r.Close()

	const n = 100
	need := r.RequiredInput(n)
	input := make([]float64, need)
	output := make([]float64, n)

	consumed, produced, err := r.Process(output, input)
	require.NoError(t, err)
	assert.Equal(t, uint64(n), produced)
	assert.Equal(t, need, consumed)
}

func TestSplitCallsMatchSingleCall(t *testing.T) {
	const frames = 3000
	input := make([]float32, frames)
	for i := range input {
		input[i] = float32(0.4 * math.Sin(2*math.Pi*330*float64(i)/44100))
	}

	cfg := Config{RateIn: 44100, RateOut: 32000, Channels: 1, Quality: 4}

	whole, err := New[float32](cfg)
	require.NoError(t, err)
	defer whole.Close()
	wholeOut := make([]float32, 2*frames)
	wholeConsumed, wholeProduced, err := whole.Process(wholeOut, input)
	require.NoError(t, err)
	require.Equal(t, uint64(frames), wholeConsumed)

	split, err := New[float32](cfg)
	require.NoError(t, err)
	defer split.Close()
	splitOut := make([]float32, 0, 2*frames)
	var splitProduced uint64
	chunk := make([]float32, 128)
	for pos := 0; pos < frames; {
		n := 11 + pos%17
		if pos+n > frames {
			n = frames - pos
		}
		consumed, produced, err := split.Process(chunk, input[pos:pos+n])
		require.NoError(t, err)
		require.Equal(t, uint64(n), consumed)
		splitOut = append(splitOut, chunk[:produced]...)
		splitProduced += produced
		pos += n
	}

	assert.Equal(t, wholeProduced, splitProduced)
	assert.Equal(t, wholeOut[:wholeProduced], splitOut, "Chunking must not change a single sample")
}

func TestSnapshotIsIndependent(t *testing.T) {
	input := make([]float64, 600)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * 220 * float64(i) / 48000)
	}

	r, err := New[float64](Config{RateIn: 48000, RateOut: 44100, Channels: 1, Quality: 6})
	require.NoError(t, err)
	defer r.Close()

	warm := make([]float64, 1024)
	_, _, err = r.Process(warm, input[:200])
	require.NoError(t, err)

	snap := r.Snapshot()
	defer snap.Close()

	out1 := make([]float64, 1024)
	out2 := make([]float64, 1024)
	c1, p1, err := r.Process(out1, input[200:])
	require.NoError(t, err)
	c2, p2, err := snap.Process(out2, input[200:])
	require.NoError(t, err)

	assert.Equal(t, c1, c2)
	assert.Equal(t, p1, p2)
	assert.Equal(t, out1[:p1], out2[:p2], "Snapshot must replay the original stream exactly")
}

func TestSetRateKeepsStreamRunning(t *testing.T) {
	r, err := New[float32](Config{RateIn: 44100, RateOut: 48000, Channels: 2, Quality: 3})
	require.NoError(t, err)
	defer r.Close()

	input := make([]float32, 2*512)
	output := make([]float32, 2*2048)
	_, _, err = r.Process(output, input)
	require.NoError(t, err)

	require.NoError(t, r.SetRate(44100, 22050))
	consumed, produced, err := r.Process(output, input)
	require.NoError(t, err)
	assert.Equal(t, uint64(512), consumed)
	assert.InDelta(t, 256, int(produced), 1)
}
