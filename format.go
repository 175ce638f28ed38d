package resampler

// Sample enumerates the PCM sample types the engine processes natively.
// No intermediate format conversion happens: an int16 stream is consumed
// and produced as int16, with rounding and clamping applied only where
// interpolation or filtering leaves the integer grid.
type Sample interface {
	int16 | int32 | float32 | float64
}

// Format identifies a PCM sample format at runtime. It mirrors the
// Sample type parameter for configuration written before the concrete
// sample type is chosen, such as config files or wire headers.
type Format int

const (
	// FormatUnknown lets the engine derive the format from the sample
	// type parameter.
	FormatUnknown Format = iota

	// FormatS16 is signed 16-bit PCM.
	FormatS16

	// FormatS32 is signed 32-bit PCM.
	FormatS32

	// FormatF32 is 32-bit floating point PCM.
	FormatF32

	// FormatF64 is 64-bit floating point PCM.
	FormatF64
)

// BytesPerSample returns the storage size of one sample, or 0 for
// FormatUnknown.
func (f Format) BytesPerSample() int {
	switch f {
	case FormatS16:
		return 2
	case FormatS32, FormatF32:
		return 4
	case FormatF64:
		return 8
	default:
		return 0
	}
}

// String returns a short human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatS16:
		return "s16"
	case FormatS32:
		return "s32"
	case FormatF32:
		return "f32"
	case FormatF64:
		return "f64"
	default:
		return "unknown"
	}
}

// formatOf returns the Format matching the sample type parameter.
func formatOf[S Sample]() Format {
	var zero S
	switch any(zero).(type) {
	case int16:
		return FormatS16
	case int32:
		return FormatS32
	case float32:
		return FormatF32
	default:
		return FormatF64
	}
}
