package binary

// Compression is the closed set of wire-level compression schemes a
// DataArray's bytes may be stored under, per SPEC_FULL.md §4.2's
// encode/decode pipeline.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZlib
	CompressionZstd
	CompressionNumpressLinear
	CompressionNumpressSlof
	CompressionNumpressPic
	CompressionDictByteShuffle
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	case CompressionNumpressLinear:
		return "numpress-linear"
	case CompressionNumpressSlof:
		return "numpress-slof"
	case CompressionNumpressPic:
		return "numpress-pic"
	case CompressionDictByteShuffle:
		return "dict+byte-shuffle"
	default:
		return "unknown"
	}
}

// isNumpress reports whether c is one of the three numpress variants.
func (c Compression) isNumpress() bool {
	switch c {
	case CompressionNumpressLinear, CompressionNumpressSlof, CompressionNumpressPic:
		return true
	default:
		return false
	}
}

// supportsDtype reports whether compression scheme c may be applied to
// dtype d, per SPEC_FULL.md §4.2's "encoder must refuse to apply a scheme
// to a dtype it does not support" requirement.
func (c Compression) supportsDtype(d DType) bool {
	switch c {
	case CompressionNumpressLinear, CompressionNumpressSlof:
		// Numpress linear/slof operate on monotone/bounded doubles; they
		// are not defined over 32-bit floats or any integer dtype.
		return d == DTypeFloat64
	case CompressionNumpressPic:
		// Pic is defined for integer-valued intensities, commonly stored
		// as doubles on the wire but conceptually integral; we accept the
		// numeric dtypes it is meaningful for.
		return d == DTypeFloat64 || d == DTypeInt32 || d == DTypeInt64
	default:
		// none / zlib / zstd / dict+byte-shuffle are general-purpose byte
		// transforms, applicable to any fixed-width numeric dtype.
		return d != DTypeUnknown
	}
}
