package binary

import (
	"errors"
	"testing"

	"github.com/msspeclib/mzdata/mzerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeTypedRoundTrip(t *testing.T) {
	values := []float64{1.5, -2.25, 1000000.125, 0}
	for _, dtype := range []DType{DTypeFloat32, DTypeFloat64, DTypeInt32, DTypeInt64} {
		raw, err := encodeTyped(dtype, values)
		require.NoError(t, err, dtype.String())
		decoded, err := decodeTypedAsFloat64(dtype, raw)
		require.NoError(t, err, dtype.String())
		require.Len(t, decoded, len(values))
		for i, v := range values {
			if dtype == DTypeInt32 || dtype == DTypeInt64 {
				assert.Equal(t, float64(int64(v)), decoded[i])
			} else {
				assert.InDelta(t, v, decoded[i], 0.01)
			}
		}
	}
}

func TestEncodeTypedUnsupportedDtype(t *testing.T) {
	_, err := encodeTyped(DTypeASCII, []float64{1})
	assert.Error(t, err)
}

func TestDecodeTypedAsFloat64MisalignedLength(t *testing.T) {
	_, err := decodeTypedAsFloat64(DTypeFloat64, []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestCompressDecompressRoundTrip_Zlib(t *testing.T) {
	raw, err := encodeTyped(DTypeFloat64, []float64{1, 2, 3, 4.5})
	require.NoError(t, err)
	encoded, err := compressBytes(CompressionZlib, DTypeFloat64, raw, "")
	require.NoError(t, err)
	decoded, err := decompressBytes(CompressionZlib, DTypeFloat64, encoded, "", nil)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestCompressDecompressRoundTrip_Zstd(t *testing.T) {
	raw, err := encodeTyped(DTypeFloat32, []float64{1, 2, 3, 4.5})
	require.NoError(t, err)
	encoded, err := compressBytes(CompressionZstd, DTypeFloat32, raw, "")
	require.NoError(t, err)
	decoded, err := decompressBytes(CompressionZstd, DTypeFloat32, encoded, "", nil)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestCompressDecompressRoundTrip_NumpressLinear(t *testing.T) {
	values := []float64{100.01, 100.02, 100.05, 105.3}
	raw, err := encodeTyped(DTypeFloat64, values)
	require.NoError(t, err)
	encoded, err := compressBytes(CompressionNumpressLinear, DTypeFloat64, raw, "")
	require.NoError(t, err)
	decoded, err := decompressBytes(CompressionNumpressLinear, DTypeFloat64, encoded, "", nil)
	require.NoError(t, err)
	recovered, err := decodeTypedAsFloat64(DTypeFloat64, decoded)
	require.NoError(t, err)
	for i := range values {
		assert.InDelta(t, values[i], recovered[i], 1e-3)
	}
}

func TestCompressRejectsIncompatibleDtype(t *testing.T) {
	raw, err := encodeTyped(DTypeFloat32, []float64{1, 2})
	require.NoError(t, err)
	_, err = compressBytes(CompressionNumpressLinear, DTypeFloat32, raw, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mzerr.ErrIncompatibleCompression))
}

func TestDictByteShuffleRoundTrip(t *testing.T) {
	raw, err := encodeTyped(DTypeFloat64, []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	encoded, err := compressBytes(CompressionDictByteShuffle, DTypeFloat64, raw, "dict-a")
	require.NoError(t, err)

	dicts := NewDictionaryTable()
	dicts.Define("dict-a", DTypeFloat64.Size())
	decoded, err := decompressBytes(CompressionDictByteShuffle, DTypeFloat64, encoded, "dict-a", dicts)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDictByteShuffleUnknownDictionary(t *testing.T) {
	raw, err := encodeTyped(DTypeFloat64, []float64{1, 2})
	require.NoError(t, err)
	encoded, err := compressBytes(CompressionDictByteShuffle, DTypeFloat64, raw, "dict-a")
	require.NoError(t, err)

	_, err = decompressBytes(CompressionDictByteShuffle, DTypeFloat64, encoded, "dict-a", NewDictionaryTable())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mzerr.ErrUnknownDictionary))
}

func TestBase64RoundTrip(t *testing.T) {
	raw := []byte{0, 1, 2, 255, 254, 10}
	text := EncodeBase64(raw)
	decoded, err := DecodeBase64(text)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodeBase64StripsWhitespace(t *testing.T) {
	raw := []byte("hello world")
	text := EncodeBase64(raw)
	wrapped := text[:len(text)/2] + "\n  " + text[len(text)/2:]
	decoded, err := DecodeBase64(wrapped)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}
