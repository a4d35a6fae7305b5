package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumpressLinearRoundTrip(t *testing.T) {
	data := []float64{100.001, 100.004, 100.009, 105.250, 110.999, 200.0}
	encoded := EncodeNumpressLinear(data, 0)
	decoded, err := DecodeNumpressLinear(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(data))
	for i := range data {
		assert.InDelta(t, data[i], decoded[i], 1e-4, "index %d", i)
	}
}

func TestNumpressLinearEmpty(t *testing.T) {
	encoded := EncodeNumpressLinear(nil, 0)
	decoded, err := DecodeNumpressLinear(encoded)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestNumpressLinearSingleValue(t *testing.T) {
	encoded := EncodeNumpressLinear([]float64{42.5}, 0)
	decoded, err := DecodeNumpressLinear(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.InDelta(t, 42.5, decoded[0], 1e-4)
}

func TestNumpressSlofRoundTrip(t *testing.T) {
	data := []float64{0, 10.5, 1000.0, 50000.75, 2.0}
	encoded := EncodeNumpressSlof(data, 0)
	decoded, err := DecodeNumpressSlof(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(data))
	for i := range data {
		// slof quantizes log-space, so tolerance scales with magnitude.
		assert.InDelta(t, data[i], decoded[i], data[i]*0.01+0.01, "index %d", i)
	}
}

func TestNumpressPicRoundTrip(t *testing.T) {
	data := []float64{1, 2, 3, 100, 99999, 0}
	encoded := EncodeNumpressPic(data)
	decoded, err := DecodeNumpressPic(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestNumpressLinearBufferTooShort(t *testing.T) {
	_, err := DecodeNumpressLinear([]byte{1, 2, 3})
	assert.Error(t, err)
}
