package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDTypeSize(t *testing.T) {
	cases := []struct {
		d    DType
		want int
	}{
		{DTypeFloat32, 4},
		{DTypeInt32, 4},
		{DTypeFloat64, 8},
		{DTypeInt64, 8},
		{DTypeASCII, 0},
		{DTypeUnknown, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.d.Size(), tc.d.String())
	}
}

func TestWidens(t *testing.T) {
	assert.True(t, widens(DTypeFloat32, DTypeFloat64))
	assert.True(t, widens(DTypeInt32, DTypeInt64))
	assert.True(t, widens(DTypeFloat64, DTypeFloat64))
	assert.False(t, widens(DTypeFloat64, DTypeFloat32))
	assert.False(t, widens(DTypeFloat64, DTypeInt64))
}

func TestDTypeValidate(t *testing.T) {
	assert.NoError(t, DTypeFloat64.validate())
	assert.Error(t, DTypeUnknown.validate())
}
