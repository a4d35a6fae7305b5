package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArray(t *testing.T, role Role, values []float64) *DataArray {
	t.Helper()
	arr, err := NewDataArrayFromFloat64(role, DTypeFloat64, CompressionNone, values)
	require.NoError(t, err)
	return arr
}

func TestBinaryArrayMapGet(t *testing.T) {
	mz := newTestArray(t, RoleMZ, []float64{100, 200, 300})
	intensity := newTestArray(t, RoleIntensity, []float64{10, 20, 30})
	m := NewBinaryArrayMap(mz, intensity)

	assert.Same(t, mz, m.Get(RoleMZ))
	assert.Same(t, intensity, m.Get(RoleIntensity))
	assert.Nil(t, m.Get(RoleCharge))
	assert.NoError(t, m.CheckLengths())
	assert.Equal(t, 3, m.Len())
}

func TestBinaryArrayMapCheckLengthsMismatch(t *testing.T) {
	mz := newTestArray(t, RoleMZ, []float64{1, 2, 3})
	intensity := newTestArray(t, RoleIntensity, []float64{1, 2})
	m := NewBinaryArrayMap(mz, intensity)
	assert.Error(t, m.CheckLengths())
}

func TestStackUnstackRoundTrip(t *testing.T) {
	scan1 := NewBinaryArrayMap(newTestArray(t, RoleMZ, []float64{100, 101}), newTestArray(t, RoleIntensity, []float64{5, 6}))
	scan2 := NewBinaryArrayMap(newTestArray(t, RoleMZ, []float64{200, 201, 202}), newTestArray(t, RoleIntensity, []float64{7, 8, 9}))
	frame := NewBinaryArrayMap3D(scan1, scan2)

	mz, intensity, bounds, err := Stack(frame, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101, 200, 201, 202}, mz)
	assert.Equal(t, []float64{5, 6, 7, 8, 9}, intensity)
	assert.Equal(t, []int{0, 2, 5}, bounds)

	rebuilt, err := Unstack(mz, intensity, bounds, DTypeFloat64, CompressionNone)
	require.NoError(t, err)
	require.Equal(t, 2, rebuilt.NumScans())

	rebuiltMZ, err := rebuilt.Scan(0).Get(RoleMZ).Float64(nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101}, rebuiltMZ)

	rebuiltMZ2, err := rebuilt.Scan(1).Get(RoleMZ).Float64(nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{200, 201, 202}, rebuiltMZ2)
}

func TestStackRequiresBothRoles(t *testing.T) {
	scan := NewBinaryArrayMap(newTestArray(t, RoleMZ, []float64{1, 2}))
	frame := NewBinaryArrayMap3D(scan)
	_, _, _, err := Stack(frame, nil)
	assert.Error(t, err)
}
