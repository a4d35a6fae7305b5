package offsetindex

import (
	"errors"
	"testing"

	"github.com/msspeclib/mzdata/mzerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexAppendAndLookup(t *testing.T) {
	idx := New()
	idx.Append("scan=1", 100)
	idx.Append("scan=2", 250)
	idx.Append("scan=3", 400)

	assert.Equal(t, 3, idx.Len())

	off, err := idx.OffsetByID("scan=2")
	require.NoError(t, err)
	assert.Equal(t, int64(250), off)

	off, err = idx.OffsetByIndex(2)
	require.NoError(t, err)
	assert.Equal(t, int64(400), off)

	id, err := idx.IDByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "scan=1", id)

	pos, err := idx.IndexByID("scan=3")
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
}

func TestIndexNotFound(t *testing.T) {
	idx := New()
	idx.Append("scan=1", 0)

	_, err := idx.OffsetByID("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, mzerr.ErrIndexNotFound))

	_, err = idx.OffsetByIndex(5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mzerr.ErrIndexNotFound))
}

func TestIndexAppendOverwritesOffsetNotPosition(t *testing.T) {
	idx := New()
	idx.Append("scan=1", 100)
	idx.Append("scan=2", 200)
	idx.Append("scan=1", 150) // corrected offset, same native id

	assert.Equal(t, 2, idx.Len())
	off, err := idx.OffsetByID("scan=1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), off)

	id, err := idx.IDByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "scan=1", id)
}

func TestIndexRoundTripEntries(t *testing.T) {
	idx := New()
	idx.Append("scan=1", 10)
	idx.Append("scan=2", 20)

	rebuilt := FromEntries(idx.Entries())
	assert.Equal(t, idx.IDs(), rebuilt.IDs())
	off, err := rebuilt.OffsetByID("scan=2")
	require.NoError(t, err)
	assert.Equal(t, int64(20), off)
}

func TestIndexSortedByOffset(t *testing.T) {
	idx := New()
	idx.Append("scan=3", 300)
	idx.Append("scan=1", 100)
	idx.Append("scan=2", 200)

	sorted := idx.SortedByOffset()
	require.Len(t, sorted, 3)
	assert.Equal(t, "scan=1", sorted[0].NativeID)
	assert.Equal(t, "scan=2", sorted[1].NativeID)
	assert.Equal(t, "scan=3", sorted[2].NativeID)
}
