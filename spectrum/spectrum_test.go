package spectrum

import (
	"testing"

	"github.com/msspeclib/mzdata/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectrumLayerFlags(t *testing.T) {
	s := &Spectrum{ID: "scan=1", Index: 0, MSLevel: 1}
	assert.False(t, s.HasRawArrays())
	assert.False(t, s.HasCentroided())
	assert.False(t, s.HasDeconvoluted())
	assert.False(t, s.IsMultiLayer())
	assert.True(t, s.IsMS1())

	mzArr, err := binary.NewDataArrayFromFloat64(binary.RoleMZ, binary.DTypeFloat64, binary.CompressionNone, []float64{1, 2, 3})
	require.NoError(t, err)
	intArr, err := binary.NewDataArrayFromFloat64(binary.RoleIntensity, binary.DTypeFloat64, binary.CompressionNone, []float64{4, 5, 6})
	require.NoError(t, err)
	s.RawArrays = binary.NewBinaryArrayMap(mzArr, intArr)
	s.Centroided = CentroidPeakList{{MZ: 100, Intensity: 10}}
	assert.True(t, s.HasRawArrays())
	assert.True(t, s.HasCentroided())
	assert.True(t, s.IsMultiLayer())
}

func TestSpectrumIsMS1(t *testing.T) {
	ms2 := &Spectrum{
		MSLevel: 2,
		Description: SpectrumDescription{
			Precursors: []Precursor{{ParentSpectrumID: "scan=1"}},
		},
	}
	assert.False(t, ms2.IsMS1())

	id, ok := ms2.PrecursorSpectrumID()
	require.True(t, ok)
	assert.Equal(t, "scan=1", id)
}

func TestSpectrumPrecursorSpectrumIDAbsent(t *testing.T) {
	s := &Spectrum{MSLevel: 1}
	_, ok := s.PrecursorSpectrumID()
	assert.False(t, ok)
}

func TestChromatogramType(t *testing.T) {
	c := &Chromatogram{ID: "TIC", Type: ChromatogramTIC}
	assert.Equal(t, "TIC", c.Type.String())
	assert.False(t, c.HasPrecursor())

	c.Precursor = &Precursor{ParentSpectrumID: "scan=5"}
	assert.True(t, c.HasPrecursor())
}

func TestIonMobilityFrameNumScans(t *testing.T) {
	scan1 := binary.NewBinaryArrayMap()
	scan2 := binary.NewBinaryArrayMap()
	f := &IonMobilityFrame{
		MSLevel: 1,
		Frame:   binary.NewBinaryArrayMap3D(scan1, scan2),
	}
	assert.Equal(t, 2, f.NumScans())
	assert.True(t, f.IsMS1())
}

func TestSpectrumDescriptionFirstAccessors(t *testing.T) {
	d := SpectrumDescription{}
	_, ok := d.FirstScan()
	assert.False(t, ok)
	_, ok = d.FirstPrecursor()
	assert.False(t, ok)

	d.Scans = []ScanDescription{{StartTime: 1.5, HasStartTime: true}}
	d.Precursors = []Precursor{{ParentSpectrumID: "x"}}
	scan, ok := d.FirstScan()
	require.True(t, ok)
	assert.Equal(t, 1.5, scan.StartTime)
	prec, ok := d.FirstPrecursor()
	require.True(t, ok)
	assert.Equal(t, "x", prec.ParentSpectrumID)
}
