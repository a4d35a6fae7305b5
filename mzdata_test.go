package mzdata

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/msspeclib/mzdata/binary"
	"github.com/msspeclib/mzdata/meta"
	"github.com/msspeclib/mzdata/spectrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMGFDoc = `BEGIN IONS
TITLE=scan=1
PEPMASS=500.0
CHARGE=2+
100.0 10.0
END IONS
`

// TestWriterAppliesPerRoleCompression confirms WriterConfig's per-role
// compression fields actually reach the mzML backend: with
// IntensityCompression and IntegerCompression set to none and
// MZCompression to zlib, the intensity and charge arrays should carry a
// different compression cvParam than the m/z array.
func TestWriterAppliesPerRoleCompression(t *testing.T) {
	cfg := NewWriterConfig()
	cfg.MZCompression = binary.CompressionZlib
	cfg.IntensityCompression = binary.CompressionNone
	cfg.IntegerCompression = binary.CompressionNone

	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatMzML, meta.Metadata{}, cfg)
	require.NoError(t, err)

	mzArr, err := binary.NewDataArrayFromFloat64(binary.RoleMZ, binary.DTypeFloat64, binary.CompressionZlib, []float64{1, 2, 3})
	require.NoError(t, err)
	intArr, err := binary.NewDataArrayFromFloat64(binary.RoleIntensity, binary.DTypeFloat64, binary.CompressionZlib, []float64{4, 5, 6})
	require.NoError(t, err)
	chargeArr, err := binary.NewDataArrayFromFloat64(binary.RoleCharge, binary.DTypeInt32, binary.CompressionZlib, []float64{1, 2, 2})
	require.NoError(t, err)

	s := &spectrum.Spectrum{ID: "s0", Index: 0, MSLevel: 1, RawArrays: binary.NewBinaryArrayMap(mzArr, intArr, chargeArr)}
	require.NoError(t, w.WriteSpectrum(s))
	require.NoError(t, w.Close())

	doc := buf.String()
	assert.Equal(t, 1, strings.Count(doc, `accession="MS:1000574"`), "exactly one array (m/z) should declare zlib compression")
	assert.Equal(t, 2, strings.Count(doc, `accession="MS:1000576"`), "intensity and charge arrays should both declare no compression")
}

func TestInferFormatRecognizesMGF(t *testing.T) {
	rs := bytes.NewReader([]byte(sampleMGFDoc))
	format, gzipped, err := InferFormat(rs)
	require.NoError(t, err)
	assert.Equal(t, FormatMGF, format)
	assert.False(t, gzipped)
}

func TestInferFormatRecognizesGzippedMzML(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`<?xml version="1.0"?><indexedmzML><mzML></mzML></indexedmzML>`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	rs := bytes.NewReader(buf.Bytes())
	format, gzipped, err := InferFormat(rs)
	require.NoError(t, err)
	assert.Equal(t, FormatMzML, format)
	assert.True(t, gzipped)
}

// TestStreamReaderOverMGFPipe covers SPEC_FULL.md §8 S3's spirit: driving
// a non-seekable pipe through OpenStreamReader and confirming sequential
// iteration still yields the expected spectra.
func TestStreamReaderOverMGFPipe(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		io.Copy(pw, strings.NewReader(sampleMGFDoc))
		pw.Close()
	}()

	r, err := OpenStreamReader(pr, NewReaderConfig())
	require.NoError(t, err)
	assert.Equal(t, FormatMGF, r.Format)

	s, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "scan=1", s.ID)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func newSequentialTestFeed(n int) func() (*spectrum.Spectrum, error) {
	i := 0
	return func() (*spectrum.Spectrum, error) {
		if i >= n {
			return nil, io.EOF
		}
		s := &spectrum.Spectrum{ID: fmt.Sprintf("spec-%d", i), Index: i, MSLevel: 1}
		i++
		return s, nil
	}
}

// TestStreamingSourceOutOfOrderIndexPanics covers SPEC_FULL.md §10
// decided open question (i): revisiting an already-consumed position
// panics with *ReversedStreamError rather than returning a silent miss.
func TestStreamingSourceOutOfOrderIndexPanics(t *testing.T) {
	src := NewStreamingSource(newSequentialTestFeed(5), meta.Metadata{}, -1, DetailLazy, nil)

	s, err := src.GetSpectrumByIndex(2)
	require.NoError(t, err)
	assert.Equal(t, "spec-2", s.ID)

	assert.Panics(t, func() { src.GetSpectrumByIndex(0) })
}

// TestGroupIteratorAssignsMSnToMostRecentMS1 covers SPEC_FULL.md §8
// invariant 5.
func TestGroupIteratorAssignsMSnToMostRecentMS1(t *testing.T) {
	spectra := []*spectrum.Spectrum{
		{ID: "ms1-1", Index: 0, MSLevel: 1},
		{ID: "ms2-1", Index: 1, MSLevel: 2, Description: spectrum.SpectrumDescription{
			Precursors: []spectrum.Precursor{{ParentSpectrumID: "ms1-1"}},
		}},
		{ID: "ms2-2", Index: 2, MSLevel: 2, Description: spectrum.SpectrumDescription{
			Precursors: []spectrum.Precursor{{ParentSpectrumID: "ms1-1"}},
		}},
		{ID: "ms1-2", Index: 3, MSLevel: 1},
		{ID: "ms2-3", Index: 4, MSLevel: 2, Description: spectrum.SpectrumDescription{
			Precursors: []spectrum.Precursor{{ParentSpectrumID: "ms1-2"}},
		}},
	}
	src := &sliceSource{spectra: spectra}
	g := Groups(src)

	grp1, err := g.Next()
	require.NoError(t, err)
	require.NotNil(t, grp1.Precursor)
	assert.Equal(t, "ms1-1", grp1.Precursor.ID)
	require.Len(t, grp1.Products, 2)
	assert.Equal(t, "ms2-1", grp1.Products[0].ID)
	assert.Equal(t, "ms2-2", grp1.Products[1].ID)

	grp2, err := g.Next()
	require.NoError(t, err)
	require.NotNil(t, grp2.Precursor)
	assert.Equal(t, "ms1-2", grp2.Precursor.ID)
	require.Len(t, grp2.Products, 1)

	_, err = g.Next()
	assert.Equal(t, io.EOF, err)
}

// TestChainedSourceRenumbersIndices covers ChainedSource's re-numbering
// (SPEC_FULL.md §11).
func TestChainedSourceRenumbersIndices(t *testing.T) {
	a := &sliceSource{spectra: []*spectrum.Spectrum{{ID: "a0", Index: 0}, {ID: "a1", Index: 1}}}
	b := &sliceSource{spectra: []*spectrum.Spectrum{{ID: "b0", Index: 0}}}
	chained := NewChainedSource(a, b)

	assert.Equal(t, 3, chained.Len())

	var ids []string
	for {
		s, err := chained.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a0", "a1", "b0"}, ids)

	s, err := chained.GetSpectrumByIndex(2)
	require.NoError(t, err)
	assert.Equal(t, "b0", s.ID)
	assert.Equal(t, 2, s.Index)
}

// sliceSource is a minimal in-memory SpectrumSource used only by this
// package's own tests to exercise GroupIterator/ChainedSource without a
// real mzML/MGF backend.
type sliceSource struct {
	spectra []*spectrum.Spectrum
	cur     int
}

func (s *sliceSource) Len() int                { return len(s.spectra) }
func (s *sliceSource) SpectrumCountHint() int  { return len(s.spectra) }
func (s *sliceSource) Metadata() meta.Metadata { return meta.Metadata{} }
func (s *sliceSource) DetailLevel() DetailLevel { return DetailFull }
func (s *sliceSource) Close() error             { return nil }

func (s *sliceSource) Next() (*spectrum.Spectrum, error) {
	if s.cur >= len(s.spectra) {
		return nil, io.EOF
	}
	sp := s.spectra[s.cur]
	s.cur++
	return sp, nil
}

func (s *sliceSource) GetSpectrumByIndex(i int) (*spectrum.Spectrum, error) {
	if i < 0 || i >= len(s.spectra) {
		return nil, ErrIndexNotFound
	}
	return s.spectra[i], nil
}

func (s *sliceSource) GetSpectrumByID(id string) (*spectrum.Spectrum, error) {
	for _, sp := range s.spectra {
		if sp.ID == id {
			return sp, nil
		}
	}
	return nil, ErrIndexNotFound
}

func (s *sliceSource) GetSpectrumByTime(t float64) (*spectrum.Spectrum, error) {
	return nil, ErrIndexNotFound
}
