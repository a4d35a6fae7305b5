package mzml

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/msspeclib/mzdata/binary"
	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/meta"
	"github.com/msspeclib/mzdata/mzerr"
	"github.com/msspeclib/mzdata/spectrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetadata() meta.Metadata {
	return meta.Metadata{
		FileDescription: meta.FileDescription{
			FileContent: cv.ParamList{cv.NewCVParam("MS1 spectrum", cv.CURIE{Vocabulary: cv.VocabMS, Accession: 1000579}, cv.NewString(""))},
			SourceFiles: []meta.SourceFile{{ID: "sf1", Name: "input.raw", Location: "file:///input.raw"}},
		},
		SoftwareList: []meta.Software{{ID: "sw1", Version: "1.0"}},
		Run:          meta.Run{ID: "run1", DefaultInstrumentRef: "IC1"},
	}
}

func sampleSpectrum(id string, index int, mz, intensity []float64) *spectrum.Spectrum {
	mzArr, err := binary.NewDataArrayFromFloat64(binary.RoleMZ, binary.DTypeFloat64, binary.CompressionZlib, mz)
	if err != nil {
		panic(err)
	}
	intArr, err := binary.NewDataArrayFromFloat64(binary.RoleIntensity, binary.DTypeFloat64, binary.CompressionZlib, intensity)
	if err != nil {
		panic(err)
	}
	arrays := binary.NewBinaryArrayMap(mzArr, intArr)
	return &spectrum.Spectrum{
		ID:         id,
		Index:      index,
		MSLevel:    1,
		Polarity:   spectrum.PolarityPositive,
		Continuity: spectrum.ContinuityCentroid,
		Description: spectrum.SpectrumDescription{
			Scans: []spectrum.ScanDescription{{StartTime: float64(index), HasStartTime: true}},
		},
		RawArrays: arrays,
	}
}

func writeSyntheticDocument(t *testing.T, n int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, sampleMetadata(), WithSpectrumCountHint(n))
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		s := sampleSpectrum("scan="+string(rune('a'+i)), i, []float64{100 + float64(i), 200, 300}, []float64{10, 20, 30})
		require.NoError(t, w.WriteSpectrum(s))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestWriterThenSequentialDecoder(t *testing.T) {
	data := writeSyntheticDocument(t, 3)

	dec := NewDecoder(bytes.NewReader(data), DetailFull)
	var got []*spectrum.Spectrum
	for {
		s, err := dec.NextSpectrum()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, s)
	}
	require.Len(t, got, 3)
	assert.Equal(t, "scan=a", got[0].ID)
	assert.True(t, got[0].HasRawArrays())
	mzValues, err := got[0].RawArrays.Get(binary.RoleMZ).Float64(nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{100, 200, 300}, mzValues, 1e-9)
}

// TestWriterDictByteShuffleRoundTripWithSharedDictionary exercises the
// dict+byte-shuffle scheme end to end: the writer registers a dictionary
// id/width up front (WithDictionary), emits a dictionaryRef attribute
// naming it on every array it applies to, and a decoder that has learned
// the same id/width ahead of time (DefineDictionary — the out-of-band
// distribution SPEC_FULL.md §4.2's "dictionary id ... resolvable at
// decode time" calls for, e.g. via binary.LoadDictionaryTable) decodes it
// back correctly. A decoder that never learns the dictionary's width
// fails with ErrUnknownDictionary instead.
func TestWriterDictByteShuffleRoundTripWithSharedDictionary(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, sampleMetadata(),
		WithArrayEncoding(binary.DTypeFloat64, binary.CompressionDictByteShuffle),
		WithDictionary("dict-1", 8))
	require.NoError(t, err)
	s := sampleSpectrum("scan=a", 0, []float64{100, 200, 300}, []float64{10, 20, 30})
	require.NoError(t, w.WriteSpectrum(s))
	require.NoError(t, w.Close())

	dec := NewDecoder(bytes.NewReader(buf.Bytes()), DetailFull)
	dec.DefineDictionary("dict-1", 8)
	got, err := dec.NextSpectrum()
	require.NoError(t, err)
	mzValues, err := got.RawArrays.Get(binary.RoleMZ).Float64(dec.dicts)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{100, 200, 300}, mzValues, 1e-9)
}

// TestWriterReusesDictionaryAcrossSpectra confirms a single WithDictionary
// registration is shared by every array the writer auto-encodes, rather
// than minting a fresh dictionary id per array: both spectra's m/z arrays
// must carry the same dictionaryRef.
func TestWriterReusesDictionaryAcrossSpectra(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, sampleMetadata(),
		WithArrayEncoding(binary.DTypeFloat64, binary.CompressionDictByteShuffle),
		WithDictionary("shared-dict", 8))
	require.NoError(t, err)
	require.NoError(t, w.WriteSpectrum(sampleSpectrum("scan=a", 0, []float64{100, 200}, []float64{1, 2})))
	require.NoError(t, w.WriteSpectrum(sampleSpectrum("scan=b", 1, []float64{300, 400}, []float64{3, 4})))
	require.NoError(t, w.Close())

	refs := bytes.Count(buf.Bytes(), []byte(`dictionaryRef="shared-dict"`))
	assert.Equal(t, 4, refs, "both spectra's m/z and intensity arrays should reference the same shared dictionary")
}

// TestWriterEscapesXMLSpecialCharactersInAttributes covers metadata
// strings containing characters that are significant in XML attribute
// values (&, <, ", \): the writer must escape them so the document it
// produces is valid XML that its own Decoder can parse back unchanged,
// rather than emitting Go string-quoted text that breaks the parse.
func TestWriterEscapesXMLSpecialCharactersInAttributes(t *testing.T) {
	md := meta.Metadata{
		FileDescription: meta.FileDescription{
			SourceFiles: []meta.SourceFile{{
				ID:       "sf1",
				Name:     `a & b < c "quoted"`,
				Location: `file:///C:\data?x=1&y=2`,
			}},
		},
		SoftwareList: []meta.Software{{ID: "sw1", Version: "1.0"}},
		Run:          meta.Run{ID: "run1"},
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, md)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	dec := NewDecoder(bytes.NewReader(buf.Bytes()), DetailFull)
	got, err := dec.Metadata()
	require.NoError(t, err)
	require.Len(t, got.FileDescription.SourceFiles, 1)
	assert.Equal(t, md.FileDescription.SourceFiles[0].Name, got.FileDescription.SourceFiles[0].Name)
	assert.Equal(t, md.FileDescription.SourceFiles[0].Location, got.FileDescription.SourceFiles[0].Location)
}

func TestReaderRandomAccessViaTrailer(t *testing.T) {
	data := writeSyntheticDocument(t, 10)

	r, err := OpenReader(bytes.NewReader(data), DetailFull)
	require.NoError(t, err)
	assert.False(t, r.UsedFallbackIndex(), "a freshly written file should carry a parseable trailer index")
	assert.Equal(t, 10, r.Len())

	s, err := r.GetSpectrumByIndex(5)
	require.NoError(t, err)
	assert.Equal(t, "scan=f", s.ID)
	assert.Equal(t, 5, s.Index)

	byID, err := r.GetSpectrumByID("scan=a")
	require.NoError(t, err)
	assert.Equal(t, 0, byID.Index)

	_, err = r.GetSpectrumByIndex(999)
	assert.Error(t, err)
}

func TestReaderGetSpectrumByTime(t *testing.T) {
	data := writeSyntheticDocument(t, 5)
	r, err := OpenReader(bytes.NewReader(data), DetailLazy)
	require.NoError(t, err)

	s, err := r.GetSpectrumByTime(2.5)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Index) // times are 0,1,2,3,4; largest <= 2.5 is index 2

	_, err = r.GetSpectrumByTime(-1)
	assert.ErrorIs(t, err, mzerr.ErrIndexNotFound)
}

func TestReaderFallsBackToLinearScanWithoutTrailer(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(`<mzML version="1.1.0"><run id="r"><spectrumList count="2">`)
	buf.WriteString(`<spectrum index="0" id="s0" defaultArrayLength="0"></spectrum>`)
	buf.WriteString(`<spectrum index="1" id="s1" defaultArrayLength="0"></spectrum>`)
	buf.WriteString(`</spectrumList></run></mzML>`)

	r, err := OpenReader(bytes.NewReader(buf.Bytes()), DetailMetadataOnly)
	require.NoError(t, err)
	assert.True(t, r.UsedFallbackIndex())
	assert.Equal(t, 2, r.Len())

	s, err := r.GetSpectrumByID("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
}

func TestChecksumReaderMatchesIndependentDigest(t *testing.T) {
	data := writeSyntheticDocument(t, 2)
	cr := NewChecksumReader(bytes.NewReader(data))
	_, err := io.Copy(io.Discard, cr)
	require.NoError(t, err)
	assert.Len(t, cr.SHA1Hex(), 40)
	assert.Len(t, cr.MD5Hex(), 32)
}

func TestWriterIndexListOffsetPointsAtIndexList(t *testing.T) {
	data := writeSyntheticDocument(t, 4)
	pos := bytes.Index(data, []byte("<indexList "))
	require.GreaterOrEqual(t, pos, 0)

	offTagPos := bytes.Index(data, []byte("<indexListOffset>"))
	require.GreaterOrEqual(t, offTagPos, 0)
	endPos := bytes.Index(data[offTagPos:], []byte("</indexListOffset>"))
	require.GreaterOrEqual(t, endPos, 0)
	text := string(data[offTagPos+len("<indexListOffset>") : offTagPos+endPos])

	reportedOffset, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(pos), reportedOffset)
}
