package mgf

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/msspeclib/mzdata/spectrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMGF = `COM=generated by test
BEGIN IONS
TITLE=sample.1.1.2
PEPMASS=500.25 12345.0
CHARGE=2+
RTINSECONDS=123.4
SCANS=1
100.1 10.0
200.2 20.0
300.3 30.0
END IONS

BEGIN IONS
TITLE=sample.2.1.3
PEPMASS=600.5
CHARGE=+3
150.0 5.0
END IONS
`

func TestDecoderParsesSpectrumBlocks(t *testing.T) {
	dec := NewDecoder(strings.NewReader(sampleMGF))

	s1, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "sample.1.1.2", s1.ID)
	assert.Equal(t, 2, s1.MSLevel)
	assert.Equal(t, spectrum.ContinuityCentroid, s1.Continuity)
	require.Len(t, s1.Centroided, 3)
	assert.Equal(t, spectrum.CentroidPeak{MZ: 100.1, Intensity: 10.0}, s1.Centroided[0])

	prec, ok := s1.Description.FirstPrecursor()
	require.True(t, ok)
	require.Len(t, prec.SelectedIons, 1)
	assert.InDelta(t, 500.25, prec.SelectedIons[0].MZ, 1e-9)
	assert.InDelta(t, 12345.0, prec.SelectedIons[0].Intensity, 1e-9)
	assert.Equal(t, 2, prec.SelectedIons[0].Charge)

	scan, ok := s1.Description.FirstScan()
	require.True(t, ok)
	assert.InDelta(t, 123.4/60, scan.StartTime, 1e-9)

	s2, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "sample.2.1.3", s2.ID)
	prec2, ok := s2.Description.FirstPrecursor()
	require.True(t, ok)
	assert.Equal(t, 3, prec2.SelectedIons[0].Charge)

	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)

	preamble := dec.Preamble()
	require.Len(t, preamble, 1)
	assert.Equal(t, "com", preamble[0].Name)
}

// TestChargeSignPositions covers SPEC_FULL.md §8 S4: CHARGE=2+ and
// CHARGE=+2 both parse to +2; CHARGE=2- parses to -2.
func TestChargeSignPositions(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"2+", 2},
		{"+2", 2},
		{"2-", -2},
		{"-2", -2},
	}
	for _, c := range cases {
		got, ok := parseCharge(c.raw)
		require.True(t, ok, c.raw)
		assert.Equal(t, c.want, got, c.raw)
	}
}

func TestTrailingBlankLinesYieldNoPhantomSpectrum(t *testing.T) {
	input := sampleMGF + "\n\n\n"
	dec := NewDecoder(strings.NewReader(input))
	count := 0
	for {
		_, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestWriterSkipsMS1AndEmitsSignSuffixCharge(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	ms1 := &spectrum.Spectrum{ID: "ms1-scan", MSLevel: 1}
	require.NoError(t, w.WriteSpectrum(ms1))

	ms2 := &spectrum.Spectrum{
		ID:      "ms2-scan",
		MSLevel: 2,
		Description: spectrum.SpectrumDescription{
			Precursors: []spectrum.Precursor{{
				SelectedIons: []spectrum.SelectedIon{{MZ: 450.2, HasMZ: true, Charge: -2, HasCharge: true}},
			}},
		},
		Centroided: spectrum.CentroidPeakList{{MZ: 1.0, Intensity: 2.0}},
	}
	require.NoError(t, w.WriteSpectrum(ms2))
	require.NoError(t, w.Close())

	out := buf.String()
	assert.NotContains(t, out, "ms1-scan")
	assert.Contains(t, out, "TITLE=ms2-scan")
	assert.Contains(t, out, "CHARGE=2-")
	assert.Contains(t, out, "1 2")
}

func TestWriterThenDecoderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	original := &spectrum.Spectrum{
		ID:      "",
		Index:   7,
		MSLevel: 2,
		Description: spectrum.SpectrumDescription{
			Precursors: []spectrum.Precursor{{SelectedIons: []spectrum.SelectedIon{{MZ: 321.1, HasMZ: true, Charge: 1, HasCharge: true}}}},
		},
		Centroided: spectrum.CentroidPeakList{{MZ: 10, Intensity: 1}, {MZ: 20, Intensity: 2}},
	}
	require.NoError(t, w.WriteSpectrum(original))
	require.NoError(t, w.Close())

	dec := NewDecoder(strings.NewReader(buf.String()))
	got, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "index=7", got.ID) // synthesized since the source had no native id
	require.Len(t, got.Centroided, 2)
}
