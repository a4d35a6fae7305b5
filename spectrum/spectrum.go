package spectrum

import "github.com/msspeclib/mzdata/binary"

// Polarity is a spectrum's ion-mode polarity.
type Polarity int

const (
	PolarityUnknown Polarity = iota
	PolarityPositive
	PolarityNegative
)

func (p Polarity) String() string {
	switch p {
	case PolarityPositive:
		return "positive"
	case PolarityNegative:
		return "negative"
	default:
		return "unknown"
	}
}

// Continuity is a spectrum's signal continuity: whether its intensity
// values represent a continuous profile trace or discrete picked peaks.
type Continuity int

const (
	ContinuityUnknown Continuity = iota
	ContinuityProfile
	ContinuityCentroid
)

func (c Continuity) String() string {
	switch c {
	case ContinuityProfile:
		return "profile"
	case ContinuityCentroid:
		return "centroid"
	default:
		return "unknown"
	}
}

// Spectrum is a single mass spectrum, per SPEC_FULL.md §3: an id unique
// within its source, a 0-based index equal to its position in the
// source's spectrum list, an MS level, polarity, signal continuity, a
// description (precursors/scans/params), and one or more peak-layer
// states. A spectrum carries any non-nil combination of RawArrays,
// Centroided, and Deconvoluted (the spec's "raw arrays only / centroid
// peak list / deconvoluted peak list / any combination" states) — the
// combination is represented directly as optional fields rather than as a
// closed sum type, since a MultiLayerSpectrum is simply one with more than
// one populated.
type Spectrum struct {
	ID          string
	Index       int
	MSLevel     int
	Polarity    Polarity
	Continuity  Continuity
	Description SpectrumDescription

	RawArrays    *binary.BinaryArrayMap
	Centroided   CentroidPeakList
	Deconvoluted DeconvolutedPeakList
}

// HasRawArrays reports whether the spectrum carries a raw (m/z/intensity,
// possibly profile) binary array layer.
func (s *Spectrum) HasRawArrays() bool { return s.RawArrays != nil }

// HasCentroided reports whether the spectrum carries a centroid peak list.
func (s *Spectrum) HasCentroided() bool { return len(s.Centroided) > 0 }

// HasDeconvoluted reports whether the spectrum carries a deconvoluted peak
// list.
func (s *Spectrum) HasDeconvoluted() bool { return len(s.Deconvoluted) > 0 }

// IsMultiLayer reports whether more than one peak-layer state is
// populated simultaneously.
func (s *Spectrum) IsMultiLayer() bool {
	count := 0
	if s.HasRawArrays() {
		count++
	}
	if s.HasCentroided() {
		count++
	}
	if s.HasDeconvoluted() {
		count++
	}
	return count > 1
}

// IsMS1 reports whether the spectrum is a precursor-scan (MS level 1)
// spectrum, i.e. carries no precursor description.
func (s *Spectrum) IsMS1() bool {
	return s.MSLevel <= 1 || len(s.Description.Precursors) == 0
}

// PrecursorSpectrumID returns the native id of the spectrum's first
// precursor's parent, and whether one exists — the reference a grouping
// iterator (SPEC_FULL.md §4.7) follows to assign an MSn spectrum to its
// parent MS1.
func (s *Spectrum) PrecursorSpectrumID() (string, bool) {
	p, ok := s.Description.FirstPrecursor()
	if !ok || p.ParentSpectrumID == "" {
		return "", false
	}
	return p.ParentSpectrumID, true
}
