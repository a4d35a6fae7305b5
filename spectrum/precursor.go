// Package spectrum implements the spectrum/chromatogram data model
// (SPEC_FULL.md §3, §4 C3): precursor/activation descriptions, scan
// descriptions, the four peak-layer spectrum states, chromatograms, and
// ion-mobility frames.
package spectrum

import "github.com/msspeclib/mzdata/cv"

// SelectedIon is one precursor ion selected for fragmentation: target m/z,
// charge, and intensity are each optional per SPEC_FULL.md §3 ("each:
// target m/z, charge, intensity, params").
type SelectedIon struct {
	MZ           float64
	HasMZ        bool
	Charge       int
	HasCharge    bool
	Intensity    float64
	HasIntensity bool
	Params       cv.ParamList
}

// IsolationWindow bounds the precursor selection window around its target
// m/z.
type IsolationWindow struct {
	Target      float64
	LowerOffset float64
	UpperOffset float64
}

// Activation describes how a precursor was fragmented: a param bundle
// (e.g. the dissociation-method CV term) plus zero or more dissociation
// energies (stepped/multi-energy HCD reports more than one).
type Activation struct {
	Params               cv.ParamList
	DissociationEnergies []float64
}

// Precursor is one or more selected ions, an isolation window, an
// activation, and a reference to the parent spectrum's id.
type Precursor struct {
	SelectedIons       []SelectedIon
	IsolationWindow    IsolationWindow
	HasIsolationWindow bool
	Activation         Activation
	ParentSpectrumID   string
}
