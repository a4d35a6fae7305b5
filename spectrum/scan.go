package spectrum

import "github.com/msspeclib/mzdata/cv"

// ScanWindow is one [low, high] m/z acquisition window.
type ScanWindow struct {
	Low  float64
	High float64
}

// ScanDescription is one scan event within a spectrum's acquisition:
// start time, optional drift/inverse-reduced-ion-mobility, filter string,
// scan windows, and a reference to the instrument configuration used.
type ScanDescription struct {
	StartTime                 float64 // minutes
	HasStartTime               bool
	IonMobility                 float64
	HasIonMobility              bool
	FilterString                string
	ScanWindows                 []ScanWindow
	InstrumentConfigurationRef string
	Params                      cv.ParamList
}

// SpectrumDescription bundles a spectrum's precursor(s) and scan(s) plus
// any spectrum-level params (SPEC_FULL.md §3's "description").
type SpectrumDescription struct {
	Precursors []Precursor
	Scans      []ScanDescription
	Params     cv.ParamList
}

// FirstScan returns the description's first scan, and whether one exists.
func (d SpectrumDescription) FirstScan() (ScanDescription, bool) {
	if len(d.Scans) == 0 {
		return ScanDescription{}, false
	}
	return d.Scans[0], true
}

// FirstPrecursor returns the description's first precursor, and whether
// one exists. An MS1 spectrum has none.
func (d SpectrumDescription) FirstPrecursor() (Precursor, bool) {
	if len(d.Precursors) == 0 {
		return Precursor{}, false
	}
	return d.Precursors[0], true
}
