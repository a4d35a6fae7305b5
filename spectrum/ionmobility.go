package spectrum

import "github.com/msspeclib/mzdata/binary"

// IonMobilityFrame is the supplemented ion-mobility acquisition unit
// (SPEC_FULL.md §11): a stack of scans at a shared MS level and
// precursor context, each carrying its own 2-D binary array map, plus a
// shared ion-mobility axis. It generalizes Spectrum the way
// BinaryArrayMap3D generalizes BinaryArrayMap.
type IonMobilityFrame struct {
	ID          string
	Index       int
	MSLevel     int
	Polarity    Polarity
	Description SpectrumDescription

	Frame           *binary.BinaryArrayMap3D
	IonMobilityAxis []float64
}

// NumScans returns the number of stacked scans in the frame.
func (f *IonMobilityFrame) NumScans() int {
	if f.Frame == nil {
		return 0
	}
	return f.Frame.NumScans()
}

// IsMS1 reports whether the frame is a precursor-scan frame.
func (f *IonMobilityFrame) IsMS1() bool {
	return f.MSLevel <= 1 || len(f.Description.Precursors) == 0
}
