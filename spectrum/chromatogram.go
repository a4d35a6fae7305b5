package spectrum

import "github.com/msspeclib/mzdata/binary"

// ChromatogramType is the closed set of chromatogram kinds named in
// SPEC_FULL.md §3 ("TIC, BPC, SIC, etc.").
type ChromatogramType int

const (
	ChromatogramUnknown ChromatogramType = iota
	ChromatogramTIC                        // total ion current
	ChromatogramBPC                        // base peak
	ChromatogramSIC                        // selected ion
)

func (t ChromatogramType) String() string {
	switch t {
	case ChromatogramTIC:
		return "TIC"
	case ChromatogramBPC:
		return "BPC"
	case ChromatogramSIC:
		return "SIC"
	default:
		return "unknown"
	}
}

// Chromatogram is symmetrical to Spectrum but time-axis-primary
// (SPEC_FULL.md §3): an id, index, chromatogram type, optional precursor
// (for an SIC), and a binary array map whose roles are RoleTime and
// RoleIntensity rather than RoleMZ and RoleIntensity.
type Chromatogram struct {
	ID        string
	Index     int
	Type      ChromatogramType
	Precursor *Precursor

	Arrays *binary.BinaryArrayMap
}

// HasPrecursor reports whether the chromatogram names a selected-ion
// precursor, as a selected-ion chromatogram does.
func (c *Chromatogram) HasPrecursor() bool { return c.Precursor != nil }
