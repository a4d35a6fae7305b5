package mzdata

import (
	"context"
	"io"

	"github.com/msspeclib/mzdata/meta"
	"github.com/msspeclib/mzdata/spectrum"
)

// DetailLevel controls how much of a spectrum's binary payload a read
// materializes (SPEC_FULL.md §6 configuration surface). It mirrors the
// per-backend mzml.DetailLevel one level up so callers of the top-level
// package never need to import a format sub-package just to pick one.
type DetailLevel int

const (
	DetailMetadataOnly DetailLevel = iota
	DetailLazy
	DetailFull
)

func (d DetailLevel) String() string {
	switch d {
	case DetailMetadataOnly:
		return "metadata-only"
	case DetailFull:
		return "full"
	default:
		return "lazy"
	}
}

// SpectrumSource is the format-agnostic read contract every backend
// (mzML random-access, mzML/MGF streaming) satisfies (SPEC_FULL.md §4.7).
// It is the "Unknown" arm's boxed capability for the closed Format enum:
// a vendor backend this module doesn't implement can still be driven
// through mzdata.Reader by satisfying this interface.
type SpectrumSource interface {
	// Len returns the number of spectra known to the source, or -1 if
	// the count isn't known in advance (a forward-only stream).
	Len() int
	// SpectrumCountHint returns a declared-but-not-yet-verified count
	// (e.g. an mzML <spectrumList count="...">), or -1 if none was
	// declared.
	SpectrumCountHint() int
	// Next returns spectra in file order, io.EOF once exhausted.
	Next() (*spectrum.Spectrum, error)
	// GetSpectrumByIndex returns the spectrum at 0-based index i.
	GetSpectrumByIndex(i int) (*spectrum.Spectrum, error)
	// GetSpectrumByID returns the spectrum with native id id.
	GetSpectrumByID(id string) (*spectrum.Spectrum, error)
	// GetSpectrumByTime returns the spectrum with the largest
	// start_time <= t (SPEC_FULL.md §8 invariant 6); meaningful only
	// when the source's spectra are in non-decreasing start-time order.
	GetSpectrumByTime(t float64) (*spectrum.Spectrum, error)
	// Metadata returns the source's file-level metadata.
	Metadata() meta.Metadata
	// DetailLevel reports the detail level new reads are materialized
	// at.
	DetailLevel() DetailLevel
	// Close releases any resources the source holds open.
	Close() error
}

// Groups returns a GroupIterator over src (SPEC_FULL.md §4.7's
// "groups"), buffering spectra and assigning each MSn spectrum to the
// most recent MS1 its precursor reference resolves to.
func Groups(src SpectrumSource) *GroupIterator {
	return newGroupIterator(src)
}

// iterateAll drains src sequentially via Next, applying fn to each
// spectrum until EOF or fn returns a non-nil error (the context is
// checked once per spectrum so a long scan can be cancelled cooperatively
// per SPEC_FULL.md §5).
func iterateAll(ctx context.Context, src SpectrumSource, fn func(*spectrum.Spectrum) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := src.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
	}
}
