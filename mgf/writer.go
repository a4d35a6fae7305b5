package mgf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/msspeclib/mzdata/meta"
	"github.com/msspeclib/mzdata/spectrum"
)

// Writer streams MGF spectrum blocks. MS1 spectra are skipped silently
// (SPEC_FULL.md §4.5) since Mascot Generic Format has no representation
// for a precursor scan.
type Writer struct {
	w        *bufio.Writer
	metadata meta.Metadata
	wroteAny bool
}

// NewWriter wraps w for MGF output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// CopyMetadataFrom transfers a source document's metadata for preamble
// comment emission, appending one additional processing method
// identifying this writer (SPEC_FULL.md §4.5's "copy metadata from
// source" operation). MGF has no native metadata container, so the
// transferred metadata is emitted as a leading comment block — the
// closest MGF equivalent, and a common convention among MGF-writing
// tools.
func (w *Writer) CopyMetadataFrom(md meta.Metadata, writerStep meta.ProcessingMethod) {
	if len(md.DataProcessingList) > 0 {
		last := len(md.DataProcessingList) - 1
		md.DataProcessingList[last] = md.DataProcessingList[last].AppendProcessingMethod(writerStep)
	} else {
		md.DataProcessingList = []meta.DataProcessing{{ID: "mgf-export", Methods: []meta.ProcessingMethod{writerStep}}}
	}
	w.metadata = md
}

func (w *Writer) writePreambleOnce() error {
	if w.wroteAny {
		return nil
	}
	w.wroteAny = true
	for _, sf := range w.metadata.FileDescription.SourceFiles {
		if _, err := fmt.Fprintf(w.w, "# source: %s (%s)\n", sf.Name, sf.Location); err != nil {
			return err
		}
	}
	for _, sw := range w.metadata.SoftwareList {
		if _, err := fmt.Fprintf(w.w, "# software: %s %s\n", sw.ID, sw.Version); err != nil {
			return err
		}
	}
	for _, dp := range w.metadata.DataProcessingList {
		for _, m := range dp.Methods {
			if _, err := fmt.Fprintf(w.w, "# processing: %s step %d\n", dp.ID, m.Order); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSpectrum appends one spectrum block, silently skipping MS1
// spectra. A spectrum's TITLE is its native id; a charge is emitted in
// sign-suffix form ("2+", not "+2").
func (w *Writer) WriteSpectrum(s *spectrum.Spectrum) error {
	if err := w.writePreambleOnce(); err != nil {
		return err
	}
	if s.IsMS1() {
		return nil
	}

	if _, err := fmt.Fprint(w.w, "BEGIN IONS\n"); err != nil {
		return err
	}
	title := s.ID
	if title == "" {
		title = fmt.Sprintf("index=%d", s.Index)
	}
	if _, err := fmt.Fprintf(w.w, "TITLE=%s\n", title); err != nil {
		return err
	}

	if prec, ok := s.Description.FirstPrecursor(); ok && len(prec.SelectedIons) > 0 {
		ion := prec.SelectedIons[0]
		if ion.HasMZ {
			if ion.HasIntensity {
				if _, err := fmt.Fprintf(w.w, "PEPMASS=%g %g\n", ion.MZ, ion.Intensity); err != nil {
					return err
				}
			} else if _, err := fmt.Fprintf(w.w, "PEPMASS=%g\n", ion.MZ); err != nil {
				return err
			}
		}
		if ion.HasCharge {
			sign := "+"
			charge := ion.Charge
			if charge < 0 {
				sign, charge = "-", -charge
			}
			if _, err := fmt.Fprintf(w.w, "CHARGE=%d%s\n", charge, sign); err != nil {
				return err
			}
		}
	}

	if scan, ok := s.Description.FirstScan(); ok && scan.HasStartTime {
		if _, err := fmt.Fprintf(w.w, "RTINSECONDS=%g\n", scan.StartTime*60); err != nil {
			return err
		}
	}

	for _, peak := range s.Centroided {
		if _, err := fmt.Fprintf(w.w, "%g %g\n", peak.MZ, peak.Intensity); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w.w, "END IONS\n\n")
	return err
}

// Close flushes any buffered output.
func (w *Writer) Close() error { return w.w.Flush() }
