package mzdata

import (
	"fmt"
	"io"

	"github.com/msspeclib/mzdata/binary"
	"github.com/msspeclib/mzdata/meta"
	"github.com/msspeclib/mzdata/mgf"
	"github.com/msspeclib/mzdata/mzml"
	"github.com/msspeclib/mzdata/spectrum"
)

// Writer is the top-level dispatching writer (SPEC_FULL.md §4.5): it
// wraps one of the mzML or MGF backend writers behind a single
// format-agnostic surface, so callers that don't care about the output
// format's specifics can share one code path.
type Writer struct {
	format Format
	mzmlW  *mzml.Writer
	mgfW   *mgf.Writer
}

// NewWriter opens a writer for the given format. MGF ignores cfg's
// per-role compression (it has no binary array layer) but honors
// CopyMetadataFrom-style provenance via WriteMetadata.
func NewWriter(w io.Writer, format Format, md meta.Metadata, cfg WriterConfig) (*Writer, error) {
	switch format {
	case FormatMzML:
		opts := []mzml.WriterOption{
			mzml.WithArrayEncoding(binary.DTypeFloat64, cfg.MZCompression),
			mzml.WithRoleCompression(binary.RoleIntensity, cfg.IntensityCompression),
			mzml.WithRoleCompression(binary.RoleCharge, cfg.IntegerCompression),
		}
		if cfg.SpectrumCountHint >= 0 {
			opts = append(opts, mzml.WithSpectrumCountHint(cfg.SpectrumCountHint))
		}
		mw, err := mzml.NewWriter(w, md, opts...)
		if err != nil {
			return nil, err
		}
		return &Writer{format: format, mzmlW: mw}, nil
	case FormatMGF:
		mw := mgf.NewWriter(w)
		return &Writer{format: format, mgfW: mw}, nil
	default:
		return nil, fmt.Errorf("mzdata: unsupported output format %s", format)
	}
}

// WriteMetadata forwards a "copy metadata from source" operation
// (SPEC_FULL.md §4.5) to the MGF backend, the only one that needs it
// called explicitly — the mzML backend writes its metadata header once,
// up front, from NewWriter's md argument.
func (w *Writer) WriteMetadata(md meta.Metadata, writerStep meta.ProcessingMethod) {
	if w.mgfW != nil {
		w.mgfW.CopyMetadataFrom(md, writerStep)
	}
}

// WriteSpectrum appends one spectrum in the backend's wire form.
func (w *Writer) WriteSpectrum(s *spectrum.Spectrum) error {
	if w.mzmlW != nil {
		return w.mzmlW.WriteSpectrum(s)
	}
	return w.mgfW.WriteSpectrum(s)
}

// WriteChromatogram appends one chromatogram. MGF has no chromatogram
// representation, so this is a no-op on that backend.
func (w *Writer) WriteChromatogram(c *spectrum.Chromatogram) error {
	if w.mzmlW != nil {
		return w.mzmlW.WriteChromatogram(c)
	}
	return nil
}

// Close finalizes the output (mzML: flush the offset-index trailer and
// checksum; MGF: flush the buffered writer).
func (w *Writer) Close() error {
	if w.mzmlW != nil {
		return w.mzmlW.Close()
	}
	return w.mgfW.Close()
}
