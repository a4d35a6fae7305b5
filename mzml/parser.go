package mzml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/msspeclib/mzdata/binary"
	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/meta"
	"github.com/msspeclib/mzdata/mzerr"
	"github.com/msspeclib/mzdata/spectrum"
)

// Decoder drives the push-based mzML state machine over a forward-only
// encoding/xml.Decoder.Token() stream (SPEC_FULL.md §4.3). Each container
// state in the nesting chain (Outer → FileDescription → SoftwareList →
// InstrumentConfigurationList → DataProcessingList → Run → SpectrumList →
// Spectrum → ...) is handled as it is reached; once Metadata has been
// folded in, NextSpectrum/NextChromatogram hand back one element at a
// time without buffering the rest of the document, so memory use stays
// bounded regardless of file size.
type Decoder struct {
	xmlDec *xml.Decoder
	detail DetailLevel
	dicts  *binary.DictionaryTable

	groups   *cv.GroupTable
	metadata meta.Metadata

	specIndex   int
	chromIndex  int
	inRun       bool
	inSpecList  bool
	inChromList bool
	done        bool
}

// NewDecoder returns a Decoder over r, reading with the given detail
// level (SPEC_FULL.md §4.3's per-call detail-level knob).
func NewDecoder(r io.Reader, detail DetailLevel) *Decoder {
	return &Decoder{
		xmlDec: xml.NewDecoder(r),
		detail: detail,
		dicts:  binary.NewDictionaryTable(),
		groups: cv.NewGroupTable(),
	}
}

// Metadata returns the document's metadata, scanning forward (and folding
// in any containers it passes) until metadata is complete — i.e. until
// <run> is reached, or the document closes without one. Safe to call
// repeatedly; subsequent calls return the cached result without
// re-scanning.
func (d *Decoder) Metadata() (meta.Metadata, error) {
	for !d.inRun && !d.done {
		if err := d.advance(); err != nil {
			return d.metadata, err
		}
	}
	return d.metadata, nil
}

// NextSpectrum returns the next spectrum in document order, or io.EOF
// once the spectrum list (and the rest of the document) is exhausted.
func (d *Decoder) NextSpectrum() (*spectrum.Spectrum, error) {
	for {
		if d.done {
			return nil, io.EOF
		}
		tok, err := d.xmlDec.Token()
		if err != nil {
			if err == io.EOF {
				d.done = true
				return nil, io.EOF
			}
			return nil, mzerr.Wrap(mzerr.ErrMalformedXML, "document", "", d.xmlDec.InputOffset(), err.Error())
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local == "spectrum" {
			n, err := decodeNode(d.xmlDec, start)
			if err != nil {
				return nil, err
			}
			s, err := buildSpectrum(n, d.groups, d.dicts, d.specIndex, d.detail)
			if err != nil {
				return nil, err
			}
			d.specIndex++
			return s, nil
		}
		if err := d.foldContainer(start); err != nil {
			return nil, err
		}
	}
}

// NextChromatogram is NextSpectrum's chromatogram-list analog.
func (d *Decoder) NextChromatogram() (*spectrum.Chromatogram, error) {
	for {
		if d.done {
			return nil, io.EOF
		}
		tok, err := d.xmlDec.Token()
		if err != nil {
			if err == io.EOF {
				d.done = true
				return nil, io.EOF
			}
			return nil, mzerr.Wrap(mzerr.ErrMalformedXML, "document", "", d.xmlDec.InputOffset(), err.Error())
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local == "chromatogram" {
			n, err := decodeNode(d.xmlDec, start)
			if err != nil {
				return nil, err
			}
			c, err := buildChromatogram(n, d.groups, d.dicts, d.chromIndex, d.detail)
			if err != nil {
				return nil, err
			}
			d.chromIndex++
			return c, nil
		}
		if err := d.foldContainer(start); err != nil {
			return nil, err
		}
	}
}

// advance reads and processes exactly one top-level token, used by
// Metadata()'s scan-until-<run> loop.
func (d *Decoder) advance() error {
	tok, err := d.xmlDec.Token()
	if err != nil {
		if err == io.EOF {
			d.done = true
			return nil
		}
		return mzerr.Wrap(mzerr.ErrMalformedXML, "document", "", d.xmlDec.InputOffset(), err.Error())
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return nil
	}
	return d.foldContainer(start)
}

// foldContainer dispatches one start element encountered at the document
// or run level: metadata containers are decoded and folded in;
// <referenceableParamGroupList> populates the group table other
// containers resolve against; <run> flips a flag so Metadata() knows to
// stop scanning.
func (d *Decoder) foldContainer(start xml.StartElement) error {
	switch start.Name.Local {
	case "referenceableParamGroupList":
		n, err := decodeNode(d.xmlDec, start)
		if err != nil {
			return err
		}
		d.groups = buildGroupTable(&node{name: "mzML", children: []*node{n}})
	case "fileDescription", "softwareList", "instrumentConfigurationList", "dataProcessingList", "sampleList":
		n, err := decodeNode(d.xmlDec, start)
		if err != nil {
			return err
		}
		d.foldMetadataNode(n)
	case "run":
		d.inRun = true
		d.metadata.Run = buildRun(&node{name: "run", attrs: newAttrMap(start)}, d.groups)
	case "spectrumList":
		d.inSpecList = true
		if hint, err := newAttrMap(start).int("spectrumList", "count", false); err == nil {
			d.metadata.Run.SpectrumCountHint = hint
		}
	case "chromatogramList":
		d.inChromList = true
	}
	return nil
}

func (d *Decoder) foldMetadataNode(n *node) {
	wrapper := &node{name: "mzML", children: []*node{n}}
	partial := buildMetadata(wrapper, d.groups)
	switch n.name {
	case "fileDescription":
		d.metadata.FileDescription = partial.FileDescription
	case "softwareList":
		d.metadata.SoftwareList = partial.SoftwareList
	case "instrumentConfigurationList":
		d.metadata.InstrumentConfigurations = partial.InstrumentConfigurations
	case "dataProcessingList":
		d.metadata.DataProcessingList = partial.DataProcessingList
	case "sampleList":
		d.metadata.Samples = partial.Samples
	}
}

// DefineDictionary registers a dict+byte-shuffle dictionary id's element
// width ahead of parsing, so arrays compressed with it can be decoded.
func (d *Decoder) DefineDictionary(id string, width int) { d.dicts.Define(id, width) }

// Document is a fully materialized mzML document: every spectrum read
// eagerly, alongside the file metadata. Used by ParseDocument for
// small/whole-file reads where random access or streaming iteration isn't
// needed. ParseDocument does not read chromatograms, so Chromatograms is
// left empty.
type Document struct {
	Metadata      meta.Metadata
	Spectra       []*spectrum.Spectrum
	Chromatograms []*spectrum.Chromatogram
}

// ParseDocument reads an entire mzML document from r at the given detail
// level.
func ParseDocument(r io.Reader, detail DetailLevel) (*Document, error) {
	dec := NewDecoder(r, detail)
	doc := &Document{}
	for {
		s, err := dec.NextSpectrum()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mzml: parsing spectrum %d: %w", dec.specIndex, err)
		}
		doc.Spectra = append(doc.Spectra, s)
	}
	doc.Metadata = dec.metadata

	// NextSpectrum passes over <chromatogram> elements without decoding
	// them, so doc.Chromatograms is left empty.
	return doc, nil
}
