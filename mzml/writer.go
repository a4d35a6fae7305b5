package mzml

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"hash"
	"io"
	"strconv"

	"github.com/msspeclib/mzdata/binary"
	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/meta"
	"github.com/msspeclib/mzdata/offsetindex"
	"github.com/msspeclib/mzdata/spectrum"
)

// countingHashWriter tracks the absolute byte offset of everything written
// through it and feeds every byte through a SHA-1 digest, so the writer
// can report <indexListOffset> byte-exact and derive <fileChecksum> as a
// running hash over everything written up to and including its own
// opening tag (SPEC_FULL.md §4.3/§4.5).
type countingHashWriter struct {
	w      *bufio.Writer
	offset int64
	sha1   hash.Hash
}

func newCountingHashWriter(w io.Writer) *countingHashWriter {
	return &countingHashWriter{w: bufio.NewWriter(w), sha1: sha1.New()}
}

func (c *countingHashWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.offset += int64(n)
	c.sha1.Write(p[:n])
	return n, err
}

func (c *countingHashWriter) writeString(s string) error {
	_, err := c.Write([]byte(s))
	return err
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithArrayEncoding sets the dtype/compression a Writer re-encodes every
// array to on output, overriding whatever the source array already used.
func WithArrayEncoding(dtype binary.DType, compression binary.Compression) WriterOption {
	return func(w *Writer) { w.dtype, w.compression = dtype, compression }
}

// WithDictionary registers a dict+byte-shuffle dictionary id's element
// width with the writer and makes it the dictionary every subsequent
// auto-encoded array reuses, so a document with many dict+byte-shuffle
// arrays shares one id instead of minting a fresh one per array.
func WithDictionary(id string, width int) WriterOption {
	return func(w *Writer) {
		w.dicts.Define(id, width)
		w.defaultDictID = id
	}
}

// WithRoleCompression overrides the compression scheme used for every
// array of the given role, independent of the default WithArrayEncoding
// set for every other role: m/z and intensity arrays commonly want a
// different scheme than charge/integer arrays.
func WithRoleCompression(role binary.Role, compression binary.Compression) WriterOption {
	return func(w *Writer) {
		if w.roleCompression == nil {
			w.roleCompression = make(map[binary.Role]binary.Compression)
		}
		w.roleCompression[role] = compression
	}
}

// WithSpectrumCountHint sets the declared <spectrumList count="..."> value
// emitted before any spectra are written, letting a caller that knows its
// total up front avoid the two-pass problem entirely.
func WithSpectrumCountHint(n int) WriterOption {
	return func(w *Writer) { w.spectrumCountHint = n }
}

// Writer streams an indexedmzML document: spectra and chromatograms are
// written as they are produced (no buffering beyond the one element being
// serialized at a time), with the spectrum/chromatogram offset index
// accumulated in memory and flushed as the <indexList> trailer on Close.
// Grounded on SPEC_FULL.md §4.5's "two-pass emission is avoided by
// buffering spectra offsets as they are written" requirement.
type Writer struct {
	out             *countingHashWriter
	dtype           binary.DType
	compression     binary.Compression
	roleCompression map[binary.Role]binary.Compression
	dicts           *binary.DictionaryTable
	defaultDictID   string

	spectrumCountHint int
	specOffsets       *offsetindex.Index
	chromOffsets      *offsetindex.Index
	specWritten       int
	chromWritten      bool // chromatogramList has been opened
	listsClosed       bool
	closed            bool
}

// NewWriter opens a streaming mzML writer over w, emitting the
// <indexedmzML>/<mzML>/metadata header immediately.
func NewWriter(w io.Writer, md meta.Metadata, opts ...WriterOption) (*Writer, error) {
	wr := &Writer{
		out:          newCountingHashWriter(w),
		dtype:        binary.DTypeFloat64,
		compression:  binary.CompressionZlib,
		dicts:        binary.NewDictionaryTable(),
		specOffsets:  offsetindex.New(),
		chromOffsets: offsetindex.New(),
	}
	for _, opt := range opts {
		opt(wr)
	}
	if err := wr.writeHeader(md); err != nil {
		return nil, err
	}
	return wr, nil
}

func (w *Writer) writeHeader(md meta.Metadata) error {
	if err := w.out.writeString(xml.Header); err != nil {
		return err
	}
	if err := w.out.writeString(`<indexedmzML xmlns="http://psi.hupo.org/ms/mzml">` + "\n"); err != nil {
		return err
	}
	if err := w.out.writeString(`<mzML version="1.1.0">` + "\n"); err != nil {
		return err
	}
	if err := w.writeFileDescription(md.FileDescription); err != nil {
		return err
	}
	if err := w.writeSoftwareList(md.SoftwareList); err != nil {
		return err
	}
	if err := w.writeInstrumentConfigurations(md.InstrumentConfigurations); err != nil {
		return err
	}
	if err := w.writeDataProcessingList(md.DataProcessingList); err != nil {
		return err
	}
	if err := w.writeSampleList(md.Samples); err != nil {
		return err
	}
	return w.writeRunOpen(md.Run)
}

func (w *Writer) writeFileDescription(fd meta.FileDescription) error {
	if err := w.out.writeString("<fileDescription>\n<fileContent>\n"); err != nil {
		return err
	}
	if err := w.writeParams(fd.FileContent); err != nil {
		return err
	}
	if err := w.out.writeString("</fileContent>\n<sourceFileList count=\"" + strconv.Itoa(len(fd.SourceFiles)) + "\">\n"); err != nil {
		return err
	}
	for _, sf := range fd.SourceFiles {
		if err := w.out.writeString(fmt.Sprintf("<sourceFile id=\"%s\" name=\"%s\" location=\"%s\">\n", escapeAttr(sf.ID), escapeAttr(sf.Name), escapeAttr(sf.Location))); err != nil {
			return err
		}
		if err := w.writeParams(sf.Params); err != nil {
			return err
		}
		if err := w.out.writeString("</sourceFile>\n"); err != nil {
			return err
		}
	}
	if err := w.out.writeString("</sourceFileList>\n"); err != nil {
		return err
	}
	for _, contact := range fd.Contacts {
		if err := w.out.writeString("<contact>\n"); err != nil {
			return err
		}
		if err := w.writeParams(contact); err != nil {
			return err
		}
		if err := w.out.writeString("</contact>\n"); err != nil {
			return err
		}
	}
	return w.out.writeString("</fileDescription>\n")
}

func (w *Writer) writeSoftwareList(list []meta.Software) error {
	if err := w.out.writeString("<softwareList count=\"" + strconv.Itoa(len(list)) + "\">\n"); err != nil {
		return err
	}
	for _, sw := range list {
		if err := w.out.writeString(fmt.Sprintf("<software id=\"%s\" version=\"%s\">\n", escapeAttr(sw.ID), escapeAttr(sw.Version))); err != nil {
			return err
		}
		if err := w.writeParams(sw.Params); err != nil {
			return err
		}
		if err := w.out.writeString("</software>\n"); err != nil {
			return err
		}
	}
	return w.out.writeString("</softwareList>\n")
}

func (w *Writer) writeInstrumentConfigurations(list []meta.InstrumentConfiguration) error {
	if err := w.out.writeString("<instrumentConfigurationList count=\"" + strconv.Itoa(len(list)) + "\">\n"); err != nil {
		return err
	}
	for _, ic := range list {
		if err := w.out.writeString(fmt.Sprintf("<instrumentConfiguration id=\"%s\">\n", escapeAttr(ic.ID))); err != nil {
			return err
		}
		if err := w.writeParams(ic.Params); err != nil {
			return err
		}
		if err := w.out.writeString("<componentList count=\"" + strconv.Itoa(len(ic.Components)) + "\">\n"); err != nil {
			return err
		}
		for _, comp := range ic.Components {
			if err := w.out.writeString(fmt.Sprintf("<component order=\"%d\">\n", comp.Order)); err != nil {
				return err
			}
			if err := w.writeParams(comp.Params); err != nil {
				return err
			}
			if err := w.out.writeString("</component>\n"); err != nil {
				return err
			}
		}
		if err := w.out.writeString("</componentList>\n</instrumentConfiguration>\n"); err != nil {
			return err
		}
	}
	return w.out.writeString("</instrumentConfigurationList>\n")
}

func (w *Writer) writeDataProcessingList(list []meta.DataProcessing) error {
	if err := w.out.writeString("<dataProcessingList count=\"" + strconv.Itoa(len(list)) + "\">\n"); err != nil {
		return err
	}
	for _, dp := range list {
		if err := w.out.writeString(fmt.Sprintf("<dataProcessing id=\"%s\">\n", escapeAttr(dp.ID))); err != nil {
			return err
		}
		for _, m := range dp.Methods {
			if err := w.out.writeString(fmt.Sprintf("<processingMethod order=\"%d\" softwareRef=\"%s\">\n", m.Order, escapeAttr(m.SoftwareRef))); err != nil {
				return err
			}
			if err := w.writeParams(m.Params); err != nil {
				return err
			}
			if err := w.out.writeString("</processingMethod>\n"); err != nil {
				return err
			}
		}
		if err := w.out.writeString("</dataProcessing>\n"); err != nil {
			return err
		}
	}
	return w.out.writeString("</dataProcessingList>\n")
}

func (w *Writer) writeSampleList(list []meta.Sample) error {
	if len(list) == 0 {
		return nil
	}
	if err := w.out.writeString("<sampleList count=\"" + strconv.Itoa(len(list)) + "\">\n"); err != nil {
		return err
	}
	for _, s := range list {
		if err := w.out.writeString(fmt.Sprintf("<sample id=\"%s\" name=\"%s\">\n", escapeAttr(s.ID), escapeAttr(s.Name))); err != nil {
			return err
		}
		if err := w.writeParams(s.Params); err != nil {
			return err
		}
		if err := w.out.writeString("</sample>\n"); err != nil {
			return err
		}
	}
	return w.out.writeString("</sampleList>\n")
}

func (w *Writer) writeRunOpen(run meta.Run) error {
	hint := run.SpectrumCountHint
	if w.spectrumCountHint > 0 {
		hint = w.spectrumCountHint
	}
	if err := w.out.writeString(fmt.Sprintf("<run id=\"%s\" defaultInstrumentConfigurationRef=\"%s\" defaultSourceFileRef=\"%s\">\n",
		escapeAttr(run.ID), escapeAttr(run.DefaultInstrumentRef), escapeAttr(run.DefaultSourceFileRef))); err != nil {
		return err
	}
	return w.out.writeString(fmt.Sprintf("<spectrumList count=\"%d\">\n", hint))
}

// WriteSpectrum appends one spectrum, recording its start offset in the
// in-memory index as it goes.
func (w *Writer) WriteSpectrum(s *spectrum.Spectrum) error {
	w.specOffsets.Append(s.ID, w.out.offset)
	if err := w.out.writeString(fmt.Sprintf("<spectrum index=\"%d\" id=\"%s\" defaultArrayLength=\"%d\">\n",
		s.Index, escapeAttr(s.ID), spectrumArrayLength(s))); err != nil {
		return err
	}
	if err := w.writeSpectrumLevelParams(s); err != nil {
		return err
	}
	if err := w.writeScanList(s.Description.Scans); err != nil {
		return err
	}
	if err := w.writePrecursorList(s.Description.Precursors); err != nil {
		return err
	}
	if s.HasRawArrays() {
		if err := w.writeBinaryArrayMap(s.RawArrays); err != nil {
			return err
		}
	}
	w.specWritten++
	return w.out.writeString("</spectrum>\n")
}

func spectrumArrayLength(s *spectrum.Spectrum) int {
	if s.RawArrays == nil {
		return 0
	}
	if mz := s.RawArrays.Get(binary.RoleMZ); mz != nil {
		return mz.Len()
	}
	return 0
}

func (w *Writer) writeSpectrumLevelParams(s *spectrum.Spectrum) error {
	params := cv.ParamList{cv.NewCVParam("ms level", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accMSLevel}, cv.NewInt64(int64(s.MSLevel)))}
	switch s.Polarity {
	case spectrum.PolarityPositive:
		params = append(params, cv.NewCVParam("positive scan", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accPositiveScan}, cv.NewString("")))
	case spectrum.PolarityNegative:
		params = append(params, cv.NewCVParam("negative scan", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accNegativeScan}, cv.NewString("")))
	}
	switch s.Continuity {
	case spectrum.ContinuityProfile:
		params = append(params, cv.NewCVParam("profile spectrum", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accProfileSpectrum}, cv.NewString("")))
	case spectrum.ContinuityCentroid:
		params = append(params, cv.NewCVParam("centroid spectrum", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accCentroidSpectrum}, cv.NewString("")))
	}
	params = append(params, s.Description.Params...)
	return w.writeParams(params)
}

func (w *Writer) writeScanList(scans []spectrum.ScanDescription) error {
	if len(scans) == 0 {
		return nil
	}
	if err := w.out.writeString("<scanList count=\"" + strconv.Itoa(len(scans)) + "\">\n"); err != nil {
		return err
	}
	for _, sc := range scans {
		if err := w.out.writeString(fmt.Sprintf("<scan instrumentConfigurationRef=\"%s\">\n", escapeAttr(sc.InstrumentConfigurationRef))); err != nil {
			return err
		}
		params := append(cv.ParamList{}, sc.Params...)
		if sc.HasStartTime {
			params = append(params, cv.NewCVParam("scan start time", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accScanStartTime}, cv.NewFloat64(sc.StartTime)))
		}
		if sc.FilterString != "" {
			params = append(params, cv.NewCVParam("filter string", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accFilterString}, cv.NewString(sc.FilterString)))
		}
		if err := w.writeParams(params); err != nil {
			return err
		}
		if len(sc.ScanWindows) > 0 {
			if err := w.out.writeString("<scanWindowList count=\"" + strconv.Itoa(len(sc.ScanWindows)) + "\">\n"); err != nil {
				return err
			}
			for _, win := range sc.ScanWindows {
				if err := w.out.writeString("<scanWindow>\n"); err != nil {
					return err
				}
				winParams := cv.ParamList{
					cv.NewCVParam("scan window lower limit", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accScanWindowLower}, cv.NewFloat64(win.Low)),
					cv.NewCVParam("scan window upper limit", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accScanWindowUpper}, cv.NewFloat64(win.High)),
				}
				if err := w.writeParams(winParams); err != nil {
					return err
				}
				if err := w.out.writeString("</scanWindow>\n"); err != nil {
					return err
				}
			}
			if err := w.out.writeString("</scanWindowList>\n"); err != nil {
				return err
			}
		}
		if err := w.out.writeString("</scan>\n"); err != nil {
			return err
		}
	}
	return w.out.writeString("</scanList>\n")
}

func (w *Writer) writePrecursorList(precursors []spectrum.Precursor) error {
	if len(precursors) == 0 {
		return nil
	}
	if err := w.out.writeString("<precursorList count=\"" + strconv.Itoa(len(precursors)) + "\">\n"); err != nil {
		return err
	}
	for _, p := range precursors {
		if err := w.out.writeString(fmt.Sprintf("<precursor spectrumRef=\"%s\">\n", escapeAttr(p.ParentSpectrumID))); err != nil {
			return err
		}
		if p.HasIsolationWindow {
			if err := w.out.writeString("<isolationWindow>\n"); err != nil {
				return err
			}
			isoParams := cv.ParamList{
				cv.NewCVParam("isolation window target m/z", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accIsolationTarget}, cv.NewFloat64(p.IsolationWindow.Target)),
				cv.NewCVParam("isolation window lower offset", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accIsolationLower}, cv.NewFloat64(p.IsolationWindow.LowerOffset)),
				cv.NewCVParam("isolation window upper offset", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accIsolationUpper}, cv.NewFloat64(p.IsolationWindow.UpperOffset)),
			}
			if err := w.writeParams(isoParams); err != nil {
				return err
			}
			if err := w.out.writeString("</isolationWindow>\n"); err != nil {
				return err
			}
		}
		if len(p.SelectedIons) > 0 {
			if err := w.out.writeString("<selectedIonList count=\"" + strconv.Itoa(len(p.SelectedIons)) + "\">\n"); err != nil {
				return err
			}
			for _, ion := range p.SelectedIons {
				if err := w.out.writeString("<selectedIon>\n"); err != nil {
					return err
				}
				ionParams := append(cv.ParamList{}, ion.Params...)
				if ion.HasMZ {
					ionParams = append(ionParams, cv.NewCVParam("selected ion m/z", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accSelectedIonMZ}, cv.NewFloat64(ion.MZ)))
				}
				if ion.HasCharge {
					ionParams = append(ionParams, cv.NewCVParam("charge state", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accChargeState}, cv.NewInt64(int64(ion.Charge))))
				}
				if ion.HasIntensity {
					ionParams = append(ionParams, cv.NewCVParam("peak intensity", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accPeakIntensity}, cv.NewFloat64(ion.Intensity)))
				}
				if err := w.writeParams(ionParams); err != nil {
					return err
				}
				if err := w.out.writeString("</selectedIon>\n"); err != nil {
					return err
				}
			}
			if err := w.out.writeString("</selectedIonList>\n"); err != nil {
				return err
			}
		}
		if len(p.Activation.Params) > 0 || len(p.Activation.DissociationEnergies) > 0 {
			if err := w.out.writeString("<activation>\n"); err != nil {
				return err
			}
			actParams := append(cv.ParamList{}, p.Activation.Params...)
			for _, e := range p.Activation.DissociationEnergies {
				actParams = append(actParams, cv.NewCVParam("collision energy", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accDissociationEnergy}, cv.NewFloat64(e)))
			}
			if err := w.writeParams(actParams); err != nil {
				return err
			}
			if err := w.out.writeString("</activation>\n"); err != nil {
				return err
			}
		}
		if err := w.out.writeString("</precursor>\n"); err != nil {
			return err
		}
	}
	return w.out.writeString("</precursorList>\n")
}

func (w *Writer) writeBinaryArrayMap(m *binary.BinaryArrayMap) error {
	arrays := m.All()
	if err := w.out.writeString(fmt.Sprintf("<binaryDataArrayList count=\"%d\">\n", len(arrays))); err != nil {
		return err
	}
	for _, arr := range arrays {
		if err := w.writeDataArray(arr); err != nil {
			return err
		}
	}
	return w.out.writeString("</binaryDataArrayList>\n")
}

// compressionFor returns the compression scheme arr should be re-encoded
// with: role's entry in roleCompression if one was registered via
// WithRoleCompression, else the writer's default.
func (w *Writer) compressionFor(arr *binary.DataArray) binary.Compression {
	if c, ok := w.roleCompression[arr.Name]; ok {
		return c
	}
	return w.compression
}

func (w *Writer) writeDataArray(arr *binary.DataArray) error {
	values, err := arr.Float64(w.dicts)
	if err != nil {
		return err
	}
	compression := w.compressionFor(arr)
	dictID := arr.DictionaryID
	if compression == binary.CompressionDictByteShuffle && dictID == "" {
		if w.defaultDictID == "" {
			w.defaultDictID = w.dicts.NewDictionary(w.dtype.Size())
		}
		dictID = w.defaultDictID
	}
	if err := arr.Reencode(w.dtype, compression, dictID, values); err != nil {
		return err
	}
	tag := fmt.Sprintf("<binaryDataArray encodedLength=\"%d\"", base64Len(arr.EncodedBytes()))
	if dictID != "" {
		tag += fmt.Sprintf(" dictionaryRef=\"%s\"", escapeAttr(dictID))
	}
	if err := w.out.writeString(tag + ">\n"); err != nil {
		return err
	}
	params := cv.ParamList{
		cv.NewCVParam(roleName(arr.Name), cv.CURIE{Vocabulary: cv.VocabMS, Accession: roleToAccession[arr.Name]}, cv.NewString("")),
		cv.NewCVParam(dtypeName(w.dtype), cv.CURIE{Vocabulary: cv.VocabMS, Accession: dtypeToAccession[w.dtype]}, cv.NewString("")),
		cv.NewCVParam(compressionName(compression), cv.CURIE{Vocabulary: cv.VocabMS, Accession: compressionToAccession[compression]}, cv.NewString("")),
	}
	if err := w.writeParams(params); err != nil {
		return err
	}
	if err := w.out.writeString("<binary>"); err != nil {
		return err
	}
	if err := w.out.writeString(binary.EncodeBase64(arr.EncodedBytes())); err != nil {
		return err
	}
	return w.out.writeString("</binary>\n</binaryDataArray>\n")
}

func base64Len(b []byte) int { return (len(b) + 2) / 3 * 4 }

func roleName(r binary.Role) string        { return string(r) }
func dtypeName(d binary.DType) string      { return d.String() }
func compressionName(c binary.Compression) string { return c.String() }

// WriteChromatogram appends one chromatogram, recording its start offset.
func (w *Writer) WriteChromatogram(c *spectrum.Chromatogram) error {
	if !w.chromWritten {
		if err := w.out.writeString("</spectrumList>\n<chromatogramList count=\"1\">\n"); err != nil {
			return err
		}
		w.chromWritten = true
	}
	w.chromOffsets.Append(c.ID, w.out.offset)
	length := 0
	if c.Arrays != nil {
		if t := c.Arrays.Get(binary.RoleTime); t != nil {
			length = t.Len()
		}
	}
	if err := w.out.writeString(fmt.Sprintf("<chromatogram index=\"%d\" id=\"%s\" defaultArrayLength=\"%d\">\n", c.Index, escapeAttr(c.ID), length)); err != nil {
		return err
	}
	var typeParams cv.ParamList
	switch c.Type {
	case spectrum.ChromatogramTIC:
		typeParams = append(typeParams, cv.NewCVParam("total ion current chromatogram", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accTIC}, cv.NewString("")))
	case spectrum.ChromatogramBPC:
		typeParams = append(typeParams, cv.NewCVParam("basepeak chromatogram", cv.CURIE{Vocabulary: cv.VocabMS, Accession: accBasePeakIntensity}, cv.NewString("")))
	}
	if err := w.writeParams(typeParams); err != nil {
		return err
	}
	if c.HasPrecursor() {
		if err := w.out.writeString(fmt.Sprintf("<precursor spectrumRef=\"%s\"></precursor>\n", escapeAttr(c.Precursor.ParentSpectrumID))); err != nil {
			return err
		}
	}
	if c.Arrays != nil {
		if err := w.writeBinaryArrayMap(c.Arrays); err != nil {
			return err
		}
	}
	return w.out.writeString("</chromatogram>\n")
}

// writeParams emits a flat list of cvParam/userParam elements.
func (w *Writer) writeParams(params cv.ParamList) error {
	for _, p := range params {
		if p.HasAccession {
			unit := ""
			if p.HasUnit {
				unit = fmt.Sprintf(" unitAccession=\"%s\"", escapeAttr(p.Unit.String()))
			}
			if err := w.out.writeString(fmt.Sprintf("<cvParam accession=\"%s\" name=\"%s\" value=\"%s\"%s/>\n",
				escapeAttr(p.Accession.String()), escapeAttr(p.Name), escapeAttr(p.Value.AsString()), unit)); err != nil {
				return err
			}
		} else {
			if err := w.out.writeString(fmt.Sprintf("<userParam name=\"%s\" value=\"%s\"/>\n", escapeAttr(p.Name), escapeAttr(p.Value.AsString()))); err != nil {
				return err
			}
		}
	}
	return nil
}

func escapeAttr(s string) string {
	var buf []byte
	w := &sliceWriter{buf: &buf}
	_ = xml.EscapeText(w, []byte(s))
	return string(buf)
}

type sliceWriter struct{ buf *[]byte }

func (s *sliceWriter) Write(p []byte) (int, error) {
	*s.buf = append(*s.buf, p...)
	return len(p), nil
}

// Close emits the spectrum/chromatogram list closing tags, the
// <indexList> trailer (with the accumulated offsets), the
// <indexListOffset> pointer, and the final <fileChecksum>, then flushes
// the underlying writer. It is the caller's responsibility to call Close
// exactly once; failing to do so leaves a malformed file (SPEC_FULL.md
// §4.5).
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if !w.chromWritten {
		if err := w.out.writeString("</spectrumList>\n"); err != nil {
			return err
		}
	} else {
		if err := w.out.writeString("</chromatogramList>\n"); err != nil {
			return err
		}
	}
	if err := w.out.writeString("</run>\n</mzML>\n"); err != nil {
		return err
	}

	indexListOffset := w.out.offset
	if err := w.writeIndexList(); err != nil {
		return err
	}
	if err := w.out.writeString(fmt.Sprintf("<indexListOffset>%d</indexListOffset>\n", indexListOffset)); err != nil {
		return err
	}
	if err := w.out.writeString("<fileChecksum>"); err != nil {
		return err
	}
	sum := hex.EncodeToString(w.out.sha1.Sum(nil))
	if err := w.out.writeString(sum + "</fileChecksum>\n</indexedmzML>\n"); err != nil {
		return err
	}
	return w.out.w.Flush()
}

func (w *Writer) writeIndexList() error {
	numLists := 1
	if w.chromOffsets.Len() > 0 {
		numLists = 2
	}
	if err := w.out.writeString(fmt.Sprintf("<indexList count=\"%d\">\n", numLists)); err != nil {
		return err
	}
	if err := w.writeOneIndex("spectrum", w.specOffsets); err != nil {
		return err
	}
	if w.chromOffsets.Len() > 0 {
		if err := w.writeOneIndex("chromatogram", w.chromOffsets); err != nil {
			return err
		}
	}
	return w.out.writeString("</indexList>\n")
}

func (w *Writer) writeOneIndex(name string, idx *offsetindex.Index) error {
	if err := w.out.writeString(fmt.Sprintf("<index name=\"%s\" count=\"%d\">\n", escapeAttr(name), idx.Len())); err != nil {
		return err
	}
	for _, e := range idx.Entries() {
		if err := w.out.writeString(fmt.Sprintf("<offset idRef=\"%s\">%d</offset>\n", escapeAttr(e.NativeID), e.Offset)); err != nil {
			return err
		}
	}
	return w.out.writeString("</index>\n")
}
