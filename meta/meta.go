// Package meta implements the mzML metadata model: file description,
// software list, instrument configurations, data-processing chain, sample
// list, and the run record. Grounded on the teacher's (angli232/fcs) flat
// Metadata struct, decomposed per SPEC_FULL.md §3 into the smaller
// per-concern records the mzML schema itself separates.
package meta

import (
	"time"

	"github.com/msspeclib/mzdata/cv"
)

// SourceFile describes one input file contributing to the run, including
// its checksum (so a pass-through copy can carry provenance forward).
type SourceFile struct {
	ID       string
	Name     string
	Location string
	Params   cv.ParamList // contents (e.g. spectrum count), checksum type+value, origin terms
}

// FileDescription bundles the file-level content description, the list of
// contributing source files, and any contact params.
type FileDescription struct {
	FileContent cv.ParamList
	SourceFiles []SourceFile
	Contacts    []cv.ParamList
}

// Software describes one piece of software used to produce or process the
// data, identified by id and version.
type Software struct {
	ID      string
	Version string
	Params  cv.ParamList
}

// InstrumentComponent is one element of an instrument configuration's
// component list (source, analyzer, or detector), ordered by acquisition
// order as mzML requires.
type InstrumentComponent struct {
	Order  int
	Params cv.ParamList
}

// InstrumentConfiguration describes one instrument setup: its ordered
// components plus a cross-reference to the scan settings used to acquire
// with it.
type InstrumentConfiguration struct {
	ID                string
	ScanSettingsRef   string
	Components        []InstrumentComponent
	SoftwareRef       string
	Params            cv.ParamList
}

// ProcessingMethod is one step of a DataProcessing chain: an ordered set of
// params plus the software that performed it.
type ProcessingMethod struct {
	Order       int
	SoftwareRef string
	Params      cv.ParamList
}

// DataProcessing is a named, ordered chain of processing methods applied
// to the data (e.g. peak picking, then deconvolution).
type DataProcessing struct {
	ID      string
	Methods []ProcessingMethod
}

// Sample describes one physical or virtual sample referenced by a run.
type Sample struct {
	ID     string
	Name   string
	Params cv.ParamList
}

// Run is the top-level record for one acquisition run: its default
// instrument and source file, start time, and a spectrum-count hint used
// by writers that must emit a count before all spectra are known (see
// WriterConfig.SpectrumCountHint).
type Run struct {
	ID                  string
	StartTime           time.Time
	HasStartTime        bool
	DefaultInstrumentRef string
	DefaultSourceFileRef string
	SampleRef            string
	SpectrumCountHint    int
	Params               cv.ParamList
}

// Metadata is the full file-level metadata bundle threaded through a
// parsed or to-be-written mzML/MGF document.
type Metadata struct {
	FileDescription          FileDescription
	SoftwareList              []Software
	InstrumentConfigurations  []InstrumentConfiguration
	DataProcessingList        []DataProcessing
	Samples                   []Sample
	Run                       Run
}

// AppendProcessingMethod returns a copy of dp with one additional
// processing method appended — used by writers' "copy metadata from
// source" operation (SPEC_FULL.md §4.5) to record the writer itself as one
// more step in the provenance chain.
func (dp DataProcessing) AppendProcessingMethod(m ProcessingMethod) DataProcessing {
	m.Order = len(dp.Methods)
	dp.Methods = append(append([]ProcessingMethod{}, dp.Methods...), m)
	return dp
}

// InstrumentByID looks up an instrument configuration by id.
func (m Metadata) InstrumentByID(id string) (InstrumentConfiguration, bool) {
	for _, ic := range m.InstrumentConfigurations {
		if ic.ID == id {
			return ic, true
		}
	}
	return InstrumentConfiguration{}, false
}

// SoftwareByID looks up a software record by id.
func (m Metadata) SoftwareByID(id string) (Software, bool) {
	for _, sw := range m.SoftwareList {
		if sw.ID == id {
			return sw, true
		}
	}
	return Software{}, false
}
