package cv

import "regexp"

// SoftwareKind is a compact enum over the PSI-MS software-term subtree.
type SoftwareKind int

const (
	SoftwareUnknown SoftwareKind = iota
	SoftwareXcalibur
	SoftwareProteoWizard
	SoftwareMSConvert
	SoftwareMaxQuant
	SoftwareThisLibrary // identifies this module itself, used when copying metadata on write
)

// InstrumentModel is a compact enum over the PSI-MS instrument-model subtree.
type InstrumentModel int

const (
	InstrumentUnknown InstrumentModel = iota
	InstrumentOrbitrap
	InstrumentQExactive
	InstrumentTOF
	InstrumentFTICR
	InstrumentLTQ
)

// DissociationMethod is a compact enum over the PSI-MS dissociation-method subtree.
type DissociationMethod int

const (
	DissociationUnknown DissociationMethod = iota
	DissociationCID
	DissociationHCD
	DissociationETD
	DissociationECD
	DissociationUVPD
)

// softwareTerms maps a PSI-MS accession number to its compact enum value.
var softwareTerms = map[int]SoftwareKind{
	1000532: SoftwareXcalibur,
	1000615: SoftwareProteoWizard,
	1000616: SoftwareMSConvert,
	1001583: SoftwareMaxQuant,
}

// LookupSoftware maps a PSI-MS CURIE to its compact software enum, or
// SoftwareUnknown if the accession is not in the static table.
func LookupSoftware(c CURIE) SoftwareKind {
	if c.Vocabulary != VocabMS {
		return SoftwareUnknown
	}
	return softwareTerms[c.Accession]
}

var instrumentTerms = map[int]InstrumentModel{
	1000449: InstrumentOrbitrap,
	1001911: InstrumentQExactive,
	1000084: InstrumentTOF,
	1000079: InstrumentFTICR,
	1000447: InstrumentLTQ,
}

// LookupInstrumentModel maps a PSI-MS CURIE to its compact instrument enum.
func LookupInstrumentModel(c CURIE) InstrumentModel {
	if c.Vocabulary != VocabMS {
		return InstrumentUnknown
	}
	return instrumentTerms[c.Accession]
}

var dissociationTerms = map[int]DissociationMethod{
	1000133: DissociationCID,
	1000422: DissociationHCD,
	1000598: DissociationETD,
	1000250: DissociationECD,
	1003294: DissociationUVPD,
}

// LookupDissociationMethod maps a PSI-MS CURIE to its compact dissociation enum.
func LookupDissociationMethod(c CURIE) DissociationMethod {
	if c.Vocabulary != VocabMS {
		return DissociationUnknown
	}
	return dissociationTerms[c.Accession]
}

// NativeIDFormat is a closed enum over the native-id grammars the CV
// defines. Each carries a regular expression used to both recognize a
// native id string as belonging to that format and to extract its scan
// number.
type NativeIDFormat struct {
	Name     string
	Accession CURIE
	Pattern  *regexp.Regexp // must contain a "scan" named group
}

var nativeIDFormats = []NativeIDFormat{
	{
		Name:      "Thermo nativeID format",
		Accession: CURIE{Vocabulary: VocabMS, Accession: 1000768},
		Pattern:   regexp.MustCompile(`^controllerType=(?P<controllerType>\d+) controllerNumber=(?P<controllerNumber>\d+) scan=(?P<scan>\d+)$`),
	},
	{
		Name:      "scan number only nativeID format",
		Accession: CURIE{Vocabulary: VocabMS, Accession: 1000776},
		Pattern:   regexp.MustCompile(`^scan=(?P<scan>\d+)$`),
	},
	{
		Name:      "spectrum identifier nativeID format",
		Accession: CURIE{Vocabulary: VocabMS, Accession: 1000777},
		Pattern:   regexp.MustCompile(`^spectrum=(?P<scan>\d+)$`),
	},
	{
		Name:      "multiple peak list nativeID format",
		Accession: CURIE{Vocabulary: VocabMS, Accession: 1000774},
		Pattern:   regexp.MustCompile(`^index=(?P<scan>\d+)$`),
	},
	{
		Name:      "mascot generic format nativeID",
		Accession: CURIE{Vocabulary: VocabMS, Accession: 1000775},
		Pattern:   regexp.MustCompile(`^(?P<scan>.+)$`),
	},
}

// NativeIDFormats returns the closed set of recognized native-id grammars,
// in the preference order they are tried by RecognizeNativeID.
func NativeIDFormats() []NativeIDFormat {
	return nativeIDFormats
}

// RecognizeNativeID finds the first native-id format whose pattern matches
// id, returning its scan number group as a string (callers that need an
// integer should parse it; the MGF title format's "scan" group is
// deliberately not always numeric).
func RecognizeNativeID(id string) (format NativeIDFormat, scan string, ok bool) {
	for _, f := range nativeIDFormats {
		m := f.Pattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		idx := f.Pattern.SubexpIndex("scan")
		if idx < 0 || idx >= len(m) {
			continue
		}
		return f, m[idx], true
	}
	return NativeIDFormat{}, "", false
}
