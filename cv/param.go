package cv

// Param carries either a "cvParam" (Accession set) or a "userParam"
// (Accession unset) — the discriminant is whether Accession is present.
// Invariant: if Accession is non-zero, Name is expected to match the CV
// term name for that accession (writers may re-derive Name from the
// accession rather than trust a stale copy).
type Param struct {
	Name      string
	Value     Value
	Accession CURIE
	HasAccession bool
	Unit      CURIE
	HasUnit   bool
}

// IsCVParam reports whether this Param carries a CV accession (as opposed
// to being a free-form userParam).
func (p Param) IsCVParam() bool { return p.HasAccession }

// NewCVParam constructs a cvParam-role Param.
func NewCVParam(name string, accession CURIE, value Value) Param {
	return Param{Name: name, Value: value, Accession: accession, HasAccession: true}
}

// NewUserParam constructs a userParam-role Param.
func NewUserParam(name string, value Value) Param {
	return Param{Name: name, Value: value}
}

// WithUnit returns a copy of p carrying the given unit CURIE.
func (p Param) WithUnit(unit CURIE) Param {
	p.Unit = unit
	p.HasUnit = true
	return p
}

// ParamList is an ordered collection of Params with by-name and
// by-accession lookup. Order is preserved for round-trip fidelity; writers
// may re-factor common bundles into ParamGroups on output but the in-memory
// representation here keeps params flat and ordered.
type ParamList []Param

// Get returns the first Param with the given name, if any.
func (l ParamList) Get(name string) (Param, bool) {
	for _, p := range l {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// GetByAccession returns the first Param with the given CV accession, if any.
func (l ParamList) GetByAccession(acc CURIE) (Param, bool) {
	for _, p := range l {
		if p.HasAccession && p.Accession == acc {
			return p, true
		}
	}
	return Param{}, false
}

// Add appends a Param, returning the extended list (builder-style
// accumulation, mirroring the accumulate-then-finalize discipline used
// throughout the mzML builder stack).
func (l ParamList) Add(p Param) ParamList {
	return append(l, p)
}
