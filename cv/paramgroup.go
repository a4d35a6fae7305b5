package cv

import (
	"fmt"

	"github.com/msspeclib/mzdata/mzerr"
)

// ParamGroup is a named bundle of Params referenced by id
// (referenceableParamGroup in mzML).
type ParamGroup struct {
	ID     string
	Params ParamList
}

// GroupTable resolves ParamGroup references by id. Resolution happens at
// materialization time (when a spectrum/chromatogram/etc. finishes
// building), mirroring the teacher's "look everything up against the
// flat keyword map once, at the end of TEXT-segment decode" discipline.
type GroupTable struct {
	groups map[string]ParamGroup
}

// NewGroupTable returns an empty resolver.
func NewGroupTable() *GroupTable {
	return &GroupTable{groups: make(map[string]ParamGroup)}
}

// Define registers a ParamGroup under its id, overwriting any prior
// definition with the same id (last-writer-wins, matching how a single
// pass over a <referenceableParamGroupList> accumulates groups before any
// element can reference them).
func (t *GroupTable) Define(g ParamGroup) {
	t.groups[g.ID] = g
}

// Resolve looks up a group by id. Unresolved references are not treated as
// fatal: callers should log a warning (mzerr.ErrUnknownReference) and
// proceed with the reference stripped, per the spec's recovery policy for
// this error kind.
func (t *GroupTable) Resolve(id string) (ParamGroup, error) {
	g, ok := t.groups[id]
	if !ok {
		return ParamGroup{}, fmt.Errorf("%w: referenceableParamGroup %q", mzerr.ErrUnknownReference, id)
	}
	return g, nil
}

// ResolveAll resolves a list of group ids into a single flattened
// ParamList (group params come first, in reference order), skipping any
// unresolved ids and returning their ids for the caller to log.
func (t *GroupTable) ResolveAll(ids []string) (resolved ParamList, unresolved []string) {
	for _, id := range ids {
		g, err := t.Resolve(id)
		if err != nil {
			unresolved = append(unresolved, id)
			continue
		}
		resolved = append(resolved, g.Params...)
	}
	return resolved, unresolved
}
