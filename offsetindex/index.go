// Package offsetindex implements the random-access offset index
// (SPEC_FULL.md §3 "Offset index", §4.6): an ordered native-id → byte-
// offset mapping, with an index → native-id side table, serializable to
// and from the mzML <index> trailer form.
//
// Grounded on the teacher's fixed 6-offset FCS header
// (TextStart/TextEnd/DataStart/DataEnd/AnalysisStart/AnalysisEnd) —
// generalized from a fixed-arity set of named offsets into an ordered,
// growable table keyed by an arbitrary native id string.
package offsetindex

import (
	"fmt"
	"sort"

	"github.com/msspeclib/mzdata/mzerr"
)

// entry is one (nativeID, offset) pair in insertion order.
type entry struct {
	nativeID string
	offset   int64
}

// Index is an ordered mapping native_id → byte_offset, with an
// index → native_id side table giving O(1) lookup both ways and
// monotone iteration in index order (SPEC_FULL.md §4.6).
type Index struct {
	entries []entry
	byID    map[string]int // nativeID -> position in entries
}

// New returns an empty index.
func New() *Index {
	return &Index{byID: make(map[string]int)}
}

// Append records the offset of the next entry, in index order. Appending
// a nativeID that already exists overwrites its recorded offset in place
// without changing its index (a writer re-emitting a corrected offset).
func (idx *Index) Append(nativeID string, offset int64) {
	if pos, ok := idx.byID[nativeID]; ok {
		idx.entries[pos].offset = offset
		return
	}
	idx.byID[nativeID] = len(idx.entries)
	idx.entries = append(idx.entries, entry{nativeID: nativeID, offset: offset})
}

// Len returns the number of distinct native ids recorded.
func (idx *Index) Len() int { return len(idx.entries) }

// OffsetByID returns the byte offset recorded for nativeID.
func (idx *Index) OffsetByID(nativeID string) (int64, error) {
	pos, ok := idx.byID[nativeID]
	if !ok {
		return 0, fmt.Errorf("%w: native id %q", mzerr.ErrIndexNotFound, nativeID)
	}
	return idx.entries[pos].offset, nil
}

// OffsetByIndex returns the byte offset recorded at 0-based position i.
func (idx *Index) OffsetByIndex(i int) (int64, error) {
	if i < 0 || i >= len(idx.entries) {
		return 0, fmt.Errorf("%w: index %d out of range [0,%d)", mzerr.ErrIndexNotFound, i, len(idx.entries))
	}
	return idx.entries[i].offset, nil
}

// IDByIndex returns the native id recorded at 0-based position i.
func (idx *Index) IDByIndex(i int) (string, error) {
	if i < 0 || i >= len(idx.entries) {
		return "", fmt.Errorf("%w: index %d out of range [0,%d)", mzerr.ErrIndexNotFound, i, len(idx.entries))
	}
	return idx.entries[i].nativeID, nil
}

// IndexByID returns the 0-based position nativeID was appended at.
func (idx *Index) IndexByID(nativeID string) (int, error) {
	pos, ok := idx.byID[nativeID]
	if !ok {
		return 0, fmt.Errorf("%w: native id %q", mzerr.ErrIndexNotFound, nativeID)
	}
	return pos, nil
}

// IDs returns every native id, in index order.
func (idx *Index) IDs() []string {
	out := make([]string, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = e.nativeID
	}
	return out
}

// Entry pairs a native id with its recorded byte offset, for Entries'
// ordered dump.
type Entry struct {
	NativeID string
	Offset   int64
}

// Entries returns every (nativeID, offset) pair, in index order — the
// shape a writer serializes into an <index> trailer.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = Entry{NativeID: e.nativeID, Offset: e.offset}
	}
	return out
}

// FromEntries rebuilds an Index from a (nativeID, offset) list already in
// index order, as parsed from an mzML <index> trailer.
func FromEntries(entries []Entry) *Index {
	idx := New()
	for _, e := range entries {
		idx.Append(e.NativeID, e.Offset)
	}
	return idx
}

// SortedByOffset returns the index's entries sorted by ascending byte
// offset — useful for a reader validating that a parsed trailer is
// internally consistent (offsets should be monotone in a well-formed
// single-pass-written file, though the index does not require it).
func (idx *Index) SortedByOffset() []Entry {
	out := idx.Entries()
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}
