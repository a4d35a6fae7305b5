package mzdata

import (
	"io"

	"github.com/msspeclib/mzdata/spectrum"
)

// SpectrumGroup is one MS1 precursor spectrum (if seen) paired with its
// MSn product spectra, in the order the grouping iterator encountered
// them (SPEC_FULL.md §4.7 "Grouping iterator").
type SpectrumGroup struct {
	Precursor *spectrum.Spectrum // nil if the parent MS1 was never seen
	Products  []*spectrum.Spectrum
}

// GroupIterator is a layered adapter over a SpectrumSource that buffers
// at most one MS1 plus its MSn descendants at a time and emits them as
// SpectrumGroups. An MSn spectrum is assigned to the most recent MS1
// whose id its precursor reference resolves to; when that MS1 hasn't
// been seen (forward-only streams, or a cross-file grouping) the group
// carrying it has Precursor == nil. Grouping preserves relative order of
// product spectra within a group. Grounded on SPEC_FULL.md §9's "grouping
// is a layered adapter that buffers at most one MS1 plus its MSn
// descendants".
type GroupIterator struct {
	src SpectrumSource

	pending map[string]*SpectrumGroup // MS1 id -> group awaiting flush
	order   []string                  // MS1 ids in first-seen order
	orphans *SpectrumGroup            // group for MSn spectra whose MS1 was never seen
	ready   []*SpectrumGroup
	drained bool
}

func newGroupIterator(src SpectrumSource) *GroupIterator {
	return &GroupIterator{src: src, pending: make(map[string]*SpectrumGroup)}
}

// Next returns the next completed group, or io.EOF once the underlying
// source is exhausted and all buffered groups have been flushed. A
// group's precursor is considered complete as soon as a later MS1
// (or end of stream) is observed, so groups are emitted in the order
// their MS1 spectrum was first seen.
func (g *GroupIterator) Next() (*SpectrumGroup, error) {
	for len(g.ready) == 0 {
		if g.drained {
			return nil, io.EOF
		}
		s, err := g.src.Next()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			g.drained = true
			g.flushAll()
			continue
		}
		g.absorb(s)
	}
	next := g.ready[0]
	g.ready = g.ready[1:]
	return next, nil
}

func (g *GroupIterator) absorb(s *spectrum.Spectrum) {
	if s.IsMS1() {
		// The previous MS1 (if any) is now complete: every subsequent
		// MSn belongs to this new one, so flush the prior group.
		g.flushOldestExcept("")
		grp := &SpectrumGroup{Precursor: s}
		g.pending[s.ID] = grp
		g.order = append(g.order, s.ID)
		return
	}

	parentID, ok := s.PrecursorSpectrumID()
	if ok {
		if grp, found := g.pending[parentID]; found {
			grp.Products = append(grp.Products, s)
			return
		}
	}
	if g.orphans == nil {
		g.orphans = &SpectrumGroup{}
	}
	g.orphans.Products = append(g.orphans.Products, s)
}

// flushOldestExcept flushes every pending group except the one keyed by
// keep (used to retain the just-opened MS1's group while closing out
// whatever preceded it).
func (g *GroupIterator) flushOldestExcept(keep string) {
	for _, id := range g.order {
		if id == keep {
			continue
		}
		if grp, ok := g.pending[id]; ok {
			g.ready = append(g.ready, grp)
			delete(g.pending, id)
		}
	}
	g.order = g.order[:0]
	if keep != "" {
		g.order = append(g.order, keep)
	}
}

func (g *GroupIterator) flushAll() {
	g.flushOldestExcept("")
	if g.orphans != nil {
		g.ready = append(g.ready, g.orphans)
		g.orphans = nil
	}
}
