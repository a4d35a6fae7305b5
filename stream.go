package mzdata

import (
	"fmt"
	"io"

	"github.com/msspeclib/mzdata/meta"
	"github.com/msspeclib/mzdata/spectrum"
)

// ReversedStreamError is the error StreamingSource panics with when asked
// to revisit a position it has already scanned past (SPEC_FULL.md §10
// decided open question (i)). It is still a normal Go error value, so a
// caller that wants the documented panic behavior anyway can `recover`
// and type-assert it back out.
type ReversedStreamError struct {
	Position string // "index N" or "id X"
}

func (e *ReversedStreamError) Error() string {
	return fmt.Sprintf("mzdata: streaming source asked to revisit already-consumed position: %s", e.Position)
}

func (e *ReversedStreamError) Unwrap() error { return ErrReversedStream }

// StreamingSource adapts a forward-only spectrum iterator (an mzML
// Decoder reading a non-seekable pipe, or an MGF Decoder) to the
// SpectrumSource contract (SPEC_FULL.md §4.7 "Streaming wrapper"). By-id
// and by-index lookups scan forward from the current position, buffering
// at most one spectrum; a by-index request for a position already passed
// panics with *ReversedStreamError rather than silently returning a miss,
// since that position genuinely existed upstream and a silent
// IndexNotFound would be indistinguishable from one that never did. A
// by-id request for an id already passed returns ErrIndexNotFound.
type StreamingSource struct {
	next      func() (*spectrum.Spectrum, error)
	closer    io.Closer
	metadata  meta.Metadata
	countHint int
	detail    DetailLevel

	nextIndex int // index Next() will assign to the next spectrum returned
	done      bool
}

// NewStreamingSource wraps next (typically an mzml.Decoder.NextSpectrum
// or mgf.Decoder.Next bound method) for sequential and forward-scanning
// access. countHint is a declared-but-unverified spectrum count, or -1 if
// none is known. closer, if non-nil, is invoked by Close.
func NewStreamingSource(next func() (*spectrum.Spectrum, error), md meta.Metadata, countHint int, detail DetailLevel, closer io.Closer) *StreamingSource {
	return &StreamingSource{next: next, closer: closer, metadata: md, countHint: countHint, detail: detail}
}

func (s *StreamingSource) Len() int               { return -1 }
func (s *StreamingSource) SpectrumCountHint() int { return s.countHint }
func (s *StreamingSource) Metadata() meta.Metadata { return s.metadata }
func (s *StreamingSource) DetailLevel() DetailLevel { return s.detail }

// Next returns the next spectrum in file order, or io.EOF once the
// underlying iterator is exhausted.
func (s *StreamingSource) Next() (*spectrum.Spectrum, error) {
	if s.done {
		return nil, io.EOF
	}
	sp, err := s.next()
	if err != nil {
		if err == io.EOF {
			s.done = true
		}
		return nil, err
	}
	s.nextIndex++
	return sp, nil
}

// GetSpectrumByIndex scans forward to 0-based index i, panicking with
// *ReversedStreamError if i is already behind the current position.
func (s *StreamingSource) GetSpectrumByIndex(i int) (*spectrum.Spectrum, error) {
	if i < s.nextIndex {
		panic(&ReversedStreamError{Position: fmt.Sprintf("index %d", i)})
	}
	for {
		sp, err := s.Next()
		if err != nil {
			return nil, err
		}
		if sp.Index == i || s.nextIndex-1 == i {
			return sp, nil
		}
	}
}

// GetSpectrumByID scans forward for native id id. It does not panic: the
// ids of spectra already consumed are not kept, so any id not found
// before EOF, including one already passed, is reported as IndexNotFound.
func (s *StreamingSource) GetSpectrumByID(id string) (*spectrum.Spectrum, error) {
	for {
		sp, err := s.Next()
		if err != nil {
			if err == io.EOF {
				return nil, ErrIndexNotFound
			}
			return nil, err
		}
		if sp.ID == id {
			return sp, nil
		}
	}
}

// GetSpectrumByTime is not supported on a forward-only stream without
// consuming it entirely to build a time index; StreamingSource does not
// attempt it and always reports IndexNotFound. Callers needing by-time
// access on a non-seekable source should buffer into a Document first.
func (s *StreamingSource) GetSpectrumByTime(t float64) (*spectrum.Spectrum, error) {
	return nil, ErrIndexNotFound
}

// Close releases the wrapped closer, if any.
func (s *StreamingSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
