// Package mzerr centralizes the error taxonomy shared by every component
// of the reader/writer engine, grounded on the teacher's style of a small
// set of package-level sentinel errors (angli232/fcs's
// ErrInvalidHeader/ErrInvalidText/ErrKeywordNotFound) generalized to the
// closed kind table this spec requires.
package mzerr

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per taxonomy kind. Use errors.Is against these;
// ParseError (below) wraps one of them with positional context.
var (
	// ErrIO wraps an underlying read/write failure. Always propagated.
	ErrIO = errors.New("mzdata: io error")

	// ErrMalformedXML signals an XML parse error. Fatal for the current file.
	ErrMalformedXML = errors.New("mzdata: malformed xml")

	// ErrMalformedAttribute signals a required attribute that is missing or
	// unparsable. Fatal only if the attribute was required; optional
	// attributes cause the element to be discarded instead.
	ErrMalformedAttribute = errors.New("mzdata: malformed attribute")

	// ErrMalformedNumber signals numeric text that fails to parse. Fatal
	// for the current spectrum only; iteration continues.
	ErrMalformedNumber = errors.New("mzdata: malformed number")

	// ErrUnknownReference signals an unresolved paramGroup or instrument
	// configuration reference. The referencing element is kept with the
	// reference stripped; this is a warning, not a hard failure.
	ErrUnknownReference = errors.New("mzdata: unknown reference")

	// ErrDtypeMismatch signals a coercion target incompatible with the
	// array's declared dtype. Propagated to the caller.
	ErrDtypeMismatch = errors.New("mzdata: dtype mismatch")

	// ErrIncompatibleCompression signals a compression scheme applied to a
	// dtype it does not support. Fatal for the array.
	ErrIncompatibleCompression = errors.New("mzdata: incompatible compression")

	// ErrUnknownDictionary signals dict+byte-shuffle compression whose
	// dictionary id cannot be resolved at decode time. Fatal for the array.
	ErrUnknownDictionary = errors.New("mzdata: unknown dictionary")

	// ErrIndexNotFound signals a random-access lookup miss. Callers should
	// treat this as "not found", not as an error condition in itself — it
	// is exported so call sites that want to distinguish "absent" from
	// "other failure" via errors.Is can do so, but the convention
	// throughout this module is to return it alongside a nil value rather
	// than force every caller through error-handling machinery.
	ErrIndexNotFound = errors.New("mzdata: index not found")

	// ErrUnseekable signals a seek requested on a stream that does not
	// support it (e.g. seek-relative-to-end on the restartable gzip
	// decoder). Propagated.
	ErrUnseekable = errors.New("mzdata: unseekable")

	// ErrChecksumMismatch signals an mzML file checksum that disagrees
	// with the recomputed value. The mzML reader does not verify
	// <fileChecksum>, so no code path in this module returns it.
	ErrChecksumMismatch = errors.New("mzdata: checksum mismatch")

	// ErrReversedStream signals that the streaming wrapper was asked to
	// revisit a spectrum at or before its current position. This is the
	// one taxonomy entry documented as fatal-by-panic (see
	// StreamingSource.GetSpectrumByIndex); ErrReversedStream is the value
	// wrapped into the panic so recover() sites can still inspect it.
	ErrReversedStream = errors.New("mzdata: reversed stream")
)

// ParseError carries the structured context (native id, byte offset, parser
// state name) the spec requires malformed input to be reported with. It
// wraps one of the sentinel errors above.
type ParseError struct {
	Kind     error  // one of the sentinels above
	NativeID string // spectrum/chromatogram native id, if known
	Offset   int64  // byte offset in the underlying stream, if known
	State    string // parser state name at the point of failure
	Detail   string // free-form detail (e.g. the offending attribute name)
}

func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.State != "" {
		msg += " in state " + e.State
	}
	if e.NativeID != "" {
		msg += fmt.Sprintf(" (native id %q)", e.NativeID)
	}
	if e.Offset != 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Kind }

// Wrap builds a ParseError around one of the sentinel kinds above with
// positional context. Any zero-valued fields are simply omitted from the
// formatted message.
func Wrap(kind error, state, nativeID string, offset int64, detail string) *ParseError {
	return &ParseError{Kind: kind, NativeID: nativeID, Offset: offset, State: state, Detail: detail}
}
