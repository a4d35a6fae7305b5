package mzdata

import "github.com/msspeclib/mzdata/mzerr"

// Sentinel errors, re-exported from mzerr so callers of the top-level
// package don't need a second import for errors.Is checks (SPEC_FULL.md
// §2A/§7).
var (
	ErrIO                      = mzerr.ErrIO
	ErrMalformedXML            = mzerr.ErrMalformedXML
	ErrMalformedAttribute      = mzerr.ErrMalformedAttribute
	ErrMalformedNumber         = mzerr.ErrMalformedNumber
	ErrUnknownReference        = mzerr.ErrUnknownReference
	ErrDtypeMismatch           = mzerr.ErrDtypeMismatch
	ErrIncompatibleCompression = mzerr.ErrIncompatibleCompression
	ErrUnknownDictionary       = mzerr.ErrUnknownDictionary
	ErrIndexNotFound           = mzerr.ErrIndexNotFound
	ErrUnseekable              = mzerr.ErrUnseekable
	ErrChecksumMismatch        = mzerr.ErrChecksumMismatch
	ErrReversedStream          = mzerr.ErrReversedStream
)

// ParseError is an alias for mzerr.ParseError, so a caller catching a
// parse failure from any SpectrumSource doesn't need to know which
// sub-package produced it.
type ParseError = mzerr.ParseError
