// Package mzml implements the mzML parser and writer (SPEC_FULL.md §4.3,
// §4.5, §4.6): a push-driven XML state machine over encoding/xml's pull
// tokenizer, a random-access driver for indexed files, and a streaming
// writer that accumulates its own offset index.
package mzml

// DetailLevel controls how much of a spectrum/chromatogram's binary
// payload a parse call materializes (SPEC_FULL.md §4.3 "Detail levels").
type DetailLevel int

const (
	// DetailFull eagerly decodes every binary data array.
	DetailFull DetailLevel = iota
	// DetailLazy keeps binary data arrays encoded; decoding happens on
	// first access via binary.DataArray's own lazy-decode cache.
	DetailLazy
	// DetailMetadataOnly skips binary payloads entirely: DataArrays are
	// constructed with nil encoded bytes and must not be decoded.
	DetailMetadataOnly
)

func (d DetailLevel) String() string {
	switch d {
	case DetailFull:
		return "full"
	case DetailLazy:
		return "lazy"
	case DetailMetadataOnly:
		return "metadata-only"
	default:
		return "unknown"
	}
}
