package binary

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// byteShuffle rearranges width-byte elements from row-major
// (e0b0,e0b1,...,e0bW-1, e1b0,e1b1,...) into planar
// (e0b0,e1b0,e2b0,..., e0b1,e1b1,...) order, the same transform HDF5's
// shuffle filter applies: it groups like-significance bytes together so a
// general-purpose compressor sees longer runs.
func byteShuffle(data []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("binary: invalid shuffle width %d", width)
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("binary: shuffle input length %d not a multiple of width %d", len(data), width)
	}
	n := len(data) / width
	out := make([]byte, len(data))
	for elem := 0; elem < n; elem++ {
		for b := 0; b < width; b++ {
			out[b*n+elem] = data[elem*width+b]
		}
	}
	return out, nil
}

// byteUnshuffle is the inverse of byteShuffle.
func byteUnshuffle(data []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("binary: invalid shuffle width %d", width)
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("binary: unshuffle input length %d not a multiple of width %d", len(data), width)
	}
	n := len(data) / width
	out := make([]byte, len(data))
	for elem := 0; elem < n; elem++ {
		for b := 0; b < width; b++ {
			out[elem*width+b] = data[b*n+elem]
		}
	}
	return out, nil
}

// DictionaryTable resolves dictionary ids carried as a param on a
// dict+byte-shuffle-compressed DataArray. A dictionary is, for the
// purposes of this codec, simply a declared element width (the shuffle
// transform's only parameter); real deployments may also key codebooks off
// the id, but this module only needs the width to round-trip.
type DictionaryTable struct {
	widths map[string]int
}

// NewDictionaryTable returns an empty dictionary resolver.
func NewDictionaryTable() *DictionaryTable {
	return &DictionaryTable{widths: make(map[string]int)}
}

// Define registers a dictionary id's element width.
func (t *DictionaryTable) Define(id string, width int) {
	t.widths[id] = width
}

// Resolve looks up a dictionary id's element width.
func (t *DictionaryTable) Resolve(id string) (int, bool) {
	w, ok := t.widths[id]
	return w, ok
}

// NewDictionary registers a fresh dictionary of the given element width,
// generating a random id via github.com/google/uuid when a writer creates
// one and the caller didn't supply one (SPEC_FULL.md §4A).
func (t *DictionaryTable) NewDictionary(width int) string {
	id := uuid.New().String()
	t.Define(id, width)
	return id
}

// dictionaryFile is the YAML document shape a DictionaryTable persists to
// and loads from (SPEC_FULL.md §11 "numpress dictionary table
// persistence"): dictionary id -> element width, the only parameter this
// codec's dictionaries carry.
type dictionaryFile struct {
	Dictionaries map[string]int `yaml:"dictionaries"`
}

// Save writes t's (id -> width) entries to path as YAML.
func (t *DictionaryTable) Save(path string) error {
	doc := dictionaryFile{Dictionaries: t.widths}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("binary: marshaling dictionary table: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("binary: writing dictionary table %s: %w", path, err)
	}
	return nil
}

// LoadDictionaryTable reads a YAML dictionary table previously written by
// Save, resolvable at decode time against dict+byte-shuffle-compressed
// arrays that reference the same ids (SPEC_FULL.md §4.2).
func LoadDictionaryTable(path string) (*DictionaryTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("binary: reading dictionary table %s: %w", path, err)
	}
	var doc dictionaryFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("binary: parsing dictionary table %s: %w", path, err)
	}
	t := NewDictionaryTable()
	for id, width := range doc.Dictionaries {
		t.Define(id, width)
	}
	return t, nil
}
