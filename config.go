package mzdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/msspeclib/mzdata/binary"
)

// ReaderConfig is the plain-struct configuration surface for opening a
// reader (SPEC_FULL.md §6 "Configuration surface"): the detail level new
// spectra are materialized at.
type ReaderConfig struct {
	DetailLevel DetailLevel `yaml:"detail_level"`
}

// ReaderOption configures a ReaderConfig.
type ReaderOption func(*ReaderConfig)

// WithDetailLevel sets the detail level a reader materializes spectra at.
func WithDetailLevel(level DetailLevel) ReaderOption {
	return func(c *ReaderConfig) { c.DetailLevel = level }
}

// NewReaderConfig builds a ReaderConfig from functional options, defaulting
// to DetailLazy per SPEC_FULL.md §6.
func NewReaderConfig(opts ...ReaderOption) ReaderConfig {
	c := ReaderConfig{DetailLevel: DetailLazy}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LoadReaderConfig unmarshals a YAML document at path into a ReaderConfig,
// using the same snake_cased field names as the programmatic options
// (SPEC_FULL.md §2A/§6).
func LoadReaderConfig(path string) (ReaderConfig, error) {
	c := NewReaderConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("mzdata: reading reader config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("mzdata: parsing reader config %s: %w", path, err)
	}
	return c, nil
}

// WriterConfig is the plain-struct configuration surface for opening a
// writer: per-role default compression, a GenerateIndex flag (not read by
// NewWriter; see WithGenerateIndex), and a spectrum-count hint for writers that must
// declare a count before observing every spectrum (SPEC_FULL.md §6).
type WriterConfig struct {
	MZCompression        binary.Compression `yaml:"mz_compression"`
	IntensityCompression binary.Compression `yaml:"intensity_compression"`
	IntegerCompression   binary.Compression `yaml:"integer_compression"`
	GenerateIndex        bool               `yaml:"generate_index"`
	SpectrumCountHint    int                `yaml:"spectrum_count_hint"`
}

// WriterOption configures a WriterConfig.
type WriterOption func(*WriterConfig)

// WithGenerateIndex sets WriterConfig.GenerateIndex (default true).
// NewWriter does not read this field: the mzML writer always emits the
// indexedmzML trailer, and MGF output has no index.
func WithGenerateIndex(enabled bool) WriterOption {
	return func(c *WriterConfig) { c.GenerateIndex = enabled }
}

// WithWriterSpectrumCountHint sets the declared spectrum count a writer
// emits before observing every spectrum.
func WithWriterSpectrumCountHint(n int) WriterOption {
	return func(c *WriterConfig) { c.SpectrumCountHint = n }
}

// NewWriterConfig builds a WriterConfig from functional options,
// defaulting to the per-role compression SPEC_FULL.md §6 names: zlib for
// both m/z (f64) and intensity (f32) arrays, none for integer arrays.
func NewWriterConfig(opts ...WriterOption) WriterConfig {
	c := WriterConfig{
		MZCompression:        binary.CompressionZlib,
		IntensityCompression: binary.CompressionZlib,
		IntegerCompression:   binary.CompressionNone,
		GenerateIndex:        true,
		SpectrumCountHint:    -1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LoadWriterConfig unmarshals a YAML document at path into a WriterConfig.
func LoadWriterConfig(path string) (WriterConfig, error) {
	c := NewWriterConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("mzdata: reading writer config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("mzdata: parsing writer config %s: %w", path, err)
	}
	return c, nil
}
