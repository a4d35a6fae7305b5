// Package binary implements the binary data array codec (SPEC_FULL.md
// §4.2): typed buffers, dtype coercion, the base64+compression+numpress
// encode/decode pipeline, and 3-D ion-mobility array stacking.
package binary

import (
	"bytes"
	"encoding/base64"
	stdbinary "encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/msspeclib/mzdata/mzerr"
)

// EncodeBase64 is the last stage of the write-path pipeline: wire bytes to
// base64 text, as embedded in an mzML <binary> element. Per SPEC_FULL.md
// §4A, the standard library's encoder is used directly (justified there:
// no pack repo supplies a SIMD base64 codec).
func EncodeBase64(wire []byte) string {
	return base64.StdEncoding.EncodeToString(wire)
}

// DecodeBase64 is the first stage of the read-path pipeline.
func DecodeBase64(text string) ([]byte, error) {
	// Base64 in mzML files is occasionally wrapped across lines; trim
	// whitespace defensively since a strict decoder rejects embedded
	// newlines.
	return base64.StdEncoding.DecodeString(stripWhitespace(text))
}

func stripWhitespace(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' {
			continue
		}
		b = append(b, c)
	}
	return string(b)
}

// encodeTyped converts a float64 slice into little-endian dtype-typed
// bytes. Values are narrowed to float32/int32/int64 as the target dtype
// requires. Byte order is always written explicitly via encoding/binary,
// so the result is correct regardless of host endianness (SPEC_FULL.md
// §4.2's "readers MUST byte-swap on big-endian hosts" requirement is
// satisfied by never relying on a host-native read in the first place).
func encodeTyped(dtype DType, values []float64) ([]byte, error) {
	switch dtype {
	case DTypeFloat32:
		buf := make([]byte, 4*len(values))
		for i, v := range values {
			stdbinary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
		}
		return buf, nil
	case DTypeFloat64:
		buf := make([]byte, 8*len(values))
		for i, v := range values {
			stdbinary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
		}
		return buf, nil
	case DTypeInt32:
		buf := make([]byte, 4*len(values))
		for i, v := range values {
			stdbinary.LittleEndian.PutUint32(buf[i*4:], uint32(int32(v)))
		}
		return buf, nil
	case DTypeInt64:
		buf := make([]byte, 8*len(values))
		for i, v := range values {
			stdbinary.LittleEndian.PutUint64(buf[i*8:], uint64(int64(v)))
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("binary: cannot encode dtype %v from float64 values", dtype)
	}
}

// decodeTypedAsFloat64 converts little-endian dtype-typed bytes into a
// float64 slice, widening as needed.
func decodeTypedAsFloat64(dtype DType, raw []byte) ([]float64, error) {
	size := dtype.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: dtype %v has no fixed element width", mzerr.ErrDtypeMismatch, dtype)
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("binary: decoded length %d not a multiple of dtype width %d", len(raw), size)
	}
	n := len(raw) / size
	out := make([]float64, n)
	switch dtype {
	case DTypeFloat32:
		for i := 0; i < n; i++ {
			out[i] = float64(math.Float32frombits(stdbinary.LittleEndian.Uint32(raw[i*4:])))
		}
	case DTypeFloat64:
		for i := 0; i < n; i++ {
			out[i] = math.Float64frombits(stdbinary.LittleEndian.Uint64(raw[i*8:]))
		}
	case DTypeInt32:
		for i := 0; i < n; i++ {
			out[i] = float64(int32(stdbinary.LittleEndian.Uint32(raw[i*4:])))
		}
	case DTypeInt64:
		for i := 0; i < n; i++ {
			out[i] = float64(int64(stdbinary.LittleEndian.Uint64(raw[i*8:])))
		}
	default:
		return nil, fmt.Errorf("%w: dtype %v", mzerr.ErrDtypeMismatch, dtype)
	}
	return out, nil
}

// compressBytes runs the write-path compression/numpress stage. raw is
// the array's dtype-typed little-endian bytes. Numpress schemes recover
// the logical values with decodeTypedAsFloat64 before quantizing: linear
// and slof read raw as float64 (the only dtype they accept), while pic
// reads raw at the array's own dtype.
func compressBytes(scheme Compression, dtype DType, raw []byte, dictionaryID string) ([]byte, error) {
	if !scheme.supportsDtype(dtype) {
		return nil, fmt.Errorf("%w: %s does not support dtype %v", mzerr.ErrIncompatibleCompression, scheme, dtype)
	}
	switch scheme {
	case CompressionNone:
		return raw, nil
	case CompressionZlib:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", mzerr.ErrIO, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", mzerr.ErrIO, err)
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", mzerr.ErrIO, err)
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil
	case CompressionNumpressLinear:
		values, err := decodeTypedAsFloat64(DTypeFloat64, raw)
		if err != nil {
			return nil, err
		}
		return EncodeNumpressLinear(values, 0), nil
	case CompressionNumpressSlof:
		values, err := decodeTypedAsFloat64(DTypeFloat64, raw)
		if err != nil {
			return nil, err
		}
		return EncodeNumpressSlof(values, 0), nil
	case CompressionNumpressPic:
		values, err := decodeTypedAsFloat64(dtype, raw)
		if err != nil {
			return nil, err
		}
		return EncodeNumpressPic(values), nil
	case CompressionDictByteShuffle:
		width := dtype.Size()
		shuffled, err := byteShuffle(raw, width)
		if err != nil {
			return nil, err
		}
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", mzerr.ErrIO, err)
		}
		defer enc.Close()
		return enc.EncodeAll(shuffled, nil), nil
	default:
		return nil, fmt.Errorf("binary: unknown compression scheme %v", scheme)
	}
}

// decompressBytes runs the read-path decompression/numpress stage,
// returning little-endian dtype-typed bytes ready for
// decodeTypedAsFloat64.
func decompressBytes(scheme Compression, dtype DType, encoded []byte, dictionaryID string, dicts *DictionaryTable) ([]byte, error) {
	switch scheme {
	case CompressionNone:
		return encoded, nil
	case CompressionZlib:
		r, err := zlib.NewReader(bytes.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", mzerr.ErrIO, err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", mzerr.ErrIO, err)
		}
		return out, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", mzerr.ErrIO, err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(encoded, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", mzerr.ErrIO, err)
		}
		return out, nil
	case CompressionNumpressLinear:
		values, err := DecodeNumpressLinear(encoded)
		if err != nil {
			return nil, err
		}
		return encodeTyped(DTypeFloat64, values)
	case CompressionNumpressSlof:
		values, err := DecodeNumpressSlof(encoded)
		if err != nil {
			return nil, err
		}
		return encodeTyped(DTypeFloat64, values)
	case CompressionNumpressPic:
		values, err := DecodeNumpressPic(encoded)
		if err != nil {
			return nil, err
		}
		return encodeTyped(dtype, values)
	case CompressionDictByteShuffle:
		width, ok := dicts.Resolve(dictionaryID)
		if !ok {
			return nil, fmt.Errorf("%w: dictionary %q", mzerr.ErrUnknownDictionary, dictionaryID)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", mzerr.ErrIO, err)
		}
		defer dec.Close()
		shuffled, err := dec.DecodeAll(encoded, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", mzerr.ErrIO, err)
		}
		return byteUnshuffle(shuffled, width)
	default:
		return nil, fmt.Errorf("binary: unknown compression scheme %v", scheme)
	}
}
