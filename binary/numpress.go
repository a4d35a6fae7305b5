package binary

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Numpress is a family of lossy compression schemes designed for
// monotone or bounded-range MS arrays (SPEC_FULL.md §4.2). This module
// implements the three variants the spec names — linear, slof, pic — as a
// second-order-prediction + zigzag/varint residual coding for linear, a
// log-transform + fixed-width quantization for slof, and integer rounding
// + zigzag/varint coding (no prediction) for pic. This preserves
// the algorithmic shape of the reference MSNumpress schemes (second-order
// linear prediction of monotone doubles; logarithmic quantization of
// intensities; integer rounding of peak-picked intensities) without
// claiming byte-level compatibility with the external MSNumpress wire
// format, which this module does not interoperate with.

const defaultNumpressScale = 1e5 // gives ~1e-5 absolute quantization step, well under the 1ppm relative tolerance for typical m/z magnitudes

// EncodeNumpressLinear encodes a monotone (or near-monotone) slice of
// doubles using second-order linear prediction over a fixed-point
// quantization, per SPEC_FULL.md §4.2. scale selects the fixed-point
// precision; 0 selects defaultNumpressScale.
func EncodeNumpressLinear(data []float64, scale float64) []byte {
	if scale == 0 {
		scale = defaultNumpressScale
	}
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out[:8], math.Float64bits(scale))
	if len(data) == 0 {
		return out
	}

	quantized := make([]int64, len(data))
	for i, v := range data {
		quantized[i] = int64(math.Round(v * scale))
	}

	buf := make([]byte, binary.MaxVarintLen64)
	appendVarint := func(x int64) {
		n := binary.PutVarint(buf, x)
		out = append(out, buf[:n]...)
	}

	appendVarint(quantized[0])
	if len(quantized) > 1 {
		appendVarint(quantized[1])
	}
	for i := 2; i < len(quantized); i++ {
		predicted := 2*quantized[i-1] - quantized[i-2]
		residual := quantized[i] - predicted
		appendVarint(residual)
	}
	return out
}

// DecodeNumpressLinear is the inverse of EncodeNumpressLinear.
func DecodeNumpressLinear(buf []byte) ([]float64, error) {
	if len(buf) < 8 {
		return nil, fmt.Errorf("binary: numpress-linear buffer too short")
	}
	scale := math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))
	rest := buf[8:]
	if len(rest) == 0 {
		return nil, nil
	}

	quantized := make([]int64, 0, len(rest)/2)
	for len(rest) > 0 {
		v, n := binary.Varint(rest)
		if n <= 0 {
			return nil, fmt.Errorf("binary: numpress-linear malformed varint")
		}
		rest = rest[n:]
		if len(quantized) < 2 {
			quantized = append(quantized, v)
			continue
		}
		predicted := 2*quantized[len(quantized)-1] - quantized[len(quantized)-2]
		quantized = append(quantized, predicted+v)
	}

	out := make([]float64, len(quantized))
	for i, q := range quantized {
		out[i] = float64(q) / scale
	}
	return out, nil
}

const defaultSlofScale = 2000.0 // quantization steps per natural-log unit; keeps error well under 0.0005 log

// EncodeNumpressSlof encodes intensity-like data via a log transform
// followed by fixed-width uint16 quantization, matching the reference
// slof scheme's targeting of the dynamic range of MS intensities.
func EncodeNumpressSlof(data []float64, scale float64) []byte {
	if scale == 0 {
		scale = defaultSlofScale
	}
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out[:8], math.Float64bits(scale))
	buf := make([]byte, 2*len(data))
	for i, v := range data {
		logv := math.Log(v + 1)
		q := uint16(math.Round(logv * scale))
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], q)
	}
	return append(out, buf...)
}

// DecodeNumpressSlof is the inverse of EncodeNumpressSlof.
func DecodeNumpressSlof(buf []byte) ([]float64, error) {
	if len(buf) < 8 {
		return nil, fmt.Errorf("binary: numpress-slof buffer too short")
	}
	scale := math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))
	rest := buf[8:]
	if len(rest)%2 != 0 {
		return nil, fmt.Errorf("binary: numpress-slof buffer misaligned")
	}
	out := make([]float64, len(rest)/2)
	for i := range out {
		q := binary.LittleEndian.Uint16(rest[i*2 : i*2+2])
		out[i] = math.Exp(float64(q)/scale) - 1
	}
	return out, nil
}

// EncodeNumpressPic encodes integer-valued intensities by rounding to the
// nearest integer and zigzag/varint-coding the result — no fixed-point
// header is needed since pic does not scale.
func EncodeNumpressPic(data []float64) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	var out []byte
	for _, v := range data {
		n := binary.PutVarint(buf, int64(math.Round(v)))
		out = append(out, buf[:n]...)
	}
	return out
}

// DecodeNumpressPic is the inverse of EncodeNumpressPic.
func DecodeNumpressPic(buf []byte) ([]float64, error) {
	var out []float64
	rest := buf
	for len(rest) > 0 {
		v, n := binary.Varint(rest)
		if n <= 0 {
			return nil, fmt.Errorf("binary: numpress-pic malformed varint")
		}
		rest = rest[n:]
		out = append(out, float64(v))
	}
	return out, nil
}
