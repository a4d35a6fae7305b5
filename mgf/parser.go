// Package mgf implements the Mascot Generic Format parser and writer
// (SPEC_FULL.md §4.4, §4.5): a line-oriented state machine over
// BEGIN IONS/END IONS-delimited spectrum blocks, recognizing the fixed
// header-field vocabulary (TITLE, PEPMASS, CHARGE, RTINSECONDS, SCANS)
// and treating everything else as either a generic header param or a
// peak line. Grounded on the teacher's decodeText: both read a
// delimiter-bounded run of KEY=VALUE-shaped tokens and dispatch on key
// name, generalized here from FCS's single $-prefixed delimiter byte to
// MGF's BEGIN IONS/END IONS block markers.
package mgf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/mzerr"
	"github.com/msspeclib/mzdata/spectrum"
)

// Decoder reads a sequence of spectra from an MGF stream.
type Decoder struct {
	scanner  *bufio.Scanner
	preamble cv.ParamList
	index    int
	building bool
}

// NewDecoder wraps r for line-oriented MGF parsing.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{scanner: bufio.NewScanner(r)}
}

// Preamble returns the KEY=VALUE lines read before the first BEGIN IONS,
// accepted as global defaults per SPEC_FULL.md §4.4. Only populated once
// Next has been called at least once.
func (d *Decoder) Preamble() cv.ParamList { return d.preamble }

// Next returns the next spectrum, or io.EOF once the stream is exhausted.
// MS level is forced to 2, continuity to centroid, and polarity left
// unknown unless a header line states otherwise — MGF carries no
// dedicated polarity field, so a POLARITY= line (occasionally emitted by
// some instrument vendors) is the only source for it.
func (d *Decoder) Next() (*spectrum.Spectrum, error) {
	var s *spectrum.Spectrum
	var peaks spectrum.CentroidPeakList

	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "BEGIN IONS":
			if d.building {
				return nil, mzerr.Wrap(mzerr.ErrMalformedXML, "mgf", "", 0, "BEGIN IONS encountered inside an open spectrum block")
			}
			d.building = true
			s = &spectrum.Spectrum{Index: d.index, MSLevel: 2, Continuity: spectrum.ContinuityCentroid}
			peaks = nil

		case line == "END IONS":
			if !d.building {
				continue
			}
			d.building = false
			if s.ID == "" {
				s.ID = fmt.Sprintf("index=%d", s.Index)
			}
			s.Centroided = peaks
			d.index++
			return s, nil

		case d.building:
			if key, value, ok := splitHeaderLine(line); ok {
				applyHeaderField(s, key, value)
				continue
			}
			peak, err := parsePeakLine(line)
			if err != nil {
				return nil, err
			}
			peaks = append(peaks, peak)

		default:
			if key, value, ok := splitHeaderLine(line); ok {
				d.preamble = append(d.preamble, cv.NewUserParam(strings.ToLower(key), cv.ParseValue(value, "")))
			}
		}
	}
	if err := d.scanner.Err(); err != nil {
		return nil, mzerr.Wrap(mzerr.ErrIO, "mgf", "", 0, err.Error())
	}
	return nil, io.EOF
}

// splitHeaderLine recognizes a "KEY=VALUE" header line: a non-empty,
// non-numeric key followed by '='. Peak lines ("123.4 56.7") never match,
// since their first whitespace-delimited field is numeric and contains no
// '=' at all.
func splitHeaderLine(line string) (key, value string, ok bool) {
	eq := strings.IndexByte(line, '=')
	if eq <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:eq])
	if key == "" {
		return "", "", false
	}
	if _, err := strconv.ParseFloat(key, 64); err == nil {
		return "", "", false
	}
	return strings.ToUpper(key), strings.TrimSpace(line[eq+1:]), true
}

func applyHeaderField(s *spectrum.Spectrum, key, value string) {
	switch key {
	case "TITLE":
		s.ID = value
	case "PEPMASS":
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return
		}
		mz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return
		}
		ion := spectrum.SelectedIon{MZ: mz, HasMZ: true}
		if len(fields) > 1 {
			if inten, err := strconv.ParseFloat(fields[1], 64); err == nil {
				ion.Intensity, ion.HasIntensity = inten, true
			}
		}
		ensurePrecursorIon(s).SelectedIons = []spectrum.SelectedIon{ion}
	case "CHARGE":
		charge, ok := parseCharge(value)
		if !ok {
			return
		}
		prec := ensurePrecursorIon(s)
		if len(prec.SelectedIons) == 0 {
			prec.SelectedIons = []spectrum.SelectedIon{{}}
		}
		prec.SelectedIons[0].Charge, prec.SelectedIons[0].HasCharge = charge, true
	case "RTINSECONDS":
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return
		}
		seconds, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return
		}
		if len(s.Description.Scans) == 0 {
			s.Description.Scans = []spectrum.ScanDescription{{}}
		}
		s.Description.Scans[0].StartTime = seconds / 60
		s.Description.Scans[0].HasStartTime = true
	case "SCANS":
		s.Description.Params = append(s.Description.Params, cv.NewUserParam("scans", cv.NewString(value)))
	case "POLARITY":
		switch strings.ToLower(value) {
		case "+", "positive":
			s.Polarity = spectrum.PolarityPositive
		case "-", "negative":
			s.Polarity = spectrum.PolarityNegative
		}
	default:
		s.Description.Params = append(s.Description.Params, cv.NewUserParam(strings.ToLower(key), cv.ParseValue(value, "")))
	}
}

// ensurePrecursorIon returns the spectrum's first precursor, creating one
// if absent — MGF names at most one precursor per spectrum.
func ensurePrecursorIon(s *spectrum.Spectrum) *spectrum.Precursor {
	if len(s.Description.Precursors) == 0 {
		s.Description.Precursors = []spectrum.Precursor{{}}
	}
	return &s.Description.Precursors[0]
}

// parseCharge accepts the sign-leading ("+2", "-2") and sign-trailing
// ("2+", "2-") forms (SPEC_FULL.md §4.4, §8 S4); a comma/space-separated
// charge range takes only its first entry.
func parseCharge(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if idx := strings.IndexAny(value, ", "); idx > 0 {
		value = value[:idx]
	}
	if value == "" {
		return 0, false
	}
	sign, digits := 1, value
	switch {
	case strings.HasPrefix(value, "+"):
		digits = value[1:]
	case strings.HasPrefix(value, "-"):
		sign, digits = -1, value[1:]
	case strings.HasSuffix(value, "+"):
		digits = value[:len(value)-1]
	case strings.HasSuffix(value, "-"):
		sign, digits = -1, value[:len(value)-1]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return sign * n, true
}

// parsePeakLine parses "m/z intensity [charge]"; a trailing charge field,
// when present, is not retained (CentroidPeak carries no per-peak charge).
func parsePeakLine(line string) (spectrum.CentroidPeak, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return spectrum.CentroidPeak{}, mzerr.Wrap(mzerr.ErrMalformedNumber, "peak", "", 0, fmt.Sprintf("expected at least 2 fields, got %q", line))
	}
	mz, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return spectrum.CentroidPeak{}, mzerr.Wrap(mzerr.ErrMalformedNumber, "peak", "", 0, err.Error())
	}
	intensity, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return spectrum.CentroidPeak{}, mzerr.Wrap(mzerr.ErrMalformedNumber, "peak", "", 0, err.Error())
	}
	return spectrum.CentroidPeak{MZ: mz, Intensity: intensity}, nil
}
