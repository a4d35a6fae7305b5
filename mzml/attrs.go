package mzml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/mzerr"
)

// attrMap is a tolerant attribute lookup over one xml.StartElement's
// attribute list (SPEC_FULL.md §4.3 "Attribute handling"): reads are
// whitespace-tolerant, and a malformed required attribute surfaces
// MalformedAttribute rather than panicking the parser.
type attrMap map[string]string

func newAttrMap(start xml.StartElement) attrMap {
	m := make(attrMap, len(start.Attr))
	for _, a := range start.Attr {
		m[a.Name.Local] = strings.TrimSpace(a.Value)
	}
	return m
}

func (m attrMap) get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m attrMap) require(state, name string) (string, error) {
	v, ok := m[name]
	if !ok || v == "" {
		return "", mzerr.Wrap(mzerr.ErrMalformedAttribute, state, "", 0, fmt.Sprintf("missing required attribute %q", name))
	}
	return v, nil
}

func (m attrMap) int(state, name string, required bool) (int, error) {
	v, ok := m[name]
	if !ok || v == "" {
		if required {
			return 0, mzerr.Wrap(mzerr.ErrMalformedAttribute, state, "", 0, fmt.Sprintf("missing required attribute %q", name))
		}
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, mzerr.Wrap(mzerr.ErrMalformedAttribute, state, "", 0, fmt.Sprintf("attribute %q=%q is not an integer", name, v))
	}
	return n, nil
}

func (m attrMap) float(state, name string) (float64, bool, error) {
	v, ok := m[name]
	if !ok || v == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, mzerr.Wrap(mzerr.ErrMalformedAttribute, state, "", 0, fmt.Sprintf("attribute %q=%q is not a number", name, v))
	}
	return f, true, nil
}

// paramFromAttrs builds a cv.Param from a cvParam/userParam element's
// attributes. cvParam carries `accession`/`name`/`value`/`unitAccession`/
// `unitName`; userParam carries `name`/`value`/`type` only.
func paramFromAttrs(local string, m attrMap) (cv.Param, error) {
	name, _ := m.get("name")
	value, _ := m.get("value")

	switch local {
	case "cvParam":
		accessionText, err := m.require("cvParam", "accession")
		if err != nil {
			return cv.Param{}, err
		}
		accession, err := cv.ParseCURIE(accessionText)
		if err != nil {
			return cv.Param{}, mzerr.Wrap(mzerr.ErrMalformedAttribute, "cvParam", "", 0, err.Error())
		}
		declaredType, _ := m.get("type")
		p := cv.NewCVParam(name, accession, cv.ParseValue(value, declaredType))
		if unitAccText, ok := m.get("unitAccession"); ok && unitAccText != "" {
			unitAcc, err := cv.ParseCURIE(unitAccText)
			if err == nil {
				p = p.WithUnit(unitAcc)
			}
		}
		return p, nil
	case "userParam":
		declaredType, _ := m.get("type")
		return cv.NewUserParam(name, cv.ParseValue(value, declaredType)), nil
	default:
		return cv.Param{}, fmt.Errorf("mzml: %q is not a param element", local)
	}
}
