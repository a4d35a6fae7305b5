package mzml

import (
	"fmt"

	"github.com/msspeclib/mzdata/binary"
	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/mzerr"
)

// buildBinaryArrayMap converts a <binaryDataArrayList> node into a
// *binary.BinaryArrayMap. defaultArrayLength is the enclosing
// spectrum/chromatogram's declared element count (used unless the
// individual array names its own). detail controls whether the wire
// bytes are even read off the element (DetailMetadataOnly skips them
// entirely, matching SPEC_FULL.md §4.3's per-call detail-level knob).
func buildBinaryArrayMap(listNode *node, groups *cv.GroupTable, dicts *binary.DictionaryTable, defaultArrayLength int, detail DetailLevel) (*binary.BinaryArrayMap, error) {
	m := binary.NewBinaryArrayMap()
	for _, arrNode := range listNode.all("binaryDataArray") {
		arr, err := buildDataArray(arrNode, groups, dicts, defaultArrayLength, detail)
		if err != nil {
			return nil, err
		}
		m.Add(arr)
	}
	return m, nil
}

func buildDataArray(arrNode *node, groups *cv.GroupTable, dicts *binary.DictionaryTable, defaultArrayLength int, detail DetailLevel) (*binary.DataArray, error) {
	params, _ := paramsOf(arrNode, groups)

	dtype, ok := dtypeOf(params)
	if !ok {
		return nil, mzerr.Wrap(mzerr.ErrMalformedAttribute, "binaryDataArray", "", 0, "no recognized dtype cvParam")
	}
	compression, _ := compressionOf(params) // CompressionNone default is correct when absent
	role, userName := roleOf(params)

	length := defaultArrayLength
	if n, err := arrNode.attrs.int("binaryDataArray", "arrayLength", false); err == nil && n > 0 {
		length = n
	}

	var unit cv.CURIE
	var hasUnit bool
	for _, p := range params {
		if p.HasAccession {
			if r, ok := roleAccessions[p.Accession.Accession]; ok && r == role {
				unit = p.Unit
				hasUnit = p.HasUnit
				break
			}
		}
	}

	var dictionaryID string
	if compression == binary.CompressionDictByteShuffle {
		if dict, ok := arrNode.attrs.get("dictionaryRef"); ok {
			dictionaryID = dict
		}
	}

	if detail == DetailMetadataOnly {
		arr := binary.NewDataArray(role, dtype, compression, nil, length)
		arr.UserName = userName
		arr.Unit, arr.HasUnit, arr.DictionaryID = unit, hasUnit, dictionaryID
		return arr, nil
	}

	binaryNode, ok := arrNode.first("binary")
	if !ok {
		return nil, mzerr.Wrap(mzerr.ErrMalformedXML, "binaryDataArray", "", 0, "missing <binary> element")
	}
	encoded, err := binary.DecodeBase64(binaryNode.text)
	if err != nil {
		return nil, mzerr.Wrap(mzerr.ErrIO, "binary", "", 0, err.Error())
	}

	arr := binary.NewDataArray(role, dtype, compression, encoded, length)
	arr.UserName = userName
	arr.Unit, arr.HasUnit, arr.DictionaryID = unit, hasUnit, dictionaryID

	if detail == DetailFull {
		if _, err := arr.Float64(dicts); err != nil {
			return nil, fmt.Errorf("mzml: eager decode of %s array: %w", role, err)
		}
	}
	return arr, nil
}
