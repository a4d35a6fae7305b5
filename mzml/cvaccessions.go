package mzml

import (
	"github.com/msspeclib/mzdata/binary"
	"github.com/msspeclib/mzdata/cv"
)

// The PSI-MS CV terms that govern a <binaryDataArray>'s dtype, compression
// scheme, and semantic role. These are mzML-specific (not generic enough
// for cv/tables.go's cross-format compact enums), so the table lives here,
// grounded the same way cv/tables.go grounds its own accession tables: a
// static map from accession number to the module's own enum.
var dtypeAccessions = map[int]binary.DType{
	1000521: binary.DTypeFloat32,
	1000523: binary.DTypeFloat64,
	1000519: binary.DTypeInt32,
	1000522: binary.DTypeInt64,
}

var dtypeToAccession = func() map[binary.DType]int {
	m := make(map[binary.DType]int, len(dtypeAccessions))
	for acc, d := range dtypeAccessions {
		m[d] = acc
	}
	return m
}()

var compressionAccessions = map[int]binary.Compression{
	1000576: binary.CompressionNone,
	1000574: binary.CompressionZlib,
	1002312: binary.CompressionZstd,
	1002314: binary.CompressionNumpressLinear,
	1002316: binary.CompressionNumpressSlof,
	1002315: binary.CompressionNumpressPic,
	1002878: binary.CompressionDictByteShuffle,
}

var compressionToAccession = func() map[binary.Compression]int {
	m := make(map[binary.Compression]int, len(compressionAccessions))
	for acc, c := range compressionAccessions {
		m[c] = acc
	}
	return m
}()

var roleAccessions = map[int]binary.Role{
	1000514: binary.RoleMZ,
	1000515: binary.RoleIntensity,
	1000516: binary.RoleCharge,
	1000595: binary.RoleTime,
	1000617: binary.RoleWavelength,
	1002893: binary.RoleIonMobility,
}

var roleToAccession = func() map[binary.Role]int {
	m := make(map[binary.Role]int, len(roleAccessions))
	for acc, r := range roleAccessions {
		m[r] = acc
	}
	return m
}()

// dtypeOf inspects a binaryDataArray's params for the first recognized
// dtype cvParam.
func dtypeOf(params cv.ParamList) (binary.DType, bool) {
	for _, p := range params {
		if !p.HasAccession || p.Accession.Vocabulary != cv.VocabMS {
			continue
		}
		if d, ok := dtypeAccessions[p.Accession.Accession]; ok {
			return d, true
		}
	}
	return binary.DTypeUnknown, false
}

// compressionOf inspects a binaryDataArray's params for the first
// recognized compression cvParam.
func compressionOf(params cv.ParamList) (binary.Compression, bool) {
	for _, p := range params {
		if !p.HasAccession || p.Accession.Vocabulary != cv.VocabMS {
			continue
		}
		if c, ok := compressionAccessions[p.Accession.Accession]; ok {
			return c, true
		}
	}
	return binary.CompressionNone, false
}

// roleOf inspects a binaryDataArray's params for the first recognized
// array-role cvParam, falling back to a user-defined role named by the
// first userParam present.
func roleOf(params cv.ParamList) (role binary.Role, userName string) {
	for _, p := range params {
		if p.HasAccession && p.Accession.Vocabulary == cv.VocabMS {
			if r, ok := roleAccessions[p.Accession.Accession]; ok {
				return r, ""
			}
		}
	}
	for _, p := range params {
		if !p.HasAccession {
			return "", p.Name
		}
	}
	return "", ""
}
