package binary

import "fmt"

// DType is the byte-level element type of a DataArray's decoded form.
type DType int

const (
	DTypeUnknown DType = iota
	DTypeFloat32
	DTypeFloat64
	DTypeInt32
	DTypeInt64
	DTypeASCII
)

// Size returns the width in bytes of one element of d, or 0 for DTypeASCII
// (whose element width is not fixed) and DTypeUnknown.
func (d DType) Size() int {
	switch d {
	case DTypeFloat32, DTypeInt32:
		return 4
	case DTypeFloat64, DTypeInt64:
		return 8
	default:
		return 0
	}
}

func (d DType) String() string {
	switch d {
	case DTypeFloat32:
		return "f32"
	case DTypeFloat64:
		return "f64"
	case DTypeInt32:
		return "i32"
	case DTypeInt64:
		return "i64"
	case DTypeASCII:
		return "ascii"
	default:
		return "unknown"
	}
}

// widens reports whether a value of dtype `from` can be losslessly widened
// to `to` without a lossy conversion (e.g. f32->f64, i32->i64). Narrowing
// or cross-family conversions (e.g. f64->i64) are never considered safe
// here; the spec (§4.2) only requires the two widening directions it names.
func widens(from, to DType) bool {
	switch {
	case from == DTypeFloat32 && to == DTypeFloat64:
		return true
	case from == DTypeInt32 && to == DTypeInt64:
		return true
	case from == to:
		return true
	default:
		return false
	}
}

func (d DType) validate() error {
	switch d {
	case DTypeFloat32, DTypeFloat64, DTypeInt32, DTypeInt64, DTypeASCII:
		return nil
	default:
		return fmt.Errorf("binary: invalid dtype %v", int(d))
	}
}
