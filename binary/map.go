package binary

import "fmt"

// BinaryArrayMap is an ordered collection of DataArrays sharing a common
// element count, keyed by role (SPEC_FULL.md §4.2/§3). Order is preserved
// from the source so a writer can round-trip array order without needing a
// canonical sort.
type BinaryArrayMap struct {
	arrays []*DataArray
}

// NewBinaryArrayMap wraps a slice of arrays. The slice is not copied; the
// caller should not mutate it afterward.
func NewBinaryArrayMap(arrays ...*DataArray) *BinaryArrayMap {
	return &BinaryArrayMap{arrays: arrays}
}

// Add appends an array to the map, preserving insertion order.
func (m *BinaryArrayMap) Add(a *DataArray) { m.arrays = append(m.arrays, a) }

// Get returns the first array with the given role, or nil if absent.
func (m *BinaryArrayMap) Get(role Role) *DataArray {
	for _, a := range m.arrays {
		if a.Name == role {
			return a
		}
	}
	return nil
}

// GetUser returns the first user-defined array with the given name, or nil.
func (m *BinaryArrayMap) GetUser(name string) *DataArray {
	for _, a := range m.arrays {
		if a.UserName == name {
			return a
		}
	}
	return nil
}

// All returns every array in the map, in insertion order.
func (m *BinaryArrayMap) All() []*DataArray { return m.arrays }

// Len returns the declared element count of the map's first array, or 0 if
// the map is empty. Callers that need to assert all arrays agree should use
// CheckLengths.
func (m *BinaryArrayMap) Len() int {
	if len(m.arrays) == 0 {
		return 0
	}
	return m.arrays[0].Len()
}

// CheckLengths verifies every array in the map declares the same element
// count, returning an error naming the first mismatch found.
func (m *BinaryArrayMap) CheckLengths() error {
	if len(m.arrays) == 0 {
		return nil
	}
	want := m.arrays[0].Len()
	for _, a := range m.arrays[1:] {
		if a.Len() != want {
			return fmt.Errorf("binary: array length mismatch: %s has %d elements, want %d", a.Name, a.Len(), want)
		}
	}
	return nil
}

// BinaryArrayMap3D generalizes BinaryArrayMap to ion-mobility frame data
// (SPEC_FULL.md §11): a sequence of scans, each carrying its own
// BinaryArrayMap, stacked along a frame axis. Grounded on the same
// ordered-slice-of-arrays shape as BinaryArrayMap, one level up.
type BinaryArrayMap3D struct {
	scans []*BinaryArrayMap
}

// NewBinaryArrayMap3D wraps a slice of per-scan array maps.
func NewBinaryArrayMap3D(scans ...*BinaryArrayMap) *BinaryArrayMap3D {
	return &BinaryArrayMap3D{scans: scans}
}

// NumScans returns the number of stacked scans.
func (m *BinaryArrayMap3D) NumScans() int { return len(m.scans) }

// Scan returns the BinaryArrayMap at index i.
func (m *BinaryArrayMap3D) Scan(i int) *BinaryArrayMap { return m.scans[i] }

// Stack collapses a BinaryArrayMap3D's per-scan m/z and intensity arrays
// into a single pair of flat float64 slices plus a scan-boundary index,
// suitable for bulk numeric processing across the whole frame.
func Stack(m *BinaryArrayMap3D, dicts *DictionaryTable) (mz, intensity []float64, scanBoundaries []int, err error) {
	scanBoundaries = make([]int, 0, len(m.scans)+1)
	scanBoundaries = append(scanBoundaries, 0)
	for _, scan := range m.scans {
		mzArr := scan.Get(RoleMZ)
		intArr := scan.Get(RoleIntensity)
		if mzArr == nil || intArr == nil {
			return nil, nil, nil, fmt.Errorf("binary: stack requires both m/z and intensity arrays per scan")
		}
		mzVals, err := mzArr.Float64(dicts)
		if err != nil {
			return nil, nil, nil, err
		}
		intVals, err := intArr.Float64(dicts)
		if err != nil {
			return nil, nil, nil, err
		}
		if len(mzVals) != len(intVals) {
			return nil, nil, nil, fmt.Errorf("binary: stack scan has mismatched m/z (%d) and intensity (%d) lengths", len(mzVals), len(intVals))
		}
		mz = append(mz, mzVals...)
		intensity = append(intensity, intVals...)
		scanBoundaries = append(scanBoundaries, len(mz))
	}
	return mz, intensity, scanBoundaries, nil
}

// Unstack is the inverse of Stack: given flat m/z and intensity slices plus
// the scan-boundary index Stack produced, it rebuilds per-scan DataArrays
// using the given dtype/compression for both roles.
func Unstack(mz, intensity []float64, scanBoundaries []int, dtype DType, compression Compression) (*BinaryArrayMap3D, error) {
	if len(mz) != len(intensity) {
		return nil, fmt.Errorf("binary: unstack requires equal-length m/z (%d) and intensity (%d) slices", len(mz), len(intensity))
	}
	if len(scanBoundaries) < 1 {
		return nil, fmt.Errorf("binary: unstack requires at least one scan boundary")
	}
	scans := make([]*BinaryArrayMap, 0, len(scanBoundaries)-1)
	for i := 0; i < len(scanBoundaries)-1; i++ {
		start, end := scanBoundaries[i], scanBoundaries[i+1]
		if start < 0 || end > len(mz) || start > end {
			return nil, fmt.Errorf("binary: unstack invalid scan boundary [%d:%d] against length %d", start, end, len(mz))
		}
		mzArr, err := NewDataArrayFromFloat64(RoleMZ, dtype, compression, mz[start:end])
		if err != nil {
			return nil, err
		}
		intArr, err := NewDataArrayFromFloat64(RoleIntensity, dtype, compression, intensity[start:end])
		if err != nil {
			return nil, err
		}
		scans = append(scans, NewBinaryArrayMap(mzArr, intArr))
	}
	return NewBinaryArrayMap3D(scans...), nil
}
