// Package performance narrows numeric storage after cleaning.
//
// Values keep living in float64 slices so gonum can consume them directly;
// narrowing rounds them through the smaller type so the model sees exactly
// what a float32 or int8 store would hold.
package performance

import "math"

// DataType represents the storage type of a numeric column.
type DataType int

const (
	Float64 DataType = iota
	Float32
	Int8
)

func (d DataType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	case Int8:
		return "int8"
	default:
		return "unknown"
	}
}

// Size returns the element size in bytes.
func (d DataType) Size() int {
	switch d {
	case Float32:
		return 4
	case Int8:
		return 1
	default:
		return 8
	}
}

// FootprintBytes is the storage a rows×cols block of dtype occupies.
func FootprintBytes(rows, cols int, dtype DataType) int64 {
	return int64(rows) * int64(cols) * int64(dtype.Size())
}

// fitsInt8 reports whether v is integral and representable as int8.
func fitsInt8(v float64) bool {
	return !math.IsNaN(v) && v == math.Trunc(v) && v >= math.MinInt8 && v <= math.MaxInt8
}
