package performance

import "github.com/YuminosukeSato/custsat/core/parallel"

// DowncastFloat32 rounds every value through float32 in place. NaN survives.
func DowncastFloat32(values []float64) {
	parallel.ParallelizeWithThreshold(len(values), parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			values[i] = float64(float32(values[i]))
		}
	})
}

// NarrowLabel picks the narrowest lossless storage for a label column: Int8
// when every value is an integer in [-128, 127], otherwise Float32. Float32
// narrowing is applied to values in place.
func NarrowLabel(values []float64) DataType {
	if len(values) > 0 && allInt8(values) {
		return Int8
	}
	DowncastFloat32(values)
	return Float32
}

func allInt8(values []float64) bool {
	for _, v := range values {
		if !fitsInt8(v) {
			return false
		}
	}
	return true
}
