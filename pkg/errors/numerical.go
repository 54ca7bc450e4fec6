package errors

import (
	"math"
)

// maxReportedValues bounds how many offending values are copied into an error.
const maxReportedValues = 10

// CheckNumericalStability checks if values contain NaN or Inf and returns a
// NumericalInstabilityError pointing at the first offending index.
func CheckNumericalStability(operation string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, collectUnstable(values[i:]), i)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, 0)
	}
	return nil
}

// CheckMatrix checks all values in a matrix for numerical instability.
// The reported index is the flattened row-major position of the first bad value.
func CheckMatrix(operation string, matrix interface {
	At(int, int) float64
	Dims() (int, int)
}) error {
	rows, cols := matrix.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewNumericalInstabilityError(operation, []float64{v}, i*cols+j)
			}
		}
	}
	return nil
}

func collectUnstable(values []float64) []float64 {
	var out []float64
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out = append(out, v)
			if len(out) >= maxReportedValues {
				break
			}
		}
	}
	return out
}
