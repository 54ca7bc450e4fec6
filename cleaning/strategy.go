// Package cleaning turns an ingested frame into a train/test split.
//
// Each transform is a Strategy with a single Handle method. Handle runs a
// strategy and returns its error value unchanged so callers can still match
// it with errors.As. The failure is recorded at debug level only; the caller
// that owns the run reports it.
package cleaning

import (
	"fmt"

	"github.com/YuminosukeSato/custsat/dataframe"
	"github.com/YuminosukeSato/custsat/pkg/log"
)

// Strategy is one cleaning transform producing T from a frame.
type Strategy[T any] interface {
	Handle(df *dataframe.Frame) (T, error)
}

// Handle runs s on df. Errors are returned as-is.
func Handle[T any](df *dataframe.Frame, s Strategy[T]) (T, error) {
	logger := log.GetLoggerWithName("cleaning").With(log.StrategyKey, strategyName(s))

	out, err := s.Handle(df)
	if err != nil {
		logger.Debug("Error in handling data", err)
		var zero T
		return zero, err
	}
	return out, nil
}

func strategyName(s any) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
