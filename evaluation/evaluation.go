// Package evaluation scores predictions against held-out labels.
//
// Each Evaluation wraps one routine from the metrics package and adds the
// logging expected of a pipeline stage. Failures are returned without
// wrapping.
package evaluation

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/custsat/metrics"
	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
)

// Evaluation computes one scalar score from true and predicted labels.
type Evaluation interface {
	CalculateScores(yTrue, yPred *mat.VecDense) (float64, error)
	Name() string
}

// MSE scores with the mean squared error.
type MSE struct{}

// Name implements Evaluation.
func (MSE) Name() string { return "mse" }

// CalculateScores implements Evaluation.
func (e MSE) CalculateScores(yTrue, yPred *mat.VecDense) (float64, error) {
	return calculate("Mean Squared Error", log.MSEKey, metrics.MSE, yTrue, yPred)
}

// RMSE scores with the root mean squared error.
type RMSE struct{}

// Name implements Evaluation.
func (RMSE) Name() string { return "rmse" }

// CalculateScores implements Evaluation.
func (e RMSE) CalculateScores(yTrue, yPred *mat.VecDense) (float64, error) {
	return calculate("Root Mean Squared Error", log.RMSEKey, metrics.RMSE, yTrue, yPred)
}

// MAE scores with the mean absolute error.
type MAE struct{}

// Name implements Evaluation.
func (MAE) Name() string { return "mae" }

// CalculateScores implements Evaluation.
func (e MAE) CalculateScores(yTrue, yPred *mat.VecDense) (float64, error) {
	return calculate("Mean Absolute Error", log.MAEKey, metrics.MAE, yTrue, yPred)
}

// R2 scores with the coefficient of determination.
type R2 struct{}

// Name implements Evaluation.
func (R2) Name() string { return "r2" }

// CalculateScores implements Evaluation.
func (e R2) CalculateScores(yTrue, yPred *mat.VecDense) (float64, error) {
	return calculate("R2 Score", log.R2ScoreKey, metrics.R2Score, yTrue, yPred)
}

func calculate(
	label, key string,
	fn func(yTrue, yPred *mat.VecDense) (float64, error),
	yTrue, yPred *mat.VecDense,
) (float64, error) {
	logger := log.GetLoggerWithName("evaluation")
	logger.Info("Calculating " + label)

	score, err := fn(yTrue, yPred)
	if err != nil {
		logger.Debug("Error in calculating "+label, err)
		return 0, err
	}

	logger.Info(label, key, score)
	return score, nil
}

var registry = map[string]Evaluation{
	MSE{}.Name():  MSE{},
	RMSE{}.Name(): RMSE{},
	MAE{}.Name():  MAE{},
	R2{}.Name():   R2{},
}

// ByName returns the evaluation registered under name ("mse", "rmse", "r2").
func ByName(name string) (Evaluation, error) {
	if e, ok := registry[name]; ok {
		return e, nil
	}
	return nil, errors.NewValueError("evaluation.ByName", "unknown metric '"+name+"' (known: "+knownNames()+")")
}

func knownNames() string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
