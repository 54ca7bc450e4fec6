// Package training selects and fits a regression model by name.
package training

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/linear"
	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
)

// LinearRegressionName is the canonical selector of the linear model.
const LinearRegressionName = "linear_regression"

// ModelNameConfig selects the model variant to train.
type ModelNameConfig struct {
	ModelName string `yaml:"name" json:"model_name"`

	// FineTuning is accepted for configuration compatibility. No
	// hyperparameter search exists, so enabling it only logs a warning.
	FineTuning bool `yaml:"fine_tuning" json:"fine_tuning"`
}

// DefaultModelNameConfig selects linear regression without fine tuning.
func DefaultModelNameConfig() ModelNameConfig {
	return ModelNameConfig{ModelName: LinearRegressionName}
}

// Trainer fits one model variant.
type Trainer interface {
	Train(X, y mat.Matrix) (model.Regressor, error)
	Name() string
}

// LinearRegressionTrainer fits ordinary least squares in a single
// deterministic call.
type LinearRegressionTrainer struct {
	Options []linear.Option
}

// Name implements Trainer.
func (LinearRegressionTrainer) Name() string { return LinearRegressionName }

// Train implements Trainer.
func (t LinearRegressionTrainer) Train(X, y mat.Matrix) (model.Regressor, error) {
	logger := log.GetLoggerWithName("training").With(log.ModelNameKey, t.Name())

	reg := linear.NewLinearRegression(t.Options...)
	if err := reg.Fit(X, y); err != nil {
		logger.Debug("Error in training model", err, log.OperationKey, log.OperationFit)
		return nil, err
	}

	r, c := X.Dims()
	fields := []any{
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		"rank", reg.Rank(),
	}
	if cond, ok := conditionNumber(reg.SingularValues(), reg.Rank()); ok {
		fields = append(fields, "condition_number", cond)
	}
	logger.Info("Model Trained", fields...)
	return reg, nil
}

// conditionNumber is the ratio of the largest to the smallest singular value
// kept by the rank cutoff. It is undefined for a rank-zero design.
func conditionNumber(sv []float64, rank int) (float64, bool) {
	if rank == 0 || rank > len(sv) || sv[rank-1] == 0 {
		return 0, false
	}
	return sv[0] / sv[rank-1], true
}

var aliases = map[string]string{
	"linear_regression": LinearRegressionName,
	"linearregression":  LinearRegressionName,
	"linear":            LinearRegressionName,
}

// SupportedModels lists the canonical model names NewTrainer accepts.
func SupportedModels() []string {
	return []string{LinearRegressionName}
}

// NewTrainer resolves cfg.ModelName to a Trainer. Unknown names fail with an
// UnsupportedModelError; opts configure the linear model.
func NewTrainer(cfg ModelNameConfig, opts ...linear.Option) (Trainer, error) {
	name, ok := aliases[strings.ToLower(strings.TrimSpace(cfg.ModelName))]
	if !ok {
		return nil, errors.NewUnsupportedModelError(cfg.ModelName, SupportedModels())
	}

	if cfg.FineTuning {
		log.GetLoggerWithName("training").Warn("Fine tuning requested but not supported; training with defaults",
			log.ModelNameKey, name,
		)
	}

	switch name {
	case LinearRegressionName:
		return LinearRegressionTrainer{Options: opts}, nil
	default:
		return nil, errors.NewUnsupportedModelError(cfg.ModelName, SupportedModels())
	}
}

// Train selects a trainer for cfg and fits it. The model-name check happens
// before any fit is attempted.
func Train(X, y mat.Matrix, cfg ModelNameConfig, opts ...linear.Option) (model.Regressor, error) {
	trainer, err := NewTrainer(cfg, opts...)
	if err != nil {
		log.GetLoggerWithName("training").Debug("Model selection failed", err,
			log.ModelNameKey, cfg.ModelName,
			log.ErrorCodeKey, log.ErrorUnsupportedModel,
		)
		return nil, err
	}
	return trainer.Train(X, y)
}
