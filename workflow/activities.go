package workflow

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/YuminosukeSato/custsat/cleaning"
	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/linear"
	"github.com/YuminosukeSato/custsat/pipeline"
	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
	"github.com/YuminosukeSato/custsat/training"
)

// Application error types surfaced to workflow callers.
const (
	ErrTypeMissingColumn    = "MissingColumn"
	ErrTypeUnsupportedModel = "UnsupportedModel"
	ErrTypeValidation       = "Validation"
	ErrTypeDataChanged      = "DataChanged"
)

// Activities runs the pipeline stages as Temporal activities.
type Activities struct{}

// NewActivities creates the training activities.
func NewActivities() *Activities {
	return &Activities{}
}

// IngestAndClean reads the dataset, builds the train/test split and returns
// its summary.
func (a *Activities) IngestAndClean(ctx context.Context, req TrainingRequest) (*SplitSummary, error) {
	split, err := rebuild(ctx, req)
	if err != nil {
		return nil, err
	}
	s := Summarize(split)
	return &s, nil
}

// Train rebuilds the split, fits the selected model and exports its
// weights. The weights are also written to req.WeightsPath when set.
func (a *Activities) Train(ctx context.Context, in TrainInput) (*model.ModelWeights, error) {
	split, err := rebuildExpected(ctx, in.Request, in.Split)
	if err != nil {
		return nil, err
	}

	m, err := pipeline.TrainModel(ctx, split, in.Request.Model)
	if err != nil {
		return nil, classify(err)
	}
	w, err := pipeline.ExportWeights(m)
	if err != nil {
		return nil, err
	}
	if in.Request.WeightsPath != "" {
		if err := pipeline.SaveWeights(in.Request.WeightsPath, w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Evaluate rebuilds the split, restores the model from its weights and
// scores it on the test partition.
func (a *Activities) Evaluate(ctx context.Context, in EvaluateInput) (pipeline.Metrics, error) {
	if in.Weights == nil {
		return pipeline.Metrics{}, classify(errors.NewValidationError("weights", "must not be nil", nil))
	}
	m, err := restore(in.Weights)
	if err != nil {
		return pipeline.Metrics{}, classify(err)
	}
	split, err := rebuildExpected(ctx, in.Request, in.Split)
	if err != nil {
		return pipeline.Metrics{}, err
	}

	metrics, err := pipeline.EvaluateModel(ctx, m, split)
	if err != nil {
		return pipeline.Metrics{}, err
	}

	log.GetLoggerWithName("workflow").Info("Model evaluated",
		log.ModelNameKey, in.Weights.ModelType,
		log.R2ScoreKey, metrics.R2,
		log.RMSEKey, metrics.RMSE,
		log.MSEKey, metrics.MSE,
		log.MAEKey, metrics.MAE,
	)
	return metrics, nil
}

func rebuild(ctx context.Context, req TrainingRequest) (*cleaning.Split, error) {
	cfg := req.Config()
	df, err := pipeline.IngestData(ctx, cfg.DataPath, cfg.ReadOptions()...)
	if err != nil {
		return nil, classify(err)
	}
	split, err := pipeline.CleanData(ctx, df, cfg.Preprocess(), cfg.Divide())
	if err != nil {
		return nil, classify(err)
	}
	return split, nil
}

// rebuildExpected rebuilds the split and fails if it differs from the one
// IngestAndClean summarized, which means the file changed in between.
func rebuildExpected(ctx context.Context, req TrainingRequest, want SplitSummary) (*cleaning.Split, error) {
	split, err := rebuild(ctx, req)
	if err != nil {
		return nil, err
	}
	if got := Summarize(split); got != want {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("dataset %s changed during the workflow: split %+v, expected %+v", req.DataPath, got, want),
			ErrTypeDataChanged, nil)
	}
	return split, nil
}

func restore(w *model.ModelWeights) (model.Predictor, error) {
	switch w.ModelType {
	case linear.ModelType:
		lr := linear.NewLinearRegression()
		if err := lr.ImportWeights(w); err != nil {
			return nil, err
		}
		return lr, nil
	default:
		return nil, errors.NewUnsupportedModelError(w.ModelType, training.SupportedModels())
	}
}

// classify marks input errors as non-retryable application errors so that
// callers can match them by type.
func classify(err error) error {
	var (
		missing     *errors.MissingColumnError
		unsupported *errors.UnsupportedModelError
		invalid     *errors.ValidationError
	)
	switch {
	case errors.As(err, &missing):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeMissingColumn, err)
	case errors.As(err, &unsupported):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeUnsupportedModel, err)
	case errors.As(err, &invalid):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeValidation, err)
	default:
		return err
	}
}
