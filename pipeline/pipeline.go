package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/custsat/cleaning"
	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/dataframe"
	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
	"github.com/YuminosukeSato/custsat/report"
)

// Result is the outcome of a successful Run.
type Result struct {
	RunID   string
	Metrics Metrics
	Model   model.Regressor
	Split   *cleaning.Split

	// Predictions are the model outputs on Split.XTest, row aligned with
	// Split.YTest.
	Predictions *mat.VecDense

	Durations map[string]time.Duration
}

// Run executes ingest, clean, train and evaluate in that order, then the
// optional plot and weights steps. The first failing stage aborts the run and
// its error is returned unchanged.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     uuid.NewString(),
		Durations: make(map[string]time.Duration, 6),
	}
	ctx = WithRunID(ctx, res.RunID)
	logger := log.GetLoggerWithName("pipeline").With(log.RunIDKey, res.RunID)
	logger.Info("Pipeline started",
		log.PathKey, cfg.DataPath,
		log.ModelNameKey, cfg.Model.ModelName,
		log.RandomSeedKey, cfg.RandomSeed,
	)

	df, err := runStep(ctx, res, StepIngest, func() (*dataframe.Frame, error) {
		return IngestData(ctx, cfg.DataPath, cfg.ReadOptions()...)
	})
	if err != nil {
		return nil, err
	}

	res.Split, err = runStep(ctx, res, StepClean, func() (*cleaning.Split, error) {
		return CleanData(ctx, df, cfg.Preprocess(), cfg.Divide())
	})
	if err != nil {
		return nil, err
	}

	res.Model, err = runStep(ctx, res, StepTrain, func() (model.Regressor, error) {
		return TrainModel(ctx, res.Split, cfg.Model)
	})
	if err != nil {
		return nil, err
	}

	type scored struct {
		metrics Metrics
		pred    *mat.VecDense
	}
	s, err := runStep(ctx, res, StepEvaluate, func() (scored, error) {
		m, pred, err := evaluate(ctx, res.Model, res.Split)
		return scored{m, pred}, err
	})
	if err != nil {
		return nil, err
	}
	res.Metrics, res.Predictions = s.metrics, s.pred

	if cfg.PlotPath != "" {
		_, err = runStep(ctx, res, StepPlot, func() (struct{}, error) {
			return struct{}{}, report.SavePredictionPlot(cfg.PlotPath, res.Split.YTest, res.Predictions,
				"review score: predicted vs actual")
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.WeightsPath != "" {
		_, err = runStep(ctx, res, StepSave, func() (*model.ModelWeights, error) {
			w, err := ExportWeights(res.Model)
			if err != nil {
				return nil, err
			}
			return w, SaveWeights(cfg.WeightsPath, w)
		})
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Pipeline completed",
		log.R2ScoreKey, res.Metrics.R2,
		log.RMSEKey, res.Metrics.RMSE,
		log.MSEKey, res.Metrics.MSE,
		log.MAEKey, res.Metrics.MAE,
	)
	return res, nil
}

// runStep runs one stage. Cancellation is only observed before the stage
// starts; panics from numeric code come back as PanicError.
func runStep[T any](ctx context.Context, res *Result, step string, fn func() (T, error)) (T, error) {
	logger := stepLogger(ctx, step)

	if err := ctx.Err(); err != nil {
		var zero T
		logger.Warn("Pipeline cancelled", log.ErrorTypeKey, err.Error())
		return zero, err
	}

	logger.Debug("Step started")
	start := time.Now()
	out, err := errors.SafeValue(step, fn)
	elapsed := time.Since(start)
	res.Durations[step] = elapsed

	if err != nil {
		fields := []any{log.DurationMsKey, elapsed.Milliseconds()}
		var unsupported *errors.UnsupportedModelError
		if errors.As(err, &unsupported) {
			fields = append(fields, log.ErrorCodeKey, log.ErrorUnsupportedModel)
		}
		logger.Error("Step failed", append([]any{err}, fields...)...)
		return out, err
	}
	logger.Info("Step completed", log.DurationMsKey, elapsed.Milliseconds())
	return out, nil
}
