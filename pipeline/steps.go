// Package pipeline composes the ingestion, cleaning, training and evaluation
// stages into one training run.
//
// The stages are plain functions called in order by Run. Each one returns
// its error value unchanged; Run logs the failure once, with the step name,
// run id and duration attached.
package pipeline

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/custsat/cleaning"
	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/dataframe"
	"github.com/YuminosukeSato/custsat/evaluation"
	"github.com/YuminosukeSato/custsat/linear"
	"github.com/YuminosukeSato/custsat/pkg/log"
	"github.com/YuminosukeSato/custsat/training"
)

// Step names.
const (
	StepIngest   = "ingest_data"
	StepClean    = "clean_data"
	StepTrain    = "train_model"
	StepEvaluate = "evaluate_model"
	StepPlot     = "plot_predictions"
	StepSave     = "save_weights"
)

// Metrics are the test-partition scores of a trained model.
type Metrics struct {
	R2   float64 `json:"r2" yaml:"r2"`
	RMSE float64 `json:"rmse" yaml:"rmse"`
	MSE  float64 `json:"mse" yaml:"mse"`
	MAE  float64 `json:"mae" yaml:"mae"`
}

type runIDKey struct{}

// WithRunID attaches a run identifier that stage loggers record.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run identifier attached to ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

func stepLogger(ctx context.Context, step string) log.Logger {
	logger := log.GetLoggerWithName("pipeline").With(log.StepKey, step)
	if id := RunID(ctx); id != "" {
		logger = logger.With(log.RunIDKey, id)
	}
	return logger
}

// IngestData reads the CSV file at path.
func IngestData(ctx context.Context, path string, opts ...dataframe.ReadOption) (*dataframe.Frame, error) {
	logger := stepLogger(ctx, StepIngest).With(log.PathKey, path, log.PhaseKey, log.PhaseIngestion)

	logger.Info("Ingesting data")
	df, err := dataframe.ReadCSV(path, opts...)
	if err != nil {
		return nil, err
	}
	logger.Info("Ingested data",
		log.SamplesKey, df.NumRows(),
		log.FeaturesKey, df.NumCols(),
	)
	return df, nil
}

// CleanData runs preprocessing and then the train/test division.
func CleanData(ctx context.Context, df *dataframe.Frame, pre cleaning.Preprocess, div cleaning.Divide) (*cleaning.Split, error) {
	logger := stepLogger(ctx, StepClean).With(log.PhaseKey, log.PhasePreprocessing)

	cleaned, err := cleaning.Handle[*dataframe.Frame](df, pre)
	if err != nil {
		return nil, err
	}
	split, err := cleaning.Handle[*cleaning.Split](cleaned, div)
	if err != nil {
		return nil, err
	}
	logger.Info("Data cleaning completed",
		log.FeaturesKey, len(split.Features),
		"train_rows", split.XTrain.NumRows(),
		"test_rows", split.XTest.NumRows(),
	)
	return split, nil
}

// TrainModel fits the model selected by cfg on the training partition.
func TrainModel(ctx context.Context, split *cleaning.Split, cfg training.ModelNameConfig) (model.Regressor, error) {
	logger := stepLogger(ctx, StepTrain).With(log.PhaseKey, log.PhaseTraining, log.ModelNameKey, cfg.ModelName)

	trainer, err := training.NewTrainer(cfg, linear.WithFeatureNames(split.Features...))
	if err != nil {
		return nil, err
	}
	X, err := split.TrainMatrix()
	if err != nil {
		return nil, err
	}
	logger.Debug("Training model", log.SamplesKey, split.XTrain.NumRows())
	m, err := trainer.Train(X, split.YTrain)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// EvaluateModel scores m on the test partition.
func EvaluateModel(ctx context.Context, m model.Predictor, split *cleaning.Split) (Metrics, error) {
	metrics, _, err := evaluate(ctx, m, split)
	return metrics, err
}

func evaluate(ctx context.Context, m model.Predictor, split *cleaning.Split) (Metrics, *mat.VecDense, error) {
	logger := stepLogger(ctx, StepEvaluate).With(log.PhaseKey, log.PhaseEvaluation)

	X, err := split.TestMatrix()
	if err != nil {
		return Metrics{}, nil, err
	}
	pred, err := m.Predict(X)
	if err != nil {
		return Metrics{}, nil, err
	}

	metrics, err := Score(split.YTest, pred)
	if err != nil {
		return Metrics{}, nil, err
	}
	logger.Info("Model evaluated",
		log.R2ScoreKey, metrics.R2,
		log.RMSEKey, metrics.RMSE,
		log.MSEKey, metrics.MSE,
		log.MAEKey, metrics.MAE,
	)
	return metrics, pred, nil
}

// Score computes all Metrics for a set of predictions.
func Score(yTrue, yPred *mat.VecDense) (Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.MSE, err = (evaluation.MSE{}).CalculateScores(yTrue, yPred); err != nil {
		return Metrics{}, err
	}
	if m.R2, err = (evaluation.R2{}).CalculateScores(yTrue, yPred); err != nil {
		return Metrics{}, err
	}
	if m.RMSE, err = (evaluation.RMSE{}).CalculateScores(yTrue, yPred); err != nil {
		return Metrics{}, err
	}
	if m.MAE, err = (evaluation.MAE{}).CalculateScores(yTrue, yPred); err != nil {
		return Metrics{}, err
	}
	return m, nil
}
