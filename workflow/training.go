// Package workflow runs the training pipeline under Temporal.
//
// TrainingWorkflow executes IngestAndClean, Train and Evaluate as separate
// activities. Only the request, a split summary, the weights and the metrics
// cross activity boundaries; each activity rebuilds the split from the
// request with the configured seed. Activities are attempted once; input
// errors come back as non-retryable application errors typed MissingColumn,
// UnsupportedModel, Validation or DataChanged.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/pipeline"
)

// ActivityTimeout bounds a single activity execution.
const ActivityTimeout = 10 * time.Minute

// TrainingWorkflow trains and evaluates one model.
func TrainingWorkflow(ctx workflow.Context, req TrainingRequest) (*TrainingResult, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "training.v", workflow.DefaultVersion, currentVersion)

	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError("invalid training request", ErrTypeValidation, err)
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: ActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	var a *Activities

	var split SplitSummary
	if err := workflow.ExecuteActivity(ctx, a.IngestAndClean, req).Get(ctx, &split); err != nil {
		logger.Error("IngestAndClean failed", "error", err)
		return nil, err
	}

	var weights model.ModelWeights
	if err := workflow.ExecuteActivity(ctx, a.Train, TrainInput{Request: req, Split: split}).Get(ctx, &weights); err != nil {
		logger.Error("Train failed", "error", err)
		return nil, err
	}

	var metrics pipeline.Metrics
	in := EvaluateInput{Request: req, Split: split, Weights: &weights}
	if err := workflow.ExecuteActivity(ctx, a.Evaluate, in).Get(ctx, &metrics); err != nil {
		logger.Error("Evaluate failed", "error", err)
		return nil, err
	}

	logger.Info("Training workflow completed", "r2", metrics.R2, "rmse", metrics.RMSE, "mae", metrics.MAE)
	return &TrainingResult{Split: split, Weights: &weights, Metrics: metrics}, nil
}
