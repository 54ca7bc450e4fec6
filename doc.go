// Package custsat trains a regression model that predicts the review score a
// customer gives an order.
//
// A run is four stages composed in order:
//
//   - ingest: read the order reviews CSV into a dataframe.Frame
//   - clean: drop timestamp columns, impute medians, fill text placeholders,
//     one-hot encode, narrow storage and split train/test
//   - train: fit the model named in the configuration
//   - evaluate: score the model on the test partition (R², RMSE, MSE)
//
// # Quick Start
//
//	cfg := pipeline.DefaultConfig()
//	cfg.DataPath = "data/olist_customers_dataset.csv"
//
//	res, err := pipeline.Run(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Metrics.R2, res.Metrics.RMSE)
//
// The same stages run as Temporal activities through the workflow and worker
// packages; cmd/custsat exposes both drivers on the command line.
//
// # Packages
//
//   - dataframe: column-oriented frame and CSV ingestion
//   - preprocessing: median/constant imputation and one-hot encoding
//   - performance: float32 and int8 storage narrowing
//   - cleaning: the preprocessing and train/test division strategies
//   - linear: least squares regression with exportable weights
//   - training: model selection by name
//   - metrics, evaluation: regression scores and their logging wrappers
//   - pipeline: configuration, stage functions and the Run driver
//   - report: predicted-vs-actual diagnostics plot
//   - workflow, worker: Temporal orchestration
//   - pkg/errors, pkg/log: structured errors and logging
package custsat
