// Package log defines standard attribute keys for the training pipeline.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that records from different stages can be filtered and
// joined by the same fields.
package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "LinearRegression", "MedianImputer"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "cleaning", "training", "evaluation"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Pipeline Context
const (
	// RunIDKey identifies one execution of the training pipeline.
	RunIDKey = "pipeline.run_id"

	// StepKey names the pipeline stage emitting the record.
	// Examples: "ingest_data", "clean_data", "train_model", "evaluate_model"
	StepKey = "pipeline.step"

	// StrategyKey names the strategy variant selected for a stage.
	StrategyKey = "pipeline.strategy"

	// PathKey records the input path of the ingestion stage.
	PathKey = "data.path"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ColumnKey names a single column affected by an operation.
	ColumnKey = "data.column"

	// DataTypeKey specifies the storage type of the data being processed.
	// Examples: "float64", "float32", "int8"
	DataTypeKey = "data.type"

	// DataSizeKey indicates the memory size of the data in bytes.
	DataSizeKey = "data.size_bytes"
)

// Performance and Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// MSEKey records the mean squared error of an evaluation.
	MSEKey = "metrics.mse"

	// RMSEKey records the root mean squared error of an evaluation.
	RMSEKey = "metrics.rmse"

	// MAEKey records the mean absolute error of an evaluation.
	MAEKey = "metrics.mae"

	// R2ScoreKey records R² coefficient of determination for regression.
	// Range [-∞, 1.0], with 1.0 being perfect prediction.
	R2ScoreKey = "metrics.r2_score"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"

	PhaseIngestion     = "ingestion"
	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseEvaluation    = "evaluation"

	ErrorMissingColumn     = "MISSING_COLUMN"
	ErrorUnsupportedModel  = "UNSUPPORTED_MODEL"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
)
