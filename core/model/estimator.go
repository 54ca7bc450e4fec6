package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor produces one prediction per row of X.
type Predictor interface {
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Scorer is implemented by models that report their own R² on a dataset.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor is the fitted estimator handed from training to evaluation.
// It is not mutated after Fit returns.
type Regressor interface {
	Fitter
	Predictor
	Scorer
	IsFitted() bool
}

// WeightExporter is implemented by models whose fitted state can be carried
// across process boundaries as ModelWeights.
type WeightExporter interface {
	ExportWeights() (*ModelWeights, error)
	ImportWeights(w *ModelWeights) error
}
