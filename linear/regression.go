// Package linear implements ordinary least squares regression.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/core/parallel"
	"github.com/YuminosukeSato/custsat/pkg/errors"
)

// ModelType is the model_type written into exported weights.
const ModelType = "linear_regression"

const weightsVersion = "1.0.0"

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// LinearRegression は線形回帰モデル
//
// 係数は中心化したデータに対するSVDの最小ノルム解として求める。
// one-hot列のようにランクが落ちた計画行列でも失敗しない。
type LinearRegression struct {
	model.BaseEstimator

	fitIntercept bool
	rcond        float64
	features     []string

	coef      *mat.VecDense
	intercept float64
	nFeatures int
	rank      int
	singular  []float64
}

// NewLinearRegression は新しい線形回帰モデルを作成する
//
//	lr := linear.NewLinearRegression(linear.WithFitIntercept(true))
//	err := lr.Fit(X, y)
//	pred, err := lr.Predict(XTest)
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{fitIntercept: true}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LinearRegression.Fit")

	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	if len(lr.features) > 0 && len(lr.features) != c {
		return errors.NewDimensionError("LinearRegression.Fit", len(lr.features), c, 1)
	}
	if err := errors.CheckMatrix("LinearRegression.Fit X", X); err != nil {
		return err
	}
	if err := errors.CheckMatrix("LinearRegression.Fit y", y); err != nil {
		return err
	}

	xMean := make([]float64, c)
	var yMean float64
	if lr.fitIntercept {
		for j := 0; j < c; j++ {
			var sum float64
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			xMean[j] = sum / float64(r)
		}
		for i := 0; i < r; i++ {
			yMean += y.At(i, 0)
		}
		yMean /= float64(r)
	}

	// 中心化した X と y
	xc := mat.NewDense(r, c, nil)
	yc := mat.NewVecDense(r, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				xc.Set(i, j, X.At(i, j)-xMean[j])
			}
			yc.SetVec(i, y.At(i, 0)-yMean)
		}
	})

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return errors.NewModelError("LinearRegression.Fit", "SVD factorization failed", errors.ErrSingularMatrix)
	}

	rcond := lr.rcond
	if rcond <= 0 {
		rcond = eps * float64(max(r, c))
	}
	rank := svd.Rank(rcond)

	coef := mat.NewVecDense(c, nil)
	if rank > 0 {
		svd.SolveVecTo(coef, yc, rank)
	}
	if err := errors.CheckNumericalStability("LinearRegression.Fit coef", coef.RawVector().Data); err != nil {
		return err
	}

	intercept := 0.0
	if lr.fitIntercept {
		intercept = yMean - mat.Dot(mat.NewVecDense(c, xMean), coef)
	}
	if err := errors.CheckScalar("LinearRegression.Fit intercept", intercept); err != nil {
		return err
	}

	lr.coef = coef
	lr.intercept = intercept
	lr.nFeatures = c
	lr.rank = rank
	lr.singular = svd.Values(nil)
	lr.SetFitted()
	return nil
}

// machine epsilon for float64
var eps = math.Nextafter(1, 2) - 1

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := lr.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != lr.nFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.nFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewModelError("LinearRegression.Predict", "empty data", errors.ErrEmptyData)
	}

	// 予測: y = X * coef + intercept
	pred := mat.NewVecDense(r, nil)
	pred.MulVec(X, lr.coef)
	for i := 0; i < r; i++ {
		pred.SetVec(i, pred.AtVec(i)+lr.intercept)
	}
	if err := errors.CheckNumericalStability("LinearRegression.Predict", pred.RawVector().Data); err != nil {
		return nil, err
	}
	return pred, nil
}

// Score はモデルの決定係数（R²）を計算する
//
// y が定数の場合、完全一致なら1、そうでなければ0を返す。
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if err := lr.RequireFitted("LinearRegression", "Score"); err != nil {
		return 0, err
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, cy := y.Dims()
	if r != yPred.Len() {
		return 0, errors.NewDimensionError("LinearRegression.Score", yPred.Len(), r, 0)
	}
	if cy != 1 {
		return 0, errors.NewValueError("LinearRegression.Score", "y must be a column vector")
	}

	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	// 全変動 (TSS) と残差変動 (RSS)
	var tss, rss float64
	for i := 0; i < r; i++ {
		d := y.At(i, 0) - yMean
		e := y.At(i, 0) - yPred.AtVec(i)
		tss += d * d
		rss += e * e
	}

	if tss == 0 {
		if rss == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return 1 - rss/tss, nil
}

// Coef は学習された係数のコピーを返す
func (lr *LinearRegression) Coef() []float64 {
	if lr.coef == nil {
		return nil
	}
	return append([]float64(nil), lr.coef.RawVector().Data...)
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept
}

// Rank is the effective rank of the centered design matrix.
func (lr *LinearRegression) Rank() int {
	return lr.rank
}

// SingularValues returns the singular values of the centered design matrix
// in descending order.
func (lr *LinearRegression) SingularValues() []float64 {
	return append([]float64(nil), lr.singular...)
}

// NFeatures は学習時の特徴量の数を返す
func (lr *LinearRegression) NFeatures() int {
	return lr.nFeatures
}

// ExportWeights はモデルの重みをエクスポート（チェックサム付き）
func (lr *LinearRegression) ExportWeights() (*model.ModelWeights, error) {
	if err := lr.RequireFitted("LinearRegression", "ExportWeights"); err != nil {
		return nil, err
	}

	w := &model.ModelWeights{
		ModelType:    ModelType,
		Version:      weightsVersion,
		Coefficients: lr.Coef(),
		Intercept:    lr.intercept,
		Features:     append([]string(nil), lr.features...),
		Hyperparameters: map[string]interface{}{
			"fit_intercept": lr.fitIntercept,
			"rcond":         lr.rcond,
		},
		Metadata: map[string]interface{}{
			"rank":       lr.rank,
			"n_features": lr.nFeatures,
		},
		IsFitted: true,
	}
	w.Seal()
	return w, nil
}

// ImportWeights はエクスポートされた重みからモデルを復元する
func (lr *LinearRegression) ImportWeights(w *model.ModelWeights) error {
	if w == nil {
		return errors.NewValueError("LinearRegression.ImportWeights", "weights are nil")
	}
	if w.ModelType != ModelType {
		return errors.NewValueError("LinearRegression.ImportWeights",
			"model type mismatch: expected "+ModelType+", got "+w.ModelType)
	}
	if err := w.Validate(); err != nil {
		return errors.Wrap(err, "invalid model weights")
	}
	if !w.IsFitted {
		return errors.NewNotFittedError("LinearRegression", "ImportWeights")
	}

	if fit, ok := w.Hyperparameters["fit_intercept"].(bool); ok {
		lr.fitIntercept = fit
	}
	if rcond, ok := w.Hyperparameters["rcond"].(float64); ok {
		lr.rcond = rcond
	}
	lr.rank = len(w.Coefficients)
	switch rank := w.Metadata["rank"].(type) {
	case int:
		lr.rank = rank
	case float64: // after a JSON round trip
		lr.rank = int(rank)
	}

	lr.coef = mat.NewVecDense(len(w.Coefficients), append([]float64(nil), w.Coefficients...))
	lr.intercept = w.Intercept
	lr.nFeatures = len(w.Coefficients)
	lr.features = append([]string(nil), w.Features...)
	lr.singular = nil
	lr.SetFitted()
	return nil
}

var (
	_ model.Regressor      = (*LinearRegression)(nil)
	_ model.WeightExporter = (*LinearRegression)(nil)
)
