// Package metrics provides the regression error measures used to evaluate a
// fitted model: MSE, RMSE, MAE and R².
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/custsat/pkg/errors"
)

// values は入力を検証し、yTrue と yPred を連続したスライスとして返す
func values(op string, yTrue, yPred *mat.VecDense) ([]float64, []float64, error) {
	if yTrue == nil || yPred == nil {
		return nil, nil, errors.NewValueError(op, "nil vector")
	}
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}

	t := mat.Col(nil, 0, yTrue)
	p := mat.Col(nil, 0, yPred)
	if err := errors.CheckNumericalStability(op+" y_true", t); err != nil {
		return nil, nil, err
	}
	if err := errors.CheckNumericalStability(op+" y_pred", p); err != nil {
		return nil, nil, err
	}
	return t, p, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	t, p, err := values("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := range t {
		diff := t[i] - p[i]
		sum += diff * diff
	}
	return sum / float64(len(t)), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
//
// RMSE は常に sqrt(MSE) と一致する。
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	t, p, err := values("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := range t {
		sum += math.Abs(t[i] - p[i])
	}
	return sum / float64(len(t)), nil
}

// R2Score は決定係数（R²）を計算する
//
// yTrue に分散がない場合、完全一致なら1.0、そうでなければ0.0を返し、
// 後者では UndefinedMetricWarning を発生させる。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	t, p, err := values("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	yMean := stat.Mean(t, nil)

	// 全変動（TSS）と残差変動（RSS）
	var tss, rss float64
	for i := range t {
		d := t[i] - yMean
		e := t[i] - p[i]
		tss += d * d
		rss += e * e
	}

	if tss == 0 {
		if rss == 0 {
			return 1, nil
		}
		errors.Warn(errors.NewUndefinedMetricWarning("r2_score", "no variance in y_true", 0))
		return 0, nil
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}
