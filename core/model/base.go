package model

import "github.com/YuminosukeSato/custsat/pkg/errors"

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// String returns the state as used in log records.
func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not_fitted"
}

// BaseEstimator は全てのモデルと変換器の基底となる構造体
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// State returns the current fitted state.
func (e *BaseEstimator) State() EstimatorState {
	return e.state
}

// RequireFitted returns a NotFittedError naming the model and method unless
// the estimator has been fitted.
func (e *BaseEstimator) RequireFitted(modelName, method string) error {
	if e.state != Fitted {
		return errors.NewNotFittedError(modelName, method)
	}
	return nil
}
