// Package preprocessing provides column transformers used by the cleaning
// stage: median and constant imputation and one-hot encoding.
package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/dataframe"
	"github.com/YuminosukeSato/custsat/pkg/errors"
)

// MedianImputer はnumeric列の欠損値を中央値で補完する
type MedianImputer struct {
	model.BaseEstimator

	// Column は学習に使った列名
	Column string

	// Median は観測値の中央値
	Median float64

	// NObserved は学習時の非欠損値の数
	NObserved int
}

// NewMedianImputer は新しいMedianImputerを作成する
//
//	imp := preprocessing.NewMedianImputer()
//	filled, err := imp.FitTransform(col)
func NewMedianImputer() *MedianImputer {
	return &MedianImputer{}
}

// Fit は観測値から中央値を計算する
//
// 偶数個の場合は中央2値の平均を取る。観測値が1つもない列は0で補完し、
// UndefinedMetricWarning を発生させる。
func (m *MedianImputer) Fit(col *dataframe.Column) error {
	if !col.IsNumeric() {
		return errors.NewValueError("MedianImputer.Fit",
			"column '"+col.Name+"' is "+col.Kind.String()+", median imputation needs numeric data")
	}

	observed := make([]float64, 0, col.Len())
	for _, v := range col.Floats {
		if !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}

	m.Column = col.Name
	m.NObserved = len(observed)
	if len(observed) == 0 {
		m.Median = 0
		errors.Warn(errors.NewUndefinedMetricWarning("median",
			"column '"+col.Name+"' has no observed values", 0))
		m.SetFitted()
		return nil
	}

	sort.Float64s(observed)
	// Empirical yields the lower middle element for even counts.
	median := stat.Quantile(0.5, stat.Empirical, observed, nil)
	if n := len(observed); n%2 == 0 {
		median = (median + observed[n/2]) / 2
	}
	m.Median = median
	m.SetFitted()
	return nil
}

// Transform は欠損値を中央値で置き換えた新しい列を返す
func (m *MedianImputer) Transform(col *dataframe.Column) ([]*dataframe.Column, error) {
	if err := m.RequireFitted("MedianImputer", "Transform"); err != nil {
		return nil, err
	}
	if !col.IsNumeric() {
		return nil, errors.NewValueError("MedianImputer.Transform",
			"column '"+col.Name+"' is "+col.Kind.String()+", not numeric")
	}

	out := col.Clone()
	for i, v := range out.Floats {
		if math.IsNaN(v) {
			out.Floats[i] = m.Median
		}
	}
	return []*dataframe.Column{out}, nil
}

// FitTransform はFitとTransformを同時に実行する
func (m *MedianImputer) FitTransform(col *dataframe.Column) (*dataframe.Column, error) {
	if err := m.Fit(col); err != nil {
		return nil, err
	}
	out, err := m.Transform(col)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// ConstantImputer fills missing cells of a non-numeric column with a literal.
type ConstantImputer struct {
	model.BaseEstimator

	Value string
}

// NewConstantImputer returns an imputer that writes value into missing cells.
func NewConstantImputer(value string) *ConstantImputer {
	return &ConstantImputer{Value: value}
}

// Fit only checks the column kind; the fill value is fixed at construction.
func (c *ConstantImputer) Fit(col *dataframe.Column) error {
	if col.IsNumeric() {
		return errors.NewValueError("ConstantImputer.Fit",
			"column '"+col.Name+"' is numeric, constant imputation expects text")
	}
	c.SetFitted()
	return nil
}

// Transform returns a copy of col with every missing cell set to Value.
func (c *ConstantImputer) Transform(col *dataframe.Column) ([]*dataframe.Column, error) {
	if err := c.RequireFitted("ConstantImputer", "Transform"); err != nil {
		return nil, err
	}
	if col.IsNumeric() {
		return nil, errors.NewValueError("ConstantImputer.Transform",
			"column '"+col.Name+"' is numeric")
	}

	out := col.Clone()
	for i, ok := range out.Valid {
		if !ok {
			out.Strings[i] = c.Value
			out.Valid[i] = true
		}
	}
	return []*dataframe.Column{out}, nil
}

// FitTransform はFitとTransformを同時に実行する
func (c *ConstantImputer) FitTransform(col *dataframe.Column) (*dataframe.Column, error) {
	if err := c.Fit(col); err != nil {
		return nil, err
	}
	out, err := c.Transform(col)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

var (
	_ model.ColumnTransformer = (*MedianImputer)(nil)
	_ model.ColumnTransformer = (*ConstantImputer)(nil)
)
