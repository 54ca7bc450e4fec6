package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/dataframe"
	"github.com/YuminosukeSato/custsat/pkg/errors"
)

// OneHotEncoder expands a non-numeric column into 0/1 indicator columns,
// one per observed level. Output columns are named "<column>_<level>" and
// follow the sorted level order.
type OneHotEncoder struct {
	model.BaseEstimator

	// DropFirst omits the indicator of the first sorted level so that the
	// remaining indicators are not collinear with an intercept.
	DropFirst bool

	Column string
	Levels []string
}

// NewOneHotEncoder は新しいOneHotEncoderを作成する
func NewOneHotEncoder(dropFirst bool) *OneHotEncoder {
	return &OneHotEncoder{DropFirst: dropFirst}
}

// Fit learns the sorted set of present levels.
func (e *OneHotEncoder) Fit(col *dataframe.Column) error {
	if col.IsNumeric() {
		return errors.NewValueError("OneHotEncoder.Fit",
			"column '"+col.Name+"' is numeric, nothing to encode")
	}

	seen := make(map[string]struct{})
	for i, s := range col.Strings {
		if col.Valid[i] {
			seen[s] = struct{}{}
		}
	}
	levels := make([]string, 0, len(seen))
	for s := range seen {
		levels = append(levels, s)
	}
	sort.Strings(levels)

	e.Column = col.Name
	e.Levels = levels
	e.SetFitted()
	return nil
}

// OutputNames returns the names of the columns Transform produces.
func (e *OneHotEncoder) OutputNames() []string {
	levels := e.encodedLevels()
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = e.Column + "_" + l
	}
	return names
}

func (e *OneHotEncoder) encodedLevels() []string {
	if e.DropFirst && len(e.Levels) > 0 {
		return e.Levels[1:]
	}
	return e.Levels
}

// Transform emits one indicator column per encoded level. Missing cells and
// levels unseen during Fit encode as all zeros.
func (e *OneHotEncoder) Transform(col *dataframe.Column) ([]*dataframe.Column, error) {
	if err := e.RequireFitted("OneHotEncoder", "Transform"); err != nil {
		return nil, err
	}
	if col.IsNumeric() {
		return nil, errors.NewValueError("OneHotEncoder.Transform",
			"column '"+col.Name+"' is numeric")
	}

	levels := e.encodedLevels()
	names := e.OutputNames()
	position := make(map[string]int, len(levels))
	out := make([]*dataframe.Column, len(levels))
	for k, l := range levels {
		position[l] = k
		out[k] = dataframe.NewNumericColumn(names[k], make([]float64, col.Len()))
	}

	for i, s := range col.Strings {
		if !col.Valid[i] {
			continue
		}
		if k, ok := position[s]; ok {
			out[k].Floats[i] = 1
		}
	}
	return out, nil
}

// FitTransform はFitとTransformを同時に実行する
func (e *OneHotEncoder) FitTransform(col *dataframe.Column) ([]*dataframe.Column, error) {
	if err := e.Fit(col); err != nil {
		return nil, err
	}
	return e.Transform(col)
}

var _ model.ColumnTransformer = (*OneHotEncoder)(nil)
