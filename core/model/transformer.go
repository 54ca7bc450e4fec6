package model

import "github.com/YuminosukeSato/custsat/dataframe"

// ColumnTransformer learns per-column parameters and applies them.
//
// Transform may expand one column into several (one-hot encoding) so it
// returns a slice; imputers always return exactly one column.
type ColumnTransformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(col *dataframe.Column) error

	// Transform はデータを変換する
	Transform(col *dataframe.Column) ([]*dataframe.Column, error)

	IsFitted() bool
}
