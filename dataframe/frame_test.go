package dataframe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/custsat/pkg/errors"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		NewNumericColumn("price", []float64{10, 20, math.NaN(), 40}),
		NewStringColumn("payment_type", Categorical,
			[]string{"credit_card", "boleto", "", "voucher"},
			[]bool{true, true, false, true}),
		NewNumericColumn("review_score", []float64{5, 4, 1, 3}),
	)
	require.NoError(t, err)
	return f
}

func TestNewRejectsRaggedColumns(t *testing.T) {
	_, err := New(
		NewNumericColumn("a", []float64{1, 2}),
		NewNumericColumn("b", []float64{1}),
	)
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 1, dimErr.Got)
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(
		NewNumericColumn("a", []float64{1}),
		NewNumericColumn("a", []float64{2}),
	)
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))
}

func TestFrameBasics(t *testing.T) {
	f := sampleFrame(t)

	assert.Equal(t, 4, f.NumRows())
	assert.Equal(t, 3, f.NumCols())
	assert.Equal(t, []string{"price", "payment_type", "review_score"}, f.Names())
	assert.True(t, f.Has("price"))
	assert.False(t, f.Has("freight_value"))
	assert.Equal(t, []string{"payment_type"}, f.NonNumeric())

	n, err := f.NullCount("price")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.NullCount("payment_type")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestColumnMissingReturnsMissingColumnError(t *testing.T) {
	f := sampleFrame(t)

	_, err := f.Column("freight_value")
	var mc *errors.MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "freight_value", mc.Column)
	assert.Equal(t, f.Names(), mc.Available)
}

func TestDropToleratesAbsentNames(t *testing.T) {
	f := sampleFrame(t)

	removed := f.Drop("payment_type", "does_not_exist")
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"price", "review_score"}, f.Names())

	c, err := f.Column("review_score")
	require.NoError(t, err)
	assert.Equal(t, 5.0, c.Floats[0])

	assert.Equal(t, 0, f.Drop("nothing"))
}

func TestReplaceAndInsert(t *testing.T) {
	f := sampleFrame(t)

	require.NoError(t, f.Replace(NewNumericColumn("price", []float64{1, 2, 3, 4})))
	c, _ := f.Column("price")
	assert.Equal(t, []float64{1, 2, 3, 4}, c.Floats)

	err := f.Replace(NewNumericColumn("price", []float64{1}))
	assert.Error(t, err)

	require.NoError(t, f.Insert(1,
		NewNumericColumn("x1", []float64{0, 0, 0, 0}),
		NewNumericColumn("x2", []float64{1, 1, 1, 1}),
	))
	assert.Equal(t, []string{"price", "x1", "x2", "payment_type", "review_score"}, f.Names())

	assert.Error(t, f.Insert(0, NewNumericColumn("x1", []float64{0, 0, 0, 0})))
}

func TestCloneIsIndependent(t *testing.T) {
	f := sampleFrame(t)
	c := f.Clone()

	col, _ := c.Column("price")
	col.Floats[0] = 999
	c.Drop("payment_type")

	orig, _ := f.Column("price")
	assert.Equal(t, 10.0, orig.Floats[0])
	assert.True(t, f.Has("payment_type"))
}

func TestTake(t *testing.T) {
	f := sampleFrame(t)

	sub, err := f.Take([]int{3, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.NumRows())

	price, _ := sub.Column("price")
	assert.Equal(t, []float64{40, 10}, price.Floats)
	pay, _ := sub.Column("payment_type")
	assert.Equal(t, []string{"voucher", "credit_card"}, pay.Strings)

	_, err = f.Take([]int{4})
	assert.Error(t, err)
}

func TestMatrixAndVector(t *testing.T) {
	f := sampleFrame(t)

	m, err := f.Matrix("price", "review_score")
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 20.0, m.At(1, 0))
	assert.Equal(t, 3.0, m.At(3, 1))
	assert.True(t, math.IsNaN(m.At(2, 0)))

	_, err = f.Matrix()
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr), "categorical column must be rejected")

	v, err := f.Vector("review_score")
	require.NoError(t, err)
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, 4.0, v.AtVec(1))

	_, err = f.Vector("payment_type")
	assert.Error(t, err)
}

func TestMatrixLargeFrameParallelFill(t *testing.T) {
	const rows = 3000
	a := make([]float64, rows)
	b := make([]float64, rows)
	for i := range a {
		a[i] = float64(i)
		b[i] = float64(-i)
	}
	f, err := New(NewNumericColumn("a", a), NewNumericColumn("b", b))
	require.NoError(t, err)

	m, err := f.Matrix()
	require.NoError(t, err)
	for i := 0; i < rows; i++ {
		require.Equal(t, float64(i), m.At(i, 0))
		require.Equal(t, float64(-i), m.At(i, 1))
	}
}
