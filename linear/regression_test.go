package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/pkg/errors"
)

func TestLinearRegressionRecoversExactCoefficients(t *testing.T) {
	// y = 2 + 3*x1 - 1*x2
	X := mat.NewDense(6, 2, []float64{
		1, 0,
		2, 1,
		3, 5,
		4, 2,
		5, 7,
		6, 3,
	})
	y := mat.NewVecDense(6, nil)
	for i := 0; i < 6; i++ {
		y.SetVec(i, 2+3*X.At(i, 0)-X.At(i, 1))
	}

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	assert.True(t, lr.IsFitted())
	assert.InDelta(t, 2.0, lr.Intercept(), 1e-9)
	coef := lr.Coef()
	require.Len(t, coef, 2)
	assert.InDelta(t, 3.0, coef[0], 1e-9)
	assert.InDelta(t, -1.0, coef[1], 1e-9)
	assert.Equal(t, 2, lr.Rank())
	assert.Equal(t, 2, lr.NFeatures())

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)

	pred, err := lr.Predict(mat.NewDense(1, 2, []float64{10, 4}))
	require.NoError(t, err)
	assert.InDelta(t, 28.0, pred.AtVec(0), 1e-9)
}

func TestLinearRegressionRankDeficientDesign(t *testing.T) {
	// the second column duplicates the first, as collinear indicators do
	X := mat.NewDense(5, 2, []float64{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
		5, 5,
	})
	y := mat.NewVecDense(5, []float64{3, 5, 7, 9, 11})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, 1, lr.Rank())

	// minimum-norm solution splits the slope evenly
	coef := lr.Coef()
	assert.InDelta(t, 1.0, coef[0], 1e-9)
	assert.InDelta(t, 1.0, coef[1], 1e-9)
	assert.InDelta(t, 1.0, lr.Intercept(), 1e-9)

	pred, err := lr.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.InDelta(t, y.AtVec(i), pred.AtVec(i), 1e-9)
	}
}

func TestLinearRegressionConstantFeature(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{7, 7, 7, 7})
	y := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, 0, lr.Rank())
	assert.Equal(t, []float64{0}, lr.Coef())
	assert.InDelta(t, 2.5, lr.Intercept(), 1e-12)
}

func TestLinearRegressionWithoutIntercept(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{2, 4, 6})

	lr := NewLinearRegression(WithFitIntercept(false), WithRcond(1e-12))
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, 0.0, lr.Intercept())
	assert.InDelta(t, 2.0, lr.Coef()[0], 1e-12)
}

func TestLinearRegressionErrors(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	t.Run("predict before fit", func(t *testing.T) {
		_, err := NewLinearRegression().Predict(X)
		var nf *errors.NotFittedError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("row mismatch", func(t *testing.T) {
		err := NewLinearRegression().Fit(X, mat.NewVecDense(2, []float64{1, 2}))
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 0, dimErr.Axis)
	})

	t.Run("multi-output y", func(t *testing.T) {
		err := NewLinearRegression().Fit(X, mat.NewDense(3, 2, nil))
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("nan in features", func(t *testing.T) {
		bad := mat.NewDense(3, 1, []float64{1, math.NaN(), 3})
		err := NewLinearRegression().Fit(bad, mat.NewVecDense(3, []float64{1, 2, 3}))
		var numErr *errors.NumericalInstabilityError
		require.True(t, errors.As(err, &numErr))
		assert.Equal(t, 1, numErr.Iteration)
	})

	t.Run("overflowing intercept", func(t *testing.T) {
		// A constant column leaves the coefficients at zero, so only the
		// intercept carries the overflowed label mean.
		ones := mat.NewDense(3, 1, []float64{1, 1, 1})
		huge := mat.NewVecDense(3, []float64{1.5e308, 1.5e308, 1.5e308})

		lr := NewLinearRegression()
		err := lr.Fit(ones, huge)
		var numErr *errors.NumericalInstabilityError
		require.True(t, errors.As(err, &numErr))
		assert.Equal(t, "LinearRegression.Fit intercept", numErr.Operation)
		assert.False(t, lr.IsFitted())
	})

	t.Run("feature count at predict", func(t *testing.T) {
		lr := NewLinearRegression()
		require.NoError(t, lr.Fit(X, mat.NewVecDense(3, []float64{1, 2, 4})))
		_, err := lr.Predict(mat.NewDense(1, 3, nil))
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 1, dimErr.Axis)
	})

	t.Run("feature names length", func(t *testing.T) {
		lr := NewLinearRegression(WithFeatureNames("only_one"))
		err := lr.Fit(X, mat.NewVecDense(3, []float64{1, 2, 4}))
		assert.Error(t, err)
	})
}

func TestScoreConstantTarget(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{5, 5, 5})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestExportImportWeights(t *testing.T) {
	X, y := createBenchmarkData(200, 3)
	lr := NewLinearRegression(WithFeatureNames("price", "freight_value", "product_weight_g"))
	require.NoError(t, lr.Fit(X, y))

	w, err := lr.ExportWeights()
	require.NoError(t, err)
	assert.Equal(t, ModelType, w.ModelType)
	assert.NotEmpty(t, w.Checksum)
	assert.Equal(t, []string{"price", "freight_value", "product_weight_g"}, w.Features)

	data, err := w.ToJSON()
	require.NoError(t, err)
	var decoded model.ModelWeights
	require.NoError(t, decoded.FromJSON(data))

	restored := NewLinearRegression()
	require.NoError(t, restored.ImportWeights(&decoded))
	assert.Equal(t, lr.Rank(), restored.Rank())

	want, err := lr.Predict(X)
	require.NoError(t, err)
	got, err := restored.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, got, 1e-12))

	decoded.Coefficients[0] += 1
	assert.Error(t, NewLinearRegression().ImportWeights(&decoded), "tampered weights must be rejected")

	other := w.Clone()
	other.ModelType = "lightgbm"
	assert.Error(t, NewLinearRegression().ImportWeights(other))

	_, err = NewLinearRegression().ExportWeights()
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}
