package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/custsat/linear"
	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
)

func captureLogs(t *testing.T) *log.TestLogger {
	t.Helper()
	provider, _ := log.NewTestLoggerProvider(log.LevelDebug)
	log.SetProvider(provider)
	t.Cleanup(func() { log.SetProvider(log.NewZerologProvider(log.LevelInfo)) })
	return provider.Logger()
}

// y = 1 + 2*x1 - x2
func linearData() (*mat.Dense, *mat.VecDense) {
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
		2, 1,
		3, 2,
	})
	y := mat.NewVecDense(6, []float64{1, 3, 0, 2, 4, 5})
	return X, y
}

func TestNewTrainerAliases(t *testing.T) {
	for _, name := range []string{"linear_regression", "LinearRegression", "linear", " Linear "} {
		t.Run(name, func(t *testing.T) {
			trainer, err := NewTrainer(ModelNameConfig{ModelName: name})
			require.NoError(t, err)
			assert.Equal(t, LinearRegressionName, trainer.Name())
		})
	}
}

func TestNewTrainerUnsupportedModel(t *testing.T) {
	_, err := NewTrainer(ModelNameConfig{ModelName: "lightgbm"})
	require.Error(t, err)

	var unsupported *errors.UnsupportedModelError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "lightgbm", unsupported.ModelName)
	assert.Equal(t, []string{LinearRegressionName}, unsupported.Supported)
}

func TestTrainUnsupportedModelFailsBeforeFit(t *testing.T) {
	logs := captureLogs(t)

	// A design that would fail to fit must not be reached.
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	m, err := Train(X, y, ModelNameConfig{ModelName: "xgboost"})
	require.Error(t, err)
	assert.Nil(t, m)

	var unsupported *errors.UnsupportedModelError
	assert.True(t, errors.As(err, &unsupported))
	assert.True(t, logs.ContainsField(log.ErrorCodeKey, log.ErrorUnsupportedModel))
	assert.False(t, logs.ContainsMessage("Error in training model"))
}

func TestTrainLinearRegression(t *testing.T) {
	logs := captureLogs(t)
	X, y := linearData()

	m, err := Train(X, y, DefaultModelNameConfig(), linear.WithFeatureNames("x1", "x2"))
	require.NoError(t, err)
	require.True(t, m.IsFitted())

	reg, ok := m.(*linear.LinearRegression)
	require.True(t, ok)
	assert.InDelta(t, 1.0, reg.Intercept(), 1e-9)
	assert.InDeltaSlice(t, []float64{2, -1}, reg.Coef(), 1e-9)

	score, err := m.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)

	assert.True(t, logs.ContainsMessage("Model Trained"))
	assert.True(t, logs.ContainsField(log.ModelNameKey, LinearRegressionName))
	assert.True(t, logs.ContainsField(log.SamplesKey, float64(6)))

	entries, err := logs.GetLogEntries()
	require.NoError(t, err)
	var cond float64
	for _, e := range entries {
		if e["message"] == "Model Trained" {
			cond, _ = e["condition_number"].(float64)
		}
	}
	sv := reg.SingularValues()
	require.Len(t, sv, 2)
	assert.InDelta(t, sv[0]/sv[1], cond, 1e-9)
	assert.GreaterOrEqual(t, cond, 1.0)
}

func TestConditionNumber(t *testing.T) {
	tests := []struct {
		name string
		sv   []float64
		rank int
		want float64
		ok   bool
	}{
		{"full rank", []float64{4, 2, 1}, 3, 4, true},
		{"truncated", []float64{4, 2, 1e-20}, 2, 2, true},
		{"rank zero", []float64{0}, 0, 0, false},
		{"rank beyond values", []float64{1}, 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := conditionNumber(tt.sv, tt.rank)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrainFineTuningWarns(t *testing.T) {
	logs := captureLogs(t)
	X, y := linearData()

	cfg := DefaultModelNameConfig()
	cfg.FineTuning = true
	m, err := Train(X, y, cfg)
	require.NoError(t, err)
	assert.True(t, m.IsFitted())

	entries, err := logs.GetLogEntries()
	require.NoError(t, err)
	var warned bool
	for _, e := range entries {
		if e["level"] == "WARN" {
			warned = true
		}
	}
	assert.True(t, warned, "fine tuning should log a warning")
}

func TestTrainFitErrorIsReturnedUnchanged(t *testing.T) {
	logs := captureLogs(t)

	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(2, []float64{1, 2})

	_, err := Train(X, y, DefaultModelNameConfig())
	require.Error(t, err)

	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
	assert.True(t, logs.ContainsMessage("Error in training model"))
	assert.True(t, logs.ContainsField("level", "DEBUG"))
	assert.False(t, logs.ContainsField("level", "ERROR"), "the caller owns error reporting")
}
