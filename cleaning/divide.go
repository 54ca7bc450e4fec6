package cleaning

import (
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/custsat/dataframe"
	"github.com/YuminosukeSato/custsat/performance"
	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
)

// Split is the four-way train/test partition. It is built once by Divide and
// must not be modified afterwards.
type Split struct {
	XTrain *dataframe.Frame
	XTest  *dataframe.Frame
	YTrain *mat.VecDense
	YTest  *mat.VecDense

	// Features lists the feature columns in design-matrix order.
	Features []string

	// LabelType is the storage the label was narrowed to.
	LabelType performance.DataType
}

// TrainMatrix returns the training design matrix.
func (s *Split) TrainMatrix() (*mat.Dense, error) {
	return s.XTrain.Matrix(s.Features...)
}

// TestMatrix returns the test design matrix.
func (s *Split) TestMatrix() (*mat.Dense, error) {
	return s.XTest.Matrix(s.Features...)
}

// Divide validates the label, narrows numeric storage and partitions rows.
type Divide struct {
	LabelColumn string

	// TestSize is the fraction of rows in the test partition, in (0, 1).
	TestSize float64

	Seed uint64
}

// DefaultDivide holds out 20% of rows with seed 42, labelled by review_score.
func DefaultDivide() Divide {
	return Divide{
		LabelColumn: "review_score",
		TestSize:    0.2,
		Seed:        42,
	}
}

// Name identifies the strategy in log records.
func (d Divide) Name() string { return "divide" }

// Handle implements Strategy. On any error no split is returned.
func (d Divide) Handle(df *dataframe.Frame) (*Split, error) {
	logger := log.GetLoggerWithName("cleaning").With(log.StrategyKey, d.Name())

	label, err := d.label(df)
	if err != nil {
		return nil, err
	}
	if d.TestSize <= 0 || d.TestSize >= 1 {
		return nil, errors.NewValidationError("test_size", "must be in (0, 1)", d.TestSize)
	}

	features := df.Clone()
	features.Drop(d.LabelColumn)
	if bad := features.NonNumeric(); len(bad) > 0 {
		return nil, errors.NewValueError("Divide",
			"non-numeric feature columns remain after preprocessing: "+strings.Join(bad, ", "))
	}
	if features.NumCols() == 0 {
		return nil, errors.NewValueError("Divide", "no feature columns besides '"+d.LabelColumn+"'")
	}

	n := df.NumRows()
	nTest := int(math.Ceil(d.TestSize * float64(n)))
	if nTest < 1 || n-nTest < 1 {
		return nil, errors.NewValueError("Divide",
			"not enough rows to split: need at least one train and one test row")
	}

	for _, c := range features.Columns() {
		performance.DowncastFloat32(c.Floats)
	}
	y := append([]float64(nil), label.Floats...)
	labelType := performance.NarrowLabel(y)

	logger.Info("Narrowed storage",
		log.DataTypeKey, labelType.String(),
		log.DataSizeKey, performance.FootprintBytes(n, features.NumCols(), performance.Float32)+
			performance.FootprintBytes(n, 1, labelType),
	)

	rng := rand.New(rand.NewPCG(d.Seed, d.Seed))
	perm := rng.Perm(n)
	testRows, trainRows := perm[:nTest], perm[nTest:]

	xTrain, err := features.Take(trainRows)
	if err != nil {
		return nil, err
	}
	xTest, err := features.Take(testRows)
	if err != nil {
		return nil, err
	}

	split := &Split{
		XTrain:    xTrain,
		XTest:     xTest,
		YTrain:    gather(y, trainRows),
		YTest:     gather(y, testRows),
		Features:  features.Names(),
		LabelType: labelType,
	}
	logger.Info("Split data",
		log.SamplesKey, n,
		log.FeaturesKey, len(split.Features),
		"train_rows", len(trainRows),
		"test_rows", len(testRows),
		log.RandomSeedKey, d.Seed,
	)
	return split, nil
}

func (d Divide) label(df *dataframe.Frame) (*dataframe.Column, error) {
	if !df.Has(d.LabelColumn) {
		return nil, errors.NewMissingColumnError("divide", d.LabelColumn, df.Names())
	}
	col, err := df.Column(d.LabelColumn)
	if err != nil {
		return nil, err
	}
	if !col.IsNumeric() {
		return nil, errors.NewValueError("Divide",
			"label column '"+d.LabelColumn+"' is "+col.Kind.String()+", not numeric")
	}
	return col, nil
}

func gather(values []float64, rows []int) *mat.VecDense {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = values[r]
	}
	return mat.NewVecDense(len(out), out)
}
