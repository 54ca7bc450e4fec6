package cleaning

import (
	"sort"

	"github.com/YuminosukeSato/custsat/dataframe"
	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
	"github.com/YuminosukeSato/custsat/preprocessing"
)

// Preprocess prunes, imputes and encodes a frame.
//
// The input frame is never modified; Handle works on a clone.
type Preprocess struct {
	// DropColumns are removed when present. Absent names are ignored.
	DropColumns []string

	// MedianColumns are the numeric columns imputed with their median. Empty
	// means every numeric column. Listed columns that are absent are ignored.
	MedianColumns []string

	// Placeholders maps a text column to the literal written into its
	// missing cells.
	Placeholders map[string]string

	// DropFirst drops the first sorted level of every one-hot encoded column.
	DropFirst bool
}

// DefaultPreprocess returns the configuration used for the order reviews
// dataset.
func DefaultPreprocess() Preprocess {
	return Preprocess{
		DropColumns: []string{
			"order_approved_at",
			"order_delivered_carrier_date",
			"order_delivered_customer_date",
			"order_estimated_delivery_date",
			"order_purchase_timestamp",
			"customer_zip_code_prefix",
			"order_item_id",
		},
		Placeholders: map[string]string{
			"review_comment_message": "No review",
		},
		DropFirst: true,
	}
}

// Name identifies the strategy in log records.
func (p Preprocess) Name() string { return "preprocess" }

// Handle implements Strategy.
func (p Preprocess) Handle(df *dataframe.Frame) (*dataframe.Frame, error) {
	logger := log.GetLoggerWithName("cleaning").With(log.StrategyKey, p.Name())
	out := df.Clone()

	dropped := out.Drop(p.DropColumns...)
	logger.Debug("Dropped columns", log.FeaturesKey, dropped)

	if err := p.impute(out, logger); err != nil {
		return nil, err
	}
	if err := p.fillPlaceholders(out, logger); err != nil {
		return nil, err
	}
	if err := p.encode(out, logger); err != nil {
		return nil, err
	}

	logger.Info("Preprocessing finished",
		log.SamplesKey, out.NumRows(),
		log.FeaturesKey, out.NumCols(),
	)
	return out, nil
}

func (p Preprocess) impute(df *dataframe.Frame, logger log.Logger) error {
	targets := p.MedianColumns
	if len(targets) == 0 {
		for _, c := range df.Columns() {
			if c.IsNumeric() {
				targets = append(targets, c.Name)
			}
		}
	}

	for _, name := range targets {
		if !df.Has(name) {
			continue
		}
		col, err := df.Column(name)
		if err != nil {
			return err
		}
		missing := col.NullCount()
		if missing == 0 {
			continue
		}

		imp := preprocessing.NewMedianImputer()
		filled, err := imp.FitTransform(col)
		if err != nil {
			return err
		}
		if err := df.Replace(filled); err != nil {
			return err
		}
		logger.Debug("Imputed median",
			log.ColumnKey, name,
			"missing", missing,
			"median", imp.Median,
		)
	}
	return nil
}

func (p Preprocess) fillPlaceholders(df *dataframe.Frame, logger log.Logger) error {
	names := make([]string, 0, len(p.Placeholders))
	for name := range p.Placeholders {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !df.Has(name) {
			continue
		}
		col, err := df.Column(name)
		if err != nil {
			return err
		}
		if col.IsNumeric() {
			return errors.NewValueError("Preprocess",
				"placeholder column '"+name+"' is numeric")
		}

		filled, err := preprocessing.NewConstantImputer(p.Placeholders[name]).FitTransform(col)
		if err != nil {
			return err
		}
		if err := df.Replace(filled); err != nil {
			return err
		}
		logger.Debug("Filled placeholder", log.ColumnKey, name)
	}
	return nil
}

// encode one-hot encodes every non-numeric column. Indicator columns are
// appended after the untouched columns, in the order the sources appeared.
func (p Preprocess) encode(df *dataframe.Frame, logger log.Logger) error {
	sources := df.NonNumeric()
	if len(sources) == 0 {
		return nil
	}

	var encoded []*dataframe.Column
	for _, name := range sources {
		col, err := df.Column(name)
		if err != nil {
			return err
		}
		enc := preprocessing.NewOneHotEncoder(p.DropFirst)
		cols, err := enc.FitTransform(col)
		if err != nil {
			return err
		}
		logger.Debug("One-hot encoded",
			log.ColumnKey, name,
			"levels", len(enc.Levels),
		)
		encoded = append(encoded, cols...)
	}

	df.Drop(sources...)
	return df.Insert(df.NumCols(), encoded...)
}
