package pipeline

import (
	"fmt"
	"os"

	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/pkg/errors"
)

// ExportWeights returns the sealed weights of a fitted model.
func ExportWeights(m model.Regressor) (*model.ModelWeights, error) {
	exporter, ok := m.(model.WeightExporter)
	if !ok {
		return nil, errors.NewValueError("ExportWeights", fmt.Sprintf("%T cannot export its weights", m))
	}
	return exporter.ExportWeights()
}

// SaveWeights writes w to path as indented JSON, replacing any existing file.
func SaveWeights(path string, w *model.ModelWeights) error {
	data, err := w.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write weights %s", path)
	}
	return nil
}

// LoadWeights reads weights written by SaveWeights and verifies their
// checksum.
func LoadWeights(path string) (*model.ModelWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read weights %s", path)
	}
	var w model.ModelWeights
	if err := w.FromJSON(data); err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}
