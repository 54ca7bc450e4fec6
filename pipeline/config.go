package pipeline

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/custsat/cleaning"
	"github.com/YuminosukeSato/custsat/dataframe"
	"github.com/YuminosukeSato/custsat/pkg/errors"
	"github.com/YuminosukeSato/custsat/pkg/log"
	"github.com/YuminosukeSato/custsat/training"
)

// Config drives one training run.
type Config struct {
	DataPath    string                   `yaml:"data_path"`
	Model       training.ModelNameConfig `yaml:"model"`
	LabelColumn string                   `yaml:"label_column"`
	TestSize    float64                  `yaml:"test_size"`
	RandomSeed  uint64                   `yaml:"random_seed"`
	Cleaning    CleaningConfig           `yaml:"cleaning"`

	// PlotPath enables the predicted-vs-actual plot when set.
	PlotPath string `yaml:"plot_path"`

	// WeightsPath enables writing the fitted weights as JSON when set.
	WeightsPath string `yaml:"weights_path"`

	LogLevel string         `yaml:"log_level"`
	Temporal TemporalConfig `yaml:"temporal"`
}

// CleaningConfig configures the cleaning strategies.
type CleaningConfig struct {
	DropColumns   []string          `yaml:"drop_columns"`
	MedianColumns []string          `yaml:"median_columns"`
	Placeholders  map[string]string `yaml:"placeholders"`
	TextColumns   []string          `yaml:"text_columns"`
	DropFirst     bool              `yaml:"drop_first"`
}

// TemporalConfig locates the Temporal frontend used by the worker.
type TemporalConfig struct {
	HostPort  string `yaml:"host_port"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
}

// DefaultTaskQueue is the task queue the worker polls when none is configured.
const DefaultTaskQueue = "custsat-training"

// DefaultConfig returns the configuration for the order reviews dataset.
// DataPath is left empty.
func DefaultConfig() Config {
	pre := cleaning.DefaultPreprocess()
	div := cleaning.DefaultDivide()

	placeholders := make(map[string]string, len(pre.Placeholders))
	for k, v := range pre.Placeholders {
		placeholders[k] = v
	}

	return Config{
		Model:       training.DefaultModelNameConfig(),
		LabelColumn: div.LabelColumn,
		TestSize:    div.TestSize,
		RandomSeed:  div.Seed,
		Cleaning: CleaningConfig{
			DropColumns:  append([]string(nil), pre.DropColumns...),
			Placeholders: placeholders,
			TextColumns:  []string{"review_comment_message"},
			DropFirst:    pre.DropFirst,
		},
		LogLevel: "info",
		Temporal: TemporalConfig{
			HostPort:  "localhost:7233",
			Namespace: "default",
			TaskQueue: DefaultTaskQueue,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys absent from the
// file keep their default.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.DataPath == "" {
		return errors.NewValidationError("data_path", "must not be empty", c.DataPath)
	}
	if c.LabelColumn == "" {
		return errors.NewValidationError("label_column", "must not be empty", c.LabelColumn)
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return errors.NewValidationError("test_size", "must be in (0, 1)", c.TestSize)
	}
	if c.Model.ModelName == "" {
		return errors.NewValidationError("model.name", "must not be empty", c.Model.ModelName)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", err.Error(), c.LogLevel)
	}
	return nil
}

// Preprocess builds the preprocessing strategy. Column names are normalized
// the same way ingestion normalizes CSV headers.
func (c Config) Preprocess() cleaning.Preprocess {
	var placeholders map[string]string
	if c.Cleaning.Placeholders != nil {
		placeholders = make(map[string]string, len(c.Cleaning.Placeholders))
		for col, v := range c.Cleaning.Placeholders {
			placeholders[dataframe.NormalizeName(col)] = v
		}
	}
	return cleaning.Preprocess{
		DropColumns:   normalizeNames(c.Cleaning.DropColumns),
		MedianColumns: normalizeNames(c.Cleaning.MedianColumns),
		Placeholders:  placeholders,
		DropFirst:     c.Cleaning.DropFirst,
	}
}

// Divide builds the split strategy.
func (c Config) Divide() cleaning.Divide {
	return cleaning.Divide{
		LabelColumn: dataframe.NormalizeName(c.LabelColumn),
		TestSize:    c.TestSize,
		Seed:        c.RandomSeed,
	}
}

// ReadOptions returns the ingestion options implied by the config.
func (c Config) ReadOptions() []dataframe.ReadOption {
	var opts []dataframe.ReadOption
	if len(c.Cleaning.TextColumns) > 0 {
		opts = append(opts, dataframe.WithTextColumns(c.Cleaning.TextColumns...))
	}
	return opts
}

func normalizeNames(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = dataframe.NormalizeName(n)
	}
	return out
}
