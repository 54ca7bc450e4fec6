package workflow

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/YuminosukeSato/custsat/cleaning"
	"github.com/YuminosukeSato/custsat/core/model"
	"github.com/YuminosukeSato/custsat/pipeline"
	"github.com/YuminosukeSato/custsat/training"
)

// TrainingRequest is the workflow input. Activities rebuild the split from
// it instead of receiving the data, so every payload stays independent of
// the dataset size.
type TrainingRequest struct {
	DataPath    string                   `json:"data_path"`
	LabelColumn string                   `json:"label_column"`
	TestSize    float64                  `json:"test_size"`
	RandomSeed  uint64                   `json:"random_seed"`
	Cleaning    pipeline.CleaningConfig  `json:"cleaning"`
	Model       training.ModelNameConfig `json:"model"`

	// WeightsPath is where the worker writes the fitted weights, if set.
	WeightsPath string `json:"weights_path,omitempty"`
}

// RequestFromConfig copies the fields of cfg a workflow run needs.
func RequestFromConfig(cfg pipeline.Config) TrainingRequest {
	return TrainingRequest{
		DataPath:    cfg.DataPath,
		LabelColumn: cfg.LabelColumn,
		TestSize:    cfg.TestSize,
		RandomSeed:  cfg.RandomSeed,
		Cleaning:    cfg.Cleaning,
		Model:       cfg.Model,
		WeightsPath: cfg.WeightsPath,
	}
}

// Config expands the request back into a pipeline configuration.
func (r TrainingRequest) Config() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.DataPath = r.DataPath
	cfg.LabelColumn = r.LabelColumn
	cfg.TestSize = r.TestSize
	cfg.RandomSeed = r.RandomSeed
	cfg.Cleaning = r.Cleaning
	cfg.Model = r.Model
	cfg.WeightsPath = r.WeightsPath
	return cfg
}

// Validate checks the request the same way pipeline.Config does.
func (r TrainingRequest) Validate() error {
	return r.Config().Validate()
}

// SplitSummary describes a train/test split without carrying its rows.
// LabelChecksum lets a later activity confirm it rebuilt the same split.
type SplitSummary struct {
	Features      int    `json:"features"`
	TrainRows     int    `json:"train_rows"`
	TestRows      int    `json:"test_rows"`
	LabelType     string `json:"label_type"`
	LabelChecksum string `json:"label_checksum"`
}

// Summarize describes split.
func Summarize(split *cleaning.Split) SplitSummary {
	h := sha256.New()
	var buf [8]byte
	for _, y := range [][]float64{split.YTrain.RawVector().Data, split.YTest.RawVector().Data} {
		for _, v := range y {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return SplitSummary{
		Features:      len(split.Features),
		TrainRows:     split.YTrain.Len(),
		TestRows:      split.YTest.Len(),
		LabelType:     split.LabelType.String(),
		LabelChecksum: hex.EncodeToString(h.Sum(nil)),
	}
}

// TrainInput is the input of the Train activity.
type TrainInput struct {
	Request TrainingRequest `json:"request"`
	Split   SplitSummary    `json:"split"`
}

// EvaluateInput is the input of the Evaluate activity.
type EvaluateInput struct {
	Request TrainingRequest     `json:"request"`
	Split   SplitSummary        `json:"split"`
	Weights *model.ModelWeights `json:"weights"`
}

// TrainingResult is the workflow output.
type TrainingResult struct {
	Split   SplitSummary        `json:"split"`
	Weights *model.ModelWeights `json:"weights"`
	Metrics pipeline.Metrics    `json:"metrics"`
}
