package model

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"

	"github.com/cockroachdb/errors"
)

// ModelWeights はモデルの重みを表す構造体（シリアライゼーション用）
//
// It is the payload exchanged between training and evaluation when the two
// run in separate processes.
type ModelWeights struct {
	// ModelType はモデルの種類（linear_regression 等）
	ModelType string `json:"model_type"`

	// Version はモデルのバージョン（互換性チェック用）
	Version string `json:"version"`

	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`

	// Features は学習時の特徴量名。予測時の列順の検証に使う
	Features []string `json:"features,omitempty"`

	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（rank 等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// Checksum is the hex SHA-256 of intercept and coefficients.
	Checksum string `json:"checksum,omitempty"`

	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(mw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal model weights")
	}
	return data, nil
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "failed to unmarshal model weights")
	}
	return nil
}

// ComputeChecksum hashes the intercept followed by the coefficients as
// little-endian IEEE 754 bit patterns.
func (mw *ModelWeights) ComputeChecksum() string {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(mw.Intercept))
	h.Write(buf[:])
	for _, c := range mw.Coefficients {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(c))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Seal stores the current checksum.
func (mw *ModelWeights) Seal() {
	mw.Checksum = mw.ComputeChecksum()
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.New("model_type is required")
	}
	if mw.Version == "" {
		return errors.New("version is required")
	}
	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return errors.New("unfitted model should not have coefficients")
	}
	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return errors.New("fitted model must have coefficients")
	}
	if len(mw.Features) > 0 && len(mw.Features) != len(mw.Coefficients) {
		return errors.Newf("features (%d) and coefficients (%d) differ in length",
			len(mw.Features), len(mw.Coefficients))
	}
	if mw.Checksum != "" && mw.Checksum != mw.ComputeChecksum() {
		return errors.New("checksum mismatch: weights were modified after export")
	}
	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		Intercept:       mw.Intercept,
		Checksum:        mw.Checksum,
		IsFitted:        mw.IsFitted,
		Coefficients:    make([]float64, len(mw.Coefficients)),
		Features:        make([]string, len(mw.Features)),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}

	copy(clone.Coefficients, mw.Coefficients)
	copy(clone.Features, mw.Features)

	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}

	return clone
}
