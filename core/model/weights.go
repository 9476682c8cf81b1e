package model

import (
	"encoding/json"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// ModelWeights はモデルの重みを人が読める形で書き出すための表現
// (JSON export 用、読み込みは gob 形式を使う)
type ModelWeights struct {
	// ModelType は "sparse" または "string"
	ModelType string `json:"model_type"`

	// Version は書き出し形式のタグ
	Version string `json:"version"`

	// Labels はインデックス順のラベル
	Labels []string `json:"labels"`

	// NumFeatures はバイアスを含む特徴次元
	NumFeatures int `json:"num_features"`

	// Features はインデックス1から順の "type=value"（string モデルのみ）
	Features []string `json:"features,omitempty"`

	// Columns はラベルごとの重み列。Columns[l][0] がバイアス。
	// 二値モデルは1列だけで、2番目のラベルのスコアはその符号反転
	Columns [][]float64 `json:"columns"`

	// Metadata は追加情報（学習アルゴリズム等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(mw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal model weights")
	}
	return data, nil
}

// FromJSON はJSON形式からModelWeightsをデシリアライズし検証する
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "unmarshal model weights")
	}
	return mw.Validate()
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}
	if len(mw.Labels) == 0 {
		return errors.NewValidationError("labels", "must not be empty", len(mw.Labels))
	}
	want := len(mw.Labels)
	if want == 2 {
		want = 1
	}
	if len(mw.Columns) != want {
		return errors.NewDimensionError("ModelWeights", "columns", want, len(mw.Columns))
	}
	for _, col := range mw.Columns {
		if len(col) != mw.NumFeatures {
			return errors.NewDimensionError("ModelWeights", "column length", mw.NumFeatures, len(col))
		}
	}
	if len(mw.Features) > 0 && len(mw.Features) != mw.NumFeatures-1 {
		return errors.NewDimensionError("ModelWeights", "features", mw.NumFeatures-1, len(mw.Features))
	}
	return nil
}
