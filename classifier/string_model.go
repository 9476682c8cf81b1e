package classifier

import (
	"github.com/YuminosukeSato/nlplearn/feature"
)

// SparseModel scores vectors that are already mapped to feature indices.
type SparseModel struct {
	*Model
}

// NewSparseModel wraps m.
func NewSparseModel(m *Model) *SparseModel {
	return &SparseModel{Model: m}
}

// StringModel scores string-keyed vectors through a feature vocabulary.
type StringModel struct {
	*Model
	features *feature.FeatureMap
}

// NewStringModel pairs m with the vocabulary it was trained on.
func NewStringModel(m *Model, features *feature.FeatureMap) *StringModel {
	return &StringModel{Model: m, features: features}
}

// Vocabulary returns the feature map.
func (m *StringModel) Vocabulary() *feature.FeatureMap {
	return m.features
}

// AddFeature registers (typ, value) and returns its index. Features added
// after the weights were allocated have no weight and never affect scores.
func (m *StringModel) AddFeature(typ, value string) int {
	return m.features.Add(typ, value)
}

// ToSparseFeatureVector maps sv to feature indices, silently dropping
// features that were never registered.
func (m *StringModel) ToSparseFeatureVector(sv feature.StringFeatureVector) feature.SparseFeatureVector {
	var out feature.SparseFeatureVector
	if sv.IsWeighted() {
		out.Weights = make([]float64, 0, sv.Len())
	}
	out.Indices = make([]int, 0, sv.Len())
	for i := 0; i < sv.Len(); i++ {
		idx, ok := m.features.Index(sv.Types[i], sv.Values[i])
		if !ok {
			continue
		}
		out.Indices = append(out.Indices, idx)
		if sv.IsWeighted() {
			out.Weights = append(out.Weights, sv.Weights[i])
		}
	}
	return out
}

// StringScores converts sv and scores it.
func (m *StringModel) StringScores(sv feature.StringFeatureVector) []float64 {
	return m.Scores(m.ToSparseFeatureVector(sv))
}

// PredictString converts sv and returns the best label.
func (m *StringModel) PredictString(sv feature.StringFeatureVector) Prediction {
	return m.PredictBest(m.ToSparseFeatureVector(sv))
}
