// Package classifier holds trained linear weight models and scores sparse
// feature vectors against them.
//
// Weights live in one flat slice. For a multiclass model with L labels and
// D features the weight of (label, index) is at index*L + label; a binary
// model stores a single column of D weights whose positive side is label 0.
package classifier

import (
	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// Model is a linear model over a fixed label set and feature dimension.
type Model struct {
	labels      *feature.LabelMap
	numFeatures int
	weights     []float64
}

// NewModel allocates zero weights for labels over numFeatures features (bias
// slot included). Two labels give a binary model.
func NewModel(labels []string, numFeatures int) (*Model, error) {
	if len(labels) == 0 {
		return nil, errors.WithHint(errors.WithStack(errors.ErrEmptyVocabulary), "a model needs at least one label")
	}
	if numFeatures < 1 {
		return nil, errors.NewValidationError("numFeatures", "must include the bias slot", numFeatures)
	}
	m := &Model{
		labels:      feature.NewLabelMapFrom(labels),
		numFeatures: numFeatures,
	}
	m.weights = make([]float64, m.expectedWeights())
	return m, nil
}

func (m *Model) expectedWeights() int {
	if m.IsBinary() {
		return m.numFeatures
	}
	return m.numFeatures * m.labels.Size()
}

// NumLabels is L.
func (m *Model) NumLabels() int { return m.labels.Size() }

// NumFeatures is D, bias included.
func (m *Model) NumFeatures() int { return m.numFeatures }

// IsBinary reports whether the model stores a single weight column.
func (m *Model) IsBinary() bool { return m.labels.Size() == 2 }

// Labels returns the label strings in index order.
func (m *Model) Labels() []string { return m.labels.Labels() }

// Label returns the label string at idx.
func (m *Model) Label(idx int) string { return m.labels.Label(idx) }

// LabelIndex looks up a label string.
func (m *Model) LabelIndex(label string) (int, bool) { return m.labels.Index(label) }

// WeightIndex is the flat position of (label, index) in a multiclass model.
func (m *Model) WeightIndex(label, index int) int {
	return index*m.labels.Size() + label
}

// Weights returns the underlying weight slice. Callers must not resize it.
func (m *Model) Weights() []float64 { return m.weights }

// SetWeights replaces all weights, checking the length.
func (m *Model) SetWeights(w []float64) error {
	if len(w) != m.expectedWeights() {
		return errors.NewDimensionError("SetWeights", "weights", m.expectedWeights(), len(w))
	}
	copy(m.weights, w)
	return nil
}

// CopyWeights writes a binary weight vector w of length D into the column
// of label. It touches only slots index*L + label, so calls for distinct
// labels may run concurrently.
func (m *Model) CopyWeights(w []float64, label int) error {
	if len(w) != m.numFeatures {
		return errors.NewDimensionError("CopyWeights", "weights", m.numFeatures, len(w))
	}
	if label < 0 || label >= m.labels.Size() {
		return errors.NewValidationError("label", "out of range", label)
	}
	if m.IsBinary() {
		// label 1 is the negative side of the single column
		sign := 1.0
		if label == 1 {
			sign = -1
		}
		for i, v := range w {
			m.weights[i] = sign * v
		}
		return nil
	}
	L := m.labels.Size()
	for i, v := range w {
		m.weights[i*L+label] = v
	}
	return nil
}

// Column returns a copy of the binary weight vector of label.
func (m *Model) Column(label int) []float64 {
	if m.IsBinary() {
		out := make([]float64, m.numFeatures)
		copy(out, m.weights)
		if label == 1 {
			for i := range out {
				out[i] = -out[i]
			}
		}
		return out
	}
	L := m.labels.Size()
	out := make([]float64, m.numFeatures)
	for i := range out {
		out[i] = m.weights[i*L+label]
	}
	return out
}

// Scores returns one score per label. Bias index 0 always contributes with
// value 1; indices outside [1, D) are skipped. Binary models return
// {s, -s}.
func (m *Model) Scores(v feature.SparseFeatureVector) []float64 {
	if m.IsBinary() {
		s := m.weights[feature.BiasIndex]
		for i, idx := range v.Indices {
			if idx > feature.BiasIndex && idx < m.numFeatures {
				s += m.weights[idx] * v.Weight(i)
			}
		}
		return []float64{s, -s}
	}

	L := m.labels.Size()
	scores := make([]float64, L)
	copy(scores, m.weights[:L])
	for i, idx := range v.Indices {
		if idx <= feature.BiasIndex || idx >= m.numFeatures {
			continue
		}
		val := v.Weight(i)
		base := idx * L
		for label := 0; label < L; label++ {
			scores[label] += m.weights[base+label] * val
		}
	}
	return scores
}
