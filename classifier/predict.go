package classifier

import (
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/nlplearn/core/parallel"
	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// Prediction is a scored label.
type Prediction struct {
	Label string
	Index int
	Score float64
}

// PredictBest returns the highest scoring label. Ties go to the lower label
// index.
func (m *Model) PredictBest(v feature.SparseFeatureVector) Prediction {
	scores := m.Scores(v)
	best := floats.MaxIdx(scores)
	return Prediction{Label: m.Label(best), Index: best, Score: scores[best]}
}

// PredictTwo returns the two highest scoring labels, best first. A model
// with a single label returns one prediction.
func (m *Model) PredictTwo(v feature.SparseFeatureVector) []Prediction {
	scores := m.Scores(v)
	first, second := -1, -1
	for i, s := range scores {
		switch {
		case first < 0 || s > scores[first]:
			second = first
			first = i
		case second < 0 || s > scores[second]:
			second = i
		}
	}
	out := []Prediction{{Label: m.Label(first), Index: first, Score: scores[first]}}
	if second >= 0 {
		out = append(out, Prediction{Label: m.Label(second), Index: second, Score: scores[second]})
	}
	return out
}

// PredictAll returns every label sorted by descending score; equal scores
// keep label index order.
func (m *Model) PredictAll(v feature.SparseFeatureVector) []Prediction {
	scores := m.Scores(v)
	neg := make([]float64, len(scores))
	for i, s := range scores {
		neg[i] = -s
	}
	order := make([]int, len(scores))
	floats.ArgsortStable(neg, order)

	out := make([]Prediction, len(order))
	for rank, idx := range order {
		out[rank] = Prediction{Label: m.Label(idx), Index: idx, Score: scores[idx]}
	}
	return out
}

// Normalize replaces the scores of preds with their softmax. Only used for
// probability output; PredictBest never needs it.
func Normalize(preds []Prediction) {
	scores := make([]float64, len(preds))
	for i, p := range preds {
		scores[i] = p.Score
	}
	errors.SoftmaxInPlace(scores)
	for i := range preds {
		preds[i].Score = scores[i]
	}
}

// PredictBatch runs PredictBest over vs in parallel.
func (m *Model) PredictBatch(vs []feature.SparseFeatureVector) []Prediction {
	out := make([]Prediction, len(vs))
	parallel.ParallelizeWithThreshold(len(vs), 64, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = m.PredictBest(vs[i])
		}
	})
	return out
}
