package trainspace

import (
	"github.com/YuminosukeSato/nlplearn/feature"
)

// Problem is a built training set. Row i has label Labels[i] and active
// features Features[i]; Values[i] holds their weights when the problem is
// weighted and is nil otherwise. The bias index 0 never appears in
// Features; optimizers add it themselves.
type Problem struct {
	Labels   []int
	Features [][]int
	Values   [][]float64

	LabelNames  []string
	NumLabels   int
	NumFeatures int

	// Vocabulary is the feature map of a StringSpace, nil for sparse spaces.
	Vocabulary *feature.FeatureMap
}

// Len is the number of instances.
func (p *Problem) Len() int {
	return len(p.Labels)
}

// IsWeighted reports whether rows carry explicit feature weights.
func (p *Problem) IsWeighted() bool {
	return p.Values != nil
}

// Value returns the weight of feature j of row i, 1 when unweighted.
func (p *Problem) Value(i, j int) float64 {
	if p.Values == nil {
		return 1
	}
	return p.Values[i][j]
}

// Vector returns row i as a SparseFeatureVector sharing the problem's
// slices.
func (p *Problem) Vector(i int) feature.SparseFeatureVector {
	v := feature.SparseFeatureVector{Indices: p.Features[i]}
	if p.Values != nil {
		v.Weights = p.Values[i]
	}
	return v
}

// BinaryLabels maps target to +1 and every other label to -1.
func (p *Problem) BinaryLabels(target int) []int8 {
	y := make([]int8, len(p.Labels))
	for i, l := range p.Labels {
		if l == target {
			y[i] = 1
		} else {
			y[i] = -1
		}
	}
	return y
}
