package feature

import (
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// StringFeatureVector holds string-keyed features of one instance. Weights is
// nil for unweighted vectors and otherwise aligned with Types and Values.
type StringFeatureVector struct {
	Types   []string
	Values  []string
	Weights []float64
}

// Add appends an unweighted feature. On a weighted vector it gets weight 1.
func (v *StringFeatureVector) Add(typ, value string) {
	v.Types = append(v.Types, typ)
	v.Values = append(v.Values, value)
	if v.Weights != nil {
		v.Weights = append(v.Weights, 1)
	}
}

// AddWeighted appends a weighted feature, turning the vector weighted if it
// was not.
func (v *StringFeatureVector) AddWeighted(typ, value string, weight float64) {
	if v.Weights == nil {
		v.Weights = make([]float64, len(v.Types), len(v.Types)+1)
		for i := range v.Weights {
			v.Weights[i] = 1
		}
	}
	v.Types = append(v.Types, typ)
	v.Values = append(v.Values, value)
	v.Weights = append(v.Weights, weight)
}

// Len is the number of features.
func (v StringFeatureVector) Len() int {
	return len(v.Types)
}

// IsWeighted reports whether the vector carries explicit weights.
func (v StringFeatureVector) IsWeighted() bool {
	return v.Weights != nil
}

// Validate checks that the parallel slices line up.
func (v StringFeatureVector) Validate() error {
	if len(v.Values) != len(v.Types) {
		return errors.NewDimensionError("StringFeatureVector", "values", len(v.Types), len(v.Values))
	}
	if v.Weights != nil && len(v.Weights) != len(v.Types) {
		return errors.NewDimensionError("StringFeatureVector", "weights", len(v.Types), len(v.Weights))
	}
	return nil
}

// SparseFeatureVector holds the active feature indices of one instance and
// optional aligned weights. The bias index is implicit and never stored.
type SparseFeatureVector struct {
	Indices []int
	Weights []float64
}

// NewSparseFeatureVector validates len(indices) == len(weights) when weights
// are present.
func NewSparseFeatureVector(indices []int, weights []float64) (SparseFeatureVector, error) {
	v := SparseFeatureVector{Indices: indices, Weights: weights}
	if err := v.Validate(); err != nil {
		return SparseFeatureVector{}, err
	}
	return v, nil
}

// Add appends an unweighted index.
func (v *SparseFeatureVector) Add(index int) {
	v.Indices = append(v.Indices, index)
	if v.Weights != nil {
		v.Weights = append(v.Weights, 1)
	}
}

// AddWeighted appends a weighted index.
func (v *SparseFeatureVector) AddWeighted(index int, weight float64) {
	if v.Weights == nil {
		v.Weights = make([]float64, len(v.Indices), len(v.Indices)+1)
		for i := range v.Weights {
			v.Weights[i] = 1
		}
	}
	v.Indices = append(v.Indices, index)
	v.Weights = append(v.Weights, weight)
}

// Len is the number of active indices.
func (v SparseFeatureVector) Len() int {
	return len(v.Indices)
}

// IsWeighted reports whether the vector carries explicit weights.
func (v SparseFeatureVector) IsWeighted() bool {
	return v.Weights != nil
}

// Weight returns the value of the i-th active feature, 1 when unweighted.
func (v SparseFeatureVector) Weight(i int) float64 {
	if v.Weights == nil {
		return 1
	}
	return v.Weights[i]
}

// Validate checks the index/weight alignment.
func (v SparseFeatureVector) Validate() error {
	if v.Weights != nil && len(v.Weights) != len(v.Indices) {
		return errors.NewDimensionError("SparseFeatureVector", "weights", len(v.Indices), len(v.Weights))
	}
	return nil
}
