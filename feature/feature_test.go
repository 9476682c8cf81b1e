package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

func TestFeatureMapAssignsFromOne(t *testing.T) {
	m := NewFeatureMap()
	assert.Equal(t, 1, m.Size(), "empty map still has the bias slot")

	assert.Equal(t, 1, m.Add("w", "the"))
	assert.Equal(t, 2, m.Add("w", "dog"))
	assert.Equal(t, 3, m.Add("p", "the"), "same value under another type is a new feature")
	assert.Equal(t, 1, m.Add("w", "the"), "re-adding returns the existing index")
	assert.Equal(t, 4, m.Size())

	idx, ok := m.Index("p", "the")
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = m.Index("p", "cat")
	assert.False(t, ok)

	e, ok := m.Entry(2)
	require.True(t, ok)
	assert.Equal(t, Entry{Type: "w", Value: "dog"}, e)
	_, ok = m.Entry(BiasIndex)
	assert.False(t, ok)

	assert.Equal(t, []Entry{{"w", "the"}, {"w", "dog"}, {"p", "the"}}, m.Entries())
}

func TestFeatureMapDeterministic(t *testing.T) {
	build := func() []Entry {
		m := NewFeatureMap()
		for _, v := range []string{"z", "a", "m", "a", "b", "z"} {
			m.Add("t", v)
		}
		return m.Entries()
	}
	first := build()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build())
	}
}

func TestLabelMap(t *testing.T) {
	m := NewLabelMap()
	assert.Equal(t, 0, m.Add("NN"))
	assert.Equal(t, 1, m.Add("VB"))
	assert.Equal(t, 0, m.Add("NN"))
	assert.Equal(t, 2, m.Size())
	assert.Equal(t, "VB", m.Label(1))
	assert.Equal(t, "", m.Label(5))
	assert.Equal(t, []string{"NN", "VB"}, m.Labels())
	assert.Equal(t, map[string]int{"NN": 0, "VB": 1}, m.IndexMap())

	rebuilt := NewLabelMapFrom(m.Labels())
	idx, ok := rebuilt.Index("VB")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestCounterAbove(t *testing.T) {
	c := NewCounter[string]()
	for _, k := range []string{"b", "a", "b", "c", "a", "b"} {
		c.Inc(k)
	}
	assert.Equal(t, 3, c.Count("b"))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"b", "a", "c"}, c.Above(0))
	assert.Equal(t, []string{"b", "a"}, c.Above(1), "cutoff is strict")
	assert.Equal(t, []string{"b"}, c.Above(2))
	assert.Empty(t, c.Above(3))
}

func TestSparseFeatureVectorValidation(t *testing.T) {
	_, err := NewSparseFeatureVector([]int{1, 2, 3}, []float64{1, 2})
	require.Error(t, err)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	v, err := NewSparseFeatureVector([]int{1, 2}, nil)
	require.NoError(t, err)
	assert.False(t, v.IsWeighted())
	assert.Equal(t, 1.0, v.Weight(1))
}

func TestSparseFeatureVectorMixedAdds(t *testing.T) {
	var v SparseFeatureVector
	v.Add(4)
	v.AddWeighted(7, 0.5)
	v.Add(9)
	assert.Equal(t, []int{4, 7, 9}, v.Indices)
	assert.Equal(t, []float64{1, 0.5, 1}, v.Weights)
	assert.NoError(t, v.Validate())
}

func TestStringFeatureVector(t *testing.T) {
	var v StringFeatureVector
	v.Add("w", "dog")
	assert.False(t, v.IsWeighted())
	v.AddWeighted("len", "3", 0.25)
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []float64{1, 0.25}, v.Weights)
	assert.NoError(t, v.Validate())

	bad := StringFeatureVector{Types: []string{"a"}, Values: []string{"x"}, Weights: []float64{1, 2}}
	assert.Error(t, bad.Validate())
}
