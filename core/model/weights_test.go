package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelWeightsValidate(t *testing.T) {
	valid := func() *ModelWeights {
		return &ModelWeights{
			ModelType:   "string",
			Version:     FormatTag,
			Labels:      []string{"N", "V", "J"},
			NumFeatures: 2,
			Features:    []string{"w=dog"},
			Columns:     [][]float64{{0, 1}, {0, -1}, {0, 0}},
		}
	}
	assert.NoError(t, valid().Validate())

	cases := map[string]func(*ModelWeights){
		"no type":        func(mw *ModelWeights) { mw.ModelType = "" },
		"no version":     func(mw *ModelWeights) { mw.Version = "" },
		"no labels":      func(mw *ModelWeights) { mw.Labels = nil },
		"column count":   func(mw *ModelWeights) { mw.Columns = mw.Columns[:2] },
		"column length":  func(mw *ModelWeights) { mw.Columns[1] = []float64{0} },
		"feature count":  func(mw *ModelWeights) { mw.Features = append(mw.Features, "w=cat") },
		"binary columns": func(mw *ModelWeights) { mw.Labels = mw.Labels[:2] },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			mw := valid()
			mutate(mw)
			assert.Error(t, mw.Validate())
		})
	}
}

func TestModelWeightsFromJSONRejectsGarbage(t *testing.T) {
	var mw ModelWeights
	assert.Error(t, mw.FromJSON([]byte("{")))
	assert.Error(t, mw.FromJSON([]byte(`{"model_type":"sparse"}`)))
}
