package classifier

import (
	coremodel "github.com/YuminosukeSato/nlplearn/core/model"
	"github.com/YuminosukeSato/nlplearn/feature"
)

var (
	_ coremodel.SavedModel = (*SparseModel)(nil)
	_ coremodel.SavedModel = (*StringModel)(nil)
)

func (m *Model) export(kind string, entries []feature.Entry) *coremodel.ModelWeights {
	cols := m.NumLabels()
	if m.IsBinary() {
		cols = 1
	}
	mw := &coremodel.ModelWeights{
		ModelType:   kind,
		Version:     coremodel.FormatTag,
		Labels:      m.Labels(),
		NumFeatures: m.numFeatures,
		Columns:     make([][]float64, cols),
	}
	for l := range mw.Columns {
		mw.Columns[l] = m.Column(l)
	}
	if len(entries) > 0 {
		mw.Features = make([]string, len(entries))
		for i, e := range entries {
			mw.Features[i] = e.Type + "=" + e.Value
		}
	}
	return mw
}

// Export returns the weights in their JSON exchange form.
func (m *SparseModel) Export() *coremodel.ModelWeights {
	return m.export(KindSparse, nil)
}

// Export returns the weights with the vocabulary spelled out.
func (m *StringModel) Export() *coremodel.ModelWeights {
	return m.export(KindString, m.vocabularyEntries())
}
