package classifier

import (
	"io"

	coremodel "github.com/YuminosukeSato/nlplearn/core/model"
	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// Model kinds written after the format tag.
const (
	KindSparse = "sparse"
	KindString = "string"
)

// The stream is: format tag, kind, numLabels, numFeatures, labels,
// label->index map, [feature entries for string models], weights.
func (m *Model) encode(enc *coremodel.SequenceEncoder, kind string, entries []feature.Entry) error {
	if err := enc.WriteHeader(kind); err != nil {
		return err
	}
	if err := enc.Encode("numLabels", m.NumLabels()); err != nil {
		return err
	}
	if err := enc.Encode("numFeatures", m.numFeatures); err != nil {
		return err
	}
	if err := enc.Encode("labels", m.Labels()); err != nil {
		return err
	}
	if err := enc.Encode("labelIndex", m.labels.IndexMap()); err != nil {
		return err
	}
	if kind == KindString {
		if err := enc.Encode("features", entries); err != nil {
			return err
		}
	}
	return enc.Encode("weights", m.weights)
}

func decodeModel(dec *coremodel.SequenceDecoder, wantKind string) (*Model, []feature.Entry, error) {
	kind, err := dec.ReadHeader()
	if err != nil {
		return nil, nil, err
	}
	if kind != wantKind {
		return nil, nil, errors.NewModelError("Load", "model kind mismatch", errors.Newf("want %q, got %q", wantKind, kind))
	}

	var numLabels, numFeatures int
	var labels []string
	var labelIndex map[string]int
	if err := dec.Decode("numLabels", &numLabels); err != nil {
		return nil, nil, err
	}
	if err := dec.Decode("numFeatures", &numFeatures); err != nil {
		return nil, nil, err
	}
	if err := dec.Decode("labels", &labels); err != nil {
		return nil, nil, err
	}
	if err := dec.Decode("labelIndex", &labelIndex); err != nil {
		return nil, nil, err
	}
	if len(labels) != numLabels {
		return nil, nil, errors.NewDimensionError("Load", "labels", numLabels, len(labels))
	}
	for i, l := range labels {
		if labelIndex[l] != i {
			return nil, nil, errors.NewModelError("Load", "label map disagrees with label array", errors.Newf("label %q", l))
		}
	}

	var entries []feature.Entry
	if kind == KindString {
		if err := dec.Decode("features", &entries); err != nil {
			return nil, nil, err
		}
		if len(entries)+1 != numFeatures {
			return nil, nil, errors.NewDimensionError("Load", "features", numFeatures-1, len(entries))
		}
	}

	var weights []float64
	if err := dec.Decode("weights", &weights); err != nil {
		return nil, nil, err
	}

	m, err := NewModel(labels, numFeatures)
	if err != nil {
		return nil, nil, err
	}
	if err := m.SetWeights(weights); err != nil {
		return nil, nil, errors.Wrap(err, "load")
	}
	return m, entries, nil
}

// Write serializes the model to w.
func (m *SparseModel) Write(w io.Writer) error {
	return m.encode(coremodel.NewSequenceEncoder(w), KindSparse, nil)
}

// Save writes the model to filename.
func (m *SparseModel) Save(filename string) error {
	return coremodel.SaveModel(filename, func(enc *coremodel.SequenceEncoder) error {
		return m.encode(enc, KindSparse, nil)
	})
}

// ModelKind reads the kind recorded in the header of a saved model,
// KindSparse or KindString, without loading the weights.
func ModelKind(filename string) (string, error) {
	var kind string
	err := coremodel.LoadModel(filename, func(dec *coremodel.SequenceDecoder) error {
		var err error
		kind, err = dec.ReadHeader()
		return err
	})
	return kind, err
}

// ReadSparseModel deserializes a model written by SparseModel.Write.
func ReadSparseModel(r io.Reader) (*SparseModel, error) {
	m, _, err := decodeModel(coremodel.NewSequenceDecoder(r), KindSparse)
	if err != nil {
		return nil, err
	}
	return NewSparseModel(m), nil
}

// LoadSparseModel reads a model saved by SparseModel.Save.
func LoadSparseModel(filename string) (*SparseModel, error) {
	var out *SparseModel
	err := coremodel.LoadModel(filename, func(dec *coremodel.SequenceDecoder) error {
		m, _, err := decodeModel(dec, KindSparse)
		if err != nil {
			return err
		}
		out = NewSparseModel(m)
		return nil
	})
	return out, err
}

// Write serializes the model and its vocabulary to w.
func (m *StringModel) Write(w io.Writer) error {
	return m.encode(coremodel.NewSequenceEncoder(w), KindString, m.vocabularyEntries())
}

// Save writes the model and its vocabulary to filename.
func (m *StringModel) Save(filename string) error {
	return coremodel.SaveModel(filename, func(enc *coremodel.SequenceEncoder) error {
		return m.encode(enc, KindString, m.vocabularyEntries())
	})
}

// vocabularyEntries returns the entries that have weights. Features added
// after allocation are not persisted.
func (m *StringModel) vocabularyEntries() []feature.Entry {
	entries := m.features.Entries()
	if len(entries) > m.numFeatures-1 {
		entries = entries[:m.numFeatures-1]
	}
	return entries
}

// ReadStringModel deserializes a model written by StringModel.Write.
func ReadStringModel(r io.Reader) (*StringModel, error) {
	return decodeStringModel(coremodel.NewSequenceDecoder(r))
}

// LoadStringModel reads a model saved by StringModel.Save.
func LoadStringModel(filename string) (*StringModel, error) {
	var out *StringModel
	err := coremodel.LoadModel(filename, func(dec *coremodel.SequenceDecoder) error {
		var err error
		out, err = decodeStringModel(dec)
		return err
	})
	return out, err
}

func decodeStringModel(dec *coremodel.SequenceDecoder) (*StringModel, error) {
	m, entries, err := decodeModel(dec, KindString)
	if err != nil {
		return nil, err
	}
	fm := feature.NewFeatureMap()
	for _, e := range entries {
		fm.Add(e.Type, e.Value)
	}
	if fm.Size() != m.NumFeatures() {
		return nil, errors.NewModelError("Load", "duplicate feature entries", nil)
	}
	return NewStringModel(m, fm), nil
}
