package cli

import (
	"bufio"
	"io"
	"strings"

	"github.com/YuminosukeSato/nlplearn/classifier"
	"github.com/YuminosukeSato/nlplearn/config"
	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// lineModel is a saved model together with the parser for its input
// format.
type lineModel struct {
	*classifier.Model
	features func(tokens []string) (feature.SparseFeatureVector, error)
}

// loadModel reads a model of the kind recorded in its file; the
// configuration only supplies the line format. String models map unknown
// features away; sparse models ignore indices beyond their dimension.
func loadModel(path string, cfg *config.Config) (*lineModel, error) {
	kind, err := checkedKind(path)
	if err != nil {
		return nil, err
	}
	parser := trainspace.NewLineParser(cfg.SpaceOptions()...)
	if kind == classifier.KindSparse {
		m, err := classifier.LoadSparseModel(path)
		if err != nil {
			return nil, err
		}
		return &lineModel{Model: m.Model, features: parser.SparseFeatures}, nil
	}

	m, err := classifier.LoadStringModel(path)
	if err != nil {
		return nil, err
	}
	return &lineModel{
		Model: m.Model,
		features: func(tokens []string) (feature.SparseFeatureVector, error) {
			sv, err := parser.StringFeatures(tokens)
			if err != nil {
				return feature.SparseFeatureVector{}, err
			}
			return m.ToSparseFeatureVector(sv), nil
		},
	}, nil
}

func checkedKind(path string) (string, error) {
	kind, err := classifier.ModelKind(path)
	if err != nil {
		return "", errors.Wrapf(err, "read model %s", path)
	}
	if kind != classifier.KindSparse && kind != classifier.KindString {
		return "", errors.NewModelError("Load", "unknown model kind", errors.Newf("%s: %q", path, kind))
	}
	return kind, nil
}

// probabilities returns the softmax of the label scores, indexed by label.
func (m *lineModel) probabilities(v feature.SparseFeatureVector) []float64 {
	preds := m.PredictAll(v)
	classifier.Normalize(preds)
	out := make([]float64, m.NumLabels())
	for _, p := range preds {
		out[p.Index] = p.Score
	}
	return out
}

// eachLine calls fn with the whitespace separated fields of every non-blank
// line of r.
func eachLine(r io.Reader, fn func(fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNr := 0
	for scanner.Scan() {
		lineNr++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := fn(fields); err != nil {
			return errors.Wrapf(err, "line %d", lineNr)
		}
	}
	return errors.Wrap(scanner.Err(), "read input")
}
