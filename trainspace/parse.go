package trainspace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// maxLineSize bounds a single training line.
const maxLineSize = 16 * 1024 * 1024

// lineAdder is implemented by both spaces.
type lineAdder interface {
	AddLine(line string) error
}

// readLines feeds every non-blank line of r to s and returns the number of
// lines added.
func readLines(s lineAdder, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	n, lineNr := 0, 0
	for scanner.Scan() {
		lineNr++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := s.AddLine(line); err != nil {
			return n, errors.Wrapf(err, "line %d", lineNr)
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, errors.Wrap(err, "read training data")
	}
	return n, nil
}

// splitLine returns the label and the feature tokens.
func splitLine(line string) (string, []string, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return "", nil, errors.NewValueError("AddLine", "empty line")
	}
	return tokens[0], tokens[1:], nil
}

// splitWeight cuts a trailing "<delim>weight" at the last delimiter.
func splitWeight(token, delim string) (string, float64, error) {
	i := strings.LastIndex(token, delim)
	if i < 0 {
		return "", 0, errors.NewValueError("AddLine", fmt.Sprintf("feature %q has no weight after %q", token, delim))
	}
	w, err := strconv.ParseFloat(token[i+len(delim):], 64)
	if err != nil {
		return "", 0, errors.NewValueError("AddLine", fmt.Sprintf("feature %q has a malformed weight", token))
	}
	return token[:i], w, nil
}

// splitFeature cuts "type=value" at the first '='.
func splitFeature(token string) (string, string, error) {
	i := strings.IndexByte(token, '=')
	if i < 0 {
		return "", "", errors.NewValueError("AddLine", fmt.Sprintf("feature %q is not of the form type=value", token))
	}
	return token[:i], token[i+1:], nil
}

// LineParser converts the feature part of text lines into vectors. Spaces
// use it for training data; prediction tools use the same parser so that
// test lines are read exactly like training lines.
type LineParser struct {
	Weighted  bool
	Delimiter string
}

// NewLineParser takes the weighting and delimiter settings from opts.
// Cutoffs are ignored.
func NewLineParser(opts ...Option) LineParser {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o.parser()
}

func (o options) parser() LineParser {
	return LineParser{Weighted: o.weighted, Delimiter: o.delimiter}
}

// StringLine parses "label type=value[:w] ...".
func (p LineParser) StringLine(line string) (string, feature.StringFeatureVector, error) {
	label, tokens, err := splitLine(line)
	if err != nil {
		return "", feature.StringFeatureVector{}, err
	}
	v, err := p.StringFeatures(tokens)
	return label, v, err
}

// StringFeatures parses "type=value[:w]" tokens. Weights are read only
// when the parser is weighted, so values may contain the delimiter
// otherwise.
func (p LineParser) StringFeatures(tokens []string) (feature.StringFeatureVector, error) {
	var v feature.StringFeatureVector
	for _, tok := range tokens {
		if p.Weighted {
			key, w, err := splitWeight(tok, p.Delimiter)
			if err != nil {
				return v, err
			}
			typ, value, err := splitFeature(key)
			if err != nil {
				return v, err
			}
			v.AddWeighted(typ, value, w)
			continue
		}
		typ, value, err := splitFeature(tok)
		if err != nil {
			return v, err
		}
		v.Add(typ, value)
	}
	if p.Weighted && v.Weights == nil {
		v.Weights = []float64{}
	}
	return v, nil
}

// SparseLine parses "label idx[:w] idx[:w] ...".
func (p LineParser) SparseLine(line string) (string, feature.SparseFeatureVector, error) {
	label, tokens, err := splitLine(line)
	if err != nil {
		return "", feature.SparseFeatureVector{}, err
	}
	v, err := p.SparseFeatures(tokens)
	return label, v, err
}

// SparseFeatures parses "idx[:w]" tokens. A token containing the delimiter
// always carries a weight.
func (p LineParser) SparseFeatures(tokens []string) (feature.SparseFeatureVector, error) {
	var v feature.SparseFeatureVector
	if p.Weighted {
		v.Weights = make([]float64, 0, len(tokens))
	}
	v.Indices = make([]int, 0, len(tokens))
	for _, tok := range tokens {
		key := tok
		weight, weighted := 1.0, false
		if strings.Contains(tok, p.Delimiter) {
			var err error
			key, weight, err = splitWeight(tok, p.Delimiter)
			if err != nil {
				return v, err
			}
			weighted = true
		}
		idx, err := strconv.Atoi(key)
		if err != nil {
			return v, errors.NewValueError("AddLine", fmt.Sprintf("feature %q is not an integer index", tok))
		}
		if weighted {
			v.AddWeighted(idx, weight)
		} else {
			v.Add(idx)
		}
	}
	return v, nil
}
