package trainspace

import (
	"io"

	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
)

type stringInstance struct {
	label  string
	vector feature.StringFeatureVector
}

// StringSpace buffers instances with (type, value) features and interns
// them on Build. The vocabulary of the built problem is returned in
// Problem.Vocabulary.
type StringSpace struct {
	opts      options
	instances []stringInstance
}

// NewStringSpace creates an empty StringSpace.
func NewStringSpace(opts ...Option) *StringSpace {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &StringSpace{opts: o}
}

// AddInstance buffers one instance.
func (s *StringSpace) AddInstance(label string, v feature.StringFeatureVector) error {
	if err := v.Validate(); err != nil {
		return err
	}
	s.instances = append(s.instances, stringInstance{label: label, vector: v})
	return nil
}

// AddLine parses "label type=value[:w] ..." and buffers the instance.
func (s *StringSpace) AddLine(line string) error {
	label, v, err := s.opts.parser().StringLine(line)
	if err != nil {
		return err
	}
	return s.AddInstance(label, v)
}

// ReadFrom adds every non-blank line of r.
func (s *StringSpace) ReadFrom(r io.Reader) (int, error) {
	return readLines(s, r)
}

// Len is the number of buffered instances.
func (s *StringSpace) Len() int {
	return len(s.instances)
}

// Build applies the cutoffs, interns the surviving labels and features in
// first-seen order and converts the buffered instances.
func (s *StringSpace) Build(clearInstances bool) (*Problem, error) {
	if len(s.instances) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	labelCount := feature.NewCounter[string]()
	featureCount := feature.NewCounter[feature.Entry]()
	weighted := s.opts.weighted
	for _, inst := range s.instances {
		labelCount.Inc(inst.label)
		for j := range inst.vector.Types {
			featureCount.Inc(feature.Entry{Type: inst.vector.Types[j], Value: inst.vector.Values[j]})
		}
		weighted = weighted || inst.vector.IsWeighted()
	}

	labels := feature.NewLabelMap()
	for _, l := range labelCount.Above(s.opts.labelCutoff) {
		labels.Add(l)
	}
	vocab := feature.NewFeatureMap()
	for _, e := range featureCount.Above(s.opts.featureCutoff) {
		vocab.Add(e.Type, e.Value)
	}
	if labels.Size() == 0 || vocab.Size() == 1 {
		return nil, emptyVocabulary(labels.Size(), vocab.Size()-1, s.opts)
	}

	p := &Problem{
		LabelNames:  labels.Labels(),
		NumLabels:   labels.Size(),
		NumFeatures: vocab.Size(),
		Vocabulary:  vocab,
	}
	if weighted {
		p.Values = make([][]float64, 0, len(s.instances))
	}
	for _, inst := range s.instances {
		y, ok := labels.Index(inst.label)
		if !ok {
			continue
		}
		idxs := make([]int, 0, inst.vector.Len())
		var vals []float64
		if weighted {
			vals = make([]float64, 0, inst.vector.Len())
		}
		for j := range inst.vector.Types {
			idx, ok := vocab.Index(inst.vector.Types[j], inst.vector.Values[j])
			if !ok {
				continue
			}
			idxs = append(idxs, idx)
			if weighted {
				w := 1.0
				if inst.vector.IsWeighted() {
					w = inst.vector.Weights[j]
				}
				vals = append(vals, w)
			}
		}
		p.Labels = append(p.Labels, y)
		p.Features = append(p.Features, idxs)
		if weighted {
			p.Values = append(p.Values, vals)
		}
	}

	s.opts.logger.Info("string space built",
		log.OperationKey, log.OperationBuild,
		log.SamplesKey, p.Len(),
		log.LabelsKey, p.NumLabels,
		log.FeaturesKey, p.NumFeatures,
		log.DroppedKey, len(s.instances)-p.Len(),
	)
	if clearInstances {
		s.instances = nil
	}
	return p, nil
}
