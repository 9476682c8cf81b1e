package trainspace

import (
	"io"

	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
)

type sparseInstance struct {
	label  string
	vector feature.SparseFeatureVector
}

// SparseSpace buffers instances whose features are already integer
// indices. Indices are kept as given; the feature dimension of the built
// problem is the largest surviving index plus one.
type SparseSpace struct {
	opts      options
	instances []sparseInstance
}

// NewSparseSpace creates an empty SparseSpace.
func NewSparseSpace(opts ...Option) *SparseSpace {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SparseSpace{opts: o}
}

// AddInstance buffers one instance. Feature indices must be positive since
// 0 is the bias.
func (s *SparseSpace) AddInstance(label string, v feature.SparseFeatureVector) error {
	if err := v.Validate(); err != nil {
		return err
	}
	for _, idx := range v.Indices {
		if idx <= feature.BiasIndex {
			return errors.NewValidationError("feature index", "must be positive, 0 is the bias", idx)
		}
	}
	s.instances = append(s.instances, sparseInstance{label: label, vector: v})
	return nil
}

// AddLine parses "label idx[:w] idx[:w] ..." and buffers the instance.
func (s *SparseSpace) AddLine(line string) error {
	label, v, err := s.opts.parser().SparseLine(line)
	if err != nil {
		return err
	}
	return s.AddInstance(label, v)
}

// ReadFrom adds every non-blank line of r.
func (s *SparseSpace) ReadFrom(r io.Reader) (int, error) {
	return readLines(s, r)
}

// Len is the number of buffered instances.
func (s *SparseSpace) Len() int {
	return len(s.instances)
}

// Build applies the cutoffs and converts the buffered instances. With
// clearInstances the buffer is released afterwards.
func (s *SparseSpace) Build(clearInstances bool) (*Problem, error) {
	if len(s.instances) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}

	labelCount := feature.NewCounter[string]()
	featureCount := feature.NewCounter[int]()
	weighted := s.opts.weighted
	for _, inst := range s.instances {
		labelCount.Inc(inst.label)
		for _, idx := range inst.vector.Indices {
			featureCount.Inc(idx)
		}
		weighted = weighted || inst.vector.IsWeighted()
	}

	labels := feature.NewLabelMap()
	for _, l := range labelCount.Above(s.opts.labelCutoff) {
		labels.Add(l)
	}
	kept := make(map[int]struct{})
	maxIndex := 0
	for _, idx := range featureCount.Above(s.opts.featureCutoff) {
		kept[idx] = struct{}{}
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	if labels.Size() == 0 || len(kept) == 0 {
		return nil, emptyVocabulary(labels.Size(), len(kept), s.opts)
	}

	p := &Problem{
		LabelNames:  labels.Labels(),
		NumLabels:   labels.Size(),
		NumFeatures: maxIndex + 1,
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
		for j, idx := range inst.vector.Indices {
			if _, ok := kept[idx]; !ok {
				continue
			}
			idxs = append(idxs, idx)
			if weighted {
				vals = append(vals, inst.vector.Weight(j))
			}
		}
		p.Labels = append(p.Labels, y)
		p.Features = append(p.Features, idxs)
		if weighted {
			p.Values = append(p.Values, vals)
		}
	}

	s.opts.logger.Info("sparse space built",
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

func emptyVocabulary(numLabels, numFeatures int, o options) error {
	err := errors.Wrapf(errors.ErrEmptyVocabulary, "%d labels and %d features survive label cutoff %d and feature cutoff %d",
		numLabels, numFeatures, o.labelCutoff, o.featureCutoff)
	return errors.WithHint(err, "lower the cutoffs or add more training data")
}
