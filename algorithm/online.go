package algorithm

import (
	"context"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// Online is a joint AdaGrad learner fed one batch at a time. Unlike the
// epoch loop of AdaGrad, the accumulator and the averaging counter persist
// across batches, and rows are visited in the order given.
type Online struct {
	params      Params
	numLabels   int
	numFeatures int
	state       *adaState
	batches     int
}

// NewOnline creates a learner for a fixed label set and feature dimension.
func NewOnline(kind Kind, numLabels, numFeatures int, opts ...Option) (*Online, error) {
	if !kind.IsAdaGrad() {
		return nil, errors.NewValidationError("kind", "online learning needs an AdaGrad optimizer", kind.String())
	}
	if numLabels < 1 {
		return nil, errors.NewValidationError("numLabels", "must be positive", numLabels)
	}
	if numFeatures < 1 {
		return nil, errors.NewValidationError("numFeatures", "must be positive", numFeatures)
	}
	params, err := NewParams(kind, opts...)
	if err != nil {
		return nil, err
	}
	return &Online{
		params:      params,
		numLabels:   numLabels,
		numFeatures: numFeatures,
		state:       newAdaState(params, numFeatures, numLabels),
	}, nil
}

// PartialFit makes one pass over p and returns the training accuracy of
// the batch, in percent, under the updated weights. p may use fewer
// features than the learner but not more.
func (o *Online) PartialFit(ctx context.Context, p *trainspace.Problem) (float64, error) {
	if p == nil || p.Len() == 0 {
		return 0, errors.WithStack(errors.ErrEmptyData)
	}
	if p.NumLabels != o.numLabels {
		return 0, errors.NewDimensionError("Online.PartialFit", "label count mismatch", o.numLabels, p.NumLabels)
	}
	if p.NumFeatures > o.numFeatures {
		return 0, errors.NewDimensionError("Online.PartialFit", "feature dimension exceeds learner", o.numFeatures, p.NumFeatures)
	}
	for i := 0; i < p.Len(); i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, errors.Wrapf(err, "partial fit stopped at row %d", i)
			}
		}
		o.state.updateMulticlass(p, i)
	}
	o.batches++
	if err := errors.CheckNumericalStability(o.params.Kind.String(), o.state.weights, o.batches); err != nil {
		return 0, err
	}
	acc := multiclassAccuracy(o.state.effective(), p)
	o.params.Logger.Debug("batch finished",
		log.AlgorithmKey, o.params.Kind.String(),
		log.SamplesKey, p.Len(),
		log.IterationKey, o.batches,
		log.AccuracyKey, acc,
	)
	return acc, nil
}

// Weights returns a copy of the joint weights, averaged when enabled.
func (o *Online) Weights() []float64 {
	w := o.state.effective()
	out := make([]float64, len(w))
	copy(out, w)
	return out
}

// NumLabels is the label count fixed at construction.
func (o *Online) NumLabels() int { return o.numLabels }

// NumFeatures is the feature dimension fixed at construction.
func (o *Online) NumFeatures() int { return o.numFeatures }

// Batches is the number of completed PartialFit calls.
func (o *Online) Batches() int { return o.batches }
