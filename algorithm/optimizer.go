package algorithm

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// Optimizer trains a single binary weight vector.
//
// y holds +1 or -1 per row of p. The returned vector has length
// p.NumFeatures with the bias weight at index 0, scaled so that the bias
// feature contributes the constant value 1 at prediction time.
// Implementations keep no per-call state, so one Optimizer may serve
// concurrent TrainBinary calls.
type Optimizer interface {
	Kind() Kind
	Params() Params
	TrainBinary(ctx context.Context, p *trainspace.Problem, y []int8) ([]float64, *Result, error)
}

// Multiclass is implemented by optimizers that can train every label
// jointly. The returned vector has length p.NumFeatures*p.NumLabels laid
// out as index*L + label.
type Multiclass interface {
	Optimizer
	TrainMulticlass(ctx context.Context, p *trainspace.Problem) ([]float64, *Result, error)
}

// Result summarises one training run.
type Result struct {
	// Iterations is the number of completed epochs or sweeps.
	Iterations int
	// Converged is false when MaxIter was reached.
	Converged bool
	// History holds one value per iteration: training accuracy in percent
	// for AdaGrad, the projected-gradient gap for the dual SVM and the
	// maximum gradient for dual LR.
	History []float64
}

// New builds the optimizer for kind.
func New(kind Kind, opts ...Option) (Optimizer, error) {
	params, err := NewParams(kind, opts...)
	if err != nil {
		return nil, err
	}
	return NewFromParams(params)
}

// NewFromParams builds the optimizer described by params.
func NewFromParams(params Params) (Optimizer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	switch params.Kind {
	case HingeLoss, LogisticLoss:
		return &AdaGrad{params: params}, nil
	case L1SVM, L2SVM:
		return &DualSVM{params: params}, nil
	case L2LR:
		return &DualLR{params: params}, nil
	}
	return nil, errors.NewValidationError("kind", "unknown optimizer", int(params.Kind))
}

func checkBinaryInput(op string, p *trainspace.Problem, y []int8) error {
	if p == nil || p.Len() == 0 {
		return errors.WithStack(errors.ErrEmptyData)
	}
	if len(y) != p.Len() {
		return errors.NewDimensionError(op, "binary labels length mismatch", p.Len(), len(y))
	}
	for i, v := range y {
		if v != 1 && v != -1 {
			return errors.NewValidationError("y", "binary labels must be +1 or -1", i)
		}
	}
	return nil
}

// dot is w·x over the row's active features, bias excluded.
func dot(w []float64, p *trainspace.Problem, i int) float64 {
	s := 0.0
	if p.Values == nil {
		for _, idx := range p.Features[i] {
			s += w[idx]
		}
		return s
	}
	for j, idx := range p.Features[i] {
		s += w[idx] * p.Values[i][j]
	}
	return s
}

// squaredNorm is ||x_i||², bias excluded.
func squaredNorm(p *trainspace.Problem, i int) float64 {
	if p.Values == nil {
		return float64(len(p.Features[i]))
	}
	return floats.Dot(p.Values[i], p.Values[i])
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
