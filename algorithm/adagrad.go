package algorithm

import (
	"context"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// logisticThreshold skips updates whose gradient on the gold label is this
// small or smaller.
const logisticThreshold = 0.01

// AdaGrad is online learning with per-coordinate adaptive step sizes
// alpha / (rho + sqrt(sum of squared gradients)).
type AdaGrad struct {
	params Params
}

// Kind returns HingeLoss or LogisticLoss.
func (a *AdaGrad) Kind() Kind { return a.params.Kind }

// Params returns a copy of the hyperparameters.
func (a *AdaGrad) Params() Params { return a.params }

// adaState is the mutable part of an AdaGrad run. labels is 1 for the
// binary form and L for the joint form.
type adaState struct {
	kind       Kind
	alpha, rho float64
	labels     int

	weights []float64
	accum   []float64
	average bool
	avg     []float64
	count   float64

	scores []float64
}

func newAdaState(params Params, numFeatures, labels int) *adaState {
	size := numFeatures * labels
	s := &adaState{
		kind:    params.Kind,
		alpha:   params.Alpha,
		rho:     params.Rho,
		labels:  labels,
		weights: make([]float64, size),
		accum:   make([]float64, size),
		average: params.Average,
		count:   1,
		scores:  make([]float64, labels),
	}
	if s.average {
		s.avg = make([]float64, size)
	}
	return s
}

func (s *adaState) resetAccumulator() {
	clear(s.accum)
}

// step applies one AdaGrad coordinate update with gradient g.
func (s *adaState) step(k int, g float64) {
	s.accum[k] += g * g
	delta := s.alpha / (s.rho + math.Sqrt(s.accum[k])) * g
	s.weights[k] += delta
	if s.average {
		s.avg[k] += delta * s.count
	}
}

// effective returns the weights a model should use: the raw weights, or
// their running average when averaging is on.
func (s *adaState) effective() []float64 {
	if !s.average {
		return s.weights
	}
	w := make([]float64, len(s.weights))
	floats.AddScaledTo(w, s.weights, -1/s.count, s.avg)
	return w
}

func (s *adaState) updateBinary(p *trainspace.Problem, i int, y float64) {
	score := s.weights[0] + dot(s.weights, p, i)
	var g float64
	switch s.kind {
	case HingeLoss:
		if y*score >= 1 {
			s.count++
			return
		}
		g = y
	default:
		g = y * (1 - errors.Sigmoid(y*score))
		if math.Abs(g) <= logisticThreshold {
			s.count++
			return
		}
	}
	s.step(0, g)
	for j, idx := range p.Features[i] {
		s.step(idx, g*p.Value(i, j))
	}
	s.count++
}

// jointScores fills dst with w_l·x + bias_l for every label.
func jointScores(dst, w []float64, p *trainspace.Problem, i, labels int) {
	copy(dst, w[:labels])
	for j, idx := range p.Features[i] {
		v := p.Value(i, j)
		base := idx * labels
		for l := 0; l < labels; l++ {
			dst[l] += w[base+l] * v
		}
	}
}

func (s *adaState) updateMulticlass(p *trainspace.Problem, i int) {
	L := s.labels
	gold := p.Labels[i]
	jointScores(s.scores, s.weights, p, i, L)

	switch s.kind {
	case HingeLoss:
		s.scores[gold]--
		pred := floats.MaxIdx(s.scores)
		if pred != gold {
			s.step(gold, 1)
			s.step(pred, -1)
			for j, idx := range p.Features[i] {
				v := p.Value(i, j)
				s.step(idx*L+gold, v)
				s.step(idx*L+pred, -v)
			}
		}
	default:
		errors.SoftmaxInPlace(s.scores)
		for l := range s.scores {
			s.scores[l] = -s.scores[l]
		}
		s.scores[gold]++
		if s.scores[gold] > logisticThreshold {
			for l, g := range s.scores {
				s.step(l, g)
			}
			for j, idx := range p.Features[i] {
				v := p.Value(i, j)
				for l, g := range s.scores {
					s.step(idx*L+l, g*v)
				}
			}
		}
	}
	s.count++
}

// binaryAccuracy is the percentage of rows whose sign(w·x) matches y. A
// zero score counts as +1.
func binaryAccuracy(w []float64, p *trainspace.Problem, y []int8) float64 {
	correct := 0
	for i := range y {
		s := w[0] + dot(w, p, i)
		if (s >= 0) == (y[i] > 0) {
			correct++
		}
	}
	return 100 * float64(correct) / float64(len(y))
}

func multiclassAccuracy(w []float64, p *trainspace.Problem) float64 {
	scores := make([]float64, p.NumLabels)
	correct := 0
	for i, gold := range p.Labels {
		jointScores(scores, w, p, i, p.NumLabels)
		if floats.MaxIdx(scores) == gold {
			correct++
		}
	}
	return 100 * float64(correct) / float64(p.Len())
}

// TrainBinary trains a D-length weight vector for labels y.
func (a *AdaGrad) TrainBinary(ctx context.Context, p *trainspace.Problem, y []int8) ([]float64, *Result, error) {
	if err := checkBinaryInput("AdaGrad.TrainBinary", p, y); err != nil {
		return nil, nil, err
	}
	st := newAdaState(a.params, p.NumFeatures, 1)
	res, err := a.epochs(ctx, p, st,
		func(i int) { st.updateBinary(p, i, float64(y[i])) },
		func(w []float64) float64 { return binaryAccuracy(w, p, y) },
	)
	if err != nil {
		return nil, nil, err
	}
	return st.effective(), res, nil
}

// TrainMulticlass trains all labels jointly.
func (a *AdaGrad) TrainMulticlass(ctx context.Context, p *trainspace.Problem) ([]float64, *Result, error) {
	if p == nil || p.Len() == 0 {
		return nil, nil, errors.WithStack(errors.ErrEmptyData)
	}
	st := newAdaState(a.params, p.NumFeatures, p.NumLabels)
	res, err := a.epochs(ctx, p, st,
		func(i int) { st.updateMulticlass(p, i) },
		func(w []float64) float64 { return multiclassAccuracy(w, p) },
	)
	if err != nil {
		return nil, nil, err
	}
	return st.effective(), res, nil
}

// epochs runs shuffled passes until the training accuracy of two
// consecutive epochs has a standard deviation below epsilon. Each epoch
// reshuffles the persistent order with a generator freshly seeded from
// the configured seed, and starts from an empty accumulator.
func (a *AdaGrad) epochs(ctx context.Context, p *trainspace.Problem, st *adaState,
	update func(i int), accuracy func(w []float64) float64) (*Result, error) {
	logger := a.params.Logger.With(log.AlgorithmKey, a.params.Kind.String())
	start := time.Now()
	order := identity(p.Len())
	res := &Result{}
	prev := 0.0

	for epoch := 1; epoch <= a.params.MaxIter; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "%s stopped at epoch %d", a.params.Kind, epoch)
		}
		rng := rand.New(rand.NewSource(a.params.Seed))
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		st.resetAccumulator()
		for _, i := range order {
			update(i)
		}

		acc := accuracy(st.effective())
		if err := errors.CheckScalar(a.params.Kind.String(), acc, epoch); err != nil {
			return nil, err
		}
		res.History = append(res.History, acc)
		res.Iterations = epoch
		delta := stat.StdDev([]float64{prev, acc}, nil)
		logger.Debug("epoch finished",
			log.EpochKey, epoch,
			log.AccuracyKey, acc,
			log.DeltaKey, delta,
		)
		if epoch > 1 && delta < a.params.Epsilon {
			res.Converged = true
			break
		}
		prev = acc
	}

	if err := errors.CheckNumericalStability(a.params.Kind.String(), st.weights, res.Iterations); err != nil {
		return nil, err
	}
	if !res.Converged {
		errors.Warn(errors.NewConvergenceWarning(a.params.Kind.String(), res.Iterations, ""))
	}
	logger.Info("training finished",
		log.OperationKey, log.OperationTrain,
		log.IterationKey, res.Iterations,
		log.AccuracyKey, res.History[len(res.History)-1],
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}
