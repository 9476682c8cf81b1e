// Package trainer turns a built training problem into a classifier.Model.
//
// Two-label problems are trained as one binary run with label 0 on the
// positive side. Larger problems are trained jointly when the optimizer
// supports it (AdaGrad), and otherwise one-vs-all: one binary run per label
// on a bounded worker pool, each run writing only its own weight column.
package trainer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/YuminosukeSato/nlplearn/algorithm"
	"github.com/YuminosukeSato/nlplearn/classifier"
	"github.com/YuminosukeSato/nlplearn/core/model"
	"github.com/YuminosukeSato/nlplearn/core/parallel"
	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// Mode is how a problem was decomposed.
type Mode string

const (
	ModeBinary    Mode = "binary"
	ModeJoint     Mode = "joint"
	ModeOneVsAll  Mode = "one-vs-all"
	ModeStreaming Mode = "streaming"
)

// LabelResult is the optimizer outcome for one weight column. Joint and
// streaming runs report a single entry with Label -1.
type LabelResult struct {
	Label int
	*algorithm.Result
}

// Report describes the last successful training run.
type Report struct {
	Algorithm   algorithm.Kind
	Mode        Mode
	NumLabels   int
	NumFeatures int
	NumSamples  int
	Threads     int
	Duration    time.Duration
	Results     []LabelResult

	// Streaming runs with drift detection: error rate of the last batch
	// under the previous model (-1 when it was not scored) and the
	// detector's verdict.
	BatchError float64
	Drift      DriftStatus
}

// Converged reports whether every run converged.
func (r *Report) Converged() bool {
	for _, res := range r.Results {
		if !res.Converged {
			return false
		}
	}
	return true
}

// Trainer runs an optimizer over training problems.
type Trainer struct {
	state *model.StateManager
	opt   algorithm.Optimizer
	opts  options

	mu     sync.RWMutex
	model  *classifier.Model
	report *Report
	online *algorithm.Online
	vocab  *feature.FeatureMap
}

// New creates a Trainer around opt.
func New(opt algorithm.Optimizer, opts ...Option) *Trainer {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Trainer{
		state: model.NewStateManager(),
		opt:   opt,
		opts:  o,
	}
}

// NewWithKind builds the optimizer for kind and wraps it in a Trainer.
func NewWithKind(kind algorithm.Kind, algOpts []algorithm.Option, opts ...Option) (*Trainer, error) {
	opt, err := algorithm.New(kind, algOpts...)
	if err != nil {
		return nil, err
	}
	return New(opt, opts...), nil
}

// State is the lifecycle stage of the trainer.
func (t *Trainer) State() model.State {
	return t.state.State()
}

// Optimizer returns the wrapped optimizer.
func (t *Trainer) Optimizer() algorithm.Optimizer {
	return t.opt
}

// Model returns the model of the last successful run.
func (t *Trainer) Model() (*classifier.Model, error) {
	if err := t.state.RequireFitted("Trainer", "Model"); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.model, nil
}

// Report returns the report of the last successful run.
func (t *Trainer) Report() (*Report, error) {
	if err := t.state.RequireFitted("Trainer", "Report"); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.report, nil
}

// Train fits a model to p. While a run is in progress further calls fail
// with ErrAlreadyTraining. On any error the trainer returns to UNTRAINED
// and no model is kept.
func (t *Trainer) Train(ctx context.Context, p *trainspace.Problem) (m *classifier.Model, err error) {
	if err := t.state.BeginTraining(); err != nil {
		return nil, err
	}
	logger := t.opts.logger.With(
		log.OperationKey, log.OperationTrain,
		log.AlgorithmKey, t.opt.Kind().String(),
	)
	defer func() {
		if err != nil {
			t.state.AbortTraining()
			t.mu.Lock()
			t.model, t.report, t.online, t.vocab = nil, nil, nil, nil
			t.mu.Unlock()
			logger.Error("training failed", err)
		}
	}()

	if p == nil || p.Len() == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	if t.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.timeout)
		defer cancel()
	}

	m, err = classifier.NewModel(p.LabelNames, p.NumFeatures)
	if err != nil {
		return nil, err
	}
	report := &Report{
		Algorithm:   t.opt.Kind(),
		NumLabels:   p.NumLabels,
		NumFeatures: p.NumFeatures,
		NumSamples:  p.Len(),
		Threads:     1,
	}
	logger.Info("training started", append([]any{
		log.SamplesKey, p.Len(),
		log.LabelsKey, p.NumLabels,
		log.FeaturesKey, p.NumFeatures,
	}, hyperparamFields(t.opt.Params())...)...)
	start := time.Now()

	mc, joint := t.opt.(algorithm.Multiclass)
	switch {
	case m.IsBinary():
		report.Mode = ModeBinary
		err = t.trainBinary(ctx, p, m, report)
	case joint:
		report.Mode = ModeJoint
		err = t.trainJoint(ctx, mc, p, m, report)
	default:
		report.Mode = ModeOneVsAll
		err = t.trainOneVsAll(ctx, p, m, report, logger)
	}
	if err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	t.mu.Lock()
	t.model, t.report, t.online, t.vocab = m, report, nil, nil
	t.mu.Unlock()
	t.state.FinishTraining()
	logger.Info("training finished",
		log.ThreadsKey, report.Threads,
		log.DurationMsKey, report.Duration.Milliseconds(),
	)
	return m, nil
}

// TrainStringModel trains on a problem built by a StringSpace and attaches
// its vocabulary.
func (t *Trainer) TrainStringModel(ctx context.Context, p *trainspace.Problem) (*classifier.StringModel, error) {
	if p != nil && p.Vocabulary == nil {
		return nil, errors.NewValueError("TrainStringModel", "problem has no vocabulary, use TrainSparseModel")
	}
	m, err := t.Train(ctx, p)
	if err != nil {
		return nil, err
	}
	return classifier.NewStringModel(m, p.Vocabulary), nil
}

// TrainSparseModel trains on a problem built by a SparseSpace.
func (t *Trainer) TrainSparseModel(ctx context.Context, p *trainspace.Problem) (*classifier.SparseModel, error) {
	m, err := t.Train(ctx, p)
	if err != nil {
		return nil, err
	}
	return classifier.NewSparseModel(m), nil
}

func (t *Trainer) trainBinary(ctx context.Context, p *trainspace.Problem, m *classifier.Model, report *Report) error {
	return errors.SafeExecute("train binary", func() error {
		w, res, err := t.opt.TrainBinary(ctx, p, p.BinaryLabels(0))
		if err != nil {
			return errors.NewModelError("Train", "binary", err)
		}
		if err := m.CopyWeights(w, 0); err != nil {
			return err
		}
		report.Results = []LabelResult{{Label: 0, Result: res}}
		return nil
	})
}

func (t *Trainer) trainJoint(ctx context.Context, mc algorithm.Multiclass, p *trainspace.Problem, m *classifier.Model, report *Report) error {
	return errors.SafeExecute("train joint", func() error {
		w, res, err := mc.TrainMulticlass(ctx, p)
		if err != nil {
			return errors.NewModelError("Train", "joint", err)
		}
		if err := m.SetWeights(w); err != nil {
			return err
		}
		report.Results = []LabelResult{{Label: -1, Result: res}}
		return nil
	})
}

func (t *Trainer) trainOneVsAll(ctx context.Context, p *trainspace.Problem, m *classifier.Model, report *Report, logger log.Logger) error {
	threads := t.opts.threads
	if threads > p.NumLabels {
		threads = p.NumLabels
	}
	report.Threads = threads
	var guard *columnGuard
	if t.opts.debugChecks {
		guard = newColumnGuard(p.NumLabels)
	}
	results := make([]LabelResult, p.NumLabels)

	err := parallel.ForEach(ctx, p.NumLabels, threads, func(ctx context.Context, label int) error {
		return errors.SafeExecute(fmt.Sprintf("train label %d", label), func() error {
			if err := guard.Claim(label); err != nil {
				return err
			}
			w, res, err := t.opt.TrainBinary(ctx, p, p.BinaryLabels(label))
			if err != nil {
				return errors.NewModelError("Train", fmt.Sprintf("label %q", p.LabelNames[label]), err)
			}
			if err := m.CopyWeights(w, label); err != nil {
				return err
			}
			results[label] = LabelResult{Label: label, Result: res}
			logger.Debug("label finished",
				log.LabelKey, label,
				log.IterationKey, res.Iterations,
			)
			return nil
		})
	})
	if err != nil {
		return err
	}
	if missing := guard.Unclaimed(); len(missing) > 0 {
		return errors.Newf("one-vs-all finished without training labels %v", missing)
	}
	report.Results = results
	return nil
}

// hyperparamFields lists the settings the optimizer family actually reads.
func hyperparamFields(params algorithm.Params) []any {
	fields := []any{
		log.EpsilonKey, params.Epsilon,
		log.RandomSeedKey, params.Seed,
	}
	if params.Kind.IsAdaGrad() {
		return append(fields, log.LearningRateKey, params.Alpha, log.RhoKey, params.Rho)
	}
	return append(fields, log.CostKey, params.Cost, log.BiasKey, params.Bias)
}
