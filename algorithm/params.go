package algorithm

import (
	"math"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
)

// DefaultMaxIter caps epochs (AdaGrad) and sweeps (dual coordinate descent).
const DefaultMaxIter = 1000

// DefaultSeed seeds every shuffle.
const DefaultSeed int64 = 5

// DualObserver is called after every sweep of a dual solver with the
// current dual variables and their upper bound. The slice must not be
// retained or modified.
type DualObserver func(sweep int, alpha []float64, upperBound float64)

// Params holds the hyperparameters of every optimizer. Fields that do not
// apply to a Kind are ignored.
type Params struct {
	Kind Kind

	// AdaGrad
	Alpha   float64
	Rho     float64
	Average bool

	// Dual coordinate descent
	Cost float64
	Bias float64

	// Shared
	Epsilon float64
	Seed    int64
	MaxIter int

	Logger       log.Logger
	DualObserver DualObserver
}

// Option configures Params.
type Option func(*Params)

// WithAlpha sets the AdaGrad learning rate.
func WithAlpha(alpha float64) Option { return func(p *Params) { p.Alpha = alpha } }

// WithRho sets the AdaGrad smoothing term added to sqrt(accumulator).
func WithRho(rho float64) Option { return func(p *Params) { p.Rho = rho } }

// WithAverage enables parameter averaging for AdaGrad.
func WithAverage(average bool) Option { return func(p *Params) { p.Average = average } }

// WithCost sets the dual solvers' C.
func WithCost(cost float64) Option { return func(p *Params) { p.Cost = cost } }

// WithBias sets the value of the bias feature seen by the dual solvers.
// Zero disables the bias.
func WithBias(bias float64) Option { return func(p *Params) { p.Bias = bias } }

// WithEpsilon sets the stopping tolerance.
func WithEpsilon(eps float64) Option { return func(p *Params) { p.Epsilon = eps } }

// WithSeed sets the shuffle seed.
func WithSeed(seed int64) Option { return func(p *Params) { p.Seed = seed } }

// WithMaxIter caps epochs or sweeps.
func WithMaxIter(n int) Option { return func(p *Params) { p.MaxIter = n } }

// WithLogger sets the progress logger.
func WithLogger(l log.Logger) Option { return func(p *Params) { p.Logger = l } }

// WithDualObserver installs a per-sweep hook on the dual solvers.
func WithDualObserver(obs DualObserver) Option { return func(p *Params) { p.DualObserver = obs } }

// NewParams returns the defaults for kind with opts applied, validated.
func NewParams(kind Kind, opts ...Option) (Params, error) {
	p := Params{
		Kind:    kind,
		Seed:    DefaultSeed,
		MaxIter: DefaultMaxIter,
		Logger:  log.GetLoggerWithName("algorithm"),
	}
	if kind.IsAdaGrad() {
		p.Alpha = 0.01
		p.Rho = 0.1
		p.Epsilon = 0.01
	} else {
		p.Cost = 0.1
		p.Epsilon = 0.1
		p.Bias = 0
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks the hyperparameters relevant to p.Kind.
func (p Params) Validate() error {
	if _, ok := kindNames[p.Kind]; !ok {
		return errors.NewValidationError("kind", "unknown optimizer", int(p.Kind))
	}
	if p.MaxIter < 1 {
		return errors.NewValidationError("maxIter", "must be at least 1", p.MaxIter)
	}
	if !(p.Epsilon > 0) || math.IsInf(p.Epsilon, 0) {
		return errors.NewValidationError("epsilon", "must be positive and finite", p.Epsilon)
	}
	if p.Kind.IsAdaGrad() {
		if !(p.Alpha > 0) {
			return errors.NewValidationError("alpha", "must be positive", p.Alpha)
		}
		if !(p.Rho > 0) {
			return errors.NewValidationError("rho", "must be positive", p.Rho)
		}
		return nil
	}
	if !(p.Cost > 0) || math.IsInf(p.Cost, 0) {
		return errors.NewValidationError("cost", "must be positive and finite", p.Cost)
	}
	if p.Bias < 0 || math.IsNaN(p.Bias) {
		return errors.NewValidationError("bias", "must be non-negative", p.Bias)
	}
	return nil
}
