package algorithm

import (
	"context"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// updateThreshold is the smallest projected gradient that moves a dual
// variable.
const updateThreshold = 1.0e-12

// DualSVM solves the dual of the L2-regularized L1-loss (hinge) or L2-loss
// (squared hinge) SVM by coordinate descent with shrinking:
//
//	min_α  0.5 αᵀ(Q+D)α - eᵀα   s.t.  0 ≤ α_i ≤ U
//
// where Q_ij = y_i y_j x_iᵀx_j. For L1SVM D = 0 and U = C; for L2SVM
// D_ii = 1/(2C) and U = ∞.
type DualSVM struct {
	params Params
}

// Kind returns L1SVM or L2SVM.
func (d *DualSVM) Kind() Kind { return d.params.Kind }

// Params returns a copy of the hyperparameters.
func (d *DualSVM) Params() Params { return d.params }

// TrainBinary runs coordinate descent sweeps until the projected gradient
// gap over the full active set drops to epsilon.
func (d *DualSVM) TrainBinary(ctx context.Context, p *trainspace.Problem, y []int8) ([]float64, *Result, error) {
	if err := checkBinaryInput("DualSVM.TrainBinary", p, y); err != nil {
		return nil, nil, err
	}
	logger := d.params.Logger.With(log.AlgorithmKey, d.params.Kind.String())
	start := time.Now()

	l := p.Len()
	bias := d.params.Bias
	diag, upper := 0.5/d.params.Cost, math.Inf(1)
	if d.params.Kind == L1SVM {
		diag, upper = 0, d.params.Cost
	}

	w := make([]float64, p.NumFeatures)
	alpha := make([]float64, l)
	qd := make([]float64, l)
	index := identity(l)
	for i := 0; i < l; i++ {
		qd[i] = diag + squaredNorm(p, i) + bias*bias
	}

	activeSize := l
	pgMaxOld, pgMinOld := math.Inf(1), math.Inf(-1)
	res := &Result{}

	for res.Iterations < d.params.MaxIter {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrapf(err, "%s stopped at sweep %d", d.params.Kind, res.Iterations+1)
		}
		pgMaxNew, pgMinNew := math.Inf(-1), math.Inf(1)

		rng := rand.New(rand.NewSource(d.params.Seed))
		for i := 0; i < activeSize; i++ {
			j := i + rng.Intn(activeSize-i)
			index[i], index[j] = index[j], index[i]
		}

		for s := 0; s < activeSize; s++ {
			i := index[s]
			yi := float64(y[i])
			g := yi*(w[0]*bias+dot(w, p, i)) - 1 + alpha[i]*diag

			pg := 0.0
			switch {
			case alpha[i] == 0:
				if g > pgMaxOld {
					activeSize--
					index[s], index[activeSize] = index[activeSize], index[s]
					s--
					continue
				}
				if g < 0 {
					pg = g
				}
			case alpha[i] == upper:
				if g < pgMinOld {
					activeSize--
					index[s], index[activeSize] = index[activeSize], index[s]
					s--
					continue
				}
				if g > 0 {
					pg = g
				}
			default:
				pg = g
			}
			pgMaxNew = math.Max(pgMaxNew, pg)
			pgMinNew = math.Min(pgMinNew, pg)

			if math.Abs(pg) > updateThreshold {
				old := alpha[i]
				alpha[i] = math.Min(math.Max(alpha[i]-g/qd[i], 0), upper)
				step := (alpha[i] - old) * yi
				w[0] += step * bias
				for j, idx := range p.Features[i] {
					w[idx] += step * p.Value(i, j)
				}
			}
		}

		res.Iterations++
		gap := pgMaxNew - pgMinNew
		res.History = append(res.History, gap)
		if d.params.DualObserver != nil {
			d.params.DualObserver(res.Iterations, alpha, upper)
		}
		logger.Debug("sweep finished",
			log.IterationKey, res.Iterations,
			log.DeltaKey, gap,
			log.ActiveSizeKey, activeSize,
		)

		if gap <= d.params.Epsilon {
			if activeSize == l {
				res.Converged = true
				break
			}
			activeSize = l
			pgMaxOld, pgMinOld = math.Inf(1), math.Inf(-1)
			continue
		}
		pgMaxOld, pgMinOld = pgMaxNew, pgMinNew
		if pgMaxOld <= 0 {
			pgMaxOld = math.Inf(1)
		}
		if pgMinOld >= 0 {
			pgMinOld = math.Inf(-1)
		}
	}

	if err := errors.CheckNumericalStability(d.params.Kind.String(), w, res.Iterations); err != nil {
		return nil, nil, err
	}
	if !res.Converged {
		hint := ""
		if d.params.Kind == L1SVM {
			hint = "L2SVM usually converges in fewer sweeps"
		}
		errors.Warn(errors.NewConvergenceWarning(d.params.Kind.String(), res.Iterations, hint))
	}

	objective, nSV := floats.Dot(w, w), 0
	for _, a := range alpha {
		objective += a * (a*diag - 2)
		if a > 0 {
			nSV++
		}
	}
	logger.Info("training finished",
		log.OperationKey, log.OperationTrain,
		log.IterationKey, res.Iterations,
		log.ObjectiveKey, objective/2,
		log.SupportVectorsKey, nSV,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	w[0] *= bias
	return w, res, nil
}
