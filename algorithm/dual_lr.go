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

const (
	maxInnerIter = 100
	// newtonShrink scales z back into (0, C) when a Newton step overshoots.
	newtonShrink = 0.1
)

// DualLR solves the dual of L2-regularized logistic regression by
// coordinate descent. Each row owns a pair (α_2i, α_2i+1) with
// α_2i + α_2i+1 = C, and each one-variable sub-problem
//
//	g(z) = z log z + (C-z) log(C-z) + a/2 (z-α_old)² + sign·b (z-α_old)
//
// is minimised by a safeguarded Newton method.
type DualLR struct {
	params Params
}

// Kind returns L2LR.
func (d *DualLR) Kind() Kind { return d.params.Kind }

// Params returns a copy of the hyperparameters.
func (d *DualLR) Params() Params { return d.params }

// TrainBinary runs sweeps until the largest sub-problem gradient falls
// below epsilon.
func (d *DualLR) TrainBinary(ctx context.Context, p *trainspace.Problem, y []int8) ([]float64, *Result, error) {
	if err := checkBinaryInput("DualLR.TrainBinary", p, y); err != nil {
		return nil, nil, err
	}
	logger := d.params.Logger.With(log.AlgorithmKey, d.params.Kind.String())
	start := time.Now()

	l := p.Len()
	C := d.params.Cost
	bias := d.params.Bias
	innerEps := 1e-2
	innerEpsMin := math.Min(1e-8, d.params.Epsilon)

	w := make([]float64, p.NumFeatures)
	alpha := make([]float64, 2*l)
	xTx := make([]float64, l)
	index := identity(l)

	axpy := func(a float64, i int) {
		w[0] += a * bias
		for j, idx := range p.Features[i] {
			w[idx] += a * p.Value(i, j)
		}
	}
	for i := 0; i < l; i++ {
		alpha[2*i] = math.Min(0.001*C, 1e-8)
		alpha[2*i+1] = C - alpha[2*i]
		xTx[i] = squaredNorm(p, i) + bias*bias
		axpy(float64(y[i])*alpha[2*i], i)
	}

	res := &Result{}
	for res.Iterations < d.params.MaxIter {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrapf(err, "%s stopped at sweep %d", d.params.Kind, res.Iterations+1)
		}
		rng := rand.New(rand.NewSource(d.params.Seed))
		for i := 0; i < l; i++ {
			j := i + rng.Intn(l-i)
			index[i], index[j] = index[j], index[i]
		}

		newtonIter := 0
		gMax := 0.0
		for _, i := range index {
			yi := float64(y[i])
			a := xTx[i]
			b := yi * (w[0]*bias + dot(w, p, i))

			ind1, ind2, sign := 2*i, 2*i+1, 1.0
			if 0.5*a*(alpha[ind2]-alpha[ind1])+b < 0 {
				ind1, ind2, sign = 2*i+1, 2*i, -1
			}

			old := alpha[ind1]
			z := old
			if C-z < 0.5*C {
				z *= 0.1
			}
			gp := a*(z-old) + sign*b + math.Log(z/(C-z))
			gMax = math.Max(gMax, math.Abs(gp))

			inner := 0
			for inner <= maxInnerIter && math.Abs(gp) >= innerEps {
				gpp := a + C/(C-z)/z
				if tmpz := z - gp/gpp; tmpz <= 0 {
					z *= newtonShrink
				} else {
					z = tmpz
				}
				gp = a*(z-old) + sign*b + math.Log(z/(C-z))
				newtonIter++
				inner++
			}

			if inner > 0 {
				alpha[ind1] = z
				alpha[ind2] = C - z
				axpy(sign*(z-old)*yi, i)
			}
		}

		res.Iterations++
		res.History = append(res.History, gMax)
		if d.params.DualObserver != nil {
			d.params.DualObserver(res.Iterations, alpha, C)
		}
		logger.Debug("sweep finished",
			log.IterationKey, res.Iterations,
			log.DeltaKey, gMax,
		)
		if gMax < d.params.Epsilon {
			res.Converged = true
			break
		}
		if newtonIter <= l/10 {
			innerEps = math.Max(innerEpsMin, 0.1*innerEps)
		}
	}

	if err := errors.CheckNumericalStability(d.params.Kind.String(), w, res.Iterations); err != nil {
		return nil, nil, err
	}
	if !res.Converged {
		errors.Warn(errors.NewConvergenceWarning(d.params.Kind.String(), res.Iterations, ""))
	}

	objective := floats.Dot(w, w)
	objective *= 0.5
	for i := 0; i < l; i++ {
		objective += alpha[2*i]*math.Log(alpha[2*i]) + alpha[2*i+1]*math.Log(alpha[2*i+1]) - C*math.Log(C)
	}
	logger.Info("training finished",
		log.OperationKey, log.OperationTrain,
		log.IterationKey, res.Iterations,
		log.ObjectiveKey, objective,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	w[0] *= bias
	return w, res, nil
}
