package trainer

import (
	"math"

	"github.com/YuminosukeSato/nlplearn/classifier"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// DriftStatus is the verdict of a DriftDetector after a batch.
type DriftStatus int

const (
	// DriftStable means the error rate is within the warning level.
	DriftStable DriftStatus = iota
	// DriftWarning means the error rate crossed the warning level.
	DriftWarning
	// DriftDetected means the error rate went out of control. The
	// detector has reset its statistics.
	DriftDetected
)

func (s DriftStatus) String() string {
	switch s {
	case DriftWarning:
		return "warning"
	case DriftDetected:
		return "drift"
	default:
		return "stable"
	}
}

// DriftDetector watches the prequential error of streamed batches with the
// Drift Detection Method of Gama et al. (2004), "Learning with Drift
// Detection". Every batch is scored with the model of the previous batches
// before the learner sees it.
//
// A detector is not safe for concurrent use; PartialFit calls are already
// serialized by the trainer's state machine.
type DriftDetector struct {
	minInstances int
	warningLevel float64 // μ + 2σ
	driftLevel   float64 // μ + 3σ

	n, errs int
	rate    float64
	std     float64

	// 学習開始からの最小値
	minRate float64
	minStd  float64
}

// DriftOption configures a DriftDetector.
type DriftOption func(*DriftDetector)

// WithDriftMinInstances sets how many instances are seen before any
// verdict other than stable.
func WithDriftMinInstances(n int) DriftOption {
	return func(d *DriftDetector) {
		if n < 1 {
			n = 1
		}
		d.minInstances = n
	}
}

// WithDriftLevels sets the warning and drift levels in standard deviations.
func WithDriftLevels(warning, drift float64) DriftOption {
	return func(d *DriftDetector) {
		d.warningLevel = warning
		d.driftLevel = drift
	}
}

// NewDriftDetector creates a detector with the usual 30 instances and 2σ/3σ
// levels.
func NewDriftDetector(opts ...DriftOption) *DriftDetector {
	d := &DriftDetector{
		minInstances: 30,
		warningLevel: 2,
		driftLevel:   3,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Reset()
	return d
}

// Update adds a batch of n instances of which errs were misclassified.
func (d *DriftDetector) Update(errs, n int) DriftStatus {
	d.n += n
	d.errs += errs
	if d.n < d.minInstances || d.n == 0 {
		return DriftStable
	}

	d.rate = float64(d.errs) / float64(d.n)
	d.std = math.Sqrt(d.rate * (1 - d.rate) / float64(d.n))
	level := d.rate + d.std
	if level < d.minRate+d.minStd {
		d.minRate = d.rate
		d.minStd = d.std
	}

	switch {
	case level > d.minRate+d.driftLevel*d.minStd:
		d.Reset()
		return DriftDetected
	case level > d.minRate+d.warningLevel*d.minStd:
		return DriftWarning
	default:
		return DriftStable
	}
}

// ErrorRate is the error rate since the last reset.
func (d *DriftDetector) ErrorRate() float64 {
	return d.rate
}

// Instances is the number of instances since the last reset.
func (d *DriftDetector) Instances() int {
	return d.n
}

// Reset forgets every statistic.
func (d *DriftDetector) Reset() {
	d.n, d.errs = 0, 0
	d.rate, d.std = 0, 0
	d.minRate = math.Inf(1)
	d.minStd = math.Inf(1)
}

// prequentialErrors counts the rows of p that m misclassifies.
func prequentialErrors(m *classifier.Model, p *trainspace.Problem) int {
	errs := 0
	for i := 0; i < p.Len(); i++ {
		if m.PredictBest(p.Vector(i)).Index != p.Labels[i] {
			errs++
		}
	}
	return errs
}
