package trainer

import (
	"github.com/tevino/abool"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// columnGuard records which weight columns have been claimed by a worker.
type columnGuard struct {
	claimed []*abool.AtomicBool
}

func newColumnGuard(numLabels int) *columnGuard {
	g := &columnGuard{claimed: make([]*abool.AtomicBool, numLabels)}
	for i := range g.claimed {
		g.claimed[i] = abool.New()
	}
	return g
}

// Claim marks the column of label as taken. A nil guard accepts everything.
func (g *columnGuard) Claim(label int) error {
	if g == nil {
		return nil
	}
	if !g.claimed[label].SetToIf(false, true) {
		return errors.NewColumnOverlapError(label)
	}
	return nil
}

// Unclaimed lists labels no worker claimed.
func (g *columnGuard) Unclaimed() []int {
	if g == nil {
		return nil
	}
	var out []int
	for label, c := range g.claimed {
		if !c.IsSet() {
			out = append(out, label)
		}
	}
	return out
}
