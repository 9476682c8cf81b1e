package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/metrics"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
)

// evaluation holds the scores printed by eval.
type evaluation struct {
	labels   []string
	n        int
	skipped  int
	accuracy float64
	perLabel []metrics.LabelScore
	macroF1  float64
	logLoss  float64
	brier    float64
	auc      float64
	binary   bool
}

func (c *CLI) newEvalCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:     "eval <modelfile>",
		Short:   "Score a model on labeled feature lines",
		Args:    cobra.ExactArgs(1),
		Example: `  nlplearn eval pos.model --input heldout.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0], c.cfg)
			if err != nil {
				return err
			}
			in, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer in.Close()

			ev, err := evaluate(m, in)
			if err != nil {
				return err
			}
			if ev.skipped > 0 {
				log.GetLoggerWithName("cli").Warn("skipped instances with labels unknown to the model",
					log.DroppedKey, ev.skipped)
			}
			ev.print(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "Held-out data, one \"label feature...\" line per instance")
	return cmd
}

func evaluate(m *lineModel, r io.Reader) (*evaluation, error) {
	var gold []int
	var vs []feature.SparseFeatureVector
	skipped := 0
	err := eachLine(r, func(fields []string) error {
		idx, ok := m.LabelIndex(fields[0])
		if !ok {
			skipped++
			return nil
		}
		v, err := m.features(fields[1:])
		if err != nil {
			return err
		}
		gold = append(gold, idx)
		vs = append(vs, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(gold) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "no instance with a known label")
	}

	n, L := len(gold), m.NumLabels()
	pred := make([]int, n)
	for i, p := range m.PredictBatch(vs) {
		pred[i] = p.Index
	}
	probs := mat.NewDense(n, L, nil)
	for i, v := range vs {
		probs.SetRow(i, m.probabilities(v))
	}

	ev := &evaluation{labels: m.Labels(), n: n, skipped: skipped, binary: L == 2}
	if ev.accuracy, err = metrics.Accuracy(gold, pred); err != nil {
		return nil, err
	}
	cm, err := metrics.ConfusionMatrix(gold, pred, L)
	if err != nil {
		return nil, err
	}
	ev.perLabel = metrics.PerLabel(cm)
	ev.macroF1 = metrics.MacroF1(ev.perLabel)
	if ev.logLoss, err = metrics.LogLoss(gold, probs); err != nil {
		return nil, err
	}
	if ev.brier, err = metrics.BrierScore(gold, probs); err != nil {
		return nil, err
	}
	if ev.binary {
		// label 0 is the positive class of a binary model
		yTrue := mat.NewVecDense(n, nil)
		for i, g := range gold {
			if g == 0 {
				yTrue.SetVec(i, 1)
			}
		}
		yScore := mat.NewVecDense(n, mat.Col(nil, 0, probs))
		if ev.auc, err = metrics.AUC(yTrue, yScore); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

func (e *evaluation) print(w io.Writer) {
	fmt.Fprintf(w, "instances: %d  skipped: %d\n", e.n, e.skipped)
	fmt.Fprintf(w, "accuracy: %.2f%%  macro F1: %.2f%%\n", e.accuracy*100, e.macroF1*100)
	fmt.Fprintf(w, "log loss: %.4f  brier: %.4f\n", e.logLoss, e.brier)
	if e.binary {
		fmt.Fprintf(w, "AUC: %.4f\n", e.auc)
	}
	fmt.Fprintf(w, "\n%12s  %6s  %6s  %6s  %7s\n", "label", "prec", "recall", "f1", "support")
	for _, s := range e.perLabel {
		fmt.Fprintf(w, "%12s  %5.1f%%  %5.1f%%  %5.1f%%  %7d\n",
			e.labels[s.Label], s.Precision*100, s.Recall*100, s.F1*100, s.Support)
	}
}
