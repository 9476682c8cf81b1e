package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/nlplearn/config"
	coremodel "github.com/YuminosukeSato/nlplearn/core/model"
	"github.com/YuminosukeSato/nlplearn/diagnostics"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
	"github.com/YuminosukeSato/nlplearn/trainer"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// space is implemented by StringSpace and SparseSpace.
type space interface {
	ReadFrom(r io.Reader) (int, error)
	Build(clearInstances bool) (*trainspace.Problem, error)
}

func (c *CLI) newTrainCommand() *cobra.Command {
	var input, plotPath string

	cmd := &cobra.Command{
		Use:   "train <modelfile>",
		Short: "Train a model on labeled feature lines",
		Args:  cobra.ExactArgs(1),
		Example: `  nlplearn train pos.model --input train.txt
  nlplearn train pos.model -c l2svm.yaml --input train.txt --plot curve.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.train(cmd.Context(), cmd, args[0], input, plotPath)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "Training data, one \"label feature...\" line per instance")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Write a learning curve image to this file")
	return cmd
}

func (c *CLI) train(ctx context.Context, cmd *cobra.Command, modelPath, input, plotPath string) error {
	logger := log.GetLoggerWithName("cli")
	start := time.Now()

	in, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer in.Close()

	var s space
	if c.cfg.Space.Type == config.SpaceSparse {
		s = trainspace.NewSparseSpace(c.cfg.SpaceOptions()...)
	} else {
		s = trainspace.NewStringSpace(c.cfg.SpaceOptions()...)
	}
	n, err := s.ReadFrom(in)
	if err != nil {
		return err
	}
	logger.Info("read training data", log.SamplesKey, n, "input", input)

	p, err := s.Build(true)
	if err != nil {
		return err
	}
	tr, err := c.cfg.NewTrainer()
	if err != nil {
		return err
	}

	if err := trainAndSave(ctx, tr, p, c.cfg.Space.Type, modelPath); err != nil {
		return err
	}
	logger.Info("model saved", "path", modelPath, log.DurationMsKey, time.Since(start).Milliseconds())

	report, err := tr.Report()
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)

	if plotPath != "" {
		pl, err := diagnostics.ReportCurve(report, p.LabelNames)
		if err != nil {
			return err
		}
		if err := diagnostics.SavePNG(pl, plotPath); err != nil {
			return err
		}
		logger.Info("learning curve saved", "path", plotPath)
	}
	return nil
}

func trainAndSave(ctx context.Context, tr *trainer.Trainer, p *trainspace.Problem, spaceType, modelPath string) error {
	var m coremodel.Persistable
	var err error
	if spaceType == config.SpaceSparse {
		m, err = tr.TrainSparseModel(ctx, p)
	} else {
		m, err = tr.TrainStringModel(ctx, p)
	}
	if err != nil {
		return err
	}
	return m.Save(modelPath)
}

func printReport(w io.Writer, r *trainer.Report) {
	fmt.Fprintf(w, "algorithm: %s (%s)\n", r.Algorithm, r.Mode)
	fmt.Fprintf(w, "labels: %d  features: %d  samples: %d  threads: %d\n",
		r.NumLabels, r.NumFeatures, r.NumSamples, r.Threads)
	fmt.Fprintf(w, "converged: %t  time: %s\n", r.Converged(), r.Duration.Round(time.Millisecond))
}
