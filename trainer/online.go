package trainer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/YuminosukeSato/nlplearn/algorithm"
	"github.com/YuminosukeSato/nlplearn/classifier"
	"github.com/YuminosukeSato/nlplearn/feature"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// PartialFit feeds one batch to a streaming AdaGrad learner and refreshes
// the model. The first call fixes the label set and feature dimension;
// later batches must use the same labels and may not exceed that
// dimension. Batches built by separate StringSpaces are re-indexed through
// the vocabulary of the first batch; features it has never seen are
// dropped. Only AdaGrad optimizers support streaming.
func (t *Trainer) PartialFit(ctx context.Context, p *trainspace.Problem) (m *classifier.Model, err error) {
	params := t.opt.Params()
	if !params.Kind.IsAdaGrad() {
		return nil, errors.NewValidationError("algorithm", "streaming needs HingeLoss or LogisticLoss", params.Kind.String())
	}
	if err := t.state.BeginTraining(); err != nil {
		return nil, err
	}
	logger := t.opts.logger.With(
		log.OperationKey, log.OperationTrain,
		log.AlgorithmKey, params.Kind.String(),
	)

	t.mu.RLock()
	online, vocab, prevModel, prevReport := t.online, t.vocab, t.model, t.report
	t.mu.RUnlock()
	streaming := online != nil
	defer func() {
		if err == nil {
			return
		}
		// a rejected batch leaves the previous model usable
		if prevModel != nil {
			t.state.FinishTraining()
		} else {
			t.state.AbortTraining()
		}
		logger.Error("partial fit failed", err)
	}()

	if p == nil || p.Len() == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	start := time.Now()
	if streaming && !slices.Equal(prevModel.Labels(), p.LabelNames) {
		return nil, errors.NewValidationError("labels", "batch label set differs from the streaming model", p.LabelNames)
	}
	if streaming {
		var dropped int
		p, dropped, err = reindexBatch(p, vocab)
		if err != nil {
			return nil, err
		}
		if dropped > 0 {
			logger.Debug("unseen features dropped", log.DroppedKey, dropped)
		}
	} else {
		vocab = p.Vocabulary
		online, err = algorithm.NewOnline(params.Kind, p.NumLabels, p.NumFeatures,
			algorithm.WithAlpha(params.Alpha),
			algorithm.WithRho(params.Rho),
			algorithm.WithAverage(params.Average),
			algorithm.WithLogger(params.Logger),
		)
		if err != nil {
			return nil, err
		}
	}
	batchErr, drift := -1.0, DriftStable
	if t.opts.drift != nil && streaming {
		errs := prequentialErrors(prevModel, p)
		batchErr = float64(errs) / float64(p.Len())
		drift = t.opts.drift.Update(errs, p.Len())
		switch drift {
		case DriftDetected:
			logger.Warn("concept drift detected", "batch_error", batchErr, log.SamplesKey, p.Len())
		case DriftWarning:
			logger.Info("error rate rising", "batch_error", batchErr, log.SamplesKey, p.Len())
		}
	}
	acc, err := online.PartialFit(ctx, p)
	if err != nil {
		return nil, err
	}

	m, err = classifier.NewModel(p.LabelNames, online.NumFeatures())
	if err != nil {
		return nil, err
	}
	if err := m.SetWeights(foldJointWeights(online.Weights(), online.NumLabels())); err != nil {
		return nil, err
	}

	report := &Report{
		Algorithm:   params.Kind,
		Mode:        ModeStreaming,
		NumLabels:   online.NumLabels(),
		NumFeatures: online.NumFeatures(),
		NumSamples:  p.Len(),
		Threads:     1,
		Duration:    time.Since(start),
		BatchError:  batchErr,
		Drift:       drift,
	}
	var history []float64
	if prevReport != nil && prevReport.Mode == ModeStreaming {
		report.NumSamples += prevReport.NumSamples
		report.Duration += prevReport.Duration
		history = append(history, prevReport.Results[0].History...)
	}
	report.Results = []LabelResult{{Label: -1, Result: &algorithm.Result{
		Iterations: online.Batches(),
		Converged:  true,
		History:    append(history, acc),
	}}}

	t.mu.Lock()
	t.online, t.vocab, t.model, t.report = online, vocab, m, report
	t.mu.Unlock()
	t.state.FinishTraining()
	logger.Debug("batch merged",
		log.SamplesKey, p.Len(),
		log.AccuracyKey, acc,
		log.IterationKey, online.Batches(),
	)
	return m, nil
}

// foldJointWeights converts a joint D*2 vector into the single column of a
// binary model. The column is half the difference of the two label
// columns, so the binary scores {s, -s} rank labels exactly like the joint
// scores. Other label counts are returned unchanged.
func foldJointWeights(w []float64, numLabels int) []float64 {
	if numLabels != 2 {
		return w
	}
	out := make([]float64, len(w)/2)
	for i := range out {
		out[i] = (w[2*i] - w[2*i+1]) / 2
	}
	return out
}

// reindexBatch maps the feature indices of a string batch onto vocab, the
// vocabulary the streaming learner was sized from. Features missing from
// vocab are dropped and counted. Sparse batches pass through unchanged, but
// string and sparse batches cannot be mixed in one stream.
func reindexBatch(p *trainspace.Problem, vocab *feature.FeatureMap) (*trainspace.Problem, int, error) {
	switch {
	case vocab == nil && p.Vocabulary == nil:
		return p, 0, nil
	case vocab == nil || p.Vocabulary == nil:
		return nil, 0, errors.NewValidationError("vocabulary",
			"a stream mixes string and sparse batches", p.Vocabulary != nil)
	case vocab == p.Vocabulary:
		return p, 0, nil
	}

	out := &trainspace.Problem{
		Labels:      p.Labels,
		Features:    make([][]int, p.Len()),
		LabelNames:  p.LabelNames,
		NumLabels:   p.NumLabels,
		NumFeatures: vocab.Size(),
		Vocabulary:  vocab,
	}
	if p.IsWeighted() {
		out.Values = make([][]float64, p.Len())
	}
	dropped := 0
	for i, row := range p.Features {
		indices := make([]int, 0, len(row))
		var values []float64
		if p.IsWeighted() {
			values = make([]float64, 0, len(row))
		}
		for j, f := range row {
			e, ok := p.Vocabulary.Entry(f)
			if !ok {
				return nil, 0, errors.NewValueError("PartialFit",
					fmt.Sprintf("row %d: feature index %d is not in the batch vocabulary", i, f))
			}
			idx, ok := vocab.Index(e.Type, e.Value)
			if !ok {
				dropped++
				continue
			}
			indices = append(indices, idx)
			if p.IsWeighted() {
				values = append(values, p.Values[i][j])
			}
		}
		out.Features[i] = indices
		if p.IsWeighted() {
			out.Values[i] = values
		}
	}
	return out, dropped, nil
}
