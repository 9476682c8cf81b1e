// Package nlplearn is the learning core shared by NLP components such as
// taggers, parsers and labelers: sparse feature vectors in, a trained
// linear model and a prediction function out.
//
// # Features
//
//   - Training spaces that intern string features or take integer indices
//     directly, with label and feature frequency cutoffs
//   - AdaGrad with hinge or logistic loss, optionally averaged, trained
//     jointly over all labels or streamed in batches
//   - LIBLINEAR style dual coordinate descent: L1-SVM, L2-SVM and
//     L2-regularized logistic regression, one-vs-all over a worker pool
//   - gob model persistence, softmax probabilities, evaluation metrics and
//     learning curves
//
// # Quick Start
//
//	s := trainspace.NewStringSpace(trainspace.WithFeatureCutoff(1))
//	if _, err := s.ReadFrom(f); err != nil { // "NN w=dog p=the" per line
//	    log.Fatal(err)
//	}
//	p, err := s.Build(true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tr, err := trainer.NewWithKind(algorithm.L2SVM,
//	    []algorithm.Option{algorithm.WithCost(0.5), algorithm.WithBias(1)},
//	    trainer.WithThreads(4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := tr.TrainStringModel(ctx, p)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var v feature.StringFeatureVector
//	v.Add("w", "cat")
//	fmt.Println(m.PredictString(v).Label)
//
// # Packages
//
//   - feature: label and feature maps, string and sparse vectors
//   - trainspace: instance buffering, cutoffs, text line parsing
//   - algorithm: optimizer kinds, hyperparameters, AdaGrad and dual solvers
//   - trainer: binary, joint, one-vs-all and streaming training
//   - classifier: weight models, scoring, prediction, save and load
//   - metrics: accuracy, F1, AUC, log loss, Brier score
//   - diagnostics: learning curves from training reports
//   - config: YAML training configuration
//   - core/model: training state machine and ordered gob encoding
//   - core/parallel: range parallelism and a bounded worker pool
//   - pkg/errors, pkg/log: error types and structured logging
//
// The nlplearn command (cmd/nlplearn) wraps training, prediction and
// evaluation of text files.
package nlplearn
