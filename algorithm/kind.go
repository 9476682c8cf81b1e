// Package algorithm implements the optimizers behind nlplearn's linear
// classifiers: AdaGrad with hinge or logistic loss, and dual coordinate
// descent for L1-loss SVM, L2-loss SVM and L2-regularized logistic
// regression.
//
// Every optimizer trains a binary weight vector of length D for a problem
// and a ±1 labelling (TrainBinary). The AdaGrad optimizers additionally
// train all labels jointly over a D*L vector laid out as index*L + label
// (TrainMulticlass). Index 0 of every vector is the bias.
package algorithm

import (
	"strings"

	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// Kind selects an optimizer.
type Kind int

const (
	// HingeLoss is AdaGrad on the multiclass hinge loss.
	HingeLoss Kind = iota
	// LogisticLoss is AdaGrad on the cross-entropy of a softmax.
	LogisticLoss
	// L1SVM is dual coordinate descent for the L1-loss SVM.
	L1SVM
	// L2SVM is dual coordinate descent for the L2-loss SVM.
	L2SVM
	// L2LR is dual coordinate descent for L2-regularized logistic regression.
	L2LR
)

var kindNames = map[Kind]string{
	HingeLoss:    "HingeLoss",
	LogisticLoss: "LogisticLoss",
	L1SVM:        "L1SVM",
	L2SVM:        "L2SVM",
	L2LR:         "L2LR",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsAdaGrad reports whether k is one of the AdaGrad variants.
func (k Kind) IsAdaGrad() bool {
	return k == HingeLoss || k == LogisticLoss
}

// ParseKind accepts the names returned by Kind.String, case-insensitively,
// plus the short aliases "hinge", "logistic", "l1svm", "l2svm" and "lr".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "hingeloss", "hinge", "adagrad-hinge":
		return HingeLoss, nil
	case "logisticloss", "logistic", "adagrad-logistic":
		return LogisticLoss, nil
	case "l1svm", "l1-svm":
		return L1SVM, nil
	case "l2svm", "l2-svm":
		return L2SVM, nil
	case "l2lr", "lr", "l2-lr":
		return L2LR, nil
	}
	return 0, errors.NewValidationError("algorithm", "unknown optimizer", s)
}
