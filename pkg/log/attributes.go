// Standard attribute keys for training and prediction logs.
//
// Keys follow a hierarchical naming convention ("data.samples",
// "training.epoch") so that log lines from different packages can be
// filtered together.

package log

// Component and operation context.
const (
	// ComponentKey identifies the package emitting the record.
	// Examples: "trainer", "algorithm.adagrad", "trainspace"
	ComponentKey = "ml.component"

	// OperationKey specifies the operation being performed.
	// Standard values are the Operation* constants below.
	OperationKey = "ml.operation"

	// AlgorithmKey names the optimizer: "HingeLoss", "LogisticLoss",
	// "L1SVM", "L2SVM" or "L2LR".
	AlgorithmKey = "ml.algorithm"
)

// Data shape.
const (
	// SamplesKey is the number of training instances.
	SamplesKey = "data.samples"

	// FeaturesKey is the feature dimension D, bias slot included.
	FeaturesKey = "data.features"

	// LabelsKey is the number of distinct labels L.
	LabelsKey = "data.labels"

	// LabelKey is the label index a one-vs-all worker is training.
	LabelKey = "data.label"

	// DroppedKey counts labels or features removed by a cutoff.
	DroppedKey = "data.dropped"
)

// Training progress and metrics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records training or evaluation accuracy in percent.
	AccuracyKey = "metrics.accuracy"

	// DeltaKey is the convergence statistic of the last epoch: the standard
	// deviation of consecutive accuracies for AdaGrad, the projected
	// gradient gap for dual coordinate descent.
	DeltaKey = "metrics.delta"

	// IterationKey records the sweep number of a coordinate descent solver.
	IterationKey = "training.iteration"

	// EpochKey records the epoch number of an online solver.
	EpochKey = "training.epoch"

	// ActiveSizeKey is the shrinking active set size of a dual solver.
	ActiveSizeKey = "training.active_size"

	// ThreadsKey is the number of one-vs-all workers.
	ThreadsKey = "training.threads"

	// ObjectiveKey is the final dual objective of a coordinate descent run.
	ObjectiveKey = "metrics.objective"

	// SupportVectorsKey counts dual variables that ended above zero.
	SupportVectorsKey = "training.support_vectors"
)

// Hyperparameters.
const (
	LearningRateKey = "hyperparams.learning_rate"
	RhoKey          = "hyperparams.rho"
	CostKey         = "hyperparams.cost"
	EpsilonKey      = "hyperparams.epsilon"
	BiasKey         = "hyperparams.bias"
	RandomSeedKey   = "config.random_seed"
)

// Error context.
const (
	// ErrorKey holds the error message.
	ErrorKey = "error"

	// StacktraceKey contains the cockroachdb/errors stack trace, if any.
	StacktraceKey = "error.stacktrace"
)

// Standard values for OperationKey.
const (
	OperationBuild    = "build"
	OperationTrain    = "train"
	OperationPredict  = "predict"
	OperationEvaluate = "evaluate"
	OperationSave     = "save"
	OperationLoad     = "load"
)
