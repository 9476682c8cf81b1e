// Package trainspace buffers training instances and builds the integer
// indexed arrays the optimizers run on.
//
// A space accepts instances one by one, either already parsed or as text
// lines of the form
//
//	label feat1 feat2[:weight] ...
//
// Build counts label and feature frequencies, keeps those occurring more
// than the configured cutoff in first-seen order, and converts every
// instance whose label survived.
package trainspace

import (
	"github.com/YuminosukeSato/nlplearn/pkg/log"
)

// DefaultWeightDelimiter separates a feature from its weight in text lines.
const DefaultWeightDelimiter = ":"

type options struct {
	labelCutoff   int
	featureCutoff int
	weighted      bool
	delimiter     string
	logger        log.Logger
}

func defaultOptions() options {
	return options{
		delimiter: DefaultWeightDelimiter,
		logger:    log.GetLoggerWithName("trainspace"),
	}
}

// Option configures a space.
type Option func(*options)

// WithLabelCutoff keeps only labels seen more than cutoff times.
func WithLabelCutoff(cutoff int) Option {
	return func(o *options) { o.labelCutoff = cutoff }
}

// WithFeatureCutoff keeps only features seen more than cutoff times.
func WithFeatureCutoff(cutoff int) Option {
	return func(o *options) { o.featureCutoff = cutoff }
}

// WithWeighted makes text features carry a weight after the delimiter.
func WithWeighted(weighted bool) Option {
	return func(o *options) { o.weighted = weighted }
}

// WithWeightDelimiter changes the feature/weight delimiter.
func WithWeightDelimiter(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delimiter = delim
		}
	}
}

// WithLogger sets the logger used by Build.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}
