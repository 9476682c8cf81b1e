package trainer

import (
	"runtime"
	"time"

	"github.com/YuminosukeSato/nlplearn/pkg/log"
)

type options struct {
	threads     int
	timeout     time.Duration
	debugChecks bool
	drift       *DriftDetector
	logger      log.Logger
}

func defaultOptions() options {
	return options{
		threads: runtime.GOMAXPROCS(0),
		logger:  log.GetLoggerWithName("trainer"),
	}
}

// Option configures a Trainer.
type Option func(*options)

// WithThreads sets the number of one-vs-all workers. Values below 1 mean 1.
func WithThreads(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.threads = n
	}
}

// WithTimeout bounds a whole Train call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithDebugChecks makes every one-vs-all worker claim its weight column
// before writing it, failing with ColumnOverlapError on a second claim.
func WithDebugChecks(enabled bool) Option {
	return func(o *options) { o.debugChecks = enabled }
}

// WithDriftDetection scores every streamed batch with the current model
// before learning from it and feeds the errors to d.
func WithDriftDetection(d *DriftDetector) Option {
	return func(o *options) { o.drift = d }
}

// WithLogger sets the trainer's logger.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}
