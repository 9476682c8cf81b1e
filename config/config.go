// Package config reads training configurations from YAML.
//
// A configuration names the optimizer, its hyperparameters, the training
// space cutoffs and the trainer's worker settings:
//
//	algorithm: L2SVM
//	cost: 0.5
//	bias: 1
//	epsilon: 0.1
//	threads: 4
//	timeout: 10m
//	space:
//	  type: string
//	  feature_cutoff: 1
//
// Hyperparameters left out keep the optimizer's defaults.
package config

import (
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/nlplearn/algorithm"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/pkg/log"
	"github.com/YuminosukeSato/nlplearn/trainer"
	"github.com/YuminosukeSato/nlplearn/trainspace"
)

// Space types.
const (
	SpaceString = "string"
	SpaceSparse = "sparse"
)

// SpaceConfig configures the training space.
type SpaceConfig struct {
	Type          string `yaml:"type"`
	LabelCutoff   int    `yaml:"label_cutoff"`
	FeatureCutoff int    `yaml:"feature_cutoff"`
	Weighted      bool   `yaml:"weighted"`
	Delimiter     string `yaml:"delimiter"`
}

// Config is a complete training configuration. Pointer fields are optional.
type Config struct {
	Algorithm string `yaml:"algorithm"`

	Alpha   *float64 `yaml:"alpha"`
	Rho     *float64 `yaml:"rho"`
	Average bool     `yaml:"average"`

	Cost *float64 `yaml:"cost"`
	Bias *float64 `yaml:"bias"`

	Epsilon *float64 `yaml:"epsilon"`
	Seed    *int64   `yaml:"seed"`
	MaxIter *int     `yaml:"max_iter"`

	Threads     int    `yaml:"threads"`
	Timeout     string `yaml:"timeout"`
	DebugChecks bool   `yaml:"debug_checks"`

	Space    SpaceConfig `yaml:"space"`
	LogLevel string      `yaml:"log_level"`

	kind    algorithm.Kind
	timeout time.Duration
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Algorithm: algorithm.L2SVM.String(),
		Space: SpaceConfig{
			Type:      SpaceString,
			Delimiter: trainspace.DefaultWeightDelimiter,
		},
		LogLevel: "info",
		kind:     algorithm.L2SVM,
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and caches the parsed algorithm and timeout.
func (c *Config) Validate() error {
	kind, err := algorithm.ParseKind(c.Algorithm)
	if err != nil {
		return err
	}
	c.kind = kind
	if _, err := algorithm.NewParams(kind, c.AlgorithmOptions()...); err != nil {
		return err
	}

	if c.Threads < 0 {
		return errors.NewValidationError("threads", "must not be negative", c.Threads)
	}
	c.timeout = 0
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil || d < 0 {
			return errors.NewValidationError("timeout", "must be a non-negative duration such as 30s", c.Timeout)
		}
		c.timeout = d
	}

	switch c.Space.Type {
	case SpaceString, SpaceSparse:
	default:
		return errors.NewValidationError("space.type", "must be string or sparse", c.Space.Type)
	}
	if c.Space.LabelCutoff < 0 {
		return errors.NewValidationError("space.label_cutoff", "must not be negative", c.Space.LabelCutoff)
	}
	if c.Space.FeatureCutoff < 0 {
		return errors.NewValidationError("space.feature_cutoff", "must not be negative", c.Space.FeatureCutoff)
	}
	if c.Space.Delimiter == "" {
		return errors.NewValidationError("space.delimiter", "must not be empty", c.Space.Delimiter)
	}
	if _, err := log.ToLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Kind is the validated optimizer kind.
func (c *Config) Kind() algorithm.Kind {
	return c.kind
}

// AlgorithmOptions converts the hyperparameters that were set.
func (c *Config) AlgorithmOptions() []algorithm.Option {
	var opts []algorithm.Option
	if c.Alpha != nil {
		opts = append(opts, algorithm.WithAlpha(*c.Alpha))
	}
	if c.Rho != nil {
		opts = append(opts, algorithm.WithRho(*c.Rho))
	}
	if c.Average {
		opts = append(opts, algorithm.WithAverage(true))
	}
	if c.Cost != nil {
		opts = append(opts, algorithm.WithCost(*c.Cost))
	}
	if c.Bias != nil {
		opts = append(opts, algorithm.WithBias(*c.Bias))
	}
	if c.Epsilon != nil {
		opts = append(opts, algorithm.WithEpsilon(*c.Epsilon))
	}
	if c.Seed != nil {
		opts = append(opts, algorithm.WithSeed(*c.Seed))
	}
	if c.MaxIter != nil {
		opts = append(opts, algorithm.WithMaxIter(*c.MaxIter))
	}
	return opts
}

// TrainerOptions converts the worker settings.
func (c *Config) TrainerOptions() []trainer.Option {
	var opts []trainer.Option
	if c.Threads > 0 {
		opts = append(opts, trainer.WithThreads(c.Threads))
	}
	if c.timeout > 0 {
		opts = append(opts, trainer.WithTimeout(c.timeout))
	}
	if c.DebugChecks {
		opts = append(opts, trainer.WithDebugChecks(true))
	}
	return opts
}

// SpaceOptions converts the space settings.
func (c *Config) SpaceOptions() []trainspace.Option {
	return []trainspace.Option{
		trainspace.WithLabelCutoff(c.Space.LabelCutoff),
		trainspace.WithFeatureCutoff(c.Space.FeatureCutoff),
		trainspace.WithWeighted(c.Space.Weighted),
		trainspace.WithWeightDelimiter(c.Space.Delimiter),
	}
}

// NewTrainer builds the configured optimizer and trainer.
func (c *Config) NewTrainer(extra ...trainer.Option) (*trainer.Trainer, error) {
	return trainer.NewWithKind(c.kind, c.AlgorithmOptions(), append(c.TrainerOptions(), extra...)...)
}
