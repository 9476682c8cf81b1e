package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/nlplearn/algorithm"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
	"github.com/YuminosukeSato/nlplearn/trainer"
)

const fullConfig = `
algorithm: l2lr
cost: 0.5
bias: 1
epsilon: 0.05
seed: 11
max_iter: 200
threads: 3
timeout: 90s
debug_checks: true
space:
  type: sparse
  label_cutoff: 1
  feature_cutoff: 2
  weighted: true
  delimiter: "|"
log_level: debug
`

func TestParseFullConfig(t *testing.T) {
	cfg, err := Parse(strings.NewReader(fullConfig))
	require.NoError(t, err)
	assert.Equal(t, algorithm.L2LR, cfg.Kind())
	assert.Equal(t, 90*time.Second, cfg.timeout)
	assert.Equal(t, SpaceSparse, cfg.Space.Type)
	assert.Equal(t, "|", cfg.Space.Delimiter)

	params, err := algorithm.NewParams(cfg.Kind(), cfg.AlgorithmOptions()...)
	require.NoError(t, err)
	assert.Equal(t, 0.5, params.Cost)
	assert.Equal(t, 1.0, params.Bias)
	assert.Equal(t, 0.05, params.Epsilon)
	assert.Equal(t, int64(11), params.Seed)
	assert.Equal(t, 200, params.MaxIter)

	assert.Len(t, cfg.TrainerOptions(), 3)
	assert.Len(t, cfg.SpaceOptions(), 4)

	tr, err := cfg.NewTrainer()
	require.NoError(t, err)
	assert.Equal(t, algorithm.L2LR, tr.Optimizer().Kind())
}

func TestParseKeepsOptimizerDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("algorithm: hinge\naverage: true\n"))
	require.NoError(t, err)
	params, err := algorithm.NewParams(cfg.Kind(), cfg.AlgorithmOptions()...)
	require.NoError(t, err)
	assert.Equal(t, 0.01, params.Alpha)
	assert.Equal(t, 0.1, params.Rho)
	assert.True(t, params.Average)
	assert.Equal(t, SpaceString, cfg.Space.Type)
	assert.Empty(t, cfg.TrainerOptions())
}

func TestParseEmptyDocumentGivesDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, algorithm.L2SVM, cfg.Kind())
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown algorithm": "algorithm: sgd\n",
		"bad cost":          "algorithm: l1svm\ncost: -1\n",
		"bad alpha":         "algorithm: logistic\nalpha: 0\n",
		"bad timeout":       "timeout: soon\n",
		"negative threads":  "threads: -2\n",
		"bad space":         "space:\n  type: dense\n",
		"negative cutoff":   "space:\n  feature_cutoff: -1\n",
		"empty delimiter":   "space:\n  delimiter: \"\"\n",
		"bad log level":     "log_level: loud\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(doc))
			var verr *errors.ValidationError
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}

	_, err := Parse(strings.NewReader("algorithm: l2svm\nlearning_rate: 3\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Threads)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestNewTrainerExtraOptions(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	tr, err := cfg.NewTrainer(trainer.WithThreads(1))
	require.NoError(t, err)
	assert.Equal(t, algorithm.L2SVM, tr.Optimizer().Kind())
}
