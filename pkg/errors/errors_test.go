package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Train",
			kind:    "worker failed",
			err:     fmt.Errorf("label 2 diverged"),
			wantMsg: "nlplearn: Train: worker failed: label 2 diverged",
		},
		{
			name:    "without original error",
			op:      "Load",
			kind:    "unknown model kind",
			err:     nil,
			wantMsg: "nlplearn: Load: unknown model kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			assert.Contains(t, formatted, "errors_test.go")

			var modelErr *ModelError
			require.True(t, As(err, &modelErr))
			assert.Equal(t, tt.op, modelErr.Op)
			if tt.err != nil {
				assert.True(t, Is(err, tt.err))
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("SparseFeatureVector", "weights", 3, 2)
	assert.Equal(t, "nlplearn: SparseFeatureVector: weights length mismatch. Expected 3, got 2", err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("Trainer", "Model")
	assert.Equal(t, "nlplearn: Trainer: this model is not trained yet. Call Train() before using Model()", err.Error())

	var notFitted *NotFittedError
	assert.True(t, As(err, &notFitted))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("alpha", "must be positive", -0.5)
	assert.Equal(t, "nlplearn: validation failed for parameter 'alpha': must be positive (got: -0.5)", err.Error())

	var valErr *ValidationError
	require.True(t, As(err, &valErr))
	assert.Equal(t, "alpha", valErr.ParamName)
}

func TestColumnOverlapError(t *testing.T) {
	err := NewColumnOverlapError(4)
	var overlap *ColumnOverlapError
	require.True(t, As(err, &overlap))
	assert.Equal(t, 4, overlap.Label)
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := Wrapf(WithHint(ErrEmptyVocabulary, "lower the cutoffs"), "build %s", "space")
	assert.True(t, Is(err, ErrEmptyVocabulary))
	assert.False(t, Is(err, ErrEmptyData))
	assert.Contains(t, FlattenHints(err), "lower the cutoffs")
	assert.True(t, strings.HasPrefix(err.Error(), "build space"))
}

func TestWarnRouting(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	SetZerologWarnFunc(func(w error) {
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			zl.Warn().EmbedObject(m).Msg(w.Error())
			return
		}
		zl.Warn().Msg(w.Error())
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewConvergenceWarning("L2SVM", 10, "max iterations"))
	assert.Contains(t, buf.String(), "L2SVM failed to converge after 10 iterations")
	assert.Contains(t, buf.String(), `"type":"ConvergenceWarning"`)
	assert.Contains(t, buf.String(), `"iterations":10`)
}

func TestNumericalHelpers(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("scores", []float64{1, 2}, 0))
	assert.Error(t, CheckNumericalStability("scores", []float64{1, math.NaN()}, 3))
	assert.Error(t, CheckScalar("loss", math.Inf(1), 1))

	assert.Equal(t, 0.0, ClipValue(-1, 0, 2))
	assert.Equal(t, 2.0, ClipValue(5, 0, 2))

	assert.InDelta(t, 0.5, Sigmoid(0), 1e-12)
	assert.InDelta(t, 1.0, Sigmoid(1000), 1e-12)
	assert.InDelta(t, 0.0, Sigmoid(-1000), 1e-12)

	s := []float64{1000, 1000}
	SoftmaxInPlace(s)
	assert.InDelta(t, 0.5, s[0], 1e-12)
	assert.InDelta(t, 0.5, s[1], 1e-12)
}
