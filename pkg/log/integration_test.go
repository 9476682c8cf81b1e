package log

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	nlerrors "github.com/YuminosukeSato/nlplearn/pkg/errors"
)

// TestLoggerInterface tests the Logger interface implementation
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationTrain)
	testLogger.Warn("warning message", AlgorithmKey, "L2SVM")
	testLogger.Error("error message", fmt.Errorf("test error"), LabelKey, 3)

	if buffer.String() == "" {
		t.Fatal("Expected log output, got empty string")
	}

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		if !testLogger.ContainsMessage(msg) {
			t.Errorf("%q not found in output", msg)
		}
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	if !testLogger.ContainsField("number", 42.0) {
		t.Error("Expected field number=42 not found")
	}
	if !testLogger.ContainsField(ErrorKey, "test error") {
		t.Error("Leading error was not attached")
	}
}

// TestLoggerWith tests the With method for context-aware logging
func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ComponentKey, "trainer",
		AlgorithmKey, "HingeLoss",
	)
	contextLogger.Info("contextual message", OperationKey, OperationTrain)

	if !testLogger.ContainsField(ComponentKey, "trainer") {
		t.Error("Component context not found")
	}
	if !testLogger.ContainsField(AlgorithmKey, "HingeLoss") {
		t.Error("Algorithm context not found")
	}
	if !testLogger.ContainsField(OperationKey, OperationTrain) {
		t.Error("Operation field not found")
	}
}

// TestLoggerEnabled tests the Enabled method
func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !testLogger.Enabled(ctx, LevelInfo) {
		t.Error("Logger should be enabled for Info level")
	}
	if !testLogger.Enabled(ctx, LevelError) {
		t.Error("Logger should be enabled for Error level")
	}
	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsMessage("this should appear") {
		t.Error("Info message should appear when level is Info")
	}
}

// TestTrainingAttributeKeys tests the training-specific attribute keys
func TestTrainingAttributeKeys(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	testLogger.Info("epoch finished",
		AlgorithmKey, "LogisticLoss",
		EpochKey, 7,
		AccuracyKey, 0.875,
		DeltaKey, 0.0005,
		LabelsKey, 3,
	)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}

	expected := map[string]interface{}{
		AlgorithmKey: "LogisticLoss",
		EpochKey:     7.0,
		AccuracyKey:  0.875,
		DeltaKey:     0.0005,
		LabelsKey:    3.0,
	}
	for key, want := range expected {
		if got, ok := entries[0][key]; !ok {
			t.Errorf("Expected field %s not found", key)
		} else if got != want {
			t.Errorf("Field %s: expected %v, got %v", key, want, got)
		}
	}
}

// TestLoggerProviderIntegration tests the LoggerProvider interface
func TestLoggerProviderIntegration(t *testing.T) {
	provider, testLogger := NewTestLoggerProvider(LevelDebug)

	provider.GetLogger().Info("provider test message")
	provider.GetLoggerWithName("trainspace").Info("named logger message")

	lines := testLogger.GetBuffer().String()
	if !strings.Contains(lines, "provider test message") {
		t.Error("Provider test message not found")
	}
	if !testLogger.ContainsField(ComponentKey, "trainspace") {
		t.Error("Component name not found in named logger output")
	}

	provider.SetLevel(LevelError)
	provider.GetLogger().Info("suppressed")
	if testLogger.ContainsMessage("suppressed") {
		t.Error("SetLevel did not raise the threshold")
	}
}

// TestErrorLoggingCarriesStack checks that cockroachdb stacks and structured
// error fields reach the record.
func TestErrorLoggingCarriesStack(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelError)

	err := nlerrors.NewDimensionError("SparseFeatureVector", "weights", 3, 2)
	testLogger.Error("build failed", ErrorKey, err, OperationKey, OperationBuild)

	entries, perr := testLogger.GetLogEntries()
	if perr != nil {
		t.Fatalf("Failed to parse log entries: %v", perr)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 error entry, got %d", len(entries))
	}
	entry := entries[0]

	if entry[zerolog.LevelFieldName] != "error" {
		t.Errorf("Expected error level, got %v", entry[zerolog.LevelFieldName])
	}
	if st, _ := entry[StacktraceKey].(string); st == "" {
		t.Error("Stack trace missing")
	}
	if entry["type"] != "DimensionError" {
		t.Errorf("Structured error fields missing: %v", entry)
	}
}

func TestToLogLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": LevelDebug, "info": LevelInfo, "warn": LevelWarn, "error": LevelError} {
		got, err := ToLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ToLogLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ToLogLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

// TestWarningsAreLogged checks the ConvergenceWarning route installed by init.
func TestWarningsAreLogged(t *testing.T) {
	tp, testLogger := NewTestLoggerProvider(LevelDebug)
	defer ReplaceProvider(tp)()

	nlerrors.Warn(nlerrors.NewConvergenceWarning("L2LR", 1000, ""))

	if !testLogger.ContainsField(ComponentKey, "warnings") {
		t.Error("warning not routed through the named logger")
	}
	if !testLogger.ContainsField("algorithm", "L2LR") {
		t.Error("warning fields not embedded")
	}
}

// TestConcurrentLogging tests thread safety of logging
func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	const workers, perWorker = 4, 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				testLogger.Info("label done", LabelKey, id, EpochKey, j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != workers*perWorker {
		t.Errorf("Expected %d log entries, got %d", workers*perWorker, len(entries))
	}
}

// BenchmarkLogging benchmarks logging performance
func BenchmarkLogging(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelInfo)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testLogger.Info("benchmark message",
			EpochKey, i,
			OperationKey, OperationPredict,
			SamplesKey, 1000,
		)
	}
}
