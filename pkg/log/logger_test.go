package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/YuminosukeSato/linclass/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestLoggerCapturesFields(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Error("error message", fmt.Errorf("boom"), ErrorCodeKey, ErrorNotFitted)

	require.NotEmpty(t, buffer.String())
	assert.True(t, testLogger.ContainsMessage("debug message"))
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(OperationKey, OperationFit))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "boom"))
	assert.True(t, testLogger.ContainsField(ErrorCodeKey, ErrorNotFitted))
}

func TestTestLoggerLevelFilter(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelWarn)

	testLogger.Debug("hidden debug")
	testLogger.Info("hidden info")
	testLogger.Warn("visible warn")

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible warn", entries[0]["message"])
	assert.False(t, testLogger.Enabled(context.Background(), LevelInfo))
	assert.True(t, testLogger.Enabled(context.Background(), LevelError))
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(ModelNameKey, "LinearClassifier", ComponentKey, "linear")
	contextLogger.Info("contextual message", OperationKey, OperationPredict)

	assert.True(t, testLogger.ContainsField(ModelNameKey, "LinearClassifier"))
	assert.True(t, testLogger.ContainsField(ComponentKey, "linear"))

	testLogger.Clear()
	assert.Empty(t, testLogger.GetBuffer().String())
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo).With(ModelNameKey, "LeastSquares")

	logger.Debug("dropped", SamplesKey, 10)
	logger.Info("Training completed", SamplesKey, 10, FeaturesKey, 3)
	logger.Error("failed", errors.New("singular"), ErrorCodeKey, ErrorSingularMatrix)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "info", info["level"])
	assert.Equal(t, "Training completed", info["message"])
	assert.Equal(t, "LeastSquares", info[ModelNameKey])
	assert.Equal(t, 10.0, info[SamplesKey])

	var errLine map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &errLine))
	assert.Equal(t, "singular", errLine["error"])
	assert.Equal(t, ErrorSingularMatrix, errLine[ErrorCodeKey])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

func TestInstallWarningHook(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	InstallWarningHook()
	defer errors.SetZerologWarnFunc(nil)

	errors.Warn(errors.NewConvergenceWarning("PocketRefiner", 5, "error rate above tolerance"))

	out := buf.String()
	assert.Contains(t, out, `"algorithm":"PocketRefiner"`)
	assert.Contains(t, out, `"type":"ConvergenceWarning"`)
	assert.Contains(t, out, "failed to converge after 5 iterations")
}

func TestSetupLoggerAddsStacktrace(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, "debug"))

	slog.Error("fit failed", ErrAttr(errors.NewNotFittedError("LinearClassifier", "Predict")))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "fit failed", entry["message"])
	assert.NotEmpty(t, entry[StacktraceAttrKey])
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, lvl)
	assert.Equal(t, "WARN", lvl.String())
}
