package logger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observeLogs replaces the process-wide logger with an in-memory one for the duration of the test.
// Tests using it must not run in parallel.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(globalLevel)

	original := Logger()
	SetLogger(zap.New(core).Sugar())
	t.Cleanup(func() { SetLogger(original) })

	return logs
}

// TestParseLogLevel tests parsing of configured level names.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zapcore.Level
		valid    bool
	}{
		{input: "debug", expected: zapcore.DebugLevel, valid: true},
		{input: "warn", expected: zapcore.WarnLevel, valid: true},
		{input: "error", expected: zapcore.ErrorLevel, valid: true},
		{input: "fatal", expected: zapcore.FatalLevel, valid: true},
		{input: "DEBUG", expected: zapcore.DebugLevel, valid: true},
		{input: " Info ", expected: zapcore.InfoLevel, valid: true},
		{input: "verbose", expected: zapcore.InfoLevel, valid: false},
		{input: "", expected: zapcore.InfoLevel, valid: false},
		{input: "   ", expected: zapcore.InfoLevel, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			level, valid := ParseLogLevel(tt.input)
			assert.Equal(t, tt.expected, level)
			assert.Equal(t, tt.valid, valid)
		})
	}
}

// TestNew tests that New falls back to the process-wide level.
func TestNew(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, New(nil))
	assert.True(t, New(zapcore.DebugLevel).Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.False(t, New(zapcore.ErrorLevel).Desugar().Core().Enabled(zapcore.WarnLevel))
}

// TestSetLevel tests that the level applies to the process-wide logger.
func TestSetLevel(t *testing.T) {
	logs := observeLogs(t)

	original := Level()
	t.Cleanup(func() { SetLevel(original) })

	ctx := context.Background()

	SetLevel(zapcore.InfoLevel)
	assert.False(t, IsDebugLevel())

	Debug(ctx, "hidden")
	Info(ctx, "shown")

	SetLevel(zapcore.DebugLevel)
	assert.True(t, IsDebugLevel())
	assert.Equal(t, zapcore.DebugLevel, Level())

	Debugf(ctx, "shown %d", 2)

	messages := make([]string, 0, logs.Len())
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}

	assert.Equal(t, []string{"shown", "shown 2"}, messages)
}

// TestContextHelpers tests that every helper logs at its level with the context key/values.
func TestContextHelpers(t *testing.T) {
	logs := observeLogs(t)

	original := Level()
	t.Cleanup(func() { SetLevel(original) })
	SetLevel(zapcore.DebugLevel)

	ctx := WithKV(context.Background(), "run_id", "abc")

	DebugKV(ctx, "debug kv", "item", 1)
	Infof(ctx, "info %s", "formatted")
	InfoKV(ctx, "info kv", "item", 2)
	Warn(ctx, "warn")
	Warnf(ctx, "warn %d", 3)
	WarnKV(ctx, "warn kv")
	Error(ctx, "error")
	Errorf(ctx, "error %v", "formatted")
	ErrorKV(ctx, "error kv", "item", 4)

	entries := logs.All()
	require.Len(t, entries, 9)

	expectedLevels := []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.WarnLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
		zapcore.ErrorLevel,
		zapcore.ErrorLevel,
	}

	for i, entry := range entries {
		assert.Equal(t, expectedLevels[i], entry.Level, entry.Message)
		assert.Equal(t, "abc", entry.ContextMap()["run_id"], entry.Message)
	}

	assert.Equal(t, "info formatted", entries[1].Message)
	assert.Equal(t, int64(4), entries[8].ContextMap()["item"])
}

// TestWithKV tests that key/value pairs accumulate across nested contexts.
func TestWithKV(t *testing.T) {
	t.Parallel()

	ctx := WithKV(context.Background(), "run_id", "abc")
	ctx = WithKV(ctx, "item", 2)

	assert.Equal(t, []any{"run_id", "abc", "item", 2}, kvFromContext(ctx))
	assert.NotNil(t, FromContext(ctx))

	parent := WithKV(context.Background(), "a", 1)
	_ = WithKV(parent, "b", 2)

	assert.Equal(t, []any{"a", 1}, kvFromContext(parent))
	assert.Empty(t, kvFromContext(context.Background()))
}

// TestConcurrentLogging tests that helpers can be called from many goroutines.
func TestConcurrentLogging(t *testing.T) {
	logs := observeLogs(t)

	const workers = 10

	var wg sync.WaitGroup

	for i := range workers {
		wg.Go(func() {
			InfoKV(context.Background(), "concurrent message", "worker", i)
		})
	}

	wg.Wait()

	assert.Equal(t, workers, logs.FilterMessage("concurrent message").Len())
}
