package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// contextKey is the private type for values this package stores in a context.
type contextKey struct{}

var (
	//nolint:gochecknoglobals // The process-wide logger is shared by every package.
	globalLogger *zap.SugaredLogger

	//nolint:gochecknoglobals // The level is shared so it can be changed after the config is loaded.
	globalLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	//nolint:gochecknoglobals // Guards globalLogger replacement.
	globalMutex sync.RWMutex
)

//nolint:gochecknoinits // The logger must be usable before the configuration is read.
func init() {
	globalLogger = New(globalLevel)
}

// New creates a console logger writing to stderr.
// A nil level falls back to the process-wide atomic level.
func New(level zapcore.LevelEnabler) *zap.SugaredLogger {
	if level == nil {
		level = globalLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core).Sugar()
}

// Logger returns the process-wide logger.
func Logger() *zap.SugaredLogger {
	globalMutex.RLock()
	defer globalMutex.RUnlock()

	return globalLogger
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *zap.SugaredLogger) {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	globalLogger = l
}

// Level returns the current process-wide log level.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// SetLevel changes the process-wide log level.
func SetLevel(level zapcore.Level) {
	globalLevel.SetLevel(level)
}

// IsDebugLevel reports whether debug messages are currently emitted.
func IsDebugLevel() bool {
	return globalLevel.Enabled(zapcore.DebugLevel)
}

// ParseLogLevel converts a textual level into a zap level.
// It returns InfoLevel and false when the text is not a known level.
func ParseLogLevel(text string) (zapcore.Level, bool) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(text)))
	if err != nil || strings.TrimSpace(text) == "" {
		return zapcore.InfoLevel, false
	}

	return level, true
}

// WithKV returns a context whose log lines carry the given key/value pairs
// in addition to any pairs already attached to ctx.
func WithKV(ctx context.Context, keysAndValues ...any) context.Context {
	existing := kvFromContext(ctx)

	merged := make([]any, 0, len(existing)+len(keysAndValues))
	merged = append(merged, existing...)
	merged = append(merged, keysAndValues...)

	return context.WithValue(ctx, contextKey{}, merged)
}

func kvFromContext(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	kv, _ := ctx.Value(contextKey{}).([]any)

	return kv
}

// FromContext returns the process-wide logger enriched with the context key/values.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	l := Logger()

	if kv := kvFromContext(ctx); len(kv) > 0 {
		return l.With(kv...)
	}

	return l
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debugf(format, args...)
}

// DebugKV logs a message with key/value pairs at debug level.
func DebugKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Debugw(message, keysAndValues...)
}

// Info logs a message at info level.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Infof(format, args...)
}

// InfoKV logs a message with key/value pairs at info level.
func InfoKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Infow(message, keysAndValues...)
}

// Warn logs a message at warn level.
func Warn(ctx context.Context, args ...any) {
	FromContext(ctx).Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warnf(format, args...)
}

// WarnKV logs a message with key/value pairs at warn level.
func WarnKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Warnw(message, keysAndValues...)
}

// Error logs a message at error level.
func Error(ctx context.Context, args ...any) {
	FromContext(ctx).Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Errorf(format, args...)
}

// ErrorKV logs a message with key/value pairs at error level.
func ErrorKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Errorw(message, keysAndValues...)
}

// Fatal logs a message at fatal level and exits the process.
func Fatal(ctx context.Context, args ...any) {
	FromContext(ctx).Fatal(args...)
}

// Fatalf logs a formatted message at fatal level and exits the process.
func Fatalf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Fatalf(format, args...)
}
