// Package logger wraps a process-wide zap logger with an adjustable level.
// Helpers take a context so that key-value pairs attached with WithKV,
// such as the run id, are added to every line.
package logger
