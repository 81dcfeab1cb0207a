// Package logger configures the process-wide log/slog logger and carries
// request-scoped loggers through context.
//
// Output is JSON on stdout. When a log file is configured the same records
// are also written to a size-rotated file managed by lumberjack.
package logger
