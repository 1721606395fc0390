// Package slog provides log/slog decorators for the wikitxt services.
// Successful calls are logged at debug level and failures at warn level,
// so the handler level decides how chatty a batch is.
package slog

import (
	"context"
	"log/slog"
)

// level returns the record level for a call outcome.
func level(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelDebug
}

// logCall writes one record describing a finished call.
func logCall(ctx context.Context, logger *slog.Logger, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "err", err)
	}
	logger.Log(ctx, level(err), msg, args...)
}
