package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wikitxt"
)

// Ensure LoggingLinearizer implements wikitxt.Linearizer.
var _ wikitxt.Linearizer = (*LoggingLinearizer)(nil)

// LoggingLinearizer wraps a Linearizer with logging.
type LoggingLinearizer struct {
	next   wikitxt.Linearizer
	logger *slog.Logger
}

// NewLoggingLinearizer creates a new LoggingLinearizer.
func NewLoggingLinearizer(next wikitxt.Linearizer, logger *slog.Logger) *LoggingLinearizer {
	return &LoggingLinearizer{next: next, logger: logger}
}

// Linearize delegates to the wrapped linearizer and logs the operation.
func (l *LoggingLinearizer) Linearize(html string, opts wikitxt.LinearizeOptions) (out *wikitxt.Linearized, err error) {
	defer func(begin time.Time) {
		args := []any{
			"title", opts.Title,
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if out != nil {
			args = append(args, "chars", len(out.Text), "images", len(out.Images))
			if out.RedirectTarget != "" {
				args = append(args, "redirect", out.RedirectTarget)
			}
		}
		logCall(context.Background(), l.logger, "linearize", err, args...)
	}(time.Now())
	return l.next.Linearize(html, opts)
}
