package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the leveled stderr logger used by every command.
// --verbose lowers level to debug.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a step took once it finishes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg followed by the elapsed time rounded to milliseconds.
func (p *progress) done(msg string) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Infof("%s (%s)", msg, elapsed)
}

type loggerCtxKey struct{}

// withLogger attaches l to ctx so scan helpers can log without a CLI receiver.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or the
// package default.
func loggerFromContext(ctx context.Context) *log.Logger {
	l, ok := ctx.Value(loggerCtxKey{}).(*log.Logger)
	if !ok {
		return log.Default()
	}
	return l
}
