package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/kbukum/start/errors"
	"github.com/kbukum/start/logger"
	"github.com/kbukum/start/runner"
)

// Console returns a Reporter that logs each task event through log:
// "started" on start, the payload on info, "done" with the duration on
// resolve and "failed" with the error and duration on reject.
func Console(log *logger.Logger, opts ...Option) runner.Reporter {
	o := newOptions(opts)
	return func(name string) runner.TaskReporter {
		tl := log.WithTask(name)
		var started time.Time
		return func(event runner.Event, payload any) {
			switch event {
			case runner.EventStart:
				started = o.clock.Now()
				tl.Info("started")
			case runner.EventInfo:
				tl.Info(fmt.Sprint(payload))
			case runner.EventResolve:
				tl.Info("done", logger.Fields(logger.FieldDuration, o.clock.Since(started).Milliseconds()))
			case runner.EventReject:
				fields := logger.Fields(logger.FieldDuration, o.clock.Since(started).Milliseconds())
				if err, ok := payload.(error); ok {
					fields[logger.FieldError] = err.Error()
				} else if payload != nil {
					fields[logger.FieldError] = fmt.Sprint(payload)
				}
				tl.Error("failed", fields)
			}
		}
	}
}

// Select returns the reporter named by format: "console" logs through log,
// "plain" writes runner.Print lines to w and "silent" drops everything.
func Select(format string, log *logger.Logger, w io.Writer, opts ...Option) (runner.Reporter, error) {
	switch format {
	case "", FormatConsole:
		return Console(log, opts...), nil
	case FormatPlain:
		return runner.Print(w), nil
	case FormatSilent:
		return runner.Noop(), nil
	default:
		return nil, errors.InvalidConfig(fmt.Sprintf("unknown reporter format %q", format)).
			WithDetail("format", format)
	}
}

// Reporter formats accepted by Select.
const (
	FormatConsole = "console"
	FormatPlain   = "plain"
	FormatSilent  = "silent"
)
