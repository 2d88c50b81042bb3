package reporter

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/start/observability"
	"github.com/kbukum/start/runner"
)

// Tracing returns a Reporter that opens a span named after the task on start
// and ends it on the terminal event. Spans are children of the span in ctx.
// Info payloads become span events.
func Tracing(ctx context.Context, tracer trace.Tracer) runner.Reporter {
	return func(name string) runner.TaskReporter {
		var span trace.Span
		return func(event runner.Event, payload any) {
			switch event {
			case runner.EventStart:
				attrs := []attribute.KeyValue{attribute.String(observability.AttrTask, name)}
				if id := runner.RunID(ctx); id != "" {
					attrs = append(attrs, attribute.String(observability.AttrRunID, id))
				}
				_, span = tracer.Start(ctx, name, trace.WithAttributes(attrs...))
			case runner.EventInfo:
				if span == nil {
					return
				}
				span.AddEvent("task.info", trace.WithAttributes(
					attribute.String(observability.AttrPayload, fmt.Sprint(payload)),
				))
			case runner.EventResolve:
				if span == nil {
					return
				}
				span.SetAttributes(attribute.String(observability.AttrStatus, observability.StatusOK))
				span.SetStatus(codes.Ok, "")
				span.End()
			case runner.EventReject:
				if span == nil {
					return
				}
				msg := fmt.Sprint(payload)
				if err, ok := payload.(error); ok {
					span.RecordError(err)
					msg = err.Error()
				}
				span.SetAttributes(attribute.String(observability.AttrStatus, observability.StatusError))
				span.SetStatus(codes.Error, msg)
				span.End()
			}
		}
	}
}

// Metrics returns a Reporter that records task starts, info events and
// finished tasks with their durations on m.
func Metrics(ctx context.Context, m *observability.Metrics, opts ...Option) runner.Reporter {
	o := newOptions(opts)
	return func(name string) runner.TaskReporter {
		var started time.Time
		return func(event runner.Event, _ any) {
			switch event {
			case runner.EventStart:
				started = o.clock.Now()
				m.RecordTaskStart(ctx, name)
			case runner.EventInfo:
				m.RecordTaskInfo(ctx, name)
			case runner.EventResolve:
				m.RecordTaskEnd(ctx, name, observability.StatusOK, o.clock.Since(started))
			case runner.EventReject:
				m.RecordTaskEnd(ctx, name, observability.StatusError, o.clock.Since(started))
			}
		}
	}
}
