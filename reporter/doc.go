// Package reporter provides runner.Reporter implementations.
//
//   - Console: human-readable task lines through the zerolog logger
//   - Tracing: one OpenTelemetry span per task invocation
//   - Metrics: task counts and durations on OpenTelemetry instruments
//   - Multi: fans events out to several reporters
//   - Recorder: keeps events in memory, for tests and summaries
//
// Every TaskReporter returned by these reporters is bound to a single task
// invocation, so per-task state (start time, span) lives in the closure and
// nothing is shared between invocations.
package reporter
