package runner

import (
	"fmt"
	"io"
)

// Event is a task lifecycle event kind.
type Event string

const (
	// EventStart is emitted before a named step's body runs. It has no payload.
	EventStart Event = "start"
	// EventInfo carries a payload logged by the step body.
	EventInfo Event = "info"
	// EventResolve is emitted when the step body succeeds. It has no payload.
	EventResolve Event = "resolve"
	// EventReject is emitted when the step body fails. The payload is the error.
	EventReject Event = "reject"
)

// IsTerminal reports whether e ends a task: resolve or reject.
func (e Event) IsTerminal() bool {
	return e == EventResolve || e == EventReject
}

// TaskReporter records lifecycle events for one named step invocation.
type TaskReporter func(event Event, payload any)

// Reporter maps a step name to the TaskReporter for one invocation of that step.
type Reporter func(name string) TaskReporter

// LogFunc emits an info event with the given payload.
type LogFunc func(payload any)

// Noop returns a Reporter that drops every event.
func Noop() Reporter {
	return func(string) TaskReporter {
		return func(Event, any) {}
	}
}

// Print returns a Reporter that writes one line per event to w:
//
//	name event
//	name event payload
//
// Start and resolve lines carry no payload; info and reject lines do.
func Print(w io.Writer) Reporter {
	return func(name string) TaskReporter {
		return func(event Event, payload any) {
			if payload == nil {
				fmt.Fprintln(w, name, event)
				return
			}
			fmt.Fprintln(w, name, event, payload)
		}
	}
}
