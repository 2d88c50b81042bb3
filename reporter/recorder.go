package reporter

import (
	"sync"

	"github.com/kbukum/start/runner"
)

// Record is one event seen by a Recorder.
type Record struct {
	Task    string
	Event   runner.Event
	Payload any
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reporter returns a runner.Reporter that appends to the recorder.
func (r *Recorder) Reporter() runner.Reporter {
	return func(name string) runner.TaskReporter {
		return func(event runner.Event, payload any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.records = append(r.records, Record{Task: name, Event: event, Payload: payload})
		}
	}
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Tasks returns task names in the order they first started.
func (r *Recorder) Tasks() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var names []string
	for _, rec := range r.records {
		if rec.Event == runner.EventStart && !seen[rec.Task] {
			seen[rec.Task] = true
			names = append(names, rec.Task)
		}
	}
	return names
}

// Kinds returns the event kinds recorded for task, in order.
func (r *Recorder) Kinds(task string) []runner.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kinds []runner.Event
	for _, rec := range r.records {
		if rec.Task == task {
			kinds = append(kinds, rec.Event)
		}
	}
	return kinds
}

// Failed returns the names of tasks that were rejected.
func (r *Recorder) Failed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, rec := range r.records {
		if rec.Event == runner.EventReject {
			names = append(names, rec.Task)
		}
	}
	return names
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.records = nil
	r.mu.Unlock()
}
