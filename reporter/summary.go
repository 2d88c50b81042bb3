package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/kbukum/start/runner"
)

// TaskStatus is the outcome of one task invocation tracked by a Summary.
type TaskStatus struct {
	Name     string
	Status   string // "running", "done" or "failed"
	Duration time.Duration
	Infos    int
	Err      error
}

// Summary tracks every task invocation of a run and renders an overview
// once the run is over. It is safe for concurrent use.
type Summary struct {
	opts  options
	mu    sync.Mutex
	tasks []*TaskStatus
}

// NewSummary creates an empty Summary.
func NewSummary(opts ...Option) *Summary {
	return &Summary{opts: newOptions(opts)}
}

// Reporter returns a runner.Reporter feeding the summary.
func (s *Summary) Reporter() runner.Reporter {
	return func(name string) runner.TaskReporter {
		var ts *TaskStatus
		var started time.Time
		return func(event runner.Event, payload any) {
			s.mu.Lock()
			defer s.mu.Unlock()
			switch event {
			case runner.EventStart:
				started = s.opts.clock.Now()
				ts = &TaskStatus{Name: name, Status: "running"}
				s.tasks = append(s.tasks, ts)
			case runner.EventInfo:
				if ts != nil {
					ts.Infos++
				}
			case runner.EventResolve, runner.EventReject:
				if ts == nil {
					return
				}
				ts.Duration = s.opts.clock.Since(started)
				ts.Status = "done"
				if event == runner.EventReject {
					ts.Status = "failed"
					if err, ok := payload.(error); ok {
						ts.Err = err
					} else {
						ts.Err = fmt.Errorf("%v", payload)
					}
				}
			}
		}
	}
}

// Tasks returns a snapshot of the tracked invocations in start order.
func (s *Summary) Tasks() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaskStatus, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = *t
	}
	return out
}

// Render writes the task tree and a closing line to w.
func (s *Summary) Render(w io.Writer, total time.Duration) {
	tasks := s.Tasks()

	fmt.Fprintf(w, "\n📦 Tasks\n")
	if len(tasks) == 0 {
		fmt.Fprintf(w, "   └── No tasks ran\n")
	}
	failed := 0
	for i, t := range tasks {
		prefix := "├──"
		if i == len(tasks)-1 {
			prefix = "└──"
		}
		line := fmt.Sprintf("   %s %s %s (%s)", prefix, statusIcon(t.Status), t.Name, t.Duration.Round(time.Millisecond))
		if t.Err != nil {
			failed++
			line += ": " + t.Err.Error()
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	if failed == 0 {
		fmt.Fprintf(w, "✅ %d tasks done in %.2fs\n", len(tasks), total.Seconds())
		return
	}
	fmt.Fprintf(w, "❌ %d of %d tasks failed after %.2fs\n", failed, len(tasks), total.Seconds())
}

func statusIcon(status string) string {
	switch status {
	case "done":
		return "✅"
	case "failed":
		return "❌"
	default:
		return "⏳"
	}
}
