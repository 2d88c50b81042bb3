package reporter

import "github.com/kbukum/start/runner"

// Multi returns a Reporter that forwards every event to each of reporters,
// in argument order. Nil reporters are skipped.
func Multi(reporters ...runner.Reporter) runner.Reporter {
	active := make([]runner.Reporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			active = append(active, r)
		}
	}
	return func(name string) runner.TaskReporter {
		tasks := make([]runner.TaskReporter, len(active))
		for i, r := range active {
			tasks[i] = r(name)
		}
		return func(event runner.Event, payload any) {
			for _, tr := range tasks {
				tr(event, payload)
			}
		}
	}
}
