package runner

import "context"

// TaskFunc is the body of a named step. log emits info events for this
// invocation; reporter is the Runner's own Reporter, so a task can compose
// and run pipelines of its own.
type TaskFunc func(ctx context.Context, input any, log LogFunc, reporter Reporter) (any, error)

// Func is the body of an anonymous step.
type Func func(ctx context.Context, input any) (any, error)

// Step is one entry of a pipeline. It is either named (built with Task) or
// anonymous (built with Do or Pipeline.Step). The zero Step is invalid and
// fails when a pipeline reaches it.
type Step struct {
	name string
	task TaskFunc
	fn   Func
	kind stepKind
}

type stepKind uint8

const (
	kindInvalid stepKind = iota
	kindNamed
	kindAnonymous
)

// Task returns a named step. Its name identifies it to the Reporter.
func Task(name string, fn TaskFunc) Step {
	return Step{name: name, task: fn, kind: kindNamed}
}

// Do returns an anonymous step. It receives only the running value and is
// never reported.
func Do(fn Func) Step {
	return Step{fn: fn, kind: kindAnonymous}
}

// Name returns the step's name, or "" for anonymous steps.
func (s Step) Name() string { return s.name }

// IsNamed reports whether the step is observed by the Reporter.
func (s Step) IsNamed() bool { return s.kind == kindNamed }
