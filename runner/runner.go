package runner

import (
	"context"
	"os"
	"slices"

	"github.com/kbukum/start/errors"
)

// Pipeline runs a composed list of steps against input and returns the last
// step's output. A Pipeline may be invoked any number of times, concurrently;
// invocations share nothing but the step list and the Reporter.
type Pipeline func(ctx context.Context, input any) (any, error)

// Step returns the pipeline as an anonymous step for embedding in another
// pipeline. Its named steps keep reporting through the Reporter of the Runner
// that composed it.
func (p Pipeline) Step() Step {
	return Do(Func(p))
}

// Runner composes pipelines that report named steps through one Reporter.
type Runner struct {
	reporter Reporter
}

// New creates a Runner. A nil reporter selects Print(os.Stdout).
func New(reporter Reporter) *Runner {
	if reporter == nil {
		reporter = Print(os.Stdout)
	}
	return &Runner{reporter: reporter}
}

// Reporter returns the Runner's Reporter.
func (r *Runner) Reporter() Reporter {
	return r.reporter
}

// Compose binds steps into a Pipeline. Steps are not validated here; an
// invalid step fails the pipeline when it is reached.
func (r *Runner) Compose(steps ...Step) Pipeline {
	steps = slices.Clone(steps)
	return func(ctx context.Context, input any) (any, error) {
		ctx = ensureRunID(ctx)
		current := input
		for _, step := range steps {
			out, err := r.run(ctx, step, current)
			if err != nil {
				return nil, err
			}
			current = out
		}
		return current, nil
	}
}

func (r *Runner) run(ctx context.Context, step Step, input any) (any, error) {
	switch step.kind {
	case kindAnonymous:
		if step.fn == nil {
			return nil, errors.InvalidStep("anonymous step has no body")
		}
		return capture("", func() (any, error) {
			return step.fn(ctx, input)
		})
	case kindNamed:
		return r.runTask(ctx, step, input)
	default:
		return nil, errors.InvalidStep("zero Step value")
	}
}

func (r *Runner) runTask(ctx context.Context, step Step, input any) (any, error) {
	if step.name == "" {
		return nil, errors.InvalidStep("task has an empty name")
	}
	if step.task == nil {
		return nil, errors.InvalidStep("task has no body").WithDetail("task", step.name)
	}

	report := r.reporter(step.name)
	report(EventStart, nil)

	log := func(payload any) { report(EventInfo, payload) }
	out, err := capture(step.name, func() (any, error) {
		return step.task(ctx, input, log, r.reporter)
	})
	if err != nil {
		report(EventReject, err)
		return nil, err
	}

	report(EventResolve, nil)
	return out, nil
}

// capture runs body and converts a panic into its error result. Panic values
// that are errors are returned as is.
func capture(name string, body func() (any, error)) (out any, err error) {
	defer func() {
		if v := recover(); v != nil {
			out = nil
			if e, ok := v.(error); ok {
				err = e
				return
			}
			err = errors.StepPanic(name, v)
		}
	}()
	return body()
}
