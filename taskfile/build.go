package taskfile

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/kbukum/start/errors"
	"github.com/kbukum/start/logger"
	"github.com/kbukum/start/runner"
	"github.com/kbukum/start/tasks"
)

// WatchTask is the task kind handled by Build itself. It runs the pipeline
// named in its options for every batch of changed files:
//
//	- task: watch
//	  with: {patterns: ["src/**/*.js"], pipeline: compile, debounce: 200ms}
//
// The pipeline receives the changed paths as its input.
const WatchTask = "watch"

type watchOptions struct {
	Patterns    []string      `mapstructure:"patterns" validate:"required,min=1"`
	Pipeline    string        `mapstructure:"pipeline" validate:"required"`
	Debounce    time.Duration `mapstructure:"debounce"`
	SkipInitial bool          `mapstructure:"skip_initial"`
}

// Set is a group of built pipelines.
type Set struct {
	runner    *runner.Runner
	defs      Definitions
	pipelines map[string]runner.Pipeline
}

// Build composes every pipeline in defs with run. A nil reg selects
// DefaultRegistry(nil).
//
// Task steps are created once, at build time. Pipeline references are
// embedded as anonymous steps so the referenced pipeline's tasks report
// through run's Reporter. Build fails with UNKNOWN_TASK, UNKNOWN_PIPELINE or
// PIPELINE_CYCLE when references cannot be resolved.
func Build(run *runner.Runner, defs Definitions, reg *Registry) (*Set, error) {
	if run == nil {
		return nil, errors.InvalidConfig("taskfile: runner is required")
	}
	if reg == nil {
		reg = DefaultRegistry(nil)
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		run:   run,
		defs:  defs,
		reg:   reg,
		built: make(map[string]runner.Pipeline, len(defs)),
		state: make(map[string]visit, len(defs)),
	}
	for _, name := range sortedNames(defs) {
		if _, err := b.build(name); err != nil {
			return nil, err
		}
	}

	logger.Debug("pipelines built", logger.Fields("count", len(b.built)))
	return &Set{runner: run, defs: defs, pipelines: b.built}, nil
}

type visit uint8

const (
	unvisited visit = iota
	visiting
	visited
)

type builder struct {
	run   *runner.Runner
	defs  Definitions
	reg   *Registry
	built map[string]runner.Pipeline
	state map[string]visit
	path  []string
}

func (b *builder) build(name string) (runner.Pipeline, error) {
	switch b.state[name] {
	case visited:
		return b.built[name], nil
	case visiting:
		start := slices.Index(b.path, name)
		cycle := append(slices.Clone(b.path[start:]), name)
		return nil, errors.PipelineCycle(cycle)
	}

	def, ok := b.defs[name]
	if !ok {
		err := errors.UnknownPipeline(name)
		if len(b.path) > 0 {
			err = err.WithDetail("referenced_by", b.path[len(b.path)-1])
		}
		return nil, err
	}

	b.state[name] = visiting
	b.path = append(b.path, name)

	steps := make([]runner.Step, 0, len(def.Steps))
	for i, s := range def.Steps {
		step, err := b.step(name, i, s)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	b.path = b.path[:len(b.path)-1]
	b.state[name] = visited
	p := b.run.Compose(steps...)
	b.built[name] = p
	return p, nil
}

func (b *builder) step(pipeline string, i int, s StepDef) (runner.Step, error) {
	if s.Pipeline != "" {
		p, err := b.build(s.Pipeline)
		if err != nil {
			return runner.Step{}, err
		}
		return p.Step(), nil
	}

	var step runner.Step
	var err error
	if s.Task == WatchTask {
		step, err = b.watch(s.With)
	} else {
		factory, ok := b.reg.Lookup(s.Task)
		if !ok {
			return runner.Step{}, errors.UnknownTask(s.Task).WithDetail("pipeline", pipeline)
		}
		step, err = factory(s.With)
	}
	if err != nil {
		where := fmt.Sprintf("pipelines.%s.steps[%d]", pipeline, i)
		if appErr, ok := errors.AsAppError(err); ok {
			return runner.Step{}, appErr.WithDetail("step", where)
		}
		return runner.Step{}, errors.InvalidConfig(where + ": " + err.Error()).WithCause(err)
	}
	return step, nil
}

// watch builds a tasks.Watch step whose batches run a pipeline of the set.
// The target is built first, so a watch on its own pipeline is a cycle.
func (b *builder) watch(with map[string]any) (runner.Step, error) {
	o, err := Decode[watchOptions](with)
	if err != nil {
		return runner.Step{}, err
	}
	target, err := b.build(o.Pipeline)
	if err != nil {
		return runner.Step{}, err
	}

	var opts []tasks.WatchOption
	if o.Debounce > 0 {
		opts = append(opts, tasks.WithDebounce(o.Debounce))
	}
	if o.SkipInitial {
		opts = append(opts, tasks.SkipInitial())
	}
	return tasks.Watch(o.Patterns, func([]string) runner.Pipeline { return target }, opts...), nil
}

// Run runs the named pipelines one after another, each starting from nil
// input, and stops at the first failure. It returns the last output. All
// names are resolved before anything runs.
func (s *Set) Run(ctx context.Context, names ...string) (any, error) {
	steps := make([]runner.Step, 0, len(names))
	for _, name := range names {
		p, ok := s.pipelines[name]
		if !ok {
			return nil, errors.UnknownPipeline(name)
		}
		steps = append(steps, runner.Do(func(ctx context.Context, _ any) (any, error) {
			return p(ctx, nil)
		}))
	}
	return s.runner.Compose(steps...)(ctx, nil)
}

// Names returns the pipeline names in sorted order.
func (s *Set) Names() []string {
	return sortedNames(s.defs)
}

// Get returns the built pipeline called name.
func (s *Set) Get(name string) (runner.Pipeline, bool) {
	p, ok := s.pipelines[name]
	return p, ok
}

// Describe returns the definition of the pipeline called name.
func (s *Set) Describe(name string) (Definition, bool) {
	def, ok := s.defs[name]
	return def, ok
}

func sortedNames(defs Definitions) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
