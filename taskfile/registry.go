package taskfile

import (
	"slices"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/start/errors"
	"github.com/kbukum/start/process"
	"github.com/kbukum/start/runner"
	"github.com/kbukum/start/tasks"
	"github.com/kbukum/start/validation"
)

// Factory creates a step from the "with" options of a task step.
type Factory func(with map[string]any) (runner.Step, error)

// Registry maps task kinds to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = f
}

// Lookup returns the factory for kind.
func (r *Registry) Lookup(kind string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[kind]
	return f, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Decode converts task options into T and validates its struct tags.
// Unknown keys are rejected; strings convert to durations and single values
// to slices.
func Decode[T any](with map[string]any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return out, errors.Internal(err)
	}
	if err := dec.Decode(with); err != nil {
		return out, errors.InvalidConfig("invalid task options").WithCause(err)
	}
	if err := validation.Validate(out); err != nil {
		return out, err
	}
	return out, nil
}

type envOptions struct {
	Key   string `mapstructure:"key" validate:"required"`
	Value string `mapstructure:"value"`
}

type filesOptions struct {
	Patterns []string `mapstructure:"patterns" validate:"required,min=1"`
}

type writeOptions struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

type inputOptions struct {
	Value any `mapstructure:"value"`
}

// DefaultRegistry registers the tasks package steps as env, files, clean,
// read, write, input and exec. Exec steps run through executor; nil uses
// process defaults.
func DefaultRegistry(executor *process.Executor) *Registry {
	r := NewRegistry()
	r.Register("env", func(with map[string]any) (runner.Step, error) {
		o, err := Decode[envOptions](with)
		if err != nil {
			return runner.Step{}, err
		}
		return tasks.Env(o.Key, o.Value), nil
	})
	r.Register("files", func(with map[string]any) (runner.Step, error) {
		o, err := Decode[filesOptions](with)
		if err != nil {
			return runner.Step{}, err
		}
		return tasks.Files(o.Patterns...), nil
	})
	r.Register("clean", noOptions(tasks.Clean))
	r.Register("read", noOptions(tasks.Read))
	r.Register("write", func(with map[string]any) (runner.Step, error) {
		o, err := Decode[writeOptions](with)
		if err != nil {
			return runner.Step{}, err
		}
		return tasks.Write(o.Dir), nil
	})
	r.Register("input", func(with map[string]any) (runner.Step, error) {
		o, err := Decode[inputOptions](with)
		if err != nil {
			return runner.Step{}, err
		}
		return tasks.Input(o.Value), nil
	})
	r.Register("exec", func(with map[string]any) (runner.Step, error) {
		o, err := Decode[tasks.ExecConfig](with)
		if err != nil {
			return runner.Step{}, err
		}
		return o.Step(executor), nil
	})
	return r
}

func noOptions(step func() runner.Step) Factory {
	return func(with map[string]any) (runner.Step, error) {
		if len(with) > 0 {
			return runner.Step{}, errors.InvalidConfig("task takes no options")
		}
		return step(), nil
	}
}
