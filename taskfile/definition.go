package taskfile

import (
	"fmt"

	"github.com/kbukum/start/validation"
)

// Definitions maps pipeline names to their definitions.
type Definitions map[string]Definition

// Definition declares one pipeline.
type Definition struct {
	Description string    `yaml:"description,omitempty" mapstructure:"description"`
	Steps       []StepDef `yaml:"steps" mapstructure:"steps"`
}

// StepDef is one step of a Definition. Exactly one of Task or Pipeline is set.
type StepDef struct {
	// Task is a registered task kind.
	Task string `yaml:"task,omitempty" mapstructure:"task"`
	// Pipeline names another pipeline to embed.
	Pipeline string `yaml:"pipeline,omitempty" mapstructure:"pipeline"`
	// With holds the task options.
	With map[string]any `yaml:"with,omitempty" mapstructure:"with"`
}

// Validate checks the shape of every definition. References are resolved
// by Build.
func (d Definitions) Validate() error {
	v := validation.New()
	for _, name := range sortedNames(d) {
		def := d[name]
		v.Required("pipelines", name)
		for i, s := range def.Steps {
			field := fmt.Sprintf("pipelines.%s.steps[%d]", name, i)
			v.Custom(s.Task != "" || s.Pipeline != "", field, "needs a task or a pipeline")
			v.Custom(s.Task == "" || s.Pipeline == "", field, "cannot set both task and pipeline")
			v.Custom(s.Pipeline == "" || len(s.With) == 0, field, "with is only allowed on tasks")
		}
	}
	return v.Validate()
}
