package tasks

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/start/errors"
	"github.com/kbukum/start/runner"
)

// Env sets an environment variable for the rest of the process and passes
// its input through.
func Env(key, value string) runner.Step {
	return runner.Task("env", func(_ context.Context, input any, log runner.LogFunc, _ runner.Reporter) (any, error) {
		if key == "" {
			return nil, errors.InvalidConfig("env: key is required")
		}
		if err := os.Setenv(key, value); err != nil {
			return nil, errors.Internal(err)
		}
		log(fmt.Sprintf("%s=%s", key, value))
		return input, nil
	})
}

// Input ignores its input and returns value. It connects a fixed value,
// such as a list of changed files, to the steps that follow.
func Input(value any) runner.Step {
	return runner.Task("input", func(_ context.Context, _ any, _ runner.LogFunc, _ runner.Reporter) (any, error) {
		return value, nil
	})
}
