// Package runner composes ordered lists of steps into sequential pipelines.
//
// A Runner is built once with a Reporter. Compose binds a list of steps and
// returns a Pipeline; each invocation of that Pipeline threads its input
// through the steps one at a time, passing every step's output as the next
// step's input.
//
// There are two kinds of step. A named step (Task) is observed: the Runner
// emits start before its body runs, info whenever the body logs, and exactly
// one of resolve or reject when it finishes. An anonymous step (Do) is a plain
// transformation that is never reported. A composed Pipeline is itself an
// anonymous step, so pipelines nest:
//
//	start := runner.New(reporter.Console(log))
//
//	lint := start.Compose(
//		tasks.Files("**/*.go"),
//		tasks.Exec("golangci-lint", "run"),
//	)
//	test := start.Compose(tasks.Exec("go", "test", "./..."))
//
//	ci := start.Compose(lint.Step(), test.Step())
//	out, err := ci(ctx, nil)
//
// The first failing step halts the pipeline; its error is returned unmodified
// and no later step runs. Panics raised by step bodies are recovered and
// reported like returned errors.
package runner
