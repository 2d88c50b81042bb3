package taskfile_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/start/errors"
	"github.com/kbukum/start/reporter"
	"github.com/kbukum/start/runner"
	"github.com/kbukum/start/taskfile"
)

// testRegistry registers "echo", which resolves with its "value" option,
// and "fail", which rejects.
func testRegistry() *taskfile.Registry {
	reg := taskfile.NewRegistry()
	reg.Register("echo", func(with map[string]any) (runner.Step, error) {
		v := with["value"]
		return runner.Task("echo", func(_ context.Context, _ any, log runner.LogFunc, _ runner.Reporter) (any, error) {
			log(v)
			return v, nil
		}), nil
	})
	reg.Register("fail", func(map[string]any) (runner.Step, error) {
		return runner.Task("fail", func(context.Context, any, runner.LogFunc, runner.Reporter) (any, error) {
			return nil, stderrors.New("failed")
		}), nil
	})
	return reg
}

func echo(v string) taskfile.StepDef {
	return taskfile.StepDef{Task: "echo", With: map[string]any{"value": v}}
}

func TestBuild_NestedPipelines(t *testing.T) {
	rec := reporter.NewRecorder()
	defs := taskfile.Definitions{
		"lint": {Description: "lint code", Steps: []taskfile.StepDef{echo("lint")}},
		"test": {Steps: []taskfile.StepDef{echo("test")}},
		"ci":   {Steps: []taskfile.StepDef{{Pipeline: "lint"}, {Pipeline: "test"}, echo("done")}},
	}

	set, err := taskfile.Build(runner.New(rec.Reporter()), defs, testRegistry())
	require.NoError(t, err)
	assert.Equal(t, []string{"ci", "lint", "test"}, set.Names())

	ci, ok := set.Get("ci")
	require.True(t, ok)
	out, err := ci(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "done", out)

	var payloads []any
	for _, e := range rec.Events() {
		if e.Event == runner.EventInfo {
			payloads = append(payloads, e.Payload)
		}
	}
	assert.Equal(t, []any{"lint", "test", "done"}, payloads)

	def, ok := set.Describe("lint")
	require.True(t, ok)
	assert.Equal(t, "lint code", def.Description)
	_, ok = set.Describe("missing")
	assert.False(t, ok)
}

func TestSet_Run(t *testing.T) {
	rec := reporter.NewRecorder()
	defs := taskfile.Definitions{
		"a":   {Steps: []taskfile.StepDef{echo("a")}},
		"bad": {Steps: []taskfile.StepDef{{Task: "fail"}}},
		"b":   {Steps: []taskfile.StepDef{echo("b")}},
	}
	set, err := taskfile.Build(runner.New(rec.Reporter()), defs, testRegistry())
	require.NoError(t, err)

	out, err := set.Run(context.Background(), "b", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", out)

	rec.Reset()
	_, err = set.Run(context.Background(), "a", "bad", "b")
	require.EqualError(t, err, "failed")
	assert.Equal(t, []string{"echo", "fail"}, rec.Tasks())

	rec.Reset()
	_, err = set.Run(context.Background(), "a", "nope")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownPipeline))
	assert.Empty(t, rec.Events(), "nothing runs when a name is unknown")
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		defs taskfile.Definitions
		code errors.ErrorCode
	}{
		{
			name: "unknown task",
			defs: taskfile.Definitions{"a": {Steps: []taskfile.StepDef{{Task: "nope"}}}},
			code: errors.ErrCodeUnknownTask,
		},
		{
			name: "unknown pipeline",
			defs: taskfile.Definitions{"a": {Steps: []taskfile.StepDef{{Pipeline: "nope"}}}},
			code: errors.ErrCodeUnknownPipeline,
		},
		{
			name: "self reference",
			defs: taskfile.Definitions{"a": {Steps: []taskfile.StepDef{{Pipeline: "a"}}}},
			code: errors.ErrCodePipelineCycle,
		},
		{
			name: "indirect cycle",
			defs: taskfile.Definitions{
				"a": {Steps: []taskfile.StepDef{{Pipeline: "b"}}},
				"b": {Steps: []taskfile.StepDef{{Pipeline: "c"}}},
				"c": {Steps: []taskfile.StepDef{{Pipeline: "a"}}},
			},
			code: errors.ErrCodePipelineCycle,
		},
		{
			name: "empty step",
			defs: taskfile.Definitions{"a": {Steps: []taskfile.StepDef{{}}}},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "task and pipeline",
			defs: taskfile.Definitions{"a": {Steps: []taskfile.StepDef{{Task: "echo", Pipeline: "a"}}}},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "watch unknown pipeline",
			defs: taskfile.Definitions{"dev": {Steps: []taskfile.StepDef{watch("nope")}}},
			code: errors.ErrCodeUnknownPipeline,
		},
		{
			name: "watch own pipeline",
			defs: taskfile.Definitions{"dev": {Steps: []taskfile.StepDef{watch("dev")}}},
			code: errors.ErrCodePipelineCycle,
		},
		{
			name: "watch without patterns",
			defs: taskfile.Definitions{
				"dev":   {Steps: []taskfile.StepDef{{Task: taskfile.WatchTask, With: map[string]any{"pipeline": "build"}}}},
				"build": {Steps: []taskfile.StepDef{echo("build")}},
			},
			code: errors.ErrCodeInvalidConfig,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := taskfile.Build(runner.New(runner.Noop()), tc.defs, testRegistry())
			require.Error(t, err)
			assert.Equal(t, tc.code, errors.CodeOf(err), "got %v", err)
		})
	}
}

func watch(pipeline string) taskfile.StepDef {
	return taskfile.StepDef{Task: taskfile.WatchTask, With: map[string]any{
		"patterns": "src/*.txt",
		"pipeline": pipeline,
	}}
}

func TestBuild_WatchRunsPipelinePerBatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))

	defs := taskfile.Definitions{
		"compile": {Steps: []taskfile.StepDef{
			{Task: "read"},
			{Task: "write", With: map[string]any{"dir": out}},
		}},
		"dev": {Steps: []taskfile.StepDef{{Task: taskfile.WatchTask, With: map[string]any{
			"patterns": []string{filepath.Join(src, "*.txt")},
			"pipeline": "compile",
			"debounce": "50ms",
		}}}},
	}
	rec := reporter.NewRecorder()
	set, err := taskfile.Build(runner.New(rec.Reporter()), defs, taskfile.DefaultRegistry(nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := set.Run(ctx, "dev")
		done <- err
	}()

	fileHas := func(name, want string) func() bool {
		return func() bool {
			data, err := os.ReadFile(filepath.Join(out, name))
			return err == nil && string(data) == want
		}
	}
	require.Eventually(t, fileHas("a.txt", "a"), 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(src, "b.txt"), []byte("b"), 0o644))
	require.Eventually(t, fileHas("b.txt", "b"), 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Contains(t, rec.Tasks(), "watch")
	assert.Contains(t, rec.Tasks(), "write")
	assert.Empty(t, rec.Failed())
}

func TestBuild_CyclePath(t *testing.T) {
	defs := taskfile.Definitions{
		"a": {Steps: []taskfile.StepDef{{Pipeline: "b"}}},
		"b": {Steps: []taskfile.StepDef{{Pipeline: "a"}}},
	}
	_, err := taskfile.Build(runner.New(runner.Noop()), defs, testRegistry())
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "a"}, appErr.Details["path"])
}

func TestBuild_SharedPipelineIsNotACycle(t *testing.T) {
	defs := taskfile.Definitions{
		"base": {Steps: []taskfile.StepDef{echo("base")}},
		"x":    {Steps: []taskfile.StepDef{{Pipeline: "base"}}},
		"y":    {Steps: []taskfile.StepDef{{Pipeline: "base"}, {Pipeline: "x"}}},
	}
	_, err := taskfile.Build(runner.New(runner.Noop()), defs, testRegistry())
	assert.NoError(t, err)
}

func TestBuild_RequiresRunner(t *testing.T) {
	_, err := taskfile.Build(nil, taskfile.Definitions{}, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestDefaultRegistry(t *testing.T) {
	reg := taskfile.DefaultRegistry(nil)
	assert.Equal(t, []string{"clean", "env", "exec", "files", "input", "read", "write"}, reg.Kinds())
}

func TestDefaultRegistry_Pipeline(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	t.Setenv("START_TASKFILE_TEST", "")

	defs := taskfile.Definitions{
		"copy": {Steps: []taskfile.StepDef{
			{Task: "env", With: map[string]any{"key": "START_TASKFILE_TEST", "value": "yes"}},
			{Task: "files", With: map[string]any{"patterns": filepath.Join(src, "*.txt")}},
			{Task: "read"},
			{Task: "write", With: map[string]any{"dir": filepath.Join(dir, "out")}},
			{Task: "exec", With: map[string]any{"binary": "ls", "append_input": true, "timeout": "5s"}},
		}},
	}
	rec := reporter.NewRecorder()
	set, err := taskfile.Build(runner.New(rec.Reporter()), defs, taskfile.DefaultRegistry(nil))
	require.NoError(t, err)

	out, err := set.Run(context.Background(), "copy")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "out", "a.txt")}, out)
	assert.Equal(t, "yes", os.Getenv("START_TASKFILE_TEST"))
	assert.Equal(t, []string{"env", "files", "read", "write", "exec"}, rec.Tasks())
	assert.Empty(t, rec.Failed())
}

func TestDefaultRegistry_BadOptions(t *testing.T) {
	tests := map[string]taskfile.StepDef{
		"missing required": {Task: "env", With: map[string]any{"value": "x"}},
		"unknown key":      {Task: "write", With: map[string]any{"dir": "out", "mode": 7}},
		"options on clean": {Task: "clean", With: map[string]any{"force": true}},
		"bad exec binary":  {Task: "exec", With: map[string]any{"args": []string{"x"}}},
	}
	for name, step := range tests {
		t.Run(name, func(t *testing.T) {
			defs := taskfile.Definitions{"p": {Steps: []taskfile.StepDef{step}}}
			_, err := taskfile.Build(runner.New(runner.Noop()), defs, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
			appErr, _ := errors.AsAppError(err)
			assert.Equal(t, "pipelines.p.steps[0]", appErr.Details["step"])
		})
	}
}

func TestDecode(t *testing.T) {
	type opts struct {
		Names   []string      `mapstructure:"names" validate:"required"`
		Timeout time.Duration `mapstructure:"timeout"`
	}
	o, err := taskfile.Decode[opts](map[string]any{"names": "one", "timeout": "2s"})
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, o.Names)
	assert.Equal(t, 2*time.Second, o.Timeout)
}
