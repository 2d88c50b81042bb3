package tasks

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/kbukum/start/errors"
	"github.com/kbukum/start/process"
	"github.com/kbukum/start/runner"
)

// ExecConfig describes an external command run as a task.
type ExecConfig struct {
	Binary string   `mapstructure:"binary" validate:"required"`
	Args   []string `mapstructure:"args"`
	Dir    string   `mapstructure:"dir"`
	Env    []string `mapstructure:"env"`
	// AppendInput appends a []string input (e.g. from Files) to Args.
	AppendInput bool `mapstructure:"append_input"`
	// Timeout bounds this command on top of the executor's own timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Exec runs binary with args using a default executor.
func Exec(binary string, args ...string) runner.Step {
	return ExecConfig{Binary: binary, Args: args}.Step(nil)
}

// Step returns the named "exec" step running c through executor. Output
// lines from stdout and stderr are logged as info events. The input is
// passed through. A nil executor uses process defaults.
func (c ExecConfig) Step(executor *process.Executor) runner.Step {
	if executor == nil {
		executor = process.NewExecutor(process.Config{}, nil)
	}
	return runner.Task("exec", func(ctx context.Context, input any, log runner.LogFunc, _ runner.Reporter) (any, error) {
		args := append([]string{}, c.Args...)
		if c.AppendInput {
			extra, err := stringsInput("exec", input)
			if err != nil {
				return nil, err
			}
			args = append(args, extra...)
		}
		if c.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.Timeout)
			defer cancel()
		}

		var mu sync.Mutex
		stdout := &lineWriter{mu: &mu, log: log}
		stderr := &lineWriter{mu: &mu, log: log}
		_, err := executor.Run(ctx, process.Command{
			Binary: c.Binary,
			Args:   args,
			Dir:    c.Dir,
			Env:    c.Env,
			Stdout: stdout,
			Stderr: stderr,
		})
		stdout.Flush()
		stderr.Flush()
		if err != nil {
			if errors.IsAppError(err) {
				return nil, err
			}
			return nil, errors.CommandFailed(c.Binary, -1, err)
		}
		return input, nil
	})
}

// lineWriter logs each complete line written to one stream. The writers of
// a command's stdout and stderr share mu so log is never called concurrently.
type lineWriter struct {
	mu  *sync.Mutex
	log runner.LogFunc
	buf []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.log(string(bytes.TrimRight(w.buf[:i], "\r")))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush logs a trailing line that had no newline.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.log(string(w.buf))
		w.buf = nil
	}
}
