package process

import (
	"context"
	"time"

	"github.com/kbukum/start/logger"
)

// Config holds defaults applied by an Executor to every command.
type Config struct {
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each command. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`
	// Env is prepended to every command's own Env.
	Env []string `yaml:"env,omitempty" mapstructure:"env"`
}

// Executor runs commands with shared defaults.
type Executor struct {
	config Config
	log    *logger.Logger
}

// NewExecutor creates an Executor. A nil log discards debug output.
func NewExecutor(cfg Config, log *logger.Logger) *Executor {
	if log == nil {
		log = logger.Nop()
	}
	return &Executor{config: cfg, log: log.WithComponent("process")}
}

// Config returns the executor defaults.
func (e *Executor) Config() Config {
	return e.config
}

// Run executes cmd, applying executor-level defaults.
func (e *Executor) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 && e.config.GracePeriod > 0 {
		cmd.GracePeriod = e.config.GracePeriod
	}
	if len(e.config.Env) > 0 {
		cmd.Env = append(append([]string{}, e.config.Env...), cmd.Env...)
	}
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	e.log.Debug("exec", logger.Fields("command", cmd.String(), "dir", cmd.Dir))
	result, err := Run(ctx, cmd)
	if result != nil {
		e.log.Debug("exited", logger.Fields(
			"command", cmd.Binary,
			"exit_code", result.ExitCode,
			logger.FieldDuration, result.Duration.Milliseconds(),
		))
	}
	return result, err
}
