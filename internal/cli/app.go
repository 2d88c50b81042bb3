package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/start/config"
	"github.com/kbukum/start/logger"
	"github.com/kbukum/start/observability"
	"github.com/kbukum/start/process"
	"github.com/kbukum/start/reporter"
	"github.com/kbukum/start/runner"
	"github.com/kbukum/start/taskfile"
	"github.com/kbukum/start/version"
)

const shutdownTimeout = 5 * time.Second

// app is the loaded configuration and everything built from it.
type app struct {
	settings config.Settings
	files    config.ResolvedFiles
	log      *logger.Logger
	out      io.Writer
	set      *taskfile.Set

	tracing  bool
	metrics  *observability.Metrics
	shutdown []func(context.Context) error
}

// loadSettings reads the config named by the root flags and applies flag overrides.
func loadSettings(cmd *cobra.Command) (config.Settings, config.ResolvedFiles, error) {
	flags := cmd.Root().PersistentFlags()
	configFile, err := flags.GetString("config")
	if err != nil {
		return config.Settings{}, config.ResolvedFiles{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	envFile, err := flags.GetString("env-file")
	if err != nil {
		return config.Settings{}, config.ResolvedFiles{}, fmt.Errorf("failed to get env-file flag: %w", err)
	}
	format, err := flags.GetString("reporter")
	if err != nil {
		return config.Settings{}, config.ResolvedFiles{}, fmt.Errorf("failed to get reporter flag: %w", err)
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return config.Settings{}, config.ResolvedFiles{}, fmt.Errorf("failed to get verbose flag: %w", err)
	}

	var s config.Settings
	files, err := config.Load(&s, config.WithConfigFile(configFile), config.WithEnvFile(envFile))
	if err != nil {
		return s, files, err
	}
	s.ApplyDefaults()
	if verbose {
		s.Logging.Level = "debug"
	}
	if format != "" {
		s.Reporter.Format = format
	}
	if err := s.Validate(); err != nil {
		return s, files, err
	}
	return s, files, nil
}

// newApp loads settings and sets up logging and telemetry. Telemetry
// providers are created with ctx.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	s, files, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{settings: s, files: files, out: cmd.OutOrStdout()}
	logOut := cmd.OutOrStdout()
	if s.Logging.Output == "stderr" {
		logOut = cmd.ErrOrStderr()
	}
	a.log = logger.NewWithWriter(&a.settings.Logging, s.Name, logOut)
	logger.SetGlobalLogger(a.log)
	a.log.WithFields(version.Get().Fields()).Debug("config loaded",
		logger.Fields("config_file", files.ConfigFile, "env_file", files.EnvFile))

	if err := a.initTelemetry(ctx); err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	return a, nil
}

func (a *app) initTelemetry(ctx context.Context) error {
	v := version.Short()
	if a.settings.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, a.settings.TracerConfig(v))
		if err != nil {
			return fmt.Errorf("failed to init tracer: %w", err)
		}
		a.tracing = true
		a.shutdown = append(a.shutdown, tp.Shutdown)
	}
	if a.settings.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, a.settings.MeterConfig(v))
		if err != nil {
			return fmt.Errorf("failed to init meter: %w", err)
		}
		a.shutdown = append(a.shutdown, mp.Shutdown)
		m, err := observability.NewMetrics(mp.Meter(observability.TracerName))
		if err != nil {
			return err
		}
		a.metrics = m
	}
	return nil
}

// build composes the configured pipelines with a reporter bound to ctx,
// adding extra reporters after the configured ones.
func (a *app) build(ctx context.Context, extra ...runner.Reporter) error {
	base, err := reporter.Select(a.settings.Reporter.Format, a.log, a.out)
	if err != nil {
		return err
	}
	reporters := []runner.Reporter{base}
	if a.tracing {
		reporters = append(reporters, reporter.Tracing(ctx, observability.Tracer(observability.TracerName)))
	}
	if a.metrics != nil {
		reporters = append(reporters, reporter.Metrics(ctx, a.metrics))
	}
	reporters = append(reporters, extra...)

	executor := process.NewExecutor(a.settings.Exec, a.log)
	set, err := taskfile.Build(runner.New(reporter.Multi(reporters...)), a.settings.Pipelines, taskfile.DefaultRegistry(executor))
	if err != nil {
		return err
	}
	a.set = set
	return nil
}

// close flushes telemetry providers, even when ctx is already canceled.
func (a *app) close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var errs []error
	for _, fn := range a.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.shutdown = nil
	return stderrors.Join(errs...)
}
