package cli

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/start/logger"
	"github.com/kbukum/start/observability"
	"github.com/kbukum/start/reporter"
	"github.com/kbukum/start/runner"
)

type RunCmd struct{}

func NewRunCmd() *RunCmd {
	return &RunCmd{}
}

func (c *RunCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <pipeline>...",
		Short: "Run pipelines in the given order, stopping at the first failure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runID := uuid.NewString()
			ctx = runner.WithRunID(ctx, runID)

			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(ctx) }()

			log := a.log.WithRunID(runID).WithPipeline(strings.Join(args, ","))

			var span trace.Span
			if a.tracing {
				ctx, span = observability.StartSpan(ctx, observability.SpanRun, trace.WithAttributes(
					attribute.StringSlice(observability.AttrPipeline, args),
					attribute.String(observability.AttrRunID, runID),
				))
				defer span.End()
			}

			showSummary, err := cmd.Flags().GetBool("summary")
			if err != nil {
				return fmt.Errorf("failed to get summary flag: %w", err)
			}
			var summary *reporter.Summary
			var extra []runner.Reporter
			if showSummary {
				summary = reporter.NewSummary()
				extra = append(extra, summary.Reporter())
			}

			if err := a.build(ctx, extra...); err != nil {
				log.WithError(err).Error("invalid pipelines")
				return loggedError{err}
			}

			started := time.Now()
			_, err = a.set.Run(ctx, args...)
			elapsed := time.Since(started)
			if summary != nil {
				summary.Render(cmd.OutOrStdout(), elapsed)
			}
			fields := logger.Fields(logger.FieldDuration, elapsed.Milliseconds())
			if err != nil {
				if span != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
				}
				log.WithError(err).Error("run failed", fields)
				return loggedError{err}
			}
			if span != nil {
				span.SetStatus(codes.Ok, "")
			}
			log.Info("run finished", fields)
			return nil
		},
	}
	cmd.Flags().Bool("summary", false, "print a task summary when the run ends")
	return cmd
}
