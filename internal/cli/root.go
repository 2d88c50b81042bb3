// Package cli implements the start command line.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess ExitCode = 0
	exitCodeError   ExitCode = 1
)

// Run executes the command line args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) ExitCode {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var logged loggedError
		if !errors.As(err, &logged) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return exitCodeError
	}
	return exitCodeSuccess
}

// loggedError marks an error that was already written to the log.
type loggedError struct{ error }

func (e loggedError) Unwrap() error { return e.error }

// NewRootCmd builds the start command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "start",
		Short:         "Run the build pipelines declared in start.yml.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default: start.yml, start.yaml, .start.yml or config/start.yml)")
	flags.String("env-file", "", "env file to load before reading START_ variables (default: .env.local or .env)")
	flags.StringP("reporter", "r", "", "task reporter: console, plain or silent")
	flags.BoolP("verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		NewRunCmd().Command(),
		NewListCmd().Command(),
		NewShowCmd().Command(),
		NewVersionCmd().Command(),
	)
	return rootCmd
}
