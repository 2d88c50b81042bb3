// Package process runs external commands for tasks.
//
// Run starts a binary in its own process group, captures stdout and stderr,
// and on context cancellation sends SIGTERM to the group before SIGKILL
// after the grace period. Executor applies shared defaults (grace period,
// timeout, extra environment) to every command it runs.
package process
