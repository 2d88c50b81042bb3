package process_test

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/start/process"
)

func TestExecutorDefaultEnv(t *testing.T) {
	exec := process.NewExecutor(process.Config{Env: []string{"A=base", "B=base"}}, nil)
	result, err := exec.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo $A $B"},
		Env:    []string{"B=cmd"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := strings.TrimSpace(string(result.Stdout)); out != "base cmd" {
		t.Fatalf("expected 'base cmd', got %q", out)
	}
}

func TestExecutorTimeout(t *testing.T) {
	exec := process.NewExecutor(process.Config{
		Timeout:     100 * time.Millisecond,
		GracePeriod: 200 * time.Millisecond,
	}, nil)
	_, err := exec.Run(context.Background(), process.Command{
		Binary: "sleep",
		Args:   []string{"10"},
	})
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestExecutorConfig(t *testing.T) {
	cfg := process.Config{GracePeriod: time.Second}
	if got := process.NewExecutor(cfg, nil).Config(); got.GracePeriod != time.Second {
		t.Fatalf("expected grace period 1s, got %v", got.GracePeriod)
	}
}
