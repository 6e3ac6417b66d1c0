package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

func captureCommands(t *testing.T, mode string) *struct {
	name string
	args []string
} {
	t.Helper()
	captured := &struct {
		name string
		args []string
	}{}

	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured.name = name
		captured.args = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "LAUNCH_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return captured
}

func writeBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dsda-doom")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	return path
}

func TestRunPassesArgsAndFiltersBlanks(t *testing.T) {
	captured := captureCommands(t, "success")
	binary := writeBinary(t)

	runner := NewLocal(nil)
	words := []string{binary, "-iwad", "/doom/doom2.wad", "   ", "", "-fast"}
	if err := runner.Run(context.Background(), words); err != nil {
		t.Fatalf("run: %v", err)
	}

	if captured.name != binary {
		t.Fatalf("expected binary %q, got %q", binary, captured.name)
	}
	want := []string{"-iwad", "/doom/doom2.wad", "-fast"}
	if !reflect.DeepEqual(captured.args, want) {
		t.Fatalf("args mismatch:\n got %v\nwant %v", captured.args, want)
	}
}

func TestRunMissingBinary(t *testing.T) {
	runner := NewLocal(nil)
	err := runner.Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing-engine")})
	if !errors.Is(err, ErrLaunch) {
		t.Fatalf("expected ErrLaunch, got %v", err)
	}
}

func TestRunChildExitClassified(t *testing.T) {
	captureCommands(t, "failure")
	binary := writeBinary(t)

	runner := NewLocal(nil)
	err := runner.Run(context.Background(), []string{binary})
	if !errors.Is(err, ErrChildExit) {
		t.Fatalf("expected ErrChildExit, got %v", err)
	}
}

func TestRunEmptyCommandLine(t *testing.T) {
	runner := NewLocal(nil)
	if err := runner.Run(context.Background(), nil); !errors.Is(err, ErrLaunch) {
		t.Fatalf("expected ErrLaunch for empty command line, got %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("LAUNCH_HELPER_MODE") {
	case "failure":
		fmt.Fprintln(os.Stderr, "engine crashed")
		os.Exit(3)
	default:
		os.Exit(0)
	}
}
