package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"doomctl/internal/logging"
)

var commandContext = exec.CommandContext

// ErrLaunch marks a child process that could not be started at all.
var ErrLaunch = errors.New("could not launch engine")

// ErrChildExit marks a child process that started but exited abnormally.
// Single-shot launches treat this as informational; batch renders abort on it.
var ErrChildExit = errors.New("engine exited with an error")

// Runner executes one flattened command line synchronously.
type Runner interface {
	Run(ctx context.Context, words []string) error
}

// Option configures a Local runner.
type Option func(*Local)

// WithStdio overrides the streams wired into the child process.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Local) {
		l.stdin = stdin
		l.stdout = stdout
		l.stderr = stderr
	}
}

// Local runs the engine as a direct child process, blocking until it exits.
type Local struct {
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewLocal constructs a runner that inherits this process's stdio by default.
func NewLocal(logger *slog.Logger, opts ...Option) *Local {
	l := &Local{
		logger: logging.WithComponent(logger, "launch"),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run spawns words[0] with the remaining words as arguments. The working
// directory is pinned to the binary's own directory because several
// sourceports locate their data files relative to it.
func (l *Local) Run(ctx context.Context, words []string) error {
	if len(words) == 0 {
		return fmt.Errorf("%w: empty command line", ErrLaunch)
	}

	binary, err := resolveBinary(words[0])
	if err != nil {
		return err
	}

	args := make([]string, 0, len(words)-1)
	for _, word := range words[1:] {
		trimmed := strings.TrimSpace(word)
		if trimmed == "" {
			continue
		}
		args = append(args, trimmed)
	}

	cmd := commandContext(ctx, binary, args...)
	cmd.Dir = filepath.Dir(binary)
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	l.logger.Debug("spawning engine",
		logging.String("binary", binary),
		logging.String("dir", cmd.Dir),
		logging.Int("args", len(args)))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLaunch, binary, err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s: exit status %d", ErrChildExit, filepath.Base(binary), exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %s: %v", ErrChildExit, filepath.Base(binary), err)
	}
	return nil
}

// resolveBinary turns the first command word into an absolute path: explicit
// paths must exist, bare names go through PATH.
func resolveBinary(word string) (string, error) {
	if strings.ContainsRune(word, os.PathSeparator) {
		abs, err := filepath.Abs(word)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrLaunch, word, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrLaunch, word, err)
		}
		return abs, nil
	}
	resolved, err := exec.LookPath(word)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrLaunch, word, err)
	}
	return filepath.Abs(resolved)
}

var _ Runner = (*Local)(nil)
