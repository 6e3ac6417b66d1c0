package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"doomctl/internal/cmdline"
	"doomctl/internal/launch"
	"doomctl/internal/logging"
)

const lockFileName = ".doomctl-render.lock"

// ErrInterruptInput marks operator input during an interrupt that could not
// be turned into jobs. It is scoped to that one interrupt: the batch keeps
// running and no partial jobs are added.
var ErrInterruptInput = errors.New("interrupt input rejected")

// ErrBatchLocked reports that another render batch already owns the dump
// directory.
var ErrBatchLocked = errors.New("another render batch is already running")

// ResolveFunc resolves one operator-entered demo name to ranked paths.
type ResolveFunc func(name string) ([]string, error)

// ConfirmFunc gates the very first job of a batch. Returning an error aborts
// the run before anything is launched.
type ConfirmFunc func(prompt string) error

// PromptFunc collects one line of whitespace-separated demo names from the
// operator during an interrupt.
type PromptFunc func() (string, error)

// AnnounceFunc observes the pending queue right before each job runs.
type AnnounceFunc func(pending []Job)

// PreviewFunc observes each job's final command line before launch.
type PreviewFunc func(index int, cmd *cmdline.CommandLine)

// Config wires an Orchestrator.
type Config struct {
	Template *cmdline.CommandLine
	Runner   launch.Runner
	DumpDir  string
	Cooldown time.Duration
	Resolve  ResolveFunc
	Confirm  ConfirmFunc
	Prompt   PromptFunc
	Announce AnnounceFunc
	Preview  PreviewFunc
	Logger   *slog.Logger
}

// injection carries one interrupt's worth of jobs, or the error that
// invalidated the whole entry.
type injection struct {
	jobs []Job
	err  error
}

// Orchestrator drives a FIFO queue of render jobs, one engine process at a
// time, and accepts new jobs injected by the operator between jobs.
//
// Two goroutines touch an orchestrator: the primary thread inside Run, and
// the signal-handler goroutine inside HandleInterrupt. They share only the
// two atomics and the two channels; the pending queue itself is mutated by
// Run alone.
type Orchestrator struct {
	template *cmdline.CommandLine
	runner   launch.Runner
	dumpDir  string
	cooldown time.Duration
	resolve  ResolveFunc
	confirm  ConfirmFunc
	prompt   PromptFunc
	announce AnnounceFunc
	preview  PreviewFunc
	logger   *slog.Logger

	interruptible atomic.Bool
	paused        atomic.Bool
	jobs          chan injection
	resume        chan struct{}
}

// New validates the configuration and builds an orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Template == nil {
		return nil, errors.New("render: template command line required")
	}
	if cfg.Runner == nil {
		return nil, errors.New("render: runner required")
	}
	if cfg.Resolve == nil {
		return nil, errors.New("render: resolve function required")
	}
	if strings.TrimSpace(cfg.DumpDir) == "" {
		return nil, errors.New("render: dump dir required")
	}
	o := &Orchestrator{
		template: cfg.Template,
		runner:   cfg.Runner,
		dumpDir:  cfg.DumpDir,
		cooldown: cfg.Cooldown,
		resolve:  cfg.Resolve,
		confirm:  cfg.Confirm,
		prompt:   cfg.Prompt,
		announce: cfg.Announce,
		preview:  cfg.Preview,
		logger:   logging.WithComponent(cfg.Logger, "render"),
		jobs:     make(chan injection, 16),
		resume:   make(chan struct{}, 1),
	}
	if o.confirm == nil {
		o.confirm = func(string) error { return nil }
	}
	if o.prompt == nil {
		o.prompt = func() (string, error) { return "", nil }
	}
	if o.announce == nil {
		o.announce = func([]Job) {}
	}
	if o.preview == nil {
		o.preview = func(int, *cmdline.CommandLine) {}
	}
	return o, nil
}

// Run consumes the queue strictly first-in first-out until it is empty or a
// job fails. Jobs injected during cooldowns land at the tail. The dump
// directory is locked for the duration so two batches cannot interleave
// output files.
func (o *Orchestrator) Run(ctx context.Context, initial []Job) error {
	if len(initial) == 0 {
		return nil
	}

	if err := os.MkdirAll(o.dumpDir, 0o755); err != nil {
		return fmt.Errorf("create dump dir: %w", err)
	}
	lock := flock.New(filepath.Join(o.dumpDir, lockFileName))
	held, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire render lock: %w", err)
	}
	if !held {
		return fmt.Errorf("%w: %s", ErrBatchLocked, o.dumpDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			o.logger.Warn("failed to release render lock", logging.Error(err))
		}
	}()

	pending := slices.Clone(initial)
	index := 1
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		o.announce(slices.Clone(pending))
		job := pending[0]
		pending = pending[1:]

		if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
			return fmt.Errorf("create output dir for %s: %w", job.Label, err)
		}

		cmd := o.template.Clone()
		cmd.Push(1, "-timedemo")
		cmd.Push(2, job.SourcePath)
		cmd.Push(1, "-viddump")
		cmd.Push(2, job.OutputPath)
		o.preview(index, cmd)

		if index == 1 {
			prompt := "Press enter to begin rendering."
			if len(pending) > 0 {
				prompt = "Press enter to begin batch rendering."
			}
			if err := o.confirm(prompt); err != nil {
				return fmt.Errorf("confirmation: %w", err)
			}
		} else {
			if err := o.coolDown(ctx); err != nil {
				return err
			}
			pending = append(pending, o.drainInjected()...)
		}

		o.logger.Info("rendering demo",
			logging.String("job", job.ID),
			logging.String("demo", job.SourcePath),
			logging.String("video", job.OutputPath))
		if err := o.runner.Run(ctx, cmd.Words()); err != nil {
			return fmt.Errorf("render %s: %w", job.Label, err)
		}
		index++
	}

	o.logger.Info("render queue drained")
	return nil
}

// coolDown sleeps the fixed inter-job delay with interrupts armed. The sleep
// always runs to completion; an interrupt layers a pause on top of it rather
// than cutting it short.
func (o *Orchestrator) coolDown(ctx context.Context) error {
	// Clear any stale resume token from a pause that outlived its cooldown.
	select {
	case <-o.resume:
	default:
	}

	o.interruptible.Store(true)
	defer o.interruptible.Store(false)

	o.logger.Info("cooldown before next job",
		logging.Duration("delay", o.cooldown),
		logging.String("hint", "press Ctrl-C to add more demos to the queue"))
	time.Sleep(o.cooldown)

	if o.paused.Load() {
		select {
		case <-o.resume:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (o *Orchestrator) drainInjected() []Job {
	var injected []Job
	for {
		select {
		case msg := <-o.jobs:
			if msg.err != nil {
				o.logger.Error("discarding injected demo names", logging.Error(msg.err))
				continue
			}
			injected = append(injected, msg.jobs...)
		default:
			return injected
		}
	}
}

// Interruptible reports whether an interrupt would currently be honored.
func (o *Orchestrator) Interruptible() bool {
	return o.interruptible.Load()
}

// HandleInterrupt services one operator interrupt from the signal goroutine.
// It returns false when the queue is not interruptible right now, in which
// case the caller decides what the interrupt means (usually: exit).
//
// While honored, it collects one line of demo names, resolves each, and
// sends either the complete set of new jobs or a single error over the job
// channel. A resolution failure discards the entire entered batch; pending
// jobs are never affected.
func (o *Orchestrator) HandleInterrupt() bool {
	if !o.interruptible.Load() {
		return false
	}

	o.paused.Store(true)
	defer func() {
		o.paused.Store(false)
		o.resume <- struct{}{}
	}()

	line, err := o.prompt()
	if err != nil {
		o.jobs <- injection{err: fmt.Errorf("%w: %v", ErrInterruptInput, err)}
		return true
	}
	names := strings.Fields(line)
	if len(names) == 0 {
		o.logger.Info("no demo names entered")
		return true
	}

	var injected []Job
	for _, name := range names {
		paths, err := o.resolve(name)
		if err != nil {
			o.jobs <- injection{err: fmt.Errorf("%w: %q: %v", ErrInterruptInput, name, err)}
			return true
		}
		for _, path := range paths {
			injected = append(injected, NewJob(path, o.dumpDir))
		}
	}
	o.jobs <- injection{jobs: injected}
	return true
}
