package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"doomctl/internal/cmdline"
	"doomctl/internal/config"
	"doomctl/internal/launch"
	"doomctl/internal/loadout"
	"doomctl/internal/render"
	"doomctl/internal/wadsearch"
)

// runRender resolves the requested demos into a job queue and drives the
// batch. SIGINT inside a cooldown opens the add-more-demos prompt; anywhere
// else it stops the program.
func runRender(cfg *config.Config, logger *slog.Logger, resolver *wadsearch.Resolver, ui *console, runner launch.Runner, lo *loadout.Loadout, names string) error {
	if !lo.Engine.Viddump {
		return fmt.Errorf("engine %q cannot render video (no -viddump support)", lo.Engine.Name)
	}
	dumpDir := lo.DumpDir(cfg.Paths.DumpDir)

	resolveDemo := func(name string) ([]string, error) {
		paths, err := resolver.Resolve(wadsearch.Request{Name: name, Category: wadsearch.Demo})
		if err != nil {
			return nil, err
		}
		if len(paths) > 1 {
			return ui.choose(name, paths)
		}
		return paths, nil
	}

	var jobs []render.Job
	for _, name := range strings.Split(names, ":") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		paths, err := resolveDemo(name)
		if err != nil {
			return err
		}
		for _, path := range paths {
			jobs = append(jobs, render.NewJob(path, dumpDir))
		}
	}
	if len(jobs) == 0 {
		return errors.New("no demos to render")
	}

	orch, err := render.New(render.Config{
		Template: lo.Command,
		Runner:   runner,
		DumpDir:  dumpDir,
		Cooldown: cfg.Cooldown(),
		Resolve:  resolveDemo,
		Confirm:  ui.confirm,
		Prompt:   ui.promptDemoNames,
		Announce: announceQueue,
		Preview:  previewJob,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			if !orch.HandleInterrupt() {
				fmt.Println("\nStopping.")
				os.Exit(130)
			}
		}
	}()

	return orch.Run(context.Background(), jobs)
}

func announceQueue(pending []render.Job) {
	rows := make([][]string, 0, len(pending))
	for i, job := range pending {
		rows = append(rows, []string{strconv.Itoa(i + 1), job.SourcePath, job.OutputPath})
	}
	fmt.Println("Render queue:")
	fmt.Println(renderTable(
		[]string{"#", "Demo", "Video"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
}

func previewJob(index int, cmd *cmdline.CommandLine) {
	fmt.Printf("Job %d:\n%s\n\n", index, cmd.Display())
}
