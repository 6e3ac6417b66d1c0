package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"doomctl/internal/launch"
	"doomctl/internal/loadout"
	"doomctl/internal/logging"
)

// runLaunch previews the assembled command line and starts the engine once.
// A non-zero engine exit is reported, not treated as a launcher failure.
func runLaunch(logger *slog.Logger, ui *console, runner launch.Runner, lo *loadout.Loadout) error {
	fmt.Println(lo.Command.Display())
	fmt.Println()
	if err := ui.confirm(fmt.Sprintf("Launch %s?", lo.Engine.Name)); err != nil {
		return err
	}

	err := runner.Run(context.Background(), lo.Command.Words())
	if errors.Is(err, launch.ErrChildExit) {
		logger.Warn("engine exited with an error", logging.Error(err))
		return nil
	}
	return err
}
