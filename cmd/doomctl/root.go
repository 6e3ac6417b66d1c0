package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"doomctl/internal/autoload"
	"doomctl/internal/config"
	"doomctl/internal/engine"
	"doomctl/internal/launch"
	"doomctl/internal/loadout"
	"doomctl/internal/logging"
	"doomctl/internal/wadsearch"
)

// options is the flag surface, bound once on the root command.
type options struct {
	configPath string
	logLevel   string
	logFormat  string

	engine         string
	iwad           string
	pwads          []string
	extraPWADs     []string
	complevel      string
	skill          string
	warp           []string
	geometry       string
	videoMode      string
	noMonsters     bool
	fast           bool
	respawn        bool
	pistolStart    bool
	shortTics      bool
	vanillaWeapons bool
	soundPack3P    bool
	record         string
	recordFromTo   []string
	playDemo       string
	renderDemos    string
	debug          bool
}

func newRootCommand() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "doomctl [flags] [-- passthrough args]",
		Short:         "Doom sourceport launcher and demo renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Configuration file path")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (console, json)")

	flags.StringVarP(&opts.engine, "engine", "e", "", "Sourceport to launch")
	flags.StringVarP(&opts.iwad, "iwad", "i", "", "IWAD name or path")
	flags.StringSliceVarP(&opts.pwads, "pwads", "p", nil, "PWAD names or paths")
	flags.StringSliceVarP(&opts.extraPWADs, "extra-pwads", "x", nil, "Extra PWADs kept out of the render folder name")
	flags.StringVarP(&opts.complevel, "compatibility-level", "c", "", "Compatibility level")
	flags.StringVarP(&opts.skill, "skill", "s", "", "Skill level")
	flags.StringSliceVarP(&opts.warp, "warp", "w", nil, "Warp to map (episode,map or map)")
	flags.StringVarP(&opts.geometry, "geometry", "g", "", "Window geometry")
	flags.StringVarP(&opts.videoMode, "video-mode", "v", "", "Video mode")
	flags.BoolVar(&opts.noMonsters, "no-monsters", false, "Start without monsters")
	flags.BoolVar(&opts.fast, "fast", false, "Fast monsters")
	flags.BoolVar(&opts.respawn, "respawn", false, "Respawning monsters")
	flags.BoolVar(&opts.pistolStart, "pistol-start", false, "Pistol-start every map")
	flags.BoolVar(&opts.shortTics, "short-tics", false, "Record with short tics")
	flags.BoolVar(&opts.vanillaWeapons, "vanilla-weapons", false, "Load the smooth vanilla weapon set")
	flags.BoolVar(&opts.soundPack3P, "3p", false, "Load the 3P sound pack")
	flags.StringVarP(&opts.record, "record", "r", "", "Record a demo to this name")
	flags.StringSliceVar(&opts.recordFromTo, "record-from-to", nil, "Continue recording: source demo, new demo")
	flags.StringVarP(&opts.playDemo, "play-demo", "d", "", "Play back a demo")
	flags.StringVarP(&opts.renderDemos, "render", "R", "", "Render demos to video, names separated by ':'")
	flags.BoolVarP(&opts.debug, "debug", "G", false, "Run the engine under lldb")

	return rootCmd
}

func run(opts options, passthrough []string) error {
	if opts.renderDemos != "" && (opts.record != "" || opts.playDemo != "") {
		return errors.New("--render cannot be combined with --record or --play-demo")
	}

	cfg, cfgPath, cfgExists, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, opts)
	if err != nil {
		return err
	}
	if cfgExists {
		logger.Debug("configuration loaded", logging.String("path", cfgPath))
	} else {
		logger.Debug("no configuration file, using defaults", logging.String("path", cfgPath))
	}

	engines, err := engine.Load(filepath.Join(cfg.Paths.DoomDir, "engines.json"))
	if err != nil {
		return err
	}
	loads, err := autoload.Load(filepath.Join(cfg.Paths.DoomDir, "autoloads.json"))
	if err != nil {
		return err
	}

	resolver := wadsearch.NewResolver(map[wadsearch.Category][]string{
		wadsearch.IWAD: cfg.Paths.IWADDirs,
		wadsearch.PWAD: cfg.Paths.PWADDirs,
		wadsearch.Demo: cfg.Paths.DemoDirs,
	}, logger)

	ui := newConsole()
	builder := loadout.NewBuilder(cfg, resolver, engines, loads, ui.choose, logger)

	lo, err := builder.Build(loadout.Options{
		Engine:         opts.engine,
		IWAD:           opts.iwad,
		PWADs:          opts.pwads,
		ExtraPWADs:     opts.extraPWADs,
		VanillaWeapons: opts.vanillaWeapons,
		SoundPack3P:    opts.soundPack3P,
		Complevel:      opts.complevel,
		Skill:          opts.skill,
		Warp:           opts.warp,
		Geometry:       opts.geometry,
		VideoMode:      opts.videoMode,
		NoMonsters:     opts.noMonsters,
		Fast:           opts.fast,
		Respawn:        opts.respawn,
		PistolStart:    opts.pistolStart,
		ShortTics:      opts.shortTics,
		Record:         opts.record,
		RecordFromTo:   opts.recordFromTo,
		PlayDemo:       opts.playDemo,
		Debug:          opts.debug,
		Passthrough:    passthrough,
	})
	if err != nil {
		return err
	}

	runner := launch.NewLocal(logger)
	if opts.renderDemos != "" {
		return runRender(cfg, logger, resolver, ui, runner, lo, opts.renderDemos)
	}
	return runLaunch(logger, ui, runner, lo)
}

func newLogger(cfg *config.Config, opts options) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	format := cfg.Logging.Format
	if opts.logFormat != "" {
		format = opts.logFormat
	}
	return logging.New(logging.Options{Level: level, Format: format, Writer: os.Stderr})
}
