package loadout

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"doomctl/internal/autoload"
	"doomctl/internal/cmdline"
	"doomctl/internal/config"
	"doomctl/internal/engine"
	"doomctl/internal/logging"
	"doomctl/internal/wadsearch"
)

// WADExtensions is the acceptance allow-list for PWAD-category lookups.
var WADExtensions = []string{"wad", "deh", "bex", "pk3", "pk7", "pke", "zip"}

// dehExtensions classifies resolved files into the -deh argument group;
// everything else in the allow-list loads through -file (or -merge).
var dehExtensions = map[string]struct{}{"deh": {}, "bex": {}}

// Options captures the per-invocation choices. Empty strings fall back to
// the configured defaults.
type Options struct {
	Engine         string
	IWAD           string
	PWADs          []string
	ExtraPWADs     []string
	VanillaWeapons bool
	SoundPack3P    bool
	Complevel      string
	Skill          string
	Warp           []string
	Geometry       string
	VideoMode      string
	NoMonsters     bool
	Fast           bool
	Respawn        bool
	PistolStart    bool
	ShortTics      bool
	Record         string
	RecordFromTo   []string
	PlayDemo       string
	Debug          bool
	Passthrough    []string
}

// Chooser disambiguates a multi-candidate resolution. It receives the search
// term and the ranked candidates and returns the chosen subset.
type Chooser func(term string, options []string) ([]string, error)

// FirstChoice is the non-interactive Chooser: it takes the best-ranked
// candidate.
func FirstChoice(_ string, options []string) ([]string, error) {
	if len(options) == 0 {
		return nil, errors.New("no candidates to choose from")
	}
	return options[:1], nil
}

// Loadout is a fully assembled invocation plus the context batch rendering
// needs: which engine runs, which IWAD loads, and the PWAD stems that name
// the output directory.
type Loadout struct {
	Command   *cmdline.CommandLine
	Engine    engine.Descriptor
	IWADPath  string
	PWADStems []string
}

// DumpDir returns the video output directory for this loadout under root:
// root/<iwad file name>/<pwad stems joined by comma>.
func (l *Loadout) DumpDir(root string) string {
	return filepath.Join(root, filepath.Base(l.IWADPath), strings.Join(l.PWADStems, ","))
}

// Builder assembles command lines from options, resolving every asset name
// through the shared resolver.
type Builder struct {
	cfg      *config.Config
	resolver *wadsearch.Resolver
	engines  engine.Registry
	loads    autoload.Autoloads
	choose   Chooser
	logger   *slog.Logger
}

// NewBuilder wires a builder. A nil chooser falls back to FirstChoice.
func NewBuilder(cfg *config.Config, resolver *wadsearch.Resolver, engines engine.Registry, loads autoload.Autoloads, choose Chooser, logger *slog.Logger) *Builder {
	if choose == nil {
		choose = FirstChoice
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		cfg:      cfg,
		resolver: resolver,
		engines:  engines,
		loads:    loads,
		choose:   choose,
		logger:   logging.WithComponent(logger, "loadout"),
	}
}

// assets collects resolved files split by argument group.
type assets struct {
	wads []string
	dehs []string
}

func (a *assets) add(paths ...string) {
	for _, path := range paths {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := dehExtensions[ext]; ok {
			a.dehs = append(a.dehs, path)
		} else {
			a.wads = append(a.wads, path)
		}
	}
}

// Build assembles the full command line for the given options.
func (b *Builder) Build(opts Options) (*Loadout, error) {
	engineName := opts.Engine
	if engineName == "" {
		engineName = b.cfg.Game.Engine
	}
	desc, ok := b.engines.Lookup(engineName)
	if !ok {
		return nil, fmt.Errorf("unknown sourceport %q (known: %s)", engineName, strings.Join(b.engines.Names(), ", "))
	}

	iwadName := opts.IWAD
	if iwadName == "" {
		iwadName = b.cfg.Game.IWAD
	}
	iwadPath, err := b.resolveFirst(iwadName, wadsearch.IWAD, nil)
	if err != nil {
		return nil, fmt.Errorf("iwad: %w", err)
	}
	iwadStem := strings.ToLower(stem(iwadPath))

	cmd := cmdline.New()
	if opts.Debug {
		cmd.Push(0, "/usr/bin/lldb")
	}
	cmd.Push(0, desc.Binary)
	if opts.Debug {
		cmd.Push(0, "--")
	}
	if len(desc.RequiredArgs) > 0 {
		cmd.Push(1, desc.RequiredArgs...)
	}
	cmd.Push(1, "-iwad", iwadPath)

	var files assets
	b.addWidescreenAssets(&files, desc, iwadStem)
	if err := b.addFixWADs(&files, iwadStem); err != nil {
		return nil, err
	}
	if err := b.addAutoloads(&files, desc, iwadStem); err != nil {
		return nil, err
	}

	pwadStems, err := b.addRequestedPWADs(&files, opts.PWADs)
	if err != nil {
		return nil, err
	}
	for _, name := range opts.ExtraPWADs {
		paths, err := b.resolver.Resolve(wadsearch.Request{Name: name, Category: wadsearch.PWAD})
		if err != nil {
			return nil, fmt.Errorf("extra pwad: %w", err)
		}
		// Silent extras load normally but stay out of the dump folder name.
		files.add(paths...)
	}

	if opts.VanillaWeapons {
		if err := b.addByName(&files, "vsmooth.wad"); err != nil {
			return nil, err
		}
		if err := b.addByName(&files, "vsmooth.deh"); err != nil {
			return nil, err
		}
	}
	if opts.SoundPack3P {
		path, err := b.resolveFirst("3P Sound Pack.wad", wadsearch.PWAD, nil)
		if err != nil {
			return nil, fmt.Errorf("3p sound pack: %w", err)
		}
		files.add(path)
	}

	if len(files.wads) > 0 {
		fileFlag := "-file"
		if desc.MergeAssets {
			fileFlag = "-merge"
		}
		cmd.Push(1, fileFlag)
		for _, wad := range files.wads {
			cmd.Push(2, wad)
		}
	}
	if len(files.dehs) > 0 {
		cmd.Push(1, "-deh")
		for _, deh := range files.dehs {
			cmd.Push(2, deh)
		}
	}

	complevel := opts.Complevel
	if complevel == "" {
		complevel = b.cfg.Game.Complevel
	}
	cmd.Push(1, "-complevel", complevel)

	if opts.PistolStart {
		if !desc.PistolStart {
			b.logger.Warn("engine may not support pistol starts", logging.String("engine", desc.Name))
		}
		cmd.Push(1, "-pistolstart")
	}

	videoMode := opts.VideoMode
	if videoMode == "" {
		videoMode = b.cfg.Game.VideoMode
	}
	cmd.Push(1, "-vidmode", videoMode)

	geometry := opts.Geometry
	if geometry == "" {
		geometry = b.cfg.Game.Geometry
	}
	cmd.Push(1, "-geom", geometry)

	if err := b.addDemoOptions(cmd, opts); err != nil {
		return nil, err
	}

	skillFlag, skillDefault := "-skill", "4"
	if desc.Kind == engine.KindZDoom {
		skillFlag, skillDefault = "+skill", "3"
	}
	if len(opts.Warp) > 0 {
		cmd.Push(1, append([]string{"-warp"}, opts.Warp...)...)
	}
	if opts.Skill != "" {
		cmd.Push(1, skillFlag, opts.Skill)
	} else if len(opts.Warp) > 0 {
		cmd.Push(1, skillFlag, skillDefault)
	}

	if opts.NoMonsters {
		cmd.Push(1, "-nomonsters")
	}
	if opts.Fast {
		cmd.Push(1, "-fast")
	}
	if opts.Respawn {
		cmd.Push(1, "-respawn")
	}
	for _, arg := range opts.Passthrough {
		cmd.Push(1, arg)
	}

	return &Loadout{
		Command:   cmd,
		Engine:    desc,
		IWADPath:  iwadPath,
		PWADStems: pwadStems,
	}, nil
}

func (b *Builder) addWidescreenAssets(files *assets, desc engine.Descriptor, iwadStem string) {
	if !desc.WidescreenAssets {
		return
	}
	paths, err := b.resolver.Resolve(wadsearch.Request{
		Name:     iwadStem + "_widescreen_assets.wad",
		Category: wadsearch.PWAD,
	})
	if err != nil {
		b.logger.Info("no widescreen assets found", logging.String("iwad", friendlyIWADName(iwadStem)))
		return
	}
	files.add(paths...)
}

// addFixWADs loads the community sprite and dehacked fixes matching the IWAD
// family.
func (b *Builder) addFixWADs(files *assets, iwadStem string) error {
	var spriteFix, dehFix string
	switch iwadStem {
	case "doom2", "tnt", "plutonia":
		spriteFix, dehFix = "d2spfx19.wad", "d2dehfix.deh"
	case "doom":
		spriteFix, dehFix = "d1spfx19.wad", "d1dehfix.deh"
	default:
		return nil
	}
	if err := b.addByName(files, spriteFix); err != nil {
		return err
	}
	return b.addByName(files, dehFix)
}

func (b *Builder) addAutoloads(files *assets, desc engine.Descriptor, iwadStem string) error {
	for _, name := range b.loads.ForGame(stem(desc.Binary), iwadStem) {
		path, err := b.resolveFirst(name, wadsearch.PWAD, wadsearch.AcceptExtensions(WADExtensions...))
		if err != nil {
			return fmt.Errorf("autoload: %w", err)
		}
		files.add(path)
	}
	return nil
}

// addRequestedPWADs resolves every --pwads entry and returns the stems that
// name the render output directory. Every admissible candidate loads, which
// matches the launcher's historic behavior for ambiguous names.
func (b *Builder) addRequestedPWADs(files *assets, names []string) ([]string, error) {
	var stems []string
	for _, name := range names {
		paths, err := b.resolver.Resolve(wadsearch.Request{
			Name:     name,
			Category: wadsearch.PWAD,
			Accept:   wadsearch.AcceptExtensions(WADExtensions...),
		})
		if err != nil {
			return nil, fmt.Errorf("pwad: %w", err)
		}
		for _, path := range paths {
			stems = append(stems, stem(path))
		}
		files.add(paths...)
	}
	return stems, nil
}

func (b *Builder) addDemoOptions(cmd *cmdline.CommandLine, opts Options) error {
	if opts.Record != "" {
		demoPath := opts.Record
		if !filepath.IsAbs(demoPath) {
			demoPath = filepath.Join(b.cfg.Paths.DemoDir, demoPath)
		}
		cmd.Push(1, "-record")
		cmd.Push(2, demoPath)
		if !opts.ShortTics {
			cmd.Push(1, "-longtics")
		}
	} else if opts.ShortTics {
		cmd.Push(1, "-shorttics")
	}

	if len(opts.RecordFromTo) == 2 {
		cmd.Push(1, "-recordfromto")
		cmd.Push(2, opts.RecordFromTo...)
	}

	if opts.PlayDemo != "" {
		paths, err := b.resolver.Resolve(wadsearch.Request{Name: opts.PlayDemo, Category: wadsearch.Demo})
		if err != nil {
			return fmt.Errorf("demo: %w", err)
		}
		if len(paths) > 1 {
			paths, err = b.choose(opts.PlayDemo, paths)
			if err != nil {
				return fmt.Errorf("demo selection: %w", err)
			}
		}
		if len(paths) == 0 {
			return fmt.Errorf("%w: %q", wadsearch.ErrNotFound, opts.PlayDemo)
		}
		cmd.Push(1, "-playdemo")
		cmd.Push(2, paths[0])
	}
	return nil
}

// addByName resolves a fixed support-file name and loads every candidate.
func (b *Builder) addByName(files *assets, name string) error {
	paths, err := b.resolver.Resolve(wadsearch.Request{Name: name, Category: wadsearch.PWAD})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	files.add(paths...)
	return nil
}

func (b *Builder) resolveFirst(name string, category wadsearch.Category, accept func(string) bool) (string, error) {
	paths, err := b.resolver.Resolve(wadsearch.Request{Name: name, Category: category, Accept: accept})
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(paths[0])
	if err != nil {
		return "", fmt.Errorf("absolutize %q: %w", paths[0], err)
	}
	return abs, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var iwadTitles = map[string]string{
	"doom":     "Doom",
	"doom2":    "Doom 2",
	"tnt":      "TNT: Evilution",
	"plutonia": "The Plutonia Experiment",
}

func friendlyIWADName(iwadStem string) string {
	if title, ok := iwadTitles[iwadStem]; ok {
		return title
	}
	return cases.Title(language.English).String(iwadStem)
}
