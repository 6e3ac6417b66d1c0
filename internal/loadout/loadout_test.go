package loadout_test

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"doomctl/internal/autoload"
	"doomctl/internal/config"
	"doomctl/internal/engine"
	"doomctl/internal/loadout"
	"doomctl/internal/testsupport"
	"doomctl/internal/wadsearch"
)

type fixture struct {
	cfg     *config.Config
	builder *loadout.Builder
	doomDir string
}

func newFixture(t *testing.T, loads autoload.Autoloads, choose loadout.Chooser) *fixture {
	t.Helper()
	cfg := testsupport.Config(t, t.TempDir())

	// Base game data every doom2-family launch needs.
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DoomDir, "doom2.wad"), 16)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DoomDir, "d2spfx19.wad"), 16)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.DoomDir, "d2dehfix.deh"), 16)

	resolver := wadsearch.NewResolver(map[wadsearch.Category][]string{
		wadsearch.IWAD: cfg.Paths.IWADDirs,
		wadsearch.PWAD: cfg.Paths.PWADDirs,
		wadsearch.Demo: cfg.Paths.DemoDirs,
	}, nil)

	registry, err := engine.Load(filepath.Join(cfg.Paths.DoomDir, "engines.json"))
	if err != nil {
		t.Fatalf("load engines: %v", err)
	}

	return &fixture{
		cfg:     cfg,
		builder: loadout.NewBuilder(cfg, resolver, registry, loads, choose, nil),
		doomDir: cfg.Paths.DoomDir,
	}
}

func indexOf(words []string, word string) int {
	return slices.Index(words, word)
}

func TestBuildDefaultLoadout(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)

	l, err := f.builder.Build(loadout.Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	words := l.Command.Words()

	if words[0] != "dsda-doom" {
		t.Fatalf("expected engine binary first, got %q", words[0])
	}
	iwadIdx := indexOf(words, "-iwad")
	if iwadIdx < 0 || words[iwadIdx+1] != filepath.Join(f.doomDir, "doom2.wad") {
		t.Fatalf("iwad argument missing or wrong: %v", words)
	}
	if idx := indexOf(words, "-file"); idx < 0 {
		t.Fatalf("expected sprite fix in -file group: %v", words)
	}
	if idx := indexOf(words, "-deh"); idx < 0 || !strings.HasSuffix(words[idx+1], "d2dehfix.deh") {
		t.Fatalf("expected dehacked fix in -deh group: %v", words)
	}
	compIdx := indexOf(words, "-complevel")
	if compIdx < 0 || words[compIdx+1] != "9" {
		t.Fatalf("expected default complevel: %v", words)
	}
	if l.IWADPath != filepath.Join(f.doomDir, "doom2.wad") {
		t.Fatalf("iwad path mismatch: %s", l.IWADPath)
	}
}

func TestBuildResolvesRequestedPWADs(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)
	testsupport.WriteFile(t, filepath.Join(f.doomDir, "sunlust.wad"), 16)

	l, err := f.builder.Build(loadout.Options{PWADs: []string{"sunlust"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	words := l.Command.Words()
	if indexOf(words, filepath.Join(f.doomDir, "sunlust.wad")) < 0 {
		t.Fatalf("expected sunlust.wad in command: %v", words)
	}
	if !slices.Contains(l.PWADStems, "sunlust") {
		t.Fatalf("expected sunlust stem recorded, got %v", l.PWADStems)
	}
}

func TestBuildExtraPWADsStayOutOfStems(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)
	testsupport.WriteFile(t, filepath.Join(f.doomDir, "hudfix.wad"), 16)

	l, err := f.builder.Build(loadout.Options{ExtraPWADs: []string{"hudfix"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if indexOf(l.Command.Words(), filepath.Join(f.doomDir, "hudfix.wad")) < 0 {
		t.Fatal("extra pwad should load")
	}
	if len(l.PWADStems) != 0 {
		t.Fatalf("silent extras must not name the dump dir, got %v", l.PWADStems)
	}
}

func TestBuildAutoloadsResolve(t *testing.T) {
	testLoads := autoload.Autoloads{
		Universal: []string{"always.wad"},
		IWAD:      map[string][]string{"doom2": {"d2only.deh"}},
	}
	f := newFixture(t, testLoads, nil)
	testsupport.WriteFile(t, filepath.Join(f.doomDir, "always.wad"), 16)
	testsupport.WriteFile(t, filepath.Join(f.doomDir, "d2only.deh"), 16)

	l, err := f.builder.Build(loadout.Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	words := l.Command.Words()
	if indexOf(words, filepath.Join(f.doomDir, "always.wad")) < 0 {
		t.Fatalf("universal autoload missing: %v", words)
	}
	dehIdx := indexOf(words, "-deh")
	if dehIdx < 0 || indexOf(words[dehIdx:], filepath.Join(f.doomDir, "d2only.deh")) < 0 {
		t.Fatalf("iwad autoload should land in -deh group: %v", words)
	}
}

func TestBuildZDoomSkillDialect(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)

	l, err := f.builder.Build(loadout.Options{Engine: "gzdoom", Warp: []string{"07"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	words := l.Command.Words()
	idx := indexOf(words, "+skill")
	if idx < 0 || words[idx+1] != "3" {
		t.Fatalf("expected zdoom skill dialect with default skill: %v", words)
	}
	if indexOf(words, "-warp") < 0 {
		t.Fatalf("warp flag missing: %v", words)
	}
}

func TestBuildBoomSkillDefaultOnlyWithWarp(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)

	l, err := f.builder.Build(loadout.Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if indexOf(l.Command.Words(), "-skill") >= 0 {
		t.Fatalf("skill should be absent without --warp or --skill: %v", l.Command.Words())
	}

	l, err = f.builder.Build(loadout.Options{Warp: []string{"01"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	words := l.Command.Words()
	idx := indexOf(words, "-skill")
	if idx < 0 || words[idx+1] != "4" {
		t.Fatalf("expected boom default skill 4 with warp: %v", words)
	}
}

func TestBuildRecordDefaultsToDemoDir(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)

	l, err := f.builder.Build(loadout.Options{Record: "attempt1"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	words := l.Command.Words()
	idx := indexOf(words, "-record")
	if idx < 0 || words[idx+1] != filepath.Join(f.cfg.Paths.DemoDir, "attempt1") {
		t.Fatalf("record path should land in demo dir: %v", words)
	}
	if indexOf(words, "-longtics") < 0 {
		t.Fatalf("recording defaults to longtics: %v", words)
	}
}

func TestBuildShortTicsWithoutRecord(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)

	l, err := f.builder.Build(loadout.Options{ShortTics: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if indexOf(l.Command.Words(), "-shorttics") < 0 {
		t.Fatalf("expected -shorttics: %v", l.Command.Words())
	}
}

func TestBuildPlayDemoUsesChooser(t *testing.T) {
	var chosenTerm string
	choose := func(term string, options []string) ([]string, error) {
		chosenTerm = term
		return options[len(options)-1:], nil
	}
	f := newFixture(t, autoload.Autoloads{}, choose)
	testsupport.WriteFile(t, filepath.Join(f.cfg.Paths.DemoDir, "uvmax.lmp"), 16)
	testsupport.WriteFile(t, filepath.Join(f.cfg.Paths.DemoDir, "old", "uvmax.lmp"), 16)

	l, err := f.builder.Build(loadout.Options{PlayDemo: "uvmax"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if chosenTerm != "uvmax" {
		t.Fatalf("chooser should receive the search term, got %q", chosenTerm)
	}
	if indexOf(l.Command.Words(), "-playdemo") < 0 {
		t.Fatalf("playdemo flag missing: %v", l.Command.Words())
	}
}

func TestBuildUnknownEngine(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)

	if _, err := f.builder.Build(loadout.Options{Engine: "quakespasm"}); err == nil {
		t.Fatal("expected error for unknown sourceport")
	}
}

func TestBuildDebugWrapsInDebugger(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)

	l, err := f.builder.Build(loadout.Options{Debug: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	words := l.Command.Words()
	if words[0] != "/usr/bin/lldb" || words[1] != "dsda-doom" || words[2] != "--" {
		t.Fatalf("expected lldb wrapper prefix, got %v", words[:3])
	}
}

func TestBuildMergeStyleEngine(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)

	l, err := f.builder.Build(loadout.Options{Engine: "crispy-doom"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	words := l.Command.Words()
	if indexOf(words, "-merge") < 0 {
		t.Fatalf("merge-style engine should use -merge: %v", words)
	}
	if indexOf(words, "-file") >= 0 {
		t.Fatalf("merge-style engine should not use -file: %v", words)
	}
}

func TestDumpDirLayout(t *testing.T) {
	f := newFixture(t, autoload.Autoloads{}, nil)
	testsupport.WriteFile(t, filepath.Join(f.doomDir, "sunlust.wad"), 16)

	l, err := f.builder.Build(loadout.Options{PWADs: []string{"sunlust"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := filepath.Join("/videos", "doom2.wad", "sunlust")
	if got := l.DumpDir("/videos"); got != want {
		t.Fatalf("dump dir mismatch: got %s want %s", got, want)
	}
}
