package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"doomctl/internal/config"
)

// Config returns a launcher configuration rooted under base with the
// directories created and the render cooldown disabled.
func Config(t testing.TB, base string) *config.Config {
	t.Helper()

	doomDir := filepath.Join(base, "doom")
	demoDir := filepath.Join(doomDir, "demo")
	dumpDir := filepath.Join(base, "videos")
	for _, dir := range []string{doomDir, demoDir, dumpDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	cfg := config.Default()
	cfg.Paths.DoomDir = doomDir
	cfg.Paths.DemoDir = demoDir
	cfg.Paths.DumpDir = dumpDir
	cfg.Paths.IWADDirs = []string{doomDir}
	cfg.Paths.PWADDirs = []string{doomDir}
	cfg.Paths.DemoDirs = []string{demoDir, doomDir}
	cfg.Render.CooldownSeconds = 0
	return &cfg
}
