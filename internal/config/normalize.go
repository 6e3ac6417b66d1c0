package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGame()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DoomDir, err = expandPath(c.Paths.DoomDir); err != nil {
		return fmt.Errorf("paths.doom_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DemoDir) == "" {
		c.Paths.DemoDir = defaultDemoDir
	}
	if c.Paths.DemoDir, err = expandPath(c.Paths.DemoDir); err != nil {
		return fmt.Errorf("paths.demo_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DumpDir) == "" {
		c.Paths.DumpDir = defaultDumpDir
	}
	if c.Paths.DumpDir, err = expandPath(c.Paths.DumpDir); err != nil {
		return fmt.Errorf("paths.dump_dir: %w", err)
	}

	if c.Paths.IWADDirs, err = c.normalizeRoots("paths.iwad_dirs", c.Paths.IWADDirs, c.Paths.DoomDir); err != nil {
		return err
	}
	if c.Paths.PWADDirs, err = c.normalizeRoots("paths.pwad_dirs", c.Paths.PWADDirs, c.Paths.DoomDir); err != nil {
		return err
	}
	if c.Paths.DemoDirs, err = c.normalizeRoots("paths.demo_dirs", c.Paths.DemoDirs, c.Paths.DemoDir, c.Paths.DoomDir); err != nil {
		return err
	}
	return nil
}

// normalizeRoots expands each configured root and falls back to the given
// defaults when the list is empty. Order is preserved; the first root is
// searched first.
func (c *Config) normalizeRoots(field string, roots []string, fallback ...string) ([]string, error) {
	if len(roots) == 0 {
		roots = fallback
	}
	expanded := make([]string, 0, len(roots))
	for _, root := range roots {
		if strings.TrimSpace(root) == "" {
			continue
		}
		abs, err := expandPath(root)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		expanded = append(expanded, abs)
	}
	return expanded, nil
}

func (c *Config) normalizeGame() {
	c.Game.Engine = strings.TrimSpace(c.Game.Engine)
	if c.Game.Engine == "" {
		c.Game.Engine = defaultEngine
	}
	c.Game.IWAD = strings.TrimSpace(c.Game.IWAD)
	if c.Game.IWAD == "" {
		c.Game.IWAD = defaultIWAD
	}
	if strings.TrimSpace(c.Game.Complevel) == "" {
		c.Game.Complevel = defaultComplevel
	}
	if strings.TrimSpace(c.Game.VideoMode) == "" {
		c.Game.VideoMode = defaultVideoMode
	}
	if strings.TrimSpace(c.Game.Geometry) == "" {
		c.Game.Geometry = defaultGeometry
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
