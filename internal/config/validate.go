package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the launcher cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DoomDir) == "" {
		return fmt.Errorf("paths.doom_dir must not be empty")
	}
	if len(c.Paths.IWADDirs) == 0 {
		return fmt.Errorf("paths.iwad_dirs resolved to an empty list")
	}
	if len(c.Paths.PWADDirs) == 0 {
		return fmt.Errorf("paths.pwad_dirs resolved to an empty list")
	}
	if len(c.Paths.DemoDirs) == 0 {
		return fmt.Errorf("paths.demo_dirs resolved to an empty list")
	}
	if c.Render.CooldownSeconds < 0 {
		return fmt.Errorf("render.cooldown_seconds must not be negative")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
