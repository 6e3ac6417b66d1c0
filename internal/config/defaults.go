package config

const (
	defaultDoomDir         = "~/doom"
	defaultDemoDir         = "~/doom/demo"
	defaultDumpDir         = "~/Videos"
	defaultEngine          = "dsda-doom"
	defaultIWAD            = "doom2"
	defaultComplevel       = "9"
	defaultVideoMode       = "GL"
	defaultGeometry        = "2560x1440F"
	defaultCooldownSeconds = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DoomDir: defaultDoomDir,
			DemoDir: defaultDemoDir,
			DumpDir: defaultDumpDir,
		},
		Game: Game{
			Engine:    defaultEngine,
			IWAD:      defaultIWAD,
			Complevel: defaultComplevel,
			VideoMode: defaultVideoMode,
			Geometry:  defaultGeometry,
		},
		Render: Render{
			CooldownSeconds: defaultCooldownSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
