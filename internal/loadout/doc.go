// Package loadout turns launch options into a complete engine command line:
// engine selection, IWAD resolution, support and autoload PWADs, and every
// gameplay, demo, and rendering flag the launcher exposes.
package loadout
