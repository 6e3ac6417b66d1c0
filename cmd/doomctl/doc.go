// Package main hosts the doomctl CLI entrypoint.
//
// The single Cobra root command carries the whole flag surface: it loads the
// configuration, resolves every requested asset through the shared resolver,
// assembles the engine command line, and either launches the engine once or
// drives a batch demo-rendering queue.
//
// Keep this package lean: resolution, loadout assembly, and queue mechanics
// live in the internal packages; this layer only binds flags, prompts the
// operator, and wires signals.
package main
