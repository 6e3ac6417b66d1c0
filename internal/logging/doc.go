// Package logging builds the slog loggers used across the launcher.
//
// Two handler formats are supported: a compact console format intended for a
// terminal, and JSON for anyone piping the output elsewhere. The console
// handler treats the "component" attribute specially, rendering it as a
// message prefix so resolver and queue traces stay readable.
package logging
