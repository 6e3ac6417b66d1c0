// Package cmdline models a multi-line, indented engine command line
// independent of its final rendering: flat argv for process invocation,
// indented text for preview, or an escaped line for shell scripts.
package cmdline
